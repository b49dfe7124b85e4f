package trade

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/mockdraft/go/internal/draft/pick"
	"github.com/mcdev12/mockdraft/go/internal/draft/valuation"
	"github.com/mcdev12/mockdraft/go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedRand replays fixed draws, then returns 0.
type scriptedRand struct {
	floats []float64
	ints   []int
}

func (r *scriptedRand) Float64() float64 {
	if len(r.floats) == 0 {
		return 0
	}
	f := r.floats[0]
	r.floats = r.floats[1:]
	return f
}

func (r *scriptedRand) Intn(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[0] % n
	r.ints = r.ints[1:]
	return v
}

func newBoard(t *testing.T, teams, rounds, pool int) *pick.Scheduler {
	t.Helper()
	participants := make([]models.Participant, teams)
	for i := range participants {
		participants[i] = models.Participant{ID: fmt.Sprintf("team-%d", i+1)}
	}
	candidates := make([]models.Candidate, pool)
	for i := range candidates {
		candidates[i] = models.Candidate{ID: fmt.Sprintf("c-%d", i+1), Category: "WR", Grade: 5, Rank: i + 1}
	}
	settings := models.DefaultDraftSettings()
	settings.Rounds = rounds
	s := pick.NewScheduler(clockwork.NewFakeClock())
	require.NoError(t, s.Initialize(participants, candidates, settings))
	return s
}

func newTestNegotiator(rng Rand, freq models.TradeFrequency) *Negotiator {
	return NewNegotiator(Config{Frequency: freq, FuturePickProbability: 0.5}, rng, clockwork.NewFakeClock())
}

func totalSlots(board *pick.Scheduler) int {
	total := 0
	for _, p := range board.Participants() {
		total += len(board.SlotsOwnedBy(p.ID))
	}
	return total
}

func offeredPicks(p *models.TradeProposal) []int {
	var out []int
	for _, a := range p.Offered {
		if !a.Future {
			out = append(out, a.OverallPick)
		}
	}
	return out
}

func TestProbability(t *testing.T) {
	tests := []struct {
		name    string
		mode    models.TradeFrequency
		round   int
		overall int
		want    float64
	}{
		{"rare", models.TradeFrequencyRare, 3, 70, 0.05},
		{"occasional", models.TradeFrequencyOccasional, 1, 1, 0.15},
		{"frequent", models.TradeFrequencyFrequent, 7, 200, 0.30},
		{"realistic top 10", models.TradeFrequencyRealistic, 1, 5, 0.40},
		{"realistic top 32", models.TradeFrequencyRealistic, 1, 20, 0.32},
		{"realistic round 3", models.TradeFrequencyRealistic, 3, 70, 0.16},
		{"realistic floor", models.TradeFrequencyRealistic, 12, 380, 0.02},
		{"unknown", models.TradeFrequency("never"), 1, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Probability(tt.mode, tt.round, tt.overall), 1e-9)
		})
	}
}

func TestRealisticProbabilityFallsWithRound(t *testing.T) {
	for round := 2; round < 15; round++ {
		overall := round * 40
		prev := Probability(models.TradeFrequencyRealistic, round-1, overall)
		assert.LessOrEqual(t, Probability(models.TradeFrequencyRealistic, round, overall), prev)
	}
}

func TestShouldProposeUnknownModeNeverDraws(t *testing.T) {
	rng := &scriptedRand{floats: []float64{0}}
	assert.False(t, ShouldPropose("never", 1, 1, rng))
	assert.Len(t, rng.floats, 1)
}

func TestRareGateOverThousandAdvances(t *testing.T) {
	const advances = 1000
	board := newBoard(t, 4, 260, 1040)
	n := newTestNegotiator(rand.New(rand.NewSource(42)), models.TradeFrequencyRare)

	advancesWithProposals := 0
	proposals := 0
	for i := 0; i < advances; i++ {
		got := n.Propose(board)
		if len(got) > 0 {
			advancesWithProposals++
		}
		proposals += len(got)

		_, err := board.RecordSelection(board.Remaining()[0].ID, "", true)
		require.NoError(t, err)
	}

	// p = 0.05: mean 50, sd ~6.9
	assert.GreaterOrEqual(t, advancesWithProposals, 20)
	assert.LessOrEqual(t, advancesWithProposals, 80)
	assert.GreaterOrEqual(t, proposals, advancesWithProposals)
	assert.LessOrEqual(t, proposals, 2*advancesWithProposals)
}

func TestProposeNeverTargetsOwner(t *testing.T) {
	board := newBoard(t, 6, 3, 0)
	n := newTestNegotiator(rand.New(rand.NewSource(7)), models.TradeFrequencyFrequent)
	for i := 0; i < 200; i++ {
		for _, p := range n.Propose(board) {
			assert.Equal(t, "team-1", p.ToParticipantID)
			assert.NotEqual(t, "team-1", p.FromParticipantID)
			assert.Equal(t, 1, p.TargetOverallPick)
		}
	}
}

func TestBuildProposalAddsSlotsWithinTolerance(t *testing.T) {
	board := newBoard(t, 4, 3, 0)
	n := newTestNegotiator(&scriptedRand{floats: []float64{0.99}}, models.TradeFrequencyFrequent)
	target, _ := board.CurrentSlot()

	p := n.BuildProposal("team-4", target, board)
	require.NotNil(t, p)
	// anchor is pick 8 (1400); pick 4 (1800) fits inside 1.2 x 1600
	assert.Equal(t, []int{8, 4}, offeredPicks(p))
	assert.Equal(t, 3200.0, p.OfferedValue)
	assert.Equal(t, 3000.0, p.RequestedValue)
	assert.False(t, p.IncludesFuture())
	assert.Equal(t, "team-1", p.ToParticipantID)
	require.Len(t, p.Requested, 1)
	assert.Equal(t, 1, p.Requested[0].OverallPick)
}

func TestBuildProposalAnchorCoversTarget(t *testing.T) {
	board := newBoard(t, 4, 2, 0)
	require.NoError(t, board.ReassignOwner(1, "team-3"))
	require.NoError(t, board.ReassignOwner(7, "team-1"))
	target, _ := board.Slot(4)

	n := newTestNegotiator(&scriptedRand{}, models.TradeFrequencyFrequent)
	p := n.BuildProposal("team-3", target, board)
	require.NotNil(t, p)
	assert.Equal(t, []int{3}, offeredPicks(p))
	assert.Equal(t, valuation.Value(3), p.OfferedValue)
}

func TestBuildProposalFuturePick(t *testing.T) {
	board := newBoard(t, 4, 3, 8)
	for i := 0; i < 4; i++ {
		_, err := board.RecordSelection(board.Remaining()[0].ID, "", false)
		require.NoError(t, err)
	}
	target, ok := board.CurrentSlot()
	require.True(t, ok)
	require.Equal(t, 5, target.OverallPick)

	n := newTestNegotiator(&scriptedRand{floats: []float64{0.1}}, models.TradeFrequencyFrequent)
	p := n.BuildProposal("team-2", target, board)
	require.NotNil(t, p)
	assert.Equal(t, []int{10}, offeredPicks(p))
	assert.True(t, p.IncludesFuture())
	assert.Equal(t, valuation.Value(10)+valuation.FutureFirstValue(4), p.OfferedValue)

	n = newTestNegotiator(&scriptedRand{floats: []float64{0.9}}, models.TradeFrequencyFrequent)
	p = n.BuildProposal("team-2", target, board)
	require.NotNil(t, p)
	assert.False(t, p.IncludesFuture())
	assert.Equal(t, valuation.Value(10), p.OfferedValue)
}

func TestBuildProposalNoEligibleSlots(t *testing.T) {
	board := newBoard(t, 4, 3, 0)
	require.NoError(t, board.ReassignOwner(2, "team-1"))
	require.NoError(t, board.ReassignOwner(6, "team-1"))
	target, _ := board.CurrentSlot()

	n := newTestNegotiator(&scriptedRand{}, models.TradeFrequencyFrequent)
	assert.Nil(t, n.BuildProposal("team-2", target, board))
	assert.Nil(t, n.BuildProposal("team-1", target, board))
}

func TestAcceptMovesOwnershipAndClearsOthers(t *testing.T) {
	board := newBoard(t, 4, 3, 0)
	n := newTestNegotiator(&scriptedRand{floats: []float64{0.99, 0.99}}, models.TradeFrequencyFrequent)
	target, _ := board.CurrentSlot()

	first := n.BuildProposal("team-4", target, board)
	second := n.BuildProposal("team-3", target, board)
	require.NotNil(t, first)
	require.NotNil(t, second)
	n.Submit([]models.TradeProposal{*first, *second})

	before := totalSlots(board)
	accepted, err := n.Accept(first.ID, board)
	require.NoError(t, err)
	assert.Equal(t, first.ID, accepted.ID)
	assert.Equal(t, before, totalSlots(board))
	assert.Empty(t, n.Pending())

	current, _ := board.CurrentSlot()
	assert.Equal(t, "team-4", current.OwnerID)
	for _, pick := range offeredPicks(first) {
		slot, _ := board.Slot(pick)
		assert.Equal(t, "team-1", slot.OwnerID)
		assert.True(t, slot.Traded)
	}

	_, err = n.Accept(second.ID, board)
	assert.ErrorIs(t, err, ErrProposalNotFound)
}

func TestAcceptStaleProposal(t *testing.T) {
	board := newBoard(t, 4, 3, 4)
	n := newTestNegotiator(&scriptedRand{floats: []float64{0.99}}, models.TradeFrequencyFrequent)
	target, _ := board.CurrentSlot()
	p := n.BuildProposal("team-4", target, board)
	require.NotNil(t, p)
	n.Submit([]models.TradeProposal{*p})

	require.NoError(t, board.ReassignOwner(8, "team-2"))
	_, err := n.Accept(p.ID, board)
	require.ErrorIs(t, err, ErrProposalStale)
	assert.Empty(t, n.Pending())

	current, _ := board.CurrentSlot()
	assert.Equal(t, "team-1", current.OwnerID)
	slot, _ := board.Slot(4)
	assert.Equal(t, "team-4", slot.OwnerID)
}

func TestAcceptAfterPickResolvedIsStale(t *testing.T) {
	board := newBoard(t, 4, 3, 4)
	n := newTestNegotiator(&scriptedRand{floats: []float64{0.99}}, models.TradeFrequencyFrequent)
	target, _ := board.CurrentSlot()
	p := n.BuildProposal("team-4", target, board)
	require.NotNil(t, p)
	n.Submit([]models.TradeProposal{*p})

	_, err := board.RecordSelection("c-1", "", false)
	require.NoError(t, err)
	_, err = n.Accept(p.ID, board)
	assert.ErrorIs(t, err, ErrProposalStale)
}

func TestDecline(t *testing.T) {
	board := newBoard(t, 4, 3, 0)
	n := newTestNegotiator(&scriptedRand{floats: []float64{0.99}}, models.TradeFrequencyFrequent)
	target, _ := board.CurrentSlot()
	p := n.BuildProposal("team-4", target, board)
	require.NotNil(t, p)
	n.Submit([]models.TradeProposal{*p})

	declined, err := n.Decline(p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, declined.ID)
	assert.Empty(t, n.Pending())
	current, _ := board.CurrentSlot()
	assert.Equal(t, "team-1", current.OwnerID)

	_, err = n.Decline(p.ID)
	assert.ErrorIs(t, err, ErrProposalNotFound)
	_, err = n.Decline(uuid.New())
	assert.ErrorIs(t, err, ErrProposalNotFound)
}

func TestBackHalfWeighting(t *testing.T) {
	assert.Equal(t, 1.0, BackHalfWeighting(0, 4))
	assert.Equal(t, 1.0, BackHalfWeighting(1, 4))
	assert.Equal(t, 2.0, BackHalfWeighting(2, 4))
	assert.Equal(t, 2.0, BackHalfWeighting(3, 4))
	assert.Equal(t, 1.0, BackHalfWeighting(1, 5))
	assert.Equal(t, 2.0, BackHalfWeighting(2, 5))
}

func TestSamplePartnersWithoutReplacement(t *testing.T) {
	pool := []Partner{{"a", 1}, {"b", 2}, {"c", 3}}
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		got := SamplePartners(pool, 4, 2, BackHalfWeighting, rng)
		require.Len(t, got, 2)
		assert.NotEqual(t, got[0].ID, got[1].ID)
	}
	assert.Len(t, SamplePartners(pool, 4, 5, BackHalfWeighting, rng), 3)
	assert.Empty(t, SamplePartners(nil, 4, 2, BackHalfWeighting, rng))
	assert.Len(t, pool, 3)
}

func TestSamplePartnersFollowsWeights(t *testing.T) {
	pool := []Partner{{"front", 1}, {"back-1", 2}, {"back-2", 3}}
	rng := rand.New(rand.NewSource(99))
	counts := make(map[string]int)
	const draws = 10000
	for i := 0; i < draws; i++ {
		counts[SamplePartners(pool, 4, 1, BackHalfWeighting, rng)[0].ID]++
	}
	// weights 1:2:2
	assert.InDelta(t, 0.2, float64(counts["front"])/draws, 0.03)
	assert.InDelta(t, 0.4, float64(counts["back-1"])/draws, 0.03)
	assert.InDelta(t, 0.4, float64(counts["back-2"])/draws, 0.03)
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		offered, requested float64
		verdict            Verdict
		acceptable         bool
	}{
		{3600, 3000, VerdictFavorsReceiver, true},
		{3000, 3000, VerdictFair, true},
		{2800, 3000, VerdictFair, false},
		{1000, 3000, VerdictFavorsProposer, false},
	}
	for _, tt := range tests {
		p := models.TradeProposal{OfferedValue: tt.offered, RequestedValue: tt.requested}
		assert.Equal(t, tt.verdict, Evaluate(p).Verdict)
		assert.Equal(t, tt.acceptable, Acceptable(p))
	}
}
