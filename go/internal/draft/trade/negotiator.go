// Package trade generates, prices and applies pick-swap proposals.
package trade

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/mockdraft/go/internal/draft/valuation"
	"github.com/mcdev12/mockdraft/go/internal/models"
	"github.com/rs/zerolog/log"
)

// ValueTolerance bounds how far one added slot may overshoot the remaining deficit.
// It is a tuning knob, not a derived constant.
const ValueTolerance = 1.2

// DefaultMaxProposals caps proposals per pick.
const DefaultMaxProposals = 2

// Board is the read-only view of the pick sequence the negotiator needs.
type Board interface {
	CurrentSlot() (models.PickSlot, bool)
	Slot(overallPick int) (models.PickSlot, bool)
	Participants() []models.Participant
	UnusedSlotsOwnedBy(participantID string) []models.PickSlot
}

// Ledger is a Board whose ownership can be changed.
type Ledger interface {
	Board
	ReassignOwner(overallPick int, newOwnerID string) error
}

// Clock stamps proposals.
type Clock interface {
	Now() time.Time
}

// Config tunes proposal generation.
type Config struct {
	Frequency             models.TradeFrequency
	FuturePickProbability float64
	MaxProposals          int
	Weighting             WeightPolicy
}

// Negotiator holds pending proposals for the pick on the clock.
// Propose only reads; every other method must be serialized by the caller.
type Negotiator struct {
	cfg     Config
	rng     Rand
	clock   Clock
	pending []models.TradeProposal
}

// NewNegotiator creates a Negotiator. Missing MaxProposals and Weighting take defaults.
func NewNegotiator(cfg Config, rng Rand, clock Clock) *Negotiator {
	if cfg.MaxProposals <= 0 {
		cfg.MaxProposals = DefaultMaxProposals
	}
	if cfg.Weighting == nil {
		cfg.Weighting = BackHalfWeighting
	}
	return &Negotiator{cfg: cfg, rng: rng, clock: clock}
}

// Propose runs the gate for the current slot and builds 0..MaxProposals proposals
// from sampled partners. Nothing is stored; see Submit.
func (n *Negotiator) Propose(board Board) []models.TradeProposal {
	target, ok := board.CurrentSlot()
	if !ok {
		return nil
	}
	if !ShouldPropose(n.cfg.Frequency, target.Round, target.OverallPick, n.rng) {
		return nil
	}

	participants := board.Participants()
	pool := make([]Partner, 0, len(participants))
	for i, p := range participants {
		if p.ID == target.OwnerID {
			continue
		}
		pool = append(pool, Partner{ID: p.ID, Position: i})
	}

	k := 1 + n.rng.Intn(n.cfg.MaxProposals)
	partners := SamplePartners(pool, len(participants), k, n.cfg.Weighting, n.rng)

	var proposals []models.TradeProposal
	for _, partner := range partners {
		p := n.BuildProposal(partner.ID, target, board)
		if p == nil {
			continue
		}
		proposals = append(proposals, *p)
	}
	return proposals
}

// BuildProposal assembles an offer from proposerID for target.
//
// The cheapest eligible slot anchors the offer. If it does not cover the target,
// slots are added cheapest first while each is worth at most ValueTolerance times
// the remaining deficit, and a future first-round pick may pad what is left.
// This is a greedy heuristic; the offer is not guaranteed to be minimal.
// Returns nil if the proposer owns no unused slot in the target's round or the next.
func (n *Negotiator) BuildProposal(proposerID string, target models.PickSlot, board Board) *models.TradeProposal {
	if proposerID == target.OwnerID {
		return nil
	}
	var eligible []models.PickSlot
	for _, s := range board.UnusedSlotsOwnedBy(proposerID) {
		if s.OverallPick == target.OverallPick {
			continue
		}
		if s.Round == target.Round || s.Round == target.Round+1 {
			eligible = append(eligible, s)
		}
	}
	if len(eligible) == 0 {
		return nil
	}
	sort.SliceStable(eligible, func(i, j int) bool {
		return valuation.Value(eligible[i].OverallPick) < valuation.Value(eligible[j].OverallPick)
	})

	targetValue := valuation.Value(target.OverallPick)
	anchor := eligible[0]
	offered := []models.TradeAsset{slotAsset(anchor)}
	total := valuation.Value(anchor.OverallPick)

	if total < targetValue {
		for _, s := range eligible[1:] {
			deficit := targetValue - total
			if deficit <= 0 {
				break
			}
			v := valuation.Value(s.OverallPick)
			if v > ValueTolerance*deficit {
				break
			}
			offered = append(offered, slotAsset(s))
			total += v
		}
		if total < targetValue && n.rng.Float64() < n.cfg.FuturePickProbability {
			future := valuation.FutureFirstValue(len(board.Participants()))
			offered = append(offered, models.TradeAsset{
				Value:  future,
				Future: true,
				Label:  "Future 1st round pick",
			})
			total += future
		}
	}

	return &models.TradeProposal{
		ID:                uuid.New(),
		TargetOverallPick: target.OverallPick,
		FromParticipantID: proposerID,
		ToParticipantID:   target.OwnerID,
		Offered:           offered,
		Requested:         []models.TradeAsset{slotAsset(target)},
		OfferedValue:      total,
		RequestedValue:    targetValue,
		CreatedAt:         n.clock.Now(),
	}
}

// Submit adds proposals to the pending set.
func (n *Negotiator) Submit(proposals []models.TradeProposal) {
	n.pending = append(n.pending, proposals...)
}

// Pending returns a copy of the pending proposals in submission order.
func (n *Negotiator) Pending() []models.TradeProposal {
	out := make([]models.TradeProposal, len(n.pending))
	copy(out, n.pending)
	return out
}

// Clear drops every pending proposal.
func (n *Negotiator) Clear() {
	n.pending = nil
}

// Accept applies a pending proposal: every concrete slot on each side moves to the
// other side. Future assets carry no ownership. All other proposals for the same
// target, and any referencing a moved slot, are withdrawn.
func (n *Negotiator) Accept(id uuid.UUID, ledger Ledger) (models.TradeProposal, error) {
	idx := n.indexOf(id)
	if idx < 0 {
		return models.TradeProposal{}, fmt.Errorf("%w: %s", ErrProposalNotFound, id)
	}
	p := n.pending[idx]

	if err := validateAgainstBoard(p, ledger); err != nil {
		n.remove(idx)
		return models.TradeProposal{}, err
	}

	for _, a := range p.Requested {
		if a.Future {
			continue
		}
		if err := ledger.ReassignOwner(a.OverallPick, p.FromParticipantID); err != nil {
			return models.TradeProposal{}, fmt.Errorf("reassign pick %d: %w", a.OverallPick, err)
		}
	}
	for _, a := range p.Offered {
		if a.Future {
			continue
		}
		if err := ledger.ReassignOwner(a.OverallPick, p.ToParticipantID); err != nil {
			return models.TradeProposal{}, fmt.Errorf("reassign pick %d: %w", a.OverallPick, err)
		}
	}

	moved := make(map[int]bool)
	for _, pick := range p.ConcretePicks() {
		moved[pick] = true
	}
	kept := n.pending[:0]
	for _, other := range n.pending {
		if other.ID == p.ID || other.TargetOverallPick == p.TargetOverallPick || referencesAny(other, moved) {
			continue
		}
		kept = append(kept, other)
	}
	n.pending = kept

	log.Info().
		Str("proposal_id", p.ID.String()).
		Str("from", p.FromParticipantID).
		Str("to", p.ToParticipantID).
		Int("target_overall_pick", p.TargetOverallPick).
		Float64("offered_value", p.OfferedValue).
		Float64("requested_value", p.RequestedValue).
		Msg("trade accepted")

	return p, nil
}

// Decline withdraws a pending proposal.
func (n *Negotiator) Decline(id uuid.UUID) (models.TradeProposal, error) {
	idx := n.indexOf(id)
	if idx < 0 {
		return models.TradeProposal{}, fmt.Errorf("%w: %s", ErrProposalNotFound, id)
	}
	p := n.pending[idx]
	n.remove(idx)
	return p, nil
}

func (n *Negotiator) indexOf(id uuid.UUID) int {
	for i, p := range n.pending {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (n *Negotiator) remove(idx int) {
	n.pending = append(n.pending[:idx], n.pending[idx+1:]...)
}

func validateAgainstBoard(p models.TradeProposal, board Board) error {
	current, ok := board.CurrentSlot()
	if !ok || current.OverallPick != p.TargetOverallPick {
		return fmt.Errorf("%w: pick %d is no longer on the clock", ErrProposalStale, p.TargetOverallPick)
	}
	check := func(assets []models.TradeAsset, owner string) error {
		for _, a := range assets {
			if a.Future {
				continue
			}
			slot, ok := board.Slot(a.OverallPick)
			if !ok || slot.Used() || slot.OwnerID != owner {
				return fmt.Errorf("%w: pick %d is no longer owned by %s", ErrProposalStale, a.OverallPick, owner)
			}
		}
		return nil
	}
	if err := check(p.Requested, p.ToParticipantID); err != nil {
		return err
	}
	return check(p.Offered, p.FromParticipantID)
}

func referencesAny(p models.TradeProposal, picks map[int]bool) bool {
	for _, pick := range p.ConcretePicks() {
		if picks[pick] {
			return true
		}
	}
	return false
}

func slotAsset(s models.PickSlot) models.TradeAsset {
	return models.TradeAsset{
		OverallPick: s.OverallPick,
		Round:       s.Round,
		Value:       valuation.Value(s.OverallPick),
		Label:       fmt.Sprintf("Round %d, pick %d (#%d)", s.Round, s.Pick, s.OverallPick),
	}
}
