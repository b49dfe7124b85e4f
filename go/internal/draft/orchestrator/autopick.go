package orchestrator

import (
	"github.com/mcdev12/mockdraft/go/internal/draft/trade"
	"github.com/mcdev12/mockdraft/go/internal/models"
)

// Need multipliers applied to a candidate's grade when its category fills an unmet need.
const (
	HighNeedMultiplier   = 1.3
	MediumNeedMultiplier = 1.15
	LowNeedMultiplier    = 1.05
)

// AutoPickStrategy chooses a candidate for a participant that is not picking for itself.
type AutoPickStrategy interface {
	// Decide returns the candidate to select from available, which is in pool order.
	Decide(participant models.Participant, unmetNeeds []models.Need, available []models.Candidate) (models.Candidate, error)
}

// NeedBasedStrategy takes the best grade after weighting by unmet needs.
// Ties go to the candidate earlier in the pool, so the choice is deterministic.
type NeedBasedStrategy struct{}

// Decide implements AutoPickStrategy.
func (NeedBasedStrategy) Decide(participant models.Participant, unmetNeeds []models.Need, available []models.Candidate) (models.Candidate, error) {
	if len(available) == 0 {
		return models.Candidate{}, ErrNoCandidatesAvailable
	}
	best := 0
	bestScore := Score(available[0], unmetNeeds)
	for i := 1; i < len(available); i++ {
		if s := Score(available[i], unmetNeeds); s > bestScore {
			best, bestScore = i, s
		}
	}
	return available[best], nil
}

// Score is grade times the multiplier of the most urgent unmet need the candidate fills.
func Score(c models.Candidate, unmetNeeds []models.Need) float64 {
	return c.Grade * NeedMultiplier(c.Category, unmetNeeds)
}

// NeedMultiplier returns 1.0 when category fills no unmet need.
func NeedMultiplier(category string, unmetNeeds []models.Need) float64 {
	m := 1.0
	for _, n := range unmetNeeds {
		if n.Category != category {
			continue
		}
		var v float64
		switch n.Priority {
		case models.NeedPriorityHigh:
			v = HighNeedMultiplier
		case models.NeedPriorityMedium:
			v = MediumNeedMultiplier
		case models.NeedPriorityLow:
			v = LowNeedMultiplier
		}
		if v > m {
			m = v
		}
	}
	return m
}

// RandomStrategy uses random choice for the candidate.
type RandomStrategy struct {
	rng trade.Rand
}

// NewRandomStrategy constructs a RandomStrategy drawing from rng.
func NewRandomStrategy(rng trade.Rand) *RandomStrategy {
	return &RandomStrategy{rng: rng}
}

// Decide implements AutoPickStrategy.
func (s *RandomStrategy) Decide(_ models.Participant, _ []models.Need, available []models.Candidate) (models.Candidate, error) {
	if len(available) == 0 {
		return models.Candidate{}, ErrNoCandidatesAvailable
	}
	return available[s.rng.Intn(len(available))], nil
}
