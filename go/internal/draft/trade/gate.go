package trade

import "github.com/mcdev12/mockdraft/go/internal/models"

// Base gate probabilities for the fixed frequency modes.
const (
	rareProbability       = 0.05
	occasionalProbability = 0.15
	frequentProbability   = 0.30
)

// Tuning for the realistic mode. Early rounds and premium picks see more activity.
const (
	realisticBase       = 0.22
	realisticRoundDecay = 0.03
	realisticMin        = 0.02
	realisticTop32Bonus = 0.10
	realisticTop10Bonus = 0.08
	realisticMax        = 0.5
)

// Probability returns the chance that a proposal is generated for the pick on the clock.
func Probability(mode models.TradeFrequency, round, overallPick int) float64 {
	switch mode {
	case models.TradeFrequencyRare:
		return rareProbability
	case models.TradeFrequencyOccasional:
		return occasionalProbability
	case models.TradeFrequencyFrequent:
		return frequentProbability
	case models.TradeFrequencyRealistic:
		p := realisticBase - realisticRoundDecay*float64(round-1)
		if p < realisticMin {
			p = realisticMin
		}
		if overallPick <= 32 {
			p += realisticTop32Bonus
		}
		if overallPick <= 10 {
			p += realisticTop10Bonus
		}
		if p > realisticMax {
			p = realisticMax
		}
		return p
	default:
		return 0
	}
}

// ShouldPropose draws once from rng against Probability.
func ShouldPropose(mode models.TradeFrequency, round, overallPick int, rng Rand) bool {
	p := Probability(mode, round, overallPick)
	if p <= 0 {
		return false
	}
	return rng.Float64() < p
}
