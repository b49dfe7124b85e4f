// Package valuation maps overall pick numbers to trade value.
//
// The first 32 picks use a fixed tier chart. Later picks decay exponentially
// toward Floor, so the curve never increases and never goes negative.
package valuation

import "math"

const (
	// Floor is the value every late pick approaches.
	Floor = 1.0
	// DecayRate controls how quickly value falls past the charted picks.
	DecayRate = 0.045
)

// chart holds the charted value of picks 1..len(chart).
var chart = [...]float64{
	3000, 2600, 2200, 1800, 1700, 1600, 1500, 1400,
	1350, 1300, 1250, 1200, 1150, 1100, 1050, 1000,
	950, 900, 875, 850, 800, 780, 760, 740,
	720, 700, 680, 660, 640, 620, 600, 590,
}

// ChartedPicks is the number of picks with a tabulated value.
const ChartedPicks = len(chart)

// Value returns the trade value of an overall pick. Picks below 1 are treated as pick 1.
func Value(overallPick int) float64 {
	if overallPick < 1 {
		overallPick = 1
	}
	if overallPick <= ChartedPicks {
		return chart[overallPick-1]
	}
	last := chart[ChartedPicks-1]
	beyond := float64(overallPick - ChartedPicks)
	return Floor + (last-Floor)*math.Exp(-DecayRate*beyond)
}

// FutureFirstValue prices a next-year first-round pick as the middle of round one.
func FutureFirstValue(participantCount int) float64 {
	if participantCount < 1 {
		participantCount = 1
	}
	return Value((participantCount + 1) / 2)
}
