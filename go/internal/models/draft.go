package models

// DraftType defines how the base order is applied round by round.
type DraftType string

const (
	DraftTypeLinear DraftType = "LINEAR"
	DraftTypeSnake  DraftType = "SNAKE"
)

// DraftStatus defines the status of a draft run.
type DraftStatus string

const (
	DraftStatusNotStarted DraftStatus = "NOT_STARTED"
	DraftStatusInProgress DraftStatus = "IN_PROGRESS"
	DraftStatusCompleted  DraftStatus = "COMPLETED"
)

// TradeFrequency selects how often trade proposals are generated.
type TradeFrequency string

const (
	TradeFrequencyRare       TradeFrequency = "rare"
	TradeFrequencyOccasional TradeFrequency = "occasional"
	TradeFrequencyFrequent   TradeFrequency = "frequent"
	TradeFrequencyRealistic  TradeFrequency = "realistic"
)

// Valid reports whether f is a known frequency mode.
func (f TradeFrequency) Valid() bool {
	switch f {
	case TradeFrequencyRare, TradeFrequencyOccasional, TradeFrequencyFrequent, TradeFrequencyRealistic:
		return true
	}
	return false
}

// DraftSettings holds the configuration of a single simulation run.
//
// Zero values are taken literally. In particular FuturePickProbability 0 means
// offers never include a future pick; DefaultDraftSettings supplies 0.5.
type DraftSettings struct {
	Rounds                int            `json:"rounds" yaml:"rounds"`
	DraftType             DraftType      `json:"draft_type" yaml:"draft_type"`
	ThirdRoundReversal    bool           `json:"third_round_reversal,omitempty" yaml:"third_round_reversal"`
	TradesEnabled         bool           `json:"trades_enabled" yaml:"trades_enabled"`
	TradeFrequency        TradeFrequency `json:"trade_frequency" yaml:"trade_frequency"`
	AutoDecide            bool           `json:"auto_decide" yaml:"auto_decide"`
	TimePerPickSec        int            `json:"time_per_pick_sec" yaml:"time_per_pick_sec"`
	FuturePickProbability float64        `json:"future_pick_probability" yaml:"future_pick_probability"`
	Seed                  int64          `json:"seed,omitempty" yaml:"seed"`
}

// DefaultDraftSettings returns settings for a short linear draft with trades off.
func DefaultDraftSettings() DraftSettings {
	return DraftSettings{
		Rounds:                7,
		DraftType:             DraftTypeLinear,
		TradesEnabled:         false,
		TradeFrequency:        TradeFrequencyRealistic,
		AutoDecide:            true,
		TimePerPickSec:        60,
		FuturePickProbability: 0.5,
	}
}
