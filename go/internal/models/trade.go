package models

import (
	"time"

	"github.com/google/uuid"
)

// TradeAsset is one side's contribution to a trade. Future assets are not in the live sequence.
type TradeAsset struct {
	OverallPick int     `json:"overall_pick,omitempty"`
	Round       int     `json:"round,omitempty"`
	Value       float64 `json:"value"`
	Future      bool    `json:"future"`
	Label       string  `json:"label"`
}

// TradeProposal offers the proposer's assets for the receiver's target slot.
type TradeProposal struct {
	ID                uuid.UUID    `json:"id"`
	TargetOverallPick int          `json:"target_overall_pick"`
	FromParticipantID string       `json:"from_participant_id"`
	ToParticipantID   string       `json:"to_participant_id"`
	Offered           []TradeAsset `json:"offered"`
	Requested         []TradeAsset `json:"requested"`
	OfferedValue      float64      `json:"offered_value"`
	RequestedValue    float64      `json:"requested_value"`
	CreatedAt         time.Time    `json:"created_at"`
}

// IncludesFuture reports whether the offer was padded with a future pick.
func (p TradeProposal) IncludesFuture() bool {
	for _, a := range p.Offered {
		if a.Future {
			return true
		}
	}
	return false
}

// ConcretePicks returns every live overall pick referenced by the proposal.
func (p TradeProposal) ConcretePicks() []int {
	picks := make([]int, 0, len(p.Offered)+len(p.Requested))
	for _, a := range p.Offered {
		if !a.Future {
			picks = append(picks, a.OverallPick)
		}
	}
	for _, a := range p.Requested {
		if !a.Future {
			picks = append(picks, a.OverallPick)
		}
	}
	return picks
}
