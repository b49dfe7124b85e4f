package events

import (
	"time"

	"github.com/mcdev12/mockdraft/go/internal/models"
)

// Event payload types shared by the orchestrator and the outbox relay

// EventType names a draft event on the bus.
type EventType string

const (
	EventTypeDraftStarted   EventType = "DraftStarted"
	EventTypePickStarted    EventType = "PickStarted"
	EventTypePickMade       EventType = "PickMade"
	EventTypeTradeProposed  EventType = "TradeProposed"
	EventTypeTradeAccepted  EventType = "TradeAccepted"
	EventTypeDraftCompleted EventType = "DraftCompleted"
	EventTypeDraftHalted    EventType = "DraftHalted"
	EventTypeTimerTick      EventType = "TimerTick"
)

// DraftStartedPayload is the payload for a DraftStarted event
type DraftStartedPayload struct {
	DraftID     string    `json:"draft_id"`
	DraftType   string    `json:"draft_type"`
	StartedAt   time.Time `json:"started_at"`
	TotalRounds int       `json:"total_rounds"`
	TotalPicks  int       `json:"total_picks"`
}

// PickStartedPayload is the payload for a PickStarted event
type PickStartedPayload struct {
	PickID         string    `json:"pick_id"`
	ParticipantID  string    `json:"participant_id"`
	Round          int       `json:"round"`
	Pick           int       `json:"pick"`
	OverallPick    int       `json:"overall_pick"`
	StartedAt      time.Time `json:"started_at"`
	TimePerPickSec int       `json:"time_per_pick_sec"`
}

// PickMadePayload is the payload for a PickMade event
type PickMadePayload struct {
	ParticipantID string    `json:"participant_id"`
	CandidateID   string    `json:"candidate_id"`
	CandidateName string    `json:"candidate_name,omitempty"`
	Category      string    `json:"category,omitempty"`
	Round         int       `json:"round"`
	Pick          int       `json:"pick"`
	OverallPick   int       `json:"overall_pick"`
	Auto          bool      `json:"auto"`
	MadeAt        time.Time `json:"made_at"`
}

// TradeProposedPayload is the payload for a TradeProposed event
type TradeProposedPayload struct {
	OverallPick int                    `json:"overall_pick"`
	Proposals   []models.TradeProposal `json:"proposals"`
}

// TradeAcceptedPayload is the payload for a TradeAccepted event
type TradeAcceptedPayload struct {
	Proposal   models.TradeProposal `json:"proposal"`
	AcceptedAt time.Time            `json:"accepted_at"`
}

// DraftCompletedPayload is the payload for a DraftCompleted event
type DraftCompletedPayload struct {
	DraftID     string         `json:"draft_id"`
	CompletedAt time.Time      `json:"completed_at"`
	TotalPicks  int            `json:"total_picks"`
	Grades      []models.Grade `json:"grades"`
}

// DraftHaltedPayload is the payload for a DraftHalted event
type DraftHaltedPayload struct {
	DraftID  string    `json:"draft_id"`
	HaltedAt time.Time `json:"halted_at"`
	Reason   string    `json:"reason"`
}

// TimerTickPayload contains periodic timer updates
type TimerTickPayload struct {
	OverallPick      int       `json:"overall_pick"`
	ParticipantID    string    `json:"participant_id"`
	TimeRemainingSec int       `json:"time_remaining_sec"`
	TickedAt         time.Time `json:"ticked_at"`
}
