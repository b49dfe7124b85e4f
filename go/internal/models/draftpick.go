package models

import (
	"time"

	"github.com/google/uuid"
)

// PickSlot represents a single turn in the overall pick sequence.
type PickSlot struct {
	ID              uuid.UUID  `json:"id"`
	Round           int        `json:"round"`
	Pick            int        `json:"pick"`         // pick number in the round
	OverallPick     int        `json:"overall_pick"` // pick number overall
	OriginalOwnerID string     `json:"original_owner_id"`
	OwnerID         string     `json:"owner_id"`
	CandidateID     *string    `json:"candidate_id,omitempty"` // nil until picked
	PickedAt        *time.Time `json:"picked_at,omitempty"`
	Traded          bool       `json:"traded"`
}

// Used reports whether a candidate has been selected with this slot.
func (s PickSlot) Used() bool {
	return s.CandidateID != nil
}

// HistoryEntry is the immutable record of a committed selection.
type HistoryEntry struct {
	ID            uuid.UUID `json:"id"`
	Round         int       `json:"round"`
	Pick          int       `json:"pick"`
	OverallPick   int       `json:"overall_pick"`
	ParticipantID string    `json:"participant_id"`
	CandidateID   string    `json:"candidate_id"`
	Auto          bool      `json:"auto"`
	Timestamp     time.Time `json:"timestamp"`
}
