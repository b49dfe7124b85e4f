package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/mockdraft/go/internal/draft/events"
)

// OutboxEvent is one engine notification waiting to be published.
type OutboxEvent struct {
	ID        uuid.UUID        `json:"id"`
	DraftID   uuid.UUID        `json:"draft_id"`
	EventType events.EventType `json:"event_type"`
	Payload   json.RawMessage  `json:"payload"`
	CreatedAt time.Time        `json:"created_at"`
	SentAt    *time.Time       `json:"sent_at,omitempty"`
}

// EventPublisher delivers events to a bus.
type EventPublisher interface {
	Publish(ctx context.Context, event OutboxEvent) error
}

// Envelope is the wire shape of a published event.
type Envelope struct {
	EventID   string           `json:"eventId"`
	EventType events.EventType `json:"eventType"`
	DraftID   string           `json:"draftId"`
	Timestamp time.Time        `json:"timestamp"`
	Payload   json.RawMessage  `json:"payload"`
}

// NewEvent marshals payload into a new OutboxEvent.
func NewEvent(draftID uuid.UUID, eventType events.EventType, payload any, now time.Time) (OutboxEvent, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return OutboxEvent{}, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	return OutboxEvent{
		ID:        uuid.New(),
		DraftID:   draftID,
		EventType: eventType,
		Payload:   data,
		CreatedAt: now,
	}, nil
}

// EnvelopeFor wraps event for the wire.
func EnvelopeFor(event OutboxEvent) Envelope {
	return Envelope{
		EventID:   event.ID.String(),
		EventType: event.EventType,
		DraftID:   event.DraftID.String(),
		Timestamp: event.CreatedAt.UTC(),
		Payload:   event.Payload,
	}
}
