package outbox

import (
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/mockdraft/go/internal/draft/events"
	"github.com/mcdev12/mockdraft/go/internal/models"
)

// Enqueuer accepts events for publishing.
type Enqueuer interface {
	Enqueue(event OutboxEvent) bool
}

// Emitter turns engine notifications into outbox events.
type Emitter struct {
	draftID        func() uuid.UUID
	queue          Enqueuer
	clock          clockwork.Clock
	timePerPickSec int
	candidate      func(id string) (models.Candidate, bool)
}

// NewEmitter creates an Emitter. draftID is read on every event so that a reset
// run publishes under its new id. candidate may be nil.
func NewEmitter(draftID func() uuid.UUID, queue Enqueuer, clock clockwork.Clock, timePerPickSec int, candidate func(string) (models.Candidate, bool)) *Emitter {
	return &Emitter{
		draftID:        draftID,
		queue:          queue,
		clock:          clock,
		timePerPickSec: timePerPickSec,
		candidate:      candidate,
	}
}

func (e *Emitter) emit(eventType events.EventType, payload any) {
	event, err := NewEvent(e.draftID(), eventType, payload, e.clock.Now())
	if err != nil {
		log.Error().Err(err).Str("event_type", string(eventType)).Msg("failed to build outbox event")
		return
	}
	e.queue.Enqueue(event)
}

func (e *Emitter) DraftStarted(settings models.DraftSettings, totalPicks int) {
	e.emit(events.EventTypeDraftStarted, events.DraftStartedPayload{
		DraftID:     e.draftID().String(),
		DraftType:   string(settings.DraftType),
		StartedAt:   e.clock.Now(),
		TotalRounds: settings.Rounds,
		TotalPicks:  totalPicks,
	})
}

func (e *Emitter) PickStarted(slot models.PickSlot) {
	e.emit(events.EventTypePickStarted, events.PickStartedPayload{
		PickID:         slot.ID.String(),
		ParticipantID:  slot.OwnerID,
		Round:          slot.Round,
		Pick:           slot.Pick,
		OverallPick:    slot.OverallPick,
		StartedAt:      e.clock.Now(),
		TimePerPickSec: e.timePerPickSec,
	})
}

func (e *Emitter) PickMade(entry models.HistoryEntry) {
	payload := events.PickMadePayload{
		ParticipantID: entry.ParticipantID,
		CandidateID:   entry.CandidateID,
		Round:         entry.Round,
		Pick:          entry.Pick,
		OverallPick:   entry.OverallPick,
		Auto:          entry.Auto,
		MadeAt:        entry.Timestamp,
	}
	if e.candidate != nil {
		if c, ok := e.candidate(entry.CandidateID); ok {
			payload.CandidateName = c.Name
			payload.Category = c.Category
		}
	}
	e.emit(events.EventTypePickMade, payload)
}

func (e *Emitter) TradeProposed(proposals []models.TradeProposal) {
	if len(proposals) == 0 {
		return
	}
	e.emit(events.EventTypeTradeProposed, events.TradeProposedPayload{
		OverallPick: proposals[0].TargetOverallPick,
		Proposals:   proposals,
	})
}

func (e *Emitter) TradeAccepted(p models.TradeProposal) {
	e.emit(events.EventTypeTradeAccepted, events.TradeAcceptedPayload{
		Proposal:   p,
		AcceptedAt: e.clock.Now(),
	})
}

func (e *Emitter) DraftCompleted(grades []models.Grade, totalPicks int) {
	e.emit(events.EventTypeDraftCompleted, events.DraftCompletedPayload{
		DraftID:     e.draftID().String(),
		CompletedAt: e.clock.Now(),
		TotalPicks:  totalPicks,
		Grades:      grades,
	})
}

func (e *Emitter) DraftHalted(err error) {
	e.emit(events.EventTypeDraftHalted, events.DraftHaltedPayload{
		DraftID:  e.draftID().String(),
		HaltedAt: e.clock.Now(),
		Reason:   err.Error(),
	})
}

// TimerTick publishes the countdown for slot. Only every tenth second and the
// final five are emitted.
func (e *Emitter) TimerTick(slot models.PickSlot, remaining int) {
	if remaining > 5 && remaining%10 != 0 {
		return
	}
	e.emit(events.EventTypeTimerTick, events.TimerTickPayload{
		OverallPick:      slot.OverallPick,
		ParticipantID:    slot.OwnerID,
		TimeRemainingSec: remaining,
		TickedAt:         e.clock.Now(),
	})
}

