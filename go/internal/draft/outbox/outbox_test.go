package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/mockdraft/go/internal/draft/events"
	"github.com/mcdev12/mockdraft/go/internal/models"
)

type memoryPublisher struct {
	mu        sync.Mutex
	published []OutboxEvent
	failures  int
	gate      chan struct{}
	received  chan struct{}
}

func (p *memoryPublisher) Publish(ctx context.Context, event OutboxEvent) error {
	if p.received != nil {
		p.received <- struct{}{}
	}
	if p.gate != nil {
		<-p.gate
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failures > 0 {
		p.failures--
		return errors.New("bus unavailable")
	}
	p.published = append(p.published, event)
	return nil
}

func (p *memoryPublisher) events() []OutboxEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]OutboxEvent(nil), p.published...)
}

type sliceQueue struct {
	events []OutboxEvent
}

func (q *sliceQueue) Enqueue(event OutboxEvent) bool {
	q.events = append(q.events, event)
	return true
}

func testEvent(t *testing.T, eventType events.EventType) OutboxEvent {
	t.Helper()
	ev, err := NewEvent(uuid.New(), eventType, map[string]int{"n": 1}, time.Now())
	require.NoError(t, err)
	return ev
}

func testRelayConfig() Config {
	return Config{BufferSize: 16, MaxRetries: 3, RetryDelay: time.Millisecond}
}

func TestRelay_PublishesInOrder(t *testing.T) {
	pub := &memoryPublisher{}
	relay := NewRelay(pub, testRelayConfig(), nil, nil)
	require.NoError(t, relay.Start(context.Background()))

	var want []uuid.UUID
	for i := 0; i < 10; i++ {
		ev := testEvent(t, events.EventTypePickMade)
		want = append(want, ev.ID)
		require.True(t, relay.Enqueue(ev))
	}
	require.NoError(t, relay.Stop())

	var got []uuid.UUID
	for _, ev := range pub.events() {
		got = append(got, ev.ID)
	}
	assert.Equal(t, want, got)
	assert.Error(t, relay.Stop())
}

func TestRelay_RetriesThenSucceeds(t *testing.T) {
	pub := &memoryPublisher{failures: 2}
	metrics := NewCounterMetrics()
	relay := NewRelay(pub, testRelayConfig(), metrics, nil)
	require.NoError(t, relay.Start(context.Background()))

	require.True(t, relay.Enqueue(testEvent(t, events.EventTypeTradeAccepted)))
	require.NoError(t, relay.Stop())

	assert.Len(t, pub.events(), 1)
	counts := metrics.Snapshot()[events.EventTypeTradeAccepted]
	assert.Equal(t, Counts{Published: 1, Failed: 2, Attempts: 3}, counts)
}

func TestRelay_GivesUpAfterMaxRetries(t *testing.T) {
	pub := &memoryPublisher{failures: 100}
	metrics := NewCounterMetrics()
	cfg := testRelayConfig()
	cfg.MaxRetries = 1
	relay := NewRelay(pub, cfg, metrics, nil)
	require.NoError(t, relay.Start(context.Background()))

	require.True(t, relay.Enqueue(testEvent(t, events.EventTypePickMade)))
	require.NoError(t, relay.Stop())

	assert.Empty(t, pub.events())
	assert.Equal(t, Counts{Failed: 2, Attempts: 2}, metrics.Snapshot()[events.EventTypePickMade])
}

func TestRelay_DropsWhenStoppedOrFull(t *testing.T) {
	metrics := NewCounterMetrics()
	pub := &memoryPublisher{gate: make(chan struct{}), received: make(chan struct{}, 4)}
	cfg := testRelayConfig()
	cfg.BufferSize = 1
	relay := NewRelay(pub, cfg, metrics, nil)

	assert.False(t, relay.Enqueue(testEvent(t, events.EventTypeTimerTick)))

	require.NoError(t, relay.Start(context.Background()))
	require.True(t, relay.Enqueue(testEvent(t, events.EventTypeTimerTick)))
	<-pub.received
	require.True(t, relay.Enqueue(testEvent(t, events.EventTypeTimerTick)))
	assert.False(t, relay.Enqueue(testEvent(t, events.EventTypeTimerTick)))

	close(pub.gate)
	require.NoError(t, relay.Stop())

	assert.Len(t, pub.events(), 2)
	assert.Equal(t, 2, metrics.Snapshot()[events.EventTypeTimerTick].Dropped)
}

func TestEnvelopeFor(t *testing.T) {
	ev := testEvent(t, events.EventTypeDraftStarted)
	data, err := json.Marshal(EnvelopeFor(ev))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, ev.ID.String(), decoded["eventId"])
	assert.Equal(t, "DraftStarted", decoded["eventType"])
	assert.Equal(t, ev.DraftID.String(), decoded["draftId"])
	assert.Equal(t, map[string]any{"n": float64(1)}, decoded["payload"])
	assert.Equal(t, "draft.events.DraftStarted", SubjectFor("draft.events", ev))
}

func TestEmitter(t *testing.T) {
	draftID := uuid.New()
	queue := &sliceQueue{}
	fc := clockwork.NewFakeClock()
	lookup := func(id string) (models.Candidate, bool) {
		return models.Candidate{ID: id, Name: "Sam Runner", Category: "RB"}, id == "c-01"
	}
	emitter := NewEmitter(func() uuid.UUID { return draftID }, queue, fc, 60, lookup)

	emitter.PickMade(models.HistoryEntry{ParticipantID: "team-1", CandidateID: "c-01", OverallPick: 1, Round: 1, Pick: 1})
	require.Len(t, queue.events, 1)
	ev := queue.events[0]
	assert.Equal(t, events.EventTypePickMade, ev.EventType)
	assert.Equal(t, draftID, ev.DraftID)

	var payload events.PickMadePayload
	require.NoError(t, json.Unmarshal(ev.Payload, &payload))
	assert.Equal(t, "Sam Runner", payload.CandidateName)
	assert.Equal(t, "RB", payload.Category)
	assert.Equal(t, 1, payload.OverallPick)

	slot := models.PickSlot{OverallPick: 3, OwnerID: "team-3"}
	for _, remaining := range []int{59, 50, 12, 5, 1, 0} {
		emitter.TimerTick(slot, remaining)
	}
	var ticks []int
	for _, ev := range queue.events[1:] {
		var tick events.TimerTickPayload
		require.NoError(t, json.Unmarshal(ev.Payload, &tick))
		ticks = append(ticks, tick.TimeRemainingSec)
	}
	assert.Equal(t, []int{50, 5, 1, 0}, ticks)

	emitter.TradeProposed(nil)
	assert.Len(t, queue.events, 5)
	emitter.DraftHalted(errors.New("no candidates available"))
	assert.Equal(t, events.EventTypeDraftHalted, queue.events[5].EventType)
}
