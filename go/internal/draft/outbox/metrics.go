package outbox

import (
	"context"
	"sync"
	"time"

	"github.com/mcdev12/mockdraft/go/internal/draft/events"
)

// MetricsCollector defines the interface for collecting relay metrics
type MetricsCollector interface {
	RecordEventProcessed(eventType events.EventType, success bool, duration time.Duration)
	RecordPublishAttempt(eventType events.EventType, attempt int, success bool)
	RecordEventDropped(eventType events.EventType)
}

// NoOpMetricsCollector is a no-op implementation for when metrics aren't needed
type NoOpMetricsCollector struct{}

func (NoOpMetricsCollector) RecordEventProcessed(events.EventType, bool, time.Duration) {}
func (NoOpMetricsCollector) RecordPublishAttempt(events.EventType, int, bool)           {}
func (NoOpMetricsCollector) RecordEventDropped(events.EventType)                        {}

// MetricPublisher wraps an EventPublisher with metrics collection
type MetricPublisher struct {
	publisher EventPublisher
	metrics   MetricsCollector
}

func NewMetricPublisher(publisher EventPublisher, metrics MetricsCollector) *MetricPublisher {
	return &MetricPublisher{
		publisher: publisher,
		metrics:   metrics,
	}
}

func (p *MetricPublisher) Publish(ctx context.Context, event OutboxEvent) error {
	start := time.Now()
	err := p.publisher.Publish(ctx, event)
	p.metrics.RecordEventProcessed(event.EventType, err == nil, time.Since(start))
	return err
}

// Counts is a snapshot of CounterMetrics for one event type.
type Counts struct {
	Published int
	Failed    int
	Attempts  int
	Dropped   int
}

// CounterMetrics keeps per-event-type counters in memory.
type CounterMetrics struct {
	mu     sync.Mutex
	counts map[events.EventType]*Counts
}

func NewCounterMetrics() *CounterMetrics {
	return &CounterMetrics{counts: make(map[events.EventType]*Counts)}
}

func (m *CounterMetrics) entry(t events.EventType) *Counts {
	c, ok := m.counts[t]
	if !ok {
		c = &Counts{}
		m.counts[t] = c
	}
	return c
}

func (m *CounterMetrics) RecordEventProcessed(eventType events.EventType, success bool, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if success {
		m.entry(eventType).Published++
	} else {
		m.entry(eventType).Failed++
	}
}

func (m *CounterMetrics) RecordPublishAttempt(eventType events.EventType, _ int, _ bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entry(eventType).Attempts++
}

func (m *CounterMetrics) RecordEventDropped(eventType events.EventType) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entry(eventType).Dropped++
}

// Snapshot copies the current counters.
func (m *CounterMetrics) Snapshot() map[events.EventType]Counts {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[events.EventType]Counts, len(m.counts))
	for k, v := range m.counts {
		out[k] = *v
	}
	return out
}
