package outbox

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

type Config struct {
	BufferSize int
	MaxRetries int
	RetryDelay time.Duration
}

func DefaultConfig() Config {
	return Config{
		BufferSize: 256,
		MaxRetries: 3,
		RetryDelay: 500 * time.Millisecond,
	}
}

// Relay publishes enqueued events from a single background worker, in
// enqueue order. Enqueue never blocks: when the buffer is full the event is
// dropped and counted.
type Relay struct {
	publisher EventPublisher
	metrics   MetricsCollector
	config    Config
	clock     clockwork.Clock

	mu      sync.Mutex
	running bool
	events  chan OutboxEvent
	wg      sync.WaitGroup
}

func NewRelay(publisher EventPublisher, cfg Config, metrics MetricsCollector, clock clockwork.Clock) *Relay {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = DefaultConfig().BufferSize
	}
	if metrics == nil {
		metrics = NoOpMetricsCollector{}
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Relay{
		publisher: NewMetricPublisher(publisher, metrics),
		metrics:   metrics,
		config:    cfg,
		clock:     clock,
	}
}

func (r *Relay) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return fmt.Errorf("outbox relay already running")
	}
	r.running = true
	r.events = make(chan OutboxEvent, r.config.BufferSize)

	r.wg.Add(1)
	go r.run(ctx, r.events)

	log.Info().
		Int("buffer_size", r.config.BufferSize).
		Int("max_retries", r.config.MaxRetries).
		Msg("outbox relay started")
	return nil
}

// Stop closes the queue and waits until every buffered event has been handled.
func (r *Relay) Stop() error {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return fmt.Errorf("outbox relay not running")
	}
	r.running = false
	close(r.events)
	r.mu.Unlock()

	r.wg.Wait()
	log.Info().Msg("outbox relay stopped")
	return nil
}

// Enqueue hands event to the worker. It reports false if the event was dropped.
func (r *Relay) Enqueue(event OutboxEvent) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.running {
		r.metrics.RecordEventDropped(event.EventType)
		log.Warn().Str("event_type", string(event.EventType)).Msg("outbox relay not running; dropping event")
		return false
	}
	select {
	case r.events <- event:
		return true
	default:
		r.metrics.RecordEventDropped(event.EventType)
		log.Warn().
			Str("event_id", event.ID.String()).
			Str("event_type", string(event.EventType)).
			Msg("outbox buffer full; dropping event")
		return false
	}
}

func (r *Relay) run(ctx context.Context, events <-chan OutboxEvent) {
	defer r.wg.Done()
	for event := range events {
		if err := r.publishWithRetry(ctx, event); err != nil {
			log.Error().
				Err(err).
				Str("event_id", event.ID.String()).
				Str("event_type", string(event.EventType)).
				Msg("failed to publish event")
		}
	}
}

func (r *Relay) publishWithRetry(ctx context.Context, event OutboxEvent) error {
	var lastErr error

	for attempt := 0; attempt <= r.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-r.clock.After(r.config.RetryDelay * time.Duration(attempt)):
			}
		}

		if err := r.publisher.Publish(ctx, event); err != nil {
			lastErr = err
			r.metrics.RecordPublishAttempt(event.EventType, attempt+1, false)
			log.Warn().
				Err(err).
				Str("event_id", event.ID.String()).
				Int("attempt", attempt+1).
				Msg("failed to publish event, retrying")
			continue
		}

		r.metrics.RecordPublishAttempt(event.EventType, attempt+1, true)
		return nil
	}

	return fmt.Errorf("failed after %d attempts: %w", r.config.MaxRetries+1, lastErr)
}
