package orchestrator

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
)

// tickInterval is one countdown unit.
const tickInterval = time.Second

// TurnClock counts down the time left for the pick on the clock.
//
// Ticks come from a clockwork ticker, so tests drive it with a fake clock. The
// expiry callback is the only asynchronous path back into the orchestrator; it
// carries the generation it fired for so a late expiry can be told apart from
// one for the current pick. Callbacks run outside the clock's lock.
type TurnClock struct {
	clock    clockwork.Clock
	duration int

	onTick   func(remaining int)
	onExpire func(generation uint64)

	mu         sync.Mutex
	remaining  int
	paused     bool
	expired    bool
	stopped    bool
	generation uint64

	cancel context.CancelFunc
	done   chan struct{}

	// inLoop is set while the tick loop is running callbacks.
	inLoop atomic.Bool
}

// NewTurnClock creates a stopped clock with durationSec seconds per pick.
func NewTurnClock(clock clockwork.Clock, durationSec int) *TurnClock {
	return &TurnClock{
		clock:     clock,
		duration:  durationSec,
		remaining: durationSec,
	}
}

// OnTick registers the per-tick callback. Call before Start.
func (c *TurnClock) OnTick(fn func(remaining int)) {
	c.onTick = fn
}

// OnExpire registers the expiry callback. Call before Start.
func (c *TurnClock) OnExpire(fn func(generation uint64)) {
	c.onExpire = fn
}

// Start launches the tick loop. It is a no-op if the loop is already running.
func (c *TurnClock) Start(ctx context.Context) {
	c.mu.Lock()
	if c.cancel != nil {
		c.mu.Unlock()
		return
	}
	loopCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	c.cancel = cancel
	c.done = done
	c.stopped = false
	c.mu.Unlock()

	ticker := c.clock.NewTicker(tickInterval)
	go func() {
		defer close(done)
		defer ticker.Stop()
		for {
			select {
			case <-loopCtx.Done():
				return
			case <-ticker.Chan():
				c.loopTick()
			}
		}
	}()
}

// Halt cancels the tick loop without waiting for it to exit. Safe to call from a callback.
func (c *TurnClock) Halt() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopped = true
	if c.cancel != nil {
		c.cancel()
	}
}

// Stop cancels the tick loop and waits for it to exit. No expiry fires afterwards.
// Called from a clock callback it only halts, since the loop cannot exit until
// the callback returns.
func (c *TurnClock) Stop() {
	c.Halt()
	if c.inLoop.Load() {
		return
	}
	c.mu.Lock()
	done := c.done
	c.mu.Unlock()
	if done != nil {
		<-done
	}
}

// Reset restores the full duration for a new pick and starts a new generation.
func (c *TurnClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.remaining = c.duration
	c.expired = false
	c.generation++
}

// Tick decrements the countdown by one unit. At zero the expiry callback fires once.
func (c *TurnClock) Tick() {
	c.mu.Lock()
	if c.paused || c.expired || c.stopped {
		c.mu.Unlock()
		return
	}
	c.remaining--
	if c.remaining < 0 {
		c.remaining = 0
	}
	remaining := c.remaining
	generation := c.generation
	fire := remaining == 0
	if fire {
		c.expired = true
	}
	onTick, onExpire := c.onTick, c.onExpire
	c.mu.Unlock()

	if onTick != nil {
		onTick(remaining)
	}
	if fire && onExpire != nil {
		onExpire(generation)
	}
}

func (c *TurnClock) loopTick() {
	c.inLoop.Store(true)
	defer c.inLoop.Store(false)
	c.Tick()
}

// Pause freezes the countdown.
func (c *TurnClock) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paused = true
}

// Resume continues the countdown from where it was paused.
func (c *TurnClock) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paused = false
}

// Paused reports whether the countdown is frozen.
func (c *TurnClock) Paused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paused
}

// Remaining returns the seconds left for the current pick.
func (c *TurnClock) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

// Generation identifies the pick the countdown currently belongs to.
func (c *TurnClock) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}
