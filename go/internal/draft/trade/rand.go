package trade

import "sync"

// Rand is the random source behind every stochastic trade decision.
// *math/rand.Rand satisfies it; tests seed one explicitly.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// LockedRand serializes access to a Rand so readers can share it.
type LockedRand struct {
	mu  sync.Mutex
	src Rand
}

// NewLockedRand wraps src.
func NewLockedRand(src Rand) *LockedRand {
	return &LockedRand{src: src}
}

func (r *LockedRand) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.src.Float64()
}

func (r *LockedRand) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.src.Intn(n)
}
