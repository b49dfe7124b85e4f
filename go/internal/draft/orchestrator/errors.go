package orchestrator

import "errors"

var (
	// ErrNoCandidatesAvailable means the pool ran dry before the sequence did. Fatal to the run.
	ErrNoCandidatesAvailable = errors.New("no candidates available")
	// ErrNotInProgress is returned for commands that need a pick on the clock.
	ErrNotInProgress = errors.New("draft is not in progress")
	// ErrStopped is returned for commands issued after Stop.
	ErrStopped = errors.New("draft engine stopped")
	// ErrHalted wraps the fatal error that halted the run.
	ErrHalted = errors.New("draft engine halted")
	// ErrInvalidSettings is returned by NewOrchestrator before any state is built.
	ErrInvalidSettings = errors.New("invalid draft settings")
)
