package trade

import "errors"

var (
	// ErrProposalNotFound is returned for unknown, declined or cleared proposals.
	ErrProposalNotFound = errors.New("trade proposal not found")
	// ErrProposalStale is returned when the slots in a proposal no longer match the board.
	ErrProposalStale = errors.New("trade proposal is stale")
)
