package pick

import "errors"

var (
	// ErrInvalidSelection is returned when a selection cannot be recorded. Run state is unchanged.
	ErrInvalidSelection = errors.New("invalid selection")
	// ErrInvalidConfig is returned when the pick sequence cannot be built.
	ErrInvalidConfig = errors.New("invalid draft config")
	// ErrSlotUsed is returned when ownership of an already used slot would change.
	ErrSlotUsed = errors.New("pick slot already used")
	// ErrSlotNotFound is returned for an overall pick outside the sequence.
	ErrSlotNotFound = errors.New("pick slot not found")
)
