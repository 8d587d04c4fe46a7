package forcefield

import "errors"

var (
	// ErrCapacityExceeded is returned when a kind already holds the maximum
	// number of fields the update pass can consume.
	ErrCapacityExceeded = errors.New("force field capacity exceeded")

	// ErrInvalidShape is returned for kind/shape combinations the update pass cannot evaluate.
	ErrInvalidShape = errors.New("invalid force field shape")

	// ErrUnknownKind is returned for kinds outside the fixed set.
	ErrUnknownKind = errors.New("unknown force field kind")
)
