package transform

import "errors"

// Sentinel errors for program assembly
var (
	// ErrSentinelCollision is returned when no free line number is left for the injected terminator.
	ErrSentinelCollision = errors.New("sentinel line number collides with program line")
	// ErrInvalidOptions indicates transform options that cannot produce a runnable program.
	ErrInvalidOptions = errors.New("invalid transform options")
)
