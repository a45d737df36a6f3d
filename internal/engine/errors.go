package engine

import "errors"

// Error taxonomy for the reservation engine. Every engine
// operation returns one of these sentinels (wrapped with context via
// fmt.Errorf("%w: ...")) so callers can classify failures with errors.Is,
// the same pattern rcc/internal/adapter and rcc/internal/command use for
// their own normalized error sets.
var (
	// ErrNotInitialized means an operation was invoked before Init, or
	// after Terminate. Fatal to the caller; engine state is unchanged.
	ErrNotInitialized = errors.New("engine: not initialized")

	// ErrAlreadyInitialized means Init was called twice without an
	// intervening Terminate.
	ErrAlreadyInitialized = errors.New("engine: already initialized")

	// ErrDuplicate means CREATE was called with an event id already present.
	ErrDuplicate = errors.New("engine: duplicate event id")

	// ErrNotFound means an operation referenced an unknown event id.
	ErrNotFound = errors.New("engine: event not found")

	// ErrOutOfBounds means a RESERVE seat coordinate fell outside [1,rows]x[1,cols].
	ErrOutOfBounds = errors.New("engine: seat coordinate out of bounds")

	// ErrAlreadyReserved means a RESERVE seat coordinate was already stamped.
	ErrAlreadyReserved = errors.New("engine: seat already reserved")

	// ErrDuplicateSeat means a RESERVE coordinate list named the same seat twice.
	ErrDuplicateSeat = errors.New("engine: duplicate seat in reservation request")

	// ErrInvalidDimensions means CREATE was called with rows or cols == 0.
	ErrInvalidDimensions = errors.New("engine: rows and cols must both be at least 1")

	// ErrResourceExhausted means allocation failed; any partial state is
	// rolled back before this is returned.
	ErrResourceExhausted = errors.New("engine: resource exhausted")
)
