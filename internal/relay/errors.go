package relay

import "errors"

var (
	// ErrUnknownConnection indicates a command referenced a connection id
	// that is not registered, typically a late-arriving command after close.
	// Callers drop the command without publishing anything.
	ErrUnknownConnection = errors.New("unknown connection")

	// ErrDuplicateConnection indicates a register for an id that is already
	// registered. The old record is replaced; the error exists so the caller
	// can log the invariant violation.
	ErrDuplicateConnection = errors.New("duplicate connection")
)
