package fleet

import "errors"

var (
	// ErrMalformedPayload is returned when a status payload is not the expected JSON object.
	ErrMalformedPayload = errors.New("malformed payload")
	// ErrUnknownEntity is returned for ids that are not in the roster.
	ErrUnknownEntity = errors.New("unknown entity")
	// ErrInvalidCommand is returned when a command request cannot be resolved.
	ErrInvalidCommand = errors.New("invalid command")
	// ErrInvalidFilter is returned for unsupported hall or signal filter values.
	ErrInvalidFilter = errors.New("invalid filter")
	// ErrInvalidRoster is returned when the roster cannot seed a store.
	ErrInvalidRoster = errors.New("invalid roster")
)
