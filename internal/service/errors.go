package service

import (
	"errors"

	"nara_fleet/internal/transport"
)

var (
	// ErrNotConnected is returned when a command cannot be published because
	// the broker session is not up.
	ErrNotConnected = transport.ErrNotConnected
	// ErrInvalidTimeRange is returned when a journal query has From after To.
	ErrInvalidTimeRange = errors.New("invalid time range: from must be <= to")
)
