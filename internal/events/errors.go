package events

import "errors"

var (
	// ErrSinkClosed is returned when publishing on a closed sink
	ErrSinkClosed = errors.New("interaction sink is closed")
)
