package chat

import "errors"

var (
	// ErrUnavailable is returned by the lifecycle service when the store could
	// not complete an operation (storage disabled, quota, write failure).
	ErrUnavailable = errors.New("chat: store unavailable")

	// ErrNotFound is returned when a conversation or message does not exist.
	ErrNotFound = errors.New("chat: not found")

	// ErrEmptyMessage is returned when a message with no content is submitted.
	ErrEmptyMessage = errors.New("chat: empty message")
)
