// Package ids provides the identifier primitives used across the service.
//
// Conversations carry UUIDs because stored bodies created by older clients
// already use them as keys. Request and event ids are ULIDs: they sort
// lexicographically by time, which makes request tracing in logs cheap.
package ids

import (
	"crypto/rand"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// NewConversationID returns a new UUIDv4 string used as a conversation id.
func NewConversationID() string {
	return uuid.NewString()
}

// NewULID returns a new ULID string (26 chars).
func NewULID(now time.Time) (string, error) {
	if now.IsZero() {
		now = time.Now().UTC()
	}

	id, err := ulid.New(ulid.Timestamp(now), rand.Reader)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// NewRequestID returns a ULID request id, or an empty string if entropy fails.
// Callers treat empty as an error-like condition in logs, never as fatal.
func NewRequestID(now time.Time) string {
	id, err := NewULID(now)
	if err != nil {
		return ""
	}
	return id
}
