// Package chat owns conversation persistence and the lifecycle policy on top
// of it: creating, listing, updating and deleting conversations, deriving
// titles, and the deep-link message lookup.
//
// Persistence is deliberately forgiving. Every store operation converts
// storage failures into the documented degraded return (nil, false, empty
// slice) instead of an error, so a dead backing medium degrades the service to
// an empty history rather than a crash.
package chat

import (
	"context"
	"time"
)

// Role identifies the author of a message.
type Role string

// Message roles (wire-stable).
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one conversation turn.
//
// Timestamp is an RFC 3339 string rather than a time.Time: it is both the
// display time and the de facto key for deep links, so it must round-trip
// byte-for-byte through storage.
type Message struct {
	Role      Role   `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

// Conversation is a titled, ordered sequence of messages.
type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	CreatedAt string    `json:"createdAt"`
	UpdatedAt string    `json:"updatedAt"`
}

// Store persists conversations plus an ordered index of their ids.
//
// Contract (shared by all implementations):
//   - IsAvailable probes the backing medium; every other operation fails
//     closed when it reports false.
//   - ListAll returns surviving conversations sorted by CreatedAt descending,
//     silently dropping ids whose body is missing.
//   - Create returns the new empty conversation, or nil on any failure.
//   - Update stamps UpdatedAt and overwrites unconditionally (last write
//     wins); it returns false for an empty or unknown id.
//   - Delete removes the body and the index entry.
//
// No implementation ever panics or surfaces a storage error to the caller.
type Store interface {
	IsAvailable(ctx context.Context) bool
	ListAll(ctx context.Context) []Conversation
	Create(ctx context.Context) *Conversation
	Update(ctx context.Context, c *Conversation) bool
	Delete(ctx context.Context, id string) bool
}

// Stamp formats t as the canonical timestamp string stored in conversation
// bodies. Nanosecond precision keeps UpdatedAt strictly increasing across
// consecutive writes.
func Stamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// StampTime parses a canonical timestamp. The zero time is returned for
// malformed input so sorting still has a defined order.
func StampTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
