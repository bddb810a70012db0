// Package events pushes conversation change notifications to connected
// clients over WebSocket, so multiple open sessions sharing one store
// converge instead of silently overwriting each other.
package events

import (
	"log/slog"
	"sync"
	"time"

	"indiechat/cmd/internal/ids"
)

// Event is one change notification.
type Event struct {
	ID     string    `json:"id"`
	Type   string    `json:"type"`
	ChatID string    `json:"chat_id"`
	TS     time.Time `json:"ts"`
}

// Hub owns the set of subscribed clients and fans events out to them.
//
// Broadcast never blocks: a subscriber whose queue is full misses the event
// and is expected to re-list on reconnect.
type Hub struct {
	log *slog.Logger

	mu      sync.RWMutex
	members map[string]*Client
}

// NewHub constructs a Hub instance.
func NewHub(log *slog.Logger) *Hub {
	if log == nil {
		log = slog.Default()
	}
	return &Hub{
		log:     log,
		members: make(map[string]*Client),
	}
}

// Join adds a client to the subscriber set.
func (h *Hub) Join(client *Client) {
	if h == nil || client == nil || client.SessionID == "" {
		return
	}

	h.mu.Lock()
	h.members[client.SessionID] = client
	h.mu.Unlock()

	h.log.Info("events.member.join", "session_id", client.SessionID)
}

// Leave removes a client and signals shutdown for it.
func (h *Hub) Leave(sessionID string) {
	if h == nil || sessionID == "" {
		return
	}

	h.mu.Lock()
	cl := h.members[sessionID]
	delete(h.members, sessionID)
	h.mu.Unlock()

	// Signal client shutdown after removing from membership, so a broadcaster
	// holding the pointer never races client teardown.
	if cl != nil {
		cl.Close()
	}

	h.log.Info("events.member.leave", "session_id", sessionID)
}

// Publish builds an Event and broadcasts it. It satisfies the chat package's
// EventSink.
func (h *Hub) Publish(eventType, chatID string) {
	if h == nil {
		return
	}

	now := time.Now().UTC()
	h.Broadcast(Event{
		ID:     ids.NewRequestID(now),
		Type:   eventType,
		ChatID: chatID,
		TS:     now,
	})
}

// Broadcast fans an event out to all subscribers without blocking.
func (h *Hub) Broadcast(ev Event) {
	if h == nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, m := range h.members {
		if m == nil {
			continue
		}

		select {
		case <-m.Done():
			// Skip clients that are shutting down.
			continue
		default:
		}

		select {
		case m.Send <- ev:
		default:
			// Drop rather than block every other subscriber.
		}
	}
}
