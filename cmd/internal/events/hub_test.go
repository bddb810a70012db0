package events

import (
	"io"
	"log/slog"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBroadcastReachesAllMembers(t *testing.T) {
	t.Parallel()

	hub := NewHub(testLogger())
	a := NewClient("session-a", 4)
	b := NewClient("session-b", 4)
	hub.Join(a)
	hub.Join(b)

	hub.Publish("chat_created", "chat-1")

	for _, cl := range []*Client{a, b} {
		select {
		case ev := <-cl.Send:
			if ev.Type != "chat_created" || ev.ChatID != "chat-1" {
				t.Fatalf("%s received %+v", cl.SessionID, ev)
			}
			if ev.ID == "" || ev.TS.IsZero() {
				t.Fatalf("%s received event without id/timestamp: %+v", cl.SessionID, ev)
			}
		default:
			t.Fatalf("%s received nothing", cl.SessionID)
		}
	}
}

func TestBroadcastSkipsDeparted(t *testing.T) {
	t.Parallel()

	hub := NewHub(testLogger())
	a := NewClient("session-a", 4)
	b := NewClient("session-b", 4)
	hub.Join(a)
	hub.Join(b)
	hub.Leave("session-a")

	hub.Publish("chat_deleted", "chat-9")

	select {
	case ev := <-a.Send:
		t.Fatalf("departed client received %+v", ev)
	default:
	}
	select {
	case ev := <-b.Send:
		if ev.ChatID != "chat-9" {
			t.Fatalf("remaining client received %+v", ev)
		}
	default:
		t.Fatal("remaining client received nothing")
	}
}

func TestBroadcastNeverBlocksOnFullQueue(t *testing.T) {
	t.Parallel()

	hub := NewHub(testLogger())
	slow := NewClient("session-slow", 1)
	hub.Join(slow)

	// The second publish overflows the queue of 1; it must be dropped, not
	// deadlock the broadcaster.
	hub.Publish("chat_updated", "chat-1")
	hub.Publish("chat_updated", "chat-2")

	ev := <-slow.Send
	if ev.ChatID != "chat-1" {
		t.Fatalf("first queued event = %+v", ev)
	}
	select {
	case ev := <-slow.Send:
		t.Fatalf("overflow event was queued: %+v", ev)
	default:
	}
}

func TestLeaveIsIdempotent(t *testing.T) {
	t.Parallel()

	hub := NewHub(testLogger())
	a := NewClient("session-a", 4)
	hub.Join(a)

	hub.Leave("session-a")
	hub.Leave("session-a")
	hub.Leave("never-joined")

	select {
	case <-a.Done():
	default:
		t.Fatal("Leave did not signal client shutdown")
	}

	// Close on an already-left client must not panic.
	a.Close()
}
