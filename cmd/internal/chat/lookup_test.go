package chat

import (
	"context"
	"testing"
)

func TestFindMessageByTimestamp(t *testing.T) {
	t.Parallel()

	st, _ := newTestStore(t)
	ctx := context.Background()

	a := st.Create(ctx)
	b := st.Create(ctx)
	if a == nil || b == nil {
		t.Fatal("Create returned nil")
	}

	a.Messages = append(a.Messages,
		Message{Role: RoleUser, Content: "first", Timestamp: "2025-03-01T12:00:00.000000001Z"},
		Message{Role: RoleAssistant, Content: "second", Timestamp: "2025-03-01T12:00:00.000000002Z"},
	)
	b.Messages = append(b.Messages,
		Message{Role: RoleUser, Content: "third", Timestamp: "2025-03-01T12:00:00.000000003Z"},
	)
	if !st.Update(ctx, a) || !st.Update(ctx, b) {
		t.Fatal("Update failed")
	}

	m, chatID, ok := FindMessageByTimestamp(ctx, st, "2025-03-01T12:00:00.000000003Z")
	if !ok || chatID != b.ID || m.Content != "third" {
		t.Fatalf("lookup = %+v in %q (ok=%v)", m, chatID, ok)
	}

	m, chatID, ok = FindMessageByTimestamp(ctx, st, "2025-03-01T12:00:00.000000002Z")
	if !ok || chatID != a.ID || m.Content != "second" || m.Role != RoleAssistant {
		t.Fatalf("lookup = %+v in %q (ok=%v)", m, chatID, ok)
	}

	if _, _, ok := FindMessageByTimestamp(ctx, st, "2030-01-01T00:00:00Z"); ok {
		t.Fatal("lookup matched a timestamp nobody wrote")
	}
	if _, _, ok := FindMessageByTimestamp(ctx, st, ""); ok {
		t.Fatal("empty timestamp must never match")
	}
}
