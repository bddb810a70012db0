package chat

import (
	"context"
	"errors"
	"net"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Integration tests are enabled when INDIECHAT_DATABASE_URL is set.
// In non-CI runs, unreachable Postgres skips these tests to keep local runs fast.

func TestPostgresStore_Lifecycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	pool, schema := mustIntegrationPool(ctx, t)

	st, err := NewPostgresStore(testLogger(), pool, WithSchema(schema))
	if err != nil {
		t.Fatalf("NewPostgresStore: %v", err)
	}

	if !st.IsAvailable(ctx) {
		t.Fatal("IsAvailable = false with a live pool")
	}

	c := st.Create(ctx)
	if c == nil {
		t.Fatal("Create returned nil")
	}
	if c.ID == "" || c.Title != "" || len(c.Messages) != 0 {
		t.Fatalf("Create = %+v", c)
	}

	c.Title = "integration"
	c.Messages = append(c.Messages, Message{
		Role:      RoleUser,
		Content:   "does this survive a round trip?",
		Timestamp: Stamp(time.Now().UTC()),
	})
	if !st.Update(ctx, c) {
		t.Fatal("Update of an existing row failed")
	}

	all := st.ListAll(ctx)
	if len(all) != 1 {
		t.Fatalf("ListAll = %d rows, want 1", len(all))
	}
	got := all[0]
	if got.ID != c.ID || got.Title != "integration" || len(got.Messages) != 1 {
		t.Fatalf("round trip = %+v", got)
	}
	if got.Messages[0] != c.Messages[0] {
		t.Fatalf("message round trip: got %+v, want %+v", got.Messages[0], c.Messages[0])
	}

	if !st.Delete(ctx, c.ID) {
		t.Fatal("Delete failed")
	}
	if rest := st.ListAll(ctx); len(rest) != 0 {
		t.Fatalf("row survived delete: %+v", rest)
	}
}

func TestPostgresStore_ListOrder(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	pool, schema := mustIntegrationPool(ctx, t)

	st, err := NewPostgresStore(testLogger(), pool, WithSchema(schema))
	if err != nil {
		t.Fatalf("NewPostgresStore: %v", err)
	}

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	st.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	var ids []string
	for i := 0; i < 3; i++ {
		c := st.Create(ctx)
		if c == nil {
			t.Fatalf("Create #%d returned nil", i)
		}
		ids = append(ids, c.ID)
	}

	all := st.ListAll(ctx)
	if len(all) != 3 {
		t.Fatalf("ListAll = %d rows, want 3", len(all))
	}
	for i := range all {
		if all[i].ID != ids[len(ids)-1-i] {
			t.Fatalf("position %d = %s, want newest first (%v)", i, all[i].ID, ids)
		}
	}
}

func TestPostgresStore_UpdateUnknownID(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	pool, schema := mustIntegrationPool(ctx, t)

	st, err := NewPostgresStore(testLogger(), pool, WithSchema(schema))
	if err != nil {
		t.Fatalf("NewPostgresStore: %v", err)
	}

	ghost := &Conversation{ID: "no-such-row", Messages: []Message{}}
	if st.Update(ctx, ghost) {
		t.Fatal("Update of an unknown id reported success")
	}
	if rest := st.ListAll(ctx); len(rest) != 0 {
		t.Fatalf("Update of an unknown id created a row: %+v", rest)
	}

	// Deleting a row that is already gone still reports success.
	if !st.Delete(ctx, "no-such-row") {
		t.Fatal("Delete of a missing id reported failure")
	}
}

// mustIntegrationPool connects to INDIECHAT_DATABASE_URL and provisions a
// throwaway schema for the calling test, dropped again on cleanup.
func mustIntegrationPool(ctx context.Context, t *testing.T) (*pgxpool.Pool, string) {
	t.Helper()

	dbURL := os.Getenv("INDIECHAT_DATABASE_URL")
	if dbURL == "" {
		t.Skip("INDIECHAT_DATABASE_URL is not set; skipping Postgres integration test")
	}

	cfg, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		t.Fatalf("pgxpool.ParseConfig: %v", err)
	}
	cfg.MaxConns = 4
	cfg.MinConns = 0
	cfg.MaxConnLifetime = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		t.Fatalf("pgxpool.NewWithConfig: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := pool.Ping(ctx); err != nil {
		if shouldSkipIntegration(err) {
			t.Skipf("integration test skipped: Postgres unreachable (INDIECHAT_DATABASE_URL set): %v", err)
		}
		t.Fatalf("pool.Ping: %v", err)
	}

	schema := "indiechat_test_" + strings.ToLower(strings.ReplaceAll(t.Name(), "/", "_"))
	if !isValidPGIdent(schema) {
		t.Fatalf("derived schema name %q is not a valid identifier", schema)
	}

	mustExec(ctx, t, pool, `CREATE SCHEMA IF NOT EXISTS `+schema)
	mustExec(ctx, t, pool, `
		CREATE TABLE IF NOT EXISTS `+schema+`.conversations (
			id         text PRIMARY KEY,
			title      text NOT NULL DEFAULT '',
			messages   jsonb NOT NULL DEFAULT '[]',
			created_at timestamptz NOT NULL,
			updated_at timestamptz NOT NULL
		)`)
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), `DROP SCHEMA IF EXISTS `+schema+` CASCADE`)
	})

	return pool, schema
}

func mustExec(ctx context.Context, t *testing.T, pool *pgxpool.Pool, sql string) {
	t.Helper()
	if _, err := pool.Exec(ctx, sql); err != nil {
		t.Fatalf("exec %q: %v", sql, err)
	}
}

func shouldSkipIntegration(err error) bool {
	if err == nil {
		return false
	}
	if os.Getenv("CI") != "" {
		return false
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "context deadline exceeded") ||
		strings.Contains(msg, "timeout") ||
		strings.Contains(msg, "dial tcp") ||
		strings.Contains(msg, "no such host") {
		return true
	}
	return false
}
