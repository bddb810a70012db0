package chat

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"indiechat/cmd/internal/ids"
)

// PostgresStore is a Store backed by PostgreSQL.
//
// Ownership model:
// - PostgresStore does NOT own the pgx pool. The caller must close the pool.
//
// The separate id index of the kv layout disappears here: enumeration order
// falls out of ORDER BY created_at DESC, and the id-unknown check on Update
// falls out of the row count.
//
// Expected schema (managed outside this package):
//
//	CREATE TABLE <schema>.conversations (
//	    id         text PRIMARY KEY,
//	    title      text NOT NULL DEFAULT '',
//	    messages   jsonb NOT NULL DEFAULT '[]',
//	    created_at timestamptz NOT NULL,
//	    updated_at timestamptz NOT NULL
//	);
type PostgresStore struct {
	log    *slog.Logger
	pool   *pgxpool.Pool
	schema string

	now func() time.Time
}

// PostgresOption configures PostgresStore behavior.
type PostgresOption func(*PostgresStore) error

// WithSchema sets the DB schema used by this store (default: "indiechat").
// The schema name is validated and safely quoted in queries.
func WithSchema(schema string) PostgresOption {
	return func(s *PostgresStore) error {
		schema = strings.TrimSpace(schema)
		if schema == "" {
			return errors.New("chat: empty schema")
		}
		if !isValidPGIdent(schema) {
			return errors.New("chat: invalid schema identifier")
		}
		s.schema = schema
		return nil
	}
}

// NewPostgresStore constructs a Postgres-backed conversation Store.
func NewPostgresStore(log *slog.Logger, pool *pgxpool.Pool, opts ...PostgresOption) (*PostgresStore, error) {
	if log == nil {
		log = slog.Default()
	}
	st := &PostgresStore{
		log:    log,
		pool:   pool,
		schema: "indiechat",
		now:    time.Now,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(st); err != nil {
			return nil, err
		}
	}
	if st.pool == nil {
		return nil, errors.New("chat: nil pool")
	}
	return st, nil
}

// IsAvailable reports whether a connection can be acquired within a short
// timeout.
func (s *PostgresStore) IsAvailable(ctx context.Context) bool {
	if s == nil || s.pool == nil {
		return false
	}

	probeCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	conn, err := s.pool.Acquire(probeCtx)
	if err != nil {
		return false
	}
	conn.Release()
	return true
}

// ListAll returns every stored conversation, newest created first.
func (s *PostgresStore) ListAll(ctx context.Context) []Conversation {
	if s == nil || s.pool == nil {
		return nil
	}

	table := pgIdent(s.schema, "conversations")

	rows, err := s.pool.Query(ctx,
		`SELECT id, title, messages, created_at, updated_at
		   FROM `+table+`
		  ORDER BY created_at DESC`,
	)
	if err != nil {
		s.log.Error("chat.list.query.fail", "err", err)
		return nil
	}
	defer rows.Close()

	var out []Conversation
	for rows.Next() {
		var (
			c       Conversation
			rawMsgs []byte
			created time.Time
			updated time.Time
		)
		if err := rows.Scan(&c.ID, &c.Title, &rawMsgs, &created, &updated); err != nil {
			s.log.Error("chat.list.scan.fail", "err", err)
			return nil
		}
		if err := json.Unmarshal(rawMsgs, &c.Messages); err != nil {
			s.log.Warn("chat.list.messages.malformed", "chat_id", c.ID, "err", err)
			continue
		}
		if c.Messages == nil {
			c.Messages = []Message{}
		}
		c.CreatedAt = Stamp(created)
		c.UpdatedAt = Stamp(updated)
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		s.log.Error("chat.list.rows.fail", "err", err)
		return nil
	}
	return out
}

// Create inserts a new empty conversation and returns it, or nil on failure.
func (s *PostgresStore) Create(ctx context.Context) *Conversation {
	if s == nil || s.pool == nil {
		return nil
	}

	now := s.now().UTC()
	c := &Conversation{
		ID:        ids.NewConversationID(),
		Title:     "",
		Messages:  []Message{},
		CreatedAt: Stamp(now),
		UpdatedAt: Stamp(now),
	}

	table := pgIdent(s.schema, "conversations")

	if _, err := s.pool.Exec(ctx,
		`INSERT INTO `+table+` (id, title, messages, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		c.ID, c.Title, []byte("[]"), now, now,
	); err != nil {
		s.log.Error("chat.create.fail", "chat_id", c.ID, "err", err)
		return nil
	}
	return c
}

// Update overwrites the stored body and stamps UpdatedAt. Unknown ids are
// rejected (no row matched).
func (s *PostgresStore) Update(ctx context.Context, c *Conversation) bool {
	if s == nil || s.pool == nil || c == nil || c.ID == "" {
		return false
	}

	msgs, err := json.Marshal(c.Messages)
	if err != nil {
		s.log.Error("chat.update.encode.fail", "chat_id", c.ID, "err", err)
		return false
	}

	now := s.now().UTC()
	table := pgIdent(s.schema, "conversations")

	tag, err := s.pool.Exec(ctx,
		`UPDATE `+table+`
		    SET title = $2, messages = $3, updated_at = $4
		  WHERE id = $1`,
		c.ID, c.Title, msgs, now,
	)
	if err != nil {
		s.log.Error("chat.update.fail", "chat_id", c.ID, "err", err)
		return false
	}
	if tag.RowsAffected() == 0 {
		s.log.Warn("chat.update.unknown_id", "chat_id", c.ID)
		return false
	}

	c.UpdatedAt = Stamp(now)
	return true
}

// Delete removes the conversation row. Deleting a missing id still reports
// success, matching the kv store's remove-then-filter behavior.
func (s *PostgresStore) Delete(ctx context.Context, id string) bool {
	if s == nil || s.pool == nil || id == "" {
		return false
	}

	table := pgIdent(s.schema, "conversations")

	if _, err := s.pool.Exec(ctx, `DELETE FROM `+table+` WHERE id = $1`, id); err != nil {
		s.log.Error("chat.delete.fail", "chat_id", id, "err", err)
		return false
	}
	return true
}

var pgIdentRE = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

func isValidPGIdent(s string) bool {
	return pgIdentRE.MatchString(s)
}

func pgIdent(schema, table string) string {
	// pgx.Identifier safely quotes identifiers, preventing SQL injection.
	return pgx.Identifier{schema, table}.Sanitize()
}
