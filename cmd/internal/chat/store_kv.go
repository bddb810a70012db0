package chat

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"time"

	"indiechat/cmd/internal/ids"
	"indiechat/cmd/internal/kv"
)

// Key layout (wire-stable, shared with pre-existing stored data):
//   chatIds    JSON array of conversation ids, most-recently-created first
//   chat_<id>  JSON conversation body
const (
	indexKey      = "chatIds"
	bodyKeyPrefix = "chat_"
	probeKey      = "availability_probe"
)

// newConversationID is overridable in tests.
var newConversationID = ids.NewConversationID

// KVStore is the Store implementation over an injected kv.Store.
//
// It reproduces the single-writer, last-write-wins semantics of the original
// per-client store: no read-modify-write guard, no cross-process locking.
// Concurrent writers can overwrite each other; within one process the index
// and bodies stay consistent because every mutation is a single key write.
type KVStore struct {
	log *slog.Logger
	kv  kv.Store

	// now is injectable for tests.
	now func() time.Time
}

// NewKVStore constructs a conversation store over the given kv backend.
func NewKVStore(log *slog.Logger, backend kv.Store) *KVStore {
	if log == nil {
		log = slog.Default()
	}
	return &KVStore{
		log: log,
		kv:  backend,
		now: time.Now,
	}
}

// IsAvailable probes the backing store with a throwaway write+delete.
func (s *KVStore) IsAvailable(_ context.Context) bool {
	if s == nil || s.kv == nil {
		return false
	}
	if err := s.kv.Set(probeKey, "1"); err != nil {
		return false
	}
	if err := s.kv.Remove(probeKey); err != nil {
		return false
	}
	return true
}

// ListAll returns every stored conversation sorted by CreatedAt descending.
// Ids whose body is missing or unreadable are dropped without error.
func (s *KVStore) ListAll(ctx context.Context) []Conversation {
	if !s.IsAvailable(ctx) {
		return nil
	}

	idx, err := s.readIndex()
	if err != nil {
		s.log.Error("chat.list.index.fail", "err", err)
		return nil
	}

	out := make([]Conversation, 0, len(idx))
	for _, id := range idx {
		raw, ok, err := s.kv.Get(bodyKeyPrefix + id)
		if err != nil {
			s.log.Error("chat.list.body.fail", "chat_id", id, "err", err)
			return nil
		}
		if !ok {
			// Orphaned index entry; skip it on the read path.
			continue
		}

		var c Conversation
		if err := json.Unmarshal([]byte(raw), &c); err != nil {
			s.log.Warn("chat.list.body.malformed", "chat_id", id, "err", err)
			continue
		}
		out = append(out, c)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return StampTime(out[i].CreatedAt).After(StampTime(out[j].CreatedAt))
	})
	return out
}

// Create allocates a new empty conversation, persists it, and prepends its id
// to the index. Returns nil on any storage failure.
func (s *KVStore) Create(ctx context.Context) *Conversation {
	if !s.IsAvailable(ctx) {
		return nil
	}

	now := Stamp(s.now())
	c := &Conversation{
		ID:        newConversationID(),
		Title:     "",
		Messages:  []Message{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.writeBody(c); err != nil {
		s.log.Error("chat.create.body.fail", "chat_id", c.ID, "err", err)
		return nil
	}

	idx, err := s.readIndex()
	if err != nil {
		s.log.Error("chat.create.index.fail", "chat_id", c.ID, "err", err)
		return nil
	}
	idx = append([]string{c.ID}, idx...)
	if err := s.writeIndex(idx); err != nil {
		s.log.Error("chat.create.index.fail", "chat_id", c.ID, "err", err)
		return nil
	}

	return c
}

// Update stamps UpdatedAt and overwrites the stored body unconditionally.
// Updates to ids that are not in the index are rejected: silently writing a
// body with no index entry would make it invisible to ListAll forever.
func (s *KVStore) Update(ctx context.Context, c *Conversation) bool {
	if c == nil || c.ID == "" {
		return false
	}
	if !s.IsAvailable(ctx) {
		return false
	}

	idx, err := s.readIndex()
	if err != nil {
		s.log.Error("chat.update.index.fail", "chat_id", c.ID, "err", err)
		return false
	}
	if !containsID(idx, c.ID) {
		s.log.Warn("chat.update.unknown_id", "chat_id", c.ID)
		return false
	}

	// Stamp strictly after the previous value so successive updates always
	// order, even when the clock has not advanced.
	now := s.now()
	if prev := StampTime(c.UpdatedAt); !now.After(prev) {
		now = prev.Add(time.Nanosecond)
	}
	c.UpdatedAt = Stamp(now)
	if err := s.writeBody(c); err != nil {
		s.log.Error("chat.update.body.fail", "chat_id", c.ID, "err", err)
		return false
	}
	return true
}

// Delete removes the conversation body and its index entry.
func (s *KVStore) Delete(ctx context.Context, id string) bool {
	if id == "" {
		return false
	}
	if !s.IsAvailable(ctx) {
		return false
	}

	if err := s.kv.Remove(bodyKeyPrefix + id); err != nil {
		s.log.Error("chat.delete.body.fail", "chat_id", id, "err", err)
		return false
	}

	idx, err := s.readIndex()
	if err != nil {
		s.log.Error("chat.delete.index.fail", "chat_id", id, "err", err)
		return false
	}
	kept := idx[:0]
	for _, existing := range idx {
		if existing != id {
			kept = append(kept, existing)
		}
	}
	if err := s.writeIndex(kept); err != nil {
		s.log.Error("chat.delete.index.fail", "chat_id", id, "err", err)
		return false
	}
	return true
}

func (s *KVStore) readIndex() ([]string, error) {
	raw, ok, err := s.kv.Get(indexKey)
	if err != nil {
		return nil, err
	}
	if !ok || raw == "" {
		return nil, nil
	}

	var idx []string
	if err := json.Unmarshal([]byte(raw), &idx); err != nil {
		return nil, err
	}
	return idx, nil
}

func (s *KVStore) writeIndex(idx []string) error {
	if idx == nil {
		idx = []string{}
	}
	b, err := json.Marshal(idx)
	if err != nil {
		return err
	}
	return s.kv.Set(indexKey, string(b))
}

func (s *KVStore) writeBody(c *Conversation) error {
	b, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return s.kv.Set(bodyKeyPrefix+c.ID, string(b))
}

func containsID(idx []string, id string) bool {
	for _, existing := range idx {
		if existing == id {
			return true
		}
	}
	return false
}
