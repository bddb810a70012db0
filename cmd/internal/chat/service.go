package chat

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// Service layers the UI-facing lifecycle policy on a Store: startup selection,
// user-message appends with title derivation, and assistant replies.
//
// Selection state lives only here, in memory. It is never persisted.
type Service struct {
	log   *slog.Logger
	store Store

	mu       sync.Mutex
	activeID string

	// now is injectable for tests.
	now func() time.Time
}

// NewService constructs a lifecycle service over the given store.
func NewService(log *slog.Logger, store Store) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		log:   log,
		store: store,
		now:   time.Now,
	}
}

// Open applies the startup policy: select the most-recently-created
// conversation if any exist, otherwise create one. It returns nil when the
// store is unavailable; callers must tolerate that and render empty.
func (s *Service) Open(ctx context.Context) *Conversation {
	all := s.store.ListAll(ctx)
	if len(all) > 0 {
		// ListAll sorts by CreatedAt descending.
		c := all[0]
		s.Select(c.ID)
		return &c
	}

	c := s.store.Create(ctx)
	if c == nil {
		s.log.Warn("chat.open.create.fail")
		return nil
	}
	s.Select(c.ID)
	return c
}

// Select marks a conversation as active.
func (s *Service) Select(id string) {
	s.mu.Lock()
	s.activeID = id
	s.mu.Unlock()
}

// ActiveID returns the currently selected conversation id ("" when none).
func (s *Service) ActiveID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID
}

// Get returns the stored conversation with the given id.
func (s *Service) Get(ctx context.Context, id string) (*Conversation, error) {
	if id == "" {
		return nil, ErrNotFound
	}
	for _, c := range s.store.ListAll(ctx) {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

// SendUserMessage appends a user message to c and persists it. When c has no
// title and no prior messages, the title is derived from the message text.
func (s *Service) SendUserMessage(ctx context.Context, c *Conversation, text string) error {
	if c == nil {
		return ErrNotFound
	}
	if strings.TrimSpace(text) == "" {
		return ErrEmptyMessage
	}

	if c.Title == "" && len(c.Messages) == 0 {
		c.Title = DeriveTitle(text)
	}
	c.Messages = append(c.Messages, Message{
		Role:      RoleUser,
		Content:   text,
		Timestamp: Stamp(s.now()),
	})

	if !s.store.Update(ctx, c) {
		return ErrUnavailable
	}
	return nil
}

// AppendAssistant appends an assistant reply to c and persists it.
func (s *Service) AppendAssistant(ctx context.Context, c *Conversation, content string) error {
	if c == nil {
		return ErrNotFound
	}
	if content == "" {
		return ErrEmptyMessage
	}

	c.Messages = append(c.Messages, Message{
		Role:      RoleAssistant,
		Content:   content,
		Timestamp: Stamp(s.now()),
	})

	if !s.store.Update(ctx, c) {
		return ErrUnavailable
	}
	return nil
}
