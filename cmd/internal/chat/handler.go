package chat

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

const maxBodyBytes = 1 << 20 // 1 MiB

// Change event types published on conversation mutations.
const (
	EventCreated = "chat_created"
	EventUpdated = "chat_updated"
	EventDeleted = "chat_deleted"
)

// EventSink receives change notifications for conversation mutations so that
// other connected clients can converge (the storage-event analog for tabs
// that no longer share a browser).
type EventSink interface {
	Publish(eventType, chatID string)
}

type nopSink struct{}

func (nopSink) Publish(string, string) {}

// Handler exposes the conversation lifecycle and the deep-link lookup over
// HTTP.
type Handler struct {
	log    *slog.Logger
	store  Store
	svc    *Service
	events EventSink
}

// NewHandler constructs a chat Handler. A nil sink disables notifications.
func NewHandler(log *slog.Logger, store Store, svc *Service, events EventSink) *Handler {
	if log == nil {
		log = slog.Default()
	}
	if events == nil {
		events = nopSink{}
	}
	return &Handler{
		log:    log,
		store:  store,
		svc:    svc,
		events: events,
	}
}

// Register wires chat routes onto the provided mux.
func (h *Handler) Register(mux *http.ServeMux) {
	if h == nil || mux == nil {
		return
	}
	mux.HandleFunc("/api/chats", h.handleChats)
	mux.HandleFunc("/api/chats/", h.handleChatByID)
	mux.HandleFunc("/chat/details/", h.handleChatDetails)
}

// handleChats serves the collection: GET lists, POST creates.
func (h *Handler) handleChats(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		all := h.store.ListAll(r.Context())
		if all == nil {
			all = []Conversation{}
		}
		writeJSON(w, http.StatusOK, all)

	case http.MethodPost:
		c := h.store.Create(r.Context())
		if c == nil {
			writeError(w, http.StatusServiceUnavailable, "storage_unavailable", "conversation could not be created")
			return
		}
		h.events.Publish(EventCreated, c.ID)
		writeJSON(w, http.StatusCreated, c)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleChatByID serves /api/chats/{id} and /api/chats/{id}/messages.
func (h *Handler) handleChatByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/chats/")
	id, sub, _ := strings.Cut(rest, "/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "missing conversation id")
		return
	}

	switch {
	case sub == "" && r.Method == http.MethodPut:
		h.updateChat(w, r, id)
	case sub == "" && r.Method == http.MethodDelete:
		h.deleteChat(w, r, id)
	case sub == "messages" && r.Method == http.MethodPost:
		h.appendMessage(w, r, id)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *Handler) updateChat(w http.ResponseWriter, r *http.Request, id string) {
	var c Conversation
	if err := decodeJSON(w, r, maxBodyBytes, &c); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}
	if c.ID == "" {
		c.ID = id
	}
	if c.ID != id {
		writeError(w, http.StatusBadRequest, "id_mismatch", "body id does not match path id")
		return
	}

	if !h.store.IsAvailable(r.Context()) {
		writeError(w, http.StatusServiceUnavailable, "storage_unavailable", "storage backend unavailable")
		return
	}
	if !h.store.Update(r.Context(), &c) {
		writeError(w, http.StatusNotFound, "unknown_id", "no such conversation")
		return
	}

	h.events.Publish(EventUpdated, c.ID)
	writeJSON(w, http.StatusOK, c)
}

func (h *Handler) deleteChat(w http.ResponseWriter, r *http.Request, id string) {
	if !h.store.Delete(r.Context(), id) {
		writeError(w, http.StatusServiceUnavailable, "storage_unavailable", "conversation could not be deleted")
		return
	}
	h.events.Publish(EventDeleted, id)
	w.WriteHeader(http.StatusNoContent)
}

type appendMessageRequest struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func (h *Handler) appendMessage(w http.ResponseWriter, r *http.Request, id string) {
	var req appendMessageRequest
	if err := decodeJSON(w, r, maxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}

	ctx := r.Context()
	c, err := h.svc.Get(ctx, id)
	if err != nil {
		writeError(w, http.StatusNotFound, "unknown_id", "no such conversation")
		return
	}

	switch Role(req.Role) {
	case RoleAssistant:
		err = h.svc.AppendAssistant(ctx, c, req.Content)
	case RoleUser, "":
		err = h.svc.SendUserMessage(ctx, c, req.Content)
	default:
		writeError(w, http.StatusBadRequest, "invalid_role", "role must be user or assistant")
		return
	}

	switch {
	case errors.Is(err, ErrEmptyMessage):
		writeError(w, http.StatusBadRequest, "empty_message", "message content is required")
	case errors.Is(err, ErrUnavailable):
		writeError(w, http.StatusServiceUnavailable, "storage_unavailable", "message could not be persisted")
	case err != nil:
		h.log.Error("chat.append.fail", "chat_id", id, "err", err)
		writeError(w, http.StatusInternalServerError, "internal", "message could not be persisted")
	default:
		h.events.Publish(EventUpdated, c.ID)
		writeJSON(w, http.StatusOK, c)
	}
}

type chatDetailsResponse struct {
	ChatID    string  `json:"chat_id"`
	Message   Message `json:"message"`
	YouTubeID string  `json:"youtube_id,omitempty"`
}

// handleChatDetails resolves a deep link: /chat/details/<url-encoded timestamp>.
func (h *Handler) handleChatDetails(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	raw := strings.TrimPrefix(r.URL.Path, "/chat/details/")
	ts, err := url.PathUnescape(raw)
	if err != nil || ts == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "missing or malformed timestamp")
		return
	}

	msg, chatID, ok := FindMessageByTimestamp(r.Context(), h.store, ts)
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "no message with that timestamp")
		return
	}

	writeJSON(w, http.StatusOK, chatDetailsResponse{
		ChatID:    chatID,
		Message:   msg,
		YouTubeID: ExtractYouTubeID(msg.Content),
	})
}
