// Package proxy implements the two same-origin endpoints that shield the
// backend credential from clients: enhanced query and landing-page data.
//
// Both endpoints forward to the external RAG service with a server-held
// secret and translate every upstream or configuration failure into the
// uniform `{success:false, message, data:null, request_id:""}` envelope;
// raw upstream errors and the secret itself never reach the client.
package proxy

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"indiechat/cmd/internal/ids"
)

const (
	upstreamQueryPath   = "/api/v1/query/enhanced"
	upstreamLandingPath = "/api/v1/landing-page"

	maxRequestBytes  = 64 << 10 // 64 KiB
	maxUpstreamBytes = 4 << 20  // 4 MiB
)

// envelope is the uniform proxy response wrapper.
type envelope struct {
	Success   bool            `json:"success"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
	RequestID string          `json:"request_id"`
}

// queryRequest is the documented enhanced-query request shape.
type queryRequest struct {
	Question string `json:"question"`
	Limit    int    `json:"limit,omitempty"`
}

// Config holds the proxy's upstream wiring. Secret is the server-held
// credential; it is attached to upstream requests and never logged or echoed.
type Config struct {
	UpstreamURL string
	Secret      string
	Timeout     time.Duration
}

// Handler serves the proxy endpoints.
type Handler struct {
	log        *slog.Logger
	cfg        Config
	httpClient *http.Client
}

// Option configures optional Handler dependencies.
type Option func(*Handler)

// WithHTTPClient overrides the default upstream HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(h *Handler) {
		if httpClient != nil {
			h.httpClient = httpClient
		}
	}
}

// NewHandler constructs a proxy Handler.
func NewHandler(log *slog.Logger, cfg Config, opts ...Option) *Handler {
	if log == nil {
		log = slog.Default()
	}
	cfg.UpstreamURL = strings.TrimRight(strings.TrimSpace(cfg.UpstreamURL), "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	h := &Handler{
		log:        log,
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register wires proxy routes onto the provided mux.
func (h *Handler) Register(mux *http.ServeMux) {
	if h == nil || mux == nil {
		return
	}
	mux.HandleFunc("/api/query-enhanced", h.handleQueryEnhanced)
	mux.HandleFunc("/api/landing-page", h.handleLandingPage)
}

func (h *Handler) handleQueryEnhanced(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	reqID := ids.NewRequestID(time.Now())

	var req queryRequest
	body := http.MaxBytesReader(w, r.Body, maxRequestBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil || strings.TrimSpace(req.Question) == "" {
		writeEnvelopeError(w, http.StatusBadRequest, "Question is required and must be a string")
		return
	}
	if req.Limit <= 0 {
		req.Limit = 3
	}

	if h.cfg.Secret == "" {
		h.log.Error("proxy.query.secret_missing", "request_id", reqID)
		writeEnvelopeError(w, http.StatusInternalServerError, "Server configuration error")
		return
	}

	payload, err := json.Marshal(req)
	if err != nil {
		h.log.Error("proxy.query.encode.fail", "request_id", reqID, "err", err)
		writeEnvelopeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	upReq, err := http.NewRequestWithContext(r.Context(), http.MethodPost, h.cfg.UpstreamURL+upstreamQueryPath, bytes.NewReader(payload))
	if err != nil {
		h.log.Error("proxy.query.request.fail", "request_id", reqID, "err", err)
		writeEnvelopeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	upReq.Header.Set("Content-Type", "application/json")
	upReq.Header.Set("Authorization", "Bearer "+h.cfg.Secret)

	h.relay(w, upReq, reqID, "proxy.query")
}

func (h *Handler) handleLandingPage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	reqID := ids.NewRequestID(time.Now())

	if h.cfg.Secret == "" {
		h.log.Error("proxy.landing.secret_missing", "request_id", reqID)
		writeEnvelopeError(w, http.StatusInternalServerError, "Server configuration error")
		return
	}

	upReq, err := http.NewRequestWithContext(r.Context(), http.MethodGet, h.cfg.UpstreamURL+upstreamLandingPath, nil)
	if err != nil {
		h.log.Error("proxy.landing.request.fail", "request_id", reqID, "err", err)
		writeEnvelopeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	upReq.Header.Set("Content-Type", "application/json")
	upReq.Header.Set("X-Secret-Key", h.cfg.Secret)

	h.relay(w, upReq, reqID, "proxy.landing")
}

// relay performs the upstream call and passes the upstream envelope through on
// success. Every failure collapses into the generic 500 envelope.
func (h *Handler) relay(w http.ResponseWriter, upReq *http.Request, reqID, event string) {
	res, err := h.httpClient.Do(upReq)
	if err != nil {
		h.log.Error(event+".upstream.fail", "request_id", reqID, "err", err)
		writeEnvelopeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		h.log.Error(event+".upstream.status", "request_id", reqID, "status", res.StatusCode)
		writeEnvelopeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	buf, err := io.ReadAll(io.LimitReader(res.Body, maxUpstreamBytes))
	if err != nil {
		h.log.Error(event+".upstream.read.fail", "request_id", reqID, "err", err)
		writeEnvelopeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Request-Id", reqID)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf)
}

func writeEnvelopeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{
		Success:   false,
		Message:   msg,
		Data:      nil,
		RequestID: "",
	})
}
