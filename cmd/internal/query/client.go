package query

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	enhancedQueryPath = "/api/query-enhanced"
	landingPagePath   = "/api/landing-page"

	maxResponseBytes = 4 << 20 // 4 MiB
)

// HTTPStatusError captures non-2xx responses with status-aware context.
type HTTPStatusError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("query: unexpected status %d from %s: %s", e.StatusCode, e.URL, e.Body)
}

// HTTPStatusCode returns the upstream status code.
func (e *HTTPStatusError) HTTPStatusCode() int {
	return e.StatusCode
}

// Client calls the proxy endpoints and falls back to the deterministic mocks
// when anything between here and the backend fails.
//
// Cancellation of the supplied context aborts the in-flight request; by
// default that too lands in the mock-fallback path, because the caller's
// contract is "always render something".
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
	fallback   bool
}

// Option configures optional Client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithMockFallback toggles the offline mock substitution (default on).
// With the fallback disabled, failures surface as errors.
func WithMockFallback(enabled bool) Option {
	return func(c *Client) {
		c.fallback = enabled
	}
}

// NewClient constructs a Client for the proxy at baseURL.
func NewClient(log *slog.Logger, baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("query: base URL must not be empty")
	}
	if log == nil {
		log = slog.Default()
	}

	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        log,
		fallback:   true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// QueryEnhanced submits a question to the enhanced-query endpoint. The limit
// defaults to DefaultLimit when non-positive. Any transport failure, non-2xx
// status, or undecodable body yields the mock response instead of an error.
func (c *Client) QueryEnhanced(ctx context.Context, question string, limit int) (EnhancedQueryResponse, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return EnhancedQueryResponse{}, ErrEmptyQuestion
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	body, err := json.Marshal(QueryRequest{Question: question, Limit: limit})
	if err != nil {
		return EnhancedQueryResponse{}, fmt.Errorf("query: marshal request: %w", err)
	}

	url := c.baseURL + enhancedQueryPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return EnhancedQueryResponse{}, fmt.Errorf("query: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var out EnhancedQueryResponse
	if err := c.doJSON(req, url, &out); err != nil {
		if c.fallback {
			c.log.Warn("query.enhanced.fallback", "err", err)
			return MockEnhancedResponse(question), nil
		}
		return EnhancedQueryResponse{}, err
	}
	return out, nil
}

// LandingPage fetches the landing-page payload, with the same mock fallback
// as QueryEnhanced.
func (c *Client) LandingPage(ctx context.Context) (LandingPageResponse, error) {
	url := c.baseURL + landingPagePath
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return LandingPageResponse{}, fmt.Errorf("query: create request: %w", err)
	}

	var out LandingPageResponse
	if err := c.doJSON(req, url, &out); err != nil {
		if c.fallback {
			c.log.Warn("query.landing.fallback", "err", err)
			return MockLandingPageResponse(), nil
		}
		return LandingPageResponse{}, err
	}
	return out, nil
}

func (c *Client) doJSON(req *http.Request, url string, dst any) error {
	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		buf, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return &HTTPStatusError{
			StatusCode: res.StatusCode,
			URL:        url,
			Body:       string(buf),
		}
	}

	buf, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}
	if err := json.Unmarshal(buf, dst); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
