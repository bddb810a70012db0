package proxy

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newProxyServer(t *testing.T, cfg Config) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	NewHandler(testLogger(), cfg).Register(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func decodeEnvelope(t *testing.T, resp *http.Response) envelope {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decoding envelope: %v", err)
	}
	return env
}

func TestQueryEnhancedForwardsWithBearerSecret(t *testing.T) {
	t.Parallel()

	var gotAuth, gotPath string
	var gotBody queryRequest
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"message":"ok","data":{"answer":42},"request_id":"up-1"}`))
	}))
	t.Cleanup(upstream.Close)

	srv := newProxyServer(t, Config{UpstreamURL: upstream.URL, Secret: "s3cret"})

	resp, err := http.Post(srv.URL+"/api/query-enhanced", "application/json",
		strings.NewReader(`{"question":"what is indiehash?"}`))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if resp.Header.Get("X-Request-Id") == "" {
		t.Fatal("missing X-Request-Id on a relayed response")
	}

	env := decodeEnvelope(t, resp)
	if !env.Success || env.RequestID != "up-1" {
		t.Fatalf("relayed envelope = %+v", env)
	}

	if gotAuth != "Bearer s3cret" {
		t.Fatalf("upstream Authorization = %q", gotAuth)
	}
	if gotPath != upstreamQueryPath {
		t.Fatalf("upstream path = %q, want %q", gotPath, upstreamQueryPath)
	}
	if gotBody.Question != "what is indiehash?" || gotBody.Limit != 3 {
		t.Fatalf("upstream body = %+v, want question with defaulted limit 3", gotBody)
	}
}

func TestQueryEnhancedRejectsBadBody(t *testing.T) {
	t.Parallel()

	srv := newProxyServer(t, Config{UpstreamURL: "http://127.0.0.1:1", Secret: "s"})

	for _, body := range []string{"", "{not json", `{"question":""}`, `{"question":"   "}`, `{"limit":5}`} {
		resp, err := http.Post(srv.URL+"/api/query-enhanced", "application/json", strings.NewReader(body))
		if err != nil {
			t.Fatalf("POST %q: %v", body, err)
		}
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("body %q: status = %d, want 400", body, resp.StatusCode)
		}
		env := decodeEnvelope(t, resp)
		if env.Success || env.Message != "Question is required and must be a string" || env.RequestID != "" {
			t.Fatalf("body %q: envelope = %+v", body, env)
		}
	}
}

func TestMissingSecretIsConfigurationError(t *testing.T) {
	t.Parallel()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("upstream must not be called without a configured secret")
	}))
	t.Cleanup(upstream.Close)

	srv := newProxyServer(t, Config{UpstreamURL: upstream.URL, Secret: ""})

	resp, err := http.Post(srv.URL+"/api/query-enhanced", "application/json",
		strings.NewReader(`{"question":"hello"}`))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("query status = %d, want 500", resp.StatusCode)
	}
	if env := decodeEnvelope(t, resp); env.Message != "Server configuration error" {
		t.Fatalf("query envelope = %+v", env)
	}

	resp, err = http.Get(srv.URL + "/api/landing-page")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("landing status = %d, want 500", resp.StatusCode)
	}
	if env := decodeEnvelope(t, resp); env.Message != "Server configuration error" {
		t.Fatalf("landing envelope = %+v", env)
	}
}

func TestUpstreamFailureIsGenericError(t *testing.T) {
	t.Parallel()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"secret internals leaked here"}`, http.StatusBadGateway)
	}))
	t.Cleanup(upstream.Close)

	srv := newProxyServer(t, Config{UpstreamURL: upstream.URL, Secret: "s"})

	resp, err := http.Post(srv.URL+"/api/query-enhanced", "application/json",
		strings.NewReader(`{"question":"hello"}`))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", resp.StatusCode)
	}
	env := decodeEnvelope(t, resp)
	if env.Success || env.Message != "Internal server error" || env.RequestID != "" {
		t.Fatalf("envelope = %+v, upstream detail must not pass through", env)
	}
	if strings.Contains(string(env.Data), "leaked") {
		t.Fatalf("envelope data leaked upstream detail: %s", env.Data)
	}

	// Same shape when nothing answers at all.
	dead := newProxyServer(t, Config{UpstreamURL: "http://127.0.0.1:1", Secret: "s"})
	resp, err = http.Post(dead.URL+"/api/query-enhanced", "application/json",
		strings.NewReader(`{"question":"hello"}`))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("dead upstream status = %d, want 500", resp.StatusCode)
	}
	if env := decodeEnvelope(t, resp); env.Message != "Internal server error" {
		t.Fatalf("dead upstream envelope = %+v", env)
	}
}

func TestLandingPageForwardsWithSecretHeader(t *testing.T) {
	t.Parallel()

	var gotSecret, gotPath string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSecret = r.Header.Get("X-Secret-Key")
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"message":"ok","data":{},"request_id":"up-2"}`))
	}))
	t.Cleanup(upstream.Close)

	srv := newProxyServer(t, Config{UpstreamURL: upstream.URL, Secret: "landing-secret"})

	resp, err := http.Get(srv.URL + "/api/landing-page")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if env := decodeEnvelope(t, resp); !env.Success || env.RequestID != "up-2" {
		t.Fatalf("envelope = %+v", env)
	}

	if gotSecret != "landing-secret" {
		t.Fatalf("upstream X-Secret-Key = %q", gotSecret)
	}
	if gotPath != upstreamLandingPath {
		t.Fatalf("upstream path = %q, want %q", gotPath, upstreamLandingPath)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	t.Parallel()

	srv := newProxyServer(t, Config{UpstreamURL: "http://127.0.0.1:1", Secret: "s"})

	resp, err := http.Get(srv.URL + "/api/query-enhanced")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("GET query status = %d, want 405", resp.StatusCode)
	}

	resp, err = http.Post(srv.URL+"/api/landing-page", "application/json", nil)
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("POST landing status = %d, want 405", resp.StatusCode)
	}
}
