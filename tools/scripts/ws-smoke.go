// Package main provides a CI-friendly smoke test for the IndieChat server.
//
// It validates:
//   - WebSocket subscription handshake on /ws
//   - create -> chat_created event fanout
//   - update -> chat_updated event fanout
//   - delete -> chat_deleted event fanout
//   - event ids and timestamps are populated
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

const maxReadBytes = 1 << 20 // 1MiB

// event mirrors the server's change-notification shape.
type event struct {
	ID     string    `json:"id"`
	Type   string    `json:"type"`
	ChatID string    `json:"chat_id"`
	TS     time.Time `json:"ts"`
}

// conversation mirrors the lifecycle API body, fields the smoke test touches.
type conversation struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Messages  json.RawMessage `json:"messages"`
	CreatedAt string          `json:"createdAt"`
	UpdatedAt string          `json:"updatedAt"`
}

func main() {
	var (
		baseURL = flag.String("url", "http://127.0.0.1:3000", "Server base URL")
		origin  = flag.String("origin", "http://localhost", "Origin header to send (browser-like WS handshake)")
		timeout = flag.Duration("timeout", 7*time.Second, "Per-step timeout")
		verbose = flag.Bool("v", false, "Verbose output")
	)
	flag.Parse()

	wsURL, err := deriveWSURL(*baseURL)
	if err != nil {
		fatalf("invalid -url: %v", err)
	}

	root := context.Background()

	conn := mustConnect(root, wsURL, *origin, *timeout)
	defer func() { _ = conn.Close(websocket.StatusNormalClosure, "bye") }()

	inbox := make(chan event, 64)
	go readLoop(root, conn, inbox)

	created := mustCreateChat(root, *baseURL, *timeout)
	if *verbose {
		fmt.Printf("created chat_id=%s\n", created.ID)
	}
	mustReceive(inbox, "chat_created", created.ID, *timeout)

	created.Title = "smoke test"
	mustUpdateChat(root, *baseURL, created, *timeout)
	mustReceive(inbox, "chat_updated", created.ID, *timeout)

	mustDeleteChat(root, *baseURL, created.ID, *timeout)
	mustReceive(inbox, "chat_deleted", created.ID, *timeout)

	fmt.Printf("OK: chat_id=%s created/updated/deleted with fanout\n", created.ID)
}

func deriveWSURL(base string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported scheme: %s", u.Scheme)
	}
	if strings.TrimSpace(u.Host) == "" {
		return "", errors.New("missing host")
	}
	u.Path = "/ws"
	return u.String(), nil
}

func mustConnect(parent context.Context, wsURL, origin string, stepTimeout time.Duration) *websocket.Conn {
	ctx, cancel := context.WithTimeout(parent, stepTimeout)
	defer cancel()

	h := http.Header{}
	if strings.TrimSpace(origin) != "" {
		h.Set("Origin", origin)
	}

	conn, resp, err := websocket.Dial(ctx, wsURL, &websocket.DialOptions{
		HTTPHeader: h,
	})
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		fatalf("connect: %v", err)
	}

	conn.SetReadLimit(maxReadBytes)
	return conn
}

func readLoop(ctx context.Context, conn *websocket.Conn, inbox chan<- event) {
	defer close(inbox)
	for {
		var ev event
		if err := wsjson.Read(ctx, conn, &ev); err != nil {
			return
		}
		select {
		case inbox <- ev:
		default:
			return
		}
	}
}

func mustReceive(inbox <-chan event, wantType, wantChatID string, stepTimeout time.Duration) {
	deadline := time.After(stepTimeout)
	for {
		select {
		case <-deadline:
			fatalf("timeout waiting for %q (chat_id=%s)", wantType, wantChatID)
		case ev, ok := <-inbox:
			if !ok {
				fatalf("connection closed while waiting for %q", wantType)
			}
			if ev.ChatID != wantChatID {
				// Another client's traffic; keep waiting.
				continue
			}
			if ev.Type != wantType {
				fatalf("unexpected event type: got=%q want=%q (chat_id=%s)", ev.Type, wantType, wantChatID)
			}
			if strings.TrimSpace(ev.ID) == "" {
				fatalf("event missing id: %+v", ev)
			}
			if ev.TS.IsZero() {
				fatalf("event missing timestamp: %+v", ev)
			}
			return
		}
	}
}

func mustCreateChat(parent context.Context, baseURL string, stepTimeout time.Duration) conversation {
	var c conversation
	mustDoJSON(parent, http.MethodPost, baseURL+"/api/chats", nil, http.StatusCreated, &c, stepTimeout)
	if strings.TrimSpace(c.ID) == "" {
		fatalf("create returned empty chat id")
	}
	return c
}

func mustUpdateChat(parent context.Context, baseURL string, c conversation, stepTimeout time.Duration) {
	body, err := json.Marshal(c)
	if err != nil {
		fatalf("marshal conversation: %v", err)
	}
	mustDoJSON(parent, http.MethodPut, baseURL+"/api/chats/"+c.ID, body, http.StatusOK, nil, stepTimeout)
}

func mustDeleteChat(parent context.Context, baseURL, id string, stepTimeout time.Duration) {
	mustDoJSON(parent, http.MethodDelete, baseURL+"/api/chats/"+id, nil, http.StatusNoContent, nil, stepTimeout)
}

func mustDoJSON(parent context.Context, method, rawURL string, body []byte, wantStatus int, dst any, stepTimeout time.Duration) {
	ctx, cancel := context.WithTimeout(parent, stepTimeout)
	defer cancel()

	var rd *bytes.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	} else {
		rd = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, rd)
	if err != nil {
		fatalf("build %s %s: %v", method, rawURL, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fatalf("%s %s: %v", method, rawURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != wantStatus {
		fatalf("%s %s: status=%d want=%d", method, rawURL, resp.StatusCode, wantStatus)
	}
	if dst != nil {
		if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
			fatalf("%s %s: decode: %v", method, rawURL, err)
		}
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "FAIL: "+format+"\n", args...)
	os.Exit(1)
}
