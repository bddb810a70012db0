package events

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"indiechat/cmd/internal/ids"
)

const (
	defaultWriteTimeout  = 5 * time.Second
	defaultSendQueueSize = 64

	// Subscribers only listen; anything beyond a small control frame is abuse.
	maxFrameBytes = 4 << 10
)

// Gateway upgrades HTTP requests to WebSocket subscriptions on a Hub.
type Gateway struct {
	log *slog.Logger
	hub *Hub

	// Host patterns authorized for cross-origin upgrades, as understood by
	// websocket.AcceptOptions.OriginPatterns.
	originPatterns []string

	writeTimeout  time.Duration
	sendQueueSize int
}

// NewGateway constructs a Gateway over the given hub.
func NewGateway(log *slog.Logger, hub *Hub, originPatterns []string) *Gateway {
	if log == nil {
		log = slog.Default()
	}
	if hub == nil {
		hub = NewHub(log)
	}
	return &Gateway{
		log:            log,
		hub:            hub,
		originPatterns: originPatterns,
		writeTimeout:   defaultWriteTimeout,
		sendQueueSize:  defaultSendQueueSize,
	}
}

// Hub returns the gateway's hub, for wiring into the mutation path.
func (g *Gateway) Hub() *Hub {
	return g.hub
}

// ServeHTTP adapter so the gateway can be mounted as http.Handler.
func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	g.HandleWS(w, r)
}

// HandleWS upgrades the request and streams change events until the peer
// disconnects.
func (g *Gateway) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: g.originPatterns,
	})
	if err != nil {
		g.log.Error("events.accept.fail", "err", err)
		return
	}
	defer func() { _ = conn.Close(websocket.StatusNormalClosure, "bye") }()

	conn.SetReadLimit(maxFrameBytes)

	sessionID := ids.NewRequestID(time.Now())
	client := NewClient(sessionID, g.sendQueueSize)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	g.hub.Join(client)
	defer g.hub.Leave(sessionID)

	// Drain reads so close frames are processed; subscribers never send.
	go func() {
		for {
			if _, _, err := conn.Read(ctx); err != nil {
				cancel()
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-client.Done():
			return
		case ev := <-client.Send:
			writeCtx, writeCancel := context.WithTimeout(ctx, g.writeTimeout)
			err := wsjson.Write(writeCtx, conn, ev)
			writeCancel()
			if err != nil {
				g.log.Info("events.write.fail", "session_id", sessionID, "err", err)
				return
			}
		}
	}
}
