package websocket

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"creditrisk/internal/infrastructure"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	defaultPongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	defaultPingPeriod = (defaultPongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 512

	sendBuffer = 256
)

// Client is a middleman between the websocket connection and the hub
type Client struct {
	hub  *Hub
	conn Connection
	send chan []byte

	id          string
	traceID     string
	remoteAddr  string
	connectedAt time.Time

	pingPeriod time.Duration
	pongWait   time.Duration

	logger *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHeartbeat overrides the ping period and pong deadline. Non-positive
// values keep the defaults; a ping period not shorter than the pong wait is
// clamped to nine tenths of it.
func WithHeartbeat(pingPeriod, pongWait time.Duration) ClientOption {
	return func(c *Client) {
		if pongWait > 0 {
			c.pongWait = pongWait
		}
		if pingPeriod > 0 {
			c.pingPeriod = pingPeriod
		}
		if c.pingPeriod >= c.pongWait {
			c.pingPeriod = (c.pongWait * 9) / 10
		}
	}
}

// NewClient wraps conn in a client bound to hub.
func NewClient(hub *Hub, conn Connection, traceID string, logger *slog.Logger, opts ...ClientOption) *Client {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	id := uuid.New().String()
	c := &Client{
		hub:         hub,
		conn:        conn,
		send:        make(chan []byte, sendBuffer),
		id:          id,
		traceID:     traceID,
		remoteAddr:  conn.RemoteAddr(),
		connectedAt: time.Now(),
		pingPeriod:  defaultPingPeriod,
		pongWait:    defaultPongWait,
		logger: infrastructure.WithComponent(logger, "websocket.client").With(
			slog.String("client_id", id),
		),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ID returns the client identifier.
func (c *Client) ID() string { return c.id }

func (c *Client) context() context.Context {
	ctx := context.Background()
	if c.traceID != "" {
		ctx = infrastructure.WithTraceID(ctx, c.traceID)
	}
	return ctx
}

// ReadPump drains the connection so pongs and close frames are processed.
// Clients have nothing to say to the server beyond heartbeats.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(c.pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.ErrorContext(c.context(), "Unexpected WebSocket close error",
					slog.String("error", err.Error()))
			}
			return
		}
	}
}

// WritePump pumps messages from the hub to the websocket connection
func (c *Client) WritePump() {
	ticker := time.NewTicker(c.pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.logger.ErrorContext(c.context(), "Error writing message to WebSocket",
					slog.String("error", err.Error()))
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.DebugContext(c.context(), "Failed to send ping message",
					slog.String("error", err.Error()))
				return
			}
		}
	}
}

// Upgrader returns a websocket upgrader accepting the given origins. An
// empty list or "*" accepts any origin.
func Upgrader(allowedOrigins []string, readBuffer, writeBuffer int) *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:  readBuffer,
		WriteBufferSize: writeBuffer,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" || len(allowedOrigins) == 0 {
				return true
			}
			for _, allowed := range allowedOrigins {
				if allowed == "*" || strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// Handler upgrades the request and attaches the connection to hub.
func Handler(hub *Hub, upgrader *websocket.Upgrader, logger *slog.Logger, opts ...ClientOption) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			// Upgrade has already written an HTTP error response.
			logger.WarnContext(r.Context(), "WebSocket upgrade failed",
				slog.String("error", err.Error()))
			return
		}
		ctx := infrastructure.EnsureTraceID(r.Context())
		client := NewClient(hub, NewConnectionWrapper(conn), infrastructure.GetTraceID(ctx), logger, opts...)
		hub.Register(client)

		go client.WritePump()
		go client.ReadPump()
	}
}
