// Package websocket fans ledger events out to connected clients.
package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"supplytrace/internal/auth"
	"supplytrace/internal/model"
)

const defaultSendBuffer = 256

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allow all origins for dev simplicity
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// TokenValidator resolves the token passed in the ws query string.
type TokenValidator interface {
	ValidateAccessToken(token string) (auth.Claims, error)
}

// Client represents a single connected WebSocket client
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	userID string
}

// Hub maintains the set of active clients and broadcasts events to them.
// Publish never blocks: when the broadcast queue is full the event is dropped.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	sendBuffer int
	mu         sync.RWMutex
	logger     *slog.Logger
}

// NewHub initializes a new WS Hub instance
func NewHub(sendBuffer int, logger *slog.Logger) *Hub {
	if sendBuffer <= 0 {
		sendBuffer = defaultSendBuffer
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		broadcast:  make(chan []byte, sendBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		sendBuffer: sendBuffer,
		logger:     logger,
	}
}

// Publish encodes e and queues it for every connected client.
func (h *Hub) Publish(e model.Event) {
	payload, err := json.Marshal(e)
	if err != nil {
		h.logger.Error("failed to encode event", slog.String("event", string(e.Type)), slog.Any("error", err))
		return
	}

	select {
	case h.broadcast <- payload:
	default:
		h.logger.Warn("broadcast queue full, event dropped",
			slog.String("event", string(e.Type)),
			slog.Uint64("entity_id", e.EntityID),
		)
	}
}

// ClientCount reports the number of registered clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Run starts the core dispatch loop for WebSocket events. It returns when ctx
// is done, closing every client.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			return
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.logger.Info("websocket client connected", slog.String("user_id", client.userID))
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.logger.Info("websocket client disconnected", slog.String("user_id", client.userID))
			}
			h.mu.Unlock()
		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Slow consumer.
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// writePump handles writing messages from the Hub to the WebSocket connection
func (c *Client) writePump() {
	defer func() {
		_ = c.conn.Close()
	}()
	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// readPump keeps the connection alive and unregisters the client on close.
func (c *Client) readPump(ctx context.Context) {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-ctx.Done():
		}
		_ = c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn("websocket read failed", slog.Any("error", err))
			}
			return
		}
	}
}

// ServeWs authenticates the peer through the token query param and upgrades
// the connection. Every authenticated role may subscribe.
func (h *Hub) ServeWs(ctx context.Context, c *gin.Context, tokens TokenValidator) {
	tokenString := c.Query("token")
	if tokenString == "" {
		h.logger.Warn("websocket connection rejected: missing token")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	claims, err := tokens.ValidateAccessToken(tokenString)
	if err != nil {
		h.logger.Warn("websocket connection rejected: invalid token", slog.Any("error", err))
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	if !model.ValidRole(claims.Role) {
		h.logger.Warn("websocket connection rejected: unknown role", slog.String("role", claims.Role))
		c.AbortWithStatus(http.StatusForbidden)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", slog.Any("error", err))
		return
	}
	client := &Client{hub: h, conn: conn, send: make(chan []byte, h.sendBuffer), userID: claims.UserID.String()}

	select {
	case h.register <- client:
	case <-ctx.Done():
		_ = conn.Close()
		return
	}

	go client.writePump()
	go client.readPump(ctx)
}
