package notifications

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"askme/internal/middleware"
	"askme/internal/observability"

	"github.com/gofiber/websocket/v2"
)

const (
	// Max connections per signed-in user
	maxConnsPerUser = 12
	// Max total connections
	maxTotalConns = 10000
)

var (
	ErrServerFull  = errors.New("server connection limit reached")
	ErrUserFull    = errors.New("user connection limit reached")
	ErrHubShutdown = errors.New("hub is shutting down")
)

// Hub fans vote events out to every connected websocket client.
// Anonymous clients register with userID 0 and are only bound by the total limit.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	perUser map[uint]int
	closed  bool
}

// Name returns a human-readable identifier for this hub.
func (h *Hub) Name() string { return "votes hub" }

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		perUser: make(map[uint]int),
	}
}

// Register a connection. Returns the Client or an error if limits are exceeded.
func (h *Hub) Register(userID uint, conn *websocket.Conn) (*Client, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, ErrHubShutdown
	}
	if len(h.clients) >= maxTotalConns {
		return nil, ErrServerFull
	}
	if userID != 0 && h.perUser[userID] >= maxConnsPerUser {
		return nil, ErrUserFull
	}

	client := NewClient(h, conn, userID)
	h.clients[client] = struct{}{}
	if userID != 0 {
		h.perUser[userID]++
	}
	observability.WebSocketConnectionsTotal.Inc()
	return client, nil
}

// UnregisterClient removes client. Repeated calls are harmless.
func (h *Hub) UnregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	if client.UserID != 0 {
		if h.perUser[client.UserID]--; h.perUser[client.UserID] <= 0 {
			delete(h.perUser, client.UserID)
		}
	}
	observability.WebSocketConnectionsTotal.Dec()
}

// Count returns the number of registered clients.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// BroadcastAll sends message to every connected websocket client.
func (h *Hub) BroadcastAll(message string) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	data := []byte(message)
	for c := range h.clients {
		c.TrySend(data)
	}
}

// StartWiring forwards every message on VotesChannel to all clients.
func (h *Hub) StartWiring(ctx context.Context, n *Notifier) error {
	return n.StartVoteSubscriber(ctx, h.BroadcastAll)
}

// Shutdown gracefully closes all websocket connections
func (h *Hub) Shutdown(_ context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for client := range h.clients {
		if client.Conn != nil {
			if err := client.Conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "Server shutting down")); err != nil {
				middleware.Logger.Debug("close frame failed", slog.Uint64("user_id", uint64(client.UserID)), slog.String("error", err.Error()))
			}
			_ = client.Conn.Close()
		}
		observability.WebSocketConnectionsTotal.Dec()
	}
	h.clients = make(map[*Client]struct{})
	h.perUser = make(map[uint]int)
	return nil
}
