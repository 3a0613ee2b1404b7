package websocket

import (
	"context"
	"log/slog"
	"sync"

	"github.com/princekumarofficial/tubely-service/internal/types"
)

// Hub tracks the live connections of each user and fans video events out to
// them. A user may hold several connections (one per open tab).
type Hub struct {
	// connections by user ID
	clients map[string]map[*Client]struct{}
	mu      sync.RWMutex

	register   chan *Client
	unregister chan *Client
	broadcast  chan *BroadcastMessage

	// closed when Run returns
	done chan struct{}
}

// BroadcastMessage represents a message to be delivered to one user
type BroadcastMessage struct {
	UserID string       `json:"user_id"`
	Event  *types.Event `json:"event"`
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *BroadcastMessage, 256),
		done:       make(chan struct{}),
	}
}

// Run serves register, unregister and broadcast requests until ctx is done,
// then closes every remaining connection.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.mu.Lock()
			conns, ok := h.clients[client.userID]
			if !ok {
				conns = make(map[*Client]struct{})
				h.clients[client.userID] = conns
			}
			conns[client] = struct{}{}
			h.mu.Unlock()
			slog.Info("WebSocket client connected", slog.String("user_id", client.userID))

		case client := <-h.unregister:
			h.remove(client)

		case message := <-h.broadcast:
			h.deliver(message)
		}
	}
}

// remove drops client and closes its send channel. The hub goroutine is the
// only place send channels are closed.
func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.clients[client.userID]
	if !ok {
		return
	}
	if _, ok := conns[client]; !ok {
		return
	}
	delete(conns, client)
	if len(conns) == 0 {
		delete(h.clients, client.userID)
	}
	close(client.send)
	slog.Info("WebSocket client disconnected", slog.String("user_id", client.userID))
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for userID, conns := range h.clients {
		for c := range conns {
			close(c.send)
		}
		delete(h.clients, userID)
	}
}

func (h *Hub) deliver(message *BroadcastMessage) {
	var slow []*Client

	h.mu.RLock()
	for client := range h.clients[message.UserID] {
		if err := client.SendEvent(message.Event); err != nil {
			slog.Warn("Dropping slow WebSocket client",
				slog.String("user_id", message.UserID),
				slog.String("error", err.Error()))
			slow = append(slow, client)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.remove(c)
	}
}

// RegisterClient registers a new client. It reports false once the hub has
// stopped.
func (h *Hub) RegisterClient(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// UnregisterClient unregisters a client
func (h *Hub) UnregisterClient(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// BroadcastToUser queues event for every connection of userID. The event is
// dropped when the queue is full.
func (h *Hub) BroadcastToUser(userID string, event *types.Event) {
	select {
	case h.broadcast <- &BroadcastMessage{UserID: userID, Event: event}:
	default:
		slog.Warn("Broadcast channel is full, dropping message", slog.String("user_id", userID))
	}
}

// IsUserConnected checks if a user is currently connected
func (h *Hub) IsUserConnected(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients[userID]) > 0
}

// GetClientCount returns the number of open connections
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	n := 0
	for _, conns := range h.clients {
		n += len(conns)
	}
	return n
}
