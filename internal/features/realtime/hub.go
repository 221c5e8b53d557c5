package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Connection is a live client channel. The hub owns it for its lifetime and
// is the single source of truth for who is currently connected.
type Connection struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	ChurchID    string    `json:"church_id"`
	Role        string    `json:"role"`
	Name        string    `json:"name"`
	ConnectedAt time.Time `json:"connected_at"`

	send  func(data []byte) error
	close func() error
}

// NewConnection builds a Connection around a transport sink. closeFn may be
// nil for transports that need no explicit shutdown.
func NewConnection(id, userID, churchID, role, name string, send func(data []byte) error, closeFn func() error) *Connection {
	return &Connection{
		ID:          id,
		UserID:      userID,
		ChurchID:    churchID,
		Role:        role,
		Name:        name,
		ConnectedAt: time.Now(),
		send:        send,
		close:       closeFn,
	}
}

// Message is the JSON envelope pushed to clients
type Message struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// ConnectionStats summarizes the current connection set
type ConnectionStats struct {
	TotalConnections          int     `json:"total_connections"`
	UniqueUsers               int     `json:"unique_users"`
	AverageConnectionsPerUser float64 `json:"average_connections_per_user"`
}

// ConnectedUser is one distinct connected user
type ConnectedUser struct {
	UserID   string `json:"user_id"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	ChurchID string `json:"church_id"`
}

// Hub tracks open client channels and delivers messages to targeted subsets.
// All operations are safe under concurrent registration, removal and
// broadcast from request handlers.
type Hub struct {
	mu          sync.RWMutex
	connections map[string]*Connection
	logger      *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		connections: make(map[string]*Connection),
		logger:      logger,
	}
}

// AddConnection registers a connection. A duplicate id is last-write-wins:
// the superseded channel is closed before the new entry replaces it.
func (h *Hub) AddConnection(conn *Connection) {
	h.mu.Lock()
	old, existed := h.connections[conn.ID]
	h.connections[conn.ID] = conn
	h.mu.Unlock()

	if existed && old.close != nil {
		_ = old.close()
	}

	h.logger.Debug("realtime connection added",
		zap.String("connection_id", conn.ID),
		zap.String("user_id", conn.UserID))
}

// RemoveConnection is idempotent; removing an unknown id is a no-op
func (h *Hub) RemoveConnection(id string) {
	h.mu.Lock()
	conn, ok := h.connections[id]
	delete(h.connections, id)
	h.mu.Unlock()

	if ok && conn.close != nil {
		_ = conn.close()
	}
}

// Broadcast delivers the message to every connection the filter accepts, or
// all connections when filter is nil. A connection whose sink fails is dropped
// without aborting delivery to the rest. Returns the delivered count.
func (h *Hub) Broadcast(msg Message, filter func(*Connection) bool) int {
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}

	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("failed to marshal realtime message", zap.Error(err))
		return 0
	}

	h.mu.RLock()
	targets := make([]*Connection, 0, len(h.connections))
	for _, conn := range h.connections {
		if filter == nil || filter(conn) {
			targets = append(targets, conn)
		}
	}
	h.mu.RUnlock()

	delivered := 0
	for _, conn := range targets {
		if err := conn.send(data); err != nil {
			h.logger.Warn("dropping dead realtime connection",
				zap.String("connection_id", conn.ID),
				zap.Error(err))
			h.RemoveConnection(conn.ID)
			continue
		}
		delivered++
	}
	return delivered
}

// BroadcastToUser delivers to every connection the user holds
func (h *Hub) BroadcastToUser(userID string, msg Message) int {
	return h.Broadcast(msg, func(c *Connection) bool {
		return c.UserID == userID
	})
}

// BroadcastToChurch delivers to every connection of one church account
func (h *Hub) BroadcastToChurch(churchID string, msg Message) int {
	return h.Broadcast(msg, func(c *Connection) bool {
		return c.ChurchID == churchID
	})
}

// BroadcastToRole delivers to every connection holding the given role
func (h *Hub) BroadcastToRole(role string, msg Message) int {
	return h.Broadcast(msg, func(c *Connection) bool {
		return c.Role == role
	})
}

// Stats returns aggregate connection statistics; averages are 0 when empty
func (h *Hub) Stats() ConnectionStats {
	h.mu.RLock()
	defer h.mu.RUnlock()

	users := make(map[string]bool)
	for _, conn := range h.connections {
		users[conn.UserID] = true
	}

	stats := ConnectionStats{
		TotalConnections: len(h.connections),
		UniqueUsers:      len(users),
	}
	if len(users) > 0 {
		stats.AverageConnectionsPerUser = float64(len(h.connections)) / float64(len(users))
	}
	return stats
}

// ConnectedUsers returns the distinct set of connected users, optionally
// scoped to one church (empty churchID means all)
func (h *Hub) ConnectedUsers(churchID string) []ConnectedUser {
	h.mu.RLock()
	defer h.mu.RUnlock()

	seen := make(map[string]bool)
	users := make([]ConnectedUser, 0)
	for _, conn := range h.connections {
		if churchID != "" && conn.ChurchID != churchID {
			continue
		}
		if seen[conn.UserID] {
			continue
		}
		seen[conn.UserID] = true
		users = append(users, ConnectedUser{
			UserID:   conn.UserID,
			Name:     conn.Name,
			Role:     conn.Role,
			ChurchID: conn.ChurchID,
		})
	}
	return users
}
