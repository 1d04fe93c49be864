// Package events pushes workflow activity to open planner views over
// websockets, scoped per workspace. Delivery is best-effort: a slow or dead
// subscriber is dropped, never waited on.
package events

import (
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Event types broadcast to workspace subscribers.
const (
	TypePostUpdated    = "post.updated"
	TypeCommentCreated = "comment.created"
)

// Event is one JSON message pushed to every subscriber of a workspace.
type Event struct {
	Type        string    `json:"type"`
	WorkspaceID uuid.UUID `json:"workspace_id"`
	Payload     any       `json:"payload"`
}

type Hub struct {
	mu     sync.RWMutex
	subs   map[uuid.UUID]map[*websocket.Conn]bool
	logger *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		subs:   make(map[uuid.UUID]map[*websocket.Conn]bool),
		logger: logger,
	}
}

// Subscribe registers a connection for a workspace's events.
func (h *Hub) Subscribe(workspaceID uuid.UUID, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[workspaceID] == nil {
		h.subs[workspaceID] = make(map[*websocket.Conn]bool)
	}
	h.subs[workspaceID][conn] = true
}

// Unsubscribe removes a connection. Safe to call twice.
func (h *Hub) Unsubscribe(workspaceID uuid.UUID, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs[workspaceID], conn)
	if len(h.subs[workspaceID]) == 0 {
		delete(h.subs, workspaceID)
	}
}

// Broadcast sends the event to every subscriber of its workspace.
// Connections that fail to write are closed and dropped.
func (h *Hub) Broadcast(event Event) {
	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.subs[event.WorkspaceID]))
	for conn := range h.subs[event.WorkspaceID] {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	var dead []*websocket.Conn
	for _, conn := range conns {
		if err := conn.WriteJSON(event); err != nil {
			h.logger.Debug("dropping dead event subscriber", zap.Error(err))
			dead = append(dead, conn)
		}
	}

	for _, conn := range dead {
		conn.Close()
		h.Unsubscribe(event.WorkspaceID, conn)
	}
}
