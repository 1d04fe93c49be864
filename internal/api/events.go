package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/planframe/planframe/internal/events"
	"github.com/planframe/planframe/internal/middleware"
	"github.com/planframe/planframe/internal/visibility"
	"go.uber.org/zap"
)

// EventsHandler upgrades planner views to a websocket feed of workspace
// activity (workflow transitions, new comments).
type EventsHandler struct {
	hub      *events.Hub
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

func NewEventsHandler(hub *events.Hub, logger *zap.Logger) *EventsHandler {
	return &EventsHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Browsers send Origin; the JWT on the upgrade request is
			// the actual access control here.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

// Subscribe handles GET /v1/workspaces/:id/events
func (h *EventsHandler) Subscribe(c *gin.Context) {
	workspaceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid workspace id"})
		return
	}
	if !visibility.Workspace(workspaceID, middleware.GetRole(c), middleware.GetFacts(c)) {
		c.JSON(http.StatusNotFound, gin.H{"error": "workspace not found"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	h.hub.Subscribe(workspaceID, conn)
	defer func() {
		h.hub.Unsubscribe(workspaceID, conn)
		conn.Close()
	}()

	// The feed is one-way; the read loop only exists to notice the client
	// going away (close frames, dropped TCP).
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
