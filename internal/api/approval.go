package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/planframe/planframe/internal/middleware"
	"github.com/planframe/planframe/internal/models"
	"github.com/planframe/planframe/internal/repository"
	"github.com/planframe/planframe/internal/visibility"
	"github.com/planframe/planframe/internal/workflow"
	"go.uber.org/zap"
)

// ApprovalHandler exposes the workflow transitions. Capability and
// source-state checks live in the workflow package, not here: a request
// that sidesteps the UI still hits the same rules.
type ApprovalHandler struct {
	service  *workflow.Service
	postRepo repository.PostRepository
	logger   *zap.Logger
}

func NewApprovalHandler(service *workflow.Service, postRepo repository.PostRepository, logger *zap.Logger) *ApprovalHandler {
	return &ApprovalHandler{service: service, postRepo: postRepo, logger: logger}
}

type requestChangesRequest struct {
	Reason string `json:"reason"`
}

// SendToClient handles POST /v1/posts/:id/send
func (h *ApprovalHandler) SendToClient(c *gin.Context) {
	h.transition(c, func(postID uuid.UUID, actor workflow.Actor) (*models.Post, error) {
		return h.service.SendToClient(c.Request.Context(), postID, actor)
	})
}

// Approve handles POST /v1/posts/:id/approve
func (h *ApprovalHandler) Approve(c *gin.Context) {
	h.transition(c, func(postID uuid.UUID, actor workflow.Actor) (*models.Post, error) {
		return h.service.Approve(c.Request.Context(), postID, actor)
	})
}

// RequestChanges handles POST /v1/posts/:id/reject
func (h *ApprovalHandler) RequestChanges(c *gin.Context) {
	var req requestChangesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// The reason is optional; an empty body is fine.
		req.Reason = ""
	}

	h.transition(c, func(postID uuid.UUID, actor workflow.Actor) (*models.Post, error) {
		return h.service.RequestChanges(c.Request.Context(), postID, actor, req.Reason)
	})
}

// MarkReady handles POST /v1/posts/:id/ready
func (h *ApprovalHandler) MarkReady(c *gin.Context) {
	h.transition(c, func(postID uuid.UUID, actor workflow.Actor) (*models.Post, error) {
		return h.service.MarkReady(c.Request.Context(), postID, actor)
	})
}

// MarkPosted handles POST /v1/posts/:id/posted
func (h *ApprovalHandler) MarkPosted(c *gin.Context) {
	h.transition(c, func(postID uuid.UUID, actor workflow.Actor) (*models.Post, error) {
		return h.service.MarkPosted(c.Request.Context(), postID, actor)
	})
}

func (h *ApprovalHandler) transition(c *gin.Context, run func(uuid.UUID, workflow.Actor) (*models.Post, error)) {
	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return
	}

	role := middleware.GetRole(c)
	facts := middleware.GetFacts(c)

	// Visibility first: actors who can't see the post get the same 404
	// they'd get for a nonexistent one, before any workflow rule runs.
	post, err := h.postRepo.GetByID(c.Request.Context(), postID)
	if err != nil {
		h.logger.Error("failed to get post", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "transition failed"})
		return
	}
	if post == nil || !visibility.Post(*post, role, facts) {
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		return
	}

	actor := workflow.Actor{Email: facts.Email(), Role: role}
	if facts.Actor != nil {
		actor.ID = facts.Actor.ID
		actor.Name = facts.Actor.DisplayName
	}

	updated, err := run(postID, actor)
	if err != nil {
		switch {
		case errors.Is(err, workflow.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		case errors.Is(err, workflow.ErrDenied):
			c.JSON(http.StatusForbidden, gin.H{"error": "not allowed to perform this transition"})
		case errors.Is(err, workflow.ErrBadState):
			c.JSON(http.StatusConflict, gin.H{"error": "post is not in a state this transition accepts"})
		default:
			h.logger.Error("transition failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "transition failed"})
		}
		return
	}

	c.JSON(http.StatusOK, updated)
}
