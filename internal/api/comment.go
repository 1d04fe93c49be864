package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	commentgate "github.com/planframe/planframe/internal/comments"
	"github.com/planframe/planframe/internal/events"
	"github.com/planframe/planframe/internal/middleware"
	"github.com/planframe/planframe/internal/models"
	"github.com/planframe/planframe/internal/repository"
	"github.com/planframe/planframe/internal/visibility"
	"go.uber.org/zap"
)

// CommentHandler handles post comments. Who sees what is decided by the
// visibility filter; who may flag internal or resolve is decided by the
// comment gate.
type CommentHandler struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	hub         *events.Hub
	logger      *zap.Logger
}

func NewCommentHandler(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	hub *events.Hub,
	logger *zap.Logger,
) *CommentHandler {
	return &CommentHandler{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		hub:         hub,
		logger:      logger,
	}
}

type createCommentRequest struct {
	Content    string `json:"content" binding:"required"`
	IsInternal bool   `json:"is_internal"`
}

// Create handles POST /v1/posts/:id/comments
func (h *CommentHandler) Create(c *gin.Context) {
	post, ok := h.loadVisiblePost(c)
	if !ok {
		return
	}

	role := middleware.GetRole(c)
	if !commentgate.CanComment(role) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not allowed to comment"})
		return
	}

	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	facts := middleware.GetFacts(c)
	comment := &models.Comment{
		PostID:      post.ID,
		WorkspaceID: post.WorkspaceID,
		AuthorEmail: facts.Email(),
		// Clients can't write internal comments no matter what they send.
		IsInternal: commentgate.Internal(role, req.IsInternal),
		Content:    req.Content,
	}
	if facts.Actor != nil {
		comment.AuthorID = facts.Actor.ID
		comment.AuthorName = facts.Actor.DisplayName
	}

	created, err := h.commentRepo.Create(c.Request.Context(), comment)
	if err != nil {
		h.logger.Error("failed to create comment", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create comment"})
		return
	}

	if h.hub != nil {
		h.hub.Broadcast(events.Event{
			Type:        events.TypeCommentCreated,
			WorkspaceID: created.WorkspaceID,
			Payload:     created,
		})
	}

	c.JSON(http.StatusCreated, created)
}

// List handles GET /v1/posts/:id/comments
func (h *CommentHandler) List(c *gin.Context) {
	post, ok := h.loadVisiblePost(c)
	if !ok {
		return
	}

	all, err := h.commentRepo.ListByPost(c.Request.Context(), post.ID)
	if err != nil {
		h.logger.Error("failed to list comments", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list comments"})
		return
	}

	visible := visibility.Comments(all, middleware.GetRole(c))
	c.JSON(http.StatusOK, visible)
}

// Resolve handles POST /v1/comments/:id/resolve
//
// One-directional: resolved comments stay resolved.
func (h *CommentHandler) Resolve(c *gin.Context) {
	role := middleware.GetRole(c)
	if !commentgate.CanResolve(role) {
		c.JSON(http.StatusForbidden, gin.H{"error": "staff access required"})
		return
	}

	commentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid comment id"})
		return
	}

	comment, err := h.commentRepo.GetByID(c.Request.Context(), commentID)
	if err != nil {
		h.logger.Error("failed to get comment", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve comment"})
		return
	}
	if comment == nil || !visibility.Workspace(comment.WorkspaceID, role, middleware.GetFacts(c)) {
		c.JSON(http.StatusNotFound, gin.H{"error": "comment not found"})
		return
	}

	if err := h.commentRepo.Resolve(c.Request.Context(), commentID); err != nil {
		h.logger.Error("failed to resolve comment", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve comment"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *CommentHandler) loadVisiblePost(c *gin.Context) (*models.Post, bool) {
	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return nil, false
	}

	post, err := h.postRepo.GetByID(c.Request.Context(), postID)
	if err != nil {
		h.logger.Error("failed to get post", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get post"})
		return nil, false
	}
	if post == nil || !visibility.Post(*post, middleware.GetRole(c), middleware.GetFacts(c)) {
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		return nil, false
	}

	return post, true
}
