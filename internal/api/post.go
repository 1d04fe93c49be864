package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/planframe/planframe/internal/middleware"
	"github.com/planframe/planframe/internal/models"
	"github.com/planframe/planframe/internal/repository"
	"github.com/planframe/planframe/internal/visibility"
	"go.uber.org/zap"
)

// PostHandler handles planned-content CRUD. Content edits live here;
// lifecycle transitions live in ApprovalHandler.
type PostHandler struct {
	postRepo    repository.PostRepository
	accountRepo repository.AccountRepository
	logger      *zap.Logger
}

func NewPostHandler(postRepo repository.PostRepository, accountRepo repository.AccountRepository, logger *zap.Logger) *PostHandler {
	return &PostHandler{postRepo: postRepo, accountRepo: accountRepo, logger: logger}
}

// Statuses in which staff may still edit content fields. Once a post is
// approved or beyond, edits would silently invalidate the client's sign-off.
func editable(status models.PostStatus) bool {
	switch status {
	case models.PostStatusDraft, models.PostStatusInternalReview, models.PostStatusSentToClient:
		return true
	}
	return false
}

type postContent struct {
	ScheduledDate *time.Time `json:"scheduled_date" time_format:"2006-01-02"`
	ScheduledTime string     `json:"scheduled_time"`
	Caption       string     `json:"caption"`
	Hashtags      string     `json:"hashtags"`
	FirstComment  string     `json:"first_comment"`
	AssetURLs     []string   `json:"asset_urls"`
	AssetTypes    []string   `json:"asset_types"`
}

type createPostRequest struct {
	SocialAccountID uuid.UUID `json:"social_account_id" binding:"required"`
	OrderIndex      int       `json:"order_index"`
	postContent
}

// Create handles POST /v1/posts
func (h *PostHandler) Create(c *gin.Context) {
	role := middleware.GetRole(c)
	if !role.IsAccountManager() {
		c.JSON(http.StatusForbidden, gin.H{"error": "staff access required"})
		return
	}

	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.AssetURLs) != len(req.AssetTypes) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "asset_urls and asset_types must have equal length"})
		return
	}

	account, err := h.accountRepo.GetByID(c.Request.Context(), req.SocialAccountID)
	if err != nil {
		h.logger.Error("failed to get account", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create post"})
		return
	}
	if account == nil || !accountVisible(c, account.ID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
		return
	}

	post := &models.Post{
		WorkspaceID:     account.WorkspaceID,
		SocialAccountID: account.ID,
		Platform:        account.Platform,
		ScheduledDate:   req.ScheduledDate,
		ScheduledTime:   req.ScheduledTime,
		Caption:         req.Caption,
		Hashtags:        req.Hashtags,
		FirstComment:    req.FirstComment,
		AssetURLs:       req.AssetURLs,
		AssetTypes:      req.AssetTypes,
		OrderIndex:      req.OrderIndex,
		Status:          models.PostStatusDraft,
	}

	created, err := h.postRepo.Create(c.Request.Context(), post)
	if err != nil {
		h.logger.Error("failed to create post", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create post"})
		return
	}

	c.JSON(http.StatusCreated, created)
}

// List handles GET /v1/posts?workspace=<id>
func (h *PostHandler) List(c *gin.Context) {
	workspaceID, err := uuid.Parse(c.Query("workspace"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "workspace query parameter is required"})
		return
	}

	all, err := h.postRepo.ListByWorkspace(c.Request.Context(), workspaceID)
	if err != nil {
		h.logger.Error("failed to list posts", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list posts"})
		return
	}

	visible := visibility.Posts(all, middleware.GetRole(c), middleware.GetFacts(c))
	c.JSON(http.StatusOK, visible)
}

// GetByID handles GET /v1/posts/:id
func (h *PostHandler) GetByID(c *gin.Context) {
	post, ok := h.loadVisiblePost(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, post)
}

// Update handles PUT /v1/posts/:id
func (h *PostHandler) Update(c *gin.Context) {
	role := middleware.GetRole(c)
	if !role.IsAccountManager() {
		c.JSON(http.StatusForbidden, gin.H{"error": "staff access required"})
		return
	}

	post, ok := h.loadVisiblePost(c)
	if !ok {
		return
	}
	if !editable(post.Status) {
		c.JSON(http.StatusConflict, gin.H{"error": "post is no longer editable"})
		return
	}

	var req postContent
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.AssetURLs) != len(req.AssetTypes) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "asset_urls and asset_types must have equal length"})
		return
	}

	post.ScheduledDate = req.ScheduledDate
	post.ScheduledTime = req.ScheduledTime
	post.Caption = req.Caption
	post.Hashtags = req.Hashtags
	post.FirstComment = req.FirstComment
	post.AssetURLs = req.AssetURLs
	post.AssetTypes = req.AssetTypes

	updated, err := h.postRepo.Update(c.Request.Context(), post)
	if err != nil {
		h.logger.Error("failed to update post", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update post"})
		return
	}
	if updated == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		return
	}

	c.JSON(http.StatusOK, updated)
}

type updateOrderRequest struct {
	OrderIndex int `json:"order_index"`
}

// UpdateOrder handles PUT /v1/posts/:id/order
func (h *PostHandler) UpdateOrder(c *gin.Context) {
	role := middleware.GetRole(c)
	if !role.IsAccountManager() {
		c.JSON(http.StatusForbidden, gin.H{"error": "staff access required"})
		return
	}

	post, ok := h.loadVisiblePost(c)
	if !ok {
		return
	}

	var req updateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.postRepo.UpdateOrder(c.Request.Context(), post.ID, req.OrderIndex); err != nil {
		h.logger.Error("failed to update post order", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update post order"})
		return
	}

	c.Status(http.StatusNoContent)
}

// loadVisiblePost fetches the :id post and enforces visibility. Writes the
// error response itself and returns ok=false when the caller should stop.
// Invisible posts 404 rather than 403 so ids can't be probed.
func (h *PostHandler) loadVisiblePost(c *gin.Context) (*models.Post, bool) {
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

func accountVisible(c *gin.Context, accountID uuid.UUID) bool {
	if middleware.GetRole(c).IsAdmin() {
		return true
	}
	for _, a := range middleware.GetFacts(c).VisibleAccounts {
		if a.ID == accountID {
			return true
		}
	}
	return false
}
