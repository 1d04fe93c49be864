package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/planframe/planframe/internal/identity"
	"github.com/planframe/planframe/internal/middleware"
	"github.com/planframe/planframe/internal/models"
	"github.com/planframe/planframe/internal/repository"
	"github.com/planframe/planframe/internal/visibility"
	"go.uber.org/zap"
)

// WorkspaceHandler handles workspaces and their memberships. Creation and
// membership management are admin-only; reads go through the visibility
// filter.
type WorkspaceHandler struct {
	workspaceRepo  repository.WorkspaceRepository
	membershipRepo repository.MembershipRepository
	auditRepo      repository.AuditRepository
	resolver       *identity.Resolver
	logger         *zap.Logger
}

func NewWorkspaceHandler(
	workspaceRepo repository.WorkspaceRepository,
	membershipRepo repository.MembershipRepository,
	auditRepo repository.AuditRepository,
	resolver *identity.Resolver,
	logger *zap.Logger,
) *WorkspaceHandler {
	return &WorkspaceHandler{
		workspaceRepo:  workspaceRepo,
		membershipRepo: membershipRepo,
		auditRepo:      auditRepo,
		resolver:       resolver,
		logger:         logger,
	}
}

type createWorkspaceRequest struct {
	Name string `json:"name" binding:"required"`
	Slug string `json:"slug" binding:"required"`
}

// Create handles POST /v1/workspaces
func (h *WorkspaceHandler) Create(c *gin.Context) {
	if !middleware.GetRole(c).IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{"error": "admin access required"})
		return
	}

	var req createWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	w, err := h.workspaceRepo.Create(c.Request.Context(), req.Name, req.Slug)
	if err != nil {
		h.logger.Error("failed to create workspace", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create workspace"})
		return
	}

	c.JSON(http.StatusCreated, w)
}

// List handles GET /v1/workspaces
func (h *WorkspaceHandler) List(c *gin.Context) {
	all, err := h.workspaceRepo.List(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list workspaces", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list workspaces"})
		return
	}

	visible := visibility.Workspaces(all, middleware.GetRole(c), middleware.GetFacts(c))
	c.JSON(http.StatusOK, visible)
}

// GetByID handles GET /v1/workspaces/:id
func (h *WorkspaceHandler) GetByID(c *gin.Context) {
	workspaceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid workspace id"})
		return
	}

	// Invisible and nonexistent look identical to the caller.
	if !visibility.Workspace(workspaceID, middleware.GetRole(c), middleware.GetFacts(c)) {
		c.JSON(http.StatusNotFound, gin.H{"error": "workspace not found"})
		return
	}

	w, err := h.workspaceRepo.GetByID(c.Request.Context(), workspaceID)
	if err != nil {
		h.logger.Error("failed to get workspace", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get workspace"})
		return
	}
	if w == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "workspace not found"})
		return
	}

	c.JSON(http.StatusOK, w)
}

type upsertMemberRequest struct {
	UserID uuid.UUID             `json:"user_id" binding:"required"`
	Role   models.MembershipRole `json:"role" binding:"required"`
}

// UpsertMember handles PUT /v1/workspaces/:id/members
func (h *WorkspaceHandler) UpsertMember(c *gin.Context) {
	if !middleware.GetRole(c).IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{"error": "admin access required"})
		return
	}

	workspaceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid workspace id"})
		return
	}

	var req upsertMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	switch req.Role {
	case models.MembershipRoleAccountManager,
		models.MembershipRoleClientViewer,
		models.MembershipRoleClientApprover:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid membership role"})
		return
	}

	if err := h.membershipRepo.Upsert(c.Request.Context(), workspaceID, req.UserID, req.Role); err != nil {
		h.logger.Error("failed to upsert membership", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add member"})
		return
	}

	// The member's cached identity snapshot is now stale.
	h.resolver.Invalidate(c.Request.Context(), req.UserID)

	c.Status(http.StatusNoContent)
}

// RemoveMember handles DELETE /v1/workspaces/:id/members/:userID
func (h *WorkspaceHandler) RemoveMember(c *gin.Context) {
	if !middleware.GetRole(c).IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{"error": "admin access required"})
		return
	}

	workspaceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid workspace id"})
		return
	}
	userID, err := uuid.Parse(c.Param("userID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	if err := h.membershipRepo.Remove(c.Request.Context(), workspaceID, userID); err != nil {
		h.logger.Error("failed to remove membership", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove member"})
		return
	}

	h.resolver.Invalidate(c.Request.Context(), userID)

	c.Status(http.StatusNoContent)
}

// ListMembers handles GET /v1/workspaces/:id/members
func (h *WorkspaceHandler) ListMembers(c *gin.Context) {
	role := middleware.GetRole(c)
	if !role.IsAccountManager() {
		c.JSON(http.StatusForbidden, gin.H{"error": "staff access required"})
		return
	}

	workspaceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid workspace id"})
		return
	}
	if !visibility.Workspace(workspaceID, role, middleware.GetFacts(c)) {
		c.JSON(http.StatusNotFound, gin.H{"error": "workspace not found"})
		return
	}

	members, err := h.membershipRepo.ListByWorkspace(c.Request.Context(), workspaceID)
	if err != nil {
		h.logger.Error("failed to list members", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list members"})
		return
	}

	c.JSON(http.StatusOK, members)
}

// ListAudit handles GET /v1/workspaces/:id/audit
func (h *WorkspaceHandler) ListAudit(c *gin.Context) {
	role := middleware.GetRole(c)
	if !role.IsAccountManager() {
		c.JSON(http.StatusForbidden, gin.H{"error": "staff access required"})
		return
	}

	workspaceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid workspace id"})
		return
	}
	if !visibility.Workspace(workspaceID, role, middleware.GetFacts(c)) {
		c.JSON(http.StatusNotFound, gin.H{"error": "workspace not found"})
		return
	}

	entries, err := h.auditRepo.ListByWorkspace(c.Request.Context(), workspaceID, 100)
	if err != nil {
		h.logger.Error("failed to list audit entries", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list audit entries"})
		return
	}

	c.JSON(http.StatusOK, entries)
}
