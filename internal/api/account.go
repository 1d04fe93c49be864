package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/planframe/planframe/internal/middleware"
	"github.com/planframe/planframe/internal/models"
	"github.com/planframe/planframe/internal/repository"
	"github.com/planframe/planframe/internal/visibility"
	"go.uber.org/zap"
)

// AccountHandler handles social accounts. Creation is admin-only; listing
// goes through the visibility filter with an optional workspace narrowing.
type AccountHandler struct {
	accountRepo repository.AccountRepository
	logger      *zap.Logger
}

func NewAccountHandler(accountRepo repository.AccountRepository, logger *zap.Logger) *AccountHandler {
	return &AccountHandler{accountRepo: accountRepo, logger: logger}
}

type createAccountRequest struct {
	WorkspaceID          uuid.UUID       `json:"workspace_id" binding:"required"`
	Platform             models.Platform `json:"platform" binding:"required"`
	Handle               string          `json:"handle" binding:"required"`
	AssignedManagerEmail string          `json:"assigned_manager_email" binding:"required,email"`
	CollaboratorEmails   []string        `json:"collaborator_emails"`
}

// Create handles POST /v1/accounts
func (h *AccountHandler) Create(c *gin.Context) {
	if !middleware.GetRole(c).IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{"error": "admin access required"})
		return
	}

	var req createAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.Platform.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown platform"})
		return
	}

	a, err := h.accountRepo.Create(
		c.Request.Context(),
		req.WorkspaceID,
		req.Platform,
		req.Handle,
		req.AssignedManagerEmail,
		req.CollaboratorEmails,
	)
	if err != nil {
		h.logger.Error("failed to create account", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create account"})
		return
	}

	c.JSON(http.StatusCreated, a)
}

// List handles GET /v1/accounts?workspace=<id>
//
// The workspace query param is a plain equality narrow applied after the
// visibility filter, not an access check of its own.
func (h *AccountHandler) List(c *gin.Context) {
	all, err := h.accountRepo.List(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list accounts", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list accounts"})
		return
	}

	visible := visibility.Accounts(all, middleware.GetRole(c), middleware.GetFacts(c))

	if ws := c.Query("workspace"); ws != "" {
		workspaceID, err := uuid.Parse(ws)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid workspace id"})
			return
		}
		narrowed := make([]models.SocialAccount, 0, len(visible))
		for _, a := range visible {
			if a.WorkspaceID == workspaceID {
				narrowed = append(narrowed, a)
			}
		}
		visible = narrowed
	}

	c.JSON(http.StatusOK, visible)
}
