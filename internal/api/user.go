package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/planframe/planframe/internal/middleware"
	"go.uber.org/zap"
)

// UserHandler handles profile reads.
type UserHandler struct {
	logger *zap.Logger
}

func NewUserHandler(logger *zap.Logger) *UserHandler {
	return &UserHandler{logger: logger}
}

// GetMe handles GET /v1/users/me
//
// Returns the identity snapshot the request was authorized with: the actor,
// their effective role, memberships, and visible accounts. Frontends drive
// all their show/hide decisions off this one response.
func (h *UserHandler) GetMe(c *gin.Context) {
	facts := middleware.GetFacts(c)
	if !facts.LoggedIn() {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":             facts.Actor,
		"effective_role":   middleware.GetRole(c),
		"memberships":      facts.Memberships,
		"visible_accounts": facts.VisibleAccounts,
	})
}
