package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/planframe/planframe/internal/auth"
)

// Context keys for values set by the middleware chain. Constants so a typo
// fails at compile time instead of silently returning nil.
const (
	ContextKeyUserID = "user_id"
	ContextKeyFacts  = "identity_facts"
	ContextKeyRole   = "effective_role"
)

// AuthMiddleware validates the bearer JWT and stores the caller's identity
// in the request context. Invalid or missing tokens abort with 401 before
// any handler runs.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "missing authorization header",
			})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid authorization format, expected: Bearer <token>",
			})
			return
		}
		tokenString := parts[1]

		claims, err := auth.ParseToken(tokenString, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid or expired token",
			})
			return
		}

		// Only the user id goes into the context; everything else about
		// the actor (email included) comes from the resolved Facts so a
		// stale token can't carry outdated attributes past the resolver.
		c.Set(ContextKeyUserID, claims.UserID)

		c.Next()
	}
}

func GetUserID(c *gin.Context) uuid.UUID {
	val, exists := c.Get(ContextKeyUserID)
	if !exists {
		return uuid.Nil
	}
	id, ok := val.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return id
}
