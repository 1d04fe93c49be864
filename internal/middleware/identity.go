package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/planframe/planframe/internal/identity"
	"github.com/planframe/planframe/internal/roles"
)

// IdentityMiddleware resolves the caller's identity facts and effective
// role for the request. Runs after AuthMiddleware.
//
// Resolution never aborts the request: an unknown or unresolvable actor
// gets the logged-out snapshot and the viewer role, and each handler's own
// checks then deny whatever needs denying. Least privilege, not 500s.
func IdentityMiddleware(resolver *identity.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		facts := resolver.Resolve(c.Request.Context(), GetUserID(c))
		role := roles.Derive(facts)

		c.Set(ContextKeyFacts, facts)
		c.Set(ContextKeyRole, role)

		c.Next()
	}
}

// GetFacts returns the resolved identity snapshot for the request.
// Missing (middleware not run) degrades to the logged-out snapshot.
func GetFacts(c *gin.Context) identity.Facts {
	val, exists := c.Get(ContextKeyFacts)
	if !exists {
		return identity.Empty()
	}
	facts, ok := val.(identity.Facts)
	if !ok {
		return identity.Empty()
	}
	return facts
}

// GetRole returns the effective role for the request, defaulting to viewer.
func GetRole(c *gin.Context) roles.Role {
	val, exists := c.Get(ContextKeyRole)
	if !exists {
		return roles.Viewer
	}
	role, ok := val.(roles.Role)
	if !ok {
		return roles.Viewer
	}
	return role
}
