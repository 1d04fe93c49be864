// Package comments gates who may write, flag, and resolve post comments.
// Reading is handled by the visibility package; this package covers writes.
package comments

import (
	"github.com/planframe/planframe/internal/roles"
)

// CanComment reports whether the role may comment at all. Anyone who can
// see a post may comment on it; post visibility is checked by the caller.
func CanComment(role roles.Role) bool {
	return true
}

// Internal decides the is_internal flag for a new comment. Clients have no
// internal-only option: their comments are always client-visible. Staff
// choose per comment.
func Internal(role roles.Role, requested bool) bool {
	if role.IsClient() {
		return false
	}
	return requested
}

// CanResolve reports whether the role may mark a comment resolved.
// Staff only, and resolution is one-directional: there is no un-resolve.
func CanResolve(role roles.Role) bool {
	return role.IsAccountManager()
}
