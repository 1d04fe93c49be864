// Package roles derives the single effective role used for every
// authorization check. The role is never persisted; it is recomputed from
// identity facts whenever they change.
package roles

import (
	"github.com/planframe/planframe/internal/identity"
	"github.com/planframe/planframe/internal/models"
)

// Role is the effective application role.
type Role string

const (
	Admin          Role = "admin"
	AccountManager Role = "account_manager"
	ClientApprover Role = "client_approver"
	ClientViewer   Role = "client_viewer"
	Viewer         Role = "viewer"
)

// Derive computes the effective role from an identity snapshot.
//
// The priority order is policy, not an accident: having assigned accounts
// outranks client memberships, so a staff member who also holds a client
// membership keeps their operational view. First match wins.
func Derive(facts identity.Facts) Role {
	if facts.GlobalRole == models.GlobalRoleAdmin {
		return Admin
	}
	if len(facts.VisibleAccounts) > 0 {
		return AccountManager
	}
	for _, m := range facts.Memberships {
		if m.Role == models.MembershipRoleClientApprover {
			return ClientApprover
		}
	}
	for _, m := range facts.Memberships {
		if m.Role == models.MembershipRoleClientViewer {
			return ClientViewer
		}
	}
	return Viewer
}

// IsAdmin reports superuser access.
func (r Role) IsAdmin() bool {
	return r == Admin
}

// IsAccountManager reports staff-level operational access.
// Admin is a superset of account manager.
func (r Role) IsAccountManager() bool {
	return r == AccountManager || r == Admin
}

// IsClient reports a client-facing role.
func (r Role) IsClient() bool {
	return r == ClientViewer || r == ClientApprover
}

// CanApprove reports whether the role may approve or reject posts.
func (r Role) CanApprove() bool {
	return r == ClientApprover || r == Admin
}
