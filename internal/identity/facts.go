package identity

import (
	"github.com/planframe/planframe/internal/models"
)

// Facts is the immutable identity snapshot every authorization decision is
// made from. A new snapshot is produced on every resolve; nothing mutates
// one in place. The zero value is the logged-out state.
type Facts struct {
	Actor           *models.User                 `json:"actor"`
	GlobalRole      models.GlobalRole            `json:"global_role"`
	Memberships     []models.WorkspaceMembership `json:"memberships"`
	VisibleAccounts []models.SocialAccount       `json:"visible_accounts"`
}

// Empty returns the logged-out / least-privilege snapshot. Callers treat it
// as a valid state, not an error.
func Empty() Facts {
	return Facts{
		Memberships:     []models.WorkspaceMembership{},
		VisibleAccounts: []models.SocialAccount{},
	}
}

// LoggedIn reports whether an authenticated actor is present.
func (f Facts) LoggedIn() bool {
	return f.Actor != nil
}

// Email returns the actor's email, or "" when logged out.
func (f Facts) Email() string {
	if f.Actor == nil {
		return ""
	}
	return f.Actor.Email
}
