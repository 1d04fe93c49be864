// Package visibility narrows collections to the subset an actor may see.
// Every function is a pure, order-preserving projection over already-fetched
// data: no I/O, no mutation of the input, identical output for identical
// input. Unknown roles fall through to the empty result — never to "all".
package visibility

import (
	"github.com/google/uuid"
	"github.com/planframe/planframe/internal/identity"
	"github.com/planframe/planframe/internal/models"
	"github.com/planframe/planframe/internal/roles"
)

// Workspaces filters to the workspaces the actor may see.
// Admin sees all; an account manager sees workspaces containing at least one
// of their visible accounts; a client sees the workspaces of their
// memberships; a plain viewer sees none.
func Workspaces(all []models.Workspace, role roles.Role, facts identity.Facts) []models.Workspace {
	if role.IsAdmin() {
		return append([]models.Workspace{}, all...)
	}

	visible := make([]models.Workspace, 0)

	switch {
	case role.IsAccountManager():
		accountWorkspaces := make(map[uuid.UUID]bool, len(facts.VisibleAccounts))
		for _, a := range facts.VisibleAccounts {
			accountWorkspaces[a.WorkspaceID] = true
		}
		for _, w := range all {
			if accountWorkspaces[w.ID] {
				visible = append(visible, w)
			}
		}
	case role.IsClient():
		memberOf := make(map[uuid.UUID]bool, len(facts.Memberships))
		for _, m := range facts.Memberships {
			memberOf[m.WorkspaceID] = true
		}
		for _, w := range all {
			if memberOf[w.ID] {
				visible = append(visible, w)
			}
		}
	}

	return visible
}

// Accounts filters to the actor's visible accounts. Admin sees everything;
// everyone else sees exactly facts.VisibleAccounts, clients included (a
// client's feed preview still needs the accounts of their workspace, which
// arrive through the caller's workspace narrowing, not here).
func Accounts(all []models.SocialAccount, role roles.Role, facts identity.Facts) []models.SocialAccount {
	if role.IsAdmin() {
		return append([]models.SocialAccount{}, all...)
	}

	visibleIDs := make(map[uuid.UUID]bool, len(facts.VisibleAccounts))
	for _, a := range facts.VisibleAccounts {
		visibleIDs[a.ID] = true
	}

	visible := make([]models.SocialAccount, 0)
	for _, a := range all {
		if visibleIDs[a.ID] {
			visible = append(visible, a)
		}
	}
	return visible
}

// Posts filters to the posts the actor may see. Clients see posts in their
// workspaces except drafts; staff see posts on their visible accounts;
// admin sees all.
func Posts(all []models.Post, role roles.Role, facts identity.Facts) []models.Post {
	if role.IsAdmin() {
		return append([]models.Post{}, all...)
	}

	visible := make([]models.Post, 0)

	switch {
	case role.IsClient():
		memberOf := make(map[uuid.UUID]bool, len(facts.Memberships))
		for _, m := range facts.Memberships {
			memberOf[m.WorkspaceID] = true
		}
		for _, p := range all {
			if memberOf[p.WorkspaceID] && p.Status != models.PostStatusDraft {
				visible = append(visible, p)
			}
		}
	case role.IsAccountManager():
		visibleAccounts := make(map[uuid.UUID]bool, len(facts.VisibleAccounts))
		for _, a := range facts.VisibleAccounts {
			visibleAccounts[a.ID] = true
		}
		for _, p := range all {
			if visibleAccounts[p.SocialAccountID] {
				visible = append(visible, p)
			}
		}
	}

	return visible
}

// Comments filters a post's comments. Clients see only non-internal
// comments; staff see all. Viewer couldn't see the post, so sees nothing.
func Comments(all []models.Comment, role roles.Role) []models.Comment {
	if role.IsAdmin() || role.IsAccountManager() {
		return append([]models.Comment{}, all...)
	}

	visible := make([]models.Comment, 0)
	if !role.IsClient() {
		return visible
	}
	for _, c := range all {
		if !c.IsInternal {
			visible = append(visible, c)
		}
	}
	return visible
}

// Post reports whether a single post is visible to the actor.
// Same policy as Posts, for point lookups.
func Post(p models.Post, role roles.Role, facts identity.Facts) bool {
	if role.IsAdmin() {
		return true
	}
	if role.IsClient() {
		if p.Status == models.PostStatusDraft {
			return false
		}
		for _, m := range facts.Memberships {
			if m.WorkspaceID == p.WorkspaceID {
				return true
			}
		}
		return false
	}
	if role.IsAccountManager() {
		for _, a := range facts.VisibleAccounts {
			if a.ID == p.SocialAccountID {
				return true
			}
		}
	}
	return false
}

// Workspace reports whether a single workspace is visible to the actor.
func Workspace(id uuid.UUID, role roles.Role, facts identity.Facts) bool {
	if role.IsAdmin() {
		return true
	}
	if role.IsAccountManager() {
		for _, a := range facts.VisibleAccounts {
			if a.WorkspaceID == id {
				return true
			}
		}
		return false
	}
	if role.IsClient() {
		for _, m := range facts.Memberships {
			if m.WorkspaceID == id {
				return true
			}
		}
	}
	return false
}
