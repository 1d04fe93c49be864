package visibility

import (
	"testing"

	"github.com/google/uuid"
	"github.com/planframe/planframe/internal/identity"
	"github.com/planframe/planframe/internal/models"
	"github.com/planframe/planframe/internal/roles"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	ws1 = uuid.New()
	ws2 = uuid.New()
	ac1 = uuid.New()
	ac2 = uuid.New()
)

func managerFacts() identity.Facts {
	return identity.Facts{
		GlobalRole: models.GlobalRoleUser,
		VisibleAccounts: []models.SocialAccount{
			{ID: ac1, WorkspaceID: ws1},
		},
		Memberships: []models.WorkspaceMembership{},
	}
}

func clientFacts() identity.Facts {
	return identity.Facts{
		GlobalRole:      models.GlobalRoleUser,
		VisibleAccounts: []models.SocialAccount{},
		Memberships: []models.WorkspaceMembership{
			{WorkspaceID: ws1, Role: models.MembershipRoleClientApprover},
		},
	}
}

func TestWorkspaces(t *testing.T) {
	all := []models.Workspace{{ID: ws1, Name: "one"}, {ID: ws2, Name: "two"}}

	t.Run("admin sees all", func(t *testing.T) {
		got := Workspaces(all, roles.Admin, identity.Empty())
		assert.Equal(t, all, got)
	})

	t.Run("manager sees workspaces holding their accounts", func(t *testing.T) {
		got := Workspaces(all, roles.AccountManager, managerFacts())
		require.Len(t, got, 1)
		assert.Equal(t, ws1, got[0].ID)
	})

	t.Run("client sees membership workspaces only", func(t *testing.T) {
		got := Workspaces(all, roles.ClientApprover, clientFacts())
		require.Len(t, got, 1)
		assert.Equal(t, ws1, got[0].ID)
	})

	t.Run("client with two memberships sees both", func(t *testing.T) {
		facts := clientFacts()
		facts.Memberships = append(facts.Memberships,
			models.WorkspaceMembership{WorkspaceID: ws2, Role: models.MembershipRoleClientViewer})
		got := Workspaces(all, roles.ClientApprover, facts)
		assert.Len(t, got, 2)
	})

	t.Run("viewer sees none", func(t *testing.T) {
		got := Workspaces(all, roles.Viewer, identity.Empty())
		assert.Empty(t, got)
	})

	t.Run("input is not mutated", func(t *testing.T) {
		before := append([]models.Workspace{}, all...)
		_ = Workspaces(all, roles.AccountManager, managerFacts())
		assert.Equal(t, before, all)
	})
}

func TestAccounts(t *testing.T) {
	all := []models.SocialAccount{
		{ID: ac1, WorkspaceID: ws1},
		{ID: ac2, WorkspaceID: ws2},
	}

	t.Run("admin sees all", func(t *testing.T) {
		assert.Len(t, Accounts(all, roles.Admin, identity.Empty()), 2)
	})

	t.Run("manager sees exactly their visible accounts", func(t *testing.T) {
		got := Accounts(all, roles.AccountManager, managerFacts())
		require.Len(t, got, 1)
		assert.Equal(t, ac1, got[0].ID)
	})

	t.Run("viewer sees none", func(t *testing.T) {
		assert.Empty(t, Accounts(all, roles.Viewer, identity.Empty()))
	})
}

func TestPosts(t *testing.T) {
	draft := models.Post{ID: uuid.New(), WorkspaceID: ws1, SocialAccountID: ac1, Status: models.PostStatusDraft}
	sent := models.Post{ID: uuid.New(), WorkspaceID: ws1, SocialAccountID: ac1, Status: models.PostStatusSentToClient}
	other := models.Post{ID: uuid.New(), WorkspaceID: ws2, SocialAccountID: ac2, Status: models.PostStatusSentToClient}
	all := []models.Post{draft, sent, other}

	t.Run("admin sees everything including drafts", func(t *testing.T) {
		assert.Len(t, Posts(all, roles.Admin, identity.Empty()), 3)
	})

	t.Run("client never sees drafts", func(t *testing.T) {
		got := Posts(all, roles.ClientApprover, clientFacts())
		require.Len(t, got, 1)
		assert.Equal(t, sent.ID, got[0].ID)
	})

	t.Run("manager sees drafts on their accounts", func(t *testing.T) {
		got := Posts(all, roles.AccountManager, managerFacts())
		require.Len(t, got, 2)
		assert.Equal(t, draft.ID, got[0].ID)
		assert.Equal(t, sent.ID, got[1].ID)
	})

	t.Run("single post check matches list behavior", func(t *testing.T) {
		assert.False(t, Post(draft, roles.ClientApprover, clientFacts()))
		assert.True(t, Post(sent, roles.ClientApprover, clientFacts()))
		assert.True(t, Post(draft, roles.AccountManager, managerFacts()))
		assert.False(t, Post(other, roles.AccountManager, managerFacts()))
	})
}

func TestComments(t *testing.T) {
	internal := models.Comment{ID: uuid.New(), Content: "internal note", IsInternal: true}
	visible1 := models.Comment{ID: uuid.New(), Content: "looks good"}
	visible2 := models.Comment{ID: uuid.New(), Content: "one tweak"}
	all := []models.Comment{internal, visible1, visible2}

	t.Run("client sees exactly the non-internal subset in order", func(t *testing.T) {
		got := Comments(all, roles.ClientViewer)
		require.Len(t, got, 2)
		assert.Equal(t, visible1.ID, got[0].ID)
		assert.Equal(t, visible2.ID, got[1].ID)
	})

	t.Run("staff see all", func(t *testing.T) {
		assert.Len(t, Comments(all, roles.AccountManager), 3)
		assert.Len(t, Comments(all, roles.Admin), 3)
	})

	t.Run("viewer sees none", func(t *testing.T) {
		assert.Empty(t, Comments(all, roles.Viewer))
	})

	t.Run("same input yields same output", func(t *testing.T) {
		assert.Equal(t, Comments(all, roles.ClientViewer), Comments(all, roles.ClientViewer))
	})
}

// A client approver with one membership and nothing else: the common
// agency-client setup end to end.
func TestClientApproverScenario(t *testing.T) {
	facts := identity.Facts{
		GlobalRole:      models.GlobalRoleUser,
		VisibleAccounts: []models.SocialAccount{},
		Memberships: []models.WorkspaceMembership{
			{WorkspaceID: ws1, Role: models.MembershipRoleClientApprover},
		},
	}

	role := roles.Derive(facts)
	assert.Equal(t, roles.ClientApprover, role)
	assert.True(t, role.CanApprove())

	all := []models.Workspace{{ID: ws1}, {ID: ws2}}
	got := Workspaces(all, role, facts)
	require.Len(t, got, 1)
	assert.Equal(t, ws1, got[0].ID)
}
