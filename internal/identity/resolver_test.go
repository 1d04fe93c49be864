package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/planframe/planframe/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeUserStore struct {
	users map[uuid.UUID]*models.User
	err   error
}

func (f *fakeUserStore) Create(_ context.Context, _, _, _ string, _ models.GlobalRole) (*models.User, error) {
	return nil, nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.users[id], nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, _ string) (*models.User, error) {
	return nil, nil
}

type fakeMembershipStore struct {
	memberships []models.WorkspaceMembership
	err         error
}

func (f *fakeMembershipStore) Upsert(_ context.Context, _, _ uuid.UUID, _ models.MembershipRole) error {
	return nil
}

func (f *fakeMembershipStore) Remove(_ context.Context, _, _ uuid.UUID) error { return nil }

func (f *fakeMembershipStore) ListByUser(_ context.Context, _ uuid.UUID) ([]models.WorkspaceMembership, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.memberships, nil
}

func (f *fakeMembershipStore) ListByWorkspace(_ context.Context, _ uuid.UUID) ([]models.WorkspaceMembership, error) {
	return []models.WorkspaceMembership{}, nil
}

type fakeAccountStore struct {
	all       []models.SocialAccount
	visibleTo map[string][]models.SocialAccount
	err       error
}

func (f *fakeAccountStore) Create(_ context.Context, _ uuid.UUID, _ models.Platform, _, _ string, _ []string) (*models.SocialAccount, error) {
	return nil, nil
}

func (f *fakeAccountStore) GetByID(_ context.Context, _ uuid.UUID) (*models.SocialAccount, error) {
	return nil, nil
}

func (f *fakeAccountStore) List(_ context.Context) ([]models.SocialAccount, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.all, nil
}

func (f *fakeAccountStore) ListVisibleTo(_ context.Context, email string) ([]models.SocialAccount, error) {
	if f.err != nil {
		return nil, f.err
	}
	if accounts, ok := f.visibleTo[email]; ok {
		return accounts, nil
	}
	return []models.SocialAccount{}, nil
}

func testUser(role models.GlobalRole) *models.User {
	return &models.User{
		ID:         uuid.New(),
		Email:      "person@agency.test",
		GlobalRole: role,
	}
}

func newTestResolver(users *fakeUserStore, memberships *fakeMembershipStore, accounts *fakeAccountStore) *Resolver {
	return NewResolver(users, memberships, accounts, nil, zap.NewNop())
}

func TestResolveNilActor(t *testing.T) {
	r := newTestResolver(&fakeUserStore{}, &fakeMembershipStore{}, &fakeAccountStore{})

	facts := r.Resolve(context.Background(), uuid.Nil)
	assert.False(t, facts.LoggedIn())
	assert.Empty(t, facts.Memberships)
	assert.Empty(t, facts.VisibleAccounts)
}

func TestResolveUnknownActor(t *testing.T) {
	r := newTestResolver(&fakeUserStore{users: map[uuid.UUID]*models.User{}}, &fakeMembershipStore{}, &fakeAccountStore{})

	facts := r.Resolve(context.Background(), uuid.New())
	assert.False(t, facts.LoggedIn())
}

func TestResolveUserLookupFailureIsLoggedOut(t *testing.T) {
	r := newTestResolver(
		&fakeUserStore{err: errors.New("connection refused")},
		&fakeMembershipStore{},
		&fakeAccountStore{},
	)

	facts := r.Resolve(context.Background(), uuid.New())
	assert.False(t, facts.LoggedIn())
	assert.Empty(t, facts.Memberships)
	assert.Empty(t, facts.VisibleAccounts)
}

func TestResolveStaffUser(t *testing.T) {
	user := testUser(models.GlobalRoleUser)
	visible := []models.SocialAccount{{ID: uuid.New(), AssignedManagerEmail: user.Email}}

	r := newTestResolver(
		&fakeUserStore{users: map[uuid.UUID]*models.User{user.ID: user}},
		&fakeMembershipStore{memberships: []models.WorkspaceMembership{}},
		&fakeAccountStore{visibleTo: map[string][]models.SocialAccount{user.Email: visible}},
	)

	facts := r.Resolve(context.Background(), user.ID)
	require.True(t, facts.LoggedIn())
	assert.Equal(t, user.Email, facts.Email())
	assert.Equal(t, models.GlobalRoleUser, facts.GlobalRole)
	assert.Equal(t, visible, facts.VisibleAccounts)
}

func TestResolveAdminSeesAllAccounts(t *testing.T) {
	admin := testUser(models.GlobalRoleAdmin)
	all := []models.SocialAccount{
		{ID: uuid.New()},
		{ID: uuid.New()},
	}

	r := newTestResolver(
		&fakeUserStore{users: map[uuid.UUID]*models.User{admin.ID: admin}},
		&fakeMembershipStore{memberships: []models.WorkspaceMembership{}},
		&fakeAccountStore{all: all},
	)

	facts := r.Resolve(context.Background(), admin.ID)
	require.True(t, facts.LoggedIn())
	assert.Equal(t, all, facts.VisibleAccounts)
}

func TestResolveSubFetchFailuresNarrowAccess(t *testing.T) {
	user := testUser(models.GlobalRoleUser)

	t.Run("membership fetch failure yields no memberships", func(t *testing.T) {
		r := newTestResolver(
			&fakeUserStore{users: map[uuid.UUID]*models.User{user.ID: user}},
			&fakeMembershipStore{err: errors.New("timeout")},
			&fakeAccountStore{},
		)

		facts := r.Resolve(context.Background(), user.ID)
		require.True(t, facts.LoggedIn())
		assert.Empty(t, facts.Memberships)
	})

	t.Run("account fetch failure yields no visible accounts", func(t *testing.T) {
		r := newTestResolver(
			&fakeUserStore{users: map[uuid.UUID]*models.User{user.ID: user}},
			&fakeMembershipStore{memberships: []models.WorkspaceMembership{
				{WorkspaceID: uuid.New(), UserID: user.ID, Role: models.MembershipRoleClientViewer},
			}},
			&fakeAccountStore{err: errors.New("timeout")},
		)

		facts := r.Resolve(context.Background(), user.ID)
		require.True(t, facts.LoggedIn())
		assert.Len(t, facts.Memberships, 1)
		assert.Empty(t, facts.VisibleAccounts)
	})
}

func TestEmptyFacts(t *testing.T) {
	facts := Empty()
	assert.False(t, facts.LoggedIn())
	assert.Empty(t, facts.Email())
	assert.NotNil(t, facts.Memberships)
	assert.NotNil(t, facts.VisibleAccounts)
}
