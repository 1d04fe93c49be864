package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/planframe/planframe/internal/models"
	"github.com/planframe/planframe/internal/repository"
	"go.uber.org/zap"
)

// Resolver loads the identity facts for an authenticated actor.
//
// Failure policy is fail-closed throughout: a missing actor yields the
// logged-out snapshot, and a transient failure on any sub-fetch yields the
// empty collection for that sub-fetch — logged, never escalated, and never
// widened into more access than the data supports.
type Resolver struct {
	users       repository.UserRepository
	memberships repository.MembershipRepository
	accounts    repository.AccountRepository
	cache       *FactsCache
	logger      *zap.Logger
}

// NewResolver wires the resolver. cache may be nil to resolve straight from
// the database on every call.
func NewResolver(
	users repository.UserRepository,
	memberships repository.MembershipRepository,
	accounts repository.AccountRepository,
	cache *FactsCache,
	logger *zap.Logger,
) *Resolver {
	return &Resolver{
		users:       users,
		memberships: memberships,
		accounts:    accounts,
		cache:       cache,
		logger:      logger,
	}
}

// Resolve produces the Facts snapshot for one actor.
func (r *Resolver) Resolve(ctx context.Context, actorID uuid.UUID) Facts {
	if actorID == uuid.Nil {
		return Empty()
	}

	if r.cache != nil {
		if facts, ok := r.cache.Get(ctx, actorID); ok {
			return facts
		}
	}

	facts := r.resolve(ctx, actorID)

	if r.cache != nil && facts.LoggedIn() {
		r.cache.Set(ctx, actorID, facts)
	}
	return facts
}

func (r *Resolver) resolve(ctx context.Context, actorID uuid.UUID) Facts {
	user, err := r.users.GetByID(ctx, actorID)
	if err != nil {
		r.logger.Warn("identity: user lookup failed, treating as logged out",
			zap.String("actor_id", actorID.String()),
			zap.Error(err),
		)
		return Empty()
	}
	if user == nil {
		return Empty()
	}

	facts := Facts{
		Actor:           user,
		GlobalRole:      user.GlobalRole,
		Memberships:     []models.WorkspaceMembership{},
		VisibleAccounts: []models.SocialAccount{},
	}

	memberships, err := r.memberships.ListByUser(ctx, actorID)
	if err != nil {
		r.logger.Warn("identity: membership fetch failed, proceeding with none",
			zap.String("actor_id", actorID.String()),
			zap.Error(err),
		)
	} else {
		facts.Memberships = memberships
	}

	var accounts []models.SocialAccount
	if user.GlobalRole == models.GlobalRoleAdmin {
		accounts, err = r.accounts.List(ctx)
	} else {
		accounts, err = r.accounts.ListVisibleTo(ctx, user.Email)
	}
	if err != nil {
		r.logger.Warn("identity: account fetch failed, proceeding with none",
			zap.String("actor_id", actorID.String()),
			zap.Error(err),
		)
	} else {
		facts.VisibleAccounts = accounts
	}

	return facts
}

// Invalidate drops any cached snapshot for the actor. Called after
// membership writes so role changes take effect without waiting for TTL.
func (r *Resolver) Invalidate(ctx context.Context, actorID uuid.UUID) {
	if r.cache != nil {
		r.cache.Invalidate(ctx, actorID)
	}
}
