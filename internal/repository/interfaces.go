package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/planframe/planframe/internal/models"
)

// Every method takes context.Context because every method does I/O: request
// cancellation and deadlines propagate straight into the query.
//
// Reads return (nil, nil) for not-found; callers translate that to 404.
// List methods return empty slices (never nil) so JSON serializes to [].

// UserRepository handles login identities.
type UserRepository interface {
	Create(ctx context.Context, email, displayName, passwordHash string, role models.GlobalRole) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// WorkspaceRepository handles client engagements. Listing is unscoped here;
// visibility narrowing happens in the core, not in SQL.
type WorkspaceRepository interface {
	Create(ctx context.Context, name, slug string) (*models.Workspace, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Workspace, error)
	List(ctx context.Context) ([]models.Workspace, error)
}

// MembershipRepository handles workspace membership rows.
type MembershipRepository interface {
	// Upsert inserts or replaces the membership role. At most one row per
	// (workspace, user) — ON CONFLICT keeps the call idempotent.
	Upsert(ctx context.Context, workspaceID, userID uuid.UUID, role models.MembershipRole) error

	// Remove deletes a membership. No-op if the row doesn't exist.
	Remove(ctx context.Context, workspaceID, userID uuid.UUID) error

	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.WorkspaceMembership, error)
	ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]models.WorkspaceMembership, error)
}

// AccountRepository handles social accounts.
type AccountRepository interface {
	Create(ctx context.Context, workspaceID uuid.UUID, platform models.Platform, handle, managerEmail string, collaborators []string) (*models.SocialAccount, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.SocialAccount, error)
	List(ctx context.Context) ([]models.SocialAccount, error)

	// ListVisibleTo returns accounts where the email is the assigned
	// manager or appears among the collaborators, deduplicated by id.
	ListVisibleTo(ctx context.Context, email string) ([]models.SocialAccount, error)
}

// PostRepository handles planned content.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) (*models.Post, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error)
	ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]models.Post, error)
	Update(ctx context.Context, post *models.Post) (*models.Post, error)
	UpdateOrder(ctx context.Context, id uuid.UUID, orderIndex int) error

	// ApplyTransition writes the workflow fields of post conditionally:
	// the UPDATE only matches while the row's status is one of from.
	// Returns false (and no error) when the condition no longer holds,
	// which is how racing transitions lose cleanly.
	ApplyTransition(ctx context.Context, post *models.Post, from []models.PostStatus) (bool, error)
}

// CommentRepository handles post comments. Comments are immutable except
// for the resolved flag, and resolution is one-directional.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) (*models.Comment, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Comment, error)
	ListByPost(ctx context.Context, postID uuid.UUID) ([]models.Comment, error)
	Resolve(ctx context.Context, id uuid.UUID) error
}

// AuditRepository is the append-only audit sink. There is deliberately no
// update or delete, and workflow code never reads entries back.
type AuditRepository interface {
	Append(ctx context.Context, entry *models.AuditLogEntry) (*models.AuditLogEntry, error)
	ListByWorkspace(ctx context.Context, workspaceID uuid.UUID, limit int) ([]models.AuditLogEntry, error)
}
