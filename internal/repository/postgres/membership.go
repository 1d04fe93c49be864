package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/planframe/planframe/internal/models"
)

type MembershipStore struct {
	pool *pgxpool.Pool
}

func NewMembershipStore(pool *pgxpool.Pool) *MembershipStore {
	return &MembershipStore{pool: pool}
}

// Upsert keeps the (workspace, user) uniqueness invariant: a second call
// replaces the role instead of erroring on the primary key.
func (s *MembershipStore) Upsert(ctx context.Context, workspaceID, userID uuid.UUID, role models.MembershipRole) error {
	query := `
		INSERT INTO workspace_memberships (workspace_id, user_id, role, created_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (workspace_id, user_id) DO UPDATE SET role = EXCLUDED.role`

	_, err := s.pool.Exec(ctx, query, workspaceID, userID, role)
	if err != nil {
		return fmt.Errorf("upsert membership: %w", err)
	}
	return nil
}

// Remove is naturally idempotent: deleting a missing row deletes nothing.
func (s *MembershipStore) Remove(ctx context.Context, workspaceID, userID uuid.UUID) error {
	query := `
		DELETE FROM workspace_memberships
		WHERE workspace_id = $1 AND user_id = $2`

	_, err := s.pool.Exec(ctx, query, workspaceID, userID)
	if err != nil {
		return fmt.Errorf("remove membership: %w", err)
	}
	return nil
}

func (s *MembershipStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.WorkspaceMembership, error) {
	query := `
		SELECT workspace_id, user_id, role, created_at
		FROM workspace_memberships
		WHERE user_id = $1
		ORDER BY created_at`

	return s.list(ctx, query, userID)
}

func (s *MembershipStore) ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]models.WorkspaceMembership, error) {
	query := `
		SELECT workspace_id, user_id, role, created_at
		FROM workspace_memberships
		WHERE workspace_id = $1
		ORDER BY created_at`

	return s.list(ctx, query, workspaceID)
}

func (s *MembershipStore) list(ctx context.Context, query string, arg any) ([]models.WorkspaceMembership, error) {
	rows, err := s.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	defer rows.Close()

	memberships := make([]models.WorkspaceMembership, 0)
	for rows.Next() {
		var m models.WorkspaceMembership
		if err := rows.Scan(&m.WorkspaceID, &m.UserID, &m.Role, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan membership: %w", err)
		}
		memberships = append(memberships, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate memberships: %w", err)
	}

	return memberships, nil
}
