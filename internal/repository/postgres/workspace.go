package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/planframe/planframe/internal/models"
)

type WorkspaceStore struct {
	pool *pgxpool.Pool
}

func NewWorkspaceStore(pool *pgxpool.Pool) *WorkspaceStore {
	return &WorkspaceStore{pool: pool}
}

func (s *WorkspaceStore) Create(ctx context.Context, name, slug string) (*models.Workspace, error) {
	query := `
		INSERT INTO workspaces (id, name, slug, is_active, created_at)
		VALUES (uuid_generate_v4(), $1, $2, true, now())
		RETURNING id, name, slug, is_active, created_at`

	var w models.Workspace
	err := s.pool.QueryRow(ctx, query, name, slug).Scan(
		&w.ID,
		&w.Name,
		&w.Slug,
		&w.IsActive,
		&w.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert workspace: %w", err)
	}
	return &w, nil
}

func (s *WorkspaceStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Workspace, error) {
	query := `
		SELECT id, name, slug, is_active, created_at
		FROM workspaces
		WHERE id = $1`

	var w models.Workspace
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&w.ID,
		&w.Name,
		&w.Slug,
		&w.IsActive,
		&w.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get workspace: %w", err)
	}
	return &w, nil
}

// List returns every workspace. Visibility narrowing is the caller's job;
// this store stays a plain row source.
func (s *WorkspaceStore) List(ctx context.Context) ([]models.Workspace, error) {
	query := `
		SELECT id, name, slug, is_active, created_at
		FROM workspaces
		ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list workspaces: %w", err)
	}
	defer rows.Close()

	workspaces := make([]models.Workspace, 0)
	for rows.Next() {
		var w models.Workspace
		if err := rows.Scan(
			&w.ID,
			&w.Name,
			&w.Slug,
			&w.IsActive,
			&w.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan workspace: %w", err)
		}
		workspaces = append(workspaces, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate workspaces: %w", err)
	}

	return workspaces, nil
}
