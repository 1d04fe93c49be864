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

type AccountStore struct {
	pool *pgxpool.Pool
}

func NewAccountStore(pool *pgxpool.Pool) *AccountStore {
	return &AccountStore{pool: pool}
}

const accountColumns = `id, workspace_id, platform, handle, assigned_manager_email, collaborator_emails, created_at`

func (s *AccountStore) Create(ctx context.Context, workspaceID uuid.UUID, platform models.Platform, handle, managerEmail string, collaborators []string) (*models.SocialAccount, error) {
	if collaborators == nil {
		collaborators = []string{}
	}
	query := `
		INSERT INTO social_accounts (id, workspace_id, platform, handle, assigned_manager_email, collaborator_emails, created_at)
		VALUES (uuid_generate_v4(), $1, $2, $3, $4, $5, now())
		RETURNING ` + accountColumns

	var a models.SocialAccount
	err := s.pool.QueryRow(ctx, query, workspaceID, platform, handle, managerEmail, collaborators).Scan(
		&a.ID,
		&a.WorkspaceID,
		&a.Platform,
		&a.Handle,
		&a.AssignedManagerEmail,
		&a.CollaboratorEmails,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert account: %w", err)
	}
	return &a, nil
}

func (s *AccountStore) GetByID(ctx context.Context, id uuid.UUID) (*models.SocialAccount, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM social_accounts
		WHERE id = $1`

	var a models.SocialAccount
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&a.ID,
		&a.WorkspaceID,
		&a.Platform,
		&a.Handle,
		&a.AssignedManagerEmail,
		&a.CollaboratorEmails,
		&a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	return &a, nil
}

func (s *AccountStore) List(ctx context.Context) ([]models.SocialAccount, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM social_accounts
		ORDER BY created_at DESC`

	return s.query(ctx, query)
}

// ListVisibleTo returns accounts the email manages or collaborates on.
// One query, deduplicated by primary key (a row matches at most once).
func (s *AccountStore) ListVisibleTo(ctx context.Context, email string) ([]models.SocialAccount, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM social_accounts
		WHERE assigned_manager_email = $1 OR $1 = ANY(collaborator_emails)
		ORDER BY created_at DESC`

	return s.query(ctx, query, email)
}

func (s *AccountStore) query(ctx context.Context, query string, args ...any) ([]models.SocialAccount, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	accounts := make([]models.SocialAccount, 0)
	for rows.Next() {
		var a models.SocialAccount
		if err := rows.Scan(
			&a.ID,
			&a.WorkspaceID,
			&a.Platform,
			&a.Handle,
			&a.AssignedManagerEmail,
			&a.CollaboratorEmails,
			&a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate accounts: %w", err)
	}

	return accounts, nil
}
