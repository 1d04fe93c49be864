package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/planframe/planframe/internal/models"
)

// AuditStore is the append-only audit sink. No update or delete exists on
// this table by design.
type AuditStore struct {
	pool *pgxpool.Pool
}

func NewAuditStore(pool *pgxpool.Pool) *AuditStore {
	return &AuditStore{pool: pool}
}

func (s *AuditStore) Append(ctx context.Context, entry *models.AuditLogEntry) (*models.AuditLogEntry, error) {
	query := `
		INSERT INTO audit_log (id, workspace_id, entity_type, entity_id, action,
			actor_email, actor_name, details, created_at)
		VALUES (uuid_generate_v4(), $1, $2, $3, $4, $5, $6, $7, now())
		RETURNING id, workspace_id, entity_type, entity_id, action,
			actor_email, actor_name, details, created_at`

	var created models.AuditLogEntry
	err := s.pool.QueryRow(ctx, query,
		entry.WorkspaceID,
		entry.EntityType,
		entry.EntityID,
		entry.Action,
		entry.ActorEmail,
		entry.ActorName,
		entry.Details,
	).Scan(
		&created.ID,
		&created.WorkspaceID,
		&created.EntityType,
		&created.EntityID,
		&created.Action,
		&created.ActorEmail,
		&created.ActorName,
		&created.Details,
		&created.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("append audit entry: %w", err)
	}
	return &created, nil
}

func (s *AuditStore) ListByWorkspace(ctx context.Context, workspaceID uuid.UUID, limit int) ([]models.AuditLogEntry, error) {
	if limit < 1 || limit > 500 {
		limit = 100
	}
	query := `
		SELECT id, workspace_id, entity_type, entity_id, action,
			actor_email, actor_name, details, created_at
		FROM audit_log
		WHERE workspace_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := s.pool.Query(ctx, query, workspaceID, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	defer rows.Close()

	entries := make([]models.AuditLogEntry, 0)
	for rows.Next() {
		var e models.AuditLogEntry
		if err := rows.Scan(
			&e.ID,
			&e.WorkspaceID,
			&e.EntityType,
			&e.EntityID,
			&e.Action,
			&e.ActorEmail,
			&e.ActorName,
			&e.Details,
			&e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit entries: %w", err)
	}

	return entries, nil
}
