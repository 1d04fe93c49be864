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

type PostStore struct {
	pool *pgxpool.Pool
}

func NewPostStore(pool *pgxpool.Pool) *PostStore {
	return &PostStore{pool: pool}
}

const postColumns = `id, workspace_id, social_account_id, platform, scheduled_date,
	scheduled_time, caption, hashtags, first_comment, asset_urls, asset_types,
	order_index, status, approval_status, approved_by, approved_at,
	posted_by, posted_at, created_at, updated_at`

func scanPost(row pgx.Row) (*models.Post, error) {
	var p models.Post
	err := row.Scan(
		&p.ID,
		&p.WorkspaceID,
		&p.SocialAccountID,
		&p.Platform,
		&p.ScheduledDate,
		&p.ScheduledTime,
		&p.Caption,
		&p.Hashtags,
		&p.FirstComment,
		&p.AssetURLs,
		&p.AssetTypes,
		&p.OrderIndex,
		&p.Status,
		&p.ApprovalStatus,
		&p.ApprovedBy,
		&p.ApprovedAt,
		&p.PostedBy,
		&p.PostedAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PostStore) Create(ctx context.Context, post *models.Post) (*models.Post, error) {
	if post.AssetURLs == nil {
		post.AssetURLs = []string{}
	}
	if post.AssetTypes == nil {
		post.AssetTypes = []string{}
	}
	query := `
		INSERT INTO posts (id, workspace_id, social_account_id, platform,
			scheduled_date, scheduled_time, caption, hashtags, first_comment,
			asset_urls, asset_types, order_index, status, approval_status,
			created_at, updated_at)
		VALUES (uuid_generate_v4(), $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, now(), now())
		RETURNING ` + postColumns

	created, err := scanPost(s.pool.QueryRow(ctx, query,
		post.WorkspaceID,
		post.SocialAccountID,
		post.Platform,
		post.ScheduledDate,
		post.ScheduledTime,
		post.Caption,
		post.Hashtags,
		post.FirstComment,
		post.AssetURLs,
		post.AssetTypes,
		post.OrderIndex,
		post.Status,
		post.ApprovalStatus,
	))
	if err != nil {
		return nil, fmt.Errorf("insert post: %w", err)
	}
	return created, nil
}

func (s *PostStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts
		WHERE id = $1`

	post, err := scanPost(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get post: %w", err)
	}
	return post, nil
}

func (s *PostStore) ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]models.Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts
		WHERE workspace_id = $1
		ORDER BY order_index, created_at`

	rows, err := s.pool.Query(ctx, query, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	posts := make([]models.Post, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate posts: %w", err)
	}

	return posts, nil
}

// Update writes the editable content fields. Workflow fields (status,
// approval stamps) only move through ApplyTransition.
func (s *PostStore) Update(ctx context.Context, post *models.Post) (*models.Post, error) {
	query := `
		UPDATE posts
		SET scheduled_date = $2, scheduled_time = $3, caption = $4,
			hashtags = $5, first_comment = $6, asset_urls = $7,
			asset_types = $8, updated_at = now()
		WHERE id = $1
		RETURNING ` + postColumns

	updated, err := scanPost(s.pool.QueryRow(ctx, query,
		post.ID,
		post.ScheduledDate,
		post.ScheduledTime,
		post.Caption,
		post.Hashtags,
		post.FirstComment,
		post.AssetURLs,
		post.AssetTypes,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("update post: %w", err)
	}
	return updated, nil
}

func (s *PostStore) UpdateOrder(ctx context.Context, id uuid.UUID, orderIndex int) error {
	query := `
		UPDATE posts
		SET order_index = $2, updated_at = now()
		WHERE id = $1`

	_, err := s.pool.Exec(ctx, query, id, orderIndex)
	if err != nil {
		return fmt.Errorf("update post order: %w", err)
	}
	return nil
}

// ApplyTransition writes the workflow fields conditionally on the current
// status. This is the check-and-write arbitration point: two racing
// transitions both pass the in-memory precondition, but only the first
// matches the WHERE clause. The loser gets applied=false and no row change.
func (s *PostStore) ApplyTransition(ctx context.Context, post *models.Post, from []models.PostStatus) (bool, error) {
	fromStatuses := make([]string, len(from))
	for i, st := range from {
		fromStatuses[i] = string(st)
	}

	query := `
		UPDATE posts
		SET status = $2, approval_status = $3, approved_by = $4,
			approved_at = $5, posted_by = $6, posted_at = $7, updated_at = now()
		WHERE id = $1 AND status = ANY($8)`

	tag, err := s.pool.Exec(ctx, query,
		post.ID,
		post.Status,
		post.ApprovalStatus,
		post.ApprovedBy,
		post.ApprovedAt,
		post.PostedBy,
		post.PostedAt,
		fromStatuses,
	)
	if err != nil {
		return false, fmt.Errorf("apply transition: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
