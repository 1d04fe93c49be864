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

type CommentStore struct {
	pool *pgxpool.Pool
}

func NewCommentStore(pool *pgxpool.Pool) *CommentStore {
	return &CommentStore{pool: pool}
}

const commentColumns = `id, post_id, workspace_id, author_id, author_email,
	author_name, content, is_internal, is_resolved, created_at`

func (s *CommentStore) Create(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	query := `
		INSERT INTO comments (id, post_id, workspace_id, author_id, author_email,
			author_name, content, is_internal, is_resolved, created_at)
		VALUES (uuid_generate_v4(), $1, $2, $3, $4, $5, $6, $7, false, now())
		RETURNING ` + commentColumns

	var created models.Comment
	err := s.pool.QueryRow(ctx, query,
		comment.PostID,
		comment.WorkspaceID,
		comment.AuthorID,
		comment.AuthorEmail,
		comment.AuthorName,
		comment.Content,
		comment.IsInternal,
	).Scan(
		&created.ID,
		&created.PostID,
		&created.WorkspaceID,
		&created.AuthorID,
		&created.AuthorEmail,
		&created.AuthorName,
		&created.Content,
		&created.IsInternal,
		&created.IsResolved,
		&created.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}
	return &created, nil
}

func (s *CommentStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	query := `
		SELECT ` + commentColumns + `
		FROM comments
		WHERE id = $1`

	var c models.Comment
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&c.ID,
		&c.PostID,
		&c.WorkspaceID,
		&c.AuthorID,
		&c.AuthorEmail,
		&c.AuthorName,
		&c.Content,
		&c.IsInternal,
		&c.IsResolved,
		&c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get comment: %w", err)
	}
	return &c, nil
}

func (s *CommentStore) ListByPost(ctx context.Context, postID uuid.UUID) ([]models.Comment, error) {
	query := `
		SELECT ` + commentColumns + `
		FROM comments
		WHERE post_id = $1
		ORDER BY created_at`

	rows, err := s.pool.Query(ctx, query, postID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	comments := make([]models.Comment, 0)
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(
			&c.ID,
			&c.PostID,
			&c.WorkspaceID,
			&c.AuthorID,
			&c.AuthorEmail,
			&c.AuthorName,
			&c.Content,
			&c.IsInternal,
			&c.IsResolved,
			&c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comments: %w", err)
	}

	return comments, nil
}

// Resolve flips is_resolved to true. There is no reverse operation.
func (s *CommentStore) Resolve(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE comments
		SET is_resolved = true
		WHERE id = $1`

	_, err := s.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("resolve comment: %w", err)
	}
	return nil
}
