package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/planframe/planframe/internal/events"
	"github.com/planframe/planframe/internal/models"
	"github.com/planframe/planframe/internal/observ"
	"github.com/planframe/planframe/internal/repository"
	"go.uber.org/zap"
)

// ErrNotFound: the post does not exist (or was deleted under us).
var ErrNotFound = errors.New("post not found")

// Service loads a post snapshot, runs the pure transition, and applies the
// outcome transactionally enough for this workload: the post update is
// conditional on the source status, and the audit entry is appended only
// after that write reports success. A transition that loses the conditional
// write surfaces as ErrBadState with nothing written.
type Service struct {
	posts    repository.PostRepository
	comments repository.CommentRepository
	audit    repository.AuditRepository
	hub      *events.Hub
	logger   *zap.Logger
	now      func() time.Time
}

func NewService(
	posts repository.PostRepository,
	comments repository.CommentRepository,
	audit repository.AuditRepository,
	hub *events.Hub,
	logger *zap.Logger,
) *Service {
	return &Service{
		posts:    posts,
		comments: comments,
		audit:    audit,
		hub:      hub,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *Service) SendToClient(ctx context.Context, postID uuid.UUID, actor Actor) (*models.Post, error) {
	return s.run(ctx, "sent_to_client", postID, func(p models.Post) (Outcome, error) {
		return SendToClient(p, actor)
	})
}

func (s *Service) Approve(ctx context.Context, postID uuid.UUID, actor Actor) (*models.Post, error) {
	return s.run(ctx, "approved", postID, func(p models.Post) (Outcome, error) {
		return Approve(p, actor, s.now().UTC())
	})
}

func (s *Service) RequestChanges(ctx context.Context, postID uuid.UUID, actor Actor, reason string) (*models.Post, error) {
	return s.run(ctx, "rejected", postID, func(p models.Post) (Outcome, error) {
		return RequestChanges(p, actor, reason, s.now().UTC())
	})
}

func (s *Service) MarkReady(ctx context.Context, postID uuid.UUID, actor Actor) (*models.Post, error) {
	return s.run(ctx, "ready_to_post", postID, func(p models.Post) (Outcome, error) {
		return MarkReady(p, actor)
	})
}

func (s *Service) MarkPosted(ctx context.Context, postID uuid.UUID, actor Actor) (*models.Post, error) {
	return s.run(ctx, "posted", postID, func(p models.Post) (Outcome, error) {
		return MarkPosted(p, actor, s.now().UTC())
	})
}

func (s *Service) run(ctx context.Context, action string, postID uuid.UUID, transition func(models.Post) (Outcome, error)) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("load post: %w", err)
	}
	if post == nil {
		return nil, ErrNotFound
	}

	outcome, err := transition(*post)
	if err != nil {
		switch {
		case errors.Is(err, ErrDenied):
			observ.CountTransition(action, "denied")
		case errors.Is(err, ErrBadState):
			observ.CountTransition(action, "bad_state")
		}
		return nil, err
	}

	applied, err := s.posts.ApplyTransition(ctx, &outcome.Post, outcome.From)
	if err != nil {
		return nil, fmt.Errorf("apply transition: %w", err)
	}
	if !applied {
		// Lost the race: someone moved the post first. Same contract as
		// a stale snapshot — nothing was written.
		observ.CountTransition(action, "bad_state")
		return nil, ErrBadState
	}
	observ.CountTransition(action, "applied")

	if outcome.Audit != nil {
		if _, err := s.audit.Append(ctx, outcome.Audit); err != nil {
			// The transition is committed; a lost audit row is logged
			// loudly rather than unwinding the approved post.
			s.logger.Error("audit append failed after transition",
				zap.String("action", action),
				zap.String("post_id", postID.String()),
				zap.Error(err),
			)
		}
	}

	if outcome.Comment != nil {
		if _, err := s.comments.Create(ctx, outcome.Comment); err != nil {
			s.logger.Error("rejection comment create failed",
				zap.String("post_id", postID.String()),
				zap.Error(err),
			)
		}
	}

	if s.hub != nil {
		s.hub.Broadcast(events.Event{
			Type:        events.TypePostUpdated,
			WorkspaceID: outcome.Post.WorkspaceID,
			Payload:     outcome.Post,
		})
	}

	return &outcome.Post, nil
}
