// Package workflow is the post approval state machine:
//
//	draft → internal_review → sent_to_client → approved → ready_to_post → posted
//
// A client rejection flips approval_status to changes_requested but keeps
// status at sent_to_client, so the post stays in the client's queue until
// staff resubmit. Approval is monotonic: once approved, nothing in this
// package reverses it.
//
// Transitions are pure functions over a post snapshot. They either return
// the full set of writes to apply (updated post, audit entry, optional
// comment) or a typed error — never a partial result. Persistence applies
// the result with a status-conditional write so concurrent transitions on
// the same post lose cleanly.
package workflow

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/planframe/planframe/internal/models"
	"github.com/planframe/planframe/internal/roles"
)

var (
	// ErrDenied: the actor lacks the capability for this transition.
	ErrDenied = errors.New("actor not allowed to perform this transition")

	// ErrBadState: right capability, wrong source state.
	ErrBadState = errors.New("post is not in a state this transition accepts")
)

// Actor identifies who is attempting a transition.
type Actor struct {
	ID    uuid.UUID
	Email string
	Name  string
	Role  roles.Role
}

// Outcome is everything a successful transition wants written. From holds
// the source states the conditional UPDATE must match against.
type Outcome struct {
	Post    models.Post
	From    []models.PostStatus
	Audit   *models.AuditLogEntry
	Comment *models.Comment
}

func auditEntry(p models.Post, actor Actor, action, details string, now time.Time) *models.AuditLogEntry {
	return &models.AuditLogEntry{
		WorkspaceID: p.WorkspaceID,
		EntityType:  "post",
		EntityID:    p.ID,
		Action:      action,
		ActorEmail:  actor.Email,
		ActorName:   actor.Name,
		Details:     details,
		CreatedAt:   now,
	}
}

// SendToClient moves a post into client review. Staff only. Also used to
// resubmit after changes were requested; in that case the changes_requested
// marker is cleared (an earlier approval is never cleared — it can't be,
// approved posts don't come back through here).
func SendToClient(p models.Post, actor Actor) (Outcome, error) {
	if !actor.Role.IsAccountManager() {
		return Outcome{}, ErrDenied
	}
	from := []models.PostStatus{
		models.PostStatusDraft,
		models.PostStatusInternalReview,
		models.PostStatusSentToClient,
	}
	if !statusIn(p.Status, from) {
		return Outcome{}, ErrBadState
	}

	p.Status = models.PostStatusSentToClient
	if p.ApprovalStatus == models.ApprovalStatusChangesRequested {
		p.ApprovalStatus = models.ApprovalStatusNone
	}
	return Outcome{Post: p, From: from}, nil
}

// Approve records client sign-off. Requires approval capability and a post
// sitting in sent_to_client.
func Approve(p models.Post, actor Actor, now time.Time) (Outcome, error) {
	if !actor.Role.CanApprove() {
		return Outcome{}, ErrDenied
	}
	from := []models.PostStatus{models.PostStatusSentToClient}
	if p.Status != models.PostStatusSentToClient {
		return Outcome{}, ErrBadState
	}
	if p.ApprovalStatus == models.ApprovalStatusApproved {
		// Already approved; approval is monotonic and not re-stamped.
		return Outcome{}, ErrBadState
	}

	p.Status = models.PostStatusApproved
	p.ApprovalStatus = models.ApprovalStatusApproved
	p.ApprovedBy = actor.Email
	p.ApprovedAt = &now

	return Outcome{
		Post:  p,
		From:  from,
		Audit: auditEntry(p, actor, "approved", "", now),
	}, nil
}

// RequestChanges records a client rejection. The post keeps status
// sent_to_client; only approval_status flips. A non-empty reason becomes a
// client-visible comment alongside the audit entry.
func RequestChanges(p models.Post, actor Actor, reason string, now time.Time) (Outcome, error) {
	if !actor.Role.CanApprove() {
		return Outcome{}, ErrDenied
	}
	from := []models.PostStatus{models.PostStatusSentToClient}
	if p.Status != models.PostStatusSentToClient {
		return Outcome{}, ErrBadState
	}
	if p.ApprovalStatus == models.ApprovalStatusApproved {
		return Outcome{}, ErrBadState
	}

	p.ApprovalStatus = models.ApprovalStatusChangesRequested

	out := Outcome{
		Post:  p,
		From:  from,
		Audit: auditEntry(p, actor, "rejected", reason, now),
	}
	if reason != "" {
		out.Comment = &models.Comment{
			ID:          uuid.New(),
			PostID:      p.ID,
			WorkspaceID: p.WorkspaceID,
			AuthorID:    actor.ID,
			AuthorEmail: actor.Email,
			AuthorName:  actor.Name,
			Content:     fmt.Sprintf("Changes requested: %s", reason),
			IsInternal:  false,
			CreatedAt:   now,
		}
	}
	return out, nil
}

// MarkReady stages an approved post for publishing. Staff only.
func MarkReady(p models.Post, actor Actor) (Outcome, error) {
	if !actor.Role.IsAccountManager() {
		return Outcome{}, ErrDenied
	}
	from := []models.PostStatus{models.PostStatusApproved}
	if p.Status != models.PostStatusApproved {
		return Outcome{}, ErrBadState
	}

	p.Status = models.PostStatusReadyToPost
	return Outcome{Post: p, From: from}, nil
}

// MarkPosted records that the post went live. Staff only, from approved or
// ready_to_post.
func MarkPosted(p models.Post, actor Actor, now time.Time) (Outcome, error) {
	if !actor.Role.IsAccountManager() {
		return Outcome{}, ErrDenied
	}
	from := []models.PostStatus{
		models.PostStatusApproved,
		models.PostStatusReadyToPost,
	}
	if !statusIn(p.Status, from) {
		return Outcome{}, ErrBadState
	}

	p.Status = models.PostStatusPosted
	p.PostedBy = actor.Email
	p.PostedAt = &now

	return Outcome{
		Post:  p,
		From:  from,
		Audit: auditEntry(p, actor, "posted", "", now),
	}, nil
}

func statusIn(s models.PostStatus, set []models.PostStatus) bool {
	for _, candidate := range set {
		if s == candidate {
			return true
		}
	}
	return false
}
