package workflow

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/planframe/planframe/internal/models"
	"github.com/planframe/planframe/internal/roles"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testNow    = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	managerID  = uuid.New()
	approverID = uuid.New()
)

func manager() Actor {
	return Actor{ID: managerID, Email: "manager@agency.test", Name: "Morgan", Role: roles.AccountManager}
}

func approver() Actor {
	return Actor{ID: approverID, Email: "client@brand.test", Name: "Casey", Role: roles.ClientApprover}
}

func post(status models.PostStatus) models.Post {
	return models.Post{
		ID:          uuid.New(),
		WorkspaceID: uuid.New(),
		Status:      status,
	}
}

func TestSendToClient(t *testing.T) {
	t.Run("from draft", func(t *testing.T) {
		out, err := SendToClient(post(models.PostStatusDraft), manager())
		require.NoError(t, err)
		assert.Equal(t, models.PostStatusSentToClient, out.Post.Status)
		assert.Nil(t, out.Audit)
		assert.Nil(t, out.Comment)
	})

	t.Run("from internal review", func(t *testing.T) {
		out, err := SendToClient(post(models.PostStatusInternalReview), manager())
		require.NoError(t, err)
		assert.Equal(t, models.PostStatusSentToClient, out.Post.Status)
	})

	t.Run("resubmit clears changes_requested", func(t *testing.T) {
		p := post(models.PostStatusSentToClient)
		p.ApprovalStatus = models.ApprovalStatusChangesRequested

		out, err := SendToClient(p, manager())
		require.NoError(t, err)
		assert.Equal(t, models.PostStatusSentToClient, out.Post.Status)
		assert.Equal(t, models.ApprovalStatusNone, out.Post.ApprovalStatus)
	})

	t.Run("client cannot send", func(t *testing.T) {
		_, err := SendToClient(post(models.PostStatusDraft), approver())
		assert.ErrorIs(t, err, ErrDenied)
	})

	t.Run("cannot send a posted post", func(t *testing.T) {
		_, err := SendToClient(post(models.PostStatusPosted), manager())
		assert.ErrorIs(t, err, ErrBadState)
	})
}

func TestApprove(t *testing.T) {
	t.Run("stamps approver and emits one audit entry", func(t *testing.T) {
		p := post(models.PostStatusSentToClient)

		out, err := Approve(p, approver(), testNow)
		require.NoError(t, err)

		assert.Equal(t, models.PostStatusApproved, out.Post.Status)
		assert.Equal(t, models.ApprovalStatusApproved, out.Post.ApprovalStatus)
		assert.Equal(t, "client@brand.test", out.Post.ApprovedBy)
		require.NotNil(t, out.Post.ApprovedAt)
		assert.Equal(t, testNow, *out.Post.ApprovedAt)

		require.NotNil(t, out.Audit)
		assert.Equal(t, "approved", out.Audit.Action)
		assert.Equal(t, "post", out.Audit.EntityType)
		assert.Equal(t, p.ID, out.Audit.EntityID)
		assert.Equal(t, p.WorkspaceID, out.Audit.WorkspaceID)
		assert.Nil(t, out.Comment)
	})

	t.Run("admin can approve", func(t *testing.T) {
		actor := Actor{Email: "admin@agency.test", Role: roles.Admin}
		out, err := Approve(post(models.PostStatusSentToClient), actor, testNow)
		require.NoError(t, err)
		assert.Equal(t, "admin@agency.test", out.Post.ApprovedBy)
	})

	t.Run("account manager cannot approve", func(t *testing.T) {
		_, err := Approve(post(models.PostStatusSentToClient), manager(), testNow)
		assert.ErrorIs(t, err, ErrDenied)
	})

	t.Run("client viewer cannot approve", func(t *testing.T) {
		actor := Actor{Email: "viewer@brand.test", Role: roles.ClientViewer}
		_, err := Approve(post(models.PostStatusSentToClient), actor, testNow)
		assert.ErrorIs(t, err, ErrDenied)
	})

	t.Run("only sent_to_client is approvable", func(t *testing.T) {
		for _, status := range []models.PostStatus{
			models.PostStatusDraft,
			models.PostStatusInternalReview,
			models.PostStatusApproved,
			models.PostStatusReadyToPost,
			models.PostStatusPosted,
		} {
			_, err := Approve(post(status), approver(), testNow)
			assert.ErrorIs(t, err, ErrBadState, "status %s", status)
		}
	})

	t.Run("approval is not re-stamped", func(t *testing.T) {
		p := post(models.PostStatusSentToClient)
		p.ApprovalStatus = models.ApprovalStatusApproved

		_, err := Approve(p, approver(), testNow)
		assert.ErrorIs(t, err, ErrBadState)
	})

	t.Run("denied transition leaves the snapshot alone", func(t *testing.T) {
		p := post(models.PostStatusSentToClient)
		before := p
		_, err := Approve(p, manager(), testNow)
		require.ErrorIs(t, err, ErrDenied)
		assert.Equal(t, before, p)
	})
}

func TestRequestChanges(t *testing.T) {
	t.Run("keeps status, flips approval, comments the reason", func(t *testing.T) {
		p := post(models.PostStatusSentToClient)

		out, err := RequestChanges(p, approver(), "logo is outdated", testNow)
		require.NoError(t, err)

		assert.Equal(t, models.PostStatusSentToClient, out.Post.Status)
		assert.Equal(t, models.ApprovalStatusChangesRequested, out.Post.ApprovalStatus)

		require.NotNil(t, out.Audit)
		assert.Equal(t, "rejected", out.Audit.Action)
		assert.Equal(t, "logo is outdated", out.Audit.Details)

		require.NotNil(t, out.Comment)
		assert.Equal(t, "Changes requested: logo is outdated", out.Comment.Content)
		assert.False(t, out.Comment.IsInternal)
		assert.Equal(t, p.ID, out.Comment.PostID)
		assert.Equal(t, approverID, out.Comment.AuthorID)
		assert.Equal(t, "client@brand.test", out.Comment.AuthorEmail)
	})

	t.Run("no reason means no comment, audit still written", func(t *testing.T) {
		out, err := RequestChanges(post(models.PostStatusSentToClient), approver(), "", testNow)
		require.NoError(t, err)
		assert.Nil(t, out.Comment)
		require.NotNil(t, out.Audit)
		assert.Equal(t, "rejected", out.Audit.Action)
	})

	t.Run("cannot reject an approved post", func(t *testing.T) {
		p := post(models.PostStatusSentToClient)
		p.ApprovalStatus = models.ApprovalStatusApproved

		_, err := RequestChanges(p, approver(), "changed my mind", testNow)
		assert.ErrorIs(t, err, ErrBadState)
	})

	t.Run("staff cannot reject on the client's behalf", func(t *testing.T) {
		_, err := RequestChanges(post(models.PostStatusSentToClient), manager(), "nope", testNow)
		assert.ErrorIs(t, err, ErrDenied)
	})
}

func TestMarkReady(t *testing.T) {
	t.Run("approved to ready_to_post", func(t *testing.T) {
		out, err := MarkReady(post(models.PostStatusApproved), manager())
		require.NoError(t, err)
		assert.Equal(t, models.PostStatusReadyToPost, out.Post.Status)
		assert.Nil(t, out.Audit)
	})

	t.Run("unapproved post cannot be staged", func(t *testing.T) {
		_, err := MarkReady(post(models.PostStatusSentToClient), manager())
		assert.ErrorIs(t, err, ErrBadState)
	})

	t.Run("clients cannot stage", func(t *testing.T) {
		_, err := MarkReady(post(models.PostStatusApproved), approver())
		assert.ErrorIs(t, err, ErrDenied)
	})
}

func TestMarkPosted(t *testing.T) {
	t.Run("from ready_to_post", func(t *testing.T) {
		out, err := MarkPosted(post(models.PostStatusReadyToPost), manager(), testNow)
		require.NoError(t, err)
		assert.Equal(t, models.PostStatusPosted, out.Post.Status)
		assert.Equal(t, "manager@agency.test", out.Post.PostedBy)
		require.NotNil(t, out.Post.PostedAt)
		assert.Equal(t, testNow, *out.Post.PostedAt)

		require.NotNil(t, out.Audit)
		assert.Equal(t, "posted", out.Audit.Action)
	})

	t.Run("directly from approved", func(t *testing.T) {
		out, err := MarkPosted(post(models.PostStatusApproved), manager(), testNow)
		require.NoError(t, err)
		assert.Equal(t, models.PostStatusPosted, out.Post.Status)
	})

	t.Run("cannot post what the client has not approved", func(t *testing.T) {
		_, err := MarkPosted(post(models.PostStatusSentToClient), manager(), testNow)
		assert.ErrorIs(t, err, ErrBadState)
	})

	t.Run("clients cannot mark posted", func(t *testing.T) {
		_, err := MarkPosted(post(models.PostStatusReadyToPost), approver(), testNow)
		assert.ErrorIs(t, err, ErrDenied)
	})
}

// Walks the whole happy path through the pure transitions, feeding each
// outcome into the next step.
func TestFullLifecycle(t *testing.T) {
	p := post(models.PostStatusDraft)

	out, err := SendToClient(p, manager())
	require.NoError(t, err)

	out, err = Approve(out.Post, approver(), testNow)
	require.NoError(t, err)

	out, err = MarkReady(out.Post, manager())
	require.NoError(t, err)

	later := testNow.Add(2 * time.Hour)
	out, err = MarkPosted(out.Post, manager(), later)
	require.NoError(t, err)

	assert.Equal(t, models.PostStatusPosted, out.Post.Status)
	assert.Equal(t, models.ApprovalStatusApproved, out.Post.ApprovalStatus)
	assert.Equal(t, "client@brand.test", out.Post.ApprovedBy)
	assert.Equal(t, "manager@agency.test", out.Post.PostedBy)
}
