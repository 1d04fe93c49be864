package models

import (
	"time"

	"github.com/google/uuid"
)

// GlobalRole is the account-wide role stored on the user row.
// "admin" is a superuser flag independent of any workspace.
type GlobalRole string

const (
	GlobalRoleAdmin GlobalRole = "admin"
	GlobalRoleUser  GlobalRole = "user"
)

// MembershipRole is the per-workspace role on a membership row.
type MembershipRole string

const (
	MembershipRoleAccountManager MembershipRole = "account_manager"
	MembershipRoleClientViewer   MembershipRole = "client_viewer"
	MembershipRoleClientApprover MembershipRole = "client_approver"
)

// PostStatus is the primary lifecycle state of a post.
type PostStatus string

const (
	PostStatusDraft          PostStatus = "draft"
	PostStatusInternalReview PostStatus = "internal_review"
	PostStatusSentToClient   PostStatus = "sent_to_client"
	PostStatusApproved       PostStatus = "approved"
	PostStatusReadyToPost    PostStatus = "ready_to_post"
	PostStatusPosted         PostStatus = "posted"
)

// ApprovalStatus tracks client sign-off, orthogonal to PostStatus.
// Empty means the client has not acted yet.
type ApprovalStatus string

const (
	ApprovalStatusNone             ApprovalStatus = ""
	ApprovalStatusApproved         ApprovalStatus = "approved"
	ApprovalStatusChangesRequested ApprovalStatus = "changes_requested"
)

// User is a person who can log in. The global role lives on the same row;
// everything workspace-specific comes from memberships.
type User struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	DisplayName  string     `json:"display_name"`
	PasswordHash string     `json:"-"`
	GlobalRole   GlobalRole `json:"global_role"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Workspace is the tenant boundary: one client engagement.
// Accounts, memberships and (transitively) posts hang off it.
type Workspace struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// WorkspaceMembership is the join table between workspaces and users.
// At most one row per (workspace, user); writes upsert on conflict.
type WorkspaceMembership struct {
	WorkspaceID uuid.UUID      `json:"workspace_id"`
	UserID      uuid.UUID      `json:"user_id"`
	Role        MembershipRole `json:"role"`
	CreatedAt   time.Time      `json:"created_at"`
}

// SocialAccount is one externally facing account on a platform, owned by a
// workspace and assigned to a staff member by email. Collaborators get the
// same visibility as the assigned manager.
type SocialAccount struct {
	ID                   uuid.UUID `json:"id"`
	WorkspaceID          uuid.UUID `json:"workspace_id"`
	Platform             Platform  `json:"platform"`
	Handle               string    `json:"handle"`
	AssignedManagerEmail string    `json:"assigned_manager_email"`
	CollaboratorEmails   []string  `json:"collaborator_emails"`
	CreatedAt            time.Time `json:"created_at"`
}

// Post is a planned piece of content on one social account.
//
// AssetURLs and AssetTypes are parallel slices: index i of one describes
// index i of the other, and they must stay the same length through every
// mutation. Use AddAsset/RemoveAsset rather than touching the slices.
type Post struct {
	ID              uuid.UUID      `json:"id"`
	WorkspaceID     uuid.UUID      `json:"workspace_id"`
	SocialAccountID uuid.UUID      `json:"social_account_id"`
	Platform        Platform       `json:"platform"`
	ScheduledDate   *time.Time     `json:"scheduled_date,omitempty"`
	ScheduledTime   string         `json:"scheduled_time,omitempty"`
	Caption         string         `json:"caption"`
	Hashtags        string         `json:"hashtags"`
	FirstComment    string         `json:"first_comment"`
	AssetURLs       []string       `json:"asset_urls"`
	AssetTypes      []string       `json:"asset_types"`
	OrderIndex      int            `json:"order_index"`
	Status          PostStatus     `json:"status"`
	ApprovalStatus  ApprovalStatus `json:"approval_status,omitempty"`
	ApprovedBy      string         `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time     `json:"approved_at,omitempty"`
	PostedBy        string         `json:"posted_by,omitempty"`
	PostedAt        *time.Time     `json:"posted_at,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// Comment is feedback on a post. Internal comments are invisible to client
// roles. Immutable except for the resolved flag, which only moves one way.
type Comment struct {
	ID          uuid.UUID `json:"id"`
	PostID      uuid.UUID `json:"post_id"`
	WorkspaceID uuid.UUID `json:"workspace_id"`
	AuthorID    uuid.UUID `json:"author_id"`
	AuthorEmail string    `json:"author_email"`
	AuthorName  string    `json:"author_name"`
	Content     string    `json:"content"`
	IsInternal  bool      `json:"is_internal"`
	IsResolved  bool      `json:"is_resolved"`
	CreatedAt   time.Time `json:"created_at"`
}

// AuditLogEntry is one immutable record of a workflow action.
// Rows are append-only; nothing in the system updates or deletes them.
type AuditLogEntry struct {
	ID          uuid.UUID `json:"id"`
	WorkspaceID uuid.UUID `json:"workspace_id"`
	EntityType  string    `json:"entity_type"`
	EntityID    uuid.UUID `json:"entity_id"`
	Action      string    `json:"action"`
	ActorEmail  string    `json:"actor_email"`
	ActorName   string    `json:"actor_name"`
	Details     string    `json:"details,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
