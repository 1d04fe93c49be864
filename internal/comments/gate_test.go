package comments

import (
	"testing"

	"github.com/planframe/planframe/internal/roles"
	"github.com/stretchr/testify/assert"
)

func TestCanComment(t *testing.T) {
	for _, role := range []roles.Role{
		roles.Admin, roles.AccountManager, roles.ClientApprover, roles.ClientViewer, roles.Viewer,
	} {
		assert.True(t, CanComment(role), "role %s", role)
	}
}

func TestInternal(t *testing.T) {
	tests := []struct {
		name      string
		role      roles.Role
		requested bool
		want      bool
	}{
		{"staff requesting internal gets internal", roles.AccountManager, true, true},
		{"staff requesting client-visible gets client-visible", roles.AccountManager, false, false},
		{"admin requesting internal gets internal", roles.Admin, true, true},
		{"client approver request is forced client-visible", roles.ClientApprover, true, false},
		{"client viewer request is forced client-visible", roles.ClientViewer, true, false},
		{"client not requesting internal stays client-visible", roles.ClientApprover, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Internal(tt.role, tt.requested))
		})
	}
}

func TestCanResolve(t *testing.T) {
	assert.True(t, CanResolve(roles.Admin))
	assert.True(t, CanResolve(roles.AccountManager))
	assert.False(t, CanResolve(roles.ClientApprover))
	assert.False(t, CanResolve(roles.ClientViewer))
	assert.False(t, CanResolve(roles.Viewer))
}
