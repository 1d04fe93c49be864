package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/planframe/planframe/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-do-not-use"

func authRequest(t *testing.T, header string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()

	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	req := httptest.NewRequest(http.MethodGet, "/v1/users/me", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	c.Request = req

	return c, rec
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	userID := uuid.New()
	token, err := auth.GenerateToken(userID, "person@agency.test", testSecret, time.Hour)
	require.NoError(t, err)

	c, rec := authRequest(t, "Bearer "+token)
	AuthMiddleware(testSecret)(c)

	assert.False(t, c.IsAborted())
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userID, GetUserID(c))
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	c, rec := authRequest(t, "")
	AuthMiddleware(testSecret)(c)

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareMalformedHeader(t *testing.T) {
	c, rec := authRequest(t, "Token abc123")
	AuthMiddleware(testSecret)(c)

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareWrongSecret(t *testing.T) {
	token, err := auth.GenerateToken(uuid.New(), "person@agency.test", "another-secret", time.Hour)
	require.NoError(t, err)

	c, rec := authRequest(t, "Bearer "+token)
	AuthMiddleware(testSecret)(c)

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetUserIDWithoutMiddleware(t *testing.T) {
	c, _ := authRequest(t, "")
	assert.Equal(t, uuid.Nil, GetUserID(c))
}
