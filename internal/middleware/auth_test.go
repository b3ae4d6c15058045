package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"closet-sync/internal/config"
	"closet-sync/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret-key-for-jwt-signing-must-be-long-enough"

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.AuthMiddleware(&config.Config{SupabaseJWTSecret: secret}))
	router.GET("/test", func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		assert.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"user": userID})
	})
	return router
}

func do(router *gin.Engine, header string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("GET", "/test", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware_NoToken(t *testing.T) {
	w := do(newRouter(t), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "missing authorization header")
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	w := do(newRouter(t), "Bearer invalid-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_WrongScheme(t *testing.T) {
	w := do(newRouter(t), "Basic abc")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_WrongSecret(t *testing.T) {
	token, err := middleware.IssueToken("another-secret", "user-123", time.Hour)
	require.NoError(t, err)

	w := do(newRouter(t), "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "signature")
}

func TestAuthMiddleware_Expired(t *testing.T) {
	token, err := middleware.IssueToken(secret, "user-123", -time.Minute)
	require.NoError(t, err)

	w := do(newRouter(t), "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "expired")
}

func TestAuthMiddleware_MissingSubject(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"role": "x"}).SignedString([]byte(secret))
	require.NoError(t, err)

	w := do(newRouter(t), "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	token, err := middleware.IssueToken(secret, "user-123", time.Hour)
	require.NoError(t, err)

	w := do(newRouter(t), "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user-123")
}

func TestIssueToken_RequiresSecret(t *testing.T) {
	_, err := middleware.IssueToken("", "user-123", time.Hour)
	assert.Error(t, err)
}
