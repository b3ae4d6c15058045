package auth_test

import (
	"context"
	"testing"
	"time"

	"closet-sync/internal/auth"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("any-secret"))
	require.NoError(t, err)
	return token
}

func TestUserIDFromToken(t *testing.T) {
	token := signed(t, jwt.MapClaims{
		"sub": "user-123",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	id, err := auth.UserIDFromToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", id)
}

func TestUserIDFromToken_MissingSubject(t *testing.T) {
	token := signed(t, jwt.MapClaims{"email": "a@b.c"})

	_, err := auth.UserIDFromToken(token)
	assert.Error(t, err)
}

func TestUserIDFromToken_Garbage(t *testing.T) {
	_, err := auth.UserIDFromToken("not-a-jwt")
	assert.Error(t, err)
}

func TestStaticToken(t *testing.T) {
	tok, err := auth.StaticToken("abc").Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)

	_, err = auth.StaticToken("").Token(context.Background())
	assert.Error(t, err)
}

func TestUserID(t *testing.T) {
	token := signed(t, jwt.MapClaims{"sub": "u-9"})

	id, err := auth.UserID(context.Background(), auth.StaticToken(token))
	require.NoError(t, err)
	assert.Equal(t, "u-9", id)
}
