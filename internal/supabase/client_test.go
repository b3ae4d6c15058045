package supabase

import (
	"context"
	"errors"
	"testing"
	"time"

	"closet-sync/internal/syncerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/supabase-community/gotrue-go/types"
)

func newTestAuth(t *testing.T) *AuthClient {
	t.Helper()
	a, err := NewAuthClient("https://proj.supabase.co", "anon", nil)
	require.NoError(t, err)
	return a
}

func TestAuthClient_TokenWithoutSession(t *testing.T) {
	a := newTestAuth(t)
	_, err := a.Token(context.Background())
	assert.ErrorIs(t, err, syncerr.ErrValidation)
}

func TestAuthClient_TokenReturnsLiveSession(t *testing.T) {
	a := newTestAuth(t)
	now := time.Unix(1_000_000, 0)
	a.nowFunc = func() time.Time { return now }
	a.setSession(&types.Session{AccessToken: "tok", ExpiresAt: now.Add(time.Hour).Unix()})

	token, err := a.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok", token)

	a.SignOut()
	_, err = a.Token(context.Background())
	assert.ErrorIs(t, err, syncerr.ErrValidation)
}

func TestAuthClient_SignInValidates(t *testing.T) {
	a := newTestAuth(t)
	assert.ErrorIs(t, a.SignIn(context.Background(), "", "pw"), syncerr.ErrValidation)
	assert.ErrorIs(t, a.SignUp(context.Background(), "a@b.c", ""), syncerr.ErrValidation)
}

func TestIsDuplicateIdentity(t *testing.T) {
	assert.True(t, isDuplicateIdentity(errors.New("response status code 422: User already registered")))
	assert.False(t, isDuplicateIdentity(errors.New("response status code 500")))
	assert.False(t, isDuplicateIdentity(nil))
}
