package supabase

import (
	"context"
	"strings"
	"sync"
	"time"

	"closet-sync/internal/syncerr"
	"github.com/supabase-community/gotrue-go/types"
	"github.com/supabase-community/supabase-go"
	"go.uber.org/zap"
)

// sessionSkew refreshes the access token slightly before it expires.
const sessionSkew = 30 * time.Second

// AuthClient signs the user in against Supabase Auth and hands out the
// resulting access token as a bearer credential.
type AuthClient struct {
	Supabase *supabase.Client
	log      *zap.Logger

	mu      sync.Mutex
	session *types.Session
	nowFunc func() time.Time
}

func NewAuthClient(supabaseURL, publishableKey string, log *zap.Logger) (*AuthClient, error) {
	client, err := supabase.NewClient(supabaseURL, publishableKey, nil)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &AuthClient{
		Supabase: client,
		log:      log.Named("auth"),
		nowFunc:  time.Now,
	}, nil
}

// SignIn exchanges email and password for a session.
func (a *AuthClient) SignIn(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return syncerr.Validation("auth.signIn", "email and password are required")
	}
	if err := ctx.Err(); err != nil {
		return syncerr.Network("auth.signIn", err)
	}
	resp, err := a.Supabase.Auth.SignInWithEmailPassword(email, password)
	if err != nil {
		return syncerr.FromStatus("auth.signIn", 401, err.Error())
	}
	a.setSession(&resp.Session)
	a.log.Info("signed in", zap.String("email", email))
	return nil
}

// SignUp creates the identity. An existing account maps to a ConflictFailure.
// When the project auto-confirms, the returned session is kept.
func (a *AuthClient) SignUp(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return syncerr.Validation("auth.signUp", "email and password are required")
	}
	if err := ctx.Err(); err != nil {
		return syncerr.Network("auth.signUp", err)
	}
	resp, err := a.Supabase.Auth.Signup(types.SignupRequest{
		Email:    email,
		Password: password,
	})
	if err != nil {
		if isDuplicateIdentity(err) {
			return syncerr.Conflict("auth.signUp", err)
		}
		return syncerr.FromStatus("auth.signUp", 400, err.Error())
	}
	if resp.AccessToken != "" {
		a.setSession(&resp.Session)
	}
	a.log.Info("signed up", zap.Bool("session", resp.AccessToken != ""))
	return nil
}

// Token returns the current access token, refreshing it when it is about to
// expire.
func (a *AuthClient) Token(ctx context.Context) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.session == nil || a.session.AccessToken == "" {
		return "", syncerr.Validation("auth.token", "not signed in")
	}
	if a.session.ExpiresAt == 0 || a.nowFunc().Add(sessionSkew).Before(time.Unix(a.session.ExpiresAt, 0)) {
		return a.session.AccessToken, nil
	}

	resp, err := a.Supabase.Auth.RefreshToken(a.session.RefreshToken)
	if err != nil {
		a.log.Warn("token refresh failed", zap.Error(err))
		return "", syncerr.Network("auth.refresh", err)
	}
	a.session = &resp.Session
	return a.session.AccessToken, nil
}

// SignOut forgets the local session.
func (a *AuthClient) SignOut() {
	a.mu.Lock()
	a.session = nil
	a.mu.Unlock()
}

func (a *AuthClient) setSession(s *types.Session) {
	a.mu.Lock()
	a.session = s
	a.mu.Unlock()
}

func isDuplicateIdentity(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "already registered") ||
		strings.Contains(msg, "already exists") ||
		strings.Contains(msg, "user_already_exists")
}
