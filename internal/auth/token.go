package auth

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// TokenSource supplies the bearer credential attached to every backend call.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenSource that always returns the same token.
type StaticToken string

func (s StaticToken) Token(ctx context.Context) (string, error) {
	if s == "" {
		return "", fmt.Errorf("no access token configured")
	}
	return string(s), nil
}

// UserIDFromToken extracts the subject claim from a JWT without verifying its
// signature. The client never holds the signing secret; the backend verifies.
func UserIDFromToken(token string) (string, error) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}

	sub, err := parsed.Claims.GetSubject()
	if err != nil {
		return "", fmt.Errorf("failed to read subject: %w", err)
	}
	if sub == "" {
		return "", fmt.Errorf("token has no subject")
	}
	return sub, nil
}

// UserID resolves the current user id from a TokenSource.
func UserID(ctx context.Context, tokens TokenSource) (string, error) {
	token, err := tokens.Token(ctx)
	if err != nil {
		return "", err
	}
	return UserIDFromToken(token)
}
