package remote

import (
	"context"
	"net/http"

	"closet-sync/internal/models"
)

// DevToken asks a development backend to mint an access token for userID.
// An empty userID lets the server pick one.
func (c *Client) DevToken(ctx context.Context, userID string) (string, error) {
	var out models.DevTokenResponse
	err := c.do(ctx, "DevToken", http.MethodPost, "/dev/token", models.DevTokenRequest{UserID: userID}, &out)
	return out.Token, err
}
