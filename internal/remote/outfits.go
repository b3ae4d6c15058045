package remote

import (
	"context"
	"net/http"

	"closet-sync/internal/models"
)

func (c *Client) ListOutfits(ctx context.Context) ([]models.Outfit, error) {
	var out models.OutfitsResponse
	if err := c.do(ctx, "ListOutfits", http.MethodGet, "/outfits", nil, &out); err != nil {
		return nil, err
	}
	return out.Outfits, nil
}

func (c *Client) CreateOutfit(ctx context.Context, req models.CreateOutfitRequest) (models.Outfit, error) {
	var out models.Outfit
	err := c.do(ctx, "CreateOutfit", http.MethodPost, "/outfits", req, &out)
	return out, err
}

func (c *Client) ToggleFavorite(ctx context.Context, id string) (models.Outfit, error) {
	var out models.Outfit
	err := c.do(ctx, "ToggleFavorite", http.MethodPatch, "/outfits/"+escape(id)+"/favorite", nil, &out)
	return out, err
}

func (c *Client) SetRecurring(ctx context.Context, id string, recurring bool) (models.Outfit, error) {
	var out models.Outfit
	req := models.UpdateOutfitRequest{IsRecurring: &recurring}
	err := c.do(ctx, "SetRecurring", http.MethodPatch, "/outfits/"+escape(id), req, &out)
	return out, err
}

func (c *Client) GenerateAvatar(ctx context.Context, topID, bottomID string) (string, error) {
	var out models.GenerateAvatarResponse
	req := models.GenerateAvatarRequest{TopID: topID, BottomID: bottomID}
	if err := c.do(ctx, "GenerateAvatar", http.MethodPost, "/outfits/generate-avatar", req, &out); err != nil {
		return "", err
	}
	return out.GeneratedAvatarURL, nil
}
