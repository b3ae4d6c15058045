package remote

import (
	"context"
	"net/http"

	"closet-sync/internal/models"
)

func (c *Client) UploadCount(ctx context.Context) (models.UploadProgress, error) {
	var out models.UploadProgress
	err := c.do(ctx, "UploadCount", http.MethodGet, "/upload-count", nil, &out)
	return out, err
}

func (c *Client) ListItems(ctx context.Context) ([]models.ClothingItem, error) {
	var out models.ItemsResponse
	if err := c.do(ctx, "ListItems", http.MethodGet, "/clothing-items", nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// RegisterItem records an uploaded garment and starts its ingestion.
func (c *Client) RegisterItem(ctx context.Context, req models.RegisterItemRequest) (models.ClothingItem, error) {
	var out models.ClothingItem
	err := c.do(ctx, "RegisterItem", http.MethodPost, "/clothing-items", req, &out)
	return out, err
}

func (c *Client) MarkItemUnused(ctx context.Context, id string) (models.ClothingItem, error) {
	var out models.ClothingItem
	err := c.do(ctx, "MarkItemUnused", http.MethodPatch, "/clothing-items/"+escape(id)+"/unused", nil, &out)
	return out, err
}

func (c *Client) RestoreItem(ctx context.Context, id string) (models.ClothingItem, error) {
	var out models.ClothingItem
	err := c.do(ctx, "RestoreItem", http.MethodPatch, "/clothing-items/"+escape(id)+"/restore", nil, &out)
	return out, err
}

func (c *Client) Profile(ctx context.Context) (models.Profile, error) {
	var out models.Profile
	err := c.do(ctx, "Profile", http.MethodGet, "/profile", nil, &out)
	return out, err
}
