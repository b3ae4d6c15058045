package remote

import (
	"context"
	"net/http"

	"closet-sync/internal/models"
)

func (c *Client) ListSessions(ctx context.Context) ([]models.ChatSession, error) {
	var out models.SessionsResponse
	if err := c.do(ctx, "ListSessions", http.MethodGet, "/chat/sessions", nil, &out); err != nil {
		return nil, err
	}
	return out.Sessions, nil
}

func (c *Client) CreateSession(ctx context.Context, title string, messages []models.ChatMessage) (models.ChatSession, error) {
	var out models.ChatSession
	req := models.CreateSessionRequest{Title: title, Messages: messages}
	err := c.do(ctx, "CreateSession", http.MethodPost, "/chat/sessions", req, &out)
	return out, err
}

func (c *Client) GetSession(ctx context.Context, id string) (models.ChatSession, error) {
	var out models.ChatSession
	err := c.do(ctx, "GetSession", http.MethodGet, "/chat/sessions/"+escape(id), nil, &out)
	return out, err
}

func (c *Client) RenameSession(ctx context.Context, id, title string) (models.ChatSession, error) {
	var out models.ChatSession
	req := models.RenameSessionRequest{Title: title}
	err := c.do(ctx, "RenameSession", http.MethodPatch, "/chat/sessions/"+escape(id), req, &out)
	return out, err
}

func (c *Client) DeleteSession(ctx context.Context, id string) error {
	return c.do(ctx, "DeleteSession", http.MethodDelete, "/chat/sessions/"+escape(id), nil, nil)
}

func (c *Client) SendMessage(ctx context.Context, id, message string) (models.ChatReply, error) {
	var out models.ChatReply
	req := models.SendMessageRequest{Message: message}
	err := c.do(ctx, "SendMessage", http.MethodPost, "/chat/sessions/"+escape(id)+"/messages", req, &out)
	return out, err
}
