package models

import "time"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type ChatMessage struct {
	ID      string    `json:"id"`
	Role    Role      `json:"role"`
	Content string    `json:"content"`
	SentAt  time.Time `json:"sentAt"`
}

type ChatSession struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	StartedAt time.Time     `json:"startedAt"`
	Messages  []ChatMessage `json:"messages,omitempty"`
}

// Recommendation is a structured outfit suggestion attached to a stylist reply.
type Recommendation struct {
	TopID    string `json:"topId,omitempty"`
	BottomID string `json:"bottomId,omitempty"`
	ShoesID  string `json:"shoesId,omitempty"`
	Reason   string `json:"reason,omitempty"`
}
