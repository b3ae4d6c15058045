package models

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type ItemsResponse struct {
	Items []ClothingItem `json:"items"`
}

type BalanceResponse struct {
	Balance int `json:"balance"`
}

type OutfitsResponse struct {
	Outfits []Outfit `json:"outfits"`
}

type GenerateAvatarResponse struct {
	GeneratedAvatarURL string `json:"generatedAvatarUrl"`
}

type SessionsResponse struct {
	Sessions []ChatSession `json:"sessions"`
}

// ChatReply is the backend's answer to a user message.
type ChatReply struct {
	Message         ChatMessage      `json:"message"`
	Recommendations []Recommendation `json:"recommendations,omitempty"`
}

type DevTokenResponse struct {
	Token string `json:"token"`
}
