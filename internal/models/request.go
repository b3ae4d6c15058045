package models

type RegisterItemRequest struct {
	Category  Category `json:"category"`
	ImageURLs []string `json:"imageUrls"`
}

type CoinsRequest struct {
	Amount int `json:"amount"`
}

type CreateOutfitRequest struct {
	Title           string   `json:"title"`
	ClothingItemIDs []string `json:"clothingItemIds"`
	ImageKey        string   `json:"imageKey"`
	IsFavorite      bool     `json:"isFavorite"`
	IsRecurring     bool     `json:"isRecurring"`
}

type UpdateOutfitRequest struct {
	IsRecurring *bool `json:"isRecurring"`
}

type GenerateAvatarRequest struct {
	TopID    string `json:"topId"`
	BottomID string `json:"bottomId"`
}

type CreateSessionRequest struct {
	Title    string        `json:"title"`
	Messages []ChatMessage `json:"messages,omitempty"`
}

type RenameSessionRequest struct {
	Title string `json:"title"`
}

type SendMessageRequest struct {
	Message string `json:"message"`
}

type DevTokenRequest struct {
	UserID string `json:"userId"`
}
