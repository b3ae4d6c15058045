package models

import "time"

type Outfit struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	ClothingItemIDs []string  `json:"clothingItemIds"`
	ImageURL        string    `json:"imageUrl"`
	IsFavorite      bool      `json:"isFavorite"`
	IsRecurring     bool      `json:"isRecurring"`
	CreatedAt       time.Time `json:"createdAt"`
}

// AvatarState holds the two avatar sources. The displayed image is derived,
// never stored.
type AvatarState struct {
	RealAvatarURL      string `json:"realAvatarUrl,omitempty"`
	GeneratedAvatarURL string `json:"generatedAvatarUrl,omitempty"`
}

// Displayed returns the generated overlay when present, else the durable
// avatar, else placeholder.
func (s AvatarState) Displayed(placeholder string) string {
	if s.GeneratedAvatarURL != "" {
		return s.GeneratedAvatarURL
	}
	if s.RealAvatarURL != "" {
		return s.RealAvatarURL
	}
	return placeholder
}

// GeneratedOutfit is the last try-on result kept on the device so it can be
// saved as an outfit after the page that produced it is gone.
type GeneratedOutfit struct {
	TopID     string    `json:"topId"`
	BottomID  string    `json:"bottomId"`
	ImageURL  string    `json:"imageUrl"`
	CreatedAt time.Time `json:"createdAt"`
}

type Profile struct {
	UserID    string `json:"userId"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}
