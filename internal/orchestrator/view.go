package orchestrator

import (
	"closet-sync/internal/chat"
	"closet-sync/internal/ingestion"
	"closet-sync/internal/models"
	"closet-sync/internal/notify"
)

type UploadView struct {
	State         ingestion.State `json:"state"`
	Count         int             `json:"count"`
	HasMetMinimum bool            `json:"hasMetMinimum"`
}

type ChatView struct {
	Session         chat.Session            `json:"session"`
	Transcript      []models.ChatMessage    `json:"transcript"`
	Recommendations []models.Recommendation `json:"recommendations,omitempty"`
}

// ViewModel is a snapshot of everything the UI renders.
type ViewModel struct {
	Uploads       UploadView            `json:"uploads"`
	Balance       int                   `json:"balance"`
	TryOnCost     int                   `json:"tryOnCost"`
	CanTryOn      bool                  `json:"canTryOn"`
	Avatar        string                `json:"avatar"`
	AvatarState   models.AvatarState    `json:"avatarState"`
	Closet        []models.ClothingItem `json:"closet"`
	Unused        []models.ClothingItem `json:"unused"`
	Outfits       []models.Outfit       `json:"outfits"`
	Favorites     []models.Outfit       `json:"favorites"`
	Recurring     []models.Outfit       `json:"recurring"`
	Chat          ChatView              `json:"chat"`
	Notifications []notify.Notification `json:"notifications"`
}

func (o *Orchestrator) View() ViewModel {
	progress := o.tracker.Progress()
	return ViewModel{
		Uploads: UploadView{
			State:         o.tracker.State(),
			Count:         progress.Count,
			HasMetMinimum: progress.HasMetMinimum,
		},
		Balance:     o.ledger.Balance(),
		TryOnCost:   o.tryOnCost,
		CanTryOn:    o.ledger.CanAfford(o.tryOnCost),
		Avatar:      o.avatar.Displayed(),
		AvatarState: o.avatar.State(),
		Closet:      o.closet.InCloset(),
		Unused:      o.closet.Unused(),
		Outfits:     o.outfits.All(),
		Favorites:   o.outfits.Favorites(),
		Recurring:   o.outfits.Recurring(),
		Chat: ChatView{
			Session:         o.chat.Current(),
			Transcript:      o.chat.Transcript(),
			Recommendations: o.chat.Recommendations(),
		},
		Notifications: o.notes.Active(),
	}
}
