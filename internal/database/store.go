// Package database defines the persistence contract of the development
// backend and its in-memory implementation.
package database

import (
	"context"
	"errors"

	"closet-sync/internal/models"
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// Store persists everything the backend serves, scoped by user id.
type Store interface {
	// EnsureUser creates the user's profile and wallet on first sight.
	EnsureUser(ctx context.Context, userID string, startingCoins int) error
	Profile(ctx context.Context, userID string) (models.Profile, error)
	SetAvatar(ctx context.Context, userID, avatarURL string) error

	Balance(ctx context.Context, userID string) (int, error)
	// AdjustBalance applies delta atomically and returns the new balance.
	// A debit that would go below zero fails with ErrInsufficientFunds.
	AdjustBalance(ctx context.Context, userID string, delta int) (int, error)

	CreateItem(ctx context.Context, userID string, item models.ClothingItem) (models.ClothingItem, error)
	ListItems(ctx context.Context, userID string) ([]models.ClothingItem, error)
	GetItem(ctx context.Context, userID, itemID string) (models.ClothingItem, error)
	SetItemUnused(ctx context.Context, userID, itemID string, unused bool) (models.ClothingItem, error)
	SetItemLabel(ctx context.Context, userID, itemID, label string) error
	CountLabeledItems(ctx context.Context, userID string) (int, error)

	CreateOutfit(ctx context.Context, userID string, outfit models.Outfit) (models.Outfit, error)
	// ListOutfits returns outfits newest first.
	ListOutfits(ctx context.Context, userID string) ([]models.Outfit, error)
	ToggleFavorite(ctx context.Context, userID, outfitID string) (models.Outfit, error)
	SetRecurring(ctx context.Context, userID, outfitID string, recurring bool) (models.Outfit, error)

	CreateSession(ctx context.Context, userID string, session models.ChatSession) (models.ChatSession, error)
	// ListSessions returns sessions newest first, without messages.
	ListSessions(ctx context.Context, userID string) ([]models.ChatSession, error)
	GetSession(ctx context.Context, userID, sessionID string) (models.ChatSession, error)
	RenameSession(ctx context.Context, userID, sessionID, title string) (models.ChatSession, error)
	DeleteSession(ctx context.Context, userID, sessionID string) error
	AppendMessages(ctx context.Context, userID, sessionID string, messages ...models.ChatMessage) error

	Close() error
}
