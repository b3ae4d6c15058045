package database_test

import (
	"context"
	"testing"

	"closet-sync/internal/database"
	"closet-sync/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T, coins int) *database.MemoryStore {
	t.Helper()
	s := database.NewMemoryStore()
	require.NoError(t, s.EnsureUser(context.Background(), "u1", coins))
	return s
}

func TestMemoryStore_Balance(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, 15)

	// a second EnsureUser does not reset the wallet
	require.NoError(t, s.EnsureUser(ctx, "u1", 999))

	balance, err := s.AdjustBalance(ctx, "u1", -10)
	require.NoError(t, err)
	assert.Equal(t, 5, balance)

	balance, err = s.AdjustBalance(ctx, "u1", -6)
	assert.ErrorIs(t, err, database.ErrInsufficientFunds)
	assert.Equal(t, 5, balance)

	balance, err = s.AdjustBalance(ctx, "u1", 20)
	require.NoError(t, err)
	assert.Equal(t, 25, balance)

	_, err = s.Balance(ctx, "nobody")
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestMemoryStore_Items(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, 0)

	item, err := s.CreateItem(ctx, "u1", models.ClothingItem{Category: models.CategoryTop, ImageURLs: []string{"a.png"}})
	require.NoError(t, err)
	require.NotEmpty(t, item.ID)

	n, err := s.CountLabeledItems(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	require.NoError(t, s.SetItemLabel(ctx, "u1", item.ID, "White shirt"))
	n, err = s.CountLabeledItems(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	updated, err := s.SetItemUnused(ctx, "u1", item.ID, true)
	require.NoError(t, err)
	assert.True(t, updated.IsUnused)

	_, err = s.SetItemUnused(ctx, "u2", item.ID, true)
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestMemoryStore_OutfitsNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, 0)

	first, err := s.CreateOutfit(ctx, "u1", models.Outfit{Title: "A"})
	require.NoError(t, err)
	second, err := s.CreateOutfit(ctx, "u1", models.Outfit{Title: "A"})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	list, err := s.ListOutfits(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.True(t, list[0].CreatedAt.After(list[1].CreatedAt))

	toggled, err := s.ToggleFavorite(ctx, "u1", first.ID)
	require.NoError(t, err)
	assert.True(t, toggled.IsFavorite)

	recurring, err := s.SetRecurring(ctx, "u1", first.ID, true)
	require.NoError(t, err)
	assert.True(t, recurring.IsRecurring)
}

func TestMemoryStore_Sessions(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, 0)

	older, err := s.CreateSession(ctx, "u1", models.ChatSession{Title: "old"})
	require.NoError(t, err)
	newer, err := s.CreateSession(ctx, "u1", models.ChatSession{
		Title:    "new",
		Messages: []models.ChatMessage{{ID: "m1", Role: models.RoleAssistant, Content: "hi"}},
	})
	require.NoError(t, err)

	list, err := s.ListSessions(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)
	assert.Empty(t, list[0].Messages)

	require.NoError(t, s.AppendMessages(ctx, "u1", newer.ID, models.ChatMessage{ID: "m2", Role: models.RoleUser, Content: "yo"}))
	got, err := s.GetSession(ctx, "u1", newer.ID)
	require.NoError(t, err)
	assert.Len(t, got.Messages, 2)

	renamed, err := s.RenameSession(ctx, "u1", older.ID, "renamed")
	require.NoError(t, err)
	assert.Equal(t, "renamed", renamed.Title)

	require.NoError(t, s.DeleteSession(ctx, "u1", older.ID))
	assert.ErrorIs(t, s.DeleteSession(ctx, "u1", older.ID), database.ErrNotFound)
	_, err = s.GetSession(ctx, "u1", older.ID)
	assert.ErrorIs(t, err, database.ErrNotFound)
}
