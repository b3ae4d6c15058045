package closet_test

import (
	"context"
	"errors"
	"testing"

	"closet-sync/internal/closet"
	"closet-sync/internal/models"
	"closet-sync/internal/notify"
	"closet-sync/internal/syncerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRemote struct {
	items     []models.ClothingItem
	listCalls int
	failPatch error
}

func (f *fakeRemote) ListItems(ctx context.Context) ([]models.ClothingItem, error) {
	f.listCalls++
	out := make([]models.ClothingItem, len(f.items))
	copy(out, f.items)
	return out, nil
}

func (f *fakeRemote) set(id string, unused bool) (models.ClothingItem, error) {
	if f.failPatch != nil {
		return models.ClothingItem{}, f.failPatch
	}
	for i := range f.items {
		if f.items[i].ID == id {
			f.items[i].IsUnused = unused
			return f.items[i], nil
		}
	}
	return models.ClothingItem{}, syncerr.FromStatus("patch", 404, "not found")
}

func (f *fakeRemote) MarkItemUnused(ctx context.Context, id string) (models.ClothingItem, error) {
	return f.set(id, true)
}

func (f *fakeRemote) RestoreItem(ctx context.Context, id string) (models.ClothingItem, error) {
	return f.set(id, false)
}

type recorder struct{ messages []string }

func (r *recorder) Notify(level notify.Level, message string) { r.messages = append(r.messages, message) }

func seed() *fakeRemote {
	return &fakeRemote{items: []models.ClothingItem{
		{ID: "t1", Category: models.CategoryTop, Label: "Navy tee"},
		{ID: "b1", Category: models.CategoryBottom, Label: "Black jeans"},
		{ID: "s1", Category: models.CategoryShoes, IsUnused: true},
	}}
}

func TestInventory_Views(t *testing.T) {
	inv := closet.NewInventory(seed(), nil, nil)
	require.NoError(t, inv.Refresh(context.Background()))

	assert.Len(t, inv.Items(), 3)
	assert.Len(t, inv.InCloset(), 2)
	assert.Len(t, inv.Unused(), 1)
	assert.Len(t, inv.ByCategory(models.CategoryTop), 1)
	assert.Empty(t, inv.ByCategory(models.CategoryShoes))

	item, ok := inv.Item("b1")
	require.True(t, ok)
	assert.Equal(t, "Black jeans", item.Label)
	_, ok = inv.Item("nope")
	assert.False(t, ok)
}

func TestInventory_MarkUnusedRefetches(t *testing.T) {
	remote := seed()
	inv := closet.NewInventory(remote, nil, nil)
	require.NoError(t, inv.Refresh(context.Background()))

	require.NoError(t, inv.MarkUnused(context.Background(), "t1"))
	assert.Equal(t, 2, remote.listCalls)
	assert.Len(t, inv.Unused(), 2)

	require.NoError(t, inv.Restore(context.Background(), "s1"))
	assert.Len(t, inv.Unused(), 1)
}

func TestInventory_FailureKeepsListAndNotifies(t *testing.T) {
	remote := seed()
	notes := &recorder{}
	inv := closet.NewInventory(remote, notes, nil)
	require.NoError(t, inv.Refresh(context.Background()))

	remote.failPatch = syncerr.Network("MarkItemUnused", errors.New("offline"))
	err := inv.MarkUnused(context.Background(), "t1")

	assert.ErrorIs(t, err, syncerr.ErrNetwork)
	assert.Equal(t, 1, remote.listCalls)
	assert.Len(t, inv.InCloset(), 2)
	require.Len(t, notes.messages, 1)
	assert.Contains(t, notes.messages[0], "Check your connection")
}

func TestInventory_RequiresID(t *testing.T) {
	inv := closet.NewInventory(seed(), nil, nil)
	assert.ErrorIs(t, inv.Restore(context.Background(), ""), syncerr.ErrValidation)
}
