// Package closet keeps the user's garment list in sync with the backend.
package closet

import (
	"context"
	"sync"

	"closet-sync/internal/models"
	"closet-sync/internal/mutation"
	"closet-sync/internal/notify"
	"closet-sync/internal/syncerr"
	"go.uber.org/zap"
)

type Remote interface {
	ListItems(ctx context.Context) ([]models.ClothingItem, error)
	MarkItemUnused(ctx context.Context, id string) (models.ClothingItem, error)
	RestoreItem(ctx context.Context, id string) (models.ClothingItem, error)
}

type Inventory struct {
	remote   Remote
	notifier notify.Notifier
	log      *zap.Logger

	mu    sync.RWMutex
	items []models.ClothingItem
}

func NewInventory(remote Remote, notifier notify.Notifier, log *zap.Logger) *Inventory {
	if notifier == nil {
		notifier = notify.Discard{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Inventory{remote: remote, notifier: notifier, log: log.Named("closet")}
}

// Refresh replaces the item list with the server's.
func (inv *Inventory) Refresh(ctx context.Context) error {
	items, err := inv.remote.ListItems(ctx)
	if err != nil {
		inv.log.Warn("item refresh failed", zap.Error(err))
		return err
	}
	inv.mu.Lock()
	inv.items = items
	inv.mu.Unlock()
	return nil
}

func (inv *Inventory) Items() []models.ClothingItem {
	return inv.filter(func(models.ClothingItem) bool { return true })
}

func (inv *Inventory) InCloset() []models.ClothingItem {
	return inv.filter(func(it models.ClothingItem) bool { return !it.IsUnused })
}

func (inv *Inventory) Unused() []models.ClothingItem {
	return inv.filter(func(it models.ClothingItem) bool { return it.IsUnused })
}

func (inv *Inventory) ByCategory(category models.Category) []models.ClothingItem {
	return inv.filter(func(it models.ClothingItem) bool { return it.Category == category && !it.IsUnused })
}

func (inv *Inventory) Item(id string) (models.ClothingItem, bool) {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	for _, it := range inv.items {
		if it.ID == id {
			return it, true
		}
	}
	return models.ClothingItem{}, false
}

// MarkUnused moves an item out of the closet.
func (inv *Inventory) MarkUnused(ctx context.Context, id string) error {
	return inv.toggle(ctx, "markUnused", id, inv.remote.MarkItemUnused)
}

// Restore moves an unused item back into the closet.
func (inv *Inventory) Restore(ctx context.Context, id string) error {
	return inv.toggle(ctx, "restore", id, inv.remote.RestoreItem)
}

func (inv *Inventory) toggle(ctx context.Context, name, id string, call func(context.Context, string) (models.ClothingItem, error)) error {
	if id == "" {
		return syncerr.Validation(name, "item id is required")
	}
	_, err := mutation.Run(ctx, inv.log, mutation.Op[models.ClothingItem]{
		Name: name,
		Commit: func(ctx context.Context) (models.ClothingItem, error) {
			return call(ctx, id)
		},
		Reconcile: func(models.ClothingItem) {
			if err := inv.Refresh(ctx); err != nil {
				inv.log.Warn("refetch after mutation failed", zap.String("op", name), zap.Error(err))
			}
		},
		Rollback: mutation.Rollback{
			Name: "keepList",
			Fn: func(err error) error {
				inv.notifier.Notify(notify.LevelError, syncerr.UserMessage(err, "Could not update this item."))
				return err
			},
		},
	})
	return err
}

func (inv *Inventory) filter(keep func(models.ClothingItem) bool) []models.ClothingItem {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	out := make([]models.ClothingItem, 0, len(inv.items))
	for _, it := range inv.items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}
