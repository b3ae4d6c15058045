// Package outfits keeps the user's outfit list exactly as the server has it.
// Every successful mutation is followed by a full refetch; the list is never
// patched in place.
package outfits

import (
	"context"
	"strings"
	"sync"

	"closet-sync/internal/models"
	"closet-sync/internal/mutation"
	"closet-sync/internal/notify"
	"closet-sync/internal/syncerr"
	"go.uber.org/zap"
)

type Remote interface {
	ListOutfits(ctx context.Context) ([]models.Outfit, error)
	CreateOutfit(ctx context.Context, req models.CreateOutfitRequest) (models.Outfit, error)
	ToggleFavorite(ctx context.Context, id string) (models.Outfit, error)
	SetRecurring(ctx context.Context, id string, recurring bool) (models.Outfit, error)
}

// LabelSource resolves garment ids to items for title derivation.
type LabelSource interface {
	Item(id string) (models.ClothingItem, bool)
}

// ImageKeyer maps a displayable image URL to the storage key the backend expects.
type ImageKeyer interface {
	KeyFromURL(url string) string
}

type Flags struct {
	Favorite  bool
	Recurring bool
}

type Registry struct {
	remote   Remote
	labels   LabelSource
	keyer    ImageKeyer
	notifier notify.Notifier
	log      *zap.Logger

	mu      sync.RWMutex
	outfits []models.Outfit
	pending map[string]bool
}

func NewRegistry(remote Remote, labels LabelSource, keyer ImageKeyer, notifier notify.Notifier, log *zap.Logger) *Registry {
	if notifier == nil {
		notifier = notify.Discard{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{
		remote:   remote,
		labels:   labels,
		keyer:    keyer,
		notifier: notifier,
		log:      log.Named("outfits"),
		pending:  make(map[string]bool),
	}
}

// Refresh replaces the list with the server's.
func (r *Registry) Refresh(ctx context.Context) error {
	list, err := r.remote.ListOutfits(ctx)
	if err != nil {
		r.log.Warn("outfit refresh failed", zap.Error(err))
		return err
	}
	r.mu.Lock()
	r.outfits = list
	r.mu.Unlock()
	return nil
}

// Create records a new outfit for the garment pair. Identical calls are not
// deduplicated; each produces its own record.
func (r *Registry) Create(ctx context.Context, topID, bottomID, imageURL string, flags Flags) (models.Outfit, error) {
	if topID == "" || bottomID == "" {
		return models.Outfit{}, syncerr.Validation("createOutfit", "a top and a bottom are required")
	}

	req := models.CreateOutfitRequest{
		Title:           r.Title(topID, bottomID),
		ClothingItemIDs: []string{topID, bottomID},
		ImageKey:        r.imageKey(imageURL),
		IsFavorite:      flags.Favorite,
		IsRecurring:     flags.Recurring,
	}

	return mutation.Run(ctx, r.log, mutation.Op[models.Outfit]{
		Name: "createOutfit",
		Commit: func(ctx context.Context) (models.Outfit, error) {
			return r.remote.CreateOutfit(ctx, req)
		},
		Reconcile: func(created models.Outfit) {
			r.refetch(ctx, "createOutfit")
			r.log.Info("outfit created", zap.String("id", created.ID), zap.String("title", created.Title))
		},
		Rollback: r.keepList("Could not save this outfit."),
	})
}

// ToggleFavorite flips an outfit's favorite flag.
func (r *Registry) ToggleFavorite(ctx context.Context, id string) error {
	return r.mutate(ctx, "toggleFavorite", id, "Could not update favorites.", func(ctx context.Context) (models.Outfit, error) {
		return r.remote.ToggleFavorite(ctx, id)
	})
}

// ClearRecurring removes an outfit from the recurring set.
func (r *Registry) ClearRecurring(ctx context.Context, id string) error {
	return r.mutate(ctx, "clearRecurring", id, "Could not update recurring outfits.", func(ctx context.Context) (models.Outfit, error) {
		return r.remote.SetRecurring(ctx, id, false)
	})
}

// Pending reports whether a mutation for id is in flight. Callers disable the
// triggering control while it is.
func (r *Registry) Pending(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.pending[id]
}

func (r *Registry) All() []models.Outfit {
	return r.filter(func(models.Outfit) bool { return true })
}

func (r *Registry) Favorites() []models.Outfit {
	return r.filter(func(o models.Outfit) bool { return o.IsFavorite })
}

func (r *Registry) Recurring() []models.Outfit {
	return r.filter(func(o models.Outfit) bool { return o.IsRecurring })
}

// Title derives "<top> + <bottom>" from garment labels, using the category
// name for garments that have not been labelled yet.
func (r *Registry) Title(topID, bottomID string) string {
	return r.label(topID, models.CategoryTop) + " + " + r.label(bottomID, models.CategoryBottom)
}

func (r *Registry) label(id string, fallback models.Category) string {
	if r.labels != nil {
		if item, ok := r.labels.Item(id); ok {
			if label := strings.TrimSpace(item.Label); label != "" {
				return label
			}
			if item.Category != "" {
				return titleCase(string(item.Category))
			}
		}
	}
	return titleCase(string(fallback))
}

func (r *Registry) imageKey(url string) string {
	if r.keyer == nil {
		return url
	}
	return r.keyer.KeyFromURL(url)
}

func (r *Registry) mutate(ctx context.Context, name, id, failure string, commit func(context.Context) (models.Outfit, error)) error {
	if id == "" {
		return syncerr.Validation(name, "outfit id is required")
	}

	acquired := false
	defer func() {
		if acquired {
			r.mu.Lock()
			delete(r.pending, id)
			r.mu.Unlock()
		}
	}()

	_, err := mutation.Run(ctx, r.log, mutation.Op[models.Outfit]{
		Name: name,
		Apply: func() error {
			r.mu.Lock()
			defer r.mu.Unlock()
			if r.pending[id] {
				return syncerr.Validation(name, "a change to this outfit is already in progress")
			}
			r.pending[id] = true
			acquired = true
			return nil
		},
		Commit: commit,
		Reconcile: func(models.Outfit) {
			r.refetch(ctx, name)
		},
		Rollback: r.keepList(failure),
	})
	return err
}

// refetch reloads the list after a committed mutation. The mutation already
// happened, so a failed reload is logged and the next refresh catches up.
func (r *Registry) refetch(ctx context.Context, op string) {
	if err := r.Refresh(ctx); err != nil {
		r.log.Warn("refetch after mutation failed", zap.String("op", op), zap.Error(err))
	}
}

func (r *Registry) keepList(failure string) mutation.Rollback {
	return mutation.Rollback{
		Name: "keepList",
		Fn: func(err error) error {
			r.notifier.Notify(notify.LevelError, syncerr.UserMessage(err, failure))
			return err
		},
	}
}

func (r *Registry) filter(keep func(models.Outfit) bool) []models.Outfit {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Outfit, 0, len(r.outfits))
	for _, o := range r.outfits {
		if keep(o) {
			out = append(out, o)
		}
	}
	return out
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
