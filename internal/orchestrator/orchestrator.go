// Package orchestrator composes the sync components into the view model the
// UI renders. It wires components together and holds no state of its own
// beyond the client-local store.
package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"closet-sync/internal/avatar"
	"closet-sync/internal/chat"
	"closet-sync/internal/closet"
	"closet-sync/internal/coins"
	"closet-sync/internal/ingestion"
	"closet-sync/internal/localstore"
	"closet-sync/internal/models"
	"closet-sync/internal/notify"
	"closet-sync/internal/outfits"
	"closet-sync/internal/syncerr"
	"go.uber.org/zap"
)

// Remote is everything the orchestrator and its components need from the backend.
type Remote interface {
	ingestion.Counter
	coins.Remote
	closet.Remote
	outfits.Remote
	chat.Remote
	Profile(ctx context.Context) (models.Profile, error)
	GenerateAvatar(ctx context.Context, topID, bottomID string) (string, error)
}

type Deps struct {
	Remote        Remote
	Store         localstore.Store
	UserID        string
	Keyer         outfits.ImageKeyer
	Notifications *notify.Center
	Policy        ingestion.Policy
	TryOnCost     int
	Placeholder   string
	Log           *zap.Logger
}

type Orchestrator struct {
	remote    Remote
	store     localstore.Store
	keys      localstore.Keys
	notes     *notify.Center
	tryOnCost int
	log       *zap.Logger
	nowFunc   func() time.Time

	ledger  *coins.Ledger
	avatar  *avatar.Resolver
	closet  *closet.Inventory
	outfits *outfits.Registry
	chat    *chat.Coordinator
	tracker *ingestion.Tracker
}

func New(d Deps) *Orchestrator {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	notes := d.Notifications
	if notes == nil {
		notes = notify.NewCenter(4 * time.Second)
	}
	store := d.Store
	if store == nil {
		store = localstore.NewMemoryStore()
	}
	policy := d.Policy
	if policy.Validate() != nil {
		policy = ingestion.DefaultPolicy()
	}
	keys := localstore.KeysFor(d.UserID)

	o := &Orchestrator{
		remote:    d.Remote,
		store:     store,
		keys:      keys,
		notes:     notes,
		tryOnCost: d.TryOnCost,
		log:       log.Named("orchestrator"),
		nowFunc:   time.Now,
	}
	o.ledger = coins.NewLedger(d.Remote, log)
	o.avatar = avatar.NewResolver(store, keys, notes, d.Placeholder, log)
	o.closet = closet.NewInventory(d.Remote, notes, log)
	o.outfits = outfits.NewRegistry(d.Remote, o.closet, d.Keyer, notes, log)
	o.chat = chat.NewCoordinator(d.Remote, notes, log)
	o.tracker = ingestion.NewTracker(d.Remote, ingestion.RefresherFunc(o.refreshCollections), policy, log)
	return o
}

func (o *Orchestrator) Coins() *coins.Ledger { return o.ledger }
func (o *Orchestrator) Avatar() *avatar.Resolver { return o.avatar }
func (o *Orchestrator) Closet() *closet.Inventory { return o.closet }
func (o *Orchestrator) Outfits() *outfits.Registry { return o.outfits }
func (o *Orchestrator) Chat() *chat.Coordinator { return o.chat }
func (o *Orchestrator) Tracker() *ingestion.Tracker { return o.tracker }
func (o *Orchestrator) Notifications() *notify.Center { return o.notes }

// Bootstrap loads everything the first screen needs. Read failures are
// logged and returned joined; components keep their previous state.
func (o *Orchestrator) Bootstrap(ctx context.Context) error {
	var errs []error

	// The durable avatar must be known before the cache is hydrated.
	if profile, err := o.remote.Profile(ctx); err != nil {
		o.log.Warn("profile load failed", zap.Error(err))
		errs = append(errs, fmt.Errorf("profile: %w", err))
	} else if profile.AvatarURL != "" {
		o.avatar.SetReal(profile.AvatarURL)
	}
	if err := o.avatar.Hydrate(ctx); err != nil {
		errs = append(errs, fmt.Errorf("avatar cache: %w", err))
	}
	if _, err := o.ledger.Refresh(ctx); err != nil {
		errs = append(errs, fmt.Errorf("balance: %w", err))
	}
	if err := o.refreshCollections(ctx); err != nil {
		errs = append(errs, err)
	}
	o.chat.Start(ctx)

	return errors.Join(errs...)
}

// TrackUploads starts the ingestion tracker. It returns false when a loop is
// already running.
func (o *Orchestrator) TrackUploads(ctx context.Context) bool {
	return o.tracker.Start(ctx)
}

// TryOn pays for and generates an avatar wearing the chosen garments, shows
// it as the overlay and remembers it so it can be saved later.
func (o *Orchestrator) TryOn(ctx context.Context, topID, bottomID string) (string, error) {
	if topID == "" || bottomID == "" {
		return "", syncerr.Validation("tryOn", "a top and a bottom are required")
	}

	if o.tryOnCost > 0 {
		if _, err := o.ledger.Spend(ctx, o.tryOnCost); err != nil {
			o.notes.Notify(notify.LevelError, "You don't have enough coins to try this on.")
			return "", err
		}
	}

	url, err := o.remote.GenerateAvatar(ctx, topID, bottomID)
	if err != nil {
		o.log.Warn("avatar generation failed", zap.Error(err))
		o.notes.Notify(notify.LevelError, syncerr.UserMessage(err, "Could not generate your try-on."))
		return "", err
	}

	// A cache failure is already surfaced by the resolver; the overlay still shows.
	_ = o.avatar.SetGenerated(ctx, url)

	record := models.GeneratedOutfit{TopID: topID, BottomID: bottomID, ImageURL: url, CreatedAt: o.nowFunc()}
	if err := o.saveLastTryOn(ctx, record); err != nil {
		o.log.Warn("failed to remember try-on", zap.Error(err))
	}
	return url, nil
}

// LastTryOn returns the most recent try-on remembered on this device.
func (o *Orchestrator) LastTryOn(ctx context.Context) (models.GeneratedOutfit, bool, error) {
	raw, ok, err := o.store.Get(ctx, o.keys.LastGeneratedOutfit())
	if err != nil || !ok {
		return models.GeneratedOutfit{}, false, err
	}
	var record models.GeneratedOutfit
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return models.GeneratedOutfit{}, false, fmt.Errorf("failed to decode last try-on: %w", err)
	}
	return record, true, nil
}

// SaveTryOn turns the last try-on into an outfit and raises the refresh flag
// so other pages reload their outfit lists.
func (o *Orchestrator) SaveTryOn(ctx context.Context, flags outfits.Flags) (models.Outfit, error) {
	record, ok, err := o.LastTryOn(ctx)
	if err != nil {
		return models.Outfit{}, err
	}
	if !ok {
		return models.Outfit{}, syncerr.Validation("saveTryOn", "nothing has been tried on yet")
	}

	created, err := o.outfits.Create(ctx, record.TopID, record.BottomID, record.ImageURL, flags)
	if err != nil {
		return models.Outfit{}, err
	}
	if err := o.store.Set(ctx, o.keys.RefreshOutfits(), "1"); err != nil {
		o.log.Warn("failed to raise refresh flag", zap.Error(err))
	}
	return created, nil
}

// RevertTryOn removes the overlay.
func (o *Orchestrator) RevertTryOn(ctx context.Context) error {
	return o.avatar.Revert(ctx)
}

// ConsumeRefreshFlag reloads outfits if another page asked for it, clearing
// the flag. It reports whether a reload happened.
func (o *Orchestrator) ConsumeRefreshFlag(ctx context.Context) (bool, error) {
	_, ok, err := o.store.Get(ctx, o.keys.RefreshOutfits())
	if err != nil || !ok {
		return false, err
	}
	if err := o.store.Delete(ctx, o.keys.RefreshOutfits()); err != nil {
		return false, err
	}
	return true, o.outfits.Refresh(ctx)
}

// Close tears down background loops owned by this view.
func (o *Orchestrator) Close() {
	o.tracker.Stop()
}

func (o *Orchestrator) saveLastTryOn(ctx context.Context, record models.GeneratedOutfit) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return o.store.Set(ctx, o.keys.LastGeneratedOutfit(), string(raw))
}

func (o *Orchestrator) refreshCollections(ctx context.Context) error {
	var errs []error
	if err := o.closet.Refresh(ctx); err != nil {
		errs = append(errs, fmt.Errorf("closet: %w", err))
	}
	if err := o.outfits.Refresh(ctx); err != nil {
		errs = append(errs, fmt.Errorf("outfits: %w", err))
	}
	return errors.Join(errs...)
}
