// Package avatar decides which image represents the user: the durable avatar
// or a transient try-on overlay.
package avatar

import (
	"context"
	"sync"

	"closet-sync/internal/localstore"
	"closet-sync/internal/models"
	"closet-sync/internal/notify"
	"closet-sync/internal/syncerr"
	"go.uber.org/zap"
)

const DefaultPlaceholder = "/images/avatar-placeholder.png"

type Resolver struct {
	store       localstore.Store
	keys        localstore.Keys
	notifier    notify.Notifier
	placeholder string
	log         *zap.Logger

	mu    sync.RWMutex
	state models.AvatarState
}

func NewResolver(store localstore.Store, keys localstore.Keys, notifier notify.Notifier, placeholder string, log *zap.Logger) *Resolver {
	if notifier == nil {
		notifier = notify.Discard{}
	}
	if placeholder == "" {
		placeholder = DefaultPlaceholder
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{
		store:       store,
		keys:        keys,
		notifier:    notifier,
		placeholder: placeholder,
		log:         log.Named("avatar"),
	}
}

// SetReal records the durable avatar.
func (r *Resolver) SetReal(url string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.RealAvatarURL = url
}

// SetGenerated shows a try-on overlay. The overlay is written to the local
// cache only while no durable avatar is known, so it never shadows a durable
// record in storage. A failed cache write is reported but the overlay stays.
func (r *Resolver) SetGenerated(ctx context.Context, url string) error {
	if url == "" {
		return syncerr.Validation("setGenerated", "url is required")
	}

	r.mu.Lock()
	r.state.GeneratedAvatarURL = url
	persist := r.state.RealAvatarURL == ""
	r.mu.Unlock()

	if !persist {
		return nil
	}
	if err := r.store.Set(ctx, r.keys.GeneratedAvatar(), url); err != nil {
		r.log.Warn("failed to cache generated avatar", zap.Error(err))
		r.notifier.Notify(notify.LevelError, "Your try-on could not be saved on this device.")
		return err
	}
	return nil
}

// Revert drops the overlay from memory and cache. Safe to call repeatedly.
func (r *Resolver) Revert(ctx context.Context) error {
	r.mu.Lock()
	r.state.GeneratedAvatarURL = ""
	r.mu.Unlock()

	if err := r.store.Delete(ctx, r.keys.GeneratedAvatar()); err != nil {
		r.log.Warn("failed to clear cached avatar", zap.Error(err))
		r.notifier.Notify(notify.LevelError, "Could not clear your try-on from this device.")
		return err
	}
	return nil
}

// Hydrate restores a cached overlay at startup, unless a durable avatar has
// already been loaded.
func (r *Resolver) Hydrate(ctx context.Context) error {
	r.mu.RLock()
	hasReal := r.state.RealAvatarURL != ""
	r.mu.RUnlock()
	if hasReal {
		return nil
	}

	url, ok, err := r.store.Get(ctx, r.keys.GeneratedAvatar())
	if err != nil {
		r.log.Warn("failed to read cached avatar", zap.Error(err))
		return err
	}
	if !ok || url == "" {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state.RealAvatarURL == "" {
		r.state.GeneratedAvatarURL = url
	}
	return nil
}

func (r *Resolver) Displayed() string {
	return r.State().Displayed(r.placeholder)
}

func (r *Resolver) State() models.AvatarState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}
