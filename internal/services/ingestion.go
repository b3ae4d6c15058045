package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"closet-sync/internal/database"
	"closet-sync/internal/models"
	"go.uber.org/zap"
)

// Labeler describes an uploaded garment.
type Labeler interface {
	Label(ctx context.Context, item models.ClothingItem) (string, error)
}

// LabelerFunc adapts a function to Labeler.
type LabelerFunc func(ctx context.Context, item models.ClothingItem) (string, error)

func (f LabelerFunc) Label(ctx context.Context, item models.ClothingItem) (string, error) {
	return f(ctx, item)
}

// CategoryLabeler names an item after its category and a short id suffix.
var CategoryLabeler = LabelerFunc(func(_ context.Context, item models.ClothingItem) (string, error) {
	name := string(item.Category)
	if name == "" {
		name = "item"
	}
	suffix := item.ID
	if len(suffix) > 4 {
		suffix = suffix[:4]
	}
	return strings.ToUpper(name[:1]) + name[1:] + " " + suffix, nil
})

// Ingestion simulates the server-side processing of uploaded garments: each
// registered item gets its label after a delay, which is what upload-count
// observes.
type Ingestion struct {
	store   database.Store
	labeler Labeler
	delay   time.Duration
	log     *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewIngestion(store database.Store, labeler Labeler, delay time.Duration, log *zap.Logger) *Ingestion {
	if labeler == nil {
		labeler = CategoryLabeler
	}
	if log == nil {
		log = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Ingestion{
		store:   store,
		labeler: labeler,
		delay:   delay,
		log:     log.Named("ingestion"),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Enqueue schedules labeling of item for userID.
func (i *Ingestion) Enqueue(userID string, item models.ClothingItem) {
	i.wg.Add(1)
	go func() {
		defer i.wg.Done()

		if i.delay > 0 {
			timer := time.NewTimer(i.delay)
			defer timer.Stop()
			select {
			case <-i.ctx.Done():
				return
			case <-timer.C:
			}
		}

		label, err := i.labeler.Label(i.ctx, item)
		if err != nil {
			i.log.Warn("labeling failed", zap.String("item_id", item.ID), zap.Error(err))
			return
		}
		if err := i.store.SetItemLabel(i.ctx, userID, item.ID, label); err != nil {
			i.log.Error("failed to store label", zap.String("item_id", item.ID), zap.Error(err))
			return
		}
		i.log.Debug("item labeled", zap.String("user_id", userID), zap.String("item_id", item.ID), zap.String("label", label))
	}()
}

// Close abandons pending jobs and waits for running ones.
func (i *Ingestion) Close() {
	i.cancel()
	i.wg.Wait()
}

// Wait blocks until all queued jobs finished.
func (i *Ingestion) Wait() {
	i.wg.Wait()
}
