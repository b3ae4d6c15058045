// Package ingestion turns the server's asynchronous image ingestion into a
// single processing/ready signal.
package ingestion

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"closet-sync/internal/models"
	"go.uber.org/zap"
)

type State string

const (
	StateIdle       State = "idle"
	StateProcessing State = "processing"
	StateReady      State = "ready"
)

// Counter reads the current ingestion progress.
type Counter interface {
	UploadCount(ctx context.Context) (models.UploadProgress, error)
}

// Refresher performs the final authoritative fetch before ready is signalled.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// RefresherFunc adapts a function to Refresher.
type RefresherFunc func(ctx context.Context) error

func (f RefresherFunc) Refresh(ctx context.Context) error { return f(ctx) }

// Tracker polls upload progress until the server looks settled. It never
// reports failure: every run that is not torn down ends in StateReady.
type Tracker struct {
	counter   Counter
	refresher Refresher
	policy    Policy
	log       *zap.Logger

	running atomic.Bool
	alive   atomic.Bool

	mu       sync.Mutex
	state    State
	progress models.UploadProgress
	done     chan struct{}
	onReady  []func(models.UploadProgress)
}

func NewTracker(counter Counter, refresher Refresher, policy Policy, log *zap.Logger) *Tracker {
	if log == nil {
		log = zap.NewNop()
	}
	closed := make(chan struct{})
	close(closed)
	return &Tracker{
		counter:   counter,
		refresher: refresher,
		policy:    policy,
		log:       log.Named("ingestion"),
		state:     StateIdle,
		done:      closed,
	}
}

// OnReady registers a callback invoked each time a run resolves to ready.
func (t *Tracker) OnReady(fn func(models.UploadProgress)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onReady = append(t.onReady, fn)
}

// Start begins a poll loop. It returns false, doing nothing, when a loop is
// already running.
func (t *Tracker) Start(ctx context.Context) bool {
	if !t.running.CompareAndSwap(false, true) {
		t.log.Debug("poll loop already running")
		return false
	}
	t.alive.Store(true)

	done := make(chan struct{})
	t.mu.Lock()
	t.state = StateProcessing
	t.done = done
	t.mu.Unlock()

	t.log.Info("tracking uploads",
		zap.Duration("interval", t.policy.Interval),
		zap.Int("max_attempts", t.policy.MaxAttempts),
		zap.Duration("hard_timeout", t.policy.HardTimeout),
	)
	go t.loop(ctx, done)
	return true
}

// Stop tears the loop down. The loop notices on its next tick and exits
// without signalling ready.
func (t *Tracker) Stop() {
	t.alive.Store(false)
}

// Done is closed when the current run exits, ready or torn down.
func (t *Tracker) Done() <-chan struct{} {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.done
}

func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

func (t *Tracker) Progress() models.UploadProgress {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.progress
}

func (t *Tracker) Running() bool {
	return t.running.Load()
}

func (t *Tracker) loop(ctx context.Context, done chan struct{}) {
	ticker := time.NewTicker(t.policy.Interval)
	hardTimeout := time.NewTimer(t.policy.HardTimeout)
	defer func() {
		ticker.Stop()
		hardTimeout.Stop()
		t.running.Store(false)
		close(done)
	}()

	attempts := 0
	lastCount := -1

	for {
		select {
		case <-ctx.Done():
			t.teardown("context cancelled")
			return
		case <-hardTimeout.C:
			if !t.alive.Load() {
				t.teardown("stopped")
				return
			}
			t.log.Info("hard timeout reached", zap.Int("attempts", attempts))
			t.finish(ctx)
			return
		case <-ticker.C:
			if !t.alive.Load() {
				t.teardown("stopped")
				return
			}

			progress, err := t.counter.UploadCount(ctx)
			switch {
			case err != nil:
				attempts++
				t.log.Warn("upload count failed", zap.Int("attempt", attempts), zap.Error(err))
			case lastCount >= 0 && progress.Count > lastCount:
				attempts = 0
				lastCount = progress.Count
				t.setProgress(progress)
				t.log.Debug("ingestion progressing", zap.Int("count", progress.Count))
			default:
				attempts++
				if progress.Count > lastCount {
					lastCount = progress.Count
				}
				t.setProgress(progress)
			}

			if attempts >= t.policy.MaxAttempts {
				t.log.Info("no further progress", zap.Int("attempts", attempts))
				t.finish(ctx)
				return
			}
		}
	}
}

func (t *Tracker) setProgress(p models.UploadProgress) {
	t.mu.Lock()
	defer t.mu.Unlock()
	// Count never goes backwards while tracking.
	if p.Count < t.progress.Count {
		p.Count = t.progress.Count
	}
	t.progress = p
}

func (t *Tracker) finish(ctx context.Context) {
	if t.refresher != nil {
		if err := t.refresher.Refresh(ctx); err != nil {
			t.log.Warn("final refresh failed", zap.Error(err))
		}
	}
	if progress, err := t.counter.UploadCount(ctx); err == nil {
		t.setProgress(progress)
	}

	t.mu.Lock()
	t.state = StateReady
	progress := t.progress
	callbacks := make([]func(models.UploadProgress), len(t.onReady))
	copy(callbacks, t.onReady)
	t.mu.Unlock()

	t.log.Info("uploads ready", zap.Int("count", progress.Count), zap.Bool("has_met_minimum", progress.HasMetMinimum))
	for _, fn := range callbacks {
		fn(progress)
	}
}

func (t *Tracker) teardown(reason string) {
	t.mu.Lock()
	t.state = StateIdle
	t.mu.Unlock()
	t.log.Debug("poll loop torn down", zap.String("reason", reason))
}
