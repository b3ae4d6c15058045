package ingestion_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"closet-sync/internal/ingestion"
	"closet-sync/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCounter struct {
	mu     sync.Mutex
	counts []int
	calls  int
	err    error
}

func (f *fakeCounter) UploadCount(ctx context.Context) (models.UploadProgress, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return models.UploadProgress{}, f.err
	}
	idx := f.calls - 1
	if idx >= len(f.counts) {
		idx = len(f.counts) - 1
	}
	count := f.counts[idx]
	return models.UploadProgress{Count: count, HasMetMinimum: count >= 3}, nil
}

func (f *fakeCounter) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type countingRefresher struct {
	calls atomic.Int32
}

func (r *countingRefresher) Refresh(ctx context.Context) error {
	r.calls.Add(1)
	return nil
}

func fastPolicy() ingestion.Policy {
	return ingestion.Policy{
		Interval:    5 * time.Millisecond,
		MaxAttempts: 4,
		HardTimeout: 2 * time.Second,
	}
}

func waitDone(t *testing.T, tr *ingestion.Tracker, within time.Duration) {
	t.Helper()
	select {
	case <-tr.Done():
	case <-time.After(within):
		t.Fatalf("tracker did not finish within %s", within)
	}
}

func TestTracker_ReadyAfterMaxAttempts(t *testing.T) {
	counter := &fakeCounter{counts: []int{2}}
	refresher := &countingRefresher{}
	tr := ingestion.NewTracker(counter, refresher, fastPolicy(), nil)

	var ready atomic.Int32
	tr.OnReady(func(models.UploadProgress) { ready.Add(1) })

	require.True(t, tr.Start(context.Background()))
	assert.Equal(t, ingestion.StateProcessing, tr.State())
	waitDone(t, tr, time.Second)

	assert.Equal(t, ingestion.StateReady, tr.State())
	assert.Equal(t, int32(1), ready.Load())
	assert.Equal(t, int32(1), refresher.calls.Load(), "final authoritative refresh runs once")
	// four polling ticks plus the final fetch
	assert.Equal(t, 5, counter.Calls())
	assert.Equal(t, 2, tr.Progress().Count)
}

func TestTracker_ProgressResetsAttempts(t *testing.T) {
	counter := &fakeCounter{counts: []int{1, 1, 1, 2, 3, 3, 3, 3, 3}}
	tr := ingestion.NewTracker(counter, nil, fastPolicy(), nil)

	require.True(t, tr.Start(context.Background()))
	waitDone(t, tr, time.Second)

	// ticks 4 and 5 reset the counter, ticks 6-9 exhaust it, call 10 is the final fetch
	assert.Equal(t, 10, counter.Calls())
	assert.Equal(t, 3, tr.Progress().Count)
	assert.True(t, tr.Progress().HasMetMinimum)
}

func TestTracker_FailOpenOnErrors(t *testing.T) {
	counter := &fakeCounter{err: errors.New("connection refused")}
	tr := ingestion.NewTracker(counter, nil, fastPolicy(), nil)

	var got []models.UploadProgress
	var mu sync.Mutex
	tr.OnReady(func(p models.UploadProgress) {
		mu.Lock()
		got = append(got, p)
		mu.Unlock()
	})

	require.True(t, tr.Start(context.Background()))
	waitDone(t, tr, time.Second)

	assert.Equal(t, ingestion.StateReady, tr.State())
	mu.Lock()
	assert.Len(t, got, 1)
	mu.Unlock()
}

func TestTracker_HardTimeoutWins(t *testing.T) {
	// count keeps rising, so only the hard timeout can end the loop
	counts := make([]int, 1000)
	for i := range counts {
		counts[i] = i
	}
	counter := &fakeCounter{counts: counts}
	policy := ingestion.Policy{Interval: 2 * time.Millisecond, MaxAttempts: 3, HardTimeout: 40 * time.Millisecond}
	tr := ingestion.NewTracker(counter, nil, policy, nil)

	start := time.Now()
	require.True(t, tr.Start(context.Background()))
	waitDone(t, tr, time.Second)

	assert.Equal(t, ingestion.StateReady, tr.State())
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}

func TestTracker_SingleLoop(t *testing.T) {
	counter := &fakeCounter{counts: []int{0}}
	tr := ingestion.NewTracker(counter, nil, fastPolicy(), nil)

	var started atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if tr.Start(context.Background()) {
				started.Add(1)
			}
		}()
	}
	wg.Wait()
	waitDone(t, tr, time.Second)

	assert.Equal(t, int32(1), started.Load())
	assert.Equal(t, 5, counter.Calls())
}

func TestTracker_TerminatesWithinBound(t *testing.T) {
	policy := ingestion.Policy{Interval: 5 * time.Millisecond, MaxAttempts: 6, HardTimeout: time.Second}
	tr := ingestion.NewTracker(&fakeCounter{counts: []int{1}}, nil, policy, nil)

	start := time.Now()
	require.True(t, tr.Start(context.Background()))
	waitDone(t, tr, time.Second)

	assert.Less(t, time.Since(start), time.Duration(policy.MaxAttempts)*policy.Interval+250*time.Millisecond)
}

func TestTracker_StopTearsDownWithoutReady(t *testing.T) {
	counter := &fakeCounter{counts: []int{0}}
	policy := ingestion.Policy{Interval: 5 * time.Millisecond, MaxAttempts: 1000, HardTimeout: time.Minute}
	refresher := &countingRefresher{}
	tr := ingestion.NewTracker(counter, refresher, policy, nil)

	var ready atomic.Int32
	tr.OnReady(func(models.UploadProgress) { ready.Add(1) })

	require.True(t, tr.Start(context.Background()))
	time.Sleep(20 * time.Millisecond)
	tr.Stop()
	waitDone(t, tr, time.Second)

	assert.Equal(t, ingestion.StateIdle, tr.State())
	assert.Equal(t, int32(0), ready.Load())
	assert.Equal(t, int32(0), refresher.calls.Load())
	assert.False(t, tr.Running())

	callsAfterStop := counter.Calls()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, callsAfterStop, counter.Calls(), "no ticks after teardown")
}

func TestTracker_ContextCancel(t *testing.T) {
	policy := ingestion.Policy{Interval: 5 * time.Millisecond, MaxAttempts: 1000, HardTimeout: time.Minute}
	tr := ingestion.NewTracker(&fakeCounter{counts: []int{0}}, nil, policy, nil)

	ctx, cancel := context.WithCancel(context.Background())
	require.True(t, tr.Start(ctx))
	cancel()
	waitDone(t, tr, time.Second)

	assert.Equal(t, ingestion.StateIdle, tr.State())
}

func TestTracker_RestartAfterReady(t *testing.T) {
	tr := ingestion.NewTracker(&fakeCounter{counts: []int{1}}, nil, fastPolicy(), nil)

	require.True(t, tr.Start(context.Background()))
	waitDone(t, tr, time.Second)
	require.True(t, tr.Start(context.Background()))
	waitDone(t, tr, time.Second)
	assert.Equal(t, ingestion.StateReady, tr.State())
}

func TestPolicy_Validate(t *testing.T) {
	assert.NoError(t, ingestion.DefaultPolicy().Validate())
	assert.Error(t, ingestion.Policy{Interval: time.Second, MaxAttempts: 0, HardTimeout: time.Second}.Validate())
	assert.Error(t, ingestion.Policy{Interval: 0, MaxAttempts: 1, HardTimeout: time.Second}.Validate())
}
