package notify_test

import (
	"testing"
	"time"

	"closet-sync/internal/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCenter_AutoDismiss(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	c := notify.NewCenter(4 * time.Second)
	c.SetNowFunc(func() time.Time { return now })

	c.Notify(notify.LevelError, "Could not save outfit.")
	require.Len(t, c.Active(), 1)

	now = now.Add(3 * time.Second)
	c.Notify(notify.LevelInfo, "Saved.")
	assert.Len(t, c.Active(), 2)

	now = now.Add(2 * time.Second)
	active := c.Active()
	require.Len(t, active, 1)
	assert.Equal(t, "Saved.", active[0].Message)

	now = now.Add(5 * time.Second)
	assert.Empty(t, c.Active())
}

func TestCenter_Dismiss(t *testing.T) {
	c := notify.NewCenter(time.Minute)
	c.Notify(notify.LevelError, "one")
	c.Notify(notify.LevelError, "two")

	active := c.Active()
	require.Len(t, active, 2)

	assert.True(t, c.Dismiss(active[0].ID))
	assert.False(t, c.Dismiss(active[0].ID))

	remaining := c.Active()
	require.Len(t, remaining, 1)
	assert.Equal(t, "two", remaining[0].Message)
}
