// Package notify holds transient, auto-dismissing user notifications.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type Level string

const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

// Notifier surfaces a transient message to the user.
type Notifier interface {
	Notify(level Level, message string)
}

type Notification struct {
	ID        string    `json:"id"`
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Center keeps notifications until they expire or are dismissed.
type Center struct {
	mu      sync.Mutex
	ttl     time.Duration
	items   []Notification
	nowFunc func() time.Time
}

func NewCenter(ttl time.Duration) *Center {
	return &Center{ttl: ttl, nowFunc: time.Now}
}

// SetNowFunc overrides the clock. Used by tests.
func (c *Center) SetNowFunc(f func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nowFunc = f
}

func (c *Center) Notify(level Level, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.nowFunc()
	c.prune(now)
	c.items = append(c.items, Notification{
		ID:        uuid.NewString(),
		Level:     level,
		Message:   message,
		CreatedAt: now,
		ExpiresAt: now.Add(c.ttl),
	})
}

// Active returns the unexpired notifications, oldest first.
func (c *Center) Active() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.prune(c.nowFunc())
	out := make([]Notification, len(c.items))
	copy(out, c.items)
	return out
}

// Dismiss removes a notification before it expires.
func (c *Center) Dismiss(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, n := range c.items {
		if n.ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return true
		}
	}
	return false
}

func (c *Center) prune(now time.Time) {
	kept := c.items[:0]
	for _, n := range c.items {
		if now.Before(n.ExpiresAt) {
			kept = append(kept, n)
		}
	}
	c.items = kept
}

// Discard drops every notification.
type Discard struct{}

func (Discard) Notify(Level, string) {}

var (
	_ Notifier = (*Center)(nil)
	_ Notifier = Discard{}
)
