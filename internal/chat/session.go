package chat

import (
	"strings"
	"time"
)

// Kind tells a server-backed session apart from one that only exists on
// this device.
type Kind string

const (
	KindPersisted Kind = "persisted"
	// KindEphemeral sessions are synthesized locally when the backend could
	// not create one. Nothing sent in them is stored.
	KindEphemeral Kind = "ephemeral"
)

const ephemeralPrefix = "local-"

type Session struct {
	Kind      Kind      `json:"kind"`
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	StartedAt time.Time `json:"startedAt"`
}

func (s Session) Persisted() bool { return s.Kind == KindPersisted }

// IsEphemeralID reports whether id was synthesized on this device.
func IsEphemeralID(id string) bool {
	return strings.HasPrefix(id, ephemeralPrefix)
}
