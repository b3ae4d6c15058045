// Package chat owns the lifecycle of stylist conversations: resume, send,
// switch and delete, with a local-only fallback when the backend cannot
// create a session.
package chat

import (
	"context"
	"strings"
	"sync"
	"time"

	"closet-sync/internal/models"
	"closet-sync/internal/notify"
	"closet-sync/internal/syncerr"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultTitle   = "Style chat"
	WelcomeMessage = "Hi! I'm your stylist. Tell me where you're headed and I'll put together an outfit from your closet."
)

type Remote interface {
	ListSessions(ctx context.Context) ([]models.ChatSession, error)
	CreateSession(ctx context.Context, title string, messages []models.ChatMessage) (models.ChatSession, error)
	GetSession(ctx context.Context, id string) (models.ChatSession, error)
	RenameSession(ctx context.Context, id, title string) (models.ChatSession, error)
	DeleteSession(ctx context.Context, id string) error
	SendMessage(ctx context.Context, id, message string) (models.ChatReply, error)
}

type Coordinator struct {
	remote   Remote
	notifier notify.Notifier
	log      *zap.Logger
	nowFunc  func() time.Time

	mu              sync.RWMutex
	current         Session
	transcript      []models.ChatMessage
	recommendations []models.Recommendation
}

func NewCoordinator(remote Remote, notifier notify.Notifier, log *zap.Logger) *Coordinator {
	if notifier == nil {
		notifier = notify.Discard{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Coordinator{
		remote:   remote,
		notifier: notifier,
		log:      log.Named("chat"),
		nowFunc:  time.Now,
	}
}

// Start resumes the most recent session, or creates one with a welcome
// transcript when there is none. It always returns a usable session.
func (c *Coordinator) Start(ctx context.Context) Session {
	sessions, err := c.remote.ListSessions(ctx)
	if err != nil {
		c.log.Warn("failed to list sessions", zap.Error(err))
	}
	if latest, ok := mostRecent(sessions); ok {
		return c.resume(ctx, latest)
	}
	return c.NewSession(ctx)
}

// NewSession creates a fresh server session. When creation fails the
// coordinator continues with an ephemeral session.
func (c *Coordinator) NewSession(ctx context.Context) Session {
	welcome := []models.ChatMessage{c.message(models.RoleAssistant, WelcomeMessage)}

	created, err := c.remote.CreateSession(ctx, DefaultTitle, welcome)
	if err != nil {
		c.log.Warn("session creation failed, continuing locally", zap.Error(err))
		c.notifier.Notify(notify.LevelInfo, "Chat history is unavailable right now. This conversation won't be saved.")
		s := Session{
			Kind:      KindEphemeral,
			ID:        ephemeralPrefix + uuid.NewString(),
			Title:     DefaultTitle,
			StartedAt: c.nowFunc(),
		}
		c.replace(s, welcome)
		return s
	}

	transcript := created.Messages
	if len(transcript) == 0 {
		transcript = welcome
	}
	s := persisted(created)
	c.replace(s, transcript)
	c.log.Info("session created", zap.String("id", s.ID))
	return s
}

// SendMessage appends content to the transcript immediately and posts it.
// The user's message is never rolled back: on failure only a notification
// fires. Messages in an ephemeral session stay on this device.
func (c *Coordinator) SendMessage(ctx context.Context, sessionID, content string) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return syncerr.Validation("sendMessage", "message is empty")
	}

	c.mu.Lock()
	current := c.current
	if current.ID == "" || current.ID != sessionID {
		c.mu.Unlock()
		return syncerr.Validation("sendMessage", "session is not active")
	}
	c.transcript = append(c.transcript, c.message(models.RoleUser, content))
	c.mu.Unlock()

	if !current.Persisted() {
		c.log.Debug("message kept locally", zap.String("session", sessionID))
		return nil
	}

	reply, err := c.remote.SendMessage(ctx, sessionID, content)
	if err != nil {
		c.log.Warn("send failed", zap.String("session", sessionID), zap.Error(err))
		c.notifier.Notify(notify.LevelError, syncerr.UserMessage(err, "Your stylist could not answer."))
		return err
	}

	msg := reply.Message
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.Role == "" {
		msg.Role = models.RoleAssistant
	}
	if msg.SentAt.IsZero() {
		msg.SentAt = c.nowFunc()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// The user may have switched away while the reply was in flight.
	if c.current.ID != sessionID {
		return nil
	}
	c.transcript = append(c.transcript, msg)
	c.recommendations = reply.Recommendations
	return nil
}

// SwitchSession replaces the in-memory transcript with the stored transcript
// of sessionID. Nothing from the previous session is kept.
func (c *Coordinator) SwitchSession(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return syncerr.Validation("switchSession", "session id is required")
	}
	if IsEphemeralID(sessionID) {
		if sessionID == c.Current().ID {
			return nil
		}
		return syncerr.Validation("switchSession", "local sessions cannot be reopened")
	}

	stored, err := c.remote.GetSession(ctx, sessionID)
	if err != nil {
		c.log.Warn("switch failed", zap.String("session", sessionID), zap.Error(err))
		c.notifier.Notify(notify.LevelError, syncerr.UserMessage(err, "Could not open that conversation."))
		return err
	}
	c.replace(persisted(stored), stored.Messages)
	return nil
}

// DeleteSession removes sessionID on the server, clears local state and
// starts a fresh session, which it returns.
func (c *Coordinator) DeleteSession(ctx context.Context, sessionID string) (Session, error) {
	if sessionID == "" {
		return c.Current(), syncerr.Validation("deleteSession", "session id is required")
	}

	if !IsEphemeralID(sessionID) {
		if err := c.remote.DeleteSession(ctx, sessionID); err != nil {
			c.log.Warn("delete failed", zap.String("session", sessionID), zap.Error(err))
			c.notifier.Notify(notify.LevelError, syncerr.UserMessage(err, "Could not delete that conversation."))
			return c.Current(), err
		}
	}

	c.replace(Session{}, nil)
	return c.Start(ctx), nil
}

// RenameSession changes a session's title.
func (c *Coordinator) RenameSession(ctx context.Context, sessionID, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return syncerr.Validation("renameSession", "title is required")
	}

	if IsEphemeralID(sessionID) {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.current.ID == sessionID {
			c.current.Title = title
		}
		return nil
	}

	renamed, err := c.remote.RenameSession(ctx, sessionID, title)
	if err != nil {
		c.notifier.Notify(notify.LevelError, syncerr.UserMessage(err, "Could not rename that conversation."))
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current.ID == sessionID {
		c.current.Title = renamed.Title
	}
	return nil
}

// Sessions lists the stored sessions, newest first.
func (c *Coordinator) Sessions(ctx context.Context) ([]models.ChatSession, error) {
	return c.remote.ListSessions(ctx)
}

func (c *Coordinator) Current() Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

func (c *Coordinator) Transcript() []models.ChatMessage {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.ChatMessage, len(c.transcript))
	copy(out, c.transcript)
	return out
}

// Recommendations returns the structured suggestions of the latest reply.
func (c *Coordinator) Recommendations() []models.Recommendation {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.Recommendation, len(c.recommendations))
	copy(out, c.recommendations)
	return out
}

func (c *Coordinator) resume(ctx context.Context, meta models.ChatSession) Session {
	stored, err := c.remote.GetSession(ctx, meta.ID)
	if err != nil {
		c.log.Warn("failed to load transcript", zap.String("session", meta.ID), zap.Error(err))
		stored = meta
	}
	s := persisted(stored)
	c.replace(s, stored.Messages)
	c.log.Info("session resumed", zap.String("id", s.ID), zap.Int("messages", len(stored.Messages)))
	return s
}

func (c *Coordinator) replace(s Session, transcript []models.ChatMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = s
	c.transcript = append([]models.ChatMessage(nil), transcript...)
	c.recommendations = nil
}

func (c *Coordinator) message(role models.Role, content string) models.ChatMessage {
	return models.ChatMessage{
		ID:      uuid.NewString(),
		Role:    role,
		Content: content,
		SentAt:  c.nowFunc(),
	}
}

func persisted(s models.ChatSession) Session {
	return Session{Kind: KindPersisted, ID: s.ID, Title: s.Title, StartedAt: s.StartedAt}
}

func mostRecent(sessions []models.ChatSession) (models.ChatSession, bool) {
	if len(sessions) == 0 {
		return models.ChatSession{}, false
	}
	latest := sessions[0]
	for _, s := range sessions[1:] {
		if s.StartedAt.After(latest.StartedAt) {
			latest = s
		}
	}
	return latest, true
}
