package database

import (
	"context"
	"sort"
	"sync"
	"time"

	"closet-sync/internal/models"
	"github.com/google/uuid"
)

type userData struct {
	profile  models.Profile
	balance  int
	items    []models.ClothingItem
	outfits  []models.Outfit
	sessions map[string]*models.ChatSession
}

// MemoryStore keeps all data in process. Used when DATABASE_URL is unset and
// by tests.
type MemoryStore struct {
	mu      sync.RWMutex
	users   map[string]*userData
	nowFunc func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:   make(map[string]*userData),
		nowFunc: time.Now,
	}
}

func (m *MemoryStore) EnsureUser(ctx context.Context, userID string, startingCoins int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[userID]; ok {
		return nil
	}
	m.users[userID] = &userData{
		profile:  models.Profile{UserID: userID},
		balance:  startingCoins,
		sessions: make(map[string]*models.ChatSession),
	}
	return nil
}

func (m *MemoryStore) Profile(ctx context.Context, userID string) (models.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[userID]
	if !ok {
		return models.Profile{}, ErrNotFound
	}
	return u.profile, nil
}

func (m *MemoryStore) SetAvatar(ctx context.Context, userID, avatarURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return ErrNotFound
	}
	u.profile.AvatarURL = avatarURL
	return nil
}

func (m *MemoryStore) Balance(ctx context.Context, userID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[userID]
	if !ok {
		return 0, ErrNotFound
	}
	return u.balance, nil
}

func (m *MemoryStore) AdjustBalance(ctx context.Context, userID string, delta int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return 0, ErrNotFound
	}
	if u.balance+delta < 0 {
		return u.balance, ErrInsufficientFunds
	}
	u.balance += delta
	return u.balance, nil
}

func (m *MemoryStore) CreateItem(ctx context.Context, userID string, item models.ClothingItem) (models.ClothingItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return models.ClothingItem{}, ErrNotFound
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	item.ImageURLs = append([]string(nil), item.ImageURLs...)
	u.items = append(u.items, item)
	return item, nil
}

func (m *MemoryStore) ListItems(ctx context.Context, userID string) ([]models.ClothingItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[userID]
	if !ok {
		return []models.ClothingItem{}, nil
	}
	out := make([]models.ClothingItem, len(u.items))
	copy(out, u.items)
	return out, nil
}

func (m *MemoryStore) GetItem(ctx context.Context, userID, itemID string) (models.ClothingItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	item := m.findItem(userID, itemID)
	if item == nil {
		return models.ClothingItem{}, ErrNotFound
	}
	return *item, nil
}

func (m *MemoryStore) SetItemUnused(ctx context.Context, userID, itemID string, unused bool) (models.ClothingItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item := m.findItem(userID, itemID)
	if item == nil {
		return models.ClothingItem{}, ErrNotFound
	}
	item.IsUnused = unused
	return *item, nil
}

func (m *MemoryStore) SetItemLabel(ctx context.Context, userID, itemID, label string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	item := m.findItem(userID, itemID)
	if item == nil {
		return ErrNotFound
	}
	item.Label = label
	return nil
}

func (m *MemoryStore) CountLabeledItems(ctx context.Context, userID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[userID]
	if !ok {
		return 0, nil
	}
	n := 0
	for _, it := range u.items {
		if it.Label != "" {
			n++
		}
	}
	return n, nil
}

func (m *MemoryStore) CreateOutfit(ctx context.Context, userID string, outfit models.Outfit) (models.Outfit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return models.Outfit{}, ErrNotFound
	}
	outfit.ID = uuid.NewString()
	outfit.ClothingItemIDs = append([]string(nil), outfit.ClothingItemIDs...)
	outfit.CreatedAt = m.tick(u)
	u.outfits = append(u.outfits, outfit)
	return outfit, nil
}

func (m *MemoryStore) ListOutfits(ctx context.Context, userID string) ([]models.Outfit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[userID]
	if !ok {
		return []models.Outfit{}, nil
	}
	out := make([]models.Outfit, 0, len(u.outfits))
	for i := len(u.outfits) - 1; i >= 0; i-- {
		out = append(out, u.outfits[i])
	}
	return out, nil
}

func (m *MemoryStore) ToggleFavorite(ctx context.Context, userID, outfitID string) (models.Outfit, error) {
	return m.updateOutfit(userID, outfitID, func(o *models.Outfit) { o.IsFavorite = !o.IsFavorite })
}

func (m *MemoryStore) SetRecurring(ctx context.Context, userID, outfitID string, recurring bool) (models.Outfit, error) {
	return m.updateOutfit(userID, outfitID, func(o *models.Outfit) { o.IsRecurring = recurring })
}

func (m *MemoryStore) CreateSession(ctx context.Context, userID string, session models.ChatSession) (models.ChatSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return models.ChatSession{}, ErrNotFound
	}
	session.ID = uuid.NewString()
	if session.StartedAt.IsZero() {
		session.StartedAt = m.tick(u)
	}
	session.Messages = append([]models.ChatMessage(nil), session.Messages...)
	stored := session
	u.sessions[session.ID] = &stored
	return copySession(&stored, true), nil
}

func (m *MemoryStore) ListSessions(ctx context.Context, userID string) ([]models.ChatSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[userID]
	if !ok {
		return []models.ChatSession{}, nil
	}
	out := make([]models.ChatSession, 0, len(u.sessions))
	for _, s := range u.sessions {
		out = append(out, copySession(s, false))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	return out, nil
}

func (m *MemoryStore) GetSession(ctx context.Context, userID, sessionID string) (models.ChatSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := m.findSession(userID, sessionID)
	if s == nil {
		return models.ChatSession{}, ErrNotFound
	}
	return copySession(s, true), nil
}

func (m *MemoryStore) RenameSession(ctx context.Context, userID, sessionID, title string) (models.ChatSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.findSession(userID, sessionID)
	if s == nil {
		return models.ChatSession{}, ErrNotFound
	}
	s.Title = title
	return copySession(s, false), nil
}

func (m *MemoryStore) DeleteSession(ctx context.Context, userID, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return ErrNotFound
	}
	if _, ok := u.sessions[sessionID]; !ok {
		return ErrNotFound
	}
	delete(u.sessions, sessionID)
	return nil
}

func (m *MemoryStore) AppendMessages(ctx context.Context, userID, sessionID string, messages ...models.ChatMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.findSession(userID, sessionID)
	if s == nil {
		return ErrNotFound
	}
	s.Messages = append(s.Messages, messages...)
	return nil
}

func (m *MemoryStore) Close() error { return nil }

func (m *MemoryStore) findItem(userID, itemID string) *models.ClothingItem {
	u, ok := m.users[userID]
	if !ok {
		return nil
	}
	for i := range u.items {
		if u.items[i].ID == itemID {
			return &u.items[i]
		}
	}
	return nil
}

func (m *MemoryStore) findSession(userID, sessionID string) *models.ChatSession {
	u, ok := m.users[userID]
	if !ok {
		return nil
	}
	return u.sessions[sessionID]
}

func (m *MemoryStore) updateOutfit(userID, outfitID string, fn func(*models.Outfit)) (models.Outfit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return models.Outfit{}, ErrNotFound
	}
	for i := range u.outfits {
		if u.outfits[i].ID == outfitID {
			fn(&u.outfits[i])
			return u.outfits[i], nil
		}
	}
	return models.Outfit{}, ErrNotFound
}

// tick returns a creation time strictly after anything already stored for
// the user, so newest-first ordering is stable within one clock tick.
func (m *MemoryStore) tick(u *userData) time.Time {
	now := m.nowFunc()
	var latest time.Time
	for _, o := range u.outfits {
		if o.CreatedAt.After(latest) {
			latest = o.CreatedAt
		}
	}
	for _, s := range u.sessions {
		if s.StartedAt.After(latest) {
			latest = s.StartedAt
		}
	}
	if !now.After(latest) {
		now = latest.Add(time.Microsecond)
	}
	return now
}

func copySession(s *models.ChatSession, withMessages bool) models.ChatSession {
	out := models.ChatSession{ID: s.ID, Title: s.Title, StartedAt: s.StartedAt}
	if withMessages {
		out.Messages = append([]models.ChatMessage{}, s.Messages...)
	}
	return out
}

var _ Store = (*MemoryStore)(nil)
