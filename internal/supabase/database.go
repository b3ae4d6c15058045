package supabase

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"closet-sync/internal/database"
	"closet-sync/internal/models"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

// DatabaseClient is the Postgres implementation of database.Store, talking
// to the Supabase database directly.
type DatabaseClient struct {
	db *sql.DB
}

func NewDatabaseClient(connectionString string) (*DatabaseClient, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DatabaseClient{db: db}, nil
}

// NewDatabaseClientWithDB wraps an existing connection.
func NewDatabaseClientWithDB(db *sql.DB) *DatabaseClient {
	return &DatabaseClient{db: db}
}

func (d *DatabaseClient) EnsureUser(ctx context.Context, userID string, startingCoins int) error {
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO profiles (user_id, balance)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO NOTHING
	`, userID, startingCoins)
	if err != nil {
		return fmt.Errorf("failed to ensure user: %w", err)
	}
	return nil
}

func (d *DatabaseClient) Profile(ctx context.Context, userID string) (models.Profile, error) {
	var p models.Profile
	err := d.db.QueryRowContext(ctx, `
		SELECT user_id, avatar_url FROM profiles WHERE user_id = $1
	`, userID).Scan(&p.UserID, &p.AvatarURL)
	if err != nil {
		return models.Profile{}, notFound(err, "failed to get profile")
	}
	return p, nil
}

func (d *DatabaseClient) SetAvatar(ctx context.Context, userID, avatarURL string) error {
	res, err := d.db.ExecContext(ctx, `
		UPDATE profiles SET avatar_url = $1 WHERE user_id = $2
	`, avatarURL, userID)
	if err != nil {
		return fmt.Errorf("failed to set avatar: %w", err)
	}
	return requireRow(res)
}

func (d *DatabaseClient) Balance(ctx context.Context, userID string) (int, error) {
	var balance int
	err := d.db.QueryRowContext(ctx, `
		SELECT balance FROM profiles WHERE user_id = $1
	`, userID).Scan(&balance)
	if err != nil {
		return 0, notFound(err, "failed to get balance")
	}
	return balance, nil
}

// AdjustBalance applies delta in one statement; the WHERE clause refuses a
// debit that would take the balance below zero.
func (d *DatabaseClient) AdjustBalance(ctx context.Context, userID string, delta int) (int, error) {
	var balance int
	err := d.db.QueryRowContext(ctx, `
		UPDATE profiles SET balance = balance + $1
		WHERE user_id = $2 AND balance + $1 >= 0
		RETURNING balance
	`, delta, userID).Scan(&balance)
	if err == nil {
		return balance, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("failed to adjust balance: %w", err)
	}

	current, err := d.Balance(ctx, userID)
	if err != nil {
		return 0, err
	}
	return current, database.ErrInsufficientFunds
}

func (d *DatabaseClient) CreateItem(ctx context.Context, userID string, item models.ClothingItem) (models.ClothingItem, error) {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.ImageURLs == nil {
		item.ImageURLs = []string{}
	}
	urls, err := json.Marshal(item.ImageURLs)
	if err != nil {
		return models.ClothingItem{}, fmt.Errorf("failed to marshal image urls: %w", err)
	}

	_, err = d.db.ExecContext(ctx, `
		INSERT INTO clothing_items (id, user_id, category, label, is_unused, image_urls)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, item.ID, userID, string(item.Category), item.Label, item.IsUnused, urls)
	if err != nil {
		return models.ClothingItem{}, fmt.Errorf("failed to create item: %w", err)
	}
	return item, nil
}

func (d *DatabaseClient) ListItems(ctx context.Context, userID string) ([]models.ClothingItem, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, category, label, is_unused, image_urls
		FROM clothing_items
		WHERE user_id = $1
		ORDER BY created_at ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	items := []models.ClothingItem{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (d *DatabaseClient) GetItem(ctx context.Context, userID, itemID string) (models.ClothingItem, error) {
	row := d.db.QueryRowContext(ctx, `
		SELECT id, category, label, is_unused, image_urls
		FROM clothing_items
		WHERE id = $1 AND user_id = $2
	`, itemID, userID)
	item, err := scanItem(row)
	if err != nil {
		return models.ClothingItem{}, notFound(err, "failed to get item")
	}
	return item, nil
}

func (d *DatabaseClient) SetItemUnused(ctx context.Context, userID, itemID string, unused bool) (models.ClothingItem, error) {
	row := d.db.QueryRowContext(ctx, `
		UPDATE clothing_items SET is_unused = $1
		WHERE id = $2 AND user_id = $3
		RETURNING id, category, label, is_unused, image_urls
	`, unused, itemID, userID)
	item, err := scanItem(row)
	if err != nil {
		return models.ClothingItem{}, notFound(err, "failed to update item")
	}
	return item, nil
}

func (d *DatabaseClient) SetItemLabel(ctx context.Context, userID, itemID, label string) error {
	res, err := d.db.ExecContext(ctx, `
		UPDATE clothing_items SET label = $1
		WHERE id = $2 AND user_id = $3
	`, label, itemID, userID)
	if err != nil {
		return fmt.Errorf("failed to label item: %w", err)
	}
	return requireRow(res)
}

func (d *DatabaseClient) CountLabeledItems(ctx context.Context, userID string) (int, error) {
	var count int
	err := d.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM clothing_items WHERE user_id = $1 AND label <> ''
	`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count items: %w", err)
	}
	return count, nil
}

func (d *DatabaseClient) CreateOutfit(ctx context.Context, userID string, outfit models.Outfit) (models.Outfit, error) {
	ids, err := json.Marshal(outfit.ClothingItemIDs)
	if err != nil {
		return models.Outfit{}, fmt.Errorf("failed to marshal item ids: %w", err)
	}

	row := d.db.QueryRowContext(ctx, `
		INSERT INTO outfits (id, user_id, title, clothing_item_ids, image_url, is_favorite, is_recurring)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, title, clothing_item_ids, image_url, is_favorite, is_recurring, created_at
	`, uuid.NewString(), userID, outfit.Title, ids, outfit.ImageURL, outfit.IsFavorite, outfit.IsRecurring)
	created, err := scanOutfit(row)
	if err != nil {
		return models.Outfit{}, fmt.Errorf("failed to create outfit: %w", err)
	}
	return created, nil
}

func (d *DatabaseClient) ListOutfits(ctx context.Context, userID string) ([]models.Outfit, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, title, clothing_item_ids, image_url, is_favorite, is_recurring, created_at
		FROM outfits
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list outfits: %w", err)
	}
	defer rows.Close()

	outfits := []models.Outfit{}
	for rows.Next() {
		o, err := scanOutfit(rows)
		if err != nil {
			return nil, err
		}
		outfits = append(outfits, o)
	}
	return outfits, rows.Err()
}

func (d *DatabaseClient) ToggleFavorite(ctx context.Context, userID, outfitID string) (models.Outfit, error) {
	row := d.db.QueryRowContext(ctx, `
		UPDATE outfits SET is_favorite = NOT is_favorite
		WHERE id = $1 AND user_id = $2
		RETURNING id, title, clothing_item_ids, image_url, is_favorite, is_recurring, created_at
	`, outfitID, userID)
	o, err := scanOutfit(row)
	if err != nil {
		return models.Outfit{}, notFound(err, "failed to toggle favorite")
	}
	return o, nil
}

func (d *DatabaseClient) SetRecurring(ctx context.Context, userID, outfitID string, recurring bool) (models.Outfit, error) {
	row := d.db.QueryRowContext(ctx, `
		UPDATE outfits SET is_recurring = $1
		WHERE id = $2 AND user_id = $3
		RETURNING id, title, clothing_item_ids, image_url, is_favorite, is_recurring, created_at
	`, recurring, outfitID, userID)
	o, err := scanOutfit(row)
	if err != nil {
		return models.Outfit{}, notFound(err, "failed to set recurring")
	}
	return o, nil
}

func (d *DatabaseClient) CreateSession(ctx context.Context, userID string, session models.ChatSession) (models.ChatSession, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return models.ChatSession{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	created := models.ChatSession{Title: session.Title}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO chat_sessions (id, user_id, title)
		VALUES ($1, $2, $3)
		RETURNING id, started_at
	`, uuid.NewString(), userID, session.Title).Scan(&created.ID, &created.StartedAt)
	if err != nil {
		return models.ChatSession{}, fmt.Errorf("failed to create session: %w", err)
	}

	for _, m := range session.Messages {
		if err := insertMessage(ctx, tx, created.ID, m); err != nil {
			return models.ChatSession{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return models.ChatSession{}, fmt.Errorf("failed to commit session: %w", err)
	}
	created.Messages = append([]models.ChatMessage{}, session.Messages...)
	return created, nil
}

func (d *DatabaseClient) ListSessions(ctx context.Context, userID string) ([]models.ChatSession, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, title, started_at
		FROM chat_sessions
		WHERE user_id = $1
		ORDER BY started_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	sessions := []models.ChatSession{}
	for rows.Next() {
		var s models.ChatSession
		if err := rows.Scan(&s.ID, &s.Title, &s.StartedAt); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

func (d *DatabaseClient) GetSession(ctx context.Context, userID, sessionID string) (models.ChatSession, error) {
	var s models.ChatSession
	err := d.db.QueryRowContext(ctx, `
		SELECT id, title, started_at FROM chat_sessions WHERE id = $1 AND user_id = $2
	`, sessionID, userID).Scan(&s.ID, &s.Title, &s.StartedAt)
	if err != nil {
		return models.ChatSession{}, notFound(err, "failed to get session")
	}

	rows, err := d.db.QueryContext(ctx, `
		SELECT id, role, content, sent_at
		FROM chat_messages
		WHERE session_id = $1
		ORDER BY seq ASC
	`, sessionID)
	if err != nil {
		return models.ChatSession{}, fmt.Errorf("failed to get messages: %w", err)
	}
	defer rows.Close()

	s.Messages = []models.ChatMessage{}
	for rows.Next() {
		var m models.ChatMessage
		var role string
		if err := rows.Scan(&m.ID, &role, &m.Content, &m.SentAt); err != nil {
			return models.ChatSession{}, fmt.Errorf("failed to scan message: %w", err)
		}
		m.Role = models.Role(role)
		s.Messages = append(s.Messages, m)
	}
	return s, rows.Err()
}

func (d *DatabaseClient) RenameSession(ctx context.Context, userID, sessionID, title string) (models.ChatSession, error) {
	var s models.ChatSession
	err := d.db.QueryRowContext(ctx, `
		UPDATE chat_sessions SET title = $1
		WHERE id = $2 AND user_id = $3
		RETURNING id, title, started_at
	`, title, sessionID, userID).Scan(&s.ID, &s.Title, &s.StartedAt)
	if err != nil {
		return models.ChatSession{}, notFound(err, "failed to rename session")
	}
	return s, nil
}

func (d *DatabaseClient) DeleteSession(ctx context.Context, userID, sessionID string) error {
	res, err := d.db.ExecContext(ctx, `
		DELETE FROM chat_sessions WHERE id = $1 AND user_id = $2
	`, sessionID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return requireRow(res)
}

func (d *DatabaseClient) AppendMessages(ctx context.Context, userID, sessionID string, messages ...models.ChatMessage) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var owner string
	err = tx.QueryRowContext(ctx, `
		SELECT user_id FROM chat_sessions WHERE id = $1 AND user_id = $2
	`, sessionID, userID).Scan(&owner)
	if err != nil {
		return notFound(err, "failed to find session")
	}

	for _, m := range messages {
		if err := insertMessage(ctx, tx, sessionID, m); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit messages: %w", err)
	}
	return nil
}

func (d *DatabaseClient) Close() error {
	return d.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(row scanner) (models.ClothingItem, error) {
	var item models.ClothingItem
	var category string
	var urls []byte
	if err := row.Scan(&item.ID, &category, &item.Label, &item.IsUnused, &urls); err != nil {
		return models.ClothingItem{}, err
	}
	item.Category = models.Category(category)
	if err := json.Unmarshal(urls, &item.ImageURLs); err != nil {
		return models.ClothingItem{}, fmt.Errorf("failed to decode image urls: %w", err)
	}
	return item, nil
}

func scanOutfit(row scanner) (models.Outfit, error) {
	var o models.Outfit
	var ids []byte
	if err := row.Scan(&o.ID, &o.Title, &ids, &o.ImageURL, &o.IsFavorite, &o.IsRecurring, &o.CreatedAt); err != nil {
		return models.Outfit{}, err
	}
	if err := json.Unmarshal(ids, &o.ClothingItemIDs); err != nil {
		return models.Outfit{}, fmt.Errorf("failed to decode item ids: %w", err)
	}
	return o, nil
}

func insertMessage(ctx context.Context, tx *sql.Tx, sessionID string, m models.ChatMessage) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	_, err := tx.ExecContext(ctx, `
		INSERT INTO chat_messages (id, session_id, role, content, sent_at)
		VALUES ($1, $2, $3, $4, $5)
	`, m.ID, sessionID, string(m.Role), m.Content, m.SentAt)
	if err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}
	return nil
}

func notFound(err error, msg string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return database.ErrNotFound
	}
	return fmt.Errorf("%s: %w", msg, err)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return database.ErrNotFound
	}
	return nil
}

var _ database.Store = (*DatabaseClient)(nil)
