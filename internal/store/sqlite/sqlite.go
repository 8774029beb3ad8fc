// Package sqlite is a single-file store for local use and tests. It mirrors
// the Postgres store in internal/store/primary.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"

	"tubesort/internal/models"
	"tubesort/internal/store"
)

type Store struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at path. ":memory:" is accepted.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("sqlite path cannot be empty")
	}
	dsn := path
	if !strings.Contains(dsn, "?") {
		dsn += "?_foreign_keys=on"
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to open sqlite database: %w", err)
	}
	// A single connection keeps ":memory:" databases alive and serializes writers.
	db.SetMaxOpenConns(1)
	return &Store{db: db}, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	google_id  TEXT NOT NULL UNIQUE,
	name       TEXT,
	email      TEXT UNIQUE,
	created_at DATETIME NOT NULL
);
CREATE TABLE IF NOT EXISTS channels (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id      INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	channel_id   TEXT NOT NULL,
	channel_name TEXT NOT NULL,
	created_at   DATETIME NOT NULL,
	UNIQUE (user_id, channel_id)
);
CREATE TABLE IF NOT EXISTS ai_usage_logs (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	timestamp     DATETIME NOT NULL,
	provider_name TEXT NOT NULL,
	service_type  TEXT NOT NULL,
	model_name    TEXT NOT NULL,
	input_tokens  INTEGER NOT NULL DEFAULT 0,
	output_tokens INTEGER NOT NULL DEFAULT 0,
	cost          REAL NOT NULL DEFAULT 0,
	channel_id    TEXT
);`

func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *Store) Close() { s.db.Close() }

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// --- Users ---

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (google_id, name, email, created_at) VALUES (?, ?, ?, ?)`,
		user.GoogleID, nullIfEmpty(user.Name), nullIfEmpty(user.Email), now)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("user with google id '%s' already exists: %w", user.GoogleID, store.ErrDuplicate)
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read user id: %w", err)
	}
	user.ID = id
	user.CreatedAt = now
	return nil
}

func (s *Store) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return s.getUser(ctx, `SELECT id, google_id, COALESCE(name, ''), COALESCE(email, ''), created_at FROM users WHERE id = ?`, id)
}

func (s *Store) GetUserByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	return s.getUser(ctx, `SELECT id, google_id, COALESCE(name, ''), COALESCE(email, ''), created_at FROM users WHERE google_id = ?`, googleID)
}

func (s *Store) getUser(ctx context.Context, query string, arg any) (*models.User, error) {
	u := &models.User{}
	err := s.db.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.GoogleID, &u.Name, &u.Email, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// --- Channels ---

func (s *Store) CreateChannel(ctx context.Context, channel *models.Channel) error {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO channels (user_id, channel_id, channel_name, created_at) VALUES (?, ?, ?, ?)`,
		channel.UserID, channel.ChannelID, channel.ChannelName, now)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("channel '%s' already registered: %w", channel.ChannelID, store.ErrDuplicate)
		}
		return fmt.Errorf("failed to insert channel: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read channel id: %w", err)
	}
	channel.ID = id
	channel.CreatedAt = now
	return nil
}

func (s *Store) ListChannelsByUser(ctx context.Context, userID int64) ([]*models.Channel, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, channel_id, channel_name, created_at FROM channels WHERE user_id = ? ORDER BY id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list channels: %w", err)
	}
	defer rows.Close()

	channels := []*models.Channel{}
	for rows.Next() {
		c := &models.Channel{}
		if err := rows.Scan(&c.ID, &c.UserID, &c.ChannelID, &c.ChannelName, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan channel row: %w", err)
		}
		channels = append(channels, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating channel rows: %w", err)
	}
	return channels, nil
}

func (s *Store) GetUserChannel(ctx context.Context, userID int64, channelID string) (*models.Channel, error) {
	c := &models.Channel{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, channel_id, channel_name, created_at FROM channels WHERE user_id = ? AND channel_id = ?`,
		userID, channelID).Scan(&c.ID, &c.UserID, &c.ChannelID, &c.ChannelName, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get channel '%s': %w", channelID, err)
	}
	return c, nil
}

func (s *Store) DeleteUserChannel(ctx context.Context, userID int64, channelID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM channels WHERE user_id = ? AND channel_id = ?`, userID, channelID)
	if err != nil {
		return fmt.Errorf("failed to delete channel '%s': %w", channelID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// --- Cost tracking ---

func (s *Store) RecordUsage(ctx context.Context, log *models.AIUsageLog) error {
	if log.Timestamp.IsZero() {
		log.Timestamp = time.Now().UTC()
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO ai_usage_logs (timestamp, provider_name, service_type, model_name, input_tokens, output_tokens, cost, channel_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		log.Timestamp, log.ProviderName, log.ServiceType, log.ModelName,
		log.InputTokens, log.OutputTokens, log.Cost, log.ChannelID)
	if err != nil {
		return fmt.Errorf("failed to insert ai_usage_log: %w", err)
	}
	log.ID, err = res.LastInsertId()
	return err
}

func (s *Store) ListUsage(ctx context.Context, filter models.UsageFilter) ([]*models.AIUsageLog, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, timestamp, provider_name, service_type, model_name, input_tokens, output_tokens, cost, channel_id
		FROM ai_usage_logs
		WHERE (?1 = '' OR channel_id = ?1)
		ORDER BY timestamp DESC, id DESC LIMIT ?2 OFFSET ?3`, filter.ChannelID, filter.Limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query ai_usage_logs: %w", err)
	}
	defer rows.Close()

	var logs []*models.AIUsageLog
	for rows.Next() {
		var l models.AIUsageLog
		if err := rows.Scan(&l.ID, &l.Timestamp, &l.ProviderName, &l.ServiceType, &l.ModelName,
			&l.InputTokens, &l.OutputTokens, &l.Cost, &l.ChannelID); err != nil {
			return nil, fmt.Errorf("failed to scan ai_usage_log: %w", err)
		}
		logs = append(logs, &l)
	}
	return logs, rows.Err()
}

func (s *Store) GetUsageSummary(ctx context.Context, channelID string) (*models.UsageSummary, error) {
	sum := &models.UsageSummary{ChannelID: channelID}
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(cost), 0.0), COALESCE(SUM(input_tokens), 0), COALESCE(SUM(output_tokens), 0)
		FROM ai_usage_logs
		WHERE (?1 = '' OR channel_id = ?1)`, channelID).
		Scan(&sum.Calls, &sum.TotalCost, &sum.InputTokens, &sum.OutputTokens)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize ai_usage_logs: %w", err)
	}
	return sum, nil
}

func (s *Store) GetUsageByChannel(ctx context.Context) ([]*models.UsageSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT COALESCE(channel_id, '') AS ch, COUNT(*), SUM(cost), SUM(input_tokens), SUM(output_tokens)
		FROM ai_usage_logs
		GROUP BY ch
		ORDER BY SUM(cost) DESC, ch ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to group ai_usage_logs by channel: %w", err)
	}
	defer rows.Close()

	var out []*models.UsageSummary
	for rows.Next() {
		var sum models.UsageSummary
		if err := rows.Scan(&sum.ChannelID, &sum.Calls, &sum.TotalCost, &sum.InputTokens, &sum.OutputTokens); err != nil {
			return nil, fmt.Errorf("failed to scan channel usage: %w", err)
		}
		out = append(out, &sum)
	}
	return out, rows.Err()
}

var _ store.Store = (*Store)(nil)
