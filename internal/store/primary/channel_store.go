package primary

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"tubesort/internal/models"
	"tubesort/internal/store"
)

// --- Channel Management ---

func (s *StoreImpl) CreateChannel(ctx context.Context, channel *models.Channel) error {
	query := `
		INSERT INTO channels (user_id, channel_id, channel_name)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := s.db.QueryRow(ctx, query, channel.UserID, channel.ChannelID, channel.ChannelName).
		Scan(&channel.ID, &channel.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("channel '%s' already registered: %w", channel.ChannelID, store.ErrDuplicate)
		}
		return fmt.Errorf("failed to insert channel: %w", err)
	}
	return nil
}

func (s *StoreImpl) ListChannelsByUser(ctx context.Context, userID int64) ([]*models.Channel, error) {
	query := `
		SELECT id, user_id, channel_id, channel_name, created_at
		FROM channels WHERE user_id = $1
		ORDER BY created_at ASC, id ASC`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list channels: %w", err)
	}
	defer rows.Close()

	channels, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*models.Channel, error) {
		var c models.Channel
		if err := row.Scan(&c.ID, &c.UserID, &c.ChannelID, &c.ChannelName, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan channel row: %w", err)
		}
		return &c, nil
	})
	if err != nil {
		return nil, err
	}
	if channels == nil {
		channels = []*models.Channel{}
	}
	return channels, nil
}

func (s *StoreImpl) GetUserChannel(ctx context.Context, userID int64, channelID string) (*models.Channel, error) {
	query := `
		SELECT id, user_id, channel_id, channel_name, created_at
		FROM channels WHERE user_id = $1 AND channel_id = $2`

	c := &models.Channel{}
	err := s.db.QueryRow(ctx, query, userID, channelID).Scan(&c.ID, &c.UserID, &c.ChannelID, &c.ChannelName, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get channel '%s': %w", channelID, err)
	}
	return c, nil
}

func (s *StoreImpl) DeleteUserChannel(ctx context.Context, userID int64, channelID string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM channels WHERE user_id = $1 AND channel_id = $2`, userID, channelID)
	if err != nil {
		return fmt.Errorf("failed to delete channel '%s': %w", channelID, err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}
