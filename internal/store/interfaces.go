package store

import (
	"context"

	"tubesort/internal/models"
)

// --- User Store ---

type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id int64) (*models.User, error)
	GetUserByGoogleID(ctx context.Context, googleID string) (*models.User, error)
}

// --- Channel Store ---

type ChannelStore interface {
	CreateChannel(ctx context.Context, channel *models.Channel) error
	ListChannelsByUser(ctx context.Context, userID int64) ([]*models.Channel, error)
	GetUserChannel(ctx context.Context, userID int64, channelID string) (*models.Channel, error)
	DeleteUserChannel(ctx context.Context, userID int64, channelID string) error
}

// --- Cost Tracking Store ---

// UsageRecorder persists one classifier call.
type UsageRecorder interface {
	RecordUsage(ctx context.Context, log *models.AIUsageLog) error
}

type CostTrackingStore interface {
	UsageRecorder
	ListUsage(ctx context.Context, filter models.UsageFilter) ([]*models.AIUsageLog, error)
	// GetUsageSummary totals usage for channelID, or for everything when it is empty.
	GetUsageSummary(ctx context.Context, channelID string) (*models.UsageSummary, error)
	// GetUsageByChannel returns one summary per channel, most expensive first.
	GetUsageByChannel(ctx context.Context) ([]*models.UsageSummary, error)
}

// Store is the full persistence surface. Both the Postgres and SQLite
// implementations satisfy it.
type Store interface {
	UserStore
	ChannelStore
	CostTrackingStore

	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close()
}
