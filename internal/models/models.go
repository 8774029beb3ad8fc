package models

import (
	"time"
)

// AIUsageLog represents a record of AI API usage for cost tracking.
type AIUsageLog struct {
	ID           int64     `db:"id" json:"id"`
	Timestamp    time.Time `db:"timestamp" json:"timestamp"`
	ProviderName string    `db:"provider_name" json:"provider_name"`
	ServiceType  string    `db:"service_type" json:"service_type"` // e.g., "classification"
	ModelName    string    `db:"model_name" json:"model_name"`
	InputTokens  int       `db:"input_tokens" json:"input_tokens"`
	OutputTokens int       `db:"output_tokens" json:"output_tokens"`
	Cost         float64   `db:"cost" json:"cost"`
	ChannelID    *string   `db:"channel_id" json:"channel_id,omitempty"` // nullable
}

// UsageFilter selects usage logs. An empty ChannelID matches every channel.
type UsageFilter struct {
	ChannelID string
	Limit     int
	Offset    int
}

// UsageSummary aggregates classifier usage. ChannelID is empty for totals
// across all channels and for calls made outside any channel.
type UsageSummary struct {
	ChannelID    string  `json:"channel_id,omitempty"`
	Calls        int64   `json:"calls"`
	TotalCost    float64 `json:"total_cost"`
	InputTokens  int64   `json:"input_tokens"`
	OutputTokens int64   `json:"output_tokens"`
}

// User is a signed-in account. Name and Email may be empty when the identity
// provider did not supply them.
type User struct {
	ID        int64     `db:"id" json:"id"`
	GoogleID  string    `db:"google_id" json:"google_id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Channel is a YouTube channel registered by a user.
type Channel struct {
	ID          int64     `db:"id" json:"id"`
	UserID      int64     `db:"user_id" json:"user_id"`
	ChannelID   string    `db:"channel_id" json:"channel_id"`
	ChannelName string    `db:"channel_name" json:"channel_name"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// VideoRecord is one recent upload as reported by the video source.
// It is never persisted.
type VideoRecord struct {
	Title        string    `json:"title"`
	VideoID      string    `json:"video_id"`
	ThumbnailURL string    `json:"thumbnail"`
	Description  string    `json:"description"`
	PublishedAt  time.Time `json:"published_at"`
}

// TaggedVideo is a VideoRecord decorated with the tags generated for it.
type TaggedVideo struct {
	VideoRecord
	Tags []string `json:"tags"`
}
