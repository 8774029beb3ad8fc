package primary

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"tubesort/internal/models"
)

// RecordUsage inserts a new AI usage log entry.
func (s *StoreImpl) RecordUsage(ctx context.Context, log *models.AIUsageLog) error {
	query := `
		INSERT INTO ai_usage_logs (
			timestamp, provider_name, service_type, model_name,
			input_tokens, output_tokens, cost, channel_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	if log.Timestamp.IsZero() {
		log.Timestamp = time.Now()
	}
	err := s.db.QueryRow(ctx, query,
		log.Timestamp,
		log.ProviderName,
		log.ServiceType,
		log.ModelName,
		log.InputTokens,
		log.OutputTokens,
		log.Cost,
		log.ChannelID,
	).Scan(&log.ID)
	if err != nil {
		return fmt.Errorf("failed to insert ai_usage_log: %w", err)
	}
	return nil
}

// ListUsage returns AI usage logs matching filter, newest first.
func (s *StoreImpl) ListUsage(ctx context.Context, filter models.UsageFilter) ([]*models.AIUsageLog, error) {
	query := `
		SELECT id, timestamp, provider_name, service_type, model_name,
		       input_tokens, output_tokens, cost, channel_id
		FROM ai_usage_logs
		WHERE ($1 = '' OR channel_id = $1)
		ORDER BY timestamp DESC, id DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := s.db.Query(ctx, query, filter.ChannelID, filter.Limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query ai_usage_logs: %w", err)
	}
	defer rows.Close()

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*models.AIUsageLog, error) {
		var log models.AIUsageLog
		err := row.Scan(
			&log.ID,
			&log.Timestamp,
			&log.ProviderName,
			&log.ServiceType,
			&log.ModelName,
			&log.InputTokens,
			&log.OutputTokens,
			&log.Cost,
			&log.ChannelID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ai_usage_log: %w", err)
		}
		return &log, nil
	})
}

// GetUsageSummary totals usage for one channel, or for all usage when
// channelID is empty.
func (s *StoreImpl) GetUsageSummary(ctx context.Context, channelID string) (*models.UsageSummary, error) {
	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM(cost), 0),
			COALESCE(SUM(input_tokens), 0),
			COALESCE(SUM(output_tokens), 0)
		FROM ai_usage_logs
		WHERE ($1 = '' OR channel_id = $1)
	`
	sum := &models.UsageSummary{ChannelID: channelID}
	err := s.db.QueryRow(ctx, query, channelID).
		Scan(&sum.Calls, &sum.TotalCost, &sum.InputTokens, &sum.OutputTokens)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize ai_usage_logs: %w", err)
	}
	return sum, nil
}

// GetUsageByChannel groups usage by channel, most expensive first. Calls
// made outside a channel are grouped under an empty channel id.
func (s *StoreImpl) GetUsageByChannel(ctx context.Context) ([]*models.UsageSummary, error) {
	query := `
		SELECT
			COALESCE(channel_id, ''),
			COUNT(*),
			SUM(cost),
			SUM(input_tokens),
			SUM(output_tokens)
		FROM ai_usage_logs
		GROUP BY COALESCE(channel_id, '')
		ORDER BY SUM(cost) DESC, COALESCE(channel_id, '') ASC
	`
	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to group ai_usage_logs by channel: %w", err)
	}
	defer rows.Close()

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*models.UsageSummary, error) {
		var sum models.UsageSummary
		if err := row.Scan(&sum.ChannelID, &sum.Calls, &sum.TotalCost, &sum.InputTokens, &sum.OutputTokens); err != nil {
			return nil, fmt.Errorf("failed to scan channel usage: %w", err)
		}
		return &sum, nil
	})
}
