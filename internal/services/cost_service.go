package services

import (
	"context"
	"fmt"
	"strings"

	"tubesort/internal/models"
	"tubesort/internal/store"
)

// CostService reports classifier spend, overall or per creator channel.
type CostService struct {
	store store.CostTrackingStore
}

func NewCostService(store store.CostTrackingStore) *CostService {
	return &CostService{store: store}
}

// ListUsage pages through usage logs. An empty channelID lists every call.
func (s *CostService) ListUsage(ctx context.Context, channelID string, limit, offset int) ([]*models.AIUsageLog, error) {
	filter := models.UsageFilter{
		ChannelID: strings.TrimSpace(channelID),
		Limit:     limit,
		Offset:    offset,
	}
	logs, err := s.store.ListUsage(ctx, filter)
	if err != nil {
		if filter.ChannelID != "" {
			return nil, fmt.Errorf("failed to list usage for channel '%s': %w", filter.ChannelID, err)
		}
		return nil, fmt.Errorf("failed to list usage logs: %w", err)
	}
	return logs, nil
}

// GetSummary totals spend for channelID, or across all channels when empty.
func (s *CostService) GetSummary(ctx context.Context, channelID string) (*models.UsageSummary, error) {
	channelID = strings.TrimSpace(channelID)
	sum, err := s.store.GetUsageSummary(ctx, channelID)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize usage: %w", err)
	}
	return sum, nil
}

// SummaryByChannel breaks spend down per channel, most expensive first.
func (s *CostService) SummaryByChannel(ctx context.Context) ([]*models.UsageSummary, error) {
	sums, err := s.store.GetUsageByChannel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize usage by channel: %w", err)
	}
	return sums, nil
}
