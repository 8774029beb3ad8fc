package costtracker

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"tubesort/internal/models"
	"tubesort/internal/store"
)

// CostEvent represents a single AI usage event and its cost.
type CostEvent struct {
	Operation    string // e.g., "classification"
	Provider     string
	Model        string
	InputTokens  int
	OutputTokens int
	AmountUSD    float64
}

// CostTracker records AI usage costs.
type CostTracker interface {
	RecordCost(ctx context.Context, event CostEvent) error
}

type channelKey struct{}

// WithChannel annotates ctx with the channel whose videos are being processed,
// so usage can be attributed to it.
func WithChannel(ctx context.Context, channelID string) context.Context {
	return context.WithValue(ctx, channelKey{}, channelID)
}

// ChannelFromContext returns the channel set by WithChannel, if any.
func ChannelFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(channelKey{}).(string)
	return id, ok && id != ""
}

// New returns a tracker that persists events to the given store. A nil store
// yields a tracker that drops every event.
func New(s store.UsageRecorder) CostTracker {
	if s == nil {
		return &noopCostTracker{}
	}
	return &storeCostTracker{store: s}
}

type storeCostTracker struct {
	store store.UsageRecorder
}

func (t *storeCostTracker) RecordCost(ctx context.Context, event CostEvent) error {
	entry := &models.AIUsageLog{
		Timestamp:    time.Now().UTC(),
		ProviderName: event.Provider,
		ServiceType:  event.Operation,
		ModelName:    event.Model,
		InputTokens:  event.InputTokens,
		OutputTokens: event.OutputTokens,
		Cost:         event.AmountUSD,
	}
	if ch, ok := ChannelFromContext(ctx); ok {
		entry.ChannelID = &ch
	}
	// The request context may already be gone once the model has answered.
	if err := t.store.RecordUsage(context.WithoutCancel(ctx), entry); err != nil {
		return err
	}
	log.Debugf("Recorded AI usage: Provider=%s, Service=%s, Model=%s, InputTokens=%d, OutputTokens=%d, Cost=%.8f",
		entry.ProviderName, entry.ServiceType, entry.ModelName, entry.InputTokens, entry.OutputTokens, entry.Cost)
	return nil
}

type noopCostTracker struct{}

func (n *noopCostTracker) RecordCost(ctx context.Context, event CostEvent) error { return nil }
