package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"tubesort/internal/models"
	"tubesort/internal/store"
)

// ChannelResolver turns a user supplied profile URL into a channel id and
// looks up channel titles.
type ChannelResolver interface {
	ResolveChannelID(ctx context.Context, profileURL string) (string, error)
	ChannelTitle(ctx context.Context, channelID string) (string, error)
}

// ErrNoResolver is returned by AddChannel when no YouTube client is configured.
var ErrNoResolver = errors.New("channel resolver not configured: set YOUTUBE_API_KEY")

// ChannelService manages the channels a user has registered.
type ChannelService struct {
	store    store.ChannelStore
	resolver ChannelResolver
}

// NewChannelService builds the service. resolver may be nil, in which case
// only listing and removal work.
func NewChannelService(s store.ChannelStore, resolver ChannelResolver) *ChannelService {
	return &ChannelService{store: s, resolver: resolver}
}

// AddChannel resolves profileURL and registers the channel for the user.
// It returns models.ErrInvalidChannelRef for unsupported input,
// models.ErrChannelNotFound when YouTube has no such channel and
// store.ErrDuplicate when the user already registered it.
func (s *ChannelService) AddChannel(ctx context.Context, userID int64, profileURL string) (*models.Channel, error) {
	if s.resolver == nil {
		return nil, ErrNoResolver
	}
	profileURL = strings.TrimSpace(profileURL)
	if profileURL == "" {
		return nil, fmt.Errorf("profile url cannot be empty: %w", models.ErrInvalidChannelRef)
	}

	channelID, err := s.resolver.ResolveChannelID(ctx, profileURL)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve channel from '%s': %w", profileURL, err)
	}

	title, err := s.resolver.ChannelTitle(ctx, channelID)
	if err != nil {
		return nil, fmt.Errorf("failed to get title for channel %s: %w", channelID, err)
	}

	channel := &models.Channel{UserID: userID, ChannelID: channelID, ChannelName: title}
	if err := s.store.CreateChannel(ctx, channel); err != nil {
		return nil, fmt.Errorf("failed to save channel %s: %w", channelID, err)
	}
	log.Infof("User %d registered channel %s (%s)", userID, channelID, title)
	return channel, nil
}

func (s *ChannelService) ListChannels(ctx context.Context, userID int64) ([]*models.Channel, error) {
	channels, err := s.store.ListChannelsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("could not list channels: %w", err)
	}
	return channels, nil
}

// GetChannel returns the user's registration of channelID.
func (s *ChannelService) GetChannel(ctx context.Context, userID int64, channelID string) (*models.Channel, error) {
	channel, err := s.store.GetUserChannel(ctx, userID, channelID)
	if err != nil {
		return nil, fmt.Errorf("failed to get channel %s: %w", channelID, err)
	}
	return channel, nil
}

// RemoveChannel unregisters channelID. It returns store.ErrNotFound when the
// user has no such channel.
func (s *ChannelService) RemoveChannel(ctx context.Context, userID int64, channelID string) error {
	if err := s.store.DeleteUserChannel(ctx, userID, channelID); err != nil {
		return fmt.Errorf("failed to remove channel %s: %w", channelID, err)
	}
	log.Infof("User %d removed channel %s", userID, channelID)
	return nil
}
