package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"tubesort/internal/models"
	categorizer "tubesort/pkg/categorizer"
)

type mockVideoSource struct {
	mock.Mock
}

func (m *mockVideoSource) RecentVideos(ctx context.Context, channelID string, limit int) ([]models.VideoRecord, error) {
	args := m.Called(ctx, channelID, limit)
	videos, _ := args.Get(0).([]models.VideoRecord)
	return videos, args.Error(1)
}

type mockClassifier struct {
	mock.Mock
}

func (m *mockClassifier) Classify(ctx context.Context, req categorizer.Request) (categorizer.Result, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(categorizer.Result), args.Error(1)
}

type mockResolver struct {
	mock.Mock
}

func (m *mockResolver) ResolveChannelID(ctx context.Context, profileURL string) (string, error) {
	args := m.Called(ctx, profileURL)
	return args.String(0), args.Error(1)
}

func (m *mockResolver) ChannelTitle(ctx context.Context, channelID string) (string, error) {
	args := m.Called(ctx, channelID)
	return args.String(0), args.Error(1)
}

type mockUserStore struct {
	mock.Mock
}

func (m *mockUserStore) CreateUser(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserStore) GetUser(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *mockUserStore) GetUserByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	args := m.Called(ctx, googleID)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

type mockChannelStore struct {
	mock.Mock
}

func (m *mockChannelStore) CreateChannel(ctx context.Context, channel *models.Channel) error {
	return m.Called(ctx, channel).Error(0)
}

func (m *mockChannelStore) ListChannelsByUser(ctx context.Context, userID int64) ([]*models.Channel, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).([]*models.Channel)
	return c, args.Error(1)
}

func (m *mockChannelStore) GetUserChannel(ctx context.Context, userID int64, channelID string) (*models.Channel, error) {
	args := m.Called(ctx, userID, channelID)
	c, _ := args.Get(0).(*models.Channel)
	return c, args.Error(1)
}

func (m *mockChannelStore) DeleteUserChannel(ctx context.Context, userID int64, channelID string) error {
	return m.Called(ctx, userID, channelID).Error(0)
}
