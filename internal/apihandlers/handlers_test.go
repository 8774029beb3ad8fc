package apihandlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tubesort/internal/models"
	"tubesort/internal/services"
	"tubesort/internal/store"
)

type mockChannels struct{ mock.Mock }

func (m *mockChannels) AddChannel(ctx context.Context, userID int64, profileURL string) (*models.Channel, error) {
	args := m.Called(ctx, userID, profileURL)
	ch, _ := args.Get(0).(*models.Channel)
	return ch, args.Error(1)
}

func (m *mockChannels) ListChannels(ctx context.Context, userID int64) ([]*models.Channel, error) {
	args := m.Called(ctx, userID)
	chs, _ := args.Get(0).([]*models.Channel)
	return chs, args.Error(1)
}

func (m *mockChannels) GetChannel(ctx context.Context, userID int64, channelID string) (*models.Channel, error) {
	args := m.Called(ctx, userID, channelID)
	ch, _ := args.Get(0).(*models.Channel)
	return ch, args.Error(1)
}

func (m *mockChannels) RemoveChannel(ctx context.Context, userID int64, channelID string) error {
	return m.Called(ctx, userID, channelID).Error(0)
}

type mockUsers struct{ mock.Mock }

func (m *mockUsers) GetUser(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

type mockCategorizer struct{ mock.Mock }

func (m *mockCategorizer) CategorizeChannel(ctx context.Context, channelID string) (*models.CategorizedVideos, error) {
	args := m.Called(ctx, channelID)
	cv, _ := args.Get(0).(*models.CategorizedVideos)
	return cv, args.Error(1)
}

func (m *mockCategorizer) RecentVideos(ctx context.Context, channelID string) ([]models.VideoRecord, error) {
	args := m.Called(ctx, channelID)
	v, _ := args.Get(0).([]models.VideoRecord)
	return v, args.Error(1)
}

// staticVerifier accepts "good-token" as user 7.
type staticVerifier struct{}

func (staticVerifier) Verify(token string) (int64, error) {
	if token == "good-token" {
		return 7, nil
	}
	return 0, errors.New("bad token")
}

func newRouter(h *APIHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, h, staticVerifier{})
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer good-token")
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) (string, string) {
	t.Helper()
	var resp errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Error.Code, resp.Error.Message
}

func TestAuthRequired(t *testing.T) {
	r := newRouter(&APIHandler{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/channels", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/channels", nil)
	req.Header.Set("Authorization", "Bearer nope")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	code, _ := errorCode(t, w)
	assert.Equal(t, "unauthorized", code)
}

func TestRequestID(t *testing.T) {
	r := newRouter(&APIHandler{Health: func(context.Context) map[string]error { return nil }})

	w := do(r, http.MethodGet, "/health", "")
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(requestIDHeader))
}

func TestHealthHandler(t *testing.T) {
	healthy := newRouter(&APIHandler{Health: func(context.Context) map[string]error {
		return map[string]error{"database": nil, "youtube": errors.New("missing key")}
	}})
	w := do(healthy, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"youtube":"missing key"`)

	broken := newRouter(&APIHandler{Health: func(context.Context) map[string]error {
		return map[string]error{"database": errors.New("connection refused")}
	}})
	w = do(broken, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestListChannelsHandler(t *testing.T) {
	ch := new(mockChannels)
	ch.On("ListChannels", mock.Anything, int64(7)).Return([]*models.Channel{{ChannelID: "UC1", ChannelName: "One"}}, nil)

	w := do(newRouter(&APIHandler{Channels: ch}), http.MethodGet, "/api/v1/channels", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data  []models.Channel `json:"data"`
		Count int              `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, "UC1", resp.Data[0].ChannelID)
}

func TestAddChannelHandler(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		err      error
		wantCode int
		wantErr  string
	}{
		{name: "created", body: `{"profile_url":"@ann"}`, wantCode: http.StatusCreated},
		{name: "missing field", body: `{}`, wantCode: http.StatusBadRequest, wantErr: "bad_request"},
		{name: "invalid url", body: `{"profile_url":"nope"}`, err: models.ErrInvalidChannelRef, wantCode: http.StatusBadRequest, wantErr: "bad_request"},
		{name: "unknown channel", body: `{"profile_url":"@ghost"}`, err: models.ErrChannelNotFound, wantCode: http.StatusNotFound, wantErr: "not_found"},
		{name: "duplicate", body: `{"profile_url":"@ann"}`, err: store.ErrDuplicate, wantCode: http.StatusConflict, wantErr: "conflict"},
		{name: "no resolver", body: `{"profile_url":"@ann"}`, err: services.ErrNoResolver, wantCode: http.StatusServiceUnavailable, wantErr: "unavailable"},
		{name: "store failure", body: `{"profile_url":"@ann"}`, err: errors.New("disk full"), wantCode: http.StatusInternalServerError, wantErr: "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ch := new(mockChannels)
			if tt.err != nil {
				ch.On("AddChannel", mock.Anything, int64(7), mock.Anything).Return(nil, tt.err)
			} else {
				ch.On("AddChannel", mock.Anything, int64(7), "@ann").
					Return(&models.Channel{ID: 1, UserID: 7, ChannelID: "UCann", ChannelName: "Ann"}, nil)
			}

			w := do(newRouter(&APIHandler{Channels: ch}), http.MethodPost, "/api/v1/channels", tt.body)
			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantErr != "" {
				code, _ := errorCode(t, w)
				assert.Equal(t, tt.wantErr, code)
			}
		})
	}
}

func TestCurrentUserHandler(t *testing.T) {
	users := new(mockUsers)
	users.On("GetUser", mock.Anything, int64(7)).Return(&models.User{ID: 7, GoogleID: "g-7", Name: "Ann"}, nil).Once()
	r := newRouter(&APIHandler{Users: users})

	w := do(r, http.MethodGet, "/api/v1/me", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"g-7"`)

	users.On("GetUser", mock.Anything, int64(7)).Return(nil, store.ErrNotFound).Once()
	w = do(r, http.MethodGet, "/api/v1/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	users.On("GetUser", mock.Anything, int64(7)).Return(nil, errors.New("db down")).Once()
	w = do(r, http.MethodGet, "/api/v1/me", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	users.AssertExpectations(t)
}

func TestGetChannelHandler(t *testing.T) {
	ch := new(mockChannels)
	ch.On("GetChannel", mock.Anything, int64(7), "UC1").Return(&models.Channel{ID: 2, UserID: 7, ChannelID: "UC1", ChannelName: "One"}, nil)
	ch.On("GetChannel", mock.Anything, int64(7), "UCx").Return(nil, store.ErrNotFound)
	r := newRouter(&APIHandler{Channels: ch})

	w := do(r, http.MethodGet, "/api/v1/channels/UC1", "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data models.Channel `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "UC1", resp.Data.ChannelID)
	assert.Equal(t, "One", resp.Data.ChannelName)

	w = do(r, http.MethodGet, "/api/v1/channels/UCx", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	_, msg := errorCode(t, w)
	assert.Equal(t, "Creator not found", msg)
}

func TestRemoveChannelHandler(t *testing.T) {
	ch := new(mockChannels)
	ch.On("RemoveChannel", mock.Anything, int64(7), "UC1").Return(nil)
	ch.On("RemoveChannel", mock.Anything, int64(7), "UCx").Return(store.ErrNotFound)
	r := newRouter(&APIHandler{Channels: ch})

	w := do(r, http.MethodDelete, "/api/v1/channels/UC1", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(r, http.MethodDelete, "/api/v1/channels/UCx", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	_, msg := errorCode(t, w)
	assert.Equal(t, "Creator not found", msg)
}

func TestCategorizedVideosHandler(t *testing.T) {
	grouped := models.NewCategorizedVideos()
	grouped.Add("Cooking", models.TaggedVideo{VideoRecord: models.VideoRecord{VideoID: "v1", Title: "Pasta"}, Tags: []string{"pasta"}})
	grouped.Add("Unknown", models.TaggedVideo{VideoRecord: models.VideoRecord{VideoID: "v2"}, Tags: []string{}})

	cat := new(mockCategorizer)
	cat.On("CategorizeChannel", mock.Anything, "UC1").Return(grouped, nil)
	cat.On("CategorizeChannel", mock.Anything, "UCdown").Return(nil, errors.New("quota"))
	r := newRouter(&APIHandler{Categorizer: cat})

	w := do(r, http.MethodGet, "/api/v1/channels/UC1/videos", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			ChannelID   string `json:"channel_id"`
			TotalVideos int    `json:"total_videos"`
			Categories  []struct {
				Category string `json:"category"`
				Videos   []struct {
					VideoID string   `json:"video_id"`
					Tags    []string `json:"tags"`
				} `json:"videos"`
			} `json:"categories"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "UC1", resp.Data.ChannelID)
	assert.Equal(t, 2, resp.Data.TotalVideos)
	require.Len(t, resp.Data.Categories, 2)
	assert.Equal(t, "Cooking", resp.Data.Categories[0].Category)
	assert.Equal(t, "Unknown", resp.Data.Categories[1].Category)
	assert.Equal(t, []string{}, resp.Data.Categories[1].Videos[0].Tags)

	w = do(r, http.MethodGet, "/api/v1/channels/UCdown/videos", "")
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestRecentVideosHandler(t *testing.T) {
	cat := new(mockCategorizer)
	cat.On("RecentVideos", mock.Anything, "UC1").Return([]models.VideoRecord{{VideoID: "v1"}, {VideoID: "v2"}}, nil)

	w := do(newRouter(&APIHandler{Categorizer: cat}), http.MethodGet, "/api/v1/channels/UC1/recent", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":2`)
}

func TestHandlers_Unconfigured(t *testing.T) {
	r := newRouter(&APIHandler{})
	for _, path := range []string{"/api/v1/me", "/api/v1/channels", "/api/v1/channels/UC1", "/api/v1/channels/UC1/videos", "/api/v1/channels/UC1/recent"} {
		w := do(r, http.MethodGet, path, "")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code, path)
	}
}
