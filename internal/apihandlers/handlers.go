package apihandlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"tubesort/internal/app"
	"tubesort/internal/models"
	"tubesort/internal/services"
	"tubesort/internal/store"
)

// ChannelManager is the channel registration surface used by the API.
type ChannelManager interface {
	AddChannel(ctx context.Context, userID int64, profileURL string) (*models.Channel, error)
	ListChannels(ctx context.Context, userID int64) ([]*models.Channel, error)
	GetChannel(ctx context.Context, userID int64, channelID string) (*models.Channel, error)
	RemoveChannel(ctx context.Context, userID int64, channelID string) error
}

// VideoCategorizer fetches and groups a channel's recent videos.
type VideoCategorizer interface {
	CategorizeChannel(ctx context.Context, channelID string) (*models.CategorizedVideos, error)
	RecentVideos(ctx context.Context, channelID string) ([]models.VideoRecord, error)
}

// UserLookup loads the signed-in user's profile.
type UserLookup interface {
	GetUser(ctx context.Context, id int64) (*models.User, error)
}

type APIHandler struct {
	Users       UserLookup
	Channels    ChannelManager
	Categorizer VideoCategorizer // nil when YouTube or the model is not configured
	Health      func(ctx context.Context) map[string]error
}

type AddChannelRequest struct {
	ProfileURL string `json:"profile_url" binding:"required"`
}

func NewAPIHandler(a *app.App) *APIHandler {
	h := &APIHandler{Users: a.UserService, Channels: a.ChannelService, Health: a.Health}
	if cat, err := a.Categorization(); err == nil {
		h.Categorizer = cat
	}
	return h
}

func (h *APIHandler) HealthHandler(c *gin.Context) {
	checks := gin.H{}
	status := http.StatusOK
	for name, err := range h.Health(c.Request.Context()) {
		if err == nil {
			checks[name] = "ok"
			continue
		}
		checks[name] = err.Error()
		if name == "database" {
			status = http.StatusServiceUnavailable
		}
	}
	state := "ok"
	if status != http.StatusOK {
		state = "degraded"
	}
	c.JSON(status, gin.H{"status": state, "checks": checks})
}

func (h *APIHandler) CurrentUserHandler(c *gin.Context) {
	if h.Users == nil {
		Unavailable(c, "User lookup is not configured")
		return
	}
	user, err := h.Users.GetUser(c.Request.Context(), UserID(c))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"data": user})
	case errors.Is(err, store.ErrNotFound):
		// Token outlived its user.
		Unauthorized(c, "User no longer exists")
	default:
		Internal(c, fmt.Sprintf("CurrentUserHandler: failed to get user: %v", err))
	}
}

func (h *APIHandler) ListChannelsHandler(c *gin.Context) {
	if h.Channels == nil {
		Unavailable(c, "Channel registration is not configured")
		return
	}
	channels, err := h.Channels.ListChannels(c.Request.Context(), UserID(c))
	if err != nil {
		Internal(c, fmt.Sprintf("ListChannelsHandler: failed to list channels: %v", err))
		return
	}
	if channels == nil {
		channels = []*models.Channel{}
	}
	c.JSON(http.StatusOK, gin.H{"data": channels, "count": len(channels)})
}

func (h *APIHandler) AddChannelHandler(c *gin.Context) {
	if h.Channels == nil {
		Unavailable(c, "Channel registration is not configured")
		return
	}
	var req AddChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	channel, err := h.Channels.AddChannel(c.Request.Context(), UserID(c), req.ProfileURL)
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, gin.H{"data": channel})
	case errors.Is(err, models.ErrInvalidChannelRef):
		BadRequest(c, "Invalid YouTube profile URL")
	case errors.Is(err, models.ErrChannelNotFound):
		NotFound(c, "YouTube channel not found")
	case errors.Is(err, store.ErrDuplicate):
		Conflict(c, "Creator already added")
	case errors.Is(err, services.ErrNoResolver):
		Unavailable(c, "Channel registration is not configured")
	default:
		Internal(c, fmt.Sprintf("AddChannelHandler: failed to add channel: %v", err))
	}
}

func (h *APIHandler) GetChannelHandler(c *gin.Context) {
	if h.Channels == nil {
		Unavailable(c, "Channel registration is not configured")
		return
	}
	channel, err := h.Channels.GetChannel(c.Request.Context(), UserID(c), c.Param("channel_id"))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"data": channel})
	case errors.Is(err, store.ErrNotFound):
		NotFound(c, "Creator not found")
	default:
		Internal(c, fmt.Sprintf("GetChannelHandler: failed to get channel: %v", err))
	}
}

func (h *APIHandler) RemoveChannelHandler(c *gin.Context) {
	if h.Channels == nil {
		Unavailable(c, "Channel registration is not configured")
		return
	}
	err := h.Channels.RemoveChannel(c.Request.Context(), UserID(c), c.Param("channel_id"))
	switch {
	case err == nil:
		c.Status(http.StatusNoContent)
	case errors.Is(err, store.ErrNotFound):
		NotFound(c, "Creator not found")
	default:
		Internal(c, fmt.Sprintf("RemoveChannelHandler: failed to remove channel: %v", err))
	}
}

func (h *APIHandler) CategorizedVideosHandler(c *gin.Context) {
	if h.Categorizer == nil {
		Unavailable(c, "Video categorization is not configured")
		return
	}
	channelID := c.Param("channel_id")
	grouped, err := h.Categorizer.CategorizeChannel(c.Request.Context(), channelID)
	if err != nil {
		log.Errorf("CategorizedVideosHandler: channel %s: %v", channelID, err)
		BadGateway(c, "Failed to fetch videos from YouTube")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"channel_id":   channelID,
		"categories":   grouped,
		"total_videos": grouped.TotalVideos(),
	}})
}

func (h *APIHandler) RecentVideosHandler(c *gin.Context) {
	if h.Categorizer == nil {
		Unavailable(c, "Video categorization is not configured")
		return
	}
	channelID := c.Param("channel_id")
	videos, err := h.Categorizer.RecentVideos(c.Request.Context(), channelID)
	if err != nil {
		log.Errorf("RecentVideosHandler: channel %s: %v", channelID, err)
		BadGateway(c, "Failed to fetch videos from YouTube")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": videos, "count": len(videos)})
}

// RegisterRoutes mounts the API on router. Everything under /api/v1 requires
// a session token.
func RegisterRoutes(router *gin.Engine, h *APIHandler, sessions TokenVerifier) {
	router.Use(RequestID())
	router.GET("/health", h.HealthHandler)

	v1 := router.Group("/api/v1", RequireSession(sessions))
	{
		v1.GET("/me", h.CurrentUserHandler)

		channels := v1.Group("/channels")
		{
			channels.GET("", h.ListChannelsHandler)
			channels.POST("", h.AddChannelHandler)
			channels.GET("/:channel_id", h.GetChannelHandler)
			channels.DELETE("/:channel_id", h.RemoveChannelHandler)
			channels.GET("/:channel_id/videos", h.CategorizedVideosHandler)
			channels.GET("/:channel_id/recent", h.RecentVideosHandler)
		}
	}
}
