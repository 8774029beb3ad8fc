// Package youtube reads channel and video metadata from the YouTube Data API v3.
package youtube

import (
	"context"
	"errors"
	"fmt"
	"html"
	"regexp"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"

	"tubesort/internal/models"
)

var (
	handleRE   = regexp.MustCompile(`@([a-zA-Z0-9._-]+)`)
	channelRE  = regexp.MustCompile(`channel/([a-zA-Z0-9_-]+)`)
	usernameRE = regexp.MustCompile(`user/([a-zA-Z0-9._-]+)`)
)

// Options configures a Client.
type Options struct {
	APIKey string
	// BaseURL overrides the API endpoint, e.g. for tests.
	BaseURL string
	// Timeout bounds every API call.
	Timeout time.Duration
	// RequestsPerSecond paces calls; 0 means unlimited.
	RequestsPerSecond float64
}

// Client is both the video source and the channel resolver.
type Client struct {
	svc     *yt.Service
	timeout time.Duration
	limiter *rate.Limiter
}

// NewClient creates a Data API client authenticated with an API key.
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	if opts.APIKey == "" {
		return nil, errors.New("missing youtube api key: set YOUTUBE_API_KEY")
	}
	clientOpts := []option.ClientOption{option.WithAPIKey(opts.APIKey)}
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(opts.BaseURL))
	}
	svc, err := yt.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("error creating youtube service: %w", err)
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{svc: svc, timeout: timeout, limiter: rate.NewLimiter(limit, 1)}, nil
}

// call applies pacing and the per-call timeout around fn.
func (c *Client) call(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("youtube rate limiter: %w", err)
	}
	return fn(ctx)
}

// RecentVideos returns up to limit of the channel's most recent videos, newest
// first. A channel without videos yields an empty slice and no error.
func (c *Client) RecentVideos(ctx context.Context, channelID string, limit int) ([]models.VideoRecord, error) {
	var resp *yt.SearchListResponse
	err := c.call(ctx, func(ctx context.Context) error {
		var err error
		resp, err = c.svc.Search.List([]string{"snippet"}).
			ChannelId(channelID).
			Order("date").
			Type("video").
			MaxResults(int64(limit)).
			Context(ctx).
			Do()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("youtube search for channel %s: %w", channelID, err)
	}

	videos := make([]models.VideoRecord, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Id == nil || item.Snippet == nil {
			log.Warnf("Skipping malformed search item for channel %s", channelID)
			continue
		}
		videos = append(videos, toVideoRecord(item))
	}
	return videos, nil
}

func toVideoRecord(item *yt.SearchResult) models.VideoRecord {
	v := models.VideoRecord{
		VideoID: item.Id.VideoId,
		// The search endpoint returns HTML-escaped snippets.
		Title:        html.UnescapeString(item.Snippet.Title),
		Description:  html.UnescapeString(item.Snippet.Description),
		ThumbnailURL: thumbnailURL(item.Snippet.Thumbnails),
	}
	if t, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt); err == nil {
		v.PublishedAt = t
	}
	return v
}

func thumbnailURL(t *yt.ThumbnailDetails) string {
	if t == nil {
		return ""
	}
	for _, th := range []*yt.Thumbnail{t.High, t.Medium, t.Default} {
		if th != nil && th.Url != "" {
			return th.Url
		}
	}
	return ""
}

// ResolveChannelID turns a profile URL or handle into a channel id.
// Supported forms: "@handle" anywhere in the input, ".../channel/<id>" and
// ".../user/<name>".
func (c *Client) ResolveChannelID(ctx context.Context, profileURL string) (string, error) {
	if m := handleRE.FindStringSubmatch(profileURL); m != nil {
		return c.lookupChannelID(ctx, func(call *yt.ChannelsListCall) *yt.ChannelsListCall {
			return call.ForHandle(m[1])
		})
	}
	if m := channelRE.FindStringSubmatch(profileURL); m != nil {
		return m[1], nil
	}
	if m := usernameRE.FindStringSubmatch(profileURL); m != nil {
		return c.lookupChannelID(ctx, func(call *yt.ChannelsListCall) *yt.ChannelsListCall {
			return call.ForUsername(m[1])
		})
	}
	return "", fmt.Errorf("%q: %w", profileURL, models.ErrInvalidChannelRef)
}

func (c *Client) lookupChannelID(ctx context.Context, filter func(*yt.ChannelsListCall) *yt.ChannelsListCall) (string, error) {
	var resp *yt.ChannelListResponse
	err := c.call(ctx, func(ctx context.Context) error {
		var err error
		resp, err = filter(c.svc.Channels.List([]string{"id"})).Context(ctx).Do()
		return err
	})
	if err != nil {
		return "", fmt.Errorf("youtube channel lookup: %w", err)
	}
	if len(resp.Items) == 0 {
		return "", models.ErrChannelNotFound
	}
	return resp.Items[0].Id, nil
}

// ChannelTitle returns the display title of a channel.
func (c *Client) ChannelTitle(ctx context.Context, channelID string) (string, error) {
	var resp *yt.ChannelListResponse
	err := c.call(ctx, func(ctx context.Context) error {
		var err error
		resp, err = c.svc.Channels.List([]string{"snippet"}).Id(channelID).Context(ctx).Do()
		return err
	})
	if err != nil {
		return "", fmt.Errorf("youtube channel details for %s: %w", channelID, err)
	}
	if len(resp.Items) == 0 || resp.Items[0].Snippet == nil {
		return "", models.ErrChannelNotFound
	}
	return resp.Items[0].Snippet.Title, nil
}
