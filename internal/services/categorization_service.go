package services

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"tubesort/internal/costtracker"
	"tubesort/internal/models"
	categorizer "tubesort/pkg/categorizer"
)

// VideoSource lists a channel's most recent videos, newest first.
type VideoSource interface {
	RecentVideos(ctx context.Context, channelID string, limit int) ([]models.VideoRecord, error)
}

// CategorizationOptions tunes the pipeline. Zero values fall back to defaults.
type CategorizationOptions struct {
	PageSize        int
	Concurrency     int
	ClassifyTimeout time.Duration
}

const (
	defaultPageSize        = 10
	defaultClassifyTimeout = 10 * time.Second
)

// CategorizationService fetches a channel's recent videos and groups them into
// category buckets using a classifier.
type CategorizationService struct {
	source     VideoSource
	classifier categorizer.Classifier
	opts       CategorizationOptions
}

func NewCategorizationService(source VideoSource, classifier categorizer.Classifier, opts CategorizationOptions) *CategorizationService {
	if opts.PageSize <= 0 {
		opts.PageSize = defaultPageSize
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	if opts.Concurrency > opts.PageSize {
		opts.Concurrency = opts.PageSize
	}
	if opts.ClassifyTimeout <= 0 {
		opts.ClassifyTimeout = defaultClassifyTimeout
	}
	return &CategorizationService{source: source, classifier: classifier, opts: opts}
}

// RecentVideos returns the channel's recent videos without classifying them.
func (s *CategorizationService) RecentVideos(ctx context.Context, channelID string) ([]models.VideoRecord, error) {
	videos, err := s.source.RecentVideos(ctx, channelID, s.opts.PageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch videos for channel %s: %w", channelID, err)
	}
	return videos, nil
}

// CategorizeChannel classifies the channel's recent videos and groups them by
// category. A failed classification places the video under the Unknown
// category with no tags; only a failure to fetch the videos is returned as an
// error.
func (s *CategorizationService) CategorizeChannel(ctx context.Context, channelID string) (*models.CategorizedVideos, error) {
	videos, err := s.RecentVideos(ctx, channelID)
	if err != nil {
		return nil, err
	}

	ctx = costtracker.WithChannel(ctx, channelID)
	results := make([]categorizer.Result, len(videos))

	if s.opts.Concurrency == 1 {
		for i, v := range videos {
			results[i] = s.classify(ctx, v)
		}
	} else {
		// classify never fails, so the group is used only for its limit.
		var g errgroup.Group
		g.SetLimit(s.opts.Concurrency)
		for i, v := range videos {
			g.Go(func() error {
				results[i] = s.classify(ctx, v)
				return nil
			})
		}
		_ = g.Wait()
	}

	grouped := models.NewCategorizedVideos()
	for i, v := range videos {
		grouped.Add(results[i].Category, models.TaggedVideo{VideoRecord: v, Tags: results[i].Tags})
	}
	log.Debugf("Categorized %d videos for channel %s into %d categories", len(videos), channelID, grouped.Len())
	return grouped, nil
}

func (s *CategorizationService) classify(ctx context.Context, v models.VideoRecord) categorizer.Result {
	ctx, cancel := context.WithTimeout(ctx, s.opts.ClassifyTimeout)
	defer cancel()

	res, err := s.classifier.Classify(ctx, categorizer.Request{Title: v.Title, Description: v.Description})
	if err != nil {
		log.Warnf("Failed to classify video %s (%q): %v", v.VideoID, v.Title, err)
		return categorizer.Unknown()
	}
	if res.Category == "" {
		res.Category = categorizer.UnknownCategory
	}
	if res.Tags == nil {
		res.Tags = []string{}
	}
	return res
}
