package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tubesort/internal/costtracker"
	"tubesort/internal/models"
	categorizer "tubesort/pkg/categorizer"
)

// scriptedClassifier answers from a fixed table keyed by title.
type scriptedClassifier struct {
	results map[string]categorizer.Result
	errs    map[string]error

	mu       sync.Mutex
	channels []string
	inFlight atomic.Int32
	maxSeen  atomic.Int32
	delay    time.Duration
}

func (c *scriptedClassifier) Classify(ctx context.Context, req categorizer.Request) (categorizer.Result, error) {
	n := c.inFlight.Add(1)
	defer c.inFlight.Add(-1)
	for {
		m := c.maxSeen.Load()
		if n <= m || c.maxSeen.CompareAndSwap(m, n) {
			break
		}
	}
	if c.delay > 0 {
		time.Sleep(c.delay)
	}

	channelID, _ := costtracker.ChannelFromContext(ctx)
	c.mu.Lock()
	c.channels = append(c.channels, channelID)
	c.mu.Unlock()

	if err := c.errs[req.Title]; err != nil {
		return categorizer.Result{}, err
	}
	return c.results[req.Title], nil
}

func video(id, title string) models.VideoRecord {
	return models.VideoRecord{VideoID: id, Title: title, Description: "about " + title}
}

func TestCategorizeChannel_FailedVideoGoesToUnknown(t *testing.T) {
	src := new(mockVideoSource)
	videos := []models.VideoRecord{video("1", "Pasta"), video("2", "Broken"), video("3", "Risotto")}
	src.On("RecentVideos", mock.Anything, "UC1", 10).Return(videos, nil).Once()

	cls := &scriptedClassifier{
		results: map[string]categorizer.Result{
			"Pasta":   {Category: "Cooking", Tags: []string{"pasta", "italian"}},
			"Risotto": {Category: "Cooking", Tags: []string{"rice"}},
		},
		errs: map[string]error{"Broken": errors.New("upstream 500")},
	}

	svc := NewCategorizationService(src, cls, CategorizationOptions{})
	got, err := svc.CategorizeChannel(context.Background(), "UC1")
	require.NoError(t, err)

	assert.Equal(t, []string{"Cooking", categorizer.UnknownCategory}, got.Categories())
	cooking := got.Videos("Cooking")
	require.Len(t, cooking, 2)
	assert.Equal(t, "1", cooking[0].VideoID)
	assert.Equal(t, []string{"pasta", "italian"}, cooking[0].Tags)
	assert.Equal(t, "3", cooking[1].VideoID)

	unknown := got.Videos(categorizer.UnknownCategory)
	require.Len(t, unknown, 1)
	assert.Equal(t, "2", unknown[0].VideoID)
	assert.NotNil(t, unknown[0].Tags)
	assert.Empty(t, unknown[0].Tags)

	assert.Equal(t, 3, got.TotalVideos())
	src.AssertExpectations(t)
}

func TestCategorizeChannel_NoVideos(t *testing.T) {
	src := new(mockVideoSource)
	src.On("RecentVideos", mock.Anything, "UC1", 10).Return([]models.VideoRecord{}, nil)
	cls := new(mockClassifier)

	got, err := NewCategorizationService(src, cls, CategorizationOptions{}).CategorizeChannel(context.Background(), "UC1")
	require.NoError(t, err)
	assert.Equal(t, 0, got.Len())
	cls.AssertNotCalled(t, "Classify", mock.Anything, mock.Anything)
}

func TestCategorizeChannel_SourceFailure(t *testing.T) {
	src := new(mockVideoSource)
	src.On("RecentVideos", mock.Anything, "UC1", 10).Return(nil, errors.New("quota exceeded"))
	cls := new(mockClassifier)

	got, err := NewCategorizationService(src, cls, CategorizationOptions{}).CategorizeChannel(context.Background(), "UC1")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
	assert.Nil(t, got)
	cls.AssertNotCalled(t, "Classify", mock.Anything, mock.Anything)
}

func TestCategorizeChannel_BucketOrderIsFirstSeen(t *testing.T) {
	src := new(mockVideoSource)
	videos := []models.VideoRecord{video("1", "a"), video("2", "b"), video("3", "c"), video("4", "d")}
	src.On("RecentVideos", mock.Anything, "UC1", 10).Return(videos, nil)

	cls := &scriptedClassifier{results: map[string]categorizer.Result{
		"a": {Category: "Gaming", Tags: []string{}},
		"b": {Category: "Music", Tags: []string{}},
		"c": {Category: "Gaming", Tags: []string{}},
		"d": {Category: "Comedy", Tags: []string{}},
	}}

	got, err := NewCategorizationService(src, cls, CategorizationOptions{}).CategorizeChannel(context.Background(), "UC1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Gaming", "Music", "Comedy"}, got.Categories())
	assert.Len(t, got.Videos("Gaming"), 2)
}

func TestCategorizeChannel_PassesOnlyTitleAndDescription(t *testing.T) {
	src := new(mockVideoSource)
	v := models.VideoRecord{VideoID: "x", Title: "T", Description: "D", ThumbnailURL: "https://img"}
	src.On("RecentVideos", mock.Anything, "UC1", 10).Return([]models.VideoRecord{v}, nil)

	cls := new(mockClassifier)
	cls.On("Classify", mock.Anything, categorizer.Request{Title: "T", Description: "D"}).
		Return(categorizer.Result{Category: "Vlog", Tags: []string{"daily"}}, nil).Once()

	got, err := NewCategorizationService(src, cls, CategorizationOptions{}).CategorizeChannel(context.Background(), "UC1")
	require.NoError(t, err)
	require.Len(t, got.Videos("Vlog"), 1)
	assert.Equal(t, "https://img", got.Videos("Vlog")[0].ThumbnailURL)
	cls.AssertExpectations(t)
}

func TestCategorizeChannel_EmptyCategoryBecomesUnknown(t *testing.T) {
	src := new(mockVideoSource)
	src.On("RecentVideos", mock.Anything, "UC1", 10).Return([]models.VideoRecord{video("1", "a")}, nil)
	cls := new(mockClassifier)
	cls.On("Classify", mock.Anything, mock.Anything).Return(categorizer.Result{Tags: []string{"x"}}, nil)

	got, err := NewCategorizationService(src, cls, CategorizationOptions{}).CategorizeChannel(context.Background(), "UC1")
	require.NoError(t, err)
	assert.Equal(t, []string{categorizer.UnknownCategory}, got.Categories())
	assert.Equal(t, []string{"x"}, got.Videos(categorizer.UnknownCategory)[0].Tags)
}

func TestCategorizeChannel_ClassifyTimeout(t *testing.T) {
	src := new(mockVideoSource)
	src.On("RecentVideos", mock.Anything, "UC1", 10).Return([]models.VideoRecord{video("1", "slow")}, nil)

	cls := new(mockClassifier)
	cls.On("Classify", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			<-args.Get(0).(context.Context).Done()
		}).
		Return(categorizer.Result{}, context.DeadlineExceeded)

	svc := NewCategorizationService(src, cls, CategorizationOptions{ClassifyTimeout: 20 * time.Millisecond})
	got, err := svc.CategorizeChannel(context.Background(), "UC1")
	require.NoError(t, err)
	assert.Len(t, got.Videos(categorizer.UnknownCategory), 1)
}

func TestCategorizeChannel_UsesPageSizeAndTagsCostsWithChannel(t *testing.T) {
	src := new(mockVideoSource)
	src.On("RecentVideos", mock.Anything, "UC9", 3).Return([]models.VideoRecord{video("1", "a")}, nil).Once()
	cls := &scriptedClassifier{results: map[string]categorizer.Result{"a": {Category: "X", Tags: []string{}}}}

	_, err := NewCategorizationService(src, cls, CategorizationOptions{PageSize: 3}).CategorizeChannel(context.Background(), "UC9")
	require.NoError(t, err)
	assert.Equal(t, []string{"UC9"}, cls.channels)
	src.AssertExpectations(t)
}

func TestCategorizeChannel_ConcurrentMatchesSequential(t *testing.T) {
	var videos []models.VideoRecord
	results := map[string]categorizer.Result{}
	errs := map[string]error{}
	cats := []string{"Gaming", "Music", "Cooking"}
	for i := 0; i < 10; i++ {
		title := fmt.Sprintf("video-%d", i)
		videos = append(videos, video(fmt.Sprint(i), title))
		if i%4 == 3 {
			errs[title] = errors.New("boom")
			continue
		}
		results[title] = categorizer.Result{Category: cats[(i*7)%3], Tags: []string{title}}
	}

	run := func(concurrency int) (*models.CategorizedVideos, *scriptedClassifier) {
		src := new(mockVideoSource)
		src.On("RecentVideos", mock.Anything, "UC1", 10).Return(videos, nil)
		cls := &scriptedClassifier{results: results, errs: errs, delay: 5 * time.Millisecond}
		got, err := NewCategorizationService(src, cls, CategorizationOptions{Concurrency: concurrency}).
			CategorizeChannel(context.Background(), "UC1")
		require.NoError(t, err)
		return got, cls
	}

	sequential, seqCls := run(1)
	concurrent, conCls := run(4)

	assert.Equal(t, sequential.Categories(), concurrent.Categories())
	for _, c := range sequential.Categories() {
		assert.Equal(t, sequential.Videos(c), concurrent.Videos(c), c)
	}
	assert.Equal(t, len(videos), concurrent.TotalVideos())
	assert.EqualValues(t, 1, seqCls.maxSeen.Load())
	assert.LessOrEqual(t, conCls.maxSeen.Load(), int32(4))
}

func TestNewCategorizationService_CapsConcurrencyAtPageSize(t *testing.T) {
	svc := NewCategorizationService(nil, nil, CategorizationOptions{PageSize: 5, Concurrency: 50})
	assert.Equal(t, 5, svc.opts.Concurrency)
	assert.Equal(t, defaultClassifyTimeout, svc.opts.ClassifyTimeout)
}
