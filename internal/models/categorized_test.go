package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tagged(id string) TaggedVideo {
	return TaggedVideo{VideoRecord: VideoRecord{VideoID: id}, Tags: []string{}}
}

func sampleCategorized() *CategorizedVideos {
	c := NewCategorizedVideos()
	c.Add("Cooking", tagged("v1"))
	c.Add("Unknown", tagged("v2"))
	c.Add("Gaming", tagged("v3"))
	c.Add("Cooking", tagged("v4"))
	return c
}

func TestCategorizedVideos_Order(t *testing.T) {
	c := sampleCategorized()
	assert.Equal(t, []string{"Cooking", "Unknown", "Gaming"}, c.Categories())
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, 4, c.TotalVideos())
	assert.Len(t, c.Videos("Cooking"), 2)
	assert.Nil(t, c.Videos("Music"))
}

func TestCategorizedVideos_Only(t *testing.T) {
	c := sampleCategorized()

	got := c.Only([]string{"gaming", "COOKING", "Music"})
	assert.Equal(t, []string{"Cooking", "Gaming"}, got.Categories(), "keeps first-seen order, not argument order")
	assert.Equal(t, 3, got.TotalVideos())
	assert.Equal(t, 3, c.Len(), "source is untouched")

	assert.Same(t, c, c.Only(nil))

	none := c.Only([]string{"Music"})
	assert.Zero(t, none.Len())
	raw, err := json.Marshal(none)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(raw))
}

func TestCategorizedVideos_OnlyJSON(t *testing.T) {
	raw, err := json.Marshal(sampleCategorized().Only([]string{"unknown"}))
	require.NoError(t, err)

	var buckets []CategoryBucket
	require.NoError(t, json.Unmarshal(raw, &buckets))
	require.Len(t, buckets, 1)
	assert.Equal(t, "Unknown", buckets[0].Category)
	require.Len(t, buckets[0].Videos, 1)
	assert.Equal(t, "v2", buckets[0].Videos[0].VideoID)
}
