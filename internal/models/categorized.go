package models

import (
	"encoding/json"
	"strings"
)

// CategoryBucket is one category and the videos assigned to it, in source order.
type CategoryBucket struct {
	Category string        `json:"category"`
	Videos   []TaggedVideo `json:"videos"`
}

// CategorizedVideos groups videos by category. Categories keep the order in
// which they were first added; Go map iteration order is never relied on.
type CategorizedVideos struct {
	order   []string
	buckets map[string][]TaggedVideo
}

// NewCategorizedVideos returns an empty mapping.
func NewCategorizedVideos() *CategorizedVideos {
	return &CategorizedVideos{buckets: make(map[string][]TaggedVideo)}
}

// Add appends v to the bucket for category, creating the bucket on first use.
func (c *CategorizedVideos) Add(category string, v TaggedVideo) {
	if c.buckets == nil {
		c.buckets = make(map[string][]TaggedVideo)
	}
	if _, ok := c.buckets[category]; !ok {
		c.order = append(c.order, category)
	}
	c.buckets[category] = append(c.buckets[category], v)
}

// Categories returns the categories in first-seen order.
func (c *CategorizedVideos) Categories() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Videos returns the videos of a category, or nil if the category is absent.
func (c *CategorizedVideos) Videos(category string) []TaggedVideo {
	return c.buckets[category]
}

// Len is the number of categories.
func (c *CategorizedVideos) Len() int { return len(c.order) }

// TotalVideos is the number of videos across all buckets.
func (c *CategorizedVideos) TotalVideos() int {
	n := 0
	for _, vs := range c.buckets {
		n += len(vs)
	}
	return n
}

// Buckets returns the mapping as an ordered slice.
func (c *CategorizedVideos) Buckets() []CategoryBucket {
	out := make([]CategoryBucket, 0, len(c.order))
	for _, cat := range c.order {
		out = append(out, CategoryBucket{Category: cat, Videos: c.buckets[cat]})
	}
	return out
}

// Only returns a copy holding just the named categories, matched
// case-insensitively, in their original order. An empty list keeps everything.
func (c *CategorizedVideos) Only(categories []string) *CategorizedVideos {
	if len(categories) == 0 {
		return c
	}
	want := make(map[string]bool, len(categories))
	for _, cat := range categories {
		want[strings.ToLower(cat)] = true
	}
	out := NewCategorizedVideos()
	for _, cat := range c.order {
		if !want[strings.ToLower(cat)] {
			continue
		}
		out.order = append(out.order, cat)
		out.buckets[cat] = c.buckets[cat]
	}
	return out
}

// MarshalJSON encodes the mapping as an ordered array of buckets so clients
// see categories in first-seen order.
func (c *CategorizedVideos) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Buckets())
}
