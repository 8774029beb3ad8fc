package categorizer

import "context"

// UnknownCategory is the bucket for videos whose category could not be determined.
const UnknownCategory = "Unknown"

// Request holds the only signal the classifier sees about a video.
type Request struct {
	Title       string
	Description string
}

// Result is the category and tags inferred for one video.
type Result struct {
	Category string
	Tags     []string
}

// Unknown is the result used when classification fails.
func Unknown() Result {
	return Result{Category: UnknownCategory, Tags: []string{}}
}

// Classifier assigns a category and tags to a video.
type Classifier interface {
	Classify(ctx context.Context, req Request) (Result, error)
}
