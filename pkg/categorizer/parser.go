package categorizer

import (
	"regexp"
	"strings"
)

var (
	categoryLineRE = regexp.MustCompile(`(?m)Category:[ \t]*(.*)$`)
	tagsLineRE     = regexp.MustCompile(`(?m)Tags:[ \t]*(.*)$`)
)

// ParseResponse extracts the category and tags from free-form model output that
// is expected to follow
//
//	Category: <name>
//	Tags: tag1, tag2, tag3, tag4, tag5
//
// A missing or empty Category line yields UnknownCategory and a missing Tags
// line yields no tags; the two fields degrade independently. The category is
// not checked against any vocabulary and tags are neither counted nor
// deduplicated.
func ParseResponse(raw string) Result {
	res := Unknown()

	if m := categoryLineRE.FindStringSubmatch(raw); m != nil {
		if cat := strings.TrimSpace(m[1]); cat != "" {
			res.Category = cat
		}
	}

	if m := tagsLineRE.FindStringSubmatch(raw); m != nil {
		for _, tag := range strings.Split(m[1], ",") {
			// "a,,b" and trailing commas yield blanks, which are not tags.
			if tag = strings.TrimSpace(tag); tag != "" {
				res.Tags = append(res.Tags, tag)
			}
		}
	}

	return res
}
