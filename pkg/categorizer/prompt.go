package categorizer

import (
	"fmt"

	"tubesort/internal/util"
)

// DefaultSystemPrompt instructs the model to answer in the two-line template
// understood by ParseResponse.
const DefaultSystemPrompt = "You are an AI that categorizes YouTube videos into a single-word topic " +
	"and generates exactly 5 relevant comma-separated tags. " +
	"Respond ONLY in this format:\n" +
	"Category: [Category Name]\nTags: tag1, tag2, tag3, tag4, tag5"

func userPrompt(req Request) string {
	return fmt.Sprintf("Title: %s\nDescription: %s\nCategory & Tags:",
		util.CleanText(req.Title), util.CleanText(req.Description))
}

func systemPromptOrDefault(p string) string {
	if p == "" {
		return DefaultSystemPrompt
	}
	return p
}
