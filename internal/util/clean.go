package util

import (
	"strings"
	"unicode/utf8"
)

// maxPromptFieldRunes caps a single field embedded into a model prompt.
// YouTube descriptions can run to several thousand characters of links.
const maxPromptFieldRunes = 2000

var charReplacer = strings.NewReplacer(
	"\u2018", "'", "\u2019", "'", "\u201C", "\"",
	"\u201D", "\"", "\u2013", "-", "\u2014", "--", "\u2026", "...",
	"\u00a0", " ", "\u0096", "-", "\u0097", "--", "\u0091", "'",
	"\u0092", "'", "\u0093", "\"", "\u0094", "\"",
	"\r\n", "\n",
)

// CleanText normalizes text taken from third-party metadata before it is
// embedded into a prompt: invalid UTF-8 is replaced, typographic punctuation is
// folded to ASCII and the result is trimmed and capped in length.
func CleanText(s string) string {
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, string(utf8.RuneError))
	}
	s = strings.TrimSpace(charReplacer.Replace(s))
	if utf8.RuneCountInString(s) > maxPromptFieldRunes {
		runes := []rune(s)
		s = string(runes[:maxPromptFieldRunes])
	}
	return s
}
