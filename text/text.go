/*
Package text normalizes subtitle text ahead of comparison. OCR output and
reference subtitles disagree wildly on case, markup and punctuation, so both
sides are reduced to the same lowercase, markup-free form before any
distance is measured.
*/
package text

import (
	"regexp"
	"strings"
)

// Subtitles containing any of these are credits or watermarks rather than
// dialogue and are dropped entirely.
var bannedWords = []string{
	"caption",
	"subtitle",
	"subbed",
	"corrections by",
	"corrected by",
	"correction by",
}

var removals = []*regexp.Regexp{
	regexp.MustCompile(`<[^>]*>`),    // formatting tags
	regexp.MustCompile(`\[[^\]]*\]`), // sound cues
	regexp.MustCompile(`\([^)]*\)`),  // stage directions
	regexp.MustCompile(`[A-Za-z]+:`), // speaker prefixes
}

// Sanitize lowercases s and strips markup, bracketed cues, speaker prefixes
// and ASCII punctuation. Text containing a banned word, or any extra banned
// word supplied by the caller, collapses to the empty string.
func Sanitize(s string, banned ...string) string {
	lowered := strings.ToLower(s)

	for _, w := range bannedWords {
		if strings.Contains(lowered, w) {
			return ""
		}
	}
	for _, w := range banned {
		if w != "" && strings.Contains(lowered, strings.ToLower(w)) {
			return ""
		}
	}

	for _, re := range removals {
		lowered = re.ReplaceAllString(lowered, "")
	}

	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		if !isASCIIPunct(r) {
			b.WriteRune(r)
		}
	}

	return strings.TrimSpace(b.String())
}

func isASCIIPunct(r rune) bool {
	switch {
	case r >= '!' && r <= '/':
		return true
	case r >= ':' && r <= '@':
		return true
	case r >= '[' && r <= '`':
		return true
	case r >= '{' && r <= '~':
		return true
	}
	return false
}
