package ingest

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Field limits, in characters.
const (
	MaxAgentLen   = 100
	MaxTypeLen    = 50
	MaxTaskLen    = 500
	MaxContentLen = 5000
)

// This is a denylist for the two common injection shapes, not an HTML
// sanitizer. Rendering clients must still escape what they display.
var (
	scriptBlock  = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script\s*>`)
	scriptOpen   = regexp.MustCompile(`(?i)<script\b[^>]*>`)
	// Handlers are only stripped inside a tag; prose like "one = 1" survives.
	eventHandler = regexp.MustCompile(`(?i)(<[^>]*?)\s+on[a-z]+\s*=\s*(?:"[^"]*"|'[^']*'|[^\s>]+)`)
)

// Sanitize trims s, strips script blocks and inline event handlers, and
// cuts the result to max characters.
func Sanitize(s string, max int) string {
	s = strings.TrimSpace(s)
	s = scriptBlock.ReplaceAllString(s, "")
	s = scriptOpen.ReplaceAllString(s, "")
	for eventHandler.MatchString(s) {
		s = eventHandler.ReplaceAllString(s, "$1")
	}
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) > max {
		s = string([]rune(s)[:max])
	}
	return s
}
