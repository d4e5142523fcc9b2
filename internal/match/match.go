// Package match extracts record labels from message text.
package match

import (
	"fmt"
	"regexp"
)

// Matcher finds occurrences of one bot's pattern in message text. Matches
// are case-insensitive and must be bounded by a non-word character or the
// text boundary on both sides, so a pattern never fires inside a larger
// token. Matchers are immutable and safe for concurrent use.
type Matcher struct {
	pattern string
	re      *regexp.Regexp
}

// New compiles a matcher for the given pattern. The pattern itself is a
// regular expression fragment (e.g. `ABC-\d+`).
func New(pattern string) (*Matcher, error) {
	re, err := regexp.Compile(`(?i)(^|\W)(` + pattern + `)(\W|$)`)
	if err != nil {
		return nil, fmt.Errorf("compile pattern %q: %w", pattern, err)
	}
	return &Matcher{pattern: pattern, re: re}, nil
}

// Pattern returns the original pattern string.
func (m *Matcher) Pattern() string {
	return m.pattern
}

// Match returns every label occurrence in text, in order. Duplicate labels
// are returned as-is; deduplication is the responder's job.
func (m *Matcher) Match(text string) []string {
	groups := m.re.FindAllStringSubmatch(text, -1)
	if len(groups) == 0 {
		return nil
	}
	labels := make([]string, 0, len(groups))
	for _, g := range groups {
		labels = append(labels, g[2])
	}
	return labels
}
