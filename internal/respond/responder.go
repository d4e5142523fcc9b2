// Package respond produces reply text for matched record labels.
package respond

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
)

// ErrAlreadySeen signals that a label was already replied to within the
// current event cycle. Callers must swallow it; it is control flow, not a
// failure.
var ErrAlreadySeen = errors.New("label already seen this cycle")

// Responder turns a matched label into reply text. Reply fails with
// ErrAlreadySeen for a label repeated within one event cycle; Reset clears
// that per-cycle state. Implementations are safe for concurrent use.
type Responder interface {
	// Pattern returns the configured match pattern for this responder.
	Pattern() string
	// Reply produces the reply text for a label.
	Reply(ctx context.Context, label string) (string, error)
	// Reset clears the per-cycle seen set. The quip pool persists.
	Reset()
}

// defaultQuips wrap the link when a bot config doesn't bring its own set.
var defaultQuips = []string{
	"%s",
	"linkhawk noticed a link!  %s",
	"Oh, here it is... %s",
	"Maybe this, %s, will help?",
	"Click me!  %s",
	"Click my shiny metal link!  %s",
	"Here, let me link that for you... %s",
	"Couldn't help but notice %s was mentioned...",
	"Not that I was eavesdropping, but did you mention %s?",
	"hmmmm, did you mean %s?",
	"%s...  Mama said there'd be days like this...",
	"%s?  An epic, yet approachable tale...",
	"%s?  Reminds me of a story...",
}

const defaultLinkTemplate = "%s|%s"

// linkBot is the generic responder and the base for the enriched variants.
// seen and pool are shared mutable state touched by whichever worker holds
// the current event, so both are mutex-guarded.
type linkBot struct {
	pattern string
	link    string
	quips   []string

	mu   sync.Mutex
	seen map[string]struct{}
	pool []string
}

func newLinkBot(pattern, linkTemplate string, quips []string) *linkBot {
	if linkTemplate == "" {
		linkTemplate = defaultLinkTemplate
	}
	if quips == nil {
		quips = defaultQuips
	}
	return &linkBot{
		pattern: pattern,
		link:    linkTemplate,
		quips:   quips,
		seen:    make(map[string]struct{}),
	}
}

func (b *linkBot) Pattern() string {
	return b.pattern
}

func (b *linkBot) Reply(_ context.Context, label string) (string, error) {
	if err := b.markSeen(label); err != nil {
		return "", err
	}
	return b.quip(fmt.Sprintf(b.link, label, label)), nil
}

// Reset clears the seen set only; the quip pool is process-wide state.
func (b *linkBot) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.seen = make(map[string]struct{})
}

// markSeen records the label for this cycle, failing with ErrAlreadySeen on
// a repeat.
func (b *linkBot) markSeen(label string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.seen[label]; ok {
		return fmt.Errorf("%s: %w", label, ErrAlreadySeen)
	}
	b.seen[label] = struct{}{}
	return nil
}

// quip wraps the link in a template drawn from the pool. The pool refills
// with the full configured set once emptied, so every quip cycles before
// any repeats. An empty configured set yields the bare link.
func (b *linkBot) quip(link string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.pool) == 0 {
		b.pool = append(b.pool, b.quips...)
	}
	if len(b.pool) == 0 {
		return link
	}
	i := rand.Intn(len(b.pool))
	q := b.pool[i]
	b.pool = append(b.pool[:i], b.pool[i+1:]...)
	return fmt.Sprintf(q, link)
}

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// escapeHTML escapes the characters Slack treats as markup in free text.
func escapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}
