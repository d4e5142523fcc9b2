// Package channels bridges chat transports onto the event bus.
package channels

import (
	"context"
	"time"
)

// Channel is the transport boundary: it feeds inbound events onto the bus
// and posts replies back out.
type Channel interface {
	// Name returns the channel name (e.g. "slack").
	Name() string
	// Start starts the channel listener.
	Start(ctx context.Context) error
	// Stop stops the channel listener.
	Stop() error
	// Post sends plain reply text to a chat channel.
	Post(ctx context.Context, channel, text string) error
}

// withRetry runs fn up to attempts times, retrying only while fn reports
// the error as retryable. withRetry owns the wait between attempts: a
// positive delay from fn (e.g. a server-provided Retry-After) replaces the
// exponential backoff for that attempt.
func withRetry(attempts int, baseDelay time.Duration, fn func() (retryable bool, delay time.Duration, err error)) error {
	if attempts <= 0 {
		attempts = 1
	}
	if baseDelay <= 0 {
		baseDelay = 100 * time.Millisecond
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		retryable, delay, err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if !retryable || i == attempts-1 {
			break
		}
		if delay <= 0 {
			delay = baseDelay * time.Duration(1<<i)
		}
		time.Sleep(delay)
	}
	return lastErr
}
