// Package bus provides the bounded hand-off queue between event producers
// and the dispatch workers.
package bus

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// TypeMessage is the only event type the dispatcher acts on.
const TypeMessage = "message"

// ErrQueueFull is returned by TryPublishInbound when the queue is at
// capacity.
var ErrQueueFull = errors.New("inbound queue full")

// Event is one inbound chat event. It lives for the duration of a single
// dispatch cycle.
type Event struct {
	Type      string    `json:"type"`
	Channel   string    `json:"channel"`
	Text      string    `json:"text"`
	BotID     string    `json:"bot_id,omitempty"`
	TraceID   string    `json:"trace_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewMessageEvent builds a message event with a fresh trace ID.
func NewMessageEvent(channel, text string) *Event {
	return &Event{
		Type:      TypeMessage,
		Channel:   channel,
		Text:      text,
		TraceID:   uuid.NewString(),
		Timestamp: time.Now(),
	}
}

// EventBus decouples event producers from the dispatch workers. A nil
// event is the stop sentinel for one worker.
type EventBus struct {
	inbound chan *Event
}

// NewEventBus creates a bus with the given queue capacity.
func NewEventBus(size int) *EventBus {
	if size <= 0 {
		size = 100
	}
	return &EventBus{inbound: make(chan *Event, size)}
}

// PublishInbound enqueues an event, blocking while the queue is full. The
// blocking push is the backpressure point for the transport receive loop.
func (b *EventBus) PublishInbound(ev *Event) {
	if ev != nil && ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}
	b.inbound <- ev
}

// TryPublishInbound enqueues an event without blocking. Producers that must
// not stall (the inbound webhook) use this and surface ErrQueueFull.
func (b *EventBus) TryPublishInbound(ev *Event) error {
	if ev != nil && ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}
	select {
	case b.inbound <- ev:
		return nil
	default:
		return ErrQueueFull
	}
}

// ConsumeInbound blocks until an event is available or the context is
// cancelled. A nil event with nil error is the worker stop sentinel.
func (b *EventBus) ConsumeInbound(ctx context.Context) (*Event, error) {
	select {
	case ev := <-b.inbound:
		return ev, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// PublishStop enqueues n stop sentinels, one per worker.
func (b *EventBus) PublishStop(n int) {
	for i := 0; i < n; i++ {
		b.inbound <- nil
	}
}

// InboundSize returns the number of pending inbound events.
func (b *EventBus) InboundSize() int {
	return len(b.inbound)
}
