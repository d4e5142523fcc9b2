// Package bot wires responders into the event dispatch pipeline.
package bot

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/LinkHawk/LinkHawk/internal/bus"
	"github.com/LinkHawk/LinkHawk/internal/match"
	"github.com/LinkHawk/LinkHawk/internal/respond"
)

// Poster is the outbound transport boundary: plain text to a channel,
// attributed as the bot itself, with no further markup interpretation.
type Poster interface {
	Post(ctx context.Context, channel, text string) error
}

// ReplyRecorder receives a best-effort record of every posted reply.
type ReplyRecorder interface {
	Record(traceID, channel, pattern, label, text string) error
}

// entry pairs a responder with its compiled matcher. mu serializes whole
// event cycles on the responder: its seen set is scoped to a single event,
// so two workers must never interleave match/reply/reset on one responder.
type entry struct {
	matcher   *match.Matcher
	responder respond.Responder
	mu        sync.Mutex
}

// Dispatcher applies the ordered responder set to inbound events and posts
// the resulting replies. Safe for concurrent use by multiple workers: each
// responder processes one event at a time, start to finish.
type Dispatcher struct {
	entries  []*entry
	poster   Poster
	recorder ReplyRecorder
}

// NewDispatcher builds a dispatcher over the given responders, in order.
// Zero responders is a configuration error.
func NewDispatcher(responders []respond.Responder, poster Poster, recorder ReplyRecorder) (*Dispatcher, error) {
	if len(responders) == 0 {
		return nil, respond.ErrNoBots
	}
	entries := make([]*entry, 0, len(responders))
	for _, r := range responders {
		m, err := match.New(r.Pattern())
		if err != nil {
			return nil, err
		}
		entries = append(entries, &entry{matcher: m, responder: r})
	}
	return &Dispatcher{entries: entries, poster: poster, recorder: recorder}, nil
}

// Handle runs one event cycle: filter, match, reply, post. Each responder
// is locked for the full span of the event and reset afterwards no matter
// what happened during the cycle, so one event's failures never leak into
// the next event's dedup state.
func (d *Dispatcher) Handle(ctx context.Context, ev *bus.Event) {
	if ev == nil || ev.Type != bus.TypeMessage {
		return
	}
	if ev.BotID != "" {
		// Ignore all bots, ourselves included.
		return
	}

	for _, e := range d.entries {
		d.dispatch(ctx, e, ev)
	}
}

func (d *Dispatcher) dispatch(ctx context.Context, e *entry, ev *bus.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	defer e.responder.Reset()

	for _, label := range e.matcher.Match(ev.Text) {
		text, err := e.responder.Reply(ctx, label)
		if errors.Is(err, respond.ErrAlreadySeen) {
			continue
		}
		if err != nil {
			slog.Error("Reply failed", "label", label, "pattern", e.responder.Pattern(), "error", err)
			continue
		}

		if err := d.poster.Post(ctx, ev.Channel, text); err != nil {
			slog.Error("Post failed", "channel", ev.Channel, "label", label, "error", err)
			continue
		}
		slog.Info("Replied", "channel", ev.Channel, "label", label, "trace_id", ev.TraceID)

		if d.recorder != nil {
			if err := d.recorder.Record(ev.TraceID, ev.Channel, e.responder.Pattern(), label, text); err != nil {
				slog.Warn("Reply log write failed", "error", err)
			}
		}
	}
}
