package bot

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/LinkHawk/LinkHawk/internal/bus"
)

// Pool is a fixed set of workers consuming the event bus and running the
// dispatcher. Replies across different events may interleave; within one
// event, responder order is fixed because one worker owns the whole cycle.
type Pool struct {
	bus        *bus.EventBus
	dispatcher *Dispatcher
	size       int
	running    atomic.Bool
	wg         sync.WaitGroup
}

// NewPool creates a worker pool of the given size.
func NewPool(eventBus *bus.EventBus, dispatcher *Dispatcher, size int) *Pool {
	if size <= 0 {
		size = 2
	}
	return &Pool{bus: eventBus, dispatcher: dispatcher, size: size}
}

// Run starts the workers and returns immediately. Workers exit on context
// cancellation or a stop sentinel.
func (p *Pool) Run(ctx context.Context) {
	p.running.Store(true)
	slog.Info("Worker pool started", "workers", p.size)
	for i := 0; i < p.size; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}
}

func (p *Pool) worker(ctx context.Context, id int) {
	defer p.wg.Done()
	for {
		ev, err := p.bus.ConsumeInbound(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			slog.Error("Failed to consume event", "worker", id, "error", err)
			continue
		}
		if ev == nil {
			slog.Info("Worker stopping", "worker", id)
			return
		}
		p.dispatcher.Handle(ctx, ev)
	}
}

// Stop enqueues one sentinel per worker and waits for them to drain.
// Events already queued ahead of the sentinels are still processed.
func (p *Pool) Stop() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	p.bus.PublishStop(p.size)
	p.wg.Wait()
	slog.Info("Worker pool stopped")
}

// Wait blocks until every worker has exited.
func (p *Pool) Wait() {
	p.wg.Wait()
}
