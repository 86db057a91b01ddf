package listener

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/wisphq/wisp/internal/event"
)

var (
	// ErrQueueFull is returned when the inbound queue cannot accept more events.
	ErrQueueFull = errors.New("dispatch queue full")
	// ErrPipelineStopped is returned after the pipeline context is cancelled.
	ErrPipelineStopped = errors.New("dispatch pipeline stopped")
)

type dispatchTask struct {
	ctx context.Context
	ev  event.Event
}

// Pipeline decouples event reception from handler execution: adapters
// enqueue, a fixed worker pool drains. One dispatch pass runs per event, so
// listeners for the same event keep strict priority order; ordering across
// distinct events follows queue order per worker only.
type Pipeline struct {
	manager *Manager
	logger  *slog.Logger

	queue   chan dispatchTask
	workers int
	once    sync.Once
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewPipeline creates a pipeline over the manager. workers and queueSize
// fall back to sensible defaults when not positive.
func NewPipeline(log *slog.Logger, manager *Manager, workers, queueSize int) *Pipeline {
	if log == nil {
		log = slog.Default()
	}
	if workers <= 0 {
		workers = 4
	}
	if queueSize <= 0 {
		queueSize = 256
	}
	return &Pipeline{
		manager: manager,
		logger:  log.With(slog.String("component", "dispatch")),
		queue:   make(chan dispatchTask, queueSize),
		workers: workers,
	}
}

// Start launches the worker pool once; later calls are no-ops.
func (p *Pipeline) Start(ctx context.Context) {
	p.once.Do(func() {
		if ctx == nil {
			ctx = context.Background()
		}
		p.ctx, p.cancel = context.WithCancel(ctx)
		for i := 0; i < p.workers; i++ {
			go p.run(p.ctx)
		}
	})
}

// Stop cancels the worker pool. Queued events are dropped.
func (p *Pipeline) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
}

// Enqueue hands an event to the pool without blocking the reception path.
// The task keeps the caller's values but outlives its cancellation.
func (p *Pipeline) Enqueue(ctx context.Context, ev event.Event) error {
	p.Start(ctx)
	if p.ctx != nil && p.ctx.Err() != nil {
		return ErrPipelineStopped
	}
	if ctx == nil {
		ctx = context.Background()
	}
	task := dispatchTask{ctx: context.WithoutCancel(ctx), ev: ev}
	select {
	case p.queue <- task:
		return nil
	default:
		return ErrQueueFull
	}
}

func (p *Pipeline) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case task := <-p.queue:
			p.manager.Dispatch(task.ctx, task.ev)
		}
	}
}
