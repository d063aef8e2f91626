// Package jobs provides the background job queue used to run encode
// batches off the request path. Submitting returns a handle whose result
// becomes available once the job has run on a worker.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Atrasoftware/avlogue/internal/logger"
)

// Common job errors
var (
	ErrJobFailed   = errors.New("job failed")
	ErrQueueClosed = errors.New("job queue is closed")
)

// Func is the unit of work run on a worker. The context passed in is the
// pool's lifetime context, not the submitter's: a submitted job runs to
// completion even if the caller goes away.
type Func func(ctx context.Context) (any, error)

// Queue accepts background jobs for asynchronous execution.
type Queue interface {
	Submit(ctx context.Context, fn Func) (*Handle, error)
}

// Handle tracks a submitted job and exposes its eventual result.
type Handle struct {
	done   chan struct{}
	result any
	err    error
}

func newHandle() *Handle {
	return &Handle{done: make(chan struct{})}
}

// Done returns a channel closed once the job has finished.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Get blocks until the job finishes or ctx is done. Errors raised by the
// job are wrapped in ErrJobFailed.
func (h *Handle) Get(ctx context.Context) (any, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-h.done:
	}
	if h.err != nil {
		return h.result, fmt.Errorf("%w: %w", ErrJobFailed, h.err)
	}
	return h.result, nil
}

func (h *Handle) complete(result any, err error) {
	h.result = result
	h.err = err
	close(h.done)
}

type task struct {
	fn     Func
	handle *Handle
}

// Pool runs submitted jobs on a fixed set of worker goroutines.
type Pool struct {
	tasks  chan task
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// NewPool creates a pool with the given number of workers and submission
// backlog, and starts the workers.
func NewPool(workers, backlog int) *Pool {
	if workers < 1 {
		workers = 1
	}
	if backlog < 0 {
		backlog = 0
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{
		tasks:  make(chan task, backlog),
		ctx:    ctx,
		cancel: cancel,
	}

	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}

	return p
}

// Submit implements Queue. It blocks while the backlog is full; ctx only
// governs the wait to enqueue, never the job itself.
func (p *Pool) Submit(ctx context.Context, fn Func) (*Handle, error) {
	h := newHandle()

	// The lock is held across the send so Close cannot close the task
	// channel between the closed check and the send. A Submit blocked on
	// a full backlog makes Close wait until a worker frees a slot.
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil, ErrQueueClosed
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case p.tasks <- task{fn: fn, handle: h}:
		return h, nil
	}
}

// Close stops accepting jobs and waits for queued work to drain.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.tasks)
	p.mu.Unlock()

	p.wg.Wait()
	p.cancel()
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for t := range p.tasks {
		p.run(t)
	}
}

// run executes one task, converting panics into job errors so a bad job
// cannot take down the worker.
func (p *Pool) run(t task) {
	defer func() {
		if r := recover(); r != nil {
			logger.Log.Error().
				Interface("panic", r).
				Msg("Job panicked")
			t.handle.complete(nil, fmt.Errorf("panic: %v", r))
		}
	}()

	result, err := t.fn(p.ctx)
	t.handle.complete(result, err)
}
