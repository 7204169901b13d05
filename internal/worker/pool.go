package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"cvscore/internal/engine"
	"cvscore/internal/protocol"
)

// ErrPoolClosed is returned by Submit once the pool stops accepting requests.
var ErrPoolClosed = errors.New("worker: pool closed")

// Pool runs independent workers that compete for requests on one shared
// channel. Each worker trains its own engine, so none depends on another.
type Pool struct {
	workers   []*Worker
	requests  chan protocol.Request
	responses chan protocol.Response
	logger    *slog.Logger

	// mu guards closing the request channel against in-flight Submits.
	mu        sync.RWMutex
	closed    bool
	closing   chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once
}

// NewPool trains size engines on corpus and wires them to shared channels
// buffered to queueSize.
func NewPool(corpus []string, size, queueSize int, logger *slog.Logger) (*Pool, error) {
	if size <= 0 {
		size = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}
	if logger == nil {
		logger = slog.Default()
	}
	p := &Pool{
		requests:  make(chan protocol.Request, queueSize),
		responses: make(chan protocol.Response, queueSize),
		logger:    logger,
		closing:   make(chan struct{}),
		stopped:   make(chan struct{}),
	}
	vocabulary := 0
	for i := 0; i < size; i++ {
		docs := make([]string, len(corpus))
		copy(docs, corpus)
		eng, err := engine.New(docs, engine.WithLogger(logger))
		if err != nil {
			return nil, fmt.Errorf("worker %d: %w", i, err)
		}
		vocabulary = eng.VocabularySize()
		p.workers = append(p.workers, NewWorker(i, eng, logger))
	}
	logger.Info("worker pool ready",
		slog.Int("workers", size),
		slog.Int("queue", queueSize),
		slog.Int("documents", len(corpus)),
		slog.Int("vocabulary", vocabulary),
	)
	return p, nil
}

// Submit hands req to the next free worker. It fails with ErrPoolClosed
// once Close has been called or Run has returned, and never panics.
func (p *Pool) Submit(ctx context.Context, req protocol.Request) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}
	select {
	case p.requests <- req:
		return nil
	case <-p.closing:
		return ErrPoolClosed
	case <-p.stopped:
		return ErrPoolClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Responses is the outbound side of the pool. It is closed when Run returns.
func (p *Pool) Responses() <-chan protocol.Response { return p.responses }

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Run blocks until ctx ends or the pool is closed and drained.
// Run must be called once.
func (p *Pool) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, w := range p.workers {
		w := w
		g.Go(func() error { return w.Run(ctx, p.requests, p.responses) })
	}
	err := g.Wait()
	close(p.stopped)
	close(p.responses)
	return err
}

// Close stops accepting requests; Run returns once queued work is done.
// Close may be called more than once.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		// Wake blocked senders first so the write lock can be taken.
		close(p.closing)
		p.mu.Lock()
		p.closed = true
		close(p.requests)
		p.mu.Unlock()
	})
}
