// Package worker runs scoring engines as actors behind request and response
// channels, and correlates their replies for callers.
package worker

import (
	"context"
	"log/slog"

	"cvscore/internal/engine"
	"cvscore/internal/protocol"
)

// Worker owns one engine and serves requests one at a time.
type Worker struct {
	id     int
	engine *engine.Engine
	logger *slog.Logger
}

// NewWorker wraps eng; id only tags log lines.
func NewWorker(id int, eng *engine.Engine, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{id: id, engine: eng, logger: logger.With(slog.Int("worker", id))}
}

// Run handles requests from in until in is closed or ctx ends. Every request
// taken from in produces exactly one response on out unless ctx ends first.
func (w *Worker) Run(ctx context.Context, in <-chan protocol.Request, out chan<- protocol.Response) error {
	w.logger.Debug("worker started")
	defer w.logger.Debug("worker stopped")
	for {
		select {
		case <-ctx.Done():
			return nil
		case req, ok := <-in:
			if !ok {
				return nil
			}
			resp := w.engine.Handle(req)
			select {
			case out <- resp:
			case <-ctx.Done():
				w.logger.Warn("response not delivered", slog.String("id", req.ID))
				return nil
			}
		}
	}
}
