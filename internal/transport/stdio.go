// Package transport exposes a worker pool over line-delimited JSON.
package transport

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"cvscore/internal/protocol"
)

const maxLineBytes = 4 << 20

var errNonStringID = errors.New("id must be a JSON string")

// Backend is the request and response side of a running worker pool.
type Backend interface {
	Submit(ctx context.Context, req protocol.Request) error
	Responses() <-chan protocol.Response
	Close()
}

// Serve reads one request envelope per line from r and writes one response
// envelope per line to w, in completion order. Requests are forwarded without
// waiting for earlier ones. Undecodable lines get an error response and do
// not stop the loop.
//
// Serve returns at end of input or as soon as ctx ends, even while r is
// blocked; in the latter case the goroutine reading r is left behind until
// its Read returns. Either way the backend is closed and every response it
// produces is written before Serve returns.
func Serve(ctx context.Context, r io.Reader, w io.Writer, b Backend, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	out := &lineWriter{enc: json.NewEncoder(w)}

	written := make(chan struct{})
	go func() {
		defer close(written)
		for resp := range b.Responses() {
			if err := out.write(resp); err != nil {
				logger.Error("write response", slog.String("id", resp.ID), slog.Any("error", err))
			}
		}
	}()

	lines := make(chan string)
	readErr := make(chan error, 1)
	stop := make(chan struct{})
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 64*1024), maxLineBytes)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-stop:
				return
			}
		}
		readErr <- scanner.Err()
	}()

	var err error
	line := 0
read:
	for {
		select {
		case <-ctx.Done():
			logger.Info("serve interrupted", slog.Int("lines", line))
			break read
		case text, ok := <-lines:
			if !ok {
				err = <-readErr
				break read
			}
			line++
			if !handleLine(ctx, line, text, b, out, logger) {
				break read
			}
		}
	}
	close(stop)

	b.Close()
	<-written
	if err != nil {
		return fmt.Errorf("transport: read: %w", err)
	}
	return nil
}

// handleLine decodes and submits one line. It reports false once the
// backend no longer accepts requests.
func handleLine(ctx context.Context, line int, text string, b Backend, out *lineWriter, logger *slog.Logger) bool {
	raw := strings.TrimSpace(text)
	if raw == "" {
		return true
	}
	var req protocol.Request
	if err := json.Unmarshal([]byte(raw), &req); err != nil {
		id, idErr := recoverID(raw)
		if idErr != nil {
			err = idErr
		}
		logger.Warn("malformed request", slog.Int("line", line), slog.String("id", id), slog.Any("error", err))
		out.writeLogged(protocol.Failure(id, fmt.Errorf("%w: line %d: %v", protocol.ErrInvalidPayload, line, err)), logger)
		return true
	}
	if err := b.Submit(ctx, req); err != nil {
		logger.Warn("request not accepted", slog.String("id", req.ID), slog.Any("error", err))
		out.writeLogged(protocol.Failure(req.ID, err), logger)
		return false
	}
	return true
}

type lineWriter struct {
	mu  sync.Mutex
	enc *json.Encoder
}

func (l *lineWriter) write(resp protocol.Response) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.enc.Encode(resp)
}

func (l *lineWriter) writeLogged(resp protocol.Response, logger *slog.Logger) {
	if err := l.write(resp); err != nil {
		logger.Error("write response", slog.String("id", resp.ID), slog.Any("error", err))
	}
}

// recoverID pulls the id out of an envelope whose other fields do not decode.
// An id that is present but not a string is reported as an error.
func recoverID(raw string) (string, error) {
	var envelope struct {
		ID json.RawMessage `json:"id"`
	}
	if json.Unmarshal([]byte(raw), &envelope) != nil || len(envelope.ID) == 0 {
		return "", nil
	}
	var id string
	if json.Unmarshal(envelope.ID, &id) != nil {
		return "", fmt.Errorf("%w, got %s", errNonStringID, envelope.ID)
	}
	return id, nil
}
