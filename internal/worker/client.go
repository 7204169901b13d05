package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"cvscore/internal/protocol"
)

var (
	// ErrDuplicateID is returned when an ID is already outstanding.
	ErrDuplicateID = errors.New("worker: duplicate request id")
	// ErrEmptyID is returned for a request without an ID.
	ErrEmptyID = errors.New("worker: empty request id")
	// ErrClosed is returned once the response stream has ended.
	ErrClosed = errors.New("worker: client closed")
)

// Submitter accepts requests for processing. *Pool is the production
// implementation.
type Submitter interface {
	Submit(ctx context.Context, req protocol.Request) error
}

// Client sends requests and matches responses to them by ID alone; arrival
// order carries no meaning. There is no cancellation: a caller that stops
// waiting just has its late response discarded.
type Client struct {
	submitter Submitter
	logger    *slog.Logger

	mu      sync.Mutex
	pending map[string]chan protocol.Response
	closed  bool
	done    chan struct{}
}

// NewClient starts routing responses to their pending requests. Routing stops
// when responses is closed.
func NewClient(submitter Submitter, responses <-chan protocol.Response, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Client{
		submitter: submitter,
		logger:    logger,
		pending:   make(map[string]chan protocol.Response),
		done:      make(chan struct{}),
	}
	go c.dispatch(responses)
	return c
}

// Send registers req.ID and posts req. The returned channel yields the one
// response for req, or is closed without a value if the client shuts down.
func (c *Client) Send(ctx context.Context, req protocol.Request) (<-chan protocol.Response, error) {
	if req.ID == "" {
		return nil, ErrEmptyID
	}
	ch := make(chan protocol.Response, 1)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	if _, ok := c.pending[req.ID]; ok {
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrDuplicateID, req.ID)
	}
	c.pending[req.ID] = ch
	c.mu.Unlock()

	if err := c.submitter.Submit(ctx, req); err != nil {
		c.Forget(req.ID)
		return nil, err
	}
	return ch, nil
}

// Call sends cmd with a fresh correlation ID and waits for its response.
func (c *Client) Call(ctx context.Context, cmd protocol.Command, payload any) (protocol.Response, error) {
	req, err := protocol.NewRequest(cmd, uuid.NewString(), payload)
	if err != nil {
		return protocol.Response{}, err
	}
	ch, err := c.Send(ctx, req)
	if err != nil {
		return protocol.Response{}, err
	}
	select {
	case resp, ok := <-ch:
		if !ok {
			return protocol.Response{}, ErrClosed
		}
		return resp, nil
	case <-ctx.Done():
		c.Forget(req.ID)
		return protocol.Response{}, ctx.Err()
	}
}

// Forget stops waiting for id. A response that arrives later is dropped.
func (c *Client) Forget(id string) {
	c.mu.Lock()
	delete(c.pending, id)
	c.mu.Unlock()
}

// Pending returns the number of outstanding requests.
func (c *Client) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// Done is closed once the response stream has ended.
func (c *Client) Done() <-chan struct{} { return c.done }

func (c *Client) dispatch(responses <-chan protocol.Response) {
	for resp := range responses {
		c.mu.Lock()
		ch, ok := c.pending[resp.ID]
		delete(c.pending, resp.ID)
		c.mu.Unlock()
		if !ok {
			c.logger.Debug("dropping unmatched response", slog.String("id", resp.ID), slog.String("type", string(resp.Type)))
			continue
		}
		ch <- resp
	}

	c.mu.Lock()
	c.closed = true
	for id, ch := range c.pending {
		close(ch)
		delete(c.pending, id)
	}
	c.mu.Unlock()
	close(c.done)
}
