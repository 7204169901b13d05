package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cvscore/internal/domain"
	"cvscore/internal/engine"
	"cvscore/internal/protocol"
)

var _ domain.Scorer = (*ScoringServiceImpl)(nil)

// engineCaller answers synchronously from an engine and counts calls.
type engineCaller struct {
	engine *engine.Engine
	calls  int
}

func (c *engineCaller) Call(_ context.Context, cmd protocol.Command, payload any) (protocol.Response, error) {
	c.calls++
	req, err := protocol.NewRequest(cmd, "id", payload)
	if err != nil {
		return protocol.Response{}, err
	}
	return c.engine.Handle(req), nil
}

type memRecorder struct {
	mu      sync.Mutex
	entries []protocol.Response
	err     error
}

func (r *memRecorder) Record(_ context.Context, _ protocol.Command, resp protocol.Response) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, resp)
	return r.err
}

func newCaller(t *testing.T) *engineCaller {
	t.Helper()
	eng, err := engine.New([]string{"golang developer docker", "react designer figma"})
	require.NoError(t, err)
	return &engineCaller{engine: eng}
}

func TestScoringServiceOperations(t *testing.T) {
	ctx := context.Background()
	svc, err := NewScoringService(newCaller(t), 0, nil, nil)
	require.NoError(t, err)

	rel, err := svc.Relevance(ctx, "golang developer", "golang developer")
	require.NoError(t, err)
	assert.Equal(t, 100, rel.Similarity)

	sug, err := svc.Suggest(ctx, "figma")
	require.NoError(t, err)
	assert.Equal(t, "react designer figma", sug.Match)
	assert.Equal(t, []string{"react", "designer"}, sug.Keywords)

	cx, err := svc.Complexity(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, domain.ComplexityResult{Score: 0, Level: "compact"}, cx)
}

func TestScoringServiceCachesResults(t *testing.T) {
	ctx := context.Background()
	caller := newCaller(t)
	rec := &memRecorder{}
	svc, err := NewScoringService(caller, 8, rec, nil)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := svc.Suggest(ctx, "golang")
		require.NoError(t, err)
	}
	_, err = svc.Suggest(ctx, "react")
	require.NoError(t, err)

	assert.Equal(t, 2, caller.calls)
	assert.Len(t, rec.entries, 2)
}

func TestScoringServiceDoesNotCacheErrors(t *testing.T) {
	ctx := context.Background()
	caller := &engineCaller{engine: &engine.Engine{}}
	svc, err := NewScoringService(caller, 8, nil, nil)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err := svc.Complexity(ctx, "text")
		var remote *protocol.RemoteError
		require.ErrorAs(t, err, &remote)
		assert.Contains(t, remote.Message, "not ready")
	}
	assert.Equal(t, 2, caller.calls)
}

func TestScoringServiceJournalFailureIsNotFatal(t *testing.T) {
	svc, err := NewScoringService(newCaller(t), 0, &memRecorder{err: errors.New("disk full")}, nil)
	require.NoError(t, err)

	rel, err := svc.Relevance(context.Background(), "golang", "react")
	require.NoError(t, err)
	assert.Equal(t, 0, rel.Similarity)
}
