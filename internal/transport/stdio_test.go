package transport

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cvscore/internal/domain"
	"cvscore/internal/protocol"
	"cvscore/internal/worker"
)

func startPool(t *testing.T) (*worker.Pool, <-chan error) {
	t.Helper()
	pool, err := worker.NewPool([]string{"golang developer docker", "react designer figma"}, 2, 4, nil)
	require.NoError(t, err)
	runErr := make(chan error, 1)
	go func() { runErr <- pool.Run(context.Background()) }()
	return pool, runErr
}

func decodeLines(t *testing.T, out *bytes.Buffer) []protocol.Response {
	t.Helper()
	var resps []protocol.Response
	sc := bufio.NewScanner(out)
	for sc.Scan() {
		var resp protocol.Response
		require.NoError(t, json.Unmarshal(sc.Bytes(), &resp))
		resps = append(resps, resp)
	}
	return resps
}

func errorMessage(t *testing.T, resp protocol.Response) string {
	t.Helper()
	var remote *protocol.RemoteError
	require.ErrorAs(t, resp.Err(), &remote)
	return remote.Message
}

func TestServe(t *testing.T) {
	pool, runErr := startPool(t)

	input := strings.Join([]string{
		`{"type":"analyze_relevance","id":"r1","payload":{"cvText":"golang docker","jobText":"golang docker"}}`,
		``,
		`{"type":"suggest_keywords","id":"s1","payload":{"text":"figma"}}`,
		`{"type":"analyze_complexity","id":"c1","payload":{"text":""}}`,
		`{"type":"translate","id":"u1","payload":{}}`,
		`{"type":"analyze_complexity","id":"bad1","payload":`,
		`{"type":7,"id":"bad2"}`,
		`{"type":"analyze_complexity","id":7,"payload":{"text":"x"}}`,
	}, "\n")

	var out bytes.Buffer
	require.NoError(t, Serve(context.Background(), strings.NewReader(input), &out, pool, nil))
	require.NoError(t, <-runErr)

	resps := decodeLines(t, &out)
	require.Len(t, resps, 7)
	byID := map[string]protocol.Response{}
	var anonymous []protocol.Response
	for _, resp := range resps {
		if resp.ID == "" {
			anonymous = append(anonymous, resp)
			continue
		}
		byID[resp.ID] = resp
	}

	var rel domain.RelevanceResult
	require.NoError(t, byID["r1"].Decode(&rel))
	assert.Equal(t, 100, rel.Similarity)

	var sug domain.SuggestionResult
	require.NoError(t, byID["s1"].Decode(&sug))
	assert.Equal(t, "react designer figma", sug.Match)

	assert.Equal(t, protocol.TypeComplexityResult, byID["c1"].Type)
	assert.JSONEq(t, `{"score":0,"level":"compact"}`, string(byID["c1"].Payload))

	assert.Equal(t, protocol.TypeError, byID["u1"].Type)
	assert.Equal(t, protocol.TypeError, byID["bad2"].Type)

	// The truncated line and the numeric id cannot be correlated.
	require.Len(t, anonymous, 2)
	var messages []string
	for _, resp := range anonymous {
		assert.Equal(t, protocol.TypeError, resp.Type)
		messages = append(messages, errorMessage(t, resp))
	}
	assert.Contains(t, strings.Join(messages, "\n"), "id must be a JSON string, got 7")
}

func TestServeReturnsWhenContextCancelledWhileReading(t *testing.T) {
	pool, runErr := startPool(t)
	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	var out bytes.Buffer
	served := make(chan error, 1)
	go func() { served <- Serve(ctx, pr, &out, pool, nil) }()

	cancel()
	select {
	case err := <-served:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancellation")
	}
	require.NoError(t, <-runErr)
	assert.Zero(t, out.Len())
}

type refusingBackend struct {
	responses chan protocol.Response
	submitted int
}

func (b *refusingBackend) Submit(context.Context, protocol.Request) error {
	b.submitted++
	return errors.New("pool closed")
}

func (b *refusingBackend) Responses() <-chan protocol.Response { return b.responses }

func (b *refusingBackend) Close() { close(b.responses) }

func TestServeStopsWhenBackendRefuses(t *testing.T) {
	b := &refusingBackend{responses: make(chan protocol.Response)}
	input := `{"type":"analyze_complexity","id":"a","payload":{"text":"x"}}` + "\n" +
		`{"type":"analyze_complexity","id":"b","payload":{"text":"x"}}`

	var out bytes.Buffer
	require.NoError(t, Serve(context.Background(), strings.NewReader(input), &out, b, nil))

	resps := decodeLines(t, &out)
	require.Len(t, resps, 1)
	assert.Equal(t, "a", resps[0].ID)
	assert.Equal(t, "pool closed", errorMessage(t, resps[0]))
	assert.Equal(t, 1, b.submitted)
}

func TestRecoverID(t *testing.T) {
	id, err := recoverID(`{"id":"x","type":1}`)
	assert.NoError(t, err)
	assert.Equal(t, "x", id)

	id, err = recoverID(`{"id":5}`)
	assert.ErrorIs(t, err, errNonStringID)
	assert.Empty(t, id)

	id, err = recoverID(`not json`)
	assert.NoError(t, err)
	assert.Empty(t, id)
}
