package service

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"

	"cvscore/internal/domain"
	"cvscore/internal/protocol"
)

// Caller is the request side of a worker pool.
type Caller interface {
	Call(ctx context.Context, cmd protocol.Command, payload any) (protocol.Response, error)
}

// Recorder persists completed round trips.
type Recorder interface {
	Record(ctx context.Context, cmd protocol.Command, resp protocol.Response) error
}

// ScoringServiceImpl implements domain.Scorer on top of the async protocol.
// Successful results are memoised; the model is frozen, so they never go stale.
type ScoringServiceImpl struct {
	caller   Caller
	cache    *lru.Cache[string, protocol.Response]
	recorder Recorder
	logger   *slog.Logger
}

// NewScoringService wires a caller with an optional cache (cacheSize > 0) and
// an optional recorder (may be nil).
func NewScoringService(caller Caller, cacheSize int, recorder Recorder, logger *slog.Logger) (*ScoringServiceImpl, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &ScoringServiceImpl{caller: caller, recorder: recorder, logger: logger}
	if cacheSize > 0 {
		cache, err := lru.New[string, protocol.Response](cacheSize)
		if err != nil {
			return nil, fmt.Errorf("service: cache: %w", err)
		}
		s.cache = cache
	}
	return s, nil
}

func (s *ScoringServiceImpl) Relevance(ctx context.Context, cvText, jobText string) (domain.RelevanceResult, error) {
	var out domain.RelevanceResult
	err := s.call(ctx, protocol.CommandAnalyzeRelevance, protocol.RelevancePayload{CVText: cvText, JobText: jobText}, &out)
	return out, err
}

func (s *ScoringServiceImpl) Suggest(ctx context.Context, text string) (domain.SuggestionResult, error) {
	var out domain.SuggestionResult
	err := s.call(ctx, protocol.CommandSuggestKeywords, protocol.TextPayload{Text: text}, &out)
	return out, err
}

func (s *ScoringServiceImpl) Complexity(ctx context.Context, text string) (domain.ComplexityResult, error) {
	var out domain.ComplexityResult
	err := s.call(ctx, protocol.CommandAnalyzeComplexity, protocol.TextPayload{Text: text}, &out)
	return out, err
}

func (s *ScoringServiceImpl) call(ctx context.Context, cmd protocol.Command, payload, out any) error {
	key, err := cacheKey(cmd, payload)
	if err != nil {
		return err
	}
	if s.cache != nil {
		if resp, ok := s.cache.Get(key); ok {
			return resp.Decode(out)
		}
	}

	resp, err := s.caller.Call(ctx, cmd, payload)
	if err != nil {
		return err
	}
	if s.recorder != nil {
		if err := s.recorder.Record(ctx, cmd, resp); err != nil {
			s.logger.Warn("journal write failed", slog.String("id", resp.ID), slog.Any("error", err))
		}
	}
	if s.cache != nil && resp.Type != protocol.TypeError {
		s.cache.Add(key, resp)
	}
	return resp.Decode(out)
}

func cacheKey(cmd protocol.Command, payload any) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("service: encode %s payload: %w", cmd, err)
	}
	return string(cmd) + ":" + hashString(string(data)), nil
}

func hashString(s string) string {
	h := sha1.Sum([]byte(s))
	return hex.EncodeToString(h[:8])
}
