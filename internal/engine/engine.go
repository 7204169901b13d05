// Package engine holds the frozen scoring model and dispatches protocol
// requests against it.
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"cvscore/internal/domain"
	"cvscore/internal/embedding/tfidf"
	"cvscore/internal/readability"
	"cvscore/internal/vecmath"
	"cvscore/internal/vectorstore"
	"cvscore/internal/vectorstore/memory"
)

var (
	// ErrNotReady is returned when a request reaches an engine that was not built by New.
	ErrNotReady = errors.New("engine: not ready")
	// ErrUnknownCommand is returned for an unrecognised command tag.
	ErrUnknownCommand = errors.New("engine: unknown command")
)

type state int

const (
	stateUninitialized state = iota
	stateReady
)

// Engine is a TF-IDF model trained once on a fixed corpus. After New returns
// nothing in it changes, so one Engine may serve any number of requests.
// The zero value is uninitialised and rejects every request.
type Engine struct {
	state    state
	model    domain.Embedder
	seeds    vectorstore.Storage
	analyzer *readability.Analyzer
	logger   *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithEmbedder replaces the default TF-IDF model. It must be untrained.
// A nil embedder keeps the default.
func WithEmbedder(m domain.Embedder) Option {
	return func(e *Engine) {
		if m != nil {
			e.model = m
		}
	}
}

// New trains a model on corpus and indexes every corpus document.
func New(corpus []string, opts ...Option) (*Engine, error) {
	e := &Engine{
		model:    tfidf.NewVectoriser(),
		seeds:    memory.NewStorage(),
		analyzer: readability.NewAnalyzer(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}

	if err := e.model.Prepare(corpus); err != nil {
		return nil, fmt.Errorf("engine: train: %w", err)
	}
	if err := e.seeds.Init(e.model.Dimension()); err != nil {
		return nil, fmt.Errorf("engine: index: %w", err)
	}
	docs := make([]domain.Document, len(corpus))
	vectors := make([][]float64, len(corpus))
	for i, text := range corpus {
		vec, err := e.model.Embed(text)
		if err != nil {
			return nil, fmt.Errorf("engine: embed seed %d: %w", i, err)
		}
		docs[i] = domain.Document{Index: i, Text: text}
		vectors[i] = vec
	}
	if err := e.seeds.Upsert(docs, vectors); err != nil {
		return nil, fmt.Errorf("engine: index: %w", err)
	}

	e.state = stateReady
	e.logger.Debug("engine ready",
		slog.String("model", e.model.Name()),
		slog.Int("documents", len(corpus)),
		slog.Int("vocabulary", e.model.Dimension()),
	)
	return e, nil
}

// Ready reports whether the model has been trained.
func (e *Engine) Ready() bool { return e != nil && e.state == stateReady }

// VocabularySize returns the dimension of every vector the engine produces.
func (e *Engine) VocabularySize() int {
	if !e.Ready() {
		return 0
	}
	return e.model.Dimension()
}

// AnalyzeRelevance scores how close cvText is to jobText, 0–100.
func (e *Engine) AnalyzeRelevance(cvText, jobText string) (domain.RelevanceResult, error) {
	if !e.Ready() {
		return domain.RelevanceResult{}, ErrNotReady
	}
	a, err := e.model.Embed(cvText)
	if err != nil {
		return domain.RelevanceResult{}, err
	}
	b, err := e.model.Embed(jobText)
	if err != nil {
		return domain.RelevanceResult{}, err
	}
	sim, err := vecmath.CosineSimilarity(a, b)
	if err != nil {
		return domain.RelevanceResult{}, err
	}
	return domain.RelevanceResult{Similarity: int(math.Round(sim * 100))}, nil
}

// SuggestKeywords finds the corpus document closest to text and returns the
// words of that document that text does not already contain. Containment is a
// case-insensitive substring test on the raw text.
func (e *Engine) SuggestKeywords(text string) (domain.SuggestionResult, error) {
	if !e.Ready() {
		return domain.SuggestionResult{}, ErrNotReady
	}
	vec, err := e.model.Embed(text)
	if err != nil {
		return domain.SuggestionResult{}, err
	}
	hits, err := e.seeds.Search(vec, 1)
	if err != nil {
		return domain.SuggestionResult{}, err
	}
	if len(hits) == 0 {
		return domain.SuggestionResult{}, errors.New("engine: empty seed index")
	}
	best := hits[0]

	lower := strings.ToLower(text)
	keywords := []string{}
	for _, w := range strings.Fields(best.Document.Text) {
		if !strings.Contains(lower, strings.ToLower(w)) {
			keywords = append(keywords, w)
		}
	}
	return domain.SuggestionResult{Match: best.Document.Text, Score: best.Score, Keywords: keywords}, nil
}

// AnalyzeComplexity estimates text density. It does not use the model.
func (e *Engine) AnalyzeComplexity(text string) (domain.ComplexityResult, error) {
	if !e.Ready() {
		return domain.ComplexityResult{}, ErrNotReady
	}
	return e.analyzer.Analyze(text), nil
}

func (e *Engine) log() *slog.Logger {
	if e == nil || e.logger == nil {
		return slog.Default()
	}
	return e.logger
}
