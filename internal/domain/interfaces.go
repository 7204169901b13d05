package domain

import "context"

// Document is a single seed-corpus entry.
type Document struct {
	Index int
	Text  string
}

// SearchResult is a seed document with its similarity to a query vector.
type SearchResult struct {
	Document Document
	Score    float64
}

// RelevanceResult is the outcome of analyze_relevance.
type RelevanceResult struct {
	Similarity int `json:"similarity"`
}

// SuggestionResult is the outcome of suggest_keywords.
type SuggestionResult struct {
	Match    string   `json:"match"`
	Score    float64  `json:"score"`
	Keywords []string `json:"keywords"`
}

// ComplexityResult is the outcome of analyze_complexity.
type ComplexityResult struct {
	Score int    `json:"score"`
	Level string `json:"level"`
}

// Embedder converts free text into a numeric vector representation.
// Implementations may require a preparation phase over the corpus.
type Embedder interface {
	Name() string
	Prepare(corpus []string) error
	Dimension() int
	Embed(text string) ([]float64, error)
}

// Scorer defines the scoring operations exposed to front ends.
type Scorer interface {
	Relevance(ctx context.Context, cvText, jobText string) (RelevanceResult, error)
	Suggest(ctx context.Context, text string) (SuggestionResult, error)
	Complexity(ctx context.Context, text string) (ComplexityResult, error)
}
