package memory

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"cvscore/internal/domain"
	"cvscore/internal/vecmath"
)

// Storage is a simple in-memory vector store using brute-force cosine similarity.
type Storage struct {
	mu        sync.RWMutex
	dimension int
	vectors   [][]float64
	docs      []domain.Document
}

// NewStorage returns an empty store; call Init before Upsert.
func NewStorage() *Storage { return &Storage{} }

// Init sets the vector dimension and drops any stored documents.
func (s *Storage) Init(dimension int) error {
	if dimension < 0 {
		return errors.New("invalid dimension")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dimension = dimension
	s.vectors = nil
	s.docs = nil
	return nil
}

// Upsert appends docs with their vectors, which must match the store dimension.
func (s *Storage) Upsert(docs []domain.Document, vectors [][]float64) error {
	if len(docs) != len(vectors) {
		return errors.New("documents and vectors length mismatch")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range vectors {
		if len(v) != s.dimension {
			return fmt.Errorf("%w: vector %d, store %d", vecmath.ErrDimensionMismatch, len(v), s.dimension)
		}
	}
	s.docs = append(s.docs, docs...)
	s.vectors = append(s.vectors, vectors...)
	return nil
}

// Search ranks stored documents by cosine similarity, highest first. Equal
// scores keep insertion order. topK <= 0 returns every document.
func (s *Storage) Search(vector []float64, topK int) ([]domain.SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	results := make([]domain.SearchResult, len(s.vectors))
	for i := range s.vectors {
		score, err := vecmath.CosineSimilarity(s.vectors[i], vector)
		if err != nil {
			return nil, err
		}
		results[i] = domain.SearchResult{Document: s.docs[i], Score: score}
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if topK > 0 && topK < len(results) {
		results = results[:topK]
	}
	return results, nil
}

// Len returns the number of stored documents.
func (s *Storage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}
