package tfidf

import (
	"errors"
	"math"

	"cvscore/internal/text"
	"cvscore/internal/vecmath"
)

var (
	// ErrFrozen is returned when training is attempted after CalculateIDF.
	ErrFrozen = errors.New("tfidf: model already finalised")
	// ErrEmptyCorpus is returned by Prepare when there is nothing to train on.
	ErrEmptyCorpus = errors.New("tfidf: empty corpus")
)

// Vectoriser is a TF-IDF model trained once over a small corpus.
// Vocabulary indices are assigned in first-seen order and never change.
type Vectoriser struct {
	vocabulary map[string]int
	docFreq    map[string]int
	idf        map[string]float64
	docCount   int
	finalised  bool
}

// NewVectoriser creates an untrained vectoriser.
func NewVectoriser() *Vectoriser {
	return &Vectoriser{
		vocabulary: make(map[string]int),
		docFreq:    make(map[string]int),
		idf:        make(map[string]float64),
	}
}

// AddDocument counts one training document. Each distinct stem in it gets a
// vocabulary index on first sight and its document frequency bumped by one.
func (v *Vectoriser) AddDocument(doc string) error {
	if v.finalised {
		return ErrFrozen
	}
	v.docCount++
	seen := make(map[string]struct{})
	for _, tok := range text.Tokenize(doc) {
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		if _, ok := v.vocabulary[tok]; !ok {
			v.vocabulary[tok] = len(v.vocabulary)
		}
		v.docFreq[tok]++
	}
	return nil
}

// CalculateIDF freezes the model, setting idf = ln(N/df) for every vocabulary
// entry. There is no smoothing: a stem present in every document gets 0.
func (v *Vectoriser) CalculateIDF() error {
	if v.finalised {
		return ErrFrozen
	}
	n := float64(v.docCount)
	for tok, df := range v.docFreq {
		v.idf[tok] = math.Log(n / float64(df))
	}
	v.finalised = true
	return nil
}

// IDF returns the inverse document frequency of a stem and whether it has one.
func (v *Vectoriser) IDF(stem string) (float64, bool) {
	w, ok := v.idf[stem]
	return w, ok
}

// VocabularySize returns the number of distinct trained stems.
func (v *Vectoriser) VocabularySize() int { return len(v.vocabulary) }

// Vectorise returns the L2-normalised TF-IDF vector of doc. Term frequency is
// taken over every token of doc, including ones the model has never seen;
// unseen stems contribute nothing.
func (v *Vectoriser) Vectorise(doc string) []float64 {
	vec := make([]float64, len(v.vocabulary))
	tokens := text.Tokenize(doc)
	if len(tokens) == 0 {
		return vec
	}
	counts := make(map[string]int, len(tokens))
	for _, tok := range tokens {
		counts[tok]++
	}
	total := float64(len(tokens))
	for tok, c := range counts {
		idx, ok := v.vocabulary[tok]
		if !ok {
			continue
		}
		idf, ok := v.idf[tok]
		if !ok {
			continue
		}
		vec[idx] = float64(c) / total * idf
	}
	return vecmath.Normalize(vec)
}

// Name returns the identifier of this embedder implementation.
func (v *Vectoriser) Name() string { return "tfidf" }

// Prepare trains on every document of corpus and finalises the model.
func (v *Vectoriser) Prepare(corpus []string) error {
	if len(corpus) == 0 {
		return ErrEmptyCorpus
	}
	for _, doc := range corpus {
		if err := v.AddDocument(doc); err != nil {
			return err
		}
	}
	return v.CalculateIDF()
}

// Dimension returns the length of every vector this model produces.
func (v *Vectoriser) Dimension() int { return v.VocabularySize() }

// Embed is Vectorise behind the domain.Embedder contract.
func (v *Vectoriser) Embed(doc string) ([]float64, error) {
	return v.Vectorise(doc), nil
}
