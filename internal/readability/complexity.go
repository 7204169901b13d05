// Package readability estimates how dense a piece of prose is.
package readability

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"cvscore/internal/domain"
)

// Layout levels reported for a complexity score.
const (
	LevelCompact     = "compact"
	LevelComfortable = "comfortable"
	LevelSpacious    = "spacious"
)

const (
	sentenceWeight = 3.0
	wordWeight     = 5.0
	compactBelow   = 30
	spaciousAbove  = 60
)

// Analyzer scores text by average sentence and word length.
type Analyzer struct {
	splitter *regexp.Regexp
}

// NewAnalyzer returns an Analyzer that ends sentences at runs of . ! or ?.
func NewAnalyzer() *Analyzer {
	return &Analyzer{splitter: regexp.MustCompile(`[.!?]+`)}
}

// Sentences splits text on runs of terminators and drops blank pieces.
func (a *Analyzer) Sentences(text string) []string {
	parts := a.splitter.Split(text, -1)
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Analyze returns a 0–100 score and its layout level.
func (a *Analyzer) Analyze(text string) domain.ComplexityResult {
	sentences := a.Sentences(text)
	words := strings.Fields(text)

	var avgSentence, avgWord float64
	if len(sentences) > 0 {
		avgSentence = float64(len(words)) / float64(len(sentences))
	}
	if len(words) > 0 {
		chars := 0
		for _, w := range words {
			chars += utf8.RuneCountInString(w)
		}
		avgWord = float64(chars) / float64(len(words))
	}

	raw := avgSentence*sentenceWeight + avgWord*wordWeight
	score := int(math.Round(math.Max(0, math.Min(100, raw))))
	return domain.ComplexityResult{Score: score, Level: Level(score)}
}

// Level maps a score to its layout level.
func Level(score int) string {
	switch {
	case score < compactBelow:
		return LevelCompact
	case score > spaciousAbove:
		return LevelSpacious
	default:
		return LevelComfortable
	}
}
