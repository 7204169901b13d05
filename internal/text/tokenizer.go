// Package text turns raw résumé and job text into normalised stems.
package text

import (
	"strings"
	"unicode"
)

// minTokenLen is the shortest token kept; shorter ones are noise.
const minTokenLen = 3

// stopWords covers English and French articles, conjunctions, auxiliaries
// and pronouns. Only entries of minTokenLen or more can ever match.
var stopWords = map[string]bool{
	// English
	"the": true, "and": true, "but": true, "for": true, "nor": true, "yet": true,
	"are": true, "was": true, "were": true, "been": true, "being": true,
	"have": true, "has": true, "had": true, "does": true, "did": true,
	"will": true, "would": true, "could": true, "should": true, "can": true,
	"may": true, "might": true, "must": true, "shall": true,
	"this": true, "that": true, "these": true, "those": true,
	"you": true, "your": true, "yours": true, "our": true, "ours": true,
	"his": true, "her": true, "hers": true, "its": true, "she": true,
	"they": true, "them": true, "their": true, "theirs": true,
	"who": true, "whom": true, "which": true, "what": true,
	"with": true, "from": true, "into": true, "onto": true, "about": true,
	"than": true, "then": true, "also": true, "not": true, "all": true,
	// French
	"les": true, "des": true, "une": true, "est": true, "sont": true,
	"pour": true, "dans": true, "avec": true, "par": true, "sur": true,
	"sous": true, "qui": true, "que": true, "quoi": true, "dont": true,
	"mais": true, "donc": true, "car": true, "ainsi": true,
	"nous": true, "vous": true, "ils": true, "elle": true, "elles": true,
	"leur": true, "leurs": true, "son": true, "ses": true, "mes": true,
	"tes": true, "notre": true, "votre": true, "nos": true, "vos": true,
	"aux": true, "cette": true, "ces": true, "cet": true,
	"ont": true, "avoir": true, "etre": true, "fait": true, "sera": true,
	"mon": true, "ton": true, "moi": true, "toi": true, "lui": true,
}

// IsStopWord reports whether word is in the bilingual stopword set.
func IsStopWord(word string) bool { return stopWords[word] }

// Tokenize lower-cases text, strips everything except ASCII letters, digits,
// whitespace and hyphens, drops short tokens and stopwords, and stems the rest.
// The result is always a fresh slice, never a lazy sequence.
func Tokenize(text string) []string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			return r
		case unicode.IsSpace(r):
			return r
		default:
			return ' '
		}
	}, strings.ToLower(text))

	fields := strings.Fields(cleaned)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) < minTokenLen || IsStopWord(f) {
			continue
		}
		tokens = append(tokens, Stem(f))
	}
	return tokens
}

// GenerateNGrams returns every contiguous window of n tokens joined by a
// single space. Fewer than n tokens (or n < 1) yields an empty slice.
func GenerateNGrams(tokens []string, n int) []string {
	if n < 1 || len(tokens) < n {
		return []string{}
	}
	grams := make([]string, 0, len(tokens)-n+1)
	for i := 0; i+n <= len(tokens); i++ {
		grams = append(grams, strings.Join(tokens[i:i+n], " "))
	}
	return grams
}
