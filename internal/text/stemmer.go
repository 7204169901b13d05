package text

import "strings"

// suffixRules are tried in order; the first matching rule is applied once.
var suffixRules = []struct {
	suffix string
	skip   func(word string) bool
}{
	{suffix: "ing"},
	{suffix: "ed"},
	{suffix: "es"},
	{suffix: "s", skip: func(word string) bool { return strings.HasSuffix(word, "ss") }},
	{suffix: "ment"},
	{suffix: "tion"},
}

// Stem strips a single inflectional or derivational suffix.
//
// There is no double-consonant or vowel restoration, so "running" becomes
// "runn" and "station" becomes "sta".
func Stem(word string) string {
	for _, r := range suffixRules {
		if !strings.HasSuffix(word, r.suffix) {
			continue
		}
		if r.skip != nil && r.skip(word) {
			continue
		}
		return word[:len(word)-len(r.suffix)]
	}
	return word
}
