// Package tokenizer implements the text → token pipeline described in
// §4.A: lowercase, pattern-match, stopword-filter, then derive bigrams and
// trigrams from the surviving unigrams. It is grounded on the teacher's
// regexp-driven tokenizers (TFIDFEmbedder.tokenize, the sentence splitter)
// generalized to also emit n-grams and offsets.
package tokenizer

import (
	"regexp"
	"strings"

	"github.com/kxddry/ragcut/internal/domain"
)

// tokenPattern matches a letter followed by any number of letters,
// digits, or hyphens, case-insensitively over the Latin range.
var tokenPattern = regexp.MustCompile(`[a-zA-Z][a-zA-Z0-9-]*`)

// Tokenize lowercases text, extracts surviving unigram TokenOccurrences,
// and returns them alongside the bigrams and trigrams derived from them.
// Offsets are measured on the lowercased text, which the ASCII-range
// token pattern keeps byte-aligned with the original.
func Tokenize(text string) (unigrams, bigrams, trigrams []domain.TokenOccurrence) {
	lower := strings.ToLower(text)
	locs := tokenPattern.FindAllStringIndex(lower, -1)
	for _, loc := range locs {
		term := lower[loc[0]:loc[1]]
		if len(term) < 2 || IsStopword(term) {
			continue
		}
		unigrams = append(unigrams, domain.TokenOccurrence{Term: term, Offset: loc[0]})
	}
	bigrams = ngrams(unigrams, 2)
	trigrams = ngrams(unigrams, 3)
	return unigrams, bigrams, trigrams
}

// ngrams joins n consecutive surviving tokens with a single space; the
// n-gram's position is its first constituent token's position. N-grams do
// not re-apply the stopword filter (§4.A).
func ngrams(tokens []domain.TokenOccurrence, n int) []domain.TokenOccurrence {
	if len(tokens) < n {
		return nil
	}
	out := make([]domain.TokenOccurrence, 0, len(tokens)-n+1)
	for i := 0; i+n <= len(tokens); i++ {
		parts := make([]string, n)
		for j := 0; j < n; j++ {
			parts[j] = tokens[i+j].Term
		}
		out = append(out, domain.TokenOccurrence{
			Term:   strings.Join(parts, " "),
			Offset: tokens[i].Offset,
		})
	}
	return out
}
