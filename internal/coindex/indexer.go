// Package coindex builds the per-document sparse co-occurrence index
// described in §4.B: unigrams, bigrams, and trigrams are concatenated
// into one positional sequence (§9 open question, resolved as (a): exact
// parity with that ordering), frequency-filtered, optionally capped, and
// then windowed into a term×term count matrix.
//
// The vocabulary bookkeeping (deterministic frequency-then-term sort,
// frequency cap, plain unsmoothed counting) is grounded on the teacher's TFIDFEmbedder.Prepare, adapted
// from a document-frequency table to a windowed co-occurrence matrix.
package coindex

import (
	"sort"

	"github.com/kxddry/ragcut/internal/domain"
	"github.com/kxddry/ragcut/internal/tokenizer"
)

// Config are the tunables from §4.B / §6.
type Config struct {
	WindowSize   int
	MinFrequency int
	MaxTerms     int
}

// DefaultConfig returns the §6 enumerated defaults.
func DefaultConfig() Config {
	return Config{WindowSize: 7, MinFrequency: 2, MaxTerms: 10000}
}

// Build constructs a CoOccurrenceIndex for the full text of one document.
// Empty text yields an empty index, never an error (§4.B Failure).
func Build(text string, cfg Config) *domain.CoOccurrenceIndex {
	idx := domain.NewCoOccurrenceIndex()
	if text == "" {
		return idx
	}

	unigrams, bigrams, trigrams := tokenizer.Tokenize(text)
	seq := make([]domain.TokenOccurrence, 0, len(unigrams)+len(bigrams)+len(trigrams))
	seq = append(seq, unigrams...)
	seq = append(seq, bigrams...)
	seq = append(seq, trigrams...)
	if len(seq) == 0 {
		return idx
	}

	freq := make(map[string]int, len(seq))
	for _, t := range seq {
		freq[t.Term]++
	}

	kept := make(map[string]struct{})
	for term, c := range freq {
		if c >= cfg.MinFrequency {
			kept[term] = struct{}{}
		}
	}

	if cfg.MaxTerms > 0 && len(kept) > cfg.MaxTerms {
		type termFreq struct {
			term string
			freq int
		}
		ranked := make([]termFreq, 0, len(kept))
		for term := range kept {
			ranked = append(ranked, termFreq{term, freq[term]})
		}
		sort.Slice(ranked, func(i, j int) bool {
			if ranked[i].freq != ranked[j].freq {
				return ranked[i].freq > ranked[j].freq
			}
			return ranked[i].term < ranked[j].term
		})
		kept = make(map[string]struct{}, cfg.MaxTerms)
		for i := 0; i < cfg.MaxTerms; i++ {
			kept[ranked[i].term] = struct{}{}
		}
	}

	filtered := make([]domain.TokenOccurrence, 0, len(seq))
	for _, t := range seq {
		if _, ok := kept[t.Term]; ok {
			filtered = append(filtered, t)
		}
	}

	windowSize := cfg.WindowSize
	if windowSize <= 0 {
		windowSize = DefaultConfig().WindowSize
	}

	for i := range filtered {
		center := filtered[i].Term
		lo := i - windowSize
		if lo < 0 {
			lo = 0
		}
		hi := i + windowSize
		if hi >= len(filtered) {
			hi = len(filtered) - 1
		}
		for j := lo; j <= hi; j++ {
			if j == i {
				continue
			}
			other := filtered[j].Term
			if other == center {
				continue
			}
			row, ok := idx.Matrix[center]
			if !ok {
				row = make(map[string]int)
				idx.Matrix[center] = row
			}
			row[other]++
		}
	}

	for term := range kept {
		idx.TermFrequencies[term] = freq[term]
	}
	idx.TotalTerms = len(kept)
	return idx
}
