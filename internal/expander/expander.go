// Package expander implements query expansion (§4.D): the literal terms
// of a topic's question are looked up in each active document's
// co-occurrence index, merged into top-K similarity neighbors, and
// collapsed into one ExpandedConcept per topic, keeping per-term the
// maximum similarity observed across documents.
package expander

import (
	"context"
	"fmt"

	"github.com/kxddry/ragcut/internal/domain"
	"github.com/kxddry/ragcut/internal/similarity"
	"github.com/kxddry/ragcut/internal/tokenizer"
)

// Config are the tunables from §4.D / §6.
type Config struct {
	MaxExpansions int
	MinSimilarity float64
}

// DefaultConfig returns the §6 enumerated defaults.
func DefaultConfig() Config {
	return Config{MaxExpansions: 5, MinSimilarity: 0.3}
}

// MissingIndexNotifier is invoked once per document whose co-occurrence
// index is absent, so the caller can log the §7 IndexMissing degradation
// without the expander importing a logger directly.
type MissingIndexNotifier func(docID int)

// Expand builds the single ExpandedConcept for one topic's question over
// the given set of active document IDs (§4.D, orchestration-level
// collapse). A storage read error aborts and is returned wrapped (with the
// document ID, via %w) so the caller can classify it as StorageUnavailable.
func Expand(ctx context.Context, question string, docIDs []int, store domain.Storage, cfg Config, onMissing MissingIndexNotifier) (*domain.ExpandedConcept, error) {
	concept := domain.NewExpandedConcept(question)

	unigrams, bigrams, trigrams := tokenizer.Tokenize(question)
	originalTerms := dedupTerms(unigrams, bigrams, trigrams)
	for _, t := range originalTerms {
		concept.OriginalTerms[t] = struct{}{}
		concept.Terms[t] = struct{}{}
	}
	for t := range concept.OriginalTerms {
		concept.TermMetadata[t] = domain.TermMetadata{Similarity: 1.0, IsOriginal: true}
	}

	anyIndex := false
	maxSim := make(map[string]float64)

	for _, docID := range docIDs {
		idx, err := store.GetVectors(ctx, docID)
		if err != nil {
			return nil, fmt.Errorf("expander: get vectors for doc %d: %w", docID, err)
		}
		if idx == nil {
			if onMissing != nil {
				onMissing(docID)
			}
			continue
		}
		anyIndex = true
		for term := range concept.OriginalTerms {
			if _, ok := idx.Matrix[term]; !ok {
				continue
			}
			neighbors := similarity.FindSimilarTerms(term, idx.Matrix, cfg.MaxExpansions, cfg.MinSimilarity)
			for _, n := range neighbors {
				if cur, ok := maxSim[n.Term]; !ok || n.Similarity > cur {
					maxSim[n.Term] = n.Similarity
				}
			}
		}
	}

	if !anyIndex {
		// §4.D Failure: no documents have indices — degrade to original
		// terms only, each at similarity 1.0.
		return concept, nil
	}

	for term, sim := range maxSim {
		if _, isOriginal := concept.OriginalTerms[term]; isOriginal {
			continue
		}
		concept.Terms[term] = struct{}{}
		if existing, ok := concept.TermMetadata[term]; !ok || sim > existing.Similarity {
			concept.TermMetadata[term] = domain.TermMetadata{Similarity: sim, IsOriginal: false}
		}
	}

	return concept, nil
}

func dedupTerms(unigrams, bigrams, trigrams []domain.TokenOccurrence) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, group := range [][]domain.TokenOccurrence{unigrams, bigrams, trigrams} {
		for _, t := range group {
			if _, ok := seen[t.Term]; ok {
				continue
			}
			seen[t.Term] = struct{}{}
			out = append(out, t.Term)
		}
	}
	return out
}
