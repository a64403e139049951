// Package scorer implements the hybrid chunk score of §4.E: original-term,
// semantic-expansion, and proximity signals summed into one relevance
// score per chunk. The substring-matching approach is grounded on the
// teacher's lexical fallback search (RAGServiceImpl.lexicalSearch /
// overlapOchiai), generalized from a single token-overlap count to a
// three-component weighted breakdown with an offset-based proximity bonus.
//
// Per-chunk scoring within one topic can run concurrently (§5); ScoreAll
// fans the work out with golang.org/x/sync/errgroup and a bounded worker
// pool, collecting results back into input order so ranking downstream
// stays deterministic.
package scorer

import (
	"context"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/kxddry/ragcut/internal/domain"
)

// Config are the tunables from §4.E / §6.
type Config struct {
	OriginalTermWeight      float64
	SemanticWeight          float64
	ProximityWeight         float64
	HighSimilarityThreshold float64
	ProximityDistance       int
}

// DefaultConfig returns the §6 enumerated defaults.
func DefaultConfig() Config {
	return Config{
		OriginalTermWeight:      100,
		SemanticWeight:          30,
		ProximityWeight:         50,
		HighSimilarityThreshold: 0.7,
		ProximityDistance:       200,
	}
}

// maxWorkers bounds the errgroup's concurrency for per-chunk scoring.
const maxWorkers = 8

// Score computes the breakdown for one chunk against one expanded concept.
func Score(content string, concept *domain.ExpandedConcept, cfg Config) domain.ScoreBreakdown {
	lower := strings.ToLower(content)

	terms := make([]string, 0, len(concept.Terms))
	for t := range concept.Terms {
		terms = append(terms, t)
	}
	sort.Strings(terms)

	var breakdown domain.ScoreBreakdown
	var allOffsets []int

	for _, term := range terms {
		offsets := findAllOffsets(lower, term)
		if len(offsets) == 0 {
			continue
		}
		breakdown.MatchedTerms = append(breakdown.MatchedTerms, term)
		allOffsets = append(allOffsets, offsets...)

		meta := concept.TermMetadata[term]
		switch {
		case meta.IsOriginal:
			breakdown.OriginalTermScore += cfg.OriginalTermWeight
			breakdown.MatchedOriginalTerms = append(breakdown.MatchedOriginalTerms, term)
		case meta.Similarity >= cfg.HighSimilarityThreshold:
			breakdown.SemanticScore += cfg.SemanticWeight * meta.Similarity
		default:
			breakdown.SemanticScore += cfg.SemanticWeight * meta.Similarity * 0.5
		}
	}

	breakdown.MatchCount = len(breakdown.MatchedTerms)

	if breakdown.MatchCount >= 2 {
		sort.Ints(allOffsets)
		minGap := allOffsets[1] - allOffsets[0]
		for i := 2; i < len(allOffsets); i++ {
			gap := allOffsets[i] - allOffsets[i-1]
			if gap < minGap {
				minGap = gap
			}
		}
		if cfg.ProximityDistance > 0 && minGap <= cfg.ProximityDistance {
			breakdown.ProximityScore = cfg.ProximityWeight * (1 - float64(minGap)/float64(cfg.ProximityDistance))
		}
	}

	return breakdown
}

// findAllOffsets returns every non-overlapping occurrence offset of term
// within lowered content.
func findAllOffsets(lowered, term string) []int {
	if term == "" {
		return nil
	}
	var offsets []int
	start := 0
	for {
		i := strings.Index(lowered[start:], term)
		if i < 0 {
			break
		}
		pos := start + i
		offsets = append(offsets, pos)
		start = pos + len(term)
		if start >= len(lowered) {
			break
		}
	}
	return offsets
}

// ScoreAll scores every chunk against concept, optionally in parallel,
// returning ScoredChunks in the same order as chunks. ctx cancellation
// aborts outstanding work and returns the context's error.
func ScoreAll(ctx context.Context, chunks []domain.Chunk, docNames map[int]string, concept *domain.ExpandedConcept, cfg Config) ([]domain.ScoredChunk, error) {
	out := make([]domain.ScoredChunk, len(chunks))
	g, ctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, maxWorkers)

	for i := range chunks {
		i := i
		select {
		case <-ctx.Done():
			_ = g.Wait()
			return nil, ctx.Err()
		default:
		}
		sem <- struct{}{}
		g.Go(func() error {
			defer func() { <-sem }()
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			chunk := chunks[i]
			breakdown := Score(chunk.Content, concept, cfg)
			out[i] = domain.ScoredChunk{
				Chunk:          chunk,
				DocumentName:   docNames[chunk.DocumentID],
				RelevanceScore: breakdown.Total(),
				Breakdown:      breakdown,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// FilterAndRank drops chunks below minimumScoreThreshold and sorts the
// remainder descending by score, ties broken ascending by
// (documentId, chunkNumber) for determinism (§4.E Ranking).
func FilterAndRank(scored []domain.ScoredChunk, minimumScoreThreshold float64) []domain.ScoredChunk {
	kept := make([]domain.ScoredChunk, 0, len(scored))
	for _, s := range scored {
		if s.RelevanceScore >= minimumScoreThreshold {
			kept = append(kept, s)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].RelevanceScore != kept[j].RelevanceScore {
			return kept[i].RelevanceScore > kept[j].RelevanceScore
		}
		if kept[i].Chunk.DocumentID != kept[j].Chunk.DocumentID {
			return kept[i].Chunk.DocumentID < kept[j].Chunk.DocumentID
		}
		return kept[i].Chunk.ChunkNumber < kept[j].Chunk.ChunkNumber
	})
	return kept
}
