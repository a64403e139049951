// Package spatial implements the chunk-index variance classifier of
// §4.F: ranked chunks for a topic are classified as concentrated, spread,
// or moderate, and optionally filtered down to only the chunks matching
// the user's requested spatial mode.
package spatial

import (
	"math"

	"github.com/kxddry/ragcut/internal/domain"
)

// Config carries the variance cutoffs (§9: tunable, not semantics).
type Config struct {
	ConcentratedBelow float64
	SpreadAbove       float64
}

// DefaultConfig returns the magic-number defaults named in §4.F.
func DefaultConfig() Config {
	return Config{ConcentratedBelow: 10, SpreadAbove: 50}
}

// Classify computes the spatial pattern of a topic's ranked chunks from
// the standard deviation of their chunkNumber.
func Classify(chunks []domain.ScoredChunk, cfg Config) domain.SpatialPattern {
	switch len(chunks) {
	case 0:
		return domain.SpatialNone
	case 1:
		return domain.SpatialSingle
	}
	variance := stddev(chunks)
	switch {
	case variance < cfg.ConcentratedBelow:
		return domain.SpatialConcentrated
	case variance > cfg.SpreadAbove:
		return domain.SpatialSpread
	default:
		return domain.SpatialModerate
	}
}

func stddev(chunks []domain.ScoredChunk) float64 {
	n := float64(len(chunks))
	var sum float64
	for _, c := range chunks {
		sum += float64(c.Chunk.ChunkNumber)
	}
	mean := sum / n
	var sqDiff float64
	for _, c := range chunks {
		d := float64(c.Chunk.ChunkNumber) - mean
		sqDiff += d * d
	}
	return math.Sqrt(sqDiff / n)
}

// Filter applies the user-selected mode (§4.F): auto passes chunks
// through unchanged; concentrated/spread keep all chunks only when the
// computed pattern matches, otherwise returning an empty slice.
func Filter(chunks []domain.ScoredChunk, mode domain.SpatialMode, pattern domain.SpatialPattern) []domain.ScoredChunk {
	switch mode {
	case domain.SpatialModeConcentrated:
		if pattern != domain.SpatialConcentrated {
			return nil
		}
	case domain.SpatialModeSpread:
		if pattern != domain.SpatialSpread {
			return nil
		}
	}
	return chunks
}
