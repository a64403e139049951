// Package packer implements the topic-grouped packing of §4.G: ranked,
// filtered chunks for each topic are grouped into chronological
// TopicSections and greedily packed into size-bounded SuperChunks, with
// continuation sections opened whenever a topic spans more than one
// SuperChunk.
//
// Size accounting during packing uses the exact same component renderers
// as internal/formatter so the §4.G invariant — rendered size never
// exceeds maxCharsPerSuperChunk except for a lone oversized chunk — holds
// for the text formatter.RenderAll eventually produces. Because the
// super-chunk wrapper tags embed the final super-chunk count (unknown
// until packing finishes), the packer reserves a fixed safety margin
// sized for up to 9999 super chunks; for any realistic corpus this repo
// will ever paste-bundle, that margin is slack, never a shortfall.
package packer

import (
	"fmt"
	"sort"

	"github.com/kxddry/ragcut/internal/domain"
	"github.com/kxddry/ragcut/internal/formatter"
)

// Config are the packer's tunables from §4.G / §6.
type Config struct {
	MaxCharsPerSuperChunk  int
	LimitSuperChunks       bool
	MaxSuperChunksPerTopic int
	FailOnOversizedChunk   bool
}

// OversizedChunkNotifier is invoked whenever a single chunk's own
// envelope (plus unavoidable headers) exceeds MaxCharsPerSuperChunk, so
// the caller can log the §7 Oversized Chunk condition.
type OversizedChunkNotifier func(chunk domain.Chunk)

// wrapperMargin reserves room for the super-chunk open/close tags and the
// package footer, whose exact size depends on the final super-chunk count
// (not known until packing completes) and on whether this happens to be
// the last super chunk. 128 bytes comfortably covers 4-digit N/M plus the
// continuation marker and the package footer.
const wrapperMargin = 128

// Pack groups topics' ranked chunks into SuperChunks. Each TopicResult's
// Chunks must already be filtered and ranked (§4.E); Pack sorts them
// chronologically itself (§4.G step 2a). Topic order in the output
// matches the input order.
func Pack(topics []domain.TopicResult, cfg Config, packageHeaderSize int, onOversized OversizedChunkNotifier) ([]domain.SuperChunk, error) {
	var supers []domain.SuperChunk
	current := &domain.SuperChunk{IsFirst: true}
	chars := 0
	isFirstSuperChunk := true

	closeCurrent := func(section *domain.TopicSection) {
		if section != nil && len(section.Chunks) > 0 {
			current.Topics = append(current.Topics, *section)
		}
		if len(current.Topics) > 0 {
			supers = append(supers, *current)
		}
		current = &domain.SuperChunk{IsFirst: false}
		chars = 0
	}

	for _, t := range topics {
		if len(t.Chunks) == 0 {
			continue
		}
		sorted := chronological(t.Chunks)
		section := &domain.TopicSection{TopicID: t.TopicID, TopicQuestion: t.TopicQuestion, IsContinuation: false}

		for _, chunk := range sorted {
			envelopeSize := len(formatter.FormatChunkEnvelope(chunk))
			headerSize := 0
			if len(section.Chunks) == 0 {
				docName := chunk.DocumentName
				headerSize = len(formatter.FormatTopicSectionHeader(section.TopicQuestion, section.IsContinuation, docName))
			}
			need := envelopeSize + headerSize + wrapperMargin
			if len(current.Topics) == 0 && len(section.Chunks) == 0 && isFirstSuperChunk {
				need += packageHeaderSize
			}

			hasExisting := len(current.Topics) > 0 || len(section.Chunks) > 0
			if chars+need > cfg.MaxCharsPerSuperChunk && hasExisting {
				closeCurrent(section)
				isFirstSuperChunk = false
				section = &domain.TopicSection{TopicID: t.TopicID, TopicQuestion: t.TopicQuestion, IsContinuation: true}
				headerSize = len(formatter.FormatTopicSectionHeader(section.TopicQuestion, true, chunk.DocumentName))
				need = envelopeSize + headerSize + wrapperMargin
			}

			if need > cfg.MaxCharsPerSuperChunk && len(current.Topics) == 0 && len(section.Chunks) == 0 {
				if onOversized != nil {
					onOversized(chunk.Chunk)
				}
				if cfg.FailOnOversizedChunk {
					return nil, fmt.Errorf("packer: chunk %d exceeds super chunk size limit: %w", chunk.Chunk.ID, domain.ErrOversizedChunk)
				}
			}

			section.Chunks = append(section.Chunks, chunk)
			chars += need
		}

		if len(section.Chunks) > 0 {
			current.Topics = append(current.Topics, *section)
		}
	}

	if len(current.Topics) > 0 {
		supers = append(supers, *current)
	}

	if cfg.LimitSuperChunks {
		supers = limitPerTopic(supers, cfg.MaxSuperChunksPerTopic)
	}

	return supers, nil
}

// chronological returns chunks sorted ascending by (documentId, chunkNumber).
func chronological(chunks []domain.ScoredChunk) []domain.ScoredChunk {
	out := make([]domain.ScoredChunk, len(chunks))
	copy(out, chunks)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Chunk.DocumentID != out[j].Chunk.DocumentID {
			return out[i].Chunk.DocumentID < out[j].Chunk.DocumentID
		}
		return out[i].Chunk.ChunkNumber < out[j].Chunk.ChunkNumber
	})
	return out
}

// limitPerTopic keeps at most maxPerTopic SuperChunks whose primary topic
// (the topic of its first TopicSection) equals each topicId (§4.G Limit
// enforcement).
func limitPerTopic(supers []domain.SuperChunk, maxPerTopic int) []domain.SuperChunk {
	counts := make(map[string]int)
	out := make([]domain.SuperChunk, 0, len(supers))
	for _, sc := range supers {
		if len(sc.Topics) == 0 {
			continue
		}
		primary := sc.Topics[0].TopicID
		if counts[primary] >= maxPerTopic {
			continue
		}
		counts[primary]++
		out = append(out, sc)
	}
	return out
}
