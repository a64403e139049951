// Package ingest splits raw document text into the Chunks the core
// consumes. Chunking is explicitly out of the core's scope (§1
// Non-goals): this package exists only to feed the CLI's ingest
// subcommand and the storage reference implementation with something
// realistic to retrieve against.
package ingest

import (
	"regexp"
	"strings"

	"github.com/kxddry/ragcut/internal/domain"
)

// SentenceChunker splits a document's text into overlapping runs of
// sentences, flushing a chunk whenever it hits whichever limit comes
// first: the sentence count or the character budget. The character
// budget exists because this module's core packs chunks into a fixed
// character budget of its own (§4.G); capping a single chunk's size at
// ingestion time keeps any one chunk from dominating, or overflowing, a
// SuperChunk downstream.
type SentenceChunker struct {
	sentencesPerChunk int
	overlapSentences  int
	maxCharsPerChunk  int
	splitter          *regexp.Regexp
}

// NewSentenceChunker returns a chunker. Non-positive sentencesPerChunk
// falls back to a default of 5; negative overlapSentences falls back to
// 0; maxCharsPerChunk <= 0 disables the character cap entirely, leaving
// sentencesPerChunk as the only flush condition.
func NewSentenceChunker(sentencesPerChunk, overlapSentences, maxCharsPerChunk int) *SentenceChunker {
	if sentencesPerChunk <= 0 {
		sentencesPerChunk = 5
	}
	if overlapSentences < 0 {
		overlapSentences = 0
	}
	return &SentenceChunker{
		sentencesPerChunk: sentencesPerChunk,
		overlapSentences:  overlapSentences,
		maxCharsPerChunk:  maxCharsPerChunk,
		splitter:          regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`),
	}
}

// Chunk splits doc's text into domain.Chunks numbered from 0. A document
// with no sentence-terminated text but non-blank content becomes a
// single chunk holding the whole trimmed text. Consecutive chunks share
// the last overlapSentences sentences of their predecessor.
func (c *SentenceChunker) Chunk(doc domain.Document, text string) []domain.Chunk {
	sentences := c.splitter.FindAllString(text, -1)
	if len(sentences) == 0 {
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			return nil
		}
		sentences = []string{trimmed}
	}
	for i := range sentences {
		sentences[i] = strings.TrimSpace(sentences[i])
	}

	var chunks []domain.Chunk
	idx := 0
	var pending []string
	pendingChars := 0
	carried := 0 // how many of pending's leading sentences are carry-over from the prior flush, not new content

	flush := func() {
		content := strings.Join(pending, " ")
		chunks = append(chunks, domain.Chunk{
			DocumentID:  doc.ID,
			ChunkNumber: idx,
			Content:     content,
			CharCount:   len(content),
		})
		idx++
		overlapStart := len(pending) - c.overlapSentences
		if overlapStart < 0 {
			overlapStart = 0
		}
		carry := append([]string{}, pending[overlapStart:]...)
		pending = carry
		carried = len(carry)
		pendingChars = 0
		for _, s := range pending {
			pendingChars += len(s) + 1
		}
	}

	for _, s := range sentences {
		wouldOverflowCount := len(pending) >= c.sentencesPerChunk
		wouldOverflowChars := c.maxCharsPerChunk > 0 && len(pending) > carried && pendingChars+len(s)+1 > c.maxCharsPerChunk
		if (wouldOverflowCount || wouldOverflowChars) && len(pending) > carried {
			flush()
		}
		pending = append(pending, s)
		pendingChars += len(s) + 1
	}
	if len(pending) > carried || len(chunks) == 0 {
		flush()
	}

	return chunks
}
