package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kxddry/ragcut/internal/domain"
)

func TestSentenceChunker_SplitsIntoOverlappingGroups(t *testing.T) {
	c := NewSentenceChunker(2, 1, 0)
	text := "One. Two. Three. Four. Five."
	chunks := c.Chunk(domain.Document{ID: 1}, text)
	require.NotEmpty(t, chunks)
	assert.Equal(t, 0, chunks[0].ChunkNumber)
	assert.Equal(t, "One. Two.", chunks[0].Content)
	for i, ch := range chunks {
		assert.Equal(t, i, ch.ChunkNumber)
		assert.Equal(t, 1, ch.DocumentID)
	}
}

func TestSentenceChunker_OverlapCarriesLastSentenceForward(t *testing.T) {
	c := NewSentenceChunker(2, 1, 0)
	text := "One. Two. Three. Four. Five."
	chunks := c.Chunk(domain.Document{ID: 1}, text)
	require.Len(t, chunks, 4)
	assert.Equal(t, "One. Two.", chunks[0].Content)
	assert.Equal(t, "Two. Three.", chunks[1].Content)
	assert.Equal(t, "Three. Four.", chunks[2].Content)
	assert.Equal(t, "Four. Five.", chunks[3].Content)
}

func TestSentenceChunker_NoSentenceTerminatorsYieldsSingleChunk(t *testing.T) {
	c := NewSentenceChunker(5, 0, 0)
	chunks := c.Chunk(domain.Document{ID: 2}, "just some words with no terminal punctuation")
	require.Len(t, chunks, 1)
	assert.Equal(t, "just some words with no terminal punctuation", chunks[0].Content)
}

func TestSentenceChunker_BlankTextYieldsNoChunks(t *testing.T) {
	c := NewSentenceChunker(5, 0, 0)
	assert.Empty(t, c.Chunk(domain.Document{ID: 3}, "   "))
}

func TestSentenceChunker_DefaultsAppliedForInvalidConfig(t *testing.T) {
	c := NewSentenceChunker(0, -3, 0)
	text := strings.Repeat("Sentence. ", 12)
	chunks := c.Chunk(domain.Document{ID: 4}, text)
	assert.NotEmpty(t, chunks)
}

func TestSentenceChunker_CharacterBudgetSplitsBeforeSentenceCountWould(t *testing.T) {
	// sentencesPerChunk is generous (100) so only the character budget forces a split.
	c := NewSentenceChunker(100, 0, 40)
	text := "Short one. Also fairly short. This sentence is considerably longer than the rest."
	chunks := c.Chunk(domain.Document{ID: 5}, text)
	require.True(t, len(chunks) > 1, "character budget should have forced more than one chunk")
	for _, ch := range chunks {
		assert.LessOrEqualf(t, ch.CharCount, 40+len("This sentence is considerably longer than the rest."),
			"a chunk may only exceed the budget by at most one sentence it cannot split further")
	}
}

func TestSentenceChunker_ZeroCharBudgetDisablesCap(t *testing.T) {
	c := NewSentenceChunker(100, 0, 0)
	text := strings.Repeat("A reasonably short sentence. ", 10)
	chunks := c.Chunk(domain.Document{ID: 6}, text)
	require.Len(t, chunks, 1)
}
