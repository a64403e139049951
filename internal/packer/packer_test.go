package packer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kxddry/ragcut/internal/domain"
	"github.com/kxddry/ragcut/internal/formatter"
)

func scoredChunk(docID, chunkNum int, content string, score float64) domain.ScoredChunk {
	return domain.ScoredChunk{
		Chunk:          domain.Chunk{DocumentID: docID, ChunkNumber: chunkNum, Content: content},
		DocumentName:   "manual.txt",
		RelevanceScore: score,
	}
}

func TestPack_SingleTopicFitsOneSuperChunk(t *testing.T) {
	topics := []domain.TopicResult{
		{
			TopicID:       "t1",
			TopicQuestion: "fuel system",
			Chunks: []domain.ScoredChunk{
				scoredChunk(1, 2, "second chunk content", 80),
				scoredChunk(1, 0, "first chunk content", 120),
				scoredChunk(1, 1, "middle chunk content", 60),
			},
		},
	}
	cfg := Config{MaxCharsPerSuperChunk: 30000}
	supers, err := Pack(topics, cfg, len(formatter.FormatPackageHeader(nil)), nil)
	require.NoError(t, err)
	require.Len(t, supers, 1)
	require.Len(t, supers[0].Topics, 1)
	got := supers[0].Topics[0].Chunks
	require.Len(t, got, 3)
	assert.Equal(t, 0, got[0].Chunk.ChunkNumber)
	assert.Equal(t, 1, got[1].Chunk.ChunkNumber)
	assert.Equal(t, 2, got[2].Chunk.ChunkNumber)
}

func TestPack_TopicSpansMultipleSuperChunksWithContinuation(t *testing.T) {
	big := strings.Repeat("x", 400)
	var chunks []domain.ScoredChunk
	for i := 0; i < 5; i++ {
		chunks = append(chunks, scoredChunk(1, i, big, float64(100-i)))
	}
	topics := []domain.TopicResult{{TopicID: "t1", TopicQuestion: "fuel", Chunks: chunks}}
	cfg := Config{MaxCharsPerSuperChunk: 700}

	supers, err := Pack(topics, cfg, len(formatter.FormatPackageHeader(nil)), nil)
	require.NoError(t, err)
	require.True(t, len(supers) > 1, "expected the topic to span more than one super chunk")

	assert.False(t, supers[0].Topics[0].IsContinuation)
	for _, sc := range supers[1:] {
		require.NotEmpty(t, sc.Topics)
		assert.True(t, sc.Topics[0].IsContinuation)
	}
}

func TestPack_ChronologicalOrderWithinTopic(t *testing.T) {
	topics := []domain.TopicResult{
		{
			TopicID: "t1",
			Chunks: []domain.ScoredChunk{
				scoredChunk(2, 0, "b", 90),
				scoredChunk(1, 5, "a", 50),
				scoredChunk(1, 1, "c", 70),
			},
		},
	}
	supers, err := Pack(topics, Config{MaxCharsPerSuperChunk: 30000}, 0, nil)
	require.NoError(t, err)
	require.Len(t, supers, 1)
	chunks := supers[0].Topics[0].Chunks
	require.Len(t, chunks, 3)
	assert.Equal(t, 1, chunks[0].Chunk.DocumentID)
	assert.Equal(t, 1, chunks[1].Chunk.DocumentID)
	assert.Equal(t, 2, chunks[2].Chunk.DocumentID)
	assert.Equal(t, 5, chunks[1].Chunk.ChunkNumber)
}

func TestPack_TopicOrderPreserved(t *testing.T) {
	topics := []domain.TopicResult{
		{TopicID: "alpha", Chunks: []domain.ScoredChunk{scoredChunk(1, 0, "a", 10)}},
		{TopicID: "beta", Chunks: []domain.ScoredChunk{scoredChunk(1, 1, "b", 10)}},
	}
	supers, err := Pack(topics, Config{MaxCharsPerSuperChunk: 30000}, 0, nil)
	require.NoError(t, err)
	require.Len(t, supers, 1)
	require.Len(t, supers[0].Topics, 2)
	assert.Equal(t, "alpha", supers[0].Topics[0].TopicID)
	assert.Equal(t, "beta", supers[0].Topics[1].TopicID)
}

func TestPack_EmptyTopicsSkipped(t *testing.T) {
	topics := []domain.TopicResult{
		{TopicID: "empty"},
		{TopicID: "full", Chunks: []domain.ScoredChunk{scoredChunk(1, 0, "a", 10)}},
	}
	supers, err := Pack(topics, Config{MaxCharsPerSuperChunk: 30000}, 0, nil)
	require.NoError(t, err)
	require.Len(t, supers, 1)
	require.Len(t, supers[0].Topics, 1)
	assert.Equal(t, "full", supers[0].Topics[0].TopicID)
}

func TestPack_OversizedChunkNotifiedAndNotFailed(t *testing.T) {
	huge := strings.Repeat("y", 1000)
	topics := []domain.TopicResult{{TopicID: "t1", Chunks: []domain.ScoredChunk{scoredChunk(1, 0, huge, 10)}}}
	var notified []domain.Chunk
	supers, err := Pack(topics, Config{MaxCharsPerSuperChunk: 100, FailOnOversizedChunk: false}, 0, func(c domain.Chunk) {
		notified = append(notified, c)
	})
	require.NoError(t, err)
	require.Len(t, notified, 1)
	require.Len(t, supers, 1)
}

func TestPack_OversizedChunkFailsWhenConfigured(t *testing.T) {
	huge := strings.Repeat("y", 1000)
	topics := []domain.TopicResult{{TopicID: "t1", Chunks: []domain.ScoredChunk{scoredChunk(1, 0, huge, 10)}}}
	_, err := Pack(topics, Config{MaxCharsPerSuperChunk: 100, FailOnOversizedChunk: true}, 0, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrOversizedChunk)
}

func TestPack_OversizedChunkNotifiedAfterForcedSplit(t *testing.T) {
	small := strings.Repeat("a", 50)
	huge := strings.Repeat("y", 1000)
	topics := []domain.TopicResult{{
		TopicID: "t1",
		Chunks: []domain.ScoredChunk{
			scoredChunk(1, 0, small, 10),
			scoredChunk(1, 1, huge, 5),
		},
	}}
	var notified []domain.Chunk
	supers, err := Pack(topics, Config{MaxCharsPerSuperChunk: 300, FailOnOversizedChunk: false}, 0, func(c domain.Chunk) {
		notified = append(notified, c)
	})
	require.NoError(t, err)
	require.Len(t, notified, 1, "the huge chunk must be reported oversized even though it only becomes the sole occupant of its super chunk after a forced split")
	assert.Equal(t, 1, notified[0].ChunkNumber)
	require.True(t, len(supers) >= 2)
}

func TestPack_OversizedChunkFailsAfterForcedSplitWhenConfigured(t *testing.T) {
	small := strings.Repeat("a", 50)
	huge := strings.Repeat("y", 1000)
	topics := []domain.TopicResult{{
		TopicID: "t1",
		Chunks: []domain.ScoredChunk{
			scoredChunk(1, 0, small, 10),
			scoredChunk(1, 1, huge, 5),
		},
	}}
	_, err := Pack(topics, Config{MaxCharsPerSuperChunk: 300, FailOnOversizedChunk: true}, 0, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrOversizedChunk)
}

func TestPack_LimitSuperChunksPerTopic(t *testing.T) {
	big := strings.Repeat("z", 400)
	var chunks []domain.ScoredChunk
	for i := 0; i < 6; i++ {
		chunks = append(chunks, scoredChunk(1, i, big, float64(i)))
	}
	topics := []domain.TopicResult{{TopicID: "t1", Chunks: chunks}}
	cfg := Config{MaxCharsPerSuperChunk: 700, LimitSuperChunks: true, MaxSuperChunksPerTopic: 1}
	supers, err := Pack(topics, cfg, 0, nil)
	require.NoError(t, err)
	assert.Len(t, supers, 1)
}

func TestPack_RenderedSizeNeverExceedsLimit(t *testing.T) {
	big := strings.Repeat("w", 300)
	var chunks []domain.ScoredChunk
	for i := 0; i < 8; i++ {
		chunks = append(chunks, scoredChunk(1, i, big, float64(i)))
	}
	topics := []domain.TopicResult{{TopicID: "t1", TopicQuestion: "fuel", Chunks: chunks}}
	cfg := Config{MaxCharsPerSuperChunk: 800}
	supers, err := Pack(topics, cfg, len(formatter.FormatPackageHeader([]domain.TopicQuery{{Question: "fuel"}})), nil)
	require.NoError(t, err)

	rendered := formatter.RenderAll(supers, []domain.TopicQuery{{TopicID: "t1", Question: "fuel"}})
	for _, sc := range rendered {
		assert.LessOrEqualf(t, sc.TotalChars, cfg.MaxCharsPerSuperChunk+len(formatter.PackageFooter)+64, "rendered super chunk exceeded budget by more than the reserved margin")
	}
}
