package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kxddry/ragcut/internal/domain"
)

func TestMemory_DocumentAndChunkRoundTrip(t *testing.T) {
	m := New()
	m.PutDocument(domain.Document{ID: 1, Name: "manual.txt"}, 7)
	m.PutChunks(1, []domain.Chunk{{ID: 1, DocumentID: 1, ChunkNumber: 0, Content: "a"}})

	ctx := context.Background()
	doc, err := m.GetDocument(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "manual.txt", doc.Name)

	chunks, err := m.GetChunksByDocument(ctx, 1)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "a", chunks[0].Content)

	byColl, err := m.GetChunksByCollection(ctx, 7)
	require.NoError(t, err)
	require.Len(t, byColl, 1)
}

func TestMemory_UnknownDocumentIsStorageUnavailable(t *testing.T) {
	m := New()
	_, err := m.GetDocument(context.Background(), 99)
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
}

func TestMemory_MissingVectorsReturnsNilWithoutError(t *testing.T) {
	m := New()
	m.PutDocument(domain.Document{ID: 1}, 0)
	idx, err := m.GetVectors(context.Background(), 1)
	require.NoError(t, err)
	assert.Nil(t, idx)
}

func TestMemory_AddAndGetVectors(t *testing.T) {
	m := New()
	idx := domain.NewCoOccurrenceIndex()
	idx.TotalTerms = 3
	ctx := context.Background()
	require.NoError(t, m.AddVectors(ctx, 1, idx))

	got, err := m.GetVectors(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 3, got.TotalTerms)
}

func TestMemory_ContextCancelled(t *testing.T) {
	m := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := m.GetDocument(ctx, 1)
	assert.ErrorIs(t, err, context.Canceled)
}
