package expander

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kxddry/ragcut/internal/domain"
)

type fakeStorage struct {
	vectors map[int]*domain.CoOccurrenceIndex
	err     error
}

func (f *fakeStorage) GetDocument(ctx context.Context, docID int) (domain.Document, error) {
	return domain.Document{}, nil
}
func (f *fakeStorage) GetChunksByDocument(ctx context.Context, docID int) ([]domain.Chunk, error) {
	return nil, nil
}
func (f *fakeStorage) GetChunksByCollection(ctx context.Context, collectionID int) ([]domain.Chunk, error) {
	return nil, nil
}
func (f *fakeStorage) GetVectors(ctx context.Context, docID int) (*domain.CoOccurrenceIndex, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.vectors[docID], nil
}
func (f *fakeStorage) AddVectors(ctx context.Context, docID int, index *domain.CoOccurrenceIndex) error {
	return nil
}

func TestExpand_DegradesWhenNoIndexAvailable(t *testing.T) {
	store := &fakeStorage{vectors: map[int]*domain.CoOccurrenceIndex{}}
	concept, err := Expand(context.Background(), "fuel system", []int{1}, store, DefaultConfig(), nil)
	require.NoError(t, err)
	assert.Contains(t, concept.Terms, "fuel")
	assert.Contains(t, concept.Terms, "system")
	assert.True(t, concept.TermMetadata["fuel"].IsOriginal)
	assert.Equal(t, 1.0, concept.TermMetadata["fuel"].Similarity)
}

func TestExpand_MergesNeighborsAcrossDocuments(t *testing.T) {
	idx1 := domain.NewCoOccurrenceIndex()
	idx1.Matrix["fuel"] = map[string]int{"pump": 5}
	idx1.Matrix["pump"] = map[string]int{"fuel": 5}

	idx2 := domain.NewCoOccurrenceIndex()
	idx2.Matrix["fuel"] = map[string]int{"pump": 10, "line": 3}
	idx2.Matrix["pump"] = map[string]int{"fuel": 10}
	idx2.Matrix["line"] = map[string]int{"fuel": 3}

	store := &fakeStorage{vectors: map[int]*domain.CoOccurrenceIndex{1: idx1, 2: idx2}}
	concept, err := Expand(context.Background(), "fuel", []int{1, 2}, store, Config{MaxExpansions: 5, MinSimilarity: 0.0}, nil)
	require.NoError(t, err)
	assert.Contains(t, concept.OriginalTerms, "fuel")
	assert.True(t, concept.TermMetadata["fuel"].IsOriginal)
	if _, ok := concept.Terms["pump"]; ok {
		assert.False(t, concept.TermMetadata["pump"].IsOriginal)
	}
}

func TestExpand_MissingIndexNotifierInvoked(t *testing.T) {
	idx1 := domain.NewCoOccurrenceIndex()
	idx1.Matrix["fuel"] = map[string]int{"pump": 5}
	store := &fakeStorage{vectors: map[int]*domain.CoOccurrenceIndex{1: idx1}}

	var missing []int
	concept, err := Expand(context.Background(), "fuel", []int{1, 2}, store, DefaultConfig(), func(docID int) {
		missing = append(missing, docID)
	})
	require.NoError(t, err)
	assert.Equal(t, []int{2}, missing)
	assert.Contains(t, concept.Terms, "fuel")
}

func TestExpand_StorageErrorPropagates(t *testing.T) {
	store := &fakeStorage{err: errors.New("boom")}
	_, err := Expand(context.Background(), "fuel", []int{1}, store, DefaultConfig(), nil)
	require.Error(t, err)
}

func TestExpand_OriginalTermsSubsetOfTerms(t *testing.T) {
	store := &fakeStorage{vectors: map[int]*domain.CoOccurrenceIndex{}}
	concept, err := Expand(context.Background(), "fuel system maintenance", nil, store, DefaultConfig(), nil)
	require.NoError(t, err)
	for term := range concept.OriginalTerms {
		assert.Contains(t, concept.Terms, term)
	}
}
