// Package storage provides the in-memory reference implementation of
// domain.Storage (§6). It is an external collaborator, not part of the
// core: production deployments are expected to back Storage with their
// own document and index store, and swap this one out entirely.
package storage

import (
	"context"
	"sync"

	"github.com/kxddry/ragcut/internal/domain"
)

// Memory is a single-process, mutex-guarded domain.Storage backed by
// plain maps. It never evicts anything it is given.
type Memory struct {
	mu        sync.RWMutex
	documents map[int]domain.Document
	chunks    map[int][]domain.Chunk // by documentID
	byColl    map[int][]int          // collectionID -> documentIDs
	indexes   map[int]*domain.CoOccurrenceIndex
}

// New returns an empty Memory store.
func New() *Memory {
	return &Memory{
		documents: make(map[int]domain.Document),
		chunks:    make(map[int][]domain.Chunk),
		byColl:    make(map[int][]int),
		indexes:   make(map[int]*domain.CoOccurrenceIndex),
	}
}

// PutDocument registers a document and its collection membership. It is a
// setup/ingestion-time method, not part of domain.Storage.
func (m *Memory) PutDocument(doc domain.Document, collectionID int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.documents[doc.ID] = doc
	if collectionID != 0 {
		m.byColl[collectionID] = append(m.byColl[collectionID], doc.ID)
	}
}

// PutChunks replaces the stored chunk set for a document.
func (m *Memory) PutChunks(docID int, chunks []domain.Chunk) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chunks[docID] = chunks
}

func (m *Memory) GetDocument(ctx context.Context, docID int) (domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return domain.Document{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.documents[docID]
	if !ok {
		return domain.Document{}, domain.ErrStorageUnavailable
	}
	return doc, nil
}

func (m *Memory) GetChunksByDocument(ctx context.Context, docID int) ([]domain.Chunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	chunks, ok := m.chunks[docID]
	if !ok {
		return nil, domain.ErrStorageUnavailable
	}
	out := make([]domain.Chunk, len(chunks))
	copy(out, chunks)
	return out, nil
}

func (m *Memory) GetChunksByCollection(ctx context.Context, collectionID int) ([]domain.Chunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	docIDs, ok := m.byColl[collectionID]
	if !ok {
		return nil, domain.ErrStorageUnavailable
	}
	var out []domain.Chunk
	for _, id := range docIDs {
		out = append(out, m.chunks[id]...)
	}
	return out, nil
}

// GetVectors returns the stored co-occurrence index for a document, or
// (nil, nil) when no index has been built yet (§7 IndexMissing: a
// degraded condition, not an error).
func (m *Memory) GetVectors(ctx context.Context, docID int) (*domain.CoOccurrenceIndex, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	idx, ok := m.indexes[docID]
	if !ok {
		return nil, nil
	}
	return idx, nil
}

func (m *Memory) AddVectors(ctx context.Context, docID int, index *domain.CoOccurrenceIndex) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.indexes[docID] = index
	return nil
}
