package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/avise/grounder/internal/models"
)

// MemoryStore is an in-memory ChunkStore for tests and offline runs. The
// single mutex gives SaveChunks the same all-or-nothing visibility the
// Postgres store gets from a transaction.
type MemoryStore struct {
	mu     sync.RWMutex
	docs   map[string]models.SourceDocument
	chunks map[string][]models.Chunk
	order  []string // document insertion order, keeps retrieval order stable
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs:   make(map[string]models.SourceDocument),
		chunks: make(map[string][]models.Chunk),
	}
}

func (s *MemoryStore) CreateDocument(_ context.Context, doc models.SourceDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.docs[doc.ID]; exists {
		return fmt.Errorf("document already exists: %s", doc.ID)
	}
	if doc.Status == "" {
		doc.Status = models.StatusPending
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now()
	}
	doc.TextLen = len(doc.Text)

	s.docs[doc.ID] = doc
	s.order = append(s.order, doc.ID)
	return nil
}

func (s *MemoryStore) GetDocument(_ context.Context, id string) (models.SourceDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[id]
	if !ok {
		return models.SourceDocument{}, fmt.Errorf("document not found: %s", id)
	}
	return doc, nil
}

func (s *MemoryStore) SaveChunks(_ context.Context, docID string, chunks []models.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[docID]
	if !ok {
		return fmt.Errorf("document not found: %s", docID)
	}

	embedded := 0
	for _, c := range chunks {
		if c.HasEmbedding {
			embedded++
		}
	}

	s.chunks[docID] = append([]models.Chunk(nil), chunks...)

	doc.Status = models.StatusApproved
	doc.ChunkCount = len(chunks)
	doc.EmbeddedCount = embedded
	doc.FailedCount = len(chunks) - embedded
	s.docs[docID] = doc

	return nil
}

func (s *MemoryStore) EmbeddedChunks(_ context.Context, brandID string) ([]models.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Chunk
	for _, docID := range s.order {
		doc := s.docs[docID]
		if doc.BrandID != brandID || doc.Status != models.StatusApproved {
			continue
		}
		for _, c := range s.chunks[docID] {
			if c.HasEmbedding {
				out = append(out, c)
			}
		}
	}
	return out, nil
}

func (s *MemoryStore) Close() {}
