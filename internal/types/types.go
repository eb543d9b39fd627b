package types

import (
	"context"

	"github.com/avise/grounder/internal/models"
)

// Embedder produces a vector embedding for a single text. Implementations
// wrap an external embedding service and must respect ctx cancellation.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

// Generator is the black-box generative model behind the content flow.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ChunkStore persists source documents and their chunk sets.
//
// SaveChunks must write the full chunk set and flip the parent document to
// approved (with aggregate counts) atomically: a concurrent reader never sees
// an approved document with a partial chunk set.
type ChunkStore interface {
	CreateDocument(ctx context.Context, doc models.SourceDocument) error
	GetDocument(ctx context.Context, id string) (models.SourceDocument, error)
	SaveChunks(ctx context.Context, docID string, chunks []models.Chunk) error

	// EmbeddedChunks returns every chunk in the brand scope whose parent
	// document is approved and whose embedding succeeded, in stable
	// document-then-index order.
	EmbeddedChunks(ctx context.Context, brandID string) ([]models.Chunk, error)

	Close()
}

// Retriever turns a free-text query into a grounding context string. It never
// fails: when embedding or storage is unavailable it returns an empty context
// so generation can proceed ungrounded.
type Retriever interface {
	RetrieveContext(ctx context.Context, brandID, query string, topK int) string
}
