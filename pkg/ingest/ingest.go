package ingest

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/avise/grounder/internal/models"
	"github.com/avise/grounder/internal/types"
	"github.com/avise/grounder/pkg/chunker"
)

// Config controls one ingestion pipeline.
type Config struct {
	ChunkSize    int
	ChunkOverlap int
	Concurrency  int // embedding calls in flight per document

	// OnChunk, when set, is called once per chunk after its embedding
	// attempt finishes, in completion order.
	OnChunk func(index int)
}

// Pipeline turns a registered source document into an approved, embedded
// chunk set. Each run is independent and stateless beyond the store.
type Pipeline struct {
	store    types.ChunkStore
	embedder types.Embedder
	config   Config
}

func New(store types.ChunkStore, embedder types.Embedder, config Config) *Pipeline {
	if config.ChunkSize == 0 {
		config.ChunkSize = chunker.DefaultChunkSize
		if config.ChunkOverlap == 0 {
			config.ChunkOverlap = chunker.DefaultChunkOverlap
		}
	}
	if config.Concurrency <= 0 {
		config.Concurrency = 8
	}

	return &Pipeline{
		store:    store,
		embedder: embedder,
		config:   config,
	}
}

// Ingest chunks the document's text, embeds every chunk with a bounded
// concurrent fan-out, and persists the full set atomically. A failed
// embedding marks its chunk embedding-less instead of aborting the run;
// invalid input and persistence failures are returned to the caller.
func (p *Pipeline) Ingest(ctx context.Context, docID string) (models.IngestResult, error) {
	doc, err := p.store.GetDocument(ctx, docID)
	if err != nil {
		return models.IngestResult{}, err
	}

	text := strings.TrimSpace(doc.Text)
	if text == "" {
		return models.IngestResult{}, fmt.Errorf("document %s has no text to ingest", docID)
	}

	spans, err := chunker.Split(text, p.config.ChunkSize, p.config.ChunkOverlap)
	if err != nil {
		return models.IngestResult{}, fmt.Errorf("invalid chunking configuration: %w", err)
	}

	chunks := make([]models.Chunk, len(spans))
	for i, span := range spans {
		chunks[i] = models.Chunk{
			ID:         uuid.New().String(),
			DocumentID: doc.ID,
			BrandID:    doc.BrandID,
			Index:      i,
			Start:      span.Start,
			End:        span.End,
			Content:    span.Text,
		}
	}

	// Fan out one embedding call per chunk into a slice addressed by chunk
	// index, so completion order never reorders the results.
	vectors := make([][]float32, len(chunks))
	g := new(errgroup.Group)
	g.SetLimit(p.config.Concurrency)

	for i := range chunks {
		i := i
		g.Go(func() error {
			vector, err := p.embedder.EmbedText(ctx, chunks[i].Content)
			if err != nil {
				log.Printf("ingest: embedding failed for chunk %d of document %s: %v", i, docID, err)
			} else {
				vectors[i] = vector
			}
			if p.config.OnChunk != nil {
				p.config.OnChunk(i)
			}
			return nil
		})
	}
	_ = g.Wait() // workers absorb their own failures

	result := models.IngestResult{ChunkCount: len(chunks)}
	for i := range chunks {
		if len(vectors[i]) > 0 {
			chunks[i].Embedding = vectors[i]
			chunks[i].HasEmbedding = true
			result.WithEmbedding++
		} else {
			result.WithoutEmbedding++
		}
	}

	if err := p.store.SaveChunks(ctx, docID, chunks); err != nil {
		return models.IngestResult{}, fmt.Errorf("failed to persist chunks for document %s: %w", docID, err)
	}

	return result, nil
}
