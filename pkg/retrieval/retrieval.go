package retrieval

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/avise/grounder/internal/models"
	"github.com/avise/grounder/internal/types"
)

// DefaultTopK is the number of chunks injected as grounding context when the
// caller does not specify one.
const DefaultTopK = 5

// DefaultSeparator joins the selected chunk texts into one context string.
const DefaultSeparator = "\n\n---\n\n"

// Config controls the retrieval engine.
type Config struct {
	TopK      int
	Separator string
	Timeout   time.Duration // per external call (embedding, store)
}

// Engine ranks stored chunks against a query by exact cosine similarity.
// The scan is linear in the number of embedded chunks per brand; the engine
// sits behind types.Retriever so an indexed implementation can replace it
// without touching ingestion or prompt assembly.
type Engine struct {
	store    types.ChunkStore
	embedder types.Embedder
	config   Config
}

func New(store types.ChunkStore, embedder types.Embedder, config Config) *Engine {
	if config.TopK <= 0 {
		config.TopK = DefaultTopK
	}
	if config.Separator == "" {
		config.Separator = DefaultSeparator
	}
	if config.Timeout <= 0 {
		config.Timeout = 15 * time.Second
	}

	return &Engine{
		store:    store,
		embedder: embedder,
		config:   config,
	}
}

// RetrieveContext embeds the query, scores every embedded chunk in the brand
// scope and returns the topK chunk texts joined in rank order. Any failure
// along the way degrades to an empty context: generation stays usable when
// grounding is not.
func (e *Engine) RetrieveContext(ctx context.Context, brandID, query string, topK int) string {
	if topK <= 0 {
		topK = e.config.TopK
	}

	// Query embedding and candidate load are independent; run them together
	// and only score once both are in.
	var queryVector []float32
	var candidates []models.Chunk

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cctx, cancel := context.WithTimeout(gctx, e.config.Timeout)
		defer cancel()
		vector, err := e.embedder.EmbedText(cctx, query)
		if err != nil {
			return fmt.Errorf("embed query: %w", err)
		}
		queryVector = vector
		return nil
	})
	g.Go(func() error {
		cctx, cancel := context.WithTimeout(gctx, e.config.Timeout)
		defer cancel()
		chunks, err := e.store.EmbeddedChunks(cctx, brandID)
		if err != nil {
			return fmt.Errorf("load chunks: %w", err)
		}
		candidates = chunks
		return nil
	})
	if err := g.Wait(); err != nil {
		log.Printf("retrieval: degrading to empty context for brand %s: %v", brandID, err)
		return ""
	}

	ranked := Rank(queryVector, candidates, topK)
	if len(ranked) == 0 {
		return ""
	}

	texts := make([]string, len(ranked))
	for i, r := range ranked {
		texts[i] = r.Content
	}
	return strings.Join(texts, e.config.Separator)
}

// Rank scores every candidate against the query vector and returns the topK
// results, highest score first. The sort is stable: equal scores keep their
// original candidate order, and no secondary ranking key is defined.
func Rank(query []float32, candidates []models.Chunk, topK int) []models.RankedResult {
	results := make([]models.RankedResult, len(candidates))
	for i, c := range candidates {
		results[i] = models.RankedResult{
			DocumentID: c.DocumentID,
			Content:    c.Content,
			Score:      CosineSimilarity(query, c.Embedding),
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if topK > len(results) {
		topK = len(results)
	}
	return results[:topK]
}

// CosineSimilarity computes the cosine of the angle between two vectors.
// Mismatched dimensions and zero vectors score 0, so stale or degenerate
// embeddings rank last instead of aborting retrieval or producing NaN.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
