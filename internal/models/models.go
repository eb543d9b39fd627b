package models

import "time"

// DocumentStatus tracks a source document through the ingestion pipeline.
type DocumentStatus string

const (
	StatusPending  DocumentStatus = "pending"
	StatusApproved DocumentStatus = "approved"
)

// SourceDocument is one ingested brand-guideline artifact. It is mutated only
// by a single ingestion run; re-ingestion replaces its chunk set wholesale.
type SourceDocument struct {
	ID            string
	BrandID       string
	Name          string
	Text          string
	TextLen       int
	Status        DocumentStatus
	ChunkCount    int
	EmbeddedCount int
	FailedCount   int
	CreatedAt     time.Time
}

// Chunk is a contiguous slice of a document's trimmed text. Start and End are
// character offsets into the source text (end-exclusive) recorded before the
// chunk's own text was trimmed. A chunk is immutable once written.
type Chunk struct {
	ID           string
	DocumentID   string
	BrandID      string
	Index        int
	Start        int
	End          int
	Content      string
	Embedding    []float32 // nil when the embedding call failed
	HasEmbedding bool
}

// RankedResult pairs a chunk's text with its similarity score for the duration
// of one retrieval call.
type RankedResult struct {
	DocumentID string
	Content    string
	Score      float64
}

// GenerationRequest carries the structured inputs of one content-generation
// call, independent of any retrieved grounding context.
type GenerationRequest struct {
	Topic   string
	Channel string
	Brief   string
	Voice   []string
}

// IngestResult reports the outcome of one ingestion run.
type IngestResult struct {
	ChunkCount       int
	WithEmbedding    int
	WithoutEmbedding int
}
