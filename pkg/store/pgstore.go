package store

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/avise/grounder/internal/models"
)

type PGStoreConfig struct {
	ConnString string
	VectorDim  int
}

// PGStore keeps documents and their chunk sets in Postgres, with embeddings in
// a pgvector column. Retrieval scoring happens in-process, so no approximate
// index is created on the embedding column.
type PGStore struct {
	config PGStoreConfig
	pool   *pgxpool.Pool
}

func NewPGStore(ctx context.Context, config PGStoreConfig) (*PGStore, error) {
	if config.VectorDim == 0 {
		config.VectorDim = 768
	}

	pool, err := pgxpool.New(ctx, config.ConnString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &PGStore{
		config: config,
		pool:   pool,
	}

	if err := s.initialize(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

func (s *PGStore) initialize(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS vector")
	if err != nil {
		return fmt.Errorf("failed to create vector extension: %w", err)
	}

	createDocuments := `
		CREATE TABLE IF NOT EXISTS documents (
			id TEXT PRIMARY KEY,
			brand_id TEXT NOT NULL,
			name TEXT,
			content TEXT NOT NULL,
			content_len INTEGER NOT NULL,
			status TEXT NOT NULL,
			chunk_count INTEGER NOT NULL DEFAULT 0,
			embedded_count INTEGER NOT NULL DEFAULT 0,
			failed_count INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`

	if _, err := s.pool.Exec(ctx, createDocuments); err != nil {
		return fmt.Errorf("failed to create documents table: %w", err)
	}

	createChunks := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS chunks (
			id TEXT PRIMARY KEY,
			document_id TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
			brand_id TEXT NOT NULL,
			seq INTEGER NOT NULL,
			start_offset INTEGER NOT NULL,
			end_offset INTEGER NOT NULL,
			content TEXT NOT NULL,
			embedding vector(%d),
			has_embedding BOOLEAN NOT NULL DEFAULT FALSE
		)`, s.config.VectorDim)

	if _, err := s.pool.Exec(ctx, createChunks); err != nil {
		return fmt.Errorf("failed to create chunks table: %w", err)
	}

	createIndex := `
		CREATE INDEX IF NOT EXISTS chunks_brand_seq_idx
		ON chunks (brand_id, document_id, seq)`

	if _, err := s.pool.Exec(ctx, createIndex); err != nil {
		return fmt.Errorf("failed to create chunks index: %w", err)
	}

	return nil
}

func (s *PGStore) CreateDocument(ctx context.Context, doc models.SourceDocument) error {
	stmt := `
		INSERT INTO documents (id, brand_id, name, content, content_len, status)
		VALUES ($1, $2, $3, $4, $5, $6)`

	content := sanitizeUTF8(doc.Text)
	status := doc.Status
	if status == "" {
		status = models.StatusPending
	}

	_, err := s.pool.Exec(ctx, stmt,
		doc.ID, doc.BrandID, doc.Name, content, len(content), string(status))
	if err != nil {
		return fmt.Errorf("failed to insert document: %w", err)
	}
	return nil
}

func (s *PGStore) GetDocument(ctx context.Context, id string) (models.SourceDocument, error) {
	query := `
		SELECT id, brand_id, name, content, content_len, status,
		       chunk_count, embedded_count, failed_count, created_at
		FROM documents
		WHERE id = $1`

	var doc models.SourceDocument
	var status string
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&doc.ID, &doc.BrandID, &doc.Name, &doc.Text, &doc.TextLen, &status,
		&doc.ChunkCount, &doc.EmbeddedCount, &doc.FailedCount, &doc.CreatedAt)
	if err != nil {
		return models.SourceDocument{}, fmt.Errorf("failed to load document %s: %w", id, err)
	}
	doc.Status = models.DocumentStatus(status)
	return doc, nil
}

// SaveChunks replaces the document's chunk set and marks it approved with
// aggregate counts, all inside one transaction. A concurrent reader either
// sees the previous state or the complete new one.
func (s *PGStore) SaveChunks(ctx context.Context, docID string, chunks []models.Chunk) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DELETE FROM chunks WHERE document_id = $1", docID); err != nil {
		return fmt.Errorf("failed to clear previous chunks: %w", err)
	}

	stmt := `
		INSERT INTO chunks (id, document_id, brand_id, seq, start_offset, end_offset, content, embedding, has_embedding)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	embedded := 0
	for _, c := range chunks {
		var embedding interface{}
		if c.HasEmbedding {
			embedding = pgvector.NewVector(c.Embedding)
			embedded++
		}

		_, err := tx.Exec(ctx, stmt,
			c.ID, docID, c.BrandID, c.Index, c.Start, c.End,
			sanitizeUTF8(c.Content), embedding, c.HasEmbedding)
		if err != nil {
			return fmt.Errorf("failed to insert chunk %d: %w", c.Index, err)
		}
	}

	update := `
		UPDATE documents
		SET status = $2, chunk_count = $3, embedded_count = $4, failed_count = $5
		WHERE id = $1`

	_, err = tx.Exec(ctx, update, docID, string(models.StatusApproved),
		len(chunks), embedded, len(chunks)-embedded)
	if err != nil {
		return fmt.Errorf("failed to update document status: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (s *PGStore) EmbeddedChunks(ctx context.Context, brandID string) ([]models.Chunk, error) {
	query := `
		SELECT c.id, c.document_id, c.brand_id, c.seq, c.start_offset, c.end_offset, c.content, c.embedding
		FROM chunks c
		JOIN documents d ON d.id = c.document_id
		WHERE c.brand_id = $1 AND d.status = $2 AND c.has_embedding
		ORDER BY d.created_at, c.document_id, c.seq`

	rows, err := s.pool.Query(ctx, query, brandID, string(models.StatusApproved))
	if err != nil {
		return nil, fmt.Errorf("failed to query chunks: %w", err)
	}
	defer rows.Close()

	var chunks []models.Chunk
	for rows.Next() {
		var c models.Chunk
		var embedding pgvector.Vector
		err := rows.Scan(&c.ID, &c.DocumentID, &c.BrandID, &c.Index,
			&c.Start, &c.End, &c.Content, &embedding)
		if err != nil {
			return nil, fmt.Errorf("failed to scan chunk row: %w", err)
		}
		c.Embedding = embedding.Slice()
		c.HasEmbedding = true
		chunks = append(chunks, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read chunk rows: %w", err)
	}

	return chunks, nil
}

func (s *PGStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func sanitizeUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	v := make([]rune, 0, len(s))
	for i, r := range s {
		if r == utf8.RuneError {
			_, size := utf8.DecodeRuneInString(s[i:])
			if size == 1 {
				continue
			}
		}
		v = append(v, r)
	}
	return string(v)
}
