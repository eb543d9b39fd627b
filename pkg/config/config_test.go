package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("OLLAMA_BASE_URL", "")
	t.Setenv("DATABASE_URL", "")

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "grounder.yaml")

	configData := `
llm:
  base_url: "http://localhost:11434"
  model: "llama3"
  embed_model: "nomic-embed-text:latest"
  max_tokens: 1000
  temperature: 0.5

database:
  url: "postgres://localhost:5432/grounder"
  vector_dim: 768

ingest:
  chunk_size: 500
  chunk_overlap: 100
  concurrency: 4
  rate_limit: 5
  timeout_seconds: 20

retrieval:
  top_k: 3

generation:
  channel: "social"
  voice:
    - "playful"
    - "concise"
`
	err := os.WriteFile(configPath, []byte(configData), 0644)
	require.NoError(t, err)

	config, err := LoadConfig(configPath)
	require.NoError(t, err)

	assert.Equal(t, "llama3", config.LLM.Model)
	assert.Equal(t, "nomic-embed-text:latest", config.LLM.EmbedModel)
	assert.Equal(t, 1000, config.LLM.MaxTokens)
	assert.Equal(t, 0.5, config.LLM.Temperature)
	assert.Equal(t, 768, config.Database.VectorDim)
	assert.Equal(t, 500, config.Ingest.ChunkSize)
	assert.Equal(t, 100, config.Ingest.ChunkOverlap)
	assert.Equal(t, 4, config.Ingest.Concurrency)
	assert.Equal(t, 3, config.Retrieval.TopK)
	assert.Equal(t, "social", config.Generation.Channel)
	assert.Equal(t, []string{"playful", "concise"}, config.Generation.Voice)
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("OLLAMA_BASE_URL", "")
	t.Setenv("DATABASE_URL", "")

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "grounder.yaml")

	require.NoError(t, os.WriteFile(configPath, []byte("llm:\n  model: mistral\n"), 0644))

	config, err := LoadConfig(configPath)
	require.NoError(t, err)

	assert.Equal(t, 1000, config.Ingest.ChunkSize)
	assert.Equal(t, 200, config.Ingest.ChunkOverlap)
	assert.Equal(t, 8, config.Ingest.Concurrency)
	assert.Equal(t, 5, config.Retrieval.TopK)
	assert.Equal(t, "http://localhost:11434", config.LLM.BaseURL)
	assert.Equal(t, "blog", config.Generation.Channel)
}

func TestConfigValidation(t *testing.T) {
	valid, err := getDefaultConfig()
	require.NoError(t, err)
	assert.Empty(t, valid.Validate())

	t.Run("overlap at or above chunk size is rejected", func(t *testing.T) {
		cfg, err := getDefaultConfig()
		require.NoError(t, err)
		cfg.Ingest.ChunkOverlap = cfg.Ingest.ChunkSize

		errs := cfg.Validate()
		require.Len(t, errs, 1)
		assert.Equal(t, "ingest.chunk_overlap", errs[0].Field)
	})

	t.Run("multiple violations are all reported", func(t *testing.T) {
		cfg, err := getDefaultConfig()
		require.NoError(t, err)
		cfg.LLM.MaxTokens = 50000
		cfg.LLM.Temperature = 3.0
		cfg.Ingest.ChunkSize = 0
		cfg.Retrieval.TopK = -1

		errs := cfg.Validate()
		fields := make([]string, 0, len(errs))
		for _, e := range errs {
			fields = append(fields, e.Field)
		}
		assert.Contains(t, fields, "llm.max_tokens")
		assert.Contains(t, fields, "llm.temperature")
		assert.Contains(t, fields, "ingest.chunk_size")
		assert.Contains(t, fields, "retrieval.top_k")
	})
}
