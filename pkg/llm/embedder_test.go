package llm_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avise/grounder/pkg/llm"
)

func TestNewEmbedderWithConfig(t *testing.T) {
	emb, err := llm.NewEmbedderWithConfig(llm.EmbedderConfig{
		Model:     "nomic-embed-text:latest",
		BaseURL:   "http://localhost:11434",
		RateLimit: 5,
		Timeout:   10 * time.Second,
	})
	require.NoError(t, err)
	assert.NotNil(t, emb)
}

func TestNewEmbedderDefaults(t *testing.T) {
	emb, err := llm.NewEmbedder()
	require.NoError(t, err)
	assert.NotNil(t, emb)
}

func TestMockEmbedder(t *testing.T) {
	emb := llm.NewMockEmbedder(16)

	a, err := emb.EmbedText(context.Background(), "brand voice")
	require.NoError(t, err)
	assert.Len(t, a, 16)

	b, err := emb.EmbedText(context.Background(), "brand voice")
	require.NoError(t, err)
	assert.Equal(t, a, b, "mock embeddings are deterministic")

	c, err := emb.EmbedText(context.Background(), "something else")
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestChatEngineConfigValidation(t *testing.T) {
	_, err := llm.NewWithConfig(llm.ChatConfig{Temperature: 3.0})
	assert.Error(t, err)

	_, err = llm.NewWithConfig(llm.ChatConfig{Temperature: 0.7, MaxTokens: -1})
	assert.Error(t, err)

	engine, err := llm.NewWithConfig(llm.ChatConfig{Temperature: 0.7})
	require.NoError(t, err)
	assert.NotNil(t, engine)
}
