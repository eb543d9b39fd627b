package llm

import "context"

// MockEmbedder produces deterministic vectors without calling any service.
// Useful in tests and offline runs.
type MockEmbedder struct {
	dimension int
}

// NewMockEmbedder creates a mock embedder producing vectors of the given
// dimension.
func NewMockEmbedder(dimension int) *MockEmbedder {
	return &MockEmbedder{dimension: dimension}
}

func (e *MockEmbedder) EmbedText(_ context.Context, text string) ([]float32, error) {
	vector := make([]float32, e.dimension)
	for i, r := range text {
		if i >= e.dimension {
			break
		}
		vector[i] = float32(r) / 1000.0
	}
	return vector, nil
}
