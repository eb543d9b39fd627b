package chunker_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avise/grounder/pkg/chunker"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		size    int
		overlap int
		want    []chunker.Span
	}{
		{
			name:    "empty input yields no spans",
			text:    "",
			size:    100,
			overlap: 10,
			want:    nil,
		},
		{
			name:    "text shorter than size yields one span",
			text:    "brand voice",
			size:    100,
			overlap: 10,
			want:    []chunker.Span{{Text: "brand voice", Start: 0, End: 11}},
		},
		{
			name:    "exact window boundary",
			text:    "abcdefghij",
			size:    5,
			overlap: 0,
			want: []chunker.Span{
				{Text: "abcde", Start: 0, End: 5},
				{Text: "fghij", Start: 5, End: 10},
			},
		},
		{
			name:    "overlapping windows",
			text:    "abcdefghij",
			size:    4,
			overlap: 2,
			want: []chunker.Span{
				{Text: "abcd", Start: 0, End: 4},
				{Text: "cdef", Start: 2, End: 6},
				{Text: "efgh", Start: 4, End: 8},
				{Text: "ghij", Start: 6, End: 10},
			},
		},
		{
			name:    "trimming does not move offsets",
			text:    "  hi  ",
			size:    6,
			overlap: 0,
			want:    []chunker.Span{{Text: "hi", Start: 0, End: 6}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := chunker.Split(tt.text, tt.size, tt.overlap)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSplitThousandChars(t *testing.T) {
	text := strings.Repeat("A", 1000)

	spans, err := chunker.Split(text, 800, 100)
	require.NoError(t, err)
	require.Len(t, spans, 2)

	assert.Equal(t, 0, spans[0].Start)
	assert.Equal(t, 800, spans[0].End)
	assert.Equal(t, 700, spans[1].Start)
	assert.Equal(t, 1000, spans[1].End)
}

func TestSplitRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		overlap int
	}{
		{"zero size", 0, 0},
		{"negative size", -5, 0},
		{"negative overlap", 100, -1},
		{"overlap equal to size", 100, 100},
		{"overlap above size", 100, 150},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spans, err := chunker.Split("some text", tt.size, tt.overlap)
			assert.Error(t, err)
			assert.Nil(t, spans)
		})
	}
}

func TestSplitInvariants(t *testing.T) {
	text := "The quick brown fox jumps over the lazy dog. " +
		"Pack my box with five dozen liquor jugs. " +
		"How vexingly quick daft zebras jump!"
	size, overlap := 30, 7

	spans, err := chunker.Split(text, size, overlap)
	require.NoError(t, err)
	require.NotEmpty(t, spans)

	for i, s := range spans {
		assert.GreaterOrEqual(t, s.Start, 0)
		assert.Less(t, s.Start, s.End)
		assert.LessOrEqual(t, s.End, len(text))

		if i > 0 {
			assert.Greater(t, s.Start, spans[i-1].Start, "starts strictly increase")
			if i < len(spans)-1 || s.End-s.Start == size {
				assert.Equal(t, overlap, spans[i-1].End-s.Start, "consecutive windows overlap by exactly overlap chars")
			}
		}
	}

	// Deterministic: same input, same output.
	again, err := chunker.Split(text, size, overlap)
	require.NoError(t, err)
	assert.Equal(t, spans, again)
}
