package chunker

import (
	"fmt"
	"strings"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 200

// Span is one window of the source text. Start and End are offsets into the
// original text (end-exclusive) and are not shrunk when Text is trimmed.
type Span struct {
	Text  string
	Start int
	End   int
}

// Split cuts text into fixed-size windows that overlap by overlap characters.
// Each window's text is trimmed of surrounding whitespace while the recorded
// offsets keep the pre-trim window boundaries. The final window may be shorter
// than size. Empty input yields no spans.
//
// Split rejects size <= 0, overlap < 0 and overlap >= size rather than
// clamping: an overlap at or above the window size would stall the walk.
func Split(text string, size, overlap int) ([]Span, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("chunk overlap must be in [0, %d), got %d", size, overlap)
	}
	if len(text) == 0 {
		return nil, nil
	}

	step := size - overlap
	spans := make([]Span, 0, len(text)/step+1)

	for start := 0; start < len(text); start += step {
		end := start + size
		if end > len(text) {
			end = len(text)
		}
		spans = append(spans, Span{
			Text:  strings.TrimSpace(text[start:end]),
			Start: start,
			End:   end,
		})
	}

	return spans, nil
}
