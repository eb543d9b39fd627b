package llm

import (
	"fmt"
	"strings"

	"github.com/avise/grounder/internal/models"
)

const (
	groundingHeader = "--- BRAND GUIDELINES (use as grounding) ---"
	groundingFooter = "--- END BRAND GUIDELINES ---"
)

// BuildPrompt composes the final generation prompt from the structured request
// and an optional grounding context. Pure string composition: the grounding
// block appears only when context is non-empty.
func BuildPrompt(context string, req models.GenerationRequest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Write %s content about: %s\n", req.Channel, req.Topic)

	if len(req.Voice) > 0 {
		fmt.Fprintf(&b, "Brand voice: %s\n", strings.Join(req.Voice, ", "))
	}
	if req.Brief != "" {
		fmt.Fprintf(&b, "Brief: %s\n", req.Brief)
	}

	if context != "" {
		b.WriteString("\n")
		b.WriteString(groundingHeader)
		b.WriteString("\n")
		b.WriteString(context)
		b.WriteString("\n")
		b.WriteString(groundingFooter)
		b.WriteString("\n")
	}

	return b.String()
}
