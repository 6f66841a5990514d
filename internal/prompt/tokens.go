package prompt

import (
	"log/slog"

	"github.com/pkoukk/tiktoken-go"

	"github.com/user/claimsportal/pkg/llm"
)

// Counter estimates prompt token counts for logging and extraction metadata.
// It is best-effort: when no tokenizer can be loaded the counter is disabled
// and reports zero instead of failing the request path.
type Counter struct {
	enc *tiktoken.Tiktoken
}

// NewCounter selects a tokenizer for the given model, falling back to
// cl100k_base for unknown models.
func NewCounter(model string) *Counter {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			slog.Warn("tokenizer unavailable, token estimates disabled", "model", model, "error", err)
			return &Counter{}
		}
	}
	return &Counter{enc: enc}
}

// Count returns the token count for a string, or zero when disabled.
func (c *Counter) Count(text string) int {
	if c == nil || c.enc == nil {
		return 0
	}
	return len(c.enc.Encode(text, nil, nil))
}

// CountMessages sums the token counts of the textual content of a message
// list. Image payloads are not counted.
func (c *Counter) CountMessages(messages []llm.Message) int {
	total := 0
	for _, msg := range messages {
		total += c.Count(msg.Content)
		for _, part := range msg.Parts {
			total += c.Count(part.Text)
		}
	}
	return total
}
