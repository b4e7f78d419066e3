package llm

import (
	"context"
)

// LLMClient is the opaque generation capability: given a prompt, return text.
type LLMClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// EmbedderClient is the opaque embedding capability: given text, return a
// fixed-length vector. The same embedder must be used at indexing time and
// at query time for similarity scores to be meaningful.
type EmbedderClient interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
