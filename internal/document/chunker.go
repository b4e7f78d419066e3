package document

import (
	"context"
	"sort"
	"strings"

	"github.com/zaracky/POC-RAG-System/internal/index"
	"github.com/zaracky/POC-RAG-System/internal/llm"
)

// Chunker splits document bodies on semantic boundaries rather than a fixed
// character count: each sentence is embedded and a new chunk starts wherever
// the cosine distance between adjacent sentences exceeds the percentile
// threshold observed across the document.
type Chunker struct {
	Embedder llm.EmbedderClient

	// BreakpointPercentile selects which adjacent-sentence distances count
	// as boundaries; distances above this percentile start a new chunk.
	BreakpointPercentile float64
}

func NewChunker(embedder llm.EmbedderClient) *Chunker {
	return &Chunker{
		Embedder:             embedder,
		BreakpointPercentile: 95,
	}
}

// Split returns the semantic chunks of body, in order. Bodies of at most two
// sentences come back as a single chunk. Deterministic for a fixed embedder.
func (c *Chunker) Split(ctx context.Context, body string) ([]string, error) {
	sentences := splitSentences(body)
	if len(sentences) <= 2 {
		if strings.TrimSpace(body) == "" {
			return nil, nil
		}
		return []string{body}, nil
	}

	vectors := make([][]float32, len(sentences))
	for i, s := range sentences {
		vec, err := c.Embedder.Embed(ctx, s)
		if err != nil {
			return nil, err
		}
		vectors[i] = vec
	}

	distances := make([]float64, len(sentences)-1)
	for i := 0; i < len(sentences)-1; i++ {
		sim, err := index.Cosine(vectors[i], vectors[i+1])
		if err != nil {
			sim = 0
		}
		distances[i] = 1 - sim
	}

	threshold := percentile(distances, c.BreakpointPercentile)

	var chunks []string
	var current []string
	for i, s := range sentences {
		current = append(current, s)
		if i < len(distances) && distances[i] > threshold {
			chunks = append(chunks, strings.Join(current, " "))
			current = nil
		}
	}
	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, " "))
	}
	return chunks, nil
}

// splitSentences breaks text on terminal punctuation, keeping the
// punctuation with its sentence.
func splitSentences(text string) []string {
	var sentences []string
	var sb strings.Builder

	for _, r := range text {
		sb.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			if s := strings.TrimSpace(sb.String()); s != "" {
				sentences = append(sentences, s)
			}
			sb.Reset()
		}
	}
	if s := strings.TrimSpace(sb.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

// percentile interpolates the p-th percentile of the samples. With strictly
// greater-than comparison at the call site, a document whose distances are
// all equal stays a single chunk.
func percentile(samples []float64, p float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	sorted := append([]float64(nil), samples...)
	sort.Float64s(sorted)

	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[len(sorted)-1]
	}

	pos := p / 100 * float64(len(sorted)-1)
	lower := int(pos)
	frac := pos - float64(lower)
	if lower+1 >= len(sorted) {
		return sorted[lower]
	}
	return sorted[lower]*(1-frac) + sorted[lower+1]*frac
}
