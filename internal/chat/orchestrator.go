package chat

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/zaracky/POC-RAG-System/internal/index"
	"github.com/zaracky/POC-RAG-System/internal/llm"
	"github.com/zaracky/POC-RAG-System/internal/websearch"
)

// Searcher is the read side of the vector index.
type Searcher interface {
	Search(vector []float32, k int) []index.Hit
}

// WebSearcher is the live fallback capability.
type WebSearcher interface {
	Search(ctx context.Context, query string) ([]websearch.Result, error)
}

// Source identifies which path produced an answer; the two paths are never
// spliced together.
type Source string

const (
	SourceRAG  Source = "rag"
	SourceWeb  Source = "web"
	SourceNone Source = "none"
)

type Answer struct {
	Text   string
	Source Source
}

// noAnswerSignals are the phrases the generation model uses to say it found
// nothing; any of them (or an empty result) routes the question to the web
// fallback. Kept as an explicit table so the policy stays testable.
var noAnswerSignals = []string{
	"je n'ai pas",
	"aucune information",
	"aucun événement",
	"pas d'informations",
	"je ne trouve pas",
}

// rateLimitMarkers classify provider failures that mean throttling rather
// than a hard error.
var rateLimitMarkers = []string{"429", "rate limit", "too many requests"}

// User-facing messages. Raw provider errors never reach the user.
const (
	RateLimitMessage       = "Trop de requêtes envoyées à l'API. Attendez quelques secondes et réessayez."
	ProcessingErrorMessage = "Une erreur est survenue lors du traitement de votre demande."
	WebSearchFailedMessage = "La recherche en ligne a échoué. Réessayez plus tard."
)

// Orchestrator runs the query-time path: enrich the question, retrieve,
// generate, and fall back to the web when retrieval is deemed insufficient.
// Construct once with explicit collaborators; there is no package state.
type Orchestrator struct {
	LLM      llm.LLMClient
	Embedder llm.EmbedderClient
	Index    Searcher
	Web      WebSearcher
	History  *History
	Region   string
	City     string
	TopK     int
	Backoff  time.Duration

	// Now allows tests to pin the clock; defaults to time.Now.
	Now func() time.Time
}

func (o *Orchestrator) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

// Answer resolves one question. The question is enriched before retrieval,
// but the web fallback always receives the original, unenriched question.
func (o *Orchestrator) Answer(ctx context.Context, question string) Answer {
	now := o.now()
	enriched := EnrichQuestion(question, now, o.City)

	answer := o.generate(ctx, now, enriched, question)
	if o.History != nil {
		o.History.AddExchange(question, answer.Text)
	}
	return answer
}

func (o *Orchestrator) generate(ctx context.Context, now time.Time, enriched, original string) Answer {
	history := "(aucun échange précédent)"
	if o.History != nil {
		history = o.History.Render()
	}

	vec, err := o.Embedder.Embed(ctx, enriched)
	if err != nil {
		return o.failure(ctx, err)
	}

	k := o.TopK
	if k <= 0 {
		k = 4
	}
	var contexts []string
	for _, hit := range o.Index.Search(vec, k) {
		contexts = append(contexts, hit.Point.Text)
	}

	prompt := BuildPrompt(o.Region, now, history, strings.Join(contexts, "\n\n"), enriched)

	text, err := o.LLM.Generate(ctx, prompt)
	if err != nil {
		if !isRateLimited(err) {
			log.Printf("generation failed: %v", err)
			return Answer{Text: ProcessingErrorMessage, Source: SourceNone}
		}
		// Single bounded backoff, then one retry.
		log.Printf("generation throttled, backing off %s: %v", o.Backoff, err)
		select {
		case <-ctx.Done():
			return Answer{Text: RateLimitMessage, Source: SourceNone}
		case <-time.After(o.Backoff):
		}
		text, err = o.LLM.Generate(ctx, prompt)
		if err != nil {
			return o.failure(ctx, err)
		}
	}

	result := strings.TrimSpace(text)
	if needsFallback(result) {
		return o.fallback(ctx, original)
	}
	return Answer{Text: result, Source: SourceRAG}
}

// fallback queries the web with the original question and returns its
// snippets; the result is attributable to the web path by construction.
func (o *Orchestrator) fallback(ctx context.Context, question string) Answer {
	results, err := o.Web.Search(ctx, question)
	if err != nil {
		log.Printf("web fallback failed: %v", err)
		return Answer{Text: WebSearchFailedMessage, Source: SourceNone}
	}
	if len(results) == 0 {
		return Answer{Text: websearch.NoResultMessage, Source: SourceNone}
	}
	return Answer{Text: websearch.Render(results), Source: SourceWeb}
}

func (o *Orchestrator) failure(ctx context.Context, err error) Answer {
	if isRateLimited(err) {
		return Answer{Text: RateLimitMessage, Source: SourceNone}
	}
	log.Printf("processing failed: %v", err)
	return Answer{Text: ProcessingErrorMessage, Source: SourceNone}
}

func needsFallback(result string) bool {
	if result == "" {
		return true
	}
	lower := strings.ToLower(result)
	for _, signal := range noAnswerSignals {
		if strings.Contains(lower, signal) {
			return true
		}
	}
	return false
}

func isRateLimited(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, marker := range rateLimitMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
