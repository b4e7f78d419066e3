// Package ingest runs the offline batch pipeline: fetch events, clean them,
// build documents, chunk, embed and persist the vector index.
package ingest

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/zaracky/POC-RAG-System/internal/document"
	"github.com/zaracky/POC-RAG-System/internal/index"
	"github.com/zaracky/POC-RAG-System/internal/llm"
	"github.com/zaracky/POC-RAG-System/internal/openagenda"
)

// Fetcher is the paginated event source.
type Fetcher interface {
	FetchAll(ctx context.Context) ([]openagenda.Record, []openagenda.KeywordError)
}

// Splitter produces the semantic chunks of a document body.
type Splitter interface {
	Split(ctx context.Context, body string) ([]string, error)
}

// Pipeline wires the ingestion stages together. Construct it once at process
// start and pass it around; it holds no hidden global state.
type Pipeline struct {
	Fetcher  Fetcher
	Chunker  Splitter
	Embedder llm.EmbedderClient
	Clean    openagenda.CleanOptions
	IndexDir string
}

// Report summarizes one ingestion run.
type Report struct {
	Fetched        int
	Cleaned        int
	Documents      int
	Chunks         int
	Indexed        int
	FailedKeywords []openagenda.KeywordError
}

// Run executes the whole pipeline and atomically swaps the new index into
// place. Per-keyword fetch failures and per-chunk embedding failures degrade
// coverage and are reported; they never abort the run.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	report := &Report{}

	records, failures := p.Fetcher.FetchAll(ctx)
	report.Fetched = len(records)
	report.FailedKeywords = failures
	for _, f := range failures {
		log.Printf("fetch degraded: %v", f)
	}
	if len(records) == 0 {
		return report, fmt.Errorf("event source unavailable: no records fetched (%d keyword failures)", len(failures))
	}

	events := openagenda.CleanEvents(records, p.Clean)
	report.Cleaned = len(events)
	log.Printf("cleaned %d/%d records", len(events), len(records))

	docs := document.Build(events)
	report.Documents = len(docs)

	store := &index.Store{}
	for _, doc := range docs {
		chunks, err := p.Chunker.Split(ctx, doc.Body)
		if err != nil {
			// Fall back to indexing the whole body as one chunk.
			log.Printf("chunking failed for document %v: %v", doc.Metadata["id"], err)
			chunks = []string{doc.Body}
		}
		report.Chunks += len(chunks)

		for _, chunk := range chunks {
			vec, err := p.Embedder.Embed(ctx, chunk)
			if err != nil {
				log.Printf("embedding failed for document %v: %v", doc.Metadata["id"], err)
				continue
			}
			store.Points = append(store.Points, index.Point{
				ID:       uuid.New().String(),
				Vector:   vec,
				Text:     chunk,
				Metadata: doc.Metadata,
			})
		}
	}
	report.Indexed = len(store.Points)

	if err := store.Save(p.IndexDir); err != nil {
		return report, fmt.Errorf("failed to persist index: %w", err)
	}

	log.Printf("ingestion done: %d records, %d events, %d documents, %d chunks indexed, %d keywords failed",
		report.Fetched, report.Cleaned, report.Documents, report.Indexed, len(report.FailedKeywords))
	return report, nil
}
