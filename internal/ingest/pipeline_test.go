package ingest

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zaracky/POC-RAG-System/internal/index"
	"github.com/zaracky/POC-RAG-System/internal/openagenda"
)

type fakeFetcher struct {
	records  []openagenda.Record
	failures []openagenda.KeywordError
}

func (f *fakeFetcher) FetchAll(context.Context) ([]openagenda.Record, []openagenda.KeywordError) {
	return f.records, f.failures
}

type wholeBodyChunker struct{}

func (wholeBodyChunker) Split(_ context.Context, body string) ([]string, error) {
	return []string{body}, nil
}

type stubEmbedder struct {
	failOn string
}

func (s *stubEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if s.failOn != "" && strings.Contains(text, s.failOn) {
		return nil, errors.New("embedding backend down")
	}
	return []float32{float32(len(text)), 1}, nil
}

func testRecords(n int) []openagenda.Record {
	out := make([]openagenda.Record, n)
	for i := range out {
		out[i] = openagenda.Record{
			UID:            fmt.Sprintf("e%d", i),
			Title:          fmt.Sprintf("Concert %d", i),
			Description:    fmt.Sprintf("Description du concert %d", i),
			FirstDateBegin: time.Now().UTC().Add(24 * time.Hour).Format(time.RFC3339),
		}
	}
	return out
}

func TestPipelineRun(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "vector_index")
	p := &Pipeline{
		Fetcher:  &fakeFetcher{records: testRecords(3)},
		Chunker:  wholeBodyChunker{},
		Embedder: &stubEmbedder{},
		IndexDir: dir,
	}

	report, err := p.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, report.Fetched)
	assert.Equal(t, 3, report.Cleaned)
	assert.Equal(t, 3, report.Documents)
	assert.Equal(t, 3, report.Indexed)

	store, err := index.Load(dir)
	require.NoError(t, err)
	assert.Len(t, store.Points, 3)
	for _, pt := range store.Points {
		assert.NotEmpty(t, pt.ID)
		assert.NotEmpty(t, pt.Text)
		assert.NotEmpty(t, pt.Vector)
	}
}

func TestPipelineReportsKeywordFailures(t *testing.T) {
	p := &Pipeline{
		Fetcher: &fakeFetcher{
			records:  testRecords(1),
			failures: []openagenda.KeywordError{{Keyword: "jazz", Err: errors.New("boom")}},
		},
		Chunker:  wholeBodyChunker{},
		Embedder: &stubEmbedder{},
		IndexDir: filepath.Join(t.TempDir(), "idx"),
	}

	report, err := p.Run(context.Background())

	require.NoError(t, err)
	require.Len(t, report.FailedKeywords, 1)
	assert.Equal(t, "jazz", report.FailedKeywords[0].Keyword)
}

func TestPipelineFailsWhenNothingFetched(t *testing.T) {
	p := &Pipeline{
		Fetcher:  &fakeFetcher{},
		Chunker:  wholeBodyChunker{},
		Embedder: &stubEmbedder{},
		IndexDir: filepath.Join(t.TempDir(), "idx"),
	}

	_, err := p.Run(context.Background())

	assert.Error(t, err)
}

func TestPipelineSkipsChunksThatFailToEmbed(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "idx")
	p := &Pipeline{
		Fetcher:  &fakeFetcher{records: testRecords(3)},
		Chunker:  wholeBodyChunker{},
		Embedder: &stubEmbedder{failOn: "concert 1"},
		IndexDir: dir,
	}

	report, err := p.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, report.Documents)
	assert.Equal(t, 2, report.Indexed)

	store, err := index.Load(dir)
	require.NoError(t, err)
	assert.Len(t, store.Points, 2)
}
