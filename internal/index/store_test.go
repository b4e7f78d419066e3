package index

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore() *Store {
	return &Store{Points: []Point{
		{ID: "a", Vector: []float32{1, 0, 0}, Text: "concert de jazz", Metadata: map[string]any{"id": "e1"}},
		{ID: "b", Vector: []float32{0, 1, 0}, Text: "exposition de peinture", Metadata: map[string]any{"id": "e2"}},
		{ID: "c", Vector: []float32{0.9, 0.1, 0}, Text: "festival de jazz", Metadata: map[string]any{"id": "e3"}},
	}}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "vector_index")
	s := testStore()

	require.NoError(t, s.Save(dir))

	loaded, err := Load(dir)
	require.NoError(t, err)
	require.Len(t, loaded.Points, 3)
	assert.Equal(t, "concert de jazz", loaded.Points[0].Text)
	assert.Equal(t, "e1", loaded.Points[0].Metadata["id"])
}

func TestSaveReplacesPreviousIndexWholesale(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "vector_index")

	old := &Store{Points: []Point{{ID: "old", Vector: []float32{1}, Text: "ancien"}}}
	require.NoError(t, old.Save(dir))
	require.NoError(t, testStore().Save(dir))

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Len(t, loaded.Points, 3)
	for _, p := range loaded.Points {
		assert.NotEqual(t, "old", p.ID)
	}
}

func TestSaveCleansUpWorkingDirs(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "vector_index")

	// A stale backup from an interrupted run must not break the swap.
	require.NoError(t, os.MkdirAll(dir+".old", 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir+".old", "index.json"), []byte("stale"), 0o644))

	require.NoError(t, testStore().Save(dir))
	require.NoError(t, testStore().Save(dir))

	_, err := os.Stat(dir + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp dir must not survive a save")
	_, err = os.Stat(dir + ".old")
	assert.True(t, os.IsNotExist(err), "backup dir must not survive a save")

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Len(t, loaded.Points, 3)
}

func TestLoadMissingIndex(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nowhere"))
	assert.Error(t, err)
}

func TestLoadCorruptIndex(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "vector_index")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.json"), []byte("{broken"), 0o644))

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestSearchRanksByCosine(t *testing.T) {
	s := testStore()

	hits := s.Search([]float32{1, 0, 0}, 2)

	require.Len(t, hits, 2)
	assert.Equal(t, "a", hits[0].Point.ID)
	assert.Equal(t, "c", hits[1].Point.ID)
	assert.Greater(t, hits[0].Score, hits[1].Score)
}

func TestSearchSkipsMismatchedDimensions(t *testing.T) {
	s := &Store{Points: []Point{
		{ID: "ok", Vector: []float32{1, 0}},
		{ID: "bad", Vector: []float32{1, 0, 0}},
	}}

	hits := s.Search([]float32{1, 0}, 10)

	require.Len(t, hits, 1)
	assert.Equal(t, "ok", hits[0].Point.ID)
}

func TestCosine(t *testing.T) {
	same, err := Cosine([]float32{1, 2, 3}, []float32{1, 2, 3})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, same, 1e-9)

	orth, err := Cosine([]float32{1, 0}, []float32{0, 1})
	require.NoError(t, err)
	assert.InDelta(t, 0.0, orth, 1e-9)

	_, err = Cosine([]float32{1}, []float32{1, 2})
	assert.Error(t, err)

	_, err = Cosine(nil, []float32{1})
	assert.Error(t, err)
}
