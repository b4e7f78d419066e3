// Package index is a flat vector index persisted as a directory artifact.
// Each ingestion run rebuilds it wholesale; readers only ever see a complete
// artifact because replacement is a rename, never an in-place mutation.
package index

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
)

const artifactFile = "index.json"

// Point is one embedded chunk with its parent document's metadata.
type Point struct {
	ID       string         `json:"id"`
	Vector   []float32      `json:"vector"`
	Text     string         `json:"text"`
	Metadata map[string]any `json:"metadata"`
}

type Store struct {
	Points []Point `json:"points"`
}

// Hit is one nearest-neighbor result.
type Hit struct {
	Point Point
	Score float64
}

// Save writes the store into dir atomically: the artifact is written next to
// the target and swapped in with renames, so a crash mid-write never leaves
// a partial index behind. The previous index is moved aside rather than
// removed before the swap, so a complete artifact exists at every step.
func (s *Store) Save(dir string) error {
	tmp := dir + ".tmp"
	if err := os.RemoveAll(tmp); err != nil {
		return fmt.Errorf("failed to clear temp dir: %w", err)
	}
	if err := os.MkdirAll(tmp, 0o755); err != nil {
		return fmt.Errorf("failed to create temp dir: %w", err)
	}

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal index: %w", err)
	}
	if err := os.WriteFile(filepath.Join(tmp, artifactFile), data, 0o644); err != nil {
		return fmt.Errorf("failed to write index artifact: %w", err)
	}

	old := dir + ".old"
	if err := os.RemoveAll(old); err != nil {
		return fmt.Errorf("failed to clear stale index backup: %w", err)
	}
	if _, err := os.Stat(dir); err == nil {
		if err := os.Rename(dir, old); err != nil {
			return fmt.Errorf("failed to move previous index aside: %w", err)
		}
	}
	if err := os.Rename(tmp, dir); err != nil {
		return fmt.Errorf("failed to swap index into place: %w", err)
	}
	os.RemoveAll(old)
	return nil
}

// Load reads a persisted index. A missing or corrupt artifact is an error;
// serving queries without an index makes no sense, so callers should treat
// this as fatal at startup.
func Load(dir string) (*Store, error) {
	data, err := os.ReadFile(filepath.Join(dir, artifactFile))
	if err != nil {
		return nil, fmt.Errorf("vector index unavailable at '%s': %w", dir, err)
	}

	var s Store
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("vector index corrupt at '%s': %w", dir, err)
	}
	return &s, nil
}

// Search returns the top-k points by cosine similarity, best first.
func (s *Store) Search(vector []float32, k int) []Hit {
	hits := make([]Hit, 0, len(s.Points))
	for _, p := range s.Points {
		score, err := Cosine(vector, p.Vector)
		if err != nil {
			continue
		}
		hits = append(hits, Hit{Point: p, Score: score})
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if k > 0 && len(hits) > k {
		hits = hits[:k]
	}
	return hits
}

// Cosine computes cosine similarity for two vectors, clamped to [-1, 1].
func Cosine(a, b []float32) (float64, error) {
	if len(a) == 0 || len(b) == 0 {
		return 0, fmt.Errorf("cosine similarity: empty vector")
	}
	if len(a) != len(b) {
		return 0, fmt.Errorf("cosine similarity: dimension mismatch: %d vs %d", len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		ai := float64(a[i])
		bi := float64(b[i])
		dot += ai * bi
		normA += ai * ai
		normB += bi * bi
	}
	if normA == 0 || normB == 0 {
		return 0, fmt.Errorf("cosine similarity: zero vector norm")
	}

	score := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if score > 1 {
		score = 1
	} else if score < -1 {
		score = -1
	}
	return score, nil
}
