package retrieval

import (
	"testing"

	"github.com/atelier-cloud/brandgen/internal/domain"
)

func embeddedCorpus(vectors ...[]float32) []domain.Document {
	docs := make([]domain.Document, len(vectors))
	for i, v := range vectors {
		docs[i] = domain.Document{ID: string(rune('a' + i)), Text: "doc", Embedding: v}
	}
	return docs
}

func TestSelectMMR_TopKZero(t *testing.T) {
	pool := []rankedDoc{{index: 0, score: 1.0}}
	docs := embeddedCorpus([]float32{1, 0})

	if got := selectMMR(pool, docs, 0.6, 0); len(got) != 0 {
		t.Errorf("Expected empty selection for topK=0, got %v", got)
	}
}

func TestSelectMMR_TopKCoversPool(t *testing.T) {
	pool := []rankedDoc{{index: 0, score: 1.0}, {index: 1, score: 0.5}}
	docs := embeddedCorpus([]float32{1, 0}, []float32{0, 1})

	got := selectMMR(pool, docs, 0.6, 10)
	if len(got) != 2 {
		t.Fatalf("Expected full pool, got %d entries", len(got))
	}
	if got[0].index != 0 || got[1].index != 1 {
		t.Errorf("Expected pool order preserved, got %v", got)
	}
}

func TestSelectMMR_PenalizesRedundancy(t *testing.T) {
	// Docs 0 and 1 are identical vectors; doc 2 is orthogonal but ranked
	// lower. MMR should pick 0 then skip its duplicate in favor of 2.
	docs := embeddedCorpus(
		[]float32{1, 0},
		[]float32{1, 0},
		[]float32{0, 1},
	)
	pool := []rankedDoc{
		{index: 0, score: 1.0},
		{index: 1, score: 0.9},
		{index: 2, score: 0.5},
	}

	got := selectMMR(pool, docs, 0.5, 2)
	if len(got) != 2 {
		t.Fatalf("Expected 2 selected, got %d", len(got))
	}
	if got[0].index != 0 {
		t.Errorf("Expected most relevant doc first, got %d", got[0].index)
	}
	if got[1].index != 2 {
		t.Errorf("Expected orthogonal doc second, got %d", got[1].index)
	}
}

func TestSelectMMR_NeverRepeats(t *testing.T) {
	docs := embeddedCorpus(
		[]float32{1, 0}, []float32{0.9, 0.1}, []float32{0, 1}, []float32{0.5, 0.5},
	)
	pool := []rankedDoc{
		{index: 0, score: 1.0}, {index: 1, score: 0.8},
		{index: 2, score: 0.6}, {index: 3, score: 0.4},
	}

	got := selectMMR(pool, docs, 0.6, 3)
	if len(got) != 3 {
		t.Fatalf("Expected 3 selected, got %d", len(got))
	}
	seen := make(map[int]bool)
	for _, r := range got {
		if seen[r.index] {
			t.Errorf("Doc %d selected twice", r.index)
		}
		seen[r.index] = true
	}
}
