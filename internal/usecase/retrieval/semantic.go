package retrieval

import (
	"sort"

	"github.com/atelier-cloud/brandgen/internal/domain"
)

// rankSemantic orders the corpus by cosine similarity to the query vector.
// Similarities are computed on raw vectors and clamped to [-1, 1]. Documents
// without an embedding score -1 and sink to the tail; callers embed on demand
// before ranking, so that case only remains after an embedding write failed.
func rankSemantic(queryVec []float32, docs []domain.Document) []rankedDoc {
	if len(queryVec) == 0 || len(docs) == 0 {
		return nil
	}

	ranking := make([]rankedDoc, len(docs))
	for i, d := range docs {
		score := -1.0
		if d.HasEmbedding() {
			score = domain.CosineSimilarity(queryVec, d.Embedding)
		}
		ranking[i] = rankedDoc{index: i, score: score}
	}

	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].score > ranking[j].score
	})
	return ranking
}
