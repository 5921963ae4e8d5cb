package retrieval

import "github.com/atelier-cloud/brandgen/internal/domain"

// selectMMR picks up to topK pool entries by Maximal Marginal Relevance:
// each step takes the candidate maximizing
//
//	lambda*relevance(d) - (1-lambda)*max_{s in selected} sim(d, s)
//
// where relevance is the pool score normalized so the best candidate is 1,
// and sim is cosine similarity between document embeddings. A candidate is
// never selected twice. topK=0 yields an empty selection; topK at or above
// the pool size returns the pool unchanged, it is already as diverse as it
// can get.
func selectMMR(pool []rankedDoc, docs []domain.Document, lambda float64, topK int) []rankedDoc {
	if topK <= 0 || len(pool) == 0 {
		return nil
	}
	if topK >= len(pool) {
		return pool
	}

	maxScore := pool[0].score
	for _, p := range pool[1:] {
		if p.score > maxScore {
			maxScore = p.score
		}
	}
	relevance := func(p rankedDoc) float64 {
		if maxScore <= 0 {
			return 0
		}
		return p.score / maxScore
	}

	selected := make([]rankedDoc, 0, topK)
	remaining := make([]rankedDoc, len(pool))
	copy(remaining, pool)

	for len(selected) < topK && len(remaining) > 0 {
		best := 0
		bestScore := mmrScore(remaining[0], selected, docs, lambda, relevance)
		for i := 1; i < len(remaining); i++ {
			if score := mmrScore(remaining[i], selected, docs, lambda, relevance); score > bestScore {
				best, bestScore = i, score
			}
		}
		selected = append(selected, remaining[best])
		remaining = append(remaining[:best], remaining[best+1:]...)
	}
	return selected
}

func mmrScore(
	c rankedDoc, selected []rankedDoc, docs []domain.Document,
	lambda float64, relevance func(rankedDoc) float64,
) float64 {
	maxSim := 0.0
	for _, s := range selected {
		sim := domain.CosineSimilarity(docs[c.index].Embedding, docs[s.index].Embedding)
		if sim > maxSim {
			maxSim = sim
		}
	}
	return lambda*relevance(c) - (1-lambda)*maxSim
}
