package scoring

import (
	"context"
	"math"

	"go.uber.org/zap"

	"github.com/atelier-cloud/brandgen/internal/domain"
)

// Analyzer reports how diverse a set of generated variants is, based on
// pairwise similarity. Semantic similarity is preferred; when embedding any
// variant fails the whole analysis falls back to lexical Jaccard overlap so
// every pair is measured with the same signal.
type Analyzer struct {
	embed     Embedder
	threshold float64
	logger    *zap.Logger
}

// NewAnalyzer creates a diversity analyzer. Pairs at or above threshold
// count as duplicates.
func NewAnalyzer(embed Embedder, threshold float64, logger *zap.Logger) *Analyzer {
	return &Analyzer{embed: embed, threshold: threshold, logger: logger}
}

// Analyze computes the diversity report for the given variant texts. Empty
// or single-variant input is trivially maximally diverse and never touches
// the embedding provider.
func (a *Analyzer) Analyze(ctx context.Context, variants []string) domain.DiversityReport {
	if len(variants) < 2 {
		return domain.DiversityReport{
			DiversityScore:     100,
			Method:             domain.DiversitySemantic,
			UniqueVariantCount: len(variants),
		}
	}

	sims, method := a.pairwiseSimilarities(ctx, variants)

	var sum float64
	var duplicates [][2]int
	dup := make([]bool, len(variants))
	for i := 0; i < len(variants); i++ {
		for j := i + 1; j < len(variants); j++ {
			sim := sims[i][j]
			sum += sim
			if sim >= a.threshold {
				duplicates = append(duplicates, [2]int{i, j})
				dup[j] = true
			}
		}
	}

	pairs := len(variants) * (len(variants) - 1) / 2
	avg := sum / float64(pairs)

	unique := 0
	for _, d := range dup {
		if !d {
			unique++
		}
	}

	return domain.DiversityReport{
		DiversityScore:     domain.ClampScore(int(math.Round(100 * (1 - avg)))),
		Method:             method,
		UniqueVariantCount: unique,
		DuplicatePairs:     duplicates,
	}
}

// pairwiseSimilarities returns the full similarity matrix and the method
// that produced it.
func (a *Analyzer) pairwiseSimilarities(
	ctx context.Context, variants []string,
) ([][]float64, domain.DiversityMethod) {
	vectors := make([][]float32, len(variants))
	semantic := true
	for i, v := range variants {
		res, err := a.embed.Embed(ctx, v, domain.TaskDocument)
		if err != nil || len(res.Embedding) == 0 {
			a.logger.Warn("Variant embedding unavailable, falling back to lexical diversity",
				zap.Int("variant", i), zap.Error(err))
			semantic = false
			break
		}
		vectors[i] = res.Embedding
	}

	sims := make([][]float64, len(variants))
	for i := range sims {
		sims[i] = make([]float64, len(variants))
	}
	for i := 0; i < len(variants); i++ {
		for j := i + 1; j < len(variants); j++ {
			var sim float64
			if semantic {
				sim = math.Max(0, domain.CosineSimilarity(vectors[i], vectors[j]))
			} else {
				sim = jaccardSimilarity(variants[i], variants[j])
			}
			sims[i][j] = sim
		}
	}

	if semantic {
		return sims, domain.DiversitySemantic
	}
	return sims, domain.DiversityLexical
}

// jaccardSimilarity is token-set overlap in [0, 1].
func jaccardSimilarity(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)
	if len(setA) == 0 && len(setB) == 0 {
		return 1
	}
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	intersection := 0
	for t := range setA {
		if _, ok := setB[t]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	return float64(intersection) / float64(union)
}
