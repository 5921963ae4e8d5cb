package scoring

import (
	"sort"
	"strings"

	"github.com/atelier-cloud/brandgen/internal/domain"
)

// Ranker orders generated variants by a weighted composite over named
// factors, keeping a per-variant factor breakdown for explainability.
type Ranker struct {
	weights map[string]float64
}

// NewRanker creates a ranker. Custom weights override the defaults per
// factor; negative or unknown entries are ignored.
func NewRanker(custom map[string]float64) *Ranker {
	weights := make(map[string]float64, len(DefaultWeights))
	for f, w := range DefaultWeights {
		weights[f] = w
	}
	for f, w := range custom {
		if _, known := weights[f]; known && w >= 0 {
			weights[f] = w
		}
	}
	return &Ranker{weights: weights}
}

// Rank scores each variant and returns them best first. The output always
// has exactly one entry per input variant: a variant that cannot be scored
// gets a zero-factor entry instead of being dropped. Ties keep the input
// order.
func (r *Ranker) Rank(variants []domain.GeneratedVariant, theme *domain.Theme) []domain.GeneratedVariant {
	ranked := make([]domain.GeneratedVariant, len(variants))
	copy(ranked, variants)

	for i := range ranked {
		factors := r.scoreFactors(&ranked[i], theme)
		ranked[i].Factors = factors
		ranked[i].CompositeScore = r.composite(factors)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].CompositeScore > ranked[j].CompositeScore
	})
	return ranked
}

func (r *Ranker) scoreFactors(v *domain.GeneratedVariant, theme *domain.Theme) map[string]float64 {
	if strings.TrimSpace(v.Content) == "" {
		return map[string]float64{
			FactorBaseQuality:   0,
			FactorReadability:   0,
			FactorTone:          0,
			FactorBrandKeywords: 0,
			FactorStructure:     0,
		}
	}
	return map[string]float64{
		FactorBaseQuality:   float64(v.QualityScore),
		FactorReadability:   factorReadability(v.Content),
		FactorTone:          factorTone(v.Content),
		FactorBrandKeywords: factorBrandKeywords(v.Content, theme),
		FactorStructure:     factorStructure(v.Content),
	}
}

// composite is the weight-normalized factor sum, in [0, 100].
func (r *Ranker) composite(factors map[string]float64) float64 {
	var sum, total float64
	for f, w := range r.weights {
		sum += w * factors[f]
		total += w
	}
	if total == 0 {
		return 0
	}
	return sum / total
}
