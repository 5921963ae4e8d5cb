package pipeline

import (
	"context"

	"github.com/atelier-cloud/brandgen/internal/domain"
)

// Retriever assembles the grounding context for a generation request.
type Retriever interface {
	Retrieve(ctx context.Context, query string, theme *domain.Theme, project *domain.Project) *domain.RetrievalContext
}

// Generator produces candidate content variants from a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string, count int) ([]string, error)
}

// DiversityAnalyzer reports pairwise similarity across generated variants.
type DiversityAnalyzer interface {
	Analyze(ctx context.Context, variants []string) domain.DiversityReport
}

// VariantRanker orders variants by composite score.
type VariantRanker interface {
	Rank(variants []domain.GeneratedVariant, theme *domain.Theme) []domain.GeneratedVariant
}

// ContentWriter persists generated content for future retrieval grounding.
type ContentWriter interface {
	SaveDocument(ctx context.Context, projectID string, doc *domain.Document) error
}
