package retrieval

import (
	"context"

	"github.com/atelier-cloud/brandgen/internal/domain"
)

// ContentStore reads a project's prior content and persists embeddings
// computed on demand during retrieval.
type ContentStore interface {
	ListByProject(ctx context.Context, projectID string) ([]domain.Document, error)
	SaveEmbedding(ctx context.Context, projectID, docID string, embedding []float32) error
}

// ThemeAnalyses caches derived theme analyses keyed by theme id. Get returns
// nil on a miss.
type ThemeAnalyses interface {
	Get(ctx context.Context, themeID string) *domain.ThemeAnalysis
	Put(ctx context.Context, analysis *domain.ThemeAnalysis) error
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string, task domain.TaskType) (domain.EmbeddingResult, error)
}
