package scoring

import (
	"context"

	"github.com/atelier-cloud/brandgen/internal/domain"
)

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string, task domain.TaskType) (domain.EmbeddingResult, error)
}
