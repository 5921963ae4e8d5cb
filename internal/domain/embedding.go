package domain

import "context"

// TaskType distinguishes document embeddings from query embeddings for
// providers that apply asymmetric instructions.
type TaskType string

// Embedding task types.
const (
	TaskDocument TaskType = "document"
	TaskQuery    TaskType = "query"
)

// Embedder is the shared text vectorization contract between layers.
type Embedder interface {
	Embed(ctx context.Context, text string, task TaskType) (EmbeddingResult, error)
}

// EmbeddingResult carries the embedding vector and token usage through the
// decorator chain. Degraded is set when the vector came from the local
// deterministic fallback rather than the provider.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
	Degraded     bool
}

// Generator produces candidate content variants from a prompt. The provider
// is opaque; the pipeline only consumes its output strings.
type Generator interface {
	Generate(ctx context.Context, prompt string, count int) ([]string, error)
}
