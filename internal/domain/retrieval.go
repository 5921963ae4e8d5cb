package domain

// RetrievalMethod identifies which retrieval strategy produced a context.
type RetrievalMethod string

// Retrieval methods, in order of degradation.
const (
	RetrievalHybrid    RetrievalMethod = "hybrid"
	RetrievalSemantic  RetrievalMethod = "semantic"
	RetrievalBM25      RetrievalMethod = "bm25"
	RetrievalThemeOnly RetrievalMethod = "theme_only"
)

// RetrievalContext is the grounding material assembled once per generation
// request. It is immutable after creation and never persisted. An empty
// corpus still yields a non-nil context with RetrievalThemeOnly.
type RetrievalContext struct {
	RelevantDocuments []Document
	SimilarSummaries  []string
	ThemeEmbedding    []float32
	AverageSimilarity float64
	Method            RetrievalMethod
}
