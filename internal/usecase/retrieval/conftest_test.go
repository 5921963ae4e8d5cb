package retrieval

import (
	"context"
	"sync"

	"github.com/atelier-cloud/brandgen/internal/domain"
)

// mockContentStore serves a fixed corpus and records embedding write-backs.
type mockContentStore struct {
	mu      sync.Mutex
	docs    []domain.Document
	listErr error
	saved   map[string][]float32
}

func newMockContentStore(docs ...domain.Document) *mockContentStore {
	return &mockContentStore{docs: docs, saved: make(map[string][]float32)}
}

func (m *mockContentStore) ListByProject(context.Context, string) ([]domain.Document, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]domain.Document, len(m.docs))
	copy(out, m.docs)
	return out, nil
}

func (m *mockContentStore) SaveEmbedding(_ context.Context, _, docID string, embedding []float32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved[docID] = embedding
	return nil
}

func (m *mockContentStore) savedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.saved)
}

// mockThemes is an in-memory theme analysis cache.
type mockThemes struct {
	cached   *domain.ThemeAnalysis
	putCalls int
}

func (m *mockThemes) Get(context.Context, string) *domain.ThemeAnalysis {
	return m.cached
}

func (m *mockThemes) Put(_ context.Context, analysis *domain.ThemeAnalysis) error {
	m.putCalls++
	m.cached = analysis
	return nil
}

// mockEmbedder returns canned vectors by text, or a fixed default vector.
type mockEmbedder struct {
	mu       sync.Mutex
	vectors  map[string][]float32
	degraded bool
	calls    []string
}

func newMockEmbedder() *mockEmbedder {
	return &mockEmbedder{vectors: make(map[string][]float32)}
}

func (m *mockEmbedder) Embed(_ context.Context, text string, _ domain.TaskType) (domain.EmbeddingResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, text)
	vec, ok := m.vectors[text]
	if !ok {
		vec = []float32{1, 0, 0, 0}
	}
	return domain.EmbeddingResult{Embedding: vec, Degraded: m.degraded}, nil
}

func (m *mockEmbedder) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func testConfig() Config {
	return Config{
		RRFK:             60,
		MMRLambda:        0.6,
		TopK:             5,
		MinQueryTerms:    2,
		SummaryMaxLen:    200,
		EmbeddingEnabled: true,
	}
}
