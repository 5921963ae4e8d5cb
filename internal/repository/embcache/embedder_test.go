package embcache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/atelier-cloud/brandgen/internal/db"
	"github.com/atelier-cloud/brandgen/internal/domain"
)

func TestEmbed_CacheMiss(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{
		Embedding:    []float32{0.1, 0.2, 0.3},
		PromptTokens: 10,
		TotalTokens:  10,
	}}
	ce, ms := newTestCachedEmbedder(t, inner)
	ctx := context.Background()

	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return nil, db.ErrKeyNotFound
	}

	var setCalled bool
	ms.setFn = func(_ context.Context, _ string, _ []byte, _ time.Duration) error {
		setCalled = true
		return nil
	}

	result, err := ce.Embed(ctx, "test text", domain.TaskDocument)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Embedding) != 3 || result.Embedding[0] != 0.1 {
		t.Fatalf("unexpected vector: %v", result.Embedding)
	}
	if result.TotalTokens != 10 {
		t.Fatalf("expected TotalTokens=10, got %d", result.TotalTokens)
	}
	if !setCalled {
		t.Fatal("expected SET to be called for cache put")
	}
}

func TestEmbed_CacheHit(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{
		Embedding: []float32{0.1, 0.2, 0.3},
	}}
	ce, ms := newTestCachedEmbedder(t, inner)
	ctx := context.Background()

	cached := vectorToCacheBytes([]float32{0.4, 0.5, 0.6})
	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return cached, nil
	}

	result, err := ce.Embed(ctx, "test text", domain.TaskDocument)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Embedding[0] != 0.4 {
		t.Fatalf("expected cached vector, got %v", result.Embedding)
	}
	if inner.calls != 0 {
		t.Fatal("inner embedder must not be called on cache hit")
	}
	if result.TotalTokens != 0 {
		t.Fatalf("cache hit must report zero tokens, got %d", result.TotalTokens)
	}
}

func TestEmbed_TaskTypeSeparatesKeys(t *testing.T) {
	ce, _ := newTestCachedEmbedder(t, &mockEmbedder{})

	docKey := ce.cacheKey("same text", domain.TaskDocument)
	queryKey := ce.cacheKey("same text", domain.TaskQuery)
	if docKey == queryKey {
		t.Fatal("document and query embeddings must use distinct cache keys")
	}
}

func TestEmbed_DegradedResultNotCached(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{
		Embedding: []float32{0.1, 0.2},
		Degraded:  true,
	}}
	ce, ms := newTestCachedEmbedder(t, inner)

	var setCalled bool
	ms.setFn = func(_ context.Context, _ string, _ []byte, _ time.Duration) error {
		setCalled = true
		return nil
	}

	if _, err := ce.Embed(context.Background(), "text", domain.TaskDocument); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if setCalled {
		t.Fatal("degraded fallback vectors must not be cached")
	}
}

func TestEmbed_StoreErrorFallsThrough(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{0.7}}}
	ce, ms := newTestCachedEmbedder(t, inner)

	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return nil, errors.New("redis down")
	}
	ms.setFn = func(_ context.Context, _ string, _ []byte, _ time.Duration) error {
		return errors.New("redis down")
	}

	result, err := ce.Embed(context.Background(), "text", domain.TaskDocument)
	if err != nil {
		t.Fatalf("store failures must not fail embedding: %v", err)
	}
	if result.Embedding[0] != 0.7 {
		t.Fatalf("expected inner vector, got %v", result.Embedding)
	}
}

func TestVectorRoundTrip(t *testing.T) {
	original := []float32{0.1, -2.5, 3.75, 0}
	data := vectorToCacheBytes(original)

	decoded, err := bytesToVector(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range original {
		if decoded[i] != original[i] {
			t.Errorf("dim %d: expected %f, got %f", i, original[i], decoded[i])
		}
	}

	if _, err := bytesToVector([]byte{1, 2, 3}); err == nil {
		t.Fatal("expected error for truncated data")
	}
}
