package embedding

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/atelier-cloud/brandgen/internal/domain"
	"github.com/atelier-cloud/brandgen/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterEmbeddingMetrics()
	os.Exit(m.Run())
}

type mockEmbedder struct {
	result domain.EmbeddingResult
	err    error
	delay  time.Duration
	calls  int
}

func (m *mockEmbedder) Embed(ctx context.Context, _ string, _ domain.TaskType) (domain.EmbeddingResult, error) {
	m.calls++
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return domain.EmbeddingResult{}, ctx.Err()
		}
	}
	return m.result, m.err
}

func newFallback(inner domain.Embedder, dims int, timeout time.Duration) *FallbackEmbedder {
	return NewFallbackEmbedder(inner, NewLocalEmbedder(dims), timeout, zap.NewNop())
}

func TestFallback_ProviderSuccess(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{
		Embedding:   []float32{0.1, 0.2, 0.3, 0.4},
		TotalTokens: 9,
	}}
	f := newFallback(inner, 4, 0)

	res, err := f.Embed(context.Background(), "hello", domain.TaskDocument)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Degraded {
		t.Error("provider result must not be degraded")
	}
	if res.TotalTokens != 9 {
		t.Errorf("expected token usage to pass through, got %d", res.TotalTokens)
	}
}

func TestFallback_ProviderError(t *testing.T) {
	inner := &mockEmbedder{err: errors.New("boom")}
	f := newFallback(inner, 8, 0)

	res, err := f.Embed(context.Background(), "hello", domain.TaskQuery)
	if err != nil {
		t.Fatalf("fallback must absorb provider errors, got %v", err)
	}
	if !res.Degraded {
		t.Error("fallback result must be marked degraded")
	}
	if len(res.Embedding) != 8 {
		t.Errorf("expected dimension-correct vector, got %d dims", len(res.Embedding))
	}
}

func TestFallback_EmptyResponse(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{Embedding: nil}}
	f := newFallback(inner, 8, 0)

	res, err := f.Embed(context.Background(), "hello", domain.TaskDocument)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Degraded || len(res.Embedding) != 8 {
		t.Errorf("expected degraded 8-dim vector, got degraded=%v dims=%d", res.Degraded, len(res.Embedding))
	}
}

func TestFallback_DimensionMismatch(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{0.1, 0.2}}}
	f := newFallback(inner, 8, 0)

	res, _ := f.Embed(context.Background(), "hello", domain.TaskDocument)
	if !res.Degraded {
		t.Error("mismatched dimensions must degrade to the local vector")
	}
	if len(res.Embedding) != 8 {
		t.Errorf("expected 8 dims, got %d", len(res.Embedding))
	}
}

func TestFallback_Timeout(t *testing.T) {
	inner := &mockEmbedder{
		delay:  200 * time.Millisecond,
		result: domain.EmbeddingResult{Embedding: []float32{0.1}},
	}
	f := newFallback(inner, 4, 10*time.Millisecond)

	start := time.Now()
	res, err := f.Embed(context.Background(), "hello", domain.TaskDocument)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if time.Since(start) > 150*time.Millisecond {
		t.Error("timeout did not bound the provider call")
	}
	if !res.Degraded {
		t.Error("timed-out call must degrade")
	}
}

func TestFallback_NilInner(t *testing.T) {
	f := newFallback(nil, 16, 0)

	res, err := f.Embed(context.Background(), "hello", domain.TaskDocument)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Embedding) != 16 {
		t.Errorf("expected 16 dims, got %d", len(res.Embedding))
	}
}

func TestFallback_DeterministicAcrossCalls(t *testing.T) {
	inner := &mockEmbedder{err: errors.New("provider down")}
	f := newFallback(inner, 32, 0)

	a, _ := f.Embed(context.Background(), "same input", domain.TaskDocument)
	b, _ := f.Embed(context.Background(), "same input", domain.TaskDocument)

	for i := range a.Embedding {
		if a.Embedding[i] != b.Embedding[i] {
			t.Fatalf("fallback vectors differ at dim %d", i)
		}
	}
}
