package embedding

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/atelier-cloud/brandgen/internal/domain"
	"github.com/atelier-cloud/brandgen/internal/metrics"
)

// DefaultProviderTimeout bounds a single provider call before falling back.
const DefaultProviderTimeout = 10 * time.Second

// FallbackEmbedder wraps a provider embedder and absorbs its failures.
// Provider errors, timeouts, empty responses, and dimension mismatches all
// degrade to the deterministic local embedder instead of propagating; callers
// always receive a usable, dimension-correct vector. With a nil inner
// embedder (provider disabled by config) every call is served locally.
type FallbackEmbedder struct {
	inner   domain.Embedder
	local   *LocalEmbedder
	timeout time.Duration
	logger  *zap.Logger
}

// NewFallbackEmbedder creates the fallback decorator. inner may be nil.
func NewFallbackEmbedder(
	inner domain.Embedder, local *LocalEmbedder,
	timeout time.Duration, logger *zap.Logger,
) *FallbackEmbedder {
	if timeout <= 0 {
		timeout = DefaultProviderTimeout
	}
	return &FallbackEmbedder{
		inner:   inner,
		local:   local,
		timeout: timeout,
		logger:  logger,
	}
}

// Embed returns the provider embedding, or a deterministic local vector when
// the provider cannot serve the request. It never returns an error.
func (f *FallbackEmbedder) Embed(ctx context.Context, text string, task domain.TaskType) (domain.EmbeddingResult, error) {
	if f.inner == nil {
		metrics.EmbeddingFallbackTotal.WithLabelValues("disabled").Inc()
		return f.local.Embed(ctx, text, task)
	}

	callCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	result, err := f.inner.Embed(callCtx, text, task)

	reason := ""
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		reason = "timeout"
	case err != nil:
		reason = "error"
	case len(result.Embedding) == 0:
		reason = "empty"
	case len(result.Embedding) != f.local.Dimensions():
		reason = "dim_mismatch"
	}

	if reason == "" {
		return result, nil
	}

	metrics.EmbeddingFallbackTotal.WithLabelValues(reason).Inc()
	f.logger.Warn("Embedding degraded to local fallback",
		zap.String("reason", reason),
		zap.String("task", string(task)),
		zap.Error(err),
	)

	return f.local.Embed(ctx, text, task)
}
