package pipeline

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/atelier-cloud/brandgen/internal/domain"
	"github.com/atelier-cloud/brandgen/internal/metrics"
	"github.com/atelier-cloud/brandgen/internal/usecase/scoring"
)

// Request is one generation pipeline invocation.
type Request struct {
	Prompt       string
	Theme        *domain.Theme
	Project      *domain.Project
	VariantCount int
}

// StageRecord captures the timing and outcome of one pipeline stage.
type StageRecord struct {
	Name       string
	DurationMS int64
	Status     string // "ok" / "error"
}

// Result is the pipeline output: ranked variants plus the per-run metadata
// needed to explain them.
type Result struct {
	Variants              []domain.GeneratedVariant
	RetrievalContext      *domain.RetrievalContext
	DiversityReport       domain.DiversityReport
	Stages                []StageRecord
	AverageQuality        float64
	AverageCompositeScore float64
}

// Service runs the generation pipeline: retrieval, generation, concurrent
// scoring, ranking, diversity analysis, and best-effort persistence.
type Service struct {
	retriever Retriever
	generator Generator
	diversity DiversityAnalyzer
	ranker    VariantRanker
	content   ContentWriter
	pool      *ants.Pool
	logger    *zap.Logger
}

// New creates a pipeline service with a scoring worker pool of the given
// size.
func New(
	retriever Retriever, generator Generator, diversity DiversityAnalyzer,
	ranker VariantRanker, content ContentWriter, concurrency int, logger *zap.Logger,
) (*Service, error) {
	if concurrency < 1 {
		concurrency = 1
	}
	pool, err := ants.NewPool(concurrency)
	if err != nil {
		return nil, fmt.Errorf("create scoring pool: %w", err)
	}
	return &Service{
		retriever: retriever,
		generator: generator,
		diversity: diversity,
		ranker:    ranker,
		content:   content,
		pool:      pool,
		logger:    logger,
	}, nil
}

// Release frees the scoring worker pool.
func (s *Service) Release() {
	s.pool.Release()
}

// Execute runs the full pipeline for one request. An empty prompt is the
// only early abort; everything downstream degrades per item and the run
// fails as a whole only when no variant survives.
func (s *Service) Execute(ctx context.Context, req Request) (*Result, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		metrics.PipelineRunsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%w: prompt is empty", domain.ErrInvalidPrompt)
	}

	log := s.logger.With(zap.String("run_id", uuid.NewString()))
	log.Info("Pipeline run started",
		zap.Int("variant_count", req.VariantCount),
		zap.String("theme_id", themeID(req.Theme)))

	result := &Result{}

	s.stage(result, "retrieval", func() error {
		result.RetrievalContext = s.retriever.Retrieve(ctx, prompt, req.Theme, req.Project)
		return nil
	})

	if req.VariantCount == 0 {
		s.stage(result, "diversity", func() error {
			result.DiversityReport = s.diversity.Analyze(ctx, nil)
			return nil
		})
		metrics.PipelineRunsTotal.WithLabelValues("ok").Inc()
		log.Info("Pipeline run finished without generation",
			zap.String("retrieval_method", string(result.RetrievalContext.Method)))
		return result, nil
	}

	var contents []string
	err := s.stage(result, "generation", func() error {
		var genErr error
		contents, genErr = s.generator.Generate(
			ctx, buildPrompt(prompt, req.Theme, result.RetrievalContext), req.VariantCount)
		return genErr
	})
	if err != nil {
		metrics.PipelineRunsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("generate variants: %w", err)
	}
	if len(contents) == 0 {
		metrics.PipelineRunsTotal.WithLabelValues("error").Inc()
		return nil, domain.ErrAllVariantsFailed
	}

	var variants []domain.GeneratedVariant
	s.stage(result, "scoring", func() error {
		variants = s.scoreVariants(log, contents)
		return nil
	})

	s.stage(result, "ranking", func() error {
		result.Variants = s.ranker.Rank(variants, req.Theme)
		return nil
	})

	s.stage(result, "diversity", func() error {
		result.DiversityReport = s.diversity.Analyze(ctx, contents)
		return nil
	})

	if s.content != nil && req.Project != nil {
		s.stage(result, "persistence", func() error {
			s.persistVariants(ctx, log, req.Project.ID, result.Variants)
			return nil
		})
	}

	result.AverageQuality, result.AverageCompositeScore = averages(result.Variants)

	metrics.PipelineRunsTotal.WithLabelValues("ok").Inc()
	log.Info("Pipeline run finished",
		zap.String("retrieval_method", string(result.RetrievalContext.Method)),
		zap.Int("variants", len(result.Variants)),
		zap.Int("diversity_score", result.DiversityReport.DiversityScore))
	return result, nil
}

// scoreVariants fans quality scoring out over the worker pool. Each task
// writes its own index, so the merge is deterministic regardless of
// completion order; a panicking or unsubmittable task degrades to an
// unscored variant instead of dropping it.
func (s *Service) scoreVariants(log *zap.Logger, contents []string) []domain.GeneratedVariant {
	variants := make([]domain.GeneratedVariant, len(contents))

	var wg sync.WaitGroup
	for i, content := range contents {
		i, content := i, content
		wg.Add(1)
		err := s.pool.Submit(func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					log.Error("Variant scoring panicked", zap.Int("variant", i), zap.Any("panic", r))
					variants[i] = domain.GeneratedVariant{Content: content}
					metrics.PipelineVariantsTotal.WithLabelValues("failed").Inc()
				}
			}()
			variants[i] = domain.GeneratedVariant{
				Content:      content,
				QualityScore: scoring.ScoreQuality(content),
			}
			metrics.PipelineVariantsTotal.WithLabelValues("scored").Inc()
		})
		if err != nil {
			wg.Done()
			log.Error("Failed to submit scoring task", zap.Int("variant", i), zap.Error(err))
			variants[i] = domain.GeneratedVariant{Content: content}
			metrics.PipelineVariantsTotal.WithLabelValues("failed").Inc()
		}
	}
	wg.Wait()
	return variants
}

// persistVariants saves generated content for future retrieval grounding.
// Failures are logged, never fatal.
func (s *Service) persistVariants(
	ctx context.Context, log *zap.Logger, projectID string, variants []domain.GeneratedVariant,
) {
	for _, v := range variants {
		doc := domain.Document{
			ID:        uuid.NewString(),
			Text:      v.Content,
			MediaType: domain.MediaText,
		}
		if err := s.content.SaveDocument(ctx, projectID, &doc); err != nil {
			log.Warn("Failed to persist generated variant", zap.String("doc_id", doc.ID), zap.Error(err))
		}
	}
}

// stage runs fn, recording its duration and outcome on the result and in
// metrics.
func (s *Service) stage(result *Result, name string, fn func() error) error {
	start := time.Now()
	err := fn()
	status := "ok"
	if err != nil {
		status = "error"
	}
	elapsed := time.Since(start)
	metrics.PipelineStageDuration.WithLabelValues(name, status).Observe(elapsed.Seconds())
	result.Stages = append(result.Stages, StageRecord{
		Name:       name,
		DurationMS: elapsed.Milliseconds(),
		Status:     status,
	})
	return err
}

// buildPrompt grounds the generation prompt in the brand theme and the
// retrieved context.
func buildPrompt(prompt string, theme *domain.Theme, rctx *domain.RetrievalContext) string {
	var b strings.Builder
	b.WriteString(prompt)

	if theme != nil {
		if anchor := theme.AnchorText(); anchor != "" {
			b.WriteString("\n\nBrand theme: ")
			b.WriteString(anchor)
		}
		if theme.Description != "" {
			b.WriteString("\nBrand description: ")
			b.WriteString(theme.Description)
		}
	}

	if rctx != nil && len(rctx.SimilarSummaries) > 0 {
		b.WriteString("\n\nExamples of prior on-brand content:")
		for _, summary := range rctx.SimilarSummaries {
			b.WriteString("\n- ")
			b.WriteString(summary)
		}
	}
	return b.String()
}

func averages(variants []domain.GeneratedVariant) (quality, composite float64) {
	if len(variants) == 0 {
		return 0, 0
	}
	for _, v := range variants {
		quality += float64(v.QualityScore)
		composite += v.CompositeScore
	}
	n := float64(len(variants))
	return quality / n, composite / n
}

func themeID(theme *domain.Theme) string {
	if theme == nil {
		return ""
	}
	return theme.ID
}
