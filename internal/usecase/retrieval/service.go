package retrieval

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/atelier-cloud/brandgen/internal/domain"
	"github.com/atelier-cloud/brandgen/internal/metrics"
)

// embedConcurrency bounds on-demand document embedding fan-out.
const embedConcurrency = 4

// Config enumerates every retrieval stage option.
type Config struct {
	RRFK             int
	MMRLambda        float64
	TopK             int
	MinQueryTerms    int
	SummaryMaxLen    int
	EmbeddingEnabled bool
}

// Service chooses and executes the retrieval method appropriate to the
// available signals and assembles the grounding context for generation.
type Service struct {
	store  ContentStore
	themes ThemeAnalyses
	embed  Embedder
	cfg    Config
	logger *zap.Logger
}

// New creates a retrieval service.
func New(store ContentStore, themes ThemeAnalyses, embed Embedder, cfg Config, logger *zap.Logger) *Service {
	return &Service{store: store, themes: themes, embed: embed, cfg: cfg, logger: logger}
}

// Retrieve assembles the retrieval context for a query against a project's
// prior content. It never fails: an empty corpus is a normal state for a new
// project, store errors degrade to theme-only retrieval, and embedding
// failures are absorbed by the fallback chain.
func (s *Service) Retrieve(
	ctx context.Context, query string, theme *domain.Theme, project *domain.Project,
) *domain.RetrievalContext {
	analysis := s.themeAnalysis(ctx, theme, project)

	var docs []domain.Document
	if project != nil {
		var err error
		docs, err = s.store.ListByProject(ctx, project.ID)
		if err != nil {
			s.logger.Warn("Failed to list project content, degrading to theme-only retrieval",
				zap.String("project_id", project.ID), zap.Error(err))
			docs = nil
		}
	}

	method := s.selectMethod(query, docs)
	metrics.RetrievalMethodTotal.WithLabelValues(string(method)).Inc()

	rctx := &domain.RetrievalContext{
		ThemeEmbedding: analysis.Embedding,
		Method:         method,
	}
	if method == domain.RetrievalThemeOnly {
		return rctx
	}

	selected := s.rankAndSelect(ctx, method, query, analysis, docs, project)

	rctx.RelevantDocuments = make([]domain.Document, 0, len(selected))
	rctx.SimilarSummaries = make([]string, 0, len(selected))
	for _, r := range selected {
		doc := docs[r.index]
		rctx.RelevantDocuments = append(rctx.RelevantDocuments, doc)
		rctx.SimilarSummaries = append(rctx.SimilarSummaries, doc.Summary(s.cfg.SummaryMaxLen))
	}
	rctx.AverageSimilarity = averageThemeSimilarity(analysis.Embedding, rctx.RelevantDocuments)
	return rctx
}

// selectMethod degrades in order: no documents at all means the theme is the
// only similarity anchor; without an embedding provider only the lexical
// signal is trustworthy; a query too short for lexical ranking leans on the
// semantic signal alone.
func (s *Service) selectMethod(query string, docs []domain.Document) domain.RetrievalMethod {
	if len(docs) == 0 {
		return domain.RetrievalThemeOnly
	}
	if !s.cfg.EmbeddingEnabled {
		return domain.RetrievalBM25
	}
	if len(tokenizeText(query)) < s.cfg.MinQueryTerms {
		return domain.RetrievalSemantic
	}
	return domain.RetrievalHybrid
}

func (s *Service) rankAndSelect(
	ctx context.Context, method domain.RetrievalMethod, query string,
	analysis *domain.ThemeAnalysis, docs []domain.Document, project *domain.Project,
) []rankedDoc {
	switch method {
	case domain.RetrievalBM25:
		ranking := rankBM25(query, docs)
		if len(ranking) > s.cfg.TopK {
			ranking = ranking[:s.cfg.TopK]
		}
		return ranking

	case domain.RetrievalSemantic:
		s.ensureEmbeddings(ctx, project, docs)
		ranking := rankSemantic(s.queryVector(ctx, query, analysis), docs)
		return selectMMR(ranking, docs, s.cfg.MMRLambda, s.cfg.TopK)

	default: // hybrid: lexical and semantic rankings in parallel, fused via RRF
		var lexical, semantic []rankedDoc
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			lexical = rankBM25(query, docs)
			return nil
		})
		g.Go(func() error {
			s.ensureEmbeddings(gctx, project, docs)
			semantic = rankSemantic(s.queryVector(gctx, query, analysis), docs)
			return nil
		})
		_ = g.Wait()
		return selectMMR(fuseRRF(s.cfg.RRFK, semantic, lexical), docs, s.cfg.MMRLambda, s.cfg.TopK)
	}
}

// themeAnalysis reuses the cached analysis when the theme fingerprint still
// matches, otherwise recomputes and stores it.
func (s *Service) themeAnalysis(
	ctx context.Context, theme *domain.Theme, project *domain.Project,
) *domain.ThemeAnalysis {
	fingerprint := theme.Fingerprint()
	if cached := s.themes.Get(ctx, theme.ID); cached != nil && cached.Fingerprint == fingerprint {
		return cached
	}

	analysis := &domain.ThemeAnalysis{
		ThemeID:     theme.ID,
		Fingerprint: fingerprint,
		References:  domain.BrandReferences(theme, project),
	}
	res, err := s.embed.Embed(ctx, theme.AnchorText(), domain.TaskQuery)
	if err != nil {
		s.logger.Warn("Failed to embed theme anchor", zap.String("theme_id", theme.ID), zap.Error(err))
		return analysis
	}
	analysis.Embedding = res.Embedding

	// Degraded vectors serve this request but are never cached.
	if res.Degraded {
		return analysis
	}
	if err := s.themes.Put(ctx, analysis); err != nil {
		s.logger.Warn("Failed to cache theme analysis", zap.String("theme_id", theme.ID), zap.Error(err))
	}
	return analysis
}

// ensureEmbeddings fills missing document vectors on demand and writes
// provider-backed vectors back to the store. Degraded fallback vectors are
// used for this request but never persisted.
func (s *Service) ensureEmbeddings(ctx context.Context, project *domain.Project, docs []domain.Document) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(embedConcurrency)
	for i := range docs {
		if docs[i].HasEmbedding() {
			continue
		}
		i := i
		g.Go(func() error {
			res, err := s.embed.Embed(gctx, docs[i].Text, domain.TaskDocument)
			if err != nil {
				s.logger.Warn("Failed to embed document", zap.String("doc_id", docs[i].ID), zap.Error(err))
				return nil
			}
			docs[i].Embedding = res.Embedding
			if !res.Degraded && project != nil {
				if err := s.store.SaveEmbedding(gctx, project.ID, docs[i].ID, res.Embedding); err != nil {
					s.logger.Warn("Failed to persist document embedding",
						zap.String("doc_id", docs[i].ID), zap.Error(err))
				}
			}
			return nil
		})
	}
	_ = g.Wait()
}

// queryVector embeds the query for semantic ranking, falling back to the
// theme anchor when the query carries no text.
func (s *Service) queryVector(ctx context.Context, query string, analysis *domain.ThemeAnalysis) []float32 {
	if strings.TrimSpace(query) == "" {
		return analysis.Embedding
	}
	res, err := s.embed.Embed(ctx, query, domain.TaskQuery)
	if err != nil {
		s.logger.Warn("Failed to embed query, using theme anchor", zap.Error(err))
		return analysis.Embedding
	}
	return res.Embedding
}

// averageThemeSimilarity is the mean non-negative cosine similarity between
// the theme embedding and the selected documents, in [0, 1]. Documents still
// lacking an embedding are left out of the mean.
func averageThemeSimilarity(themeVec []float32, docs []domain.Document) float64 {
	if len(themeVec) == 0 {
		return 0
	}
	var sum float64
	var n int
	for _, d := range docs {
		if !d.HasEmbedding() {
			continue
		}
		if sim := domain.CosineSimilarity(themeVec, d.Embedding); sim > 0 {
			sum += sim
		}
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
