package validation

import (
	"context"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/atelier-cloud/brandgen/internal/domain"
	"github.com/atelier-cloud/brandgen/internal/usecase/scoring"
)

// Overall score weighting between brand consistency and text quality.
const (
	brandWeight   = 0.6
	qualityWeight = 0.4
)

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string, task domain.TaskType) (domain.EmbeddingResult, error)
}

// Service validates generated content against the brand defined by theme and
// project metadata.
type Service struct {
	embed         Embedder
	passThreshold int
	logger        *zap.Logger
}

// New creates a validation service. Content passes when its overall score
// reaches passThreshold.
func New(embed Embedder, passThreshold int, logger *zap.Logger) *Service {
	return &Service{embed: embed, passThreshold: passThreshold, logger: logger}
}

// Validate scores content against the brand references derived from theme
// and project metadata. A theme with no usable references yields a brand
// score of zero, not an error.
func (s *Service) Validate(
	ctx context.Context, content string, theme *domain.Theme, project *domain.Project,
) domain.ValidationResult {
	quality := scoring.ScoreQuality(content)
	brand := s.brandConsistency(ctx, content, domain.BrandReferences(theme, project))

	overall := int(math.Round(brandWeight*float64(brand) + qualityWeight*float64(quality)))

	result := domain.ValidationResult{
		BrandConsistencyScore: brand,
		QualityScore:          quality,
		OverallScore:          overall,
		Passes:                overall >= s.passThreshold,
	}
	s.assess(&result, content)
	result.Summary = summarize(&result)
	return result
}

// brandConsistency is the mean non-negative cosine similarity between the
// content embedding and each brand reference embedding, as a percentage.
func (s *Service) brandConsistency(ctx context.Context, content string, refs []string) int {
	if len(refs) == 0 {
		return 0
	}

	contentRes, err := s.embed.Embed(ctx, content, domain.TaskDocument)
	if err != nil {
		s.logger.Warn("Failed to embed content for validation", zap.Error(err))
		return 0
	}

	var sum float64
	for _, ref := range refs {
		refRes, err := s.embed.Embed(ctx, ref, domain.TaskQuery)
		if err != nil {
			s.logger.Warn("Failed to embed brand reference", zap.Error(err))
			continue
		}
		sum += math.Max(0, domain.CosineSimilarity(contentRes.Embedding, refRes.Embedding))
	}
	return int(math.Round(100 * sum / float64(len(refs))))
}

// assess derives qualitative strengths, issues, and recommendations from
// threshold and pattern rules.
func (s *Service) assess(result *domain.ValidationResult, content string) {
	if result.BrandConsistencyScore >= 80 {
		result.Strengths = append(result.Strengths, "Content aligns strongly with the brand identity")
	}
	if result.QualityScore >= 80 {
		result.Strengths = append(result.Strengths, "Writing quality is high")
	}

	if result.BrandConsistencyScore < 60 {
		result.Issues = append(result.Issues, domain.Issue{
			Severity:    domain.SeverityMajor,
			Category:    domain.CategoryBrandAlignment,
			Description: "Content diverges from the brand theme and references",
			Suggestion:  "Rework the copy around the theme's keywords and inspirations",
		})
	}
	if result.QualityScore < 60 {
		result.Issues = append(result.Issues, domain.Issue{
			Severity:    domain.SeverityMajor,
			Category:    domain.CategoryGrammar,
			Description: "Text quality is below the acceptable level",
			Suggestion:  "Expand the copy into complete, well-formed sentences",
		})
	}
	if strings.Count(content, "!") > 3 {
		result.Issues = append(result.Issues, domain.Issue{
			Severity:    domain.SeverityMinor,
			Category:    domain.CategoryTone,
			Description: "Excessive exclamation marks read as unprofessional",
			Suggestion:  "Keep at most one exclamation mark per paragraph",
		})
	}
	if len(strings.Fields(content)) < 5 {
		result.Issues = append(result.Issues, domain.Issue{
			Severity:    domain.SeverityMinor,
			Category:    domain.CategoryClarity,
			Description: "Content is too short to carry the brand message",
			Suggestion:  "Add detail about the product and its audience",
		})
	}

	for _, issue := range result.Issues {
		result.Recommendations = append(result.Recommendations, issue.Suggestion)
	}
}

func summarize(result *domain.ValidationResult) string {
	verdict := "fails"
	if result.Passes {
		verdict = "passes"
	}
	return fmt.Sprintf("Content %s validation with an overall score of %d/100 (brand %d, quality %d)",
		verdict, result.OverallScore, result.BrandConsistencyScore, result.QualityScore)
}
