package chi

import (
	"github.com/atelier-cloud/brandgen/internal/domain"
	"github.com/atelier-cloud/brandgen/internal/usecase/pipeline"
)

type themeDTO struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Tags         []string `json:"tags,omitempty"`
	Inspirations []string `json:"inspirations,omitempty"`
	Description  string   `json:"description,omitempty"`
}

type projectDTO struct {
	ID           string   `json:"id"`
	Name         string   `json:"name,omitempty"`
	Goals        []string `json:"goals,omitempty"`
	CustomerType string   `json:"customer_type,omitempty"`
}

type generateRequest struct {
	Prompt       string      `json:"prompt"`
	VariantCount int         `json:"variant_count"`
	Theme        *themeDTO   `json:"theme"`
	Project      *projectDTO `json:"project,omitempty"`
}

type variantDTO struct {
	Content        string             `json:"content"`
	QualityScore   int                `json:"quality_score"`
	CompositeScore float64            `json:"composite_score"`
	Factors        map[string]float64 `json:"factors,omitempty"`
}

type retrievalDTO struct {
	Method            string   `json:"method"`
	AverageSimilarity float64  `json:"average_similarity"`
	DocumentIDs       []string `json:"document_ids,omitempty"`
	SimilarSummaries  []string `json:"similar_summaries,omitempty"`
}

type diversityDTO struct {
	DiversityScore     int      `json:"diversity_score"`
	Method             string   `json:"method"`
	UniqueVariantCount int      `json:"unique_variant_count"`
	DuplicatePairs     [][2]int `json:"duplicate_pairs,omitempty"`
}

type stageDTO struct {
	Name       string `json:"name"`
	DurationMS int64  `json:"duration_ms"`
	Status     string `json:"status"`
}

type generateMetadata struct {
	Retrieval             retrievalDTO `json:"retrieval"`
	Diversity             diversityDTO `json:"diversity"`
	Stages                []stageDTO   `json:"stages"`
	AverageQuality        float64      `json:"average_quality"`
	AverageCompositeScore float64      `json:"average_composite_score"`
}

type generateResponse struct {
	Variants []variantDTO     `json:"variants"`
	Metadata generateMetadata `json:"metadata"`
}

type validateRequest struct {
	Content string      `json:"content"`
	Theme   *themeDTO   `json:"theme"`
	Project *projectDTO `json:"project,omitempty"`
}

type issueDTO struct {
	Severity    string `json:"severity"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Suggestion  string `json:"suggestion,omitempty"`
}

type validateResponse struct {
	BrandConsistencyScore int        `json:"brand_consistency_score"`
	QualityScore          int        `json:"quality_score"`
	OverallScore          int        `json:"overall_score"`
	Passes                bool       `json:"passes"`
	Strengths             []string   `json:"strengths,omitempty"`
	Issues                []issueDTO `json:"issues,omitempty"`
	Recommendations       []string   `json:"recommendations,omitempty"`
	Summary               string     `json:"summary"`
}

type createDocumentRequest struct {
	ID        string `json:"id,omitempty"`
	Text      string `json:"text"`
	MediaType string `json:"media_type,omitempty"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func themeFromDTO(dto *themeDTO) *domain.Theme {
	if dto == nil {
		return nil
	}
	return &domain.Theme{
		ID:           dto.ID,
		Name:         dto.Name,
		Tags:         dto.Tags,
		Inspirations: dto.Inspirations,
		Description:  dto.Description,
	}
}

func projectFromDTO(dto *projectDTO) *domain.Project {
	if dto == nil {
		return nil
	}
	return &domain.Project{
		ID:           dto.ID,
		Name:         dto.Name,
		Goals:        dto.Goals,
		CustomerType: dto.CustomerType,
	}
}

func generateResponseFromResult(result *pipeline.Result) generateResponse {
	variants := make([]variantDTO, len(result.Variants))
	for i, v := range result.Variants {
		variants[i] = variantDTO{
			Content:        v.Content,
			QualityScore:   v.QualityScore,
			CompositeScore: v.CompositeScore,
			Factors:        v.Factors,
		}
	}

	var docIDs []string
	for _, d := range result.RetrievalContext.RelevantDocuments {
		docIDs = append(docIDs, d.ID)
	}

	stages := make([]stageDTO, len(result.Stages))
	for i, st := range result.Stages {
		stages[i] = stageDTO{Name: st.Name, DurationMS: st.DurationMS, Status: st.Status}
	}

	return generateResponse{
		Variants: variants,
		Metadata: generateMetadata{
			Retrieval: retrievalDTO{
				Method:            string(result.RetrievalContext.Method),
				AverageSimilarity: result.RetrievalContext.AverageSimilarity,
				DocumentIDs:       docIDs,
				SimilarSummaries:  result.RetrievalContext.SimilarSummaries,
			},
			Diversity: diversityDTO{
				DiversityScore:     result.DiversityReport.DiversityScore,
				Method:             string(result.DiversityReport.Method),
				UniqueVariantCount: result.DiversityReport.UniqueVariantCount,
				DuplicatePairs:     result.DiversityReport.DuplicatePairs,
			},
			Stages:                stages,
			AverageQuality:        result.AverageQuality,
			AverageCompositeScore: result.AverageCompositeScore,
		},
	}
}

func validateResponseFromResult(result domain.ValidationResult) validateResponse {
	issues := make([]issueDTO, len(result.Issues))
	for i, issue := range result.Issues {
		issues[i] = issueDTO{
			Severity:    string(issue.Severity),
			Category:    string(issue.Category),
			Description: issue.Description,
			Suggestion:  issue.Suggestion,
		}
	}
	return validateResponse{
		BrandConsistencyScore: result.BrandConsistencyScore,
		QualityScore:          result.QualityScore,
		OverallScore:          result.OverallScore,
		Passes:                result.Passes,
		Strengths:             result.Strengths,
		Issues:                issues,
		Recommendations:       result.Recommendations,
		Summary:               result.Summary,
	}
}
