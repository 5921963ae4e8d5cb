package domain

// GeneratedVariant is one candidate output of the generation pipeline,
// annotated with its scores after the scoring stages run.
type GeneratedVariant struct {
	Content        string
	QualityScore   int
	CompositeScore float64
	Factors        map[string]float64
}

// DiversityMethod names the similarity signal a diversity report was built on.
type DiversityMethod string

// Diversity methods. Lexical is the Jaccard fallback used when embeddings
// are unavailable.
const (
	DiversitySemantic DiversityMethod = "semantic"
	DiversityLexical  DiversityMethod = "lexical"
)

// DiversityReport summarizes pairwise similarity across generated variants.
type DiversityReport struct {
	DiversityScore     int
	Method             DiversityMethod
	UniqueVariantCount int
	DuplicatePairs     [][2]int
}

// IssueSeverity grades a validation issue.
type IssueSeverity string

// Issue severities.
const (
	SeverityMinor    IssueSeverity = "minor"
	SeverityMajor    IssueSeverity = "major"
	SeverityCritical IssueSeverity = "critical"
)

// IssueCategory classifies a validation issue.
type IssueCategory string

// Issue categories.
const (
	CategoryBrandAlignment IssueCategory = "brand_alignment"
	CategoryTone           IssueCategory = "tone"
	CategoryGrammar        IssueCategory = "grammar"
	CategoryClarity        IssueCategory = "clarity"
	CategoryOther          IssueCategory = "other"
)

// Issue is a single qualitative finding from brand validation.
type Issue struct {
	Severity    IssueSeverity
	Category    IssueCategory
	Description string
	Suggestion  string
}

// ValidationResult is the outcome of validating one piece of content against
// the brand. OverallScore = round(0.6*brand + 0.4*quality); Passes at >= 70.
type ValidationResult struct {
	BrandConsistencyScore int
	QualityScore          int
	OverallScore          int
	Passes                bool
	Strengths             []string
	Issues                []Issue
	Recommendations       []string
	Summary               string
}
