package scoring

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/atelier-cloud/brandgen/internal/domain"
)

// Composite scoring factor names.
const (
	FactorBaseQuality   = "base_quality"
	FactorReadability   = "marketing_readability"
	FactorTone          = "marketing_tone"
	FactorBrandKeywords = "brand_keywords"
	FactorStructure     = "structure"
)

// DefaultWeights is the factor weight vector used when the caller supplies
// none. Weights are relative; the composite normalizes by their sum.
var DefaultWeights = map[string]float64{
	FactorBaseQuality:   0.30,
	FactorReadability:   0.20,
	FactorTone:          0.20,
	FactorBrandKeywords: 0.20,
	FactorStructure:     0.10,
}

// toneVocab marks engaging marketing language.
var toneVocab = []string{
	"discover", "enjoy", "love", "perfect", "inspired", "effortless",
	"beautiful", "exclusive", "welcome", "imagine", "elevate",
	"transform", "fresh", "vibrant", "celebrate",
}

// factorReadability rewards short sentences and plain words.
func factorReadability(text string) float64 {
	words := strings.Fields(text)
	if len(words) == 0 {
		return 0
	}

	score := 100.0

	sentences := countSentences(text)
	if sentences == 0 {
		sentences = 1
	}
	if avgSentence := float64(len(words)) / float64(sentences); avgSentence > 20 {
		score -= math.Min(40, (avgSentence-20)*2)
	}

	if avg := averageWordLength(words); avg > 7 {
		score -= math.Min(30, (avg-7)*10)
	}

	long := 0
	for _, w := range words {
		if len([]rune(w)) > 12 {
			long++
		}
	}
	score -= math.Min(20, float64(long)/float64(len(words))*100)

	return domain.ClampFloat(score, 0, 100)
}

// factorTone rewards engaging marketing language and addressing the reader,
// and penalizes shouting.
func factorTone(text string) float64 {
	words := strings.Fields(strings.ToLower(text))
	if len(words) == 0 {
		return 0
	}

	score := 50.0

	lower := strings.ToLower(text)
	hits := 0.0
	for _, w := range toneVocab {
		if strings.Contains(lower, w) {
			hits += 10
		}
	}
	score += math.Min(40, hits)

	for _, w := range words {
		if trimmed := strings.Trim(w, ".,!?;:"); trimmed == "you" || trimmed == "your" {
			score += 10
			break
		}
	}

	if strings.Count(text, "!") > 3 {
		score -= 20
	}
	if allCapsRatio(strings.Fields(text)) > 0.10 {
		score -= 15
	}

	return domain.ClampFloat(score, 0, 100)
}

// factorBrandKeywords is the share of theme keywords (name and tags) that
// appear in the text. A theme without keywords scores neutral.
func factorBrandKeywords(text string, theme *domain.Theme) float64 {
	if theme == nil {
		return 50
	}
	keywords := tokenSet(theme.AnchorText())
	if len(keywords) == 0 {
		return 50
	}

	tokens := tokenSet(text)
	matched := 0
	for k := range keywords {
		if _, ok := tokens[k]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(keywords)) * 100
}

// factorStructure rewards well-formed copy: multiple sentences, a sensible
// length, a proper ending, and paragraph breaks.
func factorStructure(text string) float64 {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0
	}

	score := 0.0
	words := strings.Fields(trimmed)

	if countSentences(trimmed) >= 2 {
		score += 30
	}
	switch n := len(words); {
	case n >= 20 && n <= 200:
		score += 40
	case n >= 10 && n <= 300:
		score += 20
	}
	if last, _ := utf8.DecodeLastRuneInString(trimmed); last == '.' || last == '!' || last == '?' {
		score += 15
	}
	if strings.Contains(trimmed, "\n\n") {
		score += 15
	}

	return domain.ClampFloat(score, 0, 100)
}

// tokenSet lowercases and splits text into a set of terms, trimming
// surrounding punctuation.
func tokenSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, f := range strings.Fields(strings.ToLower(text)) {
		term := strings.TrimFunc(f, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r)
		})
		if term != "" {
			set[term] = struct{}{}
		}
	}
	return set
}
