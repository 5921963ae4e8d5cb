package scoring

import (
	"strings"
	"unicode"

	"github.com/atelier-cloud/brandgen/internal/domain"
)

// Quality scoring baselines.
const (
	qualityBaseline      = 70
	qualityEmptyBaseline = 60
)

// professionalVocab earns a small bonus per hit, capped. The list targets
// marketing copy rather than general prose.
var professionalVocab = []string{
	"crafted", "curated", "premium", "bespoke", "tailored",
	"sustainable", "authentic", "expertly", "dedicated", "quality",
	"designed", "refined", "signature", "exceptional", "trusted",
}

// ScoreQuality rates generated text with additive heuristics on top of a
// baseline. It is a pure function and never fails: empty text returns the
// lower empty baseline, pathological input is handled by the final clamp.
func ScoreQuality(text string) int {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return qualityEmptyBaseline
	}

	score := qualityBaseline
	words := strings.Fields(trimmed)

	switch n := len(words); {
	case n >= 20 && n <= 200:
		score += 10
	case n < 10 || n > 300:
		score -= 10
	}

	if countSentences(trimmed) >= 2 {
		score += 5
	}

	if avg := averageWordLength(words); avg >= 5 && avg <= 8 {
		score += 5
	}

	if strings.Count(trimmed, "!") > 3 {
		score -= 10
	}

	if allCapsRatio(words) > 0.10 {
		score -= 10
	}

	vocabBonus := 0
	lower := strings.ToLower(trimmed)
	for _, w := range professionalVocab {
		if strings.Contains(lower, w) {
			vocabBonus += 2
		}
	}
	if vocabBonus > 10 {
		vocabBonus = 10
	}
	score += vocabBonus

	return domain.ClampScore(score)
}

func countSentences(text string) int {
	n := 0
	for _, r := range text {
		if r == '.' || r == '?' || r == '!' {
			n++
		}
	}
	return n
}

func averageWordLength(words []string) float64 {
	if len(words) == 0 {
		return 0
	}
	total := 0
	for _, w := range words {
		total += len([]rune(w))
	}
	return float64(total) / float64(len(words))
}

// allCapsRatio is the share of words longer than two letters written fully
// in upper case, a shouting signal.
func allCapsRatio(words []string) float64 {
	if len(words) == 0 {
		return 0
	}
	caps := 0
	for _, w := range words {
		letters := 0
		upper := 0
		for _, r := range w {
			if unicode.IsLetter(r) {
				letters++
				if unicode.IsUpper(r) {
					upper++
				}
			}
		}
		if letters > 2 && upper == letters {
			caps++
		}
	}
	return float64(caps) / float64(len(words))
}
