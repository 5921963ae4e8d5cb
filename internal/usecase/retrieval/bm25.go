package retrieval

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/atelier-cloud/brandgen/internal/domain"
)

// Okapi BM25 parameters.
const (
	bm25K1 = 1.2
	bm25B  = 0.75
)

// rankedDoc is an entry in a per-method ranking: a corpus index plus the
// method's score for that document.
type rankedDoc struct {
	index int
	score float64
}

// rankBM25 orders the corpus by Okapi BM25 score against the query.
// idf(t) = ln(1 + (N - df + 0.5) / (df + 0.5)), so scores are never negative.
// Documents sharing no terms with the query score 0 and keep their original
// corpus order at the tail. An empty query or corpus yields an empty ranking.
func rankBM25(query string, docs []domain.Document) []rankedDoc {
	queryTerms := uniqueTerms(tokenizeText(query))
	if len(queryTerms) == 0 || len(docs) == 0 {
		return nil
	}

	docTerms := make([][]string, len(docs))
	df := make(map[string]int)
	totalLen := 0
	for i, d := range docs {
		terms := tokenizeText(d.Text)
		docTerms[i] = terms
		totalLen += len(terms)
		for _, t := range uniqueTerms(terms) {
			df[t]++
		}
	}
	avgLen := float64(totalLen) / float64(len(docs))

	n := float64(len(docs))
	ranking := make([]rankedDoc, len(docs))
	for i := range docs {
		tf := make(map[string]int, len(docTerms[i]))
		for _, t := range docTerms[i] {
			tf[t]++
		}

		var score float64
		for _, q := range queryTerms {
			freq := float64(tf[q])
			if freq == 0 {
				continue
			}
			dfq := float64(df[q])
			idf := math.Log(1 + (n-dfq+0.5)/(dfq+0.5))
			norm := freq * (bm25K1 + 1) /
				(freq + bm25K1*(1-bm25B+bm25B*float64(len(docTerms[i]))/avgLen))
			score += idf * norm
		}
		ranking[i] = rankedDoc{index: i, score: score}
	}

	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].score > ranking[j].score
	})
	return ranking
}

// tokenizeText splits text into lowercase terms, trimming surrounding
// punctuation from each token.
func tokenizeText(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		term := strings.TrimFunc(f, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r)
		})
		if term != "" {
			terms = append(terms, term)
		}
	}
	return terms
}

func uniqueTerms(terms []string) []string {
	seen := make(map[string]struct{}, len(terms))
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
