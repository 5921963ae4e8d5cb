package embedding

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"

	"github.com/atelier-cloud/brandgen/internal/domain"
)

// LocalEmbedder derives embedding vectors from text features without any
// external provider. The derivation is deterministic: the same text always
// yields the same vector, which keeps tests reproducible and lets the cache
// stay warm across provider outages. Vectors are L2-normalized and share the
// dimension of the real provider so cosine similarity remains valid.
type LocalEmbedder struct {
	dimensions int
}

// NewLocalEmbedder creates a deterministic local embedder.
func NewLocalEmbedder(dimensions int) *LocalEmbedder {
	if dimensions <= 0 {
		dimensions = 768
	}
	return &LocalEmbedder{dimensions: dimensions}
}

// Dimensions returns the vector dimension.
func (e *LocalEmbedder) Dimensions() int { return e.dimensions }

// Embed implements domain.Embedder. It never fails.
func (e *LocalEmbedder) Embed(_ context.Context, text string, _ domain.TaskType) (domain.EmbeddingResult, error) {
	return domain.EmbeddingResult{Embedding: e.Vector(text), Degraded: true}, nil
}

const (
	wordWeight    = 1.0
	trigramWeight = 0.4
	statWeight    = 0.25
)

// Vector hashes word features, character trigrams, and basic text statistics
// into a fixed-dimension normalized vector.
func (e *LocalEmbedder) Vector(text string) []float32 {
	vec := make([]float32, e.dimensions)

	words := tokenize(text)
	for _, w := range words {
		vec[bucket("w:"+w, e.dimensions)] += wordWeight
		for _, gram := range trigrams(w) {
			vec[bucket("g:"+gram, e.dimensions)] += trigramWeight
		}
	}

	// Text statistics occupy three fixed buckets so that texts of a similar
	// shape stay close even with disjoint vocabulary.
	if len(words) > 0 {
		vec[0] += float32(math.Log1p(float64(len(words))) * statWeight)
		vec[1] += float32(avgWordLen(words) / 10 * statWeight)
		vec[2] += float32(punctuationRatio(text) * statWeight)
	}

	domain.Normalize(vec)
	return vec
}

func tokenize(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		w := strings.TrimFunc(f, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r)
		})
		if w != "" {
			words = append(words, w)
		}
	}
	return words
}

func trigrams(word string) []string {
	runes := []rune(word)
	if len(runes) < 3 {
		return nil
	}
	grams := make([]string, 0, len(runes)-2)
	for i := 0; i+3 <= len(runes); i++ {
		grams = append(grams, string(runes[i:i+3]))
	}
	return grams
}

func bucket(feature string, dims int) int {
	h := fnv.New64a()
	_, _ = h.Write([]byte(feature))
	return int(h.Sum64() % uint64(dims)) //nolint:gosec // bucket index, not crypto
}

func avgWordLen(words []string) float64 {
	var total int
	for _, w := range words {
		total += len([]rune(w))
	}
	return float64(total) / float64(len(words))
}

func punctuationRatio(text string) float64 {
	if text == "" {
		return 0
	}
	var punct, total int
	for _, r := range text {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if unicode.IsPunct(r) {
			punct++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(punct) / float64(total)
}
