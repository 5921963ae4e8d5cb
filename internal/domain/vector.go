package domain

import "math"

// CosineSimilarity computes cosine similarity between two raw (not
// necessarily normalized) vectors, clamped to [-1, 1]. Mismatched dimensions
// or zero vectors yield 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	return ClampFloat(sim, -1, 1)
}

// SimilarityPercent maps a cosine similarity to a [0,100] percentage.
// Negative similarity does not count against the score.
func SimilarityPercent(cos float64) int {
	return int(math.Round(ClampFloat(cos, 0, 1) * 100))
}

// ClampFloat limits v to [lo, hi].
func ClampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampScore limits an integer score to [0, 100].
func ClampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// Normalize scales a vector to unit length in place. Zero vectors are left
// untouched.
func Normalize(v []float32) {
	var norm float64
	for _, x := range v {
		norm += float64(x) * float64(x)
	}
	if norm == 0 {
		return
	}
	inv := 1 / math.Sqrt(norm)
	for i := range v {
		v[i] = float32(float64(v[i]) * inv)
	}
}
