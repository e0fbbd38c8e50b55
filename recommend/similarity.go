package recommend

import "math"

// CosineSimilarity returns dot(a,b) / (|a|*|b|), or 0 when either vector has
// zero magnitude or the lengths differ. Counts are non-negative, so the
// result lies in [0,1].
func CosineSimilarity(a, b TagVector) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	score := dot / math.Sqrt(normA*normB)
	// float rounding can push an exact match a hair above 1
	return math.Max(0, math.Min(1, score))
}
