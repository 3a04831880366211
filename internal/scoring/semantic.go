package scoring

import "math"

// SemanticScore is the tagged result of a semantic similarity computation.
// Available is false when the inputs are missing, of unequal length, or
// either vector has zero magnitude; Value is meaningful only when Available
// is true.
type SemanticScore struct {
	Value     float64
	Available bool
}

// Unavailable is the sentinel-free "no semantic score" result.
func Unavailable() SemanticScore {
	return SemanticScore{}
}

// SemanticSimilarity computes a holistic match score in [0, 100] from two
// pre-computed embedding vectors. Cosine similarity in [-1, 1] is mapped to
// a display score via (similarity + 1) / 2 * 100. It never errors: degenerate
// inputs yield an unavailable result, which triggers tier fallback.
func SemanticSimilarity(candidate, job []float64) SemanticScore {
	if len(candidate) == 0 || len(job) == 0 || len(candidate) != len(job) {
		return Unavailable()
	}

	var dot, normA, normB float64
	for i := range candidate {
		dot += candidate[i] * job[i]
		normA += candidate[i] * candidate[i]
		normB += job[i] * job[i]
	}
	if normA == 0 || normB == 0 {
		return Unavailable()
	}

	similarity := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	return SemanticScore{
		Value:     (similarity + 1) / 2 * 100,
		Available: true,
	}
}
