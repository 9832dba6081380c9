// Package similarity holds the pure scoring functions the matching engine
// combines into a single decision value.
package similarity

import (
	"fmt"
	"math"
	"strings"

	"github.com/refind-app/refind/internal/domain"
)

// Weights of the combined score. Fixed design constants, not tunable per call.
const (
	TextWeight     = 0.8
	LocationWeight = 0.2
)

// DefaultThreshold is the minimum combined score required to record a match.
const DefaultThreshold = 0.75

// Cosine returns the cosine similarity of two vectors in [-1, 1].
// Both vectors must be non-empty and of equal length; callers pre-filter
// items lacking an embedding.
func Cosine(a, b []float32) (float64, error) {
	if len(a) == 0 || len(b) == 0 {
		return 0, fmt.Errorf("empty vector: %w", domain.ErrDimensionMismatch)
	}
	if len(a) != len(b) {
		return 0, fmt.Errorf("got %d and %d dimensions: %w", len(a), len(b), domain.ErrDimensionMismatch)
	}

	var dot, normA, normB float64
	for i := range a {
		av := float64(a[i])
		bv := float64(b[i])
		dot += av * bv
		normA += av * av
		normB += bv * bv
	}
	if normA == 0 || normB == 0 {
		return 0, nil
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}

// Location scores free-text location overlap in [0, 1]. Case-insensitive.
// Containment of one normalized string in the other scores 1. Otherwise the
// score is |token-set intersection| / max(token count A, token count B);
// the longer string dominates the denominator on purpose, this is not a
// symmetric Jaccard index.
func Location(a, b string) float64 {
	na := strings.ToLower(strings.TrimSpace(a))
	nb := strings.ToLower(strings.TrimSpace(b))
	if na == "" || nb == "" {
		return 0
	}
	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		return 1
	}

	tokensA := strings.Fields(na)
	tokensB := strings.Fields(nb)

	setA := make(map[string]struct{}, len(tokensA))
	for _, t := range tokensA {
		setA[t] = struct{}{}
	}
	seen := make(map[string]struct{}, len(tokensB))
	common := 0
	for _, t := range tokensB {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		if _, ok := setA[t]; ok {
			common++
		}
	}

	denom := len(tokensA)
	if len(tokensB) > denom {
		denom = len(tokensB)
	}
	return float64(common) / float64(denom)
}

// Combined folds text and location similarity into the matching decision value.
func Combined(textScore, locationScore float64) float64 {
	return TextWeight*textScore + LocationWeight*locationScore
}
