// Package similarity implements the cosine similarity engine of §4.C over
// the sparse term-vectors in a CoOccurrenceIndex. The dot-product and
// magnitude arithmetic is grounded on the teacher's
// vectorstore/memory.Storage.Search (dense dot-product cosine, assuming
// pre-normalized vectors); here the vectors are sparse maps instead of
// dense slices, so the dot product iterates the smaller of the two maps.
package similarity

import (
	"math"
	"sort"
)

// Cosine computes the cosine similarity of two sparse term→count vectors.
// Returns 0 if either vector has zero magnitude (§4.C Definition).
func Cosine(vec1, vec2 map[string]int) float64 {
	if len(vec1) == 0 || len(vec2) == 0 {
		return 0
	}
	small, large := vec1, vec2
	if len(vec2) < len(vec1) {
		small, large = vec2, vec1
	}
	var dot float64
	for term, c := range small {
		if oc, ok := large[term]; ok {
			dot += float64(c) * float64(oc)
		}
	}
	if dot == 0 {
		return 0
	}
	mag1 := magnitude(vec1)
	mag2 := magnitude(vec2)
	if mag1 == 0 || mag2 == 0 {
		return 0
	}
	cos := dot / (mag1 * mag2)
	if cos < 0 {
		return 0
	}
	if cos > 1 {
		return 1
	}
	return cos
}

func magnitude(vec map[string]int) float64 {
	var sumSq float64
	for _, c := range vec {
		sumSq += float64(c) * float64(c)
	}
	return math.Sqrt(sumSq)
}

// SimilarTerm is one neighbor returned by FindSimilarTerms.
type SimilarTerm struct {
	Term       string
	Similarity float64
}

// FindSimilarTerms returns the top-K terms U != term from matrix, ordered
// by descending similarity to term's row vector, excluding neighbors with
// similarity < minSimilarity. Ties are broken lexicographically by term
// for determinism (§4.C).
func FindSimilarTerms(term string, matrix map[string]map[string]int, k int, minSimilarity float64) []SimilarTerm {
	vec, ok := matrix[term]
	if !ok {
		return nil
	}
	candidates := make([]SimilarTerm, 0, len(matrix))
	for other, otherVec := range matrix {
		if other == term {
			continue
		}
		sim := Cosine(vec, otherVec)
		if sim < minSimilarity {
			continue
		}
		candidates = append(candidates, SimilarTerm{Term: other, Similarity: sim})
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Similarity != candidates[j].Similarity {
			return candidates[i].Similarity > candidates[j].Similarity
		}
		return candidates[i].Term < candidates[j].Term
	})
	if k >= 0 && len(candidates) > k {
		candidates = candidates[:k]
	}
	return candidates
}
