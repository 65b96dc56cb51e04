// Package rank scores courses against an embedded query by cosine similarity.
package rank

import (
	"sort"

	"github.com/studyhub-ai/courserank/internal/domain/ranking"
	"github.com/studyhub-ai/courserank/internal/usecase/vectorize"
)

// TopK computes the cosine similarity between the query vector and every row
// of the document matrix and returns the topK highest-scoring courses in
// descending score order.
//
// Ties keep original corpus index order (stable sort). topK is clamped to
// the corpus size; an empty corpus yields an empty slice.
func TopK(query vectorize.SparseVector, matrix *vectorize.Matrix, topK int) []ranking.Result {
	n := matrix.Rows()
	if n == 0 || topK <= 0 {
		return nil
	}

	results := make([]ranking.Result, n)
	for i := 0; i < n; i++ {
		results[i] = ranking.New(i, cosine(query, matrix.Row(i)))
	}

	// Stable: equal scores preserve corpus index order.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score() > results[j].Score()
	})

	if topK > n {
		topK = n
	}
	return results[:topK]
}

// cosine is the normalized dot product. Rows produced by the vectorizer are
// already unit length, but zero vectors (empty documents, fully
// out-of-vocabulary queries) must not divide by zero.
func cosine(a, b vectorize.SparseVector) float64 {
	na, nb := a.Norm(), b.Norm()
	if na == 0 || nb == 0 {
		return 0
	}
	return a.Dot(b) / (na * nb)
}
