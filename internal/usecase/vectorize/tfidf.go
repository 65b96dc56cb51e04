// Package vectorize builds the TF-IDF vector space for a course corpus and
// projects free-text queries into it.
package vectorize

import (
	"math"
	"sort"
)

// Space is the fitted vocabulary with per-term inverse document frequency
// weights. A space is fixed after fitting; queries are embedded into it
// without refitting.
type Space struct {
	terms map[string]int // term -> column index
	idf   []float64      // aligned with column index
}

// ReconstructSpace rebuilds a space from persisted state. terms is the
// vocabulary ordered by column index.
func ReconstructSpace(terms []string, idf []float64) *Space {
	index := make(map[string]int, len(terms))
	for i, t := range terms {
		index[t] = i
	}
	return &Space{terms: index, idf: idf}
}

// Size returns the vocabulary size.
func (s *Space) Size() int { return len(s.idf) }

// Terms returns the vocabulary ordered by column index.
func (s *Space) Terms() []string {
	out := make([]string, len(s.idf))
	for t, i := range s.terms {
		out[i] = t
	}
	return out
}

// IDF returns the inverse document frequency weights by column index.
func (s *Space) IDF() []float64 { return s.idf }

// Matrix holds one weighted sparse vector per course, aligned by corpus
// index. Row count equals course count; column count equals vocabulary size.
type Matrix struct {
	rows []SparseVector
	cols int
}

// ReconstructMatrix rebuilds a matrix from persisted rows.
func ReconstructMatrix(rows []SparseVector, cols int) *Matrix {
	return &Matrix{rows: rows, cols: cols}
}

// Rows returns the number of document rows.
func (m *Matrix) Rows() int { return len(m.rows) }

// Cols returns the vocabulary size the matrix was built against.
func (m *Matrix) Cols() int { return m.cols }

// Row returns the sparse vector for a corpus index.
func (m *Matrix) Row(i int) SparseVector { return m.rows[i] }

// Vectorizer fits a TF-IDF space over a corpus and embeds queries into it.
// Fitting is one-shot: adding documents requires refitting from scratch.
type Vectorizer struct {
	tok *Tokenizer
}

// New creates a vectorizer.
func New(tok *Tokenizer) *Vectorizer {
	return &Vectorizer{tok: tok}
}

// Tokenizer returns the tokenizer the vectorizer was built with.
func (v *Vectorizer) Tokenizer() *Tokenizer { return v.tok }

// Fit consumes the full corpus and produces the vector space plus the
// document matrix. An empty corpus yields an empty space and a zero-row
// matrix; that is not an error.
//
// Weights follow the smoothed formulation: idf = ln((1+n)/(1+df)) + 1,
// rows L2-normalized, so cosine similarity reduces to a dot product.
func (v *Vectorizer) Fit(texts []string) (*Space, *Matrix) {
	docs := make([][]string, len(texts))
	df := make(map[string]int)
	for i, text := range texts {
		docs[i] = v.tok.Tokenize(text)
		seen := make(map[string]struct{}, len(docs[i]))
		for _, t := range docs[i] {
			if _, ok := seen[t]; !ok {
				seen[t] = struct{}{}
				df[t]++
			}
		}
	}

	// Deterministic column order: vocabulary sorted lexicographically.
	terms := make([]string, 0, len(df))
	for t := range df {
		terms = append(terms, t)
	}
	sort.Strings(terms)

	space := &Space{
		terms: make(map[string]int, len(terms)),
		idf:   make([]float64, len(terms)),
	}
	n := float64(len(texts))
	for i, t := range terms {
		space.terms[t] = i
		space.idf[i] = math.Log((1+n)/float64(1+df[t])) + 1
	}

	rows := make([]SparseVector, len(docs))
	for i, tokens := range docs {
		rows[i] = v.weigh(tokens, space)
	}

	return space, &Matrix{rows: rows, cols: space.Size()}
}

// Embed lower-cases and tokenizes a query, then projects it into the fitted
// space. Terms absent from the vocabulary contribute zero weight.
func (v *Vectorizer) Embed(text string, space *Space) SparseVector {
	return v.weigh(v.tok.Tokenize(text), space)
}

func (v *Vectorizer) weigh(tokens []string, space *Space) SparseVector {
	counts := make(map[int]float64)
	for _, t := range tokens {
		if col, ok := space.terms[t]; ok {
			counts[col]++
		}
	}
	for col := range counts {
		counts[col] *= space.idf[col]
	}
	return sparseFromMap(counts).Normalized()
}
