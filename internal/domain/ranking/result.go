// Package ranking holds the scored hit produced by the similarity scorer.
package ranking

// Result is a single scored hit: the corpus index of a course and its
// cosine similarity to the query.
type Result struct {
	index int
	score float64
}

// New creates a ranking result.
func New(index int, score float64) Result {
	return Result{index: index, score: score}
}

// Index returns the corpus index of the course.
func (r Result) Index() int { return r.index }

// Score returns the similarity score.
func (r Result) Score() float64 { return r.score }
