// Package eval holds the labeled query cases and metric aggregates used by
// offline evaluation. None of this participates in serving.
package eval

// Case is a fixed (query, relevant course indices) pair.
type Case struct {
	query    string
	relevant []int
}

// NewCase creates an evaluation case.
func NewCase(query string, relevant []int) Case {
	return Case{query: query, relevant: relevant}
}

// Query returns the free-text query.
func (c Case) Query() string { return c.query }

// Relevant returns the labeled relevant course indices.
func (c Case) Relevant() []int { return c.relevant }

// RelevantSet returns the relevant indices as a set.
func (c Case) RelevantSet() map[int]struct{} {
	set := make(map[int]struct{}, len(c.relevant))
	for _, idx := range c.relevant {
		set[idx] = struct{}{}
	}
	return set
}

// Metrics holds the mean retrieval metrics over a case set.
type Metrics struct {
	PrecisionK float64
	RecallK    float64
	NDCGK      float64
}

// Map returns the metrics keyed the way the evaluation harness reports them.
func (m Metrics) Map() map[string]float64 {
	return map[string]float64{
		"precisionk": m.PrecisionK,
		"recallk":    m.RecallK,
		"ndcgk":      m.NDCGK,
	}
}
