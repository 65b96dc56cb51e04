package recommend

import "github.com/studyhub-ai/courserank/internal/domain/course"

// Recommendation is one ranked hit: the course, its corpus index, and its
// similarity score.
type Recommendation struct {
	index  int
	score  float64
	course course.Course
}

// NewRecommendation creates a recommendation.
func NewRecommendation(index int, score float64, c course.Course) Recommendation {
	return Recommendation{index: index, score: score, course: c}
}

// Index returns the corpus index of the recommended course.
func (r Recommendation) Index() int { return r.index }

// Score returns the similarity score.
func (r Recommendation) Score() float64 { return r.score }

// Course returns the recommended course.
func (r Recommendation) Course() course.Course { return r.course }
