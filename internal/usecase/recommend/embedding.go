package recommend

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/studyhub-ai/courserank/internal/domain"
	"github.com/studyhub-ai/courserank/internal/domain/course"
	"github.com/studyhub-ai/courserank/internal/metrics"
)

const embeddingName = "embedding"

// Compile-time check: EmbeddingService implements Recommender.
var _ Recommender = (*EmbeddingService)(nil)

// EmbeddingService is a recommender variant that ranks courses by cosine
// similarity of dense vectors from an external embedding provider. Same
// Load/Fit/Predict contract as the TF-IDF engine; Fit embeds the whole
// corpus, which costs one provider call per course.
type EmbeddingService struct {
	source   DatasetSource
	embedder Embedder
	logger   *zap.Logger

	courses []course.Course
	vectors [][]float32
	loaded  bool
	fitted  bool
}

// NewEmbedding creates an embedding-provider recommender.
func NewEmbedding(source DatasetSource, embedder Embedder, logger *zap.Logger) *EmbeddingService {
	return &EmbeddingService{source: source, embedder: embedder, logger: logger}
}

// Load reads the full course corpus from the dataset source.
func (s *EmbeddingService) Load(ctx context.Context) error {
	courses, err := s.source.Load(ctx)
	if err != nil {
		return fmt.Errorf("load courses: %w", err)
	}
	s.courses = courses
	s.loaded = true
	s.fitted = false
	return nil
}

// Fit embeds every course's combined text. A provider failure on any course
// aborts the fit: a partially embedded corpus would rank inconsistently.
func (s *EmbeddingService) Fit(ctx context.Context) error {
	if !s.loaded {
		return domain.ErrNotLoaded
	}

	start := time.Now()

	vectors := make([][]float32, len(s.courses))
	for i, c := range s.courses {
		vec, err := s.embedder.Embed(ctx, c.CombinedText())
		if err != nil {
			return fmt.Errorf("embed course %d: %w", i, err)
		}
		vectors[i] = vec
	}
	s.vectors = vectors
	s.fitted = true

	metrics.FitDuration.Observe(time.Since(start).Seconds())
	s.logger.Info("Embedding recommender fitted",
		zap.Int("courses", len(s.courses)),
		zap.Duration("took", time.Since(start)),
	)
	return nil
}

// Predict embeds the query and returns the topK most similar courses,
// descending by score with stable ties.
func (s *EmbeddingService) Predict(ctx context.Context, query string, topK int) ([]Recommendation, error) {
	if !s.fitted {
		metrics.QueriesTotal.WithLabelValues(embeddingName, "error").Inc()
		return nil, domain.ErrNotFitted
	}
	if len(s.courses) == 0 || topK <= 0 {
		metrics.QueriesTotal.WithLabelValues(embeddingName, "success").Inc()
		return nil, nil
	}

	start := time.Now()

	qvec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		metrics.QueriesTotal.WithLabelValues(embeddingName, "error").Inc()
		return nil, fmt.Errorf("embed query: %w", err)
	}

	recs := make([]Recommendation, len(s.courses))
	for i := range s.courses {
		recs[i] = NewRecommendation(i, denseCosine(qvec, s.vectors[i]), s.courses[i])
	}
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Score() > recs[j].Score()
	})
	if topK > len(recs) {
		topK = len(recs)
	}

	metrics.RankDuration.WithLabelValues(embeddingName).Observe(time.Since(start).Seconds())
	metrics.QueriesTotal.WithLabelValues(embeddingName, "success").Inc()
	return recs[:topK], nil
}

// Fitted reports whether Fit has completed for the current corpus.
func (s *EmbeddingService) Fitted() bool { return s.fitted }

// Courses returns the loaded course table in corpus order.
func (s *EmbeddingService) Courses() []course.Course { return s.courses }

// Course returns the course at the given corpus index.
func (s *EmbeddingService) Course(index int) (course.Course, error) {
	if index < 0 || index >= len(s.courses) {
		return course.Course{}, fmt.Errorf("course %d: %w", index, domain.ErrCourseNotFound)
	}
	return s.courses[index], nil
}

func denseCosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
	}
	for _, v := range a {
		na += float64(v) * float64(v)
	}
	for _, v := range b {
		nb += float64(v) * float64(v)
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
