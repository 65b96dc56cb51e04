// Package recommend hosts the content-based course recommenders: the TF-IDF
// engine and an embedding-provider variant, both behind the same contract.
package recommend

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/studyhub-ai/courserank/internal/domain"
	"github.com/studyhub-ai/courserank/internal/domain/course"
	"github.com/studyhub-ai/courserank/internal/metrics"
	"github.com/studyhub-ai/courserank/internal/usecase/rank"
	"github.com/studyhub-ai/courserank/internal/usecase/vectorize"
)

const tfidfName = "tfidf"

// Compile-time check: Service implements Recommender.
var _ Recommender = (*Service)(nil)

// Service is the TF-IDF content-based recommender.
//
// Fit is the single unfitted -> fitted transition and must complete before
// Predict is called; once fitted, Predict is a repeatable read and safe for
// concurrent callers. Sequencing is the caller's job, there is no locking.
type Service struct {
	source DatasetSource
	vec    *vectorize.Vectorizer
	logger *zap.Logger

	courses []course.Course
	space   *vectorize.Space
	matrix  *vectorize.Matrix
	loaded  bool
	fitted  bool
}

// New creates a TF-IDF recommender.
func New(source DatasetSource, vec *vectorize.Vectorizer, logger *zap.Logger) *Service {
	return &Service{source: source, vec: vec, logger: logger}
}

// Load reads the full course corpus from the dataset source.
func (s *Service) Load(ctx context.Context) error {
	courses, err := s.source.Load(ctx)
	if err != nil {
		return fmt.Errorf("load courses: %w", err)
	}
	s.courses = courses
	s.loaded = true
	s.fitted = false
	return nil
}

// Fit builds the vector space and document matrix over the loaded corpus.
// An empty corpus fits trivially. Fitting is not incremental: after the
// corpus changes, Load and Fit must both run again.
func (s *Service) Fit(_ context.Context) error {
	if !s.loaded {
		return domain.ErrNotLoaded
	}

	start := time.Now()

	texts := make([]string, len(s.courses))
	for i, c := range s.courses {
		texts[i] = c.CombinedText()
	}
	s.space, s.matrix = s.vec.Fit(texts)
	s.fitted = true

	metrics.FitDuration.Observe(time.Since(start).Seconds())
	s.logger.Info("Recommender fitted",
		zap.Int("courses", len(s.courses)),
		zap.Int("vocabulary", s.space.Size()),
		zap.Duration("took", time.Since(start)),
	)
	return nil
}

// Predict embeds the query into the fitted space and returns the topK most
// similar courses, descending by score with stable ties.
func (s *Service) Predict(_ context.Context, query string, topK int) ([]Recommendation, error) {
	if !s.fitted {
		metrics.QueriesTotal.WithLabelValues(tfidfName, "error").Inc()
		return nil, domain.ErrNotFitted
	}

	start := time.Now()

	qvec := s.vec.Embed(query, s.space)
	hits := rank.TopK(qvec, s.matrix, topK)

	recs := make([]Recommendation, len(hits))
	for i, h := range hits {
		recs[i] = NewRecommendation(h.Index(), h.Score(), s.courses[h.Index()])
	}

	metrics.RankDuration.WithLabelValues(tfidfName).Observe(time.Since(start).Seconds())
	metrics.QueriesTotal.WithLabelValues(tfidfName, "success").Inc()
	return recs, nil
}

// Fitted reports whether Fit has completed for the current corpus.
func (s *Service) Fitted() bool { return s.fitted }

// Courses returns the loaded corpus.
func (s *Service) Courses() []course.Course { return s.courses }

// Course returns the course at a corpus index.
func (s *Service) Course(index int) (course.Course, error) {
	if index < 0 || index >= len(s.courses) {
		return course.Course{}, domain.ErrCourseNotFound
	}
	return s.courses[index], nil
}

// Save hands the fitted snapshot to an artifact store.
func (s *Service) Save(ctx context.Context, store ArtifactStore, name string) error {
	data, err := s.Snapshot()
	if err != nil {
		return err
	}
	if err := store.Save(ctx, name, data); err != nil {
		return fmt.Errorf("save artifact %s: %w", name, err)
	}
	s.logger.Info("Snapshot saved", zap.String("artifact", name), zap.Int("bytes", len(data)))
	return nil
}

// Restore loads a snapshot from an artifact store and replaces the current
// engine state with it, leaving the service fitted.
func (s *Service) Restore(ctx context.Context, store ArtifactStore, name string) error {
	data, err := store.Load(ctx, name)
	if err != nil {
		return fmt.Errorf("load artifact %s: %w", name, err)
	}
	if err := s.RestoreSnapshot(data); err != nil {
		return err
	}
	s.logger.Info("Snapshot restored", zap.String("artifact", name), zap.Int("courses", len(s.courses)))
	return nil
}
