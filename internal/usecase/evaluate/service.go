// Package evaluate runs the offline retrieval-quality harness: precision@k,
// recall@k, and NDCG@k over a fixed labeled query set.
package evaluate

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/studyhub-ai/courserank/internal/domain/eval"
	"github.com/studyhub-ai/courserank/internal/usecase/recommend"
)

// Predictor is the slice of the recommender contract the evaluator needs.
type Predictor interface {
	Predict(ctx context.Context, query string, topK int) ([]recommend.Recommendation, error)
}

// Service aggregates retrieval metrics over evaluation cases. It only reads
// from the predictor; nothing in the fitted engine is mutated.
type Service struct {
	pred   Predictor
	logger *zap.Logger
}

// New creates an evaluation service.
func New(pred Predictor, logger *zap.Logger) *Service {
	return &Service{pred: pred, logger: logger}
}

// Run scores every case at the given topK and returns the per-metric means.
// A case with an empty relevant set contributes recall 0 and NDCG 0 rather
// than an error.
func (s *Service) Run(ctx context.Context, cases []eval.Case, topK int) (eval.Metrics, error) {
	if len(cases) == 0 || topK <= 0 {
		return eval.Metrics{}, nil
	}

	var sum eval.Metrics
	for _, c := range cases {
		recs, err := s.pred.Predict(ctx, c.Query(), topK)
		if err != nil {
			return eval.Metrics{}, fmt.Errorf("predict %q: %w", c.Query(), err)
		}

		relevant := c.RelevantSet()
		relevance := make([]float64, len(recs))
		hits := 0
		for i, r := range recs {
			if _, ok := relevant[r.Index()]; ok {
				relevance[i] = 1
				hits++
			}
		}

		sum.PrecisionK += float64(hits) / float64(topK)
		if len(relevant) > 0 {
			sum.RecallK += float64(hits) / float64(len(relevant))
		}
		sum.NDCGK += ndcg(relevance, len(relevant), topK)
	}

	n := float64(len(cases))
	means := eval.Metrics{
		PrecisionK: sum.PrecisionK / n,
		RecallK:    sum.RecallK / n,
		NDCGK:      sum.NDCGK / n,
	}
	s.logger.Info("Evaluation finished",
		zap.Int("cases", len(cases)),
		zap.Int("top_k", topK),
		zap.Float64("precisionk", means.PrecisionK),
		zap.Float64("recallk", means.RecallK),
		zap.Float64("ndcgk", means.NDCGK),
	)
	return means, nil
}

// ndcg computes NDCG@k over binary relevance of the retrieved list. The
// ideal ordering places min(relevantCount, k) relevant items at the top.
// With no relevant items the gain is 0 by definition.
func ndcg(relevance []float64, relevantCount, k int) float64 {
	if relevantCount == 0 {
		return 0
	}

	if len(relevance) > k {
		relevance = relevance[:k]
	}
	var dcg float64
	for i, rel := range relevance {
		dcg += rel / math.Log2(float64(i)+2)
	}

	ideal := relevantCount
	if ideal > k {
		ideal = k
	}
	var idcg float64
	for i := 0; i < ideal; i++ {
		idcg += 1 / math.Log2(float64(i)+2)
	}
	if idcg == 0 {
		return 0
	}
	return dcg / idcg
}
