// Package querycache caches recommendation results in a key-value store.
// Grounded on the same decorator shape as the embedding cache: a hit skips
// the engine, a store failure degrades to a direct call.
package querycache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/studyhub-ai/courserank/internal/db"
	"github.com/studyhub-ai/courserank/internal/domain/course"
	"github.com/studyhub-ai/courserank/internal/usecase/recommend"
)

// predictor is the consumer interface for the cache (ISP).
type predictor interface {
	Predict(ctx context.Context, query string, topK int) ([]recommend.Recommendation, error)
}

// store is the key-value slice the cache needs.
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CachedRecommender caches Predict results keyed by (query, topK).
type CachedRecommender struct {
	inner      predictor
	store      store
	prefix     string
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner predictor,
	s store,
	prefix string,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedRecommender {
	return &CachedRecommender{
		inner:      inner,
		store:      s,
		prefix:     prefix,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Predict returns cached recommendations or calls the inner recommender.
func (c *CachedRecommender) Predict(
	ctx context.Context, query string, topK int,
) ([]recommend.Recommendation, error) {
	key := c.cacheKey(query, topK)

	if recs, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return recs, nil
	}

	c.incCache("miss")

	recs, err := c.inner.Predict(ctx, query, topK)
	if err != nil {
		return nil, fmt.Errorf("predict: %w", err)
	}

	c.putToCache(ctx, key, recs)
	return recs, nil
}

func (c *CachedRecommender) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (c *CachedRecommender) cacheKey(query string, topK int) string {
	h := sha256.Sum256([]byte(query + "\x00" + strconv.Itoa(topK)))
	return c.prefix + "query_cache:" + hex.EncodeToString(h[:])
}

func (c *CachedRecommender) getFromCache(ctx context.Context, key string) ([]recommend.Recommendation, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached recommendations", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	recs, err := decodeRecommendations(data)
	if err != nil {
		c.logger.Warn("Failed to parse cached recommendations", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return recs, true
}

func (c *CachedRecommender) putToCache(ctx context.Context, key string, recs []recommend.Recommendation) {
	data, err := encodeRecommendations(recs)
	if err != nil {
		c.logger.Warn("Failed to encode recommendations", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache recommendations", zap.String("key", key), zap.Error(err))
	}
}

// cachedRec is the wire form of one cached recommendation.
type cachedRec struct {
	Index       int     `json:"index"`
	Score       float64 `json:"score"`
	Name        string  `json:"name"`
	University  string  `json:"university"`
	Link        string  `json:"link"`
	Category    string  `json:"category"`
	About       string  `json:"about"`
	Description string  `json:"description"`
}

func encodeRecommendations(recs []recommend.Recommendation) ([]byte, error) {
	dtos := make([]cachedRec, len(recs))
	for i, r := range recs {
		c := r.Course()
		dtos[i] = cachedRec{
			Index:       r.Index(),
			Score:       r.Score(),
			Name:        c.Name(),
			University:  c.University(),
			Link:        c.Link(),
			Category:    c.Category(),
			About:       c.About(),
			Description: c.Description(),
		}
	}
	return json.Marshal(dtos) //nolint:wrapcheck // caller wraps
}

func decodeRecommendations(data []byte) ([]recommend.Recommendation, error) {
	var dtos []cachedRec
	if err := json.Unmarshal(data, &dtos); err != nil {
		return nil, fmt.Errorf("decode cached recommendations: %w", err)
	}
	recs := make([]recommend.Recommendation, len(dtos))
	for i, d := range dtos {
		recs[i] = recommend.NewRecommendation(d.Index, d.Score,
			course.New(d.Name, d.University, d.Link, d.Category, d.About, d.Description))
	}
	return recs, nil
}
