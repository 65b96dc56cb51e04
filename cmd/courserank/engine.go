package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/studyhub-ai/courserank/internal/config"
	"github.com/studyhub-ai/courserank/internal/db"
	dbRedis "github.com/studyhub-ai/courserank/internal/db/redis"
	"github.com/studyhub-ai/courserank/internal/domain"
	"github.com/studyhub-ai/courserank/internal/domain/course"
	artifactrepo "github.com/studyhub-ai/courserank/internal/repository/artifact"
	"github.com/studyhub-ai/courserank/internal/repository/dataset"
	openaiEmb "github.com/studyhub-ai/courserank/internal/transport/openai"
	"github.com/studyhub-ai/courserank/internal/usecase/recommend"
	"github.com/studyhub-ai/courserank/internal/usecase/vectorize"
)

// engine is the full surface the CLI and the HTTP server need from a
// recommender. Both concrete variants satisfy it.
type engine interface {
	recommend.Recommender
	Fitted() bool
	Courses() []course.Course
	Course(index int) (course.Course, error)
}

// snapshotter is the optional snapshot capability. Only the TF-IDF engine
// carries it; the embedding variant refits from the provider instead.
type snapshotter interface {
	Save(ctx context.Context, store recommend.ArtifactStore, name string) error
	Restore(ctx context.Context, store recommend.ArtifactStore, name string) error
}

// buildEngine assembles the configured recommender variant.
func buildEngine(cfg config.Config, logger *zap.Logger) engine {
	source := dataset.NewCSVSource(cfg.Dataset.Path, logger)

	if cfg.Engine.Recommender == "embedding" {
		embedder := openaiEmb.NewEmbedder(&openaiEmb.Config{
			APIKey:     cfg.Embedding.APIKey,
			BaseURL:    cfg.Embedding.BaseURL,
			Model:      cfg.Embedding.Model,
			Dimensions: cfg.Embedding.Dimensions,
			Logger:     logger,
		})
		return recommend.NewEmbedding(source, embedder, logger)
	}

	vec := vectorize.New(vectorize.NewTokenizer(cfg.Engine.StopWords))
	return recommend.New(source, vec, logger)
}

// buildStore connects to redis and waits for readiness.
func buildStore(cfg config.Config) (db.Store, error) {
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Redis.Addrs,
		Password: cfg.Redis.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("create redis store: %w", err)
	}

	timeout := time.Duration(cfg.Redis.ReadinessTimeout) * time.Second
	if err := store.WaitForReady(context.Background(), timeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("redis not ready: %w", err)
	}
	return store, nil
}

// buildArtifactStore picks the snapshot backend by driver. store may be nil
// for the file driver.
func buildArtifactStore(cfg config.Config, store db.Store) recommend.ArtifactStore {
	if cfg.Artifact.Driver == "redis" {
		return artifactrepo.NewKVStore(store, cfg.Redis.KeyPrefix)
	}
	return artifactrepo.NewFileStore(cfg.Artifact.Dir)
}

// prepareEngine brings an engine to the fitted state: restore from a snapshot
// when one exists, otherwise load the dataset and fit from scratch.
func prepareEngine(
	ctx context.Context,
	eng engine,
	store recommend.ArtifactStore,
	name string,
	logger *zap.Logger,
) error {
	if s, ok := eng.(snapshotter); ok && store != nil {
		err := s.Restore(ctx, store, name)
		if err == nil {
			logger.Info("Restored fitted model from snapshot", zap.String("name", name))
			return nil
		}
		if !errors.Is(err, domain.ErrArtifactNotFound) {
			return fmt.Errorf("restore snapshot: %w", err)
		}
		logger.Info("No snapshot found, fitting from dataset", zap.String("name", name))
	}

	if err := eng.Load(ctx); err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}
	if err := eng.Fit(ctx); err != nil {
		return fmt.Errorf("fit: %w", err)
	}
	return nil
}
