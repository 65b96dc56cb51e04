package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/studyhub-ai/courserank/internal/usecase/recommend"
)

var fitCmd = &cobra.Command{
	Use:   "fit",
	Short: "Load the course table, fit the model, and save a snapshot",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, err := newApp()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		ctx := cmd.Context()
		eng := buildEngine(cfg, logger)

		if err := eng.Load(ctx); err != nil {
			return fmt.Errorf("load dataset: %w", err)
		}
		if err := eng.Fit(ctx); err != nil {
			return fmt.Errorf("fit: %w", err)
		}

		fmt.Printf("Fitted %s model over %d courses\n", cfg.Engine.Recommender, len(eng.Courses()))

		s, ok := eng.(snapshotter)
		if !ok {
			logger.Warn("Recommender does not support snapshots, skipping save",
				zap.String("recommender", cfg.Engine.Recommender))
			return nil
		}

		var artifacts recommend.ArtifactStore
		if cfg.Artifact.Driver == "redis" {
			store, err := buildStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()
			artifacts = buildArtifactStore(cfg, store)
		} else {
			artifacts = buildArtifactStore(cfg, nil)
		}

		if err := s.Save(ctx, artifacts, cfg.Artifact.Name); err != nil {
			return fmt.Errorf("save snapshot: %w", err)
		}

		fmt.Printf("Saved snapshot %q via %s driver\n", cfg.Artifact.Name, cfg.Artifact.Driver)
		return nil
	},
}
