package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/studyhub-ai/courserank/internal/repository/dataset"
	"github.com/studyhub-ai/courserank/internal/usecase/evaluate"
	"github.com/studyhub-ai/courserank/internal/usecase/recommend"
)

var evaluateTopK int

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Run retrieval metrics over the labeled evaluation cases",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, err := newApp()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		if cfg.Dataset.EvalCases == "" {
			return fmt.Errorf("dataset.eval_cases is not configured")
		}

		cases, err := dataset.LoadCases(cfg.Dataset.EvalCases)
		if err != nil {
			return fmt.Errorf("load evaluation cases: %w", err)
		}

		ctx := cmd.Context()
		eng := buildEngine(cfg, logger)

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

		if err := prepareEngine(ctx, eng, artifacts, cfg.Artifact.Name, logger); err != nil {
			return err
		}

		topK := evaluateTopK
		if topK <= 0 {
			topK = cfg.Engine.TopK
		}

		metrics, err := evaluate.New(eng, logger).Run(ctx, cases, topK)
		if err != nil {
			return fmt.Errorf("evaluate: %w", err)
		}

		fmt.Printf("Cases:          %d\n", len(cases))
		fmt.Printf("Precision@%-4d %.4f\n", topK, metrics.PrecisionK)
		fmt.Printf("Recall@%-7d %.4f\n", topK, metrics.RecallK)
		fmt.Printf("NDCG@%-9d %.4f\n", topK, metrics.NDCGK)
		return nil
	},
}

func init() {
	evaluateCmd.Flags().IntVarP(&evaluateTopK, "top-k", "k", 0, "cutoff for all metrics (default from config)")
}
