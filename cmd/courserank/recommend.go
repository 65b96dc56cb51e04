package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/studyhub-ai/courserank/internal/usecase/recommend"
)

var recommendTopK int

var recommendCmd = &cobra.Command{
	Use:   "recommend [query]",
	Short: "Print the top-k courses for a query",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := newApp()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

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

		topK := recommendTopK
		if topK <= 0 {
			topK = cfg.Engine.TopK
		}

		query := strings.Join(args, " ")
		recs, err := eng.Predict(ctx, query, topK)
		if err != nil {
			return fmt.Errorf("predict: %w", err)
		}

		if len(recs) == 0 {
			fmt.Println("No recommendations")
			return nil
		}

		for i, rec := range recs {
			c := rec.Course()
			fmt.Printf("%2d. [%.4f] %s — %s (%s)\n", i+1, rec.Score(), c.Name(), c.University(), c.Category())
			if c.Link() != "" {
				fmt.Printf("      %s\n", c.Link())
			}
		}
		return nil
	},
}

func init() {
	recommendCmd.Flags().IntVarP(&recommendTopK, "top-k", "k", 0, "number of results (default from config)")
}
