package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/studyhub-ai/courserank/internal/config"
	logpkg "github.com/studyhub-ai/courserank/internal/logger"
	"github.com/studyhub-ai/courserank/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "courserank",
	Short: "Course recommendation engine",
	Long: `courserank ranks a course catalog against free-text queries.

The engine loads a CSV course table, fits a TF-IDF model over the combined
course texts (or embeds them via an OpenAI-compatible provider), and serves
top-k recommendations by cosine similarity. Fitted models can be snapshotted
to disk or redis and restored without refitting.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("courserank %s (commit %s, built %s)\n", version.Version, version.Commit, version.Date)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd, fitCmd, recommendCmd, evaluateCmd, serveCmd)
}

// newApp loads configuration and builds the logger for a command run.
func newApp() (config.Config, *zap.Logger, error) {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("create logger: %w", err)
	}

	return cfg, logger, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
