package cmd

import (
	"context"

	"github.com/joho/godotenv"
	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tsbench/corpusctl/application"
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var freezeCmd = &cobra.Command{
	Use:   "freeze",
	Short: "Freeze the corpus at the latest commit on each default branch",
	Long: `Resolve every tracked repository to the newest commit on its default
branch, classify it from its package.json, and rewrite the frozen snapshot
(corpus.jsonl) plus the human-readable corpus table (CORPUS.md).

Reads the repository list from the configured repos file (one owner/name
per line). Set GITHUB_TOKEN (directly or via .env) to avoid rate limits.`,
	RunE: runFreeze,
}

//nolint:gochecknoinits // required by cobra CLI pattern
func init() {
	rootCmd.AddCommand(freezeCmd)
}

func runFreeze(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	if verbose {
		logger.SetLevel(logger.DebugLevel)
	}

	// Tokens commonly live in a local .env; absence is not an error.
	if err := godotenv.Load(); err == nil {
		logger.Debug("Loaded environment from .env")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if cfg.GitHub.Token == "" {
		logger.Warn("No GitHub token configured; API requests will be rate limited")
	}

	container, err := buildContainer(cfg)
	if err != nil {
		return err
	}

	return container.Invoke(func(svc *application.FreezeService) error {
		return svc.Run(ctx, application.FreezeOptions{
			ReposFile:      cfg.ReposFile,
			CorpusFile:     cfg.CorpusFile,
			CorpusMarkdown: cfg.CorpusMarkdown,
		})
	})
}
