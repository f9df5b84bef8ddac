package cmd

import (
	"context"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tsbench/corpusctl/application"
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var repoFilter string

//nolint:gochecknoglobals // required by cobra CLI pattern
var hydrateCmd = &cobra.Command{
	Use:   "hydrate",
	Short: "Hydrate the corpus and compute per-repository metrics",
	Long: `Materialize every corpus repository's working tree at its pinned commit
and compute structural metrics (line counts, strictness flags, module count).

Reads the frozen snapshot written by 'corpusctl freeze', hydrates each
entry in snapshot order, and rebuilds the metadata artifact from scratch.
Repositories that fail to hydrate are recorded in the skip log and omitted
from the artifact; the run continues with the remaining entries.`,
	RunE: runHydrate,
}

//nolint:gochecknoinits // required by cobra CLI pattern
func init() {
	hydrateCmd.Flags().StringVar(&repoFilter, "repo", "",
		"Only process this owner/name entry (optional)")
	rootCmd.AddCommand(hydrateCmd)
}

func runHydrate(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	container, err := buildContainer(cfg)
	if err != nil {
		return err
	}

	logger.Infof("Hydrating corpus from %s into %s", cfg.CorpusFile, cfg.BaseDir)

	return container.Invoke(func(svc *application.PipelineService) error {
		return svc.Run(ctx, application.RunOptions{
			Verbose:    verbose,
			RepoFilter: repoFilter,
		})
	})
}
