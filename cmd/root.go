package cmd

import (
	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var (
	configPath string
	verbose    bool
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var rootCmd = &cobra.Command{
	Use:   "corpusctl",
	Short: "Snapshot and metric pipeline for a benchmark corpus of repositories",
	Long: `A CLI tool that maintains a reproducible snapshot of a benchmark corpus
of source repositories and computes per-repository structural metrics.

The corpus is a frozen list of (repository, commit) pairs. corpusctl:
- freezes the corpus at the latest commit on each default branch
- hydrates each repository's working tree at its pinned commit
- counts non-blank lines bucketed by language family
- reads type-strictness configuration flags
- reduces an import-graph report to a module count

A repository that fails is logged and skipped; the batch always continues.`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

//nolint:gochecknoinits // required by cobra CLI pattern
func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"Path to config file (default: auto-detect)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable verbose output")

	logger.SetFormatter(&logger.TextFormatter{ //nolint:exhaustruct // minimal formatter setup
		ForceColors:   true,
		FullTimestamp: true,
	})
}
