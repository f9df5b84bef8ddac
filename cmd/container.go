package cmd

import (
	"fmt"

	"go.uber.org/dig"

	"github.com/tsbench/corpusctl/application"
	"github.com/tsbench/corpusctl/config"
	"github.com/tsbench/corpusctl/domain"
	"github.com/tsbench/corpusctl/infrastructure/analyzer"
	"github.com/tsbench/corpusctl/infrastructure/hydrator"
	"github.com/tsbench/corpusctl/infrastructure/metadata"
	"github.com/tsbench/corpusctl/infrastructure/shell"
	"github.com/tsbench/corpusctl/infrastructure/snapshot"
)

// buildContainer wires the pipeline bottom-up: configuration, the command
// runner, then each component behind its domain interface, and finally
// the services.
func buildContainer(cfg *config.Config) (*dig.Container, error) {
	container := dig.New()

	providers := []interface{}{
		func() *config.Config { return cfg },

		func() domain.CommandRunner { return shell.NewRunner() },

		func(c *config.Config, r domain.CommandRunner) domain.Hydrator {
			return hydrator.NewGitHydrator(c.BaseDir, r)
		},
		func() domain.LineCounter { return analyzer.NewCounter() },
		func() domain.StrictnessReader { return analyzer.NewStrictnessReader() },
		func(c *config.Config, r domain.CommandRunner) domain.GraphRunner {
			return analyzer.NewGraphAdapter(analyzer.GraphOptions{
				Tool:       c.Graph.Tool,
				Extensions: c.Graph.Extensions,
				Exclude:    c.Graph.Exclude,
			}, r)
		},

		func(c *config.Config) domain.SnapshotSource {
			return snapshot.NewFileSource(c.CorpusFile)
		},
		func(c *config.Config) domain.SnapshotClient {
			return snapshot.NewGitHubClient(c.GitHub.Token)
		},
		func(c *config.Config) domain.MetadataStore {
			return metadata.NewJSONStore(c.MetadataFile)
		},
		func(c *config.Config) domain.SkipLog {
			return metadata.NewSkipLog(c.SkipLogFile)
		},

		application.NewPipelineService,
		application.NewFreezeService,
	}

	for _, provider := range providers {
		if err := container.Provide(provider); err != nil {
			return nil, fmt.Errorf("register provider: %w", err)
		}
	}

	return container, nil
}

// loadConfig resolves the configuration for a command invocation: the
// --config flag wins, then the standard search locations, then defaults.
func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		found, err := config.FindConfigFile()
		if err != nil {
			// Running without a config file is fine; every knob has a default.
			return config.Default(), nil
		}
		path = found
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}
