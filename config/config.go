package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration for corpusctl. It is constructed
// once at startup and passed to each component; no package reads global
// mutable state.
type Config struct {
	// BaseDir is the directory holding one working tree per repository
	// short name.
	BaseDir string `yaml:"base_dir"`

	// CorpusFile is the frozen JSONL snapshot consumed by the pipeline
	// and written by the freeze command.
	CorpusFile string `yaml:"corpus_file"`

	// MetadataFile is the final JSON artifact keyed by owner/repo.
	MetadataFile string `yaml:"metadata_file"`

	// SkipLogFile records repositories that never hydrated.
	SkipLogFile string `yaml:"skip_log"`

	// ReposFile lists tracked repositories, one owner/name per line.
	ReposFile string `yaml:"repos_file"`

	// CorpusMarkdown is the human-readable table written at freeze time.
	CorpusMarkdown string `yaml:"corpus_markdown"`

	GitHub GitHubConfig `yaml:"github"`
	Graph  GraphConfig  `yaml:"graph"`
}

// GitHubConfig holds snapshot-source credentials.
type GitHubConfig struct {
	// Token may be inline, a ${ENV_VAR} reference, or a file path.
	Token string `yaml:"token"`
}

// GraphConfig configures the external dependency-graph tool.
type GraphConfig struct {
	Tool       string   `yaml:"tool"`
	Extensions []string `yaml:"extensions"`
	Exclude    string   `yaml:"exclude"`
}

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// Default builds a configuration with all defaults applied, used when no
// config file exists on disk.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	cfg.GitHub.Token = resolveToken(cfg.GitHub.Token)
	return cfg
}

// Load reads and parses a configuration file, applies defaults for unset
// fields, and resolves the GitHub token.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	var cfg Config
	if unmarshalErr := yaml.Unmarshal(data, &cfg); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", unmarshalErr)
	}

	applyDefaults(&cfg)
	cfg.GitHub.Token = resolveToken(cfg.GitHub.Token)

	if validateErr := validate(&cfg); validateErr != nil {
		return nil, validateErr
	}

	return &cfg, nil
}

// FindConfigFile searches for a configuration file in standard locations.
// Returns the path to the first file found or an error if none is found.
func FindConfigFile() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = ""
	}

	locations := []string{
		".",
		".config",
		"configs",
	}
	if homeDir != "" {
		locations = append(
			locations,
			homeDir,
			filepath.Join(homeDir, ".config"),
		)
	}

	patterns := []string{
		".corpusctl.yaml",
		".corpusctl.yml",
		"corpusctl.yaml",
		"corpusctl.yml",
	}

	for _, loc := range locations {
		for _, pat := range patterns {
			p := filepath.Join(loc, pat)
			if _, statErr := os.Stat(p); statErr == nil {
				return p, nil
			}
		}
	}

	return "", errors.New("config file not found in default locations")
}

func applyDefaults(cfg *Config) {
	if cfg.BaseDir == "" {
		cfg.BaseDir = "projects"
	}
	if cfg.CorpusFile == "" {
		cfg.CorpusFile = filepath.Join("logs", "corpus.jsonl")
	}
	if cfg.MetadataFile == "" {
		cfg.MetadataFile = filepath.Join("logs", "metadata.json")
	}
	if cfg.SkipLogFile == "" {
		cfg.SkipLogFile = "skipped_projects.log"
	}
	if cfg.ReposFile == "" {
		cfg.ReposFile = "repos.txt"
	}
	if cfg.CorpusMarkdown == "" {
		cfg.CorpusMarkdown = filepath.Join("logs", "CORPUS.md")
	}
	if cfg.GitHub.Token == "" {
		cfg.GitHub.Token = "${GITHUB_TOKEN}"
	}
	if cfg.Graph.Tool == "" {
		cfg.Graph.Tool = "madge"
	}
	if len(cfg.Graph.Extensions) == 0 {
		cfg.Graph.Extensions = []string{"ts", "tsx", "js", "jsx"}
	}
	if cfg.Graph.Exclude == "" {
		cfg.Graph.Exclude = `(node_modules|dist|build|coverage|\.next|out|__tests__)`
	}
}

// resolveToken expands environment variable references (${VAR}) and, if the
// resulting string is a path to an existing file, reads the token from the file.
func resolveToken(raw string) string {
	if raw == "" {
		return raw
	}

	// Expand ${ENV_VAR} references
	resolved := envVarPattern.ReplaceAllStringFunc(raw, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		logger.Debugf("Environment variable %q is not set", varName)
		return ""
	})

	// If the resolved value is a path to an existing file, read the token from it
	if _, statErr := os.Stat(resolved); statErr == nil {
		data, readErr := os.ReadFile(resolved)
		if readErr != nil {
			logger.Warnf("Failed to read token file %q: %v", resolved, readErr)
			return resolved
		}
		logger.Infof("Read token from file %q", resolved)
		return strings.TrimSpace(string(data))
	}

	return resolved
}

// validate checks for required configuration values.
func validate(cfg *Config) error {
	if cfg.BaseDir == "" {
		return errors.New("base_dir must not be empty")
	}
	if cfg.CorpusFile == "" {
		return errors.New("corpus_file must not be empty")
	}
	if cfg.MetadataFile == "" {
		return errors.New("metadata_file must not be empty")
	}
	if cfg.Graph.Tool == "" {
		return errors.New("graph.tool must not be empty")
	}
	for i, ext := range cfg.Graph.Extensions {
		if strings.HasPrefix(ext, ".") {
			return fmt.Errorf(
				"graph.extensions[%d] must be given without a leading dot: %q",
				i, ext,
			)
		}
	}
	return nil
}
