package analyzer

import (
	"encoding/json"
	"os"
	"path/filepath"

	logger "github.com/sirupsen/logrus"
	"github.com/tailscale/hujson"

	"github.com/tsbench/corpusctl/domain"
)

const tsconfigName = "tsconfig.json"

// StrictnessReader extracts the recognized compilerOptions booleans from
// the tsconfig.json at a working-tree root. tsconfig is JSON with comments
// and trailing commas, so the bytes are standardized with hujson before
// decoding.
type StrictnessReader struct{}

// NewStrictnessReader creates the tsconfig strictness reader.
func NewStrictnessReader() *StrictnessReader {
	return &StrictnessReader{}
}

var _ domain.StrictnessReader = (*StrictnessReader)(nil)

// tsconfig mirrors the subset of tsconfig.json the pipeline cares about.
// Pointers distinguish "unset" from "false"; both degrade to false.
type tsconfig struct {
	CompilerOptions struct {
		Strict                   *bool `json:"strict"`
		NoImplicitAny            *bool `json:"noImplicitAny"`
		StrictNullChecks         *bool `json:"strictNullChecks"`
		NoUncheckedIndexedAccess *bool `json:"noUncheckedIndexedAccess"`
	} `json:"compilerOptions"`
}

// Read returns the strictness flags for the tree at root. An absent or
// unparsable tsconfig.json degrades to the all-false defaults; parse
// failures are logged, never propagated.
func (r *StrictnessReader) Read(root string) domain.StrictnessFlags {
	var flags domain.StrictnessFlags

	path := filepath.Join(root, tsconfigName)
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warnf("Failed to read %s: %v", path, err)
		}
		return flags
	}

	standardized, err := hujson.Standardize(data)
	if err != nil {
		logger.Warnf("Failed to standardize %s: %v", path, err)
		return flags
	}

	var cfg tsconfig
	if err := json.Unmarshal(standardized, &cfg); err != nil {
		logger.Warnf("Failed to parse %s: %v", path, err)
		return flags
	}

	opts := cfg.CompilerOptions
	if opts.Strict != nil {
		flags.Strict = *opts.Strict
	}
	if opts.NoImplicitAny != nil {
		flags.NoImplicitAny = *opts.NoImplicitAny
	}
	if opts.StrictNullChecks != nil {
		flags.StrictNullChecks = *opts.StrictNullChecks
	}
	if opts.NoUncheckedIndexedAccess != nil {
		flags.NoUncheckedIndexedAccess = *opts.NoUncheckedIndexedAccess
	}

	return flags
}
