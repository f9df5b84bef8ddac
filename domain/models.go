package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Curation kinds assigned by the snapshot heuristics.
const (
	KindUnknown   = "unknown"
	KindFramework = "framework"
	KindApp       = "app"
	KindLibrary   = "library"
)

// Curation holds the coarse classification of a tracked repository,
// derived from its package.json at freeze time.
type Curation struct {
	Kind     string   `json:"kind"`
	Tests    bool     `json:"tests"`
	Monorepo bool     `json:"monorepo"`
	Notes    []string `json:"notes"`
}

// CorpusEntry identifies one tracked repository pinned to an immutable
// commit. Entries are produced by the snapshot source and are read-only
// input to the pipeline.
type CorpusEntry struct {
	Repo        string   `json:"repo"` // owner/name, unique key
	CommitSHA   string   `json:"commit_sha"`
	CommitDate  string   `json:"commit_date"`
	LicenseSPDX string   `json:"license_spdx"`
	Curation    Curation `json:"curation"`
}

// ShortName returns the repository name without the owner prefix.
// Working trees are keyed by this name on disk.
func (e CorpusEntry) ShortName() string {
	if idx := strings.LastIndex(e.Repo, "/"); idx >= 0 {
		return e.Repo[idx+1:]
	}
	return e.Repo
}

// CloneURL returns the canonical anonymous HTTPS clone URL.
func (e CorpusEntry) CloneURL() string {
	return fmt.Sprintf("https://github.com/%s.git", e.Repo)
}

// LanguageLineCounts buckets non-blank line counts by language family.
// Total always equals the sum of the three buckets.
type LanguageLineCounts struct {
	TypeScript int `json:"typescript"`
	JavaScript int `json:"javascript"`
	Other      int `json:"other"`
	Total      int `json:"total"`
}

// StrictnessFlags holds the recognized compilerOptions booleans read from
// a repository's tsconfig.json. Every flag defaults to false when the file
// is absent, unparsable, or the option is unset.
type StrictnessFlags struct {
	Strict                   bool `json:"strict"`
	NoImplicitAny            bool `json:"noImplicitAny"`
	StrictNullChecks         bool `json:"strictNullChecks"`
	NoUncheckedIndexedAccess bool `json:"noUncheckedIndexedAccess"`
}

// GraphMetrics is the result of the dependency-graph tool: either a module
// count on success or a classified error reason, never both.
type GraphMetrics struct {
	moduleCount int
	err         string
}

// GraphSuccess builds a successful result carrying the module count.
func GraphSuccess(count int) GraphMetrics {
	return GraphMetrics{moduleCount: count}
}

// GraphFailure builds a degraded result carrying a classified reason.
func GraphFailure(reason string) GraphMetrics {
	return GraphMetrics{err: reason}
}

// Failed reports whether the graph tool degraded to an error result.
func (g GraphMetrics) Failed() bool { return g.err != "" }

// ModuleCount returns the counted modules; zero on a failed result.
func (g GraphMetrics) ModuleCount() int { return g.moduleCount }

// Error returns the classified failure reason; empty on success.
func (g GraphMetrics) Error() string { return g.err }

// MarshalJSON emits exactly one key: module_count on success, error on
// failure.
func (g GraphMetrics) MarshalJSON() ([]byte, error) {
	if g.err != "" {
		return json.Marshal(map[string]string{"error": g.err})
	}
	return json.Marshal(map[string]int{"module_count": g.moduleCount})
}

// UnmarshalJSON restores a result written by MarshalJSON.
func (g *GraphMetrics) UnmarshalJSON(data []byte) error {
	var raw struct {
		ModuleCount *int   `json:"module_count"`
		Error       string `json:"error"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Error != "" {
		*g = GraphFailure(raw.Error)
		return nil
	}
	count := 0
	if raw.ModuleCount != nil {
		count = *raw.ModuleCount
	}
	*g = GraphSuccess(count)
	return nil
}

// HydratedRecord is the per-repository output of one pipeline run: the
// snapshot entry merged with the metric results. Records are constructed
// fresh each run and the full set replaces the prior metadata artifact.
type HydratedRecord struct {
	CorpusEntry
	Lines      LanguageLineCounts `json:"lines"`
	Strictness StrictnessFlags    `json:"strictness"`
	Graph      GraphMetrics       `json:"graph"`
}

// PinnedCommit is the snapshot client's answer for one repository: the
// latest commit on the default branch plus repository-level metadata.
type PinnedCommit struct {
	SHA         string
	Date        string
	Branch      string
	LicenseSPDX string
}
