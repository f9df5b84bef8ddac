// Package testdoubles provides test doubles (spies, stubs, dummies) for
// domain interfaces. These are hand-crafted implementations — no mock
// frameworks.
package testdoubles

import (
	"context"
	"fmt"

	"github.com/tsbench/corpusctl/domain"
)

// ---------------------------------------------------------------------------
// SpyRunner
// ---------------------------------------------------------------------------

// RunnerCall records a single external command invocation.
type RunnerCall struct {
	Dir  string
	Name string
	Args []string
}

// SpyRunner implements domain.CommandRunner as a configurable spy.
// Results are matched by the first argument (the git subcommand or the
// tool's first flag); unmatched calls return the Default result.
type SpyRunner struct {
	// Results maps a command's first argument to its canned outcome.
	Results map[string]RunnerResult
	// Default is used when no entry in Results matches.
	Default RunnerResult

	// spy: calls received, in order
	Calls []RunnerCall
}

// RunnerResult is one canned command outcome.
type RunnerResult struct {
	Stdout []byte
	Stderr []byte
	Err    error
}

var _ domain.CommandRunner = (*SpyRunner)(nil)

func (r *SpyRunner) Run(
	_ context.Context,
	dir, name string,
	args ...string,
) (domain.CommandResult, error) {
	r.Calls = append(r.Calls, RunnerCall{Dir: dir, Name: name, Args: args})

	result := r.Default
	if len(args) > 0 {
		if canned, ok := r.Results[args[0]]; ok {
			result = canned
		}
	}
	return domain.CommandResult{
		Stdout: result.Stdout,
		Stderr: result.Stderr,
	}, result.Err
}

// ---------------------------------------------------------------------------
// SpyHydrator
// ---------------------------------------------------------------------------

// SpyHydrator implements domain.Hydrator as a configurable spy.
type SpyHydrator struct {
	// Roots maps owner/name to the tree root to return.
	Roots map[string]string
	// Errs maps owner/name to a hydration failure.
	Errs map[string]error

	// spy: entries hydrated, in order
	Hydrated []domain.CorpusEntry
}

var _ domain.Hydrator = (*SpyHydrator)(nil)

func (h *SpyHydrator) Hydrate(
	_ context.Context,
	entry domain.CorpusEntry,
) (string, error) {
	h.Hydrated = append(h.Hydrated, entry)

	if err, ok := h.Errs[entry.Repo]; ok {
		return "", err
	}
	if root, ok := h.Roots[entry.Repo]; ok {
		return root, nil
	}
	return fmt.Sprintf("/tmp/trees/%s", entry.ShortName()), nil
}

// ---------------------------------------------------------------------------
// Analyzer stubs
// ---------------------------------------------------------------------------

// StubLineCounter implements domain.LineCounter with a fixed result.
type StubLineCounter struct {
	Counts domain.LanguageLineCounts
	Err    error
}

var _ domain.LineCounter = (*StubLineCounter)(nil)

func (c *StubLineCounter) Count(_ string) (domain.LanguageLineCounts, error) {
	return c.Counts, c.Err
}

// StubStrictnessReader implements domain.StrictnessReader with a fixed
// result.
type StubStrictnessReader struct {
	Flags domain.StrictnessFlags
}

var _ domain.StrictnessReader = (*StubStrictnessReader)(nil)

func (r *StubStrictnessReader) Read(_ string) domain.StrictnessFlags {
	return r.Flags
}

// StubGraphRunner implements domain.GraphRunner with a fixed result.
type StubGraphRunner struct {
	Metrics domain.GraphMetrics
}

var _ domain.GraphRunner = (*StubGraphRunner)(nil)

func (g *StubGraphRunner) ComputeModuleCount(
	_ context.Context,
	_ string,
) domain.GraphMetrics {
	return g.Metrics
}

// ---------------------------------------------------------------------------
// StubSnapshotSource
// ---------------------------------------------------------------------------

// StubSnapshotSource implements domain.SnapshotSource with fixed entries.
type StubSnapshotSource struct {
	Entries []domain.CorpusEntry
	Err     error
}

var _ domain.SnapshotSource = (*StubSnapshotSource)(nil)

func (s *StubSnapshotSource) Load(_ context.Context) ([]domain.CorpusEntry, error) {
	return s.Entries, s.Err
}

// ---------------------------------------------------------------------------
// SpySnapshotClient
// ---------------------------------------------------------------------------

// SpySnapshotClient implements domain.SnapshotClient as a configurable spy.
type SpySnapshotClient struct {
	// Pins maps owner/name to its resolved commit.
	Pins map[string]domain.PinnedCommit
	// PinErrs maps owner/name to a resolution failure.
	PinErrs map[string]error
	// Manifests maps owner/name to raw package.json bytes; absent keys
	// behave like repositories without a package.json.
	Manifests map[string][]byte

	// spy: refs requested from PackageJSON
	ManifestRefs []string
}

var _ domain.SnapshotClient = (*SpySnapshotClient)(nil)

func (c *SpySnapshotClient) LatestOnDefault(
	_ context.Context,
	repo string,
) (domain.PinnedCommit, error) {
	if err, ok := c.PinErrs[repo]; ok {
		return domain.PinnedCommit{}, err
	}
	if pin, ok := c.Pins[repo]; ok {
		return pin, nil
	}
	return domain.PinnedCommit{}, fmt.Errorf("unknown repository: %s", repo)
}

func (c *SpySnapshotClient) PackageJSON(
	_ context.Context,
	repo, ref string,
) ([]byte, error) {
	c.ManifestRefs = append(c.ManifestRefs, ref)
	return c.Manifests[repo], nil
}
