package domain

import "context"

// CommandResult carries the captured output of one external process call.
type CommandResult struct {
	Stdout []byte
	Stderr []byte
}

// CommandRunner abstracts external process invocation (git, the graph
// tool) so command sequences can be asserted in tests without spawning
// real processes. An empty dir runs the command in the current directory.
type CommandRunner interface {
	Run(ctx context.Context, dir, name string, args ...string) (CommandResult, error)
}

// Hydrator guarantees a local working tree for a corpus entry exists and
// is checked out exactly at the pinned commit. It returns the tree root.
// Hydration is idempotent: reruns converge to the pinned commit regardless
// of prior local state.
type Hydrator interface {
	Hydrate(ctx context.Context, entry CorpusEntry) (string, error)
}

// LineCounter walks a working tree and buckets non-blank lines by
// language family.
type LineCounter interface {
	Count(root string) (LanguageLineCounts, error)
}

// StrictnessReader extracts the recognized type-strictness flags from a
// working tree. It never fails: absence or parse errors degrade to the
// all-false defaults.
type StrictnessReader interface {
	Read(root string) StrictnessFlags
}

// GraphRunner reduces a working tree's import graph to a module count.
// Tool failures degrade to an error-carrying GraphMetrics, never to an
// aborted run.
type GraphRunner interface {
	ComputeModuleCount(ctx context.Context, root string) GraphMetrics
}

// SnapshotSource supplies the frozen corpus entries in snapshot order.
type SnapshotSource interface {
	Load(ctx context.Context) ([]CorpusEntry, error)
}

// SnapshotClient resolves live repository state at freeze time. It is the
// only part of the system that talks to the hosting API.
type SnapshotClient interface {
	// LatestOnDefault returns the newest commit on the default branch
	// plus the repository's SPDX license identifier.
	LatestOnDefault(ctx context.Context, repo string) (PinnedCommit, error)

	// PackageJSON fetches the raw package.json at the given ref, or nil
	// when the repository has none.
	PackageJSON(ctx context.Context, repo, ref string) ([]byte, error)
}

// MetadataStore persists the full record mapping, replacing any prior
// artifact wholesale.
type MetadataStore interface {
	Replace(records map[string]HydratedRecord) error
}

// SkipLog records repositories that never hydrated. Reset truncates the
// log at run start; Record appends one "repo: reason" line.
type SkipLog interface {
	Reset() error
	Record(repo, reason string) error
}
