package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tsbench/corpusctl/domain"
)

const (
	artifactDirMode  = 0o755
	artifactFileMode = 0o644

	shortSHALen  = 7
	dateOnlyLen  = len("2006-01-02")
	markdownHead = `# TypeScript Benchmark Corpus

_Frozen at latest commit on default branches (at freeze time)._
Columns: repo, short SHA, date, license, kind, tests?, monorepo?

| Repo | Commit | Date | License | Kind | Tests | Monorepo |
|---|---|---|---|---|---|---|
`
)

// WriteCorpus writes the frozen snapshot as line-delimited JSON, one
// entry per row, replacing any prior artifact.
func WriteCorpus(path string, entries []domain.CorpusEntry) error {
	var sb strings.Builder
	for _, entry := range entries {
		row, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("marshal corpus entry %s: %w", entry.Repo, err)
		}
		sb.Write(row)
		sb.WriteByte('\n')
	}
	return writeArtifact(path, []byte(sb.String()))
}

// WriteMarkdown renders the human-readable corpus table.
func WriteMarkdown(path string, entries []domain.CorpusEntry) error {
	var sb strings.Builder
	sb.WriteString(markdownHead)

	for _, entry := range entries {
		cur := entry.Curation
		sb.WriteString(fmt.Sprintf(
			"| `%s` | `%s` | %s | %s | %s | %t | %t |\n",
			entry.Repo,
			truncate(entry.CommitSHA, shortSHALen),
			truncate(entry.CommitDate, dateOnlyLen),
			entry.LicenseSPDX,
			cur.Kind,
			cur.Tests,
			cur.Monorepo,
		))
	}
	return writeArtifact(path, []byte(sb.String()))
}

func writeArtifact(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, artifactDirMode); err != nil {
			return fmt.Errorf("create artifact dir %q: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, artifactFileMode); err != nil {
		return fmt.Errorf("write artifact %q: %w", path, err)
	}
	return nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}
