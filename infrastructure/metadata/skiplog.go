package metadata

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tsbench/corpusctl/domain"
)

// SkipLog implements domain.SkipLog as a plain text file of one
// "repo: reason" line per repository that never hydrated. The file is
// truncated at run start and append-only within a run.
type SkipLog struct {
	path string
}

// NewSkipLog creates a skip log at path.
func NewSkipLog(path string) *SkipLog {
	return &SkipLog{path: path}
}

var _ domain.SkipLog = (*SkipLog)(nil)

// Reset truncates the log, discarding entries from prior runs.
func (l *SkipLog) Reset() error {
	if dir := filepath.Dir(l.path); dir != "." {
		if err := os.MkdirAll(dir, storeDirMode); err != nil {
			return fmt.Errorf("create skip log dir %q: %w", dir, err)
		}
	}
	if err := os.WriteFile(l.path, nil, storeFileMode); err != nil {
		return fmt.Errorf("truncate skip log %q: %w", l.path, err)
	}
	return nil
}

// Record appends one skipped repository with enough context to retry it
// manually.
func (l *SkipLog) Record(repo, reason string) error {
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, storeFileMode)
	if err != nil {
		return fmt.Errorf("open skip log %q: %w", l.path, err)
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "%s: %s\n", repo, reason); err != nil {
		return fmt.Errorf("append to skip log %q: %w", l.path, err)
	}
	return nil
}
