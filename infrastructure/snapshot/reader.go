// Package snapshot owns the frozen corpus artifacts: reading the JSONL
// snapshot the pipeline consumes and producing it at freeze time from the
// GitHub API.
package snapshot

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/tsbench/corpusctl/domain"
)

// Line-delimited records can carry large curation notes; one MiB is far
// beyond any row the freeze step produces.
const maxRecordSize = 1 << 20

// FileSource implements domain.SnapshotSource over the frozen corpus.jsonl
// artifact. A missing artifact fails the whole run: without it there is
// nothing to hydrate.
type FileSource struct {
	path string
}

// NewFileSource creates a source reading the JSONL artifact at path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

var _ domain.SnapshotSource = (*FileSource)(nil)

// Load reads all corpus entries in snapshot order. Blank lines and lines
// starting with '#' are skipped; any malformed record is a setup error,
// since the artifact is machine-written and must not be silently partial.
func (s *FileSource) Load(_ context.Context) ([]domain.CorpusEntry, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf(
				"corpus snapshot %q does not exist; run `corpusctl freeze` first: %w",
				s.path, err,
			)
		}
		return nil, fmt.Errorf("open corpus snapshot %q: %w", s.path, err)
	}
	defer f.Close()

	var entries []domain.CorpusEntry

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxRecordSize)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		var entry domain.CorpusEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			return nil, fmt.Errorf(
				"malformed corpus record at %s:%d: %w",
				s.path, lineNo, err,
			)
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read corpus snapshot %q: %w", s.path, err)
	}

	return entries, nil
}

// LoadReposList reads the tracked-repository list: one owner/name per
// line, blank lines and '#' comments skipped.
func LoadReposList(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read repos file %q: %w", path, err)
	}

	var repos []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		repos = append(repos, line)
	}
	return repos, nil
}
