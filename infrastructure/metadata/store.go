// Package metadata persists the pipeline's run artifacts: the metadata
// mapping and the skip log.
package metadata

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tsbench/corpusctl/domain"
)

const (
	storeDirMode  = 0o755
	storeFileMode = 0o644
)

// JSONStore implements domain.MetadataStore as one indented JSON document
// keyed by owner/repo. The artifact is rebuilt wholesale each run; it is
// never patched incrementally.
type JSONStore struct {
	path string
}

// NewJSONStore creates a store writing the artifact at path.
func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

var _ domain.MetadataStore = (*JSONStore)(nil)

// Replace serializes the full mapping and atomically swaps it over any
// prior artifact via a temp file and rename, so an interrupted run never
// leaves a half-written document. Map keys marshal sorted, which keeps
// reruns on an unchanged corpus byte-identical.
func (s *JSONStore) Replace(records map[string]domain.HydratedRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	if dir != "." {
		if mkErr := os.MkdirAll(dir, storeDirMode); mkErr != nil {
			return fmt.Errorf("create metadata dir %q: %w", dir, mkErr)
		}
	}

	tmp, err := os.CreateTemp(dir, ".metadata-*.json")
	if err != nil {
		return fmt.Errorf("create temp metadata file: %w", err)
	}
	tmpName := tmp.Name()

	if _, writeErr := tmp.Write(data); writeErr != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write metadata: %w", writeErr)
	}
	if closeErr := tmp.Close(); closeErr != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close metadata file: %w", closeErr)
	}
	if chmodErr := os.Chmod(tmpName, storeFileMode); chmodErr != nil {
		os.Remove(tmpName)
		return fmt.Errorf("chmod metadata file: %w", chmodErr)
	}

	if renameErr := os.Rename(tmpName, s.path); renameErr != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace metadata artifact %q: %w", s.path, renameErr)
	}
	return nil
}
