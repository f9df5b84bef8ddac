// Package analyzer computes structural metrics over hydrated working
// trees: language-bucketed line counts, type-strictness flags, and the
// dependency-graph module count.
package analyzer

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/tsbench/corpusctl/domain"
)

// DefaultSizeCeiling bounds worst-case run time on vendored binary blobs
// mis-tagged with a text extension.
const DefaultSizeCeiling = 10 << 20 // 10 MiB

// prunedDirs are skipped at directory-discovery time, before descending.
var prunedDirs = map[string]struct{}{
	// version-control metadata
	".git": {}, ".hg": {}, ".svn": {},
	// installed packages
	"node_modules": {}, "bower_components": {}, "vendor": {},
	// build output
	"dist": {}, "build": {}, "out": {},
	".next": {}, ".nuxt": {}, ".output": {}, ".turbo": {},
	// coverage
	"coverage": {}, ".nyc_output": {},
	// virtual environments
	"venv": {}, ".venv": {}, "__pycache__": {},
}

// binaryExts are known binary/media formats never worth line counting.
var binaryExts = map[string]struct{}{
	".png": {}, ".jpg": {}, ".jpeg": {}, ".gif": {}, ".ico": {},
	".webp": {}, ".bmp": {}, ".svg": {}, ".pdf": {},
	".zip": {}, ".tar": {}, ".gz": {}, ".tgz": {}, ".bz2": {}, ".7z": {},
	".woff": {}, ".woff2": {}, ".ttf": {}, ".eot": {}, ".otf": {},
	".mp3": {}, ".mp4": {}, ".mov": {}, ".avi": {}, ".webm": {}, ".ogg": {},
	".wasm": {}, ".exe": {}, ".dll": {}, ".so": {}, ".dylib": {},
	".bin": {}, ".jar": {}, ".class": {}, ".pyc": {}, ".node": {},
}

type bucket int

const (
	bucketNone bucket = iota
	bucketTypeScript
	bucketJavaScript
	bucketOther
)

// bucketFor classifies an extension into exactly one bucket. The .d.ts
// declaration suffix falls under .ts and counts as TypeScript. Extensions
// matching no bucket are ignored entirely: not counted, not erred.
func bucketFor(ext string) bucket {
	switch ext {
	case ".ts", ".tsx":
		return bucketTypeScript
	case ".js", ".jsx":
		return bucketJavaScript
	case ".py", ".rb", ".go", ".rs", ".java", ".kt",
		".c", ".cc", ".cpp", ".h", ".hpp", ".cs",
		".php", ".sh", ".bash", ".zsh", ".ps1", ".sql",
		".json", ".yml", ".yaml", ".toml", ".xml",
		".html", ".css", ".scss", ".less", ".vue", ".svelte":
		return bucketOther
	default:
		return bucketNone
	}
}

// Counter implements domain.LineCounter: a prune-aware walk that counts
// non-blank lines per language family. Results are deterministic for a
// fixed filesystem state and always recomputed fresh.
type Counter struct {
	// SizeCeiling excludes files larger than this many bytes.
	SizeCeiling int64
}

// NewCounter creates a counter with the default size ceiling.
func NewCounter() *Counter {
	return &Counter{SizeCeiling: DefaultSizeCeiling}
}

var _ domain.LineCounter = (*Counter)(nil)

// Count walks root and returns the bucketed non-blank line counts.
// Individual unreadable files are skipped silently; only a failure to
// walk the root itself is an error.
func (c *Counter) Count(root string) (domain.LanguageLineCounts, error) {
	var counts domain.LanguageLineCounts

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			// Unreadable entries below the root are tolerated.
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if _, pruned := prunedDirs[d.Name()]; pruned && path != root {
				return filepath.SkipDir
			}
			return nil
		}

		ext := strings.ToLower(filepath.Ext(d.Name()))
		if _, binary := binaryExts[ext]; binary {
			return nil
		}

		b := bucketFor(ext)
		if b == bucketNone {
			return nil
		}

		info, infoErr := d.Info()
		if infoErr != nil || info.Size() > c.SizeCeiling {
			return nil
		}

		n, countErr := countNonBlankLines(path)
		if countErr != nil {
			// A single unreadable file must never fail the whole count.
			return nil
		}

		switch b {
		case bucketTypeScript:
			counts.TypeScript += n
		case bucketJavaScript:
			counts.JavaScript += n
		case bucketOther:
			counts.Other += n
		case bucketNone:
		}
		return nil
	})
	if walkErr != nil {
		return domain.LanguageLineCounts{}, fmt.Errorf("walk %q: %w", root, walkErr)
	}

	counts.Total = counts.TypeScript + counts.JavaScript + counts.Other
	return counts, nil
}

// countNonBlankLines counts lines whose content is non-empty after
// trimming surrounding whitespace. Invalid bytes are irrelevant to the
// blank/non-blank decision and never abort a file.
func countNonBlankLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	count := 0
	reader := bufio.NewReader(f)
	for {
		line, readErr := reader.ReadString('\n')
		if strings.TrimSpace(line) != "" {
			count++
		}
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				return count, nil
			}
			return 0, readErr
		}
	}
}
