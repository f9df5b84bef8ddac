package hydrator

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsbench/corpusctl/domain"
	testdoubles "github.com/tsbench/corpusctl/test"
)

const pinnedSHA = "0123456789abcdef0123456789abcdef01234567"

func testEntry() domain.CorpusEntry {
	return domain.CorpusEntry{
		Repo:      "owner/widget",
		CommitSHA: pinnedSHA,
	}
}

// newTestHydrator wires a hydrator whose HEAD resolution is canned, so no
// real repository is needed on disk.
func newTestHydrator(
	baseDir string,
	runner domain.CommandRunner,
	headSHA string,
	headErr error,
) *GitHydrator {
	h := NewGitHydrator(baseDir, runner)
	h.head = func(_ string) (string, error) {
		return headSHA, headErr
	}
	return h
}

func commandNames(calls []testdoubles.RunnerCall) []string {
	names := make([]string, 0, len(calls))
	for _, call := range calls {
		names = append(names, call.Args[0])
	}
	return names
}

func TestGitHydrator_Hydrate(t *testing.T) {
	t.Parallel()

	t.Run("should clone, fetch, and checkout for an absent tree", func(t *testing.T) {
		t.Parallel()

		// given
		baseDir := filepath.Join(t.TempDir(), "projects")
		runner := &testdoubles.SpyRunner{}
		h := newTestHydrator(baseDir, runner, pinnedSHA, nil)

		// when
		root, err := h.Hydrate(context.Background(), testEntry())

		// then
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(baseDir, "widget"), root)
		require.Equal(t, []string{"clone", "fetch", "checkout"}, commandNames(runner.Calls))

		clone := runner.Calls[0]
		assert.Equal(t, "git", clone.Name)
		assert.Equal(t, []string{
			"clone", "--filter=blob:none",
			"https://github.com/owner/widget.git",
			filepath.Join(baseDir, "widget"),
		}, clone.Args)

		fetch := runner.Calls[1]
		assert.Equal(t, filepath.Join(baseDir, "widget"), fetch.Dir)
		assert.Equal(t, []string{
			"fetch", "--tags", "--prune", "--prune-tags", "origin",
		}, fetch.Args)

		checkout := runner.Calls[2]
		assert.Equal(t, []string{"checkout", "--detach", pinnedSHA}, checkout.Args)
	})

	t.Run("should skip the clone for a pre-existing tree", func(t *testing.T) {
		t.Parallel()

		// given
		baseDir := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(baseDir, "widget"), 0o755))
		runner := &testdoubles.SpyRunner{}
		h := newTestHydrator(baseDir, runner, pinnedSHA, nil)

		// when
		_, err := h.Hydrate(context.Background(), testEntry())

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"fetch", "checkout"}, commandNames(runner.Calls))
	})

	t.Run("should converge when rerun on an already hydrated tree", func(t *testing.T) {
		t.Parallel()

		// given
		baseDir := filepath.Join(t.TempDir(), "projects")
		runner := &testdoubles.SpyRunner{}
		h := newTestHydrator(baseDir, runner, pinnedSHA, nil)
		entry := testEntry()

		// when
		first, err := h.Hydrate(context.Background(), entry)
		require.NoError(t, err)
		second, err := h.Hydrate(context.Background(), entry)
		require.NoError(t, err)

		// then the second run refreshed and checked out again, no reclone
		assert.Equal(t, first, second)
		assert.Equal(t,
			[]string{"clone", "fetch", "checkout", "fetch", "checkout"},
			commandNames(runner.Calls),
		)
	})

	t.Run("should stop after a failing clone", func(t *testing.T) {
		t.Parallel()

		// given
		runner := &testdoubles.SpyRunner{
			Results: map[string]testdoubles.RunnerResult{
				"clone": {Err: errors.New("could not resolve host")},
			},
		}
		h := newTestHydrator(filepath.Join(t.TempDir(), "projects"), runner, pinnedSHA, nil)

		// when
		_, err := h.Hydrate(context.Background(), testEntry())

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "clone owner/widget")
		assert.Equal(t, []string{"clone"}, commandNames(runner.Calls))
	})

	t.Run("should surface a failing checkout with the pinned commit", func(t *testing.T) {
		t.Parallel()

		// given
		runner := &testdoubles.SpyRunner{
			Results: map[string]testdoubles.RunnerResult{
				"checkout": {Err: errors.New("reference is not a tree")},
			},
		}
		h := newTestHydrator(filepath.Join(t.TempDir(), "projects"), runner, pinnedSHA, nil)

		// when
		_, err := h.Hydrate(context.Background(), testEntry())

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "checkout owner/widget")
		assert.Contains(t, err.Error(), pinnedSHA)
	})

	t.Run("should fail when HEAD does not match the pinned commit", func(t *testing.T) {
		t.Parallel()

		// given a checkout that exited 0 but left HEAD elsewhere
		runner := &testdoubles.SpyRunner{}
		h := newTestHydrator(
			filepath.Join(t.TempDir(), "projects"),
			runner,
			"deadbeefdeadbeefdeadbeefdeadbeefdeadbeef",
			nil,
		)

		// when
		_, err := h.Hydrate(context.Background(), testEntry())

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "expected "+pinnedSHA)
	})

	t.Run("should fail when HEAD cannot be resolved", func(t *testing.T) {
		t.Parallel()

		// given
		runner := &testdoubles.SpyRunner{}
		h := newTestHydrator(
			filepath.Join(t.TempDir(), "projects"),
			runner,
			"",
			errors.New("repository does not exist"),
		)

		// when
		_, err := h.Hydrate(context.Background(), testEntry())

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "verify checkout")
	})
}

func TestResolveHead(t *testing.T) {
	t.Parallel()

	t.Run("should fail for a directory that is not a repository", func(t *testing.T) {
		t.Parallel()

		// when
		_, err := resolveHead(t.TempDir())

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "open repository")
	})
}
