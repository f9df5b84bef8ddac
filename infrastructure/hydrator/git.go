// Package hydrator materializes working trees at pinned commits.
package hydrator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	gogit "github.com/go-git/go-git/v5"
	logger "github.com/sirupsen/logrus"

	"github.com/tsbench/corpusctl/domain"
)

const baseDirMode = 0o755

// GitHydrator implements domain.Hydrator on top of the git CLI. Porcelain
// commands go through the system binary because blob-filtered partial
// clones are a wire-protocol capability the CLI implements completely;
// go-git is used read-side to verify the resulting HEAD.
type GitHydrator struct {
	baseDir string
	runner  domain.CommandRunner

	// head resolves the checked-out commit of a working tree; replaced
	// in tests to avoid needing a real repository on disk.
	head func(dir string) (string, error)
}

// NewGitHydrator creates a hydrator placing working trees under baseDir,
// one directory per repository short name.
func NewGitHydrator(baseDir string, runner domain.CommandRunner) *GitHydrator {
	return &GitHydrator{
		baseDir: baseDir,
		runner:  runner,
		head:    resolveHead,
	}
}

var _ domain.Hydrator = (*GitHydrator)(nil)

// Hydrate ensures a working tree for the entry exists and is checked out
// exactly at the pinned commit, returning the tree root. A fresh tree is
// created with a blob-filtered clone; fresh or not, remote references are
// refreshed with tag and stale-reference pruning before checkout, so a
// previously hydrated tree can reach commits not present at clone time.
func (h *GitHydrator) Hydrate(
	ctx context.Context,
	entry domain.CorpusEntry,
) (string, error) {
	dir := filepath.Join(h.baseDir, entry.ShortName())

	if _, statErr := os.Stat(dir); os.IsNotExist(statErr) {
		if mkErr := os.MkdirAll(h.baseDir, baseDirMode); mkErr != nil {
			return "", fmt.Errorf("create base dir %q: %w", h.baseDir, mkErr)
		}

		logger.Infof("Cloning %s...", entry.Repo)
		_, cloneErr := h.runner.Run(
			ctx, "", "git",
			"clone", "--filter=blob:none", entry.CloneURL(), dir,
		)
		if cloneErr != nil {
			return "", fmt.Errorf("clone %s: %w", entry.Repo, cloneErr)
		}
	}

	_, fetchErr := h.runner.Run(
		ctx, dir, "git",
		"fetch", "--tags", "--prune", "--prune-tags", "origin",
	)
	if fetchErr != nil {
		return "", fmt.Errorf("fetch %s: %w", entry.Repo, fetchErr)
	}

	// Detached HEAD is fine: the contract cares about tree content only.
	_, checkoutErr := h.runner.Run(
		ctx, dir, "git",
		"checkout", "--detach", entry.CommitSHA,
	)
	if checkoutErr != nil {
		return "", fmt.Errorf(
			"checkout %s at %s: %w",
			entry.Repo, entry.CommitSHA, checkoutErr,
		)
	}

	head, headErr := h.head(dir)
	if headErr != nil {
		return "", fmt.Errorf("verify checkout of %s: %w", entry.Repo, headErr)
	}
	if head != entry.CommitSHA {
		return "", fmt.Errorf(
			"checkout of %s left HEAD at %s, expected %s",
			entry.Repo, head, entry.CommitSHA,
		)
	}

	return dir, nil
}

// resolveHead opens the repository with go-git and returns the commit SHA
// HEAD points at.
func resolveHead(dir string) (string, error) {
	repo, err := gogit.PlainOpen(dir)
	if err != nil {
		return "", fmt.Errorf("open repository %q: %w", dir, err)
	}

	ref, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("resolve HEAD of %q: %w", dir, err)
	}

	return ref.Hash().String(), nil
}
