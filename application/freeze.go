package application

import (
	"context"
	"fmt"

	logger "github.com/sirupsen/logrus"

	"github.com/tsbench/corpusctl/domain"
	"github.com/tsbench/corpusctl/infrastructure/snapshot"
)

// FreezeService refreshes the frozen snapshot: for every tracked
// repository it pins the latest commit on the default branch, classifies
// curation from package.json, and rewrites corpus.jsonl plus the
// human-readable corpus table.
type FreezeService struct {
	client domain.SnapshotClient
}

// NewFreezeService creates the service from the hosting API client.
func NewFreezeService(client domain.SnapshotClient) *FreezeService {
	return &FreezeService{client: client}
}

// FreezeOptions holds the file locations a freeze run reads and writes.
type FreezeOptions struct {
	ReposFile      string
	CorpusFile     string
	CorpusMarkdown string
}

// Run freezes the corpus. Per-repository API failures are logged and the
// repository is left out of this snapshot; the artifacts are still
// written for the successes.
func (s *FreezeService) Run(ctx context.Context, opts FreezeOptions) error {
	repos, err := snapshot.LoadReposList(opts.ReposFile)
	if err != nil {
		return fmt.Errorf("load repos list: %w", err)
	}
	if len(repos) == 0 {
		return fmt.Errorf("repos file %q lists no repositories", opts.ReposFile)
	}

	var entries []domain.CorpusEntry
	for _, repo := range repos {
		entry, freezeErr := s.freezeOne(ctx, repo)
		if freezeErr != nil {
			logger.Errorf("✖ %s: %v", repo, freezeErr)
			continue
		}

		logger.Infof(
			"✔ %s @ %.7s (%s, tests=%t, mono=%t)",
			repo, entry.CommitSHA,
			entry.Curation.Kind, entry.Curation.Tests, entry.Curation.Monorepo,
		)
		entries = append(entries, entry)
	}

	if writeErr := snapshot.WriteCorpus(opts.CorpusFile, entries); writeErr != nil {
		return fmt.Errorf("write corpus snapshot: %w", writeErr)
	}
	if writeErr := snapshot.WriteMarkdown(opts.CorpusMarkdown, entries); writeErr != nil {
		return fmt.Errorf("write corpus table: %w", writeErr)
	}

	logger.Infof(
		"Froze %d of %d repositories into %s",
		len(entries), len(repos), opts.CorpusFile,
	)
	return nil
}

func (s *FreezeService) freezeOne(
	ctx context.Context,
	repo string,
) (domain.CorpusEntry, error) {
	pinned, err := s.client.LatestOnDefault(ctx, repo)
	if err != nil {
		return domain.CorpusEntry{}, err
	}

	// A missing or unparsable package.json is not an error: the entry is
	// frozen with unknown curation.
	pkg, pkgErr := s.client.PackageJSON(ctx, repo, pinned.SHA)
	if pkgErr != nil {
		logger.Debugf("package.json unavailable for %s: %v", repo, pkgErr)
		pkg = nil
	}

	return domain.CorpusEntry{
		Repo:        repo,
		CommitSHA:   pinned.SHA,
		CommitDate:  pinned.Date,
		LicenseSPDX: pinned.LicenseSPDX,
		Curation:    snapshot.Classify(pkg),
	}, nil
}
