package snapshot

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	gh "github.com/google/go-github/v66/github"

	"github.com/tsbench/corpusctl/domain"
)

// GitHubClient implements domain.SnapshotClient against the GitHub REST
// API. It is only exercised by the freeze command; the pipeline itself
// never talks to the API.
type GitHubClient struct {
	client *gh.Client
}

// NewGitHubClient creates a client. An empty token yields anonymous
// access, which is enough for public corpora but heavily rate limited.
func NewGitHubClient(token string) *GitHubClient {
	client := gh.NewClient(nil)
	if token != "" {
		client = client.WithAuthToken(token)
	}
	return &GitHubClient{client: client}
}

var _ domain.SnapshotClient = (*GitHubClient)(nil)

// LatestOnDefault resolves the repository's default branch and returns
// its newest commit plus the SPDX license identifier.
func (c *GitHubClient) LatestOnDefault(
	ctx context.Context,
	repo string,
) (domain.PinnedCommit, error) {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return domain.PinnedCommit{}, err
	}

	info, _, err := c.client.Repositories.Get(ctx, owner, name)
	if err != nil {
		return domain.PinnedCommit{}, fmt.Errorf("get repository %s: %w", repo, err)
	}

	license := info.GetLicense().GetSPDXID()
	if license == "" {
		license = "UNKNOWN"
	}

	branch := info.GetDefaultBranch()
	if branch == "" {
		branch = "main"
	}

	commits, _, err := c.client.Repositories.ListCommits(
		ctx, owner, name,
		&gh.CommitListOptions{
			SHA:         branch,
			ListOptions: gh.ListOptions{PerPage: 1},
		},
	)
	if err != nil {
		return domain.PinnedCommit{}, fmt.Errorf(
			"list commits for %s@%s: %w", repo, branch, err,
		)
	}
	if len(commits) == 0 {
		return domain.PinnedCommit{}, fmt.Errorf(
			"no commits found for %s@%s", repo, branch,
		)
	}

	head := commits[0]
	return domain.PinnedCommit{
		SHA:         head.GetSHA(),
		Date:        head.GetCommit().GetAuthor().GetDate().UTC().Format(time.RFC3339),
		Branch:      branch,
		LicenseSPDX: license,
	}, nil
}

// PackageJSON fetches the raw package.json content at ref, or nil when
// the repository has none.
func (c *GitHubClient) PackageJSON(
	ctx context.Context,
	repo, ref string,
) ([]byte, error) {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return nil, err
	}

	file, _, resp, err := c.client.Repositories.GetContents(
		ctx, owner, name, "package.json",
		&gh.RepositoryContentGetOptions{Ref: ref},
	)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("get package.json for %s@%s: %w", repo, ref, err)
	}
	if file == nil {
		// package.json resolved to a directory listing; treat as absent.
		return nil, nil
	}

	content, err := file.GetContent()
	if err != nil {
		return nil, fmt.Errorf("decode package.json for %s@%s: %w", repo, ref, err)
	}
	return []byte(content), nil
}

func splitRepo(repo string) (string, string, error) {
	parts := strings.SplitN(repo, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", errors.New(
			"repository must be given as owner/name: " + repo,
		)
	}
	return parts[0], parts[1], nil
}
