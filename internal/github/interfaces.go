package github

import (
	"context"

	"github.com/ryo246912/gh-required-reviewers/internal/models"
)

// GitHubClient defines the interface for GitHub operations.
// API failures are returned as the unwrapped *api.HTTPError.
type GitHubClient interface {
	GetPullRequest(ctx context.Context, ref models.PullRequestRef) (models.PullRequest, error)
	ListIssueComments(ctx context.Context, ref models.PullRequestRef) ([]models.Comment, error)
	CreateComment(ctx context.Context, ref models.PullRequestRef, body string) (models.Comment, error)
	UpdateComment(ctx context.Context, ref models.PullRequestRef, id int64, body string) (models.Comment, error)
	DeleteComment(ctx context.Context, ref models.PullRequestRef, id int64) error
}

// PullRequestFinder resolves pull request numbers for local runs
type PullRequestFinder interface {
	GetOpenPRs(ctx context.Context, owner, repo string) ([]models.PullRequestInfo, error)
	FindPRByHead(ctx context.Context, owner, repo, head string) (int, error)
}

// RepositoryInfo defines repository information interface
type RepositoryInfo interface {
	GetOwner() string
	GetName() string
}

// Ensure Client implements both interfaces
var (
	_ GitHubClient      = (*Client)(nil)
	_ PullRequestFinder = (*Client)(nil)
)
