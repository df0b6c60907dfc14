package github

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/cli/go-gh/v2/pkg/api"
	graphql "github.com/cli/shurcooL-graphql"
	"github.com/google/go-querystring/query"
	"github.com/ryo246912/gh-required-reviewers/internal/models"
	"github.com/samber/lo"
)

const commentsPerPage = 100

type listOptions struct {
	PerPage int `url:"per_page,omitempty"`
	Page    int `url:"page,omitempty"`
}

// ErrPullRequestNotFound is returned when no open PR matches a head branch
var ErrPullRequestNotFound = errors.New("no open pull request found")

// Options configures the API clients. Empty fields are resolved from the gh environment.
type Options struct {
	Host      string
	Token     string
	Transport http.RoundTripper
}

// Client wraps GitHub API clients
type Client struct {
	rest *api.RESTClient
	gql  *api.GraphQLClient
}

func NewClient(opts Options) (*Client, error) {
	clientOpts := api.ClientOptions{
		Host:      opts.Host,
		AuthToken: opts.Token,
		Transport: opts.Transport,
	}

	restClient, err := api.NewRESTClient(clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create REST client: %w", err)
	}

	gqlClient, err := api.NewGraphQLClient(clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create GraphQL client: %w", err)
	}

	return &Client{
		rest: restClient,
		gql:  gqlClient,
	}, nil
}

// GetPullRequest fetches labels and requested reviewers of a PR
func (c *Client) GetPullRequest(ctx context.Context, ref models.PullRequestRef) (models.PullRequest, error) {
	var pr struct {
		Labels             []models.Label `json:"labels"`
		RequestedReviewers []models.User  `json:"requested_reviewers"`
	}

	path := fmt.Sprintf("repos/%s/%s/pulls/%d", ref.Owner, ref.Repo, ref.Number)
	if err := c.rest.DoWithContext(ctx, http.MethodGet, path, nil, &pr); err != nil {
		return models.PullRequest{}, err
	}

	return models.PullRequest{
		Ref: ref,
		Labels: lo.Map(pr.Labels, func(l models.Label, _ int) string {
			return l.Name
		}),
		RequestedReviewers: lo.Map(pr.RequestedReviewers, func(u models.User, _ int) string {
			return u.Login
		}),
	}, nil
}

// ListIssueComments fetches every comment on the PR conversation
func (c *Client) ListIssueComments(ctx context.Context, ref models.PullRequestRef) ([]models.Comment, error) {
	comments := make([]models.Comment, 0)
	for page := 1; ; page++ {
		params, err := query.Values(listOptions{PerPage: commentsPerPage, Page: page})
		if err != nil {
			return nil, fmt.Errorf("failed to encode list options: %w", err)
		}
		path := fmt.Sprintf("repos/%s/%s/issues/%d/comments?%s",
			ref.Owner, ref.Repo, ref.Number, params.Encode())

		var batch []models.Comment
		if err := c.rest.DoWithContext(ctx, http.MethodGet, path, nil, &batch); err != nil {
			return nil, err
		}
		comments = append(comments, batch...)

		if len(batch) < commentsPerPage {
			return comments, nil
		}
	}
}

// CreateComment posts a new comment on the PR conversation
func (c *Client) CreateComment(ctx context.Context, ref models.PullRequestRef, body string) (models.Comment, error) {
	path := fmt.Sprintf("repos/%s/%s/issues/%d/comments", ref.Owner, ref.Repo, ref.Number)

	reqBody, err := encodeCommentBody(body)
	if err != nil {
		return models.Comment{}, err
	}

	var comment models.Comment
	if err := c.rest.DoWithContext(ctx, http.MethodPost, path, reqBody, &comment); err != nil {
		return models.Comment{}, err
	}
	return comment, nil
}

// UpdateComment overwrites the body of an existing comment
func (c *Client) UpdateComment(ctx context.Context, ref models.PullRequestRef, id int64, body string) (models.Comment, error) {
	path := fmt.Sprintf("repos/%s/%s/issues/comments/%d", ref.Owner, ref.Repo, id)

	reqBody, err := encodeCommentBody(body)
	if err != nil {
		return models.Comment{}, err
	}

	var comment models.Comment
	if err := c.rest.DoWithContext(ctx, http.MethodPatch, path, reqBody, &comment); err != nil {
		return models.Comment{}, err
	}
	return comment, nil
}

// DeleteComment removes a comment
func (c *Client) DeleteComment(ctx context.Context, ref models.PullRequestRef, id int64) error {
	path := fmt.Sprintf("repos/%s/%s/issues/comments/%d", ref.Owner, ref.Repo, id)
	if err := c.rest.DoWithContext(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return err
	}
	return nil
}

// GetOpenPRs fetches open pull requests using GraphQL
func (c *Client) GetOpenPRs(ctx context.Context, owner, repo string) ([]models.PullRequestInfo, error) {
	var q struct {
		Repository struct {
			PullRequests struct {
				Nodes []struct {
					Number      int
					Title       string
					HeadRefName string
					IsDraft     bool
					UpdatedAt   string
					Author      struct {
						Login string
					}
				}
			} `graphql:"pullRequests(states: OPEN, first: $first, orderBy: {field: UPDATED_AT, direction: DESC})"`
		} `graphql:"repository(owner: $owner, name: $name)"`
	}

	variables := map[string]interface{}{
		"owner": graphql.String(owner),
		"name":  graphql.String(repo),
		"first": graphql.Int(100),
	}

	if err := c.gql.QueryWithContext(ctx, "OpenPullRequests", &q, variables); err != nil {
		return nil, fmt.Errorf("failed to fetch pull requests: %w", err)
	}

	prs := make([]models.PullRequestInfo, 0, len(q.Repository.PullRequests.Nodes))
	for _, pr := range q.Repository.PullRequests.Nodes {
		prs = append(prs, models.PullRequestInfo{
			Number:      pr.Number,
			Title:       pr.Title,
			User:        pr.Author.Login,
			HeadRefName: pr.HeadRefName,
			Draft:       pr.IsDraft,
			UpdatedAt:   pr.UpdatedAt,
		})
	}
	return prs, nil
}

// FindPRByHead returns the number of the open PR whose head is the given branch
func (c *Client) FindPRByHead(ctx context.Context, owner, repo, head string) (int, error) {
	var q struct {
		Repository struct {
			PullRequests struct {
				Nodes []struct {
					Number int
				}
			} `graphql:"pullRequests(headRefName: $head, states: OPEN, first: 1)"`
		} `graphql:"repository(owner: $owner, name: $name)"`
	}

	variables := map[string]interface{}{
		"owner": graphql.String(owner),
		"name":  graphql.String(repo),
		"head":  graphql.String(head),
	}

	if err := c.gql.QueryWithContext(ctx, "PullRequestForHead", &q, variables); err != nil {
		return 0, fmt.Errorf("failed to fetch pull request for %s: %w", head, err)
	}

	nodes := q.Repository.PullRequests.Nodes
	if len(nodes) == 0 {
		return 0, fmt.Errorf("%w for branch %s", ErrPullRequestNotFound, head)
	}
	return nodes[0].Number, nil
}

func encodeCommentBody(body string) (*bytes.Reader, error) {
	jsonBody, err := json.Marshal(map[string]string{
		"body": body,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}
	return bytes.NewReader(jsonBody), nil
}
