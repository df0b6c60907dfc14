// Package event reads the GitHub Actions run context: the repository and
// the pull request that triggered the workflow.
package event

import (
	"errors"
	"fmt"
	"net/url"
	"os"

	"github.com/cli/go-gh/v2/pkg/repository"
	gogithub "github.com/google/go-github/v68/github"
	jsoniter "github.com/json-iterator/go"
	"github.com/ryo246912/gh-required-reviewers/internal/models"
)

const (
	EvPullRequest       = "pull_request"
	EvPullRequestTarget = "pull_request_target"
	EvPullRequestReview = "pull_request_review"
	EvIssueComment      = "issue_comment"

	defaultHost = "github.com"
)

var (
	ErrNotActions    = errors.New("not running in GitHub Actions")
	ErrNoRepository  = errors.New("GITHUB_REPOSITORY not set")
	ErrNoPullRequest = errors.New("event payload has no pull request")
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Context is the part of the Actions run context the check needs
type Context struct {
	Host      string
	EventName string
	Ref       models.PullRequestRef
}

// IsActions reports whether environ comes from a GitHub Actions runner
func IsActions(environ map[string]string) bool {
	return environ["GITHUB_ACTIONS"] == "true"
}

// Load builds the run context from the runner environment
func Load(environ map[string]string) (Context, error) {
	repo, err := Repository(environ)
	if err != nil {
		return Context{}, err
	}

	eventName := environ["GITHUB_EVENT_NAME"]
	number, err := readNumber(eventName, environ["GITHUB_EVENT_PATH"])
	if err != nil {
		return Context{}, err
	}

	ref := models.PullRequestRef{Owner: repo.Owner, Repo: repo.Name, Number: number}
	if err := ref.Validate(); err != nil {
		return Context{}, err
	}

	return Context{
		Host:      repo.Host,
		EventName: eventName,
		Ref:       ref,
	}, nil
}

// Repository returns the repository the workflow runs for
func Repository(environ map[string]string) (repository.Repository, error) {
	if !IsActions(environ) {
		return repository.Repository{}, ErrNotActions
	}

	host, err := serverHost(environ["GITHUB_SERVER_URL"])
	if err != nil {
		return repository.Repository{}, err
	}

	fullName := environ["GITHUB_REPOSITORY"]
	if fullName == "" {
		return repository.Repository{}, ErrNoRepository
	}
	repo, err := repository.ParseWithHost(fullName, host)
	if err != nil {
		return repository.Repository{}, fmt.Errorf("failed to parse GITHUB_REPOSITORY: %w", err)
	}
	return repo, nil
}

func serverHost(serverURL string) (string, error) {
	if serverURL == "" {
		return defaultHost, nil
	}
	u, err := url.Parse(serverURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse GITHUB_SERVER_URL: %w", err)
	}
	if u.Host == "" {
		return defaultHost, nil
	}
	return u.Host, nil
}

// readNumber extracts the pull request number from the event payload file
func readNumber(eventName, path string) (int, error) {
	if path == "" {
		return 0, fmt.Errorf("%w: GITHUB_EVENT_PATH not set", ErrNoPullRequest)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read event payload: %w", err)
	}

	return ParseNumber(eventName, content)
}

// ParseNumber extracts the pull request number from a raw event payload
func ParseNumber(eventName string, payload []byte) (int, error) {
	switch eventName {
	case EvIssueComment:
		ev := &gogithub.IssueCommentEvent{}
		if err := json.Unmarshal(payload, ev); err != nil {
			return 0, fmt.Errorf("failed to parse %s payload: %w", eventName, err)
		}
		if !ev.GetIssue().IsPullRequest() {
			return 0, fmt.Errorf("%w: comment is on an issue", ErrNoPullRequest)
		}
		return ev.GetIssue().GetNumber(), nil
	default:
		ev := &gogithub.PullRequestEvent{}
		if err := json.Unmarshal(payload, ev); err != nil {
			return 0, fmt.Errorf("failed to parse %s payload: %w", eventName, err)
		}
		if number := ev.GetPullRequest().GetNumber(); number > 0 {
			return number, nil
		}
		if number := ev.GetNumber(); number > 0 {
			return number, nil
		}
		return 0, fmt.Errorf("%w: event %q", ErrNoPullRequest, eventName)
	}
}
