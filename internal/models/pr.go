package models

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// PullRequestRef identifies a pull request on the host platform
type PullRequestRef struct {
	Owner  string `json:"owner" validate:"required"`
	Repo   string `json:"repo" validate:"required"`
	Number int    `json:"number" validate:"gt=0"`
}

func (r PullRequestRef) String() string {
	return fmt.Sprintf("%s/%s#%d", r.Owner, r.Repo, r.Number)
}

// Validate checks that owner, repo and a positive number are set
func (r PullRequestRef) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("invalid pull request %s: %w", r, err)
	}
	return nil
}

// PullRequest is the snapshot of a PR taken at fetch time
type PullRequest struct {
	Ref                PullRequestRef
	Labels             []string
	RequestedReviewers []string
}

// PullRequestInfo represents PR metadata shown in the picker
type PullRequestInfo struct {
	Number      int    `json:"number"`
	Title       string `json:"title"`
	User        string `json:"user"`
	HeadRefName string `json:"head_ref_name"`
	Draft       bool   `json:"draft"`
	UpdatedAt   string `json:"updated_at"`
}

// User represents a GitHub user
type User struct {
	Login string `json:"login"`
	Type  string `json:"type"`
}

// Label represents a GitHub label
type Label struct {
	Name string `json:"name"`
}

// Comment represents an issue comment
type Comment struct {
	ID   int64  `json:"id"`
	Body string `json:"body"`
	User User   `json:"user"`
}
