package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/ryo246912/gh-required-reviewers/internal/github"
	"github.com/ryo246912/gh-required-reviewers/internal/models"
	"github.com/ryo246912/gh-required-reviewers/internal/ui"
)

// ErrPRNotSpecified is returned when no PR was given and prompting is not possible
var ErrPRNotSpecified = errors.New("no pull request specified: pass --pr or --head, or run in a terminal")

// PRResolver works out which pull request a local run should check
type PRResolver struct {
	finder      github.PullRequestFinder
	repo        github.RepositoryInfo
	prompter    ui.Prompter
	interactive bool
}

// NewPRResolver creates a resolver. The prompter is only used when interactive is true.
func NewPRResolver(finder github.PullRequestFinder, repo github.RepositoryInfo, prompter ui.Prompter, interactive bool) *PRResolver {
	return &PRResolver{
		finder:      finder,
		repo:        repo,
		prompter:    prompter,
		interactive: interactive,
	}
}

// Resolve returns the ref from an explicit number, a head branch lookup or the picker, in that order
func (r *PRResolver) Resolve(ctx context.Context, prArg, head string) (models.PullRequestRef, error) {
	ref := models.PullRequestRef{Owner: r.repo.GetOwner(), Repo: r.repo.GetName()}

	number, err := r.number(ctx, prArg, head)
	if err != nil {
		return models.PullRequestRef{}, err
	}
	ref.Number = number
	return ref, nil
}

func (r *PRResolver) number(ctx context.Context, prArg, head string) (int, error) {
	if prArg != "" {
		prNumber, err := strconv.Atoi(prArg)
		if err != nil {
			return 0, fmt.Errorf("invalid PR number: %w", err)
		}
		if prNumber <= 0 {
			return 0, fmt.Errorf("PR number must be positive")
		}
		return prNumber, nil
	}

	if head != "" {
		prNumber, err := r.finder.FindPRByHead(ctx, r.repo.GetOwner(), r.repo.GetName(), head)
		if err != nil {
			return 0, fmt.Errorf("failed to find PR for branch %s: %w", head, err)
		}
		return prNumber, nil
	}

	if !r.interactive || r.prompter == nil {
		return 0, ErrPRNotSpecified
	}

	prs, err := r.finder.GetOpenPRs(ctx, r.repo.GetOwner(), r.repo.GetName())
	if err != nil {
		return 0, fmt.Errorf("failed to get open PRs: %w", err)
	}

	return r.prompter.SelectPR(prs)
}
