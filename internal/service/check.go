package service

import (
	"context"
	"strings"

	"github.com/ryo246912/gh-required-reviewers/internal/config"
	"github.com/ryo246912/gh-required-reviewers/internal/github"
	"github.com/ryo246912/gh-required-reviewers/internal/models"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

// Decision is the evaluated policy for one pull request snapshot
type Decision struct {
	HasRequiredLabel bool
	FoundReviewer    bool
}

// Triggered reports whether the advisory comment must be present
func (d Decision) Triggered() bool {
	return d.HasRequiredLabel && !d.FoundReviewer
}

// Evaluate applies the policy to a snapshot. Both sides match on "any".
func Evaluate(cfg config.Config, pr models.PullRequest) Decision {
	return Decision{
		HasRequiredLabel: lo.Some(pr.Labels, cfg.RequiredLabels),
		FoundReviewer:    lo.Some(pr.RequestedReviewers, cfg.RequiredReviewers),
	}
}

// BuildComment renders the advisory comment body
func BuildComment(message string, reviewers []string) string {
	return message + ": " + strings.Join(reviewers, ", ")
}

// FindAdvisoryComment returns the first comment whose body starts with message
func FindAdvisoryComment(comments []models.Comment, message string) (models.Comment, bool) {
	return lo.Find(comments, func(c models.Comment) bool {
		return strings.HasPrefix(c.Body, message)
	})
}

// Option configures a PolicyCheck
type Option func(*PolicyCheck)

// WithDryRun evaluates and reports without touching comments
func WithDryRun(dryRun bool) Option {
	return func(s *PolicyCheck) {
		s.dryRun = dryRun
	}
}

// PolicyCheck enforces the required-reviewers policy on a single PR
type PolicyCheck struct {
	client github.GitHubClient
	logger logrus.FieldLogger
	dryRun bool
}

// NewPolicyCheck creates a new check instance
func NewPolicyCheck(client github.GitHubClient, logger logrus.FieldLogger, opts ...Option) *PolicyCheck {
	s := &PolicyCheck{
		client: client,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run fetches the PR, evaluates the policy and reconciles the advisory comment.
// A policy violation is a failed Outcome, not an error.
func (s *PolicyCheck) Run(ctx context.Context, cfg config.Config, ref models.PullRequestRef) (Outcome, error) {
	cfg, err := validateConfig(cfg)
	if err != nil {
		return Outcome{}, err
	}
	if err := ref.Validate(); err != nil {
		return Outcome{}, &ConfigError{Err: err}
	}

	log := s.logger.WithFields(logrus.Fields{
		"owner": ref.Owner,
		"repo":  ref.Repo,
		"pr":    ref.Number,
	})
	log.Infof("Required Reviewers: %s", strings.Join(cfg.RequiredReviewers, ", "))
	log.Infof("Required Labels: %s", strings.Join(cfg.RequiredLabels, ", "))
	log.Infof("Comment Message: %s", cfg.CommentMessage)

	pr, err := s.client.GetPullRequest(ctx, ref)
	if err != nil {
		return Outcome{}, s.platformError(log, "get pull request", err)
	}
	log.Infof("Pull Request Labels: %s", strings.Join(pr.Labels, ", "))

	decision := Evaluate(cfg, pr)
	log.Infof("Has Required Labels: %t", decision.HasRequiredLabel)
	if decision.HasRequiredLabel {
		log.Infof("Requested Reviewers: %s", strings.Join(pr.RequestedReviewers, ", "))
		log.Infof("Found Reviewer: %t", decision.FoundReviewer)
	}

	comments, err := s.client.ListIssueComments(ctx, ref)
	if err != nil {
		return Outcome{}, s.platformError(log, "list comments", err)
	}
	existing, found := FindAdvisoryComment(comments, cfg.CommentMessage)
	log.Infof("Existing Comment: %s", lo.Ternary(found, "Yes", "No"))

	if decision.Triggered() {
		body := BuildComment(cfg.CommentMessage, cfg.RequiredReviewers)
		log.Infof("Comment: %s", body)

		outcome, err := s.upsertComment(ctx, log, ref, existing, found, body)
		if err != nil {
			return Outcome{}, err
		}
		outcome.Message = ViolationMessage
		return outcome, nil
	}

	return s.removeComment(ctx, log, ref, existing, found)
}

func (s *PolicyCheck) upsertComment(ctx context.Context, log logrus.FieldLogger, ref models.PullRequestRef,
	existing models.Comment, found bool, body string) (Outcome, error) {

	outcome := Outcome{Passed: false, Action: CommentCreated, DryRun: s.dryRun}

	if !found {
		log.Info("Creating a new comment...")
		if s.dryRun {
			return outcome, nil
		}
		comment, err := s.client.CreateComment(ctx, ref, body)
		if err != nil {
			return Outcome{}, s.platformError(log, "create comment", err)
		}
		outcome.CommentID = comment.ID
		return outcome, nil
	}

	log.WithField("comment_id", existing.ID).Info("Updating the existing comment...")
	outcome.Action = CommentUpdated
	outcome.CommentID = existing.ID
	if s.dryRun {
		return outcome, nil
	}
	if _, err := s.client.UpdateComment(ctx, ref, existing.ID, body); err != nil {
		return Outcome{}, s.platformError(log, "update comment", err)
	}
	return outcome, nil
}

func (s *PolicyCheck) removeComment(ctx context.Context, log logrus.FieldLogger, ref models.PullRequestRef,
	existing models.Comment, found bool) (Outcome, error) {

	outcome := Outcome{Passed: true, Action: CommentNone, DryRun: s.dryRun}
	if !found {
		return outcome, nil
	}

	log.WithField("comment_id", existing.ID).Info("Deleting the existing comment...")
	outcome.Action = CommentDeleted
	outcome.CommentID = existing.ID
	if s.dryRun {
		return outcome, nil
	}
	if err := s.client.DeleteComment(ctx, ref, existing.ID); err != nil {
		return Outcome{}, s.platformError(log, "delete comment", err)
	}
	return outcome, nil
}

func (s *PolicyCheck) platformError(log logrus.FieldLogger, op string, err error) error {
	log.WithField("op", op).Error(err.Error())
	return &PlatformError{Op: op, Err: err}
}

// validateConfig makes Run validate configs built without config.New
func validateConfig(cfg config.Config) (config.Config, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return cfg, &ConfigError{Err: config.ErrMissingToken}
	}

	if len(lo.Compact(cfg.RequiredReviewers)) == 0 {
		return cfg, &ConfigError{Err: config.ErrMissingReviewers}
	}

	if len(lo.Compact(cfg.RequiredLabels)) == 0 {
		return cfg, &ConfigError{Err: config.ErrMissingLabels}
	}

	cfg.CommentMessage = lo.CoalesceOrEmpty(cfg.CommentMessage, config.DefaultCommentMessage)
	return cfg, nil
}
