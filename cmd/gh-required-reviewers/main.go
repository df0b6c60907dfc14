package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/caarlos0/env/v10"
	"github.com/cli/go-gh/v2/pkg/auth"
	"github.com/cli/go-gh/v2/pkg/repository"
	"github.com/cli/go-gh/v2/pkg/term"
	"github.com/ryo246912/gh-required-reviewers/internal/actions"
	"github.com/ryo246912/gh-required-reviewers/internal/config"
	"github.com/ryo246912/gh-required-reviewers/internal/event"
	"github.com/ryo246912/gh-required-reviewers/internal/github"
	"github.com/ryo246912/gh-required-reviewers/internal/models"
	"github.com/ryo246912/gh-required-reviewers/internal/service"
	"github.com/ryo246912/gh-required-reviewers/internal/ui"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// errReported marks a failure that has already been written out
var errReported = errors.New("check failed")

// RepositoryAdapter adapts repository.Repository to our interface
type RepositoryAdapter struct {
	repo *repository.Repository
}

func (r *RepositoryAdapter) GetOwner() string {
	return r.repo.Owner
}

func (r *RepositoryAdapter) GetName() string {
	return r.repo.Name
}

type options struct {
	token     string
	reviewers string
	labels    string
	message   string
	repo      string
	pr        string
	head      string
	logLevel  string
	logFormat string
	dryRun    bool
	useGHAuth bool
}

func (o *options) inputs() config.Inputs {
	return config.Inputs{
		GithubToken:       o.token,
		RequiredReviewers: o.reviewers,
		RequiredLabels:    o.labels,
		CommentMessage:    o.message,
	}
}

// target is the repository and pull request a run checks
type target struct {
	repo repository.Repository
	ref  models.PullRequestRef
}

func runCommand(ctx context.Context, opts *options, args []string, stdout io.Writer) error {
	logger, err := newLogger(opts.logLevel, opts.logFormat)
	if err != nil {
		return err
	}

	if err := config.LoadDotEnv(); err != nil {
		logger.WithError(err).Warn("Failed to load .env")
	}
	environ := env.ToMap(os.Environ())
	inActions := event.IsActions(environ)

	prArg := opts.pr
	if prArg == "" && len(args) > 0 {
		prArg = args[0]
	}

	tgt, eventRef, err := resolveRepository(opts, prArg, environ)
	if err != nil {
		return report(stdout, logger, inActions, service.Outcome{}, err)
	}

	overrides := opts.inputs()
	if opts.useGHAuth && overrides.GithubToken == "" {
		overrides.GithubToken, _ = auth.TokenForHost(tgt.repo.Host)
	}
	cfg, err := config.Load(environ, overrides)
	if err != nil {
		return report(stdout, logger, inActions, service.Outcome{}, &service.ConfigError{Err: err})
	}

	client, err := github.NewClient(github.Options{Host: tgt.repo.Host, Token: cfg.Token})
	if err != nil {
		return report(stdout, logger, inActions, service.Outcome{}, err)
	}

	if eventRef != nil && prArg == "" && opts.head == "" {
		tgt.ref = *eventRef
	} else {
		resolver := service.NewPRResolver(client, &RepositoryAdapter{repo: &tgt.repo}, &ui.DefaultPrompter{},
			!inActions && term.IsTerminal(os.Stdin))
		tgt.ref, err = resolver.Resolve(ctx, prArg, opts.head)
		if err != nil {
			return report(stdout, logger, inActions, service.Outcome{}, err)
		}
	}

	check := service.NewPolicyCheck(client, logger, service.WithDryRun(opts.dryRun))
	outcome, err := check.Run(ctx, cfg, tgt.ref)
	return report(stdout, logger, inActions, outcome, err)
}

// resolveRepository picks the repository from --repo, the Actions run context
// or the current git checkout. The event ref is set only when it came from Actions.
func resolveRepository(opts *options, prArg string, environ map[string]string) (target, *models.PullRequestRef, error) {
	if opts.repo != "" {
		repo, err := repository.Parse(opts.repo)
		if err != nil {
			return target{}, nil, fmt.Errorf("invalid --repo: %w", err)
		}
		return target{repo: repo}, nil, nil
	}

	if event.IsActions(environ) {
		if prArg != "" || opts.head != "" {
			repo, err := event.Repository(environ)
			if err != nil {
				return target{}, nil, err
			}
			return target{repo: repo}, nil, nil
		}
		runCtx, err := event.Load(environ)
		if err != nil {
			return target{}, nil, fmt.Errorf("failed to read run context: %w", err)
		}
		repo := repository.Repository{Host: runCtx.Host, Owner: runCtx.Ref.Owner, Name: runCtx.Ref.Repo}
		return target{repo: repo}, &runCtx.Ref, nil
	}

	repo, err := repository.Current()
	if err != nil {
		return target{}, nil, fmt.Errorf("failed to get current repository: %w", err)
	}
	return target{repo: repo}, nil, nil
}

// report writes the result and step outputs. A non-nil return means exit code 1.
func report(stdout io.Writer, logger logrus.FieldLogger, inActions bool, outcome service.Outcome, runErr error) error {
	result := lo.Ternary(runErr == nil && outcome.Passed, "passed", "failed")
	action := lo.CoalesceOrEmpty(string(outcome.Action), string(service.CommentNone))
	for _, output := range [][2]string{{"result", result}, {"comment-action", action}} {
		if err := actions.SetOutput(output[0], output[1]); err != nil {
			logger.WithError(err).Warn("Failed to set output")
		}
	}

	if runErr == nil && outcome.Passed {
		logger.WithField("comment_action", action).Info("Reviewers check passed.")
		return nil
	}

	msg := outcome.Message
	if runErr != nil {
		msg = runErr.Error()
	}

	if inActions {
		if err := actions.Error(stdout, msg); err != nil {
			logger.WithError(err).Error("Failed to write annotation")
		}
	} else {
		kind := lo.Ternary(runErr == nil, "policy", service.Kind(runErr).String())
		logger.WithField("kind", kind).Error(msg)
	}
	return errReported
}

func newLogger(level, format string) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level: %w", err)
	}
	logger.SetLevel(lvl)

	switch format {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "text", "":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return nil, fmt.Errorf("invalid --log-format %q: want text or json", format)
	}
	return logger, nil
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "required-reviewers [PR_NUMBER]",
		Short: "Fail a pull request that has a required label but no required reviewer",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommand(cmd.Context(), opts, args, cmd.OutOrStdout())
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.token, "github-token", "", "GitHub token (default $INPUT_GITHUB-TOKEN)")
	flags.StringVar(&opts.reviewers, "required-reviewers", "", "Comma-separated required reviewers")
	flags.StringVar(&opts.labels, "required-labels", "", "Comma-separated labels that require a reviewer")
	flags.StringVar(&opts.message, "comment-message", "", "Comment prefix (default \""+config.DefaultCommentMessage+"\")")
	flags.StringVarP(&opts.repo, "repo", "R", "", "Repository in [HOST/]OWNER/REPO format")
	flags.StringVar(&opts.pr, "pr", "", "Pull request number")
	flags.StringVar(&opts.head, "head", "", "Find the open pull request for this branch")
	flags.StringVar(&opts.logLevel, "log-level", "info", "Log level")
	flags.StringVar(&opts.logFormat, "log-format", "text", "Log format: text or json")
	flags.BoolVar(&opts.dryRun, "dry-run", false, "Evaluate without creating, updating or deleting comments")
	flags.BoolVar(&opts.useGHAuth, "use-gh-auth", false, "Use the token stored by gh when no token is given on the command line")

	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
