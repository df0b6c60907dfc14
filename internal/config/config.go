package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/samber/lo"
)

// DefaultCommentMessage is used when no comment-message input is given
const DefaultCommentMessage = "Error: Pull request requires at least one of the following reviewers"

// Validation errors. The messages are reported verbatim to the CI run.
var (
	ErrMissingToken     = errors.New("GitHub token not provided")
	ErrMissingReviewers = errors.New("Required reviewers not provided")
	ErrMissingLabels    = errors.New("Required labels not provided")
)

const inputPrefix = "INPUT_"

// Inputs holds the raw action inputs. GitHub Actions exposes `with:` values
// as INPUT_<NAME> with the name upper-cased and hyphens kept.
type Inputs struct {
	GithubToken       string `env:"INPUT_GITHUB-TOKEN"`
	RequiredReviewers string `env:"INPUT_REQUIRED-REVIEWERS"`
	RequiredLabels    string `env:"INPUT_REQUIRED-LABELS"`
	CommentMessage    string `env:"INPUT_COMMENT-MESSAGE"`
}

// Config is the validated configuration of a single check run
type Config struct {
	Token             string
	RequiredReviewers []string
	RequiredLabels    []string
	CommentMessage    string
}

// LoadDotEnv loads variables from .env files without overriding the environment.
// Missing files are skipped.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}

	existing := lo.Filter(paths, func(p string, _ int) bool {
		_, err := os.Stat(p)
		return err == nil
	})
	if len(existing) == 0 {
		return nil
	}

	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("godotenv.Load: %w", err)
	}
	return nil
}

// ReadInputs parses action inputs from environ. A nil map reads the process environment.
func ReadInputs(environ map[string]string) (Inputs, error) {
	if environ == nil {
		environ = env.ToMap(os.Environ())
	}

	var inputs Inputs
	if err := env.ParseWithOptions(&inputs, env.Options{Environment: withHyphenatedInputs(environ)}); err != nil {
		return Inputs{}, fmt.Errorf("env.Parse: %w", err)
	}
	return inputs, nil
}

// withHyphenatedInputs maps INPUT_GITHUB_TOKEN style keys onto INPUT_GITHUB-TOKEN.
// Shells and .env files cannot declare names containing hyphens.
func withHyphenatedInputs(environ map[string]string) map[string]string {
	out := make(map[string]string, len(environ))
	for k, v := range environ {
		out[k] = v
	}
	for k, v := range environ {
		name, ok := strings.CutPrefix(k, inputPrefix)
		if !ok || !strings.Contains(name, "_") {
			continue
		}
		hyphenated := inputPrefix + strings.ReplaceAll(name, "_", "-")
		if _, exists := environ[hyphenated]; !exists {
			out[hyphenated] = v
		}
	}
	return out
}

// Merge returns in with every non-empty field of override applied on top
func (in Inputs) Merge(override Inputs) Inputs {
	in.GithubToken = lo.CoalesceOrEmpty(override.GithubToken, in.GithubToken)
	in.RequiredReviewers = lo.CoalesceOrEmpty(override.RequiredReviewers, in.RequiredReviewers)
	in.RequiredLabels = lo.CoalesceOrEmpty(override.RequiredLabels, in.RequiredLabels)
	in.CommentMessage = lo.CoalesceOrEmpty(override.CommentMessage, in.CommentMessage)
	return in
}

// New validates raw inputs. Checks run in input order so the first missing
// input is the one reported.
func New(in Inputs) (Config, error) {
	if strings.TrimSpace(in.GithubToken) == "" {
		return Config{}, ErrMissingToken
	}
	if strings.TrimSpace(in.RequiredReviewers) == "" {
		return Config{}, ErrMissingReviewers
	}
	if strings.TrimSpace(in.RequiredLabels) == "" {
		return Config{}, ErrMissingLabels
	}

	return Config{
		Token:             in.GithubToken,
		RequiredReviewers: ParseList(in.RequiredReviewers),
		RequiredLabels:    ParseList(in.RequiredLabels),
		CommentMessage:    lo.CoalesceOrEmpty(in.CommentMessage, DefaultCommentMessage),
	}, nil
}

// Load reads inputs from environ, applies overrides and validates the result
func Load(environ map[string]string, overrides Inputs) (Config, error) {
	inputs, err := ReadInputs(environ)
	if err != nil {
		return Config{}, err
	}
	return New(inputs.Merge(overrides))
}

// ParseList splits a comma-separated input and trims each entry.
// Order is kept and duplicates are not removed.
func ParseList(s string) []string {
	return lo.Map(strings.Split(s, ","), func(item string, _ int) string {
		return strings.TrimSpace(item)
	})
}
