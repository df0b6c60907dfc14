package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ryo246912/gh-required-reviewers/internal/config"
	"github.com/ryo246912/gh-required-reviewers/internal/models"
	"github.com/ryo246912/gh-required-reviewers/internal/service"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReport(t *testing.T) {
	tests := []struct {
		name           string
		inActions      bool
		outcome        service.Outcome
		runErr         error
		expectErr      bool
		expectedStdout string
		expectedOutput string
		expectedKind   string
	}{
		{
			name:           "passed",
			outcome:        service.Outcome{Passed: true, Action: service.CommentDeleted},
			expectedOutput: "result=passed\ncomment-action=deleted\n",
		},
		{
			name:           "policy violation in actions",
			inActions:      true,
			outcome:        service.Outcome{Message: service.ViolationMessage, Action: service.CommentCreated},
			expectErr:      true,
			expectedStdout: "::error::Reviewers check failed.\n",
			expectedOutput: "result=failed\ncomment-action=created\n",
		},
		{
			name:           "config error in actions",
			inActions:      true,
			runErr:         &service.ConfigError{Err: config.ErrMissingLabels},
			expectErr:      true,
			expectedStdout: "::error::Required labels not provided\n",
			expectedOutput: "result=failed\ncomment-action=none\n",
		},
		{
			name:           "platform error locally",
			runErr:         &service.PlatformError{Op: "create comment", Err: errors.New("HTTP 403: Resource not accessible by integration")},
			expectErr:      true,
			expectedOutput: "result=failed\ncomment-action=none\n",
			expectedKind:   "platform",
		},
		{
			name:           "policy violation locally",
			outcome:        service.Outcome{Message: service.ViolationMessage, Action: service.CommentUpdated},
			expectErr:      true,
			expectedOutput: "result=failed\ncomment-action=updated\n",
			expectedKind:   "policy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outputPath := filepath.Join(t.TempDir(), "output")
			t.Setenv("GITHUB_OUTPUT", outputPath)
			logger, hook := test.NewNullLogger()
			var stdout bytes.Buffer

			err := report(&stdout, logger, tt.inActions, tt.outcome, tt.runErr)

			if tt.expectErr {
				assert.ErrorIs(t, err, errReported)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.expectedStdout, stdout.String())

			content, readErr := os.ReadFile(outputPath)
			require.NoError(t, readErr)
			assert.Equal(t, tt.expectedOutput, string(content))

			if tt.expectedKind != "" {
				entry := hook.LastEntry()
				require.NotNil(t, entry)
				assert.Equal(t, logrus.ErrorLevel, entry.Level)
				assert.Equal(t, tt.expectedKind, entry.Data["kind"])
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	logger, err := newLogger("debug", "json")
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)

	logger, err = newLogger("warn", "text")
	require.NoError(t, err)
	assert.Equal(t, logrus.WarnLevel, logger.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, logger.Formatter)

	_, err = newLogger("loud", "text")
	assert.Error(t, err)

	_, err = newLogger("info", "xml")
	assert.Error(t, err)
}

func TestResolveRepository(t *testing.T) {
	payloadPath := filepath.Join(t.TempDir(), "event.json")
	require.NoError(t, os.WriteFile(payloadPath, []byte(`{"pull_request": {"number": 8}}`), 0o600))
	actionsEnv := map[string]string{
		"GITHUB_ACTIONS":    "true",
		"GITHUB_REPOSITORY": "owner/repo",
		"GITHUB_EVENT_NAME": "pull_request",
		"GITHUB_EVENT_PATH": payloadPath,
	}

	t.Run("repo flag", func(t *testing.T) {
		tgt, eventRef, err := resolveRepository(&options{repo: "ghe.example.com/acme/api"}, "", actionsEnv)
		require.NoError(t, err)
		assert.Nil(t, eventRef)
		assert.Equal(t, "ghe.example.com", tgt.repo.Host)
		assert.Equal(t, "acme", tgt.repo.Owner)
		assert.Equal(t, "api", tgt.repo.Name)
	})

	t.Run("invalid repo flag", func(t *testing.T) {
		_, _, err := resolveRepository(&options{repo: "nope"}, "", nil)
		assert.ErrorContains(t, err, "invalid --repo")
	})

	t.Run("actions event", func(t *testing.T) {
		tgt, eventRef, err := resolveRepository(&options{}, "", actionsEnv)
		require.NoError(t, err)
		require.NotNil(t, eventRef)
		assert.Equal(t, models.PullRequestRef{Owner: "owner", Repo: "repo", Number: 8}, *eventRef)
		assert.Equal(t, "github.com", tgt.repo.Host)
	})

	t.Run("actions with explicit PR", func(t *testing.T) {
		tgt, eventRef, err := resolveRepository(&options{}, "12", actionsEnv)
		require.NoError(t, err)
		assert.Nil(t, eventRef)
		assert.Equal(t, "owner", tgt.repo.Owner)
	})
}
