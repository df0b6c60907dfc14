package event

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ryo246912/gh-required-reviewers/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePayload(t *testing.T, payload string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "event.json")
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o600))
	return path
}

func actionsEnv(eventName, path string) map[string]string {
	return map[string]string{
		"GITHUB_ACTIONS":    "true",
		"GITHUB_REPOSITORY": "owner/repo",
		"GITHUB_EVENT_NAME": eventName,
		"GITHUB_EVENT_PATH": path,
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		eventName   string
		payload     string
		env         map[string]string
		expected    Context
		expectedErr error
	}{
		{
			name:      "pull_request event",
			eventName: EvPullRequest,
			payload:   `{"action": "labeled", "number": 5, "pull_request": {"number": 5}}`,
			expected: Context{
				Host:      "github.com",
				EventName: EvPullRequest,
				Ref:       models.PullRequestRef{Owner: "owner", Repo: "repo", Number: 5},
			},
		},
		{
			name:      "pull_request_target event falls back to top-level number",
			eventName: EvPullRequestTarget,
			payload:   `{"action": "review_requested", "number": 9}`,
			expected: Context{
				Host:      "github.com",
				EventName: EvPullRequestTarget,
				Ref:       models.PullRequestRef{Owner: "owner", Repo: "repo", Number: 9},
			},
		},
		{
			name:      "issue_comment on a pull request",
			eventName: EvIssueComment,
			payload:   `{"action": "created", "issue": {"number": 11, "pull_request": {"url": "https://api.github.com/repos/owner/repo/pulls/11"}}}`,
			expected: Context{
				Host:      "github.com",
				EventName: EvIssueComment,
				Ref:       models.PullRequestRef{Owner: "owner", Repo: "repo", Number: 11},
			},
		},
		{
			name:        "issue_comment on a plain issue",
			eventName:   EvIssueComment,
			payload:     `{"action": "created", "issue": {"number": 11}}`,
			expectedErr: ErrNoPullRequest,
		},
		{
			name:        "push event has no pull request",
			eventName:   "push",
			payload:     `{"ref": "refs/heads/main"}`,
			expectedErr: ErrNoPullRequest,
		},
		{
			name:      "enterprise server host",
			eventName: EvPullRequest,
			payload:   `{"pull_request": {"number": 3}}`,
			env:       map[string]string{"GITHUB_SERVER_URL": "https://github.example.com"},
			expected: Context{
				Host:      "github.example.com",
				EventName: EvPullRequest,
				Ref:       models.PullRequestRef{Owner: "owner", Repo: "repo", Number: 3},
			},
		},
		{
			name:        "missing repository",
			eventName:   EvPullRequest,
			payload:     `{"pull_request": {"number": 3}}`,
			env:         map[string]string{"GITHUB_REPOSITORY": ""},
			expectedErr: ErrNoRepository,
		},
		{
			name:        "not running in actions",
			eventName:   EvPullRequest,
			payload:     `{"pull_request": {"number": 3}}`,
			env:         map[string]string{"GITHUB_ACTIONS": ""},
			expectedErr: ErrNotActions,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			environ := actionsEnv(tt.eventName, writePayload(t, tt.payload))
			for k, v := range tt.env {
				environ[k] = v
			}

			ctx, err := Load(environ)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ctx)
		})
	}
}

func TestLoad_MissingEventPath(t *testing.T) {
	environ := actionsEnv(EvPullRequest, "")

	_, err := Load(environ)

	assert.ErrorIs(t, err, ErrNoPullRequest)
}

func TestLoad_UnreadablePayload(t *testing.T) {
	environ := actionsEnv(EvPullRequest, filepath.Join(t.TempDir(), "missing.json"))

	_, err := Load(environ)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read event payload")
}

func TestParseNumber_InvalidJSON(t *testing.T) {
	_, err := ParseNumber(EvPullRequest, []byte(`{"pull_request": `))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse pull_request payload")
}

func TestIsActions(t *testing.T) {
	assert.True(t, IsActions(map[string]string{"GITHUB_ACTIONS": "true"}))
	assert.False(t, IsActions(map[string]string{"GITHUB_ACTIONS": "false"}))
	assert.False(t, IsActions(map[string]string{}))
}

func TestRepository(t *testing.T) {
	repo, err := Repository(map[string]string{
		"GITHUB_ACTIONS":    "true",
		"GITHUB_REPOSITORY": "owner/repo",
		"GITHUB_SERVER_URL": "https://github.example.com",
	})

	require.NoError(t, err)
	assert.Equal(t, "github.example.com", repo.Host)
	assert.Equal(t, "owner", repo.Owner)
	assert.Equal(t, "repo", repo.Name)

	_, err = Repository(map[string]string{"GITHUB_ACTIONS": "true", "GITHUB_REPOSITORY": "not-a-repo"})
	assert.Error(t, err)
}
