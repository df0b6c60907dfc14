package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPullRequestRef_Validate(t *testing.T) {
	tests := []struct {
		name        string
		ref         PullRequestRef
		expectError bool
	}{
		{
			name: "valid ref",
			ref:  PullRequestRef{Owner: "owner", Repo: "repo", Number: 1},
		},
		{
			name:        "missing owner",
			ref:         PullRequestRef{Repo: "repo", Number: 1},
			expectError: true,
		},
		{
			name:        "missing repo",
			ref:         PullRequestRef{Owner: "owner", Number: 1},
			expectError: true,
		},
		{
			name:        "zero number",
			ref:         PullRequestRef{Owner: "owner", Repo: "repo"},
			expectError: true,
		},
		{
			name:        "negative number",
			ref:         PullRequestRef{Owner: "owner", Repo: "repo", Number: -3},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ref.Validate()
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestPullRequestRef_String(t *testing.T) {
	ref := PullRequestRef{Owner: "octo", Repo: "hello", Number: 42}
	assert.Equal(t, "octo/hello#42", ref.String())
}
