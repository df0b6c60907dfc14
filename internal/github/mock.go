package github

import (
	"context"
	"fmt"
	"strings"

	"github.com/ryo246912/gh-required-reviewers/internal/models"
)

// MockClient implements GitHubClient and PullRequestFinder for testing.
// Comments behaves like the remote store: create, update and delete mutate it.
type MockClient struct {
	// Control test behavior
	PullRequest      models.PullRequest
	PullRequestError error
	Comments         []models.Comment
	ListError        error
	CreateError      error
	UpdateError      error
	DeleteError      error
	OpenPRs          []models.PullRequestInfo
	OpenPRsError     error
	HeadPRNumber     int
	HeadError        error

	// Track method calls
	GetPullRequestCalls    int
	ListIssueCommentsCalls int
	CreateCommentCalls     int
	UpdateCommentCalls     int
	DeleteCommentCalls     int
	GetOpenPRsCalled       bool
	FindPRByHeadCalled     bool

	// Store call arguments for verification
	LastRef       models.PullRequestRef
	LastCommentID int64
	LastBody      string
	LastHead      string

	nextID int64
}

// GetPullRequest mocks the pull request fetch
func (m *MockClient) GetPullRequest(ctx context.Context, ref models.PullRequestRef) (models.PullRequest, error) {
	m.GetPullRequestCalls++
	m.LastRef = ref
	if m.PullRequestError != nil {
		return models.PullRequest{}, m.PullRequestError
	}
	pr := m.PullRequest
	pr.Ref = ref
	return pr, nil
}

// ListIssueComments mocks the comment listing
func (m *MockClient) ListIssueComments(ctx context.Context, ref models.PullRequestRef) ([]models.Comment, error) {
	m.ListIssueCommentsCalls++
	m.LastRef = ref
	if m.ListError != nil {
		return nil, m.ListError
	}
	comments := make([]models.Comment, len(m.Comments))
	copy(comments, m.Comments)
	return comments, nil
}

// CreateComment mocks comment creation
func (m *MockClient) CreateComment(ctx context.Context, ref models.PullRequestRef, body string) (models.Comment, error) {
	m.CreateCommentCalls++
	m.LastRef = ref
	m.LastBody = body
	if m.CreateError != nil {
		return models.Comment{}, m.CreateError
	}
	m.nextID++
	comment := models.Comment{ID: 1000 + m.nextID, Body: body, User: models.User{Login: "github-actions[bot]", Type: "Bot"}}
	m.Comments = append(m.Comments, comment)
	return comment, nil
}

// UpdateComment mocks comment update
func (m *MockClient) UpdateComment(ctx context.Context, ref models.PullRequestRef, id int64, body string) (models.Comment, error) {
	m.UpdateCommentCalls++
	m.LastRef = ref
	m.LastCommentID = id
	m.LastBody = body
	if m.UpdateError != nil {
		return models.Comment{}, m.UpdateError
	}
	for i := range m.Comments {
		if m.Comments[i].ID == id {
			m.Comments[i].Body = body
			return m.Comments[i], nil
		}
	}
	return models.Comment{}, NewAPIError(fmt.Sprintf("comment %d not found", id))
}

// DeleteComment mocks comment deletion
func (m *MockClient) DeleteComment(ctx context.Context, ref models.PullRequestRef, id int64) error {
	m.DeleteCommentCalls++
	m.LastRef = ref
	m.LastCommentID = id
	if m.DeleteError != nil {
		return m.DeleteError
	}
	for i := range m.Comments {
		if m.Comments[i].ID == id {
			m.Comments = append(m.Comments[:i], m.Comments[i+1:]...)
			return nil
		}
	}
	return NewAPIError(fmt.Sprintf("comment %d not found", id))
}

// GetOpenPRs mocks the GraphQL listing
func (m *MockClient) GetOpenPRs(ctx context.Context, owner, repo string) ([]models.PullRequestInfo, error) {
	m.GetOpenPRsCalled = true
	m.LastRef = models.PullRequestRef{Owner: owner, Repo: repo}
	return m.OpenPRs, m.OpenPRsError
}

// FindPRByHead mocks the GraphQL head lookup
func (m *MockClient) FindPRByHead(ctx context.Context, owner, repo, head string) (int, error) {
	m.FindPRByHeadCalled = true
	m.LastRef = models.PullRequestRef{Owner: owner, Repo: repo}
	m.LastHead = head
	return m.HeadPRNumber, m.HeadError
}

// APICalls returns the total number of platform calls made
func (m *MockClient) APICalls() int {
	return m.GetPullRequestCalls + m.ListIssueCommentsCalls +
		m.CreateCommentCalls + m.UpdateCommentCalls + m.DeleteCommentCalls
}

// MockRepository implements repository information for testing
type MockRepository struct {
	Owner string
	Name  string
}

func (m *MockRepository) GetOwner() string {
	return m.Owner
}

func (m *MockRepository) GetName() string {
	return m.Name
}

// Helper functions for creating test data
func CreateTestPRs(count int) []models.PullRequestInfo {
	prs := make([]models.PullRequestInfo, count)
	for i := 0; i < count; i++ {
		prs[i] = models.PullRequestInfo{
			Number:      i + 1,
			Title:       fmt.Sprintf("Test PR #%d", i+1),
			User:        fmt.Sprintf("user%d", i+1),
			HeadRefName: fmt.Sprintf("feature/%d", i+1),
			Draft:       i%2 == 0, // Alternate between draft and ready
			UpdatedAt:   "2023-01-01T12:00:00Z",
		}
	}
	return prs
}

func CreateTestComments(bodies ...string) []models.Comment {
	comments := make([]models.Comment, len(bodies))
	for i, body := range bodies {
		comments[i] = models.Comment{
			ID:   int64(i + 1),
			Body: body,
			User: models.User{Login: fmt.Sprintf("user%d", i+1), Type: "User"},
		}
	}
	return comments
}

// Error helpers for testing error conditions
func NewAPIError(message string) error {
	return fmt.Errorf("API error: %s", message)
}

// CommentsWithPrefix counts stored comments starting with prefix
func (m *MockClient) CommentsWithPrefix(prefix string) int {
	count := 0
	for _, c := range m.Comments {
		if strings.HasPrefix(c.Body, prefix) {
			count++
		}
	}
	return count
}
