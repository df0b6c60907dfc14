package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/ryo246912/gh-required-reviewers/internal/models"
)

// ErrNoOpenPRs is returned when there is nothing to pick from
var ErrNoOpenPRs = errors.New("no open pull requests found")

// SelectPR shows the open pull requests and returns the chosen number
func SelectPR(prs []models.PullRequestInfo) (int, error) {
	if len(prs) == 0 {
		return 0, ErrNoOpenPRs
	}

	items := make([]string, len(prs))
	for i, pr := range prs {
		items[i] = FormatPRItem(pr)
	}

	prompt := promptui.Select{
		Label: "Select PR to check",
		Items: items,
		Size:  12,
		Searcher: func(input string, index int) bool {
			return strings.Contains(strings.ToLower(items[index]), strings.ToLower(input))
		},
		StartInSearchMode: true,
	}

	idx, _, err := prompt.Run()
	if err != nil {
		return 0, fmt.Errorf("prompt failed: %w", err)
	}
	return prs[idx].Number, nil
}
