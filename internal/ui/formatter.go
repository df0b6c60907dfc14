package ui

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/ryo246912/gh-required-reviewers/internal/models"
)

const (
	titleWidth  = 60
	userWidth   = 15
	branchWidth = 30
)

func PadRight(str string, width int) string {
	w := runewidth.StringWidth(str)
	if w < width {
		return str + strings.Repeat(" ", width-w)
	}
	return str
}

// FormatPRItem renders one picker row with display-width aware columns
func FormatPRItem(pr models.PullRequestInfo) string {
	title := runewidth.Truncate(pr.Title, titleWidth, "...")
	if pr.Draft {
		title = runewidth.Truncate("[Draft] "+pr.Title, titleWidth, "...")
	}
	return fmt.Sprintf(
		"#%s %s %s %s %s",
		PadRight(fmt.Sprintf("%d", pr.Number), 6),
		PadRight(title, titleWidth),
		PadRight(pr.User, userWidth),
		PadRight(runewidth.Truncate(pr.HeadRefName, branchWidth, "..."), branchWidth),
		pr.UpdatedAt,
	)
}
