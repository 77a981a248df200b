package render

import (
	"fmt"
	"strings"
	"unicode/utf8"

	humanize "github.com/dustin/go-humanize"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/jira-tools/jira-report/internal/model"
)

const maxSummaryWidth = 48

// StyledText applies a lipgloss style to text when colors are enabled.
// When colors are disabled, it returns the plain text unchanged.
func StyledText(text string, style lipgloss.Style) string {
	if ColorsEnabled() {
		return style.Render(text)
	}
	return text
}

// ColorFromName maps model color name strings to lipgloss colors.
func ColorFromName(name string) lipgloss.Color {
	switch name {
	case "red":
		return lipgloss.Color("9")
	case "yellow":
		return lipgloss.Color("11")
	case "blue":
		return lipgloss.Color("12")
	case "green":
		return lipgloss.Color("10")
	case "gray":
		return lipgloss.Color("8")
	case "white":
		return lipgloss.Color("15")
	default:
		return lipgloss.Color("15")
	}
}

// truncate shortens a string to maxLen runes, appending an ellipsis if truncated.
func truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// EmptyState renders a styled empty-state message. When colors are
// enabled the message is rendered in dim gray.
func EmptyState(message string) string {
	if !ColorsEnabled() {
		return message
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(message)
}

// Summary renders fetched issues as a terminal table, in fetch order.
func Summary(issues []model.IssueRecord) string {
	if len(issues) == 0 {
		return EmptyState("No issues assigned to you in that period.")
	}

	if !ColorsEnabled() {
		return plainSummary(issues)
	}

	headers := []string{"Key", "Type", "Status", "Summary", "Assignee", "Created"}

	rows := make([][]string, 0, len(issues))
	statusColors := make([]string, len(issues))
	for i, issue := range issues {
		rows = append(rows, issueToRow(issue))
		statusColors[i] = issue.Status.Color()
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("8"))).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().PaddingLeft(1).PaddingRight(1)

			if row == table.HeaderRow {
				return s.Bold(true).Foreground(lipgloss.Color("15"))
			}

			if row < 0 || row >= len(statusColors) {
				return s
			}

			switch col {
			case 0: // Key
				return s.Foreground(lipgloss.Color("15"))
			case 2: // Status
				return s.Foreground(ColorFromName(statusColors[row]))
			case 3: // Summary
				return s.Bold(true)
			default:
				return s
			}
		})

	return t.Render()
}

func issueToRow(issue model.IssueRecord) []string {
	return []string{
		issue.Key,
		issue.Type,
		string(issue.Status),
		truncate(issue.Summary, maxSummaryWidth),
		issue.Assignee,
		humanize.Time(issue.Created),
	}
}

func plainSummary(issues []model.IssueRecord) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%-10s %-10s %-14s %-48s %-18s %s\n",
		"Key", "Type", "Status", "Summary", "Assignee", "Created")
	fmt.Fprintf(&b, "%s\n", strings.Repeat("-", 110))

	for _, issue := range issues {
		fmt.Fprintf(&b, "%-10s %-10s %-14s %-48s %-18s %s\n",
			issue.Key,
			issue.Type,
			string(issue.Status),
			truncate(issue.Summary, maxSummaryWidth),
			issue.Assignee,
			humanize.Time(issue.Created),
		)
	}

	return b.String()
}
