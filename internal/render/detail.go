package render

import (
	"fmt"
	"strings"

	humanize "github.com/dustin/go-humanize"

	"github.com/charmbracelet/lipgloss"

	"github.com/jira-tools/jira-report/internal/model"
)

// Detail renders a full single-issue view: header, metadata, and the
// description rendered as markdown.
func Detail(issue model.IssueRecord) string {
	if !ColorsEnabled() {
		return plainDetail(issue)
	}

	var sections []string

	keyStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	summaryStyle := lipgloss.NewStyle().Bold(true)
	statusStyle := lipgloss.NewStyle().
		Foreground(ColorFromName(issue.Status.Color())).
		Bold(true)

	sections = append(sections, fmt.Sprintf("%s  %s\n%s",
		keyStyle.Render(issue.Key),
		summaryStyle.Render(issue.Summary),
		statusStyle.Render(string(issue.Status)),
	))

	sections = append(sections, metadata(issue, func(label, value string) string {
		dim := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
		return fmt.Sprintf("%s %s", dim.Render(label), value)
	}))

	if issue.Description != "" {
		rendered, err := Markdown(issue.Description)
		if err != nil {
			rendered = issue.Description
		}
		sections = append(sections, rendered)
	}

	return strings.Join(sections, "\n\n")
}

func plainDetail(issue model.IssueRecord) string {
	var sections []string

	sections = append(sections, fmt.Sprintf("%s  %s\n%s", issue.Key, issue.Summary, issue.Status))
	sections = append(sections, metadata(issue, func(label, value string) string {
		return fmt.Sprintf("%s %s", label, value)
	}))
	if issue.Description != "" {
		sections = append(sections, issue.Description)
	}

	return strings.Join(sections, "\n\n")
}

// metadata renders the issue's field lines through a label formatter.
func metadata(issue model.IssueRecord, line func(label, value string) string) string {
	var lines []string

	if issue.Type != "" {
		lines = append(lines, line("Type:", issue.Type))
	}
	if issue.Assignee != "" {
		lines = append(lines, line("Assignee:", issue.Assignee))
	}
	lines = append(lines, line("Created:", humanize.Time(issue.Created)))
	if issue.Started != nil {
		lines = append(lines, line("Started:", humanize.Time(*issue.Started)))
	}
	if issue.Resolved != nil {
		lines = append(lines, line("Resolved:", humanize.Time(*issue.Resolved)))
	}
	if issue.TimeSpent > 0 {
		lines = append(lines, line("Time spent:", fmt.Sprintf("%.1f h", issue.TimeSpent.Hours())))
	}
	if issue.PullRequest != "" {
		lines = append(lines, line("Pull request:", issue.PullRequest))
	}
	lines = append(lines, line("Link:", issue.Link))

	return strings.Join(lines, "\n")
}
