// Package report turns fetched issue records into the flat rows the
// spreadsheet is built from.
package report

import (
	"time"

	"github.com/jira-tools/jira-report/internal/model"
)

// baseColumns is the report's column schema, in output order.
var baseColumns = []string{
	"Key",
	"Type",
	"Summary",
	"Status",
	"Assignee",
	"Created",
	"Started",
	"Resolved",
	"Time Spent (h)",
	"Link",
}

// pullRequestColumn is appended when PR cross-referencing is enabled.
const pullRequestColumn = "Pull Request"

// Header returns the column names for the header row.
func Header(withPRs bool) []string {
	cols := make([]string, len(baseColumns), len(baseColumns)+1)
	copy(cols, baseColumns)
	if withPRs {
		cols = append(cols, pullRequestColumn)
	}
	return cols
}

// Row is one flattened, tabular representation of an issue: only
// primitive values, ready for serialization. Dates stay typed so the
// writer can apply a date number format instead of stringifying.
type Row struct {
	Key         string
	Type        string
	Summary     string
	Status      string
	Assignee    string
	Created     time.Time
	Started     *time.Time
	Resolved    *time.Time
	Hours       float64
	Link        string
	PullRequest string
}

// Build maps each issue record into one row, preserving order. The
// transformation is pure and deterministic: no filtering, no
// aggregation, identical input yields identical output.
func Build(issues []model.IssueRecord) []Row {
	rows := make([]Row, 0, len(issues))
	for _, issue := range issues {
		rows = append(rows, Row{
			Key:         issue.Key,
			Type:        issue.Type,
			Summary:     issue.Summary,
			Status:      string(issue.Status),
			Assignee:    issue.Assignee,
			Created:     issue.Created,
			Started:     issue.Started,
			Resolved:    issue.Resolved,
			Hours:       issue.TimeSpent.Hours(),
			Link:        issue.Link,
			PullRequest: issue.PullRequest,
		})
	}
	return rows
}
