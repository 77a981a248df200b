package model

import (
	"encoding/json"
	"strings"
	"time"
)

// Status is a Jira workflow status name. Unlike a local tracker the set
// is not closed: every Jira project defines its own workflow, so Status
// carries whatever name the server returned.
type Status string

// Color returns a color name string suitable for terminal rendering,
// keyed off the common Jira status categories.
func (s Status) Color() string {
	switch strings.ToLower(string(s)) {
	case "done", "closed", "resolved", "released":
		return "green"
	case "in progress", "in review", "review":
		return "yellow"
	case "to do", "todo", "open", "backlog":
		return "blue"
	default:
		return "white"
	}
}

// IssueRecord is a read-only projection of one Jira issue, flattened to
// the fields the report needs. Started and Resolved come from the issue
// changelog: Started is the last transition into To Do or In Progress,
// Resolved the transition into Done. Either may be nil when the
// changelog has no such transition.
type IssueRecord struct {
	Key         string
	Type        string
	Summary     string
	Status      Status
	Assignee    string
	Created     time.Time
	Started     *time.Time
	Resolved    *time.Time
	TimeSpent   time.Duration
	Description string
	Link        string
	PullRequest string
}

// issueRecordJSON is the JSON wire format for IssueRecord.
type issueRecordJSON struct {
	Key         string  `json:"key"`
	Type        string  `json:"type"`
	Summary     string  `json:"summary"`
	Status      string  `json:"status"`
	Assignee    string  `json:"assignee"`
	Created     string  `json:"created"`
	Started     *string `json:"started,omitempty"`
	Resolved    *string `json:"resolved,omitempty"`
	TimeSpentS  int64   `json:"time_spent_seconds"`
	Link        string  `json:"link"`
	PullRequest string  `json:"pull_request,omitempty"`
}

// MarshalJSON implements custom JSON serialization for IssueRecord.
// The description is excluded from the JSON envelope; it can run to
// pages and belongs in the spreadsheet and detail view only.
func (i IssueRecord) MarshalJSON() ([]byte, error) {
	j := issueRecordJSON{
		Key:         i.Key,
		Type:        i.Type,
		Summary:     i.Summary,
		Status:      string(i.Status),
		Assignee:    i.Assignee,
		Created:     i.Created.UTC().Format(time.RFC3339),
		TimeSpentS:  int64(i.TimeSpent.Seconds()),
		Link:        i.Link,
		PullRequest: i.PullRequest,
	}
	if i.Started != nil {
		s := i.Started.UTC().Format(time.RFC3339)
		j.Started = &s
	}
	if i.Resolved != nil {
		s := i.Resolved.UTC().Format(time.RFC3339)
		j.Resolved = &s
	}
	return json.Marshal(j)
}
