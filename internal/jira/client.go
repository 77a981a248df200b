// Package jira wraps the go-jira client behind the narrow surface the
// report needs: one JQL search per run, a single-issue lookup for the
// detail view, and a credentials check.
package jira

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	gojira "github.com/andygrunwald/go-jira"

	"github.com/jira-tools/jira-report/internal/config"
	"github.com/jira-tools/jira-report/internal/model"
)

// searchPageSize is the page size requested from the search endpoint.
// Jira Cloud caps search pages at 100 regardless of what is asked for.
const searchPageSize = 100

// Failure kinds surfaced to the CLI. A run aborts on the first of any of
// these; there is no retry policy beyond what the HTTP client provides.
var (
	ErrAuth     = errors.New("jira: credentials rejected")
	ErrNetwork  = errors.New("jira: request could not be completed")
	ErrServer   = errors.New("jira: server returned an error")
	ErrNotFound = errors.New("jira: issue not found")
)

// searcher is the slice of go-jira's issue service used by FetchRange.
// Tests substitute a fake so no network access is needed.
type searcher interface {
	Search(jql string, options *gojira.SearchOptions) ([]gojira.Issue, *gojira.Response, error)
}

// issueGetter is the slice of go-jira's issue service used by FetchIssue.
type issueGetter interface {
	Get(issueID string, options *gojira.GetQueryOptions) (*gojira.Issue, *gojira.Response, error)
}

// selfGetter is the slice of go-jira's user service used by Myself.
type selfGetter interface {
	GetSelf() (*gojira.User, *gojira.Response, error)
}

// Client fetches issues for the configured user from one Jira server.
type Client struct {
	searcher  searcher
	getter    issueGetter
	self      selfGetter
	serverURL string
}

// NewClient builds a Client authenticating with basic auth (username +
// API token), the way Atlassian Cloud expects.
func NewClient(cfg *config.Config) (*Client, error) {
	tp := gojira.BasicAuthTransport{
		Username: cfg.Username,
		Password: cfg.APIToken,
	}
	c, err := gojira.NewClient(tp.Client(), cfg.ServerURL)
	if err != nil {
		return nil, fmt.Errorf("creating jira client: %w", err)
	}
	return &Client{
		searcher:  c.Issue,
		getter:    c.Issue,
		self:      c.User,
		serverURL: cfg.ServerURL,
	}, nil
}

// JQL returns the query for issues assigned to the authenticated user at
// any point inside the range, oldest first.
func JQL(r model.DateRange) string {
	const day = "2006/01/02"
	return fmt.Sprintf(`assignee was currentUser() DURING (%q, %q) ORDER BY created ASC`,
		r.Start.Format(day), r.End.Format(day))
}

// FetchRange runs the range query and returns one IssueRecord per issue,
// in the order the server returned them. The changelog is expanded so
// started/resolved dates can be derived. Pagination continues until the
// server-reported total is exhausted.
func (c *Client) FetchRange(r model.DateRange) ([]model.IssueRecord, error) {
	jql := JQL(r)

	var records []model.IssueRecord
	startAt := 0
	for {
		opts := &gojira.SearchOptions{
			StartAt:    startAt,
			MaxResults: searchPageSize,
			Expand:     "changelog",
		}
		batch, resp, err := c.searcher.Search(jql, opts)
		if err != nil {
			return nil, classify(resp, err)
		}
		for _, issue := range batch {
			records = append(records, c.toRecord(issue))
		}
		if len(batch) == 0 {
			break
		}
		startAt += len(batch)
		if resp == nil || startAt >= resp.Total {
			break
		}
	}
	return records, nil
}

// FetchIssue returns the record for a single issue key.
func (c *Client) FetchIssue(key string) (model.IssueRecord, error) {
	issue, resp, err := c.getter.Get(key, &gojira.GetQueryOptions{Expand: "changelog"})
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return model.IssueRecord{}, fmt.Errorf("%q: %w", key, ErrNotFound)
		}
		return model.IssueRecord{}, classify(resp, err)
	}
	return c.toRecord(*issue), nil
}

// Myself verifies the configured credentials against the myself endpoint
// and returns the authenticated user's display name and email.
func (c *Client) Myself() (name, email string, err error) {
	u, resp, err := c.self.GetSelf()
	if err != nil {
		return "", "", classify(resp, err)
	}
	return u.DisplayName, u.EmailAddress, nil
}

// toRecord flattens a Jira issue into the report projection.
func (c *Client) toRecord(issue gojira.Issue) model.IssueRecord {
	rec := model.IssueRecord{
		Key:       issue.Key,
		Summary:   issue.Fields.Summary,
		Type:      issue.Fields.Type.Name,
		Created:   time.Time(issue.Fields.Created),
		TimeSpent: time.Duration(issue.Fields.TimeSpent) * time.Second,
		Link:      fmt.Sprintf("%s/browse/%s", c.serverURL, issue.Key),
	}
	if issue.Fields.Description != "" {
		rec.Description = issue.Fields.Description
	}
	if issue.Fields.Status != nil {
		rec.Status = model.Status(issue.Fields.Status.Name)
	}
	if issue.Fields.Assignee != nil {
		rec.Assignee = issue.Fields.Assignee.DisplayName
	}
	rec.Started, rec.Resolved = changelogDates(issue.Changelog)
	// Prefer the resolution date field when the changelog never recorded
	// a Done transition.
	if rec.Resolved == nil {
		if rd := time.Time(issue.Fields.Resolutiondate); !rd.IsZero() {
			rec.Resolved = &rd
		}
	}
	return rec
}

// changelogDates walks the issue changelog and derives when work started
// and when the issue was done. The last transition into To Do or In
// Progress wins as the start; the last transition into Done wins as the
// resolution.
func changelogDates(log *gojira.Changelog) (started, resolved *time.Time) {
	if log == nil {
		return nil, nil
	}
	for _, history := range log.Histories {
		at, err := history.CreatedTime()
		if err != nil {
			continue
		}
		for _, item := range history.Items {
			if item.Field != "status" {
				continue
			}
			switch item.ToString {
			case "Done":
				t := at
				resolved = &t
			case "To Do", "In Progress":
				t := at
				started = &t
			}
		}
	}
	return started, resolved
}

// classify maps a failed API call onto one of the package error kinds,
// preserving the underlying error text.
func classify(resp *gojira.Response, err error) error {
	if resp == nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w (status %d)", ErrAuth, resp.StatusCode)
	default:
		return fmt.Errorf("%w (status %d): %v", ErrServer, resp.StatusCode, err)
	}
}
