// Package github fetches the user's merged pull requests so report rows
// can be cross-referenced with the branch that delivered them. The whole
// package is optional at runtime: it only runs with --with-prs and a
// configured GitHub repository.
package github

import (
	"context"
	"fmt"
	"strings"
	"time"

	gh "github.com/google/go-github/v61/github"

	"github.com/jira-tools/jira-report/internal/config"
	"github.com/jira-tools/jira-report/internal/model"
)

const listPageSize = 100

// PullRequest is the projection of a GitHub pull request the report
// matching needs.
type PullRequest struct {
	Number    int
	Title     string
	Body      string
	Branch    string
	Author    string
	URL       string
	CreatedAt time.Time
	ClosedAt  *time.Time
}

// lister is the slice of go-github's pull request service used here,
// substitutable in tests.
type lister interface {
	List(ctx context.Context, owner, repo string, opts *gh.PullRequestListOptions) ([]*gh.PullRequest, *gh.Response, error)
}

// Client lists closed pull requests for one repository.
type Client struct {
	pulls lister
	owner string
	repo  string
	user  string
}

// NewClient builds a Client from the GITHUB_* configuration. The repo
// setting must be in "owner/name" form.
func NewClient(cfg *config.Config) (*Client, error) {
	owner, repo, ok := strings.Cut(cfg.GitHubRepo, "/")
	if !ok || owner == "" || repo == "" {
		return nil, fmt.Errorf("invalid GITHUB_REPO %q: expected owner/name", cfg.GitHubRepo)
	}
	c := gh.NewClient(nil).WithAuthToken(cfg.GitHubToken)
	return &Client{
		pulls: c.PullRequests,
		owner: owner,
		repo:  repo,
		user:  cfg.GitHubUsername,
	}, nil
}

// ClosedInRange returns the configured user's closed pull requests
// created inside the range, newest first. Listing stops at the first
// page that has fallen entirely before the range start, which the
// created-descending sort makes safe.
func (c *Client) ClosedInRange(ctx context.Context, r model.DateRange) ([]PullRequest, error) {
	var out []PullRequest

	opts := &gh.PullRequestListOptions{
		State:       "closed",
		Sort:        "created",
		Direction:   "desc",
		ListOptions: gh.ListOptions{PerPage: listPageSize},
	}
	// End is a date; anything created later that same day still counts.
	rangeEnd := r.End.AddDate(0, 0, 1)

	for {
		prs, resp, err := c.pulls.List(ctx, c.owner, c.repo, opts)
		if err != nil {
			return nil, fmt.Errorf("listing pull requests for %s/%s: %w", c.owner, c.repo, err)
		}

		pageExhausted := false
		for _, pr := range prs {
			created := pr.GetCreatedAt().Time
			if created.Before(r.Start) {
				pageExhausted = true
				continue
			}
			if !created.Before(rangeEnd) {
				continue
			}
			if pr.GetUser().GetLogin() != c.user {
				continue
			}
			p := PullRequest{
				Number:    pr.GetNumber(),
				Title:     pr.GetTitle(),
				Body:      pr.GetBody(),
				Branch:    pr.GetHead().GetRef(),
				Author:    pr.GetUser().GetLogin(),
				URL:       pr.GetHTMLURL(),
				CreatedAt: created,
			}
			if closed := pr.GetClosedAt(); !closed.Time.IsZero() {
				t := closed.Time
				p.ClosedAt = &t
			}
			out = append(out, p)
		}

		if pageExhausted || resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return out, nil
}

// keyVariants returns the spellings of an issue key that show up in
// branch names and PR titles in practice: the key itself, the dash
// dropped, the dash swapped for an underscore, and the bare number.
func keyVariants(key string) []string {
	k := strings.ToLower(key)
	variants := []string{k}
	if project, num, ok := strings.Cut(k, "-"); ok && project != "" && num != "" {
		variants = append(variants,
			project+num,
			project+"_"+num,
			num,
		)
	}
	return variants
}

// Match finds the pull request that delivered the given issue, testing
// key variants against each PR's title, branch, and body in order of
// specificity. Matching is deterministic: the first variant hit on the
// first PR in list order wins, and no fuzzy fallback is attempted.
func Match(issue model.IssueRecord, prs []PullRequest) *PullRequest {
	for _, variant := range keyVariants(issue.Key) {
		for i := range prs {
			pr := &prs[i]
			haystack := strings.ToLower(pr.Title + " " + pr.Branch + " " + pr.Body)
			if strings.Contains(haystack, variant) {
				return pr
			}
		}
	}
	return nil
}

// Label returns the short human form used in the report column,
// e.g. "#42 fix-login-flow".
func (p *PullRequest) Label() string {
	if p == nil {
		return ""
	}
	return fmt.Sprintf("#%d %s", p.Number, p.Branch)
}
