package jira

import (
	"errors"
	"net/http"
	"testing"
	"time"

	gojira "github.com/andygrunwald/go-jira"

	"github.com/jira-tools/jira-report/internal/model"
)

func TestJQL(t *testing.T) {
	r := model.DateRange{
		Start: time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2019, 3, 31, 0, 0, 0, 0, time.UTC),
	}
	want := `assignee was currentUser() DURING ("2019/01/01", "2019/03/31") ORDER BY created ASC`
	if got := JQL(r); got != want {
		t.Errorf("JQL() = %q, want %q", got, want)
	}
}

// fakeSearcher serves canned pages and records the queries it saw.
type fakeSearcher struct {
	pages   [][]gojira.Issue
	total   int
	jqls    []string
	startAt []int
	err     error
	resp    *gojira.Response
}

func (f *fakeSearcher) Search(jql string, opts *gojira.SearchOptions) ([]gojira.Issue, *gojira.Response, error) {
	f.jqls = append(f.jqls, jql)
	f.startAt = append(f.startAt, opts.StartAt)
	if f.err != nil {
		return nil, f.resp, f.err
	}
	page := len(f.startAt) - 1
	if page >= len(f.pages) {
		return nil, &gojira.Response{Total: f.total}, nil
	}
	return f.pages[page], &gojira.Response{Total: f.total}, nil
}

func makeIssue(key, summary, status string) gojira.Issue {
	return gojira.Issue{
		Key: key,
		Fields: &gojira.IssueFields{
			Summary: summary,
			Type:    gojira.IssueType{Name: "Task"},
			Status:  &gojira.Status{Name: status},
			Created: gojira.Time(time.Date(2019, 1, 2, 10, 0, 0, 0, time.UTC)),
		},
	}
}

func TestFetchRangeSinglePage(t *testing.T) {
	fake := &fakeSearcher{
		pages: [][]gojira.Issue{{
			makeIssue("A-1", "first", "Done"),
			makeIssue("A-2", "second", "In Progress"),
			makeIssue("A-3", "third", "To Do"),
		}},
		total: 3,
	}
	c := &Client{searcher: fake, serverURL: "https://corp.atlassian.net"}

	r := model.DateRange{
		Start: time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2019, 3, 31, 0, 0, 0, 0, time.UTC),
	}
	records, err := c.FetchRange(r)
	if err != nil {
		t.Fatalf("FetchRange: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("len(records) = %d, want 3", len(records))
	}
	// Order follows the API response.
	for i, want := range []string{"A-1", "A-2", "A-3"} {
		if records[i].Key != want {
			t.Errorf("records[%d].Key = %q, want %q", i, records[i].Key, want)
		}
	}
	if records[0].Link != "https://corp.atlassian.net/browse/A-1" {
		t.Errorf("Link = %q", records[0].Link)
	}
	if records[0].Status != "Done" {
		t.Errorf("Status = %q", records[0].Status)
	}
	if len(fake.jqls) != 1 {
		t.Fatalf("search calls = %d, want 1", len(fake.jqls))
	}
}

func TestFetchRangePaginates(t *testing.T) {
	first := make([]gojira.Issue, searchPageSize)
	for i := range first {
		first[i] = makeIssue("B-1", "bulk", "Done")
	}
	second := []gojira.Issue{makeIssue("B-2", "tail", "Done")}

	fake := &fakeSearcher{
		pages: [][]gojira.Issue{first, second},
		total: searchPageSize + 1,
	}
	c := &Client{searcher: fake, serverURL: "https://corp.atlassian.net"}

	records, err := c.FetchRange(model.DateRange{})
	if err != nil {
		t.Fatalf("FetchRange: %v", err)
	}
	if len(records) != searchPageSize+1 {
		t.Errorf("len(records) = %d, want %d", len(records), searchPageSize+1)
	}
	if len(fake.startAt) != 2 {
		t.Fatalf("search calls = %d, want 2", len(fake.startAt))
	}
	if fake.startAt[0] != 0 || fake.startAt[1] != searchPageSize {
		t.Errorf("startAt sequence = %v", fake.startAt)
	}
}

func TestFetchRangeErrors(t *testing.T) {
	tests := []struct {
		status int
		noResp bool
		want   error
	}{
		{status: http.StatusUnauthorized, want: ErrAuth},
		{status: http.StatusForbidden, want: ErrAuth},
		{status: http.StatusInternalServerError, want: ErrServer},
		{status: http.StatusBadRequest, want: ErrServer},
		{noResp: true, want: ErrNetwork},
	}

	for _, tt := range tests {
		fake := &fakeSearcher{err: errors.New("boom")}
		if !tt.noResp {
			fake.resp = &gojira.Response{Response: &http.Response{StatusCode: tt.status}}
		}
		c := &Client{searcher: fake, serverURL: "https://corp.atlassian.net"}
		_, err := c.FetchRange(model.DateRange{})
		if !errors.Is(err, tt.want) {
			t.Errorf("status=%d noResp=%v: error = %v, want %v", tt.status, tt.noResp, err, tt.want)
		}
	}
}

func TestChangelogDates(t *testing.T) {
	const layout = "2006-01-02T15:04:05.999-0700"
	log := &gojira.Changelog{
		Histories: []gojira.ChangelogHistory{
			{
				Created: time.Date(2019, 1, 3, 9, 0, 0, 0, time.UTC).Format(layout),
				Items: []gojira.ChangelogItems{
					{Field: "status", ToString: "In Progress"},
				},
			},
			{
				Created: time.Date(2019, 1, 4, 12, 0, 0, 0, time.UTC).Format(layout),
				Items: []gojira.ChangelogItems{
					{Field: "assignee", ToString: "J. Doe"},
				},
			},
			{
				Created: time.Date(2019, 1, 8, 17, 0, 0, 0, time.UTC).Format(layout),
				Items: []gojira.ChangelogItems{
					{Field: "status", ToString: "Done"},
				},
			},
		},
	}

	started, resolved := changelogDates(log)
	if started == nil || !started.Equal(time.Date(2019, 1, 3, 9, 0, 0, 0, time.UTC)) {
		t.Errorf("started = %v", started)
	}
	if resolved == nil || !resolved.Equal(time.Date(2019, 1, 8, 17, 0, 0, 0, time.UTC)) {
		t.Errorf("resolved = %v", resolved)
	}

	if s, r := changelogDates(nil); s != nil || r != nil {
		t.Errorf("nil changelog: got %v, %v", s, r)
	}
}

// fakeSelf implements selfGetter.
type fakeSelf struct {
	user *gojira.User
	resp *gojira.Response
	err  error
}

func (f *fakeSelf) GetSelf() (*gojira.User, *gojira.Response, error) {
	return f.user, f.resp, f.err
}

func TestMyself(t *testing.T) {
	c := &Client{self: &fakeSelf{user: &gojira.User{DisplayName: "J. Doe", EmailAddress: "jdoe@example.com"}}}
	name, email, err := c.Myself()
	if err != nil {
		t.Fatalf("Myself: %v", err)
	}
	if name != "J. Doe" || email != "jdoe@example.com" {
		t.Errorf("Myself = %q, %q", name, email)
	}

	c = &Client{self: &fakeSelf{
		err:  errors.New("denied"),
		resp: &gojira.Response{Response: &http.Response{StatusCode: http.StatusUnauthorized}},
	}}
	if _, _, err := c.Myself(); !errors.Is(err, ErrAuth) {
		t.Errorf("error = %v, want ErrAuth", err)
	}
}

// fakeGetter implements issueGetter.
type fakeGetter struct {
	issue *gojira.Issue
	resp  *gojira.Response
	err   error
}

func (f *fakeGetter) Get(id string, opts *gojira.GetQueryOptions) (*gojira.Issue, *gojira.Response, error) {
	return f.issue, f.resp, f.err
}

func TestFetchIssueNotFound(t *testing.T) {
	c := &Client{getter: &fakeGetter{
		err:  errors.New("does not exist"),
		resp: &gojira.Response{Response: &http.Response{StatusCode: http.StatusNotFound}},
	}}
	_, err := c.FetchIssue("A-404")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}
