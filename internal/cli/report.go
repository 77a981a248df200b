package cli

import (
	"fmt"
	"os"
	"time"

	humanize "github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jira-tools/jira-report/internal/config"
	"github.com/jira-tools/jira-report/internal/github"
	"github.com/jira-tools/jira-report/internal/jira"
	"github.com/jira-tools/jira-report/internal/model"
	"github.com/jira-tools/jira-report/internal/output"
	"github.com/jira-tools/jira-report/internal/render"
	"github.com/jira-tools/jira-report/internal/report"
	"github.com/jira-tools/jira-report/internal/xls"
)

type reportResult struct {
	File      string              `json:"file,omitempty"`
	Range     string              `json:"range"`
	Issues    []model.IssueRecord `json:"issues"`
	Total     int                 `json:"total"`
	WorkHours int                 `json:"work_hours"`
}

// runReport is the root command: resolve the range, fetch the issues,
// build the rows, write the file. Strictly linear; the first failure
// aborts the run.
func runReport(cmd *cobra.Command, args []string) error {
	w := getWriter(cmd)

	start, _ := cmd.Flags().GetString("start")
	end, _ := cmd.Flags().GetString("end")
	force, _ := cmd.Flags().GetBool("force-overwrite")
	days, _ := cmd.Flags().GetInt("days")
	withPRs, _ := cmd.Flags().GetBool("with-prs")
	outDir, _ := cmd.Flags().GetString("out")

	dateRange, err := model.ResolveRange(start, end, time.Now())
	if err != nil {
		return classify(err)
	}

	// Check the target before touching the network, so a refused
	// overwrite costs nothing.
	path := xls.Path(outDir, dateRange)
	if !force {
		if _, err := os.Stat(path); err == nil {
			return classify(fmt.Errorf("%q: %w (use --force-overwrite)", path, xls.ErrFileExists))
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return classify(err)
	}
	if withPRs && !cfg.HasGitHub() {
		return cmdErr(
			fmt.Errorf("--with-prs needs %s, %s and %s configured",
				config.EnvGitHubToken, config.EnvGitHubUsername, config.EnvGitHubRepo),
			output.ErrValidation,
		)
	}

	client, err := jira.NewClient(cfg)
	if err != nil {
		return classify(err)
	}

	w.Info("Querying %s for issues assigned to you during %s to %s",
		cfg.ServerURL,
		dateRange.Start.Format("2006-01-02"),
		dateRange.End.Format("2006-01-02"))

	issues, err := client.FetchRange(dateRange)
	if err != nil {
		return classify(err)
	}

	workHours := dateRange.WorkHours(days)
	w.Info("Business days=%d (%d hours)", workHours/8, workHours)

	if len(issues) == 0 {
		w.Success(reportResult{
			Range:     dateRange.Title(),
			Issues:    []model.IssueRecord{},
			WorkHours: workHours,
		}, render.EmptyState("No issues were assigned to you during that period."))
		return nil
	}
	w.Info("Found %d issues assigned to you during that period", len(issues))

	if withPRs {
		if err := matchPullRequests(cmd, w, cfg, dateRange, issues); err != nil {
			return err
		}
	}

	rows := report.Build(issues)
	size, err := xls.Write(rows, withPRs, dateRange.Title(), path, force)
	if err != nil {
		return classify(err)
	}

	result := reportResult{
		File:      path,
		Range:     dateRange.Title(),
		Issues:    issues,
		Total:     len(issues),
		WorkHours: workHours,
	}

	jsonMode, _ := cmd.Flags().GetBool("json")
	var message string
	if !jsonMode {
		message = render.Summary(issues) +
			fmt.Sprintf("\nExported %d issues to %s (%s)", len(issues), path, humanize.Bytes(uint64(size)))
	}
	w.Success(result, message)

	return nil
}

// matchPullRequests fetches the user's closed pull requests for the
// range and annotates each issue with the PR that delivered it.
func matchPullRequests(cmd *cobra.Command, w *output.Writer, cfg *config.Config, dateRange model.DateRange, issues []model.IssueRecord) error {
	ghc, err := github.NewClient(cfg)
	if err != nil {
		return cmdErr(err, output.ErrValidation)
	}

	w.Info("Fetching closed pull requests from %s", cfg.GitHubRepo)
	prs, err := ghc.ClosedInRange(cmd.Context(), dateRange)
	if err != nil {
		return cmdErr(err, output.ErrGeneral)
	}

	matched := 0
	for i := range issues {
		if pr := github.Match(issues[i], prs); pr != nil {
			issues[i].PullRequest = pr.Label()
			matched++
		}
	}
	w.Info("Matched %d of %d issues to pull requests", matched, len(issues))
	return nil
}
