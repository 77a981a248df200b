// Package cli wires the jira-report commands. The root command runs the
// report itself; auth, show, and version are small side entrances.
package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jira-tools/jira-report/internal/jira"
	"github.com/jira-tools/jira-report/internal/model"
	"github.com/jira-tools/jira-report/internal/output"
	"github.com/jira-tools/jira-report/internal/xls"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

// CmdError wraps an error with a machine-readable error code for
// structured output.
type CmdError struct {
	Err  error
	Code output.ErrorCode
}

func (e *CmdError) Error() string { return e.Err.Error() }

func cmdErr(err error, code output.ErrorCode) *CmdError {
	return &CmdError{Err: err, Code: code}
}

// classify maps sentinel errors from the lower layers onto their output
// codes so every failure kind reaches the user with the right exit code.
func classify(err error) *CmdError {
	switch {
	case errors.Is(err, model.ErrInvalidMonth), errors.Is(err, model.ErrInvalidRange):
		return cmdErr(err, output.ErrValidation)
	case errors.Is(err, jira.ErrAuth):
		return cmdErr(err, output.ErrAuth)
	case errors.Is(err, jira.ErrNetwork):
		return cmdErr(err, output.ErrNetwork)
	case errors.Is(err, jira.ErrServer):
		return cmdErr(err, output.ErrServer)
	case errors.Is(err, jira.ErrNotFound):
		return cmdErr(err, output.ErrNotFound)
	case errors.Is(err, xls.ErrFileExists):
		return cmdErr(err, output.ErrConflict)
	default:
		return cmdErr(err, output.ErrGeneral)
	}
}

var rootCmd = &cobra.Command{
	Use:     "jira-report",
	Short:   "Generate a spreadsheet report of Jira issues assigned to you",
	Long: `jira-report queries Jira for issues assigned to the configured user
during a month-aligned date range and writes them to a spreadsheet file.

Credentials come from JIRA_SERVER_URL, JIRA_USERNAME and JIRA_API_TOKEN,
read from the environment or a local .env file.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
	RunE:    runReport,
}

func init() {
	rootCmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress non-essential output")

	rootCmd.Flags().String("start", "", "First month of the range (YYYY/MM, default: current month)")
	rootCmd.Flags().String("end", "", "Last month of the range (YYYY/MM, default: current month)")
	rootCmd.Flags().BoolP("force-overwrite", "f", false, "Overwrite the output file if it exists")
	rootCmd.Flags().IntP("days", "d", 0, "Business days in the period (default: computed from the calendar)")
	rootCmd.Flags().Bool("with-prs", false, "Cross-reference issues with your merged GitHub pull requests")
	rootCmd.Flags().StringP("out", "o", ".", "Directory the report file is written to")

	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}

func getWriter(cmd *cobra.Command) *output.Writer {
	jsonMode, _ := cmd.Flags().GetBool("json")
	quietMode, _ := cmd.Flags().GetBool("quiet")
	return output.New(jsonMode, quietMode)
}

// Execute runs the root command and returns an exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		jsonMode, _ := rootCmd.PersistentFlags().GetBool("json")
		quietMode, _ := rootCmd.PersistentFlags().GetBool("quiet")
		w := output.New(jsonMode, quietMode)

		var ce *CmdError
		if errors.As(err, &ce) {
			return w.Error(ce.Err, ce.Code)
		}
		return w.Error(err, output.ErrGeneral)
	}
	return output.ExitSuccess
}
