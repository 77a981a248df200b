package cli

import (
	"github.com/spf13/cobra"

	"github.com/jira-tools/jira-report/internal/config"
	"github.com/jira-tools/jira-report/internal/jira"
	"github.com/jira-tools/jira-report/internal/render"
)

var showCmd = &cobra.Command{
	Use:   "show KEY",
	Short: "Show one issue, with its description rendered in the terminal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w := getWriter(cmd)

		cfg, err := config.Load()
		if err != nil {
			return classify(err)
		}

		client, err := jira.NewClient(cfg)
		if err != nil {
			return classify(err)
		}

		issue, err := client.FetchIssue(args[0])
		if err != nil {
			return classify(err)
		}

		jsonMode, _ := cmd.Flags().GetBool("json")
		var message string
		if !jsonMode {
			message = render.Detail(issue)
		}
		w.Success(issue, message)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
