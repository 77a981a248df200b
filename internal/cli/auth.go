package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jira-tools/jira-report/internal/config"
	"github.com/jira-tools/jira-report/internal/jira"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Verify the configured Jira credentials",
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

		name, email, err := client.Myself()
		if err != nil {
			return classify(err)
		}

		w.Success(struct {
			Name   string `json:"name"`
			Email  string `json:"email"`
			Server string `json:"server"`
		}{
			Name:   name,
			Email:  email,
			Server: cfg.ServerURL,
		}, fmt.Sprintf("Authenticated against %s as %s <%s>", cfg.ServerURL, name, email))

		return nil
	},
}

func init() {
	rootCmd.AddCommand(authCmd)
}
