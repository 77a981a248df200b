package main

import (
	"os"

	"github.com/jira-tools/jira-report/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
