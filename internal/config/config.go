package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// envFileName is the dotenv file read from (and appended to) in the
// working directory.
const envFileName = ".env"

// Jira credential variables. All three are required.
const (
	EnvServerURL = "JIRA_SERVER_URL"
	EnvUsername  = "JIRA_USERNAME"
	EnvAPIToken  = "JIRA_API_TOKEN"
)

// GitHub variables, only needed for pull-request cross-referencing.
const (
	EnvGitHubToken    = "GITHUB_TOKEN"
	EnvGitHubUsername = "GITHUB_USERNAME"
	EnvGitHubRepo     = "GITHUB_REPO"
)

// Config holds resolved credentials and endpoints. It is passed
// explicitly into the fetchers rather than read from ambient process
// state, so components stay testable in isolation.
type Config struct {
	ServerURL string
	Username  string
	APIToken  string

	GitHubToken    string
	GitHubUsername string
	GitHubRepo     string
}

// HasGitHub reports whether enough GitHub configuration is present for
// pull-request cross-referencing.
func (c *Config) HasGitHub() bool {
	return c.GitHubToken != "" && c.GitHubUsername != "" && c.GitHubRepo != ""
}

// Load reads configuration from .env and the process environment.
// Missing required Jira variables trigger an interactive prompt when
// stdin is a terminal; the entered value is appended to .env so the next
// run doesn't ask again.
func Load() (*Config, error) {
	_ = godotenv.Load(envFileName)

	for _, name := range []string{EnvServerURL, EnvUsername, EnvAPIToken} {
		if os.Getenv(name) != "" {
			continue
		}
		if !stdinIsTerminal() {
			return nil, fmt.Errorf("%s is not set (configure it in %s)", name, envFileName)
		}
		if err := promptVar(name, os.Stdin, os.Stderr); err != nil {
			return nil, err
		}
	}

	return &Config{
		ServerURL:      strings.TrimRight(os.Getenv(EnvServerURL), "/"),
		Username:       os.Getenv(EnvUsername),
		APIToken:       os.Getenv(EnvAPIToken),
		GitHubToken:    os.Getenv(EnvGitHubToken),
		GitHubUsername: os.Getenv(EnvGitHubUsername),
		GitHubRepo:     os.Getenv(EnvGitHubRepo),
	}, nil
}

// promptVar asks for the value of name on prompt/answer streams, sets it
// in the process environment and appends it to the .env file.
func promptVar(name string, in io.Reader, out io.Writer) error {
	reader := bufio.NewReader(in)
	label := promptLabel(name)

	var value string
	for value == "" {
		fmt.Fprintf(out, "%s: ", label)
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("reading %s: %w", name, err)
		}
		value = strings.TrimSpace(line)
	}

	if err := appendEnvFile(envFileName, name, value); err != nil {
		return err
	}
	return os.Setenv(name, value)
}

// promptLabel turns JIRA_SERVER_URL into "Jira Server Url".
func promptLabel(name string) string {
	words := strings.Split(strings.ToLower(name), "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func appendEnvFile(path, name, value string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "%s=%q\n", name, value); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func stdinIsTerminal() bool {
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
