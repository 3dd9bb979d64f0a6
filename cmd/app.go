// Package cmd implements the CLI application to normalize broker exports and
// run position and income reports over them.
package cmd

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"

	"github.com/kirmatho-gpt/invanalyzer"
	"github.com/kirmatho-gpt/invanalyzer/config"
)

// Register the subcommands.
// A main package calls Register() and then Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&normalizeCmd{}, "ingestion")

	c.Register(&reconcileCmd{}, "reports")
	c.Register(&gainsCmd{}, "reports")
	c.Register(&incomeCmd{}, "reports")

	c.Register(&archiveCmd{}, "storage")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "", "Path to the YAML configuration file (account to broker mapping)")

// LoadConfig loads the configured file, or the defaults when none is given.
func LoadConfig() (*config.Config, error) {
	if *configFile == "" {
		return config.Default(), nil
	}
	return config.Load(*configFile)
}

// accountFilter builds the report filter from a comma-separated -accounts
// flag, falling back to the configured filter.
func accountFilter(flagValue string, cfg *config.Config) invanalyzer.AccountFilter {
	if flagValue != "" {
		return invanalyzer.NewAccountFilter(strings.Split(flagValue, ",")...)
	}
	return invanalyzer.NewAccountFilter(cfg.Filter...)
}

// printMarkdown renders markdown to the terminal. Rendering failures fall
// back to the raw markdown.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

func errorf(format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	return subcommands.ExitFailure
}
