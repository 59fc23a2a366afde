// Package main is the entry point for the gomdmath CLI.
package main

import (
	"errors"
	"os"

	"github.com/yaklabco/gomdmath/internal/cli"
	"github.com/yaklabco/gomdmath/internal/logging"
)

// Build-time variables set by GoReleaser via ldflags.
//
//nolint:gochecknoglobals // Version variables must be package-level for ldflags injection
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	info := cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	}

	rootCmd := cli.NewRootCommand(info)

	err := rootCmd.Execute()
	if err == nil {
		return cli.ExitSuccess
	}

	// ErrIssuesFound only selects the exit code; the report already said why.
	if !errors.Is(err, cli.ErrIssuesFound) {
		logging.Default().Error("command failed", logging.FieldError, err)
	}

	var exitErr *cli.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}
