package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gomdmath/internal/logging"
	"github.com/yaklabco/gomdmath/pkg/analysis"
	"github.com/yaklabco/gomdmath/pkg/config"
	"github.com/yaklabco/gomdmath/pkg/reporter"
	"github.com/yaklabco/gomdmath/pkg/runner"
)

// ErrIssuesFound is returned when a check run fails on its diagnostics.
var ErrIssuesFound = errors.New("math issues found")

type checkFlags struct {
	shared    sharedFlags
	format    string
	noContext bool
	showSpans bool
	compact   bool
	sort      string
}

func newCheckCommand() *cobra.Command {
	var cfg config.Config
	flags := &checkFlags{}

	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Report math spans and delimiter problems",
		Long:  checkLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, &cfg, flags)
		},
	}

	addSharedFlags(cmd, &flags.shared)
	cmd.Flags().StringVar(&flags.format, "format", string(config.FormatText), "output format: text, json, summary")
	cmd.Flags().BoolVar(&cfg.Strict, "strict", false, "fail on informational diagnostics too")
	cmd.Flags().BoolVar(&flags.noContext, "no-context", false, "hide source line context in output")
	cmd.Flags().BoolVar(&flags.showSpans, "show-spans", false, "list every math span found")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "use compact output format")
	cmd.Flags().StringVar(&flags.sort, "sort", string(analysis.SortByCount),
		"summary table order: count, alpha, severity")

	return cmd
}

const checkLongDescription = `Check Markdown files for math spans and delimiter problems
without writing any output.

Reports delimiters that open no span, spans that would only close past the
end of their paragraph, and unlabeled code blocks that look like TeX.

Examples:
  gomdmath check                    # Check current directory
  gomdmath check docs/ --show-spans # List every span found
  gomdmath check --format json      # Output as JSON for CI
  gomdmath check --format summary   # Per-file and per-rule tables
  gomdmath check --strict           # Fail on informational diagnostics`

func runCheck(cmd *cobra.Command, args []string, cfg *config.Config, flags *checkFlags) error {
	logger := logging.Default()

	flags.shared.apply(cmd, cfg)
	if cmd.Flags().Changed("format") {
		cfg.Format = config.OutputFormat(flags.format)
	}

	sortBy, ok := analysis.ParseSortField(flags.sort)
	if !ok {
		return fmt.Errorf("invalid --sort %q: must be one of count, alpha, severity", flags.sort)
	}

	finalCfg, workDir, err := loadConfig(cmd, cfg)
	if err != nil {
		return err
	}

	format, err := reporter.ParseFormat(string(finalCfg.Format))
	if err != nil {
		return fmt.Errorf("invalid format: %w", err)
	}

	pipe, err := newPipeline(finalCfg, logger)
	if err != nil {
		return err
	}

	ctx := logging.WithLogger(commandContext(cmd), logger)

	runOpts := runner.OptionsFromConfig(finalCfg, args, runner.ModeCheck)
	runOpts.WorkingDir = workDir

	logger.Debug("starting check run",
		logging.FieldPaths, runOpts.Paths,
		logging.FieldWorkingDir, runOpts.WorkingDir,
		logging.FieldJobs, runOpts.Jobs,
	)

	result, err := runner.New(pipe.converter).Run(ctx, runOpts)
	if err != nil {
		return errors.Join(errors.New("check run failed"), err)
	}

	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = "auto"
	}

	rep, err := reporter.New(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		Format:      format,
		Color:       colorMode,
		ShowContext: !flags.noContext,
		ShowSummary: true,
		ShowSpans:   flags.showSpans,
		Compact:     flags.compact,
		SortBy:      sortBy,
		WorkingDir:  workDir,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	if _, err := rep.Report(ctx, result); err != nil {
		logger.Error("report failed", logging.FieldError, err)
		return fmt.Errorf("report results: %w", err)
	}

	if code := ExitCodeFromResult(result, finalCfg.Strict); code != ExitSuccess {
		return &ExitError{Code: code, Err: ErrIssuesFound}
	}

	return nil
}
