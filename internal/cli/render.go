package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yaklabco/gomdmath/internal/logging"
	"github.com/yaklabco/gomdmath/internal/ui/pretty"
	"github.com/yaklabco/gomdmath/pkg/config"
	"github.com/yaklabco/gomdmath/pkg/document"
	"github.com/yaklabco/gomdmath/pkg/fsutil"
	"github.com/yaklabco/gomdmath/pkg/outdiff"
	"github.com/yaklabco/gomdmath/pkg/runner"
)

// ErrRenderFailed is returned when one or more files could not be rendered.
var ErrRenderFailed = errors.New("render failed")

// stdinPath is the path argument that reads Markdown from standard input.
const stdinPath = "-"

type renderFlags struct {
	shared sharedFlags
	outDir string
	outExt string
	diff   bool
}

func newRenderCommand() *cobra.Command {
	var cfg config.Config
	flags := &renderFlags{}

	cmd := &cobra.Command{
		Use:   "render [paths...]",
		Short: "Render Markdown files with math to HTML",
		Long:  renderLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args, &cfg, flags)
		},
	}

	addSharedFlags(cmd, &flags.shared)
	cmd.Flags().StringVar(&flags.outDir, "out-dir", "", "directory for rendered HTML (default: next to each input)")
	cmd.Flags().StringVar(&flags.outExt, "out-ext", config.DefaultOutputExt, "extension of rendered files")
	cmd.Flags().BoolVar(&cfg.Stdout, "stdout", false, "write rendered HTML to standard output")
	cmd.Flags().BoolVar(&cfg.DryRun, "dry-run", false, "render without writing any file")
	cmd.Flags().BoolVar(&flags.diff, "diff", false, "show how each output file would change, without writing")

	return cmd
}

const renderLongDescription = `Render Markdown files to HTML, typesetting delimited math.

Inline math is written between single delimiters ($x$), display math between
doubled ones ($$x$$), and math blocks between fence lines holding only the
doubled delimiter. Unmatched delimiters are left as text.

By default, renders all .md and .markdown files in the current directory
and subdirectories, writing each result next to its source. Use "-" to read
a single document from standard input.

Examples:
  gomdmath render                       # Render current directory
  gomdmath render docs/ --out-dir site  # Mirror docs/ into site/
  gomdmath render README.md --stdout    # Print HTML instead of writing
  gomdmath render --diff                # Preview changes to existing HTML
  gomdmath render - < notes.md          # Render standard input
  gomdmath render --engine plain        # Leave math for client-side rendering
  gomdmath render --delimiter %         # Use % instead of $`

func runRender(cmd *cobra.Command, args []string, cfg *config.Config, flags *renderFlags) error {
	logger := logging.Default()

	flags.shared.apply(cmd, cfg)
	if cmd.Flags().Changed("out-dir") {
		cfg.Output.Dir = flags.outDir
	}
	if cmd.Flags().Changed("out-ext") {
		cfg.Output.Extension = flags.outExt
	}
	if flags.diff {
		if cfg.Stdout {
			return errors.New("--diff and --stdout cannot be combined")
		}
		cfg.DryRun = true
	}

	finalCfg, workDir, err := loadConfig(cmd, cfg)
	if err != nil {
		return err
	}

	pipe, err := newPipeline(finalCfg, logger)
	if err != nil {
		return err
	}
	defer pipe.logCacheStats(logger)

	if len(args) == 1 && args[0] == stdinPath {
		return renderStdin(cmd, pipe.converter, logger)
	}

	ctx := logging.WithLogger(commandContext(cmd), logger)

	runOpts := runner.OptionsFromConfig(finalCfg, args, runner.ModeRender)
	runOpts.WorkingDir = workDir

	logger.Debug("starting render run",
		logging.FieldPaths, runOpts.Paths,
		logging.FieldWorkingDir, runOpts.WorkingDir,
		logging.FieldDryRun, runOpts.DryRun,
		logging.FieldJobs, runOpts.Jobs,
	)

	result, err := runner.New(pipe.converter).Run(ctx, runOpts)
	if err != nil {
		return errors.Join(errors.New("render run failed"), err)
	}

	for _, outcome := range result.Files {
		if outcome.Error != nil {
			logger.Error("render failed", logging.FieldPath, outcome.Path, logging.FieldError, outcome.Error)
			continue
		}
		logDiagnostics(logger, outcome.Document)

		switch {
		case finalCfg.Stdout:
			if _, err := cmd.OutOrStdout().Write(outcome.Document.HTML); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
		case flags.diff:
			if err := writeOutputDiff(ctx, cmd.OutOrStdout(), outcome, workDir); err != nil {
				return err
			}
		}
	}

	logger.Debug("render run complete",
		logging.FieldFilesDiscovered, result.Stats.FilesDiscovered,
		logging.FieldFilesProcessed, result.Stats.FilesProcessed,
		logging.FieldFilesWritten, result.Stats.FilesWritten,
		logging.FieldInlineSpans, result.Stats.InlineSpans,
		logging.FieldBlockSpans, result.Stats.BlockSpans,
	)

	if !finalCfg.Stdout {
		colorMode, _ := cmd.Flags().GetString("color")
		styles := pretty.NewStyles(pretty.IsColorEnabled(colorMode, cmd.ErrOrStderr()))
		summary := styles.FormatRenderSummary(result.Stats, runOpts.DryRun)
		if _, err := io.WriteString(cmd.ErrOrStderr(), summary); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
	}

	if result.HasErrors() {
		return &ExitError{Code: ExitFileErrors, Err: ErrRenderFailed}
	}
	return nil
}

// renderStdin converts standard input and writes the HTML to standard output.
func renderStdin(cmd *cobra.Command, conv *document.Converter, logger *log.Logger) error {
	content, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}

	doc, err := conv.Convert(commandContext(cmd), "<stdin>", content)
	if err != nil {
		return err
	}
	logDiagnostics(logger, doc)

	if _, err := cmd.OutOrStdout().Write(doc.HTML); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// writeOutputDiff prints how outcome's output file would change. A missing
// output file diffs as empty.
func writeOutputDiff(ctx context.Context, w io.Writer, outcome runner.FileOutcome, workDir string) error {
	current, _, err := fsutil.ReadFile(ctx, outcome.OutputPath)
	if err != nil && !errors.Is(err, fsutil.ErrNotFound) {
		return fmt.Errorf("read %s: %w", outcome.OutputPath, err)
	}

	path := outcome.OutputPath
	if rel, relErr := filepath.Rel(workDir, path); relErr == nil {
		path = rel
	}

	diff := outdiff.Compute(path, current, outcome.Document.HTML)
	if _, err := io.WriteString(w, diff.String()); err != nil {
		return fmt.Errorf("write diff: %w", err)
	}
	return nil
}

// logDiagnostics reports a rendered document's diagnostics on the logger.
// Use the check command for formatted reports.
func logDiagnostics(logger *log.Logger, doc *document.Document) {
	if doc == nil {
		return
	}
	for _, diag := range doc.Diagnostics {
		level := log.WarnLevel
		if diag.Severity == document.SeverityInfo {
			level = log.InfoLevel
		}
		logger.Log(level, diag.Message,
			logging.FieldPath, fmt.Sprintf("%s:%d:%d", doc.Path, diag.Line, diag.Column),
			logging.FieldRule, diag.Rule,
		)
	}
}
