package reporter

import (
	"bufio"
	"context"
	"fmt"
	"path/filepath"

	"github.com/yaklabco/gomdmath/internal/ui/pretty"
	"github.com/yaklabco/gomdmath/pkg/runner"
)

// TextReporter formats results as styled terminal output, grouped by file.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(ctx context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Success.Render("No files to check."))
		}
		return 0, nil
	}

	var total int
	for _, file := range result.Files {
		if err := ctx.Err(); err != nil {
			return total, fmt.Errorf("report cancelled: %w", err)
		}
		total += r.reportFile(file)
	}

	if r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats))
	}

	return total, nil
}

// reportFile writes one file's section and returns its diagnostic count.
func (r *TextReporter) reportFile(file runner.FileOutcome) int {
	path := displayPath(file.Path, r.opts.WorkingDir)

	if file.Error != nil {
		fmt.Fprintf(r.bw, "%s: %s\n",
			r.styles.FilePath.Render(path),
			r.styles.Error.Render(fmt.Sprintf("error: %v", file.Error)),
		)
		return 0
	}

	doc := file.Document
	if doc == nil {
		return 0
	}

	showSpans := r.opts.ShowSpans && len(doc.Spans) > 0
	if len(doc.Diagnostics) == 0 && !showSpans {
		return 0
	}

	fmt.Fprintln(r.bw, r.styles.FormatFileHeader(path, len(doc.Diagnostics)))

	if showSpans {
		for _, span := range doc.Spans {
			fmt.Fprint(r.bw, r.styles.FormatSpan(span))
		}
	}

	for _, diag := range doc.Diagnostics {
		var sourceLine string
		if r.opts.ShowContext {
			sourceLine = string(doc.LineContent(diag.Line))
		}
		fmt.Fprint(r.bw, r.styles.FormatDiagnostic(path, diag, sourceLine))
	}

	// Blank line between files
	fmt.Fprintln(r.bw)

	return len(doc.Diagnostics)
}

// displayPath makes path relative to workDir when possible.
func displayPath(path, workDir string) string {
	if workDir == "" {
		return path
	}
	rel, err := filepath.Rel(workDir, path)
	if err != nil {
		return path
	}
	return rel
}
