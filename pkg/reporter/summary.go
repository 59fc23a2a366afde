package reporter

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/yaklabco/gomdmath/internal/ui/pretty"
	"github.com/yaklabco/gomdmath/pkg/analysis"
)

// Table layout constants for summary output.
// Both tables use the same width for visual consistency.
const (
	tableWidth        = 90 // Width of table separators (same for both tables).
	ruleColWidth      = 30 // Width of the rule name column.
	fileColWidth      = 52 // Width of the file path column.
	numColWidth       = 7  // Width of numeric columns.
	warnColWidth      = 8  // Width of warnings column.
	maxFilePathLength = 50 // Maximum characters for file path before truncation.
)

// padRight pads a string to the given width with spaces on the right.
// This must be called BEFORE applying ANSI styles.
func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// padLeft pads a string to the given width with spaces on the left.
// This must be called BEFORE applying ANSI styles.
func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}

// SummaryRenderer formats results as aggregated summary tables.
type SummaryRenderer struct {
	opts   Options
	styles *pretty.Styles
	out    io.Writer
}

// NewSummaryRenderer creates a new summary renderer.
func NewSummaryRenderer(opts Options) *SummaryRenderer {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &SummaryRenderer{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		out:    opts.Writer,
	}
}

// Render implements Renderer.
func (r *SummaryRenderer) Render(_ context.Context, report *analysis.Report) error {
	if len(report.ByFile) == 0 && report.Totals.FilesErrored == 0 {
		fmt.Fprintln(r.out, r.styles.Success.Render("No math or issues found"))
		return nil
	}

	r.renderFileTable(report.ByFile)
	if len(report.ByRule) > 0 {
		fmt.Fprintln(r.out)
		r.renderRuleTable(report.ByRule)
	}

	fmt.Fprintln(r.out)
	r.renderTotals(report.Totals)

	return nil
}

func (r *SummaryRenderer) separator() {
	fmt.Fprintln(r.out, r.styles.TableSeparator.Render(strings.Repeat("─", tableWidth)))
}

func (r *SummaryRenderer) renderFileTable(files []analysis.FileAnalysis) {
	if len(files) == 0 {
		return
	}

	fmt.Fprintln(r.out, r.styles.Bold.Render("Files Summary"))
	r.separator()

	// Header - pad first, then style
	fmt.Fprintf(r.out, "%s %s %s %s %s\n",
		r.styles.TableHeader.Render(padRight("File", fileColWidth)),
		r.styles.TableHeader.Render(padLeft("Inline", numColWidth)),
		r.styles.TableHeader.Render(padLeft("Block", numColWidth)),
		r.styles.TableHeader.Render(padLeft("Issues", numColWidth)),
		r.styles.TableHeader.Render(padLeft("Warnings", warnColWidth)),
	)
	r.separator()

	for _, file := range files {
		path := file.Path
		if len(path) > maxFilePathLength {
			path = "…" + path[len(path)-(maxFilePathLength-1):]
		}

		paddedPath := padRight(path, fileColWidth)
		var styledPath string
		switch {
		case file.Warnings > 0:
			styledPath = r.styles.TableWarnRow.Render(paddedPath)
		case file.Infos > 0:
			styledPath = r.styles.TableInfoRow.Render(paddedPath)
		default:
			styledPath = paddedPath
		}

		fmt.Fprintf(r.out, "%s %s %s %s %s\n",
			styledPath,
			padLeft(strconv.Itoa(file.InlineSpans), numColWidth),
			padLeft(strconv.Itoa(file.BlockSpans), numColWidth),
			padLeft(strconv.Itoa(file.Issues), numColWidth),
			padLeft(strconv.Itoa(file.Warnings), warnColWidth),
		)
	}
}

func (r *SummaryRenderer) renderRuleTable(rules []analysis.RuleAnalysis) {
	fmt.Fprintln(r.out, r.styles.Bold.Render("Rules Summary"))
	r.separator()

	fmt.Fprintf(r.out, "%s %s %s %s %s\n",
		r.styles.TableHeader.Render(padRight("Rule", ruleColWidth)),
		r.styles.TableHeader.Render(padLeft("Count", numColWidth)),
		r.styles.TableHeader.Render(padLeft("Warnings", warnColWidth)),
		r.styles.TableHeader.Render(padLeft("Info", numColWidth)),
		r.styles.TableHeader.Render(padLeft("Files", numColWidth)),
	)
	r.separator()

	for _, rule := range rules {
		paddedName := padRight(rule.Rule, ruleColWidth)
		styledName := paddedName
		if rule.Warnings > 0 {
			styledName = r.styles.TableWarnRow.Render(paddedName)
		} else if rule.Infos > 0 {
			styledName = r.styles.TableInfoRow.Render(paddedName)
		}

		fmt.Fprintf(r.out, "%s %s %s %s %s\n",
			styledName,
			padLeft(strconv.Itoa(rule.Issues), numColWidth),
			padLeft(strconv.Itoa(rule.Warnings), warnColWidth),
			padLeft(strconv.Itoa(rule.Infos), numColWidth),
			padLeft(strconv.Itoa(len(rule.Files)), numColWidth),
		)
	}
}

func (r *SummaryRenderer) renderTotals(totals analysis.Totals) {
	issueWord := "issues"
	if totals.Issues == 1 {
		issueWord = "issue"
	}
	line := fmt.Sprintf("%d %s", totals.Issues, issueWord)

	var severityParts []string
	if totals.Warnings > 0 {
		severityParts = append(severityParts, r.styles.Warning.Render(fmt.Sprintf("%d warnings", totals.Warnings)))
	}
	if totals.Infos > 0 {
		severityParts = append(severityParts, r.styles.Info.Render(fmt.Sprintf("%d info", totals.Infos)))
	}
	if len(severityParts) > 0 {
		line += " (" + strings.Join(severityParts, ", ") + ")"
	}

	line += fmt.Sprintf(", %d inline and %d block spans in %d files",
		totals.InlineSpans, totals.BlockSpans, totals.Files)

	if totals.FilesErrored > 0 {
		line += ", " + r.styles.Failure.Render(fmt.Sprintf("%d failed", totals.FilesErrored))
	}

	fmt.Fprintln(r.out, r.styles.Bold.Render("Total: ")+line)
}
