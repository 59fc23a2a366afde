package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/gomdmath/pkg/document"
	"github.com/yaklabco/gomdmath/pkg/runner"
)

const (
	summaryDividerWidth = 40
	wordFile            = "file"
	wordFiles           = "files"
)

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// FormatSummaryOneLine formats check statistics as a single line.
// Example: "3 issues (2 warnings, 1 info) in 2 files, 14 spans".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	spans := stats.InlineSpans + stats.BlockSpans

	if stats.DiagnosticsTotal == 0 {
		return s.Success.Render("No issues found") +
			s.Dim.Render(fmt.Sprintf(" (%d %s checked, %d math %s)",
				stats.FilesProcessed, plural(stats.FilesProcessed, wordFile, wordFiles),
				spans, plural(spans, "span", "spans"))) + "\n"
	}

	var parts []string

	issueWord := plural(stats.DiagnosticsTotal, "issue", "issues")

	var severityParts []string
	if warnings := stats.DiagnosticsBySeverity[document.SeverityWarning]; warnings > 0 {
		severityParts = append(severityParts, s.Warning.Render(fmt.Sprintf("%d %s", warnings, plural(warnings, "warning", "warnings"))))
	}
	if infos := stats.DiagnosticsBySeverity[document.SeverityInfo]; infos > 0 {
		severityParts = append(severityParts, s.Info.Render(fmt.Sprintf("%d info", infos)))
	}

	if len(severityParts) > 0 {
		parts = append(parts, fmt.Sprintf("%d %s (%s)", stats.DiagnosticsTotal, issueWord, strings.Join(severityParts, ", ")))
	} else {
		parts = append(parts, fmt.Sprintf("%d %s", stats.DiagnosticsTotal, issueWord))
	}

	parts[0] += fmt.Sprintf(" in %d %s", stats.FilesWithIssues, plural(stats.FilesWithIssues, wordFile, wordFiles))
	parts = append(parts, fmt.Sprintf("%d math %s", spans, plural(spans, "span", "spans")))

	if stats.FilesErrored > 0 {
		parts = append(parts, s.Failure.Render(fmt.Sprintf("%d %s failed",
			stats.FilesErrored, plural(stats.FilesErrored, wordFile, wordFiles))))
	}

	return strings.Join(parts, ", ") + "\n"
}

// FormatRenderSummary formats render statistics as a single line.
// Example: "Rendered 4 files (3 written, 1 unchanged): 12 inline, 2 block spans".
func (s *Styles) FormatRenderSummary(stats runner.Stats, dryRun bool) string {
	verb := "Rendered"
	if dryRun {
		verb = "Rendered (dry run)"
	}

	line := fmt.Sprintf("%s %d %s", verb, stats.FilesProcessed, plural(stats.FilesProcessed, wordFile, wordFiles))
	if !dryRun {
		line += s.Dim.Render(fmt.Sprintf(" (%d written, %d unchanged)", stats.FilesWritten, stats.FilesUnchanged))
	}
	line += fmt.Sprintf(": %s inline, %s block %s",
		s.InlineSpan.Render(strconv.Itoa(stats.InlineSpans)),
		s.BlockSpan.Render(strconv.Itoa(stats.BlockSpans)),
		plural(stats.InlineSpans+stats.BlockSpans, "span", "spans"))

	styled := s.Success.Render(line)
	if stats.FilesErrored > 0 {
		styled = line + ", " + s.Failure.Render(fmt.Sprintf("%d %s failed",
			stats.FilesErrored, plural(stats.FilesErrored, wordFile, wordFiles)))
	}

	return styled + "\n"
}

// FormatSummary formats check statistics as a summary block.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var builder strings.Builder

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	// Files
	builder.WriteString("  Files checked:     " +
		s.SummaryValue.Render(strconv.Itoa(stats.FilesProcessed)) + "\n")

	if stats.FilesWithIssues > 0 {
		builder.WriteString("  Files with issues: " +
			s.Failure.Render(strconv.Itoa(stats.FilesWithIssues)) + "\n")
	}

	if stats.FilesErrored > 0 {
		builder.WriteString("  Files failed:      " +
			s.Failure.Render(strconv.Itoa(stats.FilesErrored)) + "\n")
	}

	builder.WriteString("\n")

	// Spans
	builder.WriteString("  Inline spans:      " +
		s.InlineSpan.Render(strconv.Itoa(stats.InlineSpans)) + "\n")
	builder.WriteString("  Block spans:       " +
		s.BlockSpan.Render(strconv.Itoa(stats.BlockSpans)) + "\n")

	builder.WriteString("\n")

	// Diagnostics by severity
	builder.WriteString("  Total issues:      " +
		s.SummaryValue.Render(strconv.Itoa(stats.DiagnosticsTotal)) + "\n")

	if warnings := stats.DiagnosticsBySeverity[document.SeverityWarning]; warnings > 0 {
		builder.WriteString("    Warnings:        " +
			s.Warning.Render(strconv.Itoa(warnings)) + "\n")
	}
	if infos := stats.DiagnosticsBySeverity[document.SeverityInfo]; infos > 0 {
		builder.WriteString("    Info:            " +
			s.Info.Render(strconv.Itoa(infos)) + "\n")
	}

	builder.WriteString("\n")

	// Overall status
	switch {
	case stats.FilesErrored > 0:
		builder.WriteString(s.Failure.Render("Check failed"))
	case stats.DiagnosticsBySeverity[document.SeverityWarning] > 0:
		builder.WriteString(s.Warning.Render("Check completed with warnings"))
	default:
		builder.WriteString(s.Success.Render("Check passed"))
	}
	builder.WriteString("\n")

	return builder.String()
}
