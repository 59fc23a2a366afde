package pretty

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/yaklabco/gomdmath/pkg/document"
	"github.com/yaklabco/gomdmath/pkg/mathspan"
)

const tabWidth = 4

// FormatDiagnostic formats a single diagnostic for terminal output.
// The source line is shown under the message when it is not empty.
func (s *Styles) FormatDiagnostic(path string, diag document.Diagnostic, sourceLine string) string {
	var builder strings.Builder

	// Location: path:line:col
	location := fmt.Sprintf("%s:%d:%d",
		s.FilePath.Render(path),
		diag.Line,
		diag.Column,
	)

	// Main line: location  severity  message  (rule)
	builder.WriteString(fmt.Sprintf("  %s  %s  %s  %s\n",
		location,
		s.FormatSeverity(diag.Severity),
		s.Message.Render(diag.Message),
		s.RuleID.Render("("+diag.Rule+")"),
	))

	if sourceLine != "" {
		builder.WriteString(s.FormatSourceContext(sourceLine, diag.Column))
	}

	return builder.String()
}

// FormatSeverity returns a styled severity string.
func (s *Styles) FormatSeverity(sev document.Severity) string {
	switch sev {
	case document.SeverityWarning:
		return s.Warning.Render("warning")
	case document.SeverityInfo:
		return s.Info.Render("info")
	default:
		return string(sev)
	}
}

// FormatSourceContext formats the source line with a caret marker.
// Column is a 1-based byte column. Tabs are expanded before styling so the
// caret and the line share one column grid.
func (s *Styles) FormatSourceContext(line string, column int) string {
	var builder strings.Builder

	// Indent to align with diagnostic output
	const indent = "        "

	builder.WriteString(indent + s.SourceLine.Render(expandTabs(line)) + "\n")

	if column > 0 && column <= len(line)+1 {
		width := utf8.RuneCountInString(expandTabs(line[:column-1]))
		builder.WriteString(indent + strings.Repeat(" ", width) + s.Caret.Render("^") + "\n")
	}

	return builder.String()
}

// expandTabs replaces tabs with spaces up to the next multiple of tabWidth.
func expandTabs(line string) string {
	if !strings.ContainsRune(line, '\t') {
		return line
	}

	var b strings.Builder
	col := 0
	for _, r := range line {
		if r == '\t' {
			n := tabWidth - col%tabWidth
			b.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		b.WriteRune(r)
		col++
	}
	return b.String()
}

// FormatFileHeader formats a file header for grouped output.
func (s *Styles) FormatFileHeader(path string, issueCount int) string {
	header := s.FilePath.Render(path)
	switch {
	case issueCount == 1:
		header += s.Dim.Render(" (1 issue)")
	case issueCount > 1:
		header += s.Dim.Render(fmt.Sprintf(" (%d issues)", issueCount))
	}
	return header
}

// FormatSpan formats one math span as "line:col  inline  content".
func (s *Styles) FormatSpan(span document.Span) string {
	kind := s.InlineSpan.Render("inline ")
	switch {
	case span.Kind == mathspan.KindBlock:
		kind = s.BlockSpan.Render("block  ")
	case span.Display:
		kind = s.BlockSpan.Render("display")
	}

	content := strings.ReplaceAll(span.Content, "\n", " ")
	return fmt.Sprintf("  %s  %s  %s\n",
		s.Location.Render(fmt.Sprintf("%d:%d", span.Line, span.Column)),
		kind,
		content,
	)
}
