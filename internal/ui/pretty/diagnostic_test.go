package pretty_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gomdmath/internal/ui/pretty"
	"github.com/yaklabco/gomdmath/pkg/document"
	"github.com/yaklabco/gomdmath/pkg/mathspan"
)

func unmatched(line, column int) document.Diagnostic {
	return document.Diagnostic{
		Rule:     document.RuleUnmatchedDelimiter,
		Severity: document.SeverityWarning,
		Message:  "unmatched $ delimiter",
		Position: document.Position{Line: line, Column: column},
	}
}

func TestFormatDiagnostic_Basic(t *testing.T) {
	styles := pretty.NewStyles(false) // No colors for easier testing

	result := styles.FormatDiagnostic("test.md", unmatched(10, 4), "")

	assert.Equal(t, "  test.md:10:4  warning  unmatched $ delimiter  (unmatched-delimiter)\n", result)
}

func TestFormatDiagnostic_WithContext(t *testing.T) {
	styles := pretty.NewStyles(false)

	result := styles.FormatDiagnostic("test.md", unmatched(5, 7), "costs $5 today")

	lines := strings.Split(strings.TrimSuffix(result, "\n"), "\n")
	assert.Len(t, lines, 3)
	assert.Equal(t, "        costs $5 today", lines[1])
	assert.Equal(t, "              ^", lines[2])
}

func TestFormatSourceContext_Tabs(t *testing.T) {
	styles := pretty.NewStyles(false)

	result := styles.FormatSourceContext("\tx $y", 4)
	assert.Equal(t, "            x $y\n              ^\n", result)

	result = styles.FormatSourceContext("ab\t$y", 4)
	assert.Equal(t, "        ab  $y\n            ^\n", result)
}

func TestFormatSourceContext_TabsWithColor(t *testing.T) {
	styles := pretty.NewStyles(true)

	result := styles.FormatSourceContext("\t\t$y", 3)
	assert.NotContains(t, result, "\t")

	lines := strings.Split(strings.TrimSuffix(result, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[1], "        "+strings.Repeat(" ", 8)))
}

func TestFormatSourceContext_ColumnOutOfRange(t *testing.T) {
	styles := pretty.NewStyles(false)

	result := styles.FormatSourceContext("abc", 10)
	assert.Equal(t, "        abc\n", result)
}

func TestFormatSeverity(t *testing.T) {
	styles := pretty.NewStyles(false)

	tests := []struct {
		severity document.Severity
		want     string
	}{
		{document.SeverityWarning, "warning"},
		{document.SeverityInfo, "info"},
		{document.Severity("custom"), "custom"},
	}

	for _, tt := range tests {
		t.Run(string(tt.severity), func(t *testing.T) {
			assert.Equal(t, tt.want, styles.FormatSeverity(tt.severity))
		})
	}
}

func TestFormatFileHeader(t *testing.T) {
	styles := pretty.NewStyles(false)

	assert.Equal(t, "doc.md", styles.FormatFileHeader("doc.md", 0))
	assert.Equal(t, "doc.md (1 issue)", styles.FormatFileHeader("doc.md", 1))
	assert.Equal(t, "doc.md (3 issues)", styles.FormatFileHeader("doc.md", 3))
}

func TestFormatSpan(t *testing.T) {
	styles := pretty.NewStyles(false)

	tests := []struct {
		name string
		span document.Span
		want string
	}{
		{
			name: "inline",
			span: document.Span{Kind: mathspan.KindInline, Content: "x + y", Position: document.Position{Line: 1, Column: 5}},
			want: "  1:5  inline   x + y\n",
		},
		{
			name: "display",
			span: document.Span{Kind: mathspan.KindInline, Display: true, Content: "z", Position: document.Position{Line: 2, Column: 1}},
			want: "  2:1  display  z\n",
		},
		{
			name: "block",
			span: document.Span{Kind: mathspan.KindBlock, Display: true, Content: "a\nb", Position: document.Position{Line: 3, Column: 1}},
			want: "  3:1  block    a b\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, styles.FormatSpan(tt.span))
		})
	}
}
