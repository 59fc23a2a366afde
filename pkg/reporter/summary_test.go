package reporter

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gomdmath/pkg/analysis"
)

func TestSummaryRenderer_EmptyReport(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	renderer := NewSummaryRenderer(Options{Writer: &buf, Color: "never"})

	require.NoError(t, renderer.Render(context.Background(), &analysis.Report{}))
	assert.Equal(t, "No math or issues found\n", buf.String())
}

func TestSummaryRenderer_Tables(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	renderer := NewSummaryRenderer(Options{Writer: &buf, Color: "never"})

	report := &analysis.Report{
		ByFile: []analysis.FileAnalysis{
			{Path: "docs/guide.md", InlineSpans: 12, BlockSpans: 3, Issues: 2, Warnings: 1, Infos: 1},
			{Path: "README.md", InlineSpans: 4},
		},
		ByRule: []analysis.RuleAnalysis{
			{Rule: "unmatched-delimiter", Issues: 1, Warnings: 1, Files: []string{"docs/guide.md"}},
			{Rule: "tex-in-code-block", Issues: 1, Infos: 1, Files: []string{"docs/guide.md"}},
		},
		Totals: analysis.Totals{Files: 2, FilesWithIssues: 1, InlineSpans: 16, BlockSpans: 3, Issues: 2, Warnings: 1, Infos: 1},
	}

	require.NoError(t, renderer.Render(context.Background(), report))

	output := buf.String()
	filesIdx := strings.Index(output, "Files Summary")
	rulesIdx := strings.Index(output, "Rules Summary")
	require.GreaterOrEqual(t, filesIdx, 0)
	assert.Greater(t, rulesIdx, filesIdx)

	guideRow := padRight("docs/guide.md", fileColWidth) + " " +
		padLeft("12", numColWidth) + " " + padLeft("3", numColWidth) + " " +
		padLeft("2", numColWidth) + " " + padLeft("1", warnColWidth)
	assert.Contains(t, output, guideRow+"\n")

	assert.Contains(t, output, "unmatched-delimiter")
	assert.Contains(t, output, "Total: 2 issues (1 warnings, 1 info), 16 inline and 3 block spans in 2 files\n")
}

func TestSummaryRenderer_OnlySpans(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	renderer := NewSummaryRenderer(Options{Writer: &buf, Color: "never"})

	report := &analysis.Report{
		ByFile: []analysis.FileAnalysis{{Path: "a.md", InlineSpans: 1}},
		Totals: analysis.Totals{Files: 1, InlineSpans: 1},
	}
	require.NoError(t, renderer.Render(context.Background(), report))

	output := buf.String()
	assert.Contains(t, output, "Files Summary")
	assert.NotContains(t, output, "Rules Summary")
	assert.Contains(t, output, "Total: 0 issues, 1 inline and 0 block spans in 1 files")
}

func TestSummaryRenderer_TruncatesLongPaths(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	renderer := NewSummaryRenderer(Options{Writer: &buf, Color: "never"})

	long := strings.Repeat("d/", 40) + "end.md"
	report := &analysis.Report{
		ByFile: []analysis.FileAnalysis{{Path: long, InlineSpans: 1}},
		Totals: analysis.Totals{Files: 1, InlineSpans: 1},
	}
	require.NoError(t, renderer.Render(context.Background(), report))

	output := buf.String()
	assert.NotContains(t, output, long)
	assert.Contains(t, output, "…")
	assert.Contains(t, output, "end.md")
}

func TestPadding(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ab   ", padRight("ab", 5))
	assert.Equal(t, "   ab", padLeft("ab", 5))
	assert.Equal(t, "abcdef", padRight("abcdef", 3))
	assert.Equal(t, "abcdef", padLeft("abcdef", 3))
}
