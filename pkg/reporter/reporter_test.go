package reporter_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gomdmath/pkg/config"
	"github.com/yaklabco/gomdmath/pkg/document"
	"github.com/yaklabco/gomdmath/pkg/goldmath"
	"github.com/yaklabco/gomdmath/pkg/mathspan"
	"github.com/yaklabco/gomdmath/pkg/reporter"
	"github.com/yaklabco/gomdmath/pkg/runner"
)

// createTestResult inspects two small documents: one clean, one with an
// unmatched delimiter, plus a file that failed to read.
func createTestResult(t *testing.T) *runner.Result {
	t.Helper()

	ext, err := goldmath.New()
	require.NoError(t, err)
	conv := document.New(config.FlavorCommonMark, ext)

	clean, err := conv.Inspect(context.Background(), "/work/clean.md", []byte("Sum $x$.\n\n$$\ny\n$$\n"))
	require.NoError(t, err)
	broken, err := conv.Inspect(context.Background(), "/work/test.md", []byte("# Title\n\nCosts $5 today.\n"))
	require.NoError(t, err)

	return &runner.Result{
		Files: []runner.FileOutcome{
			{Path: "/work/clean.md", Document: clean},
			{Path: "/work/test.md", Document: broken},
			{Path: "/work/locked.md", Error: errors.New("permission denied")},
		},
		Stats: runner.Stats{
			FilesProcessed:        2,
			FilesErrored:          1,
			FilesWithIssues:       1,
			InlineSpans:           1,
			BlockSpans:            1,
			DiagnosticsTotal:      1,
			DiagnosticsBySeverity: map[document.Severity]int{document.SeverityWarning: 1},
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    reporter.Format
		wantErr bool
	}{
		{name: "empty defaults to text", input: "", want: reporter.FormatText},
		{name: "text", input: "text", want: reporter.FormatText},
		{name: "json", input: "json", want: reporter.FormatJSON},
		{name: "summary", input: "summary", want: reporter.FormatSummary},
		{name: "unknown format", input: "sarif", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := reporter.ParseFormat(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormat_IsValid(t *testing.T) {
	assert.True(t, reporter.FormatText.IsValid())
	assert.True(t, reporter.FormatJSON.IsValid())
	assert.True(t, reporter.FormatSummary.IsValid())
	assert.False(t, reporter.Format("diff").IsValid())
	assert.False(t, reporter.Format("").IsValid())
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		format  reporter.Format
		wantErr bool
	}{
		{name: "text reporter", format: reporter.FormatText},
		{name: "json reporter", format: reporter.FormatJSON},
		{name: "summary reporter", format: reporter.FormatSummary},
		{name: "empty defaults to text", format: ""},
		{name: "unknown format", format: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			rep, err := reporter.New(reporter.Options{Writer: &buf, Format: tt.format, Color: "never"})
			if tt.wantErr {
				require.Error(t, err)
				require.Nil(t, rep)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, rep)
		})
	}
}

func TestTextReporter_NilResult(t *testing.T) {
	var buf bytes.Buffer
	rep := reporter.NewTextReporter(reporter.Options{
		Writer:      &buf,
		Color:       "never",
		ShowSummary: true,
	})

	count, err := rep.Report(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Contains(t, buf.String(), "No files to check")
}

func TestTextReporter_WithDiagnostics(t *testing.T) {
	var buf bytes.Buffer
	rep := reporter.NewTextReporter(reporter.Options{
		Writer:      &buf,
		Color:       "never",
		ShowSummary: true,
		ShowContext: true,
		WorkingDir:  "/work",
	})

	count, err := rep.Report(context.Background(), createTestResult(t))
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	output := buf.String()
	assert.Contains(t, output, "test.md (1 issue)")
	assert.Contains(t, output, "test.md:3:7  warning")
	assert.Contains(t, output, "(unmatched-delimiter)")
	assert.Contains(t, output, "        Costs $5 today.\n")
	assert.Contains(t, output, "locked.md: error: permission denied")
	assert.NotContains(t, output, "clean.md", "clean files are not listed")
	assert.Contains(t, output, "1 issue (1 warning) in 1 file")
}

func TestTextReporter_ShowSpans(t *testing.T) {
	var buf bytes.Buffer
	rep := reporter.NewTextReporter(reporter.Options{
		Writer:     &buf,
		Color:      "never",
		ShowSpans:  true,
		WorkingDir: "/work",
	})

	_, err := rep.Report(context.Background(), createTestResult(t))
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "clean.md\n")
	assert.Contains(t, output, "  1:5  inline   x\n")
	assert.Contains(t, output, "  3:1  block    y\n")
}

func TestTextReporter_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	rep := reporter.NewTextReporter(reporter.Options{Writer: &buf, Color: "never"})

	_, err := rep.Report(ctx, createTestResult(t))
	require.ErrorIs(t, err, context.Canceled)
}

func TestJSONReporter_NilResult(t *testing.T) {
	var buf bytes.Buffer
	rep := reporter.NewJSONReporter(reporter.Options{Writer: &buf})

	count, err := rep.Report(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	// Should still produce valid JSON
	var output reporter.JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &output))
	assert.Equal(t, reporter.JSONVersion, output.Version)
	assert.Empty(t, output.Files)
}

func TestJSONReporter_WithDiagnostics(t *testing.T) {
	var buf bytes.Buffer
	rep := reporter.NewJSONReporter(reporter.Options{Writer: &buf, WorkingDir: "/work"})

	count, err := rep.Report(context.Background(), createTestResult(t))
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	var output reporter.JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &output))

	require.Len(t, output.Files, 3)
	assert.Equal(t, "clean.md", output.Files[0].Path)
	require.Len(t, output.Files[0].Spans, 2)
	assert.Equal(t, mathspan.KindBlock, output.Files[0].Spans[1].Kind)

	diags := output.Files[1].Diagnostics
	require.Len(t, diags, 1)
	assert.Equal(t, document.RuleUnmatchedDelimiter, diags[0].Rule)
	assert.Equal(t, document.Position{Line: 3, Column: 7}, diags[0].Position)

	assert.Equal(t, "permission denied", output.Files[2].Error)

	assert.Equal(t, 3, output.Summary.FilesChecked)
	assert.Equal(t, 1, output.Summary.FilesWithIssues)
	assert.Equal(t, 1, output.Summary.FilesErrored)
	assert.Equal(t, 1, output.Summary.InlineSpans)
	assert.Equal(t, 1, output.Summary.BlockSpans)
	assert.Equal(t, map[string]int{"warning": 1}, output.Summary.BySeverity)

	assert.Contains(t, buf.String(), `"kind": "inline"`)
}

func TestJSONReporter_Compact(t *testing.T) {
	var buf bytes.Buffer
	rep := reporter.NewJSONReporter(reporter.Options{Writer: &buf, Compact: true})

	_, err := rep.Report(context.Background(), createTestResult(t))
	require.NoError(t, err)

	// Compact output should be a single line
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 1)
}

func TestSummaryReporter(t *testing.T) {
	var buf bytes.Buffer
	rep, err := reporter.New(reporter.Options{
		Writer:     &buf,
		Format:     reporter.FormatSummary,
		Color:      "never",
		WorkingDir: "/work",
	})
	require.NoError(t, err)

	count, err := rep.Report(context.Background(), createTestResult(t))
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	output := buf.String()
	assert.Contains(t, output, "Files Summary")
	assert.Contains(t, output, "Rules Summary")
	assert.Contains(t, output, "unmatched-delimiter")
	assert.Contains(t, output, "1 failed")
}
