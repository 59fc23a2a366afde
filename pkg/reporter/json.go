package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/gomdmath/pkg/document"
	"github.com/yaklabco/gomdmath/pkg/runner"
)

// JSONVersion is the version of the JSON output format.
const JSONVersion = "1.0.0"

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version string           `json:"version"`
	Files   []JSONFileResult `json:"files"`
	Summary JSONSummary      `json:"summary"`
}

// JSONFileResult represents a single file's results.
type JSONFileResult struct {
	Path        string                `json:"path"`
	Spans       []document.Span       `json:"spans"`
	Diagnostics []document.Diagnostic `json:"diagnostics"`
	Error       string                `json:"error,omitempty"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	FilesChecked    int            `json:"filesChecked"`
	FilesWithIssues int            `json:"filesWithIssues"`
	FilesErrored    int            `json:"filesErrored"`
	InlineSpans     int            `json:"inlineSpans"`
	BlockSpans      int            `json:"blockSpans"`
	TotalIssues     int            `json:"totalIssues"`
	BySeverity      map[string]int `json:"bySeverity"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := r.buildOutput(result)

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return output.Summary.TotalIssues, nil
}

func (r *JSONReporter) buildOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{
		Version: JSONVersion,
		Files:   make([]JSONFileResult, 0),
		Summary: JSONSummary{
			BySeverity: make(map[string]int),
		},
	}

	if result == nil {
		return output
	}

	for _, file := range result.Files {
		fileResult := JSONFileResult{
			Path:        displayPath(file.Path, r.opts.WorkingDir),
			Spans:       make([]document.Span, 0),
			Diagnostics: make([]document.Diagnostic, 0),
		}

		if file.Error != nil {
			fileResult.Error = file.Error.Error()
			output.Summary.FilesErrored++
		}

		if doc := file.Document; doc != nil {
			fileResult.Spans = append(fileResult.Spans, doc.Spans...)
			fileResult.Diagnostics = append(fileResult.Diagnostics, doc.Diagnostics...)

			inline, block := doc.CountSpans()
			output.Summary.InlineSpans += inline
			output.Summary.BlockSpans += block

			for _, diag := range doc.Diagnostics {
				severity := diag.Severity
				if severity == "" {
					severity = document.SeverityWarning
				}
				output.Summary.BySeverity[string(severity)]++
				output.Summary.TotalIssues++
			}
		}

		if len(fileResult.Diagnostics) > 0 {
			output.Summary.FilesWithIssues++
		}

		output.Files = append(output.Files, fileResult)
		output.Summary.FilesChecked++
	}

	return output
}
