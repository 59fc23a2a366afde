// Package reporter writes check results as styled text, JSON or summary
// tables.
package reporter

import (
	"context"
	"fmt"

	"github.com/yaklabco/gomdmath/pkg/analysis"
	"github.com/yaklabco/gomdmath/pkg/runner"
)

// Compile-time interface check for reporterFacade.
var _ Reporter = (*reporterFacade)(nil)

// Reporter formats and writes check results.
type Reporter interface {
	// Report writes formatted output for the given result.
	// It returns the number of issues reported and any write errors.
	Report(ctx context.Context, result *runner.Result) (int, error)
}

// reporterFacade bridges the Reporter interface to Renderer implementations.
type reporterFacade struct {
	renderer     Renderer
	analysisOpts analysis.Options
}

// Report implements Reporter by analyzing the result and rendering it.
func (f *reporterFacade) Report(ctx context.Context, result *runner.Result) (int, error) {
	report := analysis.Analyze(result, f.analysisOpts)
	if err := f.renderer.Render(ctx, report); err != nil {
		return 0, fmt.Errorf("render: %w", err)
	}
	return report.Totals.Issues, nil
}

// newRendererFacade creates a facade wrapping a Renderer.
func newRendererFacade(renderer Renderer, opts Options) *reporterFacade {
	sortBy := opts.SortBy
	if !sortBy.IsValid() {
		sortBy = analysis.SortByCount
	}
	return &reporterFacade{
		renderer: renderer,
		analysisOpts: analysis.Options{
			IncludeByFile: true,
			IncludeByRule: true,
			SortBy:        sortBy,
			SortDesc:      true,
			WorkingDir:    opts.WorkingDir,
		},
	}
}

// New creates a Reporter for the specified options.
//
//nolint:ireturn // Callers select the implementation by format.
func New(opts Options) (Reporter, error) {
	if opts.Writer == nil {
		opts.Writer = DefaultOptions().Writer
	}

	format := opts.Format
	if format == "" {
		format = FormatText
	}

	switch format {
	case FormatJSON:
		return NewJSONReporter(opts), nil
	case FormatText:
		return NewTextReporter(opts), nil
	case FormatSummary:
		return newRendererFacade(NewSummaryRenderer(opts), opts), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}
