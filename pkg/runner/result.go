package runner

import (
	"github.com/yaklabco/gomdmath/pkg/document"
)

// FileOutcome is the result of processing one file.
type FileOutcome struct {
	// Path is the file path that was processed.
	Path string

	// OutputPath is where rendered HTML goes. Empty in check mode.
	OutputPath string

	// Document holds spans, diagnostics and (when rendering) HTML.
	// Nil if the file could not be processed.
	Document *document.Document

	// Written is true when OutputPath was created or changed.
	Written bool

	// Unchanged is true when OutputPath already held the rendered HTML.
	Unchanged bool

	// Error is set if the file could not be processed.
	Error error
}

// Stats captures aggregate information about a run.
type Stats struct {
	// FilesDiscovered is the total number of files found during discovery.
	FilesDiscovered int

	// FilesProcessed is the number of files successfully processed.
	FilesProcessed int

	// FilesErrored is the number of files that encountered errors.
	FilesErrored int

	// FilesWritten is the number of output files created or changed.
	FilesWritten int

	// FilesUnchanged is the number of output files already up to date.
	FilesUnchanged int

	// InlineSpans counts inline math spans, display-marked ones included.
	InlineSpans int

	// BlockSpans counts fenced math blocks.
	BlockSpans int

	// DiagnosticsTotal is the total number of diagnostics across all files.
	DiagnosticsTotal int

	// DiagnosticsBySeverity maps severity levels to counts.
	DiagnosticsBySeverity map[document.Severity]int

	// FilesWithIssues is the number of files with at least one diagnostic.
	FilesWithIssues int
}

// Result is the overall runner result.
type Result struct {
	// Files contains the outcome for each processed file.
	// Files are ordered deterministically (by path).
	Files []FileOutcome

	// Stats contains aggregate statistics for the run.
	Stats Stats
}

// HasWarnings reports whether any warning diagnostics occurred.
func (r *Result) HasWarnings() bool {
	if r == nil {
		return false
	}
	return r.Stats.DiagnosticsBySeverity[document.SeverityWarning] > 0
}

// HasIssues reports whether any diagnostics were found.
func (r *Result) HasIssues() bool {
	if r == nil {
		return false
	}
	return r.Stats.DiagnosticsTotal > 0
}

// HasErrors reports whether any file failed to process.
func (r *Result) HasErrors() bool {
	if r == nil {
		return false
	}
	return r.Stats.FilesErrored > 0
}

// newStats creates a new Stats with initialized maps.
func newStats() Stats {
	return Stats{
		DiagnosticsBySeverity: make(map[document.Severity]int),
	}
}

// accumulate updates the result with a file outcome.
func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesErrored++
		return
	}

	if outcome.Document == nil {
		return
	}

	r.Stats.FilesProcessed++

	switch {
	case outcome.Written:
		r.Stats.FilesWritten++
	case outcome.Unchanged:
		r.Stats.FilesUnchanged++
	}

	inline, block := outcome.Document.CountSpans()
	r.Stats.InlineSpans += inline
	r.Stats.BlockSpans += block

	diagCount := len(outcome.Document.Diagnostics)
	r.Stats.DiagnosticsTotal += diagCount
	if diagCount > 0 {
		r.Stats.FilesWithIssues++
	}

	for _, diag := range outcome.Document.Diagnostics {
		severity := diag.Severity
		if severity == "" {
			severity = document.SeverityWarning
		}
		r.Stats.DiagnosticsBySeverity[severity]++
	}
}
