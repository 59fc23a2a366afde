package analysis

import "time"

// Report contains pre-computed views of check results.
// Computed once by Analyze(), used by all renderers.
type Report struct {
	// Diagnostics is the flat list for detailed output.
	Diagnostics []DiagnosticEntry `json:"diagnostics,omitempty"`

	// ByFile groups spans and diagnostics by file path.
	ByFile []FileAnalysis `json:"byFile,omitempty"`

	// ByRule groups diagnostics by rule.
	ByRule []RuleAnalysis `json:"byRule,omitempty"`

	// Totals contains aggregate statistics.
	Totals Totals `json:"summary"`

	// Version is the report format version.
	Version string `json:"version"`

	// Timestamp is when the analysis was performed.
	Timestamp time.Time `json:"timestamp"`
}

// DiagnosticEntry represents a single diagnostic in the report.
type DiagnosticEntry struct {
	FilePath string `json:"filePath"`
	Rule     string `json:"rule"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
}

// Totals contains aggregate statistics for the report.
type Totals struct {
	Files           int `json:"filesChecked"`
	FilesWithIssues int `json:"filesWithIssues"`
	FilesErrored    int `json:"filesErrored"`
	InlineSpans     int `json:"inlineSpans"`
	BlockSpans      int `json:"blockSpans"`
	Issues          int `json:"totalIssues"`
	Warnings        int `json:"warnings"`
	Infos           int `json:"infos"`
}

// HasIssues returns true if there are any issues.
func (t Totals) HasIssues() bool {
	return t.Issues > 0
}

// HasWarnings returns true if there are any warnings.
func (t Totals) HasWarnings() bool {
	return t.Warnings > 0
}

// FileAnalysis contains aggregated data for a single file.
type FileAnalysis struct {
	Path        string   `json:"path"`
	InlineSpans int      `json:"inlineSpans"`
	BlockSpans  int      `json:"blockSpans"`
	Issues      int      `json:"issues"`
	Warnings    int      `json:"warnings"`
	Infos       int      `json:"infos"`
	Rules       []string `json:"rules,omitempty"`
}

// RuleAnalysis contains aggregated data for a single rule.
type RuleAnalysis struct {
	Rule     string   `json:"rule"`
	Issues   int      `json:"issues"`
	Warnings int      `json:"warnings"`
	Infos    int      `json:"infos"`
	Files    []string `json:"files,omitempty"`
}
