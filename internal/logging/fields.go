// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
// Using constants prevents typos and enables IDE autocomplete.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldInput      = "input"
	FieldOutput     = "output"
	FieldWorkingDir = "working_dir"
	FieldMode       = "mode"
	FieldWritten    = "written"

	// Configuration fields.
	FieldFlavor    = "flavor"
	FieldDelimiter = "delimiter"
	FieldEngine    = "engine"
	FieldPolicy    = "policy"
	FieldDryRun    = "dry_run"
	FieldJobs      = "jobs"
	FieldConfig    = "config"

	// Rule fields.
	FieldRule        = "rule"
	FieldSeverity    = "severity"
	FieldDescription = "description"

	// Statistics fields.
	FieldFilesDiscovered  = "files_discovered"
	FieldFilesProcessed   = "files_processed"
	FieldFilesWritten     = "files_written"
	FieldInlineSpans      = "inline_spans"
	FieldBlockSpans       = "block_spans"
	FieldDiagnosticsTotal = "diagnostics_total"
	FieldCacheHits        = "cache_hits"
	FieldCacheMisses      = "cache_misses"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
