package cli

import (
	"github.com/yaklabco/gomdmath/pkg/document"
	"github.com/yaklabco/gomdmath/pkg/runner"
)

// Exit codes for gomdmath.
const (
	// ExitSuccess indicates successful execution with no issues.
	ExitSuccess = 0

	// ExitWarnings indicates a check found warnings.
	ExitWarnings = 1

	// ExitStrictInfos indicates a strict check found only informational
	// diagnostics.
	ExitStrictInfos = 2

	// ExitFileErrors indicates one or more files could not be processed.
	ExitFileErrors = 3
)

// ExitCodeFromResult determines the exit code of a check run. Warnings
// always fail; informational diagnostics fail only in strict mode.
func ExitCodeFromResult(result *runner.Result, strict bool) int {
	if result == nil {
		return ExitSuccess
	}

	if result.HasErrors() {
		return ExitFileErrors
	}

	if result.Stats.DiagnosticsBySeverity[document.SeverityWarning] > 0 {
		return ExitWarnings
	}

	if strict && result.Stats.DiagnosticsBySeverity[document.SeverityInfo] > 0 {
		return ExitStrictInfos
	}

	return ExitSuccess
}

// ExitError carries the exit code of a run that completed but failed.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}
