// Package analysis aggregates check results into per-file and per-rule
// views for reporting.
package analysis

import (
	"cmp"
	"path/filepath"
	"slices"
	"time"

	"github.com/yaklabco/gomdmath/pkg/document"
	"github.com/yaklabco/gomdmath/pkg/runner"
)

// ReportVersion is the current report format version.
const ReportVersion = "1.0.0"

// makeRelativePath converts an absolute path to a relative path from workDir.
// If workDir is empty or conversion fails, returns the original path.
func makeRelativePath(absPath, workDir string) string {
	if workDir == "" {
		return absPath
	}
	relPath, err := filepath.Rel(workDir, absPath)
	if err != nil {
		return absPath
	}
	return relPath
}

// analysisContext holds temporary state during analysis.
type analysisContext struct {
	ruleMap   map[string]*RuleAnalysis
	fileMap   map[string]*FileAnalysis
	ruleFiles map[string]map[string]bool
	fileRules map[string]map[string]bool
}

func newAnalysisContext() *analysisContext {
	return &analysisContext{
		ruleMap:   make(map[string]*RuleAnalysis),
		fileMap:   make(map[string]*FileAnalysis),
		ruleFiles: make(map[string]map[string]bool),
		fileRules: make(map[string]map[string]bool),
	}
}

// normalizeSeverity returns the severity, defaulting to warning.
func normalizeSeverity(sev document.Severity) document.Severity {
	if sev == "" {
		return document.SeverityWarning
	}
	return sev
}

func incrementSeverityCounts(severity document.Severity, totals *Totals, fa *FileAnalysis, ra *RuleAnalysis) {
	switch severity {
	case document.SeverityWarning:
		totals.Warnings++
		fa.Warnings++
		ra.Warnings++
	case document.SeverityInfo:
		totals.Infos++
		fa.Infos++
		ra.Infos++
	}
}

func (ctx *analysisContext) getOrCreateFileAnalysis(path string) *FileAnalysis {
	if _, ok := ctx.fileMap[path]; !ok {
		ctx.fileMap[path] = &FileAnalysis{Path: path}
		ctx.fileRules[path] = make(map[string]bool)
	}
	return ctx.fileMap[path]
}

func (ctx *analysisContext) getOrCreateRuleAnalysis(rule string) *RuleAnalysis {
	if _, ok := ctx.ruleMap[rule]; !ok {
		ctx.ruleMap[rule] = &RuleAnalysis{Rule: rule}
		ctx.ruleFiles[rule] = make(map[string]bool)
	}
	return ctx.ruleMap[rule]
}

func (ctx *analysisContext) buildByRule(opts Options) []RuleAnalysis {
	result := make([]RuleAnalysis, 0, len(ctx.ruleMap))
	for rule, ra := range ctx.ruleMap {
		for f := range ctx.ruleFiles[rule] {
			ra.Files = append(ra.Files, f)
		}
		slices.Sort(ra.Files)
		result = append(result, *ra)
	}
	sortRuleAnalysis(result, opts.SortBy, opts.SortDesc)
	return result
}

// buildByFile lists every file that holds math or diagnostics.
func (ctx *analysisContext) buildByFile(opts Options) []FileAnalysis {
	var result []FileAnalysis
	for path, fa := range ctx.fileMap {
		if fa.Issues == 0 && fa.InlineSpans == 0 && fa.BlockSpans == 0 {
			continue
		}
		for r := range ctx.fileRules[path] {
			fa.Rules = append(fa.Rules, r)
		}
		slices.Sort(fa.Rules)
		result = append(result, *fa)
	}
	sortFileAnalysis(result, opts.SortBy, opts.SortDesc)
	return result
}

// Analyze transforms a runner.Result into a Report.
// It performs a single pass through spans and diagnostics to compute
// all views.
func Analyze(result *runner.Result, opts Options) *Report {
	report := &Report{
		Version:   ReportVersion,
		Timestamp: time.Now(),
	}

	if result == nil {
		return report
	}

	ctx := newAnalysisContext()

	for _, file := range result.Files {
		report.Totals.Files++
		if file.Error != nil {
			report.Totals.FilesErrored++
			continue
		}
		if file.Document == nil {
			continue
		}
		doc := file.Document
		if len(doc.Diagnostics) > 0 {
			report.Totals.FilesWithIssues++
		}

		displayPath := makeRelativePath(file.Path, opts.WorkingDir)
		fa := ctx.getOrCreateFileAnalysis(displayPath)

		inline, block := doc.CountSpans()
		fa.InlineSpans += inline
		fa.BlockSpans += block
		report.Totals.InlineSpans += inline
		report.Totals.BlockSpans += block

		for _, diag := range doc.Diagnostics {
			report.Totals.Issues++
			severity := normalizeSeverity(diag.Severity)

			ra := ctx.getOrCreateRuleAnalysis(diag.Rule)
			ra.Issues++
			fa.Issues++
			incrementSeverityCounts(severity, &report.Totals, fa, ra)

			ctx.fileRules[displayPath][diag.Rule] = true
			ctx.ruleFiles[diag.Rule][displayPath] = true

			if opts.IncludeDiagnostics {
				report.Diagnostics = append(report.Diagnostics, DiagnosticEntry{
					FilePath: displayPath,
					Rule:     diag.Rule,
					Severity: string(severity),
					Message:  diag.Message,
					Line:     diag.Line,
					Column:   diag.Column,
				})
			}
		}
	}

	if opts.IncludeByRule {
		report.ByRule = ctx.buildByRule(opts)
	}
	if opts.IncludeByFile {
		report.ByFile = ctx.buildByFile(opts)
	}

	return report
}

func sortRuleAnalysis(rules []RuleAnalysis, sortBy SortField, desc bool) {
	slices.SortFunc(rules, func(left, right RuleAnalysis) int {
		var result int
		switch sortBy {
		case SortByAlpha:
			// Alphabetical sorting is always ascending (A-Z)
			return cmp.Compare(left.Rule, right.Rule)
		case SortBySeverity:
			// Warnings first, then infos (always descending by severity)
			result = cmp.Compare(right.Warnings, left.Warnings)
			if result == 0 {
				result = cmp.Compare(right.Issues, left.Issues)
			}
		default: // SortByCount
			result = cmp.Compare(left.Issues, right.Issues)
			if desc {
				result = -result
			}
		}
		if result == 0 {
			result = cmp.Compare(left.Rule, right.Rule)
		}
		return result
	})
}

func sortFileAnalysis(files []FileAnalysis, sortBy SortField, desc bool) {
	slices.SortFunc(files, func(left, right FileAnalysis) int {
		var result int
		switch sortBy {
		case SortByAlpha:
			// Alphabetical sorting is always ascending (A-Z)
			return cmp.Compare(left.Path, right.Path)
		case SortBySeverity:
			// Warnings first, then infos (always descending by severity)
			result = cmp.Compare(right.Warnings, left.Warnings)
			if result == 0 {
				result = cmp.Compare(right.Issues, left.Issues)
			}
		default: // SortByCount
			result = cmp.Compare(left.Issues, right.Issues)
			if desc {
				result = -result
			}
		}
		if result == 0 {
			result = cmp.Compare(left.Path, right.Path)
		}
		return result
	})
}
