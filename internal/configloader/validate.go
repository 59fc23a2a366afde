package configloader

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/yaklabco/gomdmath/pkg/config"
	"github.com/yaklabco/gomdmath/pkg/mathspan"
	"github.com/yaklabco/gomdmath/pkg/normalize"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "engine.timeout").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string

	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}

	if e.Field != "" {
		parts = append(parts, e.Field)
	}

	parts = append(parts, e.Message)

	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues.
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are any warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

func (r *ValidationResult) fail(field string, value any, format string, args ...any) {
	r.Errors = append(r.Errors, ValidationError{
		Field:   field,
		Value:   value,
		Message: fmt.Sprintf(format, args...),
	})
}

func (r *ValidationResult) warn(field string, value any, format string, args ...any) {
	r.Warnings = append(r.Warnings, ValidationError{
		Field:   field,
		Value:   value,
		Message: fmt.Sprintf(format, args...),
	})
}

// knownFlavors lists valid flavor values.
//
//nolint:gochecknoglobals // Read-only lookup table.
var knownFlavors = map[config.Flavor]bool{
	config.FlavorCommonMark: true,
	config.FlavorGFM:        true,
}

// knownEngines lists valid engine names.
//
//nolint:gochecknoglobals // Read-only lookup table.
var knownEngines = map[config.EngineName]bool{
	config.EngineKaTeX: true,
	config.EnginePlain: true,
}

// knownFormats lists valid output format values.
//
//nolint:gochecknoglobals // Read-only lookup table.
var knownFormats = map[config.OutputFormat]bool{
	config.FormatText:    true,
	config.FormatJSON:    true,
	config.FormatSummary: true,
}

// Validate checks a configuration for errors and warnings. Empty fields
// count as unset and are not reported.
func Validate(cfg *config.Config) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	if cfg.Flavor != "" && !knownFlavors[cfg.Flavor] {
		result.fail("flavor", cfg.Flavor, "invalid flavor %q; must be one of: commonmark, gfm", cfg.Flavor)
	}

	if cfg.Delimiter != "" {
		if _, err := mathspan.NewDelimiter(cfg.Delimiter); err != nil {
			result.fail("delimiter", cfg.Delimiter, "%v", err)
		}
	}

	validateEngine(cfg.Engine, result)
	validateNormalize(cfg.Normalize, result)

	if ext := cfg.Output.Extension; ext != "" && !strings.HasPrefix(ext, ".") {
		result.fail("output.extension", ext, "extension %q must start with a dot", ext)
	}

	if cfg.Format != "" && !knownFormats[cfg.Format] {
		result.fail("format", cfg.Format, "invalid format %q; must be one of: text, json, summary", cfg.Format)
	}

	if cfg.Jobs < 0 {
		result.fail("jobs", cfg.Jobs, "jobs must be >= 0 (0 means auto)")
	}

	validateIgnorePatterns(cfg, result)

	return result
}

func validateEngine(engine config.EngineConfig, result *ValidationResult) {
	if engine.Name != "" && !knownEngines[engine.Name] {
		result.fail("engine.name", engine.Name, "invalid engine %q; must be one of: katex, plain", engine.Name)
	}

	if engine.Timeout < 0 {
		result.fail("engine.timeout", engine.Timeout, "timeout must not be negative")
	}

	if engine.Name == config.EnginePlain && engine.Command != "" && engine.Command != config.DefaultKaTeXCommand {
		result.warn("engine.command", engine.Command, "command is ignored by the plain engine")
	}
}

func validateNormalize(norm config.NormalizeConfig, result *ValidationResult) {
	if norm.Policy != "" {
		if _, err := normalize.ParsePolicy(norm.Policy); err != nil {
			result.fail("normalize.policy", norm.Policy, "%v; must be one of: inline-style, utility-class", err)
		}
	}

	classes := []struct{ field, class string }{
		{"normalize.inline_class", norm.InlineClass},
		{"normalize.utility_class", norm.UtilityClass},
	}
	for _, c := range classes {
		if strings.ContainsFunc(c.class, isClassSeparator) {
			result.fail(c.field, c.class, "class %q must be a single class name", c.class)
		}
	}

	if norm.InlineClass != "" && norm.InlineClass == norm.UtilityClass {
		result.warn("normalize.utility_class", norm.UtilityClass,
			"utility class equals the inline class; hidden elements keep their marker")
	}
}

func isClassSeparator(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f'
}

// validateIgnorePatterns checks that ignore patterns are valid globs.
func validateIgnorePatterns(cfg *config.Config, result *ValidationResult) {
	for i, pattern := range cfg.Ignore {
		// filepath.Match returns an error only for malformed patterns
		if _, err := filepath.Match(pattern, ""); err != nil {
			result.fail(fmt.Sprintf("ignore[%d]", i), pattern, "invalid glob pattern: %v", err)
		}
	}
}

// ValidateWithFile validates configuration and includes file path in errors.
func ValidateWithFile(cfg *config.Config, filePath string) *ValidationResult {
	result := Validate(cfg)

	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}

	return result
}

// IsValidFlavor returns true if the flavor is valid.
func IsValidFlavor(f config.Flavor) bool {
	return knownFlavors[f]
}

// IsValidFormat returns true if the format is valid.
func IsValidFormat(f config.OutputFormat) bool {
	return knownFormats[f]
}
