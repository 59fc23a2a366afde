// Package config defines core configuration types for gomdmath.
// These types are pure data structures with no dependency on any loader.
package config

import "time"

// Flavor specifies the Markdown flavor to use for parsing.
type Flavor string

const (
	FlavorCommonMark Flavor = "commonmark"
	FlavorGFM        Flavor = "gfm"
)

// EngineName identifies a typesetting engine.
type EngineName string

const (
	// EngineKaTeX runs the katex command line tool.
	EngineKaTeX EngineName = "katex"
	// EnginePlain emits escaped math for client-side rendering.
	EnginePlain EngineName = "plain"
)

// OutputFormat specifies the output format for check results.
type OutputFormat string

const (
	FormatText    OutputFormat = "text"
	FormatJSON    OutputFormat = "json"
	FormatSummary OutputFormat = "summary"
)

// Defaults.
const (
	DefaultDelimiter     = "$"
	DefaultKaTeXCommand  = "katex"
	DefaultEngineTimeout = 10 * time.Second
	DefaultPolicy        = "inline-style"
	DefaultInlineClass   = "inline"
	DefaultUtilityClass  = "hidden"
	DefaultOutputExt     = ".html"
)

// EngineConfig configures the typesetting engine.
type EngineConfig struct {
	// Name selects the engine ("katex" or "plain").
	Name EngineName `yaml:"name"`

	// Command is the executable run by the katex engine.
	Command string `yaml:"command"`

	// Args are extra arguments passed to the command.
	Args []string `yaml:"args"`

	// Timeout bounds a single typesetting call.
	Timeout time.Duration `yaml:"timeout"`

	// Cache memoizes rendered markup per formula.
	Cache *bool `yaml:"cache,omitempty"`
}

// CacheEnabled reports whether rendered markup should be memoized.
// Caching is on unless explicitly disabled.
func (e EngineConfig) CacheEnabled() bool {
	return e.Cache == nil || *e.Cache
}

// NormalizeConfig configures the post-render markup normalizer.
type NormalizeConfig struct {
	// Policy is "inline-style" or "utility-class".
	Policy string `yaml:"policy"`

	// InlineClass is the marker class removed from hidden elements.
	InlineClass string `yaml:"inline_class"`

	// UtilityClass is added to hidden elements under the utility-class policy.
	UtilityClass string `yaml:"utility_class"`
}

// OutputConfig controls where rendered HTML is written.
type OutputConfig struct {
	// Dir is the output directory. Empty writes next to each input file.
	Dir string `yaml:"dir"`

	// Extension replaces the input file extension.
	Extension string `yaml:"extension"`
}

// Config is the root configuration structure for gomdmath.
type Config struct {
	// Flavor specifies the Markdown flavor ("commonmark" or "gfm").
	Flavor Flavor `yaml:"flavor"`

	// Delimiter is the math delimiter character. Must be exactly one character.
	Delimiter string `yaml:"delimiter"`

	// Engine configures the typesetting engine.
	Engine EngineConfig `yaml:"engine"`

	// Normalize configures markup normalization.
	Normalize NormalizeConfig `yaml:"normalize"`

	// Output configures rendered file placement.
	Output OutputConfig `yaml:"output"`

	// Ignore contains glob patterns for files to ignore.
	Ignore []string `yaml:"ignore"`

	// CLI-level options (not persisted to config files).

	// Jobs specifies the number of parallel workers.
	Jobs int `yaml:"-"`

	// Stdout writes rendered HTML to standard output instead of files.
	Stdout bool `yaml:"-"`

	// DryRun renders without writing any file.
	DryRun bool `yaml:"-"`

	// Format specifies the check output format.
	Format OutputFormat `yaml:"-"`

	// Strict makes informational diagnostics fail a check run.
	Strict bool `yaml:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Flavor:    FlavorCommonMark,
		Delimiter: DefaultDelimiter,
		Engine: EngineConfig{
			Name:    EngineKaTeX,
			Command: DefaultKaTeXCommand,
			Timeout: DefaultEngineTimeout,
		},
		Normalize: NormalizeConfig{
			Policy:       DefaultPolicy,
			InlineClass:  DefaultInlineClass,
			UtilityClass: DefaultUtilityClass,
		},
		Output: OutputConfig{
			Extension: DefaultOutputExt,
		},
		Format: FormatText,
		Jobs:   0, // 0 means use NumCPU
	}
}
