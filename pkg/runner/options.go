// Package runner renders or checks many Markdown files concurrently.
package runner

import (
	"github.com/yaklabco/gomdmath/pkg/config"
)

// Mode selects what the runner does with each file.
type Mode int

const (
	// ModeRender converts each file to HTML and writes the result.
	ModeRender Mode = iota

	// ModeCheck only inspects files for spans and diagnostics.
	ModeCheck
)

// String returns the mode name.
func (m Mode) String() string {
	if m == ModeCheck {
		return "check"
	}
	return "render"
}

// Options controls a multi-file run.
type Options struct {
	// Paths are the user-specified paths (files or directories) to process.
	// If empty, defaults to the current working directory.
	Paths []string

	// WorkingDir is the base directory used to resolve relative Paths.
	// If empty, the current process working directory is used.
	WorkingDir string

	// Extensions is the set of file extensions (lowercase, with leading dot)
	// considered Markdown. Defaults to [".md", ".markdown"] via DefaultExtensions().
	Extensions []string

	// ExcludeGlobs are glob patterns used to skip files or directories.
	// These merge ignore rules from config and CLI (e.g. --ignore).
	ExcludeGlobs []string

	// FollowSymlinks controls whether directory symlinks are traversed.
	FollowSymlinks bool

	// Jobs controls the maximum number of concurrent workers.
	// 0 or negative means "auto" (runtime.NumCPU()).
	Jobs int

	// Mode selects rendering or checking.
	Mode Mode

	// OutputDir receives rendered files, mirroring their path relative to
	// WorkingDir. Empty writes next to each input.
	OutputDir string

	// OutputExtension replaces the input extension. Defaults to ".html".
	OutputExtension string

	// DryRun renders without writing. Outcomes still carry the HTML.
	DryRun bool
}

// OptionsFromConfig builds Options for paths from a resolved configuration.
func OptionsFromConfig(cfg *config.Config, paths []string, mode Mode) Options {
	opts := Options{
		Paths: paths,
		Mode:  mode,
	}
	if cfg == nil {
		return opts
	}

	opts.ExcludeGlobs = append([]string(nil), cfg.Ignore...)
	opts.Jobs = cfg.Jobs
	opts.OutputDir = cfg.Output.Dir
	opts.OutputExtension = cfg.Output.Extension
	opts.DryRun = cfg.DryRun || cfg.Stdout

	return opts
}

// DefaultExtensions returns the default set of Markdown file extensions.
func DefaultExtensions() []string {
	return []string{".md", ".markdown"}
}

// effectiveExtensions returns the extensions to use, defaulting if empty.
func (o Options) effectiveExtensions() []string {
	if len(o.Extensions) == 0 {
		return DefaultExtensions()
	}
	return o.Extensions
}

// effectivePaths returns the paths to process, defaulting to "." if empty.
func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}

func (o Options) effectiveOutputExtension() string {
	if o.OutputExtension == "" {
		return config.DefaultOutputExt
	}
	return o.OutputExtension
}
