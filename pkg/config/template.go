package config

import (
	"bytes"
	"fmt"
	"strings"
)

// templateHeader is written at the top of generated configuration files.
const templateHeader = `# gomdmath configuration
# Precedence: CLI flags > GOMDMATH_* environment > this file > user config > defaults.
`

// fieldComments documents the top-level keys of a generated template.
//
//nolint:gochecknoglobals // Read-only lookup table.
var fieldComments = map[string]string{
	"flavor":    "Markdown flavor: commonmark or gfm.",
	"delimiter": "Math delimiter character. Single for inline math, doubled for display math.",
	"engine":    "Typesetting engine: katex runs the katex CLI, plain emits escaped TeX for client-side rendering.",
	"normalize": "Accessibility markup rewrite: inline-style adds display:none, utility-class adds a class.",
	"output":    "Output directory (empty writes next to the input) and file extension.",
	"ignore":    "Glob patterns for files to skip.",
}

// GenerateTemplate renders cfg as commented YAML suitable for a project
// configuration file.
func GenerateTemplate(cfg *Config) ([]byte, error) {
	if cfg == nil {
		cfg = NewConfig()
	}

	body, err := cfg.ToYAMLWithHeader(templateHeader)
	if err != nil {
		return nil, fmt.Errorf("render template: %w", err)
	}

	var buf bytes.Buffer
	prev := ""
	for _, line := range strings.SplitAfter(string(body), "\n") {
		if line == "" {
			continue
		}
		if key, ok := topLevelKey(line); ok {
			if comment, found := fieldComments[key]; found {
				if prev != "\n" {
					buf.WriteString("\n")
				}
				buf.WriteString("# " + comment + "\n")
			}
		}
		buf.WriteString(line)
		prev = line
	}

	return buf.Bytes(), nil
}

// topLevelKey returns the key of an unindented "key:" YAML line.
func topLevelKey(line string) (string, bool) {
	if line == "" || line[0] == ' ' || line[0] == '#' || line[0] == '-' {
		return "", false
	}
	key, _, found := strings.Cut(line, ":")
	return key, found
}
