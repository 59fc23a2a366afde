package runner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchGlob(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		path    string
		pattern string
		want    bool
	}{
		{"base name", "docs/a.md", "*.md", true},
		{"full path", "docs/a.md", "docs/*.md", true},
		{"slash pattern needs full path", "x/docs/a.md", "docs/*.md", false},
		{"trailing double star", "vendor/a/b.md", "vendor/**", true},
		{"trailing double star matches dir", "vendor", "vendor/**", true},
		{"leading double star", "a/b/node_modules", "**/node_modules", true},
		{"leading double star at root", "node_modules", "**/node_modules", true},
		{"middle double star", "docs/x/y/CHANGES.md", "docs/**/CHANGES.md", true},
		{"middle double star no gap", "docs/CHANGES.md", "docs/**/CHANGES.md", true},
		{"no match", "src/a.md", "docs/**", false},
		{"bad pattern", "a.md", "[", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, matchGlob(tt.path, tt.pattern))
		})
	}
}
