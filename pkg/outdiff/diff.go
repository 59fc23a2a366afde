// Package outdiff previews how rendering would change an output file, as a
// unified diff of the HTML on disk against freshly rendered HTML.
package outdiff

import (
	"fmt"
	"strings"
)

// Context is the number of unchanged lines shown around each change.
const Context = 3

// Op is the kind of a diff line.
type Op int

const (
	// Equal lines appear in both versions.
	Equal Op = iota

	// Delete lines appear only in the file on disk.
	Delete

	// Insert lines appear only in the rendered output.
	Insert
)

func (o Op) prefix() byte {
	switch o {
	case Delete:
		return '-'
	case Insert:
		return '+'
	default:
		return ' '
	}
}

// Line is one line of a hunk, without its line ending.
type Line struct {
	Op   Op
	Text string
}

// Hunk is a run of changes with surrounding context. Starts are 1-based;
// a side with no lines reports the line before the hunk, as diff(1) does.
type Hunk struct {
	OldStart, OldCount int
	NewStart, NewCount int
	Lines              []Line
}

// Diff is the difference between an output file and its new rendering.
type Diff struct {
	// Path names the output file in the headers.
	Path string

	Hunks []Hunk

	Added   int
	Removed int
}

// Compute diffs the current output against the rendered HTML. It returns
// nil when they are identical line for line.
func Compute(path string, current, rendered []byte) *Diff {
	script := editScript(splitLines(current), splitLines(rendered))

	d := &Diff{Path: path}
	for _, line := range script {
		switch line.Op {
		case Insert:
			d.Added++
		case Delete:
			d.Removed++
		case Equal:
		}
	}
	if d.Added == 0 && d.Removed == 0 {
		return nil
	}

	d.Hunks = hunks(script)
	return d
}

// HasChanges reports whether d holds any change. A nil Diff has none.
func (d *Diff) HasChanges() bool {
	return d != nil && len(d.Hunks) > 0
}

// String formats d in unified diff format.
func (d *Diff) String() string {
	if !d.HasChanges() {
		return ""
	}

	path := strings.TrimPrefix(d.Path, "/")

	var b strings.Builder
	fmt.Fprintf(&b, "--- a/%s\n+++ b/%s\n", path, path)
	for _, h := range d.Hunks {
		fmt.Fprintf(&b, "@@ -%d,%d +%d,%d @@\n", h.OldStart, h.OldCount, h.NewStart, h.NewCount)
		for _, line := range h.Lines {
			b.WriteByte(line.Op.prefix())
			b.WriteString(line.Text)
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func splitLines(content []byte) []string {
	if len(content) == 0 {
		return nil
	}
	return strings.Split(strings.TrimSuffix(string(content), "\n"), "\n")
}

// editScript returns a shortest edit script from a to b, built from the
// longest common subsequence of their lines. Deletions come before
// insertions within a change.
func editScript(a, b []string) []Line {
	// lcs[i][j] is the LCS length of a[i:] and b[j:].
	lcs := make([][]int, len(a)+1)
	for i := range lcs {
		lcs[i] = make([]int, len(b)+1)
	}
	for i := len(a) - 1; i >= 0; i-- {
		for j := len(b) - 1; j >= 0; j-- {
			if a[i] == b[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else {
				lcs[i][j] = max(lcs[i+1][j], lcs[i][j+1])
			}
		}
	}

	script := make([]Line, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			script = append(script, Line{Equal, a[i]})
			i++
			j++
		case lcs[i+1][j] >= lcs[i][j+1]:
			script = append(script, Line{Delete, a[i]})
			i++
		default:
			script = append(script, Line{Insert, b[j]})
			j++
		}
	}
	for ; i < len(a); i++ {
		script = append(script, Line{Delete, a[i]})
	}
	for ; j < len(b); j++ {
		script = append(script, Line{Insert, b[j]})
	}

	return script
}

// hunks groups the changes of script, merging changes separated by at
// most 2*Context unchanged lines.
func hunks(script []Line) []Hunk {
	var changes []int
	for idx, line := range script {
		if line.Op != Equal {
			changes = append(changes, idx)
		}
	}

	var out []Hunk
	for first := 0; first < len(changes); {
		last := first
		for last+1 < len(changes) && changes[last+1]-changes[last] <= 2*Context+1 {
			last++
		}

		start := max(changes[first]-Context, 0)
		end := min(changes[last]+Context+1, len(script))
		out = append(out, newHunk(script, start, end))

		first = last + 1
	}
	return out
}

func newHunk(script []Line, start, end int) Hunk {
	h := Hunk{OldStart: 1, NewStart: 1}
	for _, line := range script[:start] {
		if line.Op != Insert {
			h.OldStart++
		}
		if line.Op != Delete {
			h.NewStart++
		}
	}

	h.Lines = script[start:end]
	for _, line := range h.Lines {
		if line.Op != Insert {
			h.OldCount++
		}
		if line.Op != Delete {
			h.NewCount++
		}
	}

	if h.OldCount == 0 {
		h.OldStart--
	}
	if h.NewCount == 0 {
		h.NewStart--
	}
	return h
}
