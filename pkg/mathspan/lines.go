package mathspan

import "strings"

// Outside is the indentation recorded for a line that no longer belongs
// to the enclosing container (for example a line without the blockquote
// marker of the block being scanned).
const Outside = -1

const tabStop = 4

// Lines is a read-only line view over a source buffer. Each line records
// the offset of its first non-whitespace byte, its end offset (newline
// excluded) and its indentation in columns measured from the structural
// origin of the enclosing container.
type Lines struct {
	src    []byte
	begin  []int
	end    []int
	indent []int

	// BlockIndent is the indentation of the enclosing container. Non-blank
	// lines indented less than this end the container.
	BlockIndent int

	// more appends the next line of a lazy view and reports whether there
	// was one.
	more func(*Lines) bool
}

// NewLines splits src into lines with no container prefixes.
func NewLines(src []byte, blockIndent int) *Lines {
	lines := &Lines{src: src, BlockIndent: blockIndent}

	start := 0
	for start < len(src) {
		stop := start
		for stop < len(src) && src[stop] != '\n' {
			stop++
		}
		lines.AppendLine(start, stop, 0)
		start = stop + 1
	}

	return lines
}

// NewLinesFrom returns an empty view over src; hosts fill it with
// AppendLine and AppendOutside.
func NewLinesFrom(src []byte, blockIndent int) *Lines {
	return &Lines{src: src, BlockIndent: blockIndent}
}

// NewLazyLines returns an empty view over src that is filled on demand:
// whenever a scan needs a line past the ones already held, more is called
// to append it with AppendLine or AppendOutside. more returns false at the
// end of the input.
func NewLazyLines(src []byte, blockIndent int, more func(*Lines) bool) *Lines {
	return &Lines{src: src, BlockIndent: blockIndent, more: more}
}

// has reports whether line i exists, pulling lines from a lazy view as
// needed.
func (l *Lines) has(i int) bool {
	for i >= len(l.begin) {
		if l.more == nil || !l.more(l) {
			return false
		}
	}
	return true
}

// AppendLine adds the line src[start:stop]. column is the width already
// occupied before start on this line (a list marker, say); leading
// whitespace from start onward is added to it.
func (l *Lines) AppendLine(start, stop, column int) {
	pos := start
	for pos < stop {
		switch l.src[pos] {
		case ' ':
			column++
		case '\t':
			column += tabStop - column%tabStop
		default:
			l.push(pos, stop, column)
			return
		}
		pos++
	}
	l.push(stop, stop, column)
}

// AppendOutside adds a line that left the enclosing container.
func (l *Lines) AppendOutside(start, stop int) {
	l.push(start, stop, Outside)
}

func (l *Lines) push(begin, end, indent int) {
	l.begin = append(l.begin, begin)
	l.end = append(l.end, end)
	l.indent = append(l.indent, indent)
}

// Len returns the number of lines in the view. For a lazy view it counts
// only the lines pulled in so far.
func (l *Lines) Len() int {
	return len(l.begin)
}

// Indent returns the indentation of line i in columns, or Outside.
func (l *Lines) Indent(i int) int {
	return l.indent[i]
}

// Text returns line i from its first non-whitespace byte to its end.
func (l *Lines) Text(i int) []byte {
	return l.src[l.begin[i]:l.end[i]]
}

// join returns lines [from, to) separated by newlines, each with up to
// strip columns of indentation removed.
func (l *Lines) join(from, to, strip int) string {
	var b strings.Builder
	for i := from; i < to; i++ {
		if i > from {
			b.WriteByte('\n')
		}
		if extra := l.indent[i] - strip; extra > 0 {
			b.WriteString(strings.Repeat(" ", extra))
		}
		b.Write(l.Text(i))
	}
	return b.String()
}
