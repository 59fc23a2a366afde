package mathspan

const (
	// blockMarker is the exact length of the opening fence of a block.
	blockMarker = 2

	// codeIndent is the relative indentation at which a fence becomes
	// literal content, as for indented code blocks.
	codeIndent = 4
)

// BlockMatch is the result of a successful block scan.
type BlockMatch struct {
	Token

	// Next is the index of the line following the closing fence.
	Next int
}

// ScanBlock tries to recognize a fenced math block whose opening fence is
// line start. Lines from start up to (not including) end are examined;
// a lazy view is read only up to the closing fence or the first line that
// fails the block.
//
// The block fails when the fence is never closed, when a non-blank line
// is indented less than lines.BlockIndent, or when a line left the
// enclosing container. A failed scan consumes nothing.
func ScanBlock(lines *Lines, start, end int, d Delimiter) (BlockMatch, bool) {
	if start < 0 || start >= end || !lines.has(start) {
		return BlockMatch{}, false
	}

	open := lines.indent[start]
	if open < 0 || open-lines.BlockIndent >= codeIndent {
		return BlockMatch{}, false
	}
	if !isFence(lines, start, d, true) {
		return BlockMatch{}, false
	}

	for next := start + 1; next < end && lines.has(next); next++ {
		indent := lines.indent[next]
		if indent < 0 {
			return BlockMatch{}, false
		}

		blank := lines.begin[next] >= lines.end[next]
		if !blank && indent < lines.BlockIndent {
			return BlockMatch{}, false
		}
		if blank || indent-lines.BlockIndent >= codeIndent {
			continue
		}
		if !isFence(lines, next, d, false) {
			continue
		}

		return BlockMatch{
			Token: Token{
				Kind:    KindBlock,
				Content: NormalizeContent(lines.join(start+1, next, open)),
				Start:   start,
				End:     next + 1,
			},
			Next: next + 1,
		}, true
	}

	return BlockMatch{}, false
}

// isFence reports whether line i is a run of delimiters followed only by
// whitespace. An opening fence must be exactly blockMarker long; a closing
// fence must be at least that long.
func isFence(lines *Lines, i int, d Delimiter, opening bool) bool {
	pos, limit := lines.begin[i], lines.end[i]
	run := markerRun(lines.src, pos, limit, d)

	if opening && run != blockMarker {
		return false
	}
	if !opening && run < blockMarker {
		return false
	}

	for _, c := range lines.src[pos+run : limit] {
		if !isMathSpace(c) {
			return false
		}
	}
	return true
}
