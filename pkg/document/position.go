package document

import "sort"

// Position is a 1-based line and byte column in a file.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// IsValid returns true if this position has positive values.
func (p Position) IsValid() bool {
	return p.Line > 0 && p.Column > 0
}

// lineIndex maps byte offsets to positions.
type lineIndex []int

// buildLineIndex records the start offset of every line in content.
func buildLineIndex(content []byte) lineIndex {
	starts := lineIndex{0}
	for idx, char := range content {
		if char == '\n' {
			starts = append(starts, idx+1)
		}
	}
	return starts
}

// position converts a byte offset to a Position.
// Returns the zero Position if the offset is out of range.
func (l lineIndex) position(offset int) Position {
	if offset < 0 || len(l) == 0 {
		return Position{}
	}

	// Index of the last line starting at or before offset.
	line := sort.Search(len(l), func(i int) bool { return l[i] > offset }) - 1
	if line < 0 {
		return Position{}
	}

	return Position{Line: line + 1, Column: offset - l[line] + 1}
}
