// Package mathspan recognizes delimited math spans in Markdown source.
//
// The package holds the scanning core shared by every host integration:
// an inline scanner that works on a byte range and a block scanner that
// works on a line view. Both are pure functions. A failed scan returns
// false and leaves the caller's cursor where it was, so the host can
// hand the same text to other grammar rules.
package mathspan

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultDelimiter is the delimiter used when none is configured.
const DefaultDelimiter Delimiter = '$'

// ErrInvalidDelimiter is returned when a delimiter is not exactly one character.
var ErrInvalidDelimiter = errors.New("delimiter must be exactly one character")

// Delimiter is the single byte that opens and closes a math span.
// It is used singly for inline math and doubled for display math.
type Delimiter byte

// NewDelimiter validates s and returns it as a Delimiter.
func NewDelimiter(s string) (Delimiter, error) {
	if len(s) != 1 {
		return 0, fmt.Errorf("%w: got %q", ErrInvalidDelimiter, s)
	}
	return Delimiter(s[0]), nil
}

// String returns the delimiter as a one-character string.
func (d Delimiter) String() string {
	return string([]byte{byte(d)})
}

// Kind distinguishes inline spans from display (block) spans.
type Kind int

const (
	// KindInline is a span opened by a single delimiter.
	KindInline Kind = iota
	// KindBlock is a span opened by a doubled delimiter, or a fenced block.
	KindBlock
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindInline:
		return "inline"
	case KindBlock:
		return "block"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name written by MarshalText.
func (k *Kind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "inline":
		*k = KindInline
	case "block":
		*k = KindBlock
	default:
		return fmt.Errorf("unknown span kind %q", text)
	}
	return nil
}

// Token is a recognized math span.
type Token struct {
	// Kind is KindBlock for doubled markers and fenced blocks.
	Kind Kind

	// Content is the math source between the markers, whitespace-normalized.
	Content string

	// Start and End delimit the matched source range, markers included.
	// Inline tokens use byte offsets; block tokens use line indices
	// (End is exclusive).
	Start int
	End   int
}

// IsDisplay reports whether the token should be typeset in display mode.
func (t Token) IsDisplay() bool {
	return t.Kind == KindBlock
}

// NormalizeContent collapses every run of spaces, tabs and line breaks into
// a single space and trims the result.
func NormalizeContent(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	pendingSpace := false
	for i := range len(s) {
		c := s[i]
		if isMathSpace(c) {
			pendingSpace = b.Len() > 0
			continue
		}
		if pendingSpace {
			b.WriteByte(' ')
			pendingSpace = false
		}
		b.WriteByte(c)
	}

	return b.String()
}

func isMathSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
