package mathspan

// maxInlineMarker is the longest marker run accepted by the inline scanner.
const maxInlineMarker = 2

// InlineMatch is the result of a successful inline scan.
type InlineMatch struct {
	Token

	// MarkerLen is the length of the opening (and closing) marker run.
	MarkerLen int

	// Next is the cursor position just past the closing marker.
	Next int
}

// ScanInline tries to recognize a math span that starts at src[pos].
// Only src[pos:limit] is examined. On success the returned match carries
// the token and the position just past the closing marker.
//
// A marker run longer than two, a closing brace without an opening one
// and a missing closing marker all fail the whole attempt.
func ScanInline(src []byte, pos, limit int, d Delimiter) (InlineMatch, bool) {
	span, ok := scanInline(src, pos, limit, d)
	if !ok {
		return InlineMatch{}, false
	}

	kind := KindInline
	if span.markerLen == maxInlineMarker {
		kind = KindBlock
	}

	return InlineMatch{
		Token: Token{
			Kind:    kind,
			Content: NormalizeContent(string(src[span.contentStart:span.contentEnd])),
			Start:   pos,
			End:     span.next,
		},
		MarkerLen: span.markerLen,
		Next:      span.next,
	}, true
}

// MatchInline runs the same scan as ScanInline without building a token.
// Hosts use it to probe whether a span would match before committing output.
func MatchInline(src []byte, pos, limit int, d Delimiter) (int, bool) {
	span, ok := scanInline(src, pos, limit, d)
	if !ok {
		return pos, false
	}
	return span.next, true
}

type inlineSpan struct {
	markerLen    int
	contentStart int
	contentEnd   int
	next         int
}

func scanInline(src []byte, pos, limit int, d Delimiter) (inlineSpan, bool) {
	if limit > len(src) {
		limit = len(src)
	}
	if pos < 0 || pos >= limit || src[pos] != byte(d) {
		return inlineSpan{}, false
	}

	open := markerRun(src, pos, limit, d)
	if open > maxInlineMarker {
		return inlineSpan{}, false
	}

	depth := 0
	i := pos + open
	for i < limit {
		c := src[i]
		switch {
		case c == '{' && !isEscaped(src, i):
			depth++
			i++
		case c == '}' && !isEscaped(src, i):
			depth--
			if depth < 0 {
				return inlineSpan{}, false
			}
			i++
		case c == byte(d) && depth == 0:
			run := markerRun(src, i, limit, d)
			if run == open {
				return inlineSpan{
					markerLen:    open,
					contentStart: pos + open,
					contentEnd:   i,
					next:         i + run,
				}, true
			}
			i += run
		default:
			i++
		}
	}

	return inlineSpan{}, false
}

// markerRun returns the number of consecutive delimiters starting at pos.
func markerRun(src []byte, pos, limit int, d Delimiter) int {
	i := pos
	for i < limit && src[i] == byte(d) {
		i++
	}
	return i - pos
}

func isEscaped(src []byte, i int) bool {
	return i > 0 && src[i-1] == '\\'
}
