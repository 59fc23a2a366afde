package goldmath

import (
	"math"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/yaklabco/gomdmath/pkg/mathspan"
)

const (
	maxQuoteIndent = 3
	tabStop        = 4
)

type blockParser struct {
	delimiter mathspan.Delimiter
}

// NewBlockParser returns a goldmark block parser for fenced math blocks.
//
//nolint:ireturn // goldmark registers parsers through its interface.
func NewBlockParser(d mathspan.Delimiter) parser.BlockParser {
	return &blockParser{delimiter: d}
}

func (p *blockParser) Trigger() []byte {
	return []byte{byte(p.delimiter)}
}

// Open looks ahead for the closing fence before creating a node, so an
// unterminated fence never swallows the rest of the document.
func (p *blockParser) Open(_ ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	line, segment := reader.PeekLine()
	pos := pc.BlockOffset()
	if pos < 0 || pos >= len(line) || line[pos] != byte(p.delimiter) {
		return nil, parser.NoChildren
	}

	lines := lookahead(reader.Source(), segment.Start)
	match, ok := mathspan.ScanBlock(lines, 0, math.MaxInt, p.delimiter)
	if !ok {
		return nil, parser.NoChildren
	}

	node := &BlockMath{
		Content:   match.Content,
		Offset:    segment.Start + pos,
		remaining: match.Next - 1,
	}
	reader.Advance(segment.Len() - 1)

	return node, parser.NoChildren
}

// Continue consumes exactly the lines Open matched.
func (p *blockParser) Continue(node ast.Node, reader text.Reader, _ parser.Context) parser.State {
	block, ok := node.(*BlockMath)
	if !ok {
		return parser.Close
	}

	line, segment := reader.PeekLine()
	if len(line) == 0 || block.remaining <= 0 {
		return parser.Close
	}

	block.remaining--

	newline := 0
	if line[len(line)-1] == '\n' {
		newline = 1
	}
	reader.Advance(segment.Len() - newline + segment.Padding)

	if block.remaining == 0 {
		return parser.Close
	}
	return parser.Continue | parser.NoChildren
}

func (p *blockParser) Close(_ ast.Node, _ text.Reader, _ parser.Context) {}

func (p *blockParser) CanInterruptParagraph() bool {
	return true
}

func (p *blockParser) CanAcceptIndentedLine() bool {
	return false
}

// lookahead returns a lazy line view starting at the line containing
// offset. Text between the start of that line and offset belongs to
// enclosing containers: blockquote markers must repeat on every following
// line, and the remaining width becomes the structural indent. Lines are
// read only as far as the block scan asks for them.
func lookahead(source []byte, offset int) *mathspan.Lines {
	lineStart := offset
	for lineStart > 0 && source[lineStart-1] != '\n' {
		lineStart--
	}

	depth := 0
	for _, c := range source[lineStart:offset] {
		if c == '>' {
			depth++
		}
	}

	afterQuotes, _ := stripQuotes(source, lineStart, offset, depth)
	indent := columns(source[afterQuotes:offset])

	pos := offset
	return mathspan.NewLazyLines(source, indent, func(lines *mathspan.Lines) bool {
		if pos > len(source) || (pos == len(source) && lines.Len() > 0) {
			return false
		}

		stop := lineEnd(source, pos)
		switch contentStart, ok := stripQuotes(source, pos, stop, depth); {
		case lines.Len() == 0:
			lines.AppendLine(pos, stop, indent)
		case ok:
			lines.AppendLine(contentStart, stop, 0)
		default:
			lines.AppendOutside(pos, stop)
		}

		pos = stop + 1
		return true
	})
}

// stripQuotes skips depth blockquote markers at the start of a line.
func stripQuotes(source []byte, start, stop, depth int) (int, bool) {
	pos := start
	for range depth {
		for spaces := 0; pos < stop && source[pos] == ' ' && spaces < maxQuoteIndent; spaces++ {
			pos++
		}
		if pos >= stop || source[pos] != '>' {
			return start, false
		}
		pos++
		if pos < stop && (source[pos] == ' ' || source[pos] == '\t') {
			pos++
		}
	}
	return pos, true
}

func lineEnd(source []byte, pos int) int {
	for pos < len(source) && source[pos] != '\n' {
		pos++
	}
	return pos
}

func columns(b []byte) int {
	width := 0
	for _, c := range b {
		if c == '\t' {
			width += tabStop - width%tabStop
			continue
		}
		width++
	}
	return width
}
