package goldmath

import (
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/yaklabco/gomdmath/pkg/mathspan"
)

type inlineParser struct {
	delimiter mathspan.Delimiter
}

// NewInlineParser returns a goldmark inline parser for math spans.
//
//nolint:ireturn // goldmark registers parsers through its interface.
func NewInlineParser(d mathspan.Delimiter) parser.InlineParser {
	return &inlineParser{delimiter: d}
}

func (p *inlineParser) Trigger() []byte {
	return []byte{byte(p.delimiter)}
}

// Parse scans the rest of the current block for a closing marker. On
// failure the reader is left where it was and the delimiter stays text.
func (p *inlineParser) Parse(_ ast.Node, block text.Reader, _ parser.Context) ast.Node {
	line, segment := block.PeekLine()
	if len(line) == 0 || line[0] != byte(p.delimiter) {
		return nil
	}

	savedLine, savedSegment := block.Position()
	rest := remainingText(block)
	block.SetPosition(savedLine, savedSegment)

	match, ok := mathspan.ScanInline(rest, 0, len(rest), p.delimiter)
	if !ok {
		return nil
	}

	advance(block, match.Next)

	return &InlineMath{
		Content: match.Content,
		Display: match.Kind == mathspan.KindBlock,
		Offset:  segment.Start,
	}
}

// remainingText concatenates the lines of the block from the current
// position on. The reader is left at the end; callers restore it.
func remainingText(block text.Reader) []byte {
	var buf []byte
	for {
		line, _ := block.PeekLine()
		if line == nil {
			return buf
		}
		buf = append(buf, line...)
		block.AdvanceLine()
	}
}

// advance moves the reader n bytes forward across line boundaries, using
// the same line split as remainingText.
func advance(block text.Reader, n int) {
	for n > 0 {
		line, _ := block.PeekLine()
		if line == nil {
			return
		}
		if n < len(line) {
			block.Advance(n)
			return
		}
		n -= len(line)
		block.AdvanceLine()
	}
}
