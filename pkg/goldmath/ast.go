package goldmath

import (
	"strconv"

	"github.com/yuin/goldmark/ast"
)

// KindInlineMath is the node kind of InlineMath.
//
//nolint:gochecknoglobals // goldmark node kinds are registered once per process.
var KindInlineMath = ast.NewNodeKind("InlineMath")

// KindBlockMath is the node kind of BlockMath.
//
//nolint:gochecknoglobals // goldmark node kinds are registered once per process.
var KindBlockMath = ast.NewNodeKind("BlockMath")

// InlineMath is a math span inside a paragraph.
type InlineMath struct {
	ast.BaseInline

	// Content is the whitespace-normalized math source.
	Content string

	// Display is true when the span used a doubled delimiter.
	Display bool

	// Offset is the source offset of the opening delimiter.
	Offset int
}

// Kind implements ast.Node.
func (n *InlineMath) Kind() ast.NodeKind {
	return KindInlineMath
}

// Dump implements ast.Node.
func (n *InlineMath) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Content": n.Content,
		"Display": strconv.FormatBool(n.Display),
	}, nil)
}

// BlockMath is a fenced display math block.
type BlockMath struct {
	ast.BaseBlock

	// Content is the whitespace-normalized math source.
	Content string

	// Offset is the source offset of the opening fence.
	Offset int

	// remaining counts the lines still to consume, closing fence included.
	remaining int
}

// Kind implements ast.Node.
func (n *BlockMath) Kind() ast.NodeKind {
	return KindBlockMath
}

// IsRaw implements ast.Node. Math blocks have no inline children.
func (n *BlockMath) IsRaw() bool {
	return true
}

// Dump implements ast.Node.
func (n *BlockMath) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Content": n.Content,
	}, nil)
}
