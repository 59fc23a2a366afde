package goldmath

import (
	"github.com/charmbracelet/log"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"

	"github.com/yaklabco/gomdmath/pkg/normalize"
	"github.com/yaklabco/gomdmath/pkg/typeset"
)

// Renderer writes typeset, normalized markup for math nodes.
type Renderer struct {
	engine    typeset.Engine
	normalize normalize.Options
	logger    *log.Logger
}

// NewRenderer returns a node renderer that delegates to engine.
func NewRenderer(engine typeset.Engine, opts normalize.Options, logger *log.Logger) *Renderer {
	return &Renderer{engine: engine, normalize: opts, logger: logger}
}

// RegisterFuncs implements renderer.NodeRenderer.
func (r *Renderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindInlineMath, r.renderInline)
	reg.Register(KindBlockMath, r.renderBlock)
}

func (r *Renderer) renderInline(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}

	math, ok := node.(*InlineMath)
	if !ok {
		return ast.WalkContinue, nil
	}

	if _, err := w.WriteString(r.markup(math.Content, math.Display)); err != nil {
		return ast.WalkStop, err
	}
	return ast.WalkSkipChildren, nil
}

func (r *Renderer) renderBlock(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}

	math, ok := node.(*BlockMath)
	if !ok {
		return ast.WalkContinue, nil
	}

	if _, err := w.WriteString(r.markup(math.Content, true)); err != nil {
		return ast.WalkStop, err
	}
	if err := w.WriteByte('\n'); err != nil {
		return ast.WalkStop, err
	}
	return ast.WalkSkipChildren, nil
}

func (r *Renderer) markup(content string, display bool) string {
	if r.logger != nil {
		r.logger.Debug("typesetting math", "display", display, "content", content)
	}
	return normalize.Normalize(r.engine.Render(content, display), r.normalize)
}
