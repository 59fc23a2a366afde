// Package document converts Markdown files with embedded math to HTML and
// reports math-related problems found along the way.
package document

import (
	"bytes"
	"context"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/yaklabco/gomdmath/pkg/config"
	"github.com/yaklabco/gomdmath/pkg/goldmath"
	"github.com/yaklabco/gomdmath/pkg/mathspan"
)

// Span is a math span found in a document. Kind is KindBlock only for
// fenced blocks; a doubled inline delimiter sets Display instead.
type Span struct {
	Kind    mathspan.Kind `json:"kind"`
	Display bool          `json:"display"`
	Content string        `json:"content"`
	Position
}

// Document is the result of converting or inspecting one file.
type Document struct {
	// Path is the file path the content came from.
	Path string

	// HTML is the rendered output. Empty after Inspect.
	HTML []byte

	// Spans lists math spans in document order.
	Spans []Span

	// Diagnostics lists problems in document order.
	Diagnostics []Diagnostic

	source []byte
	lines  lineIndex
}

// LineContent returns line n (1-based) without its line ending, or nil
// when n is out of range.
func (d *Document) LineContent(n int) []byte {
	if d == nil || n < 1 || n > len(d.lines) {
		return nil
	}
	start := d.lines[n-1]
	end := len(d.source)
	if n < len(d.lines) {
		end = d.lines[n] - 1
	}
	if start > end {
		return nil
	}
	return bytes.TrimSuffix(d.source[start:end], []byte("\r"))
}

// CountSpans returns the number of inline and block spans.
func (d *Document) CountSpans() (int, int) {
	var inline, block int
	for _, span := range d.Spans {
		if span.Kind == mathspan.KindBlock {
			block++
		} else {
			inline++
		}
	}
	return inline, block
}

// Converter parses and renders Markdown with the math extension.
type Converter struct {
	flavor    config.Flavor
	delimiter mathspan.Delimiter
	md        goldmark.Markdown
}

// New creates a Converter for the given flavor.
// Supported flavors are "commonmark" and "gfm".
// Invalid flavors default to "commonmark".
func New(flavor config.Flavor, math *goldmath.Extender) *Converter {
	f := flavorOrDefault(flavor)
	return &Converter{
		flavor:    f,
		delimiter: math.Delimiter(),
		md:        newGoldmarkInstance(f, math),
	}
}

// Flavor returns the configured Markdown flavor.
func (c *Converter) Flavor() config.Flavor {
	return c.flavor
}

// Convert renders content to HTML and collects spans and diagnostics.
func (c *Converter) Convert(ctx context.Context, path string, content []byte) (*Document, error) {
	doc, root, src, err := c.parse(ctx, path, content)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Grow(len(src) + len(src)/2)
	if err := c.md.Renderer().Render(&buf, src, root); err != nil {
		return nil, fmt.Errorf("render %s: %w", path, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("convert cancelled: %w", err)
	}

	doc.HTML = buf.Bytes()
	return doc, nil
}

// Inspect parses content and collects spans and diagnostics without
// typesetting anything.
func (c *Converter) Inspect(ctx context.Context, path string, content []byte) (*Document, error) {
	doc, _, _, err := c.parse(ctx, path, content)
	return doc, err
}

func (c *Converter) parse(ctx context.Context, path string, content []byte) (*Document, ast.Node, []byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, nil, fmt.Errorf("parse cancelled: %w", err)
	}

	src := copyContent(content)
	root := c.md.Parser().Parse(text.NewReader(src), parser.WithContext(parser.NewContext()))

	if err := ctx.Err(); err != nil {
		return nil, nil, nil, fmt.Errorf("parse cancelled: %w", err)
	}

	lines := buildLineIndex(src)
	doc := &Document{Path: path, source: src, lines: lines}
	insp := &inspector{
		src:       src,
		lines:     lines,
		delimiter: c.delimiter,
		doc:       doc,
	}
	if err := ast.Walk(root, insp.visit); err != nil {
		return nil, nil, nil, fmt.Errorf("inspect %s: %w", path, err)
	}

	return doc, root, src, nil
}

// flavorOrDefault returns the flavor if valid, otherwise defaults to CommonMark.
func flavorOrDefault(flavor config.Flavor) config.Flavor {
	switch flavor {
	case config.FlavorCommonMark, config.FlavorGFM:
		return flavor
	default:
		return config.FlavorCommonMark
	}
}

// newGoldmarkInstance creates a configured goldmark.Markdown instance.
//
//nolint:ireturn // goldmark.Markdown is an external interface type
func newGoldmarkInstance(flavor config.Flavor, math *goldmath.Extender) goldmark.Markdown {
	extensions := []goldmark.Extender{math}

	switch flavor {
	case config.FlavorGFM:
		extensions = append(extensions, extension.GFM)
	case config.FlavorCommonMark:
		// No extensions for pure CommonMark.
	}

	return goldmark.New(goldmark.WithExtensions(extensions...))
}

// copyContent creates a copy of the content slice to ensure immutability.
func copyContent(content []byte) []byte {
	if content == nil {
		return nil
	}
	cp := make([]byte, len(content))
	copy(cp, content)
	return cp
}
