// Package goldmath is a goldmark extension for delimited math.
//
// Inline spans ($x$), display spans ($$x$$) and fenced blocks
//
//	$$
//	x + y
//	$$
//
// are recognized with the mathspan scanners, typeset by a typeset.Engine
// and post-processed by normalize.Normalize before being written.
package goldmath

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"

	"github.com/yaklabco/gomdmath/pkg/mathspan"
	"github.com/yaklabco/gomdmath/pkg/normalize"
	"github.com/yaklabco/gomdmath/pkg/typeset"
)

// Parser and renderer priorities. Lower runs first; the block parser sits
// ahead of fenced code (700) and the inline parser ahead of links (200).
const (
	blockParserPriority  = 650
	inlineParserPriority = 150
	rendererPriority     = 500
)

// Option configures an Extender.
type Option func(*Extender)

// WithDelimiter sets the math delimiter. It is validated by New.
func WithDelimiter(delimiter string) Option {
	return func(e *Extender) {
		e.rawDelimiter = delimiter
	}
}

// WithEngine sets the typesetting engine. The default is typeset.Escaped.
func WithEngine(engine typeset.Engine) Option {
	return func(e *Extender) {
		e.engine = engine
	}
}

// WithNormalizeOptions sets the markup normalizer configuration.
func WithNormalizeOptions(opts normalize.Options) Option {
	return func(e *Extender) {
		e.normalize = opts
	}
}

// WithLogger sets the logger used for debug output while rendering.
func WithLogger(logger *log.Logger) Option {
	return func(e *Extender) {
		e.logger = logger
	}
}

// Extender registers math parsing and rendering with a goldmark instance.
type Extender struct {
	rawDelimiter string
	delimiter    mathspan.Delimiter
	engine       typeset.Engine
	normalize    normalize.Options
	logger       *log.Logger
}

// New builds an Extender. It fails when the delimiter is not exactly one
// character.
func New(opts ...Option) (*Extender, error) {
	ext := &Extender{
		rawDelimiter: mathspan.DefaultDelimiter.String(),
		engine:       typeset.Escaped{},
		normalize:    normalize.DefaultOptions(),
	}
	for _, opt := range opts {
		opt(ext)
	}

	delimiter, err := mathspan.NewDelimiter(ext.rawDelimiter)
	if err != nil {
		return nil, fmt.Errorf("configure math extension: %w", err)
	}
	ext.delimiter = delimiter

	if ext.engine == nil {
		ext.engine = typeset.Escaped{}
	}

	return ext, nil
}

// Delimiter returns the validated delimiter.
func (e *Extender) Delimiter() mathspan.Delimiter {
	return e.delimiter
}

// Extend implements goldmark.Extender.
func (e *Extender) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithBlockParsers(
			util.Prioritized(NewBlockParser(e.delimiter), blockParserPriority),
		),
		parser.WithInlineParsers(
			util.Prioritized(NewInlineParser(e.delimiter), inlineParserPriority),
		),
	)
	m.Renderer().AddOptions(
		renderer.WithNodeRenderers(
			util.Prioritized(NewRenderer(e.engine, e.normalize, e.logger), rendererPriority),
		),
	)
}
