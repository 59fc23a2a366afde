package typeset

import "golang.org/x/net/html"

// Escaped emits math source wrapped in MathJax-style delimiters for
// client-side rendering. It is also the fallback when an external engine
// cannot produce markup.
type Escaped struct{}

// Render returns content HTML-escaped inside a span classed for its mode.
func (Escaped) Render(content string, displayMode bool) string {
	if displayMode {
		return `<span class="math display">\[` + html.EscapeString(content) + `\]</span>`
	}
	return `<span class="math inline">\(` + html.EscapeString(content) + `\)</span>`
}
