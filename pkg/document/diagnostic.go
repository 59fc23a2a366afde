package document

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark/ast"

	"github.com/yaklabco/gomdmath/pkg/goldmath"
	"github.com/yaklabco/gomdmath/pkg/langdetect"
	"github.com/yaklabco/gomdmath/pkg/mathspan"
)

// Severity indicates how serious a diagnostic is.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Rule names.
const (
	RuleUnmatchedDelimiter = "unmatched-delimiter"
	RuleInterruptedSpan    = "interrupted-span"
	RuleTeXInCodeBlock     = "tex-in-code-block"
)

// RuleInfo describes a diagnostic rule.
type RuleInfo struct {
	Name        string   `json:"name"`
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`
}

// Rules lists every rule Inspect and Convert can report, by name.
func Rules() []RuleInfo {
	return []RuleInfo{
		{
			Name:        RuleInterruptedSpan,
			Severity:    SeverityWarning,
			Description: "math span whose closing delimiter lies beyond the end of its block",
		},
		{
			Name:        RuleTeXInCodeBlock,
			Severity:    SeverityInfo,
			Description: "unlabeled code block whose content looks like TeX math",
		},
		{
			Name:        RuleUnmatchedDelimiter,
			Severity:    SeverityWarning,
			Description: "delimiter that opens no math span and is not escaped",
		},
	}
}

// Diagnostic is a math-related problem found in a document.
type Diagnostic struct {
	Rule     string   `json:"rule"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Position

	// closeAt is the offset of the closing run an interrupted span
	// would have used.
	closeAt int
}

// inspector walks a parsed document collecting spans and diagnostics.
type inspector struct {
	src       []byte
	lines     lineIndex
	delimiter mathspan.Delimiter
	doc       *Document

	// mathAt holds the offsets of recognized math openers.
	mathAt map[int]bool
}

func (i *inspector) visit(node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		if node.Kind() == ast.KindDocument {
			i.finish()
		}
		return ast.WalkContinue, nil
	}

	switch n := node.(type) {
	case *goldmath.InlineMath:
		i.addSpan(mathspan.KindInline, n.Display, n.Content, n.Offset)
		return ast.WalkSkipChildren, nil

	case *goldmath.BlockMath:
		i.addSpan(mathspan.KindBlock, true, n.Content, n.Offset)
		return ast.WalkSkipChildren, nil

	case *ast.CodeSpan, *ast.RawHTML, *ast.AutoLink:
		return ast.WalkSkipChildren, nil

	case *ast.FencedCodeBlock:
		if len(n.Language(i.src)) == 0 {
			i.checkCodeBlock(n)
		}

	case *ast.CodeBlock:
		i.checkCodeBlock(n)

	case *ast.Text:
		i.checkText(n)
	}

	return ast.WalkContinue, nil
}

func (i *inspector) addSpan(kind mathspan.Kind, display bool, content string, offset int) {
	if i.mathAt == nil {
		i.mathAt = make(map[int]bool)
	}
	i.mathAt[offset] = true

	i.doc.Spans = append(i.doc.Spans, Span{
		Kind:     kind,
		Display:  display,
		Content:  content,
		Position: i.lines.position(offset),
	})
}

// checkText probes every unescaped delimiter run left in a text node.
// A run that can close somewhere after the end of its block is an
// interrupted span; one that cannot close at all is unmatched.
func (i *inspector) checkText(node *ast.Text) {
	d := byte(i.delimiter)
	seg := node.Segment
	blockEnd := -1

	for pos := seg.Start; pos < seg.Stop; pos++ {
		if i.src[pos] != d || escaped(i.src, pos) {
			continue
		}

		run := 1
		for pos+run < seg.Stop && i.src[pos+run] == d {
			run++
		}

		if i.closesInterrupted(pos) {
			pos += run - 1
			continue
		}

		if blockEnd < 0 {
			blockEnd = enclosingBlockEnd(node, len(i.src))
		}

		next, ok := mathspan.MatchInline(i.src, pos, len(i.src), i.delimiter)
		switch {
		case ok && next > blockEnd:
			closeAt := next - run
			i.addDiagnostic(RuleInterruptedSpan, SeverityWarning, pos,
				fmt.Sprintf("math span is interrupted by a block boundary before its closing %s on line %d",
					strings.Repeat(i.delimiter.String(), run), i.lines.position(closeAt).Line))
			i.doc.Diagnostics[len(i.doc.Diagnostics)-1].closeAt = closeAt
		case !ok:
			i.addDiagnostic(RuleUnmatchedDelimiter, SeverityWarning, pos,
				fmt.Sprintf("unmatched %s delimiter; escape it as \\%s if it is literal",
					i.delimiter, i.delimiter))
		}

		pos += run - 1
	}
}

// closesInterrupted reports whether pos is the closing run of an
// interrupted span already reported.
func (i *inspector) closesInterrupted(pos int) bool {
	for _, diag := range i.doc.Diagnostics {
		if diag.Rule == RuleInterruptedSpan && diag.closeAt == pos {
			return true
		}
	}
	return false
}

func (i *inspector) checkCodeBlock(node ast.Node) {
	lines := node.Lines()
	if lines.Len() == 0 {
		return
	}

	var content []byte
	for idx := range lines.Len() {
		seg := lines.At(idx)
		content = append(content, i.src[seg.Start:seg.Stop]...)
	}

	if lang := langdetect.Detect(content); lang == langdetect.LangTeX {
		i.addDiagnostic(RuleTeXInCodeBlock, SeverityInfo, lines.At(0).Start,
			fmt.Sprintf("code block looks like TeX math; use a %s%s block to typeset it, or label the fence %q to keep it as code",
				i.delimiter, i.delimiter, lang))
	}
}

func (i *inspector) addDiagnostic(rule string, severity Severity, offset int, message string) {
	i.doc.Diagnostics = append(i.doc.Diagnostics, Diagnostic{
		Rule:     rule,
		Severity: severity,
		Message:  message,
		Position: i.lines.position(offset),
		closeAt:  -1,
	})
}

// finish downgrades interrupted spans whose closing run opened a
// recognized span of its own; the opening run is then simply unmatched.
func (i *inspector) finish() {
	for idx := range i.doc.Diagnostics {
		diag := &i.doc.Diagnostics[idx]
		if diag.Rule != RuleInterruptedSpan || !i.mathAt[diag.closeAt] {
			continue
		}
		diag.Rule = RuleUnmatchedDelimiter
		diag.Message = fmt.Sprintf("unmatched %s delimiter; escape it as \\%s if it is literal",
			i.delimiter, i.delimiter)
		diag.closeAt = -1
	}
}

// enclosingBlockEnd returns the end offset of the last line of the
// nearest block ancestor that holds lines.
func enclosingBlockEnd(node ast.Node, fallback int) int {
	for parent := node.Parent(); parent != nil; parent = parent.Parent() {
		if parent.Type() != ast.TypeBlock {
			continue
		}
		lines := parent.Lines()
		if lines != nil && lines.Len() > 0 {
			return lines.At(lines.Len() - 1).Stop
		}
	}
	return fallback
}

// escaped reports whether src[pos] is preceded by an odd number of
// backslashes.
func escaped(src []byte, pos int) bool {
	count := 0
	for j := pos - 1; j >= 0 && src[j] == '\\'; j-- {
		count++
	}
	return count%2 == 1
}
