// Package normalize rewrites typeset math markup so that elements hidden
// from assistive technology are also hidden from visual rendering.
//
// The typesetting engine marks its presentational duplicate of a formula
// with aria-hidden="true". Normalize finds every such element and either
// rewrites its class and style attributes inline, or swaps its inline
// marker class for a utility class, depending on the configured Policy.
// All other markup is copied byte-for-byte.
package normalize

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode"

	"github.com/aymerick/douceur/parser"
	"golang.org/x/net/html"
)

// Policy selects how hidden elements are rewritten.
type Policy string

const (
	// PolicyInlineStyle removes the inline marker class and adds
	// display:none to the element's style attribute.
	PolicyInlineStyle Policy = "inline-style"

	// PolicyUtilityClass removes the inline marker class and adds a utility
	// class instead. The style attribute is left alone.
	PolicyUtilityClass Policy = "utility-class"
)

// Default class names.
const (
	DefaultInlineClass  = "inline"
	DefaultUtilityClass = "hidden"
)

const (
	attrAriaHidden = "aria-hidden"
	attrClass      = "class"
	attrStyle      = "style"

	hiddenDeclaration = "display:none"
)

// ErrUnknownPolicy is returned by ParsePolicy for unrecognized names.
var ErrUnknownPolicy = errors.New("unknown normalize policy")

// ParsePolicy converts a configuration string into a Policy.
// The empty string selects PolicyInlineStyle.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyInlineStyle:
		return PolicyInlineStyle, nil
	case PolicyUtilityClass:
		return PolicyUtilityClass, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
	}
}

// Options configures Normalize.
type Options struct {
	// Policy selects the rewrite strategy. Empty means PolicyInlineStyle.
	Policy Policy

	// InlineClass is the marker class removed from hidden elements.
	InlineClass string

	// UtilityClass is added to hidden elements under PolicyUtilityClass.
	UtilityClass string
}

// DefaultOptions returns the inline-style policy with default class names.
func DefaultOptions() Options {
	return Options{
		Policy:       PolicyInlineStyle,
		InlineClass:  DefaultInlineClass,
		UtilityClass: DefaultUtilityClass,
	}
}

func (o Options) withDefaults() Options {
	if o.Policy == "" {
		o.Policy = PolicyInlineStyle
	}
	if o.InlineClass == "" {
		o.InlineClass = DefaultInlineClass
	}
	if o.UtilityClass == "" {
		o.UtilityClass = DefaultUtilityClass
	}
	return o
}

// Normalize rewrites every start tag carrying aria-hidden="true" according
// to opts. Only the class and style attributes of such a tag are edited;
// every other byte of the markup is copied as is. Tags that already
// satisfy the policy are emitted unchanged, so
// Normalize(Normalize(s)) == Normalize(s).
func Normalize(markup string, opts Options) string {
	opts = opts.withDefaults()

	var out strings.Builder
	out.Grow(len(markup) + len(markup)/8)

	z := html.NewTokenizer(strings.NewReader(markup))
	for {
		tt := z.Next()
		raw := string(z.Raw())

		if tt == html.ErrorToken {
			out.WriteString(raw)
			return out.String()
		}

		if tt == html.StartTagToken || tt == html.SelfClosingTagToken {
			if rewritten, ok := rewriteTag(raw, z.Token(), opts); ok {
				out.WriteString(rewritten)
				continue
			}
		}

		out.WriteString(raw)
	}
}

// rewriteTag returns raw with its class and style attributes edited, and
// true when tok needed a change. tok supplies the decoded attribute values.
func rewriteTag(raw string, tok html.Token, opts Options) (string, bool) {
	if !isHiddenFromAssistiveTech(tok.Attr) {
		return "", false
	}

	tag := scanTag(raw)
	var edits []splice

	class, hasClass := attrValue(tok.Attr, attrClass)
	classes := strings.Fields(class)
	kept := removeClass(classes, opts.InlineClass)
	if opts.Policy == PolicyUtilityClass && !slices.Contains(kept, opts.UtilityClass) {
		kept = append(kept, opts.UtilityClass)
	}
	if !slices.Equal(kept, classes) {
		edits = append(edits, tag.set(attrClass, strings.Join(kept, " "), hasClass))
	}

	if opts.Policy != PolicyUtilityClass {
		style, hasStyle := attrValue(tok.Attr, attrStyle)
		if !hasStyle || !hidesVisually(style) {
			edits = append(edits, tag.set(attrStyle, appendDeclaration(style, hiddenDeclaration), hasStyle))
		}
	}

	if len(edits) == 0 {
		return "", false
	}
	return applySplices(raw, edits), true
}

func isHiddenFromAssistiveTech(attrs []html.Attribute) bool {
	val, ok := attrValue(attrs, attrAriaHidden)
	return ok && strings.EqualFold(strings.TrimSpace(val), "true")
}

// attrValue returns the first value of key, as the tokenizer decoded it.
func attrValue(attrs []html.Attribute, key string) (string, bool) {
	for _, attr := range attrs {
		if attr.Namespace == "" && attr.Key == key {
			return attr.Val, true
		}
	}
	return "", false
}

func removeClass(classes []string, name string) []string {
	kept := make([]string, 0, len(classes)+1)
	for _, class := range classes {
		if class != name {
			kept = append(kept, class)
		}
	}
	return kept
}

// hidesVisually reports whether a style attribute already contains
// display:none, with or without spaces around the colon.
func hidesVisually(style string) bool {
	// The declaration parser drops the value of a final declaration that
	// has no terminating semicolon.
	decls := strings.TrimRightFunc(style, unicode.IsSpace)
	if decls != "" && !strings.HasSuffix(decls, ";") {
		decls += ";"
	}

	parsed, err := parser.ParseDeclarations(decls)
	if err != nil {
		compact := strings.ToLower(strings.Join(strings.Fields(style), ""))
		return strings.Contains(compact, hiddenDeclaration)
	}

	for _, decl := range parsed {
		if strings.EqualFold(strings.TrimSpace(decl.Property), "display") &&
			strings.EqualFold(strings.TrimSpace(decl.Value), "none") {
			return true
		}
	}
	return false
}

func appendDeclaration(style, decl string) string {
	trimmed := strings.TrimRightFunc(style, unicode.IsSpace)
	switch {
	case trimmed == "":
		return decl
	case strings.HasSuffix(trimmed, ";"):
		return trimmed + decl
	default:
		return trimmed + ";" + decl
	}
}
