package normalize

import (
	"sort"
	"strings"

	"golang.org/x/net/html"
)

// rawAttr locates one attribute inside the raw bytes of a start tag.
type rawAttr struct {
	key string

	// start includes the whitespace before the key; end is just past the
	// value, or past the key when there is no value.
	start, end int

	// valStart and valEnd bound the value with its quotes. They are equal
	// when the attribute has no value.
	valStart, valEnd int

	quote byte
}

// rawTag is the attribute layout of a start tag as written in the source.
type rawTag struct {
	attrs []rawAttr

	// insertAt is the offset just past the last attribute, or past the tag
	// name when there are none.
	insertAt int
}

// splice replaces raw[start:end] with text.
type splice struct {
	start, end int
	text       string
}

func isTagSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

func skipTagSpace(raw string, i int) int {
	for i < len(raw) && isTagSpace(raw[i]) {
		i++
	}
	return i
}

// scanTag splits the raw start tag into attributes the same way the html
// tokenizer does, keeping byte offsets the tokenizer does not expose.
func scanTag(raw string) rawTag {
	i := 1
	for i < len(raw) && !isTagSpace(raw[i]) && raw[i] != '/' && raw[i] != '>' {
		i++
	}
	tag := rawTag{insertAt: i}

	for i < len(raw) {
		start := i
		for i < len(raw) && (isTagSpace(raw[i]) || raw[i] == '/') {
			i++
		}
		if i >= len(raw) || raw[i] == '>' {
			break
		}

		keyStart := i
		i++
		for i < len(raw) && !isTagSpace(raw[i]) && raw[i] != '/' && raw[i] != '=' && raw[i] != '>' {
			i++
		}
		attr := rawAttr{key: strings.ToLower(raw[keyStart:i]), start: start, valStart: i, valEnd: i}

		if j := skipTagSpace(raw, i); j < len(raw) && raw[j] == '=' {
			j = skipTagSpace(raw, j+1)
			attr.valStart = j
			if j < len(raw) && (raw[j] == '"' || raw[j] == '\'') {
				attr.quote = raw[j]
				if k := strings.IndexByte(raw[j+1:], raw[j]); k >= 0 {
					j += k + 2
				} else {
					j = len(raw)
				}
			} else {
				for j < len(raw) && !isTagSpace(raw[j]) && raw[j] != '>' {
					j++
				}
			}
			i = j
			attr.valEnd = j
		}

		attr.end = i
		tag.attrs = append(tag.attrs, attr)
		tag.insertAt = i
	}

	return tag
}

func (t rawTag) find(key string) (rawAttr, bool) {
	for _, attr := range t.attrs {
		if attr.key == key {
			return attr, true
		}
	}
	return rawAttr{}, false
}

// set returns the splice that gives key the value val. An empty val
// removes the attribute. A missing attribute is appended after the last one.
func (t rawTag) set(key, val string, present bool) splice {
	attr, found := t.find(key)
	if !present || !found {
		return splice{t.insertAt, t.insertAt, " " + key + `="` + html.EscapeString(val) + `"`}
	}

	switch {
	case val == "":
		return splice{attr.start, attr.end, ""}
	case attr.valStart == attr.valEnd:
		return splice{attr.end, attr.end, `="` + html.EscapeString(val) + `"`}
	default:
		quote := attr.quote
		if quote == 0 {
			quote = '"'
		}
		return splice{attr.valStart, attr.valEnd, string(quote) + html.EscapeString(val) + string(quote)}
	}
}

func applySplices(raw string, edits []splice) string {
	sort.SliceStable(edits, func(i, j int) bool { return edits[i].start < edits[j].start })

	var b strings.Builder
	pos := 0
	for _, e := range edits {
		b.WriteString(raw[pos:e.start])
		b.WriteString(e.text)
		pos = e.end
	}
	b.WriteString(raw[pos:])
	return b.String()
}
