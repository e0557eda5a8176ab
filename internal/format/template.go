// Package format renders composite format templates such as "{0:C}",
// "${0:0.00}" or "{0:yyyy-MM-dd}" against Go values.
//
// A template is literal text with placeholders of the form
// {index[,alignment][:spec]}. Literal braces are written as "{{" and "}}".
// The spec is interpreted according to the argument's type: numeric specs
// for integers and floats, date/time specs for time.Time, and ignored for
// strings.
package format

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/mattn/go-runewidth"
)

// Template is a parsed composite format template. It is immutable and safe
// for concurrent use.
type Template struct {
	raw   string
	items []item
	// maxIndex is the largest argument index referenced, or -1.
	maxIndex int
}

// item is either literal text (index < 0) or a placeholder.
type item struct {
	text  string
	index int
	align int
	spec  string
}

var cache sync.Map // string -> *Template

// Parse parses a composite format template.
func Parse(tmpl string) (*Template, error) {
	t := &Template{raw: tmpl, maxIndex: -1}
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			t.items = append(t.items, item{text: lit.String(), index: -1})
			lit.Reset()
		}
	}

	for i := 0; i < len(tmpl); i++ {
		ch := tmpl[i]
		switch ch {
		case '{':
			if i+1 < len(tmpl) && tmpl[i+1] == '{' {
				lit.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexByte(tmpl[i+1:], '}')
			if end < 0 {
				return nil, fmt.Errorf("unclosed placeholder at offset %d in %q", i, tmpl)
			}
			it, err := parseItem(tmpl[i+1 : i+1+end])
			if err != nil {
				return nil, fmt.Errorf("placeholder at offset %d in %q: %w", i, tmpl, err)
			}
			flush()
			t.items = append(t.items, it)
			if it.index > t.maxIndex {
				t.maxIndex = it.index
			}
			i += end + 1
		case '}':
			if i+1 < len(tmpl) && tmpl[i+1] == '}' {
				lit.WriteByte('}')
				i++
				continue
			}
			return nil, fmt.Errorf("unexpected '}' at offset %d in %q", i, tmpl)
		default:
			lit.WriteByte(ch)
		}
	}
	flush()
	return t, nil
}

// parseItem parses the inside of a placeholder: index[,alignment][:spec].
func parseItem(body string) (item, error) {
	it := item{}
	head := body
	if colon := strings.IndexByte(body, ':'); colon >= 0 {
		head = body[:colon]
		it.spec = body[colon+1:]
	}
	idxPart := head
	if comma := strings.IndexByte(head, ','); comma >= 0 {
		idxPart = head[:comma]
		alignPart := strings.TrimSpace(head[comma+1:])
		n, err := strconv.Atoi(alignPart)
		if err != nil {
			return it, fmt.Errorf("invalid alignment %q", alignPart)
		}
		it.align = n
	}
	idxPart = strings.TrimSpace(idxPart)
	n, err := strconv.Atoi(idxPart)
	if err != nil || n < 0 {
		return it, fmt.Errorf("invalid argument index %q", idxPart)
	}
	it.index = n
	return it, nil
}

// String returns the template source.
func (t *Template) String() string {
	return t.raw
}

// Execute renders the template with args. It fails when a placeholder
// references an argument that was not supplied.
func (t *Template) Execute(args ...any) (string, error) {
	if t.maxIndex >= len(args) {
		return "", fmt.Errorf("template %q references argument %d but only %d supplied", t.raw, t.maxIndex, len(args))
	}
	var b strings.Builder
	for _, it := range t.items {
		if it.index < 0 {
			b.WriteString(it.text)
			continue
		}
		b.WriteString(align(argument(args[it.index], it.spec), it.align))
	}
	return b.String(), nil
}

// argument formats one template argument. Booleans are capitalized inside
// templates ("True", "False"); Value keeps Go's spelling for plain cells.
func argument(v any, spec string) string {
	if b, ok := v.(bool); ok {
		if b {
			return "True"
		}
		return "False"
	}
	return Value(v, spec)
}

// Apply renders tmpl with args. Parsed templates are cached. A malformed
// template, or one that references a missing argument, is returned verbatim.
func Apply(tmpl string, args ...any) string {
	t, err := cached(tmpl)
	if err != nil {
		return tmpl
	}
	out, err := t.Execute(args...)
	if err != nil {
		return tmpl
	}
	return out
}

func cached(tmpl string) (*Template, error) {
	if v, ok := cache.Load(tmpl); ok {
		return v.(*Template), nil
	}
	t, err := Parse(tmpl)
	if err != nil {
		return nil, err
	}
	v, _ := cache.LoadOrStore(tmpl, t)
	return v.(*Template), nil
}

// align pads s to |width| display cells: right-aligned for positive widths,
// left-aligned for negative widths.
func align(s string, width int) string {
	if width == 0 {
		return s
	}
	left := width < 0
	if left {
		width = -width
	}
	w := runewidth.StringWidth(s)
	if w >= width {
		return s
	}
	pad := strings.Repeat(" ", width-w)
	if left {
		return s + pad
	}
	return pad + s
}
