package emit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

const indentUnit = "  "

type printer struct {
	buf   strings.Builder
	depth int
}

func (p *printer) indent() {
	for i := 0; i < p.depth; i++ {
		p.buf.WriteString(indentUnit)
	}
}

func (p *printer) str(s string) {
	p.buf.WriteString(s)
}

// render renders v starting at the given indentation depth.
func render(v Value, depth int) string {
	p := &printer{depth: depth}
	v.write(p)
	return p.buf.String()
}

func (l Literal) write(p *printer) {
	switch v := l.Value.(type) {
	case string:
		p.str(quote(v))
	case bool:
		if v {
			p.str("true")
		} else {
			p.str("false")
		}
	case nil:
		p.str("null")
	default:
		p.str(fmt.Sprint(v))
	}
}

func (r Ref) write(p *printer) { p.str(string(r)) }

func (s Spread) write(p *printer) { p.str("..." + string(s)) }

func (d DynamicImport) write(p *printer) {
	p.str("() => import(" + quote(d.Module) + ")")
	if d.Then != "" {
		p.str(".then((mod) => " + d.Then + ")")
	}
}

func (e Element) write(p *printer) {
	p.str("<" + e.Tag)
	for _, prop := range e.Props {
		p.str(" " + prop.Name)
		if prop.Value == nil {
			continue
		}
		p.str("=")
		if lit, ok := prop.Value.(Literal); ok {
			if s, ok := lit.Value.(string); ok {
				p.str(quote(s))
				continue
			}
		}
		p.str("{")
		prop.Value.write(p)
		p.str("}")
	}
	p.str(" />")
}

func (o Object) write(p *printer) {
	if len(o) == 0 {
		p.str("{}")
		return
	}
	p.str("{\n")
	p.depth++
	for _, f := range o {
		p.indent()
		p.str(f.Key + ": ")
		f.Value.write(p)
		p.str(",\n")
	}
	p.depth--
	p.indent()
	p.str("}")
}

func (a Array) write(p *printer) {
	if len(a) == 0 {
		p.str("[]")
		return
	}
	p.str("[\n")
	p.depth++
	for _, item := range a {
		p.indent()
		item.write(p)
		p.str(",\n")
	}
	p.depth--
	p.indent()
	p.str("]")
}

// quote renders s as a double-quoted string literal that is valid in both
// JSON and JavaScript.
func quote(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return `""`
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
