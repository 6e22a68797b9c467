// Package hclwrite renders hcl bodies, values and expressions as canonical
// HCL source text.
//
// The output uses two-space indentation, one attribute per line, the
// opening brace on the block header line and non-empty collections spread
// over multiple lines. Formatting a parsed body yields text that parses
// back to a structurally equal body, except that an object key given as a
// bare variable or traversal is written in parentheses and re-parses as a
// ParenExpr around it.
package hclwrite

import (
	"bytes"
	"io"

	"github.com/pkg/errors"

	"github.com/func/hcl"
)

// Indent is the indentation unit of the canonical format.
const Indent = "  "

// Format renders a body as HCL source text.
func Format(body *hcl.Body) []byte {
	pr := &printer{}
	pr.body(body)
	return pr.buf.Bytes()
}

// FormatValue renders a value. Objects and arrays spread over multiple
// lines, everything else is a single line.
func FormatValue(v hcl.Value) []byte {
	pr := &printer{}
	pr.exprValue(hcl.ValueToExpression(v))
	return pr.buf.Bytes()
}

// FormatExpression renders a single expression.
func FormatExpression(e hcl.Expression) []byte {
	pr := &printer{}
	pr.exprValue(e)
	return pr.buf.Bytes()
}

// Fprint writes the canonical form of body to w.
func Fprint(w io.Writer, body *hcl.Body) error {
	if _, err := w.Write(Format(body)); err != nil {
		return errors.Wrap(err, "write body")
	}
	return nil
}

type printer struct {
	buf    bytes.Buffer
	indent int
}

func (pr *printer) writeIndent() {
	for i := 0; i < pr.indent; i++ {
		pr.buf.WriteString(Indent)
	}
}

type bodyState int

const (
	stateFirst bodyState = iota
	stateAttribute
	stateBlock
)

func (pr *printer) body(b *hcl.Body) {
	state := stateFirst
	for _, s := range b.Structures {
		switch s := s.(type) {
		case *hcl.Attribute:
			// A collection attribute reads better with room around it.
			if state == stateBlock || (state == stateAttribute && isCollection(s.Value)) {
				pr.buf.WriteByte('\n')
			}
			pr.attribute(s)
			state = stateAttribute
		case *hcl.Block:
			if state != stateFirst {
				pr.buf.WriteByte('\n')
			}
			pr.block(s)
			state = stateBlock
		}
	}
}

func (pr *printer) attribute(a *hcl.Attribute) {
	pr.writeIndent()
	pr.buf.WriteString(a.Name)
	pr.buf.WriteString(" = ")
	pr.exprValue(a.Value)
	pr.buf.WriteByte('\n')
}

func (pr *printer) block(b *hcl.Block) {
	pr.writeIndent()
	pr.buf.WriteString(b.Identifier)
	for _, label := range b.Labels {
		pr.buf.WriteByte(' ')
		if label.Quoted || !hcl.ValidIdentifier(label.Value) {
			pr.buf.WriteString(hcl.QuoteString(label.Value))
		} else {
			pr.buf.WriteString(label.Value)
		}
	}
	pr.buf.WriteString(" {")
	if b.Body != nil && len(b.Body.Structures) > 0 {
		pr.buf.WriteByte('\n')
		pr.indent++
		pr.body(b.Body)
		pr.indent--
		pr.writeIndent()
	}
	pr.buf.WriteString("}\n")
}

// isCollection reports whether the expression renders over multiple lines.
func isCollection(e hcl.Expression) bool {
	switch e := e.(type) {
	case *hcl.TupleExpr, *hcl.ObjectExpr:
		return true
	case *hcl.LiteralValue:
		switch e.Value.(type) {
		case hcl.Array, *hcl.Object:
			return true
		}
	}
	return false
}

// exprValue renders an expression in value position. Collections are
// rendered multi-line; everything else defers to the single-line form.
func (pr *printer) exprValue(e hcl.Expression) {
	switch e := e.(type) {
	case *hcl.TupleExpr:
		pr.tuple(e.Exprs)
	case *hcl.ObjectExpr:
		pr.objectItems(e.Items)
	case *hcl.LiteralValue:
		switch v := e.Value.(type) {
		case hcl.Array:
			pr.exprValue(hcl.ValueToExpression(v))
		case *hcl.Object:
			pr.exprValue(hcl.ValueToExpression(v))
		default:
			pr.buf.WriteString(hcl.ExpressionString(e))
		}
	default:
		pr.buf.WriteString(hcl.ExpressionString(e))
	}
}

func (pr *printer) tuple(exprs []hcl.Expression) {
	if len(exprs) == 0 {
		pr.buf.WriteString("[]")
		return
	}
	pr.buf.WriteString("[\n")
	pr.indent++
	for i, e := range exprs {
		pr.writeIndent()
		pr.exprValue(e)
		if i < len(exprs)-1 {
			pr.buf.WriteByte(',')
		}
		pr.buf.WriteByte('\n')
	}
	pr.indent--
	pr.writeIndent()
	pr.buf.WriteByte(']')
}

func (pr *printer) objectItems(items []hcl.ObjectItem) {
	if len(items) == 0 {
		pr.buf.WriteString("{}")
		return
	}
	pr.buf.WriteString("{\n")
	pr.indent++
	for _, item := range items {
		pr.writeIndent()
		pr.objectKey(item)
		pr.buf.WriteString(" = ")
		pr.exprValue(item.Value)
		pr.buf.WriteByte('\n')
	}
	pr.indent--
	pr.writeIndent()
	pr.buf.WriteByte('}')
}

func (pr *printer) objectKey(item hcl.ObjectItem) {
	if item.Ident != "" {
		pr.buf.WriteString(item.Ident)
		return
	}
	switch item.Key.(type) {
	case *hcl.Variable, *hcl.Traversal:
		// A naked reference would read as an identifier key.
		pr.buf.WriteByte('(')
		pr.buf.WriteString(hcl.ExpressionString(item.Key))
		pr.buf.WriteByte(')')
	default:
		pr.buf.WriteString(hcl.ExpressionString(item.Key))
	}
}
