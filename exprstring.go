package hcl

import (
	"fmt"
	"strings"
)

// ExpressionString renders an expression as a single line of HCL source.
// Re-parsing the result yields a structurally equal expression, except
// that an object key given as a bare variable or traversal is written in
// parentheses and re-parses as a ParenExpr around it. The hclwrite package
// builds on this for canonical multi-line formatting.
func ExpressionString(e Expression) string {
	var b strings.Builder
	writeExpression(&b, e)
	return b.String()
}

func writeExpression(b *strings.Builder, e Expression) {
	switch e := e.(type) {
	case *LiteralValue:
		writeValue(b, e.Value)
	case *TupleExpr:
		b.WriteByte('[')
		for i, item := range e.Exprs {
			if i > 0 {
				b.WriteString(", ")
			}
			writeExpression(b, item)
		}
		b.WriteByte(']')
	case *ObjectExpr:
		if len(e.Items) == 0 {
			b.WriteString("{}")
			return
		}
		b.WriteString("{ ")
		for i, item := range e.Items {
			if i > 0 {
				b.WriteString(", ")
			}
			writeObjectKey(b, item)
			b.WriteString(" = ")
			writeExpression(b, item.Value)
		}
		b.WriteString(" }")
	case *Variable:
		b.WriteString(e.Name)
	case *FuncCall:
		b.WriteString(e.Name)
		b.WriteByte('(')
		for i, arg := range e.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			writeExpression(b, arg)
		}
		if e.ExpandFinal {
			b.WriteString("...")
		}
		b.WriteByte(')')
	case *UnaryOp:
		b.WriteString(string(e.Op))
		writeExpression(b, e.Expr)
	case *BinaryOp:
		writeExpression(b, e.LHS)
		fmt.Fprintf(b, " %s ", e.Op)
		writeExpression(b, e.RHS)
	case *Conditional:
		writeExpression(b, e.Condition)
		b.WriteString(" ? ")
		writeExpression(b, e.TrueResult)
		b.WriteString(" : ")
		writeExpression(b, e.FalseResult)
	case *ParenExpr:
		b.WriteByte('(')
		writeExpression(b, e.Inner)
		b.WriteByte(')')
	case *Traversal:
		writeExpression(b, e.Base)
		for _, op := range e.Operators {
			writeTraverser(b, op)
		}
	case *ForTupleExpr:
		b.WriteString("[for ")
		writeForIntro(b, e.KeyVar, e.ValueVar, e.Collection)
		b.WriteString(" : ")
		writeExpression(b, e.Value)
		writeForCond(b, e.Condition)
		b.WriteByte(']')
	case *ForObjectExpr:
		b.WriteString("{for ")
		writeForIntro(b, e.KeyVar, e.ValueVar, e.Collection)
		b.WriteString(" : ")
		writeExpression(b, e.Key)
		b.WriteString(" => ")
		writeExpression(b, e.Value)
		if e.Grouping {
			b.WriteString("...")
		}
		writeForCond(b, e.Condition)
		b.WriteByte('}')
	case *TemplateExpr:
		writeTemplateExpr(b, e)
	default:
		panic(fmt.Sprintf("hcl: unknown expression type %T", e))
	}
}

func writeObjectKey(b *strings.Builder, item ObjectItem) {
	if item.Ident != "" {
		b.WriteString(item.Ident)
		return
	}
	switch item.Key.(type) {
	case *Variable, *Traversal:
		// A naked reference in key position would read as an identifier
		// key, so wrap it.
		b.WriteByte('(')
		writeExpression(b, item.Key)
		b.WriteByte(')')
	default:
		writeExpression(b, item.Key)
	}
}

func writeForIntro(b *strings.Builder, keyVar, valueVar string, coll Expression) {
	if keyVar != "" {
		b.WriteString(keyVar)
		b.WriteString(", ")
	}
	b.WriteString(valueVar)
	b.WriteString(" in ")
	writeExpression(b, coll)
}

func writeForCond(b *strings.Builder, cond Expression) {
	if cond != nil {
		b.WriteString(" if ")
		writeExpression(b, cond)
	}
}

func writeTraverser(b *strings.Builder, op Traverser) {
	switch op := op.(type) {
	case GetAttr:
		b.WriteByte('.')
		b.WriteString(op.Name)
	case Index:
		b.WriteByte('[')
		writeExpression(b, op.Key)
		b.WriteByte(']')
	case LegacyIndex:
		fmt.Fprintf(b, ".%d", op.Index)
	case AttrSplat:
		b.WriteString(".*")
	case FullSplat:
		b.WriteString("[*]")
	default:
		panic(fmt.Sprintf("hcl: unknown traverser type %T", op))
	}
}

func writeValue(b *strings.Builder, v Value) {
	switch v := v.(type) {
	case nil, Null:
		b.WriteString("null")
	case Bool:
		if v {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case *Number:
		b.WriteString(v.String())
	case String:
		b.WriteString(QuoteString(string(v)))
	case Array:
		b.WriteByte('[')
		for i, item := range v {
			if i > 0 {
				b.WriteString(", ")
			}
			writeValue(b, item)
		}
		b.WriteByte(']')
	case *Object:
		if v.Len() == 0 {
			b.WriteString("{}")
			return
		}
		b.WriteString("{ ")
		first := true
		v.Iter(func(k string, item Value) bool {
			if !first {
				b.WriteString(", ")
			}
			first = false
			if ValidIdentifier(k) {
				b.WriteString(k)
			} else {
				b.WriteString(QuoteString(k))
			}
			b.WriteString(" = ")
			writeValue(b, item)
			return true
		})
		b.WriteString(" }")
	default:
		panic(fmt.Sprintf("hcl: unknown value type %T", v))
	}
}

func writeTemplateExpr(b *strings.Builder, e *TemplateExpr) {
	if e.Heredoc != nil {
		b.WriteString("<<")
		if e.Heredoc.Indented {
			b.WriteByte('-')
		}
		b.WriteString(e.Heredoc.Delimiter)
		b.WriteByte('\n')
		body := templateSource(e.Template, false)
		b.WriteString(body)
		if body != "" && !strings.HasSuffix(body, "\n") {
			b.WriteByte('\n')
		}
		b.WriteString(e.Heredoc.Delimiter)
		return
	}
	b.WriteByte('"')
	b.WriteString(templateSource(e.Template, true))
	b.WriteByte('"')
}

// templateSourceString renders the parts of a template back to the
// sub-language source form, without surrounding quotes and without quoted
// string escaping.
func templateSourceString(t *Template) string {
	return templateSource(t, false)
}

func templateSource(t *Template, quoted bool) string {
	var b strings.Builder
	for _, p := range t.Parts {
		writeTemplatePart(&b, p, quoted)
	}
	return b.String()
}

func writeTemplatePart(b *strings.Builder, p TemplatePart, quoted bool) {
	switch p := p.(type) {
	case *TemplateLiteral:
		b.WriteString(escapeTemplateLiteral(p.Value, quoted))
	case *TemplateInterp:
		b.WriteString("${")
		writeStripStart(b, p.Strip)
		writeExpression(b, p.Expr)
		writeStripEnd(b, p.Strip)
		b.WriteByte('}')
	case *TemplateIf:
		b.WriteString("%{")
		writeStripStart(b, p.IfStrip)
		b.WriteString("if ")
		writeExpression(b, p.Condition)
		writeStripEnd(b, p.IfStrip)
		b.WriteByte('}')
		b.WriteString(templateSource(p.TrueTemplate, quoted))
		if p.FalseTemplate != nil {
			b.WriteString("%{")
			writeStripStart(b, p.ElseStrip)
			b.WriteString("else")
			writeStripEnd(b, p.ElseStrip)
			b.WriteByte('}')
			b.WriteString(templateSource(p.FalseTemplate, quoted))
		}
		b.WriteString("%{")
		writeStripStart(b, p.EndifStrip)
		b.WriteString("endif")
		writeStripEnd(b, p.EndifStrip)
		b.WriteByte('}')
	case *TemplateFor:
		b.WriteString("%{")
		writeStripStart(b, p.ForStrip)
		b.WriteString("for ")
		if p.KeyVar != "" {
			b.WriteString(p.KeyVar)
			b.WriteString(", ")
		}
		b.WriteString(p.ValueVar)
		b.WriteString(" in ")
		writeExpression(b, p.Collection)
		writeStripEnd(b, p.ForStrip)
		b.WriteByte('}')
		b.WriteString(templateSource(p.Body, quoted))
		b.WriteString("%{")
		writeStripStart(b, p.EndforStrip)
		b.WriteString("endfor")
		writeStripEnd(b, p.EndforStrip)
		b.WriteByte('}')
	default:
		panic(fmt.Sprintf("hcl: unknown template part type %T", p))
	}
}

func writeStripStart(b *strings.Builder, s Strip) {
	if s.Start {
		b.WriteByte('~')
	}
}

func writeStripEnd(b *strings.Builder, s Strip) {
	if s.End {
		b.WriteByte('~')
	}
}

// escapeTemplateLiteral escapes literal template text. Interpolation and
// directive introducers are always escaped; backslash escapes apply only in
// quoted templates, since heredocs are not escape-processed.
func escapeTemplateLiteral(s string, quoted bool) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c == '$' || c == '%') && i+1 < len(s) && s[i+1] == '{' {
			b.WriteByte(c)
			b.WriteByte(c)
			continue
		}
		if !quoted {
			b.WriteByte(c)
			continue
		}
		b.WriteString(escapeQuotedByte(s, i))
	}
	return b.String()
}

// QuoteString renders s as a quoted HCL string literal, escaping quote,
// backslash and control characters as well as interpolation introducers.
// Characters outside printable ASCII are emitted verbatim.
func QuoteString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c == '$' || c == '%') && i+1 < len(s) && s[i+1] == '{' {
			b.WriteByte(c)
			b.WriteByte(c)
			continue
		}
		b.WriteString(escapeQuotedByte(s, i))
	}
	b.WriteByte('"')
	return b.String()
}

func escapeQuotedByte(s string, i int) string {
	switch c := s[i]; c {
	case '"':
		return `\"`
	case '\\':
		return `\\`
	case '\b':
		return `\b`
	case '\f':
		return `\f`
	case '\n':
		return `\n`
	case '\r':
		return `\r`
	case '\t':
		return `\t`
	default:
		if c < 0x20 {
			return fmt.Sprintf(`\u%04x`, c)
		}
		return s[i : i+1]
	}
}
