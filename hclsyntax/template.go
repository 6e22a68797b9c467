package hclsyntax

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/func/hcl"
)

type templateMode int

const (
	// templateModeQuoted is the body of a "..." string: backslash escapes
	// are processed and a newline is an error.
	templateModeQuoted templateMode = iota
	// templateModeHeredoc is a heredoc body: no backslash escapes.
	templateModeHeredoc
	// templateModeBare is the standalone template sub-language: like a
	// heredoc, terminated by end of input.
	templateModeBare
)

// parseQuotedTemplate parses a "..." string. A template without
// interpolations or directives collapses to a plain string literal.
func (p *parser) parseQuotedTemplate() (hcl.Expression, error) {
	if err := p.expect(`"`, `'"'`); err != nil {
		return nil, err
	}
	t, err := p.parseTemplateParts(templateModeQuoted, nil)
	if err != nil {
		return nil, err
	}
	if err := p.expect(`"`, "closing quote"); err != nil {
		return nil, err
	}
	if s, ok := singleLiteral(t); ok {
		return hcl.Literal(hcl.String(s)), nil
	}
	return &hcl.TemplateExpr{Template: t}, nil
}

func singleLiteral(t *hcl.Template) (string, bool) {
	switch len(t.Parts) {
	case 0:
		return "", true
	case 1:
		if lit, ok := t.Parts[0].(*hcl.TemplateLiteral); ok {
			return lit.Value, true
		}
	}
	return "", false
}

// parseTemplateParts parses template content until the mode's terminator or
// until a %{...} marker whose keyword is in stops. The stopping marker is
// not consumed.
func (p *parser) parseTemplateParts(mode templateMode, stops []string) (*hcl.Template, error) {
	t := &hcl.Template{}
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			t.Parts = append(t.Parts, &hcl.TemplateLiteral{Value: lit.String()})
			lit.Reset()
		}
	}

	for {
		if p.eof() {
			if mode == templateModeQuoted {
				return nil, p.fail("closing quote")
			}
			break
		}
		switch {
		case mode == templateModeQuoted && p.peek() == '"':
			goto done
		case p.have("$${"):
			p.pos += 3
			lit.WriteString("${")
		case p.have("%%{"):
			p.pos += 3
			lit.WriteString("%{")
		case p.have("${"):
			flush()
			part, err := p.parseTemplateInterp()
			if err != nil {
				return nil, err
			}
			t.Parts = append(t.Parts, part)
		case p.have("%{"):
			kw := p.peekDirectiveKeyword()
			for _, stop := range stops {
				if kw == stop {
					goto done
				}
			}
			flush()
			switch kw {
			case "if":
				part, err := p.parseTemplateIf(mode)
				if err != nil {
					return nil, err
				}
				t.Parts = append(t.Parts, part)
			case "for":
				part, err := p.parseTemplateFor(mode)
				if err != nil {
					return nil, err
				}
				t.Parts = append(t.Parts, part)
			default:
				return nil, p.fail("template directive")
			}
		case mode == templateModeQuoted && p.peek() == '\\':
			if err := p.readEscape(&lit); err != nil {
				return nil, err
			}
		case mode == templateModeQuoted && p.peek() == '\n':
			return nil, p.fail("closing quote")
		default:
			lit.WriteByte(p.peek())
			p.pos++
		}
	}
done:
	flush()
	applyStrip(t)
	return t, nil
}

func (p *parser) parseTemplateInterp() (hcl.TemplatePart, error) {
	p.pos += 2 // consume ${
	var strip hcl.Strip
	strip.Start = p.take("~")
	p.nesting++
	defer func() { p.nesting-- }()
	p.skipBlank()
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	p.skipBlank()
	strip.End = p.take("~")
	if err := p.expect("}", `"}"`); err != nil {
		return nil, err
	}
	return &hcl.TemplateInterp{Expr: expr, Strip: strip}, nil
}

// peekDirectiveKeyword reads the keyword of a %{...} marker without
// consuming anything.
func (p *parser) peekDirectiveKeyword() string {
	if !p.have("%{") {
		return ""
	}
	save := p.pos
	defer func() { p.pos = save }()
	p.pos += 2
	p.take("~")
	p.skipBlank()
	kw, err := p.identifier()
	if err != nil {
		return ""
	}
	return kw
}

// parseDirectiveMarker consumes a %{ keyword } marker for a keyword with no
// arguments (else, endif, endfor).
func (p *parser) parseDirectiveMarker(kw string) (hcl.Strip, error) {
	var strip hcl.Strip
	if err := p.expect("%{", "template directive"); err != nil {
		return strip, err
	}
	strip.Start = p.take("~")
	p.skipBlank()
	if !p.atKeyword(kw) {
		return strip, p.fail(`"` + kw + `"`)
	}
	p.pos += len(kw)
	p.skipBlank()
	strip.End = p.take("~")
	if err := p.expect("}", `"}"`); err != nil {
		return strip, err
	}
	return strip, nil
}

func (p *parser) parseTemplateIf(mode templateMode) (hcl.TemplatePart, error) {
	part := &hcl.TemplateIf{}

	p.pos += 2 // consume %{
	part.IfStrip.Start = p.take("~")
	p.nesting++
	p.skipBlank()
	p.pos += len("if")
	p.skipBlank()
	cond, err := p.parseExpression()
	if err != nil {
		p.nesting--
		return nil, err
	}
	p.skipBlank()
	part.IfStrip.End = p.take("~")
	p.nesting--
	if err := p.expect("}", `"}"`); err != nil {
		return nil, err
	}
	part.Condition = cond

	trueT, err := p.parseTemplateParts(mode, []string{"else", "endif"})
	if err != nil {
		return nil, err
	}
	part.TrueTemplate = trueT

	if p.peekDirectiveKeyword() == "else" {
		part.ElseStrip, err = p.parseDirectiveMarker("else")
		if err != nil {
			return nil, err
		}
		falseT, err := p.parseTemplateParts(mode, []string{"endif"})
		if err != nil {
			return nil, err
		}
		part.FalseTemplate = falseT
	}

	part.EndifStrip, err = p.parseDirectiveMarker("endif")
	if err != nil {
		return nil, err
	}

	// Inner strip markers trim the literals adjacent to them inside the
	// branch templates.
	if part.IfStrip.End {
		stripLeftEdge(part.TrueTemplate)
	}
	if part.ElseStrip.Start {
		stripRightEdge(part.TrueTemplate)
	}
	if part.ElseStrip.End {
		stripLeftEdge(part.FalseTemplate)
	}
	if part.EndifStrip.Start {
		if part.FalseTemplate != nil {
			stripRightEdge(part.FalseTemplate)
		} else {
			stripRightEdge(part.TrueTemplate)
		}
	}
	return part, nil
}

func (p *parser) parseTemplateFor(mode templateMode) (hcl.TemplatePart, error) {
	part := &hcl.TemplateFor{}

	p.pos += 2 // consume %{
	part.ForStrip.Start = p.take("~")
	p.nesting++
	p.skipBlank()
	p.pos += len("for")
	p.skipBlank()
	first, err := p.identifier()
	if err != nil {
		p.nesting--
		return nil, err
	}
	p.skipBlank()
	part.ValueVar = first
	if p.take(",") {
		p.skipBlank()
		second, err := p.identifier()
		if err != nil {
			p.nesting--
			return nil, err
		}
		part.KeyVar = first
		part.ValueVar = second
		p.skipBlank()
	}
	if !p.atKeyword("in") {
		p.nesting--
		return nil, p.fail(`"in"`)
	}
	p.pos += len("in")
	p.skipBlank()
	coll, err := p.parseExpression()
	if err != nil {
		p.nesting--
		return nil, err
	}
	p.skipBlank()
	part.ForStrip.End = p.take("~")
	p.nesting--
	if err := p.expect("}", `"}"`); err != nil {
		return nil, err
	}
	part.Collection = coll

	body, err := p.parseTemplateParts(mode, []string{"endfor"})
	if err != nil {
		return nil, err
	}
	part.Body = body

	part.EndforStrip, err = p.parseDirectiveMarker("endfor")
	if err != nil {
		return nil, err
	}

	if part.ForStrip.End {
		stripLeftEdge(part.Body)
	}
	if part.EndforStrip.Start {
		stripRightEdge(part.Body)
	}
	return part, nil
}

// readEscape decodes one backslash escape sequence into the literal buffer.
func (p *parser) readEscape(lit *strings.Builder) error {
	p.pos++ // consume backslash
	if p.eof() {
		return p.fail("escape sequence")
	}
	c := p.peek()
	p.pos++
	switch c {
	case '"':
		lit.WriteByte('"')
	case '\\':
		lit.WriteByte('\\')
	case '/':
		lit.WriteByte('/')
	case 'b':
		lit.WriteByte('\b')
	case 'f':
		lit.WriteByte('\f')
	case 'n':
		lit.WriteByte('\n')
	case 'r':
		lit.WriteByte('\r')
	case 't':
		lit.WriteByte('\t')
	case 'u':
		r, err := p.readUnicodeEscape()
		if err != nil {
			return err
		}
		lit.WriteRune(r)
	default:
		p.pos -= 2
		return p.fail("escape sequence")
	}
	return nil
}

func (p *parser) readUnicodeEscape() (rune, error) {
	hi, err := p.readHex4()
	if err != nil {
		return 0, err
	}
	if hi < 0xD800 || hi > 0xDBFF {
		return rune(hi), nil
	}
	// High surrogate: a following \uXXXX low surrogate completes the pair.
	if p.have(`\u`) {
		save := p.pos
		p.pos += 2
		lo, err := p.readHex4()
		if err != nil {
			return 0, err
		}
		if lo >= 0xDC00 && lo <= 0xDFFF {
			return rune(0x10000 + (hi-0xD800)<<10 + (lo - 0xDC00)), nil
		}
		p.pos = save
	}
	return utf8.RuneError, nil
}

func (p *parser) readHex4() (int64, error) {
	if p.pos+4 > len(p.src) {
		return 0, p.fail("4 hex digits")
	}
	v, err := strconv.ParseInt(string(p.src[p.pos:p.pos+4]), 16, 32)
	if err != nil {
		return 0, p.fail("4 hex digits")
	}
	p.pos += 4
	return v, nil
}

// applyStrip trims whitespace from literals neighboring parts with strip
// markers: trailing whitespace and one newline before a ${~, leading
// whitespace and one newline after a ~}.
func applyStrip(t *hcl.Template) {
	for i, part := range t.Parts {
		start, end := partStrip(part)
		if start && i > 0 {
			if lit, ok := t.Parts[i-1].(*hcl.TemplateLiteral); ok {
				lit.Value = stripTrailing(lit.Value)
			}
		}
		if end && i+1 < len(t.Parts) {
			if lit, ok := t.Parts[i+1].(*hcl.TemplateLiteral); ok {
				lit.Value = stripLeading(lit.Value)
			}
		}
	}
	// Trimming can empty a literal out entirely.
	parts := t.Parts[:0]
	for _, part := range t.Parts {
		if lit, ok := part.(*hcl.TemplateLiteral); ok && lit.Value == "" {
			continue
		}
		parts = append(parts, part)
	}
	t.Parts = parts
}

// partStrip returns the outward-facing strip flags of a part.
func partStrip(part hcl.TemplatePart) (start, end bool) {
	switch part := part.(type) {
	case *hcl.TemplateInterp:
		return part.Strip.Start, part.Strip.End
	case *hcl.TemplateIf:
		return part.IfStrip.Start, part.EndifStrip.End
	case *hcl.TemplateFor:
		return part.ForStrip.Start, part.EndforStrip.End
	}
	return false, false
}

func stripLeftEdge(t *hcl.Template) {
	if t == nil || len(t.Parts) == 0 {
		return
	}
	if lit, ok := t.Parts[0].(*hcl.TemplateLiteral); ok {
		lit.Value = stripLeading(lit.Value)
	}
}

func stripRightEdge(t *hcl.Template) {
	if t == nil || len(t.Parts) == 0 {
		return
	}
	if lit, ok := t.Parts[len(t.Parts)-1].(*hcl.TemplateLiteral); ok {
		lit.Value = stripTrailing(lit.Value)
	}
}

// stripTrailing removes trailing spaces and tabs plus at most one newline.
func stripTrailing(s string) string {
	s = strings.TrimRight(s, " \t")
	if strings.HasSuffix(s, "\n") {
		s = strings.TrimSuffix(s, "\n")
		s = strings.TrimSuffix(s, "\r")
		s = strings.TrimRight(s, " \t")
	}
	return s
}

// stripLeading removes leading spaces and tabs plus at most one newline.
func stripLeading(s string) string {
	s = strings.TrimLeft(s, " \t")
	if strings.HasPrefix(s, "\r") {
		s = strings.TrimPrefix(s, "\r")
	}
	if strings.HasPrefix(s, "\n") {
		s = strings.TrimPrefix(s, "\n")
		s = strings.TrimLeft(s, " \t")
	}
	return s
}
