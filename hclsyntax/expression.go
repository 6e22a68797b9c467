package hclsyntax

import (
	"strconv"

	"github.com/func/hcl"
)

// binaryOps in match order: two-character operators first so that == is not
// read as two assignments and <= not as a comparison plus something else.
var binaryOps = []hcl.Operator{
	hcl.OpEqual, hcl.OpNotEqual, hcl.OpLessEqual, hcl.OpGreaterEqual,
	hcl.OpAnd, hcl.OpOr,
	hcl.OpAdd, hcl.OpSubtract, hcl.OpMultiply, hcl.OpDivide, hcl.OpModulo,
	hcl.OpLess, hcl.OpGreater,
}

// parseExpression parses a full expression including the ternary
// conditional, which binds lower than any binary operator.
func (p *parser) parseExpression() (hcl.Expression, error) {
	if err := p.push(); err != nil {
		return nil, err
	}
	defer p.pop()

	cond, err := p.parseBinaryExpression()
	if err != nil {
		return nil, err
	}
	save := p.pos
	p.skipCont()
	if !p.take("?") {
		p.pos = save
		return cond, nil
	}
	p.skipCont()
	trueResult, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	p.skipCont()
	if err := p.expect(":", `":"`); err != nil {
		return nil, err
	}
	p.skipCont()
	falseResult, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &hcl.Conditional{
		Condition:   cond,
		TrueResult:  trueResult,
		FalseResult: falseResult,
	}, nil
}

// parseBinaryExpression parses ExprTerm (Op ExprTerm (Op ...)?)?. The
// grammar is right-recursive and the tree mirrors the source shape; no
// precedence reshaping happens here.
func (p *parser) parseBinaryExpression() (hcl.Expression, error) {
	lhs, err := p.parseExprTerm()
	if err != nil {
		return nil, err
	}
	save := p.pos
	p.skipCont()
	op, ok := p.scanBinaryOp()
	if !ok {
		p.pos = save
		return lhs, nil
	}
	p.skipCont()
	rhs, err := p.parseBinaryExpression()
	if err != nil {
		return nil, err
	}
	return &hcl.BinaryOp{LHS: lhs, Op: op, RHS: rhs}, nil
}

func (p *parser) scanBinaryOp() (hcl.Operator, bool) {
	for _, op := range binaryOps {
		if p.have(string(op)) {
			// A "-" immediately followed by a digit after a newline would
			// have ended the attribute already, so no lookahead is needed
			// beyond the operator text itself.
			p.pos += len(op)
			return op, true
		}
	}
	return "", false
}

// parseExprTerm parses a single term and layers traversal suffixes onto it
// iteratively.
func (p *parser) parseExprTerm() (hcl.Expression, error) {
	if err := p.push(); err != nil {
		return nil, err
	}
	defer p.pop()

	base, err := p.parseTermBase()
	if err != nil {
		return nil, err
	}
	if _, ok := base.(*hcl.UnaryOp); ok {
		// Suffixes bind tighter than unary operators and were consumed by
		// the operand.
		return base, nil
	}
	return p.parseTraversalSuffixes(base)
}

func (p *parser) parseTermBase() (hcl.Expression, error) {
	switch c := p.peek(); {
	case c == '(':
		p.pos++
		p.nesting++
		p.skipBlank()
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		p.skipBlank()
		if err := p.expect(")", `")"`); err != nil {
			return nil, err
		}
		p.nesting--
		return &hcl.ParenExpr{Inner: inner}, nil
	case c == '[':
		return p.parseTupleOrForExpr()
	case c == '{':
		return p.parseObjectOrForExpr()
	case c == '"':
		return p.parseQuotedTemplate()
	case c == '<' && p.peekAt(1) == '<':
		return p.parseHeredoc()
	case c == '-' || c == '!':
		p.pos++
		op := hcl.OpNegate
		if c == '!' {
			op = hcl.OpNot
		}
		p.skipCont()
		inner, err := p.parseExprTerm()
		if err != nil {
			return nil, err
		}
		return &hcl.UnaryOp{Op: op, Expr: inner}, nil
	case c >= '0' && c <= '9':
		return p.parseNumber()
	default:
		ident, err := p.identifier()
		if err != nil {
			return nil, p.fail("expression")
		}
		switch ident {
		case "true":
			return hcl.Literal(hcl.Bool(true)), nil
		case "false":
			return hcl.Literal(hcl.Bool(false)), nil
		case "null":
			return hcl.Literal(hcl.Null{}), nil
		}
		save := p.pos
		p.skipInline()
		if p.take("(") {
			return p.parseFuncArgs(ident)
		}
		p.pos = save
		return &hcl.Variable{Name: ident}, nil
	}
}

func (p *parser) parseNumber() (hcl.Expression, error) {
	start := p.pos
	for !p.eof() && isDigit(p.peek()) {
		p.pos++
	}
	if p.peek() == '.' && isDigit(p.peekAt(1)) {
		p.pos++
		for !p.eof() && isDigit(p.peek()) {
			p.pos++
		}
	}
	if c := p.peek(); c == 'e' || c == 'E' {
		save := p.pos
		p.pos++
		if c := p.peek(); c == '+' || c == '-' {
			p.pos++
		}
		if !isDigit(p.peek()) {
			p.pos = save
		} else {
			for !p.eof() && isDigit(p.peek()) {
				p.pos++
			}
		}
	}
	n, err := hcl.ParseNumber(string(p.src[start:p.pos]))
	if err != nil {
		p.pos = start
		return nil, p.fail("number")
	}
	return hcl.Literal(n), nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func (p *parser) parseFuncArgs(name string) (hcl.Expression, error) {
	p.nesting++
	defer func() { p.nesting-- }()

	call := &hcl.FuncCall{Name: name}
	p.skipBlank()
	if p.take(")") {
		return call, nil
	}
	for {
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		call.Args = append(call.Args, arg)
		p.skipBlank()
		if p.take("...") {
			call.ExpandFinal = true
			p.skipBlank()
			if err := p.expect(")", `")"`); err != nil {
				return nil, err
			}
			return call, nil
		}
		if p.take(",") {
			p.skipBlank()
			if p.take(")") {
				// Trailing comma.
				return call, nil
			}
			continue
		}
		if p.take(")") {
			return call, nil
		}
		return nil, p.fail(`"," or ")"`)
	}
}

func (p *parser) parseTupleOrForExpr() (hcl.Expression, error) {
	p.pos++ // consume '['
	p.nesting++
	defer func() { p.nesting-- }()

	p.skipBlank()
	if p.atKeyword("for") {
		return p.parseForTuple()
	}

	tuple := &hcl.TupleExpr{}
	if p.take("]") {
		return tuple, nil
	}
	for {
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		tuple.Exprs = append(tuple.Exprs, expr)
		p.skipBlank()
		if p.take(",") {
			p.skipBlank()
			if p.take("]") {
				return tuple, nil
			}
			continue
		}
		if p.take("]") {
			return tuple, nil
		}
		return nil, p.fail(`"," or "]"`)
	}
}

func (p *parser) parseObjectOrForExpr() (hcl.Expression, error) {
	p.pos++ // consume '{'
	p.nesting++
	defer func() { p.nesting-- }()

	p.skipBlank()
	if p.atKeyword("for") {
		return p.parseForObject()
	}

	obj := &hcl.ObjectExpr{}
	seen := map[string]bool{}
	if p.take("}") {
		return obj, nil
	}
	for {
		item, err := p.parseObjectItem()
		if err != nil {
			return nil, err
		}
		if key, ok := staticObjectKey(item); ok {
			if seen[key] {
				return nil, p.fail("unique object key")
			}
			seen[key] = true
		}
		obj.Items = append(obj.Items, item)
		p.skipInline()
		sep := false
		if p.take(",") {
			sep = true
		} else if p.peek() == '\n' {
			sep = true
		}
		p.skipBlank()
		if p.take("}") {
			return obj, nil
		}
		if !sep {
			return nil, p.fail(`"," or "}"`)
		}
	}
}

func (p *parser) parseObjectItem() (hcl.ObjectItem, error) {
	var item hcl.ObjectItem
	if c := p.peek(); c == '_' || isLetterByte(c) {
		save := p.pos
		ident, err := p.identifier()
		if err == nil {
			p.skipInline()
			if p.peek() == '=' && p.peekAt(1) != '=' || p.peek() == ':' {
				switch ident {
				case "true", "false", "null":
					// Reserved literals cannot name object items.
					p.pos = save
					return item, p.fail("object key")
				}
				p.pos++ // consume separator
				item.Ident = ident
				p.skipBlank()
				value, err := p.parseExpression()
				if err != nil {
					return item, err
				}
				item.Value = value
				return item, nil
			}
		}
		p.pos = save
	}
	key, err := p.parseExpression()
	if err != nil {
		return item, err
	}
	item.Key = key
	p.skipBlank()
	if !p.take("=") && !p.take(":") {
		return item, p.fail(`"=" or ":"`)
	}
	p.skipBlank()
	value, err := p.parseExpression()
	if err != nil {
		return item, err
	}
	item.Value = value
	return item, nil
}

func staticObjectKey(item hcl.ObjectItem) (string, bool) {
	if item.Ident != "" {
		return item.Ident, true
	}
	if lit, ok := item.Key.(*hcl.LiteralValue); ok {
		if s, ok := lit.Value.(hcl.String); ok {
			return string(s), true
		}
	}
	if t, ok := item.Key.(*hcl.TemplateExpr); ok && t.Heredoc == nil {
		if len(t.Template.Parts) == 1 {
			if lit, ok := t.Template.Parts[0].(*hcl.TemplateLiteral); ok {
				return lit.Value, true
			}
		}
	}
	return "", false
}

func isLetterByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= 0x80
}

// atKeyword reports whether the next token is the given keyword as a whole
// identifier, without consuming it.
func (p *parser) atKeyword(kw string) bool {
	if !p.have(kw) {
		return false
	}
	c := p.peekAt(len(kw))
	if c == '_' || c == '-' || isDigit(c) || isLetterByte(c) {
		return false
	}
	return true
}

// parseForIntro parses `for k, v in coll :` after the opening bracket and
// the for keyword have been recognized.
func (p *parser) parseForIntro() (keyVar, valueVar string, coll hcl.Expression, err error) {
	p.pos += len("for")
	p.skipBlank()
	first, err := p.identifier()
	if err != nil {
		return "", "", nil, err
	}
	p.skipBlank()
	valueVar = first
	if p.take(",") {
		p.skipBlank()
		second, err := p.identifier()
		if err != nil {
			return "", "", nil, err
		}
		keyVar = first
		valueVar = second
		p.skipBlank()
	}
	if !p.atKeyword("in") {
		return "", "", nil, p.fail(`"in"`)
	}
	p.pos += len("in")
	p.skipBlank()
	coll, err = p.parseExpression()
	if err != nil {
		return "", "", nil, err
	}
	p.skipBlank()
	if err := p.expect(":", `":"`); err != nil {
		return "", "", nil, err
	}
	p.skipBlank()
	return keyVar, valueVar, coll, nil
}

func (p *parser) parseForCond() (hcl.Expression, error) {
	p.skipBlank()
	if !p.atKeyword("if") {
		return nil, nil
	}
	p.pos += len("if")
	p.skipBlank()
	return p.parseExpression()
}

func (p *parser) parseForTuple() (hcl.Expression, error) {
	keyVar, valueVar, coll, err := p.parseForIntro()
	if err != nil {
		return nil, err
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	cond, err := p.parseForCond()
	if err != nil {
		return nil, err
	}
	p.skipBlank()
	if err := p.expect("]", `"]"`); err != nil {
		return nil, err
	}
	return &hcl.ForTupleExpr{
		KeyVar:     keyVar,
		ValueVar:   valueVar,
		Collection: coll,
		Value:      value,
		Condition:  cond,
	}, nil
}

func (p *parser) parseForObject() (hcl.Expression, error) {
	keyVar, valueVar, coll, err := p.parseForIntro()
	if err != nil {
		return nil, err
	}
	key, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	p.skipBlank()
	if err := p.expect("=>", `"=>"`); err != nil {
		return nil, err
	}
	p.skipBlank()
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	grouping := false
	p.skipBlank()
	if p.take("...") {
		grouping = true
	}
	cond, err := p.parseForCond()
	if err != nil {
		return nil, err
	}
	p.skipBlank()
	if err := p.expect("}", `"}"`); err != nil {
		return nil, err
	}
	return &hcl.ForObjectExpr{
		KeyVar:     keyVar,
		ValueVar:   valueVar,
		Collection: coll,
		Key:        key,
		Value:      value,
		Grouping:   grouping,
		Condition:  cond,
	}, nil
}

// parseTraversalSuffixes assembles the suffix operators of a traversal
// iteratively, so deeply chained accesses do not recurse.
func (p *parser) parseTraversalSuffixes(base hcl.Expression) (hcl.Expression, error) {
	var ops []hcl.Traverser
	attrSplat := false
	fullSplat := false
	for {
		save := p.pos
		p.skipCont()
		if p.have("...") {
			// Expansion or grouping marker, not a traversal.
			p.pos = save
			if len(ops) == 0 {
				return base, nil
			}
			return &hcl.Traversal{Base: base, Operators: ops}, nil
		}
		switch {
		case p.take(".*"):
			if attrSplat || fullSplat {
				return nil, p.fail("attribute name")
			}
			attrSplat = true
			ops = append(ops, hcl.AttrSplat{})
		case p.take("."):
			if isDigit(p.peek()) {
				if attrSplat || fullSplat {
					return nil, p.fail("attribute name")
				}
				start := p.pos
				for !p.eof() && isDigit(p.peek()) {
					p.pos++
				}
				idx, err := strconv.ParseInt(string(p.src[start:p.pos]), 10, 64)
				if err != nil {
					return nil, p.fail("index")
				}
				ops = append(ops, hcl.LegacyIndex{Index: idx})
				break
			}
			name, err := p.identifier()
			if err != nil {
				return nil, p.fail("attribute name")
			}
			ops = append(ops, hcl.GetAttr{Name: name})
		case p.take("[*]"):
			if attrSplat || fullSplat {
				return nil, p.fail("attribute name")
			}
			fullSplat = true
			ops = append(ops, hcl.FullSplat{})
		case p.peek() == '[':
			if attrSplat {
				// An attribute splat admits only attribute accesses.
				return nil, p.fail("attribute name")
			}
			p.pos++
			p.nesting++
			p.skipBlank()
			key, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			p.skipBlank()
			if err := p.expect("]", `"]"`); err != nil {
				return nil, err
			}
			p.nesting--
			ops = append(ops, hcl.Index{Key: key})
		default:
			p.pos = save
			if len(ops) == 0 {
				return base, nil
			}
			return &hcl.Traversal{Base: base, Operators: ops}, nil
		}
	}
}
