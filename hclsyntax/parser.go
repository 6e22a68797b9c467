package hclsyntax

import (
	"bytes"
	"errors"
	"unicode"
	"unicode/utf8"

	"github.com/func/hcl"
)

// errParse marks a recoverable grammar failure. The expectation that failed
// is recorded on the parser; choice points retry their alternatives when
// they see this error and the deepest recorded expectation wins when the
// parse gives up.
var errParse = errors.New("parse failed")

type parser struct {
	src      []byte
	pos      int
	filename string
	maxDepth int

	// nesting counts enclosing bracketing constructs. Newlines are
	// insignificant inside them.
	nesting int
	depth   int

	// furthest failure for error reporting.
	furthest int
	expected []string
}

func newParser(src []byte, opts *Options) *parser {
	p := &parser{src: src, maxDepth: DefaultMaxDepth, furthest: -1}
	if opts != nil {
		p.filename = opts.Filename
		if opts.MaxDepth > 0 {
			p.maxDepth = opts.MaxDepth
		}
	}
	// Byte order mark, if present, is not part of the document.
	if bytes.HasPrefix(p.src, []byte{0xEF, 0xBB, 0xBF}) {
		p.pos = 3
	}
	return p
}

// fail records that the given rule was expected at the current position and
// returns errParse.
func (p *parser) fail(expected string) error {
	if p.pos > p.furthest {
		p.furthest = p.pos
		p.expected = p.expected[:0]
	}
	if p.pos == p.furthest {
		for _, e := range p.expected {
			if e == expected {
				return errParse
			}
		}
		p.expected = append(p.expected, expected)
	}
	return errParse
}

// parseErr converts an internal failure into the error returned to the
// caller.
func (p *parser) parseErr(err error) error {
	if !errors.Is(err, errParse) {
		return err
	}
	off := p.furthest
	if off < 0 {
		off = p.pos
	}
	perr := &hcl.ParseError{
		Pos:      p.posAt(off),
		Filename: p.filename,
		Expected: append([]string(nil), p.expected...),
		Snippet:  p.snippetAt(off),
	}
	return perr
}

func (p *parser) posAt(off int) hcl.Pos {
	line, col := 1, 1
	for i := 0; i < off && i < len(p.src); i++ {
		if p.src[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return hcl.Pos{Line: line, Column: col, Byte: off}
}

func (p *parser) snippetAt(off int) string {
	if off >= len(p.src) {
		return ""
	}
	end := off
	for end < len(p.src) && end < off+16 && p.src[end] != '\n' {
		end++
	}
	return string(p.src[off:end])
}

func (p *parser) push() error {
	p.depth++
	if p.depth > p.maxDepth {
		return &hcl.ParseError{
			Pos:      p.posAt(p.pos),
			Filename: p.filename,
			Expected: []string{"less deeply nested expression"},
			Snippet:  p.snippetAt(p.pos),
		}
	}
	return nil
}

func (p *parser) pop() { p.depth-- }

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) peekAt(n int) byte {
	if p.pos+n >= len(p.src) {
		return 0
	}
	return p.src[p.pos+n]
}

func (p *parser) have(s string) bool {
	return bytes.HasPrefix(p.src[p.pos:], []byte(s))
}

func (p *parser) take(s string) bool {
	if p.have(s) {
		p.pos += len(s)
		return true
	}
	return false
}

func (p *parser) expect(s string, rule string) error {
	if p.take(s) {
		return nil
	}
	return p.fail(rule)
}

// skipInline skips spaces, tabs and comments, but not newlines.
func (p *parser) skipInline() {
	for !p.eof() {
		switch c := p.peek(); {
		case c == ' ' || c == '\t' || c == '\r':
			p.pos++
		case c == '#':
			p.skipLineComment()
		case c == '/' && p.peekAt(1) == '/':
			p.skipLineComment()
		case c == '/' && p.peekAt(1) == '*':
			p.skipBlockComment()
		default:
			return
		}
	}
}

// skipBlank skips spaces, comments and newlines.
func (p *parser) skipBlank() {
	for {
		p.skipInline()
		if p.peek() == '\n' {
			p.pos++
			continue
		}
		return
	}
}

// skipCont skips inline whitespace, and newlines too when the parser is
// inside a bracketing construct.
func (p *parser) skipCont() {
	if p.nesting > 0 {
		p.skipBlank()
		return
	}
	p.skipInline()
}

func (p *parser) skipLineComment() {
	for !p.eof() && p.peek() != '\n' {
		p.pos++
	}
}

func (p *parser) skipBlockComment() {
	p.pos += 2
	for !p.eof() {
		if p.take("*/") {
			return
		}
		p.pos++
	}
}

// identifier scans an HCL identifier: a letter or underscore followed by
// letters, digits, hyphens and underscores.
func (p *parser) identifier() (string, error) {
	r, size := utf8.DecodeRune(p.src[p.pos:])
	if !(r == '_' || unicode.IsLetter(r)) {
		return "", p.fail("identifier")
	}
	start := p.pos
	p.pos += size
	for !p.eof() {
		r, size := utf8.DecodeRune(p.src[p.pos:])
		if r == '_' || r == '-' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			p.pos += size
			continue
		}
		break
	}
	return string(p.src[start:p.pos]), nil
}

// parseBody parses structures until the terminator: '}' for block bodies,
// 0 for end of input.
func (p *parser) parseBody(terminator byte) (*hcl.Body, error) {
	body := &hcl.Body{}
	for {
		p.skipBlank()
		if terminator != 0 && p.peek() == terminator {
			return body, nil
		}
		if p.eof() {
			if terminator != 0 {
				return nil, p.fail(`"}"`)
			}
			return body, nil
		}
		s, err := p.parseStructure()
		if err != nil {
			return nil, err
		}
		body.Structures = append(body.Structures, s)
	}
}

func (p *parser) parseStructure() (hcl.Structure, error) {
	ident, err := p.identifier()
	if err != nil {
		return nil, p.fail("attribute or block")
	}
	p.skipInline()
	if p.take("=") {
		return p.parseAttribute(ident)
	}
	return p.parseBlock(ident)
}

func (p *parser) parseAttribute(name string) (*hcl.Attribute, error) {
	p.skipInline()
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.endOfStructure("newline after attribute"); err != nil {
		return nil, err
	}
	return &hcl.Attribute{Name: name, Value: expr}, nil
}

func (p *parser) parseBlock(ident string) (*hcl.Block, error) {
	block := &hcl.Block{Identifier: ident}
	for {
		p.skipInline()
		switch c := p.peek(); {
		case c == '"':
			s, err := p.parseStringLabel()
			if err != nil {
				return nil, err
			}
			block.Labels = append(block.Labels, hcl.BlockLabel{Value: s, Quoted: true})
		case c == '{':
			p.pos++
			body, err := p.parseBody('}')
			if err != nil {
				return nil, err
			}
			p.pos++ // consume '}'
			block.Body = body
			if err := p.endOfStructure("newline after block"); err != nil {
				return nil, err
			}
			return block, nil
		default:
			label, err := p.identifier()
			if err != nil {
				return nil, p.fail(`block label or "{"`)
			}
			block.Labels = append(block.Labels, hcl.BlockLabel{Value: label})
		}
	}
}

// parseStringLabel parses a quoted block label. Labels are plain strings;
// a template in label position is rejected.
func (p *parser) parseStringLabel() (string, error) {
	expr, err := p.parseQuotedTemplate()
	if err != nil {
		return "", err
	}
	lit, ok := expr.(*hcl.LiteralValue)
	if !ok {
		return "", p.fail("static string label")
	}
	return string(lit.Value.(hcl.String)), nil
}

// endOfStructure requires a newline, end of input or a closing brace after
// an attribute or block. The terminator itself is not consumed.
func (p *parser) endOfStructure(rule string) error {
	p.skipInline()
	switch {
	case p.eof(), p.peek() == '\n', p.peek() == '}':
		return nil
	default:
		return p.fail(rule)
	}
}
