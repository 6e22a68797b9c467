package hclsyntax

import (
	"github.com/func/hcl"
)

// DefaultMaxDepth is the expression nesting limit used when Options does
// not set one. Inputs nested deeper fail with a ParseError instead of
// exhausting the stack.
const DefaultMaxDepth = 128

// Options control a single parse operation. The zero value is valid.
type Options struct {
	// Filename is included in error messages. It is not read from disk.
	Filename string

	// MaxDepth overrides the expression nesting limit. Zero means
	// DefaultMaxDepth.
	MaxDepth int
}

// ParseBody parses src as a sequence of attributes and blocks.
func ParseBody(src []byte, opts *Options) (*hcl.Body, error) {
	p := newParser(src, opts)
	body, err := p.parseBody(0)
	if err != nil {
		return nil, p.parseErr(err)
	}
	return body, nil
}

// ParseValue parses src as a body and flattens it into a value. Attributes
// become object fields and blocks become nested objects; see
// hcl.BodyToValue.
func ParseValue(src []byte, opts *Options) (hcl.Value, error) {
	body, err := ParseBody(src, opts)
	if err != nil {
		return nil, err
	}
	return hcl.BodyToValue(body), nil
}

// ParseExpression parses src as a single expression.
func ParseExpression(src []byte, opts *Options) (hcl.Expression, error) {
	p := newParser(src, opts)
	p.nesting++ // newlines are insignificant around a standalone expression
	p.skipBlank()
	expr, err := p.parseExpression()
	if err != nil {
		return nil, p.parseErr(err)
	}
	p.skipBlank()
	if !p.eof() {
		p.fail("end of input")
		return nil, p.parseErr(errParse)
	}
	return expr, nil
}

// ParseTemplate parses src using the standalone template sub-language:
// literal text, ${...} interpolations and %{...} directives. Backslash
// sequences are not escape-processed, matching heredoc behavior.
func ParseTemplate(src []byte, opts *Options) (*hcl.Template, error) {
	p := newParser(src, opts)
	t, err := p.parseTemplateParts(templateModeBare, nil)
	if err != nil {
		return nil, p.parseErr(err)
	}
	return t, nil
}
