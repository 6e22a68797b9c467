package hcl

import (
	"fmt"
	"strings"
)

// ParseError is returned when source text is not a valid body, expression or
// template. Pos points at the furthest location the parser reached before
// failing, Expected lists the grammar rules that would have allowed it to
// continue.
type ParseError struct {
	Pos      Pos
	Filename string
	Expected []string
	Snippet  string
}

func (e *ParseError) Error() string {
	var b strings.Builder
	if e.Filename != "" {
		fmt.Fprintf(&b, "%s:", e.Filename)
	}
	fmt.Fprintf(&b, "%d:%d: ", e.Pos.Line, e.Pos.Column)
	switch len(e.Expected) {
	case 0:
		b.WriteString("unexpected input")
	case 1:
		fmt.Fprintf(&b, "expected %s", e.Expected[0])
	default:
		fmt.Fprintf(&b, "expected one of %s", strings.Join(e.Expected, ", "))
	}
	if e.Snippet != "" {
		fmt.Fprintf(&b, " near %q", e.Snippet)
	}
	return b.String()
}

// NumberError is returned for numeric literals that overflow the supported
// representations or are not valid numbers at all.
type NumberError struct {
	Input  string
	Reason string
}

func (e *NumberError) Error() string {
	return fmt.Sprintf("invalid number %q: %s", e.Input, e.Reason)
}
