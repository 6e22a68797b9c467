package gohcl

import (
	"fmt"
	"strings"
)

// PathStep is one element of a decode or encode path: an attribute or
// object key name, or a sequence index.
type PathStep interface {
	pathStep()
}

// AttrStep selects an attribute, field or object key by name.
type AttrStep struct {
	Name string
}

// IndexStep selects a sequence element by position.
type IndexStep struct {
	Index int
}

func (AttrStep) pathStep()  {}
func (IndexStep) pathStep() {}

// Path is the chain of names and indexes leading to the place where an
// error occurred.
type Path []PathStep

// Attr returns the path extended with an attribute step.
func (p Path) Attr(name string) Path {
	return append(append(Path(nil), p...), AttrStep{Name: name})
}

// Index returns the path extended with an index step.
func (p Path) Index(i int) Path {
	return append(append(Path(nil), p...), IndexStep{Index: i})
}

// String renders the path in dotted and indexed form: a.b[2].c
func (p Path) String() string {
	var b strings.Builder
	for i, step := range p {
		switch step := step.(type) {
		case AttrStep:
			if i > 0 {
				b.WriteByte('.')
			}
			b.WriteString(step.Name)
		case IndexStep:
			fmt.Fprintf(&b, "[%d]", step.Index)
		}
	}
	return b.String()
}

// DecodeErrorKind classifies a decode failure.
type DecodeErrorKind int

// Decode failure kinds.
const (
	// UnknownField reports an attribute or block the closed schema does
	// not declare.
	UnknownField DecodeErrorKind = iota
	// MissingField reports a required field with no matching attribute or
	// block.
	MissingField
	// TypeMismatch reports a value that does not fit the target type.
	TypeMismatch
	// CustomDecodeError reports a failure from a visitor or a validate
	// rule.
	CustomDecodeError
)

// DecodeError describes why a body or value could not be decoded into the
// target. Path records where in the input the failure occurred.
type DecodeError struct {
	Kind     DecodeErrorKind
	Path     Path
	Field    string // field or attribute name, for UnknownField and MissingField
	Expected string // for TypeMismatch
	Got      string // for TypeMismatch
	Detail   string // suggestion or custom message
}

func (e *DecodeError) Error() string {
	var b strings.Builder
	if len(e.Path) > 0 {
		b.WriteString(e.Path.String())
		b.WriteString(": ")
	}
	switch e.Kind {
	case UnknownField:
		fmt.Fprintf(&b, "unknown field %q", e.Field)
	case MissingField:
		fmt.Fprintf(&b, "missing required field %q", e.Field)
	case TypeMismatch:
		fmt.Fprintf(&b, "cannot decode %s as %s", e.Got, e.Expected)
	case CustomDecodeError:
		b.WriteString(e.Detail)
		return b.String()
	}
	if e.Detail != "" {
		fmt.Fprintf(&b, " (%s)", e.Detail)
	}
	return b.String()
}

// EncodeErrorKind classifies an encode failure.
type EncodeErrorKind int

// Encode failure kinds.
const (
	// InvalidValue reports a Go value with no HCL representation.
	InvalidValue EncodeErrorKind = iota
	// CustomEncodeError reports a failure from a Marshaler.
	CustomEncodeError
)

// EncodeError describes why a Go value could not be encoded.
type EncodeError struct {
	Kind   EncodeErrorKind
	Path   Path
	Detail string
}

func (e *EncodeError) Error() string {
	if len(e.Path) > 0 {
		return fmt.Sprintf("%s: %s", e.Path, e.Detail)
	}
	return e.Detail
}
