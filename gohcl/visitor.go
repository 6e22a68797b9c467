package gohcl

import "github.com/func/hcl"

// The visitor interfaces let a target type take over its own decoding.
// The decoder probes for them on the addressable target before applying
// reflection, so a type only implements the subset it can answer.

// NullVisitor receives a null value.
type NullVisitor interface {
	VisitNull() error
}

// BoolVisitor receives a boolean value.
type BoolVisitor interface {
	VisitBool(b bool) error
}

// NumberVisitor receives a number value.
type NumberVisitor interface {
	VisitNumber(n *hcl.Number) error
}

// StringVisitor receives a string value.
type StringVisitor interface {
	VisitString(s string) error
}

// SequenceVisitor receives an array value. The visitor is given the
// element count and a decode function that decodes element i into any
// target of its choosing.
type SequenceVisitor interface {
	VisitSequence(n int, decode func(i int, target interface{}) error) error
}

// MapVisitor receives an object value. Keys arrive in insertion order and
// decode decodes the value for a key into a target of the visitor's
// choosing.
type MapVisitor interface {
	VisitMap(keys []string, decode func(key string, target interface{}) error) error
}

// BlockVisitor receives every block of a body being decoded structurally.
type BlockVisitor interface {
	VisitBlock(identifier string, labels []string, body *hcl.Body) error
}

// AttributeVisitor receives every attribute of a body being decoded
// structurally, with its unevaluated expression.
type AttributeVisitor interface {
	VisitAttribute(name string, expr hcl.Expression) error
}

// Unmarshaler takes over decoding entirely for any value shape.
type Unmarshaler interface {
	UnmarshalHCL(v hcl.Value) error
}

// Marshaler takes over value-mode encoding.
type Marshaler interface {
	MarshalHCL() (hcl.Value, error)
}

// BodyMarshaler takes over structural encoding.
type BodyMarshaler interface {
	MarshalHCLBody() (*hcl.Body, error)
}
