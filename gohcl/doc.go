// Package gohcl maps hcl bodies and values onto Go values and back.
//
// Two modes are supported. In value mode, DecodeValue and EncodeValue
// treat HCL as dynamic data: objects, arrays and primitives convert to and
// from Go maps, slices, structs and scalars. In structural mode, Decode
// and Encode treat HCL as a block-structured document: struct fields map
// to attributes, blocks and block labels based on hcl struct tags:
//
//	type Config struct {
//	    Region  string     `hcl:"region"`
//	    Retries int        `hcl:"retries,optional"`
//	    Rule    []Rule     `hcl:"rule,block"`
//	}
//
//	type Rule struct {
//	    Name   string `hcl:",label"`
//	    Action string `hcl:"action" validate:"oneof=allow deny"`
//	}
//
// The tag name defaults to the snake_case form of the field name. A field
// tagged ",remain" of type *hcl.Body collects structures the schema does
// not name; without such a field the schema is closed and unknown
// attributes or blocks are reported, with a suggestion when a declared
// name is a close match.
//
// Fields may carry a validate tag with rules checked after decoding, for
// example `validate:"min=1"`.
//
// Types can take over their own decoding by implementing the visitor
// interfaces in this package; see Unmarshaler and friends.
package gohcl
