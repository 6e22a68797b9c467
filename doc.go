// Package hcl contains the core data model for the HashiCorp Configuration
// Language: dynamic values, structural documents and the expression AST.
//
// A configuration file is represented as a Body, an ordered sequence of
// attributes and blocks:
//
//	project "demo" {
//	    region = "eu-west-1"
//
//	    function "handler" {
//	        memory = 512
//	        env    = { DEBUG = "1" }
//	    }
//	}
//
// Attribute values are expressions, not values. Templates, variables,
// operators and traversals survive parsing and are only reduced to plain
// values where they are literal. The Value type models the dynamic side:
// null, bool, number, string, array and object with preserved key order.
//
// Parsing lives in the hclsyntax package, canonical text output in hclwrite
// and the mapping between bodies/values and Go types in gohcl. This package
// is purely the model; it performs no I/O and holds no global state.
package hcl
