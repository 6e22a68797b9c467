// Package hclsyntax parses HCL native syntax source text into the model
// types of the hcl package.
//
// The parser is a recursive-descent implementation of the HCL grammar. It
// recognizes the full expression language including quoted and heredoc
// templates, for-expressions, operators and traversals. Failures are
// reported as *hcl.ParseError with a 1-based line and column, the set of
// grammar rules that would have allowed the parse to continue, and a short
// snippet of the offending input.
//
// The parser does not evaluate anything. Expressions are returned as
// syntax trees; see the gohcl package for mapping them onto Go values.
package hclsyntax
