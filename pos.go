package hcl

import "fmt"

// Pos is a position within a source file. Lines and columns are 1-based,
// Byte is the 0-based byte offset from the start of the input.
type Pos struct {
	Line   int
	Column int
	Byte   int
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Range is a contiguous span of source text, used to point diagnostics at
// the offending input.
type Range struct {
	Filename string
	Start    Pos
	End      Pos
}

func (r Range) String() string {
	if r.Filename == "" {
		return r.Start.String()
	}
	return fmt.Sprintf("%s:%s", r.Filename, r.Start)
}
