package hcl

// Template is a string-producing sequence of literal text, interpolations
// and directives. Quoted string templates, heredocs and the standalone
// template sub-language all parse to this shape.
type Template struct {
	Parts []TemplatePart
}

// TemplateExpr is a template in expression position: either a quoted string
// template or, when Heredoc is set, a heredoc.
type TemplateExpr struct {
	Template *Template
	Heredoc  *HeredocMarker
}

// HeredocMarker carries the surface details of a heredoc: its delimiter
// identifier and whether the indented (<<-) form was used.
type HeredocMarker struct {
	Delimiter string
	Indented  bool
}

// TemplatePart is one element of a template: literal text, an interpolation
// or a directive. The variants share no behavior; consumers switch on the
// concrete type.
type TemplatePart interface {
	templatePart()
}

// Strip records the ~ markers on an interpolation or directive, which trim
// whitespace (including one adjacent newline) from the neighboring literal
// on the marked side.
type Strip struct {
	Start bool
	End   bool
}

// TemplateLiteral is a run of literal text.
type TemplateLiteral struct {
	Value string
}

// TemplateInterp is a ${ expr } interpolation.
type TemplateInterp struct {
	Expr  Expression
	Strip Strip
}

// TemplateIf is a %{ if } ... %{ else } ... %{ endif } directive.
// FalseTemplate is nil when there is no else branch.
type TemplateIf struct {
	Condition     Expression
	TrueTemplate  *Template
	FalseTemplate *Template

	IfStrip    Strip
	ElseStrip  Strip
	EndifStrip Strip
}

// TemplateFor is a %{ for k, v in coll } ... %{ endfor } directive. KeyVar
// is empty when only one iteration variable is bound.
type TemplateFor struct {
	KeyVar     string
	ValueVar   string
	Collection Expression
	Body       *Template

	ForStrip    Strip
	EndforStrip Strip
}

func (*TemplateLiteral) templatePart() {}
func (*TemplateInterp) templatePart()  {}
func (*TemplateIf) templatePart()      {}
func (*TemplateFor) templatePart()     {}
