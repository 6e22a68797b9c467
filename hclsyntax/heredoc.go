package hclsyntax

import (
	"strings"

	"github.com/func/hcl"
)

// parseHeredoc parses <<IDENT or <<-IDENT up to the line containing only
// the delimiter again. The captured body is template-parsed without escape
// processing; the <<- form first strips the common leading whitespace of
// all non-empty lines including the terminator line.
func (p *parser) parseHeredoc() (hcl.Expression, error) {
	openLine := p.posAt(p.pos).Line
	p.pos += 2 // consume <<
	indented := p.take("-")
	delim, err := p.identifier()
	if err != nil {
		return nil, p.fail("heredoc delimiter")
	}
	p.skipInline()
	if err := p.expect("\n", "newline after heredoc delimiter"); err != nil {
		return nil, err
	}

	start := p.pos
	var body string
	var termIndent int
	for {
		lineStart := p.pos
		lineEnd := lineStart
		for lineEnd < len(p.src) && p.src[lineEnd] != '\n' {
			lineEnd++
		}
		line := strings.TrimSuffix(string(p.src[lineStart:lineEnd]), "\r")
		content := line
		if indented {
			content = strings.TrimLeft(line, " \t")
		}
		if content == delim {
			body = string(p.src[start:lineStart])
			termIndent = len(line) - len(content)
			// The newline after the terminator ends the attribute; leave
			// it for the caller.
			p.pos = lineEnd
			break
		}
		if lineEnd >= len(p.src) {
			p.pos = lineEnd
			return nil, p.fail("heredoc terminator " + delim)
		}
		p.pos = lineEnd + 1
	}

	if indented {
		body = dedent(body, termIndent)
	}

	sub := &parser{
		src:      []byte(body),
		filename: p.filename,
		maxDepth: p.maxDepth,
		furthest: -1,
	}
	t, err := sub.parseTemplateParts(templateModeHeredoc, nil)
	if err != nil {
		err = sub.parseErr(err)
		if perr, ok := err.(*hcl.ParseError); ok {
			// Positions inside the body are relative to the heredoc.
			perr.Pos.Line += openLine
		}
		return nil, err
	}
	return &hcl.TemplateExpr{
		Template: t,
		Heredoc:  &hcl.HeredocMarker{Delimiter: delim, Indented: indented},
	}, nil
}

// dedent strips the common leading whitespace prefix from every line. The
// prefix length is the minimum indentation of any non-empty line, the
// terminator line included.
func dedent(body string, termIndent int) string {
	lines := strings.SplitAfter(body, "\n")
	min := termIndent
	for _, line := range lines {
		content := strings.TrimLeft(line, " \t")
		if content == "" || content == "\n" || content == "\r\n" {
			continue
		}
		if indent := len(line) - len(content); indent < min {
			min = indent
		}
	}
	var b strings.Builder
	for _, line := range lines {
		cut := min
		if cut > len(line) {
			cut = len(line)
		}
		for i := 0; i < len(line) && i < min; i++ {
			if line[i] != ' ' && line[i] != '\t' {
				cut = i
				break
			}
		}
		b.WriteString(line[cut:])
	}
	return b.String()
}
