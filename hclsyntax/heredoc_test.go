package hclsyntax_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/func/hcl"
	"github.com/func/hcl/hclsyntax"
)

func TestParseHeredoc(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want hcl.Expression
	}{
		{
			name: "Plain",
			src:  "doc = <<EOF\nhello\nworld\nEOF\n",
			want: &hcl.TemplateExpr{
				Template: &hcl.Template{Parts: []hcl.TemplatePart{
					&hcl.TemplateLiteral{Value: "hello\nworld\n"},
				}},
				Heredoc: &hcl.HeredocMarker{Delimiter: "EOF"},
			},
		},
		{
			name: "IndentedStripsCommonPrefix",
			src:  "doc = <<-END\n  a\n    b\n  END\n",
			want: &hcl.TemplateExpr{
				Template: &hcl.Template{Parts: []hcl.TemplatePart{
					&hcl.TemplateLiteral{Value: "a\n  b\n"},
				}},
				Heredoc: &hcl.HeredocMarker{Delimiter: "END", Indented: true},
			},
		},
		{
			name: "Interpolation",
			src:  "doc = <<EOF\nhello ${name}\nEOF\n",
			want: &hcl.TemplateExpr{
				Template: &hcl.Template{Parts: []hcl.TemplatePart{
					&hcl.TemplateLiteral{Value: "hello "},
					&hcl.TemplateInterp{Expr: &hcl.Variable{Name: "name"}},
					&hcl.TemplateLiteral{Value: "\n"},
				}},
				Heredoc: &hcl.HeredocMarker{Delimiter: "EOF"},
			},
		},
		{
			name: "NoBackslashEscapes",
			src:  "doc = <<EOF\na\\tb\nEOF\n",
			want: &hcl.TemplateExpr{
				Template: &hcl.Template{Parts: []hcl.TemplatePart{
					&hcl.TemplateLiteral{Value: "a\\tb\n"},
				}},
				Heredoc: &hcl.HeredocMarker{Delimiter: "EOF"},
			},
		},
		{
			name: "DollarEscape",
			src:  "doc = <<EOF\n$${literal}\nEOF\n",
			want: &hcl.TemplateExpr{
				Template: &hcl.Template{Parts: []hcl.TemplatePart{
					&hcl.TemplateLiteral{Value: "${literal}\n"},
				}},
				Heredoc: &hcl.HeredocMarker{Delimiter: "EOF"},
			},
		},
		{
			name: "Empty",
			src:  "doc = <<EOF\nEOF\n",
			want: &hcl.TemplateExpr{
				Template: &hcl.Template{},
				Heredoc:  &hcl.HeredocMarker{Delimiter: "EOF"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := parseBody(t, tt.src)
			attr := body.Attributes()[0]
			if diff := cmp.Diff(attr.Value, tt.want, astOpts); diff != "" {
				t.Errorf("heredoc value (-got +want)\n%s", diff)
			}
		})
	}
}

func TestParseHeredocFollowedByStructures(t *testing.T) {
	src := "a = <<EOF\nbody\nEOF\nb = 2\n"
	body := parseBody(t, src)
	if got := len(body.Attributes()); got != 2 {
		t.Fatalf("attribute count got = %d, want = 2", got)
	}
	if body.Attributes()[1].Name != "b" {
		t.Errorf("second attribute got = %q, want b", body.Attributes()[1].Name)
	}
}

func TestParseHeredocMissingTerminator(t *testing.T) {
	_, err := hclsyntax.ParseBody([]byte("a = <<EOF\nnever closed\n"), nil)
	if err == nil {
		t.Fatal("err = nil, want error")
	}
	if _, ok := err.(*hcl.ParseError); !ok {
		t.Fatalf("err type = %T, want *hcl.ParseError", err)
	}
}
