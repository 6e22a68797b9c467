package hcl_test

import (
	"testing"

	"github.com/func/hcl"
)

func TestBodyBuilder(t *testing.T) {
	body := hcl.NewBodyBuilder().
		AttributeValue("name", hcl.String("demo")).
		Block(hcl.NewBlockBuilder("function").
			StringLabel("handler").
			AttributeValue("memory", hcl.IntNumber(512)).
			Build()).
		Build()

	if got := len(body.Structures); got != 2 {
		t.Fatalf("len(Structures) got = %d, want = 2", got)
	}
	attrs := body.Attributes()
	if len(attrs) != 1 || attrs[0].Name != "name" {
		t.Errorf("Attributes() got = %v", attrs)
	}
	blocks := body.BlocksOfType("function")
	if len(blocks) != 1 {
		t.Fatalf("BlocksOfType(function) got = %d blocks", len(blocks))
	}
	blk := blocks[0]
	if blk.Labels[0].Value != "handler" || !blk.Labels[0].Quoted {
		t.Errorf("Labels[0] got = %+v", blk.Labels[0])
	}
	if len(blk.Body.Attributes()) != 1 {
		t.Errorf("block body attributes got = %v", blk.Body.Attributes())
	}
}

func TestValidIdentifier(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"name", true},
		{"_name", true},
		{"name-2", true},
		{"Name_X", true},
		{"", false},
		{"2name", false},
		{"-name", false},
		{"na me", false},
		{"na.me", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := hcl.ValidIdentifier(tt.input); got != tt.want {
				t.Errorf("ValidIdentifier(%q) got = %t, want = %t", tt.input, got, tt.want)
			}
		})
	}
}
