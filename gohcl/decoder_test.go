package gohcl_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/zclconf/go-cty/cty"

	"github.com/func/hcl"
	"github.com/func/hcl/gohcl"
	"github.com/func/hcl/hclsyntax"
)

func parseBody(t *testing.T, src string) *hcl.Body {
	t.Helper()
	body, err := hclsyntax.ParseBody([]byte(src), nil)
	if err != nil {
		t.Fatalf("ParseBody(%q) err = %v", src, err)
	}
	return body
}

func TestDecode(t *testing.T) {
	type Rule struct {
		Name   string `hcl:",label"`
		Action string `hcl:"action"`
	}
	type Config struct {
		Region  string            `hcl:"region"`
		Retries int               `hcl:"retries,optional"`
		Labels  map[string]string `hcl:"labels,optional"`
		Rules   []Rule            `hcl:"rule,block"`
	}

	src := `
region = "eu-west-1"

labels = {
  team = "platform"
}

rule "allow_http" {
  action = "allow"
}

rule "deny_all" {
  action = "deny"
}
`
	var got Config
	if err := gohcl.Decode(parseBody(t, src), &got); err != nil {
		t.Fatalf("Decode() err = %v", err)
	}
	want := Config{
		Region: "eu-west-1",
		Labels: map[string]string{"team": "platform"},
		Rules: []Rule{
			{Name: "allow_http", Action: "allow"},
			{Name: "deny_all", Action: "deny"},
		},
	}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("Decode() (-got +want)\n%s", diff)
	}
}

func TestDecodeFieldNameDefaults(t *testing.T) {
	// Without a tag name, ExampleField maps to example_field.
	type Config struct {
		MaxRetryCount int `hcl:""`
	}
	var got Config
	if err := gohcl.Decode(parseBody(t, "max_retry_count = 3"), &got); err != nil {
		t.Fatalf("Decode() err = %v", err)
	}
	if got.MaxRetryCount != 3 {
		t.Errorf("MaxRetryCount got = %d, want = 3", got.MaxRetryCount)
	}
}

func TestDecodeUnknownField(t *testing.T) {
	type Config struct {
		A int `hcl:"a"`
	}
	var got Config
	err := gohcl.Decode(parseBody(t, "a = 1\nb = 2"), &got)
	derr, ok := err.(*gohcl.DecodeError)
	if !ok {
		t.Fatalf("err = %v, want *DecodeError", err)
	}
	if derr.Kind != gohcl.UnknownField || derr.Field != "b" {
		t.Errorf("got = %+v, want UnknownField b", derr)
	}
}

func TestDecodeUnknownFieldSuggestion(t *testing.T) {
	type Config struct {
		Region string `hcl:"region"`
	}
	var got Config
	err := gohcl.Decode(parseBody(t, `regoin = "x"`), &got)
	if err == nil {
		t.Fatal("err = nil, want UnknownField")
	}
	if !strings.Contains(err.Error(), `did you mean "region"?`) {
		t.Errorf("err = %q, want suggestion for region", err)
	}
}

func TestDecodeMissingField(t *testing.T) {
	type Config struct {
		A int `hcl:"a"`
		B int `hcl:"b"`
	}
	var got Config
	err := gohcl.Decode(parseBody(t, "a = 1"), &got)
	derr, ok := err.(*gohcl.DecodeError)
	if !ok {
		t.Fatalf("err = %v, want *DecodeError", err)
	}
	if derr.Kind != gohcl.MissingField || derr.Field != "b" {
		t.Errorf("got = %+v, want MissingField b", derr)
	}
}

func TestDecodeTypeMismatchPath(t *testing.T) {
	type Item struct {
		Count int `hcl:"count"`
	}
	type Config struct {
		Items []Item `hcl:"items"`
	}
	src := `
items = [
  { count = 1 },
  { count = "nope" },
]
`
	var got Config
	err := gohcl.Decode(parseBody(t, src), &got)
	derr, ok := err.(*gohcl.DecodeError)
	if !ok {
		t.Fatalf("err = %v, want *DecodeError", err)
	}
	if derr.Kind != gohcl.TypeMismatch {
		t.Fatalf("Kind got = %v, want TypeMismatch", derr.Kind)
	}
	if got := derr.Path.String(); got != "items[1].count" {
		t.Errorf("Path got = %q, want items[1].count", got)
	}
}

func TestDecodeDuplicateAttributes(t *testing.T) {
	t.Run("SequenceTarget", func(t *testing.T) {
		type Config struct {
			X []int `hcl:"x"`
		}
		var got Config
		if err := gohcl.Decode(parseBody(t, "x = 1\nx = 2"), &got); err != nil {
			t.Fatalf("Decode() err = %v", err)
		}
		if diff := cmp.Diff(got.X, []int{1, 2}); diff != "" {
			t.Errorf("X (-got +want)\n%s", diff)
		}
	})

	t.Run("ScalarTargetLastWins", func(t *testing.T) {
		type Config struct {
			X int `hcl:"x"`
		}
		var got Config
		if err := gohcl.Decode(parseBody(t, "x = 1\nx = 2"), &got); err != nil {
			t.Fatalf("Decode() err = %v", err)
		}
		if got.X != 2 {
			t.Errorf("X got = %d, want = 2", got.X)
		}
	})
}

func TestDecodeRemain(t *testing.T) {
	type Config struct {
		A    int       `hcl:"a"`
		Rest *hcl.Body `hcl:",remain"`
	}
	var got Config
	if err := gohcl.Decode(parseBody(t, "a = 1\nz = 2\nextra {}"), &got); err != nil {
		t.Fatalf("Decode() err = %v", err)
	}
	if got.A != 1 {
		t.Errorf("A got = %d", got.A)
	}
	if got.Rest == nil || len(got.Rest.Structures) != 2 {
		t.Fatalf("Rest got = %+v, want 2 structures", got.Rest)
	}
}

func TestDecodeExpressionField(t *testing.T) {
	type Config struct {
		Ref hcl.Expression `hcl:"ref"`
	}
	var got Config
	if err := gohcl.Decode(parseBody(t, "ref = a.b"), &got); err != nil {
		t.Fatalf("Decode() err = %v", err)
	}
	if _, ok := got.Ref.(*hcl.Traversal); !ok {
		t.Errorf("Ref type = %T, want *hcl.Traversal", got.Ref)
	}
}

func TestDecodeValueMode(t *testing.T) {
	t.Run("DynamicValue", func(t *testing.T) {
		var got hcl.Value
		if err := gohcl.Decode(parseBody(t, "a = 1"), &got); err != nil {
			t.Fatalf("Decode() err = %v", err)
		}
		want := hcl.NewObject().Set("a", hcl.IntNumber(1))
		if !hcl.ValueEqual(got, want) {
			t.Errorf("got = %#v, want = %#v", got, want)
		}
	})

	t.Run("Scalars", func(t *testing.T) {
		var s string
		if err := gohcl.DecodeValue(hcl.String("x"), &s); err != nil || s != "x" {
			t.Errorf("string got = %q, %v", s, err)
		}
		var f float64
		if err := gohcl.DecodeValue(hcl.IntNumber(2), &f); err != nil || f != 2 {
			t.Errorf("float got = %v, %v", f, err)
		}
		var b bool
		if err := gohcl.DecodeValue(hcl.Bool(true), &b); err != nil || !b {
			t.Errorf("bool got = %t, %v", b, err)
		}
	})

	t.Run("Slice", func(t *testing.T) {
		var xs []int
		err := gohcl.DecodeValue(hcl.Array{hcl.IntNumber(1), hcl.IntNumber(2)}, &xs)
		if err != nil {
			t.Fatalf("DecodeValue() err = %v", err)
		}
		if diff := cmp.Diff(xs, []int{1, 2}); diff != "" {
			t.Errorf("(-got +want)\n%s", diff)
		}
	})

	t.Run("Null", func(t *testing.T) {
		s := "before"
		if err := gohcl.DecodeValue(hcl.Null{}, &s); err != nil {
			t.Fatalf("DecodeValue() err = %v", err)
		}
		if s != "" {
			t.Errorf("got = %q, want zero value", s)
		}
	})

	t.Run("Mismatch", func(t *testing.T) {
		var n int
		err := gohcl.DecodeValue(hcl.String("x"), &n)
		derr, ok := err.(*gohcl.DecodeError)
		if !ok || derr.Kind != gohcl.TypeMismatch {
			t.Errorf("err = %v, want TypeMismatch", err)
		}
	})
}

func TestDecodeCtyValue(t *testing.T) {
	var got cty.Value
	if err := gohcl.Decode(parseBody(t, `name = "x"`), &got); err != nil {
		t.Fatalf("Decode() err = %v", err)
	}
	want := cty.ObjectVal(map[string]cty.Value{"name": cty.StringVal("x")})
	if !got.RawEquals(want) {
		t.Errorf("got = %#v, want = %#v", got, want)
	}
}

func TestDecodeValidate(t *testing.T) {
	type Config struct {
		Count int `hcl:"count" validate:"min=2"`
	}
	var got Config
	err := gohcl.Decode(parseBody(t, "count = 1"), &got)
	if err == nil {
		t.Fatal("err = nil, want validation error")
	}
	if !strings.Contains(err.Error(), "must be 2 or more") {
		t.Errorf("err = %q, want min message", err)
	}
	if !strings.Contains(err.Error(), "count") {
		t.Errorf("err = %q, want path to count", err)
	}
}

type attrCollector struct {
	names []string
}

func (c *attrCollector) VisitAttribute(name string, expr hcl.Expression) error {
	c.names = append(c.names, name)
	return nil
}

func TestDecodeAttributeVisitor(t *testing.T) {
	var c attrCollector
	if err := gohcl.Decode(parseBody(t, "a = 1\nb = 2"), &c); err != nil {
		t.Fatalf("Decode() err = %v", err)
	}
	if diff := cmp.Diff(c.names, []string{"a", "b"}); diff != "" {
		t.Errorf("names (-got +want)\n%s", diff)
	}
}

type stringSet struct {
	values map[string]bool
}

func (s *stringSet) VisitSequence(n int, decode func(i int, target interface{}) error) error {
	s.values = make(map[string]bool, n)
	for i := 0; i < n; i++ {
		var v string
		if err := decode(i, &v); err != nil {
			return err
		}
		s.values[v] = true
	}
	return nil
}

func TestDecodeSequenceVisitor(t *testing.T) {
	var s stringSet
	err := gohcl.DecodeValue(hcl.Array{hcl.String("a"), hcl.String("b")}, &s)
	if err != nil {
		t.Fatalf("DecodeValue() err = %v", err)
	}
	if !s.values["a"] || !s.values["b"] {
		t.Errorf("values got = %v", s.values)
	}
}
