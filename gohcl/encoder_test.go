package gohcl_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/func/hcl"
	"github.com/func/hcl/gohcl"
	"github.com/func/hcl/hclwrite"
)

func TestEncode(t *testing.T) {
	type Rule struct {
		Name   string `hcl:",label"`
		Action string `hcl:"action"`
	}
	type Config struct {
		Region  string `hcl:"region"`
		Retries int    `hcl:"retries,optional"`
		Rules   []Rule `hcl:"rule,block"`
	}

	body, err := gohcl.Encode(Config{
		Region: "eu-west-1",
		Rules: []Rule{
			{Name: "allow_http", Action: "allow"},
			{Name: "deny_all", Action: "deny"},
		},
	})
	if err != nil {
		t.Fatalf("Encode() err = %v", err)
	}

	want := `region = "eu-west-1"

rule "allow_http" {
  action = "allow"
}

rule "deny_all" {
  action = "deny"
}
`
	if diff := cmp.Diff(string(hclwrite.Format(body)), want); diff != "" {
		t.Errorf("Encode() (-got +want)\n%s", diff)
	}
}

func TestEncodeValue(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  hcl.Value
	}{
		{name: "Nil", input: nil, want: hcl.Null{}},
		{name: "Bool", input: true, want: hcl.Bool(true)},
		{name: "Int", input: 42, want: hcl.IntNumber(42)},
		{name: "Float", input: 1.5, want: hcl.FloatNumber(1.5)},
		{name: "String", input: "x", want: hcl.String("x")},
		{
			name:  "Slice",
			input: []interface{}{1, "two"},
			want:  hcl.Array{hcl.IntNumber(1), hcl.String("two")},
		},
		{
			name:  "MapSortedKeys",
			input: map[string]int{"b": 2, "a": 1},
			want:  hcl.NewObject().Set("a", hcl.IntNumber(1)).Set("b", hcl.IntNumber(2)),
		},
		{
			name: "Struct",
			input: struct {
				UserName string
				Age      int
			}{UserName: "alice", Age: 30},
			want: hcl.NewObject().
				Set("user_name", hcl.String("alice")).
				Set("age", hcl.IntNumber(30)),
		},
		{
			name:  "NilPointer",
			input: (*int)(nil),
			want:  hcl.Null{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := gohcl.EncodeValue(tt.input)
			if err != nil {
				t.Fatalf("EncodeValue() err = %v", err)
			}
			if !hcl.ValueEqual(got, tt.want) {
				t.Errorf("EncodeValue() got = %#v, want = %#v", got, tt.want)
			}
		})
	}
}

func TestEncodeValueInvalid(t *testing.T) {
	_, err := gohcl.EncodeValue(func() {})
	eerr, ok := err.(*gohcl.EncodeError)
	if !ok {
		t.Fatalf("err = %v, want *EncodeError", err)
	}
	if eerr.Kind != gohcl.InvalidValue {
		t.Errorf("Kind got = %v, want InvalidValue", eerr.Kind)
	}
}

type version struct {
	major, minor int
}

func (v version) MarshalHCL() (hcl.Value, error) {
	return hcl.NewObject().
		Set("major", hcl.IntNumber(int64(v.major))).
		Set("minor", hcl.IntNumber(int64(v.minor))), nil
}

func TestEncodeMarshaler(t *testing.T) {
	got, err := gohcl.EncodeValue(version{major: 1, minor: 4})
	if err != nil {
		t.Fatalf("EncodeValue() err = %v", err)
	}
	want := hcl.NewObject().Set("major", hcl.IntNumber(1)).Set("minor", hcl.IntNumber(4))
	if !hcl.ValueEqual(got, want) {
		t.Errorf("got = %#v, want = %#v", got, want)
	}
}

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	type Endpoint struct {
		Host string `hcl:",label"`
		Port int    `hcl:"port"`
	}
	type Config struct {
		Name      string     `hcl:"name"`
		Tags      []string   `hcl:"tags,optional"`
		Endpoints []Endpoint `hcl:"endpoint,block"`
	}

	in := Config{
		Name: "demo",
		Tags: []string{"a", "b"},
		Endpoints: []Endpoint{
			{Host: "localhost", Port: 8080},
		},
	}
	text, err := gohcl.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal() err = %v", err)
	}
	var out Config
	if err := gohcl.Unmarshal(text, &out); err != nil {
		t.Fatalf("Unmarshal() err = %v\ntext:\n%s", err, text)
	}
	if diff := cmp.Diff(out, in); diff != "" {
		t.Errorf("round trip (-out +in)\n%s", diff)
	}
}
