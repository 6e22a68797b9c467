package gohcl

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

type fieldKind int

const (
	attrField fieldKind = iota
	blockField
	labelField
	remainField
)

// A field is one decodable struct field, extracted from the hcl struct
// tag.
type field struct {
	index    int
	typ      reflect.Type
	name     string
	kind     fieldKind
	optional bool
	validate string
}

// schema is the decoded shape of a struct type: its labels in declaration
// order, and its attribute and block fields.
type schema struct {
	labels []field
	named  []field // attr and block fields, in declaration order
	remain *field
}

func (s *schema) byName(name string) (field, bool) {
	for _, f := range s.named {
		if f.name == name {
			return f, true
		}
	}
	return field{}, false
}

func (s *schema) names() []string {
	out := make([]string, len(s.named))
	for i, f := range s.named {
		out[i] = f.name
	}
	return out
}

// structSchema extracts the schema from a struct type. Unexported fields
// are ignored. The field name is derived from the struct field name,
// ExampleField becoming example_field, unless the hcl tag overrides it.
func structSchema(t reflect.Type) (*schema, error) {
	if t.Kind() != reflect.Struct {
		return nil, errors.Errorf("target must be a struct, not %s", t.Kind())
	}
	s := &schema{}
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.PkgPath != "" {
			continue
		}
		f := field{
			index:    i,
			typ:      sf.Type,
			name:     fieldName(sf),
			validate: sf.Tag.Get("validate"),
		}
		tag := sf.Tag.Get("hcl")
		parts := strings.Split(tag, ",")
		if parts[0] != "" {
			f.name = parts[0]
		}
		for _, opt := range parts[1:] {
			switch opt {
			case "attr", "":
			case "block":
				f.kind = blockField
			case "label":
				f.kind = labelField
			case "optional":
				f.optional = true
			case "remain":
				f.kind = remainField
			default:
				return nil, errors.Errorf("field %s: unknown hcl tag option %q", sf.Name, opt)
			}
		}
		switch f.kind {
		case labelField:
			if f.typ.Kind() != reflect.String {
				return nil, errors.Errorf("field %s: label fields must be strings", sf.Name)
			}
			s.labels = append(s.labels, f)
		case remainField:
			if s.remain != nil {
				return nil, errors.Errorf("field %s: multiple remain fields", sf.Name)
			}
			r := f
			s.remain = &r
		default:
			s.named = append(s.named, f)
		}
	}
	return s, nil
}

var reFirstCap = regexp.MustCompile("(.)([A-Z][a-z]+)")
var reAllCap = regexp.MustCompile("([a-z0-9])([A-Z])")

func fieldName(f reflect.StructField) string {
	snake := reFirstCap.ReplaceAllString(f.Name, "${1}_${2}")
	snake = reAllCap.ReplaceAllString(snake, "${1}_${2}")
	return strings.ToLower(snake)
}
