package ctyext

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"github.com/zclconf/go-cty/cty"
)

var reFirstCap = regexp.MustCompile("(.)([A-Z][a-z]+)")
var reAllCap = regexp.MustCompile("([a-z0-9])([A-Z])")

// structFieldName mirrors the gohcl naming rule: the hcl tag name when
// present, otherwise the snake_case form of the Go field name.
func structFieldName(f reflect.StructField) string {
	if tag, ok := f.Tag.Lookup("hcl"); ok {
		if name := strings.Split(tag, ",")[0]; name != "" {
			return name
		}
	}
	snake := reFirstCap.ReplaceAllString(f.Name, "${1}_${2}")
	snake = reAllCap.ReplaceAllString(snake, "${1}_${2}")
	return strings.ToLower(snake)
}

// ImpliedType converts a reflect type to the cty type system. Nested
// structs are processed deeply using their exported field names in
// snake_case form. Types with no cty counterpart, such as channels and
// functions, return an error.
func ImpliedType(t reflect.Type) (cty.Type, error) {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Struct:
		obj := make(map[string]cty.Type, t.NumField())
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if f.PkgPath != "" {
				continue
			}
			if f.Type.Kind() == reflect.Interface {
				continue
			}
			ft, err := ImpliedType(f.Type)
			if err != nil {
				return cty.NilType, errors.Wrap(err, f.Name)
			}
			obj[structFieldName(f)] = ft
		}
		return cty.Object(obj), nil
	case reflect.Slice, reflect.Array:
		et, err := ImpliedType(t.Elem())
		if err != nil {
			return cty.NilType, err
		}
		return cty.List(et), nil
	case reflect.Map:
		et, err := ImpliedType(t.Elem())
		if err != nil {
			return cty.NilType, err
		}
		return cty.Map(et), nil
	case reflect.Bool:
		return cty.Bool, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return cty.Number, nil
	case reflect.String:
		return cty.String, nil
	case reflect.Interface:
		return cty.DynamicPseudoType, nil
	default:
		return cty.NilType, errors.Errorf("no cty type for %s", t)
	}
}
