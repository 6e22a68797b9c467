package gohcl

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/zclconf/go-cty/cty"

	"github.com/func/hcl"
	"github.com/func/hcl/ctyext"
)

// Encode encodes a Go struct into a body. Struct fields map to attributes
// and blocks following the same hcl struct tags the decoder uses; this is
// the inverse of Decode for any value the decoder accepts.
func Encode(v interface{}) (*hcl.Body, error) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return &hcl.Body{}, nil
		}
		rv = rv.Elem()
	}
	return encodeBody(rv, nil)
}

// EncodeValue encodes a Go value into the value model: the inverse of
// DecodeValue.
func EncodeValue(v interface{}) (hcl.Value, error) {
	if v == nil {
		return hcl.Null{}, nil
	}
	return encodeValue(reflect.ValueOf(v), nil)
}

func encodeBody(rv reflect.Value, path Path) (*hcl.Body, error) {
	if m, ok := marshalerOf(rv); ok {
		if bm, ok := m.(BodyMarshaler); ok {
			body, err := bm.MarshalHCLBody()
			if err != nil {
				return nil, &EncodeError{Kind: CustomEncodeError, Path: path, Detail: err.Error()}
			}
			return body, nil
		}
	}
	if rv.Kind() != reflect.Struct {
		return nil, &EncodeError{
			Kind:   InvalidValue,
			Path:   path,
			Detail: fmt.Sprintf("cannot encode %s as a body", rv.Kind()),
		}
	}
	if rv.Type() == bodyType {
		body := rv.Interface().(hcl.Body)
		return &body, nil
	}

	s, err := structSchema(rv.Type())
	if err != nil {
		return nil, &EncodeError{Kind: InvalidValue, Path: path, Detail: err.Error()}
	}

	bb := hcl.NewBodyBuilder()
	for _, f := range s.named {
		fv := rv.Field(f.index)
		fieldPath := path.Attr(f.name)
		if fv.Kind() == reflect.Ptr && fv.IsNil() {
			continue
		}
		if f.optional && fv.IsZero() {
			continue
		}
		if f.kind == blockField {
			if err := encodeBlocks(bb, f, fv, fieldPath); err != nil {
				return nil, err
			}
			continue
		}
		if fv.Type() == exprType {
			if !fv.IsNil() {
				bb.Attribute(f.name, fv.Interface().(hcl.Expression))
			}
			continue
		}
		v, err := encodeValue(fv, fieldPath)
		if err != nil {
			return nil, err
		}
		bb.AttributeValue(f.name, v)
	}
	if s.remain != nil {
		fv := rv.Field(s.remain.index)
		if body, ok := fv.Interface().(*hcl.Body); ok && body != nil {
			for _, st := range body.Structures {
				switch st := st.(type) {
				case *hcl.Attribute:
					bb.Attribute(st.Name, st.Value)
				case *hcl.Block:
					bb.Block(st)
				}
			}
		}
	}
	return bb.Build(), nil
}

func encodeBlocks(bb *hcl.BodyBuilder, f field, fv reflect.Value, path Path) error {
	if fv.Kind() == reflect.Slice {
		for i := 0; i < fv.Len(); i++ {
			blk, err := encodeBlock(f.name, fv.Index(i), path.Index(i))
			if err != nil {
				return err
			}
			bb.Block(blk)
		}
		return nil
	}
	blk, err := encodeBlock(f.name, fv, path)
	if err != nil {
		return err
	}
	bb.Block(blk)
	return nil
}

func encodeBlock(identifier string, rv reflect.Value, path Path) (*hcl.Block, error) {
	for rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, &EncodeError{
			Kind:   InvalidValue,
			Path:   path,
			Detail: fmt.Sprintf("cannot encode %s as a block", rv.Kind()),
		}
	}
	s, err := structSchema(rv.Type())
	if err != nil {
		return nil, &EncodeError{Kind: InvalidValue, Path: path, Detail: err.Error()}
	}
	block := &hcl.Block{Identifier: identifier}
	for _, f := range s.labels {
		block.Labels = append(block.Labels, hcl.BlockLabel{
			Value:  rv.Field(f.index).String(),
			Quoted: true,
		})
	}
	body, err := encodeBody(rv, path)
	if err != nil {
		return nil, err
	}
	block.Body = body
	return block, nil
}

func marshalerOf(rv reflect.Value) (interface{}, bool) {
	if !rv.IsValid() {
		return nil, false
	}
	if rv.CanInterface() {
		switch m := rv.Interface().(type) {
		case Marshaler, BodyMarshaler:
			return m, true
		}
	}
	if rv.CanAddr() && rv.Addr().CanInterface() {
		switch m := rv.Addr().Interface().(type) {
		case Marshaler, BodyMarshaler:
			return m, true
		}
	}
	return nil, false
}

func encodeValue(rv reflect.Value, path Path) (hcl.Value, error) {
	if m, ok := marshalerOf(rv); ok {
		if vm, ok := m.(Marshaler); ok {
			v, err := vm.MarshalHCL()
			if err != nil {
				return nil, &EncodeError{Kind: CustomEncodeError, Path: path, Detail: err.Error()}
			}
			return v, nil
		}
	}

	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return hcl.Null{}, nil
		}
		rv = rv.Elem()
	}

	if rv.CanInterface() {
		switch v := rv.Interface().(type) {
		case hcl.Value:
			return v, nil
		case hcl.Number:
			n := v
			return &n, nil
		case cty.Value:
			out, err := ctyext.FromCtyValue(v)
			if err != nil {
				return nil, &EncodeError{Kind: InvalidValue, Path: path, Detail: err.Error()}
			}
			return out, nil
		}
	}

	switch rv.Kind() {
	case reflect.Interface:
		if rv.IsNil() {
			return hcl.Null{}, nil
		}
		return encodeValue(rv.Elem(), path)
	case reflect.Bool:
		return hcl.Bool(rv.Bool()), nil
	case reflect.String:
		return hcl.String(rv.String()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return hcl.IntNumber(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return hcl.UintNumber(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		n := hcl.FloatNumber(rv.Float())
		if n == nil {
			return nil, &EncodeError{Kind: InvalidValue, Path: path, Detail: "cannot encode NaN or infinite float"}
		}
		return n, nil
	case reflect.Slice, reflect.Array:
		arr := make(hcl.Array, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			item, err := encodeValue(rv.Index(i), path.Index(i))
			if err != nil {
				return nil, err
			}
			arr[i] = item
		}
		return arr, nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, &EncodeError{
				Kind:   InvalidValue,
				Path:   path,
				Detail: fmt.Sprintf("map keys must be strings, not %s", rv.Type().Key()),
			}
		}
		keys := make([]string, 0, rv.Len())
		for _, k := range rv.MapKeys() {
			keys = append(keys, k.String())
		}
		// Go maps have no stable order; sort for deterministic output.
		sort.Strings(keys)
		obj := hcl.NewObject()
		for _, k := range keys {
			item, err := encodeValue(rv.MapIndex(reflect.ValueOf(k).Convert(rv.Type().Key())), path.Attr(k))
			if err != nil {
				return nil, err
			}
			obj.Set(k, item)
		}
		return obj, nil
	case reflect.Struct:
		s, err := structSchema(rv.Type())
		if err != nil {
			return nil, &EncodeError{Kind: InvalidValue, Path: path, Detail: err.Error()}
		}
		obj := hcl.NewObject()
		for _, f := range s.named {
			fv := rv.Field(f.index)
			if fv.Kind() == reflect.Ptr && fv.IsNil() {
				continue
			}
			if f.optional && fv.IsZero() {
				continue
			}
			item, err := encodeValue(fv, path.Attr(f.name))
			if err != nil {
				return nil, err
			}
			obj.Set(f.name, item)
		}
		return obj, nil
	default:
		return nil, &EncodeError{
			Kind:   InvalidValue,
			Path:   path,
			Detail: fmt.Sprintf("cannot encode %s", rv.Kind()),
		}
	}
}
