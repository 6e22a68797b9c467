// Package ctyext converts between the hcl value model and the cty type
// system, for interoperating with libraries built on cty.
package ctyext

import (
	"github.com/pkg/errors"
	"github.com/zclconf/go-cty/cty"

	"github.com/func/hcl"
)

// ToCtyValue converts an hcl value to the equivalent cty value. Objects
// become cty object values and arrays become tuples, so heterogeneous
// collections convert without losing element types. Key order is not
// preserved; cty objects are unordered.
func ToCtyValue(v hcl.Value) (cty.Value, error) {
	switch v := v.(type) {
	case nil, hcl.Null:
		return cty.NullVal(cty.DynamicPseudoType), nil
	case hcl.Bool:
		return cty.BoolVal(bool(v)), nil
	case hcl.String:
		return cty.StringVal(string(v)), nil
	case *hcl.Number:
		if i, ok := v.AsInt64(); ok {
			return cty.NumberIntVal(i), nil
		}
		if u, ok := v.AsUint64(); ok {
			return cty.NumberUIntVal(u), nil
		}
		return cty.NumberFloatVal(v.AsFloat64()), nil
	case hcl.Array:
		if len(v) == 0 {
			return cty.EmptyTupleVal, nil
		}
		elems := make([]cty.Value, len(v))
		for i, item := range v {
			cv, err := ToCtyValue(item)
			if err != nil {
				return cty.NilVal, errors.Wrapf(err, "element %d", i)
			}
			elems[i] = cv
		}
		return cty.TupleVal(elems), nil
	case *hcl.Object:
		if v.Len() == 0 {
			return cty.EmptyObjectVal, nil
		}
		attrs := make(map[string]cty.Value, v.Len())
		var err error
		v.Iter(func(k string, item hcl.Value) bool {
			var cv cty.Value
			cv, err = ToCtyValue(item)
			if err != nil {
				err = errors.Wrapf(err, "key %q", k)
				return false
			}
			attrs[k] = cv
			return true
		})
		if err != nil {
			return cty.NilVal, err
		}
		return cty.ObjectVal(attrs), nil
	default:
		return cty.NilVal, errors.Errorf("no cty equivalent for %T", v)
	}
}

// FromCtyValue converts a cty value to the hcl value model. Unknown values
// are rejected; object attribute order follows cty's canonical (sorted)
// order since cty does not retain insertion order.
func FromCtyValue(v cty.Value) (hcl.Value, error) {
	if !v.IsKnown() {
		return nil, errors.New("cannot convert unknown value")
	}
	if v.IsNull() {
		return hcl.Null{}, nil
	}
	t := v.Type()
	switch {
	case t == cty.Bool:
		return hcl.Bool(v.True()), nil
	case t == cty.String:
		return hcl.String(v.AsString()), nil
	case t == cty.Number:
		bf := v.AsBigFloat()
		if bf.IsInt() {
			if i, acc := bf.Int64(); acc == 0 {
				return hcl.IntNumber(i), nil
			}
			if u, acc := bf.Uint64(); acc == 0 {
				return hcl.UintNumber(u), nil
			}
		}
		f, _ := bf.Float64()
		n := hcl.FloatNumber(f)
		if n == nil {
			return nil, errors.New("number out of range")
		}
		return n, nil
	case t.IsTupleType(), t.IsListType(), t.IsSetType():
		arr := make(hcl.Array, 0, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			item, err := FromCtyValue(ev)
			if err != nil {
				return nil, err
			}
			arr = append(arr, item)
		}
		return arr, nil
	case t.IsObjectType(), t.IsMapType():
		obj := hcl.NewObject()
		for it := v.ElementIterator(); it.Next(); {
			kv, ev := it.Element()
			item, err := FromCtyValue(ev)
			if err != nil {
				return nil, errors.Wrapf(err, "key %q", kv.AsString())
			}
			obj.Set(kv.AsString(), item)
		}
		return obj, nil
	default:
		return nil, errors.Errorf("no hcl equivalent for %s", t.FriendlyName())
	}
}
