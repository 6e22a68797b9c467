package gohcl

import (
	"fmt"
	"math"
	"reflect"

	"github.com/zclconf/go-cty/cty"
	"go.uber.org/zap"

	"github.com/func/hcl"
	"github.com/func/hcl/ctyext"
	"github.com/func/hcl/suggest"
)

// Decoder decodes bodies and values into Go targets. The zero value is
// ready to use.
type Decoder struct {
	// Logger, when set, receives debug traces of decoded fields. Defaults
	// to a no-op logger.
	Logger *zap.Logger
}

// Decode decodes a body into target using the default decoder. See
// Decoder.Decode.
func Decode(body *hcl.Body, target interface{}) error {
	return (&Decoder{}).Decode(body, target)
}

// DecodeValue decodes a value into target using the default decoder. See
// Decoder.DecodeValue.
func DecodeValue(v hcl.Value, target interface{}) error {
	return (&Decoder{}).DecodeValue(v, target)
}

var (
	bodyType  = reflect.TypeOf(hcl.Body{})
	valueType = reflect.TypeOf((*hcl.Value)(nil)).Elem()
	exprType  = reflect.TypeOf((*hcl.Expression)(nil)).Elem()
	ctyType   = reflect.TypeOf(cty.Value{})
	numType   = reflect.TypeOf(hcl.Number{})
)

// Decode decodes a body into target, which must be a non-nil pointer.
// Struct targets are decoded structurally based on their hcl struct tags;
// *hcl.Value, *cty.Value and map targets receive the flattened form.
func (d *Decoder) Decode(body *hcl.Body, target interface{}) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return &DecodeError{Kind: CustomDecodeError, Detail: fmt.Sprintf("target must be a non-nil pointer, not %T", target)}
	}
	return d.decodeBody(body, nil, rv.Elem(), nil)
}

// DecodeValue decodes a value into target, which must be a non-nil
// pointer.
func (d *Decoder) DecodeValue(v hcl.Value, target interface{}) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return &DecodeError{Kind: CustomDecodeError, Detail: fmt.Sprintf("target must be a non-nil pointer, not %T", target)}
	}
	return d.decodeValue(v, rv.Elem(), nil)
}

func (d *Decoder) logger() *zap.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return zap.NewNop()
}

func (d *Decoder) decodeBody(body *hcl.Body, labels []string, rv reflect.Value, path Path) error {
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			rv.Set(reflect.New(rv.Type().Elem()))
		}
		rv = rv.Elem()
	}

	if rv.CanAddr() {
		target := rv.Addr().Interface()
		if u, ok := target.(Unmarshaler); ok {
			if err := u.UnmarshalHCL(hcl.BodyToValue(body)); err != nil {
				return &DecodeError{Kind: CustomDecodeError, Path: path, Detail: err.Error()}
			}
			return nil
		}
		if visited, err := visitBody(body, target); visited {
			return err
		}
	}

	switch rv.Type() {
	case bodyType:
		rv.Set(reflect.ValueOf(*body))
		return nil
	case ctyType:
		return d.decodeValue(hcl.BodyToValue(body), rv, path)
	}
	if rv.Type() == valueType {
		rv.Set(reflect.ValueOf(hcl.BodyToValue(body)))
		return nil
	}
	if rv.Kind() == reflect.Map {
		return d.decodeValue(hcl.BodyToValue(body), rv, path)
	}
	if rv.Kind() != reflect.Struct {
		return mismatch(path, rv.Type(), "body")
	}
	return d.decodeStruct(body, labels, rv, path)
}

// visitBody drives the structural visitor interfaces over the body.
// Returns false when the target implements neither.
func visitBody(body *hcl.Body, target interface{}) (bool, error) {
	bv, hasBlocks := target.(BlockVisitor)
	av, hasAttrs := target.(AttributeVisitor)
	if !hasBlocks && !hasAttrs {
		return false, nil
	}
	for _, s := range body.Structures {
		switch s := s.(type) {
		case *hcl.Attribute:
			if !hasAttrs {
				continue
			}
			if err := av.VisitAttribute(s.Name, s.Value); err != nil {
				return true, &DecodeError{Kind: CustomDecodeError, Detail: err.Error()}
			}
		case *hcl.Block:
			if !hasBlocks {
				continue
			}
			labels := make([]string, len(s.Labels))
			for i, l := range s.Labels {
				labels[i] = l.Value
			}
			if err := bv.VisitBlock(s.Identifier, labels, s.Body); err != nil {
				return true, &DecodeError{Kind: CustomDecodeError, Detail: err.Error()}
			}
		}
	}
	return true, nil
}

func (d *Decoder) decodeStruct(body *hcl.Body, labels []string, rv reflect.Value, path Path) error {
	s, err := structSchema(rv.Type())
	if err != nil {
		return &DecodeError{Kind: CustomDecodeError, Path: path, Detail: err.Error()}
	}

	for i, f := range s.labels {
		if i < len(labels) {
			rv.Field(f.index).SetString(labels[i])
		}
	}

	var remain []hcl.Structure

	// Closed schema: anything the struct does not declare is an error,
	// unless a remain field collects it.
	for _, st := range body.Structures {
		name := structureName(st)
		if _, ok := s.byName(name); ok {
			continue
		}
		if s.remain != nil {
			remain = append(remain, st)
			continue
		}
		derr := &DecodeError{Kind: UnknownField, Path: path, Field: name}
		if match := suggest.String(name, s.names()); match != "" {
			derr.Detail = fmt.Sprintf("did you mean %q?", match)
		}
		return derr
	}

	for _, f := range s.named {
		var err error
		if f.kind == blockField {
			err = d.decodeBlockField(body, f, rv, path)
		} else {
			err = d.decodeAttrField(body, f, rv, path)
		}
		if err != nil {
			return err
		}
	}

	if s.remain != nil {
		if s.remain.typ != reflect.PtrTo(bodyType) {
			return &DecodeError{Kind: CustomDecodeError, Path: path, Detail: "remain field must have type *hcl.Body"}
		}
		rv.Field(s.remain.index).Set(reflect.ValueOf(&hcl.Body{Structures: remain}))
	}
	return nil
}

func structureName(s hcl.Structure) string {
	switch s := s.(type) {
	case *hcl.Attribute:
		return s.Name
	case *hcl.Block:
		return s.Identifier
	}
	return ""
}

func (d *Decoder) decodeAttrField(body *hcl.Body, f field, rv reflect.Value, path Path) error {
	var attrs []*hcl.Attribute
	for _, st := range body.Structures {
		switch st := st.(type) {
		case *hcl.Attribute:
			if st.Name == f.name {
				attrs = append(attrs, st)
			}
		case *hcl.Block:
			if st.Identifier == f.name {
				return mismatch(path.Attr(f.name), f.typ, "block")
			}
		}
	}
	fv := rv.Field(f.index)
	fieldPath := path.Attr(f.name)

	switch {
	case len(attrs) == 0:
		if f.optional || f.typ.Kind() == reflect.Ptr {
			return nil
		}
		return &DecodeError{Kind: MissingField, Path: path, Field: f.name}
	case len(attrs) > 1 && fv.Kind() == reflect.Slice:
		// Repeated attributes gather into sequence targets in source
		// order.
		out := reflect.MakeSlice(fv.Type(), len(attrs), len(attrs))
		for i, attr := range attrs {
			if err := d.decodeExpr(attr.Value, out.Index(i), fieldPath.Index(i)); err != nil {
				return err
			}
		}
		fv.Set(out)
	default:
		// Last one wins for repeated attributes on a scalar target.
		if err := d.decodeExpr(attrs[len(attrs)-1].Value, fv, fieldPath); err != nil {
			return err
		}
	}

	d.logger().Debug("decoded attribute", zap.String("name", f.name), zap.String("path", fieldPath.String()))
	return d.checkValidate(f, fv, fieldPath)
}

func (d *Decoder) decodeBlockField(body *hcl.Body, f field, rv reflect.Value, path Path) error {
	var blocks []*hcl.Block
	for _, st := range body.Structures {
		switch st := st.(type) {
		case *hcl.Block:
			if st.Identifier == f.name {
				blocks = append(blocks, st)
			}
		case *hcl.Attribute:
			if st.Name == f.name {
				return mismatch(path.Attr(f.name), f.typ, "attribute")
			}
		}
	}
	fv := rv.Field(f.index)
	fieldPath := path.Attr(f.name)

	blockLabels := func(blk *hcl.Block) []string {
		out := make([]string, len(blk.Labels))
		for i, l := range blk.Labels {
			out[i] = l.Value
		}
		return out
	}

	switch {
	case len(blocks) == 0:
		if f.optional || f.typ.Kind() == reflect.Ptr || f.typ.Kind() == reflect.Slice {
			return nil
		}
		return &DecodeError{Kind: MissingField, Path: path, Field: f.name}
	case fv.Kind() == reflect.Slice:
		out := reflect.MakeSlice(fv.Type(), len(blocks), len(blocks))
		for i, blk := range blocks {
			if err := d.decodeBody(blk.Body, blockLabels(blk), out.Index(i), fieldPath.Index(i)); err != nil {
				return err
			}
		}
		fv.Set(out)
	default:
		// A single-block target takes the last block when the input
		// repeats it.
		blk := blocks[len(blocks)-1]
		if err := d.decodeBody(blk.Body, blockLabels(blk), fv, fieldPath); err != nil {
			return err
		}
	}

	d.logger().Debug("decoded block", zap.String("name", f.name), zap.Int("count", len(blocks)))
	return d.checkValidate(f, fv, fieldPath)
}

// decodeExpr decodes an attribute expression. Fields of type
// hcl.Expression capture the syntax tree unevaluated; any other target
// receives the expression reduced to a value.
func (d *Decoder) decodeExpr(expr hcl.Expression, rv reflect.Value, path Path) error {
	if rv.Type() == exprType {
		rv.Set(reflect.ValueOf(expr))
		return nil
	}
	return d.decodeValue(hcl.ExpressionToValue(expr), rv, path)
}

func (d *Decoder) decodeValue(v hcl.Value, rv reflect.Value, path Path) error {
	if _, ok := v.(hcl.Null); ok || v == nil {
		rv.Set(reflect.Zero(rv.Type()))
		return nil
	}

	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			rv.Set(reflect.New(rv.Type().Elem()))
		}
		rv = rv.Elem()
	}

	if rv.CanAddr() {
		if handled, err := d.visitValue(v, rv.Addr().Interface(), path); handled {
			return err
		}
	}

	switch rv.Type() {
	case valueType:
		rv.Set(reflect.ValueOf(v))
		return nil
	case numType:
		n, ok := v.(*hcl.Number)
		if !ok {
			return mismatch(path, rv.Type(), valueKind(v))
		}
		rv.Set(reflect.ValueOf(*n))
		return nil
	case ctyType:
		cv, err := ctyext.ToCtyValue(v)
		if err != nil {
			return &DecodeError{Kind: CustomDecodeError, Path: path, Detail: err.Error()}
		}
		rv.Set(reflect.ValueOf(cv))
		return nil
	}

	switch rv.Kind() {
	case reflect.Interface:
		if rv.NumMethod() == 0 {
			rv.Set(reflect.ValueOf(v))
			return nil
		}
		return mismatch(path, rv.Type(), valueKind(v))
	case reflect.Bool:
		b, ok := v.(hcl.Bool)
		if !ok {
			return mismatch(path, rv.Type(), valueKind(v))
		}
		rv.SetBool(bool(b))
	case reflect.String:
		s, ok := v.(hcl.String)
		if !ok {
			return mismatch(path, rv.Type(), valueKind(v))
		}
		rv.SetString(string(s))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, ok := v.(*hcl.Number)
		if !ok {
			return mismatch(path, rv.Type(), valueKind(v))
		}
		i, ok := n.AsInt64()
		if !ok || rv.OverflowInt(i) {
			return mismatch(path, rv.Type(), "number "+n.String())
		}
		rv.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, ok := v.(*hcl.Number)
		if !ok {
			return mismatch(path, rv.Type(), valueKind(v))
		}
		u, ok := n.AsUint64()
		if !ok || rv.OverflowUint(u) {
			return mismatch(path, rv.Type(), "number "+n.String())
		}
		rv.SetUint(u)
	case reflect.Float32, reflect.Float64:
		n, ok := v.(*hcl.Number)
		if !ok {
			return mismatch(path, rv.Type(), valueKind(v))
		}
		f := n.AsFloat64()
		if rv.Kind() == reflect.Float32 && math.Abs(f) > math.MaxFloat32 {
			return mismatch(path, rv.Type(), "number "+n.String())
		}
		rv.SetFloat(f)
	case reflect.Slice:
		arr, ok := v.(hcl.Array)
		if !ok {
			return mismatch(path, rv.Type(), valueKind(v))
		}
		out := reflect.MakeSlice(rv.Type(), len(arr), len(arr))
		for i, elem := range arr {
			if err := d.decodeValue(elem, out.Index(i), path.Index(i)); err != nil {
				return err
			}
		}
		rv.Set(out)
	case reflect.Array:
		arr, ok := v.(hcl.Array)
		if !ok || len(arr) != rv.Len() {
			return mismatch(path, rv.Type(), valueKind(v))
		}
		for i, elem := range arr {
			if err := d.decodeValue(elem, rv.Index(i), path.Index(i)); err != nil {
				return err
			}
		}
	case reflect.Map:
		obj, ok := v.(*hcl.Object)
		if !ok {
			return mismatch(path, rv.Type(), valueKind(v))
		}
		if rv.Type().Key().Kind() != reflect.String {
			return mismatch(path, rv.Type(), valueKind(v))
		}
		out := reflect.MakeMapWithSize(rv.Type(), obj.Len())
		var err error
		obj.Iter(func(k string, item hcl.Value) bool {
			ev := reflect.New(rv.Type().Elem()).Elem()
			if derr := d.decodeValue(item, ev, path.Attr(k)); derr != nil {
				err = derr
				return false
			}
			out.SetMapIndex(reflect.ValueOf(k).Convert(rv.Type().Key()), ev)
			return true
		})
		if err != nil {
			return err
		}
		rv.Set(out)
	case reflect.Struct:
		obj, ok := v.(*hcl.Object)
		if !ok {
			return mismatch(path, rv.Type(), valueKind(v))
		}
		return d.decodeObjectStruct(obj, rv, path)
	default:
		return mismatch(path, rv.Type(), valueKind(v))
	}
	return nil
}

// decodeObjectStruct fills a struct from an object in value mode.
// Attribute and block fields are both read from the object's keys; label
// fields are not set. The schema is closed the same way as in structural
// mode.
func (d *Decoder) decodeObjectStruct(obj *hcl.Object, rv reflect.Value, path Path) error {
	s, err := structSchema(rv.Type())
	if err != nil {
		return &DecodeError{Kind: CustomDecodeError, Path: path, Detail: err.Error()}
	}
	for _, k := range obj.Keys() {
		if _, ok := s.byName(k); !ok && s.remain == nil {
			derr := &DecodeError{Kind: UnknownField, Path: path, Field: k}
			if match := suggest.String(k, s.names()); match != "" {
				derr.Detail = fmt.Sprintf("did you mean %q?", match)
			}
			return derr
		}
	}
	for _, f := range s.named {
		item, ok := obj.Get(f.name)
		if !ok {
			if f.optional || f.typ.Kind() == reflect.Ptr {
				continue
			}
			return &DecodeError{Kind: MissingField, Path: path, Field: f.name}
		}
		fieldPath := path.Attr(f.name)
		if err := d.decodeValue(item, rv.Field(f.index), fieldPath); err != nil {
			return err
		}
		if err := d.checkValidate(f, rv.Field(f.index), fieldPath); err != nil {
			return err
		}
	}
	return nil
}

// visitValue probes the capability visitor interfaces for the value's
// variant. Returns false when the target implements none that match.
func (d *Decoder) visitValue(v hcl.Value, target interface{}, path Path) (bool, error) {
	custom := func(err error) (bool, error) {
		if err != nil {
			return true, &DecodeError{Kind: CustomDecodeError, Path: path, Detail: err.Error()}
		}
		return true, nil
	}
	if u, ok := target.(Unmarshaler); ok {
		return custom(u.UnmarshalHCL(v))
	}
	switch v := v.(type) {
	case hcl.Null:
		if t, ok := target.(NullVisitor); ok {
			return custom(t.VisitNull())
		}
	case hcl.Bool:
		if t, ok := target.(BoolVisitor); ok {
			return custom(t.VisitBool(bool(v)))
		}
	case *hcl.Number:
		if t, ok := target.(NumberVisitor); ok {
			return custom(t.VisitNumber(v))
		}
	case hcl.String:
		if t, ok := target.(StringVisitor); ok {
			return custom(t.VisitString(string(v)))
		}
	case hcl.Array:
		if t, ok := target.(SequenceVisitor); ok {
			return custom(t.VisitSequence(len(v), func(i int, elem interface{}) error {
				ev := reflect.ValueOf(elem)
				if ev.Kind() != reflect.Ptr || ev.IsNil() {
					return &DecodeError{Kind: CustomDecodeError, Path: path.Index(i), Detail: "sequence element target must be a non-nil pointer"}
				}
				return d.decodeValue(v[i], ev.Elem(), path.Index(i))
			}))
		}
	case *hcl.Object:
		if t, ok := target.(MapVisitor); ok {
			return custom(t.VisitMap(v.Keys(), func(key string, elem interface{}) error {
				item, ok := v.Get(key)
				if !ok {
					return &DecodeError{Kind: MissingField, Path: path, Field: key}
				}
				ev := reflect.ValueOf(elem)
				if ev.Kind() != reflect.Ptr || ev.IsNil() {
					return &DecodeError{Kind: CustomDecodeError, Path: path.Attr(key), Detail: "map value target must be a non-nil pointer"}
				}
				return d.decodeValue(item, ev.Elem(), path.Attr(key))
			}))
		}
	}
	return false, nil
}

func mismatch(path Path, want reflect.Type, got string) error {
	return &DecodeError{
		Kind:     TypeMismatch,
		Path:     path,
		Expected: typeName(want),
		Got:      got,
	}
}

// typeName names a Go type in HCL terms for error messages, using the cty
// type system where the type maps onto it.
func typeName(t reflect.Type) string {
	if ct, err := ctyext.ImpliedType(t); err == nil {
		return ct.FriendlyName()
	}
	return t.String()
}

func valueKind(v hcl.Value) string {
	switch v.(type) {
	case hcl.Null:
		return "null"
	case hcl.Bool:
		return "bool"
	case *hcl.Number:
		return "number"
	case hcl.String:
		return "string"
	case hcl.Array:
		return "array"
	case *hcl.Object:
		return "object"
	}
	return fmt.Sprintf("%T", v)
}
