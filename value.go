package hcl

// Value is a dynamic HCL value: null, bool, number, string, array or
// object. Values are produced by flattening a parsed body (see BodyToValue)
// or built directly by callers.
type Value interface {
	valueNode()
}

// Null is the HCL null value.
type Null struct{}

// Bool is an HCL boolean value.
type Bool bool

// String is an HCL string value, already unescaped.
type String string

// Array is an ordered sequence of values.
type Array []Value

func (Null) valueNode()    {}
func (Bool) valueNode()    {}
func (String) valueNode()  {}
func (*Number) valueNode() {}
func (Array) valueNode()   {}
func (*Object) valueNode() {}

// Object is a mapping from string keys to values that preserves insertion
// order. Keys are unique; setting an existing key replaces its value in
// place without moving it.
type Object struct {
	keys    []string
	entries map[string]Value
}

// NewObject returns an empty object. Pairs of (key, value) entries may be
// added with Set.
func NewObject() *Object {
	return &Object{entries: make(map[string]Value)}
}

// Set inserts or replaces the value for key.
func (o *Object) Set(key string, v Value) *Object {
	if o.entries == nil {
		o.entries = make(map[string]Value)
	}
	if _, ok := o.entries[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.entries[key] = v
	return o
}

// Get returns the value for key.
func (o *Object) Get(key string) (Value, bool) {
	v, ok := o.entries[key]
	return v, ok
}

// Has reports whether key is present.
func (o *Object) Has(key string) bool {
	_, ok := o.entries[key]
	return ok
}

// Delete removes key, preserving the order of the remaining entries.
func (o *Object) Delete(key string) {
	if _, ok := o.entries[key]; !ok {
		return
	}
	delete(o.entries, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
}

// Len returns the number of entries.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Keys returns the keys in insertion order. The returned slice must not be
// modified.
func (o *Object) Keys() []string { return o.keys }

// Iter calls fn for every entry in insertion order until fn returns false.
func (o *Object) Iter(fn func(key string, v Value) bool) {
	for _, k := range o.keys {
		if !fn(k, o.entries[k]) {
			return
		}
	}
}

// ValueEqual reports whether two values are structurally equal. Objects
// must contain the same keys in the same order.
func ValueEqual(a, b Value) bool {
	switch av := a.(type) {
	case nil:
		return b == nil
	case Null:
		_, ok := b.(Null)
		return ok
	case Bool:
		bv, ok := b.(Bool)
		return ok && av == bv
	case String:
		bv, ok := b.(String)
		return ok && av == bv
	case *Number:
		bv, ok := b.(*Number)
		return ok && av.Equal(bv)
	case Array:
		bv, ok := b.(Array)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !ValueEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	case *Object:
		bv, ok := b.(*Object)
		if !ok || av.Len() != bv.Len() {
			return false
		}
		for i, k := range av.keys {
			if bv.keys[i] != k {
				return false
			}
			if !ValueEqual(av.entries[k], bv.entries[k]) {
				return false
			}
		}
		return true
	}
	return false
}
