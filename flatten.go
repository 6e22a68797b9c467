package hcl

// The flattening between bodies and values follows block-label semantics:
// every label adds one level of object nesting, sibling blocks with the
// same identifier and label path merge, and multiple bodies at the deepest
// level accumulate into an array.

type flatNode interface {
	flatten() Value
}

type valueFlat struct{ v Value }

type blockFlat struct{ m *nodeMap }

type bodiesFlat struct{ bodies []*Body }

func (n *valueFlat) flatten() Value { return n.v }

func (n *blockFlat) flatten() Value {
	obj := NewObject()
	n.m.iter(func(k string, child flatNode) {
		obj.Set(k, child.flatten())
	})
	return obj
}

func (n *bodiesFlat) flatten() Value {
	if len(n.bodies) == 1 {
		return BodyToValue(n.bodies[0])
	}
	arr := make(Array, len(n.bodies))
	for i, b := range n.bodies {
		arr[i] = BodyToValue(b)
	}
	return arr
}

// nodeMap is an insertion-ordered map used while flattening.
type nodeMap struct {
	keys    []string
	entries map[string]flatNode
}

func newNodeMap() *nodeMap {
	return &nodeMap{entries: make(map[string]flatNode)}
}

func (m *nodeMap) insert(key string, n flatNode) {
	prev, ok := m.entries[key]
	if !ok {
		m.keys = append(m.keys, key)
		m.entries[key] = n
		return
	}
	m.entries[key] = mergeNodes(prev, n)
}

func (m *nodeMap) iter(fn func(key string, n flatNode)) {
	for _, k := range m.keys {
		fn(k, m.entries[k])
	}
}

// mergeNodes combines two nodes that landed on the same key. Blocks merge
// recursively, bodies accumulate, anything else is replaced by the later
// entry.
func mergeNodes(prev, next flatNode) flatNode {
	pb, pok := prev.(*blockFlat)
	nb, nok := next.(*blockFlat)
	if pok && nok {
		nb.m.iter(func(k string, child flatNode) {
			pb.m.insert(k, child)
		})
		return pb
	}
	pv, pok := prev.(*bodiesFlat)
	nv, nok := next.(*bodiesFlat)
	if pok && nok {
		pv.bodies = append(pv.bodies, nv.bodies...)
		return pv
	}
	return next
}

func blockToNode(blk *Block) (string, flatNode) {
	if len(blk.Labels) == 0 {
		return blk.Identifier, &bodiesFlat{bodies: []*Body{blk.Body}}
	}
	inner := &Block{
		Identifier: blk.Labels[0].Value,
		Labels:     blk.Labels[1:],
		Body:       blk.Body,
	}
	key, node := blockToNode(inner)
	m := newNodeMap()
	m.insert(key, node)
	return blk.Identifier, &blockFlat{m: m}
}

// BodyToValue flattens a body into a value. Attributes become object
// fields; blocks become nested objects keyed by the block identifier and
// then by each label.
func BodyToValue(body *Body) Value {
	if body == nil {
		return NewObject()
	}
	m := newNodeMap()
	for _, s := range body.Structures {
		switch s := s.(type) {
		case *Attribute:
			m.insert(s.Name, &valueFlat{v: ExpressionToValue(s.Value)})
		case *Block:
			key, node := blockToNode(s)
			m.insert(key, node)
		}
	}
	return (&blockFlat{m: m}).flatten()
}

// ExpressionToValue reduces an expression to a value. Literal expressions
// reduce structurally; a unary minus over a number literal folds into a
// negative number. Any other expression becomes a string holding its
// interpolation form, so no information is silently dropped.
func ExpressionToValue(e Expression) Value {
	if v, ok := literalValue(e); ok {
		return v
	}
	if t, ok := e.(*TemplateExpr); ok {
		return String(templateSourceString(t.Template))
	}
	return String("${" + ExpressionString(e) + "}")
}

func literalValue(e Expression) (Value, bool) {
	switch e := e.(type) {
	case *LiteralValue:
		return e.Value, true
	case *TupleExpr:
		arr := make(Array, len(e.Exprs))
		for i, item := range e.Exprs {
			v, ok := literalValue(item)
			if !ok {
				return nil, false
			}
			arr[i] = v
		}
		return arr, true
	case *ObjectExpr:
		obj := NewObject()
		for _, item := range e.Items {
			var key string
			if item.Ident != "" {
				key = item.Ident
			} else if lit, ok := item.Key.(*LiteralValue); ok {
				s, ok := lit.Value.(String)
				if !ok {
					return nil, false
				}
				key = string(s)
			} else if t, ok := item.Key.(*TemplateExpr); ok {
				s, ok := templateLiteralString(t.Template)
				if !ok {
					return nil, false
				}
				key = s
			} else {
				return nil, false
			}
			v, ok := literalValue(item.Value)
			if !ok {
				return nil, false
			}
			obj.Set(key, v)
		}
		return obj, true
	case *TemplateExpr:
		if s, ok := templateLiteralString(e.Template); ok {
			return String(s), true
		}
		return nil, false
	case *UnaryOp:
		if e.Op != OpNegate {
			return nil, false
		}
		inner, ok := literalValue(e.Expr)
		if !ok {
			return nil, false
		}
		n, ok := inner.(*Number)
		if !ok {
			return nil, false
		}
		return n.Negate(), true
	case *ParenExpr:
		return literalValue(e.Inner)
	}
	return nil, false
}

// templateLiteralString joins a template that consists only of literal
// parts.
func templateLiteralString(t *Template) (string, bool) {
	var out string
	for _, p := range t.Parts {
		lit, ok := p.(*TemplateLiteral)
		if !ok {
			return "", false
		}
		out += lit.Value
	}
	return out, true
}

// ValueToExpression converts a value into the literal expression that
// denotes it.
func ValueToExpression(v Value) Expression {
	switch v := v.(type) {
	case Array:
		exprs := make([]Expression, len(v))
		for i, item := range v {
			exprs[i] = ValueToExpression(item)
		}
		return &TupleExpr{Exprs: exprs}
	case *Object:
		var items []ObjectItem
		v.Iter(func(k string, item Value) bool {
			oi := ObjectItem{Value: ValueToExpression(item)}
			if ValidIdentifier(k) {
				oi.Ident = k
			} else {
				oi.Key = Literal(String(k))
			}
			items = append(items, oi)
			return true
		})
		return &ObjectExpr{Items: items}
	default:
		return Literal(v)
	}
}

// ValueToBody inverts BodyToValue for object-shaped values. Object fields
// holding objects become blocks, fields holding arrays of two or more
// objects become repeated blocks, and everything else (including fields
// whose key is not a valid identifier) becomes an attribute with a literal
// value. Label information cannot be recovered; nested blocks are produced
// instead, which flatten back to the same value.
func ValueToBody(v Value) (*Body, bool) {
	obj, ok := v.(*Object)
	if !ok {
		return nil, false
	}
	bb := NewBodyBuilder()
	obj.Iter(func(k string, item Value) bool {
		if !ValidIdentifier(k) {
			bb.AttributeValue(k, item)
			return true
		}
		switch item := item.(type) {
		case *Object:
			body, _ := ValueToBody(item)
			bb.Block(&Block{Identifier: k, Body: body})
		case Array:
			if blockArray(item) {
				for _, elem := range item {
					body, _ := ValueToBody(elem)
					bb.Block(&Block{Identifier: k, Body: body})
				}
				return true
			}
			bb.AttributeValue(k, item)
		default:
			bb.AttributeValue(k, item)
		}
		return true
	})
	return bb.Build(), true
}

func blockArray(arr Array) bool {
	// A single block flattens to a bare object, not an array, so only two
	// or more objects are written as repeated blocks.
	if len(arr) < 2 {
		return false
	}
	for _, v := range arr {
		if _, ok := v.(*Object); !ok {
			return false
		}
	}
	return true
}
