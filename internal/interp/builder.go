package interp

import (
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// ObjectBuilder assembles a nested object value from dot-path assignments.
// A path segment that was already materialized as an object is never
// clobbered by a later scalar assignment at a shorter prefix; the scalar is
// dropped and the object kept.
type ObjectBuilder struct {
	root *valueNode
}

type valueNode struct {
	leaf cty.Value
	obj  map[string]*valueNode
	keys []string
}

func (n *valueNode) isObject() bool { return n.obj != nil }

func (n *valueNode) child(name string) *valueNode {
	if n.obj == nil {
		// Promote a scalar node into an object; the old leaf is discarded
		// because the longer path is more specific.
		n.obj = make(map[string]*valueNode)
		n.leaf = cty.NilVal
	}
	c, ok := n.obj[name]
	if !ok {
		c = &valueNode{}
		n.obj[name] = c
		n.keys = append(n.keys, name)
	}
	return c
}

// NewObjectBuilder returns an empty builder.
func NewObjectBuilder() *ObjectBuilder {
	return &ObjectBuilder{root: &valueNode{obj: make(map[string]*valueNode)}}
}

// Set assigns a value at a dot-separated path. Object values are decomposed
// attribute by attribute so that two assignments under the same prefix merge
// instead of replacing each other.
func (b *ObjectBuilder) Set(path string, v cty.Value) {
	if !v.IsNull() && v.Type().IsObjectType() {
		if v.LengthInt() == 0 {
			b.ensureObject(path)
			return
		}
		it := v.ElementIterator()
		for it.Next() {
			k, ev := it.Element()
			b.Set(path+"."+k.AsString(), ev)
		}
		return
	}

	segs := strings.Split(path, ".")
	cur := b.root
	for _, seg := range segs[:len(segs)-1] {
		cur = cur.child(seg)
	}
	last := segs[len(segs)-1]
	if c, ok := cur.obj[last]; ok && c.isObject() {
		// Never overwrite a materialized sub-object with a scalar.
		return
	}
	cur.child(last).leaf = v
}

func (b *ObjectBuilder) ensureObject(path string) {
	cur := b.root
	for _, seg := range strings.Split(path, ".") {
		cur = cur.child(seg)
	}
	if cur.obj == nil {
		cur.obj = make(map[string]*valueNode)
		cur.leaf = cty.NilVal
	}
}

// Value returns the assembled object.
func (b *ObjectBuilder) Value() cty.Value {
	return b.root.value()
}

func (n *valueNode) value() cty.Value {
	if !n.isObject() {
		return n.leaf
	}
	if len(n.keys) == 0 {
		return cty.EmptyObjectVal
	}
	attrs := make(map[string]cty.Value, len(n.keys))
	for _, k := range n.keys {
		attrs[k] = n.obj[k].value()
	}
	return cty.ObjectVal(attrs)
}
