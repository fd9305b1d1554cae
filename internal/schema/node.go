// Package schema defines the declarative schema tree that drives option
// validation: a tagged-union Node per field, a navigator answering shape
// questions about dot-paths, and a validator performing final-stage type
// checking and coercion on top of go-cty.
package schema

import (
	"fmt"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// Kind identifies the declared type of a schema node.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindBool
	KindArray
	KindObject
	KindUnion
	KindOptional
	KindEnum
)

// String returns the kind's name.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindUnion:
		return "union"
	case KindOptional:
		return "optional"
	case KindEnum:
		return "enum"
	default:
		return "unknown"
	}
}

// Field is a named child of an object node. Field order is the declaration
// order and is preserved through validation and help output.
type Field struct {
	Name string
	Node *Node
}

// Node describes one field of a schema: its kind plus kind-specific
// children. Nodes are built once at registration time and never mutated
// afterwards.
type Node struct {
	Kind        Kind
	Elem        *Node    // KindArray: element type
	Fields      []Field  // KindObject: named children, ordered
	Options     []*Node  // KindUnion: allowed member types
	Inner       *Node    // KindOptional: wrapped type
	Values      []string // KindEnum: allowed string values
	Default     *cty.Value
	Description string
}

// String returns a string node.
func String() *Node { return &Node{Kind: KindString} }

// Number returns a number node.
func Number() *Node { return &Node{Kind: KindNumber} }

// Bool returns a boolean node.
func Bool() *Node { return &Node{Kind: KindBool} }

// Array returns an array node with the given element type.
func Array(elem *Node) *Node { return &Node{Kind: KindArray, Elem: elem} }

// Object returns an object node with the given fields, in order.
func Object(fields ...Field) *Node {
	return &Node{Kind: KindObject, Fields: fields}
}

// F is a shorthand for constructing an object field.
func F(name string, n *Node) Field { return Field{Name: name, Node: n} }

// Union returns a union node; a value is accepted if any option accepts it,
// tried in order.
func Union(options ...*Node) *Node {
	return &Node{Kind: KindUnion, Options: options}
}

// Optional wraps a node so that its absence is not a violation.
func Optional(inner *Node) *Node {
	return &Node{Kind: KindOptional, Inner: inner}
}

// Enum returns an enum node accepting exactly the given string values.
func Enum(values ...string) *Node {
	return &Node{Kind: KindEnum, Values: values}
}

// Describe attaches a human-readable description and returns the node.
func (n *Node) Describe(desc string) *Node {
	n.Description = desc
	return n
}

// WithDefault attaches a default value applied when the field is absent.
func (n *Node) WithDefault(v cty.Value) *Node {
	n.Default = &v
	return n
}

// FriendlyName returns a readable name for the node's type, used in
// validation messages and help output.
func (n *Node) FriendlyName() string {
	switch n.Kind {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "boolean"
	case KindArray:
		return "array of " + n.Elem.FriendlyName()
	case KindObject:
		return "object"
	case KindUnion:
		names := make([]string, len(n.Options))
		for i, opt := range n.Options {
			names[i] = opt.FriendlyName()
		}
		return strings.Join(names, " or ")
	case KindOptional:
		return n.Inner.FriendlyName()
	case KindEnum:
		return fmt.Sprintf("enum(%s)", strings.Join(n.Values, ", "))
	default:
		return "unknown"
	}
}

// unwrap strips optional wrappers; the navigator and validator treat them
// as transparent for shape questions.
func (n *Node) unwrap() *Node {
	for n.Kind == KindOptional {
		n = n.Inner
	}
	return n
}

// fieldNode returns the named child of an object node.
func (n *Node) fieldNode(name string) (*Node, bool) {
	for _, f := range n.Fields {
		if f.Name == name {
			return f.Node, true
		}
	}
	return nil, false
}
