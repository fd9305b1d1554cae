// Package interp converts a single raw flag value into a typed value using a
// fixed literal grammar. It is deliberately schema-independent: deciding
// whether a comma list should become an array for a given key is the
// grouper's job, because only the schema knows.
package interp

import (
	"math"
	"strconv"
	"strings"

	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// Kind classifies the shape of an interpreted value.
type Kind int

const (
	KindPrimitive Kind = iota
	KindArray
	KindObject
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Interpret converts one raw value string into a typed value. The grammar is
// applied in priority order:
//
//  1. empty string: a bare flag, true
//  2. exactly {...} or [...] and valid JSON: the parsed literal
//  3. contains '=': a comma-separated object literal (sub=val pairs)
//  4. contains ',': a comma-separated array of coerced primitives
//  5. otherwise: a coerced primitive
//
// A JSON parse failure in rule 2 falls through to the later rules rather
// than erroring; the text is then treated as ordinary literal input.
func Interpret(raw string) (cty.Value, Kind) {
	if raw == "" {
		return cty.True, KindPrimitive
	}
	if isDelimited(raw) {
		if v, kind, ok := interpretJSON(raw); ok {
			return v, kind
		}
	}
	if strings.Contains(raw, "=") {
		if v, ok := interpretObjectLiteral(raw); ok {
			return v, KindObject
		}
	}
	if strings.Contains(raw, ",") {
		return interpretList(raw), KindArray
	}
	return Primitive(raw), KindPrimitive
}

// Primitive coerces a bare string into its most specific typed value:
// booleans, null ("null" and "undefined" both map to the null value), finite
// numbers, and finally the literal string itself.
func Primitive(s string) cty.Value {
	switch s {
	case "true":
		return cty.True
	case "false":
		return cty.False
	case "null", "undefined":
		return cty.NullVal(cty.DynamicPseudoType)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return cty.NumberFloatVal(f)
	}
	return cty.StringVal(s)
}

// IsBareCommaList reports whether a raw value is an opaque comma list: it
// contains a comma, carries no '=' pairs, and is not a JSON literal. These
// are the values whose array-ness is decided by the destination schema.
func IsBareCommaList(raw string) bool {
	return strings.Contains(raw, ",") && !strings.Contains(raw, "=") && !isDelimited(raw)
}

func isDelimited(raw string) bool {
	if len(raw) < 2 {
		return false
	}
	first, last := raw[0], raw[len(raw)-1]
	return (first == '{' && last == '}') || (first == '[' && last == ']')
}

func interpretJSON(raw string) (cty.Value, Kind, bool) {
	ty, err := ctyjson.ImpliedType([]byte(raw))
	if err != nil {
		return cty.NilVal, 0, false
	}
	v, err := ctyjson.Unmarshal([]byte(raw), ty)
	if err != nil {
		return cty.NilVal, 0, false
	}
	switch {
	case ty.IsObjectType() || ty.IsMapType():
		return v, KindObject, true
	case ty.IsTupleType() || ty.IsListType():
		return v, KindArray, true
	default:
		return cty.NilVal, 0, false
	}
}

// interpretObjectLiteral parses "sub1=v1,sub2=v2" into a nested object.
// A comma-delimited chunk without '=' is rejoined onto the preceding value,
// which recovers values that legitimately contain commas
// (e.g. content=Hello, world).
func interpretObjectLiteral(raw string) (cty.Value, bool) {
	chunks := strings.Split(raw, ",")
	b := NewObjectBuilder()
	pairs := 0
	for i := 0; i < len(chunks); i++ {
		chunk := chunks[i]
		if !strings.Contains(chunk, "=") {
			continue
		}
		key, val, _ := strings.Cut(chunk, "=")
		for i+1 < len(chunks) && !strings.Contains(chunks[i+1], "=") {
			val += "," + chunks[i+1]
			i++
		}
		if key == "" {
			continue
		}
		b.Set(key, Primitive(val))
		pairs++
	}
	if pairs == 0 {
		return cty.NilVal, false
	}
	return b.Value(), true
}

func interpretList(raw string) cty.Value {
	parts := strings.Split(raw, ",")
	vals := make([]cty.Value, len(parts))
	for i, p := range parts {
		vals[i] = Primitive(p)
	}
	return cty.TupleVal(vals)
}
