package schema

import (
	"fmt"
	"strings"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// FieldError is one schema violation: the dotted path of the offending
// field and a human-readable message. Validation reports every violation,
// not just the first.
type FieldError struct {
	Path    string
	Message string
}

// Error implements the error interface.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Validate checks an assembled value against a schema node and returns the
// typed, coerced result. On failure the returned error list is ordered by
// field declaration order and the value is cty.NilVal.
func Validate(root *Node, value cty.Value) (cty.Value, []FieldError) {
	out, errs := walk(root, value, "")
	if len(errs) > 0 {
		return cty.NilVal, errs
	}
	return out, nil
}

func walk(n *Node, v cty.Value, path string) (cty.Value, []FieldError) {
	switch n.Kind {
	case KindOptional:
		return walk(n.Inner, v, path)

	case KindString:
		return convertPrimitive(v, cty.String, "string", path)

	case KindNumber:
		return convertPrimitive(v, cty.Number, "number", path)

	case KindBool:
		return convertPrimitive(v, cty.Bool, "boolean", path)

	case KindEnum:
		return walkEnum(n, v, path)

	case KindArray:
		return walkArray(n, v, path)

	case KindObject:
		return walkObject(n, v, path)

	case KindUnion:
		// Options are tried in declaration order; the first one that
		// accepts the value wins.
		for _, opt := range n.Options {
			if cv, errs := walk(opt, v, path); len(errs) == 0 {
				return cv, nil
			}
		}
		return cty.NilVal, []FieldError{{
			Path:    path,
			Message: fmt.Sprintf("expected %s, got %s", n.FriendlyName(), describeValue(v)),
		}}

	default:
		return cty.NilVal, []FieldError{{Path: path, Message: "unsupported schema kind"}}
	}
}

func walkEnum(n *Node, v cty.Value, path string) (cty.Value, []FieldError) {
	if v.IsNull() {
		return cty.NullVal(cty.String), nil
	}
	cv, err := convert.Convert(v, cty.String)
	if err != nil {
		return cty.NilVal, []FieldError{{
			Path:    path,
			Message: fmt.Sprintf("expected %s, got %s", n.FriendlyName(), describeValue(v)),
		}}
	}
	s := cv.AsString()
	for _, allowed := range n.Values {
		if s == allowed {
			return cv, nil
		}
	}
	return cty.NilVal, []FieldError{{
		Path:    path,
		Message: fmt.Sprintf("invalid value %q, expected one of: %s", s, strings.Join(n.Values, ", ")),
	}}
}

func walkArray(n *Node, v cty.Value, path string) (cty.Value, []FieldError) {
	if v.IsNull() {
		return cty.NullVal(cty.EmptyTuple), nil
	}
	var elems []cty.Value
	if isCollection(v) {
		elems = v.AsValueSlice()
	} else {
		// A single occurrence of an array-typed flag is accepted as a
		// one-element array.
		elems = []cty.Value{v}
	}
	if len(elems) == 0 {
		return cty.EmptyTupleVal, nil
	}
	out := make([]cty.Value, 0, len(elems))
	var errs []FieldError
	for i, ev := range elems {
		cv, eerrs := walk(n.Elem, ev, path)
		if len(eerrs) > 0 {
			for _, e := range eerrs {
				e.Message = fmt.Sprintf("element %d: %s", i, e.Message)
				errs = append(errs, e)
			}
			continue
		}
		out = append(out, cv)
	}
	if len(errs) > 0 {
		return cty.NilVal, errs
	}
	return cty.TupleVal(out), nil
}

func walkObject(n *Node, v cty.Value, path string) (cty.Value, []FieldError) {
	if v.IsNull() || !isObjectLike(v) {
		return cty.NilVal, []FieldError{{
			Path:    path,
			Message: fmt.Sprintf("expected object, got %s", describeValue(v)),
		}}
	}

	attrs := make(map[string]cty.Value, len(n.Fields))
	var errs []FieldError
	for _, f := range n.Fields {
		fpath := joinPath(path, f.Name)
		fv, present := attrOf(v, f.Name)
		if !present {
			if def, ok := defaultOf(f.Node); ok {
				attrs[f.Name] = def
				continue
			}
			if f.Node.Kind == KindOptional {
				continue
			}
			errs = append(errs, FieldError{Path: fpath, Message: "required field is missing"})
			continue
		}
		cv, ferrs := walk(f.Node, fv, fpath)
		if len(ferrs) > 0 {
			errs = append(errs, ferrs...)
			continue
		}
		attrs[f.Name] = cv
	}
	// Keys not declared in the schema are dropped without complaint.

	if len(errs) > 0 {
		return cty.NilVal, errs
	}
	if len(attrs) == 0 {
		return cty.EmptyObjectVal, nil
	}
	return cty.ObjectVal(attrs), nil
}

func convertPrimitive(v cty.Value, ty cty.Type, name, path string) (cty.Value, []FieldError) {
	if v.IsNull() {
		return cty.NullVal(ty), nil
	}
	if isCollection(v) || isObjectLike(v) {
		return cty.NilVal, []FieldError{{
			Path:    path,
			Message: fmt.Sprintf("expected %s, got %s", name, describeValue(v)),
		}}
	}
	cv, err := convert.Convert(v, ty)
	if err != nil {
		return cty.NilVal, []FieldError{{
			Path:    path,
			Message: fmt.Sprintf("expected %s, got %s", name, describeValue(v)),
		}}
	}
	return cv, nil
}

// defaultOf returns the node's default value, looking through an optional
// wrapper so that a default can be declared on either side of it.
func defaultOf(n *Node) (cty.Value, bool) {
	if n.Default != nil {
		return *n.Default, true
	}
	if n.Kind == KindOptional && n.Inner.Default != nil {
		return *n.Inner.Default, true
	}
	return cty.NilVal, false
}

func isCollection(v cty.Value) bool {
	ty := v.Type()
	return ty.IsTupleType() || ty.IsListType() || ty.IsSetType()
}

func isObjectLike(v cty.Value) bool {
	ty := v.Type()
	return ty.IsObjectType() || ty.IsMapType()
}

// attrOf fetches a named attribute from an object or map value.
func attrOf(v cty.Value, name string) (cty.Value, bool) {
	ty := v.Type()
	switch {
	case ty.IsObjectType():
		if ty.HasAttribute(name) {
			return v.GetAttr(name), true
		}
	case ty.IsMapType():
		key := cty.StringVal(name)
		if v.HasIndex(key).True() {
			return v.Index(key), true
		}
	}
	return cty.NilVal, false
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

// describeValue names a value's shape for error messages.
func describeValue(v cty.Value) string {
	if v.IsNull() {
		return "null"
	}
	ty := v.Type()
	switch {
	case ty == cty.String:
		return fmt.Sprintf("string %q", v.AsString())
	case ty == cty.Number:
		return "number"
	case ty == cty.Bool:
		return "boolean"
	case isCollection(v):
		return "array"
	case isObjectLike(v):
		return "object"
	default:
		return ty.FriendlyName()
	}
}
