// Package options groups parsed flag entries by key, resolves array versus
// overwrite semantics against the command's schema, assembles the nested
// options object and runs schema validation.
package options

import (
	"strings"

	"github.com/vk/cmdkit/internal/interp"
	"github.com/vk/cmdkit/internal/scan"
	"github.com/vk/cmdkit/internal/schema"
	"github.com/zclconf/go-cty/cty"
)

// Result is the outcome of building options for one invocation: either a
// typed value matching the schema, or an ordered list of violations.
type Result struct {
	OK     bool
	Data   cty.Value
	Errors []schema.FieldError
}

// Native returns the options as a plain Go map.
func (r *Result) Native() (map[string]any, error) {
	nv, err := schema.Native(r.Data)
	if err != nil {
		return nil, err
	}
	if nv == nil {
		return map[string]any{}, nil
	}
	return nv.(map[string]any), nil
}

// Decode populates a Go struct from the options value via `cli` tags.
func (r *Result) Decode(out any) error {
	return schema.Decode(r.Data, out)
}

// Build turns flag entries into a validated options value.
//
// Entries are grouped by key in encounter order. A key occurring once keeps
// its interpreted value, except that a bare comma list is re-split into a
// coerced array when the schema declares the key array-typed, and reverts to
// the literal string when it does not: array-ness comes from the schema,
// never from the text. A key occurring multiple times becomes an ordered
// array when the schema declares it array-typed; otherwise the last
// occurrence silently wins.
//
// A nil schema skips validation and returns the assembled object as-is.
func Build(entries []scan.Entry, root *schema.Node) Result {
	grouped := make(map[string][]cty.Value)
	var order []string

	for _, e := range entries {
		v := e.Value
		if interp.IsBareCommaList(e.Raw) {
			if schema.IsArrayAt(root, e.Key) {
				v = resplit(e.Raw)
			} else {
				v = cty.StringVal(e.Raw)
			}
		}
		if _, seen := grouped[e.Key]; !seen {
			order = append(order, e.Key)
		}
		grouped[e.Key] = append(grouped[e.Key], v)
	}

	b := interp.NewObjectBuilder()
	for _, key := range order {
		group := grouped[key]
		switch {
		case len(group) == 1:
			b.Set(key, group[0])
		case schema.IsArrayAt(root, key):
			b.Set(key, cty.TupleVal(group))
		default:
			// Deliberate last-flag-wins policy, not an error.
			b.Set(key, group[len(group)-1])
		}
	}
	assembled := b.Value()

	if root == nil {
		return Result{OK: true, Data: assembled}
	}

	data, errs := schema.Validate(root, assembled)
	if len(errs) > 0 {
		return Result{OK: false, Errors: errs}
	}
	return Result{OK: true, Data: data}
}

func resplit(raw string) cty.Value {
	parts := strings.Split(raw, ",")
	vals := make([]cty.Value, len(parts))
	for i, p := range parts {
		vals[i] = interp.Primitive(p)
	}
	return cty.TupleVal(vals)
}
