// This file contains the logic for parsing HCL type expressions (e.g.
// `string`, `list(number)`, `union(string, list(string))`) into schema nodes.

package manifest

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/vk/cmdkit/internal/schema"
	"github.com/zclconf/go-cty/cty"
)

// typeExpr converts an HCL type expression into its schema.Node equivalent.
func typeExpr(expr hcl.Expression) (*schema.Node, error) {
	if expr == nil {
		return nil, fmt.Errorf("missing type expression")
	}

	switch v := expr.(type) {
	case *hclsyntax.ScopeTraversalExpr:
		// Primitive type keywords: `string`, `number`, `bool`.
		if len(v.Traversal) != 1 {
			return nil, fmt.Errorf("invalid type keyword: traversal path is not a single identifier")
		}
		switch name := v.Traversal.RootName(); name {
		case "string":
			return schema.String(), nil
		case "number":
			return schema.Number(), nil
		case "bool":
			return schema.Bool(), nil
		default:
			return nil, fmt.Errorf("unknown primitive type %q", name)
		}

	case *hclsyntax.FunctionCallExpr:
		return typeConstructor(v)

	default:
		return nil, fmt.Errorf("unsupported expression for type definition: %T", v)
	}
}

func typeConstructor(call *hclsyntax.FunctionCallExpr) (*schema.Node, error) {
	switch call.Name {
	case "list":
		if len(call.Args) != 1 {
			return nil, fmt.Errorf("list requires exactly one argument, got %d", len(call.Args))
		}
		elem, err := typeExpr(call.Args[0])
		if err != nil {
			return nil, err
		}
		return schema.Array(elem), nil

	case "optional":
		if len(call.Args) != 1 {
			return nil, fmt.Errorf("optional requires exactly one argument, got %d", len(call.Args))
		}
		inner, err := typeExpr(call.Args[0])
		if err != nil {
			return nil, err
		}
		return schema.Optional(inner), nil

	case "union":
		if len(call.Args) < 2 {
			return nil, fmt.Errorf("union requires at least two arguments, got %d", len(call.Args))
		}
		opts := make([]*schema.Node, len(call.Args))
		for i, arg := range call.Args {
			opt, err := typeExpr(arg)
			if err != nil {
				return nil, err
			}
			opts[i] = opt
		}
		return schema.Union(opts...), nil

	case "enum":
		if len(call.Args) == 0 {
			return nil, fmt.Errorf("enum requires at least one value")
		}
		values := make([]string, len(call.Args))
		for i, arg := range call.Args {
			val, diags := arg.Value(nil)
			if diags.HasErrors() || val.Type() != cty.String {
				return nil, fmt.Errorf("enum values must be string literals")
			}
			values[i] = val.AsString()
		}
		return schema.Enum(values...), nil

	case "object":
		if len(call.Args) != 1 {
			return nil, fmt.Errorf("object requires exactly one argument, got %d", len(call.Args))
		}
		cons, ok := call.Args[0].(*hclsyntax.ObjectConsExpr)
		if !ok {
			return nil, fmt.Errorf("object requires an attribute map argument, e.g. object({ name = string })")
		}
		fields := make([]schema.Field, 0, len(cons.Items))
		for _, item := range cons.Items {
			name := hcl.ExprAsKeyword(item.KeyExpr)
			if name == "" {
				return nil, fmt.Errorf("object attribute names must be bare keywords")
			}
			node, err := typeExpr(item.ValueExpr)
			if err != nil {
				return nil, fmt.Errorf("attribute %q: %w", name, err)
			}
			fields = append(fields, schema.F(name, node))
		}
		return schema.Object(fields...), nil

	default:
		return nil, fmt.Errorf("unknown type constructor function %q", call.Name)
	}
}
