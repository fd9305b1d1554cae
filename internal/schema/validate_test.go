package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestValidate_Primitives(t *testing.T) {
	t.Parallel()

	t.Run("Success: exact types pass through", func(t *testing.T) {
		t.Parallel()
		root := Object(
			F("name", String()),
			F("count", Number()),
			F("on", Bool()),
		)
		in := cty.ObjectVal(map[string]cty.Value{
			"name":  cty.StringVal("x"),
			"count": cty.NumberFloatVal(3),
			"on":    cty.True,
		})
		out, errs := Validate(root, in)
		require.Empty(t, errs)
		assert.True(t, out.GetAttr("count").RawEquals(cty.NumberFloatVal(3)))
	})

	t.Run("Success: string coerces to number", func(t *testing.T) {
		t.Parallel()
		root := Object(F("count", Number()))
		in := cty.ObjectVal(map[string]cty.Value{"count": cty.StringVal("5")})
		out, errs := Validate(root, in)
		require.Empty(t, errs)
		n, _ := out.GetAttr("count").AsBigFloat().Float64()
		assert.Equal(t, 5.0, n)
	})

	t.Run("Success: number coerces to string", func(t *testing.T) {
		t.Parallel()
		root := Object(F("id", String()))
		in := cty.ObjectVal(map[string]cty.Value{"id": cty.NumberFloatVal(42)})
		out, errs := Validate(root, in)
		require.Empty(t, errs)
		assert.Equal(t, "42", out.GetAttr("id").AsString())
	})

	t.Run("Failure: word does not coerce to number", func(t *testing.T) {
		t.Parallel()
		root := Object(F("count", Number()))
		in := cty.ObjectVal(map[string]cty.Value{"count": cty.StringVal("many")})
		_, errs := Validate(root, in)
		require.Len(t, errs, 1)
		assert.Equal(t, "count", errs[0].Path)
		assert.Contains(t, errs[0].Message, "expected number")
	})

	t.Run("Failure: array where a scalar is expected", func(t *testing.T) {
		t.Parallel()
		root := Object(F("name", String()))
		in := cty.ObjectVal(map[string]cty.Value{
			"name": cty.TupleVal([]cty.Value{cty.StringVal("a")}),
		})
		_, errs := Validate(root, in)
		require.Len(t, errs, 1)
		assert.Contains(t, errs[0].Message, "expected string, got array")
	})
}

func TestValidate_CollectsAllViolations(t *testing.T) {
	t.Parallel()

	root := Object(
		F("to", String()),
		F("count", Number()),
		F("mode", Enum("fast", "slow")),
	)
	in := cty.ObjectVal(map[string]cty.Value{
		"count": cty.StringVal("many"),
		"mode":  cty.StringVal("medium"),
	})

	_, errs := Validate(root, in)
	require.Len(t, errs, 3, "every violation must be reported, in field order")
	assert.Equal(t, "to", errs[0].Path)
	assert.Equal(t, "required field is missing", errs[0].Message)
	assert.Equal(t, "count", errs[1].Path)
	assert.Equal(t, "mode", errs[2].Path)
}

func TestValidate_OptionalAndDefaults(t *testing.T) {
	t.Parallel()

	t.Run("Success: absent optional is simply absent", func(t *testing.T) {
		t.Parallel()
		root := Object(F("subject", Optional(String())))
		out, errs := Validate(root, cty.EmptyObjectVal)
		require.Empty(t, errs)
		assert.False(t, out.Type().HasAttribute("subject"))
	})

	t.Run("Success: default fills an absent field", func(t *testing.T) {
		t.Parallel()
		root := Object(
			F("priority", Optional(Enum("low", "normal", "high").
				WithDefault(cty.StringVal("normal")))),
		)
		out, errs := Validate(root, cty.EmptyObjectVal)
		require.Empty(t, errs)
		assert.Equal(t, "normal", out.GetAttr("priority").AsString())
	})

	t.Run("Success: provided value beats the default", func(t *testing.T) {
		t.Parallel()
		root := Object(
			F("priority", Optional(Enum("low", "normal", "high").
				WithDefault(cty.StringVal("normal")))),
		)
		in := cty.ObjectVal(map[string]cty.Value{"priority": cty.StringVal("high")})
		out, errs := Validate(root, in)
		require.Empty(t, errs)
		assert.Equal(t, "high", out.GetAttr("priority").AsString())
	})
}

func TestValidate_Enum(t *testing.T) {
	t.Parallel()

	root := Object(F("mode", Enum("fast", "slow")))

	t.Run("Success: member value", func(t *testing.T) {
		t.Parallel()
		in := cty.ObjectVal(map[string]cty.Value{"mode": cty.StringVal("fast")})
		_, errs := Validate(root, in)
		assert.Empty(t, errs)
	})

	t.Run("Failure: non-member lists the allowed values", func(t *testing.T) {
		t.Parallel()
		in := cty.ObjectVal(map[string]cty.Value{"mode": cty.StringVal("warp")})
		_, errs := Validate(root, in)
		require.Len(t, errs, 1)
		assert.Contains(t, errs[0].Message, `invalid value "warp"`)
		assert.Contains(t, errs[0].Message, "fast, slow")
	})
}

func TestValidate_Arrays(t *testing.T) {
	t.Parallel()

	root := Object(F("ports", Array(Number())))

	t.Run("Success: element coercion", func(t *testing.T) {
		t.Parallel()
		in := cty.ObjectVal(map[string]cty.Value{
			"ports": cty.TupleVal([]cty.Value{cty.StringVal("80"), cty.NumberFloatVal(443)}),
		})
		out, errs := Validate(root, in)
		require.Empty(t, errs)
		assert.Equal(t, 2, out.GetAttr("ports").LengthInt())
	})

	t.Run("Success: single value wraps into a one-element array", func(t *testing.T) {
		t.Parallel()
		in := cty.ObjectVal(map[string]cty.Value{"ports": cty.NumberFloatVal(80)})
		out, errs := Validate(root, in)
		require.Empty(t, errs)
		require.Equal(t, 1, out.GetAttr("ports").LengthInt())
	})

	t.Run("Failure: element errors carry the index", func(t *testing.T) {
		t.Parallel()
		in := cty.ObjectVal(map[string]cty.Value{
			"ports": cty.TupleVal([]cty.Value{cty.NumberFloatVal(80), cty.StringVal("http")}),
		})
		_, errs := Validate(root, in)
		require.Len(t, errs, 1)
		assert.Equal(t, "ports", errs[0].Path)
		assert.Contains(t, errs[0].Message, "element 1:")
	})
}

func TestValidate_Unions(t *testing.T) {
	t.Parallel()

	root := Object(F("to", Union(String(), Array(String()))))

	t.Run("Success: first matching option wins", func(t *testing.T) {
		t.Parallel()
		in := cty.ObjectVal(map[string]cty.Value{"to": cty.StringVal("a@x.com")})
		out, errs := Validate(root, in)
		require.Empty(t, errs)
		assert.Equal(t, cty.String, out.GetAttr("to").Type())
	})

	t.Run("Success: array option", func(t *testing.T) {
		t.Parallel()
		in := cty.ObjectVal(map[string]cty.Value{
			"to": cty.TupleVal([]cty.Value{cty.StringVal("a"), cty.StringVal("b")}),
		})
		out, errs := Validate(root, in)
		require.Empty(t, errs)
		assert.Equal(t, 2, out.GetAttr("to").LengthInt())
	})

	t.Run("Failure: no option matches", func(t *testing.T) {
		t.Parallel()
		r := Object(F("n", Union(Number(), Bool())))
		in := cty.ObjectVal(map[string]cty.Value{"n": cty.StringVal("word")})
		_, errs := Validate(r, in)
		require.Len(t, errs, 1)
		assert.Contains(t, errs[0].Message, "expected number or boolean")
	})
}

func TestValidate_Objects(t *testing.T) {
	t.Parallel()

	t.Run("Success: nested errors carry dotted paths", func(t *testing.T) {
		t.Parallel()
		root := Object(
			F("attachment", Object(
				F("filename", String()),
				F("content", String()),
			)),
		)
		in := cty.ObjectVal(map[string]cty.Value{
			"attachment": cty.ObjectVal(map[string]cty.Value{
				"filename": cty.StringVal("a.txt"),
			}),
		})
		_, errs := Validate(root, in)
		require.Len(t, errs, 1)
		assert.Equal(t, "attachment.content", errs[0].Path)
	})

	t.Run("Success: unknown keys are dropped silently", func(t *testing.T) {
		t.Parallel()
		root := Object(F("name", String()))
		in := cty.ObjectVal(map[string]cty.Value{
			"name":    cty.StringVal("x"),
			"unknown": cty.StringVal("dropped"),
		})
		out, errs := Validate(root, in)
		require.Empty(t, errs)
		assert.False(t, out.Type().HasAttribute("unknown"))
	})

	t.Run("Failure: scalar where an object is expected", func(t *testing.T) {
		t.Parallel()
		root := Object(F("attachment", Object(F("filename", String()))))
		in := cty.ObjectVal(map[string]cty.Value{"attachment": cty.StringVal("a.txt")})
		_, errs := Validate(root, in)
		require.Len(t, errs, 1)
		assert.Equal(t, "attachment", errs[0].Path)
		assert.Contains(t, errs[0].Message, "expected object")
	})
}
