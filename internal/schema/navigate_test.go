package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSchema() *Node {
	return Object(
		F("to", Union(String(), Array(String()))),
		F("tags", Array(String())),
		F("subject", Optional(String())),
		F("attachment", Optional(Object(
			F("filename", String()),
			F("content", String()),
		))),
		F("retries", Number()),
	)
}

func TestShapeAt(t *testing.T) {
	t.Parallel()

	root := sampleSchema()

	t.Run("Success: top-level field", func(t *testing.T) {
		t.Parallel()
		n, ok := ShapeAt(root, "retries")
		require.True(t, ok)
		assert.Equal(t, KindNumber, n.Kind)
	})

	t.Run("Success: nested field through an optional object", func(t *testing.T) {
		t.Parallel()
		n, ok := ShapeAt(root, "attachment.filename")
		require.True(t, ok)
		assert.Equal(t, KindString, n.Kind)
	})

	t.Run("Failure: unknown field", func(t *testing.T) {
		t.Parallel()
		_, ok := ShapeAt(root, "nope")
		assert.False(t, ok)
	})

	t.Run("Failure: path through a non-object", func(t *testing.T) {
		t.Parallel()
		_, ok := ShapeAt(root, "retries.deeper")
		assert.False(t, ok)
	})

	t.Run("Failure: nil root or empty path", func(t *testing.T) {
		t.Parallel()
		_, ok := ShapeAt(nil, "x")
		assert.False(t, ok)
		_, ok = ShapeAt(root, "")
		assert.False(t, ok)
	})
}

func TestIsArrayAt(t *testing.T) {
	t.Parallel()

	root := sampleSchema()

	testCases := []struct {
		name string
		path string
		want bool
	}{
		{name: "Plain array field", path: "tags", want: true},
		{name: "Union containing an array member", path: "to", want: true},
		{name: "Scalar field", path: "retries", want: false},
		{name: "Optional scalar", path: "subject", want: false},
		{name: "Unknown path", path: "missing", want: false},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, IsArrayAt(root, tc.path))
		})
	}

	t.Run("Optional array is still an array", func(t *testing.T) {
		t.Parallel()
		r := Object(F("xs", Optional(Array(Number()))))
		assert.True(t, IsArrayAt(r, "xs"))
	})
}
