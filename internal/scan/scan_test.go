package scan

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/cmdkit/internal/interp"
	"github.com/zclconf/go-cty/cty"
)

func TestPositional(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		tokens []string
		want   []string
	}{
		{name: "Stops at first flag", tokens: []string{"send", "batch", "--to=x", "extra"}, want: []string{"send", "batch"}},
		{name: "All positional", tokens: []string{"config", "get"}, want: []string{"config", "get"}},
		{name: "Flag first means empty prefix", tokens: []string{"--verbose", "send"}, want: []string{}},
		{name: "Empty input", tokens: nil, want: nil},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := Positional(tc.tokens)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("unexpected positional prefix (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFlags(t *testing.T) {
	t.Parallel()

	t.Run("Success: positional tokens are ignored", func(t *testing.T) {
		t.Parallel()
		entries := Flags([]string{"send", "--to=x", "trailing"})
		require.Len(t, entries, 1)
		assert.Equal(t, "to", entries[0].Key)
	})

	t.Run("Success: bare flag is boolean true", func(t *testing.T) {
		t.Parallel()
		entries := Flags([]string{"--verbose"})
		require.Len(t, entries, 1)
		assert.Equal(t, "verbose", entries[0].Key)
		assert.True(t, entries[0].Value.RawEquals(cty.True))
		assert.Equal(t, interp.KindPrimitive, entries[0].Kind)
		assert.Equal(t, "", entries[0].Raw)
	})

	t.Run("Success: single and double hyphens are equivalent", func(t *testing.T) {
		t.Parallel()
		one := Flags([]string{"-to=x"})
		two := Flags([]string{"--to=x"})
		require.Len(t, one, 1)
		require.Len(t, two, 1)
		assert.Equal(t, one[0].Key, two[0].Key)
		assert.True(t, one[0].Value.RawEquals(two[0].Value))
	})

	t.Run("Success: split on first '=' only", func(t *testing.T) {
		t.Parallel()
		entries := Flags([]string{"--expr=a=b"})
		require.Len(t, entries, 1)
		assert.Equal(t, "expr", entries[0].Key)
		assert.Equal(t, "a=b", entries[0].Raw)
	})

	t.Run("Success: dotted key is preserved verbatim", func(t *testing.T) {
		t.Parallel()
		entries := Flags([]string{"--user.address.city=berlin"})
		require.Len(t, entries, 1)
		assert.Equal(t, "user.address.city", entries[0].Key)
	})

	t.Run("Success: flags after positionals still count", func(t *testing.T) {
		t.Parallel()
		entries := Flags([]string{"--a=1", "middle", "--b=2"})
		require.Len(t, entries, 2)
		assert.Equal(t, "a", entries[0].Key)
		assert.Equal(t, "b", entries[1].Key)
	})

	t.Run("Failure: empty key is skipped", func(t *testing.T) {
		t.Parallel()
		entries := Flags([]string{"--=5", "--"})
		assert.Empty(t, entries)
	})

	t.Run("Success: original token is carried", func(t *testing.T) {
		t.Parallel()
		entries := Flags([]string{"--to=a,b"})
		require.Len(t, entries, 1)
		assert.Equal(t, "--to=a,b", entries[0].Original)
		assert.Equal(t, interp.KindArray, entries[0].Kind)
	})
}
