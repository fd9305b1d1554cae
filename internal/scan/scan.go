// Package scan splits a raw argument vector into its positional prefix and
// flag entries. Tokens are opaque strings; a token starting with '-' is a
// flag, everything else is positional.
package scan

import (
	"strings"

	"github.com/vk/cmdkit/internal/interp"
	"github.com/zclconf/go-cty/cty"
)

// Entry is one parsed flag occurrence. Key is the dotted field path, Value
// the interpreted value, Raw the raw value text after '=' (empty for bare
// flags), and Original the complete source token.
type Entry struct {
	Key      string
	Value    cty.Value
	Kind     interp.Kind
	Raw      string
	Original string
}

// IsFlag reports whether a token is a flag token.
func IsFlag(tok string) bool {
	return strings.HasPrefix(tok, "-")
}

// Positional returns the maximal leading run of positional tokens, stopping
// at the first flag token or the end of input.
func Positional(tokens []string) []string {
	for i, tok := range tokens {
		if IsFlag(tok) {
			return tokens[:i]
		}
	}
	return tokens
}

// Flags extracts an entry from every flag token, independent of position.
// One or two leading hyphens are stripped; a token without '=' is a boolean
// flag, otherwise the token is split on the first '=' only, so values may
// themselves contain '='.
func Flags(tokens []string) []Entry {
	var entries []Entry
	for _, tok := range tokens {
		if !IsFlag(tok) {
			continue
		}
		body := strings.TrimPrefix(tok, "-")
		body = strings.TrimPrefix(body, "-")

		key, raw, found := strings.Cut(body, "=")
		if key == "" {
			continue
		}
		if !found {
			entries = append(entries, Entry{
				Key:      key,
				Value:    cty.True,
				Kind:     interp.KindPrimitive,
				Original: tok,
			})
			continue
		}
		val, kind := interp.Interpret(raw)
		entries = append(entries, Entry{
			Key:      key,
			Value:    val,
			Kind:     kind,
			Raw:      raw,
			Original: tok,
		})
	}
	return entries
}
