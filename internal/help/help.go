// Package help flattens command schemas into structured field descriptors
// and renders the plain-text command listings built from them. The
// descriptors are the real product; the text layout is cosmetic.
package help

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/vk/cmdkit/internal/command"
	"github.com/vk/cmdkit/internal/schema"
)

// Field describes one addressable flag of a command schema.
type Field struct {
	Path        string
	Type        string
	Required    bool
	Description string
	Values      []string // enum members, when applicable
}

// Describe flattens an object schema depth-first into one descriptor per
// leaf field path. Optional wrappers and defaults mark a field as not
// required; nested objects contribute their leaves under dotted paths.
func Describe(root *schema.Node) []Field {
	if root == nil {
		return nil
	}
	return describeInto(nil, "", root, true)
}

func describeInto(out []Field, prefix string, n *schema.Node, required bool) []Field {
	if n.Kind == schema.KindOptional {
		return describeInto(out, prefix, n.Inner, false)
	}
	if n.Default != nil {
		required = false
	}

	if n.Kind == schema.KindObject {
		for _, f := range n.Fields {
			path := f.Name
			if prefix != "" {
				path = prefix + "." + f.Name
			}
			out = describeInto(out, path, f.Node, required)
		}
		return out
	}

	// The root object itself has no path; only its fields do.
	if prefix == "" {
		return out
	}

	field := Field{
		Path:        prefix,
		Type:        n.FriendlyName(),
		Required:    required,
		Description: n.Description,
	}
	if n.Kind == schema.KindEnum {
		field.Values = n.Values
	}
	return append(out, field)
}

// WriteGeneral renders the root-level command listing.
func WriteGeneral(w io.Writer, reg *command.Registry) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  <command> [subcommand] [--flag=value ...]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	for _, s := range reg.Roots() {
		fmt.Fprintf(tw, "  %s\t%s\n", s.Name, s.Description)
	}
	tw.Flush()
}

// WriteCommand renders usage for a single command: its description,
// children, flags and examples.
func WriteCommand(w io.Writer, s *command.Spec, reg *command.Registry) {
	if s.Description != "" {
		fmt.Fprintln(w, s.Description)
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "Usage:\n  %s [--flag=value ...]\n", s.Name)

	if len(s.Children) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Subcommands:")
		tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
		for _, name := range s.Children {
			if child, ok := reg.Lookup(name); ok {
				fmt.Fprintf(tw, "  %s\t%s\n", child.Name, child.Description)
			}
		}
		tw.Flush()
	}

	if fields := Describe(s.Schema); len(fields) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Flags:")
		tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
		for _, f := range fields {
			attrs := f.Type
			if f.Required {
				attrs += ", required"
			}
			desc := f.Description
			if len(f.Values) > 0 {
				desc = strings.TrimSpace(desc + " (" + strings.Join(f.Values, "|") + ")")
			}
			fmt.Fprintf(tw, "  --%s\t%s\t%s\n", f.Path, attrs, desc)
		}
		tw.Flush()
	}

	if len(s.Examples) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Examples:")
		for _, ex := range s.Examples {
			fmt.Fprintf(w, "  %s\n", ex)
		}
	}
}
