// Package command defines the command forest: named command specs, the
// registry they are registered into at startup, and the resolver that walks
// a positional prefix down to the most specific matching command.
package command

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/cmdkit/internal/options"
	"github.com/vk/cmdkit/internal/schema"
)

// Handler executes a resolved command with its validated options. The
// returned code becomes the process exit code; a non-nil error is fatal and
// propagates past the dispatcher unmodified.
type Handler func(ctx context.Context, inv *Invocation) (int, error)

// Invocation carries everything a handler needs for one run.
type Invocation struct {
	Command *Spec
	Options *options.Result
	Stdout  io.Writer
	Stderr  io.Writer
}

// Spec describes one command. Children reference other registered commands
// by name, resolved against the registry at lookup time; storing names keeps
// command identity stable and avoids instantiating anything just to compare.
type Spec struct {
	Name        string
	Description string
	Schema      *schema.Node
	Children    []string
	Examples    []string
	Handler     Handler
}

// Registry holds the registered command set for one application instance.
// It is populated at construction time and never mutated afterwards.
type Registry struct {
	specs map[string]*Spec
	order []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{specs: make(map[string]*Spec)}
}

// Register adds a command spec. Registering the same name twice is a
// programming error and panics, matching startup-time population semantics.
func (r *Registry) Register(s *Spec) {
	if _, exists := r.specs[s.Name]; exists {
		panic(fmt.Sprintf("command with name '%s' already registered", s.Name))
	}
	slog.Debug("Registering command.", "name", s.Name)
	r.specs[s.Name] = s
	r.order = append(r.order, s.Name)
}

// Lookup returns the spec registered under a name.
func (r *Registry) Lookup(name string) (*Spec, bool) {
	s, ok := r.specs[name]
	return s, ok
}

// All returns every registered spec in registration order.
func (r *Registry) All() []*Spec {
	out := make([]*Spec, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.specs[name])
	}
	return out
}

// Roots returns the root-level listing: every registered command minus the
// ones reachable as a child of another command. A child command stays
// resolvable by its full path; it is only hidden from this listing.
func (r *Registry) Roots() []*Spec {
	child := make(map[string]bool)
	for _, name := range r.order {
		for _, c := range r.specs[name].Children {
			child[c] = true
		}
	}
	var roots []*Spec
	for _, name := range r.order {
		if !child[name] {
			roots = append(roots, r.specs[name])
		}
	}
	return roots
}
