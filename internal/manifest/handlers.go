// Package manifest loads declarative command definitions from HCL files:
// command blocks with typed flag declarations are compiled into schema trees
// and registered as commands, with their handlers resolved by name from a
// side registry of compiled Go functions.
package manifest

import (
	"fmt"
	"log/slog"

	"github.com/vk/cmdkit/internal/command"
)

// Handlers maps the handler names used in manifests (e.g. "OnSend") to the
// compiled Go functions that implement them.
type Handlers struct {
	all map[string]command.Handler
}

// NewHandlers creates an empty handler registry.
func NewHandlers() *Handlers {
	return &Handlers{all: make(map[string]command.Handler)}
}

// Register registers a Go function under a manifest handler name.
func (h *Handlers) Register(name string, fn command.Handler) {
	if _, exists := h.all[name]; exists {
		panic(fmt.Sprintf("handler with name '%s' already registered", name))
	}
	slog.Debug("Registering command handler.", "name", name)
	h.all[name] = fn
}

// Lookup returns the handler registered under a name.
func (h *Handlers) Lookup(name string) (command.Handler, bool) {
	fn, ok := h.all[name]
	return fn, ok
}
