package manifest

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/cmdkit/internal/command"
	"github.com/vk/cmdkit/internal/ctxlog"
	"github.com/vk/cmdkit/internal/schema"
	"github.com/zclconf/go-cty/cty"
)

// flagBlock is a single `flag "name" { ... }` block inside a command.
type flagBlock struct {
	Name        string         `hcl:"name,label"`
	Type        hcl.Expression `hcl:"type"`
	Description string         `hcl:"description,optional"`
	Required    bool           `hcl:"required,optional"`
	Default     *cty.Value     `hcl:"default,optional"`
}

// commandBlock is a `command "name" { ... }` block.
type commandBlock struct {
	Name        string       `hcl:"name,label"`
	Description string       `hcl:"description,optional"`
	Handler     string       `hcl:"handler,optional"`
	Children    []string     `hcl:"children,optional"`
	Examples    []string     `hcl:"example,optional"`
	Flags       []*flagBlock `hcl:"flag,block"`
}

// manifestFile is the top-level structure of one manifest file.
type manifestFile struct {
	Commands []*commandBlock `hcl:"command,block"`
}

// Loader parses command manifests and registers the resulting specs. After
// all files are loaded, Validate performs a parity check between manifests
// and Go code: every named handler must resolve, and every child reference
// must name a registered command.
type Loader struct {
	reg      *command.Registry
	handlers *Handlers
	parser   *hclparse.Parser

	loaded       []string          // command names in load order
	handlerNames map[string]string // command name -> manifest handler name
}

// NewLoader creates a loader registering into the given registry.
func NewLoader(reg *command.Registry, handlers *Handlers) *Loader {
	return &Loader{
		reg:          reg,
		handlers:     handlers,
		parser:       hclparse.NewParser(),
		handlerNames: make(map[string]string),
	}
}

// LoadDir loads every .hcl file found recursively under dir.
func (l *Loader) LoadDir(ctx context.Context, dir string) error {
	logger := ctxlog.FromContext(ctx)

	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".hcl") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to walk manifest directory %s: %w", dir, err)
	}

	if len(files) == 0 {
		logger.Warn("No .hcl manifest files found in path.", "path", dir)
		return nil
	}
	logger.Debug("Found manifest files to load.", "files", files)

	for _, path := range files {
		if err := l.LoadFile(ctx, path); err != nil {
			return err
		}
	}
	return nil
}

// LoadFile loads one manifest file.
func (l *Loader) LoadFile(ctx context.Context, path string) error {
	hclFile, diags := l.parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return fmt.Errorf("failed to parse manifest file %s: %w", path, diags)
	}
	return l.loadBody(ctx, path, hclFile)
}

// LoadSource loads a manifest from an in-memory source, named for
// diagnostics. Used mostly by tests.
func (l *Loader) LoadSource(ctx context.Context, filename string, src []byte) error {
	hclFile, diags := l.parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return fmt.Errorf("failed to parse manifest %s: %w", filename, diags)
	}
	return l.loadBody(ctx, filename, hclFile)
}

func (l *Loader) loadBody(ctx context.Context, name string, file *hcl.File) error {
	logger := ctxlog.FromContext(ctx)

	var mf manifestFile
	if diags := gohcl.DecodeBody(file.Body, nil, &mf); diags.HasErrors() {
		return fmt.Errorf("failed to decode manifest %s: %w", name, diags)
	}

	for _, cb := range mf.Commands {
		spec, err := l.buildSpec(cb)
		if err != nil {
			return fmt.Errorf("in manifest %s, command %q: %w", name, cb.Name, err)
		}
		l.reg.Register(spec)
		l.loaded = append(l.loaded, spec.Name)
		if cb.Handler != "" {
			l.handlerNames[spec.Name] = cb.Handler
		}
		logger.Debug("Loaded command from manifest.", "command", spec.Name, "file", name)
	}
	return nil
}

func (l *Loader) buildSpec(cb *commandBlock) (*command.Spec, error) {
	fields := make([]schema.Field, 0, len(cb.Flags))
	for _, fb := range cb.Flags {
		node, err := typeExpr(fb.Type)
		if err != nil {
			return nil, fmt.Errorf("flag %q: %w", fb.Name, err)
		}
		node.Description = fb.Description
		if fb.Default != nil {
			node.WithDefault(*fb.Default)
		}
		if !fb.Required && node.Kind != schema.KindOptional {
			node = schema.Optional(node)
		}
		fields = append(fields, schema.F(fb.Name, node))
	}

	return &command.Spec{
		Name:        cb.Name,
		Description: cb.Description,
		Schema:      schema.Object(fields...),
		Children:    cb.Children,
		Examples:    cb.Examples,
	}, nil
}

// Validate performs the strict parity check between loaded manifests and the
// Go side, then wires handlers onto their specs. It reports every problem,
// not just the first.
func (l *Loader) Validate(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	var errs []string

	for _, name := range l.loaded {
		spec, ok := l.reg.Lookup(name)
		if !ok {
			continue
		}
		if hname, declared := l.handlerNames[name]; declared {
			fn, found := l.handlers.Lookup(hname)
			if !found {
				errs = append(errs, fmt.Sprintf("command '%s': manifest names handler '%s', but no such Go handler is registered", name, hname))
			} else {
				spec.Handler = fn
			}
		}
		for _, child := range spec.Children {
			if _, found := l.reg.Lookup(child); !found {
				errs = append(errs, fmt.Sprintf("command '%s': child '%s' is not a registered command", name, child))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("manifest validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	logger.Debug("Manifest validation complete.", "commands_loaded", len(l.loaded))
	return nil
}
