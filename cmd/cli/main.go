// Command cli is a small notification CLI ("notify") built on the toolkit:
// commands are registered in Go and optionally extended from HCL manifests,
// then every invocation runs through the scan/resolve/validate/dispatch
// pipeline.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/vk/cmdkit/internal/command"
	"github.com/vk/cmdkit/internal/ctxlog"
	"github.com/vk/cmdkit/internal/dispatch"
	"github.com/vk/cmdkit/internal/manifest"
	"github.com/vk/cmdkit/internal/schema"
	"github.com/zclconf/go-cty/cty"
)

// main is the entrypoint for the notify binary.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	code, err := run(context.Background(), os.Stdout, os.Stderr, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		if code == 0 {
			code = 1
		}
	}
	os.Exit(code)
}

// globalConfig holds the process-level flags peeled off before dispatch.
type globalConfig struct {
	logLevel  string
	logFormat string
	manifests string
}

// run encapsulates the main application logic for easier testing and error
// handling.
func run(ctx context.Context, stdout, stderr io.Writer, args []string) (int, error) {
	global, rest, err := splitGlobal(args)
	if err != nil {
		return 2, err
	}

	logger, err := newLogger(stderr, global)
	if err != nil {
		return 2, err
	}
	slog.SetDefault(logger)
	ctx = ctxlog.WithLogger(ctx, logger)

	reg := command.NewRegistry()
	handlers := manifest.NewHandlers()
	registerCommands(reg, handlers)

	if global.manifests != "" {
		loader := manifest.NewLoader(reg, handlers)
		if err := loader.LoadDir(ctx, global.manifests); err != nil {
			return 2, err
		}
		if err := loader.Validate(ctx); err != nil {
			return 2, err
		}
	}

	return dispatch.Run(ctx, reg, rest, stdout, stderr)
}

// splitGlobal peels the process-level flags (--log-level, --log-format,
// --manifests) out of the argument vector so they never reach command
// schemas. Everything else passes through untouched, in order.
func splitGlobal(args []string) (globalConfig, []string, error) {
	global := globalConfig{logLevel: "info", logFormat: "text"}
	rest := make([]string, 0, len(args))

	for _, tok := range args {
		body := strings.TrimPrefix(strings.TrimPrefix(tok, "-"), "-")
		key, val, found := strings.Cut(body, "=")
		if !strings.HasPrefix(tok, "-") || !found {
			rest = append(rest, tok)
			continue
		}
		switch key {
		case "log-level":
			global.logLevel = strings.ToLower(val)
		case "log-format":
			global.logFormat = strings.ToLower(val)
		case "manifests":
			global.manifests = val
		default:
			rest = append(rest, tok)
		}
	}

	switch global.logFormat {
	case "text", "json":
	default:
		return global, nil, fmt.Errorf("invalid log-format: must be 'text' or 'json'")
	}
	return global, rest, nil
}

func newLogger(w io.Writer, global globalConfig) (*slog.Logger, error) {
	var level slog.Level
	switch global.logLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return nil, fmt.Errorf("invalid log-level: must be 'debug', 'info', 'warn', or 'error'")
	}

	opts := &slog.HandlerOptions{Level: level}
	if global.logFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

// registerCommands wires the built-in command set. The same handlers are
// also registered by name so HCL manifests can reference them.
func registerCommands(reg *command.Registry, handlers *manifest.Handlers) {
	handlers.Register("OnSend", onSend)
	handlers.Register("OnConfigGet", onConfigGet)
	handlers.Register("OnConfigSet", onConfigSet)

	reg.Register(&command.Spec{
		Name:        "send",
		Description: "Deliver a message to one or more recipients.",
		Schema: schema.Object(
			schema.F("to", schema.Union(schema.String(), schema.Array(schema.String())).
				Describe("Recipient address; repeat the flag for multiple recipients.")),
			schema.F("subject", schema.Optional(schema.String().
				Describe("Message subject line."))),
			schema.F("body", schema.Optional(schema.String().
				Describe("Message body text."))),
			schema.F("priority", schema.Optional(schema.Enum("low", "normal", "high").
				WithDefault(cty.StringVal("normal")).
				Describe("Delivery priority."))),
			schema.F("verbose", schema.Optional(schema.Bool().
				Describe("Print the full delivery report."))),
			schema.F("attachment", schema.Optional(schema.Object(
				schema.F("filename", schema.String()),
				schema.F("content", schema.String()),
			).Describe("Inline attachment, e.g. --attachment=filename=a.txt,content=hello."))),
		),
		Examples: []string{
			"notify send --to=ops@example.com --subject=hi --body=hello",
			"notify send --to=a@x.com --to=b@x.com --priority=high",
		},
		Handler: onSend,
	})

	reg.Register(&command.Spec{
		Name:        "config",
		Description: "Inspect and change client configuration.",
		Children:    []string{"get", "set"},
	})
	reg.Register(&command.Spec{
		Name:        "get",
		Description: "Print a configuration value.",
		Schema: schema.Object(
			schema.F("key", schema.String().Describe("Configuration key to read.")),
		),
		Handler: onConfigGet,
	})
	reg.Register(&command.Spec{
		Name:        "set",
		Description: "Change a configuration value.",
		Schema: schema.Object(
			schema.F("key", schema.String().Describe("Configuration key to write.")),
			schema.F("value", schema.Union(schema.String(), schema.Number(), schema.Bool()).
				Describe("New value.")),
		),
		Handler: onConfigSet,
	})
}

type sendOptions struct {
	To         any    `cli:"to"`
	Subject    string `cli:"subject"`
	Body       string `cli:"body"`
	Priority   string `cli:"priority"`
	Verbose    bool   `cli:"verbose"`
	Attachment struct {
		Filename string `cli:"filename"`
		Content  string `cli:"content"`
	} `cli:"attachment"`
}

func onSend(ctx context.Context, inv *command.Invocation) (int, error) {
	logger := ctxlog.FromContext(ctx)

	var opts sendOptions
	if err := inv.Options.Decode(&opts); err != nil {
		return 1, fmt.Errorf("failed to decode send options: %w", err)
	}

	recipients := normalizeRecipients(opts.To)
	logger.Debug("Dispatching message.", "recipients", recipients, "priority", opts.Priority)

	fmt.Fprintf(inv.Stdout, "sent to %s (priority %s)\n", strings.Join(recipients, ", "), opts.Priority)
	if opts.Verbose {
		fmt.Fprintf(inv.Stdout, "  subject: %s\n", opts.Subject)
		if opts.Attachment.Filename != "" {
			fmt.Fprintf(inv.Stdout, "  attachment: %s (%d bytes)\n",
				opts.Attachment.Filename, len(opts.Attachment.Content))
		}
	}
	return 0, nil
}

// normalizeRecipients accepts the two shapes the "to" union admits.
func normalizeRecipients(to any) []string {
	switch v := to.(type) {
	case string:
		return []string{v}
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			out = append(out, fmt.Sprint(e))
		}
		return out
	default:
		return nil
	}
}

func onConfigGet(ctx context.Context, inv *command.Invocation) (int, error) {
	opts, err := inv.Options.Native()
	if err != nil {
		return 1, err
	}
	fmt.Fprintf(inv.Stdout, "%s = (unset)\n", opts["key"])
	return 0, nil
}

func onConfigSet(ctx context.Context, inv *command.Invocation) (int, error) {
	opts, err := inv.Options.Native()
	if err != nil {
		return 1, err
	}
	fmt.Fprintf(inv.Stdout, "%s = %v\n", opts["key"], opts["value"])
	return 0, nil
}
