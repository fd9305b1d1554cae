// Package dispatch runs one resolve-and-validate cycle: scan the argument
// vector, resolve the command, build validated options and invoke the
// handler. The three recoverable error kinds (no command, command not found,
// validation failure) are handled here and never propagate; anything a
// handler returns as an error is surfaced to the caller unmodified.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/vk/cmdkit/internal/command"
	"github.com/vk/cmdkit/internal/ctxlog"
	"github.com/vk/cmdkit/internal/help"
	"github.com/vk/cmdkit/internal/options"
	"github.com/vk/cmdkit/internal/scan"
)

// Exit codes for the recoverable outcomes. A handler's returned code is
// passed through as-is.
const (
	ExitOK         = 0
	ExitUsageError = 1
)

// Run executes the argument vector against the registry and returns the
// process exit code. A non-nil error is a handler failure and is fatal; the
// exit code accompanying it is ExitUsageError.
func Run(ctx context.Context, reg *command.Registry, argv []string, stdout, stderr io.Writer) (int, error) {
	logger := ctxlog.FromContext(ctx)

	positionals := scan.Positional(argv)
	logger.Debug("Scanned positional prefix.", "tokens", positionals)

	cmd, err := command.Resolve(reg, positionals)
	if err != nil {
		var notFound *command.NotFoundError
		switch {
		case errors.Is(err, command.ErrNoCommand):
			logger.Debug("No command specified, printing general help.")
			help.WriteGeneral(stdout, reg)
			return ExitOK, nil
		case errors.As(err, &notFound):
			logger.Debug("Command not found.", "token", notFound.Token, "path", notFound.Path)
			// Asking for help is not a mistake worth complaining about.
			if !endsInHelp(positionals) {
				fmt.Fprintln(stderr, notFound.Error())
			}
			help.WriteGeneral(stdout, reg)
			return ExitUsageError, nil
		default:
			return ExitUsageError, err
		}
	}
	logger.Debug("Resolved command.", "name", cmd.Name)

	entries := scan.Flags(argv)
	res := options.Build(entries, cmd.Schema)
	if !res.OK {
		logger.Debug("Validation failed.", "violations", len(res.Errors))
		for _, e := range res.Errors {
			fmt.Fprintf(stderr, "  * --%s: %s\n", e.Path, e.Message)
		}
		return ExitUsageError, nil
	}

	if cmd.Handler == nil {
		// A pure group command: show its own usage.
		help.WriteCommand(stdout, cmd, reg)
		return ExitOK, nil
	}

	inv := &command.Invocation{
		Command: cmd,
		Options: &res,
		Stdout:  stdout,
		Stderr:  stderr,
	}
	code, err := cmd.Handler(ctx, inv)
	if err != nil {
		// Handler failures are not ours to interpret.
		return ExitUsageError, err
	}
	return code, nil
}

func endsInHelp(positionals []string) bool {
	return len(positionals) > 0 && positionals[len(positionals)-1] == "help"
}
