// Package testutil provides a small in-process harness for exercising a
// full argument-vector run against a registry, capturing output and exit
// code the way the real binary would see them.
package testutil

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/vk/cmdkit/internal/command"
	"github.com/vk/cmdkit/internal/ctxlog"
	"github.com/vk/cmdkit/internal/dispatch"
)

// RunResult captures everything one dispatch run produced.
type RunResult struct {
	Stdout string
	Stderr string
	Code   int
	Err    error
}

// Run dispatches argv against the registry with a quiet logger and captured
// output streams.
func Run(t *testing.T, reg *command.Registry, argv ...string) RunResult {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := ctxlog.WithLogger(context.Background(), logger)

	var stdout, stderr bytes.Buffer
	code, err := dispatch.Run(ctx, reg, argv, &stdout, &stderr)
	return RunResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
		Code:   code,
		Err:    err,
	}
}
