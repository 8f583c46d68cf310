// Package shell provides the shell action adapter: it turns a task's bound
// argv into a process invocation.
package shell

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/droverbuild/drover/internal/core/domain"
	"github.com/droverbuild/drover/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Executor = (*Executor)(nil)

// Executor implements ports.Executor using os/exec. The toolchain-specific
// knowledge stays in the manifest's command lines; the executor only expands
// placeholders and runs the result.
type Executor struct {
	logger ports.Logger
}

// NewExecutor creates an Executor.
func NewExecutor(logger ports.Logger) *Executor {
	return &Executor{logger: logger}
}

// Execute runs the task's bound command. Placeholders in the argv expand per
// argument: {output} to the primary output, {outputs} and {inputs} to one
// argument per path (preserving input declaration order), {options} to one
// argument per option. A task with no bound command completes trivially,
// which is how pure grouping targets behave.
func (e *Executor) Execute(ctx context.Context, task *domain.Task) error {
	if len(task.Command) == 0 {
		return nil
	}

	argv := expand(task)
	if err := makeOutputDirs(task.OutputPaths()); err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...) //nolint:gosec // manifest-provided command
	cmd.Stdout, cmd.Stderr = e.streams(ctx)

	if err := cmd.Run(); err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		cmdErr := zerr.With(zerr.Wrap(err, "command failed"), "exit_code", exitCode)
		return zerr.With(cmdErr, "command", strings.Join(argv, " "))
	}
	return nil
}

// streams picks the task's telemetry vertex writers when present, falling
// back to line-splitting log writers.
func (e *Executor) streams(ctx context.Context) (io.Writer, io.Writer) {
	if v, ok := ports.VertexFromContext(ctx); ok {
		return v.Stdout(), v.Stderr()
	}
	return &logWriter{logger: e.logger, level: "info"},
		&logWriter{logger: e.logger, level: "error"}
}

func expand(task *domain.Task) []string {
	argv := make([]string, 0, len(task.Command))
	for _, arg := range task.Command {
		switch arg {
		case "{output}":
			argv = append(argv, task.Name().String())
		case "{outputs}":
			argv = append(argv, task.OutputPaths()...)
		case "{inputs}":
			argv = append(argv, task.InputPaths()...)
		case "{options}":
			argv = append(argv, task.Options...)
		default:
			argv = append(argv, arg)
		}
	}
	return argv
}

func makeOutputDirs(outputs []string) error {
	for _, output := range outputs {
		dir := filepath.Dir(output)
		if dir == "." {
			continue
		}
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to create output directory"), "path", dir)
		}
	}
	return nil
}

type logWriter struct {
	logger ports.Logger
	level  string
}

func (w *logWriter) Write(p []byte) (int, error) {
	for line := range strings.SplitSeq(strings.TrimSuffix(string(p), "\n"), "\n") {
		if w.level == "info" {
			w.logger.Info(line)
		} else {
			w.logger.Error(zerr.New(line))
		}
	}
	return len(p), nil
}
