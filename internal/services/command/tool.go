package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"albumpress/internal/logging"
	"albumpress/internal/services"
)

// Tool invokes one external executable on behalf of a pipeline step.
type Tool struct {
	name   string
	binary string
	exec   Executor
	logger *slog.Logger
	echo   io.Writer
	echoMu *sync.Mutex
}

// ToolOption configures a Tool.
type ToolOption func(*Tool)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) ToolOption {
	return func(t *Tool) {
		if exec != nil {
			t.exec = exec
		}
	}
}

// WithLogger sets the logger used for command lines and exit warnings.
func WithLogger(logger *slog.Logger) ToolOption {
	return func(t *Tool) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithEcho streams every output line of the tool to w.
func WithEcho(w io.Writer) ToolOption {
	return func(t *Tool) {
		t.echo = w
	}
}

// NewTool constructs a Tool for binary. The name labels logs and errors.
func NewTool(name, binary string, opts ...ToolOption) (*Tool, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, services.Wrap(services.ErrConfiguration, name, "init", "binary required", nil)
	}
	t := &Tool{
		name:   name,
		binary: binary,
		exec:   NewExecutor(),
		logger: logging.NewNop(),
		echoMu: &sync.Mutex{},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Run executes the tool and waits for it to exit. A non-zero exit is logged
// and returned in the result without an error; only start failures, output
// read failures, and cancellation produce errors.
func (t *Tool) Run(ctx context.Context, args []string) (Result, error) {
	return t.run(ctx, args, nil)
}

// Output runs the tool like Run and also returns everything it printed on
// stdout, one entry per line.
func (t *Tool) Output(ctx context.Context, args []string) (Result, []string, error) {
	var mu sync.Mutex
	var lines []string
	result, err := t.run(ctx, args, func(line string) {
		mu.Lock()
		defer mu.Unlock()
		lines = append(lines, line)
	})
	return result, lines, err
}

func (t *Tool) run(ctx context.Context, args []string, collect func(string)) (Result, error) {
	logger := logging.WithContext(ctx, t.logger)
	logger.Debug("running tool",
		logging.String("tool", t.name),
		logging.String("command", Format(t.binary, args)),
	)

	echo := t.echoLine()
	onStdout := func(line string) {
		if collect != nil {
			collect(line)
		}
		if echo != nil {
			echo(line)
		}
	}

	result, err := t.exec.Run(ctx, t.binary, args, onStdout, echo)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return result, services.Wrap(services.ErrTransient, t.name, "run", "interrupted", err)
		}
		return result, services.Wrap(services.ErrExternalTool, t.name, "start", Format(t.binary, args), err)
	}
	if result.ExitCode != 0 {
		attrs := []logging.Attr{
			logging.String("tool", t.name),
			logging.Int("exit_code", result.ExitCode),
			logging.String(logging.FieldImpact, "output may be missing or incomplete"),
			logging.String(logging.FieldErrorHint, "rerun with --vvv to see tool output"),
		}
		if len(result.Tail) > 0 {
			attrs = append(attrs, logging.String("output_tail", result.Tail[len(result.Tail)-1]))
		}
		logging.WarnWithContext(logger, "tool exited with non-zero status", "tool_exit_nonzero", attrs...)
	}
	return result, nil
}

func (t *Tool) echoLine() func(string) {
	if t.echo == nil {
		return nil
	}
	prefix := "[" + t.name + "] "
	return func(line string) {
		t.echoMu.Lock()
		defer t.echoMu.Unlock()
		fmt.Fprintln(t.echo, prefix+line)
	}
}
