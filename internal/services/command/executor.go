package command

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
)

// stderrTailLines bounds how much tool output is retained for diagnostics.
const stderrTailLines = 20

// Result describes a finished process.
type Result struct {
	ExitCode int
	// Tail holds the last lines the tool printed.
	Tail []string
}

// Executor abstracts command execution for testability. Run returns an
// error only when the process could not be started, its output could not be
// read, or ctx ended first; a non-zero exit is reported through
// Result.ExitCode. Either callback may be nil.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, onStdout, onStderr func(string)) (Result, error)
}

// NewExecutor returns the os/exec backed Executor.
func NewExecutor() Executor {
	return commandExecutor{}
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string, onStdout, onStderr func(string)) (Result, error) {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return Result{}, fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return Result{}, fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return Result{}, fmt.Errorf("start command: %w", err)
	}

	tail := newTailBuffer(stderrTailLines)
	var wg sync.WaitGroup
	var scanErr error
	var once sync.Once

	scan := func(r io.Reader, onLine func(string)) {
		defer wg.Done()
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		scanner.Split(scanLinesOrCR)
		for scanner.Scan() {
			line := scanner.Text()
			tail.add(line)
			if onLine != nil {
				onLine(line)
			}
		}
		if err := scanner.Err(); err != nil {
			once.Do(func() { scanErr = err })
		}
	}

	wg.Add(2)
	go scan(stdout, onStdout)
	go scan(stderr, onStderr)
	wg.Wait()

	if scanErr != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return Result{ExitCode: -1, Tail: tail.lines()}, fmt.Errorf("scan output: %w", scanErr)
	}

	waitErr := cmd.Wait()
	result := Result{Tail: tail.lines()}
	if waitErr == nil {
		return result, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		result.ExitCode = -1
		return result, ctxErr
	}
	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	}
	return result, fmt.Errorf("wait command: %w", waitErr)
}

// scanLinesOrCR splits on \n or \r so progress lines rewritten in place by
// ffmpeg arrive one update at a time.
func scanLinesOrCR(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	for i, b := range data {
		if b == '\n' || b == '\r' {
			return i + 1, data[:i], nil
		}
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

type tailBuffer struct {
	mu    sync.Mutex
	max   int
	items []string
}

func newTailBuffer(max int) *tailBuffer {
	return &tailBuffer{max: max}
}

func (t *tailBuffer) add(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.items = append(t.items, line)
	if len(t.items) > t.max {
		t.items = t.items[len(t.items)-t.max:]
	}
}

func (t *tailBuffer) lines() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.items...)
}
