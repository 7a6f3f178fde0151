package process

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"os/exec"
	"strings"

	"github.com/alessio/shellescape"
	"github.com/hashicorp/go-hclog"
)

// KilledExitCode is reported when the process was terminated by a signal or cancelled.
const KilledExitCode = -1

// Command describes one external process launch.
type Command struct {
	Executable string
	Dir        string
	Args       []string
	Stdin      []byte
}

// String renders the command line with shell quoting, for logs and messages.
func (c Command) String() string {
	return shellescape.QuoteCommand(append([]string{c.Executable}, c.Args...))
}

// Result is the captured outcome of a finished process.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Killed reports whether the process did not exit on its own.
func (r Result) Killed() bool {
	return r.ExitCode == KilledExitCode
}

// Invoker runs external commands synchronously.
// An error is returned only when the process could not be started at all.
type Invoker interface {
	Invoke(ctx context.Context, cmd Command) (Result, error)
}

// InvokerFunc adapts a function to the Invoker interface.
type InvokerFunc func(ctx context.Context, cmd Command) (Result, error)

// Invoke calls f.
func (f InvokerFunc) Invoke(ctx context.Context, cmd Command) (Result, error) {
	return f(ctx, cmd)
}

// Exec is the os/exec backed Invoker.
type Exec struct {
	logger hclog.Logger
	// Env, when set, replaces the inherited environment of launched commands.
	Env []string
	// Echo mirrors tool output into the logger at trace level.
	Echo bool
}

// NewExec creates an Exec invoker logging through logger.
func NewExec(logger hclog.Logger) *Exec {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Exec{logger: logger}
}

// Invoke starts cmd, waits for it to exit and captures both output streams.
func (e *Exec) Invoke(ctx context.Context, cmd Command) (Result, error) {
	var result Result

	c := exec.CommandContext(ctx, cmd.Executable, cmd.Args...)
	c.Dir = cmd.Dir
	if e.Env != nil {
		c.Env = e.Env
	}
	if cmd.Stdin != nil {
		c.Stdin = bytes.NewReader(cmd.Stdin)
	}
	e.logger.Debug("running command", "cmd", cmd.String(), "dir", cmd.Dir)

	var stdout, stderr bytes.Buffer
	if e.Echo {
		echo := e.logger.StandardWriter(&hclog.StandardLoggerOptions{
			InferLevels: true,
			ForceLevel:  hclog.Trace,
		})
		c.Stdout = io.MultiWriter(echo, &stdout)
		c.Stderr = io.MultiWriter(echo, &stderr)
	} else {
		c.Stdout = &stdout
		c.Stderr = &stderr
	}

	err := c.Run()
	result.Stdout = stdout.String()
	result.Stderr = stderr.String()

	if err != nil {
		var exitErr *exec.ExitError
		switch {
		case ctx.Err() != nil:
			result.ExitCode = KilledExitCode
		case errors.As(err, &exitErr):
			result.ExitCode = exitErr.ExitCode()
		default:
			e.logger.Debug("command could not be started", "cmd", cmd.Executable, "error", err)
			return result, err
		}
	}

	e.logger.Debug("command finished", "cmd", cmd.Executable, "exitCode", result.ExitCode,
		"stdoutBytes", len(result.Stdout), "stderrBytes", len(result.Stderr))
	return result, nil
}

// IsNotFound reports whether err means the executable is missing or not runnable.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
		return true
	}
	var execErr *exec.Error
	if errors.As(err, &execErr) {
		return true
	}
	return strings.Contains(err.Error(), "executable file not found")
}

// FirstLine returns the first non-empty line of s, trimmed.
func FirstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}
