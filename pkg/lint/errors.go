package lint

import (
	"errors"
	"fmt"
	"strings"
)

// maxOutputExcerpt bounds how much tool output is embedded in an error message.
const maxOutputExcerpt = 4096

// ErrUnknownOption is wrapped by OptionError when no schema fragment declares a key.
var ErrUnknownOption = errors.New("unknown configuration option")

// OptionError is a configuration error raised before any linting begins.
type OptionError struct {
	Linter string
	Key    string
	Err    error
}

func (e *OptionError) Error() string {
	return fmt.Sprintf("linter %q: option %q: %v", e.Linter, e.Key, e.Err)
}

func (e *OptionError) Unwrap() error {
	return e.Err
}

// NewOptionError creates an OptionError.
func NewOptionError(linter, key string, err error) *OptionError {
	return &OptionError{Linter: linter, Key: key, Err: err}
}

// MissingBinaryError reports that the resolved executable could not be started.
type MissingBinaryError struct {
	Linter       string
	Binary       string
	Instructions string
	Err          error
}

func (e *MissingBinaryError) Error() string {
	msg := fmt.Sprintf("linter %q: unable to run %q: %v", e.Linter, e.Binary, e.Err)
	if e.Instructions != "" {
		msg += "\n" + e.Instructions
	}
	return msg
}

func (e *MissingBinaryError) Unwrap() error {
	return e.Err
}

// InvocationError reports an unexpected exit code or fatal stderr for one file.
type InvocationError struct {
	Linter   string
	Path     string
	ExitCode int
	Stdout   string
	Stderr   string
	Reason   string
}

func (e *InvocationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "linter %q failed on %s (exit code %d)", e.Linter, e.Path, e.ExitCode)
	if e.Reason != "" {
		fmt.Fprintf(&b, ": %s", e.Reason)
	}
	if s := strings.TrimSpace(e.Stderr); s != "" {
		fmt.Fprintf(&b, "\nstderr:\n%s", Excerpt(s))
	}
	if s := strings.TrimSpace(e.Stdout); s != "" {
		fmt.Fprintf(&b, "\nstdout:\n%s", Excerpt(s))
	}
	return b.String()
}

// ParseError reports tool output that could not be interpreted as the expected structure.
type ParseError struct {
	Linter string
	Path   string
	Stdout string
	Err    error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("linter %q: unable to parse output for %s: %v", e.Linter, e.Path, e.Err)
	if s := strings.TrimSpace(e.Stdout); s != "" {
		msg += "\noutput:\n" + Excerpt(s)
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// OutdatedError reports that the installed tool does not satisfy the configured version requirement.
type OutdatedError struct {
	Linter       string
	Found        string
	Required     string
	Instructions string
}

func (e *OutdatedError) Error() string {
	found := e.Found
	if found == "" {
		found = "an unknown version"
	}
	msg := fmt.Sprintf("linter %q requires version %s but %s is installed", e.Linter, e.Required, found)
	if e.Instructions != "" {
		msg += "\n" + e.Instructions
	}
	return msg
}

// IsFatal reports whether err is a per-file failure (as opposed to a skipped adapter).
func IsFatal(err error) bool {
	var invocation *InvocationError
	var parse *ParseError
	return errors.As(err, &invocation) || errors.As(err, &parse)
}

// Excerpt truncates long tool output for inclusion in error messages.
func Excerpt(s string) string {
	if len(s) <= maxOutputExcerpt {
		return s
	}
	return s[:maxOutputExcerpt] + "\n... (truncated)"
}
