// Package parser turns the captured output of a tool run into findings.
package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/scan-io-git/lint-adapters/pkg/lint"
	"github.com/scan-io-git/lint-adapters/pkg/process"
)

// Unknown is substituted for rule identifiers a tool did not report.
const Unknown = "unknown"

// Input is everything a parser may look at for one file.
type Input struct {
	Linter   string
	Path     string
	ExitCode int
	Stdout   string
	Stderr   string
	// Original is the file content; only populated for parsers that need it.
	Original   string
	Classifier *lint.Classifier
	Values     lint.Values
	// Args is the executable followed by the arguments it was invoked with.
	Args []string
}

// Severity classifies code with the input's classifier.
func (in *Input) Severity(code string) lint.Severity {
	return in.Classifier.Classify(code)
}

// SeverityOr classifies code, returning fallback when only the built-in
// default would apply.
func (in *Input) SeverityOr(code string, fallback lint.Severity) lint.Severity {
	return in.Classifier.ClassifyOr(code, fallback)
}

// ParseError wraps err into a *lint.ParseError for this input.
func (in *Input) ParseError(err error) error {
	return &lint.ParseError{Linter: in.Linter, Path: in.Path, Stdout: in.Stdout, Err: err}
}

// InvocationError builds a *lint.InvocationError for this input.
func (in *Input) InvocationError(reason string) error {
	return &lint.InvocationError{
		Linter:   in.Linter,
		Path:     in.Path,
		ExitCode: in.ExitCode,
		Stdout:   in.Stdout,
		Stderr:   in.Stderr,
		Reason:   reason,
	}
}

// Parser converts one tool run into findings.
type Parser interface {
	Parse(in *Input) ([]lint.Finding, error)
}

// ContentParser is implemented by parsers that need Input.Original.
type ContentParser interface {
	Parser
	NeedsContent() bool
}

// Func adapts a function to Parser.
type Func func(in *Input) ([]lint.Finding, error)

// Parse calls f.
func (f Func) Parse(in *Input) ([]lint.Finding, error) {
	return f(in)
}

// ContentFunc is a Func that also receives the file content.
type ContentFunc func(in *Input) ([]lint.Finding, error)

// Parse calls f.
func (f ContentFunc) Parse(in *Input) ([]lint.Finding, error) {
	return f(in)
}

// NeedsContent implements ContentParser.
func (ContentFunc) NeedsContent() bool {
	return true
}

// NeedsContent reports whether p must be given the file content.
func NeedsContent(p Parser) bool {
	cp, ok := p.(ContentParser)
	return ok && cp.NeedsContent()
}

// Run applies policy to the exit status in in and, when the outcome calls for
// it, delegates to p. Parse failures are always returned as *lint.ParseError.
func Run(policy ExitPolicy, p Parser, in *Input) ([]lint.Finding, error) {
	if in.ExitCode == process.KilledExitCode {
		return nil, in.InvocationError("process was killed")
	}
	stderr := strings.TrimSpace(in.Stderr)
	if policy.StderrFatal && stderr != "" {
		return nil, in.InvocationError("tool reported errors on stderr")
	}

	switch policy.Outcome(in.ExitCode) {
	case Clean:
		return nil, nil
	case FatalOnStderr:
		if stderr != "" {
			return nil, in.InvocationError("tool reported errors on stderr")
		}
		return nil, nil
	case Fatal:
		return nil, in.InvocationError(Or(policy.Reasons[in.ExitCode], "unexpected exit code"))
	}

	findings, err := p.Parse(in)
	if err != nil {
		var parseErr *lint.ParseError
		var invErr *lint.InvocationError
		if errors.As(err, &parseErr) || errors.As(err, &invErr) {
			return nil, err
		}
		return nil, in.ParseError(err)
	}
	if policy.Outcome(in.ExitCode) == ParseOrFatalOnStderr && len(findings) == 0 && in.ExitCode != 0 && stderr != "" {
		return nil, in.InvocationError(Or(policy.Reasons[in.ExitCode], "tool failed without reporting findings"))
	}
	return findings, nil
}

// Outcome is what an exit code means for a tool.
type Outcome int

const (
	// Fatal means the tool failed; the run yields an InvocationError.
	Fatal Outcome = iota
	// Parse means the output carries the result and must be parsed.
	Parse
	// Clean means there is nothing to report and output is not read.
	Clean
	// FatalOnStderr is fatal when stderr is non-empty and clean otherwise.
	FatalOnStderr
	// ParseOrFatalOnStderr parses the output, but a non-zero exit with
	// stderr and no findings is fatal.
	ParseOrFatalOnStderr
)

func (o Outcome) String() string {
	switch o {
	case Fatal:
		return "fatal"
	case Parse:
		return "parse"
	case Clean:
		return "clean"
	case FatalOnStderr:
		return "fatal-on-stderr"
	case ParseOrFatalOnStderr:
		return "parse-or-fatal-on-stderr"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// ExitPolicy maps exit codes to outcomes. Unlisted codes map to Otherwise.
type ExitPolicy struct {
	Codes     map[int]Outcome
	Otherwise Outcome
	// StderrFatal makes any non-empty stderr fatal, whatever the exit code.
	StderrFatal bool
	// Reasons describe what a fatal exit code means for the tool.
	Reasons map[int]string
}

// DefaultExitPolicy is used by tools that do not expect command errors:
// exit 0 is parsed and everything else is fatal.
func DefaultExitPolicy() ExitPolicy {
	return ExitPolicy{Codes: map[int]Outcome{0: Parse}, Otherwise: Fatal}
}

// ExpectErrors parses output whatever the exit code.
func ExpectErrors() ExitPolicy {
	return ExitPolicy{Otherwise: Parse}
}

// ExpectErrorsOnStdout is ExpectErrors for tools whose report is matched line
// by line: a failing run that only wrote to stderr is fatal rather than clean.
func ExpectErrorsOnStdout() ExitPolicy {
	return ExitPolicy{Otherwise: ParseOrFatalOnStderr}
}

// Outcome returns the outcome for code.
func (p ExitPolicy) Outcome(code int) Outcome {
	if code == process.KilledExitCode {
		return Fatal
	}
	if o, ok := p.Codes[code]; ok {
		return o
	}
	return p.Otherwise
}

// Or returns s, or fallback when s is blank.
func Or(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

// Stream selects which captured output a parser reads.
type Stream int

const (
	Stdout Stream = iota
	Stderr
	// Combined is stdout followed by stderr.
	Combined
)

func (s Stream) read(in *Input) string {
	switch s {
	case Stderr:
		return in.Stderr
	case Combined:
		if in.Stdout == "" {
			return in.Stderr
		}
		return in.Stdout + "\n" + in.Stderr
	}
	return in.Stdout
}

func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}
