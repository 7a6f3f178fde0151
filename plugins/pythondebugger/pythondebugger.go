// Package pythondebugger hunts for stray python debugger breakpoints.
package pythondebugger

import (
	"regexp"
	"strings"

	"github.com/scan-io-git/lint-adapters/pkg/adapter"
	"github.com/scan-io-git/lint-adapters/pkg/lint"
	"github.com/scan-io-git/lint-adapters/pkg/parser"
)

const (
	Name = "python-debugger"
	Code = "PYTHON-DEBUGGER1"
)

// breakpoint needs match offsets, which the deferred regex wrapper does not expose.
var breakpoint = regexp.MustCompile(`\b(i?pdb\.set_trace)\b`)

// Definition describes the python-debugger adapter. It runs no external process.
func Definition() adapter.Definition {
	return adapter.Definition{
		Name:        Name,
		DisplayName: "PYTHON-DEBUGGER",
		Info: adapter.Info{
			Name:        "Python Debugger Linter",
			URI:         "https://docs.python.org/3/library/pdb.html",
			Description: "Hunts for stray Python debugger (pdb) statements.",
		},
		Builtin:         true,
		Parser:          parser.ContentFunc(scan),
		DefaultSeverity: lint.Constant(lint.SeverityError),
		FixedSeverity:   true,
	}
}

func scan(in *parser.Input) ([]lint.Finding, error) {
	var findings []lint.Finding
	for i, line := range strings.Split(strings.ReplaceAll(in.Original, "\r\n", "\n"), "\n") {
		loc := breakpoint.FindStringSubmatchIndex(line)
		if loc == nil {
			continue
		}
		findings = append(findings, lint.Finding{
			Path:        in.Path,
			Line:        i + 1,
			Column:      loc[2] + 1,
			Code:        Code,
			Name:        "Python debugger breakpoint",
			Description: "This line contains a Python debugger breakpoint.",
			Severity:    in.Severity(Code),
		})
	}
	return findings, nil
}
