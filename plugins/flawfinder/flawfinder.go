// Package flawfinder scans C and C++ sources with Flawfinder.
package flawfinder

import (
	"fmt"

	deferredregex "github.com/peterebden/go-deferred-regex"

	"github.com/scan-io-git/lint-adapters/pkg/adapter"
	"github.com/scan-io-git/lint-adapters/pkg/lint"
	"github.com/scan-io-git/lint-adapters/pkg/parser"
)

const Name = "flawfinder"

// path/filename.cc:36:27:  [4] (buffer) StrCat:Does not check for buffer overflows (CWE-120).
var linePattern = deferredregex.DeferredRegex{Re: `^(?:.*?):(?P<line>\d+):(?P<col>\d+):\s+\[(?P<level>\d+)\] \((?P<rule>\w+)\) (?P<message>.*)$`}

var versionPattern = deferredregex.DeferredRegex{Re: `^(\d+\.\d+\.\d+)`}

var exitPolicy = parser.ExpectErrorsOnStdout()

// Definition describes the flawfinder adapter.
func Definition() adapter.Definition {
	return adapter.Definition{
		Name:        Name,
		DisplayName: "FLAWFINDER",
		Info: adapter.Info{
			Name:        "Flawfinder",
			URI:         "https://dwheeler.com/flawfinder/",
			Description: "Lexically find potential security flaws in C/C++ source code",
		},
		Binary: "flawfinder",
		Family: adapter.Pinterest,
		MandatoryFlags: func(lint.Values, adapter.Env) []string {
			return []string{"--dataonly", "--columns", "--singleline", "--quiet"}
		},
		Exit:            &exitPolicy,
		Parser:          parser.Lines{Pattern: &linePattern, Build: build},
		DefaultSeverity: lint.Constant(lint.SeverityAdvice),
		Version:         &adapter.VersionQuery{Args: []string{"--version"}, Pattern: &versionPattern},
		Install:         "pip install flawfinder",
	}
}

// build keys severity on the risk level (0-5) so overrides can be written per level.
func build(in *parser.Input, m parser.Match) (lint.Finding, bool) {
	return lint.Finding{
		Path:        in.Path,
		Line:        m.Int("line"),
		Column:      m.Int("col"),
		Code:        "FLAWFINDER" + m["level"],
		Name:        fmt.Sprintf("Flawfinder %s rule", m["rule"]),
		Description: m["message"],
		Severity:    in.Severity(m["level"]),
	}, true
}
