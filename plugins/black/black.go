// Package black checks python formatting with Black.
package black

import (
	"strings"

	"github.com/alessio/shellescape"
	deferredregex "github.com/peterebden/go-deferred-regex"

	"github.com/scan-io-git/lint-adapters/pkg/adapter"
	"github.com/scan-io-git/lint-adapters/pkg/lint"
	"github.com/scan-io-git/lint-adapters/pkg/parser"
)

const Name = "black"

const optionPython = "black.python"

var versionPattern = deferredregex.DeferredRegex{Re: `^black,? (?:version )?(\S+)`}

var checkOnlyFlags = map[string]bool{"--check": true, "--quiet": true}

// Definition describes the black adapter.
func Definition() adapter.Definition {
	return adapter.Definition{
		Name:        Name,
		DisplayName: "BLACK",
		Info: adapter.Info{
			Name:        "Black",
			URI:         "https://black.readthedocs.io/",
			Description: "Black is an opinionated code formatter for Python",
		},
		Binary: "black",
		Family: adapter.Python,
		Options: []lint.Option{
			{Name: optionPython, Type: lint.TypeString, Help: "Python version requirement."},
		},
		MandatoryFlags: func(lint.Values, adapter.Env) []string {
			return []string{"--quiet", "--check"}
		},
		Exit: &parser.ExitPolicy{
			Codes:     map[int]parser.Outcome{0: parser.Clean, 1: parser.Parse},
			Otherwise: parser.Fatal,
			Reasons:   map[int]string{123: "black failed to parse the file"},
		},
		Parser:          parser.Func(parseCheck),
		DefaultSeverity: lint.Constant(lint.SeverityAdvice),
		Version:         &adapter.VersionQuery{Args: []string{"--version"}, Pattern: &versionPattern},
		Install:         "pip3 install black",
		ValidateOption:  validateOption,
		Skip:            skipUnsupportedPython,
	}
}

// parseCheck turns a failed --check into advice to run black on the file.
func parseCheck(in *parser.Input) ([]lint.Finding, error) {
	fix := []string{"black"}
	if len(in.Args) > 2 {
		for _, arg := range in.Args[1 : len(in.Args)-1] {
			if !checkOnlyFlags[arg] {
				fix = append(fix, arg)
			}
		}
	}
	fix = append(fix, in.Path)

	return []lint.Finding{{
		Path:        in.Path,
		Code:        "BLACK",
		Description: "Please run `" + strings.TrimSpace(shellescape.QuoteCommand(fix)) + "`\n",
		Severity:    in.Severity("BLACK"),
	}}, nil
}
