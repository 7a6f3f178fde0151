// Package flake8 runs flake8 over python files.
package flake8

import (
	"strings"

	deferredregex "github.com/peterebden/go-deferred-regex"

	"github.com/scan-io-git/lint-adapters/pkg/adapter"
	"github.com/scan-io-git/lint-adapters/pkg/lint"
	"github.com/scan-io-git/lint-adapters/pkg/parser"
)

const Name = "flake8"

const (
	optionConfig = "flake8.config"
	optionSelect = "flake8.select"
)

var (
	// a.py:12:80: E501 line too long (88 > 79 characters)
	linePattern    = deferredregex.DeferredRegex{Re: `^(?:.*?):(?P<line>\d+):(?P<col>\d+): (?P<code>[A-Z]+\d+) (?P<message>.*)$`}
	versionPattern = deferredregex.DeferredRegex{Re: `^(\d+\.\d+\.\d+)`}
)

// Definition describes the flake8 adapter.
func Definition() adapter.Definition {
	return adapter.Definition{
		Name:        Name,
		DisplayName: "FLAKE8",
		Info: adapter.Info{
			Name:        "Flake8",
			URI:         "https://flake8.pycqa.org/",
			Description: "Python style guide enforcement",
		},
		Binary: "flake8",
		Family: adapter.Python,
		Options: []lint.Option{
			{Name: optionConfig, Type: lint.TypeString, Help: "Path to the flake8 configuration file."},
			{Name: optionSelect, Type: lint.TypeStringList, Help: "Only report errors whose codes start with one of these prefixes."},
		},
		DefaultFlags: func(v lint.Values) []string {
			var flags []string
			if config := v.String(optionConfig); config != "" {
				flags = append(flags, "--config", config)
			}
			if sel := v.List(optionSelect); len(sel) > 0 {
				flags = append(flags, "--select="+strings.Join(sel, ","))
			}
			return flags
		},
		Exit: &parser.ExitPolicy{
			Codes:     map[int]parser.Outcome{0: parser.Clean, 1: parser.Parse},
			Otherwise: parser.Fatal,
		},
		Parser:          parser.Lines{Pattern: &linePattern},
		DefaultSeverity: defaultSeverity,
		Version:         &adapter.VersionQuery{Args: []string{"--version"}, Pattern: &versionPattern},
		Install:         "pip install flake8",
	}
}

// defaultSeverity maps pyflakes and syntax errors to ERROR, style to WARNING
// and complexity, naming and docstring checks to ADVICE.
func defaultSeverity(code string) (lint.Severity, bool) {
	switch {
	case strings.HasPrefix(code, "E9"), strings.HasPrefix(code, "F"):
		return lint.SeverityError, true
	case strings.HasPrefix(code, "E"), strings.HasPrefix(code, "W"):
		return lint.SeverityWarning, true
	case strings.HasPrefix(code, "C"), strings.HasPrefix(code, "N"), strings.HasPrefix(code, "D"):
		return lint.SeverityAdvice, true
	}
	return lint.SeverityWarning, false
}
