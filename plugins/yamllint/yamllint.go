// Package yamllint lints YAML files with yamllint.
package yamllint

import (
	"path/filepath"

	deferredregex "github.com/peterebden/go-deferred-regex"

	"github.com/scan-io-git/lint-adapters/pkg/adapter"
	"github.com/scan-io-git/lint-adapters/pkg/lint"
	"github.com/scan-io-git/lint-adapters/pkg/parser"
)

const Name = "yamllint"

var (
	//   3:1       warning  missing document start "---"  (document-start)
	linePattern    = deferredregex.DeferredRegex{Re: `^\s*(?P<line>\d+):(?P<col>\d+)\s+(?P<severity>warning|error)\s+(?P<message>.*?)\s+\((?P<code>[^()]*)\)\s*$`}
	versionPattern = deferredregex.DeferredRegex{Re: `^yamllint (\d+\.\d+\.\d+)`}
)

// Definition describes the yamllint adapter.
func Definition() adapter.Definition {
	return adapter.Definition{
		Name:        Name,
		DisplayName: "YamlLint",
		Info: adapter.Info{
			Name:        "YamlLint",
			URI:         "https://yamllint.readthedocs.io/",
			Description: "A linter for YAML files",
		},
		Binary: "yamllint",
		Family: adapter.Global,
		MandatoryFlags: func(_ lint.Values, env adapter.Env) []string {
			return []string{"-c", filepath.Join(env.Root, ".yamllint"), "-f", "standard"}
		},
		Exit: &parser.ExitPolicy{
			Codes: map[int]parser.Outcome{
				0: parser.Parse,
				1: parser.ParseOrFatalOnStderr,
				2: parser.ParseOrFatalOnStderr,
			},
			Otherwise: parser.Fatal,
		},
		Parser:  parser.Lines{Pattern: &linePattern, Build: build},
		Version: &adapter.VersionQuery{Args: []string{"--version"}, Pattern: &versionPattern},
		Install: "run `brew install yamllint` on Mac or `sudo apt-get install yamllint` on Linux",
	}
}

// build uses the severity yamllint reports unless the rule is overridden.
func build(in *parser.Input, m parser.Match) (lint.Finding, bool) {
	level := lint.SeverityWarning
	if m["severity"] == "error" {
		level = lint.SeverityError
	}
	return lint.Finding{
		Path:        in.Path,
		Line:        m.Int("line"),
		Column:      m.Int("col"),
		Code:        m["code"],
		Name:        "YamlLint",
		Description: m["message"],
		Severity:    in.SeverityOr(m["code"], level),
	}, true
}
