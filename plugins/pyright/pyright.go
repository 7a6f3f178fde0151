// Package pyright type checks python files with pyright.
package pyright

import (
	deferredregex "github.com/peterebden/go-deferred-regex"

	"github.com/scan-io-git/lint-adapters/pkg/adapter"
	"github.com/scan-io-git/lint-adapters/pkg/lint"
	"github.com/scan-io-git/lint-adapters/pkg/parser"
)

const Name = "pyright"

const (
	optionProject      = "pyright.project"
	optionTypeshedPath = "pyright.typeshed-path"
	optionVenvPath     = "pyright.venv-path"
)

const maxCodeLength = 128

var versionPattern = deferredregex.DeferredRegex{Re: `^pyright (\d+\.\d+\.\d+)$`}

var levels = map[string]lint.Severity{
	"error":       lint.SeverityError,
	"warning":     lint.SeverityWarning,
	"information": lint.SeverityAdvice,
}

type position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

type diagnostic struct {
	File     string `json:"file"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
	Rule     string `json:"rule"`
	Range    struct {
		Start position `json:"start"`
		End   position `json:"end"`
	} `json:"range"`
}

// report accepts both the documented "diagnostics" key and the
// "generalDiagnostics" key current releases emit.
type report struct {
	Version     string       `json:"version"`
	Diagnostics []diagnostic `json:"diagnostics"`
	General     []diagnostic `json:"generalDiagnostics"`
}

// Definition describes the pyright adapter.
func Definition() adapter.Definition {
	return adapter.Definition{
		Name:        Name,
		DisplayName: "Pyright",
		Info: adapter.Info{
			Name:        "Pyright",
			URI:         "https://github.com/microsoft/pyright",
			Description: "Pyright is a fast type checker meant for large Python source bases",
		},
		Binary: "pyright",
		Family: adapter.Node,
		Options: []lint.Option{
			{Name: optionProject, Type: lint.TypeString, Help: "Use the configuration file at this location."},
			{Name: optionTypeshedPath, Type: lint.TypeString, Help: "Use typeshed type stubs at this location."},
			{Name: optionVenvPath, Type: lint.TypeString, Help: "Directory that contains virtual environments."},
		},
		MandatoryFlags: func(lint.Values, adapter.Env) []string {
			return []string{"--outputjson"}
		},
		DefaultFlags: func(v lint.Values) []string {
			var flags []string
			for _, opt := range []struct{ key, flag string }{
				{optionProject, "--project"},
				{optionTypeshedPath, "--typeshed-path"},
				{optionVenvPath, "--venv-path"},
			} {
				if value := v.String(opt.key); value != "" {
					flags = append(flags, opt.flag, value)
				}
			}
			return flags
		},
		Exit: &parser.ExitPolicy{
			Codes: map[int]parser.Outcome{
				0: parser.Clean,
				1: parser.Parse,
				2: parser.Fatal,
				3: parser.Fatal,
			},
			Otherwise: parser.Clean,
			Reasons: map[int]string{
				2: "fatal error with no diagnostics reported",
				3: "config file could not be read or parsed",
			},
		},
		Parser:  parser.JSON[report]{Map: mapReport},
		Version: &adapter.VersionQuery{Args: []string{"--version"}, Pattern: &versionPattern},
	}
}

func mapReport(in *parser.Input, doc report) []lint.Finding {
	diagnostics := append(doc.Diagnostics, doc.General...)
	findings := make([]lint.Finding, 0, len(diagnostics))
	for _, d := range diagnostics {
		rule := parser.Or(d.Rule, parser.Unknown)
		if len(rule) > maxCodeLength {
			rule = rule[:maxCodeLength]
		}
		level, ok := levels[d.Severity]
		if !ok {
			level = lint.SeverityWarning
		}
		findings = append(findings, lint.Finding{
			Path:        in.Path,
			Line:        d.Range.Start.Line + 1,
			Column:      d.Range.Start.Character + 1,
			Code:        rule,
			Name:        "Pyright",
			Description: d.Message,
			Severity:    in.SeverityOr(rule, level),
		})
	}
	return findings
}
