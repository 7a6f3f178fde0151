// Package openapi validates OpenAPI documents with IBM's openapi-validator.
package openapi

import (
	"sort"

	deferredregex "github.com/peterebden/go-deferred-regex"

	"github.com/scan-io-git/lint-adapters/pkg/adapter"
	"github.com/scan-io-git/lint-adapters/pkg/lint"
	"github.com/scan-io-git/lint-adapters/pkg/parser"
)

const Name = "openapi-spec"

const (
	optionConfig     = Name + ".config"
	optionDebug      = Name + ".debug"
	optionErrorsOnly = Name + ".errors_only"
)

var versionPattern = deferredregex.DeferredRegex{Re: `^v?(\d+\.\d+\.\d+)`}

type problem struct {
	Path    []string `json:"path"`
	Message string   `json:"message"`
	Rule    string   `json:"rule"`
	Line    int      `json:"line"`
}

// report groups problems by the validator that found them, e.g. "spectral".
type report struct {
	Errors   map[string][]problem `json:"errors"`
	Warnings map[string][]problem `json:"warnings"`
}

// Definition describes the openapi-spec adapter.
func Definition() adapter.Definition {
	return adapter.Definition{
		Name:        Name,
		DisplayName: "OPENAPI",
		Info: adapter.Info{
			Name:        "OpenAPI Validator",
			URI:         "https://github.com/IBM/openapi-validator",
			Description: "Validate OpenAPI specification against a set of rules",
		},
		Binary:  "lint-openapi",
		Package: "ibm-openapi-validator",
		Family:  adapter.Node,
		Options: []lint.Option{
			{Name: optionConfig, Type: lint.TypeString, Help: "Config file that defines the validation rules."},
			{Name: optionDebug, Type: lint.TypeBool, Help: "Enable debugging output."},
			{Name: optionErrorsOnly, Type: lint.TypeBool, Help: "Only print the errors, ignore the warnings."},
		},
		MandatoryFlags: func(lint.Values, adapter.Env) []string {
			return []string{"--json", "--verbose", "--no_colors"}
		},
		DefaultFlags: func(v lint.Values) []string {
			var flags []string
			if config := v.String(optionConfig); config != "" {
				flags = append(flags, "--config="+config)
			}
			if v.Bool(optionDebug) {
				flags = append(flags, "--debug")
			}
			if v.Bool(optionErrorsOnly) {
				flags = append(flags, "--errors_only")
			}
			return flags
		},
		Exit: &parser.ExitPolicy{
			Codes:     map[int]parser.Outcome{0: parser.Parse, 1: parser.Parse},
			Otherwise: parser.Fatal,
		},
		Parser:        parser.JSON[report]{Map: mapReport},
		FixedSeverity: true,
		Version:       &adapter.VersionQuery{Args: []string{"--version"}, Pattern: &versionPattern},
	}
}

func mapReport(in *parser.Input, doc report) []lint.Finding {
	findings := collect(in, doc.Errors, lint.SeverityError)
	return append(findings, collect(in, doc.Warnings, lint.SeverityWarning)...)
}

func collect(in *parser.Input, categories map[string][]problem, sev lint.Severity) []lint.Finding {
	names := make([]string, 0, len(categories))
	for name := range categories {
		names = append(names, name)
	}
	sort.Strings(names)

	var findings []lint.Finding
	for _, name := range names {
		for _, p := range categories[name] {
			findings = append(findings, lint.Finding{
				Path:        in.Path,
				Line:        p.Line,
				Code:        parser.Or(p.Rule, parser.Unknown),
				Name:        "OPENAPI",
				Description: p.Message,
				Severity:    sev,
			})
		}
	}
	return findings
}
