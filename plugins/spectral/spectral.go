// Package spectral lints OpenAPI and AsyncAPI documents with Spectral.
package spectral

import (
	"strconv"
	"strings"

	deferredregex "github.com/peterebden/go-deferred-regex"

	"github.com/scan-io-git/lint-adapters/pkg/adapter"
	"github.com/scan-io-git/lint-adapters/pkg/lint"
	"github.com/scan-io-git/lint-adapters/pkg/parser"
)

const Name = "spectral"

const optionRuleset = "spectral.ruleset"

var versionPattern = deferredregex.DeferredRegex{Re: `^v?(\d+\.\d+\.\d+)`}

var exitPolicy = parser.ExpectErrorsOnStdout()

// Spectral reports numeric severities; codes are their decimal form.
var severities = map[string]lint.Severity{
	"0": lint.SeverityError,
	"1": lint.SeverityWarning,
	"2": lint.SeverityAdvice,
	"3": lint.SeverityAdvice,
}

type position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

type result struct {
	Code     string   `json:"code"`
	Path     []string `json:"path"`
	Message  string   `json:"message"`
	Severity int      `json:"severity"`
	Source   string   `json:"source"`
	Range    struct {
		Start position `json:"start"`
		End   position `json:"end"`
	} `json:"range"`
}

// Definition describes the spectral adapter.
func Definition() adapter.Definition {
	return adapter.Definition{
		Name:        Name,
		DisplayName: "SPECTRAL",
		Info: adapter.Info{
			Name:        "Spectral",
			URI:         "https://stoplight.io/spectral",
			Description: "Lint OpenAPI specification against a set of rules",
		},
		Binary:  "spectral",
		Package: "@stoplight/spectral",
		Family:  adapter.Node,
		Options: []lint.Option{
			{Name: optionRuleset, Type: lint.TypeString, Help: "Path/URL to a ruleset file."},
		},
		MandatoryFlags: func(v lint.Values, _ adapter.Env) []string {
			flags := []string{"lint", "--format", "json", "--quiet"}
			if ruleset := v.String(optionRuleset); ruleset != "" {
				flags = append(flags, "--ruleset", ruleset)
			}
			return flags
		},
		DefaultFlags: func(lint.Values) []string {
			return []string{"--ignore-unknown-format"}
		},
		Exit:            &exitPolicy,
		Parser:          parser.JSON[[]result]{Map: mapResults, AllowEmpty: true},
		DefaultSeverity: lint.FixedMap(severities),
		Version:         &adapter.VersionQuery{Args: []string{"--version"}, Pattern: &versionPattern},
	}
}

func mapResults(in *parser.Input, results []result) []lint.Finding {
	findings := make([]lint.Finding, 0, len(results))
	for _, r := range results {
		description := r.Message
		if len(r.Path) > 0 {
			description += " (" + strings.Join(r.Path, ".") + ")"
		}
		findings = append(findings, lint.Finding{
			Path:        in.Path,
			Line:        r.Range.Start.Line + 1,
			Column:      r.Range.Start.Character + 1,
			Code:        parser.Or(r.Code, parser.Unknown),
			Name:        "SPECTRAL",
			Description: description,
			Severity:    in.Severity(strconv.Itoa(r.Severity)),
		})
	}
	return findings
}
