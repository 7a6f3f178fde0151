// Package eslint runs ESLint with its JSON formatter.
package eslint

import (
	deferredregex "github.com/peterebden/go-deferred-regex"

	"github.com/scan-io-git/lint-adapters/pkg/adapter"
	"github.com/scan-io-git/lint-adapters/pkg/lint"
	"github.com/scan-io-git/lint-adapters/pkg/parser"
)

const Name = "eslint"

const (
	optionConfig = "eslint.config"
	optionEnv    = "eslint.env"
	optionBin    = "eslint.bin"
)

// ESLint rule severities.
const (
	severityWarning = 1
	severityError   = 2
)

var versionPattern = deferredregex.DeferredRegex{Re: `^v(\d+\.\d+\.\d+)$`}

type fileResult struct {
	FilePath string `json:"filePath"`
	Messages []struct {
		RuleID   string `json:"ruleId"`
		Severity int    `json:"severity"`
		Message  string `json:"message"`
		Line     int    `json:"line"`
		Column   int    `json:"column"`
		Fatal    bool   `json:"fatal"`
	} `json:"messages"`
}

// Definition describes the eslint adapter.
func Definition() adapter.Definition {
	return adapter.Definition{
		Name:        Name,
		DisplayName: "ESLINT",
		Info: adapter.Info{
			Name:        "ESLint",
			URI:         "https://eslint.org/",
			Description: "The pluggable linting utility for JavaScript and JSX",
		},
		Binary: "eslint",
		Family: adapter.Node,
		Options: []lint.Option{
			{Name: optionConfig, Type: lint.TypeString, Help: "Use configuration from this file or shareable config. (https://eslint.org/docs/user-guide/command-line-interface#-c---config)"},
			{Name: optionEnv, Type: lint.TypeString, Help: "Specify environments. To specify multiple environments, separate them using commas. (https://eslint.org/docs/user-guide/command-line-interface#--env)"},
			{Name: optionBin, Type: lint.TypeString, Help: "Location of eslint executable. Default: (eslint)"},
		},
		MandatoryFlags: func(lint.Values, adapter.Env) []string {
			return []string{"--format=json", "--no-color"}
		},
		DefaultFlags: defaultFlags,
		Exit: &parser.ExitPolicy{
			Codes:     map[int]parser.Outcome{0: parser.Parse, 1: parser.Parse},
			Otherwise: parser.Fatal,
			Reasons:   map[int]string{2: "configuration problem or internal error"},
		},
		Parser:        parser.JSON[[]fileResult]{Map: mapResults},
		FixedSeverity: true,
		Version:       &adapter.VersionQuery{Args: []string{"-v"}, Pattern: &versionPattern},
		Install:       "run `npm install --global eslint` to install eslint globally, or `npm install --save-dev eslint` to add it to your project.",
	}
}

func defaultFlags(v lint.Values) []string {
	var flags []string
	if config := v.String(optionConfig); config != "" {
		flags = append(flags, "--config", config)
	}
	if env := v.String(optionEnv); env != "" {
		flags = append(flags, "--env", env)
	}
	return flags
}

func mapResults(in *parser.Input, files []fileResult) []lint.Finding {
	var findings []lint.Finding
	for _, file := range files {
		for _, m := range file.Messages {
			rule := parser.Or(m.RuleID, parser.Unknown)
			if m.Fatal {
				rule = "fatal"
			}
			findings = append(findings, lint.Finding{
				Path:        in.Path,
				Line:        m.Line,
				Column:      m.Column,
				Code:        rule,
				Name:        rule,
				Description: m.Message,
				Severity:    mapSeverity(m.Severity),
			})
		}
	}
	return findings
}

func mapSeverity(severity int) lint.Severity {
	if severity <= severityWarning {
		return lint.SeverityWarning
	}
	return lint.SeverityError
}
