// Package squawk lints postgres migrations with squawk.
package squawk

import (
	"fmt"
	"strings"

	deferredregex "github.com/peterebden/go-deferred-regex"

	"github.com/scan-io-git/lint-adapters/pkg/adapter"
	"github.com/scan-io-git/lint-adapters/pkg/lint"
	"github.com/scan-io-git/lint-adapters/pkg/parser"
)

const Name = "squawk"

const optionConfig = "squawk.config"

var versionPattern = deferredregex.DeferredRegex{Re: `(\d+\.\d+\.\d+)`}

var levels = map[string]lint.Severity{
	"Error":   lint.SeverityError,
	"Warning": lint.SeverityWarning,
}

type violation struct {
	File     string `json:"file"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Level    string `json:"level"`
	RuleName string `json:"rule_name"`
	Messages []struct {
		Note string `json:"Note"`
		Help string `json:"Help"`
	} `json:"messages"`
}

// Definition describes the squawk adapter.
func Definition() adapter.Definition {
	return adapter.Definition{
		Name:        Name,
		DisplayName: "SQUAWK",
		Info: adapter.Info{
			Name:        "Squawk",
			URI:         "https://squawkhq.com/",
			Description: "Lint SQL using Squawk",
		},
		Binary:  "squawk",
		Package: "squawk-cli",
		Family:  adapter.Node,
		Options: []lint.Option{
			{Name: optionConfig, Type: lint.TypeString, Help: "Configuration file to use."},
		},
		MandatoryFlags: func(v lint.Values, _ adapter.Env) []string {
			if config := v.String(optionConfig); config != "" {
				return []string{"-c", config}
			}
			return nil
		},
		DefaultFlags: func(lint.Values) []string {
			return []string{"--reporter", "Json"}
		},
		Exit:    &parser.ExitPolicy{Otherwise: parser.Parse},
		Parser:  parser.JSON[[]violation]{Map: mapViolations},
		Version: &adapter.VersionQuery{Args: []string{"--version"}, Pattern: &versionPattern},
	}
}

func mapViolations(in *parser.Input, violations []violation) []lint.Finding {
	findings := make([]lint.Finding, 0, len(violations))
	for _, v := range violations {
		rule := parser.Or(v.RuleName, parser.Unknown)

		var b strings.Builder
		fmt.Fprintf(&b, "%s (%s): ", v.Level, rule)
		for _, m := range v.Messages {
			value := m.Note
			if m.Help != "" {
				value = m.Help
			}
			b.WriteString("\n" + value)
		}

		level, ok := levels[v.Level]
		if !ok {
			level = lint.SeverityWarning
		}
		findings = append(findings, lint.Finding{
			Path:        in.Path,
			Line:        statementLine(v.Line, v.Column),
			Column:      1,
			Code:        rule,
			Name:        "SQUAWK",
			Description: b.String(),
			Severity:    in.SeverityOr(rule, level),
		})
	}
	return findings
}

// statementLine maps squawk's location to the first line of the statement.
// Line 0 means the file could not be parsed. Otherwise squawk reports the
// line of the preceding statement's end and a line offset in column.
func statementLine(line, column int) int {
	switch {
	case line == 0:
		return 1
	case column != 0:
		return line + column - 1
	}
	return line
}
