// Package graphqlschema validates GraphQL SDL files with graphql-schema-linter.
package graphqlschema

import (
	"encoding/json"
	"strings"

	deferredregex "github.com/peterebden/go-deferred-regex"

	"github.com/scan-io-git/lint-adapters/pkg/adapter"
	"github.com/scan-io-git/lint-adapters/pkg/lint"
	"github.com/scan-io-git/lint-adapters/pkg/parser"
)

const Name = "graphql-schema"

const (
	optionRules               = Name + ".rules"
	optionConfig              = Name + ".config"
	optionCustomRules         = Name + ".custom-rules"
	optionIgnore              = Name + ".ignore"
	optionCommentDescriptions = Name + ".comment-descriptions"
	optionOldImplements       = Name + ".old-implements-syntax"
)

var versionPattern = deferredregex.DeferredRegex{Re: `^v?(\d+\.\d+\.\d+)`}

var ruleSeverity = map[string]lint.Severity{
	"graphql-syntax-error":   lint.SeverityError,
	"invalid-graphql-schema": lint.SeverityError,
	"defined-types-are-used": lint.SeverityAdvice,

	// Errors without a rule are schema load failures.
	parser.Unknown: lint.SeverityError,
}

type report struct {
	Errors []struct {
		Message  string `json:"message"`
		Rule     string `json:"rule"`
		Location struct {
			Line   int    `json:"line"`
			Column int    `json:"column"`
			File   string `json:"file"`
		} `json:"location"`
	} `json:"errors"`
}

// Definition describes the graphql-schema-linter adapter.
func Definition() adapter.Definition {
	return adapter.Definition{
		Name:        Name,
		DisplayName: "GraphQL Schema Linter",
		Info: adapter.Info{
			Name:        "GraphQLSchema",
			URI:         "https://github.com/cjoudrey/graphql-schema-linter",
			Description: "Validate GraphQL schema definitions against a set of rules",
		},
		Binary: "graphql-schema-linter",
		Family: adapter.Node,
		Options: []lint.Option{
			{Name: optionRules, Type: lint.TypeStringList, Help: "If specified, only these rules will be used to validate the schema."},
			{Name: optionConfig, Type: lint.TypeString, Help: "Use configuration from this directory (containing package.json, .graphql-schema-linterrc, or graphql-schema-linter.config.js)."},
			{Name: optionCustomRules, Type: lint.TypeStringList, Help: "Specify one or more paths containing custom rules."},
			{Name: optionIgnore, Type: lint.TypeListMap, Help: "Ignore errors for specific schema members. Keys are rule names, values a list of schema member paths (e.g. \"Query.something.obvious\")."},
			{Name: optionCommentDescriptions, Type: lint.TypeBool, Help: "Use old way of defining descriptions (with # comments) in GraphQL SDL."},
			{Name: optionOldImplements, Type: lint.TypeBool, Help: "Use old way of defining multiple implemented interfaces (with comma or space) in GraphQL SDL."},
		},
		MandatoryFlags: func(lint.Values, adapter.Env) []string {
			return []string{"--format=json"}
		},
		DefaultFlags: defaultFlags,
		Exit: &parser.ExitPolicy{
			Codes: map[int]parser.Outcome{
				0: parser.Clean,
				1: parser.Parse,
				2: parser.FatalOnStderr,
				3: parser.FatalOnStderr,
			},
			Otherwise: parser.Clean,
		},
		Parser:          parser.JSON[report]{Map: mapReport},
		DefaultSeverity: defaultSeverity,
		Version:         &adapter.VersionQuery{Args: []string{"--version"}, Pattern: &versionPattern},
	}
}

func defaultFlags(v lint.Values) []string {
	var flags []string
	if rules := v.List(optionRules); len(rules) > 0 {
		flags = append(flags, "--rules="+strings.Join(rules, ","))
	}
	if dir := v.String(optionConfig); dir != "" {
		flags = append(flags, "--config-directory="+dir)
	}
	if paths := v.List(optionCustomRules); len(paths) > 0 {
		flags = append(flags, "--custom-rule-paths="+strings.Join(paths, " "))
	}
	if ignore := v.ListMap(optionIgnore); len(ignore) > 0 {
		// Map keys are marshalled in sorted order.
		encoded, err := json.Marshal(ignore)
		if err == nil {
			flags = append(flags, "--ignore="+string(encoded))
		}
	}
	if v.Bool(optionCommentDescriptions) {
		flags = append(flags, "--comment-descriptions")
	}
	if v.Bool(optionOldImplements) {
		flags = append(flags, "--old-implements-syntax")
	}
	return flags
}

func mapReport(in *parser.Input, doc report) []lint.Finding {
	findings := make([]lint.Finding, 0, len(doc.Errors))
	for _, e := range doc.Errors {
		rule := parser.Or(e.Rule, parser.Unknown)
		findings = append(findings, lint.Finding{
			Path:        in.Path,
			Line:        e.Location.Line,
			Column:      e.Location.Column,
			Code:        rule,
			Name:        "GraphQL Schema Linter",
			Description: e.Message,
			Severity:    in.Severity(rule),
		})
	}
	return findings
}

// defaultSeverity reports syntax, schema and rule-less errors as ERROR, unused types as
// ADVICE and every other rule as WARNING.
func defaultSeverity(rule string) (lint.Severity, bool) {
	if sev, ok := ruleSeverity[rule]; ok {
		return sev, true
	}
	return lint.SeverityWarning, true
}
