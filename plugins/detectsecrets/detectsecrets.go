// Package detectsecrets reports potential secrets found by Yelp's detect-secrets.
package detectsecrets

import (
	"sort"

	deferredregex "github.com/peterebden/go-deferred-regex"

	"github.com/scan-io-git/lint-adapters/pkg/adapter"
	"github.com/scan-io-git/lint-adapters/pkg/lint"
	"github.com/scan-io-git/lint-adapters/pkg/parser"
)

const Name = "detect-secrets"

const (
	optionMessage = "detect-secrets.message"

	detectedMessage = "Potential secrets detected in code"
)

var versionPattern = deferredregex.DeferredRegex{Re: `^(\d+\.\d+(?:\.\d+)?)`}

type scanResult struct {
	Results map[string][]struct {
		Type       string `json:"type"`
		LineNumber int    `json:"line_number"`
	} `json:"results"`
}

// Definition describes the detect-secrets adapter.
func Definition() adapter.Definition {
	return adapter.Definition{
		Name:        Name,
		DisplayName: Name,
		Info: adapter.Info{
			Name:        "detect-secrets",
			URI:         "https://github.com/Yelp/detect-secrets",
			Description: "Detect potential secrets in files to prevent accidental commit",
		},
		Binary: "detect-secrets",
		Family: adapter.Python,
		Options: []lint.Option{
			{Name: optionMessage, Type: lint.TypeString, Help: "Error message used when a secret is detected"},
		},
		MandatoryFlags: func(lint.Values, adapter.Env) []string { return []string{"scan"} },
		Exit: &parser.ExitPolicy{
			Codes:       map[int]parser.Outcome{0: parser.Parse},
			Otherwise:   parser.Fatal,
			StderrFatal: true,
		},
		Parser:          parser.JSON[scanResult]{Map: mapResults},
		DefaultSeverity: lint.Constant(lint.SeverityError),
		Version:         &adapter.VersionQuery{Args: []string{"--version"}, Pattern: &versionPattern},
		Install:         "pip install detect-secrets",
	}
}

// mapResults classifies each secret by its plugin type, e.g. "Secret Keyword".
func mapResults(in *parser.Input, doc scanResult) []lint.Finding {
	description := detectedMessage
	if msg := in.Values.String(optionMessage); msg != "" {
		description += "\n" + msg
	}

	files := make([]string, 0, len(doc.Results))
	for file := range doc.Results {
		files = append(files, file)
	}
	sort.Strings(files)

	var findings []lint.Finding
	for _, file := range files {
		for _, secret := range doc.Results[file] {
			findings = append(findings, lint.Finding{
				Path:        in.Path,
				Line:        secret.LineNumber,
				Code:        Name,
				Description: description,
				Severity:    in.Severity(parser.Or(secret.Type, parser.Unknown)),
			})
		}
	}
	return findings
}
