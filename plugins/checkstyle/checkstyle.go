// Package checkstyle runs Checkstyle over java sources.
//
// Checkstyle's plain report is kept whole: everything between the audit
// banners becomes one finding.
package checkstyle

import (
	deferredregex "github.com/peterebden/go-deferred-regex"

	"github.com/scan-io-git/lint-adapters/pkg/adapter"
	"github.com/scan-io-git/lint-adapters/pkg/lint"
	"github.com/scan-io-git/lint-adapters/pkg/parser"
)

const Name = "checkstyle"

const (
	optionConfig = "checkstyle.config"

	defaultConfig = "/google_checks.xml"
)

var versionPattern = deferredregex.DeferredRegex{Re: `(?i)checkstyle version:? (\S+)`}

var exitPolicy = parser.ExpectErrorsOnStdout()

// Definition describes the checkstyle adapter.
func Definition() adapter.Definition {
	report := parser.NewBounded("Starting audit", "Audit done")
	report.Code = "CHECKSTYLE"

	return adapter.Definition{
		Name:        Name,
		DisplayName: "CHECKSTYLE",
		Info: adapter.Info{
			Name:        "Checkstyle",
			URI:         "https://checkstyle.org/",
			Description: "Checks Java source code against a coding standard",
		},
		Binary: "checkstyle",
		Family: adapter.Pinterest,
		Options: []lint.Option{
			{Name: optionConfig, Type: lint.TypeString, Help: "Checkstyle configuration file or bundled configuration (default " + defaultConfig + ")."},
		},
		MandatoryFlags: func(v lint.Values, _ adapter.Env) []string {
			config := v.String(optionConfig)
			if config == "" {
				config = defaultConfig
			}
			return []string{"-c", config}
		},
		// The exit code is the number of violations.
		Exit:            &exitPolicy,
		Parser:          report,
		DefaultSeverity: lint.Constant(lint.SeverityWarning),
		Version:         &adapter.VersionQuery{Args: []string{"--version"}, Pattern: &versionPattern},
		Install:         "brew install checkstyle",
	}
}
