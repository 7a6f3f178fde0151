// Package isort checks python import ordering with isort.
package isort

import (
	deferredregex "github.com/peterebden/go-deferred-regex"

	"github.com/scan-io-git/lint-adapters/pkg/adapter"
	"github.com/scan-io-git/lint-adapters/pkg/lint"
	"github.com/scan-io-git/lint-adapters/pkg/parser"
)

const Name = "isort"

const optionSettingsPath = "isort.settings-path"

var versionPattern = deferredregex.DeferredRegex{Re: `VERSION (\d+\.\d+\.\d+)`}

// Definition describes the isort adapter.
func Definition() adapter.Definition {
	return adapter.Definition{
		Name:        Name,
		DisplayName: "ISORT",
		Info: adapter.Info{
			Name:        "isort",
			URI:         "https://pycqa.github.io/isort/",
			Description: "Sort python imports alphabetically and separated into sections",
		},
		Binary: "isort",
		Family: adapter.Python,
		Options: []lint.Option{
			{Name: optionSettingsPath, Type: lint.TypeString, Help: "Explicitly set the settings path or file instead of auto determining based on file location."},
		},
		MandatoryFlags: func(v lint.Values, _ adapter.Env) []string {
			flags := []string{"--quiet", "--stdout"}
			if settings := v.String(optionSettingsPath); settings != "" {
				flags = append(flags, "--settings-path", settings)
			}
			return flags
		},
		Parser: parser.Diff{
			Code:        "ISORT",
			Name:        "isort",
			Description: "Imports in this file are not sorted",
		},
		DefaultSeverity: lint.Constant(lint.SeverityAutofix),
		FixedSeverity:   true,
		Version:         &adapter.VersionQuery{Args: []string{"--version"}, Pattern: &versionPattern},
		Install:         "pip install isort",
	}
}
