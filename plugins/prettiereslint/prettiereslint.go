// Package prettiereslint formats javascript with prettier followed by eslint --fix.
package prettiereslint

import (
	deferredregex "github.com/peterebden/go-deferred-regex"

	"github.com/scan-io-git/lint-adapters/pkg/adapter"
	"github.com/scan-io-git/lint-adapters/pkg/lint"
	"github.com/scan-io-git/lint-adapters/pkg/parser"
)

const Name = "prettier-eslint"

var versionPattern = deferredregex.DeferredRegex{Re: `^v?(\d+\.\d+\.\d+)`}

// Definition describes the prettier-eslint adapter. The script is run
// through node so it works when the bin shim is not executable.
func Definition() adapter.Definition {
	return adapter.Definition{
		Name:        Name,
		DisplayName: "PRETTIERESLINT",
		Info: adapter.Info{
			Name:        "PrettierESLint",
			URI:         "https://github.com/prettier/prettier-eslint-cli",
			Description: "A combo Prettier formatter & Eslint auto-fix linter",
		},
		Binary:      "prettier-eslint",
		Package:     "prettier-eslint-cli",
		Family:      adapter.Node,
		Interpreter: []string{"node"},
		MandatoryFlags: func(lint.Values, adapter.Env) []string {
			return []string{"--log-level=silent"}
		},
		Parser: parser.Diff{
			Code:        "PRETTIERESLINT",
			Name:        "Prettier-Eslint Format",
			Description: "This file has not been prettier-eslint-ified",
		},
		DefaultSeverity: lint.Constant(lint.SeverityAutofix),
		FixedSeverity:   true,
		Version:         &adapter.VersionQuery{Args: []string{"--version"}, Pattern: &versionPattern},
	}
}
