// Package prettier reports files that prettier would reformat.
package prettier

import (
	deferredregex "github.com/peterebden/go-deferred-regex"

	"github.com/scan-io-git/lint-adapters/pkg/adapter"
	"github.com/scan-io-git/lint-adapters/pkg/lint"
	"github.com/scan-io-git/lint-adapters/pkg/parser"
)

const Name = "prettier"

var versionPattern = deferredregex.DeferredRegex{Re: `^v?(\d+\.\d+\.\d+)`}

// Definition describes the prettier adapter.
func Definition() adapter.Definition {
	return adapter.Definition{
		Name:        Name,
		DisplayName: "PRETTIER",
		Info: adapter.Info{
			Name:        "Prettier",
			URI:         "https://prettier.io/",
			Description: "An opinionated code formatter with canonicalized AST-derived output",
		},
		Binary: "prettier",
		Family: adapter.Node,
		Parser: parser.Diff{
			Code:        "PRETTIER",
			Name:        "Prettier Format",
			Description: "This file has not been prettier-ified",
		},
		DefaultSeverity: lint.Constant(lint.SeverityAutofix),
		FixedSeverity:   true,
		Version:         &adapter.VersionQuery{Args: []string{"-v"}, Pattern: &versionPattern},
	}
}
