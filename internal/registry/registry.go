// Package registry maps configuration names to tool definitions.
package registry

import (
	"fmt"
	"sort"

	"github.com/scan-io-git/lint-adapters/pkg/adapter"
	"github.com/scan-io-git/lint-adapters/plugins/black"
	"github.com/scan-io-git/lint-adapters/plugins/checkstyle"
	"github.com/scan-io-git/lint-adapters/plugins/detectsecrets"
	"github.com/scan-io-git/lint-adapters/plugins/eslint"
	"github.com/scan-io-git/lint-adapters/plugins/flake8"
	"github.com/scan-io-git/lint-adapters/plugins/flawfinder"
	"github.com/scan-io-git/lint-adapters/plugins/govet"
	"github.com/scan-io-git/lint-adapters/plugins/graphqlschema"
	"github.com/scan-io-git/lint-adapters/plugins/isort"
	"github.com/scan-io-git/lint-adapters/plugins/openapi"
	"github.com/scan-io-git/lint-adapters/plugins/prettier"
	"github.com/scan-io-git/lint-adapters/plugins/prettiereslint"
	"github.com/scan-io-git/lint-adapters/plugins/pylint"
	"github.com/scan-io-git/lint-adapters/plugins/pyright"
	"github.com/scan-io-git/lint-adapters/plugins/pythondebugger"
	"github.com/scan-io-git/lint-adapters/plugins/spectral"
	"github.com/scan-io-git/lint-adapters/plugins/squawk"
	"github.com/scan-io-git/lint-adapters/plugins/thriftcheck"
	"github.com/scan-io-git/lint-adapters/plugins/yamllint"
)

var definitions = map[string]func() adapter.Definition{
	black.Name:          black.Definition,
	checkstyle.Name:     checkstyle.Definition,
	detectsecrets.Name:  detectsecrets.Definition,
	eslint.Name:         eslint.Definition,
	flake8.Name:         flake8.Definition,
	flawfinder.Name:     flawfinder.Definition,
	govet.Name:          govet.Definition,
	graphqlschema.Name:  graphqlschema.Definition,
	isort.Name:          isort.Definition,
	openapi.Name:        openapi.Definition,
	prettier.Name:       prettier.Definition,
	prettiereslint.Name: prettiereslint.Definition,
	pylint.Name:         pylint.Definition,
	pyright.Name:        pyright.Definition,
	pythondebugger.Name: pythondebugger.Definition,
	spectral.Name:       spectral.Definition,
	squawk.Name:         squawk.Definition,
	thriftcheck.Name:    thriftcheck.Definition,
	yamllint.Name:       yamllint.Definition,
}

var aliases = map[string]string{
	pylint.Alias: pylint.Name,
}

// ErrUnknownLinter is returned for names that are neither registered nor aliases.
type ErrUnknownLinter struct {
	Name string
}

func (e *ErrUnknownLinter) Error() string {
	return fmt.Sprintf("unknown linter %q", e.Name)
}

// Names returns the registered linter names in sorted order. Aliases are not included.
func Names() []string {
	names := make([]string, 0, len(definitions))
	for name := range definitions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns a fresh definition for name or one of its aliases.
func Lookup(name string) (adapter.Definition, bool) {
	if canonical, ok := aliases[name]; ok {
		name = canonical
	}
	constructor, ok := definitions[name]
	if !ok {
		return adapter.Definition{}, false
	}
	return constructor(), true
}

// New builds an unconfigured adapter for name.
func New(name string, deps adapter.Deps) (*adapter.Adapter, error) {
	def, ok := Lookup(name)
	if !ok {
		return nil, &ErrUnknownLinter{Name: name}
	}
	return adapter.New(def, deps), nil
}
