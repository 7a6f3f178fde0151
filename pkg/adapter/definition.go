// Package adapter composes a resolver, a command line and a parser into one
// configurable linter.
package adapter

import (
	"context"

	deferredregex "github.com/peterebden/go-deferred-regex"

	"github.com/scan-io-git/lint-adapters/pkg/lint"
	"github.com/scan-io-git/lint-adapters/pkg/parser"
)

// Info describes the wrapped tool.
type Info struct {
	Name        string `json:"name"`
	URI         string `json:"uri"`
	Description string `json:"description"`
}

// Env is the host environment an adapter runs in.
type Env struct {
	// Root is the project root; relative file paths are resolved against it.
	Root string
	// VirtualEnvActive is set when a python virtualenv is already activated.
	VirtualEnvActive bool
}

// VersionQuery runs the tool with Args and takes the first group of Pattern
// from stdout as the version.
type VersionQuery struct {
	Args    []string
	Pattern *deferredregex.DeferredRegex
	// Stderr reads the version from stderr instead of stdout.
	Stderr bool
}

// Definition is the data describing one tool. Tools are added by declaring a
// Definition, not by writing a new adapter type.
type Definition struct {
	// Name is the configuration name, e.g. "eslint".
	Name string
	// DisplayName is the default finding name, e.g. "ESLINT".
	DisplayName string
	Info        Info
	Binary      string
	Family      Family
	Options     []lint.Option

	// MandatoryFlags are always passed. DefaultFlags are replaced by the flags option.
	MandatoryFlags func(v lint.Values, env Env) []string
	DefaultFlags   func(v lint.Values) []string
	// Interpreter runs Binary through another program, e.g. node.
	Interpreter []string

	// Exit defaults to parser.DefaultExitPolicy.
	Exit   *parser.ExitPolicy
	Parser parser.Parser

	// DefaultSeverity is the built-in code to severity mapping.
	DefaultSeverity func(code string) (lint.Severity, bool)
	// FixedSeverity hides the severity and severity.rules options.
	FixedSeverity bool

	Version *VersionQuery
	// Install is the default install hint shown when the binary is missing.
	Install string
	// Package is the name the tool is published under when it differs from Binary.
	Package string

	// ValidateOption checks tool-specific option values at configuration time.
	ValidateOption func(key string, value interface{}) error

	// Builtin adapters run no process; Parser reads the file content directly.
	Builtin bool

	// Skip reports a precondition failure that disables the adapter for the run.
	Skip func(ctx context.Context, a *Adapter) (reason string, skip bool)
}

func (d *Definition) exitPolicy() parser.ExitPolicy {
	if d.Exit == nil {
		return parser.DefaultExitPolicy()
	}
	return *d.Exit
}

func (d *Definition) packageName() string {
	if d.Package != "" {
		return d.Package
	}
	return d.Binary
}

func (d *Definition) displayName() string {
	if d.DisplayName != "" {
		return d.DisplayName
	}
	return d.Name
}
