// Package thriftcheck lints Thrift IDL files with ThriftCheck.
package thriftcheck

import (
	deferredregex "github.com/peterebden/go-deferred-regex"

	"github.com/scan-io-git/lint-adapters/pkg/adapter"
	"github.com/scan-io-git/lint-adapters/pkg/lint"
	"github.com/scan-io-git/lint-adapters/pkg/parser"
)

const Name = "thriftcheck"

const (
	optionConfig   = "thriftcheck.config"
	optionIncludes = "thriftcheck.includes"
)

var (
	// file.thrift:3:1: error: unable to find include path for "bar.thrift" (include.path)
	linePattern    = deferredregex.DeferredRegex{Re: `^(?:.*?):(?P<line>\d+):(?P<col>\d+): ?(?P<severity>error|warning): (?P<message>.*) \((?P<code>.*)\)$`}
	versionPattern = deferredregex.DeferredRegex{Re: `^thriftcheck (.*) \(.*\)$`}
	exitPolicy     = parser.ExpectErrorsOnStdout()
)

// Definition describes the thriftcheck adapter.
func Definition() adapter.Definition {
	return adapter.Definition{
		Name:        Name,
		DisplayName: "THRIFTCHECK",
		Info: adapter.Info{
			Name:        "ThriftCheck",
			URI:         "https://github.com/pinterest/thriftcheck",
			Description: "Lint Thrift IDL files using ThriftCheck",
		},
		Binary: "thriftcheck",
		Family: adapter.Pinterest,
		Options: []lint.Option{
			{Name: optionConfig, Type: lint.TypeString, Help: "Path to the configuration file."},
			{Name: optionIncludes, Type: lint.TypeStringList, Help: "List of include path directories."},
		},
		MandatoryFlags: func(v lint.Values, _ adapter.Env) []string {
			var flags []string
			if config := v.String(optionConfig); config != "" {
				flags = append(flags, "--config", config)
			}
			for _, dir := range v.List(optionIncludes) {
				flags = append(flags, "-I", dir)
			}
			return flags
		},
		Exit:          &exitPolicy,
		Parser:        parser.Lines{Pattern: &linePattern, Build: build},
		FixedSeverity: true,
		Version:       &adapter.VersionQuery{Args: []string{"--version"}, Pattern: &versionPattern},
	}
}

func build(in *parser.Input, m parser.Match) (lint.Finding, bool) {
	sev := lint.SeverityError
	if m["severity"] == "warning" {
		sev = lint.SeverityWarning
	}
	return lint.Finding{
		Path:        in.Path,
		Line:        m.Int("line"),
		Column:      m.Int("col"),
		Code:        m["code"],
		Name:        "THRIFTCHECK",
		Description: m["message"],
		Severity:    sev,
	}, true
}
