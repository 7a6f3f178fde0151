// Package govet runs `go vet` over go files.
package govet

import (
	"errors"
	"path/filepath"
	"strings"

	deferredregex "github.com/peterebden/go-deferred-regex"

	"github.com/scan-io-git/lint-adapters/pkg/adapter"
	"github.com/scan-io-git/lint-adapters/pkg/lint"
	"github.com/scan-io-git/lint-adapters/pkg/parser"
)

const Name = "govet"

const optionTags = "govet.tags"

var (
	// vet: ./a.go:3:2: unreachable code
	linePattern    = deferredregex.DeferredRegex{Re: `^(?:vet: )?(?P<file>[^:\s]+\.go):(?P<line>\d+):(?P<col>\d+): (?P<message>.*)$`}
	versionPattern = deferredregex.DeferredRegex{Re: `^go version go(\d+\.\d+(?:\.\d+)?)`}
)

var diagnostics = parser.Lines{Pattern: &linePattern, Stream: parser.Stderr, Build: build}

// Definition describes the go vet adapter.
func Definition() adapter.Definition {
	return adapter.Definition{
		Name:        Name,
		DisplayName: "GOVET",
		Info: adapter.Info{
			Name:        "Go vet",
			URI:         "https://pkg.go.dev/cmd/vet",
			Description: "Vet examines Go source code and reports suspicious constructs",
		},
		Binary: "go",
		Family: adapter.Global,
		Options: []lint.Option{
			{Name: optionTags, Type: lint.TypeStringList, Help: "Build tags to consider satisfied during the analysis."},
		},
		MandatoryFlags: func(v lint.Values, _ adapter.Env) []string {
			flags := []string{"vet"}
			if tags := v.List(optionTags); len(tags) > 0 {
				flags = append(flags, "-tags="+strings.Join(tags, ","))
			}
			return flags
		},
		Exit: &parser.ExitPolicy{
			Codes:     map[int]parser.Outcome{0: parser.Clean, 1: parser.Parse},
			Otherwise: parser.Fatal,
		},
		Parser:          parser.Func(parse),
		DefaultSeverity: lint.Constant(lint.SeverityError),
		Version:         &adapter.VersionQuery{Args: []string{"version"}, Pattern: &versionPattern},
		Install:         "Install Go from https://go.dev/dl/",
	}
}

// parse reads vet diagnostics from stderr. vet exits 1 for build failures
// too, which produce no diagnostic lines and are reported as parse errors.
func parse(in *parser.Input) ([]lint.Finding, error) {
	findings, err := diagnostics.Parse(in)
	if err != nil {
		return nil, err
	}
	if len(findings) == 0 {
		return nil, in.ParseError(errors.New("go vet failed without reporting diagnostics"))
	}
	return findings, nil
}

func build(in *parser.Input, m parser.Match) (lint.Finding, bool) {
	file := filepath.ToSlash(filepath.Clean(m["file"]))
	target := filepath.ToSlash(filepath.Clean(in.Path))
	if !strings.HasSuffix(target, file) && !strings.HasSuffix(file, target) {
		return lint.Finding{}, false
	}
	return lint.Finding{
		Path:        in.Path,
		Line:        m.Int("line"),
		Column:      m.Int("col"),
		Code:        "GOVET",
		Description: strings.TrimSpace(m["message"]),
		Severity:    in.Severity("GOVET"),
	}, true
}
