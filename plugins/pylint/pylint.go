// Package pylint runs pylint over python files.
package pylint

import (
	"strings"

	deferredregex "github.com/peterebden/go-deferred-regex"

	"github.com/scan-io-git/lint-adapters/pkg/adapter"
	"github.com/scan-io-git/lint-adapters/pkg/lint"
	"github.com/scan-io-git/lint-adapters/pkg/parser"
)

const (
	Name = "pylint"
	// Alias is the name older configuration files use.
	Alias = "pinterest-pylint"
)

const optionRcfile = "pylint.rcfile"

// msgTemplate must stay in sync with linePattern.
const msgTemplate = "{path}:{line}:{column}:{msg_id}:{msg}"

var (
	linePattern    = deferredregex.DeferredRegex{Re: `^(?:[^:]*):(?P<line>\d+):(?P<col>\d+):(?P<code>[A-Z]\d+):(?P<message>.*)$`}
	versionPattern = deferredregex.DeferredRegex{Re: `^pylint (\d+\.\d+\.\d+)`}
)

// Definition describes the pylint adapter.
func Definition() adapter.Definition {
	return adapter.Definition{
		Name:        Name,
		DisplayName: "PYLINT",
		Info: adapter.Info{
			Name:        "pylint",
			URI:         "https://pylint.readthedocs.io/",
			Description: "Static code analysis for Python",
		},
		Binary: "pylint",
		Family: adapter.Python,
		Options: []lint.Option{
			{Name: optionRcfile, Type: lint.TypeString, Help: "Path to the pylint configuration file."},
		},
		MandatoryFlags: func(v lint.Values, _ adapter.Env) []string {
			flags := []string{"--msg-template=" + msgTemplate, "--reports=no", "--score=no"}
			if rc := v.String(optionRcfile); rc != "" {
				flags = append(flags, "--rcfile="+rc)
			}
			return flags
		},
		// The exit status is a bit mask of the message categories found;
		// only 32 means pylint itself failed.
		Exit: &parser.ExitPolicy{
			Codes:     map[int]parser.Outcome{32: parser.Fatal},
			Otherwise: parser.Parse,
			Reasons:   map[int]string{32: "usage error"},
		},
		Parser:          parser.Lines{Pattern: &linePattern, Build: build},
		DefaultSeverity: defaultSeverity,
		Version:         &adapter.VersionQuery{Args: []string{"--version"}, Pattern: &versionPattern},
		Install:         "Install pylint using `pip install pylint`.",
	}
}

func build(in *parser.Input, m parser.Match) (lint.Finding, bool) {
	code := m["code"]
	f := lint.Finding{
		Path:        in.Path,
		Line:        m.Int("line"),
		Code:        code,
		Name:        "PYLINT",
		Description: strings.TrimSpace(m["message"]),
		Severity:    in.Severity(code),
	}
	if f.Line > 0 {
		// pylint columns are 0-indexed.
		f.Column = m.Int("col") + 1
	}
	return f, true
}

// defaultSeverity classifies by message category letter.
func defaultSeverity(code string) (lint.Severity, bool) {
	if code == "" {
		return lint.SeverityDisabled, true
	}
	switch code[0] {
	case 'R', 'C':
		return lint.SeverityAdvice, true
	case 'W':
		return lint.SeverityWarning, true
	case 'E', 'F':
		return lint.SeverityError, true
	}
	return lint.SeverityDisabled, true
}
