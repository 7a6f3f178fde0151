package parser

import (
	"strconv"
	"strings"

	deferredregex "github.com/peterebden/go-deferred-regex"

	"github.com/scan-io-git/lint-adapters/pkg/lint"
)

// Match holds the named groups of one matched line.
type Match map[string]string

// Int returns the integer value of group name, or 0.
func (m Match) Int(name string) int {
	n, err := strconv.Atoi(strings.TrimSpace(m[name]))
	if err != nil {
		return 0
	}
	return n
}

// Lines applies Pattern to each line of the selected stream. Lines that do
// not match are skipped.
//
// Recognized group names: line, col, severity, code, name, message. Without a
// Build hook, severity is classified from the code group, falling back to the
// severity group.
type Lines struct {
	Pattern *deferredregex.DeferredRegex
	Stream  Stream
	// Build customises how a match becomes a finding. Returning false drops it.
	Build func(in *Input, m Match) (lint.Finding, bool)
}

// Parse implements Parser.
func (l Lines) Parse(in *Input) ([]lint.Finding, error) {
	var findings []lint.Finding
	names := l.Pattern.SubexpNames()
	for _, line := range splitLines(l.Stream.read(in)) {
		groups := l.Pattern.FindStringSubmatch(line)
		if groups == nil {
			continue
		}
		m := make(Match, len(groups))
		// The first entry is the complete match.
		for i, value := range groups[1:] {
			if name := names[i+1]; name != "" {
				m[name] = value
			}
		}

		build := l.Build
		if build == nil {
			build = defaultBuild
		}
		if f, ok := build(in, m); ok {
			findings = append(findings, f)
		}
	}
	return findings, nil
}

func defaultBuild(in *Input, m Match) (lint.Finding, bool) {
	code := strings.TrimSpace(m["code"])
	key := code
	if key == "" {
		key = strings.TrimSpace(m["severity"])
	}
	f := lint.Finding{
		Path:        in.Path,
		Line:        m.Int("line"),
		Column:      m.Int("col"),
		Code:        Or(code, in.Linter),
		Name:        strings.TrimSpace(m["name"]),
		Description: strings.TrimSpace(m["message"]),
		Severity:    in.Severity(key),
	}
	if f.Line == 0 {
		f.Column = 0
	}
	return f, true
}
