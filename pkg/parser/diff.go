package parser

import (
	"github.com/scan-io-git/lint-adapters/pkg/lint"
)

// Diff compares the tool's rewritten file on stdout with the original content.
// A whole-file rewrite becomes one AUTOFIX finding anchored at 1:1 that
// bypasses changed-line filtering.
type Diff struct {
	Code        string
	Name        string
	Description string
}

// NeedsContent implements ContentParser.
func (Diff) NeedsContent() bool {
	return true
}

// Parse implements Parser. Empty stdout means the tool skipped the file.
func (d Diff) Parse(in *Input) ([]lint.Finding, error) {
	if in.Stdout == "" || in.Stdout == in.Original {
		return nil, nil
	}
	f := lint.NewAutofix(in.Path, 1, 1, in.Original, in.Stdout)
	f.Code = Or(d.Code, in.Linter)
	f.Name = d.Name
	f.Description = d.Description
	f.BypassChangedLineFiltering = true
	return []lint.Finding{f}, nil
}
