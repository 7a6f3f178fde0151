package parser

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/scan-io-git/lint-adapters/pkg/lint"
)

// JSON decodes stdout into T and extracts findings with Map.
//
// Every returned finding has Line and Column of at least 1. Map is expected
// to add 1 to 0-indexed positions; anything still below 1 is clamped.
type JSON[T any] struct {
	Map func(in *Input, doc T) []lint.Finding
	// AllowEmpty treats blank stdout as zero findings instead of a parse error.
	AllowEmpty bool
}

// Parse implements Parser.
func (j JSON[T]) Parse(in *Input) ([]lint.Finding, error) {
	out := strings.TrimSpace(in.Stdout)
	if out == "" {
		if j.AllowEmpty {
			return nil, nil
		}
		return nil, in.ParseError(errors.New("expected a JSON document, got empty output"))
	}

	var doc T
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		return nil, in.ParseError(err)
	}

	findings := j.Map(in, doc)
	for i := range findings {
		if findings[i].Path == "" {
			findings[i].Path = in.Path
		}
		if findings[i].Line < 1 {
			findings[i].Line = 1
		}
		if findings[i].Column < 1 {
			findings[i].Column = 1
		}
	}
	return findings, nil
}
