package parser

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	deferredregex "github.com/peterebden/go-deferred-regex"

	"github.com/scan-io-git/lint-adapters/pkg/lint"
)

// Bounded joins every line strictly between a start marker line and the
// following end marker line into a single finding. Markers are matched as
// whole words, ignoring case.
type Bounded struct {
	start  *deferredregex.DeferredRegex
	end    *deferredregex.DeferredRegex
	Stream Stream
	// Code is classified to pick the finding severity.
	Code string
	// Build, when set, replaces the default finding construction.
	Build func(in *Input, description string) lint.Finding
}

// NewBounded builds a Bounded parser for the start and end marker words.
func NewBounded(start, end string) Bounded {
	return Bounded{start: wordPattern(start), end: wordPattern(end)}
}

func wordPattern(word string) *deferredregex.DeferredRegex {
	return &deferredregex.DeferredRegex{Re: `(?i)\b` + regexp.QuoteMeta(word) + `\b`}
}

// Parse implements Parser. Output without a start marker has no findings; a
// start marker without an end marker is a parse error.
func (b Bounded) Parse(in *Input) ([]lint.Finding, error) {
	if b.start == nil || b.end == nil {
		return nil, errors.New("bounded parser built without markers")
	}

	lines := splitLines(b.Stream.read(in))
	first := -1
	for i, line := range lines {
		if b.start.FindStringSubmatch(line) != nil {
			first = i
			break
		}
	}
	if first < 0 {
		return nil, nil
	}

	last := -1
	for i := first + 1; i < len(lines); i++ {
		if b.end.FindStringSubmatch(lines[i]) != nil {
			last = i
			break
		}
	}
	if last < 0 {
		return nil, in.ParseError(fmt.Errorf("found start marker on line %d but no end marker", first+1))
	}

	body := lines[first+1 : last]
	if len(body) == 0 {
		return nil, nil
	}
	description := strings.Join(body, "\n")

	if b.Build != nil {
		return []lint.Finding{b.Build(in, description)}, nil
	}
	return []lint.Finding{{
		Path:        in.Path,
		Code:        Or(b.Code, in.Linter),
		Description: description,
		Severity:    in.Severity(b.Code),
	}}, nil
}
