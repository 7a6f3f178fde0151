package lint

import "fmt"

// Autofix carries a verbatim replacement for OriginalText at the finding's location.
type Autofix struct {
	OriginalText    string `json:"original_text"`
	ReplacementText string `json:"replacement_text"`
}

// Finding is one normalized issue or fix suggestion produced by an adapter for one file.
type Finding struct {
	Path        string   `json:"path"`
	Line        int      `json:"line,omitempty"`   // 1-indexed, 0 means file level
	Column      int      `json:"column,omitempty"` // 1-indexed, 0 means unknown
	Code        string   `json:"code"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
	Autofix     *Autofix `json:"autofix,omitempty"`

	// BypassChangedLineFiltering asks the host to report the finding even when
	// it only shows issues on changed lines.
	BypassChangedLineFiltering bool `json:"bypass_changed_line_filtering,omitempty"`
}

// NewAutofix builds an AUTOFIX finding at line/column replacing original with replacement.
func NewAutofix(path string, line, column int, original, replacement string) Finding {
	return Finding{
		Path:     path,
		Line:     line,
		Column:   column,
		Severity: SeverityAutofix,
		Autofix: &Autofix{
			OriginalText:    original,
			ReplacementText: replacement,
		},
	}
}

// IsAutofix reports whether the finding carries a replacement payload.
func (f Finding) IsAutofix() bool {
	return f.Severity == SeverityAutofix && f.Autofix != nil
}

// Validate checks the structural invariants of a finding.
func (f Finding) Validate() error {
	if f.Path == "" {
		return fmt.Errorf("finding has no path")
	}
	if f.Line < 0 || f.Column < 0 {
		return fmt.Errorf("finding %s has negative position %d:%d", f.Path, f.Line, f.Column)
	}
	if f.Column > 0 && f.Line == 0 {
		return fmt.Errorf("finding %s has a column without a line", f.Path)
	}
	if f.Severity == SeverityAutofix {
		if f.Autofix == nil {
			return fmt.Errorf("autofix finding %s has no replacement", f.Path)
		}
		if f.Autofix.OriginalText == f.Autofix.ReplacementText {
			return fmt.Errorf("autofix finding %s replaces text with itself", f.Path)
		}
	}
	return nil
}

// Location renders path[:line[:column]].
func (f Finding) Location() string {
	switch {
	case f.Line > 0 && f.Column > 0:
		return fmt.Sprintf("%s:%d:%d", f.Path, f.Line, f.Column)
	case f.Line > 0:
		return fmt.Sprintf("%s:%d", f.Path, f.Line)
	default:
		return f.Path
	}
}
