// Package report renders findings as text, JSON or SARIF.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/owenrumney/go-sarif/v2/sarif"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/scan-io-git/lint-adapters/pkg/adapter"
	"github.com/scan-io-git/lint-adapters/pkg/lint"
)

// Format names an output format.
type Format string

const (
	FormatText  Format = "text"
	FormatJSON  Format = "json"
	FormatSARIF Format = "sarif"
)

// Formats lists the supported formats.
func Formats() []Format {
	return []Format{FormatText, FormatJSON, FormatSARIF}
}

// ParseFormat validates a format name.
func ParseFormat(name string) (Format, error) {
	for _, f := range Formats() {
		if string(f) == strings.ToLower(name) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported output format %q", name)
}

// Entry is a finding attributed to the linter that produced it.
type Entry struct {
	Linter string `json:"linter"`
	lint.Finding
}

// Report is a collection of findings from one run.
type Report []Entry

// Deduplicate removes findings reported more than once by the same linter.
func (report Report) Deduplicate() Report {
	seen := make(map[string]struct{})
	var deduplicated Report

	for _, e := range report {
		uniqueKey := fmt.Sprintf("%s:%s:%s:%s", e.Linter, e.Location(), e.Code, e.Description)
		if _, exists := seen[uniqueKey]; !exists {
			seen[uniqueKey] = struct{}{}
			deduplicated = append(deduplicated, e)
		}
	}

	return deduplicated
}

// Filter keeps the entries keep returns true for.
func (report Report) Filter(keep func(Entry) bool) Report {
	var out Report
	for _, e := range report {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

// AtLeast keeps entries whose severity is min or above.
func (report Report) AtLeast(min lint.Severity) Report {
	return report.Filter(func(e Entry) bool { return e.Severity.AtLeast(min) })
}

// Sort orders entries by path, line, column, then linter and code.
func (report Report) Sort() {
	sort.SliceStable(report, func(i, j int) bool {
		a, b := report[i], report[j]
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		if a.Linter != b.Linter {
			return a.Linter < b.Linter
		}
		return a.Code < b.Code
	})
}

// Counts returns the number of entries per severity.
func (report Report) Counts() map[lint.Severity]int {
	counts := make(map[lint.Severity]int)
	for _, e := range report {
		counts[e.Severity]++
	}
	return counts
}

// Write renders the report in format. tools describes the linters for SARIF runs.
func Write(w io.Writer, format Format, report Report, tools map[string]adapter.Info) error {
	switch format {
	case FormatText:
		_, err := io.WriteString(w, report.Render())
		return err
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if report == nil {
			report = Report{}
		}
		return enc.Encode(report)
	case FormatSARIF:
		s, err := report.SARIF(tools)
		if err != nil {
			return err
		}
		return s.PrettyWrite(w)
	}
	return fmt.Errorf("unsupported output format %q", format)
}

// Render produces a human-readable report grouped by path. Autofixes are
// shown as a line diff.
func (report Report) Render() string {
	var output strings.Builder
	var current string
	for i, e := range report {
		if i == 0 || e.Path != current {
			if i > 0 {
				output.WriteString("\n")
			}
			current = e.Path
			output.WriteString(e.Path + "\n")
		}

		pos := ""
		if e.Line > 0 {
			pos = fmt.Sprintf("%d", e.Line)
			if e.Column > 0 {
				pos += fmt.Sprintf(":%d", e.Column)
			}
		}
		output.WriteString(fmt.Sprintf("  %-8s %-8s %s (%s/%s)\n", pos, e.Severity, firstLine(e.Description, e.Name), e.Linter, e.Code))
		if e.IsAutofix() {
			output.WriteString(LineDiff(e.Autofix.OriginalText, e.Autofix.ReplacementText))
		}
	}
	return output.String()
}

func firstLine(description, fallback string) string {
	description = strings.TrimSpace(description)
	if description == "" {
		return fallback
	}
	if i := strings.IndexByte(description, '\n'); i >= 0 {
		return description[:i]
	}
	return description
}

// LineDiff renders the line-level difference between original and
// replacement, prefixing removed lines with "-" and added lines with "+".
// Unchanged lines are omitted.
func LineDiff(original, replacement string) string {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(original, replacement)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var out strings.Builder
	for _, d := range diffs {
		var prefix string
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "    - "
		case diffmatchpatch.DiffInsert:
			prefix = "    + "
		default:
			continue
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			out.WriteString(prefix + strings.TrimSuffix(line, "\n") + "\n")
		}
	}
	return out.String()
}

// SARIF converts the report into a SARIF 2.1.0 document with one run per linter.
func (report Report) SARIF(tools map[string]adapter.Info) (*sarif.Report, error) {
	reportSarif, err := sarif.New(sarif.Version210)
	if err != nil {
		return nil, fmt.Errorf("failed to create SARIF report: %w", err)
	}

	byLinter := make(map[string]Report)
	for _, e := range report {
		byLinter[e.Linter] = append(byLinter[e.Linter], e)
	}
	linters := make([]string, 0, len(byLinter))
	for name := range byLinter {
		linters = append(linters, name)
	}
	sort.Strings(linters)

	for _, name := range linters {
		info := tools[name]
		toolName := info.Name
		if toolName == "" {
			toolName = name
		}
		run := sarif.NewRunWithInformationURI(toolName, info.URI)
		for _, e := range byLinter[name] {
			level := toSarifLevel(e.Severity)
			rule := run.AddRule(e.Code).
				WithDescription(e.Name).
				WithDefaultConfiguration(&sarif.ReportingConfiguration{Level: level})

			region := sarif.NewRegion()
			if e.Line > 0 {
				region.WithStartLine(e.Line)
			}
			if e.Column > 0 {
				region.WithStartColumn(e.Column)
			}
			location := sarif.NewLocation().WithPhysicalLocation(
				sarif.NewPhysicalLocation().
					WithArtifactLocation(sarif.NewArtifactLocation().WithUri(e.Path)).
					WithRegion(region),
			)

			result := sarif.NewRuleResult(rule.ID).
				WithMessage(sarif.NewTextMessage(firstLine(e.Description, e.Name))).
				WithLevel(level).
				WithLocations([]*sarif.Location{location})
			result.PropertyBag = *sarif.NewPropertyBag()
			result.Add("severity", e.Severity.String())
			if e.IsAutofix() {
				result.Add("replacement", e.Autofix.ReplacementText)
			}
			run.AddResult(result)
		}
		reportSarif.AddRun(run)
	}
	return reportSarif, nil
}

func toSarifLevel(sev lint.Severity) string {
	switch sev {
	case lint.SeverityError:
		return "error"
	case lint.SeverityWarning:
		return "warning"
	case lint.SeverityAdvice, lint.SeverityAutofix:
		return "note"
	default:
		return "none"
	}
}
