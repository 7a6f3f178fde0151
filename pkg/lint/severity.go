package lint

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Severity is the normalized classification of a finding.
// The declaration order is significant: DISABLED < ADVICE < AUTOFIX < WARNING < ERROR.
type Severity int

const (
	SeverityDisabled Severity = iota
	SeverityAdvice
	SeverityAutofix
	SeverityWarning
	SeverityError
)

var severityNames = map[Severity]string{
	SeverityDisabled: "disabled",
	SeverityAdvice:   "advice",
	SeverityAutofix:  "autofix",
	SeverityWarning:  "warning",
	SeverityError:    "error",
}

// String returns the lower-case name used in configuration files.
func (s Severity) String() string {
	if name, ok := severityNames[s]; ok {
		return name
	}
	return fmt.Sprintf("severity(%d)", int(s))
}

// MarshalText implements encoding.TextMarshaler so findings serialize with readable severities.
func (s Severity) MarshalText() ([]byte, error) {
	if _, ok := severityNames[s]; !ok {
		return nil, fmt.Errorf("invalid severity %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(text []byte) error {
	parsed, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// AtLeast reports whether s is ordered at or above other.
func (s Severity) AtLeast(other Severity) bool {
	return s >= other
}

// ParseSeverity converts a configuration name into a Severity. Matching is case-insensitive.
func ParseSeverity(name string) (Severity, error) {
	needle := strings.ToLower(strings.TrimSpace(name))
	for sev, n := range severityNames {
		if n == needle {
			return sev, nil
		}
	}
	return SeverityDisabled, fmt.Errorf("unknown severity %q (expected one of disabled, advice, autofix, warning, error)", name)
}

// Severities returns every severity in ascending order.
func Severities() []Severity {
	return []Severity{SeverityDisabled, SeverityAdvice, SeverityAutofix, SeverityWarning, SeverityError}
}

// MergeSeverityMaps returns a new map holding defaults overlaid with overrides.
// Neither input is modified.
func MergeSeverityMaps(defaults, overrides map[string]Severity) map[string]Severity {
	merged := make(map[string]Severity, len(defaults)+len(overrides))
	for code, sev := range defaults {
		merged[code] = sev
	}
	for code, sev := range overrides {
		merged[code] = sev
	}
	return merged
}

// SeverityRule maps every code matching Pattern to Severity.
type SeverityRule struct {
	Pattern  *regexp.Regexp
	Severity Severity
}

// Classifier maps tool-specific codes to severities.
// Lookup order: exact overrides, then rules in order, then Default, then WARNING.
type Classifier struct {
	Overrides map[string]Severity
	Rules     []SeverityRule
	Default   func(code string) (Severity, bool)
}

// Classify returns the severity for code. It is total and has no side effects.
func (c *Classifier) Classify(code string) Severity {
	if c == nil {
		return SeverityWarning
	}
	if sev, ok := c.Overrides[code]; ok {
		return sev
	}
	for _, rule := range c.Rules {
		if rule.Pattern.MatchString(code) {
			return rule.Severity
		}
	}
	if c.Default != nil {
		if sev, ok := c.Default(code); ok {
			return sev
		}
	}
	return SeverityWarning
}

// ClassifyOr applies overrides and rules to code and returns fallback when
// neither matches. Tools that report their own level use it so users can still
// remap individual codes.
func (c *Classifier) ClassifyOr(code string, fallback Severity) Severity {
	if c == nil {
		return fallback
	}
	if sev, ok := c.Overrides[code]; ok {
		return sev
	}
	for _, rule := range c.Rules {
		if rule.Pattern.MatchString(code) {
			return rule.Severity
		}
	}
	return fallback
}

// FixedMap builds a Default function from a static code table.
func FixedMap(table map[string]Severity) func(string) (Severity, bool) {
	return func(code string) (Severity, bool) {
		sev, ok := table[code]
		return sev, ok
	}
}

// Constant builds a Default function returning sev for every code.
func Constant(sev Severity) func(string) (Severity, bool) {
	return func(string) (Severity, bool) {
		return sev, true
	}
}

// ParseSeverityMap validates a map of code -> severity name.
func ParseSeverityMap(raw map[string]string) (map[string]Severity, error) {
	out := make(map[string]Severity, len(raw))
	for code, name := range raw {
		sev, err := ParseSeverity(name)
		if err != nil {
			return nil, fmt.Errorf("code %q: %w", code, err)
		}
		out[code] = sev
	}
	return out, nil
}

// ParseSeverityRules compiles a map of regular expression -> severity name.
// Rules are ordered by pattern so evaluation is deterministic.
func ParseSeverityRules(raw map[string]string) ([]SeverityRule, error) {
	patterns := make([]string, 0, len(raw))
	for pattern := range raw {
		patterns = append(patterns, pattern)
	}
	sort.Strings(patterns)

	rules := make([]SeverityRule, 0, len(patterns))
	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid severity rule %q: %w", pattern, err)
		}
		sev, err := ParseSeverity(raw[pattern])
		if err != nil {
			return nil, fmt.Errorf("severity rule %q: %w", pattern, err)
		}
		rules = append(rules, SeverityRule{Pattern: re, Severity: sev})
	}
	return rules, nil
}
