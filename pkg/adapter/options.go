package adapter

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
	"github.com/google/shlex"

	"github.com/scan-io-git/lint-adapters/pkg/lint"
)

// Option keys understood by every adapter.
const (
	OptionBin           = "bin"
	OptionFlags         = "flags"
	OptionInterpreter   = "interpreter"
	OptionVersion       = "version"
	OptionSeverity      = "severity"
	OptionSeverityRules = "severity.rules"
)

var externalOptions = []lint.Option{
	{Name: OptionBin, Type: lint.TypeString, Help: "Specify a string identifying the binary which should be invoked to execute this linter. This overrides the default binary."},
	{Name: OptionFlags, Type: lint.TypeStringList, Help: "Provide a list of additional flags to pass to the linter on the command line. These replace the default flags."},
	{Name: OptionInterpreter, Type: lint.TypeString, Help: "Specify the interpreter used to run the linter binary, e.g. `node --max-old-space-size=4096`."},
	{Name: OptionVersion, Type: lint.TypeString, Help: "Specify a version requirement for the binary, e.g. `>=5.12.0`."},
}

var severityOptions = []lint.Option{
	{Name: OptionSeverity, Type: lint.TypeStringMap, Help: "Provide a map from lint codes to adjusted severity levels: error, warning, advice, autofix or disabled."},
	{Name: OptionSeverityRules, Type: lint.TypeStringMap, Help: "Provide a map of regular expressions to severity levels. All matching codes have their severity adjusted."},
}

func (d *Definition) schema() lint.Schema {
	var base []lint.Option
	if !d.Builtin {
		base = append(base, externalOptions...)
	}
	if !d.FixedSeverity {
		base = append(base, severityOptions...)
	}

	fragments := []lint.Fragment{{Owner: "base", Options: base}}
	if d.Family.Options != nil && !d.Builtin {
		fragments = append(fragments, lint.Fragment{Owner: d.Family.Name, Options: d.Family.Options(d)})
	}
	fragments = append(fragments, lint.Fragment{Owner: d.Name, Options: d.Options})
	return lint.NewSchema(fragments...)
}

// apply validates values of the shared options at configuration time.
func (a *Adapter) apply(key string, value interface{}) error {
	switch key {
	case OptionSeverity:
		overrides, err := lint.ParseSeverityMap(value.(map[string]string))
		if err != nil {
			return err
		}
		a.classifier.Overrides = lint.MergeSeverityMaps(a.classifier.Overrides, overrides)
	case OptionSeverityRules:
		rules, err := lint.ParseSeverityRules(value.(map[string]string))
		if err != nil {
			return err
		}
		a.classifier.Rules = append(a.classifier.Rules, rules...)
	case OptionVersion:
		if _, err := semver.NewConstraint(value.(string)); err != nil {
			return fmt.Errorf("invalid version requirement: %w", err)
		}
	case OptionInterpreter:
		parts, err := shlex.Split(value.(string))
		if err != nil {
			return fmt.Errorf("invalid interpreter: %w", err)
		}
		if len(parts) == 0 {
			return fmt.Errorf("interpreter must not be empty")
		}
	}
	return nil
}

// interpreter returns the configured interpreter, or the definition's.
func (a *Adapter) interpreter() []string {
	if raw := a.values.String(OptionInterpreter); raw != "" {
		// Validated by apply.
		parts, _ := shlex.Split(raw)
		return parts
	}
	return a.def.Interpreter
}
