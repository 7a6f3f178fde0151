package lint

import (
	"fmt"
	"sort"

	"github.com/scan-io-git/lint-adapters/internal/registry"
	"github.com/scan-io-git/lint-adapters/internal/report"
	"github.com/scan-io-git/lint-adapters/pkg/config"
	"github.com/scan-io-git/lint-adapters/pkg/lint"
)

// validatedOptions are the lint arguments after parsing.
type validatedOptions struct {
	linters     []string
	format      report.Format
	minSeverity lint.Severity
	failOn      lint.Severity
}

// validateLintArgs validates the arguments provided to the lint command.
func validateLintArgs(opts *RunOptionsLint, cfg *config.Config) (*validatedOptions, error) {
	var (
		out validatedOptions
		err error
	)

	if out.format, err = report.ParseFormat(opts.Format); err != nil {
		return nil, err
	}
	if out.minSeverity, err = lint.ParseSeverity(opts.MinSeverity); err != nil {
		return nil, fmt.Errorf("the 'severity' flag is invalid: %w", err)
	}
	if out.failOn, err = lint.ParseSeverity(opts.FailOn); err != nil {
		return nil, fmt.Errorf("the 'fail-on' flag is invalid: %w", err)
	}
	if opts.Jobs <= 0 {
		return nil, fmt.Errorf("the 'jobs' flag must be a positive integer")
	}

	out.linters = opts.Linters
	if len(out.linters) == 0 {
		for label := range cfg.Linters {
			out.linters = append(out.linters, label)
		}
		sort.Strings(out.linters)
	}
	if len(out.linters) == 0 {
		return nil, fmt.Errorf("no linters configured: add a 'linters' directive to the config file or use the 'linter' flag")
	}

	for _, label := range out.linters {
		if _, ok := cfg.Linters[label]; ok {
			continue
		}
		if _, ok := registry.Lookup(label); !ok {
			return nil, &registry.ErrUnknownLinter{Name: label}
		}
	}
	return &out, nil
}
