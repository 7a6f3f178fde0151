package config

import (
	"fmt"
	"os"
	"regexp"
	"runtime"
	"strconv"
	"time"
)

const maxJobs = 256

// ValidateConfig checks the configuration, applies environment overrides and
// fills defaults.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("YAML config: configuration object is nil")
	}
	if err := ValidateRunnerConfig(&cfg.Runner); err != nil {
		return fmt.Errorf("YAML config: runner directive is invalid: %w", err)
	}
	for name, l := range cfg.Linters {
		if err := ValidateLinterConfig(name, &l); err != nil {
			return fmt.Errorf("YAML config: linters.%s directive is invalid: %w", name, err)
		}
		cfg.Linters[name] = l
	}
	return nil
}

// ValidateRunnerConfig checks the runner settings. LINT_JOBS overrides jobs.
func ValidateRunnerConfig(runner *Runner) error {
	if runner == nil {
		return fmt.Errorf("runner configuration is nil")
	}
	if env := os.Getenv(EnvJobs); env != "" {
		jobs, err := strconv.Atoi(env)
		if err != nil {
			return fmt.Errorf("%s must be an integer: %w", EnvJobs, err)
		}
		runner.Jobs = jobs
	}
	if runner.Jobs == 0 {
		runner.Jobs = runtime.NumCPU()
	}
	if runner.Jobs < 1 || runner.Jobs > maxJobs {
		return fmt.Errorf("jobs must be between 1 and %d: %d", maxJobs, runner.Jobs)
	}
	return validateDuration(runner.Timeout, "timeout", time.Hour)
}

// ValidateLinterConfig compiles the file patterns of one linter.
func ValidateLinterConfig(name string, l *Linter) error {
	if l.Type == "" {
		l.Type = name
	}
	var err error
	if l.include, err = compileAll(l.Include); err != nil {
		return fmt.Errorf("include: %w", err)
	}
	if l.exclude, err = compileAll(l.Exclude); err != nil {
		return fmt.Errorf("exclude: %w", err)
	}
	return nil
}

func compileAll(patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", p, err)
		}
		out = append(out, re)
	}
	return out, nil
}

// validateDuration checks that a time.Duration is valid and within a specified maximum duration.
func validateDuration(d time.Duration, name string, max time.Duration) error {
	if d < 0 {
		return fmt.Errorf("invalid duration for %q: %v cannot be negative", name, d)
	}
	if d > max {
		return fmt.Errorf("%q duration is too long: %v exceeds maximum of %v", name, d, max)
	}
	return nil
}
