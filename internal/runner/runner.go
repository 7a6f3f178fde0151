// Package runner drives configured linters over a batch of files.
package runner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"

	"github.com/scan-io-git/lint-adapters/internal/report"
	"github.com/scan-io-git/lint-adapters/pkg/config"
	"github.com/scan-io-git/lint-adapters/pkg/lint"
)

// Linter is the part of an adapter the runner needs.
type Linter interface {
	Name() string
	Lint(ctx context.Context, path string) ([]lint.Finding, error)
	ShouldSkip(ctx context.Context) (string, bool)
	CheckVersion(ctx context.Context) error
}

// Target is a linter bound to a configuration label and path filter.
type Target struct {
	Label   string
	Linter  Linter
	Matches func(path string) bool
}

func (t Target) applies(path string) bool {
	return t.Matches == nil || t.Matches(path)
}

// Skipped is a target disabled before linting began.
type Skipped struct {
	Label  string
	Reason string
}

// Failure is one (linter, file) pair that could not be linted.
type Failure struct {
	Label string
	Path  string
	Err   error
}

// Result is the outcome of a run.
type Result struct {
	Report   report.Report
	Skipped  []Skipped
	Failures []Failure
}

// Err aggregates all per-file failures, or returns nil.
func (r *Result) Err() error {
	var result *multierror.Error
	for _, f := range r.Failures {
		result = multierror.Append(result, f.Err)
	}
	return result.ErrorOrNil()
}

// Runner lints files with bounded parallelism.
type Runner struct {
	jobs    int
	timeout time.Duration
	logger  hclog.Logger
	metrics *Metrics
}

// New creates a runner from its configuration.
func New(cfg config.Runner, logger hclog.Logger) *Runner {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	jobs := cfg.Jobs
	if jobs < 1 {
		jobs = 1
	}
	return &Runner{
		jobs:    jobs,
		timeout: cfg.Timeout,
		logger:  logger.Named("runner"),
		metrics: NewMetrics(),
	}
}

// Metrics returns the metrics recorded so far.
func (r *Runner) Metrics() *Metrics {
	return r.metrics
}

// Prepare drops targets whose tool precondition or version requirement
// fails. Option errors in the version constraint are returned.
func (r *Runner) Prepare(ctx context.Context, targets []Target) ([]Target, []Skipped, error) {
	var ready []Target
	var skipped []Skipped
	var errs *multierror.Error

	for _, t := range targets {
		if reason, skip := t.Linter.ShouldSkip(ctx); skip {
			r.logger.Info("skipping linter", "linter", t.Label, "reason", reason)
			r.metrics.observe(t.Label, OutcomeSkipped, 0, nil)
			skipped = append(skipped, Skipped{Label: t.Label, Reason: reason})
			continue
		}
		if err := t.Linter.CheckVersion(ctx); err != nil {
			var outdated *lint.OutdatedError
			if !errors.As(err, &outdated) {
				errs = multierror.Append(errs, err)
				continue
			}
			r.logger.Warn("skipping linter", "linter", t.Label, "reason", err)
			r.metrics.observe(t.Label, OutcomeSkipped, 0, nil)
			skipped = append(skipped, Skipped{Label: t.Label, Reason: err.Error()})
			continue
		}
		ready = append(ready, t)
	}
	return ready, skipped, errs.ErrorOrNil()
}

// Run lints every path with every target that applies to it. A failure on
// one file never stops the others.
func (r *Runner) Run(ctx context.Context, targets []Target, paths []string) *Result {
	var (
		mu     sync.Mutex
		result = &Result{}
		g      errgroup.Group
	)
	g.SetLimit(r.jobs)

	for _, t := range targets {
		t := t
		for _, path := range paths {
			path := path
			if !t.applies(path) {
				continue
			}
			g.Go(func() error {
				entries, err := r.lintOne(ctx, t, path)
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					result.Failures = append(result.Failures, Failure{Label: t.Label, Path: path, Err: err})
					return nil
				}
				result.Report = append(result.Report, entries...)
				return nil
			})
		}
	}
	_ = g.Wait()

	result.Report = result.Report.Deduplicate()
	result.Report.Sort()
	return result
}

func (r *Runner) lintOne(ctx context.Context, t Target, path string) (report.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("linter %q on %s: %w", t.Label, path, err)
	}
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	start := time.Now()
	findings, err := t.Linter.Lint(ctx, path)
	elapsed := time.Since(start)
	if err != nil {
		r.logger.Error("linter failed", "linter", t.Label, "path", path, "error", err)
		r.metrics.observe(t.Label, OutcomeFailed, elapsed, nil)
		return nil, err
	}

	outcome := OutcomeClean
	if len(findings) > 0 {
		outcome = OutcomeFindings
	}
	r.metrics.observe(t.Label, outcome, elapsed, findings)
	r.logger.Debug("linted", "linter", t.Label, "path", path, "findings", len(findings), "elapsed", elapsed)

	entries := make(report.Report, 0, len(findings))
	for _, f := range findings {
		entries = append(entries, report.Entry{Linter: t.Label, Finding: f})
	}
	return entries, nil
}
