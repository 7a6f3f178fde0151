package runner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scan-io-git/lint-adapters/pkg/config"
	"github.com/scan-io-git/lint-adapters/pkg/lint"
)

type fakeLinter struct {
	name     string
	skip     string
	version  error
	lint     func(ctx context.Context, path string) ([]lint.Finding, error)
	inflight int32
	peak     int32
}

func (f *fakeLinter) Name() string { return f.name }

func (f *fakeLinter) ShouldSkip(context.Context) (string, bool) { return f.skip, f.skip != "" }

func (f *fakeLinter) CheckVersion(context.Context) error { return f.version }

func (f *fakeLinter) Lint(ctx context.Context, path string) ([]lint.Finding, error) {
	n := atomic.AddInt32(&f.inflight, 1)
	defer atomic.AddInt32(&f.inflight, -1)
	for {
		p := atomic.LoadInt32(&f.peak)
		if n <= p || atomic.CompareAndSwapInt32(&f.peak, p, n) {
			break
		}
	}
	return f.lint(ctx, path)
}

func warnOn(path string) ([]lint.Finding, error) {
	return []lint.Finding{{Path: path, Line: 1, Code: "W1", Name: "W1", Severity: lint.SeverityWarning}}, nil
}

func TestRunIsolatesFailures(t *testing.T) {
	bad := &lint.InvocationError{Linter: "tool", Path: "b.py", ExitCode: 2}
	l := &fakeLinter{name: "tool", lint: func(_ context.Context, path string) ([]lint.Finding, error) {
		if path == "b.py" {
			return nil, bad
		}
		return warnOn(path)
	}}

	r := New(config.Runner{Jobs: 2}, nil)
	res := r.Run(context.Background(), []Target{{Label: "tool", Linter: l}}, []string{"c.py", "a.py", "b.py"})

	require.Len(t, res.Report, 2)
	assert.Equal(t, "a.py", res.Report[0].Path)
	assert.Equal(t, "c.py", res.Report[1].Path)
	assert.Equal(t, "tool", res.Report[0].Linter)

	require.Len(t, res.Failures, 1)
	assert.Equal(t, "b.py", res.Failures[0].Path)
	assert.True(t, errors.Is(res.Err(), bad))

	m := r.Metrics()
	assert.Equal(t, float64(2), testutil.ToFloat64(m.invocations.WithLabelValues("tool", OutcomeFindings)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.invocations.WithLabelValues("tool", OutcomeFailed)))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.findings.WithLabelValues("tool", "warning")))
}

func TestRunBoundsParallelism(t *testing.T) {
	l := &fakeLinter{name: "slow", lint: func(_ context.Context, path string) ([]lint.Finding, error) {
		time.Sleep(10 * time.Millisecond)
		return nil, nil
	}}
	paths := []string{"1", "2", "3", "4", "5", "6", "7", "8"}

	res := New(config.Runner{Jobs: 3}, nil).Run(context.Background(), []Target{{Label: "slow", Linter: l}}, paths)
	assert.Empty(t, res.Report)
	assert.NoError(t, res.Err())
	assert.LessOrEqual(t, atomic.LoadInt32(&l.peak), int32(3))
}

func TestRunAppliesPathFilter(t *testing.T) {
	l := &fakeLinter{name: "py", lint: func(_ context.Context, path string) ([]lint.Finding, error) { return warnOn(path) }}
	target := Target{Label: "py", Linter: l, Matches: func(p string) bool { return strings.HasSuffix(p, ".py") }}

	res := New(config.Runner{Jobs: 1}, nil).Run(context.Background(), []Target{target}, []string{"a.py", "b.js"})
	require.Len(t, res.Report, 1)
	assert.Equal(t, "a.py", res.Report[0].Path)
}

func TestRunEnforcesTimeout(t *testing.T) {
	l := &fakeLinter{name: "hang", lint: func(ctx context.Context, path string) ([]lint.Finding, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}}

	res := New(config.Runner{Jobs: 1, Timeout: 20 * time.Millisecond}, nil).
		Run(context.Background(), []Target{{Label: "hang", Linter: l}}, []string{"a.py"})
	require.Len(t, res.Failures, 1)
	assert.True(t, errors.Is(res.Failures[0].Err, context.DeadlineExceeded))
}

func TestRunCancelledContext(t *testing.T) {
	var calls int32
	l := &fakeLinter{name: "tool", lint: func(context.Context, string) ([]lint.Finding, error) {
		atomic.AddInt32(&calls, 1)
		return nil, nil
	}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := New(config.Runner{Jobs: 1}, nil).Run(ctx, []Target{{Label: "tool", Linter: l}}, []string{"a", "b"})
	assert.Len(t, res.Failures, 2)
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestPrepareSkipsPreconditionsAndOutdated(t *testing.T) {
	targets := []Target{
		{Label: "ok", Linter: &fakeLinter{name: "ok"}},
		{Label: "yarn", Linter: &fakeLinter{name: "yarn", skip: "no node_modules"}},
		{Label: "old", Linter: &fakeLinter{name: "old", version: &lint.OutdatedError{Linter: "old", Required: ">=2", Found: "1.0.0"}}},
		{Label: "bad", Linter: &fakeLinter{name: "bad", version: lint.NewOptionError("bad", "version", errors.New("invalid constraint"))}},
	}

	r := New(config.Runner{Jobs: 1}, nil)
	ready, skipped, err := r.Prepare(context.Background(), targets)

	require.Len(t, ready, 1)
	assert.Equal(t, "ok", ready[0].Label)
	require.Len(t, skipped, 2)
	assert.Equal(t, "no node_modules", skipped[0].Reason)
	assert.Contains(t, skipped[1].Reason, "1.0.0")

	var optErr *lint.OptionError
	assert.True(t, errors.As(err, &optErr))
	assert.Equal(t, float64(1), testutil.ToFloat64(r.Metrics().invocations.WithLabelValues("old", OutcomeSkipped)))
}

func TestMetricsWriteToTextfile(t *testing.T) {
	l := &fakeLinter{name: "tool", lint: func(_ context.Context, path string) ([]lint.Finding, error) { return warnOn(path) }}
	r := New(config.Runner{Jobs: 1}, nil)
	r.Run(context.Background(), []Target{{Label: "tool", Linter: l}}, []string{"a.py"})

	out := filepath.Join(t.TempDir(), "lint.prom")
	require.NoError(t, r.Metrics().WriteToTextfile(out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `lint_invocations_total{linter="tool",outcome="findings"} 1`)
	assert.Contains(t, string(data), "lint_invocation_duration_seconds_bucket")
}
