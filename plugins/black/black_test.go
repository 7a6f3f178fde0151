package black

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scan-io-git/lint-adapters/pkg/adapter"
	"github.com/scan-io-git/lint-adapters/pkg/lint"
	"github.com/scan-io-git/lint-adapters/pkg/process"
)

type stubInvoker map[string]process.Result

func (s stubInvoker) Invoke(_ context.Context, cmd process.Command) (process.Result, error) {
	return s[cmd.Executable], nil
}

func newAdapter(t *testing.T, inv process.Invoker) *adapter.Adapter {
	return adapter.New(Definition(), adapter.Deps{Invoker: inv, Env: adapter.Env{Root: t.TempDir(), VirtualEnvActive: true}})
}

func TestBlackCleanFile(t *testing.T) {
	a := newAdapter(t, stubInvoker{"black": {ExitCode: 0}})
	findings, err := a.Lint(context.Background(), "a.py")
	require.NoError(t, err)
	assert.Empty(t, findings)
}

func TestBlackNeedsFormatting(t *testing.T) {
	a := newAdapter(t, stubInvoker{"black": {ExitCode: 1}})
	require.NoError(t, a.Configure("flags", []interface{}{"--line-length", "100"}))

	findings, err := a.Lint(context.Background(), "src/my file.py")
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, "Please run `black --line-length 100 'src/my file.py'`\n", findings[0].Description)
	assert.Equal(t, lint.SeverityAdvice, findings[0].Severity)
	assert.Equal(t, "BLACK", findings[0].Name)
}

func TestBlackInternalErrorIsFatal(t *testing.T) {
	a := newAdapter(t, stubInvoker{"black": {ExitCode: 123, Stderr: "error: cannot format a.py"}})
	_, err := a.Lint(context.Background(), "a.py")

	var invErr *lint.InvocationError
	require.ErrorAs(t, err, &invErr)
	assert.Equal(t, "black failed to parse the file", invErr.Reason)
}

func TestBlackPythonRequirement(t *testing.T) {
	inv := stubInvoker{"python3": {Stdout: "Python 3.7.3\n"}}

	a := newAdapter(t, inv)
	require.NoError(t, a.Configure(optionPython, ">=3.8"))
	reason, skip := a.ShouldSkip(context.Background())
	assert.True(t, skip)
	assert.Contains(t, reason, "returned '3.7.3'")

	b := newAdapter(t, inv)
	require.NoError(t, b.Configure(optionPython, "<3.8"))
	_, skip = b.ShouldSkip(context.Background())
	assert.False(t, skip)

	c := newAdapter(t, inv)
	assert.Error(t, c.Configure(optionPython, "three point eight"))
}

func TestBlackVersion(t *testing.T) {
	for out, want := range map[string]string{
		"black, 23.1.0 (compiled: yes)\n": "23.1.0",
		"black, version 19.10b0\n":        "19.10b0",
	} {
		a := newAdapter(t, stubInvoker{"black": {Stdout: out}})
		v, ok := a.Version(context.Background())
		require.True(t, ok)
		assert.Equal(t, want, v)
	}
}
