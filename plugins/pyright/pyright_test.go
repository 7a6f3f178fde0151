package pyright

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scan-io-git/lint-adapters/pkg/adapter"
	"github.com/scan-io-git/lint-adapters/pkg/lint"
	"github.com/scan-io-git/lint-adapters/pkg/parser"
	"github.com/scan-io-git/lint-adapters/pkg/process"
)

func newAdapter(t *testing.T, res process.Result, seen *process.Command) *adapter.Adapter {
	t.Helper()
	inv := process.InvokerFunc(func(_ context.Context, cmd process.Command) (process.Result, error) {
		if cmd.Executable == "yarn" || cmd.Executable == "npm" {
			return process.Result{ExitCode: 1}, nil
		}
		if seen != nil {
			*seen = cmd
		}
		return res, nil
	})
	return adapter.New(Definition(), adapter.Deps{Invoker: inv, Env: adapter.Env{Root: t.TempDir()}})
}

func TestPyrightDiagnostics(t *testing.T) {
	out := `{
  "version": "1.1.350",
  "generalDiagnostics": [
    {"file": "/src/a.py", "severity": "error", "message": "\"foo\" is not defined", "rule": "reportUndefinedVariable",
     "range": {"start": {"line": 2, "character": 4}, "end": {"line": 2, "character": 7}}},
    {"file": "/src/a.py", "severity": "information", "message": "Import cycle",
     "range": {"start": {"line": 0, "character": 0}, "end": {"line": 0, "character": 1}}},
    {"file": "/src/a.py", "severity": "warning", "message": "long rule", "rule": "` + strings.Repeat("r", 200) + `",
     "range": {"start": {"line": 5, "character": 0}, "end": {"line": 5, "character": 1}}}
  ],
  "summary": {"filesAnalyzed": 1, "errorCount": 1, "warningCount": 1, "informationCount": 1}
}`

	var seen process.Command
	a := newAdapter(t, process.Result{ExitCode: 1, Stdout: out}, &seen)
	require.NoError(t, a.ConfigureAll(map[string]interface{}{
		optionProject:  "pyrightconfig.json",
		optionVenvPath: "/venvs",
		"severity":     map[string]interface{}{"reportUndefinedVariable": "warning"},
	}))

	findings, err := a.Lint(context.Background(), "a.py")
	require.NoError(t, err)
	assert.Equal(t, []string{"--outputjson", "--project", "pyrightconfig.json", "--venv-path", "/venvs", "a.py"}, seen.Args)

	require.Len(t, findings, 3)
	assert.Equal(t, 3, findings[0].Line)
	assert.Equal(t, 5, findings[0].Column)
	assert.Equal(t, lint.SeverityWarning, findings[0].Severity, "configured override")
	assert.Equal(t, "a.py", findings[0].Path)

	assert.Equal(t, parser.Unknown, findings[1].Code)
	assert.Equal(t, lint.SeverityAdvice, findings[1].Severity)
	assert.Equal(t, 1, findings[1].Line)

	assert.Len(t, findings[2].Code, maxCodeLength)
	assert.Equal(t, lint.SeverityWarning, findings[2].Severity)
}

func TestPyrightExitCodes(t *testing.T) {
	tests := []struct {
		code   int
		reason string
	}{
		{code: 2, reason: "fatal error with no diagnostics reported"},
		{code: 3, reason: "config file could not be read or parsed"},
	}
	for _, tt := range tests {
		a := newAdapter(t, process.Result{ExitCode: tt.code, Stdout: "not json"}, nil)
		_, err := a.Lint(context.Background(), "a.py")
		var invErr *lint.InvocationError
		require.ErrorAs(t, err, &invErr)
		assert.Equal(t, tt.reason, invErr.Reason)
	}

	a := newAdapter(t, process.Result{ExitCode: 0, Stdout: "not json"}, nil)
	findings, err := a.Lint(context.Background(), "a.py")
	require.NoError(t, err)
	assert.Empty(t, findings)
}

func TestPyrightVersion(t *testing.T) {
	a := newAdapter(t, process.Result{Stdout: "pyright 1.1.350\n"}, nil)
	v, ok := a.Version(context.Background())
	require.True(t, ok)
	assert.Equal(t, "1.1.350", v)
}
