package eslint

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scan-io-git/lint-adapters/pkg/adapter"
	"github.com/scan-io-git/lint-adapters/pkg/lint"
	"github.com/scan-io-git/lint-adapters/pkg/process"
)

const output = `[{"filePath":"/repo/src/a.js","messages":[
 {"ruleId":"no-unused-vars","severity":1,"message":"'x' is defined but never used.","line":1,"column":7},
 {"ruleId":null,"severity":2,"message":"Parsing error: Unexpected token","line":3,"column":1,"fatal":true},
 {"ruleId":"eqeqeq","severity":2,"message":"Expected '===' and instead saw '=='.","line":0,"column":0}
],"errorCount":2,"warningCount":1}]`

type recorder struct {
	res  process.Result
	cmds []process.Command
}

func (r *recorder) Invoke(_ context.Context, cmd process.Command) (process.Result, error) {
	r.cmds = append(r.cmds, cmd)
	if cmd.Executable == "yarn" || cmd.Executable == "npm" {
		return process.Result{ExitCode: 1}, nil
	}
	return r.res, nil
}

func newAdapter(t *testing.T, r *recorder) *adapter.Adapter {
	return adapter.New(Definition(), adapter.Deps{Invoker: r, Env: adapter.Env{Root: t.TempDir()}})
}

func TestESLintFindings(t *testing.T) {
	r := &recorder{res: process.Result{ExitCode: 1, Stdout: output}}
	a := newAdapter(t, r)
	require.NoError(t, a.Configure(optionConfig, ".eslintrc.json"))
	require.NoError(t, a.Configure(optionEnv, "browser,node"))

	findings, err := a.Lint(context.Background(), "src/a.js")
	require.NoError(t, err)
	require.Len(t, findings, 3)

	last := r.cmds[len(r.cmds)-1]
	assert.Equal(t, []string{"--format=json", "--no-color", "--config", ".eslintrc.json", "--env", "browser,node", "src/a.js"}, last.Args)

	assert.Equal(t, lint.Finding{
		Path: "src/a.js", Line: 1, Column: 7, Code: "no-unused-vars", Name: "no-unused-vars",
		Description: "'x' is defined but never used.", Severity: lint.SeverityWarning,
	}, findings[0])
	assert.Equal(t, "fatal", findings[1].Code)
	assert.Equal(t, lint.SeverityError, findings[1].Severity)
	assert.Equal(t, 1, findings[2].Line)
	assert.Equal(t, 1, findings[2].Column)
}

func TestESLintCrashIsFatal(t *testing.T) {
	r := &recorder{res: process.Result{ExitCode: 2, Stderr: "Oops! Something went wrong! :("}}
	_, err := newAdapter(t, r).Lint(context.Background(), "a.js")

	var invErr *lint.InvocationError
	require.ErrorAs(t, err, &invErr)
	assert.Equal(t, "configuration problem or internal error", invErr.Reason)
}

func TestESLintSeverityIsNotCustomizable(t *testing.T) {
	a := newAdapter(t, &recorder{})
	assert.Error(t, a.Configure("severity", map[string]interface{}{"eqeqeq": "advice"}))
}

func TestESLintBinOption(t *testing.T) {
	r := &recorder{res: process.Result{Stdout: "[]"}}
	a := newAdapter(t, r)
	require.NoError(t, a.Configure(optionBin, "/usr/local/bin/eslint"))

	_, err := a.Lint(context.Background(), "a.js")
	require.NoError(t, err)
	require.Len(t, r.cmds, 1, "no node resolution lookups when the binary is configured")
	assert.Equal(t, "/usr/local/bin/eslint", r.cmds[0].Executable)
}

func TestESLintVersion(t *testing.T) {
	r := &recorder{res: process.Result{Stdout: "v8.57.0\n"}}
	v, ok := newAdapter(t, r).Version(context.Background())
	require.True(t, ok)
	assert.Equal(t, "8.57.0", v)
}
