package adapter

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"

	deferredregex "github.com/peterebden/go-deferred-regex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scan-io-git/lint-adapters/pkg/lint"
	"github.com/scan-io-git/lint-adapters/pkg/parser"
	"github.com/scan-io-git/lint-adapters/pkg/process"
)

type fakeInvoker struct {
	mu     sync.Mutex
	result process.Result
	err    error
	byExe  map[string]process.Result
	calls  []process.Command
}

func (f *fakeInvoker) Invoke(_ context.Context, cmd process.Command) (process.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, cmd)
	if res, ok := f.byExe[cmd.Executable]; ok {
		return res, nil
	}
	return f.result, f.err
}

func (f *fakeInvoker) last() process.Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

var testLine = deferredregex.DeferredRegex{Re: `^(?P<line>\d+):(?P<col>\d+) (?P<code>\w+) (?P<message>.*)$`}

func testDefinition() Definition {
	policy := parser.ExitPolicy{Codes: map[int]parser.Outcome{0: parser.Parse, 1: parser.Parse}, Otherwise: parser.Fatal}
	return Definition{
		Name:        "tool",
		DisplayName: "TOOL",
		Binary:      "tool",
		Family:      Pinterest,
		Options: []lint.Option{
			{Name: "tool.config", Type: lint.TypeString, Help: "config file"},
		},
		MandatoryFlags: func(lint.Values, Env) []string { return []string{"--format=line"} },
		DefaultFlags: func(v lint.Values) []string {
			if c := v.String("tool.config"); c != "" {
				return []string{"--config", c}
			}
			return nil
		},
		Exit:            &policy,
		Parser:          parser.Lines{Pattern: &testLine},
		DefaultSeverity: lint.FixedMap(map[string]lint.Severity{"E1": lint.SeverityError}),
		Version: &VersionQuery{
			Args:    []string{"--version"},
			Pattern: &deferredregex.DeferredRegex{Re: `^tool (\d+\.\d+\.\d+)`},
		},
		Install: "pip install tool",
	}
}

func newTestAdapter(t *testing.T, def Definition, inv *fakeInvoker) *Adapter {
	t.Helper()
	return New(def, Deps{Invoker: inv, Env: Env{Root: t.TempDir()}})
}

func TestConfigureWalksChain(t *testing.T) {
	a := newTestAdapter(t, testDefinition(), &fakeInvoker{})

	require.NoError(t, a.Configure("tool.config", "cfg.yml"))
	require.NoError(t, a.Configure("install-instructions", "brew install tool"))
	require.NoError(t, a.Configure("bin", "/opt/tool"))
	require.NoError(t, a.Configure("severity", map[string]interface{}{"E2": "advice"}))

	err := a.Configure("nonexistent", "x")
	var optErr *lint.OptionError
	require.True(t, errors.As(err, &optErr))
	assert.Equal(t, "nonexistent", optErr.Key)
	assert.True(t, errors.Is(err, lint.ErrUnknownOption))
}

func TestConfigureRejectsBadValues(t *testing.T) {
	a := newTestAdapter(t, testDefinition(), &fakeInvoker{})

	tests := map[string]interface{}{
		"tool.config":    42,
		"flags":          "not-a-list",
		"severity":       map[string]interface{}{"E1": "catastrophic"},
		"severity.rules": map[string]interface{}{"(": "error"},
		"version":        "not a constraint !!",
		"interpreter":    "'unterminated",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			var optErr *lint.OptionError
			assert.True(t, errors.As(a.Configure(key, value), &optErr))
			assert.False(t, a.Values().Has(key))
		})
	}
}

func TestConfigureAllAggregates(t *testing.T) {
	a := newTestAdapter(t, testDefinition(), &fakeInvoker{})
	err := a.ConfigureAll(map[string]interface{}{
		"bogus1":      true,
		"bogus2":      true,
		"tool.config": "ok.yml",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bogus1")
	assert.Contains(t, err.Error(), "bogus2")
	assert.Equal(t, "ok.yml", a.Values().String("tool.config"))
}

func TestFixedSeverityHidesSeverityOptions(t *testing.T) {
	def := testDefinition()
	def.FixedSeverity = true
	a := newTestAdapter(t, def, &fakeInvoker{})

	_, _, ok := a.Options().Lookup("severity")
	assert.False(t, ok)
	assert.Error(t, a.Configure("severity", map[string]interface{}{}))
}

func TestCommandAssembly(t *testing.T) {
	inv := &fakeInvoker{}
	a := newTestAdapter(t, testDefinition(), inv)
	require.NoError(t, a.Configure("tool.config", "cfg.yml"))

	cmd := a.Command(context.Background(), "src/a.py")
	assert.Equal(t, "tool", cmd.Executable)
	assert.Equal(t, []string{"--format=line", "--config", "cfg.yml", "src/a.py"}, cmd.Args)
	assert.Equal(t, a.Env().Root, cmd.Dir)

	b := newTestAdapter(t, testDefinition(), inv)
	require.NoError(t, b.ConfigureAll(map[string]interface{}{
		"flags":       []interface{}{"--strict"},
		"bin":         "/opt/tool",
		"interpreter": "python3 -X dev",
	}))
	cmd = b.Command(context.Background(), "a.py")
	assert.Equal(t, "python3", cmd.Executable)
	assert.Equal(t, []string{"-X", "dev", "/opt/tool", "--format=line", "--strict", "a.py"}, cmd.Args)
}

func TestLintClassifiesAndNames(t *testing.T) {
	inv := &fakeInvoker{result: process.Result{ExitCode: 1, Stdout: "noise\n3:4 E1 broken\n5:1 W9 iffy\n"}}
	a := newTestAdapter(t, testDefinition(), inv)
	require.NoError(t, a.Configure("severity", map[string]interface{}{"W9": "disabled"}))

	findings, err := a.Lint(context.Background(), "a.py")
	require.NoError(t, err)
	require.Len(t, findings, 2)

	assert.Equal(t, lint.Finding{Path: "a.py", Line: 3, Column: 4, Code: "E1", Name: "TOOL", Description: "broken", Severity: lint.SeverityError}, findings[0])
	assert.Equal(t, lint.SeverityDisabled, findings[1].Severity)
}

func TestLintUnexpectedExitIsFatal(t *testing.T) {
	inv := &fakeInvoker{result: process.Result{ExitCode: 2, Stderr: "Traceback: boom"}}
	a := newTestAdapter(t, testDefinition(), inv)

	findings, err := a.Lint(context.Background(), "a.py")
	assert.Nil(t, findings)

	var invErr *lint.InvocationError
	require.True(t, errors.As(err, &invErr))
	assert.Equal(t, "a.py", invErr.Path)
	assert.Contains(t, err.Error(), "Traceback: boom")
}

func TestLintMissingBinary(t *testing.T) {
	inv := &fakeInvoker{err: &exec.Error{Name: "tool", Err: exec.ErrNotFound}}
	a := newTestAdapter(t, testDefinition(), inv)
	require.NoError(t, a.Configure("install-instructions", "brew install tool"))

	_, err := a.Lint(context.Background(), "a.py")
	var missing *lint.MissingBinaryError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "Install tool using `brew install tool`.", missing.Instructions)
	assert.False(t, lint.IsFatal(err))
}

func TestLintDiffReadsContent(t *testing.T) {
	def := testDefinition()
	def.Parser = parser.Diff{Description: "reformat"}
	def.Exit = nil

	inv := &fakeInvoker{result: process.Result{Stdout: "x = 1\n"}}
	a := newTestAdapter(t, def, inv)
	require.NoError(t, os.WriteFile(filepath.Join(a.Env().Root, "a.py"), []byte("x=1"), 0o644))

	findings, err := a.Lint(context.Background(), "a.py")
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, "x=1", findings[0].Autofix.OriginalText)
	assert.Equal(t, "x = 1\n", findings[0].Autofix.ReplacementText)
	assert.Equal(t, "TOOL", findings[0].Name)
}

func TestLintIsConcurrencySafe(t *testing.T) {
	inv := &fakeInvoker{result: process.Result{Stdout: "1:1 E1 x\n"}}
	a := newTestAdapter(t, testDefinition(), inv)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			findings, err := a.Lint(context.Background(), "a.py")
			assert.NoError(t, err)
			assert.Len(t, findings, 1)
		}()
	}
	wg.Wait()
}

func TestVersionAndCheckVersion(t *testing.T) {
	inv := &fakeInvoker{result: process.Result{Stdout: "tool 1.4.2 (python 3.11)\n"}}
	a := newTestAdapter(t, testDefinition(), inv)

	v, ok := a.Version(context.Background())
	require.True(t, ok)
	assert.Equal(t, "1.4.2", v)
	assert.Equal(t, []string{"--version"}, inv.last().Args)

	assert.NoError(t, a.CheckVersion(context.Background()), "no requirement configured")

	require.NoError(t, a.Configure("version", ">=1.4.0"))
	assert.NoError(t, a.CheckVersion(context.Background()))

	b := newTestAdapter(t, testDefinition(), inv)
	require.NoError(t, b.Configure("version", ">=2.0.0"))
	err := b.CheckVersion(context.Background())
	var outdated *lint.OutdatedError
	require.True(t, errors.As(err, &outdated))
	assert.Equal(t, "1.4.2", outdated.Found)
	assert.Equal(t, "pip install tool", outdated.Instructions)
}

func TestVersionAbsentIsSoft(t *testing.T) {
	inv := &fakeInvoker{result: process.Result{Stdout: "garbage"}}
	a := newTestAdapter(t, testDefinition(), inv)
	_, ok := a.Version(context.Background())
	assert.False(t, ok)

	def := testDefinition()
	def.Version = nil
	_, ok = newTestAdapter(t, def, inv).Version(context.Background())
	assert.False(t, ok)
}

func TestNodeFamily(t *testing.T) {
	def := testDefinition()
	def.Family = Node
	def.Install = ""
	inv := &fakeInvoker{result: process.Result{ExitCode: 1}}
	a := newTestAdapter(t, def, inv)

	require.NoError(t, a.Configure("tool.cwd", "web"))
	assert.Equal(t, filepath.Join(a.Env().Root, "web"), a.Root())
	assert.Contains(t, a.InstallInstructions(), "npm install --save-dev tool")
	assert.Contains(t, a.InstallInstructions(), "yarn@1")

	cmd := a.Command(context.Background(), "web/a.js")
	assert.Equal(t, "tool", cmd.Executable)
	assert.Equal(t, a.Env().Root, cmd.Dir)
}

func TestNodeCwdKeepsTargetPathsValid(t *testing.T) {
	def := testDefinition()
	def.Family = Node
	a := newTestAdapter(t, def, &fakeInvoker{})

	local := filepath.Join(a.Env().Root, "web", "node_modules", ".bin", "tool")
	require.NoError(t, os.MkdirAll(filepath.Dir(local), 0o755))
	require.NoError(t, os.WriteFile(local, []byte("#!/bin/sh\n"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(a.Env().Root, "web", "a.js"), nil, 0o644))
	require.NoError(t, a.Configure("tool.cwd", "web"))

	cmd := a.Command(context.Background(), filepath.Join("web", "a.js"))
	assert.Equal(t, local, cmd.Executable)
	assert.FileExists(t, filepath.Join(cmd.Dir, cmd.Args[len(cmd.Args)-1]))
}

func TestValidateOptionRunsBeforeApply(t *testing.T) {
	def := testDefinition()
	def.ValidateOption = func(key string, _ interface{}) error {
		if key == "severity" {
			return errors.New("severity is managed elsewhere")
		}
		return nil
	}
	a := newTestAdapter(t, def, &fakeInvoker{})

	var optErr *lint.OptionError
	require.True(t, errors.As(a.Configure("severity", map[string]interface{}{"E1": "advice"}), &optErr))
	assert.False(t, a.Values().Has("severity"))
	assert.Equal(t, lint.SeverityError, a.Classifier().Classify("E1"))
}

func TestConfigureAfterResolveReresolves(t *testing.T) {
	a := newTestAdapter(t, testDefinition(), &fakeInvoker{})
	assert.Equal(t, "tool", a.Resolve(context.Background()).Executable)

	require.NoError(t, a.Configure("bin", "/opt/tool"))
	assert.Equal(t, "/opt/tool", a.Resolve(context.Background()).Executable)
	assert.Equal(t, "/opt/tool", a.Command(context.Background(), "a.py").Executable)
}

func TestPythonFamily(t *testing.T) {
	def := testDefinition()
	def.Family = Python
	a := newTestAdapter(t, def, &fakeInvoker{})

	venvBin := filepath.Join(a.Env().Root, "env", "bin", "tool")
	require.NoError(t, os.MkdirAll(filepath.Dir(venvBin), 0o755))
	require.NoError(t, os.WriteFile(venvBin, []byte("#!/bin/sh\n"), 0o755))
	require.NoError(t, a.Configure("python.virtualenvs", []interface{}{"env"}))

	assert.Equal(t, venvBin, a.Resolve(context.Background()).Executable)

	_, _, ok := a.Options().Lookup("install-instructions")
	assert.False(t, ok, "python tools do not inherit pinterest options")
}

func TestBuiltinRunsNoProcess(t *testing.T) {
	inv := &fakeInvoker{}
	def := Definition{
		Name:    "builtin",
		Builtin: true,
		Parser: parser.ContentFunc(func(in *parser.Input) ([]lint.Finding, error) {
			return []lint.Finding{{Line: 1, Description: in.Original, Severity: lint.SeverityError}}, nil
		}),
	}
	a := newTestAdapter(t, def, inv)
	require.NoError(t, os.WriteFile(filepath.Join(a.Env().Root, "a.py"), []byte("content"), 0o644))

	findings, err := a.Lint(context.Background(), "a.py")
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, "content", findings[0].Description)
	assert.Equal(t, "builtin", findings[0].Name)
	assert.Empty(t, inv.calls)

	_, _, ok := a.Options().Lookup("bin")
	assert.False(t, ok)
}

func TestInvalidFindingIsParseError(t *testing.T) {
	def := testDefinition()
	def.Parser = parser.Func(func(in *parser.Input) ([]lint.Finding, error) {
		return []lint.Finding{{Severity: lint.SeverityAutofix}}, nil
	})
	a := newTestAdapter(t, def, &fakeInvoker{})

	_, err := a.Lint(context.Background(), "a.py")
	var parseErr *lint.ParseError
	assert.True(t, errors.As(err, &parseErr))
}
