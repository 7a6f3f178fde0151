package isort

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scan-io-git/lint-adapters/pkg/adapter"
	"github.com/scan-io-git/lint-adapters/pkg/lint"
	"github.com/scan-io-git/lint-adapters/pkg/process"
)

func TestIsortAutofix(t *testing.T) {
	root := t.TempDir()
	original := "import sys\nimport os\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.py"), []byte(original), 0o644))

	tests := []struct {
		name   string
		stdout string
		want   int
	}{
		{name: "unsorted", stdout: "import os\nimport sys\n", want: 1},
		{name: "already sorted", stdout: original, want: 0},
		{name: "skipped", stdout: "", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen process.Command
			inv := process.InvokerFunc(func(_ context.Context, cmd process.Command) (process.Result, error) {
				seen = cmd
				return process.Result{Stdout: tt.stdout}, nil
			})
			a := adapter.New(Definition(), adapter.Deps{Invoker: inv, Env: adapter.Env{Root: root, VirtualEnvActive: true}})
			require.NoError(t, a.Configure(optionSettingsPath, "setup.cfg"))

			findings, err := a.Lint(context.Background(), "a.py")
			require.NoError(t, err)
			assert.Equal(t, []string{"--quiet", "--stdout", "--settings-path", "setup.cfg", "a.py"}, seen.Args)
			require.Len(t, findings, tt.want)
			if tt.want == 0 {
				return
			}
			f := findings[0]
			assert.Equal(t, lint.SeverityAutofix, f.Severity)
			assert.Equal(t, original, f.Autofix.OriginalText)
			assert.Equal(t, tt.stdout, f.Autofix.ReplacementText)
			assert.True(t, f.BypassChangedLineFiltering)
			assert.Equal(t, 1, f.Line)
			assert.Equal(t, 1, f.Column)
		})
	}
}

func TestIsortVersion(t *testing.T) {
	banner := "\n                 _                 _\n                (_) ___  ___  _ __| |_\n\n      VERSION 5.12.0\n"
	inv := process.InvokerFunc(func(context.Context, process.Command) (process.Result, error) {
		return process.Result{Stdout: banner}, nil
	})
	a := adapter.New(Definition(), adapter.Deps{Invoker: inv, Env: adapter.Env{Root: t.TempDir(), VirtualEnvActive: true}})
	v, ok := a.Version(context.Background())
	require.True(t, ok)
	assert.Equal(t, "5.12.0", v)
}
