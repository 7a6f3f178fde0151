package resolver

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scan-io-git/lint-adapters/pkg/process"
)

func writeExecutable(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755))
}

func failingInvoker() process.Invoker {
	return process.InvokerFunc(func(context.Context, process.Command) (process.Result, error) {
		return process.Result{ExitCode: 1}, nil
	})
}

func TestVirtualenvResolvesLocalBinary(t *testing.T) {
	root := t.TempDir()
	tool := filepath.Join(root, ".venv", "bin", "tool")
	writeExecutable(t, tool)

	res := Virtualenv{}.Resolve(context.Background(), "tool", root)
	assert.Equal(t, tool, res.Executable)
	assert.Equal(t, root, res.Dir)
}

func TestVirtualenvActiveEnvironmentWins(t *testing.T) {
	root := t.TempDir()
	writeExecutable(t, filepath.Join(root, ".venv", "bin", "tool"))

	res := Virtualenv{Active: true}.Resolve(context.Background(), "tool", root)
	assert.Equal(t, "tool", res.Executable)
}

func TestVirtualenvOnlyFirstExistingDirIsConsulted(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "env1", "bin"), 0o755))
	writeExecutable(t, filepath.Join(root, "env2", "bin", "tool"))

	res := Virtualenv{Dirs: []string{"missing", "env1", "env2"}}.Resolve(context.Background(), "tool", root)
	assert.Equal(t, "tool", res.Executable)

	res = Virtualenv{Dirs: []string{"missing", "env2"}}.Resolve(context.Background(), "tool", root)
	assert.Equal(t, filepath.Join(root, "env2", "bin", "tool"), res.Executable)
}

func TestVirtualenvIgnoresNonExecutable(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, ".venv", "bin", "tool")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	res := Virtualenv{}.Resolve(context.Background(), "tool", root)
	assert.Equal(t, "tool", res.Executable)
}

func TestNodeModulesOrder(t *testing.T) {
	root := t.TempDir()
	yarnBin := filepath.Join(root, "yarn-bin", "eslint")
	npmDir := filepath.Join(root, "npm-bin")
	local := filepath.Join(root, "node_modules", ".bin", "eslint")

	invoker := func(yarnOut, npmOut string) process.Invoker {
		return process.InvokerFunc(func(_ context.Context, cmd process.Command) (process.Result, error) {
			switch cmd.Executable {
			case "yarn":
				assert.Equal(t, []string{"-s", "--cwd", root, "bin", "eslint"}, cmd.Args)
				if yarnOut == "" {
					return process.Result{ExitCode: 1}, nil
				}
				return process.Result{Stdout: yarnOut + "\n"}, nil
			case "npm":
				assert.Equal(t, root, cmd.Dir)
				return process.Result{Stdout: npmOut + "\n"}, nil
			}
			return process.Result{}, os.ErrNotExist
		})
	}

	t.Run("falls back to bare name", func(t *testing.T) {
		res := NodeModules{Invoker: invoker("", npmDir)}.Resolve(context.Background(), "eslint", root)
		assert.Equal(t, "eslint", res.Executable)
	})

	writeExecutable(t, local)
	t.Run("node_modules", func(t *testing.T) {
		res := NodeModules{Invoker: invoker("", npmDir)}.Resolve(context.Background(), "eslint", root)
		assert.Equal(t, local, res.Executable)
	})

	writeExecutable(t, filepath.Join(npmDir, "eslint"))
	t.Run("npm bin", func(t *testing.T) {
		res := NodeModules{Invoker: invoker("", npmDir)}.Resolve(context.Background(), "eslint", root)
		assert.Equal(t, filepath.Join(npmDir, "eslint"), res.Executable)
	})

	writeExecutable(t, yarnBin)
	t.Run("yarn bin", func(t *testing.T) {
		res := NodeModules{Invoker: invoker(yarnBin, npmDir)}.Resolve(context.Background(), "eslint", root)
		assert.Equal(t, yarnBin, res.Executable)
	})

	t.Run("yarn answer that does not exist is skipped", func(t *testing.T) {
		res := NodeModules{Invoker: invoker(filepath.Join(root, "nope"), npmDir)}.Resolve(context.Background(), "eslint", root)
		assert.Equal(t, filepath.Join(npmDir, "eslint"), res.Executable)
	})
}

func TestResolversAreTotal(t *testing.T) {
	root := t.TempDir()
	strategies := map[string]Strategy{
		"global":     Global{},
		"fixed":      Fixed{},
		"node":       NodeModules{Invoker: failingInvoker()},
		"node-nil":   NodeModules{},
		"virtualenv": Virtualenv{Dirs: []string{"a", "b"}},
	}
	for name, s := range strategies {
		t.Run(name, func(t *testing.T) {
			res := s.Resolve(context.Background(), "tool", root)
			assert.Equal(t, "tool", res.Executable)
		})
	}
}

func TestFixedOverridesResolution(t *testing.T) {
	res := Fixed{Executable: "/opt/bin/eslint"}.Resolve(context.Background(), "eslint", "/src")
	assert.Equal(t, Resolution{Executable: "/opt/bin/eslint", Dir: "/src"}, res)
}

func TestCachedMemoizes(t *testing.T) {
	var calls int32
	inner := NodeModules{Invoker: process.InvokerFunc(func(context.Context, process.Command) (process.Result, error) {
		atomic.AddInt32(&calls, 1)
		return process.Result{ExitCode: 1}, nil
	})}
	cached := NewCached(inner)

	root := t.TempDir()
	first := cached.Resolve(context.Background(), "prettier", root)
	second := cached.Resolve(context.Background(), "prettier", root)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls), "yarn and npm queried once")

	cached.Resolve(context.Background(), "prettier", t.TempDir())
	assert.Equal(t, int32(4), atomic.LoadInt32(&calls))
}
