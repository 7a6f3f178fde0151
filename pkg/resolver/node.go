package resolver

import (
	"context"
	"path/filepath"

	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/lint-adapters/pkg/process"
)

// NodeModules resolves binaries installed by a node package manager.
//
// Candidates, in order: `yarn bin <name>`, `<npm bin>/<name>`,
// `<root>/node_modules/.bin/<name>`, then the bare name.
type NodeModules struct {
	Invoker process.Invoker
	Logger  hclog.Logger
}

// Resolve implements Strategy.
func (n NodeModules) Resolve(ctx context.Context, binary, root string) Resolution {
	logger := n.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	for _, candidate := range []struct {
		source string
		find   func() string
	}{
		{"yarn", func() string { return n.yarnBin(ctx, binary, root) }},
		{"npm", func() string { return n.npmBin(ctx, binary, root) }},
		{"node_modules", func() string { return filepath.Join(root, "node_modules", ".bin", binary) }},
	} {
		path := candidate.find()
		if IsExecutable(path) {
			logger.Trace("resolved node binary", "binary", binary, "source", candidate.source, "path", path)
			return Resolution{Executable: path, Dir: root}
		}
	}

	logger.Trace("node binary not installed locally, using PATH", "binary", binary)
	return Resolution{Executable: binary, Dir: root}
}

func (n NodeModules) yarnBin(ctx context.Context, binary, root string) string {
	res, ok := n.query(ctx, process.Command{
		Executable: "yarn",
		Dir:        root,
		Args:       []string{"-s", "--cwd", root, "bin", binary},
	})
	if !ok {
		return ""
	}
	return process.FirstLine(res.Stdout)
}

func (n NodeModules) npmBin(ctx context.Context, binary, root string) string {
	res, ok := n.query(ctx, process.Command{
		Executable: "npm",
		Dir:        root,
		Args:       []string{"bin"},
	})
	if !ok {
		return ""
	}
	dir := process.FirstLine(res.Stdout)
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, binary)
}

func (n NodeModules) query(ctx context.Context, cmd process.Command) (process.Result, bool) {
	if n.Invoker == nil {
		return process.Result{}, false
	}
	res, err := n.Invoker.Invoke(ctx, cmd)
	if err != nil || res.ExitCode != 0 {
		return res, false
	}
	return res, true
}
