package resolver

import (
	"context"
	"path/filepath"
)

// DefaultVirtualenvs is the candidate list used when none is configured.
var DefaultVirtualenvs = []string{".venv"}

// Virtualenv resolves binaries installed in a project-local python virtualenv.
type Virtualenv struct {
	// Dirs are candidate virtualenv directories, relative to the root unless absolute.
	Dirs []string
	// Active is set when the caller already runs inside an activated environment.
	Active bool
}

// Resolve implements Strategy.
func (v Virtualenv) Resolve(_ context.Context, binary, root string) Resolution {
	bare := Resolution{Executable: binary, Dir: root}
	if v.Active {
		return bare
	}

	dirs := v.Dirs
	if len(dirs) == 0 {
		dirs = DefaultVirtualenvs
	}
	for _, dir := range dirs {
		venv := join(root, dir)
		if !isDir(venv) {
			continue
		}
		path := filepath.Join(venv, "bin", binary)
		if IsExecutable(path) {
			return Resolution{Executable: path, Dir: root}
		}
		// Only the first existing virtualenv is consulted.
		break
	}
	return bare
}
