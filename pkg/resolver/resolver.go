// Package resolver locates the executable of a wrapped tool.
//
// Every strategy is total: when no candidate on disk qualifies, the bare
// binary name is returned and the failure, if any, is left to invocation.
package resolver

import (
	"context"
	"os"
	"path/filepath"
	"sync"
)

// Resolution is an executable reference plus the directory to run it from.
type Resolution struct {
	Executable string
	Dir        string
}

// Strategy resolves binary for a project rooted at root.
type Strategy interface {
	Resolve(ctx context.Context, binary, root string) Resolution
}

// Global returns the binary name unchanged so the invoker searches PATH.
type Global struct{}

// Resolve implements Strategy.
func (Global) Resolve(_ context.Context, binary, root string) Resolution {
	return Resolution{Executable: binary, Dir: root}
}

// Fixed always resolves to Executable, as configured through the bin option.
type Fixed struct {
	Executable string
}

// Resolve implements Strategy.
func (f Fixed) Resolve(ctx context.Context, binary, root string) Resolution {
	if f.Executable == "" {
		return Global{}.Resolve(ctx, binary, root)
	}
	return Resolution{Executable: f.Executable, Dir: root}
}

// Cached memoizes another strategy per (binary, root).
type Cached struct {
	Strategy Strategy
	cache    sync.Map
}

type cacheKey struct {
	binary string
	root   string
}

// NewCached wraps s.
func NewCached(s Strategy) *Cached {
	return &Cached{Strategy: s}
}

// Resolve implements Strategy.
func (c *Cached) Resolve(ctx context.Context, binary, root string) Resolution {
	key := cacheKey{binary: binary, root: root}
	if res, ok := c.cache.Load(key); ok {
		return res.(Resolution)
	}
	res := c.Strategy.Resolve(ctx, binary, root)
	c.cache.Store(key, res)
	return res
}

// IsExecutable reports whether path is a regular file with an execute bit set.
func IsExecutable(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Mode().Perm()&0o111 != 0
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func join(root, rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(root, rel)
}
