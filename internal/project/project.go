// Package project locates the project root linters run from.
package project

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/go-git/go-git/v5"
)

// ErrNotRepository is returned by Discover when dir is not inside a git work tree.
var ErrNotRepository = errors.New("not a git repository")

// Metadata describes the work tree containing a directory.
type Metadata struct {
	// Root is the work tree root, or the directory itself outside git.
	Root string
	// Subfolder is the starting directory relative to Root, slash separated.
	Subfolder string
	Branch    string
	Commit    string
}

// Discover finds the git work tree containing dir. Outside a repository it
// returns metadata rooted at dir along with ErrNotRepository.
func Discover(dir string) (*Metadata, error) {
	if dir == "" {
		return nil, fmt.Errorf("source folder is not set")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	md := &Metadata{Root: filepath.Clean(abs)}

	repo, err := git.PlainOpenWithOptions(abs, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return md, ErrNotRepository
		}
		return md, fmt.Errorf("failed to open repository: %w", err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return md, fmt.Errorf("failed to open work tree: %w", err)
	}
	md.Root = filepath.Clean(wt.Filesystem.Root())

	if rel, err := filepath.Rel(md.Root, abs); err == nil && rel != "." {
		md.Subfolder = filepath.ToSlash(rel)
	}

	if head, err := repo.Head(); err == nil {
		if head.Name().IsBranch() {
			md.Branch = head.Name().Short()
		}
		md.Commit = head.Hash().String()
	}
	return md, nil
}

// ChangedFiles lists files under root that are modified, added or untracked
// in the work tree, relative to root and sorted. Deleted files are omitted.
func ChangedFiles(root string) ([]string, error) {
	repo, err := git.PlainOpen(root)
	if err != nil {
		return nil, fmt.Errorf("failed to open repository %q: %w", root, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to open work tree: %w", err)
	}
	status, err := wt.Status()
	if err != nil {
		return nil, fmt.Errorf("failed to read status: %w", err)
	}

	var files []string
	for path, s := range status {
		if s.Worktree == git.Deleted || (s.Staging == git.Deleted && s.Worktree == git.Unmodified) {
			continue
		}
		if s.Worktree == git.Unmodified && s.Staging == git.Unmodified {
			continue
		}
		files = append(files, filepath.FromSlash(path))
	}
	sort.Strings(files)
	return files, nil
}
