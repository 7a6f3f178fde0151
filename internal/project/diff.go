package project

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/sourcegraph/go-diff/diff"
)

// ChangedLines maps slash separated paths to the set of 1-based line numbers
// added or modified in the new version of the file.
type ChangedLines map[string]map[int]bool

// Files returns the changed paths in sorted order.
func (c ChangedLines) Files() []string {
	files := make([]string, 0, len(c))
	for path := range c {
		files = append(files, path)
	}
	sort.Strings(files)
	return files
}

// Contains reports whether line of path was added. Line 0 addresses the whole
// file and is contained whenever the file changed.
func (c ChangedLines) Contains(path string, line int) bool {
	lines, ok := c[path]
	if !ok {
		return false
	}
	return line == 0 || lines[line]
}

// AddedLines returns the lines added between the base revision and HEAD.
// Deleted files and files with deletions only are omitted.
func AddedLines(root, base string) (ChangedLines, error) {
	if base == "" {
		return nil, fmt.Errorf("base revision is required to compute diff")
	}

	repo, err := git.PlainOpen(root)
	if err != nil {
		return nil, fmt.Errorf("failed to open repository %q: %w", root, err)
	}

	baseHash, err := repo.ResolveRevision(plumbing.Revision(base))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base revision %q: %w", base, err)
	}
	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve HEAD: %w", err)
	}

	baseCommit, err := repo.CommitObject(*baseHash)
	if err != nil {
		return nil, err
	}
	headCommit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return nil, err
	}

	baseTree, err := baseCommit.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to load base tree: %w", err)
	}
	headTree, err := headCommit.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to load head tree: %w", err)
	}

	patch, err := baseTree.Patch(headTree)
	if err != nil {
		return nil, fmt.Errorf("failed to compute diff: %w", err)
	}

	return parseAddedLines([]byte(patch.String()))
}

func parseAddedLines(patch []byte) (ChangedLines, error) {
	parsed, err := diff.ParseMultiFileDiff(patch)
	if err != nil {
		return nil, fmt.Errorf("failed to parse diff: %w", err)
	}

	result := make(ChangedLines)
	for _, fd := range parsed {
		// deleted files and files with no content changes
		if fd == nil || fd.NewName == "/dev/null" || len(fd.Hunks) == 0 {
			continue
		}

		path := strings.TrimPrefix(fd.NewName, "b/")
		added := make(map[int]bool)

		for _, h := range fd.Hunks {
			if h == nil {
				continue
			}
			lineNo := int(h.NewStartLine)
			if lineNo <= 0 {
				lineNo = 1
			}
			for _, bodyLine := range bytes.Split(h.Body, []byte("\n")) {
				if len(bodyLine) == 0 {
					continue
				}
				switch bodyLine[0] {
				case '+':
					added[lineNo] = true
					lineNo++
				case '-':
				case '\\':
					// "\ No newline at end of file"
				default:
					lineNo++
				}
			}
		}

		if len(added) > 0 {
			result[path] = added
		}
	}
	return result, nil
}
