// Package ci discovers the pull request context of CI jobs.
package ci

import (
	"os"
	"strconv"
	"strings"
)

// Kind identifies a CI provider.
type Kind int

const (
	Unknown Kind = iota
	GitHub
	GitLab
	Bitbucket
)

func (k Kind) String() string {
	switch k {
	case GitHub:
		return "github"
	case GitLab:
		return "gitlab"
	case Bitbucket:
		return "bitbucket"
	default:
		return "unknown"
	}
}

// LookupFunc fetches environment variables and defaults to os.Getenv.
type LookupFunc func(string) string

// Environment is the CI metadata needed to lint only what a change touched.
type Environment struct {
	Kind Kind
	CI   bool
	// Commit is the tip commit that triggered the job.
	Commit string
	// Base is the revision the change is compared against, empty outside
	// pull request pipelines.
	Base string
}

// Detect reads the CI environment of the current process.
func Detect() Environment {
	return detectWithLookup(os.Getenv)
}

func detectWithLookup(lookup LookupFunc) Environment {
	if lookup == nil {
		lookup = os.Getenv
	}
	ci, _ := strconv.ParseBool(lookup("CI"))

	switch {
	case lookup("GITHUB_REPOSITORY") != "" || lookup("GITHUB_SHA") != "":
		env := Environment{Kind: GitHub, CI: ci, Commit: lookup("GITHUB_SHA")}
		// GITHUB_BASE_REF is set for pull_request events only.
		if base := lookup("GITHUB_BASE_REF"); base != "" {
			env.Base = remoteBranch(base)
		}
		return env
	case strings.EqualFold(lookup("GITLAB_CI"), "true") || lookup("CI_PROJECT_PATH") != "":
		env := Environment{Kind: GitLab, CI: ci, Commit: lookup("CI_COMMIT_SHA")}
		if sha := lookup("CI_MERGE_REQUEST_DIFF_BASE_SHA"); sha != "" {
			env.Base = sha
		} else if branch := lookup("CI_MERGE_REQUEST_TARGET_BRANCH_NAME"); branch != "" {
			env.Base = remoteBranch(branch)
		}
		return env
	case lookup("BITBUCKET_WORKSPACE") != "" || lookup("BITBUCKET_REPO_SLUG") != "":
		env := Environment{Kind: Bitbucket, CI: ci, Commit: lookup("BITBUCKET_COMMIT")}
		if branch := lookup("BITBUCKET_PR_DESTINATION_BRANCH"); branch != "" {
			env.Base = remoteBranch(branch)
		}
		return env
	}
	return Environment{Kind: Unknown, CI: ci}
}

func remoteBranch(branch string) string {
	return "refs/remotes/origin/" + strings.TrimPrefix(branch, "refs/heads/")
}
