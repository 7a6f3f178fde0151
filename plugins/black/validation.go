package black

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	deferredregex "github.com/peterebden/go-deferred-regex"

	"github.com/scan-io-git/lint-adapters/pkg/adapter"
	"github.com/scan-io-git/lint-adapters/pkg/process"
)

var pythonVersionPattern = deferredregex.DeferredRegex{Re: `Python (\d+(?:\.\d+)*)`}

// pythonConstraint parses "<op> version" requirements; "==" is read as "=".
func pythonConstraint(raw string) (*semver.Constraints, error) {
	return semver.NewConstraint(strings.Replace(strings.TrimSpace(raw), "==", "=", 1))
}

func validateOption(key string, value interface{}) error {
	if key != optionPython {
		return nil
	}
	if _, err := pythonConstraint(value.(string)); err != nil {
		return fmt.Errorf("invalid python version requirement: %w", err)
	}
	return nil
}

// skipUnsupportedPython disables black when python3 does not satisfy black.python.
func skipUnsupportedPython(ctx context.Context, a *adapter.Adapter) (string, bool) {
	required := a.Values().String(optionPython)
	if required == "" {
		return "", false
	}
	constraint, err := pythonConstraint(required)
	if err != nil {
		return err.Error(), true
	}

	found := ""
	res, err := a.Invoker().Invoke(ctx, process.Command{Executable: "python3", Dir: a.Root(), Args: []string{"--version"}})
	if err == nil {
		// Python 2 printed its version on stderr.
		if m := pythonVersionPattern.FindStringSubmatch(res.Stdout + res.Stderr); len(m) > 1 {
			found = m[1]
		}
	}
	if found != "" {
		if v, err := semver.NewVersion(found); err == nil && constraint.Check(v) {
			return "", false
		}
	}
	return fmt.Sprintf("Skipping %s (requires Python version %s but `python3 --version` returned '%s')", Name, required, found), true
}
