package lint

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"

	"github.com/scan-io-git/lint-adapters/internal/project"
	"github.com/scan-io-git/lint-adapters/internal/registry"
	"github.com/scan-io-git/lint-adapters/internal/report"
	"github.com/scan-io-git/lint-adapters/internal/runner"
	"github.com/scan-io-git/lint-adapters/pkg/adapter"
	"github.com/scan-io-git/lint-adapters/pkg/config"
)

// resolvePaths turns the command arguments into paths relative to root.
// Without arguments the files in changed are used, or the files modified in
// the git work tree when changed is nil.
func resolvePaths(root string, args []string, changed project.ChangedLines) ([]string, error) {
	if len(args) == 0 {
		if changed != nil {
			return changed.Files(), nil
		}
		return project.ChangedFiles(root)
	}

	paths := make([]string, 0, len(args))
	for _, arg := range args {
		abs, err := filepath.Abs(arg)
		if err != nil {
			return nil, err
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("the target path does not exist: %v", arg)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("the target path is a directory: %v", arg)
		}
		rel, err := filepath.Rel(root, abs)
		if err != nil || strings.HasPrefix(rel, "..") {
			return nil, fmt.Errorf("the target path is outside the project root %s: %v", root, arg)
		}
		paths = append(paths, filepath.ToSlash(rel))
	}
	return paths, nil
}

// onChangedLines drops findings outside the changed lines unless they ask to
// bypass the filter. A nil changed keeps everything.
func onChangedLines(r report.Report, changed project.ChangedLines) report.Report {
	if changed == nil {
		return r
	}
	return r.Filter(func(e report.Entry) bool {
		return e.BypassChangedLineFiltering || changed.Contains(e.Path, e.Line)
	})
}

// buildTargets creates and configures one adapter per label. Labels absent
// from the configuration are treated as adapter names with default options.
func buildTargets(cfg *config.Config, labels []string, root string, logger hclog.Logger) ([]runner.Target, map[string]adapter.Info, error) {
	deps := adapter.Deps{
		Logger: logger,
		Env: adapter.Env{
			Root:             root,
			VirtualEnvActive: os.Getenv("VIRTUAL_ENV") != "",
		},
	}

	var errs *multierror.Error
	targets := make([]runner.Target, 0, len(labels))
	tools := make(map[string]adapter.Info, len(labels))

	for _, label := range labels {
		l, ok := cfg.Linters[label]
		if !ok {
			l = config.Linter{Type: label}
			if err := config.ValidateLinterConfig(label, &l); err != nil {
				errs = multierror.Append(errs, err)
				continue
			}
		}

		a, err := registry.New(l.Type, deps)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("linters.%s: %w", label, err))
			continue
		}
		if err := a.ConfigureAll(l.Options); err != nil {
			errs = multierror.Append(errs, err)
			continue
		}

		linter := l
		targets = append(targets, runner.Target{Label: label, Linter: a, Matches: linter.Matches})
		tools[label] = a.Info()
	}
	return targets, tools, errs.ErrorOrNil()
}
