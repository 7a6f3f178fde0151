package lint

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scan-io-git/lint-adapters/internal/ci"
	"github.com/scan-io-git/lint-adapters/internal/project"
	"github.com/scan-io-git/lint-adapters/internal/report"
	"github.com/scan-io-git/lint-adapters/internal/runner"
	"github.com/scan-io-git/lint-adapters/pkg/adapter"
	"github.com/scan-io-git/lint-adapters/pkg/config"
	"github.com/scan-io-git/lint-adapters/pkg/logger"
)

// ErrFindings is returned when the report contains findings at or above the
// failure threshold.
var ErrFindings = errors.New("findings at or above the failure threshold were reported")

// sinceAuto takes the base revision from the CI pull request context.
const sinceAuto = "auto"

// RunOptionsLint holds the arguments for the lint command.
type RunOptionsLint struct {
	Linters     []string
	Format      string
	OutputPath  string
	MinSeverity string
	FailOn      string
	Since       string
	Jobs        int
}

// Global variables for configuration and command arguments
var (
	AppConfig        *config.Config
	Project          *project.Metadata
	lintOptions      RunOptionsLint
	exampleLintUsage = `  # Lint the files changed in the current git work tree with the configured linters
  lint-adapters lint

  # Lint specific files
  lint-adapters lint src/app.py src/util.py

  # Run only flake8 and yamllint, including ones that are not configured
  lint-adapters lint --linter flake8 --linter yamllint config.yml app.py

  # Produce a SARIF report of errors and warnings
  lint-adapters lint --format sarif --severity warning --output lint.sarif

  # Report only findings on lines added since the main branch
  lint-adapters lint --since origin/main

  # Use four workers and fail only on errors
  lint-adapters lint -j 4 --fail-on error`
)

// LintCmd represents the lint command.
var LintCmd = &cobra.Command{
	Use:                   "lint [--linter/-l NAME...] [--format/-f text|json|sarif] [--output/-o PATH] [-j JOBS] [PATH...]",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               exampleLintUsage,
	Short:                 "Runs the configured linters over files and reports normalized findings",
	RunE:                  runLintCommand,
}

// Init initializes the global configuration variables.
func Init(cfg *config.Config, md *project.Metadata) {
	AppConfig = cfg
	Project = md
}

// runLintCommand executes the lint command.
func runLintCommand(cmd *cobra.Command, args []string) error {
	logger := logger.NewLogger(AppConfig, "core-lint")

	opts, err := validateLintArgs(&lintOptions, AppConfig)
	if err != nil {
		logger.Error("invalid lint arguments", "error", err)
		return err
	}

	since := lintOptions.Since
	if since == sinceAuto {
		env := ci.Detect()
		since = env.Base
		logger.Debug("detected ci environment", "kind", env.Kind, "base", env.Base)
	}

	var changed project.ChangedLines
	if since != "" {
		if changed, err = project.AddedLines(Project.Root, since); err != nil {
			logger.Error("failed to compute changed lines", "since", since, "error", err)
			return err
		}
	}

	paths, err := resolvePaths(Project.Root, args, changed)
	if err != nil {
		logger.Error("failed to resolve target files", "error", err)
		return err
	}
	if len(paths) == 0 {
		logger.Info("no files to lint")
		return nil
	}

	targets, tools, err := buildTargets(AppConfig, opts.linters, Project.Root, logger)
	if err != nil {
		logger.Error("failed to configure linters", "error", err)
		return err
	}

	runnerConfig := AppConfig.Runner
	if cmd.Flags().Changed("jobs") {
		runnerConfig.Jobs = lintOptions.Jobs
	}
	r := runner.New(runnerConfig, logger)

	ctx := cmd.Context()
	ready, skipped, err := r.Prepare(ctx, targets)
	if err != nil {
		logger.Error("failed to prepare linters", "error", err)
		return err
	}
	for _, s := range skipped {
		fmt.Fprintf(os.Stderr, "skipped %s: %s\n", s.Label, s.Reason)
	}

	logger.Info("linting", "files", len(paths), "linters", len(ready), "jobs", runnerConfig.Jobs)
	result := r.Run(ctx, ready, paths)

	if runnerConfig.MetricsFile != "" {
		if err := r.Metrics().WriteToTextfile(runnerConfig.MetricsFile); err != nil {
			logger.Warn("failed to write metrics", "path", runnerConfig.MetricsFile, "error", err)
		}
	}

	findings := onChangedLines(result.Report, changed)
	if err := writeReport(findings.AtLeast(opts.minSeverity), opts.format, lintOptions.OutputPath, tools); err != nil {
		logger.Error("failed to write report", "error", err)
		return err
	}

	if err := result.Err(); err != nil {
		logger.Error("lint command failed", "failures", len(result.Failures))
		return err
	}
	if len(findings.AtLeast(opts.failOn)) > 0 {
		return ErrFindings
	}

	logger.Info("lint command completed successfully", "findings", len(findings))
	return nil
}

func writeReport(r report.Report, format report.Format, outputPath string, tools map[string]adapter.Info) error {
	out := os.Stdout
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}
	return report.Write(out, format, r, tools)
}

// Initialize flags for the lint command.
func init() {
	LintCmd.Flags().StringSliceVarP(&lintOptions.Linters, "linter", "l", nil, "Linters to run. Defaults to every linter in the configuration file.")
	LintCmd.Flags().StringVarP(&lintOptions.Format, "format", "f", string(report.FormatText), "Report format: text, json or sarif.")
	LintCmd.Flags().StringVarP(&lintOptions.OutputPath, "output", "o", "", "Path to write the report to instead of stdout.")
	LintCmd.Flags().StringVar(&lintOptions.MinSeverity, "severity", "advice", "Minimum severity to report.")
	LintCmd.Flags().StringVar(&lintOptions.FailOn, "fail-on", "error", "Minimum severity that makes the command fail.")
	LintCmd.Flags().StringVar(&lintOptions.Since, "since", "", "Lint files changed since this git revision and report only findings on added lines. 'auto' uses the pull request base in CI.")
	LintCmd.Flags().IntVarP(&lintOptions.Jobs, "jobs", "j", 1, "Number of concurrent linter invocations. Overrides the configuration.")
	LintCmd.Flags().BoolP("help", "h", false, "Show help for the lint command.")
}
