package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scan-io-git/lint-adapters/cmd/adapters"
	"github.com/scan-io-git/lint-adapters/cmd/lint"
	"github.com/scan-io-git/lint-adapters/cmd/version"
	"github.com/scan-io-git/lint-adapters/internal/project"
	"github.com/scan-io-git/lint-adapters/pkg/config"
)

var (
	cfgFile   string
	AppConfig *config.Config
	rootCmd   = &cobra.Command{
		Use:                   "lint-adapters [command]",
		SilenceUsage:          true,
		SilenceErrors:         true,
		DisableFlagsInUseLine: true,
		Short:                 "Runs external linters and formatters behind one normalized report.",
		Long: `lint-adapters wraps external analysis and formatting tools (eslint, pylint, pyright,
	yamllint, prettier and others), runs them over a set of files and reports their
	findings in a single normalized format.
	`,
		PersistentPreRunE: initConfig,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .lintconfig.yml in the project root)")
	rootCmd.AddCommand(lint.LintCmd)
	rootCmd.AddCommand(adapters.AdaptersCmd)
	rootCmd.AddCommand(version.NewVersionCmd())
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, lint.ErrFindings) {
			return 2
		}
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		return 1
	}
	return 0
}

func initConfig(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to determine working directory: %w", err)
	}
	md, err := project.Discover(cwd)
	if err != nil && !errors.Is(err, project.ErrNotRepository) {
		return err
	}

	AppConfig, err = config.LoadConfig(cfgFile, md.Root)
	if err != nil {
		return fmt.Errorf("initializing config failed: %w", err)
	}
	if err := config.ValidateConfig(AppConfig); err != nil {
		return err
	}

	lint.Init(AppConfig, md)
	adapters.Init(AppConfig)
	version.Init(AppConfig)
	return nil
}
