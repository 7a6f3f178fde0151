package version

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/scan-io-git/lint-adapters/internal/registry"
	"github.com/scan-io-git/lint-adapters/pkg/adapter"
	"github.com/scan-io-git/lint-adapters/pkg/config"
	"github.com/scan-io-git/lint-adapters/pkg/logger"
)

var (
	AppConfig     *config.Config
	CoreVersion   = "unknown"
	GolangVersion = "unknown"
	BuildTime     = "unknown"

	queryTools bool
	asJSON     bool
)

// Versions holds version information for the core application.
type Versions struct {
	Version       string `json:"version"`
	GolangVersion string `json:"golang_version"`
	BuildTime     string `json:"build_time"`
}

// CoreVersions holds the core versions and the detected tool versions.
type CoreVersions struct {
	Versions Versions          `json:"versions"`
	Tools    map[string]string `json:"tools,omitempty"`
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

// NewVersionCmd creates a new cobra.Command for the version command.
func NewVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                   "version [--tools] [--json]",
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		Short:                 "Print the version number of the application and, optionally, of installed tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			version := CoreVersions{
				Versions: Versions{
					Version:       CoreVersion,
					GolangVersion: GolangVersion,
					BuildTime:     BuildTime,
				},
			}
			if queryTools {
				cwd, err := os.Getwd()
				if err != nil {
					return err
				}
				version.Tools = getToolVersions(cmd.Context(), adapter.Deps{
					Logger: logger.NewLogger(AppConfig, "core-version"),
					Env:    adapter.Env{Root: cwd, VirtualEnvActive: os.Getenv("VIRTUAL_ENV") != ""},
				})
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(version)
			}
			printVersionInfo(cmd.OutOrStdout(), &version)
			return nil
		},
	}
	cmd.Flags().BoolVar(&queryTools, "tools", false, "Ask every registered tool for its installed version.")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the version information as JSON.")
	return cmd
}

// getToolVersions asks every registered tool for its version. Tools that are
// not installed or expose no version report "unknown".
func getToolVersions(ctx context.Context, deps adapter.Deps) map[string]string {
	if ctx == nil {
		ctx = context.Background()
	}
	tools := make(map[string]string)
	for _, name := range registry.Names() {
		a, err := registry.New(name, deps)
		if err != nil {
			continue
		}
		v, ok := a.Version(ctx)
		if !ok {
			v = "unknown"
		}
		tools[name] = v
	}
	return tools
}

// printVersionInfo prints the version information for the core application and tools.
func printVersionInfo(w io.Writer, versions *CoreVersions) {
	fmt.Fprintf(w, "Core Version: v%s\n", versions.Versions.Version)
	if len(versions.Tools) > 0 {
		fmt.Fprintln(w, "Tool Versions:")
		for _, name := range registry.Names() {
			if v, ok := versions.Tools[name]; ok {
				fmt.Fprintf(w, "  %s: %s\n", name, v)
			}
		}
	}
	fmt.Fprintf(w, "Go Version: %s\n", versions.Versions.GolangVersion)
	fmt.Fprintf(w, "Build Time: %s\n", versions.Versions.BuildTime)
}
