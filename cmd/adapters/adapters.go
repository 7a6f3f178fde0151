package adapters

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/scan-io-git/lint-adapters/internal/registry"
	"github.com/scan-io-git/lint-adapters/pkg/adapter"
	"github.com/scan-io-git/lint-adapters/pkg/config"
	"github.com/scan-io-git/lint-adapters/pkg/lint"
)

// Description is the listing entry for one adapter.
type Description struct {
	Name        string        `json:"name"`
	DisplayName string        `json:"display_name"`
	Info        adapter.Info  `json:"info"`
	Install     string        `json:"install,omitempty"`
	Options     []lint.Option `json:"options"`
}

var (
	AppConfig *config.Config
	asJSON    bool

	exampleAdaptersUsage = `  # List every available adapter
  lint-adapters adapters

  # Show the options accepted by eslint
  lint-adapters adapters eslint

  # Print the listing as JSON
  lint-adapters adapters --json`
)

// AdaptersCmd lists the registered adapters and their options.
var AdaptersCmd = &cobra.Command{
	Use:                   "adapters [--json] [NAME...]",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               exampleAdaptersUsage,
	Short:                 "List available linters and the configuration options they accept",
	RunE:                  runAdaptersCommand,
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

func runAdaptersCommand(cmd *cobra.Command, args []string) error {
	names := args
	if len(names) == 0 {
		names = registry.Names()
	}

	descriptions := make([]Description, 0, len(names))
	for _, name := range names {
		a, err := registry.New(name, adapter.Deps{})
		if err != nil {
			return err
		}
		descriptions = append(descriptions, Description{
			Name:        a.Name(),
			DisplayName: a.DisplayName(),
			Info:        a.Info(),
			Install:     a.InstallInstructions(),
			Options:     a.Options().Options(),
		})
	}

	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(descriptions)
	}
	printDescriptions(cmd.OutOrStdout(), descriptions, len(args) > 0)
	return nil
}

func printDescriptions(w io.Writer, descriptions []Description, verbose bool) {
	for _, d := range descriptions {
		fmt.Fprintf(w, "%-24s %s\n", d.Name, d.Info.Description)
		if !verbose {
			continue
		}
		if d.Info.URI != "" {
			fmt.Fprintf(w, "  %s\n", d.Info.URI)
		}
		for _, opt := range d.Options {
			fmt.Fprintf(w, "  %-32s %s\n", opt.Name, opt.Type)
			if opt.Help != "" {
				fmt.Fprintf(w, "      %s\n", strings.ReplaceAll(strings.TrimSpace(opt.Help), "\n", "\n      "))
			}
		}
		if d.Install != "" {
			fmt.Fprintf(w, "  install: %s\n", d.Install)
		}
		fmt.Fprintln(w)
	}
}

func init() {
	AdaptersCmd.Flags().BoolVar(&asJSON, "json", false, "Print the listing as JSON.")
}
