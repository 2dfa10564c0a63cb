// FILE: lixenwraith/conftree/cmd/conftree/commands/export.go
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newExportCommand(a *app) *cobra.Command {
	var (
		format  string
		section string
	)

	cmd := &cobra.Command{
		Use:   "export FILE",
		Short: "Convert a file to TOML, YAML or JSON",
		Long: `Convert a file to TOML, YAML or JSON.

Sections become tables or maps and every value is exported as a string.
Repeated keys export their last value. Comments are not exported.`,
		Example: `  conftree export server.conf --format yaml
  conftree export server.conf --format json --section net`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.cache.Load(args[0])
			if err != nil {
				return err
			}
			if section != "" {
				if cfg, err = cfg.GetInstance(section); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			switch format {
			case "toml":
				return cfg.ExportTOML(out)
			case "yaml", "yml":
				return cfg.ExportYAML(out)
			case "json":
				return cfg.ExportJSON(out)
			default:
				return fmt.Errorf("unsupported export format %q", format)
			}
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "toml", "output format: toml, yaml, json")
	cmd.Flags().StringVarP(&section, "section", "s", "", "export only the section at this dotted path")

	return cmd
}
