// FILE: lixenwraith/conftree/cmd/conftree/commands/import.go
package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lixenwraith/conftree"
	"github.com/spf13/cobra"
)

func newImportCommand() *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Convert a TOML or YAML file into conftree format",
		Long: `Convert a TOML or YAML file into conftree format.

Tables and maps become sections, arrays of scalars become repeated values.
The format is taken from the file extension unless --format is given.`,
		Example: `  conftree import app.toml --output app.conf`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" {
				format = strings.TrimPrefix(strings.ToLower(filepath.Ext(args[0])), ".")
			}

			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open '%s': %w", args[0], err)
			}
			defer file.Close()

			var t *conftree.Tree
			switch format {
			case "toml", "tml":
				t, err = conftree.ImportTOML(args[0], file)
			case "yaml", "yml":
				t, err = conftree.ImportYAML(args[0], file)
			default:
				return fmt.Errorf("unsupported import format %q", format)
			}
			if err != nil {
				return err
			}

			if output == "" {
				return conftree.WriteTree(cmd.OutOrStdout(), t)
			}
			return conftree.New(output, t).Store()
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "input format: toml, yaml (default from extension)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this file instead of stdout")

	return cmd
}
