// FILE: lixenwraith/conftree/cmd/conftree/commands/fmt.go
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newFmtCommand(a *app) *cobra.Command {
	var (
		write bool
		diff  bool
	)

	cmd := &cobra.Command{
		Use:   "fmt FILE",
		Short: "Print a file in canonical layout",
		Long: `Print a file in canonical layout: values as "name = value", one tab of
indentation per section level, comments and blank lines kept.`,
		Example: `  # Show what formatting would change
  conftree fmt --diff server.conf

  # Rewrite in place
  conftree fmt --write server.conf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			original, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read '%s': %w", args[0], err)
			}

			cfg, err := a.cache.Load(args[0])
			if err != nil {
				return err
			}
			formatted := cfg.Serialize()

			out := cmd.OutOrStdout()
			if diff {
				writeDiff(out, string(original), formatted)
			}
			if write {
				if formatted == string(original) {
					return nil
				}
				return cfg.StoreAtomic(args[0])
			}
			if !diff {
				fmt.Fprint(out, formatted)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, "write the result back to the file")
	cmd.Flags().BoolVar(&diff, "diff", false, "print a diff instead of the formatted file")

	return cmd
}
