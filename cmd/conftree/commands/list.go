// FILE: lixenwraith/conftree/cmd/conftree/commands/list.go
package commands

import (
	"fmt"

	"github.com/lixenwraith/conftree"
	"github.com/spf13/cobra"
)

func newNamesCommand(a *app) *cobra.Command {
	return newListCommand(a, "names", "List value names of a section in file order",
		func(cfg *conftree.Config, path ...string) ([]string, error) {
			return cfg.Names(path...)
		})
}

func newSectionsCommand(a *app) *cobra.Command {
	return newListCommand(a, "sections", "List subsection names of a section in file order",
		func(cfg *conftree.Config, path ...string) ([]string, error) {
			return cfg.Sections(path...)
		})
}

func newListCommand(a *app, use, short string, list func(*conftree.Config, ...string) ([]string, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " FILE [PATH]",
		Short: short,
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.cache.Load(args[0])
			if err != nil {
				return err
			}

			var names []string
			if len(args) == 2 {
				names, err = list(cfg, args[1])
			} else {
				names, err = list(cfg)
			}
			if err != nil {
				return err
			}

			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}
