// FILE: lixenwraith/conftree/cmd/conftree/commands/root.go
package commands

import (
	"context"

	"github.com/lixenwraith/conftree"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// app carries state shared by all subcommands of one invocation
type app struct {
	cache  *conftree.Cache
	strict bool
}

// Execute runs the root command
func Execute(ctx context.Context, version string) error {
	return newRootCommand(version).ExecuteContext(ctx)
}

func newRootCommand(version string) *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "conftree",
		Short: "Inspect and edit hierarchical configuration files",
		Long: `conftree reads, edits and converts configuration files written as
nested [section] ... [!section] blocks of "name = value" lines.

Comments, blank lines and ordering are preserved when files are written back.
Paths are dotted: "net.port" addresses the port value inside [net].`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			opts := conftree.DefaultCacheOptions()
			opts.Logger = log.Logger
			opts.StrictSetters = a.strict
			a.cache = conftree.NewCache(opts)
		},
	}

	rootCmd.PersistentFlags().BoolVar(&a.strict, "strict", false, "report failed typed writes instead of ignoring them")

	rootCmd.AddCommand(newGetCommand(a))
	rootCmd.AddCommand(newSetCommand(a))
	rootCmd.AddCommand(newNamesCommand(a))
	rootCmd.AddCommand(newSectionsCommand(a))
	rootCmd.AddCommand(newFmtCommand(a))
	rootCmd.AddCommand(newExportCommand(a))
	rootCmd.AddCommand(newImportCommand())
	rootCmd.AddCommand(newWatchCommand(a))

	return rootCmd
}
