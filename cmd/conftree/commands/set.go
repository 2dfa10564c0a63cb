// FILE: lixenwraith/conftree/cmd/conftree/commands/set.go
package commands

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newSetCommand(a *app) *cobra.Command {
	var atomic bool

	cmd := &cobra.Command{
		Use:   "set FILE PATH VALUE",
		Short: "Overwrite an existing value and store the file",
		Long: `Overwrite an existing value and store the file.

Only existing values can be changed; a missing path is an error. The whole
file is rewritten with comments and layout preserved.`,
		Example: `  conftree set server.conf net.port 9090`,
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.cache.Load(args[0])
			if err != nil {
				return err
			}

			if err := cfg.SetString(args[2], args[1]); err != nil {
				return err
			}

			if atomic {
				err = cfg.StoreAtomic(cfg.Filename())
			} else {
				err = cfg.Store()
			}
			if err != nil {
				return err
			}

			log.Info().
				Str("file", args[0]).
				Str("path", args[1]).
				Msg("Value updated")
			return nil
		},
	}

	cmd.Flags().BoolVar(&atomic, "atomic", false, "write through a temporary file and rename")

	return cmd
}
