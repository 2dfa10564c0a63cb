// FILE: lixenwraith/conftree/cmd/conftree/commands/watch.go
package commands

import (
	"fmt"
	"time"

	"github.com/lixenwraith/conftree"
	"github.com/spf13/cobra"
)

func newWatchCommand(a *app) *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch FILE",
		Short: "Print changed paths whenever the file is modified",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.cache.Load(args[0]); err != nil {
				return err
			}

			opts := conftree.DefaultWatchOptions()
			opts.Debounce = debounce

			ctx := cmd.Context()
			if err := a.cache.Watch(ctx, opts); err != nil {
				return err
			}
			defer a.cache.StopWatching()

			changes := a.cache.Subscribe()
			out := cmd.OutOrStdout()
			for {
				select {
				case <-ctx.Done():
					return nil
				case change, ok := <-changes:
					if !ok {
						return nil
					}
					switch change.Kind {
					case conftree.ChangeValue:
						fmt.Fprintln(out, change.Path)
					case conftree.ChangeReloadError:
						fmt.Fprintf(out, "%s: %v\n", change.Kind, change.Err)
					default:
						fmt.Fprintln(out, change.Kind)
					}
				}
			}
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", conftree.DefaultDebounce, "coalesce changes within this period")

	return cmd
}
