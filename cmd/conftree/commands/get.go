// FILE: lixenwraith/conftree/cmd/conftree/commands/get.go
package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lixenwraith/conftree"
	"github.com/spf13/cobra"
)

func newGetCommand(a *app) *cobra.Command {
	var (
		valueType string
		def       string
	)

	cmd := &cobra.Command{
		Use:   "get FILE PATH",
		Short: "Print the value at a dotted path",
		Long: `Print the value at a dotted path.

With --type the value is converted first; trailing '#' comments are stripped
for every type except string. --type all prints every duplicate in file order.`,
		Example: `  # Print a raw value
  conftree get server.conf net.host

  # Convert and fall back to a default
  conftree get server.conf net.port --type int --default 8080`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.cache.Load(args[0])
			if err != nil {
				return err
			}

			value, err := readValue(cfg, valueType, args[1])
			if err != nil {
				if !cmd.Flags().Changed("default") {
					return err
				}
				value = def
			}

			fmt.Fprintln(cmd.OutOrStdout(), value)
			return nil
		},
	}

	cmd.Flags().StringVarP(&valueType, "type", "t", "string", "value type: string, int, uint, float, bool, all")
	cmd.Flags().StringVarP(&def, "default", "d", "", "value printed when the path is missing or invalid")

	return cmd
}

func readValue(cfg *conftree.Config, valueType, path string) (string, error) {
	switch valueType {
	case "string", "":
		return cfg.String(path)
	case "int":
		v, err := cfg.Int64(path)
		return strconv.FormatInt(v, 10), err
	case "uint":
		v, err := cfg.Uint64(path)
		return strconv.FormatUint(v, 10), err
	case "float":
		v, err := cfg.Float64(path)
		return strconv.FormatFloat(v, 'g', -1, 64), err
	case "bool":
		v, err := cfg.Bool(path)
		return strconv.FormatBool(v), err
	case "all":
		values, err := cfg.Strings(path)
		return strings.Join(values, "\n"), err
	default:
		return "", fmt.Errorf("unknown value type %q", valueType)
	}
}
