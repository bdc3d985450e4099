package cli

import (
	"github.com/fitlins-go/fslshim/pkg/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// extractCLIFlags returns the configuration-bearing flags the user set explicitly.
func extractCLIFlags(cmd *cobra.Command) map[string]any {
	flags := make(map[string]any)
	cmd.Flags().Visit(func(f *pflag.Flag) {
		if _, ok := config.CLIFlagPaths[f.Name]; !ok {
			return
		}
		if value, ok := flagValue(cmd.Flags(), f); ok {
			flags[f.Name] = value
		}
	})
	return flags
}

func flagValue(set *pflag.FlagSet, f *pflag.Flag) (any, bool) {
	var (
		value any
		err   error
	)
	switch f.Value.Type() {
	case "string":
		value, err = set.GetString(f.Name)
	case "int":
		value, err = set.GetInt(f.Name)
	case "bool":
		value, err = set.GetBool(f.Name)
	default:
		return f.Value.String(), true
	}
	if err != nil {
		return nil, false
	}
	return value, true
}
