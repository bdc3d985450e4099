package cli

import (
	"fmt"
	"strings"

	"github.com/fitlins-go/fslshim/pkg/schemagen"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// SchemaCmd prints a JSON schema, or writes all of them with --out.
func SchemaCmd(fs afero.Fs) *cobra.Command {
	var (
		kind   string
		outDir string
	)
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema of batch documents or the configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if outDir != "" {
				_, err := schemagen.NewGenerator(fs).Generate(cmd.Context(), outDir)
				return err
			}
			definition, ok := schemagen.Definitions()[kind]
			if !ok {
				return fmt.Errorf("unknown schema %q (expected one of %s)", kind, strings.Join(schemagen.Names(), ", "))
			}
			data, err := definition.Build()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "batch", "Schema to print (batch, config)")
	cmd.Flags().StringVar(&outDir, "out", "", "Write every schema into this directory instead of printing")
	return cmd
}
