package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"text/tabwriter"

	"github.com/fitlins-go/fslshim/pkg/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// ConfigCmd returns the config command
func ConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the effective configuration",
	}
	cmd.AddCommand(configShowCmd())
	return cmd
}

// configShowCmd shows the current configuration with source information
func configShowCmd() *cobra.Command {
	var (
		format      string
		showSources bool
	)
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show configuration values and their sources",
		Long: `Display the effective configuration. With --sources, each key is annotated
with the layer (default, YAML, environment or CLI) that provided it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configFile, err := cmd.Flags().GetString("config")
			if err != nil {
				return err
			}
			cfg, service, err := loadConfig(cmd, configFile)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			values := flattenConfig(cfg)
			sources := make(map[string]config.SourceType, len(values))
			for key := range values {
				sources[key] = service.GetSource(key)
			}
			return formatConfigOutput(cmd.OutOrStdout(), values, sources, format, showSources)
		},
	}
	cmd.Flags().StringVarP(&format, "output", "o", "table", "Output format (json, yaml, table)")
	cmd.Flags().BoolVarP(&showSources, "sources", "s", false, "Show configuration sources")
	return cmd
}

func formatConfigOutput(
	w io.Writer,
	values map[string]any,
	sources map[string]config.SourceType,
	format string,
	showSources bool,
) error {
	output := map[string]any{"config": values}
	if showSources {
		output["sources"] = sources
	}
	switch format {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(output)
	case "yaml":
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(output); err != nil {
			return err
		}
		return encoder.Close()
	case "table":
		return outputTable(w, values, sources, showSources)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func outputTable(w io.Writer, values map[string]any, sources map[string]config.SourceType, showSources bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if showSources {
		fmt.Fprintln(tw, "KEY\tVALUE\tSOURCE")
	} else {
		fmt.Fprintln(tw, "KEY\tVALUE")
	}
	for _, key := range sortedKeys(values) {
		if showSources {
			fmt.Fprintf(tw, "%s\t%v\t%s\n", key, values[key], sources[key])
		} else {
			fmt.Fprintf(tw, "%s\t%v\n", key, values[key])
		}
	}
	return tw.Flush()
}

// flattenConfig converts the nested config to dotted koanf keys.
func flattenConfig(cfg *config.Config) map[string]any {
	result := make(map[string]any)
	flattenStruct("", reflect.ValueOf(cfg).Elem(), result)
	return result
}

func flattenStruct(prefix string, val reflect.Value, result map[string]any) {
	typ := val.Type()
	for i := 0; i < val.NumField(); i++ {
		field := typ.Field(i)
		tag := field.Tag.Get("koanf")
		if !field.IsExported() || tag == "" || tag == "-" {
			continue
		}
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}
		if val.Field(i).Kind() == reflect.Struct {
			flattenStruct(key, val.Field(i), result)
			continue
		}
		result[key] = val.Field(i).Interface()
	}
}
