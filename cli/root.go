package cli

import (
	"fmt"

	"github.com/fitlins-go/fslshim/pkg/config"
	"github.com/fitlins-go/fslshim/pkg/logger"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// RootCmd builds the fslshim command tree over the operating system filesystem.
func RootCmd() *cobra.Command {
	return newRootCmd(afero.NewOsFs())
}

func newRootCmd(fs afero.Fs) *cobra.Command {
	root := &cobra.Command{
		Use:           "fslshim",
		Short:         "Translate fMRI run descriptions into FSL level-1 model inputs",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return setupGlobalConfig(cmd)
		},
	}
	addPersistentFlags(root)
	root.AddCommand(
		TranslateCmd(fs),
		SchemaCmd(fs),
		ConfigCmd(),
		VersionCmd(),
	)
	return root
}

func addPersistentFlags(root *cobra.Command) {
	flags := root.PersistentFlags()
	flags.String("config", "fslshim.yaml", "Path to configuration file (ignored when missing)")
	flags.String("env-file", ".env", "Path to environment file (ignored when missing)")
	flags.String("log-level", "info", "Log level (debug, info, warn, error, disabled)")
	flags.Bool("log-json", false, "Emit logs as JSON")
	flags.Bool("log-source", false, "Include source location in logs")
	flags.String("metrics-file", "", "Write Prometheus metrics to this textfile on exit")
}

// setupGlobalConfig loads configuration and attaches it, together with the
// configured logger, to the command context.
func setupGlobalConfig(cmd *cobra.Command) error {
	envFile, err := cmd.Flags().GetString("env-file")
	if err != nil {
		return err
	}
	if _, err := config.LoadEnvFile(envFile); err != nil {
		return err
	}
	configFile, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}
	cfg, _, err := loadConfig(cmd, configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	log := logger.SetupLogger(
		logger.ParseLevel(cfg.Runtime.LogLevel),
		cfg.Runtime.LogJSON,
		cfg.Runtime.LogSource,
	)
	ctx := logger.ContextWithLogger(cmd.Context(), log)
	ctx = config.ContextWithConfig(ctx, cfg)
	cmd.SetContext(ctx)
	return nil
}

// loadConfig layers the YAML file and explicitly set CLI flags over the
// defaults and environment.
func loadConfig(cmd *cobra.Command, configFile string) (*config.Config, config.Service, error) {
	service := config.NewService()
	var sources []config.Source
	if configFile != "" {
		sources = append(sources, config.NewYAMLProvider(configFile))
	}
	if flags := extractCLIFlags(cmd); len(flags) > 0 {
		sources = append(sources, config.NewCLIProvider(flags))
	}
	cfg, err := service.Load(cmd.Context(), sources...)
	if err != nil {
		return nil, nil, err
	}
	return cfg, service, nil
}
