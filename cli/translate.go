package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fitlins-go/fslshim/engine/level1"
	"github.com/fitlins-go/fslshim/engine/regressor"
	"github.com/fitlins-go/fslshim/engine/session"
	"github.com/fitlins-go/fslshim/pkg/config"
	"github.com/fitlins-go/fslshim/pkg/logger"
	"github.com/fitlins-go/fslshim/pkg/monitoring"
	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// TranslateCmd returns the translate command reading from fs.
func TranslateCmd(fs afero.Fs) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "translate BATCH",
		Short: "Translate a batch document into FSL level-1 inputs",
		Long: `Read a batch document (YAML or JSON) describing one or more runs, check
that all runs share the inter-scan interval and contrast set, and write the
aggregate FSL level-1 input.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranslate(cmd, fs, args[0], output)
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&output, "output", "o", "", "Write the result to this file instead of stdout")
	flags.String("format", "auto", "Output format (json, yaml, summary, auto)")
	flags.Int("parallelism", 1, "Number of runs translated concurrently")
	flags.String("sparse-policy", "warn", "Handling of sparse regressor references (warn, error)")
	flags.String("regressors", "", "Directory relative regressor tables resolve against")
	flags.Int("cache-size", 32, "Regressor table cache entries (0 disables the cache)")
	return cmd
}

func runTranslate(cmd *cobra.Command, fs afero.Fs, batchPath, outputPath string) error {
	ctx := cmd.Context()
	cfg := config.FromContext(ctx)
	log := logger.FromContext(ctx).With("batch_id", uuid.NewString(), "batch", batchPath)
	ctx = logger.ContextWithLogger(ctx, log)

	runs, err := readBatch(fs, batchPath)
	if err != nil {
		return err
	}
	source, err := newRegressorSource(fs, cfg, batchPath)
	if err != nil {
		return err
	}
	policy, err := session.ParseSparsePolicy(cfg.Translate.SparsePolicy)
	if err != nil {
		return err
	}
	metrics, shutdown, err := setupMetrics(ctx, cfg)
	if err != nil {
		return err
	}
	defer shutdown()

	opts := []level1.Option{level1.WithParallelism(cfg.Translate.Parallelism)}
	if metrics != nil {
		opts = append(opts, level1.WithMetrics(metrics))
	}
	translator := level1.NewTranslator(session.NewNormalizer(source, session.WithSparsePolicy(policy)), opts...)
	start := time.Now()
	result, err := translator.Translate(ctx, runs)
	if err != nil {
		log.Error("Batch translation failed", "error", err)
		return err
	}
	fingerprint, err := result.Fingerprint()
	if err != nil {
		return err
	}
	log.Info("Batch translated",
		"runs", len(result.SessionInfo),
		"contrasts", len(result.Contrasts),
		"fingerprint", fingerprint,
		"duration", time.Since(start),
	)

	format, err := resolveFormat(cfg.Translate.OutputFormat, outputPath, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	data, err := renderResult(result, format)
	if err != nil {
		return err
	}
	if outputPath == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := afero.WriteFile(fs, outputPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write output %s: %w", outputPath, err)
	}
	log.Debug("Result written", "path", outputPath, "format", format)
	return nil
}

func readBatch(fs afero.Fs, path string) ([]level1.Run, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch document: %w", err)
	}
	doc, err := level1.DecodeDocument(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc.ToRuns(), nil
}

// newRegressorSource resolves relative table references against the
// configured root, or the batch document's directory.
func newRegressorSource(fs afero.Fs, cfg *config.Config, batchPath string) (regressor.Source, error) {
	root := cfg.Regressors.Root
	if root == "" {
		root = filepath.Dir(batchPath)
	}
	var source regressor.Source = regressor.NewFileSource(fs, root)
	if cfg.Regressors.CacheSize == 0 {
		return source, nil
	}
	cached, err := regressor.NewCachedSource(source, cfg.Regressors.CacheSize)
	if err != nil {
		return nil, err
	}
	return cached, nil
}

// setupMetrics exports translator metrics to the configured textfile.
// Without a textfile the translator records against the global meter provider.
func setupMetrics(ctx context.Context, cfg *config.Config) (*level1.Metrics, func(), error) {
	if cfg.Metrics.Textfile == "" {
		return nil, func() {}, nil
	}
	svc, err := monitoring.NewService(ctx, &monitoring.Config{Enabled: true, Textfile: cfg.Metrics.Textfile})
	if err != nil {
		return nil, nil, err
	}
	metrics, err := level1.NewMetrics(svc.Meter())
	if err != nil {
		return nil, nil, err
	}
	shutdown := func() {
		if err := svc.Shutdown(context.WithoutCancel(ctx)); err != nil {
			logger.FromContext(ctx).Error("Failed to flush metrics", "error", err)
		}
	}
	return metrics, shutdown, nil
}
