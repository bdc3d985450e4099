package monitoring

import (
	"context"
	"errors"
	"fmt"

	"github.com/fitlins-go/fslshim/pkg/logger"
	prom "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

const meterName = "fslshim"

// Config holds configuration for the monitoring service
type Config struct {
	Enabled bool
	// Textfile, when set, receives the registry in Prometheus text format on Shutdown.
	Textfile string
}

// Service owns the meter provider and the Prometheus registry it exports to
type Service struct {
	meter       metric.Meter
	exporter    *prometheus.Exporter
	provider    *sdkmetric.MeterProvider
	registry    *prom.Registry
	config      *Config
	initialized bool
}

func newDisabledService(cfg *Config) *Service {
	return &Service{
		config: cfg,
		meter:  noop.NewMeterProvider().Meter(meterName),
	}
}

// NewService creates a monitoring service backed by a Prometheus exporter.
// A disabled config yields a service with a no-op meter.
func NewService(ctx context.Context, cfg *Config) (*Service, error) {
	log := logger.FromContext(ctx)
	if cfg == nil {
		cfg = &Config{}
	}
	if !cfg.Enabled {
		log.Debug("Monitoring disabled, using no-op meter")
		return newDisabledService(cfg), nil
	}
	registry := prom.NewRegistry()
	exporter, err := prometheus.New(prometheus.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Prometheus exporter: %w", err)
	}
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	log.Debug("Monitoring service initialized", "textfile", cfg.Textfile)
	return &Service{
		meter:       provider.Meter(meterName),
		exporter:    exporter,
		provider:    provider,
		registry:    registry,
		config:      cfg,
		initialized: true,
	}, nil
}

// Meter returns the OpenTelemetry meter for custom instrumentation
func (s *Service) Meter() metric.Meter {
	return s.meter
}

// MeterProvider returns the provider backing Meter.
func (s *Service) MeterProvider() metric.MeterProvider {
	if s.provider == nil {
		return noop.NewMeterProvider()
	}
	return s.provider
}

// Registry returns the Prometheus registry, or nil when monitoring is disabled.
func (s *Service) Registry() *prom.Registry {
	return s.registry
}

// IsInitialized returns whether the exporter pipeline is active
func (s *Service) IsInitialized() bool {
	return s.initialized
}

// SetAsGlobal sets this service's provider as the global OpenTelemetry meter provider
func (s *Service) SetAsGlobal() {
	if s.provider != nil {
		otel.SetMeterProvider(s.provider)
	}
}

// WriteTextfile writes the current registry contents to path in the
// Prometheus text exposition format.
func (s *Service) WriteTextfile(path string) error {
	if !s.initialized {
		return errors.New("monitoring service not initialized")
	}
	if err := prom.WriteToTextfile(path, s.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile %s: %w", path, err)
	}
	return nil
}

// Shutdown flushes the configured textfile, then shuts the provider down.
func (s *Service) Shutdown(ctx context.Context) error {
	if s.provider == nil {
		return nil
	}
	var writeErr error
	if s.config.Textfile != "" {
		writeErr = s.WriteTextfile(s.config.Textfile)
	}
	return errors.Join(writeErr, s.provider.Shutdown(ctx))
}
