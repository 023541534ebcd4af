// Package otel configures OpenTelemetry tracing for the diamond binaries.
package otel

import (
	"context"
	"fmt"
	"strings"

	"github.com/louisbranch/diamond/internal/platform/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// EnvPrefix namespaces the tracing variables.
const EnvPrefix = config.EnvPrefix + "OTEL_"

// Config controls span export.
type Config struct {
	// Endpoint is the OTLP/HTTP collector URL. Tracing stays off when empty.
	Endpoint string `env:"ENDPOINT"`
	// Enabled turns tracing off even when an endpoint is configured.
	Enabled bool `env:"ENABLED" envDefault:"true"`
	// SampleRatio is the fraction of root spans kept, within 0-1.
	SampleRatio float64 `env:"SAMPLE_RATIO" envDefault:"1"`
}

// LoadConfig reads DIAMOND_OTEL_* variables.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := config.ParseEnvPrefixed(&cfg, EnvPrefix); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Setup initialises OpenTelemetry tracing for the given service from the
// environment.
//
// Tracing is opt-in: when DIAMOND_OTEL_ENDPOINT is empty or
// DIAMOND_OTEL_ENABLED is "false", Setup returns a no-op shutdown function
// and no global provider is registered.
//
// The returned shutdown function flushes pending spans and should be deferred
// by the caller.
func Setup(ctx context.Context, serviceName string) (shutdown func(context.Context) error, err error) {
	cfg, err := LoadConfig()
	if err != nil {
		return func(context.Context) error { return nil }, err
	}
	return SetupWithConfig(ctx, serviceName, cfg)
}

// SetupWithConfig is Setup with explicit settings.
func SetupWithConfig(ctx context.Context, serviceName string, cfg Config) (shutdown func(context.Context) error, err error) {
	noop := func(context.Context) error { return nil }

	endpoint := strings.TrimSpace(cfg.Endpoint)
	if !cfg.Enabled || endpoint == "" {
		return noop, nil
	}
	if cfg.SampleRatio < 0 || cfg.SampleRatio > 1 {
		return noop, fmt.Errorf("otel sample ratio %v must be within 0-1", cfg.SampleRatio)
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpointURL(endpoint),
	)
	if err != nil {
		return noop, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
		),
	)
	if err != nil {
		return noop, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler(cfg.SampleRatio)),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp.Shutdown, nil
}

func sampler(ratio float64) sdktrace.Sampler {
	if ratio >= 1 {
		return sdktrace.AlwaysSample()
	}
	return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))
}
