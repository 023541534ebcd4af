package otel_test

import (
	"context"
	"testing"

	"github.com/louisbranch/diamond/internal/platform/otel"
)

func TestSetupNoopWhenEndpointEmpty(t *testing.T) {
	t.Setenv("DIAMOND_OTEL_ENDPOINT", "")
	t.Setenv("DIAMOND_OTEL_ENABLED", "true")

	shutdown, err := otel.Setup(context.Background(), "diamond-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestSetupNoopWhenExplicitlyDisabled(t *testing.T) {
	t.Setenv("DIAMOND_OTEL_ENDPOINT", "http://localhost:4318")
	t.Setenv("DIAMOND_OTEL_ENABLED", "false")

	shutdown, err := otel.Setup(context.Background(), "diamond-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestSetupCreatesProviderWhenEndpointSet(t *testing.T) {
	// Non-routable address so nothing is exported.
	t.Setenv("DIAMOND_OTEL_ENDPOINT", "http://192.0.2.1:4318")
	t.Setenv("DIAMOND_OTEL_ENABLED", "true")
	t.Setenv("DIAMOND_OTEL_SAMPLE_RATIO", "0.5")

	shutdown, err := otel.Setup(context.Background(), "diamond-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestSetupWithConfigRejectsBadRatio(t *testing.T) {
	_, err := otel.SetupWithConfig(context.Background(), "diamond-test", otel.Config{
		Endpoint:    "http://192.0.2.1:4318",
		Enabled:     true,
		SampleRatio: 2,
	})
	if err == nil {
		t.Fatal("expected error for sample ratio above 1")
	}
}

func TestSetupRejectsMalformedEnv(t *testing.T) {
	t.Setenv("DIAMOND_OTEL_SAMPLE_RATIO", "half")

	shutdown, err := otel.Setup(context.Background(), "diamond-test")
	if err == nil {
		t.Fatal("expected parse error")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("noop shutdown should not error: %v", err)
	}
}
