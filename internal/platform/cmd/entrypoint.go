// Package cmd holds the startup plumbing shared by diamond commands.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/louisbranch/diamond/internal/platform/config"
	apperrors "github.com/louisbranch/diamond/internal/platform/errors"
	"github.com/louisbranch/diamond/internal/platform/otel"
	"github.com/louisbranch/diamond/internal/platform/timeouts"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/status"
)

// Service names reported to telemetry.
const (
	ServiceSimulate = "diamond-simulate"
	ServiceReplay   = "diamond-replay"
)

// DefaultLocale is used when DIAMOND_LOCALE is unset.
const DefaultLocale = "en-US"

// RunOptions controls shared entrypoint behavior.
type RunOptions struct {
	// ShutdownTimeout bounds the telemetry flush on exit.
	ShutdownTimeout time.Duration
}

// ParseConfig loads environment defaults into cfg.
func ParseConfig[T any](cfg *T) error {
	if cfg == nil {
		return errors.New("config target is required")
	}
	return config.ParseEnv(cfg)
}

// ParseArgs parses command-line flags.
func ParseArgs(fs *flag.FlagSet, args []string) error {
	if fs == nil {
		return errors.New("flag parser is required")
	}
	if args == nil {
		args = []string{}
	}
	return fs.Parse(args)
}

// RunWithTelemetry installs the tracer provider and runs a command.
func RunWithTelemetry(ctx context.Context, service string, run func(context.Context) error) error {
	return RunWithTelemetryAndOptions(ctx, service, RunOptions{}, run)
}

// RunWithTelemetryAndOptions is RunWithTelemetry with explicit options.
func RunWithTelemetryAndOptions(ctx context.Context, service string, options RunOptions, run func(context.Context) error) error {
	service = strings.TrimSpace(service)
	if service == "" {
		return fmt.Errorf("service name is required")
	}
	if run == nil {
		return fmt.Errorf("run function is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	shutdown, err := otel.Setup(ctx, service)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() {
		timeout := options.ShutdownTimeout
		if timeout <= 0 {
			timeout = timeouts.TelemetryShutdown
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			log.Printf("%s otel shutdown: %v", service, err)
		}
	}()
	return run(ctx)
}

// Describe renders err for a terminal: the localized message first, then the
// status code and the internal detail.
func Describe(err error, locale string) string {
	if err == nil {
		return ""
	}
	if strings.TrimSpace(locale) == "" {
		locale = DefaultLocale
	}
	st, ok := status.FromError(apperrors.ToGRPC(err, locale))
	if !ok {
		return err.Error()
	}
	for _, detail := range st.Details() {
		if lm, ok := detail.(*errdetails.LocalizedMessage); ok && lm.GetMessage() != "" {
			return fmt.Sprintf("%s [%s] (%s)", lm.GetMessage(), st.Code(), st.Message())
		}
	}
	return fmt.Sprintf("[%s] %s", st.Code(), st.Message())
}

// Exit reports err through Describe and exits with status 1.
func Exit(command string, err error, locale string) {
	config.Exitf("%s: %s", command, Describe(err, locale))
}
