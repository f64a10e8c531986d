// Package otel wires opt-in OpenTelemetry tracing for gatewatch commands.
package otel

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const (
	endpointVar = "GATEWATCH_OTEL_ENDPOINT"
	enabledVar  = "GATEWATCH_OTEL_ENABLED"
)

// Setup initialises tracing for the given service and returns a shutdown
// function that flushes pending spans; the caller defers it.
//
// Tracing is opt-in: without GATEWATCH_OTEL_ENDPOINT, or with
// GATEWATCH_OTEL_ENABLED set to "false", no global provider is registered
// and the shutdown function is a no-op. Spans started through the otel API
// then fall through to the default no-op tracer.
func Setup(ctx context.Context, serviceName string) (func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }

	endpoint, ok := exportEndpoint()
	if !ok {
		return noop, nil
	}

	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(endpoint))
	if err != nil {
		return noop, fmt.Errorf("create otlp exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceName(serviceName)),
	)
	if err != nil {
		return noop, fmt.Errorf("build otel resource: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.AlwaysSample())),
	)
	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	return provider.Shutdown, nil
}

// exportEndpoint resolves the configured collector endpoint. The second
// return is false when tracing is disabled or unconfigured.
func exportEndpoint() (string, bool) {
	if strings.EqualFold(os.Getenv(enabledVar), "false") {
		return "", false
	}
	endpoint := strings.TrimSpace(os.Getenv(endpointVar))
	return endpoint, endpoint != ""
}
