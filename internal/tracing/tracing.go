// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package tracing

import (
	"context"

	jaegerPropagator "go.opentelemetry.io/contrib/propagators/jaeger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	trace "go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/canonical/explorer-service/internal/logging"
)

const tracerName = "explorer-service"

type Tracer struct {
	tracer trace.Tracer

	logger logging.LoggerInterface
}

func (t *Tracer) Start(ctx context.Context, spanName string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, spanName, opts...)
}

// NewTracer sets up the global otel providers and returns the tracer used
// across the application. The exporter is picked based on the configured
// endpoints, gRPC over HTTP, with stdout as the fallback for local runs.
func NewTracer(config *Config) *Tracer {
	t := new(Tracer)
	t.logger = config.Logger

	if !config.Enabled {
		otel.SetTracerProvider(tracenoop.NewTracerProvider())
		t.tracer = otel.Tracer(tracerName)
		return t
	}

	exporter, err := newExporter(config)
	if err != nil {
		t.logger.Fatalf("failed to set up span exporter: %v", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(
			resource.NewWithAttributes(
				semconv.SchemaURL,
				semconv.ServiceName(tracerName),
			),
		),
	)

	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(
		propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
			jaegerPropagator.Jaeger{},
		),
	)

	t.tracer = otel.Tracer(tracerName)

	return t
}

func newExporter(config *Config) (sdktrace.SpanExporter, error) {
	switch {
	case config.OtelGRPCEndpoint != "":
		return otlptrace.New(
			context.Background(),
			otlptracegrpc.NewClient(
				otlptracegrpc.WithEndpoint(config.OtelGRPCEndpoint),
				otlptracegrpc.WithInsecure(),
			),
		)
	case config.OtelHTTPEndpoint != "":
		return otlptrace.New(
			context.Background(),
			otlptracehttp.NewClient(
				otlptracehttp.WithEndpoint(config.OtelHTTPEndpoint),
				otlptracehttp.WithInsecure(),
			),
		)
	default:
		return stdouttrace.New()
	}
}

func NewNoopTracer() *Tracer {
	t := new(Tracer)

	t.tracer = tracenoop.NewTracerProvider().Tracer(tracerName)
	t.logger = logging.NewNoopLogger()

	return t
}
