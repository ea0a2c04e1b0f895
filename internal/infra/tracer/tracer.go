// Package tracer wires OpenTelemetry spans for the request cycle.
package tracer

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"koordinator/internal/infra/config"
)

const tracerName = "koordinator"

// Shutdown flushes and stops the tracer provider.
type Shutdown func(context.Context) error

// Setup installs the global tracer provider described by cfg. Spans from the
// stdout exporter are written to w, or to stderr when w is nil.
func Setup(ctx context.Context, cfg config.TracerConfig, w io.Writer) (Shutdown, error) {
	noopShutdown := func(context.Context) error { return nil }

	if !cfg.Enabled || cfg.Exporter == "" || cfg.Exporter == "noop" {
		otel.SetTracerProvider(noop.NewTracerProvider())
		return noopShutdown, nil
	}
	if cfg.Exporter != "stdout" {
		return nil, fmt.Errorf("unsupported exporter: %s", cfg.Exporter)
	}

	if w == nil {
		w = os.Stderr
	}
	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		return nil, fmt.Errorf("create stdout exporter: %w", err)
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}

// StartSpan starts a named span on the koordinator tracer.
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, name, opts...)
}

// RecordError records an error on the span and sets error status.
func RecordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// SetOK sets the span status to OK.
func SetOK(span trace.Span) {
	span.SetStatus(codes.Ok, "")
}

// StringAttr is a convenience for attribute.String.
func StringAttr(key, value string) attribute.KeyValue {
	return attribute.String(key, value)
}
