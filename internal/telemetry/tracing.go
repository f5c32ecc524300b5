package telemetry

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// TracerName — имя tracer'а robosched.
const TracerName = "github.com/shaiso/robosched"

// ShutdownFunc завершает работу tracer provider'а и сбрасывает буферы.
type ShutdownFunc func(ctx context.Context) error

// SetupTracing настраивает OpenTelemetry со stdout exporter'ом.
//
// output:
//   - "" — трейсинг выключен, используется no-op provider
//   - "stdout" — спаны пишутся в os.Stdout
//   - путь к файлу — спаны пишутся в файл
func SetupTracing(serviceName, serviceVersion, output string) (ShutdownFunc, error) {
	if output == "" {
		return func(context.Context) error { return nil }, nil
	}

	var w io.Writer = os.Stdout
	var file *os.File
	if output != "stdout" {
		f, err := os.Create(output)
		if err != nil {
			return nil, fmt.Errorf("create trace output: %w", err)
		}
		file = f
		w = f
	}

	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		return nil, fmt.Errorf("create stdout exporter: %w", err)
	}

	res, err := resource.New(context.Background(),
		resource.WithAttributes(
			attribute.String("service.name", serviceName),
			attribute.String("service.version", serviceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(sdktrace.NewSimpleSpanProcessor(exporter)),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	return func(ctx context.Context) error {
		err := tp.Shutdown(ctx)
		if file != nil {
			if cerr := file.Close(); err == nil {
				err = cerr
			}
		}
		return err
	}, nil
}

// Tracer возвращает tracer robosched из глобального provider'а.
func Tracer() trace.Tracer {
	return otel.Tracer(TracerName)
}

// EndSpan записывает статус и завершает span.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
