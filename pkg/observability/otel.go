// Package observability wires slog and the OpenTelemetry trace, metric and
// log providers for the quadrant binaries.
package observability

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// DefaultServiceName is used when Config.ServiceName is empty.
const DefaultServiceName = "quadrant"

const serviceVersion = "1.0.0"

// Config holds observability configuration.
type Config struct {
	Enabled     bool       // export telemetry over OTLP
	ServiceName string     // defaults to DefaultServiceName
	Level       slog.Level // minimum log level
	// Output receives the local JSON log when export is disabled. Defaults to
	// os.Stderr so command output on stdout stays clean.
	Output io.Writer
}

func (c Config) serviceName() string {
	if c.ServiceName == "" {
		return DefaultServiceName
	}
	return c.ServiceName
}

// parseOTLPHeaders parses OTEL_EXPORTER_OTLP_HEADERS and URL-decodes values.
func parseOTLPHeaders() map[string]string {
	raw := os.Getenv("OTEL_EXPORTER_OTLP_HEADERS")
	if raw == "" {
		return nil
	}

	headers := make(map[string]string)
	for _, pair := range strings.Split(raw, ",") {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		if decoded, err := url.QueryUnescape(value); err == nil {
			value = decoded
		}
		headers[strings.TrimSpace(key)] = value
	}
	return headers
}

// newResource merges the service attributes and OTEL_RESOURCE_ATTRIBUTES
// with the SDK defaults. Partial resources are usable and not an error.
func newResource(ctx context.Context, serviceName string) (*resource.Resource, error) {
	serviceResource, err := resource.New(ctx,
		resource.WithFromEnv(),
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
		resource.WithSchemaURL(semconv.SchemaURL),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create service resource: %w", err)
	}

	res, err := resource.Merge(resource.Default(), serviceResource)
	if err != nil {
		if errors.Is(err, resource.ErrPartialResource) || errors.Is(err, resource.ErrSchemaURLConflict) {
			return res, nil
		}
		return nil, fmt.Errorf("failed to merge resources: %w", err)
	}
	return res, nil
}

// InitTracerProvider installs the global tracer provider. Endpoint and TLS
// settings come from the standard OTEL_EXPORTER_OTLP_* variables.
func InitTracerProvider(ctx context.Context, cfg Config) (*sdktrace.TracerProvider, error) {
	if !cfg.Enabled {
		tp := sdktrace.NewTracerProvider()
		otel.SetTracerProvider(tp)
		return tp, nil
	}

	res, err := newResource(ctx, cfg.serviceName())
	if err != nil {
		return nil, err
	}

	opts := []otlptracegrpc.Option{otlptracegrpc.WithTimeout(10 * time.Second)}
	if headers := parseOTLPHeaders(); headers != nil {
		opts = append(opts, otlptracegrpc.WithHeaders(headers))
	}

	// exporter creation must not inherit a context that is cancelled on shutdown
	traceExporter, err := otlptracegrpc.New(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(traceExporter, sdktrace.WithBatchTimeout(5*time.Second)),
	)
	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return tracerProvider, nil
}

// InitMeterProvider installs the global meter provider.
func InitMeterProvider(ctx context.Context, cfg Config) (*sdkmetric.MeterProvider, error) {
	if !cfg.Enabled {
		mp := sdkmetric.NewMeterProvider()
		otel.SetMeterProvider(mp)
		return mp, nil
	}

	res, err := newResource(ctx, cfg.serviceName())
	if err != nil {
		return nil, err
	}

	opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithTimeout(10 * time.Second)}
	if headers := parseOTLPHeaders(); headers != nil {
		opts = append(opts, otlpmetricgrpc.WithHeaders(headers))
	}

	metricExporter, err := otlpmetricgrpc.New(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create metric exporter: %w", err)
	}

	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter,
			sdkmetric.WithInterval(15*time.Second),
		)),
	)
	otel.SetMeterProvider(meterProvider)

	return meterProvider, nil
}

// InitLogger returns the log provider and a structured logger filtered at
// cfg.Level. When export is disabled the logger writes JSON to cfg.Output.
func InitLogger(ctx context.Context, cfg Config) (*log.LoggerProvider, *slog.Logger, error) {
	if !cfg.Enabled {
		out := cfg.Output
		if out == nil {
			out = os.Stderr
		}
		handler := slog.NewJSONHandler(out, &slog.HandlerOptions{Level: cfg.Level})
		return log.NewLoggerProvider(), slog.New(handler), nil
	}

	res, err := newResource(ctx, cfg.serviceName())
	if err != nil {
		return nil, nil, err
	}

	opts := []otlploggrpc.Option{otlploggrpc.WithTimeout(10 * time.Second)}
	if headers := parseOTLPHeaders(); headers != nil {
		opts = append(opts, otlploggrpc.WithHeaders(headers))
	}

	logExporter, err := otlploggrpc.New(context.Background(), opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create log exporter: %w", err)
	}

	loggerProvider := log.NewLoggerProvider(
		log.WithProcessor(log.NewBatchProcessor(logExporter, log.WithExportTimeout(5*time.Second))),
		log.WithResource(res),
	)

	handler := otelslog.NewHandler(cfg.serviceName(), otelslog.WithLoggerProvider(loggerProvider))
	return loggerProvider, slog.New(levelHandler{level: cfg.Level, Handler: handler}), nil
}

// levelHandler drops records below level before they reach the bridge.
type levelHandler struct {
	level slog.Level
	slog.Handler
}

func (h levelHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.level && h.Handler.Enabled(ctx, level)
}

func (h levelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return levelHandler{level: h.level, Handler: h.Handler.WithAttrs(attrs)}
}

func (h levelHandler) WithGroup(name string) slog.Handler {
	return levelHandler{level: h.level, Handler: h.Handler.WithGroup(name)}
}

// Providers holds the installed providers so a binary can flush them on exit.
type Providers struct {
	Logger *slog.Logger

	logs    *log.LoggerProvider
	traces  *sdktrace.TracerProvider
	metrics *sdkmetric.MeterProvider
}

// Setup initializes logging, tracing and metrics and makes the logger the
// slog default.
func Setup(ctx context.Context, cfg Config) (*Providers, error) {
	lp, logger, err := InitLogger(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to init logger: %w", err)
	}
	slog.SetDefault(logger)

	tp, err := InitTracerProvider(ctx, cfg)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("failed to init tracer provider: %w", err), lp.Shutdown(ctx))
	}

	mp, err := InitMeterProvider(ctx, cfg)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("failed to init meter provider: %w", err), tp.Shutdown(ctx), lp.Shutdown(ctx))
	}

	return &Providers{Logger: logger, logs: lp, traces: tp, metrics: mp}, nil
}

// Shutdown flushes and stops every provider.
func (p *Providers) Shutdown(ctx context.Context) error {
	var errs []error
	if err := p.metrics.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("failed to shutdown meter provider: %w", err))
	}
	if err := p.traces.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("failed to shutdown tracer provider: %w", err))
	}
	if err := p.logs.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("failed to shutdown logger provider: %w", err))
	}
	return errors.Join(errs...)
}
