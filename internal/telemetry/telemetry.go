// Package telemetry wires OpenTelemetry trace and metric providers that
// export over OTLP/gRPC. The Prometheus collectors are bridged into the
// metric exporter, and outbound HTTP is traced with propagated context.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	otelprom "go.opentelemetry.io/contrib/bridges/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	"google.golang.org/grpc"
)

// Config selects the collector and sampling. It mirrors config.TelemetryConfig.
type Config struct {
	Enabled        bool
	Endpoint       string
	Insecure       bool
	ServiceName    string
	ServiceVersion string
	SampleRatio    float64
	MetricInterval time.Duration

	// Gatherer, when set, is read on every metric export so the Prometheus
	// collectors also reach the OTLP collector.
	Gatherer prometheus.Gatherer
}

// ShutdownFunc flushes and stops the providers.
type ShutdownFunc func(context.Context) error

// Providers holds the installed providers. When telemetry is disabled the
// tracer and meter are no-ops.
type Providers struct {
	Tracer     trace.TracerProvider
	Meter      metric.MeterProvider
	Propagator propagation.TextMapPropagator
}

// HTTPTransport wraps base so every outbound request gets a client span,
// otelhttp metrics and the trace-context headers. A nil base means
// http.DefaultTransport.
func (p *Providers) HTTPTransport(base http.RoundTripper) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	return otelhttp.NewTransport(base,
		otelhttp.WithTracerProvider(p.Tracer),
		otelhttp.WithMeterProvider(p.Meter),
		otelhttp.WithPropagators(p.Propagator),
	)
}

// PrometheusProducer exposes the collectors registered with g to an OTel
// metric reader.
func PrometheusProducer(g prometheus.Gatherer) sdkmetric.Producer {
	return otelprom.NewMetricProducer(otelprom.WithGatherer(g))
}

func propagator() propagation.TextMapPropagator {
	return propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	)
}

// Setup builds the providers and installs them as the otel globals along
// with a W3C trace-context propagator. With cfg.Enabled false it installs
// nothing and returns no-op providers and shutdown.
func Setup(ctx context.Context, cfg Config) (*Providers, ShutdownFunc, error) {
	if !cfg.Enabled {
		return &Providers{
			Tracer:     tracenoop.NewTracerProvider(),
			Meter:      metricnoop.NewMeterProvider(),
			Propagator: propagator(),
		}, func(context.Context) error { return nil }, nil
	}
	if cfg.Endpoint == "" {
		return nil, nil, errors.New("telemetry endpoint is required")
	}

	res := Resource(cfg.ServiceName, cfg.ServiceVersion)

	traceOpts := []otlptracegrpc.Option{
		otlptracegrpc.WithEndpoint(cfg.Endpoint),
		otlptracegrpc.WithDialOption(grpc.WithUserAgent(cfg.ServiceName)),
	}
	metricOpts := []otlpmetricgrpc.Option{
		otlpmetricgrpc.WithEndpoint(cfg.Endpoint),
		otlpmetricgrpc.WithDialOption(grpc.WithUserAgent(cfg.ServiceName)),
	}
	if cfg.Insecure {
		traceOpts = append(traceOpts, otlptracegrpc.WithInsecure())
		metricOpts = append(metricOpts, otlpmetricgrpc.WithInsecure())
	}

	traceExp, err := otlptracegrpc.New(ctx, traceOpts...)
	if err != nil {
		return nil, nil, fmt.Errorf("creating trace exporter: %w", err)
	}
	metricExp, err := otlpmetricgrpc.New(ctx, metricOpts...)
	if err != nil {
		return nil, nil, errors.Join(
			fmt.Errorf("creating metric exporter: %w", err),
			traceExp.Shutdown(ctx),
		)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExp),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))),
	)

	interval := cfg.MetricInterval
	if interval <= 0 {
		interval = time.Minute
	}
	readerOpts := []sdkmetric.PeriodicReaderOption{sdkmetric.WithInterval(interval)}
	if cfg.Gatherer != nil {
		readerOpts = append(readerOpts, sdkmetric.WithProducer(PrometheusProducer(cfg.Gatherer)))
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExp, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	prop := propagator()
	otel.SetTracerProvider(tp)
	otel.SetMeterProvider(mp)
	otel.SetTextMapPropagator(prop)

	shutdown := func(ctx context.Context) error {
		return errors.Join(tp.Shutdown(ctx), mp.Shutdown(ctx))
	}
	return &Providers{Tracer: tp, Meter: mp, Propagator: prop}, shutdown, nil
}

// Resource describes this process to the collector.
func Resource(name, version string) *resource.Resource {
	attrs := []attribute.KeyValue{attribute.String("service.name", name)}
	if version != "" {
		attrs = append(attrs, attribute.String("service.version", version))
	}
	return resource.NewSchemaless(attrs...)
}
