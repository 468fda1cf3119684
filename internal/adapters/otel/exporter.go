// Package otel exports service metrics to an OpenTelemetry Collector
// over OTLP/gRPC. When telemetry is disabled the service falls back to
// the NoOpExporter instead.
package otel

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

const (
	serviceName    = "solace"
	serviceVersion = "1.0.0"
)

// Config holds OTLP exporter settings.
type Config struct {
	Endpoint string
	Enabled  bool
	Insecure bool
}

// Exporter publishes therapy-service metrics.
type Exporter struct {
	provider          *sdkmetric.MeterProvider
	registrations     metric.Int64Counter
	sessionsStarted   metric.Int64Counter
	sessionsCompleted metric.Int64Counter
	reportsGenerated  metric.Int64Counter
	durationHist      metric.Int64Histogram
	reductionHist     metric.Float64Histogram
}

// NewExporter creates an OTLP/gRPC metrics exporter.
func NewExporter(ctx context.Context, cfg Config) (*Exporter, error) {
	if !cfg.Enabled || cfg.Endpoint == "" {
		return nil, fmt.Errorf("OTEL exporter is disabled or endpoint not configured")
	}

	opts := []otlpmetricgrpc.Option{
		otlpmetricgrpc.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())))
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}

	exp, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating OTLP exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	registrations, err := meter.Int64Counter(
		"solace_users_registered_total",
		metric.WithDescription("Total user registrations"),
		metric.WithUnit("{user}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating registrations counter: %w", err)
	}

	sessionsStarted, err := meter.Int64Counter(
		"solace_sessions_started_total",
		metric.WithDescription("Total therapy sessions started"),
		metric.WithUnit("{session}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating sessions started counter: %w", err)
	}

	sessionsCompleted, err := meter.Int64Counter(
		"solace_sessions_completed_total",
		metric.WithDescription("Total therapy sessions completed"),
		metric.WithUnit("{session}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating sessions completed counter: %w", err)
	}

	reportsGenerated, err := meter.Int64Counter(
		"solace_reports_generated_total",
		metric.WithDescription("Total progress reports generated"),
		metric.WithUnit("{report}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating reports counter: %w", err)
	}

	durationHist, err := meter.Int64Histogram(
		"solace_session_duration_minutes",
		metric.WithDescription("Completed session duration in minutes"),
		metric.WithUnit("min"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating duration histogram: %w", err)
	}

	reductionHist, err := meter.Float64Histogram(
		"solace_stress_reduction",
		metric.WithDescription("Per-session stress reduction (before minus after)"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating reduction histogram: %w", err)
	}

	return &Exporter{
		provider:          provider,
		registrations:     registrations,
		sessionsStarted:   sessionsStarted,
		sessionsCompleted: sessionsCompleted,
		reportsGenerated:  reportsGenerated,
		durationHist:      durationHist,
		reductionHist:     reductionHist,
	}, nil
}

func (e *Exporter) RecordRegistration(ctx context.Context) {
	e.registrations.Add(ctx, 1)
}

func (e *Exporter) RecordSessionStarted(ctx context.Context, sessionType string) {
	e.sessionsStarted.Add(ctx, 1, metric.WithAttributes(attribute.String("session_type", sessionType)))
}

func (e *Exporter) RecordSessionCompleted(ctx context.Context, sessionType string, durationMinutes uint32, stressReduction float64) {
	opt := metric.WithAttributes(attribute.String("session_type", sessionType))
	e.sessionsCompleted.Add(ctx, 1, opt)
	e.durationHist.Record(ctx, int64(durationMinutes), opt)
	e.reductionHist.Record(ctx, stressReduction, opt)
}

func (e *Exporter) RecordReportGenerated(ctx context.Context, trend string) {
	e.reportsGenerated.Add(ctx, 1, metric.WithAttributes(attribute.String("trend", trend)))
}

// Close shuts down the exporter and flushes any pending metrics.
func (e *Exporter) Close(ctx context.Context) error {
	return e.provider.Shutdown(ctx)
}
