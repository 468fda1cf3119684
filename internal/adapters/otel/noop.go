package otel

import "context"

// NoOpExporter is a metrics exporter that does nothing. Used when
// telemetry is disabled so callers never branch on nil.
type NoOpExporter struct{}

func NewNoOpExporter() *NoOpExporter { return &NoOpExporter{} }

func (e *NoOpExporter) RecordRegistration(ctx context.Context)                 {}
func (e *NoOpExporter) RecordSessionStarted(ctx context.Context, _ string)     {}
func (e *NoOpExporter) RecordReportGenerated(ctx context.Context, _ string)    {}
func (e *NoOpExporter) RecordSessionCompleted(ctx context.Context, _ string, _ uint32, _ float64) {
}
func (e *NoOpExporter) Close(ctx context.Context) error { return nil }
