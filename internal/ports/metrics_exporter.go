package ports

import "context"

// MetricsExporter publishes service-level metrics to an external
// observability system. Implementations must tolerate being called on
// every operation; failures are logged, never propagated to callers.
type MetricsExporter interface {
	RecordRegistration(ctx context.Context)
	RecordSessionStarted(ctx context.Context, sessionType string)
	RecordSessionCompleted(ctx context.Context, sessionType string, durationMinutes uint32, stressReduction float64)
	RecordReportGenerated(ctx context.Context, trend string)
	// Close shuts down the exporter and flushes any pending metrics.
	Close(ctx context.Context) error
}
