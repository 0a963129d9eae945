package repository

import (
	"context"

	"TokenRadar/internal/domain/models"
)

// SourceAdapter fetches raw observations from one market-data source.
// Implementations are best-effort: a failed or partial fetch returns an
// empty slice plus the error for logging, and the run carries on without it.
type SourceAdapter interface {
	// ID identifies the adapter for provenance and cache keys.
	ID() string
	Fetch(ctx context.Context) ([]models.RawObservation, error)
}

// AlertHistory records batches that were actually pushed out, for later
// analysis. Implementations must tolerate being a no-op.
type AlertHistory interface {
	StoreBatch(ctx context.Context, batch *models.AlertBatch) error
	Close() error
}

// Metrics records pipeline observability counters.
type Metrics interface {
	RecordFetch(source string, seconds float64, observations int)
	RecordSourceError(source string)
	RecordAlerts(classification string, count int)
	RecordRun(seconds float64)
}
