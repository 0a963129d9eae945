package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"TokenRadar/internal/domain/models"
	drepo "TokenRadar/internal/domain/repository"
	"TokenRadar/pkg/cache"
	"TokenRadar/pkg/logger"
)

// ScanRunner executes one pipeline run: fetch every adapter concurrently,
// join in adapter registration order, normalize, aggregate. Each run owns
// its observations exclusively; nothing is shared between runs.
type ScanRunner struct {
	adapters []drepo.SourceAdapter
	agg      *Aggregator
	cache    cache.Service
	cacheTTL time.Duration
	metrics  drepo.Metrics
	log      *logger.Logger
	timeout  time.Duration
}

// NewScanRunner creates a runner. cache may be nil to disable fetch caching;
// a timeout of zero falls back to 10s per adapter.
func NewScanRunner(
	adapters []drepo.SourceAdapter,
	agg *Aggregator,
	c cache.Service,
	cacheTTL time.Duration,
	metrics drepo.Metrics,
	log *logger.Logger,
	timeout time.Duration,
) *ScanRunner {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ScanRunner{
		adapters: adapters,
		agg:      agg,
		cache:    c,
		cacheTTL: cacheTTL,
		metrics:  metrics,
		log:      log,
		timeout:  timeout,
	}
}

// Run performs one full scan and returns the batch. The only error it can
// return is a cancelled context; source failures degrade to empty
// contributions. On cancellation partial results are discarded, never
// partially emitted.
func (r *ScanRunner) Run(ctx context.Context) (*models.AlertBatch, error) {
	start := time.Now()

	// One slot per adapter keeps join order equal to registration order,
	// which is what gives earlier adapters de-duplication priority.
	results := make([][]models.RawObservation, len(r.adapters))

	var wg sync.WaitGroup
	for i, adapter := range r.adapters {
		wg.Add(1)
		go func(i int, adapter drepo.SourceAdapter) {
			defer wg.Done()
			results[i] = r.fetchOne(ctx, adapter)
		}(i, adapter)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var observations []models.TokenObservation
	for i, raws := range results {
		sourceID := r.adapters[i].ID()
		for _, raw := range raws {
			observations = append(observations, Normalize(raw, sourceID))
		}
	}

	batch := r.agg.Aggregate(observations)

	elapsed := time.Since(start)
	r.metrics.RecordRun(elapsed.Seconds())
	for _, c := range models.Classifications {
		r.metrics.RecordAlerts(string(c), len(batch.Bucket(c)))
	}
	r.log.Info("scan complete",
		logger.Int("observations", len(observations)),
		logger.Int("alerts", batch.Size()),
		logger.Duration("duration_ms", elapsed),
	)

	return batch, nil
}

// Source fetches and normalizes a single adapter's view, capped at limit
// records, for the per-source listing commands. Unknown ids are an error;
// a failing source is not (it yields an empty list).
func (r *ScanRunner) Source(ctx context.Context, id string, limit int) ([]models.TokenObservation, error) {
	for _, adapter := range r.adapters {
		if adapter.ID() != id {
			continue
		}
		raws := r.fetchOne(ctx, adapter)
		if limit > 0 && len(raws) > limit {
			raws = raws[:limit]
		}
		observations := make([]models.TokenObservation, 0, len(raws))
		for _, raw := range raws {
			observations = append(observations, Normalize(raw, id))
		}
		return observations, nil
	}
	return nil, fmt.Errorf("unknown source %q", id)
}

// Sources lists the registered adapter ids in priority order.
func (r *ScanRunner) Sources() []string {
	ids := make([]string, len(r.adapters))
	for i, adapter := range r.adapters {
		ids[i] = adapter.ID()
	}
	return ids
}

// fetchOne isolates a single adapter call behind its own timeout so one
// slow or unreachable source cannot stall the run. Failures are logged and
// counted; the contribution is simply empty.
func (r *ScanRunner) fetchOne(ctx context.Context, adapter drepo.SourceAdapter) []models.RawObservation {
	key := "source:" + adapter.ID()
	if r.cache != nil && r.cacheTTL > 0 {
		var cached []models.RawObservation
		if err := r.cache.Get(ctx, key, &cached); err == nil {
			return cached
		}
	}

	fetchCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	raws, err := adapter.Fetch(fetchCtx)
	if err != nil {
		r.metrics.RecordSourceError(adapter.ID())
		r.log.Warn("source fetch failed",
			logger.String("source", adapter.ID()),
			logger.Error(err),
		)
		return nil
	}
	r.metrics.RecordFetch(adapter.ID(), time.Since(start).Seconds(), len(raws))

	if r.cache != nil && r.cacheTTL > 0 && len(raws) > 0 {
		if err := r.cache.Set(ctx, key, raws, r.cacheTTL); err != nil {
			r.log.Debug("source cache set failed", logger.Error(err))
		}
	}

	return raws
}
