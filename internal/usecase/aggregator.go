package usecase

import (
	"strings"

	"TokenRadar/internal/domain/models"
)

// Aggregator turns the joined observations of one run into an AlertBatch.
type Aggregator struct {
	engine *Engine
}

// NewAggregator creates an aggregator over a filter engine.
func NewAggregator(engine *Engine) *Aggregator {
	return &Aggregator{engine: engine}
}

// Aggregate de-duplicates observations by case-normalized symbol (the same
// token may arrive from several adapters; the first-seen record wins, so
// adapter registration order determines priority), then classifies the
// survivors into buckets. Duplicates are dropped before classification so
// alert counts are not inflated. An empty input yields an empty, valid batch;
// the aggregator cannot tell "nothing qualified" from "all sources down" and
// does not try to.
func (a *Aggregator) Aggregate(observations []models.TokenObservation) *models.AlertBatch {
	batch := models.NewAlertBatch(a.engine.now())

	seen := make(map[string]struct{}, len(observations))
	for _, t := range observations {
		key := strings.ToUpper(t.Symbol)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		for _, tag := range a.engine.Classify(t) {
			batch.Append(tag, t)
		}
	}

	return batch
}
