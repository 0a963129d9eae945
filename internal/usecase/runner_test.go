package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"TokenRadar/internal/domain/models"
	drepo "TokenRadar/internal/domain/repository"
	"TokenRadar/pkg/logger"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAdapter struct {
	id    string
	raws  []models.RawObservation
	err   error
	delay time.Duration
}

func (s *stubAdapter) ID() string { return s.id }

func (s *stubAdapter) Fetch(ctx context.Context) ([]models.RawObservation, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.raws, s.err
}

type stubMetrics struct {
	mu           sync.Mutex
	sourceErrors map[string]int
	fetches      map[string]int
}

func newStubMetrics() *stubMetrics {
	return &stubMetrics{sourceErrors: map[string]int{}, fetches: map[string]int{}}
}

func (m *stubMetrics) RecordFetch(source string, _ float64, _ int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetches[source]++
}

func (m *stubMetrics) RecordSourceError(source string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sourceErrors[source]++
}

func (m *stubMetrics) RecordAlerts(string, int) {}
func (m *stubMetrics) RecordRun(float64)        {}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	l, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	require.NoError(t, err)
	return l
}

func newTestRunner(t *testing.T, adapters ...drepo.SourceAdapter) (*ScanRunner, *stubMetrics) {
	t.Helper()
	m := newStubMetrics()
	agg := NewAggregator(testEngine(testRules()))
	return NewScanRunner(adapters, agg, nil, 0, m, testLogger(t), time.Second), m
}

func volatileRaw(symbol, price string) models.RawObservation {
	return models.RawObservation{Symbol: symbol, Price: price, Change: "10", Supply: "50000000"}
}

func TestRunJoinsSourcesInRegistrationOrder(t *testing.T) {
	// both sources report FOO; the slower, earlier-registered one must win
	first := &stubAdapter{id: "binance", delay: 50 * time.Millisecond,
		raws: []models.RawObservation{volatileRaw("FOO", "0.01")}}
	second := &stubAdapter{id: "coingecko",
		raws: []models.RawObservation{volatileRaw("foo", "0.02"), volatileRaw("BAR", "0.03")}}

	runner, _ := newTestRunner(t, first, second)
	batch, err := runner.Run(context.Background())
	require.NoError(t, err)

	bucket := batch.Bucket(models.ClassificationVolatile)
	require.Len(t, bucket, 2)
	assert.Equal(t, "FOO", bucket[0].Symbol)
	assert.Equal(t, "binance", bucket[0].SourceID, "registration order outranks completion order")
	assert.True(t, bucket[0].Price.Equal(decimal.RequireFromString("0.01")))
	assert.Equal(t, "BAR", bucket[1].Symbol)
}

func TestRunDegradesOnSourceFailure(t *testing.T) {
	bad := &stubAdapter{id: "binance", err: errors.New("rate limited")}
	good := &stubAdapter{id: "coingecko",
		raws: []models.RawObservation{volatileRaw("FOO", "0.01")}}

	runner, m := newTestRunner(t, bad, good)
	batch, err := runner.Run(context.Background())
	require.NoError(t, err, "a failing source degrades, it does not abort the run")

	assert.Len(t, batch.Bucket(models.ClassificationVolatile), 1)
	assert.Equal(t, 1, m.sourceErrors["binance"])
	assert.Equal(t, 1, m.fetches["coingecko"])
}

func TestRunAllSourcesFailingYieldsEmptyBatch(t *testing.T) {
	runner, _ := newTestRunner(t,
		&stubAdapter{id: "binance", err: errors.New("down")},
		&stubAdapter{id: "coingecko", err: errors.New("down")},
	)

	batch, err := runner.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, batch.Empty(), "no data is a valid, empty result")
}

func TestRunSlowSourceTimesOut(t *testing.T) {
	slow := &stubAdapter{id: "binance", delay: 500 * time.Millisecond,
		raws: []models.RawObservation{volatileRaw("SLOW", "0.01")}}
	fast := &stubAdapter{id: "coingecko",
		raws: []models.RawObservation{volatileRaw("FAST", "0.02")}}

	m := newStubMetrics()
	agg := NewAggregator(testEngine(testRules()))
	runner := NewScanRunner([]drepo.SourceAdapter{slow, fast}, agg, nil, 0, m, testLogger(t), 50*time.Millisecond)

	batch, err := runner.Run(context.Background())
	require.NoError(t, err)

	bucket := batch.Bucket(models.ClassificationVolatile)
	require.Len(t, bucket, 1, "the timed out source contributes nothing")
	assert.Equal(t, "FAST", bucket[0].Symbol)
	assert.Equal(t, 1, m.sourceErrors["binance"])
}

func TestRunCancelledContext(t *testing.T) {
	slow := &stubAdapter{id: "binance", delay: time.Second,
		raws: []models.RawObservation{volatileRaw("FOO", "0.01")}}
	runner, _ := newTestRunner(t, slow)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	batch, err := runner.Run(ctx)
	require.Error(t, err)
	assert.Nil(t, batch, "partial results are discarded on cancellation")
}

func TestSourceView(t *testing.T) {
	adapter := &stubAdapter{id: "binance", raws: []models.RawObservation{
		volatileRaw("AAA", "0.01"),
		volatileRaw("BBB", "0.02"),
		volatileRaw("CCC", "0.03"),
	}}
	runner, _ := newTestRunner(t, adapter)

	obs, err := runner.Source(context.Background(), "binance", 2)
	require.NoError(t, err)
	require.Len(t, obs, 2, "limit caps the listing")
	assert.Equal(t, "AAA", obs[0].Symbol)

	_, err = runner.Source(context.Background(), "nope", 5)
	assert.Error(t, err, "unknown source ids are an error, not an empty list")
}

func TestSourcesOrder(t *testing.T) {
	runner, _ := newTestRunner(t,
		&stubAdapter{id: "binance"},
		&stubAdapter{id: "coingecko"},
	)
	assert.Equal(t, []string{"binance", "coingecko"}, runner.Sources())
}
