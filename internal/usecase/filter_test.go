package usecase

import (
	"testing"
	"time"

	"TokenRadar/internal/domain/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func testRules() FilterRules {
	return FilterRules{
		TierOneSupplyCap:    decimal.NewFromInt(100_000_000),
		TierOneLow:          decimal.RequireFromString("0.001"),
		TierOneHigh:         decimal.RequireFromString("0.05"),
		TierTwoSupplyCap:    decimal.NewFromInt(1_000_000_000),
		TierTwoLow:          decimal.RequireFromString("0.0001"),
		TierTwoHigh:         decimal.RequireFromString("0.01"),
		VolatilityThreshold: decimal.NewFromInt(5),
		RecentWindow:        60 * 24 * time.Hour,
		FreshWindow:         7 * 24 * time.Hour,
		UnknownSupplyPolicy: SupplyReject,
	}
}

func testEngine(rules FilterRules) *Engine {
	return NewEngine(rules, func() time.Time { return testNow })
}

func obs(price, change, supply string, listed *time.Time) models.TokenObservation {
	t := models.TokenObservation{
		Symbol:    "TEST",
		Name:      "Test",
		Price:     decimal.RequireFromString(price),
		Change24h: decimal.RequireFromString(change),
		ListedAt:  listed,
	}
	if supply != "" {
		s := decimal.RequireFromString(supply)
		t.MaxSupply = &s
	}
	return t
}

func daysAgo(d int) *time.Time {
	ts := testNow.Add(-time.Duration(d) * 24 * time.Hour)
	return &ts
}

func TestClassifyVolatile(t *testing.T) {
	e := testEngine(testRules())

	tags := e.Classify(obs("0.01", "6.5", "50000000", nil))
	assert.Equal(t, []models.Classification{models.ClassificationVolatile}, tags)
}

func TestClassifyVolatileNegativeMove(t *testing.T) {
	e := testEngine(testRules())

	tags := e.Classify(obs("0.01", "-5", "50000000", nil))
	assert.Contains(t, tags, models.ClassificationVolatile, "threshold compares the absolute move, inclusively")
}

func TestClassifyBelowThresholdNotVolatile(t *testing.T) {
	e := testEngine(testRules())

	tags := e.Classify(obs("0.01", "4.99", "50000000", nil))
	assert.Empty(t, tags)
}

func TestClassifyPriceBandInclusiveBounds(t *testing.T) {
	e := testEngine(testRules())

	assert.Contains(t, e.Classify(obs("0.05", "10", "50000000", nil)),
		models.ClassificationVolatile, "upper bound is inclusive")
	assert.Contains(t, e.Classify(obs("0.001", "10", "50000000", nil)),
		models.ClassificationVolatile, "lower bound is inclusive")
	assert.Empty(t, e.Classify(obs("0.050001", "10", "50000000", nil)),
		"just above the band is out")
}

func TestClassifySupplyCapInclusive(t *testing.T) {
	e := testEngine(testRules())

	assert.Contains(t, e.Classify(obs("0.01", "10", "100000000", nil)),
		models.ClassificationVolatile)
	assert.Empty(t, e.Classify(obs("0.02", "10", "100000001", nil)),
		"over tier one cap and over tier two price range")
}

func TestClassifySecondTier(t *testing.T) {
	e := testEngine(testRules())

	// too much supply for tier one, but the tighter tier two band admits it
	tags := e.Classify(obs("0.005", "8", "500000000", nil))
	assert.Contains(t, tags, models.ClassificationVolatile)
}

func TestClassifyRecentListing(t *testing.T) {
	e := testEngine(testRules())

	tags := e.Classify(obs("0.01", "0", "50000000", daysAgo(30)))
	assert.Equal(t, []models.Classification{models.ClassificationRecentListing}, tags)
}

func TestClassifyRecentWindowBoundary(t *testing.T) {
	e := testEngine(testRules())

	assert.Contains(t, e.Classify(obs("0.01", "0", "50000000", daysAgo(60))),
		models.ClassificationRecentListing, "window edge is inclusive")
	assert.Empty(t, e.Classify(obs("0.01", "0", "50000000", daysAgo(61))))
}

func TestClassifyFreshListingIgnoresBand(t *testing.T) {
	e := testEngine(testRules())

	// way out of band and no supply data, but three days old
	tags := e.Classify(obs("1.20", "0", "", daysAgo(3)))
	assert.Equal(t, []models.Classification{models.ClassificationFreshListing}, tags)
}

func TestClassifyFreshAlsoRecent(t *testing.T) {
	e := testEngine(testRules())

	tags := e.Classify(obs("0.01", "6", "50000000", daysAgo(3)))
	assert.Equal(t, []models.Classification{
		models.ClassificationVolatile,
		models.ClassificationRecentListing,
		models.ClassificationFreshListing,
	}, tags, "tags accumulate in stable order")
}

func TestClassifyUnknownAgeNeverRecentOrFresh(t *testing.T) {
	e := testEngine(testRules())

	tags := e.Classify(obs("0.01", "6", "50000000", nil))
	assert.Equal(t, []models.Classification{models.ClassificationVolatile}, tags)
}

func TestClassifyUnknownSupplyRejected(t *testing.T) {
	e := testEngine(testRules())

	// in-range price and huge move, but supply unknown under reject policy
	tags := e.Classify(obs("0.01", "50", "", nil))
	assert.Empty(t, tags)
}

func TestClassifyUnknownSupplyAcceptUnderCap(t *testing.T) {
	rules := testRules()
	rules.UnknownSupplyPolicy = SupplyAcceptUnderCap
	rules.UnknownSupplyPriceCap = decimal.RequireFromString("0.02")
	e := testEngine(rules)

	assert.Contains(t, e.Classify(obs("0.01", "50", "", nil)),
		models.ClassificationVolatile)
	assert.Empty(t, e.Classify(obs("0.03", "50", "", nil)),
		"above the unknown-supply price cap")
}
