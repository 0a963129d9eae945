package usecase

import (
	"time"

	"TokenRadar/internal/domain/models"

	"github.com/shopspring/decimal"
)

// UnknownSupplyPolicy decides whether a token with no supply data can still
// pass the band check. Source data quality varies per adapter and both
// behaviors were in production use, so the choice is an explicit rule,
// never a silent default.
type UnknownSupplyPolicy string

const (
	// SupplyReject refuses band membership when max supply is unknown.
	SupplyReject UnknownSupplyPolicy = "reject"
	// SupplyAcceptUnderCap accepts unknown-supply tokens priced at or below
	// UnknownSupplyPriceCap.
	SupplyAcceptUnderCap UnknownSupplyPolicy = "accept_under_cap"
)

// FilterRules holds every classification threshold. All fields are supplied
// by configuration; validation happens at startup.
type FilterRules struct {
	TierOneSupplyCap decimal.Decimal
	TierOneLow       decimal.Decimal
	TierOneHigh      decimal.Decimal

	TierTwoSupplyCap decimal.Decimal
	TierTwoLow       decimal.Decimal
	TierTwoHigh      decimal.Decimal

	VolatilityThreshold decimal.Decimal

	RecentWindow time.Duration
	FreshWindow  time.Duration

	UnknownSupplyPolicy   UnknownSupplyPolicy
	UnknownSupplyPriceCap decimal.Decimal
}

// Engine classifies canonical observations against a fixed rule set.
// It is pure and synchronous; the clock is injectable for tests.
type Engine struct {
	rules FilterRules
	now   func() time.Time
}

// NewEngine creates a filter engine. A nil clock defaults to time.Now.
func NewEngine(rules FilterRules, now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{rules: rules, now: now}
}

// Rules returns the engine's rule set.
func (e *Engine) Rules() FilterRules { return e.rules }

// Classify returns zero or more tags for one observation, in stable order.
func (e *Engine) Classify(t models.TokenObservation) []models.Classification {
	now := e.now()
	inBand := e.inBand(t)

	var tags []models.Classification
	if inBand && t.Change24h.Abs().Cmp(e.rules.VolatilityThreshold) >= 0 {
		tags = append(tags, models.ClassificationVolatile)
	}
	if age, known := t.Age(now); known {
		if inBand && age <= e.rules.RecentWindow {
			tags = append(tags, models.ClassificationRecentListing)
		}
		// Freshness alone is the signal: no band requirement, so tokens that
		// have not discovered a price yet still surface.
		if age <= e.rules.FreshWindow {
			tags = append(tags, models.ClassificationFreshListing)
		}
	}
	return tags
}

// inBand reports micro-cap eligibility: a (supply tier, price range) pair
// with inclusive price bounds. Unknown supply is decided by the configured
// policy.
func (e *Engine) inBand(t models.TokenObservation) bool {
	r := e.rules
	if t.MaxSupply == nil {
		if r.UnknownSupplyPolicy == SupplyAcceptUnderCap {
			return t.Price.Cmp(r.UnknownSupplyPriceCap) <= 0
		}
		return false
	}
	supply := *t.MaxSupply
	if supply.Cmp(r.TierOneSupplyCap) <= 0 && within(t.Price, r.TierOneLow, r.TierOneHigh) {
		return true
	}
	if supply.Cmp(r.TierTwoSupplyCap) <= 0 && within(t.Price, r.TierTwoLow, r.TierTwoHigh) {
		return true
	}
	return false
}

func within(v, low, high decimal.Decimal) bool {
	return v.Cmp(low) >= 0 && v.Cmp(high) <= 0
}
