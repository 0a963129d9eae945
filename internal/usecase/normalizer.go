package usecase

import (
	"strings"

	"TokenRadar/internal/domain/models"
	"TokenRadar/pkg/util"

	"github.com/shopspring/decimal"
)

// Normalize converts a raw source record into the canonical observation.
// It never fails: every malformed field degrades to its documented default
// instead of discarding the record. An unparsable listing date yields a nil
// ListedAt ("unknown age"), never the current time; treating "can't parse the
// date" as "very fresh" would corrupt the recency classification.
func Normalize(raw models.RawObservation, sourceID string) models.TokenObservation {
	symbol := strings.ToUpper(strings.TrimSpace(raw.Symbol))
	if symbol == "" {
		symbol = models.SymbolUnknown
	}

	name := strings.TrimSpace(raw.Name)
	if name == "" {
		name = symbol
	}

	t := models.TokenObservation{
		Symbol:    symbol,
		Name:      name,
		Price:     parseNonNegative(raw.Price),
		Change24h: parseSigned(raw.Change),
		SourceID:  sourceID,
		DetailURL: strings.TrimSpace(raw.URL),
	}

	if supply, ok := parseOptionalSupply(raw.Supply); ok {
		t.MaxSupply = &supply
	}
	if listed, ok := util.ParseTime(strings.TrimSpace(raw.Listed)); ok {
		listed = listed.UTC()
		t.ListedAt = &listed
	}

	return t
}

// parseNonNegative parses a decimal that must be >= 0; anything else is 0.
func parseNonNegative(s string) decimal.Decimal {
	d := parseSigned(s)
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// parseSigned parses a decimal, tolerating a trailing percent sign and
// surrounding whitespace; failure yields 0.
func parseSigned(s string) decimal.Decimal {
	s = strings.TrimSuffix(strings.TrimSpace(s), "%")
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// parseOptionalSupply distinguishes "no supply data" (absent or garbage)
// from an actual value. Negative supply is treated as absent.
func parseOptionalSupply(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Decimal{}, false
	}
	return d, true
}
