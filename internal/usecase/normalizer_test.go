package usecase

import (
	"testing"
	"time"

	"TokenRadar/internal/domain/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSymbolCanonicalization(t *testing.T) {
	got := Normalize(models.RawObservation{Symbol: "  pepe "}, "binance")
	assert.Equal(t, "PEPE", got.Symbol)
	assert.Equal(t, "PEPE", got.Name, "missing name falls back to symbol")
	assert.Equal(t, "binance", got.SourceID)
}

func TestNormalizeMissingSymbol(t *testing.T) {
	got := Normalize(models.RawObservation{Price: "1.5"}, "coingecko")
	assert.Equal(t, models.SymbolUnknown, got.Symbol)
}

func TestNormalizeMalformedNumbers(t *testing.T) {
	got := Normalize(models.RawObservation{
		Symbol: "ABC",
		Price:  "not-a-number",
		Change: "garbage",
		Supply: "???",
	}, "binance")

	assert.True(t, got.Price.IsZero(), "unparsable price degrades to zero")
	assert.True(t, got.Change24h.IsZero(), "unparsable change degrades to zero")
	assert.Nil(t, got.MaxSupply, "unparsable supply stays absent")
}

func TestNormalizeNegativePriceClamped(t *testing.T) {
	got := Normalize(models.RawObservation{Symbol: "ABC", Price: "-0.5"}, "binance")
	assert.True(t, got.Price.IsZero())
}

func TestNormalizeNegativeChangePreserved(t *testing.T) {
	got := Normalize(models.RawObservation{Symbol: "ABC", Change: "-7.25%"}, "binance")
	assert.True(t, got.Change24h.Equal(decimal.RequireFromString("-7.25")))
}

func TestNormalizeNegativeSupplyAbsent(t *testing.T) {
	got := Normalize(models.RawObservation{Symbol: "ABC", Supply: "-100"}, "coingecko")
	assert.Nil(t, got.MaxSupply)
}

func TestNormalizeSupplyPresent(t *testing.T) {
	got := Normalize(models.RawObservation{Symbol: "ABC", Supply: "21000000"}, "coingecko")
	require.NotNil(t, got.MaxSupply)
	assert.True(t, got.MaxSupply.Equal(decimal.NewFromInt(21000000)))
}

func TestNormalizeListingDates(t *testing.T) {
	got := Normalize(models.RawObservation{Symbol: "ABC", Listed: "2024-03-01T12:00:00Z"}, "coingecko")
	require.NotNil(t, got.ListedAt)
	assert.Equal(t, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), *got.ListedAt)

	// unix milliseconds, the dexscreener shape
	got = Normalize(models.RawObservation{Symbol: "ABC", Listed: "1709294400000"}, "dexscreener")
	require.NotNil(t, got.ListedAt)
	assert.Equal(t, 2024, got.ListedAt.Year())
}

func TestNormalizeUnparsableDateStaysUnknown(t *testing.T) {
	got := Normalize(models.RawObservation{Symbol: "ABC", Listed: "yesterday-ish"}, "binance")
	// an unknown date must never be substituted with the current time
	assert.Nil(t, got.ListedAt)
}
