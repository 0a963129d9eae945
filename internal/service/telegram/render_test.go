package telegram

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"TokenRadar/internal/domain/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func sampleToken() models.TokenObservation {
	return models.TokenObservation{
		Symbol:    "PEPE",
		Name:      "Pepe",
		Price:     decimal.RequireFromString("0.0123"),
		Change24h: decimal.RequireFromString("7.5"),
		SourceID:  "binance",
	}
}

func TestRenderBatchEmpty(t *testing.T) {
	batch := models.NewAlertBatch(time.Now())
	assert.Equal(t, TextNoMatches, RenderBatch(batch))
}

func TestRenderBatchSkipsEmptyBuckets(t *testing.T) {
	batch := models.NewAlertBatch(time.Now())
	batch.Append(models.ClassificationFreshListing, sampleToken())

	out := RenderBatch(batch)
	assert.Contains(t, out, "🚀 New Alpha Alerts:")
	assert.NotContains(t, out, "📊 Token Alerts:")
	assert.Contains(t, out, "PEPE")
}

func TestRenderBucketFallbacks(t *testing.T) {
	assert.Equal(t, TextNoMatches, RenderBucket(models.ClassificationVolatile, nil))
	assert.Equal(t, TextNoRecent, RenderBucket(models.ClassificationRecentListing, nil))
	assert.Equal(t, TextNoFresh, RenderBucket(models.ClassificationFreshListing, nil))
}

func TestRenderLineOmitsUnknownFields(t *testing.T) {
	out := RenderBucket(models.ClassificationVolatile, []models.TokenObservation{sampleToken()})

	assert.Contains(t, out, "PEPE")
	assert.Contains(t, out, "$0.012300")
	assert.Contains(t, out, "7.5%")
	assert.NotContains(t, out, "🪙", "unknown supply is omitted, never rendered as zero")
	assert.NotContains(t, out, "📅", "unknown listing date is omitted")
}

func TestRenderLineFullRecord(t *testing.T) {
	tok := sampleToken()
	supply := decimal.NewFromInt(420_000_000)
	tok.MaxSupply = &supply
	listed := time.Date(2025, 5, 1, 9, 30, 0, 0, time.UTC)
	tok.ListedAt = &listed
	tok.DetailURL = "https://dexscreener.com/solana/pepe"

	out := RenderBucket(models.ClassificationVolatile, []models.TokenObservation{tok})
	assert.Contains(t, out, "🪙 420000000")
	assert.Contains(t, out, "📅 2025-05-01")
	assert.Contains(t, out, "https://dexscreener.com/solana/pepe")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short"))

	long := strings.Repeat("x", 5000)
	got := Truncate(long)
	assert.LessOrEqual(t, len(got), 4096)
	assert.True(t, strings.HasSuffix(got, "…"))
}

func TestTruncateKeepsValidUTF8(t *testing.T) {
	// place a run of 4-byte emojis across the cut point, the shape every
	// rendered bucket line produces
	msg := strings.Repeat("x", 3999) + strings.Repeat("🔹", 10)

	got := Truncate(msg)
	assert.True(t, utf8.ValidString(got), "cut must land on a rune boundary")
	assert.LessOrEqual(t, len(got), 4096)
	assert.True(t, strings.HasSuffix(got, "…"))
}

func TestRenderTop(t *testing.T) {
	assert.Equal(t, TextSourceNoData, RenderTop("📊 Binance Top Tokens:", nil))

	out := RenderTop("📊 Binance Top Tokens:", []models.TokenObservation{sampleToken()})
	assert.True(t, strings.HasPrefix(out, "📊 Binance Top Tokens:"))
	assert.Contains(t, out, "PEPE")
}
