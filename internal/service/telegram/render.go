package telegram

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"TokenRadar/internal/domain/models"
)

// Fallback texts. "No qualifying tokens" deliberately does not distinguish
// an empty market from unreachable sources; the pipeline has no visibility
// into why its input was empty and the renderer must not guess.
const (
	TextNoMatches    = "✅ No tokens match criteria right now."
	TextNoRecent     = "✅ No new cryptos match your filters."
	TextNoFresh      = "🚀 No new alpha listings yet."
	TextSourceNoData = "No data available."
)

var bucketHeaders = map[models.Classification]string{
	models.ClassificationVolatile:      "📊 Token Alerts:",
	models.ClassificationRecentListing: "🆕 New Crypto:",
	models.ClassificationFreshListing:  "🚀 New Alpha Alerts:",
}

var bucketFallbacks = map[models.Classification]string{
	models.ClassificationVolatile:      TextNoMatches,
	models.ClassificationRecentListing: TextNoRecent,
	models.ClassificationFreshListing:  TextNoFresh,
}

// RenderBatch renders every non-empty bucket of a batch into one message.
func RenderBatch(batch *models.AlertBatch) string {
	if batch.Empty() {
		return TextNoMatches
	}

	var sections []string
	for _, c := range models.Classifications {
		obs := batch.Bucket(c)
		if len(obs) == 0 {
			continue
		}
		sections = append(sections, RenderBucket(c, obs))
	}
	return strings.Join(sections, "\n\n")
}

// RenderBucket renders one classification group, or its fallback line when
// the bucket is empty.
func RenderBucket(c models.Classification, obs []models.TokenObservation) string {
	if len(obs) == 0 {
		return bucketFallbacks[c]
	}

	var b strings.Builder
	b.WriteString(bucketHeaders[c])
	b.WriteString("\n")
	for _, t := range obs {
		b.WriteString("\n")
		b.WriteString(renderLine(t))
	}
	return b.String()
}

// RenderTop renders a per-source token listing.
func RenderTop(title string, obs []models.TokenObservation) string {
	if len(obs) == 0 {
		return TextSourceNoData
	}

	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n")
	for _, t := range obs {
		b.WriteString("\n")
		b.WriteString(renderLine(t))
	}
	return b.String()
}

// Telegram hard-caps messages at 4096 chars; leave headroom for the footer.
const maxMessageLen = 4000

// Truncate clips a rendered message to the Bot API length limit. The cut
// backs up to a rune boundary: the API rejects invalid UTF-8 outright, and
// every rendered line starts with a multi-byte emoji.
func Truncate(s string) string {
	if len(s) <= maxMessageLen {
		return s
	}
	n := maxMessageLen
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "\n…"
}

// renderLine renders one token. Unknown supply and unknown listing date are
// omitted, never shown as zero.
func renderLine(t models.TokenObservation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🔹 %s | 💵 $%s | 📈 %s%%", t.Symbol, t.Price.StringFixed(6), t.Change24h.String())
	if t.MaxSupply != nil {
		fmt.Fprintf(&b, " | 🪙 %s", t.MaxSupply.String())
	}
	if t.ListedAt != nil {
		fmt.Fprintf(&b, " | 📅 %s", t.ListedAt.UTC().Format(time.DateOnly))
	}
	if t.DetailURL != "" {
		fmt.Fprintf(&b, "\n%s", t.DetailURL)
	}
	return b.String()
}
