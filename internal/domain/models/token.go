package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RawObservation is the loosely typed record a source adapter emits before
// normalization. Every field is carried as text exactly as the source shaped
// it; empty string means the source did not provide the field. Raw records
// live only until they are normalized.
type RawObservation struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name,omitempty"`
	Price  string `json:"price,omitempty"`
	Change string `json:"change,omitempty"`
	Supply string `json:"supply,omitempty"`
	Listed string `json:"listed,omitempty"`
	URL    string `json:"url,omitempty"`
}

// SymbolUnknown is the sentinel symbol for records whose source did not
// provide one.
const SymbolUnknown = "UNK"

// TokenObservation is the canonical record the pipeline operates on.
// Price and Change24h are always set (defaulted to zero on parse failure);
// MaxSupply and ListedAt are nil when the source gave no usable value, which
// is distinct from a zero supply or an epoch timestamp.
type TokenObservation struct {
	Symbol    string           `json:"symbol"`
	Name      string           `json:"name"`
	Price     decimal.Decimal  `json:"price"`
	Change24h decimal.Decimal  `json:"change_24h"`
	MaxSupply *decimal.Decimal `json:"max_supply,omitempty"`
	ListedAt  *time.Time       `json:"listed_at,omitempty"`
	SourceID  string           `json:"source_id"`
	DetailURL string           `json:"detail_url,omitempty"`
}

// Age returns how long ago the token was listed, relative to now.
// The second return is false when the listing date is unknown.
func (t *TokenObservation) Age(now time.Time) (time.Duration, bool) {
	if t.ListedAt == nil {
		return 0, false
	}
	return now.Sub(*t.ListedAt), true
}

// Classification tags a token observation with one screening verdict.
type Classification string

const (
	// ClassificationVolatile marks in-band tokens whose 24h move cleared the
	// volatility threshold.
	ClassificationVolatile Classification = "volatile"
	// ClassificationRecentListing marks in-band tokens listed within the
	// recent window.
	ClassificationRecentListing Classification = "recent_listing"
	// ClassificationFreshListing marks tokens listed within the fresh window,
	// regardless of price band. Freshness alone is the signal here.
	ClassificationFreshListing Classification = "fresh_listing"
)

// Classifications in the order buckets are rendered.
var Classifications = []Classification{
	ClassificationVolatile,
	ClassificationRecentListing,
	ClassificationFreshListing,
}

// AlertBatch is the outcome of one pipeline run: per-classification buckets
// of de-duplicated observations in first-seen order. A batch with empty
// buckets is a valid result, not an error. Batches are never shared across
// runs.
type AlertBatch struct {
	GeneratedAt time.Time                             `json:"generated_at"`
	Buckets     map[Classification][]TokenObservation `json:"buckets"`
}

// NewAlertBatch creates an empty batch stamped with the run time.
func NewAlertBatch(now time.Time) *AlertBatch {
	return &AlertBatch{
		GeneratedAt: now,
		Buckets:     make(map[Classification][]TokenObservation),
	}
}

// Append adds an observation to a classification bucket, preserving order.
func (b *AlertBatch) Append(c Classification, t TokenObservation) {
	b.Buckets[c] = append(b.Buckets[c], t)
}

// Bucket returns the observations tagged with c, possibly nil.
func (b *AlertBatch) Bucket(c Classification) []TokenObservation {
	return b.Buckets[c]
}

// Empty reports whether no observation qualified in any bucket.
func (b *AlertBatch) Empty() bool {
	for _, obs := range b.Buckets {
		if len(obs) > 0 {
			return false
		}
	}
	return true
}

// Size returns the total number of bucket entries across classifications.
func (b *AlertBatch) Size() int {
	n := 0
	for _, obs := range b.Buckets {
		n += len(obs)
	}
	return n
}
