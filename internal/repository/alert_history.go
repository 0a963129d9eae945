package repository

import (
	"context"
	"fmt"

	"TokenRadar/internal/domain/models"
	drepo "TokenRadar/internal/domain/repository"
	"TokenRadar/pkg/clickhouse"
)

// Schema statements are idempotent and run once at startup.
var alertSchema = []string{
	`CREATE TABLE IF NOT EXISTS alerts (
		run_at         DateTime,
		classification LowCardinality(String),
		symbol         String,
		name           String,
		price          Float64,
		change_24h     Float64,
		max_supply     Nullable(Float64),
		listed_at      Nullable(DateTime),
		source         LowCardinality(String),
		detail_url     String
	) ENGINE = MergeTree()
	ORDER BY (run_at, classification, symbol)
	TTL run_at + INTERVAL 90 DAY`,
}

// AlertHistoryRepository persists pushed batches to ClickHouse.
type AlertHistoryRepository struct {
	client *clickhouse.Client
}

// NewAlertHistoryRepository creates the repository and ensures the schema.
func NewAlertHistoryRepository(ctx context.Context, client *clickhouse.Client) (*AlertHistoryRepository, error) {
	if err := client.InitSchema(ctx, alertSchema); err != nil {
		return nil, err
	}
	return &AlertHistoryRepository{client: client}, nil
}

// StoreBatch writes every bucket of the batch in one transaction. The
// clickhouse driver turns the transaction into a native batch insert.
func (r *AlertHistoryRepository) StoreBatch(ctx context.Context, batch *models.AlertBatch) error {
	if batch == nil || batch.Empty() {
		return nil
	}

	tx, err := r.client.DB().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin batch: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO alerts
		(run_at, classification, symbol, name, price, change_24h, max_supply, listed_at, source, detail_url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, c := range models.Classifications {
		for _, t := range batch.Bucket(c) {
			var supply interface{}
			if t.MaxSupply != nil {
				supply = t.MaxSupply.InexactFloat64()
			}
			var listed interface{}
			if t.ListedAt != nil {
				listed = *t.ListedAt
			}

			_, err = stmt.ExecContext(ctx,
				batch.GeneratedAt,
				string(c),
				t.Symbol,
				t.Name,
				t.Price.InexactFloat64(),
				t.Change24h.InexactFloat64(),
				supply,
				listed,
				t.SourceID,
				t.DetailURL,
			)
			if err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("insert alert %s: %w", t.Symbol, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	return nil
}

// Close releases the underlying pool.
func (r *AlertHistoryRepository) Close() error {
	return r.client.Close()
}

// NoopHistory discards batches. Used when ClickHouse is disabled.
type NoopHistory struct{}

func (NoopHistory) StoreBatch(context.Context, *models.AlertBatch) error { return nil }
func (NoopHistory) Close() error                                         { return nil }

var (
	_ drepo.AlertHistory = (*AlertHistoryRepository)(nil)
	_ drepo.AlertHistory = NoopHistory{}
)
