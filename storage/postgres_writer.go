package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"paginebianche-scraper/config"
	"paginebianche-scraper/models"
	"paginebianche-scraper/utils"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS records (
	id BIGSERIAL PRIMARY KEY,
	query TEXT NOT NULL,
	location TEXT NOT NULL,
	position INT NOT NULL,
	name TEXT NOT NULL,
	phone TEXT NOT NULL,
	address TEXT NOT NULL,
	scraped_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_records_query_location ON records(query, location);
`

const insertSQL = `
INSERT INTO records (query, location, position, name, phone, address)
VALUES ($1, $2, $3, $4, $5, $6);
`

type PostgresWriter struct {
	pool       *pgxpool.Pool
	maxRetries int
}

func DSN(cfg *config.Config) string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBHost,
		cfg.DBPort,
		cfg.DBName,
		cfg.DBSSLMode,
	)
}

func NewPostgresWriter(ctx context.Context, cfg *config.Config) (*PostgresWriter, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect postgres: %w", err)
	}

	return &PostgresWriter{pool: pool, maxRetries: cfg.MaxRetries}, nil
}

func (w *PostgresWriter) Close() {
	if w.pool != nil {
		w.pool.Close()
	}
}

func (w *PostgresWriter) EnsureSchema(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	if _, err := w.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

// Write inserts all records of one query in a single batch. Rows are kept
// as scraped, duplicates included; position preserves page order.
func (w *PostgresWriter) Write(ctx context.Context, q models.ScrapeQuery, records []models.Record) error {
	if len(records) == 0 {
		return nil
	}

	err := utils.Retry(w.maxRetries, func() error {
		return w.sendBatch(ctx, buildBatch(q, records))
	})
	if err != nil {
		return err
	}

	utils.Success("Saved %d records to PostgreSQL", len(records))
	return nil
}

func buildBatch(q models.ScrapeQuery, records []models.Record) *pgx.Batch {
	batch := &pgx.Batch{}
	query := strings.TrimSpace(q.Query)
	location := strings.TrimSpace(q.Location)
	for i, r := range records {
		batch.Queue(insertSQL, query, location, i, r.Name, r.Phone, r.Address)
	}
	return batch
}

func (w *PostgresWriter) sendBatch(ctx context.Context, batch *pgx.Batch) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	tx, err := w.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	results := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return fmt.Errorf("batch insert failed at row %d: %w", i, err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("close batch: %w", err)
	}

	return tx.Commit(ctx)
}
