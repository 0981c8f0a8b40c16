package storage

import (
	"context"

	"paginebianche-scraper/models"

	"golang.org/x/sync/errgroup"
)

// MultiSink writes the same records to every sink concurrently and returns
// the first error.
type MultiSink []models.RecordSink

func (m MultiSink) Write(ctx context.Context, q models.ScrapeQuery, records []models.Record) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, sink := range m {
		g.Go(func() error {
			return sink.Write(ctx, q, records)
		})
	}
	return g.Wait()
}
