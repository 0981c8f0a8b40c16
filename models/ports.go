package models

import "context"

// ProgressFunc is called once per extracted record, with the business name,
// before the record is added to the result set.
type ProgressFunc func(name string)

// DataSource produces the records for one query.
type DataSource interface {
	Scrape(ctx context.Context, q ScrapeQuery, onFound ProgressFunc) ([]Record, error)
}

// RecordSink persists the records of one query.
type RecordSink interface {
	Write(ctx context.Context, q ScrapeQuery, records []Record) error
}
