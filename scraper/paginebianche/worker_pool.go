package paginebianche

import (
	"context"
	"sync"

	"paginebianche-scraper/config"
	"paginebianche-scraper/models"
	"paginebianche-scraper/utils"
)

type job struct {
	index int
	query models.ScrapeQuery
}

type indexedResult struct {
	index  int
	result models.ScrapeResult
}

// WorkerPool runs several queries, each through its own DataSource call and
// therefore its own browser session.
type WorkerPool struct {
	source  models.DataSource
	workers int
}

func NewWorkerPool(source models.DataSource, cfg *config.Config) *WorkerPool {
	return &WorkerPool{
		source:  source,
		workers: cfg.MaxWorkers,
	}
}

// Run scrapes every query and returns one result per query, in input order.
// onFound may be called from several goroutines at once.
func (p *WorkerPool) Run(ctx context.Context, queries []models.ScrapeQuery, onFound func(q models.ScrapeQuery, name string)) []models.ScrapeResult {
	if len(queries) == 0 {
		return nil
	}

	jobs := make(chan job, len(queries))
	results := make(chan indexedResult, len(queries))

	workerCount := p.workers
	if workerCount < 1 {
		workerCount = 1
	}
	if len(queries) < workerCount {
		workerCount = len(queries)
	}

	utils.Info("Running %d queries on %d workers", len(queries), workerCount)

	var wg sync.WaitGroup
	wg.Add(workerCount)
	for i := 1; i <= workerCount; i++ {
		go func() {
			defer wg.Done()
			p.worker(ctx, jobs, results, onFound)
		}()
	}

	for i, q := range queries {
		jobs <- job{index: i, query: q}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	return p.collect(results, len(queries))
}

func (p *WorkerPool) worker(ctx context.Context, jobs <-chan job, results chan<- indexedResult, onFound func(q models.ScrapeQuery, name string)) {
	for j := range jobs {
		q := j.query
		var progress models.ProgressFunc
		if onFound != nil {
			progress = func(name string) { onFound(q, name) }
		}

		records, err := p.source.Scrape(ctx, q, progress)
		results <- indexedResult{
			index:  j.index,
			result: models.ScrapeResult{Query: q, Records: records, Error: err},
		}
	}
}

func (p *WorkerPool) collect(results <-chan indexedResult, n int) []models.ScrapeResult {
	all := make([]models.ScrapeResult, n)
	failed, records := 0, 0

	for r := range results {
		all[r.index] = r.result
		if r.result.Error != nil {
			utils.Error("Query %q in %q failed: %v", r.result.Query.Query, r.result.Query.Location, r.result.Error)
			failed++
			continue
		}
		records += len(r.result.Records)
	}

	utils.Success("Queries done: %d | Failed: %d | Records: %d", n-failed, failed, records)
	return all
}
