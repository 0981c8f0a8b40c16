package paginebianche

import (
	"context"
	"errors"
	"sync"
	"testing"

	"paginebianche-scraper/models"
	"paginebianche-scraper/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type stubSource struct {
	mu    sync.Mutex
	calls int
}

func (s *stubSource) Scrape(ctx context.Context, q models.ScrapeQuery, onFound models.ProgressFunc) ([]models.Record, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()

	if q.Location == "offline" {
		return nil, ErrNavigation
	}
	r := models.Record{Name: q.Query + " " + q.Location, Phone: models.PhoneNotFound}
	if onFound != nil {
		onFound(r.Name)
	}
	return []models.Record{r}, nil
}

func TestWorkerPool_Run(t *testing.T) {
	utils.SetLogger(zaptest.NewLogger(t))
	cfg := testConfig()
	cfg.MaxWorkers = 3

	queries := []models.ScrapeQuery{
		{Query: "pizzeria", Location: "Milano"},
		{Query: "bar", Location: "offline"},
		{Query: "hotel", Location: "Roma"},
		{Query: "farmacia", Location: "Torino"},
	}

	var mu sync.Mutex
	found := map[string]int{}
	source := &stubSource{}
	results := NewWorkerPool(source, cfg).Run(context.Background(), queries, func(q models.ScrapeQuery, name string) {
		mu.Lock()
		found[q.Location]++
		mu.Unlock()
	})

	require.Len(t, results, len(queries))
	for i, r := range results {
		assert.Equal(t, queries[i], r.Query, "results keep input order")
	}
	assert.True(t, errors.Is(results[1].Error, ErrNavigation))
	assert.Nil(t, results[1].Records)
	assert.Equal(t, "hotel Roma", results[2].Records[0].Name)
	assert.Equal(t, 4, source.calls)
	assert.Equal(t, map[string]int{"Milano": 1, "Roma": 1, "Torino": 1}, found)
}

func TestWorkerPool_ConcurrentRuns(t *testing.T) {
	utils.SetLogger(zaptest.NewLogger(t))
	cfg := testConfig()
	cfg.MaxWorkers = 2
	pool := NewWorkerPool(&stubSource{}, cfg)

	batches := [][]models.ScrapeQuery{
		{{Query: "pizzeria", Location: "Milano"}, {Query: "bar", Location: "Milano"}},
		{{Query: "hotel", Location: "Roma"}, {Query: "farmacia", Location: "Roma"}, {Query: "bar", Location: "Roma"}},
	}

	got := make([][]models.ScrapeResult, len(batches))
	var wg sync.WaitGroup
	for i, queries := range batches {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got[i] = pool.Run(context.Background(), queries, nil)
		}()
	}
	wg.Wait()

	for i, queries := range batches {
		require.Len(t, got[i], len(queries))
		for j, r := range got[i] {
			assert.Equal(t, queries[j], r.Query)
			require.NoError(t, r.Error)
		}
	}
}

func TestWorkerPool_Empty(t *testing.T) {
	assert.Nil(t, NewWorkerPool(&stubSource{}, testConfig()).Run(context.Background(), nil, nil))
}

func TestWorkerPool_WithScraper(t *testing.T) {
	utils.SetLogger(zaptest.NewLogger(t))
	page := newPage(newCard("Uno", "Via 1", "01"))
	s := NewScraperWithBrowser(testConfig(), &fakeBrowser{page: page})

	results := NewWorkerPool(s, testConfig()).Run(context.Background(), []models.ScrapeQuery{{Query: "q", Location: "l"}}, nil)

	require.Len(t, results, 1)
	require.NoError(t, results[0].Error)
	assert.Len(t, results[0].Records, 1)
	assert.Equal(t, 1, page.closed)
}
