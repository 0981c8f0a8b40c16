package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"paginebianche-scraper/config"
	"paginebianche-scraper/models"
	"paginebianche-scraper/scraper/paginebianche"
	"paginebianche-scraper/services"
	"paginebianche-scraper/storage"
	"paginebianche-scraper/utils"
)

const (
	exitOK        = 0
	exitFailure   = 1
	exitNoResults = 2
)

var (
	errEmptyQuery    = errors.New("ragione sociale non può essere vuota")
	errEmptyLocation = errors.New("località non può essere vuota")
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, out io.Writer) int {
	fs := flag.NewFlagSet("paginebianche-scraper", flag.ContinueOnError)
	query := fs.String("query", "", "business name or category (ragione sociale)")
	location := fs.String("location", "", "town or area (località)")
	batchPath := fs.String("batch", "", "file with one \"query;location\" per line")
	configPath := fs.String("config", "", "YAML config file")
	usePostgres := fs.Bool("postgres", false, "also save records to PostgreSQL")
	if err := fs.Parse(args); err != nil {
		return exitFailure
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		utils.Error("Could not load config: %v", err)
		return exitFailure
	}
	if *usePostgres {
		cfg.DBEnabled = true
	}
	utils.SetLogger(utils.NewLogger(cfg.LogLevel, cfg.LogFormat))
	defer utils.Sync()

	queries, err := collectQueries(*query, *location, *batchPath)
	if err != nil {
		utils.Error("%v", err)
		return exitFailure
	}

	ctx := context.Background()
	sink, closeSink, err := buildSink(ctx, cfg)
	if err != nil {
		utils.Error("%v", err)
		return exitFailure
	}
	defer closeSink()

	utils.Section("SCRAPING")
	utils.Info("Scraper starting | queries=%d workers=%d expansions=%d headless=%v",
		len(queries), cfg.MaxWorkers, cfg.MaxExpansions, cfg.Headless)

	scraper := paginebianche.NewScraper(cfg)
	results := paginebianche.NewWorkerPool(scraper, cfg).Run(ctx, queries, func(q models.ScrapeQuery, name string) {
		utils.Info("Trovato: %s", name)
	})

	return finish(ctx, out, sink, results)
}

// finish persists and reports each result. A crashed query yields
// exitFailure; a run where nothing crashed and nothing was found yields
// exitNoResults.
func finish(ctx context.Context, out io.Writer, sink models.RecordSink, results []models.ScrapeResult) int {
	utils.Section("RESULTS")

	code := exitOK
	found := 0
	for _, r := range results {
		if r.Error != nil {
			utils.Error("Errore per %q in %q: %v", r.Query.Query, r.Query.Location, r.Error)
			code = exitFailure
			continue
		}
		if len(r.Records) == 0 {
			utils.Warn("Nessun dato trovato per %q in %q", r.Query.Query, r.Query.Location)
			continue
		}

		found += len(r.Records)
		if err := sink.Write(ctx, r.Query, r.Records); err != nil {
			utils.Error("Failed to save records: %v", err)
			code = exitFailure
			continue
		}
		services.PrintReport(out, services.GenerateReport(r.Query, r.Records))
	}

	printSummary(out, len(results), found)
	if code == exitOK && found == 0 {
		return exitNoResults
	}
	return code
}

func buildSink(ctx context.Context, cfg *config.Config) (models.RecordSink, func(), error) {
	sinks := storage.MultiSink{storage.NewCSVWriter(cfg.OutputDir)}
	if !cfg.DBEnabled {
		return sinks, func() {}, nil
	}

	pgWriter, err := storage.NewPostgresWriter(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect PostgreSQL: %w", err)
	}
	if err := pgWriter.EnsureSchema(ctx); err != nil {
		pgWriter.Close()
		return nil, nil, fmt.Errorf("failed to ensure PostgreSQL schema: %w", err)
	}
	return append(sinks, pgWriter), pgWriter.Close, nil
}

func collectQueries(query, location, batchPath string) ([]models.ScrapeQuery, error) {
	if batchPath == "" {
		q, err := newQuery(query, location)
		if err != nil {
			return nil, err
		}
		return []models.ScrapeQuery{q}, nil
	}

	f, err := os.Open(batchPath)
	if err != nil {
		return nil, fmt.Errorf("could not open batch file: %w", err)
	}
	defer f.Close()
	return readBatch(f)
}

func newQuery(query, location string) (models.ScrapeQuery, error) {
	q := models.ScrapeQuery{Query: strings.TrimSpace(query), Location: strings.TrimSpace(location)}
	if q.Query == "" {
		return q, errEmptyQuery
	}
	if q.Location == "" {
		return q, errEmptyLocation
	}
	return q, nil
}

// readBatch parses "query;location" lines. Blank lines and lines starting
// with # are skipped.
func readBatch(r io.Reader) ([]models.ScrapeQuery, error) {
	var queries []models.ScrapeQuery
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		query, location, ok := strings.Cut(text, ";")
		if !ok {
			return nil, fmt.Errorf("batch line %d: expected \"query;location\"", line)
		}
		q, err := newQuery(query, location)
		if err != nil {
			return nil, fmt.Errorf("batch line %d: %w", line, err)
		}
		queries = append(queries, q)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read batch file: %w", err)
	}
	if len(queries) == 0 {
		return nil, errors.New("batch file has no queries")
	}
	return queries, nil
}

func printSummary(out io.Writer, queries, records int) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, "╔══════════════════════════════════════════════╗")
	fmt.Fprintln(out, "║                SCRAPE COMPLETE               ║")
	fmt.Fprintln(out, "╠══════════════════════════════════════════════╣")
	fmt.Fprintf(out, "║  Queries        : %-26d║\n", queries)
	fmt.Fprintf(out, "║  Total records  : %-26d║\n", records)
	fmt.Fprintln(out, "╚══════════════════════════════════════════════╝")
	fmt.Fprintln(out)
}
