package storage

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"paginebianche-scraper/models"
	"paginebianche-scraper/utils"
)

// CSVWriter saves each query's records to its own file under dir.
type CSVWriter struct {
	dir    string
	now    func() time.Time
	create func(path string) (io.WriteCloser, error)
}

func NewCSVWriter(dir string) *CSVWriter {
	return &CSVWriter{dir: dir, now: time.Now, create: createFile}
}

func createFile(path string) (io.WriteCloser, error) {
	return os.Create(path)
}

// Characters Windows rejects in file names become "-"; spaces become "_".
var fileNameReplacer = strings.NewReplacer(
	"/", "-", `\`, "-", ":", "-", "*", "-", "?", "-",
	`"`, "-", "<", "-", ">", "-", "|", "-",
	" ", "_",
)

// FileName is "<query>_<location>_<YYYYmmdd_HHMMSS>.csv".
func FileName(q models.ScrapeQuery, at time.Time) string {
	base := fmt.Sprintf("%s_%s_%s", q.Query, q.Location, at.Format("20060102_150405"))
	return fileNameReplacer.Replace(base) + ".csv"
}

func (w *CSVWriter) Write(ctx context.Context, q models.ScrapeQuery, records []models.Record) error {
	_, err := w.WriteFile(q, records)
	return err
}

// WriteFile writes the header and one row per record, creating dir if
// needed, and returns the file path.
func (w *CSVWriter) WriteFile(q models.ScrapeQuery, records []models.Record) (string, error) {
	if len(records) == 0 {
		utils.Warn("No records to write")
		return "", nil
	}

	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return "", fmt.Errorf("could not create output dir: %w", err)
	}

	path := filepath.Join(w.dir, FileName(q, w.now()))
	file, err := w.create(path)
	if err != nil {
		return "", fmt.Errorf("could not create file: %w", err)
	}

	if err := writeRecords(file, records); err != nil {
		file.Close()
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("could not close file: %w", err)
	}

	utils.Success("Saved %d records → %s", len(records), path)
	return path, nil
}

func writeRecords(out io.Writer, records []models.Record) error {
	writer := csv.NewWriter(out)
	if err := writer.Write(models.Columns); err != nil {
		return fmt.Errorf("csv write error: %w", err)
	}
	for _, r := range records {
		if err := writer.Write(r.Row()); err != nil {
			return fmt.Errorf("csv write error: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("csv write error: %w", err)
	}
	return nil
}
