package services

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"paginebianche-scraper/models"
)

type Report struct {
	Query            models.ScrapeQuery
	TotalRecords     int
	WithPhone        int
	PhoneNotFound    int
	PhoneUnavailable int
	MissingAddress   int
	// RecordsByTown counts records per town, taken from the last
	// comma-separated part of the address.
	RecordsByTown map[string]int
}

// GenerateReport summarises one query's records.
func GenerateReport(q models.ScrapeQuery, records []models.Record) Report {
	report := Report{
		Query:         q,
		TotalRecords:  len(records),
		RecordsByTown: make(map[string]int),
	}

	for _, r := range records {
		switch r.Phone {
		case models.PhoneNotFound:
			report.PhoneNotFound++
		case models.PhoneUnavailable:
			report.PhoneUnavailable++
		default:
			report.WithPhone++
		}

		if strings.TrimSpace(r.Address) == "" {
			report.MissingAddress++
		}
		report.RecordsByTown[townOf(r.Address)]++
	}

	return report
}

// PhoneCoverage is the share of records with a real phone number, 0..1.
func (r Report) PhoneCoverage() float64 {
	if r.TotalRecords == 0 {
		return 0
	}
	return float64(r.WithPhone) / float64(r.TotalRecords)
}

func PrintReport(w io.Writer, report Report) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "┌──────────────────────────────────────────────────────────────┐")
	fmt.Fprintf(w, "│ %-60s │\n", truncateText(fmt.Sprintf("%s @ %s", report.Query.Query, report.Query.Location), 60))
	fmt.Fprintln(w, "├───────────────────────────────┬──────────────────────────────┤")
	fmt.Fprintf(w, "│ %-29s │ %-28d │\n", "Records", report.TotalRecords)
	fmt.Fprintf(w, "│ %-29s │ %-28d │\n", "With phone", report.WithPhone)
	fmt.Fprintf(w, "│ %-29s │ %-28d │\n", "Phone "+models.PhoneNotFound, report.PhoneNotFound)
	fmt.Fprintf(w, "│ %-29s │ %-28d │\n", "Phone "+models.PhoneUnavailable, report.PhoneUnavailable)
	fmt.Fprintf(w, "│ %-29s │ %-28d │\n", "Missing address", report.MissingAddress)
	fmt.Fprintf(w, "│ %-29s │ %-28s │\n", "Phone coverage", fmt.Sprintf("%.0f%%", report.PhoneCoverage()*100))
	fmt.Fprintln(w, "└───────────────────────────────┴──────────────────────────────┘")

	if len(report.RecordsByTown) == 0 {
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "┌──────────────────────────────────────────────┬───────────────┐")
	fmt.Fprintln(w, "│ Records per town                             │ Count         │")
	fmt.Fprintln(w, "├──────────────────────────────────────────────┼───────────────┤")
	for _, town := range sortedTowns(report.RecordsByTown) {
		fmt.Fprintf(w, "│ %-44s │ %-13d │\n", truncateText(town, 44), report.RecordsByTown[town])
	}
	fmt.Fprintln(w, "└──────────────────────────────────────────────┴───────────────┘")
}

func townOf(address string) string {
	parts := strings.Split(address, ",")
	town := strings.TrimSpace(parts[len(parts)-1])
	if town == "" {
		return "Unknown"
	}
	return town
}

func sortedTowns(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if m[keys[i]] == m[keys[j]] {
			return keys[i] < keys[j]
		}
		return m[keys[i]] > m[keys[j]]
	})
	return keys
}

func truncateText(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
