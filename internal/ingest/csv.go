// Package ingest discovers input artifacts: HTML snapshots on disk and
// product URLs listed in CSV files.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// urlColumns is the priority order of column names searched for a URL in
// each CSV row.
var urlColumns = []string{"url", "URL", "link", "Link", "website", "Website"}

// ExtractURLs reads CSV content and returns the unique, non-empty URLs in
// first-occurrence order. For each row the named columns are tried first;
// otherwise the row's first value is used only when it looks like an
// absolute http(s) URL. Rows without a usable URL are skipped silently,
// and a CSV with no URLs at all yields an empty list, not an error.
func ExtractURLs(r io.Reader) ([]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	columnIndex := make(map[string]int, len(header))
	for i, name := range header {
		if _, ok := columnIndex[name]; !ok {
			columnIndex[name] = i
		}
	}

	var urls []string
	seen := make(map[string]bool)

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}

		url := urlFromRow(row, columnIndex)
		if url != "" && !seen[url] {
			seen[url] = true
			urls = append(urls, url)
		}
	}

	return urls, nil
}

func urlFromRow(row []string, columnIndex map[string]int) string {
	for _, name := range urlColumns {
		idx, ok := columnIndex[name]
		if !ok || idx >= len(row) {
			continue
		}
		if value := strings.TrimSpace(row[idx]); value != "" {
			return value
		}
	}

	// No named column matched; accept the first value only when it is
	// unambiguously a URL.
	if len(row) > 0 {
		first := strings.TrimSpace(row[0])
		if strings.HasPrefix(first, "http://") || strings.HasPrefix(first, "https://") {
			return first
		}
	}

	return ""
}
