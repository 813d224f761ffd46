package ingest

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/vladimir/product-scraper/internal/db"
)

// ArtifactStore is the slice of the storage layer discovery needs. It is
// satisfied by *db.DB; tests inject an in-memory implementation.
type ArtifactStore interface {
	HasFilename(ctx context.Context, filename string) (bool, error)
	HasURL(ctx context.Context, url string) (bool, error)
	CreateInputArtifact(ctx context.Context, input db.ArtifactInput) (*db.InputArtifact, error)
}

// Summary reports what one discovery pass did.
type Summary struct {
	FilesSeen    int
	HTMLStored   int
	URLsStored   int
	URLsSkipped  int
	FilesSkipped int
}

// Discovery scans the input directory for new HTML and CSV files and
// records them as input artifacts.
type Discovery struct {
	store    ArtifactStore
	inputDir string
	verbose  bool
}

// NewDiscovery builds a Discovery over the given store and directory.
func NewDiscovery(store ArtifactStore, inputDir string, verbose bool) *Discovery {
	return &Discovery{store: store, inputDir: inputDir, verbose: verbose}
}

// Run performs one discovery pass. Files whose name is already known to
// the store are skipped under any status: only pipeline-internal
// transitions ever re-activate a record. HTML files become one artifact
// each; CSV files become one artifact per unique, previously unseen URL.
// A failure on one file does not abort the pass.
func (d *Discovery) Run(ctx context.Context) (*Summary, error) {
	entries, err := os.ReadDir(d.inputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory %s: %w", d.inputDir, err)
	}

	summary := &Summary{}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		kind := kindForFilename(entry.Name())
		if kind == "" {
			continue
		}
		summary.FilesSeen++

		known, err := d.store.HasFilename(ctx, entry.Name())
		if err != nil {
			return summary, fmt.Errorf("failed to check filename %s: %w", entry.Name(), err)
		}
		if known {
			summary.FilesSkipped++
			if d.verbose {
				log.Printf("[DISCOVERY] Already known, skipping: %s", entry.Name())
			}
			continue
		}

		path := filepath.Join(d.inputDir, entry.Name())
		switch kind {
		case db.ArtifactKindHTML:
			if err := d.storeHTMLFile(ctx, entry.Name(), path, summary); err != nil {
				log.Printf("[DISCOVERY] Error processing HTML file %s: %v", entry.Name(), err)
			}
		case db.ArtifactKindCSV:
			if err := d.storeCSVFile(ctx, entry.Name(), path, summary); err != nil {
				log.Printf("[DISCOVERY] Error processing CSV file %s: %v", entry.Name(), err)
			}
		}
	}

	return summary, nil
}

// kindForFilename recognizes extensions case-insensitively; empty means
// the file is not an input artifact.
func kindForFilename(name string) db.ArtifactKind {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".html":
		return db.ArtifactKindHTML
	case ".csv":
		return db.ArtifactKindCSV
	default:
		return ""
	}
}

func (d *Discovery) storeHTMLFile(ctx context.Context, name, path string, summary *Summary) error {
	size, err := fileSize(path)
	if err != nil {
		return err
	}

	// For HTML artifacts the origin descriptor is the file path itself.
	origin := path
	if _, err := d.store.CreateInputArtifact(ctx, db.ArtifactInput{
		Filename: name,
		FilePath: path,
		Kind:     db.ArtifactKindHTML,
		FileSize: size,
		Origin:   &origin,
	}); err != nil {
		return err
	}

	summary.HTMLStored++
	if d.verbose {
		log.Printf("[DISCOVERY] Stored HTML file: %s", name)
	}
	return nil
}

// storeCSVFile records one artifact per unique URL in the CSV. Cross-run
// dedup is on (origin, kind=csv): URLs already known are skipped, which
// makes re-ingesting an overlapping CSV a no-op for the overlap.
func (d *Discovery) storeCSVFile(ctx context.Context, name, path string, summary *Summary) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open CSV: %w", err)
	}
	defer func() { _ = f.Close() }()

	urls, err := ExtractURLs(f)
	if err != nil {
		return fmt.Errorf("failed to extract URLs from %s: %w", name, err)
	}
	if len(urls) == 0 {
		log.Printf("[DISCOVERY] No URLs found in CSV file: %s", name)
		return nil
	}

	size, err := fileSize(path)
	if err != nil {
		return err
	}

	for _, url := range urls {
		known, err := d.store.HasURL(ctx, url)
		if err != nil {
			return fmt.Errorf("failed to check URL: %w", err)
		}
		if known {
			summary.URLsSkipped++
			continue
		}

		origin := url
		if _, err := d.store.CreateInputArtifact(ctx, db.ArtifactInput{
			Filename: name,
			FilePath: path,
			Kind:     db.ArtifactKindCSV,
			FileSize: size,
			Origin:   &origin,
		}); err != nil {
			return err
		}
		summary.URLsStored++
	}

	if d.verbose {
		log.Printf("[DISCOVERY] CSV %s: %d new URLs stored, %d duplicates skipped",
			name, summary.URLsStored, summary.URLsSkipped)
	}
	return nil
}

func fileSize(path string) (*int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	size := info.Size()
	return &size, nil
}
