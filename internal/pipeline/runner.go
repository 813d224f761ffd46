// Package pipeline drives pending input artifacts through
// fetch → extract → persist, updating artifact status and counters.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vladimir/product-scraper/internal/db"
	"github.com/vladimir/product-scraper/internal/extract"
	"github.com/vladimir/product-scraper/internal/schema"
)

// Store is the slice of the storage layer the runner needs. It is
// satisfied by *db.DB; tests inject fakes.
type Store interface {
	ListPendingArtifacts(ctx context.Context) ([]db.InputArtifact, error)
	UpdateArtifactStatus(ctx context.Context, id uuid.UUID, status db.ArtifactStatus, errMsg *string) error
	UpdateArtifactCounters(ctx context.Context, id uuid.UUID, total, processed, errored int) error
	LogMessage(ctx context.Context, entry db.LogEntry) error
}

// Persister writes one canonical product atomically. Satisfied by *db.DB.
type Persister interface {
	SaveProduct(ctx context.Context, artifactID uuid.UUID, product *schema.Product) (ok bool, productID *uuid.UUID, errMsg *string)
}

// Fetcher turns a source (file path or URL) into HTML. Satisfied by
// *fetch.Client.
type Fetcher interface {
	Content(ctx context.Context, source string, fromFile bool) (string, error)
}

// Runner processes pending artifacts one at a time. A single runner
// instance is assumed: the durable `processing` status write guards
// against re-selection, not against a concurrent runner.
type Runner struct {
	store     Store
	persister Persister
	fetcher   Fetcher
	registry  *extract.Registry
	site      string
	verbose   bool
}

// NewRunner builds a Runner. The site identifier selects the extractor
// from the registry; artifacts never select a parser by HTML sniffing.
func NewRunner(store Store, persister Persister, fetcher Fetcher, registry *extract.Registry, site string, verbose bool) *Runner {
	return &Runner{
		store:     store,
		persister: persister,
		fetcher:   fetcher,
		registry:  registry,
		site:      site,
		verbose:   verbose,
	}
}

// RunOnce processes every artifact currently at status pending, exactly
// once per call. One artifact's failure never aborts the batch: any error
// escaping the per-artifact sequence marks that artifact failed and the
// loop moves on.
func (r *Runner) RunOnce(ctx context.Context) error {
	artifacts, err := r.store.ListPendingArtifacts(ctx)
	if err != nil {
		return fmt.Errorf("failed to list pending artifacts: %w", err)
	}
	if len(artifacts) == 0 {
		if r.verbose {
			log.Printf("[PIPELINE] No pending artifacts to process")
		}
		return nil
	}

	if r.verbose {
		log.Printf("[PIPELINE] Found %d pending artifacts", len(artifacts))
	}

	for i := range artifacts {
		artifact := &artifacts[i]
		if err := r.processArtifact(ctx, artifact); err != nil {
			msg := err.Error()
			_ = r.store.UpdateArtifactStatus(ctx, artifact.ID, db.ArtifactStatusFailed, &msg)
			_ = r.store.LogMessage(ctx, db.LogEntry{
				ArtifactID: &artifact.ID,
				Level:      db.LogLevelError,
				Message:    fmt.Sprintf("Error processing artifact %s: %v", artifact.Filename, err),
			})
			log.Printf("[PIPELINE] Error processing %s: %v", artifact.Filename, err)
		}
	}

	return nil
}

// processArtifact runs the per-artifact sequence. Handled outcomes (fetch
// failure, persist failure) terminate the artifact in place and return
// nil; a non-nil return means an unexpected failure the caller must record.
func (r *Runner) processArtifact(ctx context.Context, artifact *db.InputArtifact) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("unexpected panic: %v", p)
		}
	}()

	if r.verbose {
		log.Printf("[PIPELINE] Processing %s (kind=%s)", artifact.Filename, artifact.Kind)
	}

	// Durable claim before any work begins: a crash mid-fetch leaves the
	// artifact visibly in-progress instead of silently pending again.
	if err := r.store.UpdateArtifactStatus(ctx, artifact.ID, db.ArtifactStatusProcessing, nil); err != nil {
		return err
	}

	fromFile := artifact.Kind == db.ArtifactKindHTML
	source := artifact.FilePath
	if !fromFile {
		if artifact.Origin == nil {
			return fmt.Errorf("csv artifact %s has no origin URL", artifact.ID)
		}
		source = *artifact.Origin
	}

	html, fetchErr := r.fetcher.Content(ctx, source, fromFile)
	if fetchErr != nil || strings.TrimSpace(html) == "" {
		msg := "no content obtained from source"
		if fetchErr != nil {
			msg = fmt.Sprintf("no content obtained from source: %v", fetchErr)
		}
		return r.failArtifact(ctx, artifact, msg)
	}

	extractor, err := r.registry.Get(r.site)
	if err != nil {
		return err
	}

	product, err := extractor.Extract(html)
	if err != nil {
		return r.failArtifact(ctx, artifact, fmt.Sprintf("extraction failed: %v", err))
	}

	now := time.Now()
	product.ScrapedAt = &now
	if !fromFile {
		product.SourceURL = artifact.Origin
	}

	// Exactly one product per artifact; counters are written immediately
	// after the persist call so observers see progress without waiting
	// for the terminal status.
	ok, productID, errMsg := r.persister.SaveProduct(ctx, artifact.ID, product)
	processed, errored := 0, 0
	if ok {
		processed = 1
		if r.verbose {
			log.Printf("[PIPELINE] Stored product %s from %s", productID, artifact.Filename)
		}
	} else {
		errored = 1
		if errMsg != nil {
			log.Printf("[PIPELINE] Failed to store product from %s: %s", artifact.Filename, *errMsg)
		}
	}
	if err := r.store.UpdateArtifactCounters(ctx, artifact.ID, 1, processed, errored); err != nil {
		log.Printf("[PIPELINE] Failed to update counters for %s: %v", artifact.Filename, err)
	}

	// Terminal status: processed when at least one product succeeded.
	if processed > 0 {
		if err := r.store.UpdateArtifactStatus(ctx, artifact.ID, db.ArtifactStatusProcessed, nil); err != nil {
			return err
		}
		return r.store.LogMessage(ctx, db.LogEntry{
			ArtifactID: &artifact.ID,
			ProductID:  productID,
			Level:      db.LogLevelInfo,
			Message:    fmt.Sprintf("Artifact processed: %s", artifact.Filename),
		})
	}

	msg := "no products stored"
	if errMsg != nil {
		msg = *errMsg
	}
	return r.failArtifact(ctx, artifact, msg)
}

// failArtifact terminates an artifact at status failed with its error
// message and a processing log entry.
func (r *Runner) failArtifact(ctx context.Context, artifact *db.InputArtifact, msg string) error {
	if err := r.store.UpdateArtifactStatus(ctx, artifact.ID, db.ArtifactStatusFailed, &msg); err != nil {
		return err
	}
	return r.store.LogMessage(ctx, db.LogEntry{
		ArtifactID: &artifact.ID,
		Level:      db.LogLevelError,
		Message:    fmt.Sprintf("Artifact failed: %s", artifact.Filename),
		Details:    &msg,
	})
}
