package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vladimir/product-scraper/internal/schema"
)

// SaveProduct persists one canonical product and all of its child rows in
// a single transaction. Either the full row graph becomes visible or none
// of it does. Failures never propagate as errors: the transaction is
// rolled back, the failure is logged outside the transaction, and the
// outcome is returned as (false, nil, message).
func (db *DB) SaveProduct(ctx context.Context, artifactID uuid.UUID, p *schema.Product) (bool, *uuid.UUID, *string) {
	if err := schema.Validate(p); err != nil {
		return db.failProduct(ctx, artifactID, "unexpected error while storing product", err)
	}

	productID, err := db.saveProductTx(ctx, artifactID, p)
	if err != nil {
		kind := "unexpected error while storing product"
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			kind = "database error while storing product"
		}
		return db.failProduct(ctx, artifactID, kind, err)
	}

	return true, &productID, nil
}

// failProduct records a persist failure in the processing log and shapes
// the failure result. The log write is non-transactional so it survives
// the rollback; if even the log write fails there is nothing left to do
// but return the message.
func (db *DB) failProduct(ctx context.Context, artifactID uuid.UUID, kind string, cause error) (bool, *uuid.UUID, *string) {
	msg := fmt.Sprintf("%s: %v", kind, cause)
	details := cause.Error()
	_ = db.LogMessage(ctx, LogEntry{
		ArtifactID: &artifactID,
		Level:      LogLevelError,
		Message:    msg,
		Details:    &details,
	})
	return false, nil, &msg
}

func (db *DB) saveProductTx(ctx context.Context, artifactID uuid.UUID, p *schema.Product) (uuid.UUID, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && rErr != pgx.ErrTxClosed {
			fmt.Printf("Rollback error: %v\n", rErr)
		}
	}()

	var productID uuid.UUID
	err = tx.QueryRow(ctx,
		`INSERT INTO products (input_file_id, status, source_url, scraped_at,
		                       name, brand, units_per_pack, net_volume,
		                       flavor, gluten_free, vegan, whitening, format, for_children, paraben_free,
		                       operation_notice_number, shelf_life, full_description)
		 VALUES ($1, 'scraped', $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		 RETURNING id`,
		artifactID, p.SourceURL, p.ScrapedAt,
		p.BasicInfo.Name, p.BasicInfo.Brand, p.BasicInfo.UnitsPerPack, p.BasicInfo.NetVolume,
		p.Features.Flavor, p.Features.GlutenFree, p.Features.Vegan, p.Features.Whitening,
		p.Features.Format, p.Features.ForChildren, p.Features.ParabenFree,
		p.TechnicalSpecs.OperationNoticeNumber, p.TechnicalSpecs.ShelfLife, p.FullDescription,
	).Scan(&productID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert product: %w", err)
	}

	for _, benefit := range p.Features.Benefits {
		if _, err := tx.Exec(ctx,
			`INSERT INTO product_benefits (product_id, benefit) VALUES ($1, $2)`,
			productID, benefit,
		); err != nil {
			return uuid.Nil, fmt.Errorf("failed to insert benefit: %w", err)
		}
	}

	for _, ingredient := range p.Composition.NaturalIngredients {
		if _, err := tx.Exec(ctx,
			`INSERT INTO product_natural_ingredients (product_id, ingredient) VALUES ($1, $2)`,
			productID, ingredient,
		); err != nil {
			return uuid.Nil, fmt.Errorf("failed to insert natural ingredient: %w", err)
		}
	}

	for _, chemical := range p.Composition.ExcludedChemicals {
		if _, err := tx.Exec(ctx,
			`INSERT INTO product_excluded_chemicals (product_id, chemical) VALUES ($1, $2)`,
			productID, chemical,
		); err != nil {
			return uuid.Nil, fmt.Errorf("failed to insert excluded chemical: %w", err)
		}
	}

	for _, category := range p.Categories {
		if _, err := tx.Exec(ctx,
			`INSERT INTO product_categories (product_id, category) VALUES ($1, $2)`,
			productID, category,
		); err != nil {
			return uuid.Nil, fmt.Errorf("failed to insert category: %w", err)
		}
	}

	// Images keep their gallery position as display_order.
	for order, url := range p.Images {
		if _, err := tx.Exec(ctx,
			`INSERT INTO product_images (product_id, image_url, download_status, display_order)
			 VALUES ($1, $2, 'pending', $3)`,
			productID, url, order,
		); err != nil {
			return uuid.Nil, fmt.Errorf("failed to insert image: %w", err)
		}
	}

	details := fmt.Sprintf("Created product with %d benefits, %d ingredients, %d excluded chemicals, %d categories, and %d images",
		len(p.Features.Benefits), len(p.Composition.NaturalIngredients),
		len(p.Composition.ExcludedChemicals), len(p.Categories), len(p.Images))
	if _, err := tx.Exec(ctx,
		`INSERT INTO processing_logs (input_file_id, product_id, log_level, message, details)
		 VALUES ($1, $2, 'info', $3, $4)`,
		artifactID, productID,
		fmt.Sprintf("Product successfully stored: %s", p.DisplayName()), details,
	); err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert success log: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return productID, nil
}

// SaveProducts persists a batch of canonical products for one artifact,
// continuing past individual failures. Afterwards the artifact's aggregate
// counters and one summary log entry are written best-effort: a counter
// update failure is logged but never invalidates products already
// committed.
func (db *DB) SaveProducts(ctx context.Context, artifactID uuid.UUID, products []*schema.Product) BatchResult {
	var result BatchResult

	for i, p := range products {
		ok, _, errMsg := db.SaveProduct(ctx, artifactID, p)
		if ok {
			result.SuccessCount++
			continue
		}
		result.ErrorCount++
		msg := ""
		if errMsg != nil {
			msg = *errMsg
		}
		result.Errors = append(result.Errors, BatchError{
			Index:   i,
			Name:    p.DisplayName(),
			Message: msg,
		})
	}

	total := result.SuccessCount + result.ErrorCount
	if err := db.UpdateArtifactCounters(ctx, artifactID, total, result.SuccessCount, result.ErrorCount); err != nil {
		details := err.Error()
		_ = db.LogMessage(ctx, LogEntry{
			ArtifactID: &artifactID,
			Level:      LogLevelError,
			Message:    fmt.Sprintf("Error updating input file statistics: %v", err),
			Details:    &details,
		})
		return result
	}

	details := fmt.Sprintf("Total products processed: %d", total)
	_ = db.LogMessage(ctx, LogEntry{
		ArtifactID: &artifactID,
		Level:      LogLevelInfo,
		Message:    fmt.Sprintf("Batch processing completed: %d successful, %d failed", result.SuccessCount, result.ErrorCount),
		Details:    &details,
	})

	return result
}
