//go:build integration

package db

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/vladimir/product-scraper/internal/schema"
)

func testProduct(name string) *schema.Product {
	now := time.Now()
	p := schema.New()
	p.BasicInfo.Name = &name
	p.ScrapedAt = &now
	return p
}

func TestIntegration_SaveProduct(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()

	artifact := createTestArtifact(t, db, "it-save.html", ArtifactKindHTML, "data/input/it-save.html")

	p := testProduct("it Pasta Dental")
	p.BasicInfo.Brand = strPointer("NaturalCare")
	p.Features.Benefits = []string{"Blanquea", "Protege el esmalte"}
	p.Features.Vegan = true
	p.Composition.NaturalIngredients = []string{"Aloe Vera"}
	p.Images = []string{
		"https://http2.mlstatic.com/D_NQ_NP_1-F.jpg",
		"https://http2.mlstatic.com/D_NQ_NP_2-F.jpg",
		"https://http2.mlstatic.com/D_NQ_NP_3-F.jpg",
	}

	ok, productID, errMsg := db.SaveProduct(ctx, artifact.ID, p)
	if !ok {
		t.Fatalf("SaveProduct failed: %v", errMsg)
	}
	if productID == nil {
		t.Fatal("Expected product ID, got nil")
	}

	var status string
	var vegan bool
	if err := db.pool.QueryRow(ctx,
		`SELECT status, vegan FROM products WHERE id = $1`, *productID,
	).Scan(&status, &vegan); err != nil {
		t.Fatalf("Failed to read product row: %v", err)
	}
	if status != string(ProductStatusScraped) {
		t.Errorf("Expected status scraped, got %q", status)
	}
	if !vegan {
		t.Error("Expected vegan flag to be stored")
	}

	counts := map[string]int{
		"product_benefits":            2,
		"product_natural_ingredients": 1,
		"product_excluded_chemicals":  0,
		"product_images":              3,
	}
	for table, want := range counts {
		var got int
		if err := db.pool.QueryRow(ctx,
			`SELECT COUNT(*) FROM `+table+` WHERE product_id = $1`, *productID,
		).Scan(&got); err != nil {
			t.Fatalf("Failed to count %s: %v", table, err)
		}
		if got != want {
			t.Errorf("Expected %d rows in %s, got %d", want, table, got)
		}
	}

	// Images keep gallery order.
	var firstURL string
	if err := db.pool.QueryRow(ctx,
		`SELECT image_url FROM product_images WHERE product_id = $1 AND display_order = 0`, *productID,
	).Scan(&firstURL); err != nil {
		t.Fatalf("Failed to read first image: %v", err)
	}
	if firstURL != p.Images[0] {
		t.Errorf("Expected first image %q at display_order 0, got %q", p.Images[0], firstURL)
	}

	// The success log entry was committed with the transaction.
	var logCount int
	if err := db.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM processing_logs WHERE product_id = $1 AND log_level = 'info'`, *productID,
	).Scan(&logCount); err != nil {
		t.Fatalf("Failed to count logs: %v", err)
	}
	if logCount != 1 {
		t.Errorf("Expected 1 success log entry, got %d", logCount)
	}
}

func TestIntegration_SaveProduct_Atomicity(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()

	artifact := createTestArtifact(t, db, "it-atomic.html", ArtifactKindHTML, "data/input/it-atomic.html")

	// The oversized benefit violates the VARCHAR(255) column after the
	// product row was already inserted inside the transaction.
	p := testProduct("it Producto Atómico")
	p.Features.Benefits = []string{strings.Repeat("x", 300)}
	p.Images = []string{"https://http2.mlstatic.com/D_NQ_NP_9-F.jpg"}

	ok, productID, errMsg := db.SaveProduct(ctx, artifact.ID, p)
	if ok {
		t.Fatal("Expected SaveProduct to fail on oversized benefit")
	}
	if productID != nil {
		t.Error("Expected nil product ID on failure")
	}
	if errMsg == nil || !strings.Contains(*errMsg, "database error while storing product") {
		t.Errorf("Expected database error message, got %v", errMsg)
	}

	// Nothing from the failed product survives, not even the parent row.
	var productCount int
	if err := db.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM products WHERE input_file_id = $1`, artifact.ID,
	).Scan(&productCount); err != nil {
		t.Fatalf("Failed to count products: %v", err)
	}
	if productCount != 0 {
		t.Errorf("Expected 0 product rows after rollback, got %d", productCount)
	}

	// The failure log is written outside the transaction and survives.
	var logCount int
	if err := db.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM processing_logs WHERE input_file_id = $1 AND log_level = 'error'`, artifact.ID,
	).Scan(&logCount); err != nil {
		t.Fatalf("Failed to count logs: %v", err)
	}
	if logCount != 1 {
		t.Errorf("Expected 1 error log entry, got %d", logCount)
	}
}

func TestIntegration_SaveProduct_ValidationFailure(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()

	artifact := createTestArtifact(t, db, "it-invalid.html", ArtifactKindHTML, "data/input/it-invalid.html")

	// A bare struct literal marshals images as null and fails schema
	// validation before any row is written.
	ok, _, errMsg := db.SaveProduct(ctx, artifact.ID, &schema.Product{})
	if ok {
		t.Fatal("Expected SaveProduct to reject an invalid product")
	}
	if errMsg == nil || !strings.Contains(*errMsg, "unexpected error while storing product") {
		t.Errorf("Expected validation error message, got %v", errMsg)
	}

	var productCount int
	if err := db.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM products WHERE input_file_id = $1`, artifact.ID,
	).Scan(&productCount); err != nil {
		t.Fatalf("Failed to count products: %v", err)
	}
	if productCount != 0 {
		t.Errorf("Expected 0 product rows, got %d", productCount)
	}
}

func TestIntegration_SaveProducts_Batch(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()

	artifact := createTestArtifact(t, db, "it-batch.csv", ArtifactKindCSV, "http://test.example.com/it-batch")

	bad := testProduct("it Producto Malo")
	bad.Features.Benefits = []string{strings.Repeat("x", 300)}

	result := db.SaveProducts(ctx, artifact.ID, []*schema.Product{
		testProduct("it Producto Uno"),
		bad,
		testProduct("it Producto Dos"),
	})

	if result.SuccessCount != 2 || result.ErrorCount != 1 {
		t.Fatalf("Expected 2 successes and 1 failure, got %d/%d", result.SuccessCount, result.ErrorCount)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("Expected 1 batch error, got %d", len(result.Errors))
	}
	if result.Errors[0].Index != 1 {
		t.Errorf("Expected failing index 1, got %d", result.Errors[0].Index)
	}
	if result.Errors[0].Name != "it Producto Malo" {
		t.Errorf("Expected failing product name, got %q", result.Errors[0].Name)
	}

	// Committed products are untouched by the one failure.
	var productCount int
	if err := db.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM products WHERE input_file_id = $1`, artifact.ID,
	).Scan(&productCount); err != nil {
		t.Fatalf("Failed to count products: %v", err)
	}
	if productCount != 2 {
		t.Errorf("Expected 2 committed products, got %d", productCount)
	}

	current, err := db.GetInputArtifact(ctx, artifact.ID)
	if err != nil {
		t.Fatalf("GetInputArtifact failed: %v", err)
	}
	if current.TotalProducts != 3 || current.ProcessedProducts != 2 || current.ErrorProducts != 1 {
		t.Errorf("Expected counters 3/2/1, got %d/%d/%d",
			current.TotalProducts, current.ProcessedProducts, current.ErrorProducts)
	}

	var summaryCount int
	if err := db.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM processing_logs WHERE input_file_id = $1
		 AND message LIKE 'Batch processing completed%'`, artifact.ID,
	).Scan(&summaryCount); err != nil {
		t.Fatalf("Failed to count summary logs: %v", err)
	}
	if summaryCount != 1 {
		t.Errorf("Expected 1 batch summary log, got %d", summaryCount)
	}
}

func TestIntegration_LogMessage(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()

	artifact := createTestArtifact(t, db, "it-log.html", ArtifactKindHTML, "data/input/it-log.html")

	details := "fetch error for data/input/it-log.html: failed to read file"
	err := db.LogMessage(ctx, LogEntry{
		ArtifactID: &artifact.ID,
		Level:      LogLevelWarning,
		Message:    "it test warning",
		Details:    &details,
	})
	if err != nil {
		t.Fatalf("LogMessage failed: %v", err)
	}

	var got string
	if err := db.pool.QueryRow(ctx,
		`SELECT details FROM processing_logs WHERE input_file_id = $1 AND log_level = 'warning'`,
		artifact.ID,
	).Scan(&got); err != nil {
		t.Fatalf("Failed to read log row: %v", err)
	}
	if got != details {
		t.Errorf("Expected details %q, got %q", details, got)
	}
}
