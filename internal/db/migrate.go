package db

import (
	"context"
	"fmt"
)

// migrations creates the tables and indexes used by the scraper. All
// statements are idempotent so Migrate can run on every start.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS input_files (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		filename TEXT NOT NULL,
		file_path TEXT NOT NULL,
		kind TEXT NOT NULL CHECK (kind IN ('html', 'csv')),
		file_size BIGINT,
		origin TEXT,
		status TEXT NOT NULL DEFAULT 'pending'
			CHECK (status IN ('pending', 'processing', 'processed', 'failed')),
		total_products INTEGER NOT NULL DEFAULT 0,
		processed_products INTEGER NOT NULL DEFAULT 0,
		error_products INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		processed_at TIMESTAMPTZ,
		error_message TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		input_file_id UUID NOT NULL REFERENCES input_files(id),
		status TEXT NOT NULL DEFAULT 'pending'
			CHECK (status IN ('pending', 'scraping', 'scraped', 'image_downloading',
			                  'image_downloaded', 'image_error', 'uploading', 'uploaded',
			                  'upload_error', 'failed')),
		source_url TEXT,
		scraped_at TIMESTAMPTZ,
		name TEXT,
		brand VARCHAR(255),
		units_per_pack VARCHAR(255),
		net_volume VARCHAR(255),
		flavor VARCHAR(255),
		gluten_free BOOLEAN NOT NULL DEFAULT FALSE,
		vegan BOOLEAN NOT NULL DEFAULT FALSE,
		whitening BOOLEAN NOT NULL DEFAULT FALSE,
		format VARCHAR(255),
		for_children BOOLEAN NOT NULL DEFAULT FALSE,
		paraben_free BOOLEAN NOT NULL DEFAULT FALSE,
		operation_notice_number VARCHAR(255),
		shelf_life VARCHAR(255),
		full_description TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		error_message TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS product_benefits (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		product_id UUID NOT NULL REFERENCES products(id) ON DELETE CASCADE,
		benefit VARCHAR(255) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS product_natural_ingredients (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		product_id UUID NOT NULL REFERENCES products(id) ON DELETE CASCADE,
		ingredient VARCHAR(255) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS product_excluded_chemicals (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		product_id UUID NOT NULL REFERENCES products(id) ON DELETE CASCADE,
		chemical VARCHAR(255) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS product_categories (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		product_id UUID NOT NULL REFERENCES products(id) ON DELETE CASCADE,
		category VARCHAR(255) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS product_images (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		product_id UUID NOT NULL REFERENCES products(id) ON DELETE CASCADE,
		image_url TEXT NOT NULL,
		download_status TEXT NOT NULL DEFAULT 'pending'
			CHECK (download_status IN ('pending', 'downloading', 'downloaded', 'error', 'optimized')),
		display_order INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS processing_logs (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		input_file_id UUID REFERENCES input_files(id),
		product_id UUID REFERENCES products(id),
		log_level TEXT NOT NULL CHECK (log_level IN ('debug', 'info', 'warning', 'error')),
		message TEXT NOT NULL,
		details TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_input_files_html_identity
		ON input_files(filename, kind) WHERE kind = 'html'`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_input_files_csv_identity
		ON input_files(origin, kind) WHERE kind = 'csv'`,
	`CREATE INDEX IF NOT EXISTS idx_input_files_status ON input_files(status)`,
	`CREATE INDEX IF NOT EXISTS idx_input_files_kind ON input_files(kind)`,
	`CREATE INDEX IF NOT EXISTS idx_products_status ON products(status)`,
	`CREATE INDEX IF NOT EXISTS idx_products_input_file ON products(input_file_id)`,
	`CREATE INDEX IF NOT EXISTS idx_images_product ON product_images(product_id)`,
	`CREATE INDEX IF NOT EXISTS idx_images_status ON product_images(download_status)`,
	`CREATE INDEX IF NOT EXISTS idx_logs_timestamp ON processing_logs(created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_logs_product ON processing_logs(product_id)`,
}

// Migrate creates the schema if it does not exist yet.
func (db *DB) Migrate(ctx context.Context) error {
	for _, stmt := range migrations {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}
