package db

import (
	"context"
	"fmt"
)

// LogMessage appends one processing log row. Log writes run outside any
// transaction so that failure records survive a rollback.
func (db *DB) LogMessage(ctx context.Context, entry LogEntry) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO processing_logs (input_file_id, product_id, log_level, message, details)
		 VALUES ($1, $2, $3, $4, $5)`,
		entry.ArtifactID, entry.ProductID, entry.Level, entry.Message, entry.Details,
	)
	if err != nil {
		return fmt.Errorf("failed to write processing log: %w", err)
	}
	return nil
}
