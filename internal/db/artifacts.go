package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const artifactColumns = `id, filename, file_path, kind, file_size, origin, status,
	total_products, processed_products, error_products, created_at, processed_at, error_message`

// CreateInputArtifact inserts a new input artifact at status pending.
func (db *DB) CreateInputArtifact(ctx context.Context, input ArtifactInput) (*InputArtifact, error) {
	var a InputArtifact
	err := db.pool.QueryRow(ctx,
		`INSERT INTO input_files (filename, file_path, kind, file_size, origin, status)
		 VALUES ($1, $2, $3, $4, $5, 'pending')
		 RETURNING `+artifactColumns,
		input.Filename, input.FilePath, input.Kind, input.FileSize, input.Origin,
	).Scan(&a.ID, &a.Filename, &a.FilePath, &a.Kind, &a.FileSize, &a.Origin, &a.Status,
		&a.TotalProducts, &a.ProcessedProducts, &a.ErrorProducts, &a.CreatedAt, &a.ProcessedAt, &a.ErrorMessage)
	if err != nil {
		return nil, fmt.Errorf("failed to create input artifact: %w", err)
	}
	return &a, nil
}

// HasFilename reports whether any artifact row exists for a filename,
// regardless of status or kind. Rediscovery of a known file never triggers
// reprocessing.
func (db *DB) HasFilename(ctx context.Context, filename string) (bool, error) {
	var exists bool
	err := db.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM input_files WHERE filename = $1)`,
		filename,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check filename: %w", err)
	}
	return exists, nil
}

// HasURL reports whether a csv-derived artifact already exists for a URL.
func (db *DB) HasURL(ctx context.Context, url string) (bool, error) {
	var exists bool
	err := db.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM input_files WHERE origin = $1 AND kind = 'csv')`,
		url,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check URL: %w", err)
	}
	return exists, nil
}

// GetInputArtifact retrieves one artifact by ID, or nil when not found.
func (db *DB) GetInputArtifact(ctx context.Context, id uuid.UUID) (*InputArtifact, error) {
	var a InputArtifact
	err := db.pool.QueryRow(ctx,
		`SELECT `+artifactColumns+` FROM input_files WHERE id = $1`,
		id,
	).Scan(&a.ID, &a.Filename, &a.FilePath, &a.Kind, &a.FileSize, &a.Origin, &a.Status,
		&a.TotalProducts, &a.ProcessedProducts, &a.ErrorProducts, &a.CreatedAt, &a.ProcessedAt, &a.ErrorMessage)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get input artifact: %w", err)
	}
	return &a, nil
}

// ListPendingArtifacts retrieves all artifacts at status pending, oldest
// first.
func (db *DB) ListPendingArtifacts(ctx context.Context) ([]InputArtifact, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+artifactColumns+` FROM input_files WHERE status = 'pending' ORDER BY created_at ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending artifacts: %w", err)
	}
	defer rows.Close()

	var artifacts []InputArtifact
	for rows.Next() {
		var a InputArtifact
		if err := rows.Scan(&a.ID, &a.Filename, &a.FilePath, &a.Kind, &a.FileSize, &a.Origin, &a.Status,
			&a.TotalProducts, &a.ProcessedProducts, &a.ErrorProducts, &a.CreatedAt, &a.ProcessedAt, &a.ErrorMessage); err != nil {
			return nil, fmt.Errorf("failed to scan artifact: %w", err)
		}
		artifacts = append(artifacts, a)
	}
	return artifacts, rows.Err()
}

// UpdateArtifactStatus writes a status transition. Terminal statuses also
// stamp processed_at; a non-nil errMsg is recorded on the row.
func (db *DB) UpdateArtifactStatus(ctx context.Context, id uuid.UUID, status ArtifactStatus, errMsg *string) error {
	var processedAt *time.Time
	if status == ArtifactStatusProcessed || status == ArtifactStatusFailed {
		now := time.Now()
		processedAt = &now
	}

	_, err := db.pool.Exec(ctx,
		`UPDATE input_files
		 SET status = $1,
		     processed_at = COALESCE($2, processed_at),
		     error_message = COALESCE($3, error_message)
		 WHERE id = $4`,
		status, processedAt, errMsg, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update artifact status: %w", err)
	}
	return nil
}

// UpdateArtifactCounters writes the running product counters for an
// artifact.
func (db *DB) UpdateArtifactCounters(ctx context.Context, id uuid.UUID, total, processed, errored int) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE input_files
		 SET total_products = $1, processed_products = $2, error_products = $3
		 WHERE id = $4`,
		total, processed, errored, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update artifact counters: %w", err)
	}
	return nil
}
