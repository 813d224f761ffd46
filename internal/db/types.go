package db

import (
	"time"

	"github.com/google/uuid"
)

// ArtifactKind distinguishes how an input artifact was discovered.
type ArtifactKind string

const (
	// ArtifactKindHTML is a saved HTML snapshot discovered on disk.
	ArtifactKindHTML ArtifactKind = "html"
	// ArtifactKindCSV is a single product URL derived from a CSV file.
	ArtifactKindCSV ArtifactKind = "csv"
)

// ArtifactStatus tracks an input artifact through its processing lifecycle.
type ArtifactStatus string

const (
	ArtifactStatusPending    ArtifactStatus = "pending"
	ArtifactStatusProcessing ArtifactStatus = "processing"
	ArtifactStatusProcessed  ArtifactStatus = "processed"
	ArtifactStatusFailed     ArtifactStatus = "failed"
)

// ProductStatus is the product state machine. The persister always writes
// scraped on creation; the image-download and upload states belong to
// later pipeline stages.
type ProductStatus string

const (
	ProductStatusPending          ProductStatus = "pending"
	ProductStatusScraping         ProductStatus = "scraping"
	ProductStatusScraped          ProductStatus = "scraped"
	ProductStatusImageDownloading ProductStatus = "image_downloading"
	ProductStatusImageDownloaded  ProductStatus = "image_downloaded"
	ProductStatusImageError       ProductStatus = "image_error"
	ProductStatusUploading        ProductStatus = "uploading"
	ProductStatusUploaded         ProductStatus = "uploaded"
	ProductStatusUploadError      ProductStatus = "upload_error"
	ProductStatusFailed           ProductStatus = "failed"
)

// ImageStatus is the download lifecycle of a product image. This core only
// ever writes the pending placeholder.
type ImageStatus string

const (
	ImageStatusPending     ImageStatus = "pending"
	ImageStatusDownloading ImageStatus = "downloading"
	ImageStatusDownloaded  ImageStatus = "downloaded"
	ImageStatusError       ImageStatus = "error"
	ImageStatusOptimized   ImageStatus = "optimized"
)

// LogLevel is the severity of a processing log entry.
type LogLevel string

const (
	LogLevelDebug   LogLevel = "debug"
	LogLevelInfo    LogLevel = "info"
	LogLevelWarning LogLevel = "warning"
	LogLevelError   LogLevel = "error"
)

// InputArtifact is one trackable unit of ingestion work: an HTML file or
// one URL derived from a CSV. Rows are append-only.
type InputArtifact struct {
	ID                uuid.UUID      `json:"id"`
	Filename          string         `json:"filename"`
	FilePath          string         `json:"file_path"`
	Kind              ArtifactKind   `json:"kind"`
	FileSize          *int64         `json:"file_size,omitempty"`
	Origin            *string        `json:"origin,omitempty"`
	Status            ArtifactStatus `json:"status"`
	TotalProducts     int            `json:"total_products"`
	ProcessedProducts int            `json:"processed_products"`
	ErrorProducts     int            `json:"error_products"`
	CreatedAt         time.Time      `json:"created_at"`
	ProcessedAt       *time.Time     `json:"processed_at,omitempty"`
	ErrorMessage      *string        `json:"error_message,omitempty"`
}

// ArtifactInput holds the fields for creating a new input artifact.
type ArtifactInput struct {
	Filename string
	FilePath string
	Kind     ArtifactKind
	FileSize *int64
	// Origin is the dedup identity: the file path for html artifacts, the
	// product URL for csv-derived artifacts.
	Origin *string
}

// LogEntry holds the fields for one processing log row.
type LogEntry struct {
	ArtifactID *uuid.UUID
	ProductID  *uuid.UUID
	Level      LogLevel
	Message    string
	Details    *string
}

// BatchError describes one failed item in a batch persist call.
type BatchError struct {
	Index   int    `json:"index"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

// BatchResult aggregates the outcome of a batch persist call.
type BatchResult struct {
	SuccessCount int          `json:"success_count"`
	ErrorCount   int          `json:"error_count"`
	Errors       []BatchError `json:"errors,omitempty"`
}
