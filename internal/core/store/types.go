package store

import (
	"errors"
	"time"
)

// ErrNotFound signals that the requested record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyProcessing signals that a file is claimed by a running batch.
var ErrAlreadyProcessing = errors.New("file is already being processed")

// File statuses persisted in files.status. Transitions are monotonic:
// PENDING -> PROCESSING -> {PROCESSED, ERROR}.
const (
	StatusPending    = "PENDING"
	StatusProcessing = "PROCESSING"
	StatusProcessed  = "PROCESSED"
	StatusError      = "ERROR"
)

// FileRecord models the files table: one uploaded URL batch.
type FileRecord struct {
	ID             int64     `db:"id"`
	FileName       string    `db:"file_name"`
	FilePath       string    `db:"file_path"`
	TotalLinks     int       `db:"total_links"`
	TotalProcessed int       `db:"total_processed"`
	TotalFailed    int       `db:"total_failed"`
	Status         string    `db:"status"`
	UploadedAt     time.Time `db:"uploaded_at"`
	UserID         int64     `db:"user_id"`
}

// LinkResult models the links table: the persisted outcome of one URL
// attempt. Rows are append-only; success=false always pairs with a non-nil
// ErrorDescription.
type LinkResult struct {
	ID               int64      `db:"id"`
	FileID           int64      `db:"file_id"`
	URL              string     `db:"url"`
	Title            *string    `db:"title"`
	PostDate         *time.Time `db:"post_date"`
	Content          *string    `db:"content"`
	MetaDescription  *string    `db:"meta_description"`
	PageExists       bool       `db:"page_exists"`
	Success          bool       `db:"success"`
	ErrorDescription *string    `db:"error_description"`
	ProcessedAt      time.Time  `db:"processed_at"`
}
