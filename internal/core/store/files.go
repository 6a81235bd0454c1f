package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// FileRepository handles database operations for file records.
type FileRepository struct {
	db *sqlx.DB
}

// NewFileRepository creates a new file repository.
func NewFileRepository(db *sqlx.DB) *FileRepository {
	return &FileRepository{db: db}
}

// GetByID retrieves a file record by its ID.
func (r *FileRepository) GetByID(ctx context.Context, id int64) (*FileRecord, error) {
	var file FileRecord
	query := `
		SELECT id, file_name, file_path, total_links, total_processed, total_failed,
		       status, uploaded_at, user_id
		FROM files
		WHERE id = $1
	`

	err := r.db.GetContext(ctx, &file, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get file %d: %w", id, err)
	}

	return &file, nil
}

// Claim atomically moves a file into PROCESSING. A file already in
// PROCESSING cannot be claimed a second time, so at most one run owns it.
func (r *FileRepository) Claim(ctx context.Context, id int64) error {
	query := `UPDATE files SET status = $1 WHERE id = $2 AND status <> $1`

	result, err := r.db.ExecContext(ctx, query, StatusProcessing, id)
	if err != nil {
		return fmt.Errorf("failed to claim file %d: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		// Distinguish a missing row from a concurrent claim.
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return getErr
		}
		return ErrAlreadyProcessing
	}

	return nil
}

// SetStatus persists a status transition immediately.
func (r *FileRepository) SetStatus(ctx context.Context, id int64, status string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE files SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to set status of file %d: %w", id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetTotalLinks records the URL count once the source has been read.
func (r *FileRepository) SetTotalLinks(ctx context.Context, id int64, total int) error {
	_, err := r.db.ExecContext(ctx, `UPDATE files SET total_links = $1 WHERE id = $2`, total, id)
	if err != nil {
		return fmt.Errorf("failed to set total links of file %d: %w", id, err)
	}
	return nil
}

// SetProgress checkpoints the running counters.
func (r *FileRepository) SetProgress(ctx context.Context, id int64, processed, failed int) error {
	query := `UPDATE files SET total_processed = $1, total_failed = $2 WHERE id = $3`
	_, err := r.db.ExecContext(ctx, query, processed, failed, id)
	if err != nil {
		return fmt.Errorf("failed to set progress of file %d: %w", id, err)
	}
	return nil
}

// Finalize writes the terminal status and final counters in one statement.
func (r *FileRepository) Finalize(ctx context.Context, id int64, status string, processed, failed int) error {
	query := `UPDATE files SET status = $1, total_processed = $2, total_failed = $3 WHERE id = $4`
	_, err := r.db.ExecContext(ctx, query, status, processed, failed, id)
	if err != nil {
		return fmt.Errorf("failed to finalize file %d: %w", id, err)
	}
	return nil
}
