package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// LinkRepository handles database operations for per-URL results.
type LinkRepository struct {
	db *sqlx.DB
}

// NewLinkRepository creates a new link repository.
func NewLinkRepository(db *sqlx.DB) *LinkRepository {
	return &LinkRepository{db: db}
}

// Append inserts a new link result. Rows are never updated; one row exists
// per URL attempted, failures included.
func (r *LinkRepository) Append(ctx context.Context, link *LinkResult) error {
	query := `
		INSERT INTO links (file_id, url, title, post_date, content, meta_description,
		                   page_exists, success, error_description, processed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		link.FileID,
		link.URL,
		link.Title,
		link.PostDate,
		link.Content,
		link.MetaDescription,
		link.PageExists,
		link.Success,
		link.ErrorDescription,
		link.ProcessedAt,
	).Scan(&link.ID)

	if err != nil {
		return fmt.Errorf("failed to append link result for %s: %w", link.URL, err)
	}

	return nil
}

// CountByFile returns the number of link results recorded for a file.
func (r *LinkRepository) CountByFile(ctx context.Context, fileID int64) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM links WHERE file_id = $1`, fileID)
	if err != nil {
		return 0, fmt.Errorf("failed to count links of file %d: %w", fileID, err)
	}
	return count, nil
}
