package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"linkscraper/internal/core/store"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { mockDB.Close() })

	return sqlx.NewDb(mockDB, "postgres"), mock
}

func fileColumns() []string {
	return []string{
		"id", "file_name", "file_path", "total_links", "total_processed",
		"total_failed", "status", "uploaded_at", "user_id",
	}
}

func TestFileRepository_GetByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := store.NewFileRepository(db)
	ctx := context.Background()

	uploadedAt := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM files").
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows(fileColumns()).
			AddRow(42, "urls.txt", "/data/urls.txt", 0, 0, 0, store.StatusPending, uploadedAt, 7))

	file, err := repo.GetByID(ctx, 42)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}

	if file.ID != 42 || file.FileName != "urls.txt" || file.Status != store.StatusPending {
		t.Errorf("GetByID() = %+v", file)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestFileRepository_GetByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := store.NewFileRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM files").
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows(fileColumns()))

	_, err := repo.GetByID(context.Background(), 99)
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
}

func TestFileRepository_Claim(t *testing.T) {
	db, mock := newMockDB(t)
	repo := store.NewFileRepository(db)

	mock.ExpectExec("UPDATE files SET status").
		WithArgs(store.StatusProcessing, int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Claim(context.Background(), 42); err != nil {
		t.Fatalf("Claim() error = %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestFileRepository_Claim_AlreadyProcessing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := store.NewFileRepository(db)

	mock.ExpectExec("UPDATE files SET status").
		WithArgs(store.StatusProcessing, int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	// The repository re-reads the row to distinguish a lost claim from a
	// missing record.
	mock.ExpectQuery("SELECT (.+) FROM files").
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows(fileColumns()).
			AddRow(42, "urls.txt", "/data/urls.txt", 10, 3, 1, store.StatusProcessing, time.Now(), 7))

	err := repo.Claim(context.Background(), 42)
	if !errors.Is(err, store.ErrAlreadyProcessing) {
		t.Errorf("Claim() error = %v, want ErrAlreadyProcessing", err)
	}
}

func TestFileRepository_Claim_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := store.NewFileRepository(db)

	mock.ExpectExec("UPDATE files SET status").
		WithArgs(store.StatusProcessing, int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT (.+) FROM files").
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows(fileColumns()))

	err := repo.Claim(context.Background(), 99)
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Claim() error = %v, want ErrNotFound", err)
	}
}

func TestFileRepository_Finalize(t *testing.T) {
	db, mock := newMockDB(t)
	repo := store.NewFileRepository(db)

	mock.ExpectExec("UPDATE files SET status").
		WithArgs(store.StatusProcessed, 8, 2, int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Finalize(context.Background(), 42, store.StatusProcessed, 8, 2); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestFileRepository_SetProgress(t *testing.T) {
	db, mock := newMockDB(t)
	repo := store.NewFileRepository(db)

	mock.ExpectExec("UPDATE files SET total_processed").
		WithArgs(9, 1, int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.SetProgress(context.Background(), 42, 9, 1); err != nil {
		t.Fatalf("SetProgress() error = %v", err)
	}
}
