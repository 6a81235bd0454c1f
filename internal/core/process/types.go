package process

import (
	"context"

	"github.com/hibiken/asynq"

	"linkscraper/internal/core/extract"
	"linkscraper/internal/core/store"
	"linkscraper/internal/core/task"
)

// Summary is the terminal result of a batch run. On success it doubles as
// the processing_results section of the completion message.
type Summary struct {
	Success   bool   `json:"success"`
	FileID    int64  `json:"file_id,omitempty"`
	TotalURLs int    `json:"total_urls,omitempty"`
	Processed int    `json:"processed"`
	Failed    int    `json:"failed"`
	Status    string `json:"status,omitempty"`
	Error     string `json:"error,omitempty"`
}

// URLSummary is the result of a single-URL reprocessing task.
type URLSummary struct {
	Success         bool   `json:"success"`
	URL             string `json:"url"`
	LinkID          int64  `json:"link_id,omitempty"`
	ScrapingSuccess bool   `json:"scraping_success"`
}

// FileTaskPayload is the queue payload for a batch run.
type FileTaskPayload struct {
	TaskID string `json:"task_id"`
	FileID int64  `json:"file_id"`
	Email  string `json:"email"`
}

// URLTaskPayload is the queue payload for a single-URL reprocess.
type URLTaskPayload struct {
	TaskID string `json:"task_id"`
	FileID int64  `json:"file_id"`
	URL    string `json:"url"`
}

// FileStore is the slice of the record store the processor mutates.
type FileStore interface {
	GetByID(ctx context.Context, id int64) (*store.FileRecord, error)
	Claim(ctx context.Context, id int64) error
	SetStatus(ctx context.Context, id int64, status string) error
	SetTotalLinks(ctx context.Context, id int64, total int) error
	SetProgress(ctx context.Context, id int64, processed, failed int) error
	Finalize(ctx context.Context, id int64, status string, processed, failed int) error
}

// LinkStore appends per-URL results; rows are never updated.
type LinkStore interface {
	Append(ctx context.Context, link *store.LinkResult) error
}

// Extractor fetches one page into a structured result, never erroring past
// its boundary.
type Extractor interface {
	Fetch(ctx context.Context, url string) *extract.Result
}

// SourceReader streams the ordered URL list for a file.
type SourceReader interface {
	Read(path string) ([]string, error)
}

// Notifier publishes the completion message, fire-and-forget.
type Notifier interface {
	PublishCompletion(ctx context.Context, fileID int64, email string, results interface{})
}

// Tracker records task state for pollers.
type Tracker interface {
	InitQueued(ctx context.Context, taskID string, fileID int64) error
	SetInProgress(ctx context.Context, taskID string) error
	SetProgress(ctx context.Context, taskID string, p task.Progress) error
	Complete(ctx context.Context, taskID string, result interface{}) error
	Fail(ctx context.Context, taskID string, errMsg string) error
}

// Enqueuer pushes tasks onto the queue.
type Enqueuer interface {
	Enqueue(t *asynq.Task, queue string, maxRetries int) error
}
