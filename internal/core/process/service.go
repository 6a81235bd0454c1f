package process

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"linkscraper/internal/core/extract"
	"linkscraper/internal/core/store"
	"linkscraper/internal/core/task"
	"linkscraper/internal/logger"
	tasks "linkscraper/internal/platform/tasks"
)

// Progress is checkpointed every N URLs and unconditionally on the last one.
const checkpointEvery = 10

// Service runs the batch pipeline: claim the file, stream its URLs, scrape
// each with per-URL failure isolation, checkpoint counters, finalize, and
// announce completion.
type Service struct {
	files      FileStore
	links      LinkStore
	extractor  Extractor
	reader     SourceReader
	notifier   Notifier
	tracker    Tracker
	queue      Enqueuer
	log        *logger.Logger
	maxRetries int
}

func NewService(files FileStore, links LinkStore, extractor Extractor, reader SourceReader, notifier Notifier, tracker Tracker, queue Enqueuer, maxRetries int) *Service {
	return &Service{
		files:      files,
		links:      links,
		extractor:  extractor,
		reader:     reader,
		notifier:   notifier,
		tracker:    tracker,
		queue:      queue,
		log:        logger.New("BatchProcessor"),
		maxRetries: maxRetries,
	}
}

// Enqueue registers a queued task for the file and pushes it onto the worker
// queue. The returned handle is what pollers use against /task-status.
func (s *Service) Enqueue(ctx context.Context, fileID int64, email string) (string, error) {
	taskID := uuid.New().String()

	payload, _ := json.Marshal(FileTaskPayload{TaskID: taskID, FileID: fileID, Email: email})
	if err := s.tracker.InitQueued(ctx, taskID, fileID); err != nil {
		return "", err
	}
	t := asynq.NewTask(tasks.TaskTypeProcessFile, payload)
	if err := s.queue.Enqueue(t, "default", s.maxRetries); err != nil {
		return "", err
	}
	s.log.LogInfof("enqueued task %s for file %d (notify %s)", taskID, fileID, email)
	return taskID, nil
}

// EnqueueURL queues a single-URL reprocess outside any batch run.
func (s *Service) EnqueueURL(ctx context.Context, fileID int64, url string) (string, error) {
	taskID := uuid.New().String()

	payload, _ := json.Marshal(URLTaskPayload{TaskID: taskID, FileID: fileID, URL: url})
	if err := s.tracker.InitQueued(ctx, taskID, fileID); err != nil {
		return "", err
	}
	t := asynq.NewTask(tasks.TaskTypeProcessURL, payload)
	if err := s.queue.Enqueue(t, "default", s.maxRetries); err != nil {
		return "", err
	}
	s.log.LogInfof("enqueued task %s to reprocess %s for file %d", taskID, url, fileID)
	return taskID, nil
}

// HandleFileTask is the asynq entry point for a batch run. It always returns
// nil: every failure mode ends up as data (an ERROR file status, a failed
// task snapshot, a failed summary), never as a retryable queue error.
func (s *Service) HandleFileTask(ctx context.Context, t *asynq.Task) error {
	var p FileTaskPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return err
	}
	s.log.LogInfof("starting batch run for file %d (task %s)", p.FileID, p.TaskID)
	summary := s.Run(ctx, p.FileID, p.Email, p.TaskID)
	if !summary.Success {
		s.log.LogErrorf("batch run for file %d failed: %s", p.FileID, summary.Error)
	}
	return nil
}

// HandleURLTask reprocesses one URL and records a single link result.
func (s *Service) HandleURLTask(ctx context.Context, t *asynq.Task) error {
	var p URLTaskPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return err
	}
	s.log.LogInfof("reprocessing %s for file %d (task %s)", p.URL, p.FileID, p.TaskID)
	_ = s.tracker.SetInProgress(ctx, p.TaskID)

	rec, err := s.processOne(ctx, p.FileID, p.URL)
	if err != nil {
		_ = s.tracker.Fail(ctx, p.TaskID, err.Error())
		return nil
	}
	_ = s.tracker.Complete(ctx, p.TaskID, URLSummary{
		Success:         true,
		URL:             p.URL,
		LinkID:          rec.ID,
		ScrapingSuccess: rec.Success,
	})
	return nil
}

// Run drives the state machine for one batch and returns its terminal
// summary. Failure isolation happens at three boundaries: date parsing
// (field-level), processOne (URL-level), and the deferred recover here
// (job-level last resort).
func (s *Service) Run(ctx context.Context, fileID int64, email, taskID string) (summary Summary) {
	defer func() {
		if r := recover(); r != nil {
			s.log.LogErrorf("panic while processing file %d: %v", fileID, r)
			summary = s.fatal(ctx, fileID, taskID, fmt.Sprintf("unexpected error: %v", r))
		}
	}()

	file, err := s.files.GetByID(ctx, fileID)
	if err != nil {
		// The record could not even be loaded; no status mutation is possible.
		return s.abort(ctx, taskID, fmt.Sprintf("file %d not found: %v", fileID, err))
	}

	// Atomic claim: the conditional update loses against a concurrent run of
	// the same file, so at most one run owns the record from here on.
	if err := s.files.Claim(ctx, fileID); err != nil {
		if errors.Is(err, store.ErrAlreadyProcessing) {
			return s.abort(ctx, taskID, fmt.Sprintf("file %d is already being processed", fileID))
		}
		return s.abort(ctx, taskID, fmt.Sprintf("failed to claim file %d: %v", fileID, err))
	}
	_ = s.tracker.SetInProgress(ctx, taskID)

	urls, err := s.reader.Read(file.FilePath)
	if err != nil {
		return s.fatal(ctx, fileID, taskID, err.Error())
	}
	if len(urls) == 0 {
		return s.fatal(ctx, fileID, taskID, "no valid URLs found in source file")
	}

	total := len(urls)
	if err := s.files.SetTotalLinks(ctx, fileID, total); err != nil {
		return s.fatal(ctx, fileID, taskID, err.Error())
	}

	processed := 0
	failed := 0
	for i, url := range urls {
		n := i + 1
		s.log.LogInfof("processing URL %d/%d: %s", n, total, url)

		rec, err := s.processOne(ctx, fileID, url)
		if err != nil {
			// Only the record store can fail here; that is a job-level outage.
			return s.fatal(ctx, fileID, taskID, err.Error())
		}
		if rec.Success {
			processed++
		} else {
			failed++
		}

		if n%checkpointEvery == 0 || n == total {
			if err := s.files.SetProgress(ctx, fileID, processed, failed); err != nil {
				return s.fatal(ctx, fileID, taskID, err.Error())
			}
			pct := int(math.Round(float64(n) / float64(total) * 100))
			_ = s.tracker.SetProgress(ctx, taskID, task.Progress{
				Current:   n,
				Total:     total,
				Progress:  pct,
				Processed: processed,
				Failed:    failed,
			})
		}
	}

	if err := s.files.Finalize(ctx, fileID, store.StatusProcessed, processed, failed); err != nil {
		return s.fatal(ctx, fileID, taskID, err.Error())
	}

	summary = Summary{
		Success:   true,
		FileID:    fileID,
		TotalURLs: total,
		Processed: processed,
		Failed:    failed,
		Status:    store.StatusProcessed,
	}

	// Best-effort: the file stays PROCESSED even if the notification is lost.
	s.notifier.PublishCompletion(ctx, fileID, email, summary)
	_ = s.tracker.Complete(ctx, taskID, summary)

	s.log.LogSuccessf("completed file %d: %d processed, %d failed of %d", fileID, processed, failed, total)
	return summary
}

// processOne scrapes one URL and appends exactly one link result, failure or
// not. The returned error is non-nil only when the append itself fails.
func (s *Service) processOne(ctx context.Context, fileID int64, url string) (*store.LinkResult, error) {
	res := s.safeFetch(ctx, url)
	rec := s.buildLinkResult(fileID, url, res)
	if err := s.links.Append(ctx, rec); err != nil {
		return nil, err
	}
	if !rec.Success && rec.ErrorDescription != nil {
		s.log.LogWarnf("failed to process %s: %s", url, *rec.ErrorDescription)
	}
	return rec, nil
}

// safeFetch converts a panicking extraction into a failed result so one bad
// URL cannot abort the batch.
func (s *Service) safeFetch(ctx context.Context, url string) (res *extract.Result) {
	defer func() {
		if r := recover(); r != nil {
			s.log.LogErrorf("unexpected error while scraping %s: %v", url, r)
			msg := fmt.Sprintf("processing error: %v", r)
			res = &extract.Result{URL: url, Error: &msg}
		}
	}()
	return s.extractor.Fetch(ctx, url)
}

func (s *Service) buildLinkResult(fileID int64, url string, res *extract.Result) *store.LinkResult {
	rec := &store.LinkResult{
		FileID:          fileID,
		URL:             url,
		Title:           res.Title,
		Content:         res.Content,
		MetaDescription: res.MetaDescription,
		PageExists:      res.PageExists,
		Success:         res.Success,
		ProcessedAt:     time.Now().UTC(),
	}

	if res.Date != nil {
		if ts, err := parsePostDate(*res.Date); err != nil {
			// A date-parse failure never fails the URL.
			s.log.LogWarnf("failed to parse date %q for %s: %v", *res.Date, url, err)
		} else {
			rec.PostDate = &ts
		}
	}

	if !rec.Success {
		msg := "unknown error"
		if res.Error != nil {
			msg = *res.Error
		}
		rec.ErrorDescription = &msg
	}
	return rec
}

// abort records a failure that happened before the file was claimed; the
// record's status is left untouched.
func (s *Service) abort(ctx context.Context, taskID, msg string) Summary {
	_ = s.tracker.Fail(ctx, taskID, msg)
	return Summary{Success: false, Error: msg}
}

// fatal marks the file ERROR best-effort (a secondary store failure is
// swallowed) and records the failed summary.
func (s *Service) fatal(ctx context.Context, fileID int64, taskID, msg string) Summary {
	if err := s.files.SetStatus(ctx, fileID, store.StatusError); err != nil {
		s.log.LogErrorf("failed to mark file %d as ERROR: %v", fileID, err)
	}
	return s.abort(ctx, taskID, msg)
}
