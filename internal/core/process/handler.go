package process

import (
	"context"
	"encoding/json"
	"errors"
	"os"

	"github.com/gofiber/fiber/v2"

	"linkscraper/internal/core/store"
	"linkscraper/internal/core/task"
)

// TaskReader serves task snapshots to pollers.
type TaskReader interface {
	Get(ctx context.Context, taskID string) (*task.Snapshot, error)
}

type Handler struct {
	files    FileStore
	svc      *Service
	statuses TaskReader
}

func NewHandler(files FileStore, svc *Service, statuses TaskReader) *Handler {
	return &Handler{files: files, svc: svc, statuses: statuses}
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type ProcessRequest struct {
	FileID int64  `json:"file_id"`
	Email  string `json:"email"`
}

type ProcessResponse struct {
	Message  string `json:"message"`
	FileID   int64  `json:"file_id"`
	TaskID   string `json:"task_id"`
	Status   string `json:"status"`
	FileName string `json:"file_name"`
	FilePath string `json:"file_path"`
}

type ProcessURLRequest struct {
	FileID int64  `json:"file_id"`
	URL    string `json:"url"`
}

type StatusResponse struct {
	TaskID    string          `json:"task_id"`
	State     string          `json:"state"`
	Current   *int            `json:"current,omitempty"`
	Total     *int            `json:"total,omitempty"`
	Progress  *int            `json:"progress,omitempty"`
	Processed *int            `json:"processed,omitempty"`
	Failed    *int            `json:"failed,omitempty"`
	Result    json.RawMessage `json:"result,omitempty"`
	Error     string          `json:"error,omitempty"`
}

// HandleProcess starts a batch run for an uploaded file.
func (h *Handler) HandleProcess(c *fiber.Ctx) error {
	var req ProcessRequest
	if err := c.BodyParser(&req); err != nil || req.FileID == 0 || req.Email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid body: file_id and email are required"})
	}

	file, err := h.files.GetByID(c.Context(), req.FileID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "file not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: err.Error()})
	}

	// Friendly pre-check; the store-level claim is what actually guarantees
	// exclusivity.
	if file.Status == store.StatusProcessing {
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{Error: "file is already being processed"})
	}

	if _, err := os.Stat(file.FilePath); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "source file does not exist at " + file.FilePath})
	}

	taskID, err := h.svc.Enqueue(c.Context(), req.FileID, req.Email)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: err.Error()})
	}

	return c.JSON(ProcessResponse{
		Message:  "processing started",
		FileID:   req.FileID,
		TaskID:   taskID,
		Status:   "QUEUED",
		FileName: file.FileName,
		FilePath: file.FilePath,
	})
}

// HandleProcessURL queues a single-URL reprocess for a file.
func (h *Handler) HandleProcessURL(c *fiber.Ctx) error {
	var req ProcessURLRequest
	if err := c.BodyParser(&req); err != nil || req.FileID == 0 || req.URL == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid body: file_id and url are required"})
	}

	if _, err := h.files.GetByID(c.Context(), req.FileID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "file not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: err.Error()})
	}

	taskID, err := h.svc.EnqueueURL(c.Context(), req.FileID, req.URL)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: err.Error()})
	}

	return c.JSON(fiber.Map{
		"message": "reprocessing started",
		"file_id": req.FileID,
		"url":     req.URL,
		"task_id": taskID,
		"status":  "QUEUED",
	})
}

// HandleTaskStatus reports the last published snapshot for a task handle.
// It never blocks on the running job.
func (h *Handler) HandleTaskStatus(c *fiber.Ctx) error {
	id := c.Params("taskId")
	snap, err := h.statuses.Get(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "task not found"})
	}

	resp := StatusResponse{TaskID: snap.TaskID, State: string(snap.State)}
	switch snap.State {
	case task.StateInProgress:
		if snap.Progress != nil {
			p := *snap.Progress
			resp.Current = &p.Current
			resp.Total = &p.Total
			resp.Progress = &p.Progress
			resp.Processed = &p.Processed
			resp.Failed = &p.Failed
		}
	case task.StateCompleted:
		resp.Result = snap.Result
	case task.StateFailed:
		resp.Error = snap.Error
	}
	return c.JSON(resp)
}
