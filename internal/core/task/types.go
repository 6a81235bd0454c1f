package task

import "encoding/json"

// State tracks a processing task from intake to its terminal outcome.
type State string

const (
	StateQueued     State = "QUEUED"
	StateInProgress State = "IN_PROGRESS"
	StateCompleted  State = "COMPLETED"
	StateFailed     State = "FAILED"
)

// Progress is the in-memory checkpoint snapshot published during a run.
// Current is monotonically non-decreasing within one run.
type Progress struct {
	Current   int `json:"current"`
	Total     int `json:"total"`
	Progress  int `json:"progress"`
	Processed int `json:"processed"`
	Failed    int `json:"failed"`
}

// Snapshot is the task state stored in redis and served to pollers.
type Snapshot struct {
	TaskID   string          `json:"task_id"`
	FileID   int64           `json:"file_id"`
	State    State           `json:"state"`
	Progress *Progress       `json:"progress,omitempty"`
	Result   json.RawMessage `json:"result,omitempty"`
	Error    string          `json:"error,omitempty"`
}
