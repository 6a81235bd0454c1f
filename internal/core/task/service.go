package task

import (
	"context"
	"encoding/json"
	"fmt"

	rds "linkscraper/internal/platform/redis"
)

// Service keeps per-task snapshots in redis. The batch processor writes at
// each checkpoint; pollers read without ever touching the running job.
type Service struct{ redis *rds.Service }

func NewService(redis *rds.Service) *Service { return &Service{redis: redis} }

func (s *Service) Get(ctx context.Context, taskID string) (*Snapshot, error) {
	var snap Snapshot
	if err := s.redis.CacheGet(ctx, key(taskID), &snap); err != nil {
		return nil, fmt.Errorf("task not found: %s", taskID)
	}
	return &snap, nil
}

func (s *Service) InitQueued(ctx context.Context, taskID string, fileID int64) error {
	return s.store(ctx, Snapshot{TaskID: taskID, FileID: fileID, State: StateQueued})
}

func (s *Service) SetInProgress(ctx context.Context, taskID string) error {
	snap := s.current(ctx, taskID)
	snap.State = StateInProgress
	return s.store(ctx, snap)
}

func (s *Service) SetProgress(ctx context.Context, taskID string, p Progress) error {
	snap := s.current(ctx, taskID)
	snap.State = StateInProgress
	snap.Progress = &p
	return s.store(ctx, snap)
}

// Complete stores the terminal result. The result is marshaled as-is into the
// snapshot so pollers receive it verbatim.
func (s *Service) Complete(ctx context.Context, taskID string, result interface{}) error {
	snap := s.current(ctx, taskID)
	snap.State = StateCompleted
	if result != nil {
		b, err := json.Marshal(result)
		if err != nil {
			return fmt.Errorf("failed to marshal task result: %w", err)
		}
		snap.Result = b
	}
	return s.store(ctx, snap)
}

func (s *Service) Fail(ctx context.Context, taskID string, errMsg string) error {
	snap := s.current(ctx, taskID)
	snap.State = StateFailed
	snap.Error = errMsg
	return s.store(ctx, snap)
}

func (s *Service) current(ctx context.Context, taskID string) Snapshot {
	var snap Snapshot
	_ = s.redis.CacheGet(ctx, key(taskID), &snap)
	snap.TaskID = taskID
	return snap
}

func (s *Service) store(ctx context.Context, snap Snapshot) error {
	if err := s.redis.CacheSet(ctx, key(snap.TaskID), snap, ttl(snap.State)); err != nil {
		return err
	}
	// Notify listeners polling over pub/sub that the snapshot changed.
	_ = s.redis.Publish(ctx, key(snap.TaskID), []byte("updated"))
	return nil
}

func key(id string) string { return "task:" + id }

func ttl(st State) int {
	if st == StateCompleted || st == StateFailed {
		return 3600
	}
	return 600
}
