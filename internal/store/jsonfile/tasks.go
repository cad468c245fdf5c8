// Package jsonfile persists the task collection as a single versioned JSON
// document on disk.
package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/colonyops/matrix/internal/core/task"
)

// TaskFile is the root JSON structure stored on disk.
type TaskFile struct {
	Version int         `json:"version"`
	Tasks   []task.Task `json:"tasks"`
}

// TaskStore implements task.Backend using a JSON file named after the
// storage key (for example tasks_v1.json).
type TaskStore struct {
	path string
	mu   sync.Mutex
}

var _ task.Backend = (*TaskStore)(nil)

// NewTaskStore creates a JSON file backend for key inside dir.
func NewTaskStore(dir, key string) *TaskStore {
	return &TaskStore{path: filepath.Join(dir, key+".json")}
}

// Path returns the file the store reads and writes.
func (s *TaskStore) Path() string {
	return s.path
}

// Load reads the collection from disk.
// Bare JSON arrays are accepted as the unversioned layout of version 1.
func (s *TaskStore) Load(ctx context.Context) ([]task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, task.ErrNoData
		}
		return nil, fmt.Errorf("read tasks file: %w", err)
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, task.ErrNoData
	}

	if data[0] == '[' {
		tasks, err := decodeLegacy(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", task.ErrMalformed, err)
		}
		return tasks, nil
	}

	var file TaskFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %w", task.ErrMalformed, err)
	}
	if file.Version != task.CurrentVersion {
		return nil, fmt.Errorf("%w: file has version %d, want %d", task.ErrVersionMismatch, file.Version, task.CurrentVersion)
	}
	if file.Tasks == nil {
		return nil, fmt.Errorf("%w: missing tasks array", task.ErrMalformed)
	}

	return file.Tasks, nil
}

// Save writes the collection atomically (temp file + rename).
func (s *TaskStore) Save(ctx context.Context, tasks []task.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if tasks == nil {
		tasks = []task.Task{}
	}

	data, err := json.MarshalIndent(TaskFile{Version: task.CurrentVersion, Tasks: tasks}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode tasks: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write tasks file: %w", err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace tasks file: %w", err)
	}
	return nil
}
