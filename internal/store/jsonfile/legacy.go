package jsonfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/colonyops/matrix/internal/core/task"
)

// stamp decodes a record timestamp written either as epoch milliseconds
// (the unversioned layout) or as an RFC 3339 string.
type stamp time.Time

func (s *stamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = stamp{}
		return nil
	}

	if data[0] == '"' {
		var t time.Time
		if err := t.UnmarshalJSON(data); err != nil {
			return err
		}
		*s = stamp(t)
		return nil
	}

	ms, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("timestamp %s: not epoch milliseconds", data)
	}
	if ms == 0 {
		*s = stamp{}
		return nil
	}
	*s = stamp(time.UnixMilli(ms).UTC())
	return nil
}

// legacyTask is one record of a bare JSON array. Timestamps shadow the
// embedded fields so either encoding is accepted.
type legacyTask struct {
	task.Task
	CreatedAt stamp `json:"createdAt"`
	UpdatedAt stamp `json:"updatedAt"`
}

func decodeLegacy(data []byte) ([]task.Task, error) {
	var records []legacyTask
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}

	tasks := make([]task.Task, len(records))
	for i, r := range records {
		t := r.Task
		t.CreatedAt = time.Time(r.CreatedAt)
		t.UpdatedAt = time.Time(r.UpdatedAt)
		tasks[i] = t
	}
	return tasks, nil
}
