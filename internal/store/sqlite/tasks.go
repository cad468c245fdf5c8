package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/colonyops/matrix/internal/core/task"
)

// TaskStore implements task.Backend using SQLite. Collection order is kept
// in the position column.
type TaskStore struct {
	db *DB
}

var _ task.Backend = (*TaskStore)(nil)

// NewTaskStore creates a new SQLite-backed task store.
func NewTaskStore(db *DB) *TaskStore {
	return &TaskStore{db: db}
}

// Load returns every task ordered by position. A key that was never saved
// reports task.ErrNoData; a saved empty collection loads as an empty slice.
func (s *TaskStore) Load(ctx context.Context) ([]task.Task, error) {
	var version int
	err := s.db.conn.QueryRowContext(ctx,
		"SELECT version FROM collections WHERE key = ?", s.db.table,
	).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, task.ErrNoData
	}
	if err != nil {
		return nil, fmt.Errorf("read collection: %w", err)
	}
	if version != task.CurrentVersion {
		return nil, fmt.Errorf("%w: collection has version %d, want %d", task.ErrVersionMismatch, version, task.CurrentVersion)
	}

	rows, err := s.db.conn.QueryContext(ctx, fmt.Sprintf(`
		SELECT id, title, description, tags, due_date, due_time, completed,
		       quadrant, previous_quadrant_id, created_at, updated_at
		FROM %s
		ORDER BY position`, s.db.table))
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	tasks := []task.Task{}
	for rows.Next() {
		var r taskRow
		err := rows.Scan(
			&r.ID, &r.Title, &r.Description, &r.Tags, &r.DueDate, &r.DueTime,
			&r.Completed, &r.Quadrant, &r.PreviousQuadrant, &r.CreatedAt, &r.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}

		t, err := r.toTask()
		if err != nil {
			return nil, fmt.Errorf("%w: task %s: %w", task.ErrMalformed, r.ID, err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	return tasks, nil
}

// Save replaces the stored collection in a single transaction.
func (s *TaskStore) Save(ctx context.Context, tasks []task.Task) error {
	return s.db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+s.db.table); err != nil {
			return fmt.Errorf("clear tasks: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(`
			INSERT INTO %s (
				id, position, title, description, tags, due_date, due_time,
				completed, quadrant, previous_quadrant_id, created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, s.db.table))
		if err != nil {
			return fmt.Errorf("prepare insert: %w", err)
		}
		defer func() { _ = stmt.Close() }()

		for i, t := range tasks {
			r, err := fromTask(t)
			if err != nil {
				return fmt.Errorf("encode task %s: %w", t.ID, err)
			}

			_, err = stmt.ExecContext(ctx,
				r.ID, i, r.Title, r.Description, r.Tags, r.DueDate, r.DueTime,
				r.Completed, r.Quadrant, r.PreviousQuadrant, r.CreatedAt, r.UpdatedAt,
			)
			if err != nil {
				return fmt.Errorf("insert task %s: %w", t.ID, err)
			}
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO collections (key, version, saved_at) VALUES (?, ?, ?)
			ON CONFLICT(key) DO UPDATE SET version = excluded.version, saved_at = excluded.saved_at`,
			s.db.table, task.CurrentVersion, time.Now().UnixNano(),
		)
		if err != nil {
			return fmt.Errorf("record collection: %w", err)
		}

		return nil
	})
}

// Exists reports whether a collection was ever saved under the store's key.
func (s *TaskStore) Exists(ctx context.Context) (bool, error) {
	var n int
	err := s.db.conn.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM collections WHERE key = ?", s.db.table,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check collection: %w", err)
	}
	return n > 0, nil
}

// Count returns the number of stored tasks.
func (s *TaskStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+s.db.table).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}
	return n, nil
}

type taskRow struct {
	ID               string
	Title            string
	Description      string
	Tags             string
	DueDate          sql.NullString
	DueTime          sql.NullString
	Completed        bool
	Quadrant         string
	PreviousQuadrant sql.NullString
	CreatedAt        int64
	UpdatedAt        int64
}

func fromTask(t task.Task) (taskRow, error) {
	tags := t.Tags
	if tags == nil {
		tags = []string{}
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return taskRow{}, err
	}

	return taskRow{
		ID:               t.ID,
		Title:            t.Title,
		Description:      t.Description,
		Tags:             string(data),
		DueDate:          toNullString(t.DueDate.String()),
		DueTime:          toNullString(t.DueTime.String()),
		Completed:        t.Completed,
		Quadrant:         string(t.Quadrant),
		PreviousQuadrant: toNullString(string(t.PreviousQuadrant)),
		CreatedAt:        toNanos(t.CreatedAt),
		UpdatedAt:        toNanos(t.UpdatedAt),
	}, nil
}

func (r taskRow) toTask() (task.Task, error) {
	var tags []string
	if err := json.Unmarshal([]byte(r.Tags), &tags); err != nil {
		return task.Task{}, fmt.Errorf("decode tags: %w", err)
	}

	due, err := task.ParseDate(r.DueDate.String)
	if err != nil {
		return task.Task{}, err
	}

	at, err := task.ParseTimeOfDay(r.DueTime.String)
	if err != nil {
		return task.Task{}, err
	}

	return task.Task{
		ID:               r.ID,
		Title:            r.Title,
		Description:      r.Description,
		Tags:             tags,
		DueDate:          due,
		DueTime:          at,
		Completed:        r.Completed,
		Quadrant:         task.Quadrant(r.Quadrant),
		PreviousQuadrant: task.Quadrant(r.PreviousQuadrant.String),
		CreatedAt:        fromNanos(r.CreatedAt),
		UpdatedAt:        fromNanos(r.UpdatedAt),
	}, nil
}

func toNullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// toNanos stores the zero time as 0; UnixNano is undefined for it.
func toNanos(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func fromNanos(n int64) time.Time {
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n)
}
