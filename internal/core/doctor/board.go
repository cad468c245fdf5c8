package doctor

import (
	"context"
	"fmt"

	"github.com/colonyops/matrix/internal/core/task"
)

// Patcher applies a patch to a live task. *board.Store satisfies it.
type Patcher interface {
	Patch(id string, p task.Patch) (task.Task, bool)
}

// BoardCheck inspects the stored tasks for entries the store repairs or
// drops when it loads them, and for due times that have no due date.
// Dangling due times are fixable: with autofix they are cleared through
// the patcher.
type BoardCheck struct {
	backend task.Backend
	patcher Patcher
	autofix bool
}

// NewBoardCheck creates a board check.
func NewBoardCheck(backend task.Backend, patcher Patcher, autofix bool) *BoardCheck {
	return &BoardCheck{backend: backend, patcher: patcher, autofix: autofix}
}

func (c *BoardCheck) Name() string {
	return "Board"
}

func (c *BoardCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	tasks, err := c.backend.Load(ctx)
	if err != nil {
		// StorageCheck reports load failures.
		return result
	}

	seen := make(map[string]bool, len(tasks))
	issues := 0

	for i, t := range tasks {
		switch {
		case t.ID == "":
			result.Items = append(result.Items, CheckItem{
				Label:  fmt.Sprintf("task #%d", i),
				Status: StatusWarn,
				Detail: "has no id and is dropped on load",
			})
			issues++
			continue
		case seen[t.ID]:
			result.Items = append(result.Items, CheckItem{
				Label:  t.ID,
				Status: StatusWarn,
				Detail: "duplicate id; only the first entry is kept",
			})
			issues++
			continue
		}
		seen[t.ID] = true

		if err := task.CheckInvariants(t); err != nil {
			result.Items = append(result.Items, CheckItem{
				Label:  t.ID,
				Status: StatusWarn,
				Detail: fmt.Sprintf("%v; repaired on load", err),
			})
			issues++
		}

		if t.DueDate.IsZero() && !t.DueTime.IsZero() {
			result.Items = append(result.Items, c.danglingTime(t))
			issues++
		}
	}

	if issues == 0 {
		result.Items = append(result.Items, CheckItem{
			Label:  "tasks",
			Status: StatusPass,
			Detail: fmt.Sprintf("%d task(s) consistent", len(tasks)),
		})
	}

	return result
}

func (c *BoardCheck) danglingTime(t task.Task) CheckItem {
	item := CheckItem{
		Label:   t.ID,
		Status:  StatusWarn,
		Detail:  fmt.Sprintf("due time %s without a due date is never shown", t.DueTime),
		Fixable: true,
	}

	if !c.autofix || c.patcher == nil {
		return item
	}

	if _, ok := c.patcher.Patch(t.ID, task.Patch{ClearDueTime: true}); !ok {
		item.Detail += " (fix failed: task not found)"
		return item
	}

	item.Status = StatusPass
	item.Detail = "cleared due time without a due date"
	return item
}
