package board

import (
	"errors"

	"collabry/internal/models"
)

// DropPoint locates a position inside a board column. DroppableID is the
// column id supplied by the drag-and-drop layer, expected to spell a status.
type DropPoint struct {
	DroppableID string `json:"droppable_id"`
	Index       int    `json:"index"`
}

// DropResult is the gesture shape delivered by the drag-and-drop layer when a
// drag finishes. Destination is nil when the card was released outside any
// column.
type DropResult struct {
	DraggableID string     `json:"draggable_id"`
	Source      DropPoint  `json:"source"`
	Destination *DropPoint `json:"destination,omitempty"`
}

// StatusChange is the durable update a completed drag asks for.
type StatusChange struct {
	TaskID string        `json:"task_id"`
	Status models.Status `json:"status"`
}

// ErrUnknownColumn signals a droppable id outside the status domain. This is
// a client bug, not a user-facing condition.
var ErrUnknownColumn = errors.New("unknown board column")

// Apply is the pure transition for a finished drag. It returns the columns
// after the optimistic move together with the status change to persist, or
// (cols, nil, nil) when the gesture is a no-op. The input columns are never
// mutated.
func Apply(cols Columns, drop DropResult) (Columns, *StatusChange, error) {
	if drop.Destination == nil {
		return cols, nil, nil
	}
	dst := *drop.Destination
	if dst.DroppableID == drop.Source.DroppableID && dst.Index == drop.Source.Index {
		return cols, nil, nil
	}

	srcStatus := models.Status(drop.Source.DroppableID)
	dstStatus := models.Status(dst.DroppableID)
	if !srcStatus.Valid() || !dstStatus.Valid() {
		return cols, nil, ErrUnknownColumn
	}

	moved, ok := findTask(cols[srcStatus], drop.DraggableID)
	if !ok {
		return cols, nil, nil
	}

	next := cols.Clone()
	next[srcStatus] = removeTask(next[srcStatus], drop.DraggableID)

	moved.Status = dstStatus
	next[dstStatus] = spliceTask(next[dstStatus], moved, dst.Index)

	return next, &StatusChange{TaskID: moved.ID, Status: dstStatus}, nil
}

func findTask(tasks []models.Task, id string) (models.Task, bool) {
	for _, t := range tasks {
		if t.ID == id {
			return t, true
		}
	}
	return models.Task{}, false
}

func removeTask(tasks []models.Task, id string) []models.Task {
	out := tasks[:0]
	for _, t := range tasks {
		if t.ID != id {
			out = append(out, t)
		}
	}
	return out
}

// spliceTask inserts the task at index, shifting later entries right. Indexes
// past the end append, matching the drop library's splice semantics.
func spliceTask(tasks []models.Task, task models.Task, index int) []models.Task {
	if index < 0 {
		index = 0
	}
	if index > len(tasks) {
		index = len(tasks)
	}
	tasks = append(tasks, models.Task{})
	copy(tasks[index+1:], tasks[index:])
	tasks[index] = task
	return tasks
}
