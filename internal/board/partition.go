package board

import "collabry/internal/models"

// Columns maps each board status to the ordered tasks shown in that column.
type Columns map[models.Status][]models.Task

// NewColumns returns an empty column set with every status present.
func NewColumns() Columns {
	cols := make(Columns, len(models.Statuses))
	for _, s := range models.Statuses {
		cols[s] = nil
	}
	return cols
}

// Partition groups tasks into columns keyed by status, preserving the relative
// order of the input. Tasks carrying a status outside the board domain are
// skipped. Partitioning is idempotent: feeding the concatenated columns back
// in yields the same result.
func Partition(tasks []models.Task) Columns {
	cols := NewColumns()
	for _, t := range tasks {
		if !t.Status.Valid() {
			continue
		}
		cols[t.Status] = append(cols[t.Status], t)
	}
	return cols
}

// Clone returns a copy with freshly allocated column slices so the caller can
// splice without touching the original.
func (c Columns) Clone() Columns {
	out := make(Columns, len(c))
	for status, tasks := range c {
		if len(tasks) == 0 {
			out[status] = nil
			continue
		}
		dup := make([]models.Task, len(tasks))
		copy(dup, tasks)
		out[status] = dup
	}
	return out
}

// Tasks flattens the columns back into a single slice in display order.
func (c Columns) Tasks() []models.Task {
	var out []models.Task
	for _, s := range models.Statuses {
		out = append(out, c[s]...)
	}
	return out
}
