package board_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"collabry/internal/board"
	"collabry/internal/models"
)

func task(id string, status models.Status) models.Task {
	return models.Task{ID: id, Title: id, Status: status, Priority: models.PriorityMedium}
}

func ids(tasks []models.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func TestPartitionPlacesEveryTaskInItsStatusColumn(t *testing.T) {
	tasks := []models.Task{
		task("a", models.StatusTodo),
		task("b", models.StatusDone),
		task("c", models.StatusInProgress),
		task("d", models.StatusTodo),
		task("e", models.StatusReview),
	}

	cols := board.Partition(tasks)

	for _, in := range tasks {
		for status, col := range cols {
			found := false
			for _, got := range col {
				if got.ID == in.ID {
					found = true
				}
			}
			if status == in.Status {
				assert.True(t, found, "task %s missing from its column %s", in.ID, status)
			} else {
				assert.False(t, found, "task %s leaked into column %s", in.ID, status)
			}
		}
	}
}

func TestPartitionPreservesRelativeOrder(t *testing.T) {
	tasks := []models.Task{
		task("a", models.StatusTodo),
		task("b", models.StatusInProgress),
		task("c", models.StatusTodo),
		task("d", models.StatusTodo),
	}

	cols := board.Partition(tasks)

	assert.Equal(t, []string{"a", "c", "d"}, ids(cols[models.StatusTodo]))
	assert.Equal(t, []string{"b"}, ids(cols[models.StatusInProgress]))
}

func TestPartitionIsIdempotent(t *testing.T) {
	tasks := []models.Task{
		task("a", models.StatusTodo),
		task("b", models.StatusReview),
		task("c", models.StatusDone),
		task("d", models.StatusTodo),
	}

	once := board.Partition(tasks)
	again := board.Partition(once.Tasks())

	require.Equal(t, once, again)
}

func TestPartitionSkipsUnknownStatus(t *testing.T) {
	tasks := []models.Task{
		task("a", models.StatusTodo),
		task("b", models.Status("ARCHIVED")),
	}

	cols := board.Partition(tasks)

	assert.Len(t, cols.Tasks(), 1)
	assert.Equal(t, []string{"a"}, ids(cols[models.StatusTodo]))
}

func TestPartitionAlwaysHasFourColumns(t *testing.T) {
	cols := board.Partition(nil)

	require.Len(t, cols, 4)
	for _, s := range models.Statuses {
		_, ok := cols[s]
		assert.True(t, ok, "column %s missing", s)
	}
}
