package board_test

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"collabry/internal/board"
	"collabry/internal/models"
	"collabry/internal/notify"
	"collabry/internal/storage/sqlite"
)

// The sqlite store is the durable task store behind the board.
var _ board.Store = (*sqlite.Store)(nil)

func TestSyncerAgainstSQLiteStore(t *testing.T) {
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "board.db"), slog.Default())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	creator, err := store.CreateUser(ctx, "creator", "creator@example.com", "")
	require.NoError(t, err)
	outsider, err := store.CreateUser(ctx, "outsider", "outsider@example.com", "")
	require.NoError(t, err)

	project, err := store.CreateProject(ctx, creator.ID, "Board", "", "")
	require.NoError(t, err)
	a, err := store.CreateTask(ctx, creator.ID, project.ID, sqlite.TaskInput{Title: "A"})
	require.NoError(t, err)
	_, err = store.CreateTask(ctx, creator.ID, project.ID, sqlite.TaskInput{Title: "B"})
	require.NoError(t, err)

	rec := &notify.Recorder{}
	s := board.NewSyncer(store, rec, slog.Default(), creator.ID, project.ID)
	require.NoError(t, s.Load(ctx))

	dst := board.DropPoint{DroppableID: string(models.StatusReview), Index: 0}
	s.OnDragEnd(ctx, board.DropResult{
		DraggableID: a.ID,
		Source:      board.DropPoint{DroppableID: string(models.StatusTodo), Index: 0},
		Destination: &dst,
	})
	s.Wait()

	moved, err := store.GetTask(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusReview, moved.Status)
	assert.Equal(t, []string{"Task status updated"}, rec.Successes())

	cols := s.Columns()
	require.Len(t, cols[models.StatusReview], 1)
	assert.Equal(t, a.ID, cols[models.StatusReview][0].ID)

	// An actor without permission gets the optimistic move rolled back.
	outRec := &notify.Recorder{}
	outSyncer := board.NewSyncer(store, outRec, slog.Default(), outsider.ID, project.ID)
	outSyncer.SetTasks(cols.Tasks())

	back := board.DropPoint{DroppableID: string(models.StatusTodo), Index: 0}
	outSyncer.OnDragEnd(ctx, board.DropResult{
		DraggableID: a.ID,
		Source:      board.DropPoint{DroppableID: string(models.StatusReview), Index: 0},
		Destination: &back,
	})
	outSyncer.Wait()

	assert.Equal(t, []string{"Failed to update task status"}, outRec.Failures())
	stillMoved, err := store.GetTask(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusReview, stillMoved.Status)
	require.Len(t, outSyncer.Columns()[models.StatusReview], 1)
}
