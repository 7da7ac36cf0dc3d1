package board

import (
	"context"
	"log/slog"
	"sync"

	"collabry/internal/models"
	"collabry/internal/notify"
)

// Store is the durable task store the board reconciles against.
type Store interface {
	// UpdateTaskStatus persists a status change on behalf of the actor and
	// returns the updated task.
	UpdateTaskStatus(ctx context.Context, actorID, taskID string, status models.Status) (models.Task, error)
	// GetProjectWithTasks returns the authoritative project view the actor is
	// allowed to see.
	GetProjectWithTasks(ctx context.Context, actorID, projectID string) (models.ProjectDetail, error)
}

// Syncer owns the board view state for one project and one viewer. Drops are
// applied optimistically, persisted asynchronously, and reconciled against the
// store: a confirmed change triggers a full refetch, a rejected one rolls the
// view back to the last authoritative snapshot.
type Syncer struct {
	store    Store
	notifier notify.Notifier
	logger   *slog.Logger

	actorID   string
	projectID string

	mu            sync.Mutex
	authoritative []models.Task
	columns       Columns
	inflight      map[string]models.Status
	wg            sync.WaitGroup
}

// NewSyncer builds a syncer for the given viewer and project. Call Load before
// handling drops.
func NewSyncer(store Store, notifier notify.Notifier, logger *slog.Logger, actorID, projectID string) *Syncer {
	if logger == nil {
		logger = slog.Default()
	}
	if notifier == nil {
		notifier = notify.Log{Logger: logger}
	}
	return &Syncer{
		store:     store,
		notifier:  notifier,
		logger:    logger,
		actorID:   actorID,
		projectID: projectID,
		columns:   NewColumns(),
		inflight:  make(map[string]models.Status),
	}
}

// Load fetches the authoritative task collection and computes the partition.
func (s *Syncer) Load(ctx context.Context) error {
	detail, err := s.store.GetProjectWithTasks(ctx, s.actorID, s.projectID)
	if err != nil {
		return err
	}
	s.SetTasks(detail.Tasks)
	return nil
}

// SetTasks replaces the authoritative snapshot and recomputes the partition in
// full, discarding any optimistic state.
func (s *Syncer) SetTasks(tasks []models.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authoritative = append([]models.Task(nil), tasks...)
	s.columns = Partition(s.authoritative)
}

// Columns returns a snapshot of the current view state.
func (s *Syncer) Columns() Columns {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.columns.Clone()
}

// DropDisabled reports whether the column is currently refusing drops because
// a status change targeting it is still in flight.
func (s *Syncer) DropDisabled(status models.Status) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.columnBusy(status)
}

func (s *Syncer) columnBusy(status models.Status) bool {
	for _, dst := range s.inflight {
		if dst == status {
			return true
		}
	}
	return false
}

// OnDragEnd handles a finished drag gesture: it validates the drop, commits
// the optimistic move, and issues the durable update in the background. The
// call returns as soon as the view state is updated.
func (s *Syncer) OnDragEnd(ctx context.Context, drop DropResult) {
	s.mu.Lock()

	if drop.Destination != nil {
		if _, busy := s.inflight[drop.DraggableID]; busy {
			s.mu.Unlock()
			return
		}
		if s.columnBusy(models.Status(drop.Destination.DroppableID)) {
			s.mu.Unlock()
			return
		}
	}

	next, change, err := Apply(s.columns, drop)
	if err != nil {
		s.mu.Unlock()
		s.logger.Error("invalid drop target",
			slog.String("task", drop.DraggableID),
			slog.String("source", drop.Source.DroppableID),
			slog.String("error", err.Error()))
		return
	}
	if change == nil {
		s.mu.Unlock()
		return
	}

	s.columns = next
	s.inflight[change.TaskID] = change.Status
	s.wg.Add(1)
	s.mu.Unlock()

	go s.persist(ctx, *change)
}

func (s *Syncer) persist(ctx context.Context, change StatusChange) {
	defer s.wg.Done()

	updated, err := s.store.UpdateTaskStatus(ctx, s.actorID, change.TaskID, change.Status)
	if err != nil {
		s.rollback(change, err)
		return
	}
	s.reconcile(ctx, change, updated)
}

// reconcile replaces the optimistic view with state derived from the store.
// The confirmed task is folded into the snapshot first so a failed refetch
// still leaves the board consistent with what was persisted.
func (s *Syncer) reconcile(ctx context.Context, change StatusChange, updated models.Task) {
	s.mu.Lock()
	for i := range s.authoritative {
		if s.authoritative[i].ID == updated.ID {
			s.authoritative[i] = updated
			break
		}
	}
	delete(s.inflight, change.TaskID)
	s.mu.Unlock()

	s.notifier.Success("Task status updated")

	detail, err := s.store.GetProjectWithTasks(ctx, s.actorID, s.projectID)
	if err != nil {
		s.logger.Error("refetch after status update failed",
			slog.String("project", s.projectID),
			slog.String("error", err.Error()))
		s.mu.Lock()
		s.columns = Partition(s.authoritative)
		s.mu.Unlock()
		return
	}
	s.SetTasks(detail.Tasks)
}

// rollback undoes the optimistic splice by recomputing the partition from the
// last authoritative snapshot. The failure is terminal; no retry is issued.
func (s *Syncer) rollback(change StatusChange, cause error) {
	s.mu.Lock()
	delete(s.inflight, change.TaskID)
	s.columns = Partition(s.authoritative)
	s.mu.Unlock()

	s.logger.Warn("task status update rejected",
		slog.String("task", change.TaskID),
		slog.String("status", string(change.Status)),
		slog.String("error", cause.Error()))
	s.notifier.Failure("Failed to update task status")
}

// Wait blocks until every outstanding durable update has settled.
func (s *Syncer) Wait() {
	s.wg.Wait()
}
