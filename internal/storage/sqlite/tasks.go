package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"collabry/internal/models"
)

const (
	maxTitleLen       = 100
	maxDescriptionLen = 500
)

// TaskInput carries the fields accepted when creating a task.
type TaskInput struct {
	Title       string
	Description string
	Priority    models.Priority
	AssigneeID  string
	DueDate     *time.Time
}

// TaskUpdate carries the optional fields of an edit. Nil fields are left
// untouched.
type TaskUpdate struct {
	Title       *string
	Description *string
	Priority    *models.Priority
	AssigneeID  *string
	DueDate     *time.Time
	Status      *models.Status
}

// CreateTask inserts a new task into a project. The actor must be the project
// creator or a member; the assignee, when set, must be one as well. New tasks
// start in TODO.
func (s *Store) CreateTask(ctx context.Context, actorID, projectID string, in TaskInput) (models.Task, error) {
	project, err := s.GetProject(ctx, actorID, projectID)
	if err != nil {
		return models.Task{}, err
	}
	if member, err := s.isMember(ctx, projectID, actorID); err != nil {
		return models.Task{}, err
	} else if !member && project.CreatorID != actorID {
		return models.Task{}, fmt.Errorf("%w: you are not a member of this project", ErrForbidden)
	}

	title := strings.TrimSpace(in.Title)
	switch {
	case title == "":
		return models.Task{}, fmt.Errorf("%w: title is required", ErrValidation)
	case len(title) > maxTitleLen:
		return models.Task{}, fmt.Errorf("%w: title must be at most %d characters", ErrValidation, maxTitleLen)
	case len(in.Description) > maxDescriptionLen:
		return models.Task{}, fmt.Errorf("%w: description must be at most %d characters", ErrValidation, maxDescriptionLen)
	}

	priority := in.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !priority.Valid() {
		return models.Task{}, fmt.Errorf("%w: unknown priority %q", ErrValidation, priority)
	}

	if in.DueDate != nil && !in.DueDate.After(time.Now()) {
		return models.Task{}, fmt.Errorf("%w: due date must be in the future", ErrValidation)
	}

	if in.AssigneeID != "" {
		if err := s.checkAssignee(ctx, projectID, project.CreatorID, in.AssigneeID); err != nil {
			return models.Task{}, err
		}
	}

	// Explicit timestamps keep creation order stable within one second, which
	// the board relies on for column ordering.
	now := time.Now().UTC()
	id := uuid.NewString()
	_, err = s.db.ExecContext(ctx, `INSERT INTO tasks(id, project_id, title, description, status, priority, assignee_id, creator_id, due_date, created_at, updated_at)
        VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, projectID, title, strings.TrimSpace(in.Description), models.StatusTodo, priority,
		nullString(in.AssigneeID), actorID, nullTime(in.DueDate), now, now)
	if err != nil {
		return models.Task{}, fmt.Errorf("insert task: %w", err)
	}
	return s.GetTask(ctx, id)
}

// GetTask retrieves a task by id.
func (s *Store) GetTask(ctx context.Context, id string) (models.Task, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, project_id, title, description, status, priority, assignee_id, creator_id, due_date, created_at, updated_at
        FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Task{}, fmt.Errorf("%w: task", ErrNotFound)
	}
	if err != nil {
		return models.Task{}, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

// UpdateTask applies an edit-modal change. The actor must be the task's
// creator, its assignee, or the owning project's creator.
func (s *Store) UpdateTask(ctx context.Context, actorID, id string, up TaskUpdate) (models.Task, error) {
	current, err := s.GetTask(ctx, id)
	if err != nil {
		return models.Task{}, err
	}
	if err := s.checkTaskPermission(ctx, current, actorID); err != nil {
		return models.Task{}, err
	}

	if up.Title != nil {
		title := strings.TrimSpace(*up.Title)
		if title == "" {
			return models.Task{}, fmt.Errorf("%w: title is required", ErrValidation)
		}
		if len(title) > maxTitleLen {
			return models.Task{}, fmt.Errorf("%w: title must be at most %d characters", ErrValidation, maxTitleLen)
		}
		current.Title = title
	}
	if up.Description != nil {
		if len(*up.Description) > maxDescriptionLen {
			return models.Task{}, fmt.Errorf("%w: description must be at most %d characters", ErrValidation, maxDescriptionLen)
		}
		current.Description = strings.TrimSpace(*up.Description)
	}
	if up.Priority != nil {
		if !up.Priority.Valid() {
			return models.Task{}, fmt.Errorf("%w: unknown priority %q", ErrValidation, *up.Priority)
		}
		current.Priority = *up.Priority
	}
	if up.Status != nil {
		if !up.Status.Valid() {
			return models.Task{}, fmt.Errorf("%w: unknown status %q", ErrValidation, *up.Status)
		}
		current.Status = *up.Status
	}
	if up.DueDate != nil {
		current.DueDate = up.DueDate
	}
	if up.AssigneeID != nil {
		if *up.AssigneeID != "" {
			project, err := s.GetProject(ctx, actorID, current.ProjectID)
			if err != nil {
				return models.Task{}, err
			}
			if err := s.checkAssignee(ctx, current.ProjectID, project.CreatorID, *up.AssigneeID); err != nil {
				return models.Task{}, err
			}
		}
		current.AssigneeID = *up.AssigneeID
	}

	_, err = s.db.ExecContext(ctx, `UPDATE tasks SET title = ?, description = ?, status = ?, priority = ?, assignee_id = ?, due_date = ?, updated_at = ?
        WHERE id = ?`,
		current.Title, current.Description, current.Status, current.Priority,
		nullString(current.AssigneeID), nullTime(current.DueDate), time.Now().UTC(), id)
	if err != nil {
		return models.Task{}, fmt.Errorf("update task: %w", err)
	}
	return s.GetTask(ctx, id)
}

// UpdateTaskStatus moves a task between board columns. Same permission rule
// as UpdateTask; the change also refreshes updated_at.
func (s *Store) UpdateTaskStatus(ctx context.Context, actorID, id string, status models.Status) (models.Task, error) {
	if !status.Valid() {
		return models.Task{}, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}

	current, err := s.GetTask(ctx, id)
	if err != nil {
		return models.Task{}, err
	}
	if err := s.checkTaskPermission(ctx, current, actorID); err != nil {
		return models.Task{}, err
	}

	_, err = s.db.ExecContext(ctx, `UPDATE tasks SET status = ?, updated_at = ? WHERE id = ?`, status, time.Now().UTC(), id)
	if err != nil {
		return models.Task{}, fmt.Errorf("update task status: %w", err)
	}
	return s.GetTask(ctx, id)
}

// DeleteTask removes a task. Only its creator may delete it.
func (s *Store) DeleteTask(ctx context.Context, actorID, id string) error {
	current, err := s.GetTask(ctx, id)
	if err != nil {
		return err
	}
	if current.CreatorID != actorID {
		return fmt.Errorf("%w: only the task creator may delete it", ErrForbidden)
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// checkTaskPermission enforces the mutation rule: task creator, assignee, or
// project creator.
func (s *Store) checkTaskPermission(ctx context.Context, task models.Task, actorID string) error {
	if task.CreatorID == actorID || task.AssigneeID == actorID {
		return nil
	}
	project, err := s.GetProject(ctx, actorID, task.ProjectID)
	if err != nil {
		return err
	}
	if project.CreatorID == actorID {
		return nil
	}
	return fmt.Errorf("%w: you are not allowed to update this task", ErrForbidden)
}

// checkAssignee requires the assignee to be the project creator or a member.
func (s *Store) checkAssignee(ctx context.Context, projectID, projectCreatorID, assigneeID string) error {
	if assigneeID == projectCreatorID {
		return nil
	}
	member, err := s.isMember(ctx, projectID, assigneeID)
	if err != nil {
		return err
	}
	if !member {
		return fmt.Errorf("%w: assignee must be a member or the creator of the project", ErrValidation)
	}
	return nil
}

func (s *Store) listTasks(ctx context.Context, projectID string) ([]models.Task, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, project_id, title, description, status, priority, assignee_id, creator_id, due_date, created_at, updated_at
        FROM tasks WHERE project_id = ? ORDER BY created_at ASC, id ASC`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (models.Task, error) {
	var (
		t        models.Task
		assignee sql.NullString
		due      sql.NullTime
	)
	if err := row.Scan(&t.ID, &t.ProjectID, &t.Title, &t.Description, &t.Status, &t.Priority,
		&assignee, &t.CreatorID, &due, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return models.Task{}, err
	}
	if assignee.Valid {
		t.AssigneeID = assignee.String
	}
	if due.Valid {
		d := due.Time
		t.DueDate = &d
	}
	return t, nil
}

func nullString(v string) any {
	if v == "" {
		return nil
	}
	return v
}

func nullTime(v *time.Time) any {
	if v == nil {
		return nil
	}
	return v.UTC()
}
