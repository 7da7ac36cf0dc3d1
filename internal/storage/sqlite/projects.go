package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"collabry/internal/models"
)

// CreateProject persists a new project and seeds the creator as its OWNER
// member.
func (s *Store) CreateProject(ctx context.Context, actorID, name, description, color string) (models.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Project{}, fmt.Errorf("%w: project name must not be empty", ErrValidation)
	}
	if color == "" {
		color = randomPaletteColor()
	}
	if ok, err := s.userExists(ctx, actorID); err != nil {
		return models.Project{}, err
	} else if !ok {
		return models.Project{}, fmt.Errorf("%w: user", ErrNotFound)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Project{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	id := uuid.NewString()
	if _, err := tx.ExecContext(ctx, `INSERT INTO projects(id, name, description, color, creator_id) VALUES(?, ?, ?, ?, ?)`,
		id, name, strings.TrimSpace(description), color, actorID); err != nil {
		return models.Project{}, fmt.Errorf("insert project: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO project_members(project_id, user_id, role) VALUES(?, ?, ?)`,
		id, actorID, models.RoleOwner); err != nil {
		return models.Project{}, fmt.Errorf("insert owner member: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return models.Project{}, fmt.Errorf("commit project: %w", err)
	}

	return s.GetProject(ctx, actorID, id)
}

// GetProject fetches a single project by id, with the viewer's derived
// creator flag.
func (s *Store) GetProject(ctx context.Context, actorID, id string) (models.Project, error) {
	var p models.Project
	err := s.db.QueryRowContext(ctx, `SELECT id, name, description, color, creator_id, created_at, updated_at FROM projects WHERE id = ?`, id).
		Scan(&p.ID, &p.Name, &p.Description, &p.Color, &p.CreatorID, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Project{}, fmt.Errorf("%w: project", ErrNotFound)
	}
	if err != nil {
		return models.Project{}, fmt.Errorf("get project: %w", err)
	}
	p.IsCreator = p.CreatorID == actorID
	return p, nil
}

// ListProjects returns every project the actor is a member of.
func (s *Store) ListProjects(ctx context.Context, actorID string) ([]models.Project, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT p.id, p.name, p.description, p.color, p.creator_id, p.created_at, p.updated_at
        FROM projects p
        JOIN project_members m ON m.project_id = p.id
        WHERE m.user_id = ?
        ORDER BY p.created_at ASC, p.id ASC`, actorID)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Color, &p.CreatorID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		p.IsCreator = p.CreatorID == actorID
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// UpdateProject renames or recolors a project. Only the creator may update.
func (s *Store) UpdateProject(ctx context.Context, actorID, id, name, description, color string) (models.Project, error) {
	current, err := s.GetProject(ctx, actorID, id)
	if err != nil {
		return models.Project{}, err
	}
	if current.CreatorID != actorID {
		return models.Project{}, fmt.Errorf("%w: only the project creator may update it", ErrForbidden)
	}

	if strings.TrimSpace(name) != "" {
		current.Name = strings.TrimSpace(name)
	}
	if description != "" {
		current.Description = strings.TrimSpace(description)
	}
	if color != "" {
		current.Color = color
	}

	_, err = s.db.ExecContext(ctx, `UPDATE projects SET name = ?, description = ?, color = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		current.Name, current.Description, current.Color, id)
	if err != nil {
		return models.Project{}, fmt.Errorf("update project: %w", err)
	}
	return s.GetProject(ctx, actorID, id)
}

// DeleteProject removes a project along with its members and tasks. Only the
// creator may delete.
func (s *Store) DeleteProject(ctx context.Context, actorID, id string) error {
	current, err := s.GetProject(ctx, actorID, id)
	if err != nil {
		return err
	}
	if current.CreatorID != actorID {
		return fmt.Errorf("%w: only the project creator may delete it", ErrForbidden)
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return nil
}

// GetProjectWithTasks returns the authoritative project view for the board:
// the project, its members, and its tasks in creation order. The actor must
// be a member; outsiders get ErrNotFound rather than a permission hint.
func (s *Store) GetProjectWithTasks(ctx context.Context, actorID, projectID string) (models.ProjectDetail, error) {
	member, err := s.isMember(ctx, projectID, actorID)
	if err != nil {
		return models.ProjectDetail{}, err
	}
	if !member {
		return models.ProjectDetail{}, fmt.Errorf("%w: project", ErrNotFound)
	}

	project, err := s.GetProject(ctx, actorID, projectID)
	if err != nil {
		return models.ProjectDetail{}, err
	}
	members, err := s.listMembers(ctx, projectID)
	if err != nil {
		return models.ProjectDetail{}, err
	}
	tasks, err := s.listTasks(ctx, projectID)
	if err != nil {
		return models.ProjectDetail{}, err
	}

	return models.ProjectDetail{Project: project, Members: members, Tasks: tasks}, nil
}
