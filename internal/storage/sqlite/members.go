package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"collabry/internal/models"
)

// ListMembers returns the members of a project with their user records. The
// actor must be a member.
func (s *Store) ListMembers(ctx context.Context, actorID, projectID string) ([]models.Member, error) {
	member, err := s.isMember(ctx, projectID, actorID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, fmt.Errorf("%w: project", ErrNotFound)
	}
	return s.listMembers(ctx, projectID)
}

// AddMember invites a user into a project. Only the project creator may
// invite; inviting an existing member is a conflict.
func (s *Store) AddMember(ctx context.Context, actorID, projectID, userID string) (models.Member, error) {
	project, err := s.GetProject(ctx, actorID, projectID)
	if err != nil {
		return models.Member{}, err
	}
	if project.CreatorID != actorID {
		return models.Member{}, fmt.Errorf("%w: only the project creator may invite members", ErrForbidden)
	}

	if ok, err := s.userExists(ctx, userID); err != nil {
		return models.Member{}, err
	} else if !ok {
		return models.Member{}, fmt.Errorf("%w: user", ErrNotFound)
	}

	already, err := s.isMember(ctx, projectID, userID)
	if err != nil {
		return models.Member{}, err
	}
	if already {
		return models.Member{}, fmt.Errorf("%w: already a member", ErrConflict)
	}

	if _, err := s.db.ExecContext(ctx, `INSERT INTO project_members(project_id, user_id, role) VALUES(?, ?, ?)`,
		projectID, userID, models.RoleMember); err != nil {
		return models.Member{}, fmt.Errorf("insert member: %w", err)
	}
	return s.getMember(ctx, projectID, userID)
}

// RemoveMember drops a user from a project. Only the creator may remove, and
// a member who still created or is assigned tasks in the project cannot be
// removed.
func (s *Store) RemoveMember(ctx context.Context, actorID, projectID, userID string) error {
	project, err := s.GetProject(ctx, actorID, projectID)
	if err != nil {
		return err
	}
	if project.CreatorID != actorID {
		return fmt.Errorf("%w: only the project creator may remove members", ErrForbidden)
	}

	var one int
	err = s.db.QueryRowContext(ctx, `SELECT 1 FROM tasks WHERE project_id = ? AND (creator_id = ? OR assignee_id = ?) LIMIT 1`,
		projectID, userID, userID).Scan(&one)
	if err == nil {
		return fmt.Errorf("%w: cannot remove a member with assigned or created tasks", ErrConflict)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("check member tasks: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM project_members WHERE project_id = ? AND user_id = ?`, projectID, userID)
	if err != nil {
		return fmt.Errorf("delete member: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: member", ErrNotFound)
	}
	return nil
}

func (s *Store) getMember(ctx context.Context, projectID, userID string) (models.Member, error) {
	var m models.Member
	err := s.db.QueryRowContext(ctx, `SELECT m.project_id, m.user_id, m.role, m.joined_at, u.id, u.name, u.email, u.avatar_url, u.created_at
        FROM project_members m
        JOIN users u ON u.id = m.user_id
        WHERE m.project_id = ? AND m.user_id = ?`, projectID, userID).
		Scan(&m.ProjectID, &m.UserID, &m.Role, &m.JoinedAt,
			&m.User.ID, &m.User.Name, &m.User.Email, &m.User.AvatarURL, &m.User.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Member{}, fmt.Errorf("%w: member", ErrNotFound)
	}
	if err != nil {
		return models.Member{}, fmt.Errorf("get member: %w", err)
	}
	return m, nil
}

func (s *Store) listMembers(ctx context.Context, projectID string) ([]models.Member, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT m.project_id, m.user_id, m.role, m.joined_at, u.id, u.name, u.email, u.avatar_url, u.created_at
        FROM project_members m
        JOIN users u ON u.id = m.user_id
        WHERE m.project_id = ?
        ORDER BY m.joined_at ASC, m.user_id ASC`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var members []models.Member
	for rows.Next() {
		var m models.Member
		if err := rows.Scan(&m.ProjectID, &m.UserID, &m.Role, &m.JoinedAt,
			&m.User.ID, &m.User.Name, &m.User.Email, &m.User.AvatarURL, &m.User.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (s *Store) isMember(ctx context.Context, projectID, userID string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM project_members WHERE project_id = ? AND user_id = ?`, projectID, userID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check membership: %w", err)
	}
	return true, nil
}
