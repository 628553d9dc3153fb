package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const projectColumns = `id, name, color, position, created_at`

// CreateProject inserts a new project at the end of the display order.
func (s *Store) CreateProject(name, color string) (*Project, error) {
	if name == "" {
		return nil, fmt.Errorf("name is required: %w", ErrValidation)
	}

	p := &Project{
		ID:        uuid.NewString(),
		Name:      name,
		Color:     color,
		Position:  s.nextPosition("projects"),
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.db.Exec(
		`INSERT INTO projects (`+projectColumns+`) VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Color, p.Position, p.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert project: %w", err)
	}
	return p, nil
}

// GetProject returns a single project by ID.
func (s *Store) GetProject(id string) (*Project, error) {
	var p Project
	err := s.db.QueryRow(`SELECT `+projectColumns+` FROM projects WHERE id = ?`, id).
		Scan(&p.ID, &p.Name, &p.Color, &p.Position, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("project: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scan project: %w", err)
	}
	return &p, nil
}

// ListProjects returns all projects ordered by position, then creation time.
func (s *Store) ListProjects() ([]Project, error) {
	rows, err := s.db.Query(`SELECT ` + projectColumns + ` FROM projects ORDER BY position, created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("query projects: %w", err)
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Color, &p.Position, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// UpdateProject applies the non-nil fields of patch to a project and
// returns the updated record.
func (s *Store) UpdateProject(id string, patch ProjectPatch) (*Project, error) {
	var sets []string
	var args []any

	if patch.Name != nil {
		if *patch.Name == "" {
			return nil, fmt.Errorf("name is required: %w", ErrValidation)
		}
		sets, args = append(sets, "name = ?"), append(args, *patch.Name)
	}
	if patch.Color != nil {
		sets, args = append(sets, "color = ?"), append(args, *patch.Color)
	}
	if patch.Position != nil {
		sets, args = append(sets, "position = ?"), append(args, *patch.Position)
	}

	if len(sets) == 0 {
		return s.GetProject(id)
	}

	args = append(args, id)
	res, err := s.db.Exec(`UPDATE projects SET `+joinSets(sets)+` WHERE id = ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	return s.GetProject(id)
}

// DeleteProject removes a project and detaches its epics. The epics
// survive with a cleared project reference.
func (s *Store) DeleteProject(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin delete project: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`UPDATE epics SET project_id = NULL WHERE project_id = ?`, id); err != nil {
		return fmt.Errorf("detach project epics: %w", err)
	}
	res, err := tx.Exec(`DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	return tx.Commit()
}
