package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const epicColumns = `id, name, color, position, project_id, created_at`

// CreateEpic inserts a new epic at the end of the display order.
func (s *Store) CreateEpic(name, color string, projectID *string) (*Epic, error) {
	if name == "" {
		return nil, fmt.Errorf("name is required: %w", ErrValidation)
	}

	e := &Epic{
		ID:        uuid.NewString(),
		Name:      name,
		Color:     color,
		Position:  s.nextPosition("epics"),
		ProjectID: projectID,
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.db.Exec(
		`INSERT INTO epics (`+epicColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.Name, e.Color, e.Position, nullable(e.ProjectID), e.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert epic: %w", err)
	}
	return e, nil
}

// GetEpic returns a single epic by ID.
func (s *Store) GetEpic(id string) (*Epic, error) {
	row := s.db.QueryRow(`SELECT `+epicColumns+` FROM epics WHERE id = ?`, id)
	e, err := scanEpic(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("epic: %w", ErrNotFound)
	}
	return e, err
}

// ListEpics returns all epics ordered by position, then creation time.
func (s *Store) ListEpics() ([]Epic, error) {
	rows, err := s.db.Query(`SELECT ` + epicColumns + ` FROM epics ORDER BY position, created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("query epics: %w", err)
	}
	defer rows.Close()

	var epics []Epic
	for rows.Next() {
		var e Epic
		var projectID sql.NullString
		if err := rows.Scan(&e.ID, &e.Name, &e.Color, &e.Position, &projectID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan epic: %w", err)
		}
		if projectID.Valid {
			e.ProjectID = &projectID.String
		}
		epics = append(epics, e)
	}
	return epics, rows.Err()
}

// UpdateEpic applies the non-nil fields of p to an epic and returns the
// updated record.
func (s *Store) UpdateEpic(id string, p EpicPatch) (*Epic, error) {
	var sets []string
	var args []any

	if p.Name != nil {
		if *p.Name == "" {
			return nil, fmt.Errorf("name is required: %w", ErrValidation)
		}
		sets, args = append(sets, "name = ?"), append(args, *p.Name)
	}
	if p.Color != nil {
		sets, args = append(sets, "color = ?"), append(args, *p.Color)
	}
	if p.Position != nil {
		sets, args = append(sets, "position = ?"), append(args, *p.Position)
	}
	if p.ProjectID != nil {
		if *p.ProjectID == "" {
			sets, args = append(sets, "project_id = ?"), append(args, nil)
		} else {
			sets, args = append(sets, "project_id = ?"), append(args, *p.ProjectID)
		}
	}

	if len(sets) == 0 {
		return s.GetEpic(id)
	}

	args = append(args, id)
	res, err := s.db.Exec(`UPDATE epics SET `+joinSets(sets)+` WHERE id = ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("update epic: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("epic %s: %w", id, ErrNotFound)
	}
	return s.GetEpic(id)
}

// DeleteEpic removes an epic and unassigns its tasks. The tasks survive
// with a cleared epic reference — epic deletion never cascades to tasks.
func (s *Store) DeleteEpic(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin delete epic: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`UPDATE tasks SET epic_id = NULL WHERE epic_id = ?`, id); err != nil {
		return fmt.Errorf("unassign epic tasks: %w", err)
	}
	res, err := tx.Exec(`DELETE FROM epics WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete epic: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("epic %s: %w", id, ErrNotFound)
	}
	return tx.Commit()
}

func scanEpic(row *sql.Row) (*Epic, error) {
	var e Epic
	var projectID sql.NullString
	err := row.Scan(&e.ID, &e.Name, &e.Color, &e.Position, &projectID, &e.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scan epic: %w", err)
	}
	if projectID.Valid {
		e.ProjectID = &projectID.String
	}
	return &e, nil
}
