package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// taskColumns is the standard column list for task queries.
const taskColumns = `id, title, description, priority, column_id, epic_id, pr_url, created_at`

// CreateTask inserts a new task and returns it with the generated ID.
// Priority defaults to medium and the column to backlog.
func (s *Store) CreateTask(d TaskDraft) (*Task, error) {
	if d.Title == "" {
		return nil, fmt.Errorf("title is required: %w", ErrValidation)
	}
	if d.Priority == "" {
		d.Priority = PriorityMedium
	}
	if d.ColumnID == "" {
		d.ColumnID = ColumnBacklog
	}
	if !ValidPriority(d.Priority) {
		return nil, fmt.Errorf("priority %q: %w", d.Priority, ErrValidation)
	}
	if !ValidColumn(d.ColumnID) {
		return nil, fmt.Errorf("column %q: %w", d.ColumnID, ErrValidation)
	}

	t := &Task{
		ID:          uuid.NewString(),
		Title:       d.Title,
		Description: d.Description,
		Priority:    d.Priority,
		ColumnID:    d.ColumnID,
		EpicID:      d.EpicID,
		PRURL:       d.PRURL,
		CreatedAt:   time.Now().UTC(),
	}

	_, err := s.db.Exec(
		`INSERT INTO tasks (`+taskColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Title, t.Description, string(t.Priority), string(t.ColumnID),
		nullable(t.EpicID), t.PRURL, t.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	return t, nil
}

// GetTask returns a single task by ID.
func (s *Store) GetTask(id string) (*Task, error) {
	row := s.db.QueryRow(`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	return scanTask(row)
}

// ListTasks returns all tasks ordered by creation time. Within a column
// this is the display order — the board does not track drag positions.
func (s *Store) ListTasks() ([]Task, error) {
	rows, err := s.db.Query(`SELECT ` + taskColumns + ` FROM tasks ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		t, err := scanTaskRows(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

// ListTasksByEpic returns all tasks assigned to an epic.
func (s *Store) ListTasksByEpic(epicID string) ([]Task, error) {
	rows, err := s.db.Query(
		`SELECT `+taskColumns+` FROM tasks WHERE epic_id = ? ORDER BY created_at, id`, epicID,
	)
	if err != nil {
		return nil, fmt.Errorf("query tasks by epic: %w", err)
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		t, err := scanTaskRows(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

// UpdateTask applies the non-nil fields of p to a task and returns the
// updated record. Fields absent from the patch keep their stored values.
func (s *Store) UpdateTask(id string, p TaskPatch) (*Task, error) {
	var sets []string
	var args []any

	if p.Title != nil {
		if *p.Title == "" {
			return nil, fmt.Errorf("title is required: %w", ErrValidation)
		}
		sets, args = append(sets, "title = ?"), append(args, *p.Title)
	}
	if p.Description != nil {
		sets, args = append(sets, "description = ?"), append(args, *p.Description)
	}
	if p.Priority != nil {
		if !ValidPriority(*p.Priority) {
			return nil, fmt.Errorf("priority %q: %w", *p.Priority, ErrValidation)
		}
		sets, args = append(sets, "priority = ?"), append(args, string(*p.Priority))
	}
	if p.ColumnID != nil {
		if !ValidColumn(*p.ColumnID) {
			return nil, fmt.Errorf("column %q: %w", *p.ColumnID, ErrValidation)
		}
		sets, args = append(sets, "column_id = ?"), append(args, string(*p.ColumnID))
	}
	if p.EpicID != nil {
		if *p.EpicID == "" {
			sets, args = append(sets, "epic_id = ?"), append(args, nil)
		} else {
			sets, args = append(sets, "epic_id = ?"), append(args, *p.EpicID)
		}
	}
	if p.PRURL != nil {
		sets, args = append(sets, "pr_url = ?"), append(args, *p.PRURL)
	}

	if len(sets) == 0 {
		return s.GetTask(id)
	}

	args = append(args, id)
	res, err := s.db.Exec(`UPDATE tasks SET `+joinSets(sets)+` WHERE id = ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	return s.GetTask(id)
}

// DeleteTask removes a task and its comments. Comments cannot outlive
// their task.
func (s *Store) DeleteTask(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin delete task: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM comments WHERE task_id = ?`, id); err != nil {
		return fmt.Errorf("delete task comments: %w", err)
	}
	res, err := tx.Exec(`DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	return tx.Commit()
}

// nullable converts an optional string reference to a driver value,
// treating nil and empty as SQL NULL.
func nullable(p *string) any {
	if p == nil || *p == "" {
		return nil
	}
	return *p
}

// joinSets joins SET clause fragments with commas.
func joinSets(sets []string) string {
	out := ""
	for i, s := range sets {
		if i > 0 {
			out += ", "
		}
		out += s
	}
	return out
}

// scanTask scans a single task from a *sql.Row.
func scanTask(row *sql.Row) (*Task, error) {
	var t Task
	var epicID sql.NullString
	err := row.Scan(
		&t.ID, &t.Title, &t.Description, &t.Priority, &t.ColumnID,
		&epicID, &t.PRURL, &t.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("task: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scan task: %w", err)
	}
	if epicID.Valid {
		t.EpicID = &epicID.String
	}
	return &t, nil
}

// scanTaskRows scans a single task from *sql.Rows.
func scanTaskRows(rows *sql.Rows) (*Task, error) {
	var t Task
	var epicID sql.NullString
	err := rows.Scan(
		&t.ID, &t.Title, &t.Description, &t.Priority, &t.ColumnID,
		&epicID, &t.PRURL, &t.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scan task: %w", err)
	}
	if epicID.Valid {
		t.EpicID = &epicID.String
	}
	return &t, nil
}
