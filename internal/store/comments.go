package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CreateComment adds a comment to a task. The task must exist.
func (s *Store) CreateComment(taskID, content, author string) (*Comment, error) {
	if content == "" {
		return nil, fmt.Errorf("content is required: %w", ErrValidation)
	}
	if _, err := s.GetTask(taskID); err != nil {
		return nil, err
	}

	c := &Comment{
		ID:        uuid.NewString(),
		TaskID:    taskID,
		Content:   content,
		Author:    author,
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.db.Exec(
		`INSERT INTO comments (id, task_id, content, author, created_at) VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.TaskID, c.Content, c.Author, c.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}
	return c, nil
}

// ListComments returns a task's comments, newest first. Comments
// inserted within the same timestamp tick fall back to insertion order
// via rowid, so the ordering stays deterministic.
func (s *Store) ListComments(taskID string) ([]Comment, error) {
	rows, err := s.db.Query(
		`SELECT id, task_id, content, author, created_at
		 FROM comments WHERE task_id = ? ORDER BY created_at DESC, rowid DESC`, taskID,
	)
	if err != nil {
		return nil, fmt.Errorf("query comments: %w", err)
	}
	defer rows.Close()

	var comments []Comment
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.TaskID, &c.Content, &c.Author, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// DeleteComment removes a single comment.
func (s *Store) DeleteComment(id string) error {
	res, err := s.db.Exec(`DELETE FROM comments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("comment %s: %w", id, ErrNotFound)
	}
	return nil
}
