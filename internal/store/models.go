package store

import "time"

// Priority ranks how urgent a task is.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ColumnID identifies one of the four fixed workflow columns.
type ColumnID string

const (
	ColumnBacklog    ColumnID = "backlog"
	ColumnInProgress ColumnID = "in-progress"
	ColumnReview     ColumnID = "review"
	ColumnDone       ColumnID = "done"
)

// Column pairs a column id with its display title. The board has a fixed
// set of four columns — they are configuration, not persisted records.
type Column struct {
	ID    ColumnID `json:"id"`
	Title string   `json:"title"`
}

// Columns is the board's column set, in display order.
var Columns = []Column{
	{ColumnBacklog, "Backlog"},
	{ColumnInProgress, "In Progress"},
	{ColumnReview, "Review"},
	{ColumnDone, "Done"},
}

// ValidColumn reports whether id is one of the four board columns.
func ValidColumn(id ColumnID) bool {
	for _, c := range Columns {
		if c.ID == id {
			return true
		}
	}
	return false
}

// ValidPriority reports whether p is a known priority level.
func ValidPriority(p Priority) bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// Project is the top-level grouping. Epics hang off projects; tasks
// never reference a project directly.
type Project struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"createdAt"`
}

// Epic is a named grouping of tasks, optionally under a project.
// ProjectID is a weak reference: deleting the project detaches the epic.
type Epic struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	Position  int       `json:"position"`
	ProjectID *string   `json:"projectId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Task is a unit of work on the board. EpicID is a weak reference:
// deleting the epic unassigns its tasks rather than deleting them.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Priority    Priority  `json:"priority"`
	ColumnID    ColumnID  `json:"columnId"`
	EpicID      *string   `json:"epicId,omitempty"`
	PRURL       string    `json:"prUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Comment belongs to exactly one task and is deleted with it.
type Comment struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"taskId"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
}

// TaskDraft holds the caller-supplied fields for a new task.
// Priority defaults to medium and ColumnID to backlog when empty.
type TaskDraft struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Priority    Priority `json:"priority,omitempty"`
	ColumnID    ColumnID `json:"columnId,omitempty"`
	EpicID      *string  `json:"epicId,omitempty"`
	PRURL       string   `json:"prUrl,omitempty"`
}

// TaskPatch holds optional field updates for a task. Nil fields are left
// unchanged. A non-nil EpicID pointing at the empty string clears the
// epic reference.
type TaskPatch struct {
	Title       *string
	Description *string
	Priority    *Priority
	ColumnID    *ColumnID
	EpicID      *string
	PRURL       *string
}

// EpicPatch holds optional field updates for an epic. A non-nil
// ProjectID pointing at the empty string clears the project reference.
type EpicPatch struct {
	Name      *string
	Color     *string
	Position  *int
	ProjectID *string
}

// ProjectPatch holds optional field updates for a project.
type ProjectPatch struct {
	Name     *string
	Color    *string
	Position *int
}
