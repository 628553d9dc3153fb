package board

import "github.com/taskdeck/taskdeck/internal/store"

// Filter is the board's current selection state. Tasks relate to
// projects only transitively through their epic, so a project filter
// excludes every task without one.
type Filter struct {
	ProjectID     *string
	EpicID        *string
	HideCompleted bool
}

// SelectProject sets the project filter and resets the epic selection.
// The epic choices depend on the selected project; a stale epic filter
// would silently hide the whole board.
func (f *Filter) SelectProject(id *string) {
	f.ProjectID = id
	f.EpicID = nil
}

// SelectEpic sets the epic filter.
func (f *Filter) SelectEpic(id *string) {
	f.EpicID = id
}

// VisibleColumns returns the columns to render. Hiding completed work
// suppresses the done column entirely rather than filtering its tasks.
func VisibleColumns(hideCompleted bool) []store.Column {
	if !hideCompleted {
		return store.Columns
	}
	cols := make([]store.Column, 0, len(store.Columns)-1)
	for _, c := range store.Columns {
		if c.ID != store.ColumnDone {
			cols = append(cols, c)
		}
	}
	return cols
}

// Visible returns the tasks shown in one column under the filter,
// preserving the input order (creation time). A task passes when its
// column matches, its epic matches any epic filter, and its epic's
// project matches any project filter.
func Visible(tasks []store.Task, epics []store.Epic, f Filter, column store.ColumnID) []store.Task {
	epicsByID := make(map[string]store.Epic, len(epics))
	for _, e := range epics {
		epicsByID[e.ID] = e
	}

	var out []store.Task
	for _, t := range tasks {
		if t.ColumnID != column {
			continue
		}
		if f.EpicID != nil && (t.EpicID == nil || *t.EpicID != *f.EpicID) {
			continue
		}
		if f.ProjectID != nil {
			if t.EpicID == nil {
				continue
			}
			e, ok := epicsByID[*t.EpicID]
			if !ok || e.ProjectID == nil || *e.ProjectID != *f.ProjectID {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}

// EpicsForProject returns the epics selectable under the current
// project filter: all of them when no project is chosen.
func EpicsForProject(epics []store.Epic, projectID *string) []store.Epic {
	if projectID == nil {
		return epics
	}
	var out []store.Epic
	for _, e := range epics {
		if e.ProjectID != nil && *e.ProjectID == *projectID {
			out = append(out, e)
		}
	}
	return out
}
