// Package tui renders the kanban board in the terminal. Tasks are
// arranged in four fixed columns and can be moved by keyboard or by
// dragging cards with the mouse.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/taskdeck/taskdeck/internal/board"
	"github.com/taskdeck/taskdeck/internal/store"
)

// screen represents which view the TUI is showing.
type screen int

const (
	screenBoard  screen = iota // kanban board (main)
	screenDetail               // task detail with comments
	screenCreate               // create new task form
)

// Board geometry. Cards are a fixed height so a pointer position maps
// straight back onto a column and row.
const (
	boardTop   = 3 // header + blank + column titles
	cardHeight = 4 // bordered card: 2 content lines + 2 border lines
	minColumns = 20
)

// Model is the top-level bubbletea model.
type Model struct {
	backend board.Backend
	tasks   *board.TaskCache
	epics   *board.EpicCache

	projects []store.Project
	filter   board.Filter
	drag     board.Drag

	width  int
	height int

	currentScreen screen

	// Board cursor over visible columns.
	cursorCol int
	cursorRow int

	// Create form.
	titleInput     textinput.Model
	descInput      textinput.Model
	inputFocused   int // 0=title, 1=description
	createPriority store.Priority

	// Detail view.
	selected     *store.Task
	comments     []store.Comment
	commentInput textinput.Model
	commenting   bool

	// Status message at the bottom.
	statusMsg  string
	statusTime time.Time

	quitting bool
}

// New creates the TUI model over a backend.
func New(b board.Backend) Model {
	ti := textinput.New()
	ti.Placeholder = "Task title..."
	ti.CharLimit = 120
	ti.Width = 50

	di := textinput.New()
	di.Placeholder = "Description (optional)..."
	di.CharLimit = 500
	di.Width = 50

	ci := textinput.New()
	ci.Placeholder = "Add a comment..."
	ci.CharLimit = 500
	ci.Width = 60

	return Model{
		backend:        b,
		tasks:          board.NewTaskCache(b),
		epics:          board.NewEpicCache(b),
		titleInput:     ti,
		descInput:      di,
		commentInput:   ci,
		createPriority: store.PriorityMedium,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	m.tasks.BeginLoad()
	m.epics.BeginLoad()
	return tea.Batch(m.loadBoard(), tickCmd())
}

type boardLoadedMsg struct {
	tasks    []store.Task
	epics    []store.Epic
	projects []store.Project
	err      error
}

type commentsLoadedMsg struct {
	taskID   string
	comments []store.Comment
	err      error
}

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(2*time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// loadBoard fetches the board data in one shot. The caches are owned by
// the event loop, so the command goroutine only talks to the backend and
// returns everything in the message; Update applies it via ApplyLoad.
// Callers mark the caches Loading with BeginLoad before dispatching.
func (m Model) loadBoard() tea.Cmd {
	backend := m.backend
	return func() tea.Msg {
		ctx := context.Background()
		tasks, err := backend.ListTasks(ctx)
		if err != nil {
			return boardLoadedMsg{err: err}
		}
		epics, err := backend.ListEpics(ctx)
		if err != nil {
			return boardLoadedMsg{err: err}
		}
		projects, err := backend.ListProjects(ctx)
		if err != nil {
			return boardLoadedMsg{err: err}
		}
		return boardLoadedMsg{tasks: tasks, epics: epics, projects: projects}
	}
}

func (m Model) loadComments(taskID string) tea.Cmd {
	backend := m.backend
	return func() tea.Msg {
		comments, err := backend.ListComments(context.Background(), taskID)
		return commentsLoadedMsg{taskID: taskID, comments: comments, err: err}
	}
}

func (m *Model) setStatus(msg string) {
	m.statusMsg = msg
	m.statusTime = time.Now()
}

// --- board geometry ---

func (m Model) visibleColumns() []store.Column {
	return board.VisibleColumns(m.filter.HideCompleted)
}

func (m Model) columnWidth() int {
	cols := len(m.visibleColumns())
	if m.width == 0 || cols == 0 {
		return minColumns
	}
	w := m.width / cols
	if w < minColumns {
		w = minColumns
	}
	return w
}

// columnTasks returns the filtered tasks of the i-th visible column.
func (m Model) columnTasks(i int) []store.Task {
	cols := m.visibleColumns()
	if i < 0 || i >= len(cols) {
		return nil
	}
	return board.Visible(m.tasks.Tasks(), m.epics.Epics(), m.filter, cols[i].ID)
}

func (m *Model) clampCursor() {
	cols := m.visibleColumns()
	if m.cursorCol >= len(cols) {
		m.cursorCol = len(cols) - 1
	}
	if m.cursorCol < 0 {
		m.cursorCol = 0
	}
	tasks := m.columnTasks(m.cursorCol)
	if m.cursorRow >= len(tasks) {
		m.cursorRow = len(tasks) - 1
	}
	if m.cursorRow < 0 {
		m.cursorRow = 0
	}
}

func (m Model) selectedTaskFromBoard() *store.Task {
	tasks := m.columnTasks(m.cursorCol)
	if m.cursorRow < len(tasks) {
		t := tasks[m.cursorRow]
		return &t
	}
	return nil
}

// epicChoices returns the epics selectable under the current project
// filter.
func (m Model) epicChoices() []store.Epic {
	return board.EpicsForProject(m.epics.Epics(), m.filter.ProjectID)
}

// hitTest maps a pointer position onto the card or column under it.
func (m Model) hitTest(x, y int) board.DropTarget {
	cols := m.visibleColumns()
	if len(cols) == 0 {
		return board.DropTarget{}
	}
	col := x / m.columnWidth()
	if col >= len(cols) {
		col = len(cols) - 1
	}
	if col < 0 {
		col = 0
	}

	if y >= boardTop {
		tasks := m.columnTasks(col)
		row := (y - boardTop) / cardHeight
		if row < len(tasks) {
			return board.DropTarget{TaskID: tasks[row].ID}
		}
	}
	return board.DropTarget{Column: cols[col].ID}
}
