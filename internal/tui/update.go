package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/taskdeck/taskdeck/internal/store"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.currentScreen {
		case screenBoard:
			return m.handleBoardKey(msg)
		case screenDetail:
			return m.handleDetailKey(msg)
		case screenCreate:
			return m.handleCreateKey(msg)
		}
		return m, nil

	case tea.MouseMsg:
		if m.currentScreen == screenBoard {
			return m.handleMouse(msg)
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case boardLoadedMsg:
		m.tasks.ApplyLoad(msg.tasks, msg.err)
		m.epics.ApplyLoad(msg.epics, msg.err)
		if msg.err != nil {
			m.setStatus("Load failed: " + msg.err.Error())
			return m, nil
		}
		m.projects = msg.projects
		m.clampCursor()
		return m, nil

	case commentsLoadedMsg:
		if msg.err != nil {
			m.setStatus("Failed to load comments: " + msg.err.Error())
			return m, nil
		}
		if m.selected != nil && m.selected.ID == msg.taskID {
			m.comments = msg.comments
		}
		return m, nil

	case tickMsg:
		if m.statusMsg != "" && time.Since(m.statusTime) > 5*time.Second {
			m.statusMsg = ""
		}
		return m, tickCmd()
	}

	return m, nil
}

// --- board keys ---

func (m Model) handleBoardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "r":
		m.tasks.BeginLoad()
		m.epics.BeginLoad()
		return m, m.loadBoard()

	// Navigation.
	case "h", "left":
		m.cursorCol--
		m.clampCursor()
	case "l", "right":
		m.cursorCol++
		m.clampCursor()
	case "j", "down":
		m.cursorRow++
		m.clampCursor()
	case "k", "up":
		m.cursorRow--
		m.clampCursor()

	// Open detail.
	case "enter", " ":
		if t := m.selectedTaskFromBoard(); t != nil {
			return m.openDetail(t.ID)
		}

	// Move the selected task between columns.
	case "[":
		return m.moveSelected(-1)
	case "]":
		return m.moveSelected(1)

	// Create a task.
	case "c":
		m.currentScreen = screenCreate
		m.titleInput.Reset()
		m.descInput.Reset()
		m.titleInput.Focus()
		m.descInput.Blur()
		m.inputFocused = 0
		m.createPriority = store.PriorityMedium
		return m, textinput.Blink

	// Filters.
	case "p":
		m.cycleProject()
	case "e":
		m.cycleEpic()
	case "d":
		m.filter.HideCompleted = !m.filter.HideCompleted
		m.clampCursor()

	// Delete the selected task.
	case "x":
		if t := m.selectedTaskFromBoard(); t != nil {
			if err := m.tasks.Delete(context.Background(), t.ID); err != nil {
				m.setStatus("Delete failed: " + err.Error())
			} else {
				m.setStatus("Deleted: " + t.Title)
			}
			m.clampCursor()
		}
	}

	return m, nil
}

// moveSelected shifts the task under the cursor one visible column
// left or right. The cache applies the move optimistically and rolls
// back if the backend rejects it.
func (m Model) moveSelected(dir int) (tea.Model, tea.Cmd) {
	t := m.selectedTaskFromBoard()
	if t == nil {
		return m, nil
	}
	cols := m.visibleColumns()
	target := m.cursorCol + dir
	if target < 0 || target >= len(cols) {
		return m, nil
	}

	if _, err := m.tasks.Move(context.Background(), t.ID, cols[target].ID); err != nil {
		m.setStatus("Move failed: " + err.Error())
		return m, nil
	}
	m.cursorCol = target
	m.cursorRow = 0
	m.clampCursor()
	return m, nil
}

// cycleProject advances the project filter: all projects, then each in
// turn. Changing project resets the epic selection.
func (m *Model) cycleProject() {
	var next *string
	if m.filter.ProjectID == nil {
		if len(m.projects) > 0 {
			next = &m.projects[0].ID
		}
	} else {
		for i := range m.projects {
			if m.projects[i].ID == *m.filter.ProjectID && i+1 < len(m.projects) {
				next = &m.projects[i+1].ID
				break
			}
		}
	}
	m.filter.SelectProject(next)
	m.clampCursor()
}

// cycleEpic advances the epic filter over the epics visible under the
// current project.
func (m *Model) cycleEpic() {
	choices := m.epicChoices()
	var next *string
	if m.filter.EpicID == nil {
		if len(choices) > 0 {
			next = &choices[0].ID
		}
	} else {
		for i := range choices {
			if choices[i].ID == *m.filter.EpicID && i+1 < len(choices) {
				next = &choices[i+1].ID
				break
			}
		}
	}
	m.filter.SelectEpic(next)
	m.clampCursor()
}

func (m Model) openDetail(taskID string) (tea.Model, tea.Cmd) {
	t := m.tasks.Get(taskID)
	if t == nil {
		return m, nil
	}
	m.selected = t
	m.comments = nil
	m.commenting = false
	m.commentInput.Reset()
	m.currentScreen = screenDetail
	return m, m.loadComments(taskID)
}

// --- mouse ---

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			if target := m.hitTest(msg.X, msg.Y); target.TaskID != "" {
				m.drag.Press(target.TaskID, msg.X, msg.Y)
			}
		}

	case tea.MouseActionMotion:
		m.drag.Track(msg.X, msg.Y)

	case tea.MouseActionRelease:
		pressID := m.drag.TaskID()
		wasDrag := m.drag.Dragging()
		id, to, ok := m.drag.Release(m.hitTest(msg.X, msg.Y), m.tasks.Tasks())
		if ok {
			if _, err := m.tasks.Move(context.Background(), id, to); err != nil {
				m.setStatus("Move failed: " + err.Error())
			}
			m.clampCursor()
			return m, nil
		}
		// A press that never became a drag is a click on the card.
		if pressID != "" && !wasDrag {
			return m.openDetail(pressID)
		}
	}

	return m, nil
}

// --- detail keys ---

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.selected == nil {
		m.currentScreen = screenBoard
		return m, nil
	}

	if m.commenting {
		switch msg.String() {
		case "esc":
			m.commenting = false
			m.commentInput.Blur()
			return m, nil
		case "enter":
			content := m.commentInput.Value()
			if content == "" {
				m.setStatus("Comment cannot be empty")
				return m, nil
			}
			if _, err := m.backend.CreateComment(context.Background(), m.selected.ID, content, ""); err != nil {
				m.setStatus("Comment failed: " + err.Error())
				return m, nil
			}
			m.commenting = false
			m.commentInput.Reset()
			m.commentInput.Blur()
			return m, m.loadComments(m.selected.ID)
		}
		var cmd tea.Cmd
		m.commentInput, cmd = m.commentInput.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "esc", "q", "backspace":
		m.currentScreen = screenBoard
		m.selected = nil
		m.comments = nil
		return m, nil

	case "c":
		m.commenting = true
		m.commentInput.Focus()
		return m, textinput.Blink

	case "x":
		id, title := m.selected.ID, m.selected.Title
		if err := m.tasks.Delete(context.Background(), id); err != nil {
			m.setStatus("Delete failed: " + err.Error())
			return m, nil
		}
		m.setStatus("Deleted: " + title)
		m.currentScreen = screenBoard
		m.selected = nil
		m.clampCursor()
		return m, nil
	}

	return m, nil
}

// --- create form keys ---

func (m Model) handleCreateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.currentScreen = screenBoard
		return m, nil

	case "tab":
		if m.inputFocused == 0 {
			m.titleInput.Blur()
			m.descInput.Focus()
			m.inputFocused = 1
		} else {
			m.descInput.Blur()
			m.titleInput.Focus()
			m.inputFocused = 0
		}
		return m, textinput.Blink

	case "ctrl+p":
		switch m.createPriority {
		case store.PriorityLow:
			m.createPriority = store.PriorityMedium
		case store.PriorityMedium:
			m.createPriority = store.PriorityHigh
		case store.PriorityHigh:
			m.createPriority = store.PriorityLow
		}
		return m, nil

	case "enter":
		title := m.titleInput.Value()
		if title == "" {
			m.setStatus("Title cannot be empty")
			return m, nil
		}
		draft := store.TaskDraft{
			Title:       title,
			Description: m.descInput.Value(),
			Priority:    m.createPriority,
			// New tasks inherit the active epic filter.
			EpicID: m.filter.EpicID,
		}
		task, err := m.tasks.Create(context.Background(), draft)
		if err != nil {
			m.setStatus("Create failed: " + err.Error())
			return m, nil
		}
		m.setStatus("Created: " + task.Title)
		m.currentScreen = screenBoard
		m.clampCursor()
		return m, nil
	}

	var cmd tea.Cmd
	if m.inputFocused == 0 {
		m.titleInput, cmd = m.titleInput.Update(msg)
	} else {
		m.descInput, cmd = m.descInput.Update(msg)
	}
	return m, cmd
}
