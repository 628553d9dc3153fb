package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/taskdeck/taskdeck/internal/board"
	"github.com/taskdeck/taskdeck/internal/store"
)

// --- Color palette ---
var (
	clrSubtle    = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#666666"}
	clrHighlight = lipgloss.AdaptiveColor{Light: "#0F766E", Dark: "#2DD4BF"}
	clrGreen     = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	clrYellow    = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#F59E0B"}
	clrRed       = lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#F87171"}
	clrDim       = lipgloss.AdaptiveColor{Light: "#999999", Dark: "#555555"}
)

// --- Styles ---
var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(clrHighlight)
	dimStyle    = lipgloss.NewStyle().Foreground(clrDim)
	subtleStyle = lipgloss.NewStyle().Foreground(clrSubtle)

	columnTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(clrSubtle)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(clrSubtle).
			Padding(0, 1)

	cardSelectedStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(clrHighlight).
				Padding(0, 1).
				Bold(true)

	cardDraggingStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(clrYellow).
				Padding(0, 1)

	statusStyle = lipgloss.NewStyle().Foreground(clrGreen).Bold(true)
	errorStyle  = lipgloss.NewStyle().Foreground(clrRed).Bold(true)

	footerKeyStyle  = lipgloss.NewStyle().Bold(true).Foreground(clrHighlight)
	footerDescStyle = lipgloss.NewStyle().Foreground(clrSubtle)
)

var priorityMark = map[store.Priority]string{
	store.PriorityLow:    "▁",
	store.PriorityMedium: "▄",
	store.PriorityHigh:   "█",
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	switch m.currentScreen {
	case screenDetail:
		return m.viewDetail()
	case screenCreate:
		return m.viewCreate()
	default:
		return m.viewBoard()
	}
}

// ════════════════════════════════════════════════
// BOARD VIEW — four columns of cards
// ════════════════════════════════════════════════

func (m Model) viewBoard() string {
	var b strings.Builder

	b.WriteString(m.headerLine() + "\n\n")

	switch m.tasks.State() {
	case board.Unloaded, board.Loading:
		b.WriteString(dimStyle.Render("  Loading board...") + "\n")
		return b.String()
	case board.LoadFailed:
		b.WriteString(errorStyle.Render("  Board failed to load.") + "\n")
		if err := m.tasks.LoadErr(); err != nil {
			b.WriteString(dimStyle.Render("  "+err.Error()) + "\n")
		}
		b.WriteString(dimStyle.Render("  Press ") + footerKeyStyle.Render("r") + dimStyle.Render(" to retry.") + "\n")
		return b.String()
	}

	cols := m.visibleColumns()
	colWidth := m.columnWidth()
	cardWidth := colWidth - 2
	if cardWidth < minColumns-2 {
		cardWidth = minColumns - 2
	}

	// Column titles.
	var titles []string
	for i, c := range cols {
		label := fmt.Sprintf(" %s (%d)", strings.ToUpper(c.Title), len(m.columnTasks(i)))
		titles = append(titles, columnTitleStyle.Width(colWidth).Render(label))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, titles...) + "\n")

	// Cards, column by column.
	var rendered []string
	for i := range cols {
		var cards []string
		for j, t := range m.columnTasks(i) {
			selected := i == m.cursorCol && j == m.cursorRow
			cards = append(cards, m.renderCard(t, selected, cardWidth))
		}
		column := strings.Join(cards, "\n")
		rendered = append(rendered, lipgloss.NewStyle().Width(colWidth).Render(column))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
	b.WriteString("\n")

	b.WriteString(m.footer())
	return b.String()
}

func (m Model) headerLine() string {
	header := titleStyle.Render("taskdeck")
	header += dimStyle.Render(fmt.Sprintf(" — %d tasks", len(m.tasks.Tasks())))
	header += m.filterSummary()

	rightHelp := footerKeyStyle.Render("c") + footerDescStyle.Render(" new  ") +
		footerKeyStyle.Render("q") + footerDescStyle.Render(" quit")

	if m.width > 0 {
		pad := m.width - lipgloss.Width(header) - lipgloss.Width(rightHelp)
		if pad > 0 {
			return header + strings.Repeat(" ", pad) + rightHelp
		}
	}
	return header
}

func (m Model) filterSummary() string {
	var parts []string
	if m.filter.ProjectID != nil {
		name := *m.filter.ProjectID
		for _, p := range m.projects {
			if p.ID == *m.filter.ProjectID {
				name = p.Name
				break
			}
		}
		parts = append(parts, "project:"+name)
	}
	if m.filter.EpicID != nil {
		name := *m.filter.EpicID
		for _, e := range m.epics.Epics() {
			if e.ID == *m.filter.EpicID {
				name = e.Name
				break
			}
		}
		parts = append(parts, "epic:"+name)
	}
	if m.filter.HideCompleted {
		parts = append(parts, "hiding done")
	}
	if len(parts) == 0 {
		return ""
	}
	return subtleStyle.Render("  [" + strings.Join(parts, "  ") + "]")
}

func (m Model) renderCard(t store.Task, selected bool, width int) string {
	style := cardStyle
	if m.drag.Dragging() && m.drag.TaskID() == t.ID {
		style = cardDraggingStyle
	} else if selected {
		style = cardSelectedStyle
	}

	title := t.Title
	if maxLen := width - 4; maxLen > 3 && len(title) > maxLen {
		title = title[:maxLen-1] + "…"
	}

	meta := priorityMark[t.Priority] + " " + string(t.Priority)
	if t.EpicID != nil {
		for _, e := range m.epics.Epics() {
			if e.ID == *t.EpicID {
				meta += "  " + e.Name
				break
			}
		}
	}

	return style.Width(width).Render(title + "\n" + dimStyle.Render(meta))
}

func (m Model) footer() string {
	help := []struct{ key, desc string }{
		{"←↓↑→", "navigate"},
		{"enter", "open"},
		{"[ ]", "move"},
		{"p", "project"},
		{"e", "epic"},
		{"d", "toggle done"},
		{"x", "delete"},
		{"r", "refresh"},
	}
	var parts []string
	for _, h := range help {
		parts = append(parts, footerKeyStyle.Render(h.key)+footerDescStyle.Render(" "+h.desc))
	}
	line := "\n" + strings.Join(parts, footerDescStyle.Render("  "))

	if m.statusMsg != "" {
		style := statusStyle
		if strings.Contains(m.statusMsg, "failed") || strings.Contains(m.statusMsg, "cannot") {
			style = errorStyle
		}
		line += "\n" + style.Render(m.statusMsg)
	}
	return line
}

// ════════════════════════════════════════════════
// DETAIL VIEW — one task with its comments
// ════════════════════════════════════════════════

func (m Model) viewDetail() string {
	if m.selected == nil {
		return ""
	}
	t := m.selected
	var b strings.Builder

	b.WriteString(titleStyle.Render(t.Title) + "\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("%s · %s priority", t.ColumnID, t.Priority)))
	if t.EpicID != nil {
		for _, e := range m.epics.Epics() {
			if e.ID == *t.EpicID {
				b.WriteString(dimStyle.Render(" · " + e.Name))
				break
			}
		}
	}
	b.WriteString("\n\n")

	if t.Description != "" {
		b.WriteString(t.Description + "\n\n")
	}
	if t.PRURL != "" {
		b.WriteString(subtleStyle.Render("PR: "+t.PRURL) + "\n\n")
	}

	b.WriteString(columnTitleStyle.Render(fmt.Sprintf("COMMENTS (%d)", len(m.comments))) + "\n")
	if len(m.comments) == 0 {
		b.WriteString(dimStyle.Render("  No comments yet.") + "\n")
	}
	for _, c := range m.comments {
		author := c.Author
		if author == "" {
			author = "anonymous"
		}
		b.WriteString(subtleStyle.Render(fmt.Sprintf("  %s · %s", author, c.CreatedAt.Format("Jan 2 15:04"))) + "\n")
		b.WriteString("  " + c.Content + "\n")
	}
	b.WriteString("\n")

	if m.commenting {
		b.WriteString(m.commentInput.View() + "\n")
		b.WriteString(footerKeyStyle.Render("enter") + footerDescStyle.Render(" post  ") +
			footerKeyStyle.Render("esc") + footerDescStyle.Render(" cancel"))
	} else {
		b.WriteString(footerKeyStyle.Render("c") + footerDescStyle.Render(" comment  ") +
			footerKeyStyle.Render("x") + footerDescStyle.Render(" delete  ") +
			footerKeyStyle.Render("esc") + footerDescStyle.Render(" back"))
	}

	if m.statusMsg != "" {
		b.WriteString("\n" + statusStyle.Render(m.statusMsg))
	}
	return b.String()
}

// ════════════════════════════════════════════════
// CREATE VIEW — new task form
// ════════════════════════════════════════════════

func (m Model) viewCreate() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("New task") + "\n\n")
	b.WriteString(m.titleInput.View() + "\n")
	b.WriteString(m.descInput.View() + "\n\n")
	b.WriteString(subtleStyle.Render("Priority: ") + string(m.createPriority) + "\n")
	if m.filter.EpicID != nil {
		for _, e := range m.epics.Epics() {
			if e.ID == *m.filter.EpicID {
				b.WriteString(subtleStyle.Render("Epic: ") + e.Name + "\n")
				break
			}
		}
	}
	b.WriteString("\n")
	b.WriteString(footerKeyStyle.Render("enter") + footerDescStyle.Render(" create  ") +
		footerKeyStyle.Render("tab") + footerDescStyle.Render(" next field  ") +
		footerKeyStyle.Render("ctrl+p") + footerDescStyle.Render(" priority  ") +
		footerKeyStyle.Render("esc") + footerDescStyle.Render(" cancel"))

	if m.statusMsg != "" {
		b.WriteString("\n" + errorStyle.Render(m.statusMsg))
	}
	return b.String()
}
