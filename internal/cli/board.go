package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/taskdeck/taskdeck/internal/board"
	"github.com/taskdeck/taskdeck/internal/store"
)

// ANSI color codes.
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorCyan   = "\033[36m"
	colorWhite  = "\033[37m"
)

var (
	boardProject  string
	boardEpic     string
	boardHideDone bool
)

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Print the kanban board",
	RunE:  runBoard,
}

func init() {
	boardCmd.Flags().StringVarP(&boardProject, "project", "p", "", "Only show tasks under this project")
	boardCmd.Flags().StringVarP(&boardEpic, "epic", "e", "", "Only show tasks in this epic")
	boardCmd.Flags().BoolVar(&boardHideDone, "hide-done", false, "Hide the done column")
}

var columnColors = map[store.ColumnID]string{
	store.ColumnBacklog:    colorWhite,
	store.ColumnInProgress: colorBlue,
	store.ColumnReview:     colorYellow,
	store.ColumnDone:       colorGreen,
}

func runBoard(cmd *cobra.Command, args []string) error {
	b, cleanup, err := newBackend()
	if err != nil {
		return err
	}
	defer cleanup()
	ctx := context.Background()

	tasks, err := b.ListTasks(ctx)
	if err != nil {
		return err
	}
	epics, err := b.ListEpics(ctx)
	if err != nil {
		return err
	}

	var filter board.Filter
	if boardProject != "" {
		projects, err := b.ListProjects(ctx)
		if err != nil {
			return err
		}
		project, err := resolveProject(projects, boardProject)
		if err != nil {
			return err
		}
		filter.SelectProject(&project.ID)
	}
	if boardEpic != "" {
		epic, err := resolveEpic(board.EpicsForProject(epics, filter.ProjectID), boardEpic)
		if err != nil {
			return err
		}
		filter.SelectEpic(&epic.ID)
	}
	filter.HideCompleted = boardHideDone

	if len(tasks) == 0 {
		fmt.Printf("%sBoard is empty.%s Create a task: %staskdeck task create \"description\"%s\n",
			colorDim, colorReset, colorCyan, colorReset)
		return nil
	}

	columns := board.VisibleColumns(filter.HideCompleted)
	byColumn := make(map[store.ColumnID][]store.Task, len(columns))
	visible := 0
	for _, c := range columns {
		byColumn[c.ID] = board.Visible(tasks, epics, filter, c.ID)
		visible += len(byColumn[c.ID])
	}

	// Header row.
	colWidth := 26
	headerLine := ""
	sepLine := ""
	for _, c := range columns {
		count := len(byColumn[c.ID])
		label := strings.ToUpper(c.Title)
		header := fmt.Sprintf(" %s%s%s (%d)", columnColors[c.ID]+colorBold, label, colorReset, count)
		// pad by visible length, ANSI codes add bytes
		visibleLen := len(fmt.Sprintf(" %s (%d)", label, count))
		padding := colWidth - visibleLen
		if padding < 0 {
			padding = 0
		}
		headerLine += header + strings.Repeat(" ", padding)
		sepLine += strings.Repeat("─", colWidth)
	}
	fmt.Println(headerLine)
	fmt.Println(colorDim + sepLine + colorReset)

	maxRows := 0
	for _, c := range columns {
		if len(byColumn[c.ID]) > maxRows {
			maxRows = len(byColumn[c.ID])
		}
	}

	epicNames := map[string]string{}
	for _, e := range epics {
		epicNames[e.ID] = e.Name
	}

	for i := 0; i < maxRows; i++ {
		line := ""
		for _, c := range columns {
			colTasks := byColumn[c.ID]
			if i < len(colTasks) {
				t := colTasks[i]
				title := truncate(t.Title, colWidth-4)
				card := fmt.Sprintf(" %s%s%s %s", priorityColor(t.Priority), "●", colorReset, title)
				visibleLen := len(" ● " + title)
				padding := colWidth - visibleLen
				if padding < 0 {
					padding = 0
				}
				line += card + strings.Repeat(" ", padding)
			} else {
				line += strings.Repeat(" ", colWidth)
			}
		}
		fmt.Println(line)

		detailLine := ""
		for _, c := range columns {
			colTasks := byColumn[c.ID]
			detail := ""
			visibleDetail := ""
			if i < len(colTasks) {
				t := colTasks[i]
				if t.EpicID != nil {
					if name, ok := epicNames[*t.EpicID]; ok {
						name = truncate(name, colWidth-7)
						detail = fmt.Sprintf("    %s[%s]%s", colorCyan, name, colorReset)
						visibleDetail = fmt.Sprintf("    [%s]", name)
					}
				}
			}
			padding := colWidth - len(visibleDetail)
			if padding < 0 {
				padding = 0
			}
			detailLine += detail + strings.Repeat(" ", padding)
		}
		fmt.Println(detailLine)
	}

	// Summary line.
	fmt.Println()
	fmt.Printf("%s%d tasks shown%s", colorBold, visible, colorReset)
	if hidden := len(tasks) - visible; hidden > 0 {
		fmt.Printf("  %s%d filtered out%s", colorDim, hidden, colorReset)
	}
	fmt.Println()

	return nil
}

func priorityColor(priority store.Priority) string {
	switch priority {
	case store.PriorityHigh:
		return colorRed + colorBold
	case store.PriorityMedium:
		return colorYellow
	case store.PriorityLow:
		return colorDim
	default:
		return ""
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
