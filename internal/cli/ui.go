package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/taskdeck/taskdeck/internal/tui"
)

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Open the interactive board",
	Long:  "Opens the kanban board in the terminal. Cards can be dragged between columns with the mouse.",
	RunE:  runUI,
}

func runUI(cmd *cobra.Command, args []string) error {
	b, cleanup, err := newBackend()
	if err != nil {
		return err
	}
	defer cleanup()

	model := tui.New(b)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
