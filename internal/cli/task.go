package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/taskdeck/taskdeck/internal/store"
)

var (
	taskPriority    string
	taskDescription string
	taskColumn      string
	taskEpic        string
	taskPRURL       string
	commentAuthor   string
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Create or manage tasks",
	Long:  "Create a new task or manage existing ones on the board.",
}

var taskCreateCmd = &cobra.Command{
	Use:   "create [title]",
	Short: "Create a new task",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTaskCreate,
}

var taskListCmd = &cobra.Command{
	Use:   "list [column]",
	Short: "List tasks, optionally filtered by column",
	RunE:  runTaskList,
}

var taskShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show task details and comments",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskShow,
}

var taskMoveCmd = &cobra.Command{
	Use:   "move [id] [column]",
	Short: "Move a task to another column",
	Args:  cobra.ExactArgs(2),
	RunE:  runTaskMove,
}

var taskEditCmd = &cobra.Command{
	Use:   "edit [id]",
	Short: "Edit task fields",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskEdit,
}

var taskDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a task and its comments",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskDelete,
}

var taskCommentCmd = &cobra.Command{
	Use:   "comment [id] [text]",
	Short: "Comment on a task",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runTaskComment,
}

func init() {
	taskCreateCmd.Flags().StringVarP(&taskPriority, "priority", "p", "", "Priority: high, medium, low")
	taskCreateCmd.Flags().StringVarP(&taskDescription, "desc", "d", "", "Task description")
	taskCreateCmd.Flags().StringVarP(&taskEpic, "epic", "e", "", "Epic to assign the task to")

	taskEditCmd.Flags().StringVarP(&taskPriority, "priority", "p", "", "New priority")
	taskEditCmd.Flags().StringVarP(&taskDescription, "desc", "d", "", "New description")
	taskEditCmd.Flags().StringVarP(&taskEpic, "epic", "e", "", "New epic (use 'none' to unassign)")
	taskEditCmd.Flags().StringVarP(&taskColumn, "column", "c", "", "New column")
	taskEditCmd.Flags().StringVar(&taskPRURL, "pr", "", "Pull request URL")

	taskCommentCmd.Flags().StringVarP(&commentAuthor, "author", "a", "", "Comment author")

	taskCmd.AddCommand(taskCreateCmd)
	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskShowCmd)
	taskCmd.AddCommand(taskMoveCmd)
	taskCmd.AddCommand(taskEditCmd)
	taskCmd.AddCommand(taskDeleteCmd)
	taskCmd.AddCommand(taskCommentCmd)
}

func runTaskCreate(cmd *cobra.Command, args []string) error {
	b, cleanup, err := newBackend()
	if err != nil {
		return err
	}
	defer cleanup()
	ctx := context.Background()

	draft := store.TaskDraft{
		Title:       strings.Join(args, " "),
		Description: taskDescription,
		Priority:    store.Priority(taskPriority),
	}
	if taskEpic != "" {
		epics, err := b.ListEpics(ctx)
		if err != nil {
			return err
		}
		epic, err := resolveEpic(epics, taskEpic)
		if err != nil {
			return err
		}
		draft.EpicID = &epic.ID
	}

	task, err := b.CreateTask(ctx, draft)
	if err != nil {
		return err
	}

	fmt.Printf("Created task %s: %s [%s]\n", shortID(task.ID), task.Title, task.Priority)
	return nil
}

func runTaskList(cmd *cobra.Command, args []string) error {
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
	if len(args) > 0 {
		column := store.ColumnID(args[0])
		if !store.ValidColumn(column) {
			return fmt.Errorf("unknown column %q (backlog, in-progress, review, done)", args[0])
		}
		var filtered []store.Task
		for _, t := range tasks {
			if t.ColumnID == column {
				filtered = append(filtered, t)
			}
		}
		tasks = filtered
	}

	if len(tasks) == 0 {
		fmt.Println("No tasks found.")
		return nil
	}

	epicNames := map[string]string{}
	if epics, err := b.ListEpics(ctx); err == nil {
		for _, e := range epics {
			epicNames[e.ID] = e.Name
		}
	}

	for _, t := range tasks {
		epic := ""
		if t.EpicID != nil {
			if name, ok := epicNames[*t.EpicID]; ok {
				epic = " [" + name + "]"
			}
		}
		fmt.Printf("%-8s %-12s %-6s %s%s\n", shortID(t.ID), t.ColumnID, t.Priority, t.Title, epic)
	}
	return nil
}

func runTaskShow(cmd *cobra.Command, args []string) error {
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
	task, err := resolveTask(tasks, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Task %s\n", task.ID)
	fmt.Printf("  Title:    %s\n", task.Title)
	fmt.Printf("  Column:   %s\n", task.ColumnID)
	fmt.Printf("  Priority: %s\n", task.Priority)
	if task.Description != "" {
		fmt.Printf("  Desc:     %s\n", task.Description)
	}
	if task.EpicID != nil {
		name := *task.EpicID
		if epics, err := b.ListEpics(ctx); err == nil {
			if e, err := resolveEpic(epics, *task.EpicID); err == nil {
				name = e.Name
			}
		}
		fmt.Printf("  Epic:     %s\n", name)
	}
	if task.PRURL != "" {
		fmt.Printf("  PR:       %s\n", task.PRURL)
	}
	fmt.Printf("  Created:  %s\n", task.CreatedAt.Format("2006-01-02 15:04"))

	comments, err := b.ListComments(ctx, task.ID)
	if err != nil {
		return err
	}
	if len(comments) > 0 {
		fmt.Println("\n  Comments:")
		for _, c := range comments {
			author := c.Author
			if author == "" {
				author = "anonymous"
			}
			fmt.Printf("    %s [%s] %s\n", c.CreatedAt.Format("Jan 2 15:04"), author, c.Content)
		}
	}
	return nil
}

func runTaskMove(cmd *cobra.Command, args []string) error {
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
	task, err := resolveTask(tasks, args[0])
	if err != nil {
		return err
	}

	column := store.ColumnID(args[1])
	if !store.ValidColumn(column) {
		return fmt.Errorf("unknown column %q (backlog, in-progress, review, done)", args[1])
	}

	if _, err := b.UpdateTask(ctx, task.ID, store.TaskPatch{ColumnID: &column}); err != nil {
		return err
	}
	fmt.Printf("Moved %s: %s → %s\n", task.Title, task.ColumnID, column)
	return nil
}

func runTaskEdit(cmd *cobra.Command, args []string) error {
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
	task, err := resolveTask(tasks, args[0])
	if err != nil {
		return err
	}

	var patch store.TaskPatch
	if cmd.Flags().Changed("desc") {
		patch.Description = &taskDescription
	}
	if cmd.Flags().Changed("priority") {
		p := store.Priority(taskPriority)
		patch.Priority = &p
	}
	if cmd.Flags().Changed("column") {
		c := store.ColumnID(taskColumn)
		patch.ColumnID = &c
	}
	if cmd.Flags().Changed("pr") {
		patch.PRURL = &taskPRURL
	}
	if cmd.Flags().Changed("epic") {
		if taskEpic == "none" {
			none := ""
			patch.EpicID = &none
		} else {
			epics, err := b.ListEpics(ctx)
			if err != nil {
				return err
			}
			epic, err := resolveEpic(epics, taskEpic)
			if err != nil {
				return err
			}
			patch.EpicID = &epic.ID
		}
	}

	updated, err := b.UpdateTask(ctx, task.ID, patch)
	if err != nil {
		return err
	}
	fmt.Printf("Updated task %s: %s\n", shortID(updated.ID), updated.Title)
	return nil
}

func runTaskDelete(cmd *cobra.Command, args []string) error {
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
	task, err := resolveTask(tasks, args[0])
	if err != nil {
		return err
	}

	if err := b.DeleteTask(ctx, task.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted task: %s\n", task.Title)
	return nil
}

func runTaskComment(cmd *cobra.Command, args []string) error {
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
	task, err := resolveTask(tasks, args[0])
	if err != nil {
		return err
	}

	content := strings.Join(args[1:], " ")
	if _, err := b.CreateComment(ctx, task.ID, content, commentAuthor); err != nil {
		return err
	}
	fmt.Printf("Commented on %s\n", task.Title)
	return nil
}
