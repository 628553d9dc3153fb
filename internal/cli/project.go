package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/taskdeck/taskdeck/internal/store"
)

var projectColor string

// projectAdmin is the extra surface project commands need beyond
// board.Backend. Both the local and remote clients provide it.
type projectAdmin interface {
	CreateProject(ctx context.Context, name, color string) (*store.Project, error)
	DeleteProject(ctx context.Context, id string) error
}

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Create or manage projects",
	Long:  "Projects are the top-level grouping. Epics belong to projects; deleting a project detaches its epics.",
}

var projectCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a new project",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runProjectCreate,
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects",
	RunE:  runProjectList,
}

var projectDeleteCmd = &cobra.Command{
	Use:   "delete [project]",
	Short: "Delete a project, detaching its epics",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectDelete,
}

func init() {
	projectCreateCmd.Flags().StringVarP(&projectColor, "color", "c", "", "Display color (hex)")

	projectCmd.AddCommand(projectCreateCmd)
	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectDeleteCmd)
}

func runProjectCreate(cmd *cobra.Command, args []string) error {
	b, cleanup, err := newBackend()
	if err != nil {
		return err
	}
	defer cleanup()

	admin, ok := b.(projectAdmin)
	if !ok {
		return fmt.Errorf("backend does not support project management")
	}

	project, err := admin.CreateProject(context.Background(), strings.Join(args, " "), projectColor)
	if err != nil {
		return err
	}
	fmt.Printf("Created project %s: %s\n", shortID(project.ID), project.Name)
	return nil
}

func runProjectList(cmd *cobra.Command, args []string) error {
	b, cleanup, err := newBackend()
	if err != nil {
		return err
	}
	defer cleanup()

	projects, err := b.ListProjects(context.Background())
	if err != nil {
		return err
	}
	if len(projects) == 0 {
		fmt.Println("No projects found.")
		return nil
	}
	for _, p := range projects {
		fmt.Printf("%-8s %s\n", shortID(p.ID), p.Name)
	}
	return nil
}

func runProjectDelete(cmd *cobra.Command, args []string) error {
	b, cleanup, err := newBackend()
	if err != nil {
		return err
	}
	defer cleanup()
	ctx := context.Background()

	projects, err := b.ListProjects(ctx)
	if err != nil {
		return err
	}
	project, err := resolveProject(projects, args[0])
	if err != nil {
		return err
	}

	admin, ok := b.(projectAdmin)
	if !ok {
		return fmt.Errorf("backend does not support project management")
	}
	if err := admin.DeleteProject(ctx, project.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted project %s — its epics are now detached\n", project.Name)
	return nil
}
