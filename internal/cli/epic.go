package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/taskdeck/taskdeck/internal/store"
)

var (
	epicColor   string
	epicProject string
)

var epicCmd = &cobra.Command{
	Use:   "epic",
	Short: "Create or manage epics",
	Long:  "Epics group related tasks, optionally under a project.",
}

var epicCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a new epic",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runEpicCreate,
}

var epicListCmd = &cobra.Command{
	Use:   "list",
	Short: "List epics",
	RunE:  runEpicList,
}

var epicAssignCmd = &cobra.Command{
	Use:   "assign [epic] [project]",
	Short: "Assign an epic to a project (use 'none' to detach)",
	Args:  cobra.ExactArgs(2),
	RunE:  runEpicAssign,
}

var epicDeleteCmd = &cobra.Command{
	Use:   "delete [epic]",
	Short: "Delete an epic, unassigning its tasks",
	Args:  cobra.ExactArgs(1),
	RunE:  runEpicDelete,
}

func init() {
	epicCreateCmd.Flags().StringVarP(&epicColor, "color", "c", "", "Display color (hex)")
	epicCreateCmd.Flags().StringVarP(&epicProject, "project", "p", "", "Project to assign the epic to")

	epicCmd.AddCommand(epicCreateCmd)
	epicCmd.AddCommand(epicListCmd)
	epicCmd.AddCommand(epicAssignCmd)
	epicCmd.AddCommand(epicDeleteCmd)
}

func runEpicCreate(cmd *cobra.Command, args []string) error {
	b, cleanup, err := newBackend()
	if err != nil {
		return err
	}
	defer cleanup()
	ctx := context.Background()

	var projectID *string
	if epicProject != "" {
		projects, err := b.ListProjects(ctx)
		if err != nil {
			return err
		}
		project, err := resolveProject(projects, epicProject)
		if err != nil {
			return err
		}
		projectID = &project.ID
	}

	epic, err := b.CreateEpic(ctx, strings.Join(args, " "), epicColor, projectID)
	if err != nil {
		return err
	}
	fmt.Printf("Created epic %s: %s\n", shortID(epic.ID), epic.Name)
	return nil
}

func runEpicList(cmd *cobra.Command, args []string) error {
	b, cleanup, err := newBackend()
	if err != nil {
		return err
	}
	defer cleanup()
	ctx := context.Background()

	epics, err := b.ListEpics(ctx)
	if err != nil {
		return err
	}
	if len(epics) == 0 {
		fmt.Println("No epics found.")
		return nil
	}

	projectNames := map[string]string{}
	if projects, err := b.ListProjects(ctx); err == nil {
		for _, p := range projects {
			projectNames[p.ID] = p.Name
		}
	}

	for _, e := range epics {
		project := ""
		if e.ProjectID != nil {
			if name, ok := projectNames[*e.ProjectID]; ok {
				project = " [" + name + "]"
			}
		}
		fmt.Printf("%-8s %s%s\n", shortID(e.ID), e.Name, project)
	}
	return nil
}

func runEpicAssign(cmd *cobra.Command, args []string) error {
	b, cleanup, err := newBackend()
	if err != nil {
		return err
	}
	defer cleanup()
	ctx := context.Background()

	epics, err := b.ListEpics(ctx)
	if err != nil {
		return err
	}
	epic, err := resolveEpic(epics, args[0])
	if err != nil {
		return err
	}

	var patch store.EpicPatch
	if args[1] == "none" {
		none := ""
		patch.ProjectID = &none
	} else {
		projects, err := b.ListProjects(ctx)
		if err != nil {
			return err
		}
		project, err := resolveProject(projects, args[1])
		if err != nil {
			return err
		}
		patch.ProjectID = &project.ID
	}

	if _, err := b.UpdateEpic(ctx, epic.ID, patch); err != nil {
		return err
	}
	if args[1] == "none" {
		fmt.Printf("Detached epic %s from its project\n", epic.Name)
	} else {
		fmt.Printf("Assigned epic %s to %s\n", epic.Name, args[1])
	}
	return nil
}

func runEpicDelete(cmd *cobra.Command, args []string) error {
	b, cleanup, err := newBackend()
	if err != nil {
		return err
	}
	defer cleanup()
	ctx := context.Background()

	epics, err := b.ListEpics(ctx)
	if err != nil {
		return err
	}
	epic, err := resolveEpic(epics, args[0])
	if err != nil {
		return err
	}

	if err := b.DeleteEpic(ctx, epic.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted epic %s — its tasks are now unassigned\n", epic.Name)
	return nil
}
