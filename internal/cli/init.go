package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/taskdeck/taskdeck/internal/config"
	"github.com/taskdeck/taskdeck/internal/store"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize taskdeck in the current directory",
	Long:  "Creates a .taskdeck/ directory with default config and database.",
	RunE:  runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(deckDirName); err == nil {
		return fmt.Errorf("taskdeck already initialized in this directory (.taskdeck/ exists)")
	}

	if err := os.MkdirAll(deckDirName, 0755); err != nil {
		return fmt.Errorf("create %s: %w", deckDirName, err)
	}

	if err := config.Save(deckPath("config.yaml"), config.DefaultConfig()); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	// Opening the store runs the migration.
	s, err := store.New(deckPath("taskdeck.db"))
	if err != nil {
		return fmt.Errorf("create database: %w", err)
	}
	s.Close()

	fmt.Println("Initialized taskdeck in .taskdeck/")
	fmt.Println("")
	fmt.Println("Next steps:")
	fmt.Println("  1. Edit .taskdeck/config.yaml to configure notifications")
	fmt.Println("  2. Run: taskdeck task create \"your first task\"")
	fmt.Println("  3. Run: taskdeck ui")

	return nil
}
