package cli

import (
	"github.com/spf13/cobra"
)

var (
	remoteURL      string
	remotePasscode string
)

var rootCmd = &cobra.Command{
	Use:   "taskdeck",
	Short: "Kanban board for small teams",
	Long:  "taskdeck — a kanban task tracker with projects, epics and notifications.\nRuns against a local database or a shared taskdeck server.",
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&remoteURL, "remote", "", "taskdeck server URL (default: local database)")
	rootCmd.PersistentFlags().StringVar(&remotePasscode, "passcode", "", "passcode for the remote server")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(uiCmd)
	rootCmd.AddCommand(boardCmd)
	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(epicCmd)
	rootCmd.AddCommand(projectCmd)
}
