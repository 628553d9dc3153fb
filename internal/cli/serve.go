package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/taskdeck/taskdeck/internal/notify"
	"github.com/taskdeck/taskdeck/internal/server"
)

var serveListen string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the taskdeck API server",
	Long:  "Serves the board over HTTP so multiple clients can share one database.\nSet a passcode in .taskdeck/config.yaml (or TASKDECK_PASSCODE) to require auth.",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveListen, "listen", "l", "", "Listen address (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	s, err := mustStore()
	if err != nil {
		return err
	}
	defer s.Close()

	cfg := loadConfig()
	addr := cfg.Listen
	if serveListen != "" {
		addr = serveListen
	}

	d := notify.New(cfg.Notify)
	defer d.Wait()

	srv := server.New(s, d, cfg.Passcode)
	fmt.Printf("taskdeck server listening on %s\n", addr)
	if cfg.Passcode != "" {
		fmt.Println("passcode auth enabled")
	}
	return srv.ListenAndServe(addr)
}
