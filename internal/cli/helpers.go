package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/taskdeck/taskdeck/internal/board"
	"github.com/taskdeck/taskdeck/internal/client"
	"github.com/taskdeck/taskdeck/internal/config"
	"github.com/taskdeck/taskdeck/internal/notify"
	"github.com/taskdeck/taskdeck/internal/store"
)

const deckDirName = ".taskdeck"

// deckPath returns the path to a file inside .taskdeck/.
func deckPath(parts ...string) string {
	elems := append([]string{deckDirName}, parts...)
	return filepath.Join(elems...)
}

// mustStore opens the store, returning an error if taskdeck is not
// initialized here.
func mustStore() (*store.Store, error) {
	dbPath := deckPath("taskdeck.db")
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("taskdeck not initialized. Run: taskdeck init")
	}
	return store.New(dbPath)
}

// loadConfig reads .taskdeck/config.yaml, falling back to defaults when
// the file is absent.
func loadConfig() *config.Config {
	cfg, err := config.Load(deckPath("config.yaml"))
	if err != nil {
		return config.DefaultConfig()
	}
	return cfg
}

// newBackend returns the backend the command should run against: the
// remote server when --remote is set, the local database otherwise.
// The cleanup func flushes notifications and closes the store.
func newBackend() (board.Backend, func(), error) {
	if remoteURL != "" {
		return client.NewRemote(remoteURL, remotePasscode), func() {}, nil
	}

	s, err := mustStore()
	if err != nil {
		return nil, nil, err
	}
	local := client.NewLocal(s, notify.New(loadConfig().Notify))
	cleanup := func() {
		local.Wait()
		s.Close()
	}
	return local, cleanup, nil
}

// resolveTask finds one task by id or unique id prefix.
func resolveTask(tasks []store.Task, arg string) (*store.Task, error) {
	var match *store.Task
	for i := range tasks {
		if tasks[i].ID == arg {
			return &tasks[i], nil
		}
		if strings.HasPrefix(tasks[i].ID, arg) {
			if match != nil {
				return nil, fmt.Errorf("task id %q is ambiguous", arg)
			}
			match = &tasks[i]
		}
	}
	if match == nil {
		return nil, fmt.Errorf("no task matches %q", arg)
	}
	return match, nil
}

// resolveEpic finds one epic by id, unique id prefix, or exact name.
func resolveEpic(epics []store.Epic, arg string) (*store.Epic, error) {
	var match *store.Epic
	for i := range epics {
		if epics[i].ID == arg || epics[i].Name == arg {
			return &epics[i], nil
		}
		if strings.HasPrefix(epics[i].ID, arg) {
			if match != nil {
				return nil, fmt.Errorf("epic %q is ambiguous", arg)
			}
			match = &epics[i]
		}
	}
	if match == nil {
		return nil, fmt.Errorf("no epic matches %q", arg)
	}
	return match, nil
}

// resolveProject finds one project by id, unique id prefix, or exact name.
func resolveProject(projects []store.Project, arg string) (*store.Project, error) {
	var match *store.Project
	for i := range projects {
		if projects[i].ID == arg || projects[i].Name == arg {
			return &projects[i], nil
		}
		if strings.HasPrefix(projects[i].ID, arg) {
			if match != nil {
				return nil, fmt.Errorf("project %q is ambiguous", arg)
			}
			match = &projects[i]
		}
	}
	if match == nil {
		return nil, fmt.Errorf("no project matches %q", arg)
	}
	return match, nil
}

// shortID trims a UUID down to a readable prefix for listings.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
