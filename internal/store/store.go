package store

import (
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when the target record does not exist.
// Callers can distinguish it from transport or driver failures with
// errors.Is.
var ErrNotFound = errors.New("record not found")

// ErrValidation is returned when a required field is missing or a value
// is outside its allowed set.
var ErrValidation = errors.New("invalid field")

// Store provides access to the taskdeck database.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the SQLite database at the given path.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Enable WAL mode for better concurrent access.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS projects (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		color       TEXT NOT NULL DEFAULT '',
		position    INTEGER NOT NULL DEFAULT 0,
		created_at  DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS epics (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		color       TEXT NOT NULL DEFAULT '',
		position    INTEGER NOT NULL DEFAULT 0,
		project_id  TEXT REFERENCES projects(id),
		created_at  DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS tasks (
		id          TEXT PRIMARY KEY,
		title       TEXT NOT NULL,
		description TEXT DEFAULT '',
		priority    TEXT NOT NULL DEFAULT 'medium',
		column_id   TEXT NOT NULL DEFAULT 'backlog',
		epic_id     TEXT REFERENCES epics(id),
		pr_url      TEXT DEFAULT '',
		created_at  DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS comments (
		id          TEXT PRIMARY KEY,
		task_id     TEXT NOT NULL REFERENCES tasks(id),
		content     TEXT NOT NULL,
		author      TEXT NOT NULL DEFAULT '',
		created_at  DATETIME NOT NULL
	);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return err
	}

	// Migrate existing databases: add new columns if missing.
	s.addColumnIfMissing("tasks", "pr_url", "TEXT DEFAULT ''")
	s.addColumnIfMissing("epics", "project_id", "TEXT REFERENCES projects(id)")

	return nil
}

// addColumnIfMissing adds a column to a table if it doesn't exist yet.
// Used for schema migrations on existing databases.
func (s *Store) addColumnIfMissing(table, column, colDef string) {
	rows, err := s.db.Query("PRAGMA table_info(" + table + ")")
	if err != nil {
		return
	}
	defer rows.Close()

	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull int
		var dfltValue *string
		var pk int
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dfltValue, &pk); err != nil {
			return
		}
		if name == column {
			return // Column already exists.
		}
	}

	s.db.Exec("ALTER TABLE " + table + " ADD COLUMN " + column + " " + colDef)
}

// nextPosition returns the display position for a new row in table:
// one past the current row count.
func (s *Store) nextPosition(table string) int {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		return 0
	}
	return n
}
