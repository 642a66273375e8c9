package sqlite

import (
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/radicool/habitkeep/internal/migration"
	"github.com/radicool/habitkeep/migrations"
)

// Store owns the habit-definitions database file: habits, preferred_times,
// bonus_codes, and accounts.
type Store struct {
	path string
	db   *sql.DB
}

func NewStore(path string) *Store {
	return &Store{
		path: path,
	}
}

func (s *Store) Init() error {
	return s.open("habits", true)
}

func (s *Store) Load() error {
	if s.db != nil {
		return nil
	}
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run 'habitkeep init' first")
	}
	return s.open("habits", false)
}

func (s *Store) open(migrationDir string, migrate bool) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	subFS, err := fs.Sub(migrations.FS, migrationDir)
	if err != nil {
		return fmt.Errorf("failed to access %s migrations: %w", migrationDir, err)
	}
	runner := migration.NewRunner(db, subFS)

	if migrate {
		if _, err := runner.ApplyMigrations(nil); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		return nil
	}
	return runner.ValidateVersion()
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) GetPath() string {
	return s.path
}

// GetDB returns the underlying database connection. Callers should use
// Init or Load first.
func (s *Store) GetDB() *sql.DB {
	return s.db
}

// isUniqueViolation reports whether err is a SQLite unique-constraint
// failure. The modernc driver surfaces these only through the message text.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
