package cli

import (
	"database/sql"
	"fmt"
	"io/fs"
	"os"

	"github.com/radicool/habitkeep/internal/backup"
	"github.com/radicool/habitkeep/internal/migration"
	"github.com/radicool/habitkeep/internal/prefs"
	"github.com/radicool/habitkeep/internal/storage/sqlite"
	"github.com/radicool/habitkeep/internal/tui"
	"github.com/radicool/habitkeep/migrations"
)

type InitCmd struct {
	Force bool `help:"Force reset by deleting existing databases before initialization."`
}

func (c *InitCmd) Run(ctx *Context) error {
	if c.Force {
		for _, path := range []string{ctx.Habits.GetPath(), ctx.Completions.GetPath()} {
			if _, err := os.Stat(path); err == nil {
				if err := os.Remove(path); err != nil {
					return fmt.Errorf("failed to delete existing database: %w", err)
				}
				fmt.Printf("Deleted existing database at: %s\n", path)
			} else if !os.IsNotExist(err) {
				return fmt.Errorf("failed to access existing database: %w", err)
			}
		}
	}

	if err := ctx.Habits.Init(); err != nil {
		return err
	}
	if err := ctx.Completions.Init(); err != nil {
		return err
	}
	if _, err := prefs.Load(ctx.DataDir); err != nil {
		return err
	}

	fmt.Printf("Initialized habitkeep storage at: %s\n", ctx.DataDir)
	return nil
}

type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx *Context) error {
	total := 0
	for _, target := range migrationTargets(ctx) {
		if target.db == nil {
			return fmt.Errorf("database connection is nil")
		}

		subFS, err := fs.Sub(migrations.FS, target.dir)
		if err != nil {
			return err
		}

		fmt.Printf("Migrating %s...\n", target.name)
		runner := migration.NewRunner(target.db, subFS)
		count, err := runner.ApplyMigrations(func(msg string) {
			fmt.Println("  " + msg)
		})
		if err != nil {
			return fmt.Errorf("migration failed for %s: %w", target.name, err)
		}
		total += count
	}

	if total == 0 {
		fmt.Println("No migrations to apply. Databases are up to date.")
	} else {
		fmt.Printf("\nSuccessfully applied %d migration(s).\n", total)
	}
	return nil
}

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false

	// Check 1: schema versions valid
	for _, target := range migrationTargets(ctx) {
		subFS, err := fs.Sub(migrations.FS, target.dir)
		if err != nil {
			return err
		}
		if err := migration.NewRunner(target.db, subFS).ValidateVersion(); err != nil {
			fmt.Printf("❌ Schema version (%s): FAIL\n", target.name)
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Schema version (%s): OK\n", target.name)
		}
	}

	// Check 2: orphaned completions. The completion log lives in a separate
	// file, so a crash between a habit delete and its completion purge can
	// leave rows behind.
	if orphans, err := countOrphanedCompletions(ctx); err != nil {
		fmt.Printf("❌ Orphaned completions: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else if orphans > 0 {
		fmt.Printf("⚠ Orphaned completions: WARNING\n")
		fmt.Printf("   %d completion(s) reference habits that no longer exist\n", orphans)
	} else {
		fmt.Printf("✓ Orphaned completions: OK\n")
	}

	// Check 3: backups present (warning only)
	mgr := backup.NewManager(ctx.Habits.GetPath(), ctx.Completions.GetPath())
	if backups, err := mgr.ListBackups(); err != nil {
		fmt.Printf("⚠ Backups present: WARNING\n")
		fmt.Printf("   %v\n", err)
	} else if len(backups) == 0 {
		fmt.Printf("⚠ Backups present: WARNING\n")
		fmt.Printf("   No backups found. Run 'habitkeep backup create'\n")
	} else {
		fmt.Printf("✓ Backups present: OK\n")
	}

	fmt.Println()
	if hasError {
		return fmt.Errorf("diagnostics found problems")
	}
	fmt.Println("All checks passed.")
	return nil
}

type migrationTarget struct {
	name string
	dir  string
	db   *sql.DB
}

// migrationTargets pairs each database connection with its embedded
// migration directory. Only the SQLite stores expose their connections.
func migrationTargets(ctx *Context) []migrationTarget {
	var targets []migrationTarget
	if s, ok := ctx.Habits.(*sqlite.Store); ok {
		targets = append(targets, migrationTarget{name: "habit definitions", dir: "habits", db: s.GetDB()})
	}
	if s, ok := ctx.Completions.(*sqlite.CompletionStore); ok {
		targets = append(targets, migrationTarget{name: "completions", dir: "completions", db: s.GetDB()})
	}
	return targets
}

func countOrphanedCompletions(ctx *Context) (int, error) {
	habits, err := ctx.Tracker.GetAllHabits()
	if err != nil {
		return 0, err
	}
	known := make(map[int64]bool, len(habits))
	for _, h := range habits {
		known[h.ID] = true
	}

	completions, err := ctx.Tracker.GetAllCompletions()
	if err != nil {
		return 0, err
	}

	orphans := 0
	for _, comp := range completions {
		if !known[comp.HabitID] {
			orphans++
		}
	}
	return orphans, nil
}

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *Context) error {
	return tui.Run(ctx.Tracker, ctx.Settings, ctx.DataDir)
}
