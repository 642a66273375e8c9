package backup

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/radicool/habitkeep/internal/constants"
	"github.com/radicool/habitkeep/internal/storage/sqlite"
)

func newTestDatabases(t *testing.T) (string, string, string) {
	t.Helper()
	dir := t.TempDir()

	habitsPath := filepath.Join(dir, constants.HabitsDBName)
	habits := sqlite.NewStore(habitsPath)
	if err := habits.Init(); err != nil {
		t.Fatalf("Failed to initialize habits store: %v", err)
	}
	habits.Close()

	completionsPath := filepath.Join(dir, constants.CompletionsDBName)
	completions := sqlite.NewCompletionStore(completionsPath)
	if err := completions.Init(); err != nil {
		t.Fatalf("Failed to initialize completions store: %v", err)
	}
	completions.Close()

	return dir, habitsPath, completionsPath
}

func TestCreateBackupSnapshotsBothDatabases(t *testing.T) {
	dir, habitsPath, completionsPath := newTestDatabases(t)
	mgr := NewManager(habitsPath, completionsPath)

	created, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("Failed to create backup: %v", err)
	}
	if len(created) != 2 {
		t.Fatalf("Got %d backup files, want 2", len(created))
	}
	for _, path := range created {
		info, err := os.Stat(path)
		if err != nil {
			t.Errorf("Backup file missing: %v", err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("Backup file %s is empty", path)
		}
	}

	if mgr.GetBackupDir() != filepath.Join(dir, constants.BackupDirName) {
		t.Errorf("Backup dir = %q, want inside the data directory", mgr.GetBackupDir())
	}
}

func TestCreateBackupMissingDatabase(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "nope.db"))

	if _, err := mgr.CreateBackup(); err == nil {
		t.Error("Expected error for missing source database")
	}
}

func TestListBackups(t *testing.T) {
	_, habitsPath, completionsPath := newTestDatabases(t)
	mgr := NewManager(habitsPath, completionsPath)

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("Failed to list backups: %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("Got %d backups before creating any, want 0", len(backups))
	}

	if _, err := mgr.CreateBackup(); err != nil {
		t.Fatalf("Failed to create backup: %v", err)
	}

	backups, err = mgr.ListBackups()
	if err != nil {
		t.Fatalf("Failed to list backups: %v", err)
	}
	if len(backups) != 2 {
		t.Fatalf("Got %d backups, want 2", len(backups))
	}

	sources := map[string]bool{}
	for _, b := range backups {
		sources[b.Source] = true
	}
	if !sources["habits_data"] || !sources["habit_completions"] {
		t.Errorf("Got sources %v, want habits_data and habit_completions", sources)
	}
}

func TestParseBackupName(t *testing.T) {
	tests := []struct {
		name       string
		wantSource string
		wantOK     bool
	}{
		{"habitkeep-habits_data-20250830-120000.db", "habits_data", true},
		{"habitkeep-habit_completions-20250830-120000-2.db", "habit_completions", true},
		{"habitkeep-20250830-120000.db", "", false},
		{"habitkeep-habits_data-garbage.db", "", false},
		{"habitkeep-.db", "", false},
	}

	for _, tt := range tests {
		source, _, ok := parseBackupName(tt.name)
		if ok != tt.wantOK {
			t.Errorf("parseBackupName(%q) ok = %v, want %v", tt.name, ok, tt.wantOK)
			continue
		}
		if ok && source != tt.wantSource {
			t.Errorf("parseBackupName(%q) source = %q, want %q", tt.name, source, tt.wantSource)
		}
	}
}

func TestRotateBackupsPerSource(t *testing.T) {
	_, habitsPath, completionsPath := newTestDatabases(t)
	mgr := NewManager(habitsPath, completionsPath)
	if err := mgr.ensureBackupDir(); err != nil {
		t.Fatalf("Failed to create backup dir: %v", err)
	}

	// Rotation only inspects names, so plain files stand in for snapshots.
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < constants.MaxBackups+3; i++ {
		stamp := base.Add(time.Duration(i) * time.Hour).Format("20060102-150405")
		name := fmt.Sprintf("%shabits_data-%s%s", constants.BackupFilePrefix, stamp, constants.BackupFileSuffix)
		if err := os.WriteFile(filepath.Join(mgr.GetBackupDir(), name), []byte("x"), 0600); err != nil {
			t.Fatalf("Failed to write fake backup: %v", err)
		}
	}

	if err := mgr.rotateBackups(); err != nil {
		t.Fatalf("Failed to rotate backups: %v", err)
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("Failed to list backups: %v", err)
	}
	if len(backups) != constants.MaxBackups {
		t.Errorf("Got %d backups after rotation, want %d", len(backups), constants.MaxBackups)
	}
	// The newest survive.
	newest := base.Add(time.Duration(constants.MaxBackups+2) * time.Hour)
	if !backups[0].Timestamp.Equal(newest) {
		t.Errorf("Newest backup timestamp = %v, want %v", backups[0].Timestamp, newest)
	}
}

func TestRestoreBackup(t *testing.T) {
	_, habitsPath, completionsPath := newTestDatabases(t)
	mgr := NewManager(habitsPath, completionsPath)

	created, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("Failed to create backup: %v", err)
	}

	var habitsBackup string
	for _, path := range created {
		if source, _, _ := parseBackupName(filepath.Base(path)); source == "habits_data" {
			habitsBackup = path
		}
	}
	if habitsBackup == "" {
		t.Fatal("No habits backup created")
	}

	if err := mgr.RestoreBackup(habitsBackup); err != nil {
		t.Fatalf("Failed to restore backup: %v", err)
	}

	// The restored file must load as a valid store.
	s := sqlite.NewStore(habitsPath)
	if err := s.Load(); err != nil {
		t.Errorf("Restored database failed to load: %v", err)
	}
	s.Close()
}

func TestRestoreBackupUnknownSource(t *testing.T) {
	_, habitsPath, completionsPath := newTestDatabases(t)
	mgr := NewManager(habitsPath, completionsPath)

	stray := filepath.Join(t.TempDir(), "habitkeep-other-20250830-120000.db")
	if err := os.WriteFile(stray, []byte("x"), 0600); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	if err := mgr.RestoreBackup(stray); err == nil {
		t.Error("Expected error for backup that matches no managed database")
	}
}
