// Package backup snapshots the database files into a rotating backups
// directory. Both database files are snapshotted together so a restore
// pairs habit definitions with their completions.
package backup

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/radicool/habitkeep/internal/constants"
)

// Info describes a single backup file on disk.
type Info struct {
	Path      string
	Source    string
	Timestamp time.Time
	Size      int64
}

// Manager handles backup operations for a set of database files.
type Manager struct {
	dbPaths   []string
	backupDir string
}

// NewManager creates a manager for the given database files. Backups live
// in a sibling directory of the first database file.
func NewManager(dbPaths ...string) *Manager {
	configDir := filepath.Dir(dbPaths[0])
	return &Manager{
		dbPaths:   dbPaths,
		backupDir: filepath.Join(configDir, constants.BackupDirName),
	}
}

// GetBackupDir returns the backup directory path.
func (m *Manager) GetBackupDir() string {
	return m.backupDir
}

func (m *Manager) ensureBackupDir() error {
	return os.MkdirAll(m.backupDir, 0700)
}

// CreateBackup snapshots every managed database file. It returns the paths
// of the backups it created.
func (m *Manager) CreateBackup() ([]string, error) {
	return m.createBackup(false)
}

func (m *Manager) createBackup(skipRotation bool) ([]string, error) {
	if err := m.ensureBackupDir(); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}

	var created []string
	for _, dbPath := range m.dbPaths {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return created, fmt.Errorf("database does not exist: %s", dbPath)
		}

		backupPath, err := m.nextBackupPath(dbPath)
		if err != nil {
			return created, err
		}

		if err := backupDatabase(dbPath, backupPath); err != nil {
			return created, fmt.Errorf("failed to backup %s: %w", filepath.Base(dbPath), err)
		}
		created = append(created, backupPath)
	}

	if !skipRotation {
		if err := m.rotateBackups(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to rotate old backups: %v\n", err)
		}
	}

	return created, nil
}

// nextBackupPath generates a unique timestamped filename for dbPath, e.g.
// habitkeep-habits_data-20250830-153012.db.
func (m *Manager) nextBackupPath(dbPath string) (string, error) {
	source := strings.TrimSuffix(filepath.Base(dbPath), constants.BackupFileSuffix)
	timestamp := time.Now().Format("20060102-150405")

	name := fmt.Sprintf("%s%s-%s%s", constants.BackupFilePrefix, source, timestamp, constants.BackupFileSuffix)
	path := filepath.Join(m.backupDir, name)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path, nil
	}

	for counter := 1; counter <= 100; counter++ {
		name = fmt.Sprintf("%s%s-%s-%d%s", constants.BackupFilePrefix, source, timestamp, counter, constants.BackupFileSuffix)
		path = filepath.Join(m.backupDir, name)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path, nil
		}
	}
	return "", fmt.Errorf("failed to generate unique backup filename for %s", dbPath)
}

// backupDatabase copies src to dest via SQLite's VACUUM INTO, which
// produces a consistent snapshot even while the source is open. Falls back
// to a plain file copy when VACUUM INTO is unavailable.
func backupDatabase(src, dest string) error {
	srcDB, err := sql.Open("sqlite", src+"?mode=ro")
	if err != nil {
		return fmt.Errorf("failed to open source database: %w", err)
	}
	defer srcDB.Close()

	var count int
	if err := srcDB.QueryRow("SELECT COUNT(*) FROM sqlite_master").Scan(&count); err != nil {
		return fmt.Errorf("source database appears to be corrupted: %w", err)
	}

	if _, err := srcDB.Exec("VACUUM INTO ?", dest); err != nil {
		srcDB.Close()
		return copyFile(src, dest)
	}
	return nil
}

// ListBackups returns every backup on disk, newest first.
func (m *Manager) ListBackups() ([]Info, error) {
	if _, err := os.Stat(m.backupDir); os.IsNotExist(err) {
		return []Info{}, nil
	}

	entries, err := os.ReadDir(m.backupDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var backups []Info
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasPrefix(name, constants.BackupFilePrefix) || !strings.HasSuffix(name, constants.BackupFileSuffix) {
			continue
		}

		source, timestamp, ok := parseBackupName(name)
		if !ok {
			continue
		}

		path := filepath.Join(m.backupDir, name)
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		backups = append(backups, Info{
			Path:      path,
			Source:    source,
			Timestamp: timestamp,
			Size:      info.Size(),
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].Timestamp.After(backups[j].Timestamp)
	})
	return backups, nil
}

// parseBackupName extracts the source database stem and timestamp from a
// backup filename of the form <prefix><source>-YYYYMMDD-HHMMSS[-N].db.
func parseBackupName(name string) (string, time.Time, bool) {
	stem := strings.TrimPrefix(name, constants.BackupFilePrefix)
	stem = strings.TrimSuffix(stem, constants.BackupFileSuffix)

	parts := strings.Split(stem, "-")
	if len(parts) < 3 {
		return "", time.Time{}, false
	}

	// Drop a trailing dedup counter if present.
	if len(parts) > 3 && len(parts[len(parts)-1]) < 4 {
		parts = parts[:len(parts)-1]
	}

	timestampStr := strings.Join(parts[len(parts)-2:], "-")
	timestamp, err := time.Parse("20060102-150405", timestampStr)
	if err != nil {
		return "", time.Time{}, false
	}

	source := strings.Join(parts[:len(parts)-2], "-")
	return source, timestamp, true
}

// rotateBackups trims each source's backups down to the retention limit.
func (m *Manager) rotateBackups() error {
	backups, err := m.ListBackups()
	if err != nil {
		return err
	}

	perSource := make(map[string][]Info)
	for _, b := range backups {
		perSource[b.Source] = append(perSource[b.Source], b)
	}

	for _, group := range perSource {
		if len(group) <= constants.MaxBackups {
			continue
		}
		for i := constants.MaxBackups; i < len(group); i++ {
			if err := os.Remove(group[i].Path); err != nil {
				return fmt.Errorf("failed to remove old backup %s: %w", group[i].Path, err)
			}
		}
	}
	return nil
}

// RestoreBackup replaces a managed database file with the given backup.
// The target is chosen by matching the backup's source stem against the
// managed paths. The current file is snapshotted first.
func (m *Manager) RestoreBackup(backupPath string) error {
	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		return fmt.Errorf("backup file does not exist: %s", backupPath)
	}

	source, _, ok := parseBackupName(filepath.Base(backupPath))
	if !ok {
		return fmt.Errorf("unrecognized backup filename: %s", filepath.Base(backupPath))
	}

	var dbPath string
	for _, p := range m.dbPaths {
		if strings.TrimSuffix(filepath.Base(p), constants.BackupFileSuffix) == source {
			dbPath = p
			break
		}
	}
	if dbPath == "" {
		return fmt.Errorf("backup %s does not match any managed database", filepath.Base(backupPath))
	}

	if err := verifyBackup(backupPath); err != nil {
		return fmt.Errorf("backup file is corrupted or invalid: %w", err)
	}

	if _, err := os.Stat(dbPath); err == nil {
		created, err := m.createBackup(true)
		if err != nil {
			return fmt.Errorf("failed to backup current database before restore: %w", err)
		}
		for _, c := range created {
			fmt.Printf("Created backup of current database: %s\n", filepath.Base(c))
		}
	}

	// Copy then rename so the swap is atomic.
	tempPath := dbPath + ".restore.tmp"
	if err := copyFile(backupPath, tempPath); err != nil {
		return fmt.Errorf("failed to copy backup file: %w", err)
	}
	if err := os.Rename(tempPath, dbPath); err != nil {
		if removeErr := os.Remove(tempPath); removeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to remove temporary file %s: %v\n", tempPath, removeErr)
		}
		return fmt.Errorf("failed to restore database: %w", err)
	}
	return nil
}

// verifyBackup checks that path is a readable SQLite database.
func verifyBackup(path string) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return err
	}
	defer db.Close()

	var count int
	return db.QueryRow("SELECT COUNT(*) FROM sqlite_master").Scan(&count)
}

func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	if _, err := destFile.ReadFrom(sourceFile); err != nil {
		return err
	}
	return destFile.Sync()
}
