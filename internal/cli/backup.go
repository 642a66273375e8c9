package cli

import (
	"fmt"
	"path/filepath"

	"github.com/radicool/habitkeep/internal/backup"
)

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *Context) error {
	mgr := backup.NewManager(ctx.Habits.GetPath(), ctx.Completions.GetPath())
	created, err := mgr.CreateBackup()
	if err != nil {
		return err
	}

	for _, path := range created {
		fmt.Printf("Created backup: %s\n", filepath.Base(path))
	}
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *Context) error {
	mgr := backup.NewManager(ctx.Habits.GetPath(), ctx.Completions.GetPath())
	backups, err := mgr.ListBackups()
	if err != nil {
		return err
	}

	if len(backups) == 0 {
		fmt.Println("No backups found.")
		return nil
	}

	fmt.Printf("%-50s %-20s %s\n", "FILE", "CREATED", "SIZE")
	for _, b := range backups {
		fmt.Printf("%-50s %-20s %d bytes\n",
			filepath.Base(b.Path), b.Timestamp.Format("2006-01-02 15:04:05"), b.Size)
	}
	return nil
}

type BackupRestoreCmd struct {
	Path string `arg:"" help:"Backup file to restore." type:"path"`
}

func (c *BackupRestoreCmd) Run(ctx *Context) error {
	// Close open handles before the file swap.
	if err := ctx.Habits.Close(); err != nil {
		return err
	}
	if err := ctx.Completions.Close(); err != nil {
		return err
	}

	mgr := backup.NewManager(ctx.Habits.GetPath(), ctx.Completions.GetPath())
	if err := mgr.RestoreBackup(c.Path); err != nil {
		return err
	}

	fmt.Printf("Restored %s\n", filepath.Base(c.Path))
	return nil
}
