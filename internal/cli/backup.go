package cli

import (
	"fmt"

	"github.com/sovanreach/weekplan/internal/backup"
)

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *Context) error {
	// Close any open handle so the copy sees a consistent file
	if err := ctx.Provider.Close(); err != nil {
		return err
	}

	mgr := backup.NewManager(ctx.Provider.Path())
	path, err := mgr.CreateBackup()
	if err != nil {
		return err
	}

	fmt.Printf("Created backup: %s\n", path)
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *Context) error {
	mgr := backup.NewManager(ctx.Provider.Path())
	backups, err := mgr.ListBackups()
	if err != nil {
		return err
	}

	if len(backups) == 0 {
		fmt.Println("No backups found")
		return nil
	}

	for _, b := range backups {
		fmt.Printf("%s  %8d bytes  %s\n", b.Timestamp.Format("2006-01-02 15:04:05"), b.Size, b.Path)
	}
	return nil
}

type BackupRestoreCmd struct {
	Path string `arg:"" help:"Backup file to restore."`
}

func (c *BackupRestoreCmd) Run(ctx *Context) error {
	if err := ctx.Provider.Close(); err != nil {
		return err
	}

	mgr := backup.NewManager(ctx.Provider.Path())
	if err := mgr.RestoreBackup(c.Path); err != nil {
		return err
	}

	fmt.Printf("Restored backup %s\n", c.Path)
	return nil
}
